package cache

// ArtifactKeyOpts holds every option that changes a rendered artifact.
type ArtifactKeyOpts struct {
	Viz       string   `json:"viz"`
	Format    string   `json:"format"`
	Fields    []string `json:"fields"`
	Domains   any      `json:"domains,omitempty"`
	Width     float64  `json:"width"`
	Height    float64  `json:"height"`
	Margin    any      `json:"margin,omitempty"`
	Padding   any      `json:"padding,omitempty"`
	Tiling    string   `json:"tiling,omitempty"`
	Selection string   `json:"selection,omitempty"`
	Separator string   `json:"separator,omitempty"`
	Engine    string   `json:"engine,omitempty"`
	MaxTicks  int      `json:"max_ticks,omitempty"`
	Force     any      `json:"force,omitempty"`
	Seed      int64    `json:"seed,omitempty"`
	Palette   any      `json:"palette,omitempty"`
	Where     []string `json:"where,omitempty"`
	Static    bool     `json:"static,omitempty"`
	PNGScale  float64  `json:"png_scale,omitempty"`
}

// Keyer builds cache keys.
type Keyer interface {
	// RecordsKey identifies a loaded record set by source content hash and
	// loader options.
	RecordsKey(sourceHash string, loader any) string
	// ArtifactKey identifies one rendered output of a record set.
	ArtifactKey(recordsHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer hashes key parts with SHA-256.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// RecordsKey returns "records:<hash>".
func (DefaultKeyer) RecordsKey(sourceHash string, loader any) string {
	return hashKey("records", sourceHash, loader)
}

// ArtifactKey returns "artifact:<hash>".
func (DefaultKeyer) ArtifactKey(recordsHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", recordsHash, opts)
}

// ScopedKeyer prefixes every key of an inner keyer, so the preview host
// and the CLI can share a cache directory without sharing artifacts.
type ScopedKeyer struct {
	Inner  Keyer
	Prefix string
}

// NewScopedKeyer returns inner scoped under prefix. A nil inner keyer
// means [DefaultKeyer].
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = DefaultKeyer{}
	}
	return ScopedKeyer{Inner: inner, Prefix: prefix}
}

func (k ScopedKeyer) RecordsKey(sourceHash string, loader any) string {
	return k.Prefix + k.Inner.RecordsKey(sourceHash, loader)
}

func (k ScopedKeyer) ArtifactKey(recordsHash string, opts ArtifactKeyOpts) string {
	return k.Prefix + k.Inner.ArtifactKey(recordsHash, opts)
}
