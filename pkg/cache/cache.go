// Package cache stores rendered artifacts between runs.
//
// The pipeline keys every artifact by the content hash of its input
// records plus the options that affect the output, so unchanged inputs
// skip hierarchy building, layout and rendering entirely.
//
// Implementations:
//   - [FileCache]: JSON entries with expiry under a directory (CLI default)
//   - [NullCache]: never stores anything (--no-cache)
//
// Keys come from a [Keyer]. [ScopedKeyer] prefixes every key so separate
// consumers, such as the preview host, get their own namespace.
package cache

import (
	"context"
	"time"
)

// Default time-to-live values per entry kind.
const (
	TTLArtifact = 7 * 24 * time.Hour
	TTLRecords  = 24 * time.Hour
)

// Cache is a byte store with optional expiry.
type Cache interface {
	// Get returns the stored value and whether it was found.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases resources.
	Close() error
}
