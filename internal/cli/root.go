package cli

import "github.com/matzehuels/tablescope/pkg/buildinfo"

// SetVersion overrides the build information shown by --version. main
// passes its own ldflags-injected values; empty ones leave the
// buildinfo defaults in place.
func SetVersion(version, commit, date string) {
	for _, kv := range []struct {
		dst *string
		val string
	}{
		{&buildinfo.Version, version},
		{&buildinfo.Commit, commit},
		{&buildinfo.Date, date},
	} {
		if kv.val != "" {
			*kv.dst = kv.val
		}
	}
}
