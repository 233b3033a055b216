// Package version exposes build-time version metadata.
package version

// BlockgenVersion is the semantic version string embedded at build time.
var BlockgenVersion = "0.0.0-src"

// UserAgent returns the default User-Agent sent when downloading block lists.
func UserAgent() string {
	return "blockgen/" + BlockgenVersion
}

// Set version at compile time with
// go build -ldflags "-X blockgen/pkg/version.BlockgenVersion=1.0.0" -o blockgen

// For a release build with version and optimization flags:
// go build -ldflags "-s -w -X blockgen/pkg/version.BlockgenVersion=1.0.0" -o blockgen
