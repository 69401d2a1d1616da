package stepwise

import (
	_ "embed"
	"strings"
)

// Version is the release version, read from the VERSION file.
//
//go:embed VERSION
var Version string

func init() {
	Version = strings.TrimSpace(Version)
}
