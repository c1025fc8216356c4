//nolint:gochecknoglobals
package pkg

import (
	_ "embed"
	"strings"
)

//go:embed VERSION
var version string

// Version returns the semantic version of the partext module embedded at
// build time, with surrounding whitespace removed.
func Version() string {
	return strings.TrimSpace(version)
}

const (
	// Name is the canonical command and module identifier used across the
	// project. For example, it appears in help text and default config paths.
	Name = "partext"
	// Description is a short, human-readable summary of the project used in
	// help output and documentation.
	Description = "Parametric text renderer for CAD document snapshots"
)
