package cmd

import (
	"context"
	"fmt"

	"github.com/axleworks/partext/pkg"
)

// Version prints the program name and version.
type Version struct{}

// Run executes the version command.
func (Version) Run(context.Context) error {
	fmt.Println(pkg.Name, pkg.Version())

	return nil
}
