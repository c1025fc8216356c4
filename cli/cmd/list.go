package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/axleworks/partext/tmpl"
)

// List prints every stored text with its sketch bindings. When a snapshot is
// available and --render is given, each template is also rendered.
type List struct {
	Render bool `help:"Render each template against the snapshot" short:"r"`
}

// Run executes the list command.
func (l *List) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	st, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	texts, err := st.All(ctx)
	if err != nil {
		return err
	}

	var gen *tmpl.Generator

	if l.Render {
		snap, err := loadSnapshot(ctx)
		if err != nil {
			return err
		}

		gen = tmpl.New(snap)
	}

	for _, t := range texts {
		fmt.Printf("%d\t%s\t%s", t.ID, t.Template, strings.Join(t.Sketches, ","))

		if gen != nil {
			fmt.Printf("\t%s", gen.Generate(t.Template, nil))
		}

		fmt.Println()
	}

	return nil
}
