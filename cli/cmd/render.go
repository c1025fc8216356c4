package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/axleworks/partext/snapshot"
	"github.com/axleworks/partext/tmpl"
)

// Render expands template text against the document snapshot. Templates may
// be given as arguments, looked up in the text store by id, or all stored
// texts may be rendered at once.
type Render struct {
	Templates []string `arg:"" help:"Template text to render" name:"template" optional:""`

	ID          []int  `help:"Render the stored text with this id"                   short:"i"`
	All         bool   `help:"Render every stored text"                              short:"a"`
	Sketch      string `help:"Resolve sketch values against this sketch"             short:"k"`
	NextVersion bool   `help:"Render as if the document were about to be saved" name:"next-version" short:"n"`
}

// Run executes the render command.
func (r *Render) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	snap, err := loadSnapshot(ctx)
	if err != nil {
		return err
	}

	entity, err := entityFor(snap, r.Sketch)
	if err != nil {
		return err
	}

	gen := tmpl.New(snap)
	opts := []tmpl.Option{tmpl.WithNextVersion(r.NextVersion)}

	for _, template := range r.Templates {
		fmt.Println(gen.Generate(template, entity, opts...))
	}

	if len(r.ID) == 0 && !r.All {
		if len(r.Templates) == 0 {
			return ErrNothingToDo
		}

		return nil
	}

	st, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	if r.All {
		texts, err := st.All(ctx)
		if err != nil {
			return err
		}

		for _, t := range texts {
			entity, err := entityFor(snap, boundSketch(t.Sketches, r.Sketch))
			if err != nil {
				return err
			}

			fmt.Printf("%d\t%s\n", t.ID, gen.Generate(t.Template, entity, opts...))
		}

		return nil
	}

	for _, id := range r.ID {
		template, err := st.Get(ctx, id)
		if err != nil {
			return err
		}

		fmt.Println(gen.Generate(template, entity, opts...))
	}

	return nil
}

// entityFor resolves a sketch name to its snapshot entity. An empty name
// yields a nil entity, which renders sketch-scoped values as unavailable.
func entityFor(snap *snapshot.Snapshot, sketch string) (tmpl.Entity, error) {
	if sketch == "" {
		return nil, nil
	}

	entity, ok := snap.Entity(sketch)
	if !ok {
		return nil, ErrUnknownSketch.With(slog.String("sketch", sketch))
	}

	return entity, nil
}

// boundSketch picks the sketch to render a stored text against: an explicit
// override wins, otherwise the text's first binding.
func boundSketch(bound []string, override string) string {
	if override != "" {
		return override
	}

	if len(bound) > 0 {
		return bound[0]
	}

	return ""
}
