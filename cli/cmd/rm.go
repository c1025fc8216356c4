package cmd

import (
	"context"
	"log/slog"

	"github.com/axleworks/partext/log"
)

// Rm removes a stored text, or only some of its sketch bindings when
// --sketch is given.
type Rm struct {
	ID int `arg:"" help:"Text id to remove"`

	Sketch []string `help:"Remove only these sketch bindings" short:"k"`
}

// Run executes the rm command.
func (r *Rm) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	st, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	if len(r.Sketch) == 0 {
		if err := st.Remove(ctx, r.ID); err != nil {
			return err
		}

		log.DebugContext(ctx, "removed text", slog.Int("id", r.ID))

		return nil
	}

	for _, sketch := range r.Sketch {
		if err := st.Unbind(ctx, r.ID, sketch); err != nil {
			return err
		}
	}

	log.DebugContext(ctx, "removed bindings",
		slog.Int("id", r.ID),
		slog.Int("sketches", len(r.Sketch)),
	)

	return nil
}
