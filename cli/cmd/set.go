package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/axleworks/partext/log"
)

// Set creates or updates a stored text, optionally binding it to sketches.
type Set struct {
	Template string `arg:"" help:"Template text to store"`

	ID     int      `help:"Text id (the next free id when omitted)" short:"i"`
	Sketch []string `help:"Bind the text to these sketches"         short:"k"`
}

// Run executes the set command.
func (s *Set) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	st, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	id := s.ID
	if id == 0 {
		id, err = st.NextID(ctx)
		if err != nil {
			return err
		}
	}

	if err := st.Put(ctx, id, s.Template); err != nil {
		return err
	}

	for _, sketch := range s.Sketch {
		if err := st.Bind(ctx, id, sketch); err != nil {
			return err
		}
	}

	log.DebugContext(ctx, "stored text",
		slog.Int("id", id),
		slog.Int("sketches", len(s.Sketch)),
	)

	fmt.Println(id)

	return nil
}
