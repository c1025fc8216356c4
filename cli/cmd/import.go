package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/axleworks/partext/log"
	"github.com/axleworks/partext/store"
)

// Import reads texts from a CSV interchange file into the store. Existing
// texts with matching ids are replaced; sketch bindings are added.
type Import struct {
	Input string `arg:"" help:"Input file or '-' for stdin" default:"-" optional:""`
}

// Run executes the import command.
func (i *Import) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	var r io.Reader = os.Stdin

	if i.Input != "-" {
		file, err := os.Open(i.Input)
		if err != nil {
			return ErrReadFile.Wrap(err).
				With(slog.String("file", i.Input))
		}
		defer file.Close()

		r = file
	}

	texts, err := store.ImportCSV(r)
	if err != nil {
		return err
	}

	st, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	for _, t := range texts {
		if err := st.Put(ctx, t.ID, t.Template); err != nil {
			return err
		}

		for _, sketch := range t.Sketches {
			if err := st.Bind(ctx, t.ID, sketch); err != nil {
				return err
			}
		}
	}

	log.DebugContext(ctx, "imported texts", slog.Int("count", len(texts)))

	return nil
}
