package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/axleworks/partext/pkg"
	"github.com/axleworks/partext/store"
)

// Export writes every stored text to a CSV interchange file.
type Export struct {
	Output string `arg:"" help:"Output file or '-' for stdout" default:"-" optional:""`
}

// Run executes the export command.
func (e *Export) Run(ctx context.Context) (err error) {
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

	var w io.Writer = os.Stdout

	if e.Output != "-" {
		file, err := os.Create(e.Output)
		if err != nil {
			return ErrWriteFile.Wrap(err).
				With(slog.String("file", e.Output))
		}
		defer file.Close()

		w = file
	}

	return store.ExportCSV(w, pkg.Version(), texts)
}
