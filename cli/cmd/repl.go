package cmd

import (
	"context"

	"github.com/axleworks/partext/cli/cmd/repl"
	"github.com/axleworks/partext/log"
)

// Repl starts the interactive template preview console.
type Repl struct {
	Sketch string `help:"Start with this sketch selected" short:"k"`
}

// Run executes the repl command.
func (r *Repl) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	snap, err := loadSnapshot(ctx)
	if err != nil {
		return err
	}

	st, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close()

	return repl.Run(
		ctx,
		snap,
		st,
		environmentFrom(ctx).CacheDir,
		r.Sketch,
		log.Default(),
	)
}
