package cmd

import (
	"context"

	"github.com/alecthomas/kong"

	"github.com/axleworks/partext/snapshot"
	"github.com/axleworks/partext/store"
)

// contextKey is used to store a [kong.Context] value in [context.Context].
type contextKey struct{}

// WithContext returns a new context.Context containing the given kong.Context.
func WithContext(ctx context.Context, ktx *kong.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ktx)
}

func kongContextFrom(ctx context.Context) *kong.Context {
	ktx, ok := ctx.Value(contextKey{}).(*kong.Context)
	if !ok || ktx == nil {
		return nil
	}

	return ktx
}

type environmentKey struct{}

// Environment carries the paths resolved by the CLI layer: where the document
// snapshot lives, where the text store database lives, and where runtime
// artifacts such as REPL history belong.
type Environment struct {
	SnapshotPath string
	StorePath    string
	CacheDir     string
}

// WithEnvironment returns a new context.Context containing env.
func WithEnvironment(ctx context.Context, env Environment) context.Context {
	return context.WithValue(ctx, environmentKey{}, env)
}

func environmentFrom(ctx context.Context) Environment {
	env, _ := ctx.Value(environmentKey{}).(Environment)

	return env
}

// loadSnapshot reads the document snapshot named by the environment.
func loadSnapshot(ctx context.Context) (*snapshot.Snapshot, error) {
	env := environmentFrom(ctx)
	if env.SnapshotPath == "" {
		return nil, ErrNoSnapshot
	}

	return snapshot.Load(env.SnapshotPath)
}

// openStore opens the text store database named by the environment.
func openStore(ctx context.Context) (*store.Store, error) {
	return store.Open(ctx, environmentFrom(ctx).StorePath)
}
