package cmd

import (
	"context"
	"errors"
	"testing"

	"github.com/axleworks/partext/snapshot"
)

const testDoc = `
document:
  name: My File v24
  saved: true
  version: 24
  saved-at: 2020-10-24T14:05:00Z
parameters:
  - name: d10
    expression: 223 mm
    unit: mm
components:
  - name: Component1 v7
    description: Main bracket
    part-number: PN-0042
sketches:
  - name: Sketch1
    component: Component1 v7
`

func TestEnvironment_RoundTrip(t *testing.T) {
	env := Environment{
		SnapshotPath: "doc.yaml",
		StorePath:    "texts.db",
		CacheDir:     "/tmp/cache",
	}

	ctx := WithEnvironment(context.Background(), env)

	if got := environmentFrom(ctx); got != env {
		t.Errorf("environmentFrom() = %+v, want %+v", got, env)
	}
}

func TestEnvironment_ZeroWhenUnset(t *testing.T) {
	if got := environmentFrom(context.Background()); got != (Environment{}) {
		t.Errorf("environmentFrom() = %+v, want zero", got)
	}
}

func TestLoadSnapshot_RequiresPath(t *testing.T) {
	_, err := loadSnapshot(context.Background())
	if !errors.Is(err, ErrNoSnapshot) {
		t.Errorf("loadSnapshot() error = %v, want ErrNoSnapshot", err)
	}
}

func TestEntityFor(t *testing.T) {
	snap, err := snapshot.Decode([]byte(testDoc))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	entity, err := entityFor(snap, "Sketch1")
	if err != nil {
		t.Fatalf("entityFor(Sketch1) error = %v", err)
	}

	if got := entity.SketchName(); got != "Sketch1" {
		t.Errorf("SketchName() = %q, want Sketch1", got)
	}

	entity, err = entityFor(snap, "")
	if err != nil || entity != nil {
		t.Errorf("entityFor(\"\") = (%v, %v), want (nil, nil)", entity, err)
	}

	if _, err := entityFor(snap, "Nope"); !errors.Is(err, ErrUnknownSketch) {
		t.Errorf("entityFor(Nope) error = %v, want ErrUnknownSketch", err)
	}
}

func TestBoundSketch(t *testing.T) {
	tests := []struct {
		name     string
		bound    []string
		override string
		want     string
	}{
		{"override_wins", []string{"Sketch1"}, "Sketch2", "Sketch2"},
		{"first_binding", []string{"Sketch1", "Sketch2"}, "", "Sketch1"},
		{"no_bindings", nil, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := boundSketch(tt.bound, tt.override); got != tt.want {
				t.Errorf("boundSketch(%v, %q) = %q, want %q",
					tt.bound, tt.override, got, tt.want)
			}
		})
	}
}
