package snapshot

import (
	"errors"
	"testing"
	"time"

	"github.com/axleworks/partext/tmpl"
)

const testDoc = `
document:
  name: My File v24
  saved: true
  version: 24
  saved-at: 2020-10-24T14:05:00Z
configuration: Large
parameters:
  - name: d10
    expression: 223 mm
    unit: mm
    comment: My comment
  - name: count
    expression: "3"
  - name: width
    expression: 1.25 in
    unit: in
  - name: half
    expression: d10 / 2
    unit: mm
  - name: quarter
    expression: half / 2
    unit: mm
components:
  - name: Component1 v7
    description: Main bracket
    part-number: PN-0042
sketches:
  - name: Sketch1
    component: Component1 v7
  - name: Sketch2
    component: Component1 v7
`

func decodeTestDoc(t *testing.T) *Snapshot {
	t.Helper()

	s, err := Decode([]byte(testDoc))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	return s
}

func TestDecode_Document(t *testing.T) {
	s := decodeTestDoc(t)

	doc := s.Document()
	if doc.Name != "My File v24" {
		t.Errorf("document name = %q", doc.Name)
	}

	if !doc.Saved || doc.Version != 24 {
		t.Errorf("saved/version = %v/%d, want true/24", doc.Saved, doc.Version)
	}

	want := time.Date(2020, 10, 24, 14, 5, 0, 0, time.UTC)
	if !doc.SavedAt.Equal(want) {
		t.Errorf("saved-at = %v, want %v", doc.SavedAt, want)
	}

	config, ok := s.Configuration()
	if !ok || config != "Large" {
		t.Errorf("configuration = %q/%v, want Large/true", config, ok)
	}
}

func TestDecode_LiteralParameters(t *testing.T) {
	s := decodeTestDoc(t)

	tests := []struct {
		name      string
		wantValue float64 // internal units
		wantUnit  string
	}{
		{"d10", 22.3, "mm"},   // 223 mm = 22.3 cm
		{"count", 3, ""},      // unit-less
		{"width", 3.175, "in"}, // 1.25 in = 3.175 cm
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, ok := s.Parameter(tt.name)
			if !ok {
				t.Fatalf("parameter %q not found", tt.name)
			}

			if !almostEqual(p.Value, tt.wantValue) {
				t.Errorf("value = %v, want %v", p.Value, tt.wantValue)
			}

			if p.Unit != tt.wantUnit {
				t.Errorf("unit = %q, want %q", p.Unit, tt.wantUnit)
			}
		})
	}
}

func TestDecode_ComputedParameters(t *testing.T) {
	s := decodeTestDoc(t)

	// half = d10/2 = 111.5 mm = 11.15 cm; quarter chains off half.
	half, ok := s.Parameter("half")
	if !ok || !almostEqual(half.Value, 11.15) {
		t.Fatalf("half = %v/%v, want 11.15/true", half.Value, ok)
	}

	quarter, ok := s.Parameter("quarter")
	if !ok || !almostEqual(quarter.Value, 5.575) {
		t.Fatalf("quarter = %v/%v, want 5.575/true", quarter.Value, ok)
	}
}

func TestDecode_ExpressionCycle(t *testing.T) {
	doc := `
document:
  name: Cyclic
parameters:
  - name: a
    expression: b + 1
  - name: b
    expression: a + 1
`

	_, err := Decode([]byte(doc))
	if !errors.Is(err, ErrExprCycle) {
		t.Fatalf("Decode error = %v, want %v", err, ErrExprCycle)
	}
}

func TestDecode_DuplicateParameter(t *testing.T) {
	doc := `
document:
  name: Dup
parameters:
  - name: a
    expression: "1"
  - name: a
    expression: "2"
`

	_, err := Decode([]byte(doc))
	if !errors.Is(err, ErrDuplicateName) {
		t.Fatalf("Decode error = %v, want %v", err, ErrDuplicateName)
	}
}

func TestDecode_MissingDocument(t *testing.T) {
	_, err := Decode([]byte(`parameters: []`))
	if !errors.Is(err, ErrNoDocument) {
		t.Fatalf("Decode error = %v, want %v", err, ErrNoDocument)
	}
}

func TestDecode_UnknownSketchComponent(t *testing.T) {
	doc := `
document:
  name: Bad
sketches:
  - name: Sketch1
    component: Nope
`

	_, err := Decode([]byte(doc))
	if !errors.Is(err, ErrBadSketch) {
		t.Fatalf("Decode error = %v, want %v", err, ErrBadSketch)
	}
}

func TestSnapshot_Entity(t *testing.T) {
	s := decodeTestDoc(t)

	entity, ok := s.Entity("Sketch1")
	if !ok {
		t.Fatal("Entity(Sketch1) not found")
	}

	if entity.ComponentName() != "Component1 v7" {
		t.Errorf("component = %q", entity.ComponentName())
	}

	if entity.ComponentDescription() != "Main bracket" {
		t.Errorf("description = %q", entity.ComponentDescription())
	}

	if entity.PartNumber() != "PN-0042" {
		t.Errorf("part number = %q", entity.PartNumber())
	}

	if entity.SketchName() != "Sketch1" {
		t.Errorf("sketch = %q", entity.SketchName())
	}

	if _, ok := s.Entity("Nope"); ok {
		t.Error("Entity(Nope) found, want miss")
	}
}

func TestSnapshot_Names(t *testing.T) {
	s := decodeTestDoc(t)

	wantParams := []string{"d10", "count", "width", "half", "quarter"}
	params := s.ParameterNames()

	if len(params) != len(wantParams) {
		t.Fatalf("ParameterNames = %v, want %v", params, wantParams)
	}

	for i, name := range wantParams {
		if params[i] != name {
			t.Errorf("ParameterNames[%d] = %q, want %q", i, params[i], name)
		}
	}

	sketches := s.SketchNames()
	if len(sketches) != 2 || sketches[0] != "Sketch1" || sketches[1] != "Sketch2" {
		t.Errorf("SketchNames = %v", sketches)
	}
}

func TestSnapshot_RendersThroughGenerator(t *testing.T) {
	s := decodeTestDoc(t)
	gen := tmpl.New(s)

	entity, _ := s.Entity("Sketch1")

	tests := []struct {
		name     string
		template string
		want     string
	}{
		{"parameter", "{d10} {d10.unit}", "223.0 mm"},
		{"computed", "{half:.1f}", "111.5"},
		{"inchfrac", "{width.inchfrac}", `1 1/4"`},
		{"version", "v{_.version}", "v24"},
		{"component", "{_.component}", "Component1"},
		{"configuration", "{_.configuration}", "Large"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := gen.Generate(tt.template, entity, tmpl.WithLocation(time.UTC))
			if got != tt.want {
				t.Errorf(
					"Generate(%q) = %q, want %q",
					tt.template, got, tt.want,
				)
			}
		})
	}
}

func almostEqual(a, b float64) bool {
	diff := a - b
	if diff < 0 {
		diff = -diff
	}

	return diff < 1e-9
}
