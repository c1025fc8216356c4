// Package snapshot loads a CAD document snapshot from YAML and exposes it as
// a template resolution source. A snapshot captures everything rendering
// needs from the host document: metadata, the parameter table, components,
// sketches, and the active configuration.
//
// Parameter expressions that are not plain numeric literals are evaluated
// with expr-lang over the other parameters' display values, iterated to a
// fixed point so parameters may reference each other in any order.
package snapshot

import (
	"log/slog"
	"os"
	"regexp"
	"strconv"
	"time"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/goccy/go-yaml"

	"github.com/axleworks/partext/tmpl"
)

// literalPattern recognizes "<number> [unit]" expressions that need no
// evaluation, e.g. "223 mm" or "3".
var literalPattern = regexp.MustCompile(
	`^\s*(-?\d+(?:\.\d+)?(?:[eE][+-]?\d+)?)(?:\s+([A-Za-z]+))?\s*$`,
)

type fileDocument struct {
	Name    string    `yaml:"name"`
	Saved   bool      `yaml:"saved"`
	Version int       `yaml:"version"`
	SavedAt time.Time `yaml:"saved-at"`
}

type fileParameter struct {
	Name       string   `yaml:"name"`
	Value      *float64 `yaml:"value"`
	Unit       string   `yaml:"unit"`
	Expression string   `yaml:"expression"`
	Comment    string   `yaml:"comment"`
}

type fileComponent struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	PartNumber  string `yaml:"part-number"`
}

type fileSketch struct {
	Name      string `yaml:"name"`
	Component string `yaml:"component"`
}

type file struct {
	Document      *fileDocument   `yaml:"document"`
	Configuration string          `yaml:"configuration"`
	Parameters    []fileParameter `yaml:"parameters"`
	Components    []fileComponent `yaml:"components"`
	Sketches      []fileSketch    `yaml:"sketches"`
}

// Snapshot is a fully resolved document snapshot. It implements tmpl.Source
// and is immutable after Load, so it may be shared across goroutines.
type Snapshot struct {
	doc    tmpl.Document
	config string

	params map[string]tmpl.Parameter
	order  []string

	components map[string]fileComponent
	sketches   []fileSketch
}

// Load reads and resolves a snapshot file.
func Load(path string) (*Snapshot, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, ErrReadSnapshot.Wrap(err).
			With(slog.String("path", path))
	}

	return Decode(raw)
}

// Decode resolves a snapshot from YAML bytes.
func Decode(raw []byte) (*Snapshot, error) {
	var f file
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, ErrDecodeYAML.Wrap(err)
	}

	if f.Document == nil {
		return nil, ErrNoDocument
	}

	s := &Snapshot{
		doc: tmpl.Document{
			Name:    f.Document.Name,
			Saved:   f.Document.Saved,
			Version: f.Document.Version,
			SavedAt: f.Document.SavedAt,
		},
		config:     f.Configuration,
		params:     make(map[string]tmpl.Parameter, len(f.Parameters)),
		order:      make([]string, 0, len(f.Parameters)),
		components: make(map[string]fileComponent, len(f.Components)),
		sketches:   f.Sketches,
	}

	for _, c := range f.Components {
		s.components[c.Name] = c
	}

	for _, sk := range f.Sketches {
		if _, ok := s.components[sk.Component]; !ok && sk.Component != "" {
			return nil, ErrBadSketch.
				With(
					slog.String("sketch", sk.Name),
					slog.String("component", sk.Component),
				)
		}
	}

	if err := s.resolveParameters(f.Parameters); err != nil {
		return nil, err
	}

	return s, nil
}

// resolveParameters fills s.params from the file's parameter table. Literal
// parameters resolve immediately; computed parameters iterate to a fixed
// point so they may reference each other in any declaration order.
func (s *Snapshot) resolveParameters(params []fileParameter) error {
	pending := make([]fileParameter, 0, len(params))

	for _, p := range params {
		if _, dup := s.params[p.Name]; dup {
			return ErrDuplicateName.With(slog.String("name", p.Name))
		}

		value, ok, err := literalValue(p)
		if err != nil {
			return err
		}

		s.order = append(s.order, p.Name)

		if !ok {
			// Placeholder entry keeps name order; value arrives below.
			s.params[p.Name] = tmpl.Parameter{}
			pending = append(pending, p)

			continue
		}

		s.params[p.Name] = tmpl.Parameter{
			Value:      value,
			Unit:       p.Unit,
			Expression: p.Expression,
			Comment:    p.Comment,
		}
	}

	return s.resolveComputed(pending)
}

// literalValue resolves a parameter that needs no expression evaluation:
// either an explicit internal-unit value, or a "<number> [unit]" expression.
// ok=false means the parameter is computed.
func literalValue(p fileParameter) (float64, bool, error) {
	if p.Value != nil {
		return *p.Value, true, nil
	}

	m := literalPattern.FindStringSubmatch(p.Expression)
	if m == nil {
		return 0, false, nil
	}

	n, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false, ErrExprEvaluate.Wrap(err).
			With(slog.String("name", p.Name))
	}

	unit := m[2]
	if unit == "" {
		unit = p.Unit
	}

	if unit == "" {
		return n, true, nil
	}

	if !KnownUnit(unit) {
		return 0, false, ErrUnknownUnit.
			With(slog.String("name", p.Name), slog.String("unit", unit))
	}

	return n * unitScale[unit], true, nil
}

// resolveComputed evaluates computed parameters over the display values of
// already-resolved ones, repeating until no pass makes progress. Anything
// still unresolved then is a reference cycle (or a reference to a parameter
// that does not exist, which surfaces as the compile error of its last
// attempt).
func (s *Snapshot) resolveComputed(pending []fileParameter) error {
	var lastErr error

	for len(pending) > 0 {
		var (
			next     []fileParameter
			progress bool
		)

		env := s.displayEnv(pending)

		for _, p := range pending {
			value, err := s.evalExpression(p, env)
			if err != nil {
				lastErr = err

				next = append(next, p)

				continue
			}

			internal := value
			if p.Unit != "" {
				internal = s.Convert(value, p.Unit, internalUnit)
			}

			s.params[p.Name] = tmpl.Parameter{
				Value:      internal,
				Unit:       p.Unit,
				Expression: p.Expression,
				Comment:    p.Comment,
			}

			progress = true
		}

		if !progress {
			names := make([]string, len(next))
			for i, p := range next {
				names[i] = p.Name
			}

			return ErrExprCycle.Wrap(lastErr).
				With(slog.Any("unresolved", names))
		}

		pending = next
	}

	return nil
}

// displayEnv builds the expression environment: every resolved parameter by
// name, valued in its own display unit. Pending parameters are excluded so a
// reference to one fails compilation and defers to a later pass.
func (s *Snapshot) displayEnv(pending []fileParameter) map[string]any {
	unresolved := make(map[string]bool, len(pending))
	for _, p := range pending {
		unresolved[p.Name] = true
	}

	env := make(map[string]any, len(s.params))

	for name, p := range s.params {
		if unresolved[name] {
			continue
		}

		value := p.Value
		if p.Unit != "" {
			value = s.Convert(p.Value, internalUnit, p.Unit)
		}

		env[name] = value
	}

	return env
}

// evalExpression compiles and runs one computed expression, coercing the
// result to float64.
func (s *Snapshot) evalExpression(
	p fileParameter,
	env map[string]any,
) (float64, error) {
	program, err := expr.Compile(p.Expression, expr.Env(env))
	if err != nil {
		return 0, ErrExprCompile.Wrap(err).
			With(
				slog.String("name", p.Name),
				slog.String("expression", p.Expression),
			)
	}

	result, err := vm.Run(program, env)
	if err != nil {
		return 0, ErrExprEvaluate.Wrap(err).
			With(
				slog.String("name", p.Name),
				slog.String("expression", p.Expression),
			)
	}

	switch v := result.(type) {
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	}

	return 0, ErrExprType.
		With(
			slog.String("name", p.Name),
			slog.String("expression", p.Expression),
		)
}

// Parameter implements tmpl.Source.
func (s *Snapshot) Parameter(name string) (tmpl.Parameter, bool) {
	p, ok := s.params[name]

	return p, ok
}

// Document implements tmpl.Source.
func (s *Snapshot) Document() tmpl.Document { return s.doc }

// Configuration implements tmpl.Source.
func (s *Snapshot) Configuration() (string, bool) {
	return s.config, s.config != ""
}

// ParameterNames returns parameter names in declaration order.
func (s *Snapshot) ParameterNames() []string {
	names := make([]string, len(s.order))
	copy(names, s.order)

	return names
}

// SketchNames returns sketch names in declaration order.
func (s *Snapshot) SketchNames() []string {
	names := make([]string, len(s.sketches))
	for i, sk := range s.sketches {
		names[i] = sk.Name
	}

	return names
}

// Entity returns the rendering context for a named sketch.
func (s *Snapshot) Entity(sketchName string) (tmpl.Entity, bool) {
	for _, sk := range s.sketches {
		if sk.Name != sketchName {
			continue
		}

		return sketchEntity{
			sketch:    sk,
			component: s.components[sk.Component],
		}, true
	}

	return nil, false
}

// sketchEntity adapts one sketch row and its owning component to
// tmpl.Entity.
type sketchEntity struct {
	sketch    fileSketch
	component fileComponent
}

func (e sketchEntity) ComponentName() string        { return e.component.Name }
func (e sketchEntity) ComponentDescription() string { return e.component.Description }
func (e sketchEntity) PartNumber() string           { return e.component.PartNumber }
func (e sketchEntity) SketchName() string           { return e.sketch.Name }
