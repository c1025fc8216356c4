package tmpl

import (
	"regexp"
	"strconv"
	"time"
)

// systemVar is the sentinel variable naming the built-in namespace.
const systemVar = "_"

// internalUnit is the unit name of raw parameter values handed to Convert.
const internalUnit = "internalUnits"

// missingContext is substituted for entity-scoped members when no entity is
// being rendered (e.g. a preview not attached to any sketch text).
const missingContext = "<?>"

// noConfiguration is substituted for the configuration member when the
// document has no configuration table.
const noConfiguration = "<No configuration>"

// defaultDateFormat renders dates as ISO 8601 when the token gives no
// explicit strftime directives.
const defaultDateFormat = "%Y-%m-%d"

var (
	tokenPattern = regexp.MustCompile(`\{([^}]+)\}`)

	// Document and component names carry a version suffix such as
	// "My File v3" or "My File (v3~recovered)"; the suffix is stripped
	// before substitution.
	nameVersionPattern = regexp.MustCompile(` (?:v\d+|\(v\d+.*?\))$`)
)

// Parameter is one row of the document's parameter table. Value is in
// internal units; Unit is the parameter's declared display unit, or "" for
// unit-less parameters.
type Parameter struct {
	Value      float64
	Unit       string
	Expression string
	Comment    string
}

// Document is the read-only document metadata a Source exposes.
type Document struct {
	Name    string
	Saved   bool
	Version int
	SavedAt time.Time
}

// Source supplies parameter and document state to a Generator. It must be a
// read-only snapshot: the generator gives no consistency guarantee across
// two Generate calls if the source changes between them.
type Source interface {
	// Parameter looks up a document parameter by exact name.
	Parameter(name string) (Parameter, bool)

	// Convert converts a value between unit names. The fromUnit may be
	// the internal-unit sentinel handed to raw parameter values.
	Convert(value float64, fromUnit, toUnit string) float64

	// Document returns the document metadata snapshot.
	Document() Document

	// Configuration returns the active configuration row name, or
	// ok=false when the document has no configuration table.
	Configuration() (string, bool)
}

// Entity identifies the sketch text a template is being rendered for.
// A nil Entity is valid: entity-scoped members then degrade to a fixed
// placeholder instead of failing the render.
type Entity interface {
	ComponentName() string
	ComponentDescription() string
	PartNumber() string
	SketchName() string
}

// options configure a single Generate call.
type options struct {
	nextVersion bool
	now         func() time.Time
	loc         *time.Location
}

// Option applies a configuration option to a Generate call.
type Option func(options) options

// WithNextVersion renders as if a pending save had already occurred: the
// version member increments and the date member reads the current time.
// Used when text is evaluated just before persisting a new revision.
func WithNextVersion(enable bool) Option {
	return func(o options) options {
		o.nextVersion = enable

		return o
	}
}

// WithClock overrides the time source consulted by the date member for
// unsaved documents and next-version renders.
func WithClock(now func() time.Time) Option {
	return func(o options) options {
		if now != nil {
			o.now = now
		}

		return o
	}
}

// WithLocation overrides the local timezone used to render dates.
func WithLocation(loc *time.Location) Option {
	return func(o options) options {
		if loc != nil {
			o.loc = loc
		}

		return o
	}
}

// Generator expands substitution tokens against a document source.
type Generator struct {
	src Source
}

// New creates a Generator reading from the given source.
func New(src Source) *Generator {
	return &Generator{src: src}
}

// Generate expands every substitution token in template and returns the
// resulting text. Tokens are resolved left to right, each independently: a
// failure in one token renders as an inline bracketed diagnostic and never
// aborts the rest of the template. Generate does not mutate the source.
func (g *Generator) Generate(
	template string,
	entity Entity,
	opts ...Option,
) string {
	opt := options{now: time.Now, loc: time.Local}
	for _, o := range opts {
		opt = o(opt)
	}

	return tokenPattern.ReplaceAllStringFunc(template, func(tok string) string {
		return g.expand(tok[1:len(tok)-1], entity, opt)
	})
}

// expand resolves one token's inner text to its substituted string.
func (g *Generator) expand(token string, entity Entity, opt options) string {
	spec, ok := ParseSpec(token)
	if !ok {
		return "<Cannot parse: " + token + ">"
	}

	var (
		value  Value
		format = spec.Format
	)

	if spec.Var == systemVar {
		value, format, ok = g.resolveSystem(spec.Member, entity, opt, format)
		if !ok {
			return "<Unknown member of " + spec.Var + ": " + spec.Member + ">"
		}
	} else {
		param, found := g.src.Parameter(spec.Var)
		if !found {
			return "<Unknown parameter: " + spec.Var + ">"
		}

		value, ok = g.resolveParameter(param, spec.Member)
		if !ok {
			return "<Unknown member of " + spec.Var + ": " + spec.Member + ">"
		}
	}

	if spec.Slice != nil {
		if !value.Sliceable {
			ref := spec.Var
			if spec.Member != "" {
				ref += "." + spec.Member
			}

			return "<Cannot substring parameter: " + ref + ">"
		}

		value = Text(spec.Slice.Apply(value.Str))
	}

	out, err := formatValue(value, format)
	if err != nil {
		return "<" + err.Error() + ">"
	}

	return out
}

// resolveSystem dispatches a member of the "_" namespace. It returns the
// possibly-updated format string because the date member injects a default
// format when the token gives none.
func (g *Generator) resolveSystem(
	member string,
	entity Entity,
	opt options,
	format string,
) (Value, string, bool) {
	switch member {
	case "version":
		doc := g.src.Document()

		version := 0
		if doc.Saved {
			version = doc.Version
		}

		if opt.nextVersion {
			version++
		}

		return Integer(version), format, true

	case "date":
		if format == "" {
			format = defaultDateFormat
		}

		return Timestamp(g.saveTime(opt).In(opt.loc)), format, true

	case "file":
		return Text(stripNameVersion(g.src.Document().Name)), format, true

	case "configuration":
		name, ok := g.src.Configuration()
		if !ok {
			name = noConfiguration
		}

		return Text(name), format, true

	case "newline":
		return Raw("\n"), format, true

	case "component", "compdesc", "partnum", "sketch":
		if entity == nil {
			return Text(missingContext), format, true
		}

		switch member {
		case "component":
			// The root component carries the document name with its
			// version suffix; strip it as with the file member.
			return Text(stripNameVersion(entity.ComponentName())), format, true

		case "compdesc":
			return Text(entity.ComponentDescription()), format, true

		case "partnum":
			return Text(entity.PartNumber()), format, true

		default:
			return Text(entity.SketchName()), format, true
		}
	}

	return Value{}, format, false
}

// saveTime determines the timestamp the date member reports.
func (g *Generator) saveTime(opt options) time.Time {
	if opt.nextVersion {
		// Text is being evaluated just ahead of a save; the current
		// time stands in for the imminent save time.
		return opt.now().UTC()
	}

	doc := g.src.Document()
	if doc.Saved {
		return doc.SavedAt
	}

	// Unsaved documents report midnight today in the render timezone.
	now := opt.now().In(opt.loc)

	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, opt.loc)
}

// resolveParameter dispatches a member of a document parameter.
func (g *Generator) resolveParameter(
	param Parameter,
	member string,
) (Value, bool) {
	switch member {
	case "", "value":
		if param.Unit == "" {
			return Number(param.Value), true
		}

		// Rounding suppresses floating-point conversion noise that
		// would render "almost-correct" numbers (42.99999999999).
		converted := g.src.Convert(param.Value, internalUnit, param.Unit)

		return Number(round10(converted)), true

	case "comment":
		return Text(param.Comment), true

	case "expr":
		return Raw(param.Expression), true

	case "unit":
		return Raw(param.Unit), true

	case "inchfrac":
		inches := param.Value
		if param.Unit != "" {
			inches = g.src.Convert(param.Value, internalUnit, "in")
		}

		return Raw(MixedFracInch(inches)), true
	}

	return Value{}, false
}

// stripNameVersion removes a trailing " vN" or " (vN...)" suffix.
func stripNameVersion(name string) string {
	return nameVersionPattern.ReplaceAllString(name, "")
}

// round10 rounds to 10 decimal digits.
func round10(v float64) float64 {
	rounded, err := strconv.ParseFloat(strconv.FormatFloat(v, 'f', 10, 64), 64)
	if err != nil {
		return v
	}

	return rounded
}
