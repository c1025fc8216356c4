package tmpl

import "time"

// Kind discriminates the typed union held by a Value.
type Kind int

const (
	// KindNumber is a floating-point parameter value.
	KindNumber Kind = iota

	// KindInt is an integer value (document version numbers).
	KindInt

	// KindString is a string value.
	KindString

	// KindTime is a date/time value, rendered with strftime directives.
	KindTime
)

// Value is the resolved, typed result of a (variable, member) reference.
// Sliceability is a property of the resolution site, not the kind: a
// parameter comment may be sliced while its unit string may not, even
// though both are strings.
type Value struct {
	Kind Kind

	Num  float64
	Int  int
	Str  string
	Time time.Time

	// Sliceable reports whether a substring slice may be applied to the
	// value's string form.
	Sliceable bool
}

// Number returns a float value. Numbers are never sliceable.
func Number(v float64) Value {
	return Value{Kind: KindNumber, Num: v}
}

// Integer returns an integer value. Integers are never sliceable.
func Integer(v int) Value {
	return Value{Kind: KindInt, Int: v}
}

// Text returns a slice-eligible string value.
func Text(v string) Value {
	return Value{Kind: KindString, Str: v, Sliceable: true}
}

// Raw returns a string value that may not be sliced (expressions, unit
// strings, and other already-formatted text).
func Raw(v string) Value {
	return Value{Kind: KindString, Str: v}
}

// Timestamp returns a date/time value. Timestamps are never sliceable.
func Timestamp(t time.Time) Value {
	return Value{Kind: KindTime, Time: t}
}
