package tmpl

import (
	"regexp"
	"strconv"
	"strings"
)

// Token grammar: <var>[.<member>][<slice range>][:<format>]
//
// The whole token must match; a partial match is no match. The format field
// is captured greedily through the end of the token, so it may itself
// contain ':' (e.g. "_.date:%H:%M").
var (
	specPattern  = regexp.MustCompile(`^([^.\[\]:]+)(?:\.([^\[:]+))?(?:\[([^\]]+)\])?(?::(.*))?$`)
	slicePattern = regexp.MustCompile(`^(-?\d*)((:)(-?\d*)?)?$`)
)

// Index is an optional slice bound. The zero value is an open bound
// ("to the edge" in whichever direction).
type Index struct {
	N   int
	Set bool
}

// Bound returns a set Index with the given value.
func Bound(n int) Index { return Index{N: n, Set: true} }

// Slice is a substring range with Python slice semantics: half-open,
// negative indices count from the end, and out-of-range bounds clamp
// silently.
type Slice struct {
	Start Index
	Stop  Index
}

// Apply selects the substring of s described by the slice. Indices address
// runes, not bytes. Apply never fails: bounds beyond either end of s clamp
// to the edge, and an empty range yields "".
func (sl Slice) Apply(s string) string {
	runes := []rune(s)
	n := len(runes)

	start, stop := 0, n
	if sl.Start.Set {
		start = clampIndex(sl.Start.N, n)
	}

	if sl.Stop.Set {
		stop = clampIndex(sl.Stop.N, n)
	}

	if start >= stop {
		return ""
	}

	return string(runes[start:stop])
}

// clampIndex resolves a possibly-negative slice bound against length n.
func clampIndex(i, n int) int {
	if i < 0 {
		i += n
		if i < 0 {
			i = 0
		}

		return i
	}

	if i > n {
		return n
	}

	return i
}

// Spec is the parsed form of one substitution token. It is immutable after
// parsing; two specs are equal iff all four fields are equal, with the slice
// compared as a normalized range rather than its textual form.
type Spec struct {
	Var    string
	Member string // empty when the token has no member accessor
	Slice  *Slice // nil when the token has no slice
	Format string // verbatim, unvalidated; empty when absent
}

// Equal reports whether two specs denote the same reference.
func (s Spec) Equal(o Spec) bool {
	if s.Var != o.Var || s.Member != o.Member || s.Format != o.Format {
		return false
	}

	if (s.Slice == nil) != (o.Slice == nil) {
		return false
	}

	return s.Slice == nil || *s.Slice == *o.Slice
}

// String renders the spec in its canonical token form, for diagnostics.
func (s Spec) String() string {
	var b strings.Builder

	b.WriteString(s.Var)

	if s.Member != "" {
		b.WriteByte('.')
		b.WriteString(s.Member)
	}

	if s.Slice != nil {
		b.WriteByte('[')

		if s.Slice.Start.Set {
			b.WriteString(strconv.Itoa(s.Slice.Start.N))
		}

		b.WriteByte(':')

		if s.Slice.Stop.Set {
			b.WriteString(strconv.Itoa(s.Slice.Stop.N))
		}

		b.WriteByte(']')
	}

	if s.Format != "" {
		b.WriteByte(':')
		b.WriteString(s.Format)
	}

	return b.String()
}

// ParseSpec parses the inner text of one substitution token (the substring
// between '{' and '}', exclusive). It reports ok=false for any malformed
// input, including a malformed slice body: a bad slice invalidates the whole
// token rather than degrading to "no slice".
func ParseSpec(token string) (Spec, bool) {
	m := specPattern.FindStringSubmatch(token)
	if m == nil {
		return Spec{}, false
	}

	spec := Spec{Var: m[1], Member: m[2], Format: m[4]}

	if m[3] != "" {
		sl, ok := parseSliceBody(m[3])
		if !ok {
			return Spec{}, false
		}

		spec.Slice = sl
	}

	return spec, true
}

// parseSliceBody parses the text between '[' and ']'. A single integer with
// no colon denotes the one-element range [n:n+1] — applied literally even
// for negative n, so "[-1]" means [-1:0].
func parseSliceBody(body string) (*Slice, bool) {
	m := slicePattern.FindStringSubmatch(body)
	if m == nil {
		return nil, false
	}

	start, ok := parseBound(m[1])
	if !ok {
		return nil, false
	}

	stop, ok := parseBound(m[4])
	if !ok {
		return nil, false
	}

	if m[3] == ":" {
		return &Slice{Start: start, Stop: stop}, true
	}

	if start.Set {
		return &Slice{Start: start, Stop: Bound(start.N + 1)}, true
	}

	return nil, true
}

func parseBound(s string) (Index, bool) {
	if s == "" {
		return Index{}, true
	}

	n, err := strconv.Atoi(s)
	if err != nil {
		return Index{}, false
	}

	return Bound(n), true
}
