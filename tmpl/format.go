package tmpl

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/ncruces/go-strftime"
)

// formatValue renders a resolved value according to the raw format spec
// captured from the token. An empty spec selects default stringification.
// Date/time values interpret the entire spec as strftime directives; all
// other kinds use the format mini-language
//
//	[[fill]align][sign][#][0][width][,][.precision][type]
//
// with Python format-spec semantics: precision on a string truncates,
// '0' before the width implies sign-aware zero padding, and an unknown
// type code for the value's kind is an error.
func formatValue(v Value, spec string) (string, error) {
	if v.Kind == KindTime {
		if spec == "" {
			return v.Time.Format("2006-01-02 15:04:05Z07:00"), nil
		}

		return strftime.Format(spec, v.Time), nil
	}

	fs, err := parseFormatSpec(spec)
	if err != nil {
		return "", err
	}

	switch v.Kind {
	case KindInt:
		return fs.formatInt(int64(v.Int))

	case KindNumber:
		return fs.formatFloat(v.Num)

	default:
		return fs.formatString(v.Str)
	}
}

// formatSpec is the parsed form of a format mini-language string.
type formatSpec struct {
	fill    rune
	align   rune // '<', '>', '^', '=', or 0 for kind-dependent default
	sign    rune // '+', '-', ' ', or 0
	alt     bool
	zero    bool
	width   int
	comma   bool
	prec    int
	hasPrec bool
	verb    rune // type code, or 0 when absent
}

func isAlignRune(r rune) bool {
	return r == '<' || r == '>' || r == '^' || r == '='
}

func parseFormatSpec(spec string) (formatSpec, error) {
	fs := formatSpec{fill: ' '}
	r := []rune(spec)
	i := 0

	switch {
	case len(r) >= 2 && isAlignRune(r[1]):
		fs.fill, fs.align = r[0], r[1]
		i = 2

	case len(r) >= 1 && isAlignRune(r[0]):
		fs.align = r[0]
		i = 1
	}

	if i < len(r) && (r[i] == '+' || r[i] == '-' || r[i] == ' ') {
		fs.sign = r[i]
		i++
	}

	if i < len(r) && r[i] == '#' {
		fs.alt = true
		i++
	}

	if i < len(r) && r[i] == '0' {
		fs.zero = true

		if fs.align == 0 {
			fs.fill, fs.align = '0', '='
		}

		i++
	}

	for i < len(r) && r[i] >= '0' && r[i] <= '9' {
		fs.width = fs.width*10 + int(r[i]-'0')
		i++
	}

	if i < len(r) && r[i] == ',' {
		fs.comma = true
		i++
	}

	if i < len(r) && r[i] == '.' {
		i++

		if i >= len(r) || r[i] < '0' || r[i] > '9' {
			return fs, fmt.Errorf("format specifier missing precision: %q", spec)
		}

		fs.hasPrec = true

		for i < len(r) && r[i] >= '0' && r[i] <= '9' {
			fs.prec = fs.prec*10 + int(r[i]-'0')
			i++
		}
	}

	if i < len(r) {
		if len(r)-i > 1 {
			return fs, fmt.Errorf("invalid format specifier: %q", spec)
		}

		fs.verb = r[i]
	}

	return fs, nil
}

func (fs formatSpec) formatInt(v int64) (string, error) {
	verb := fs.verb
	if verb == 0 {
		verb = 'd'
	}

	// Integers accept float type codes by converting first.
	switch verb {
	case 'e', 'E', 'f', 'F', 'g', 'G', '%':
		return fs.formatFloat(float64(v))
	}

	if fs.hasPrec {
		return "", fmt.Errorf("precision not allowed in integer format specifier")
	}

	neg := v < 0

	mag := v
	if neg {
		mag = -mag
	}

	var body string

	switch verb {
	case 'd':
		body = strconv.FormatInt(mag, 10)
	case 'b':
		body = strconv.FormatInt(mag, 2)
	case 'o':
		body = strconv.FormatInt(mag, 8)
	case 'x':
		body = strconv.FormatInt(mag, 16)
	case 'X':
		body = strings.ToUpper(strconv.FormatInt(mag, 16))
	case 'c':
		body = string(rune(v))
	default:
		return "", fmt.Errorf("unknown format code %q for integer", string(verb))
	}

	if fs.alt {
		switch verb {
		case 'b':
			body = "0b" + body
		case 'o':
			body = "0o" + body
		case 'x':
			body = "0x" + body
		case 'X':
			body = "0X" + body
		}
	}

	if fs.comma && verb == 'd' {
		body = groupThousands(body)
	}

	return fs.pad(signPrefix(neg, fs.sign), body, '>'), nil
}

func (fs formatSpec) formatFloat(v float64) (string, error) {
	verb := fs.verb
	neg := math.Signbit(v)
	mag := math.Abs(v)

	var body string

	switch verb {
	case 0:
		if fs.hasPrec {
			body = strconv.FormatFloat(mag, 'g', fs.prec, 64)
		} else {
			body = defaultFloatString(mag)
		}

	case 'f', 'F':
		body = strconv.FormatFloat(mag, 'f', fs.precOr(6), 64)

	case 'e', 'E':
		body = strconv.FormatFloat(mag, byte(verb), fs.precOr(6), 64)

	case 'g', 'G':
		body = strconv.FormatFloat(mag, byte(verb), fs.precOr(6), 64)

	case '%':
		body = strconv.FormatFloat(mag*100, 'f', fs.precOr(6), 64) + "%"

	default:
		return "", fmt.Errorf("unknown format code %q for float", string(verb))
	}

	if fs.comma {
		if dot := strings.IndexByte(body, '.'); dot >= 0 {
			body = groupThousands(body[:dot]) + body[dot:]
		} else {
			body = groupThousands(body)
		}
	}

	return fs.pad(signPrefix(neg, fs.sign), body, '>'), nil
}

func (fs formatSpec) formatString(v string) (string, error) {
	if fs.verb != 0 && fs.verb != 's' {
		return "", fmt.Errorf("unknown format code %q for string", string(fs.verb))
	}

	if fs.sign != 0 {
		return "", fmt.Errorf("sign not allowed in string format specifier")
	}

	if fs.comma {
		return "", fmt.Errorf("cannot specify ',' with string format specifier")
	}

	if fs.align == '=' {
		return "", fmt.Errorf("'=' alignment not allowed in string format specifier")
	}

	if fs.hasPrec {
		runes := []rune(v)
		if fs.prec < len(runes) {
			v = string(runes[:fs.prec])
		}
	}

	return fs.pad("", v, '<'), nil
}

// precOr returns the spec's precision, or def when none was given.
func (fs formatSpec) precOr(def int) int {
	if fs.hasPrec {
		return fs.prec
	}

	return def
}

// pad applies sign, fill, alignment, and minimum width. The '=' alignment
// pads between the sign and the body (sign-aware zero padding).
func (fs formatSpec) pad(sign, body string, defaultAlign rune) string {
	align := fs.align
	if align == 0 {
		align = defaultAlign
	}

	content := sign + body

	gap := fs.width - utf8.RuneCountInString(content)
	if gap <= 0 {
		return content
	}

	fill := strings.Repeat(string(fs.fill), gap)

	switch align {
	case '<':
		return content + fill

	case '^':
		left := gap / 2

		return fill[:len(string(fs.fill))*left] +
			content +
			fill[len(string(fs.fill))*left:]

	case '=':
		return sign + fill + body

	default: // '>'
		return fill + content
	}
}

// signPrefix renders the sign of a numeric value under the spec's sign mode.
func signPrefix(neg bool, mode rune) string {
	if neg {
		return "-"
	}

	switch mode {
	case '+':
		return "+"
	case ' ':
		return " "
	default:
		return ""
	}
}

// groupThousands inserts ',' separators into a bare digit string.
func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}

	var b strings.Builder

	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}

	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}

		b.WriteString(digits[i : i+3])
	}

	return b.String()
}

// defaultFloatString renders a float the way default stringification does:
// shortest round-trip representation, keeping a trailing ".0" on integral
// values so the result still reads as a float.
func defaultFloatString(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return strconv.FormatFloat(v, 'g', -1, 64)
	}

	s := strconv.FormatFloat(v, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}

	return s
}
