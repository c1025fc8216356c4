package tmpl

import (
	"testing"
	"time"
)

func TestFormatValue_Floats(t *testing.T) {
	tests := []struct {
		name  string
		value float64
		spec  string
		want  string
	}{
		{"default_fractional", 22.3, "", "22.3"},
		{"default_integral_keeps_point", 5.0, "", "5.0"},
		{"default_negative", -0.25, "", "-0.25"},
		{"fixed", 22.3, ".3f", "22.300"},
		{"fixed_zero_precision", 22.3, ".0f", "22"},
		{"fixed_default_precision", 1.5, "f", "1.500000"},
		{"zero_pad", 22.3, "03.0f", "022"},
		{"width_right", 1.5, "8.2f", "    1.50"},
		{"width_left", 1.5, "<8.2f", "1.50    "},
		{"width_center", 1.5, "^8.2f", "  1.50  "},
		{"sign_plus", 1.5, "+.1f", "+1.5"},
		{"sign_space", 1.5, " .1f", " 1.5"},
		{"sign_aware_zero_pad", -1.5, "06.1f", "-001.5"},
		{"explicit_equal_align", -1.5, "*=7.1f", "-***1.5"},
		{"scientific", 1234.5, ".2e", "1.23e+03"},
		{"percent", 0.25, ".0%", "25%"},
		{"thousands", 1234567.891, ",.2f", "1,234,567.89"},
		{"general", 0.00001234, ".3g", "1.23e-05"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := formatValue(Number(tt.value), tt.spec)
			if err != nil {
				t.Fatalf("formatValue(%v, %q) error: %v", tt.value, tt.spec, err)
			}

			if got != tt.want {
				t.Errorf(
					"formatValue(%v, %q) = %q, want %q",
					tt.value, tt.spec, got, tt.want,
				)
			}
		})
	}
}

func TestFormatValue_Integers(t *testing.T) {
	tests := []struct {
		name  string
		value int
		spec  string
		want  string
	}{
		{"default", 24, "", "24"},
		{"zero_pad", 24, "03", "024"},
		{"explicit_decimal", 24, "d", "24"},
		{"width", 24, "5", "   24"},
		{"left", 24, "<5", "24   "},
		{"binary", 5, "b", "101"},
		{"octal", 64, "o", "100"},
		{"hex_lower", 255, "x", "ff"},
		{"hex_upper", 255, "X", "FF"},
		{"alt_hex", 255, "#x", "0xff"},
		{"alt_binary", 5, "#b", "0b101"},
		{"thousands", 1234567, ",", "1,234,567"},
		{"sign_plus", 24, "+", "+24"},
		{"negative_zero_pad", -7, "04", "-007"},
		{"as_float", 24, ".1f", "24.0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := formatValue(Integer(tt.value), tt.spec)
			if err != nil {
				t.Fatalf("formatValue(%v, %q) error: %v", tt.value, tt.spec, err)
			}

			if got != tt.want {
				t.Errorf(
					"formatValue(%v, %q) = %q, want %q",
					tt.value, tt.spec, got, tt.want,
				)
			}
		})
	}
}

func TestFormatValue_Strings(t *testing.T) {
	tests := []struct {
		name  string
		value string
		spec  string
		want  string
	}{
		{"default", "My comment", "", "My comment"},
		{"truncate", "My comment", ".6", "My com"},
		{"truncate_beyond_length", "abc", ".10", "abc"},
		{"width_left_default", "abc", "6", "abc   "},
		{"width_right", "abc", ">6", "   abc"},
		{"width_center", "abc", "^7", "  abc  "},
		{"fill_center", "abc", "*^7", "**abc**"},
		{"explicit_s", "abc", "s", "abc"},
		{"truncate_and_pad", "abcdef", "8.3", "abc     "},
		{"truncate_runes", "åäöü", ".2", "åä"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := formatValue(Text(tt.value), tt.spec)
			if err != nil {
				t.Fatalf("formatValue(%q, %q) error: %v", tt.value, tt.spec, err)
			}

			if got != tt.want {
				t.Errorf(
					"formatValue(%q, %q) = %q, want %q",
					tt.value, tt.spec, got, tt.want,
				)
			}
		})
	}
}

func TestFormatValue_Errors(t *testing.T) {
	tests := []struct {
		name  string
		value Value
		spec  string
	}{
		{"int_precision", Integer(24), ".3"},
		{"int_unknown_verb", Integer(24), "q"},
		{"float_unknown_verb", Number(1.5), "d"},
		{"string_unknown_verb", Text("abc"), "f"},
		{"string_sign", Text("abc"), "+10"},
		{"string_comma", Text("abc"), ","},
		{"string_equal_align", Text("abc"), "=10"},
		{"missing_precision_digits", Number(1.5), ".f"},
		{"trailing_garbage", Number(1.5), ".2fx"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got, err := formatValue(tt.value, tt.spec); err == nil {
				t.Errorf(
					"formatValue(%v, %q) = %q, want error",
					tt.value, tt.spec, got,
				)
			}
		})
	}
}

func TestFormatValue_Timestamps(t *testing.T) {
	ts := time.Date(2020, 10, 24, 14, 5, 0, 0, time.UTC)

	tests := []struct {
		name string
		spec string
		want string
	}{
		{"default", "", "2020-10-24 14:05:00Z"},
		{"iso_date", "%Y-%m-%d", "2020-10-24"},
		{"us_date", "%m/%d/%Y", "10/24/2020"},
		{"time_of_day", "%H:%M", "14:05"},
		{"literal_percent", "%Y%%", "2020%"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := formatValue(Timestamp(ts), tt.spec)
			if err != nil {
				t.Fatalf("formatValue(timestamp, %q) error: %v", tt.spec, err)
			}

			if got != tt.want {
				t.Errorf(
					"formatValue(timestamp, %q) = %q, want %q",
					tt.spec, got, tt.want,
				)
			}
		})
	}
}
