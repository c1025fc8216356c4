package tmpl

import "testing"

func TestMixedFracInch(t *testing.T) {
	tests := []struct {
		name  string
		value float64
		want  string
	}{
		{"quarter", 1.25, `1 1/4"`},
		{"three_quarters", 2.75, `2 3/4"`},
		{"tenth", 1.1, `1 1/10"`},
		{"whole", 5.0, `5"`},
		{"fraction_only", 0.2, `1/5"`},
		{"zero", 0.0, `0"`},
		{"negative_whole", -1.0, `-1"`},
		{"negative_mixed", -10.3, `-10 3/10"`},
		{"sixty_fourths", 0.203125, `13/64"`},
		{"thirty_seconds", 0.15625, `5/32"`},
		{"eighths", 3.375, `3 3/8"`},
		{"sixteenth", 0.0625, `1/16"`},
		{"three_tenths", 0.3, `3/10"`},
		{"negative_fraction", -0.5, `-1/2"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MixedFracInch(tt.value); got != tt.want {
				t.Errorf("MixedFracInch(%v) = %q, want %q", tt.value, got, tt.want)
			}
		})
	}
}
