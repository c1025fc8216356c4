package store

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestCSV_RoundTrip(t *testing.T) {
	texts := []Text{
		{ID: 1, Template: "{d10} mm", Sketches: []string{"Sketch1", "Sketch2"}},
		{ID: 2, Template: "v{_.version}"},
		{ID: 5, Template: "a, \"quoted\"\nmultiline", Sketches: []string{"Sketch3"}},
	}

	var buf bytes.Buffer
	if err := ExportCSV(&buf, "partext 0.3.0", texts); err != nil {
		t.Fatalf("ExportCSV failed: %v", err)
	}

	got, err := ImportCSV(&buf)
	if err != nil {
		t.Fatalf("ImportCSV failed: %v", err)
	}

	if len(got) != len(texts) {
		t.Fatalf("ImportCSV = %d texts, want %d", len(got), len(texts))
	}

	for i, want := range texts {
		if got[i].ID != want.ID || got[i].Template != want.Template {
			t.Errorf("text[%d] = %+v, want %+v", i, got[i], want)
		}

		if len(got[i].Sketches) != len(want.Sketches) {
			t.Errorf(
				"text[%d].Sketches = %v, want %v",
				i, got[i].Sketches, want.Sketches,
			)

			continue
		}

		for j, sketch := range want.Sketches {
			if got[i].Sketches[j] != sketch {
				t.Errorf(
					"text[%d].Sketches[%d] = %q, want %q",
					i, j, got[i].Sketches[j], sketch,
				)
			}
		}
	}
}

func TestImportCSV_SpreadsheetPadding(t *testing.T) {
	// Spreadsheet applications pad every row to the widest row's column
	// count; trailing empty columns must not become sketch names, and the
	// separator row keeps its (empty) columns.
	const padded = `Program version,partext 0.3.0,,
File format version,1,,
,,,
ID,Text,Sketches,
1,{d10},Sketch1,
2,plain,,
`

	got, err := ImportCSV(strings.NewReader(padded))
	if err != nil {
		t.Fatalf("ImportCSV failed: %v", err)
	}

	if len(got) != 2 {
		t.Fatalf("ImportCSV = %d texts, want 2", len(got))
	}

	if len(got[0].Sketches) != 1 || got[0].Sketches[0] != "Sketch1" {
		t.Errorf("text[0].Sketches = %v, want [Sketch1]", got[0].Sketches)
	}

	if len(got[1].Sketches) != 0 {
		t.Errorf("text[1].Sketches = %v, want empty", got[1].Sketches)
	}
}

func TestImportCSV_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  error
	}{
		{
			"unsupported_version",
			"File format version,2\n\nID,Text,Sketches\n",
			ErrBadFormat,
		},
		{
			"missing_version",
			"Program version,x\n\nID,Text,Sketches\n",
			ErrBadFormat,
		},
		{
			"bad_header",
			"File format version,1\n\nId,Template\n",
			ErrBadHeader,
		},
		{
			"missing_header",
			"File format version,1\n",
			ErrNoHeader,
		},
		{
			"bad_metadata",
			"just-one-column\n",
			ErrBadMetadata,
		},
		{
			"non_integer_id",
			"File format version,1\n\nID,Text,Sketches\nx,template\n",
			ErrBadID,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ImportCSV(strings.NewReader(tt.input))
			if !errors.Is(err, tt.want) {
				t.Errorf("ImportCSV error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestExportCSV_Layout(t *testing.T) {
	var buf bytes.Buffer

	err := ExportCSV(&buf, "partext 0.3.0", []Text{
		{ID: 1, Template: "{d10}", Sketches: []string{"Sketch1"}},
	})
	if err != nil {
		t.Fatalf("ExportCSV failed: %v", err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	want := []string{
		"Program version,partext 0.3.0",
		"File format version,1",
		"",
		"ID,Text,Sketches",
		"1,{d10},Sketch1",
	}

	if len(lines) != len(want) {
		t.Fatalf("export lines = %q, want %q", lines, want)
	}

	for i, line := range want {
		if lines[i] != line {
			t.Errorf("line %d = %q, want %q", i, lines[i], line)
		}
	}
}
