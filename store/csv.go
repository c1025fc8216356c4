package store

import (
	"encoding/csv"
	"io"
	"log/slog"
	"strconv"
)

// fileFormatVersion is the CSV interchange format generation. Files carry it
// in their metadata block so older readers reject newer files outright.
const fileFormatVersion = "1"

var csvHeader = []string{"ID", "Text", "Sketches"}

// ExportCSV writes texts as CSV: a metadata block (program version and file
// format version), a blank separator row, a header row, then one row per
// text with its sketch names in trailing columns.
func ExportCSV(w io.Writer, programVersion string, texts []Text) error {
	cw := csv.NewWriter(w)

	rows := [][]string{
		{"Program version", programVersion},
		{"File format version", fileFormatVersion},
		{},
		csvHeader,
	}

	for _, t := range texts {
		row := make([]string, 0, 2+len(t.Sketches))
		row = append(row, strconv.Itoa(t.ID), t.Template)
		row = append(row, t.Sketches...)

		rows = append(rows, row)
	}

	if err := cw.WriteAll(rows); err != nil {
		return ErrQuery.Wrap(err)
	}

	return nil
}

// ImportCSV reads texts from the CSV interchange format. Spreadsheet
// applications pad short rows with empty trailing columns, so empty columns
// after the template are dropped rather than imported as sketch names, and a
// row of only empty columns still terminates the metadata block.
func ImportCSV(r io.Reader) ([]Text, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	meta, headerSeen, err := readMetadata(cr)
	if err != nil {
		return nil, err
	}

	if v := meta["File format version"]; v != fileFormatVersion {
		return nil, ErrBadFormat.With(slog.String("version", v))
	}

	if !headerSeen {
		header, err := cr.Read()
		if err == io.EOF {
			return nil, ErrNoHeader
		}

		if err != nil {
			return nil, ErrBadHeader.Wrap(err)
		}

		if !headerRow(header) {
			return nil, ErrBadHeader.With(slog.Any("header", header))
		}
	}

	var texts []Text

	for row := 1; ; row++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}

		if err != nil {
			return nil, ErrQuery.Wrap(err)
		}

		if blankRow(record) {
			continue
		}

		if len(record) < 2 {
			return nil, ErrBadID.With(slog.Int("row", row))
		}

		id, err := strconv.Atoi(record[0])
		if err != nil {
			return nil, ErrBadID.Wrap(err).
				With(slog.Int("row", row), slog.String("id", record[0]))
		}

		t := Text{ID: id, Template: record[1]}

		for _, sketch := range record[2:] {
			if sketch != "" {
				t.Sketches = append(t.Sketches, sketch)
			}
		}

		texts = append(texts, t)
	}

	return texts, nil
}

// readMetadata consumes key/value rows up to the separator. The separator is
// either a row of empty columns (spreadsheet padding keeps the columns, the
// csv reader drops fully blank lines) or the header row itself; headerSeen
// reports which, so the caller knows whether the header is still pending.
func readMetadata(
	cr *csv.Reader,
) (meta map[string]string, headerSeen bool, err error) {
	meta = make(map[string]string)

	for {
		record, err := cr.Read()
		if err == io.EOF {
			return meta, false, nil
		}

		if err != nil {
			return nil, false, ErrBadMetadata.Wrap(err)
		}

		if blankRow(record) {
			return meta, false, nil
		}

		if headerRow(record) {
			return meta, true, nil
		}

		if len(record) < 2 {
			return nil, false, ErrBadMetadata.With(slog.Any("row", record))
		}

		meta[record[0]] = record[1]
	}
}

// headerRow reports whether record begins with the expected header columns.
func headerRow(record []string) bool {
	if len(record) < len(csvHeader) {
		return false
	}

	for i, want := range csvHeader {
		if record[i] != want {
			return false
		}
	}

	return true
}

// blankRow reports whether every column of record is empty.
func blankRow(record []string) bool {
	for _, col := range record {
		if col != "" {
			return false
		}
	}

	return true
}
