package contracts

import "strings"

// Access says whether a dataset carries its own header row or must be
// read by fixed column positions.
type Access int

const (
	AccessHeadered Access = iota
	AccessPositional
)

// Dataset is one decoded tabular input. Rows hold raw cell text; all
// typing happens downstream against the mapped schema.
type Dataset struct {
	Name    string
	Access  Access
	Headers []string
	Rows    [][]string
}

// Cell returns the trimmed cell text at (row, col), or "" when the
// position is out of range. Ragged rows are common in these exports.
func (d *Dataset) Cell(row, col int) string {
	if row < 0 || row >= len(d.Rows) || col < 0 {
		return ""
	}
	r := d.Rows[row]
	if col >= len(r) {
		return ""
	}
	return strings.TrimSpace(r[col])
}

// Columns returns the raw column list for schema mapping. Positional
// datasets get synthetic empty headers, one per widest row.
func (d *Dataset) Columns() []RawColumn {
	if d.Access == AccessHeadered {
		cols := make([]RawColumn, len(d.Headers))
		for i, h := range d.Headers {
			cols[i] = RawColumn{Index: i, Header: strings.TrimSpace(h)}
		}
		return cols
	}
	width := 0
	for _, r := range d.Rows {
		if len(r) > width {
			width = len(r)
		}
	}
	cols := make([]RawColumn, width)
	for i := range cols {
		cols[i] = RawColumn{Index: i}
	}
	return cols
}

// Empty reports whether the dataset has no data rows.
func (d *Dataset) Empty() bool {
	return d == nil || len(d.Rows) == 0
}
