package contracts

import "time"

// Expr is a formula that can render itself as spreadsheet syntax for
// the row it is placed on. Implementations live in the formula package;
// the sheet model only needs rendering.
type Expr interface {
	Excel(row int) string
}

// Cell is one output cell: either a literal tagged with its kind or a
// formula whose result should display with that kind's format.
type Cell struct {
	Kind    ValueKind
	Text    string
	Number  float64
	Formula Expr
}

// TextCell builds a literal text cell. Empty text renders as a blank.
func TextCell(s string) Cell {
	return Cell{Kind: KindText, Text: s}
}

// NumberCell builds a literal numeric cell.
func NumberCell(v float64) Cell {
	return Cell{Kind: KindNumber, Number: v}
}

// CurrencyCell builds a money cell.
func CurrencyCell(v float64) Cell {
	return Cell{Kind: KindCurrency, Number: v}
}

// PercentCell builds a percentage cell from a 0..1 ratio.
func PercentCell(v float64) Cell {
	return Cell{Kind: KindPercent, Number: v}
}

// FormulaCell builds a formula cell displayed with the given kind.
func FormulaCell(e Expr, kind ValueKind) Cell {
	return Cell{Kind: kind, Formula: e}
}

// EmptyCell is the explicit empty marker for absent values.
func EmptyCell() Cell {
	return Cell{Kind: KindText}
}

// IsEmpty reports whether the cell is a blank literal.
func (c Cell) IsEmpty() bool {
	return c.Formula == nil && c.Kind == KindText && c.Text == ""
}

// Row is one sheet row.
type Row []Cell

// Dropdown restricts a column range to a fixed option list.
type Dropdown struct {
	Column   string
	FirstRow int
	LastRow  int
	Options  []string
}

// Sheet is one logical output sheet, renderer-agnostic.
type Sheet struct {
	Name      string
	Headers   []string
	Rows      []Row
	Widths    map[string]float64
	AsTable   bool
	TableName string
	Dropdowns []Dropdown
}

// AddRow appends a row and returns its 1-based spreadsheet row number
// (headers occupy row 1).
func (s *Sheet) AddRow(r Row) int {
	s.Rows = append(s.Rows, r)
	return len(s.Rows) + 1
}

// Report is the assembled output of one pipeline run.
type Report struct {
	RunID       string
	Filename    string
	GeneratedAt time.Time
	Sheets      []*Sheet
	Records     []*OperationalRecord
	Stats       ReportStats
}

// Sheet finds a sheet by name, or nil.
func (r *Report) Sheet(name string) *Sheet {
	for _, s := range r.Sheets {
		if s.Name == name {
			return s
		}
	}
	return nil
}

// ReportStats summarizes what a run consumed and produced.
type ReportStats struct {
	SourceRows map[string]int
	Records    int
	Excluded   int
	Unmapped   map[string][]string
}
