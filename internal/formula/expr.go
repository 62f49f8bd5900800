// Package formula models emitted spreadsheet formulas as a typed
// expression tree. Nodes render to spreadsheet syntax for the row they
// land on, and the evaluator executes the same tree in-process so the
// emitted graph can be verified without a spreadsheet engine.
package formula

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/grupoandino/reportes/internal/contracts"
)

// Literal is a constant number or text.
type Literal struct {
	Text     string
	Number   float64
	IsNumber bool
}

// Num builds a numeric literal.
func Num(v float64) Literal {
	return Literal{Number: v, IsNumber: true}
}

// Str builds a text literal.
func Str(s string) Literal {
	return Literal{Text: s}
}

// Excel renders the literal.
func (l Literal) Excel(int) string {
	if l.IsNumber {
		return strconv.FormatFloat(l.Number, 'f', -1, 64)
	}
	return quote(l.Text)
}

// Ref is a single-cell reference. Row 0 means "the row this formula is
// placed on"; a positive Row pins the reference.
type Ref struct {
	Sheet string
	Col   string
	Row   int
}

// Excel renders the reference.
func (r Ref) Excel(row int) string {
	n := r.Row
	if n == 0 {
		n = row
	}
	return sheetPrefix(r.Sheet) + r.Col + strconv.Itoa(n)
}

// Range is a rectangular reference. WholeCols drops the row bounds;
// otherwise zero rows track the current row.
type Range struct {
	Sheet     string
	StartCol  string
	EndCol    string
	StartRow  int
	EndRow    int
	WholeCols bool
}

// Excel renders the range.
func (r Range) Excel(row int) string {
	if r.WholeCols {
		return fmt.Sprintf("%s%s:%s", sheetPrefix(r.Sheet), r.StartCol, r.EndCol)
	}
	start, end := r.StartRow, r.EndRow
	if start == 0 {
		start = row
	}
	if end == 0 {
		end = row
	}
	return fmt.Sprintf("%s%s%d:%s%d", sheetPrefix(r.Sheet), r.StartCol, start, r.EndCol, end)
}

// Binary applies an operator to two operands.
type Binary struct {
	Op   string
	L, R contracts.Expr
}

// Excel renders the operation parenthesized.
func (b Binary) Excel(row int) string {
	return "(" + b.L.Excel(row) + b.Op + b.R.Excel(row) + ")"
}

// If is a conditional.
type If struct {
	Cond, Then, Else contracts.Expr
}

// Excel renders an IF call.
func (i If) Excel(row int) string {
	return fmt.Sprintf("IF(%s,%s,%s)", i.Cond.Excel(row), i.Then.Excel(row), i.Else.Excel(row))
}

// Call invokes a spreadsheet function.
type Call struct {
	Fn   string
	Args []contracts.Expr
}

// Excel renders the call.
func (c Call) Excel(row int) string {
	args := make([]string, len(c.Args))
	for i, a := range c.Args {
		args[i] = a.Excel(row)
	}
	return c.Fn + "(" + strings.Join(args, ",") + ")"
}

// Lookup is a first-match vertical lookup into another sheet's column
// pair.
type Lookup struct {
	Key      contracts.Expr
	Sheet    string
	StartCol string
	EndCol   string
	ColIndex int
}

// Excel renders a VLOOKUP with exact matching.
func (l Lookup) Excel(row int) string {
	return fmt.Sprintf("VLOOKUP(%s,%s%s:%s,%d,FALSE)",
		l.Key.Excel(row), sheetPrefix(l.Sheet), l.StartCol, l.EndCol, l.ColIndex)
}

// Reduce selects how an AggFilter folds its matching rows.
type Reduce int

const (
	ReduceCount Reduce = iota
	ReduceSum
	ReduceAvg
)

// AggFilter filters a source sheet to one day and one fuzzily-matched
// display name, then reduces a column over the matching rows. A row's
// name matches when at least two of the target's first three name
// tokens appear in it.
type AggFilter struct {
	Sheet    string
	DayCol   string
	Day      contracts.Day
	NameCol  string
	Name     string
	Reduce   Reduce
	ValueCol string
}

// Excel renders a SUMPRODUCT form of the filter.
func (a AggFilter) Excel(row int) string {
	dayMatch := fmt.Sprintf("(%s%s:%s=%s)",
		sheetPrefix(a.Sheet), a.DayCol, a.DayCol, quote(a.Day.String()))

	nameCol := sheetPrefix(a.Sheet) + a.NameCol + ":" + a.NameCol
	tokens := NameTokens(a.Name)
	searches := make([]string, len(tokens))
	for i, tok := range tokens {
		searches[i] = fmt.Sprintf("ISNUMBER(SEARCH(%s,%s))", quote(tok), nameCol)
	}
	nameMatch := fmt.Sprintf("((%s)>=%d)", strings.Join(searches, "+"), MatchMinTokens(len(tokens)))

	count := fmt.Sprintf("SUMPRODUCT(%s*%s)", dayMatch, nameMatch)
	switch a.Reduce {
	case ReduceCount:
		return count
	case ReduceSum:
		return fmt.Sprintf("SUMPRODUCT(%s*%s*%s%s:%s)",
			dayMatch, nameMatch, sheetPrefix(a.Sheet), a.ValueCol, a.ValueCol)
	case ReduceAvg:
		sum := fmt.Sprintf("SUMPRODUCT(%s*%s*%s%s:%s)",
			dayMatch, nameMatch, sheetPrefix(a.Sheet), a.ValueCol, a.ValueCol)
		return "(" + sum + "/" + count + ")"
	}
	return count
}

// NameTokens returns the first three lowercased tokens of a display
// name, the basis of the fuzzy join.
func NameTokens(name string) []string {
	tokens := strings.Fields(strings.ToLower(strings.TrimSpace(name)))
	if len(tokens) > 3 {
		tokens = tokens[:3]
	}
	return tokens
}

// MatchMinTokens is how many tokens must hit for a fuzzy name match.
func MatchMinTokens(total int) int {
	if total < 2 {
		return total
	}
	return 2
}

// MatchName reports whether a candidate row name fuzzily matches a
// target display name.
func MatchName(target, candidate string) bool {
	tokens := NameTokens(target)
	if len(tokens) == 0 {
		return false
	}
	c := strings.ToLower(candidate)
	hits := 0
	for _, tok := range tokens {
		if strings.Contains(c, tok) {
			hits++
		}
	}
	return hits >= MatchMinTokens(len(tokens))
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

func sheetPrefix(sheet string) string {
	if sheet == "" {
		return ""
	}
	if strings.ContainsAny(sheet, " -") {
		return "'" + sheet + "'!"
	}
	return sheet + "!"
}

// ColumnLetter converts a 0-based column index to its letter name.
func ColumnLetter(i int) string {
	name := ""
	for i >= 0 {
		name = string(rune('A'+i%26)) + name
		i = i/26 - 1
	}
	return name
}

// ColumnIndex converts a column letter name to its 0-based index.
func ColumnIndex(col string) int {
	n := 0
	for _, r := range col {
		n = n*26 + int(r-'A') + 1
	}
	return n - 1
}
