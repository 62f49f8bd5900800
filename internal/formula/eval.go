package formula

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/grupoandino/reportes/internal/contracts"
	"github.com/grupoandino/reportes/internal/timeparse"
)

// Value is an evaluated cell or expression result.
type Value struct {
	Num   float64
	Str   string
	IsNum bool
}

// NumValue builds a numeric result.
func NumValue(v float64) Value {
	return Value{Num: v, IsNum: true}
}

// StrValue builds a text result.
func StrValue(s string) Value {
	return Value{Str: s}
}

// BoolValue builds the numeric form of a boolean.
func BoolValue(b bool) Value {
	if b {
		return NumValue(1)
	}
	return NumValue(0)
}

// AsNum coerces to a number the way a spreadsheet would.
func (v Value) AsNum() (float64, error) {
	if v.IsNum {
		return v.Num, nil
	}
	s := strings.TrimSpace(v.Str)
	if s == "" {
		return 0, nil
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("not numeric: %q", v.Str)
	}
	return n, nil
}

// Bool interprets the value as a condition result.
func (v Value) Bool() bool {
	if v.IsNum {
		return v.Num != 0
	}
	return strings.EqualFold(v.Str, "TRUE")
}

// Display renders the value the way a cell shows it.
func (v Value) Display() string {
	if v.IsNum {
		return strconv.FormatFloat(v.Num, 'f', -1, 64)
	}
	return v.Str
}

var evalEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

type cellKey struct {
	sheet string
	col   string
	row   int
}

// Evaluator executes emitted formula trees against assembled sheets,
// resolving cell references through other formula cells recursively.
type Evaluator struct {
	sheets   map[string]*contracts.Sheet
	memo     map[cellKey]Value
	visiting map[cellKey]bool
}

// NewEvaluator builds an evaluator over a sheet set.
func NewEvaluator(sheets []*contracts.Sheet) *Evaluator {
	m := make(map[string]*contracts.Sheet, len(sheets))
	for _, s := range sheets {
		m[s.Name] = s
	}
	return &Evaluator{
		sheets:   m,
		memo:     make(map[cellKey]Value),
		visiting: make(map[cellKey]bool),
	}
}

// Cell resolves one cell to its value, evaluating its formula if it
// has one. Sheet row numbering is 1-based with the header on row 1.
func (e *Evaluator) Cell(sheet, col string, row int) (Value, error) {
	key := cellKey{sheet: sheet, col: col, row: row}
	if v, ok := e.memo[key]; ok {
		return v, nil
	}
	if e.visiting[key] {
		return Value{}, fmt.Errorf("circular reference at %s!%s%d", sheet, col, row)
	}

	sh, ok := e.sheets[sheet]
	if !ok {
		return Value{}, fmt.Errorf("unknown sheet %q", sheet)
	}
	ci := ColumnIndex(col)
	if row == 1 {
		if ci < len(sh.Headers) {
			return StrValue(sh.Headers[ci]), nil
		}
		return StrValue(""), nil
	}
	ri := row - 2
	if ri < 0 || ri >= len(sh.Rows) || ci >= len(sh.Rows[ri]) {
		return StrValue(""), nil
	}

	cell := sh.Rows[ri][ci]
	var v Value
	var err error
	if cell.Formula != nil {
		e.visiting[key] = true
		v, err = e.Eval(cell.Formula, sheet, row)
		delete(e.visiting, key)
		if err != nil {
			return Value{}, err
		}
	} else if cell.Kind == contracts.KindText {
		v = StrValue(cell.Text)
	} else {
		v = NumValue(cell.Number)
	}
	e.memo[key] = v
	return v, nil
}

// Eval executes an expression as if placed on (sheet, row).
func (e *Evaluator) Eval(expr contracts.Expr, sheet string, row int) (Value, error) {
	switch n := expr.(type) {
	case Literal:
		if n.IsNumber {
			return NumValue(n.Number), nil
		}
		return StrValue(n.Text), nil

	case Ref:
		target := n.Sheet
		if target == "" {
			target = sheet
		}
		r := n.Row
		if r == 0 {
			r = row
		}
		return e.Cell(target, n.Col, r)

	case Binary:
		return e.evalBinary(n, sheet, row)

	case If:
		cond, err := e.Eval(n.Cond, sheet, row)
		if err != nil {
			return Value{}, err
		}
		if cond.Bool() {
			return e.Eval(n.Then, sheet, row)
		}
		return e.Eval(n.Else, sheet, row)

	case Call:
		return e.evalCall(n, sheet, row)

	case Lookup:
		return e.evalLookup(n, sheet, row)

	case AggFilter:
		return e.evalAggFilter(n)

	case Range:
		return Value{}, fmt.Errorf("range used outside an aggregate")
	}
	return Value{}, fmt.Errorf("unknown expression %T", expr)
}

func (e *Evaluator) evalBinary(b Binary, sheet string, row int) (Value, error) {
	l, err := e.Eval(b.L, sheet, row)
	if err != nil {
		return Value{}, err
	}
	r, err := e.Eval(b.R, sheet, row)
	if err != nil {
		return Value{}, err
	}

	switch b.Op {
	case "&":
		return StrValue(l.Display() + r.Display()), nil
	case "+", "-", "*", "/":
		ln, err := l.AsNum()
		if err != nil {
			return Value{}, err
		}
		rn, err := r.AsNum()
		if err != nil {
			return Value{}, err
		}
		switch b.Op {
		case "+":
			return NumValue(ln + rn), nil
		case "-":
			return NumValue(ln - rn), nil
		case "*":
			return NumValue(ln * rn), nil
		default:
			if rn == 0 {
				return Value{}, fmt.Errorf("division by zero")
			}
			return NumValue(ln / rn), nil
		}
	case "=", "<>", "<", "<=", ">", ">=":
		cmp, err := compare(l, r)
		if err != nil {
			return Value{}, err
		}
		switch b.Op {
		case "=":
			return BoolValue(cmp == 0), nil
		case "<>":
			return BoolValue(cmp != 0), nil
		case "<":
			return BoolValue(cmp < 0), nil
		case "<=":
			return BoolValue(cmp <= 0), nil
		case ">":
			return BoolValue(cmp > 0), nil
		default:
			return BoolValue(cmp >= 0), nil
		}
	}
	return Value{}, fmt.Errorf("unknown operator %q", b.Op)
}

// compare orders two values, numerically when both coerce and
// case-insensitively as text otherwise.
func compare(l, r Value) (int, error) {
	ln, lerr := l.AsNum()
	rn, rerr := r.AsNum()
	if lerr == nil && rerr == nil && (l.IsNum || r.IsNum || (l.Str == "" && r.Str == "")) {
		switch {
		case ln < rn:
			return -1, nil
		case ln > rn:
			return 1, nil
		}
		return 0, nil
	}
	ls, rs := strings.ToLower(l.Display()), strings.ToLower(r.Display())
	return strings.Compare(ls, rs), nil
}

func (e *Evaluator) evalCall(c Call, sheet string, row int) (Value, error) {
	fn := strings.ToUpper(c.Fn)
	switch fn {
	case "OR", "AND":
		result := fn == "AND"
		for _, arg := range c.Args {
			v, err := e.Eval(arg, sheet, row)
			if err != nil {
				return Value{}, err
			}
			if fn == "OR" {
				result = result || v.Bool()
			} else {
				result = result && v.Bool()
			}
		}
		return BoolValue(result), nil

	case "ISNUMBER":
		v, err := e.Eval(c.Args[0], sheet, row)
		if err != nil {
			return BoolValue(false), nil
		}
		return BoolValue(v.IsNum), nil

	case "SEARCH":
		find, err := e.evalStr(c.Args[0], sheet, row)
		if err != nil {
			return Value{}, err
		}
		within, err := e.evalStr(c.Args[1], sheet, row)
		if err != nil {
			return Value{}, err
		}
		idx := strings.Index(strings.ToLower(within), strings.ToLower(find))
		if idx < 0 {
			return Value{}, fmt.Errorf("SEARCH: %q not in %q", find, within)
		}
		return NumValue(float64(idx + 1)), nil

	case "ROUND":
		v, err := e.evalNum(c.Args[0], sheet, row)
		if err != nil {
			return Value{}, err
		}
		digits, err := e.evalNum(c.Args[1], sheet, row)
		if err != nil {
			return Value{}, err
		}
		p := math.Pow(10, digits)
		return NumValue(math.Round(v*p) / p), nil

	case "SUM":
		total := 0.0
		for _, arg := range c.Args {
			if rng, ok := arg.(Range); ok {
				cells, err := e.rangeValues(rng, sheet, row)
				if err != nil {
					return Value{}, err
				}
				for _, v := range cells {
					if v.IsNum {
						total += v.Num
					}
				}
				continue
			}
			v, err := e.evalNum(arg, sheet, row)
			if err != nil {
				return Value{}, err
			}
			total += v
		}
		return NumValue(total), nil

	case "COUNTIF":
		rng, ok := c.Args[0].(Range)
		if !ok {
			return Value{}, fmt.Errorf("COUNTIF needs a range")
		}
		cells, err := e.rangeValues(rng, sheet, row)
		if err != nil {
			return Value{}, err
		}
		criteria, err := e.Eval(c.Args[1], sheet, row)
		if err != nil {
			return Value{}, err
		}
		count := 0
		for _, v := range cells {
			// Blank cells never match, even against a zero criteria.
			if v.Display() == "" {
				continue
			}
			if cmp, err := compare(v, criteria); err == nil && cmp == 0 {
				count++
			}
		}
		return NumValue(float64(count)), nil

	case "DATEVALUE":
		s, err := e.evalStr(c.Args[0], sheet, row)
		if err != nil {
			return Value{}, err
		}
		d, ok := timeparse.ParseDay(s)
		if !ok {
			return Value{}, fmt.Errorf("DATEVALUE: unparseable %q", s)
		}
		return NumValue(daySerial(d)), nil

	case "TIMEVALUE":
		s, err := e.evalStr(c.Args[0], sheet, row)
		if err != nil {
			return Value{}, err
		}
		cl, ok := timeparse.ParseClock(s)
		if !ok {
			return Value{}, fmt.Errorf("TIMEVALUE: unparseable %q", s)
		}
		return NumValue(cl.Fraction()), nil

	case "DAY":
		serial, err := e.evalNum(c.Args[0], sheet, row)
		if err != nil {
			return Value{}, err
		}
		return NumValue(float64(serialDay(serial).Date)), nil

	case "WEEKDAY":
		serial, err := e.evalNum(c.Args[0], sheet, row)
		if err != nil {
			return Value{}, err
		}
		return NumValue(float64(int(serialDay(serial).Weekday()) + 1)), nil

	case "TEXT":
		serial, err := e.evalNum(c.Args[0], sheet, row)
		if err != nil {
			return Value{}, err
		}
		format, err := e.evalStr(c.Args[1], sheet, row)
		if err != nil {
			return Value{}, err
		}
		d := serialDay(serial)
		switch strings.ToLower(format) {
		case "ddmm":
			return StrValue(d.DDMM()), nil
		case "dd/mm/yyyy":
			return StrValue(d.String()), nil
		}
		return Value{}, fmt.Errorf("TEXT: unsupported format %q", format)
	}
	return Value{}, fmt.Errorf("unknown function %q", c.Fn)
}

func (e *Evaluator) evalLookup(l Lookup, sheet string, row int) (Value, error) {
	key, err := e.Eval(l.Key, sheet, row)
	if err != nil {
		return Value{}, err
	}
	sh, ok := e.sheets[l.Sheet]
	if !ok {
		return Value{}, fmt.Errorf("unknown sheet %q", l.Sheet)
	}
	valueCol := ColumnLetter(ColumnIndex(l.StartCol) + l.ColIndex - 1)
	for r := 2; r < len(sh.Rows)+2; r++ {
		cand, err := e.Cell(l.Sheet, l.StartCol, r)
		if err != nil {
			return Value{}, err
		}
		if cand.Display() == "" {
			continue
		}
		if cmp, err := compare(cand, key); err == nil && cmp == 0 {
			return e.Cell(l.Sheet, valueCol, r)
		}
	}
	return Value{}, fmt.Errorf("VLOOKUP: %q not found in %s", key.Display(), l.Sheet)
}

func (e *Evaluator) evalAggFilter(a AggFilter) (Value, error) {
	sh, ok := e.sheets[a.Sheet]
	if !ok {
		return Value{}, fmt.Errorf("unknown sheet %q", a.Sheet)
	}

	count := 0
	sum := 0.0
	for r := 2; r < len(sh.Rows)+2; r++ {
		day, err := e.Cell(a.Sheet, a.DayCol, r)
		if err != nil {
			return Value{}, err
		}
		if day.Display() != a.Day.String() {
			continue
		}
		name, err := e.Cell(a.Sheet, a.NameCol, r)
		if err != nil {
			return Value{}, err
		}
		if !MatchName(a.Name, name.Display()) {
			continue
		}
		count++
		if a.Reduce != ReduceCount {
			v, err := e.Cell(a.Sheet, a.ValueCol, r)
			if err != nil {
				return Value{}, err
			}
			if v.IsNum {
				sum += v.Num
			}
		}
	}

	switch a.Reduce {
	case ReduceCount:
		return NumValue(float64(count)), nil
	case ReduceSum:
		return NumValue(sum), nil
	case ReduceAvg:
		if count == 0 {
			return Value{}, fmt.Errorf("average over empty filter")
		}
		return NumValue(sum / float64(count)), nil
	}
	return NumValue(float64(count)), nil
}

// rangeValues enumerates the cell values a range covers. Whole-column
// ranges cover every data row of the target sheet.
func (e *Evaluator) rangeValues(r Range, sheet string, row int) ([]Value, error) {
	target := r.Sheet
	if target == "" {
		target = sheet
	}
	sh, ok := e.sheets[target]
	if !ok {
		return nil, fmt.Errorf("unknown sheet %q", target)
	}

	startRow, endRow := r.StartRow, r.EndRow
	if r.WholeCols {
		startRow, endRow = 2, len(sh.Rows)+1
	} else {
		if startRow == 0 {
			startRow = row
		}
		if endRow == 0 {
			endRow = row
		}
	}

	var out []Value
	for rr := startRow; rr <= endRow; rr++ {
		for ci := ColumnIndex(r.StartCol); ci <= ColumnIndex(r.EndCol); ci++ {
			v, err := e.Cell(target, ColumnLetter(ci), rr)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
	}
	return out, nil
}

func (e *Evaluator) evalNum(expr contracts.Expr, sheet string, row int) (float64, error) {
	v, err := e.Eval(expr, sheet, row)
	if err != nil {
		return 0, err
	}
	return v.AsNum()
}

func (e *Evaluator) evalStr(expr contracts.Expr, sheet string, row int) (string, error) {
	v, err := e.Eval(expr, sheet, row)
	if err != nil {
		return "", err
	}
	return v.Display(), nil
}

func daySerial(d contracts.Day) float64 {
	return d.Time().Sub(evalEpoch).Hours() / 24
}

func serialDay(serial float64) contracts.Day {
	return contracts.DayFromTime(evalEpoch.AddDate(0, 0, int(serial)))
}
