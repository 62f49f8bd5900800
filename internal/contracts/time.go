package contracts

import (
	"fmt"
	"time"
)

// Day is a calendar day with no time zone or clock component.
// The zero value means "unknown day".
type Day struct {
	Year  int
	Month int
	Date  int
}

// NewDay builds a Day from its components.
func NewDay(year, month, date int) Day {
	return Day{Year: year, Month: month, Date: date}
}

// DayFromTime truncates a time.Time to its calendar day.
func DayFromTime(t time.Time) Day {
	return Day{Year: t.Year(), Month: int(t.Month()), Date: t.Day()}
}

// IsZero reports whether the day is unknown.
func (d Day) IsZero() bool {
	return d.Year == 0 && d.Month == 0 && d.Date == 0
}

// String renders the canonical DD/MM/YYYY form.
func (d Day) String() string {
	if d.IsZero() {
		return ""
	}
	return fmt.Sprintf("%02d/%02d/%04d", d.Date, d.Month, d.Year)
}

// Key renders a sortable YYYY-MM-DD form for map keys.
func (d Day) Key() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Date)
}

// SheetName renders the DD-MM-YYYY form used for per-day sheet names.
func (d Day) SheetName() string {
	return fmt.Sprintf("%02d-%02d-%04d", d.Date, d.Month, d.Year)
}

// DDMM renders the day-month digits used to build per-day codes.
func (d Day) DDMM() string {
	return fmt.Sprintf("%02d%02d", d.Date, d.Month)
}

// Time returns the day at midnight UTC.
func (d Day) Time() time.Time {
	return time.Date(d.Year, time.Month(d.Month), d.Date, 0, 0, 0, 0, time.UTC)
}

// Weekday returns the day of week.
func (d Day) Weekday() time.Weekday {
	return d.Time().Weekday()
}

// Before reports whether d falls before o.
func (d Day) Before(o Day) bool {
	return d.Key() < o.Key()
}

// paydayDates are the days of month worked on the payday schedule.
var paydayDates = map[int]bool{
	1: true, 2: true, 15: true, 16: true, 17: true, 30: true, 31: true,
}

// Schedule classifies the day as payday or normal.
func (d Day) Schedule() Schedule {
	if d.IsZero() {
		return ScheduleUnknown
	}
	if paydayDates[d.Date] {
		return SchedulePayday
	}
	return ScheduleNormal
}

// Schedule is the working-day type driving indicator cutoffs.
type Schedule int

const (
	ScheduleUnknown Schedule = iota
	SchedulePayday
	ScheduleNormal
)

// String renders the workbook label for the schedule.
func (s Schedule) String() string {
	switch s {
	case SchedulePayday:
		return "Pago"
	case ScheduleNormal:
		return "Normal"
	}
	return ""
}

// Clock is a time of day. The zero value means "unknown".
type Clock struct {
	Hour   int
	Minute int
	Second int
	Known  bool
}

// NewClock builds a known Clock.
func NewClock(hour, minute, second int) Clock {
	return Clock{Hour: hour, Minute: minute, Second: second, Known: true}
}

// IsZero reports whether the clock is unknown.
func (c Clock) IsZero() bool {
	return !c.Known
}

// String renders the canonical h:MM:SS AM/PM form.
func (c Clock) String() string {
	if !c.Known {
		return ""
	}
	period := "AM"
	h := c.Hour
	switch {
	case h == 0:
		h = 12
	case h == 12:
		period = "PM"
	case h > 12:
		h -= 12
		period = "PM"
	}
	return fmt.Sprintf("%d:%02d:%02d %s", h, c.Minute, c.Second, period)
}

// Seconds returns seconds since midnight.
func (c Clock) Seconds() int {
	return c.Hour*3600 + c.Minute*60 + c.Second
}

// Fraction returns the spreadsheet day-fraction representation.
func (c Clock) Fraction() float64 {
	return float64(c.Seconds()) / 86400.0
}

// Before reports whether c is earlier than o. Unknown clocks sort last.
func (c Clock) Before(o Clock) bool {
	if !c.Known {
		return false
	}
	if !o.Known {
		return true
	}
	return c.Seconds() < o.Seconds()
}

// After reports whether c is later than o. Unknown clocks sort first.
func (c Clock) After(o Clock) bool {
	if !c.Known {
		return false
	}
	if !o.Known {
		return true
	}
	return c.Seconds() > o.Seconds()
}

// Number is an optional numeric value. The zero value means "absent",
// which downstream renders as an empty marker rather than 0.
type Number struct {
	Value float64
	Known bool
}

// N builds a known Number.
func N(v float64) Number {
	return Number{Value: v, Known: true}
}

// Or returns the value, or def when absent.
func (n Number) Or(def float64) float64 {
	if !n.Known {
		return def
	}
	return n.Value
}

// Add sums two optional numbers; the result is known if either is.
func (n Number) Add(o Number) Number {
	if !n.Known && !o.Known {
		return Number{}
	}
	return N(n.Or(0) + o.Or(0))
}

// Max keeps the larger of two optional numbers.
func (n Number) Max(o Number) Number {
	if !n.Known {
		return o
	}
	if !o.Known || n.Value >= o.Value {
		return n
	}
	return o
}
