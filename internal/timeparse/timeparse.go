// Package timeparse normalizes the date and time-of-day spellings found
// across the input exports into canonical Day and Clock values.
package timeparse

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/grupoandino/reportes/internal/contracts"
)

// serialEpoch is the spreadsheet serial-date epoch.
var serialEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// Numeric day values are only treated as spreadsheet serials above this
// threshold; smaller integers are more likely stray counts than dates.
const serialThreshold = 40000

// serialCeiling keeps eight-digit YYYYMMDD values out of the serial branch.
const serialCeiling = 80000

// dayLayouts is the parse ladder, day-first forms before month-first.
var dayLayouts = []string{
	"02/01/2006",
	"2006-01-02",
	"02-01-2006",
	"2006/01/02",
	"01/02/2006",
	"02.01.2006",
}

var spanishMonths = map[string]int{
	"enero": 1, "febrero": 2, "marzo": 3, "abril": 4,
	"mayo": 5, "junio": 6, "julio": 7, "agosto": 8,
	"septiembre": 9, "setiembre": 9, "octubre": 10,
	"noviembre": 11, "diciembre": 12,
}

// spanishDayRe matches long forms like "8 de Septiembre de 2025".
var spanishDayRe = regexp.MustCompile(`(?i)^(\d{1,2})\s+de\s+([a-zá-ú]+)(?:\s+de)?\s+(\d{4})$`)

// ParseDay normalizes one raw day spelling. It reports false for text
// it cannot read; callers keep the zero Day as an explicit unknown.
func ParseDay(raw string) (contracts.Day, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return contracts.Day{}, false
	}

	// Spanish long form carries spaces, so it goes before the time cut.
	if m := spanishDayRe.FindStringSubmatch(s); m != nil {
		month, ok := spanishMonths[strings.ToLower(m[2])]
		if !ok {
			return contracts.Day{}, false
		}
		date, _ := strconv.Atoi(m[1])
		year, _ := strconv.Atoi(m[3])
		return validDay(year, month, date)
	}

	// Drop a trailing time component.
	if idx := strings.IndexAny(s, " T"); idx > 0 {
		s = s[:idx]
	}
	s = strings.TrimSuffix(s, ".0")

	// Dotted dates pass isDigits too, so a failed numeric parse still
	// falls through to the layout ladder.
	if isDigits(s) {
		if d, ok := parseNumericDay(s); ok {
			return d, true
		}
	}

	for _, layout := range dayLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return contracts.DayFromTime(t), true
		}
	}
	return contracts.Day{}, false
}

// parseNumericDay handles compact YYYYMMDD values and spreadsheet
// serial dates.
func parseNumericDay(s string) (contracts.Day, bool) {
	if len(s) == 8 {
		if t, err := time.Parse("20060102", s); err == nil {
			return contracts.DayFromTime(t), true
		}
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return contracts.Day{}, false
	}
	if n > serialThreshold && n < serialCeiling {
		t := serialEpoch.AddDate(0, 0, int(n))
		return contracts.DayFromTime(t), true
	}
	return contracts.Day{}, false
}

func validDay(year, month, date int) (contracts.Day, bool) {
	if month < 1 || month > 12 || date < 1 || date > 31 {
		return contracts.Day{}, false
	}
	t := time.Date(year, time.Month(month), date, 0, 0, 0, 0, time.UTC)
	if t.Day() != date {
		return contracts.Day{}, false
	}
	return contracts.DayFromTime(t), true
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if (r < '0' || r > '9') && r != '.' {
			return false
		}
	}
	return true
}

// clockLayouts covers 24h and 12h spellings with and without seconds.
var clockLayouts = []string{
	"3:04:05 PM",
	"3:04 PM",
	"3:04:05PM",
	"3:04PM",
	"15:04:05",
	"15:04",
}

// ParseClock normalizes one raw time-of-day spelling. Timestamps with a
// date component contribute only their clock part.
func ParseClock(raw string) (contracts.Clock, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return contracts.Clock{}, false
	}

	// Day-fraction serials from spreadsheet cells.
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		if f >= 0 && f < 1 {
			secs := int(math.Round(f * 86400))
			return contracts.NewClock(secs/3600, secs/60%60, secs%60), true
		}
		return contracts.Clock{}, false
	}

	// Keep only the clock part of full timestamps.
	if strings.ContainsAny(s, "/-") {
		if idx := strings.IndexAny(s, " T"); idx > 0 {
			s = s[idx+1:]
		}
	}

	s = strings.ToUpper(s)
	s = strings.ReplaceAll(s, "A.M.", "AM")
	s = strings.ReplaceAll(s, "P.M.", "PM")

	for _, layout := range clockLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return contracts.NewClock(t.Hour(), t.Minute(), t.Second()), true
		}
	}
	return contracts.Clock{}, false
}
