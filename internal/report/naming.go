package report

import (
	"fmt"

	"github.com/grupoandino/reportes/internal/contracts"
)

var spanishMonths = [...]string{
	"", "Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio",
	"Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre",
}

// RangeFilename names an output workbook after the day span it covers,
// in the Spanish style the operation expects.
func RangeFilename(prefix string, min, max contracts.Day) string {
	if min.IsZero() || max.IsZero() {
		return prefix + ".xlsx"
	}
	if min.Key() == max.Key() {
		return fmt.Sprintf("%s %02d de %s %d.xlsx",
			prefix, min.Date, spanishMonths[min.Month], min.Year)
	}
	if min.Month == max.Month && min.Year == max.Year {
		return fmt.Sprintf("%s %02d al %02d de %s %d.xlsx",
			prefix, min.Date, max.Date, spanishMonths[min.Month], min.Year)
	}
	return fmt.Sprintf("%s %02d de %s al %02d de %s %d.xlsx",
		prefix, min.Date, spanishMonths[min.Month], max.Date, spanishMonths[max.Month], max.Year)
}

// daySpan finds the earliest and latest day across records.
func daySpan(recs []*contracts.OperationalRecord) (contracts.Day, contracts.Day) {
	var min, max contracts.Day
	for _, rec := range recs {
		if rec.Day.IsZero() {
			continue
		}
		if min.IsZero() || rec.Day.Before(min) {
			min = rec.Day
		}
		if max.IsZero() || max.Before(rec.Day) {
			max = rec.Day
		}
	}
	return min, max
}
