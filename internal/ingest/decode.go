// Package ingest decodes uploaded exports into datasets and carries
// the per-source schema definitions.
package ingest

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"

	"github.com/grupoandino/reportes/internal/contracts"
)

// Decode reads one upload into a dataset. Workbooks decode their first
// sheet; everything else is treated as delimited text.
func Decode(name string, r io.Reader, access contracts.Access) (*contracts.Dataset, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx", ".xlsm", ".xls":
		return decodeWorkbook(name, r, access)
	default:
		return decodeCSV(name, r, access)
	}
}

func decodeWorkbook(name string, r io.Reader, access contracts.Access) (*contracts.Dataset, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook %q: %w", name, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook %q has no sheets", name)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q of %q: %w", sheets[0], name, err)
	}
	return buildDataset(name, rows, access), nil
}

func decodeCSV(name string, r io.Reader, access contracts.Access) (*contracts.Dataset, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read %q: %w", name, err)
	}
	text := decodeText(raw)

	reader := csv.NewReader(strings.NewReader(text))
	reader.Comma = sniffDelimiter(text)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse %q: %w", name, err)
	}
	return buildDataset(name, rows, access), nil
}

// decodeText falls back to latin-1 when the payload is not valid
// UTF-8; these exports mix both encodings.
func decodeText(raw []byte) string {
	raw = bytes.TrimPrefix(raw, []byte{0xEF, 0xBB, 0xBF})
	if utf8.Valid(raw) {
		return string(raw)
	}
	var b strings.Builder
	b.Grow(len(raw))
	for _, c := range raw {
		b.WriteRune(rune(c))
	}
	return b.String()
}

// sniffDelimiter picks the separator from the first line.
func sniffDelimiter(text string) rune {
	line := text
	if idx := strings.IndexByte(text, '\n'); idx >= 0 {
		line = text[:idx]
	}
	if strings.Count(line, ";") > strings.Count(line, ",") {
		return ';'
	}
	return ','
}

func buildDataset(name string, rows [][]string, access contracts.Access) *contracts.Dataset {
	ds := &contracts.Dataset{Name: name, Access: access}
	if access == contracts.AccessHeadered && len(rows) > 0 {
		ds.Headers = rows[0]
		rows = rows[1:]
	}
	// Drop fully blank trailing rows.
	for _, row := range rows {
		if blankRow(row) {
			continue
		}
		ds.Rows = append(ds.Rows, row)
	}
	return ds
}

func blankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
