package service

// import_parser.go — tabular parsing for bulk point uploads.
// Accepted formats: delimited text (CSV) and spreadsheets (XLSX), selected by
// file extension. Two significant columns per row in fixed order:
// license (string), point delta (signed integer). An optional header row is
// skipped heuristically, not by strict schema validation.

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// importRow is one parsed line of an upload. Err is empty for applicable rows.
type importRow struct {
	License string
	Points  int
	Err     string
}

var (
	headerLicensePat = regexp.MustCompile(`(?i)(licen|badge|driver)`)
	headerPointsPat  = regexp.MustCompile(`(?i)(point|punto|pts)`)
)

// isHeaderRow reports whether the first row looks like column labels rather
// than data. Case-insensitive substring match on the first two cells.
func isHeaderRow(cells []string) bool {
	if len(cells) < 2 {
		return false
	}
	return headerLicensePat.MatchString(cells[0]) && headerPointsPat.MatchString(cells[1])
}

// parseCells validates one data row. Invalid rows are kept (with Err set) so
// the operator sees them in the preview and they count as failures.
func parseCells(cells []string) importRow {
	if len(cells) < 2 {
		return importRow{Err: "row has fewer than two fields"}
	}
	license := strings.TrimSpace(cells[0])
	points, err := strconv.Atoi(strings.TrimSpace(cells[1]))
	if license == "" || err != nil {
		return importRow{License: license, Err: "invalid license or points value"}
	}
	return importRow{License: license, Points: points}
}

// parseImportFile interprets the uploaded bytes as a table of
// (license, point delta) rows. A parse failure aborts the whole import.
func parseImportFile(data []byte, filename string) ([]importRow, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xlsm":
		return parseXLSX(data)
	default:
		return parseCSV(data)
	}
}

func parseCSV(data []byte) ([]importRow, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	return rowsFromRecords(records), nil
}

func parseXLSX(data []byte) ([]importRow, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("xlsx has no sheets")
	}
	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read xlsx rows: %w", err)
	}
	return rowsFromRecords(records), nil
}

func rowsFromRecords(records [][]string) []importRow {
	rows := make([]importRow, 0, len(records))
	for i, cells := range records {
		// Skip blank lines outright
		if blankRow(cells) {
			continue
		}
		if i == 0 && isHeaderRow(cells) {
			continue
		}
		rows = append(rows, parseCells(cells))
	}
	return rows
}

func blankRow(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
