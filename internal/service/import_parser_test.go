package service

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestIsHeaderRow(t *testing.T) {
	cases := []struct {
		name  string
		cells []string
		want  bool
	}{
		{"english labels", []string{"License", "Points"}, true},
		{"spanish labels", []string{"Licencia", "Puntos"}, true},
		{"badge and pts", []string{"Driver Badge", "pts awarded"}, true},
		{"data row", []string{"LIC-001", "150"}, false},
		{"numeric license that mentions nothing", []string{"83321", "40"}, false},
		{"single cell", []string{"License"}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, isHeaderRow(tc.cells))
		})
	}
}

func TestParseCSV_HeaderSkippedAndRowsValidated(t *testing.T) {
	csvData := []byte("license,points\nLIC-001,150\nLIC-002,-30\n,40\nLIC-004,abc\n")

	rows, err := parseImportFile(csvData, "sheet.csv")
	require.NoError(t, err)
	require.Len(t, rows, 4)

	assert.Equal(t, importRow{License: "LIC-001", Points: 150}, rows[0])
	assert.Equal(t, importRow{License: "LIC-002", Points: -30}, rows[1])
	assert.NotEmpty(t, rows[2].Err) // empty license
	assert.NotEmpty(t, rows[3].Err) // non-integer points
	assert.Equal(t, "LIC-004", rows[3].License)
}

func TestParseCSV_NoHeaderFirstRowIsData(t *testing.T) {
	csvData := []byte("LIC-001,150\nLIC-002,75\n")

	rows, err := parseImportFile(csvData, "sheet.csv")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "LIC-001", rows[0].License)
}

func TestParseCSV_BlankLinesSkipped(t *testing.T) {
	csvData := []byte("LIC-001,150\n\nLIC-002,75\n   ,  \n")

	rows, err := parseImportFile(csvData, "sheet.csv")
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestParseCSV_ShortRowKept(t *testing.T) {
	csvData := []byte("LIC-001\nLIC-002,75\n")

	rows, err := parseImportFile(csvData, "sheet.csv")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.NotEmpty(t, rows[0].Err)
	assert.Empty(t, rows[1].Err)
}

func TestParseXLSX(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetCellValue(sheet, "A1", "Licencia"))
	require.NoError(t, f.SetCellValue(sheet, "B1", "Puntos"))
	require.NoError(t, f.SetCellValue(sheet, "A2", "LIC-001"))
	require.NoError(t, f.SetCellValue(sheet, "B2", 150))
	require.NoError(t, f.SetCellValue(sheet, "A3", "LIC-002"))
	require.NoError(t, f.SetCellValue(sheet, "B3", -20))

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))

	rows, err := parseImportFile(buf.Bytes(), "sheet.xlsx")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, importRow{License: "LIC-001", Points: 150}, rows[0])
	assert.Equal(t, importRow{License: "LIC-002", Points: -20}, rows[1])
}

func TestParseImportFile_MangledXLSX(t *testing.T) {
	_, err := parseImportFile([]byte("definitely not a zip"), "sheet.xlsx")
	assert.Error(t, err)
}
