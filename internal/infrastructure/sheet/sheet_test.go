package sheet

import (
	"bytes"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestReadCSVSkipsBOMAndBlankRows(t *testing.T) {
	input := "\xEF\xBB\xBFNOME,FUNÇÃO,MATRICULA\nAlice,Welder,123\n,,\nBob,,124\n"

	table, err := ReadCSV(strings.NewReader(input), "")
	require.NoError(t, err)

	assert.Equal(t, []string{"NOME", "FUNÇÃO", "MATRICULA"}, table.Header)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, []string{"Bob", "", "124"}, table.Rows[1])
	assert.Equal(t, []int{2, 4}, table.Lines)
}

func TestReadCSVKeepsSourceLinesAcrossEmptyLines(t *testing.T) {
	input := "NOME,MATRICULA\nAlice,1\n\n\nBob,2\n\"Carla\nSilva\",3\nDan,4\n"

	table, err := ReadCSV(strings.NewReader(input), "")
	require.NoError(t, err)

	require.Len(t, table.Rows, 4)
	assert.Equal(t, []int{2, 5, 6, 8}, table.Lines)
	assert.Equal(t, 5, table.Line(1))
}

func TestTableLineWithoutRecordedLines(t *testing.T) {
	table := Table{Header: []string{"a"}, Rows: [][]string{{"1"}, {"2"}}}
	assert.Equal(t, 3, table.Line(1))
}

func TestReadCSVSemicolonAndWindows1252(t *testing.T) {
	input := []byte("NOME;FUN\xc7\xc3O;MATRICULA\nJo\xe3o;Eletricista;7\n")

	table, err := ReadCSV(bytes.NewReader(input), "windows-1252")
	require.NoError(t, err)

	assert.Equal(t, "FUNÇÃO", table.Header[1])
	require.Len(t, table.Rows, 1)
	assert.Equal(t, "João", table.Rows[0][0])
}

func TestReadCSVPadsShortRows(t *testing.T) {
	table, err := ReadCSV(strings.NewReader("a,b,c\n1\n"), "utf-8")
	require.NoError(t, err)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, []string{"1", "", ""}, table.Rows[0])
}

func TestReadCSVRejectsEmptyAndUnknownEncoding(t *testing.T) {
	_, err := ReadCSV(strings.NewReader(""), "")
	assert.ErrorIs(t, err, ErrEmpty)

	_, err = ReadCSV(strings.NewReader("a\n1\n"), "ebcdic")
	assert.Error(t, err)
}

func TestColumnMatchesAliasesIgnoringAccentsAndCase(t *testing.T) {
	table := Table{Header: []string{"Nome", "Funcao", "Matrícula", "Validade  do ASO"}}

	idx, ok := table.Column([]string{"FUNÇÃO", "CARGO"})
	require.True(t, ok)
	assert.Equal(t, 1, idx)

	idx, ok = table.Column([]string{"MATRICULA"})
	require.True(t, ok)
	assert.Equal(t, 2, idx)

	idx, ok = table.Column([]string{"VALIDADE DO ASO"})
	require.True(t, ok)
	assert.Equal(t, 3, idx)

	_, ok = table.Column([]string{"CNH"})
	assert.False(t, ok)
}

func TestCell(t *testing.T) {
	row := []string{" a ", "b"}
	assert.Equal(t, "a", Cell(row, 0))
	assert.Equal(t, "", Cell(row, 5))
	assert.Equal(t, "", Cell(row, -1))
}

func TestReadXLSXReturnsRawValues(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]any{"NOME", "MATRICULA", "ASO"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]any{"Alice", 123, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)}))

	path := filepath.Join(t.TempDir(), "employees.xlsx")
	require.NoError(t, f.SaveAs(path))

	table, err := ReadFile(path, Options{})
	require.NoError(t, err)

	assert.Equal(t, []string{"NOME", "MATRICULA", "ASO"}, table.Header)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, "123", table.Rows[0][1])

	serial, err := strconv.ParseFloat(table.Rows[0][2], 64)
	require.NoError(t, err, "date cell should be an Excel serial number, got %q", table.Rows[0][2])
	got, err := excelize.ExcelDateToTime(serial, false)
	require.NoError(t, err)
	assert.Equal(t, "2024-01-15", got.Format("2006-01-02"))
}

func TestReadXLSXUnknownSheet(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	path := filepath.Join(t.TempDir(), "book.xlsx")
	require.NoError(t, f.SaveAs(path))

	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()

	_, err = ReadXLSX(file, "Missing")
	assert.ErrorIs(t, err, ErrSheetNotFound)
}

func TestReadFileRejectsUnknownExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.ods")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	_, err := ReadFile(path, Options{})
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}
