// Package ingest turns an uploaded workbook into question records.
package ingest

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"

	"github.com/mind-engage/mindengage-qpaper/internal/bank"
)

const (
	MIMEXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	MIMEXLS  = "application/vnd.ms-excel"
)

var AcceptedMIMETypes = []string{MIMEXLSX, MIMEXLS}

var ErrParse = errors.New("workbook could not be parsed")

// Row is one spreadsheet row keyed by header. Empty cells are absent.
type Row map[string]string

// Column headers of the question sheet.
const (
	ColUnit        = "Unit"
	ColQuestion    = "Question"
	ColBTLevel     = "B.T Level"
	ColSubjectCode = "Subject Code"
	ColSubject     = "Subject"
	ColBranch      = "Branch"
	ColRegulation  = "Regulation"
	ColYear        = "Year"
	ColSemester    = "Sem"
	ColMonth       = "Month"
)

func Accepts(mime string) bool {
	mime = strings.ToLower(strings.TrimSpace(mime))
	for _, m := range AcceptedMIMETypes {
		if mime == m {
			return true
		}
	}
	return false
}

// Normalize maps rows to questions in row order with IDs 1..len(rows).
// Nothing is validated: a missing column leaves the field empty and a unit
// that is not an integer becomes bank.NoUnit.
func Normalize(rows []Row) []bank.Question {
	out := make([]bank.Question, 0, len(rows))
	for i, r := range rows {
		out = append(out, bank.Question{
			ID:          i + 1,
			Unit:        bank.ParseUnit(r[ColUnit]),
			Question:    r[ColQuestion],
			BTLevel:     r[ColBTLevel],
			SubjectCode: r[ColSubjectCode],
			Subject:     r[ColSubject],
			Branch:      r[ColBranch],
			Regulation:  r[ColRegulation],
			Year:        r[ColYear],
			Semester:    r[ColSemester],
			Month:       r[ColMonth],
		})
	}
	return out
}

// ReadFile reads the first sheet of the workbook at path. mime selects the
// decoder; an empty mime falls back to the file extension.
func ReadFile(path, mime string) ([]Row, error) {
	if mime == "" {
		mime = mimeFromExt(path)
	}
	var (
		cells [][]string
		err   error
	)
	switch strings.ToLower(mime) {
	case MIMEXLSX:
		cells, err = readXLSX(path)
	case MIMEXLS:
		cells, err = readXLS(path)
	default:
		return nil, fmt.Errorf("%w: unsupported type %q", ErrParse, mime)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	return toRows(cells), nil
}

// Load reads and normalizes in one step.
func Load(path, mime string) ([]bank.Question, error) {
	rows, err := ReadFile(path, mime)
	if err != nil {
		return nil, err
	}
	return Normalize(rows), nil
}

func mimeFromExt(path string) string {
	p := strings.ToLower(path)
	switch {
	case strings.HasSuffix(p, ".xlsx"):
		return MIMEXLSX
	case strings.HasSuffix(p, ".xls"):
		return MIMEXLS
	}
	return ""
}

func readXLSX(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("workbook has no sheets")
	}
	return f.GetRows(sheets[0])
}

// xlsMaxCols is the BIFF8 column limit.
const xlsMaxCols = 256

// readXLS reads the first sheet of a legacy workbook. The decoder panics on
// some malformed input and on row gaps, so panics are reported as errors.
func readXLS(path string) (out [][]string, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	defer func() {
		if r := recover(); r != nil {
			out, err = nil, fmt.Errorf("xls decoder: %v", r)
		}
	}()

	wb, err := xls.OpenReader(f, "utf-8")
	if err != nil {
		return nil, err
	}
	if wb == nil {
		return nil, errors.New("no Workbook stream")
	}
	if wb.NumSheets() == 0 {
		return nil, errors.New("workbook has no sheets")
	}
	sheet := wb.GetSheet(0)
	if sheet == nil {
		return nil, errors.New("first sheet unreadable")
	}
	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := xlsRow(sheet, i)
		if row == nil {
			out = append(out, nil)
			continue
		}
		out = append(out, xlsCells(row))
	}
	return out, nil
}

// xlsRow returns nil for rows the sheet has no record of.
func xlsRow(sheet *xls.WorkSheet, i int) (row *xls.Row) {
	defer func() {
		if recover() != nil {
			row = nil
		}
	}()
	return sheet.Row(i)
}

// xlsCells sizes the row from the highest populated column. Rows built only
// from cell records report LastCol 0.
func xlsCells(row *xls.Row) []string {
	width := row.LastCol()
	for c := width; c < xlsMaxCols; c++ {
		if row.Col(c) != "" {
			width = c + 1
		}
	}
	cells := make([]string, width)
	for c := range cells {
		cells[c] = row.Col(c)
	}
	return cells
}

// toRows uses the first non-blank row as header. Blank rows are skipped,
// blank cells and cells under a blank header are left out of the row.
func toRows(cells [][]string) []Row {
	var header []string
	rows := []Row{}
	for _, line := range cells {
		if blank(line) {
			continue
		}
		if header == nil {
			header = make([]string, len(line))
			for i, h := range line {
				header[i] = strings.TrimSpace(h)
			}
			continue
		}
		r := Row{}
		for i, v := range line {
			if i >= len(header) || header[i] == "" || v == "" {
				continue
			}
			r[header[i]] = v
		}
		rows = append(rows, r)
	}
	return rows
}

func blank(line []string) bool {
	for _, v := range line {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
