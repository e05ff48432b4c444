package infrastructure

import (
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"resume-builder/internal/domain"

	"github.com/xuri/excelize/v2"
)

// Legacy .xls (BIFF) workbooks cannot be opened by excelize.
var spreadsheetExts = map[string]bool{".xlsx": true}

func IsSpreadsheet(name string) bool {
	return spreadsheetExts[strings.ToLower(filepath.Ext(name))]
}

var standardColumns = []string{domain.ColFirstName, domain.ColLastName, domain.ColExperience, domain.ColExpertise}

// SkillMatrixLoader reads skill matrix workbooks. The first sheet is a
// cover page and is skipped; every other sheet contributes one group.
type SkillMatrixLoader struct{}

func NewSkillMatrixLoader() *SkillMatrixLoader { return &SkillMatrixLoader{} }

func (l *SkillMatrixLoader) LoadFile(path string) ([]domain.SheetGroup, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()
	return readSkillMatrix(f)
}

func (l *SkillMatrixLoader) LoadReader(r io.Reader) ([]domain.SheetGroup, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()
	return readSkillMatrix(f)
}

func readSkillMatrix(f *excelize.File) ([]domain.SheetGroup, error) {
	sheets := f.GetSheetList()
	groups := []domain.SheetGroup{}
	nextID := 1
	if len(sheets) < 2 {
		return groups, nil
	}

	for _, sheet := range sheets[1:] {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
		}
		group := domain.SheetGroup{SheetName: sheet, Data: []domain.SkillMatrixRecord{}}
		if len(rows) == 0 {
			groups = append(groups, group)
			continue
		}

		header := headerRow(rows[0])
		for _, row := range rows[1:] {
			if blankRow(row) {
				continue
			}
			rec := domain.SkillMatrixRecord{ID: nextID, Columns: header, Values: map[string]interface{}{}}
			for i, col := range header {
				if i >= len(row) {
					break
				}
				if v := strings.TrimSpace(row[i]); v != "" {
					rec.Values[col] = cellValue(v)
				}
			}
			group.Data = append(group.Data, rec)
			nextID++
		}
		groups = append(groups, group)
	}
	return groups, nil
}

// headerRow names unnamed columns by position and renames the first four
// to the standard names when the sheet has at least four columns.
func headerRow(raw []string) []string {
	header := make([]string, len(raw))
	for i, h := range raw {
		h = strings.TrimSpace(h)
		if h == "" {
			h = fmt.Sprintf("Unnamed: %d", i)
		}
		header[i] = h
	}
	if len(header) >= len(standardColumns) {
		copy(header, standardColumns)
	}
	return header
}

func blankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// cellValue keeps numbers numeric so they serialize the way the sheet
// shows them. Codes with a leading zero ("0123") stay text.
func cellValue(s string) interface{} {
	if leadingZero(s) {
		return s
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}

func leadingZero(s string) bool {
	s = strings.TrimLeft(s, "+-")
	return len(s) > 1 && s[0] == '0' && s[1] != '.'
}
