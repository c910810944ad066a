package audit

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// workbook wraps excelize for the table dump: one sheet per table, a bold
// header row, one row per record.
type workbook struct {
	file   *excelize.File
	sheets int
}

func newWorkbook() *workbook {
	return &workbook{file: excelize.NewFile()}
}

// addTable writes a full table onto its own sheet. Sheet names are capped at
// the 31-character Excel limit.
func (w *workbook) addTable(name string, columns []string, rows []map[string]interface{}) error {
	if len(name) > 31 {
		name = name[:31]
	}

	if w.sheets == 0 {
		w.file.SetSheetName("Sheet1", name)
	} else {
		if _, err := w.file.NewSheet(name); err != nil {
			return fmt.Errorf("create sheet %s: %w", name, err)
		}
	}
	w.sheets++

	for i, col := range columns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := w.file.SetCellValue(name, cell, col); err != nil {
			return err
		}
	}
	if style, err := w.file.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err == nil {
		start, _ := excelize.CoordinatesToCellName(1, 1)
		end, _ := excelize.CoordinatesToCellName(len(columns), 1)
		_ = w.file.SetCellStyle(name, start, end, style)
	}

	for r, row := range rows {
		for c, col := range columns {
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return err
			}
			if err := w.file.SetCellValue(name, cell, row[col]); err != nil {
				return err
			}
		}
	}
	return nil
}

func (w *workbook) saveToFile(path string) error {
	return w.file.SaveAs(path)
}

func (w *workbook) close() error {
	return w.file.Close()
}
