package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// WriteXLSX saves the tables as one workbook, one sheet per table.
func WriteXLSX(path string, tables ...Table) (err error) {
	if len(tables) == 0 {
		return fmt.Errorf("no tables to write")
	}
	f := excelize.NewFile()
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	for _, t := range tables {
		if _, err := f.NewSheet(t.Name); err != nil {
			return fmt.Errorf("sheet %s: %w", t.Name, err)
		}
		header := t.Header
		if err := f.SetSheetRow(t.Name, "A1", &header); err != nil {
			return fmt.Errorf("sheet %s header: %w", t.Name, err)
		}
		for i, row := range t.Rows {
			cell, err := excelize.CoordinatesToCellName(1, i+2)
			if err != nil {
				return err
			}
			values := row
			if err := f.SetSheetRow(t.Name, cell, &values); err != nil {
				return fmt.Errorf("sheet %s row %d: %w", t.Name, i+1, err)
			}
		}
	}
	if tables[0].Name != "Sheet1" {
		if err := f.DeleteSheet("Sheet1"); err != nil {
			return err
		}
	}
	return f.SaveAs(path)
}
