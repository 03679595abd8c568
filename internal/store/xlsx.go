package store

import (
	"fmt"
	"strings"

	"github.com/oukeidos/maintrans/internal/files"
	"github.com/oukeidos/maintrans/internal/record"
	"github.com/xuri/excelize/v2"
)

const maxSheetName = 31

// ExportXLSX writes t to path as a single-sheet workbook with a bold,
// frozen header row. The file is replaced atomically.
func ExportXLSX(path string, t *record.Table) error {
	if t == nil || len(t.Columns) == 0 {
		return fmt.Errorf("no table data to export")
	}
	f := excelize.NewFile()
	defer f.Close()

	sheet := sheetName(t.Name)
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"D9E1F2"}, Pattern: 1},
		Alignment: &excelize.Alignment{Vertical: "center"},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		return fmt.Errorf("failed to create stream writer: %w", err)
	}
	if err := sw.SetPanes(&excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("failed to freeze header: %w", err)
	}
	header := make([]any, len(t.Columns))
	for i, c := range t.Columns {
		header[i] = excelize.Cell{StyleID: headerStyle, Value: c}
	}
	if err := sw.SetRow("A1", header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for i, rec := range t.Records {
		row := make([]any, len(t.Columns))
		for j, v := range t.Row(rec) {
			row[j] = v
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := sw.SetRow(cell, row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}
	if err := sw.Flush(); err != nil {
		return fmt.Errorf("failed to flush sheet: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return fmt.Errorf("failed to write Excel file: %w", err)
	}
	return files.AtomicWrite(path, buf.Bytes(), 0644)
}

// ReadXLSX loads every sheet of the workbook at path as a table named after
// the sheet. The first row of each sheet is its header.
func ReadXLSX(path string) ([]*record.Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open excel file: %w", err)
	}
	defer f.Close()

	var tables []*record.Table
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("failed to read sheet %s: %w", sheet, err)
		}
		if len(rows) == 0 {
			continue
		}
		header := make([]string, len(rows[0]))
		for i, h := range rows[0] {
			header[i] = strings.TrimSpace(h)
			if header[i] == "" {
				header[i] = fmt.Sprintf("column_%d", i+1)
			}
		}
		t := record.NewTable(sheet, header)
		for _, cells := range rows[1:] {
			row := make(map[string]string, len(header))
			for i, c := range header {
				if i < len(cells) {
					row[c] = record.Clean(cells[i])
				} else {
					row[c] = ""
				}
			}
			t.Append(row)
		}
		tables = append(tables, t)
	}
	return tables, nil
}

func sheetName(name string) string {
	name = strings.Map(func(r rune) rune {
		switch r {
		case ':', '\\', '/', '?', '*', '[', ']':
			return '_'
		}
		return r
	}, strings.TrimSpace(name))
	if name == "" {
		return "Sheet1"
	}
	if r := []rune(name); len(r) > maxSheetName {
		name = string(r[:maxSheetName])
	}
	return name
}
