// Package sheet writes tabular exports (payments, inventory) as xlsx
// workbooks.
package sheet

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/tealeg/xlsx"
)

// ContentType is the MIME type of xlsx workbooks.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Table is one worksheet: a header row followed by data rows. Cell values
// may be string, int, int64, float64, bool, time.Time, *time.Time or nil.
type Table struct {
	Name    string
	Columns []string
	Rows    [][]interface{}
}

// AddRow appends a data row.
func (t *Table) AddRow(values ...interface{}) {
	t.Rows = append(t.Rows, values)
}

// Build assembles the workbook in memory.
func Build(tables ...Table) (*xlsx.File, error) {
	file := xlsx.NewFile()
	for _, t := range tables {
		sh, err := file.AddSheet(t.Name)
		if err != nil {
			return nil, fmt.Errorf("add sheet %q: %w", t.Name, err)
		}
		head := sh.AddRow()
		for _, col := range t.Columns {
			cell := head.AddCell()
			cell.Value = col
		}
		for i, values := range t.Rows {
			if len(values) != len(t.Columns) {
				return nil, fmt.Errorf("sheet %q row %d: expected %d cells, got %d", t.Name, i+1, len(t.Columns), len(values))
			}
			row := sh.AddRow()
			for _, v := range values {
				setCellValue(row.AddCell(), v)
			}
		}
	}
	return file, nil
}

// Write builds the workbook and writes it to w only once fully encoded.
func Write(w io.Writer, tables ...Table) error {
	file, err := Build(tables...)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := file.Write(&buf); err != nil {
		return fmt.Errorf("encode workbook: %w", err)
	}
	_, err = io.Copy(w, &buf)
	return err
}

func setCellValue(cell *xlsx.Cell, v interface{}) {
	switch val := v.(type) {
	case nil:
		cell.SetString("")
	case string:
		cell.SetString(val)
	case int:
		cell.SetInt(val)
	case int64:
		cell.SetInt64(val)
	case float64:
		cell.SetFloat(val)
	case bool:
		cell.SetBool(val)
	case time.Time:
		cell.SetDateTime(val)
	case *time.Time:
		if val == nil {
			cell.SetString("")
			return
		}
		cell.SetDateTime(*val)
	case *string:
		if val == nil {
			cell.SetString("")
			return
		}
		cell.SetString(*val)
	case *float64:
		if val == nil {
			cell.SetString("")
			return
		}
		cell.SetFloat(*val)
	default:
		cell.SetValue(val)
	}
}
