// Package xlsx adapts an Excel workbook to sheet.Store.
package xlsx

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/gyeh/trialcost/internal/model"
	"github.com/gyeh/trialcost/internal/sheet"
)

type styleKey struct {
	base  int
	class model.HighlightClass
}

// Workbook is one worksheet of an open .xlsx file.
type Workbook struct {
	f     *excelize.File
	sheet string

	// styles maps an existing style plus highlight to the derived style id,
	// and an existing style to its unfilled variant under class "".
	styles map[styleKey]int
}

// Open opens path and selects sheetName. A missing sheet is a
// *sheet.LookupError.
func Open(path, sheetName string) (*Workbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", path, err)
	}
	idx, err := f.GetSheetIndex(sheetName)
	if err != nil || idx < 0 {
		available := strings.Join(f.GetSheetList(), ", ")
		f.Close()
		return nil, &sheet.LookupError{
			Marker: fmt.Sprintf("sheet %q", sheetName),
			Err:    fmt.Errorf("available: %s", available),
		}
	}
	return &Workbook{f: f, sheet: sheetName, styles: make(map[styleKey]int)}, nil
}

func cellName(row int, col sheet.Column) (string, error) {
	return excelize.CoordinatesToCellName(int(col), row)
}

func (w *Workbook) Designation(row int) (string, error) {
	v, err := w.Cell(row, sheet.ColDesignation)
	return strings.TrimSpace(v), err
}

func (w *Workbook) Cell(row int, col sheet.Column) (string, error) {
	name, err := cellName(row, col)
	if err != nil {
		return "", err
	}
	return w.f.GetCellValue(w.sheet, name, excelize.Options{RawCellValue: true})
}

func (w *Workbook) LastRow() (int, error) {
	rows, err := w.f.GetRows(w.sheet)
	if err != nil {
		return 0, fmt.Errorf("get rows: %w", err)
	}
	return len(rows), nil
}

func (w *Workbook) SetCell(row int, col sheet.Column, value any) error {
	name, err := cellName(row, col)
	if err != nil {
		return err
	}
	return w.f.SetCellValue(w.sheet, name, value)
}

func (w *Workbook) SetHighlight(row int, first, last sheet.Column, class model.HighlightClass) error {
	for col := first; col <= last; col++ {
		name, err := cellName(row, col)
		if err != nil {
			return err
		}
		if err := w.restyle(name, class); err != nil {
			return fmt.Errorf("highlight %s: %w", name, err)
		}
	}
	return nil
}

func (w *Workbook) ClearCell(row int, col sheet.Column) (bool, error) {
	name, err := cellName(row, col)
	if err != nil {
		return false, err
	}
	v, err := w.f.GetCellValue(w.sheet, name, excelize.Options{RawCellValue: true})
	if err != nil {
		return false, err
	}
	filled, err := w.filled(name)
	if err != nil {
		return false, err
	}
	if v == "" && !filled {
		return false, nil
	}
	if v != "" {
		if err := w.f.SetCellValue(w.sheet, name, nil); err != nil {
			return false, err
		}
	}
	if filled {
		if err := w.restyle(name, ""); err != nil {
			return false, fmt.Errorf("unfill %s: %w", name, err)
		}
	}
	return true, nil
}

// Fill returns the fill color of a cell, or "" when it has none.
func (w *Workbook) Fill(row int, col sheet.Column) (string, error) {
	name, err := cellName(row, col)
	if err != nil {
		return "", err
	}
	st, err := w.cellStyle(name)
	if err != nil {
		return "", err
	}
	if len(st.Fill.Color) == 0 {
		return "", nil
	}
	return strings.ToUpper(strings.TrimPrefix(st.Fill.Color[0], "#")), nil
}

func (w *Workbook) cellStyle(name string) (*excelize.Style, error) {
	id, err := w.f.GetCellStyle(w.sheet, name)
	if err != nil {
		return nil, err
	}
	return w.f.GetStyle(id)
}

func (w *Workbook) filled(name string) (bool, error) {
	st, err := w.cellStyle(name)
	if err != nil {
		return false, err
	}
	switch st.Fill.Type {
	case "gradient":
		return true, nil
	case "pattern":
		return st.Fill.Pattern > 0 || len(st.Fill.Color) > 0, nil
	}
	return false, nil
}

// restyle keeps the cell's font, border and number format and replaces its
// fill with the class color, or drops it when class is "".
func (w *Workbook) restyle(name string, class model.HighlightClass) error {
	base, err := w.f.GetCellStyle(w.sheet, name)
	if err != nil {
		return err
	}
	key := styleKey{base: base, class: class}
	id, ok := w.styles[key]
	if !ok {
		st, err := w.f.GetStyle(base)
		if err != nil {
			return err
		}
		st.Fill = excelize.Fill{}
		if class != "" {
			st.Fill = excelize.Fill{
				Type:    "pattern",
				Color:   []string{class.Color()},
				Pattern: 1,
			}
		}
		id, err = w.f.NewStyle(st)
		if err != nil {
			return err
		}
		w.styles[key] = id
	}
	return w.f.SetCellStyle(w.sheet, name, name, id)
}

// SaveAs writes the workbook to path through a temporary file in the same
// directory, so a failed write leaves any existing file untouched.
func (w *Workbook) SaveAs(path string) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".trialcost-*.xlsx")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if err := w.f.Write(tmp); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write workbook: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename to %s: %w", path, err)
	}
	return nil
}

func (w *Workbook) Close() error {
	return w.f.Close()
}

var _ sheet.Store = (*Workbook)(nil)
