// Package sheet reads and writes rectangular cell ranges of .xlsx workbooks.
package sheet

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/pricofy/sheet-translator/internal/domain"
)

// Range is a rectangular block of cells, 1-based and inclusive.
type Range struct {
	StartCol, StartRow int
	EndCol, EndRow     int
}

// ParseRange parses an A1-style reference such as "A1:C4" or "B2".
// Corners may be given in any order.
func ParseRange(ref string) (Range, error) {
	ref = strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(ref), "$", ""))
	if ref == "" {
		return Range{}, fmt.Errorf("empty range reference")
	}

	first, last, found := strings.Cut(ref, ":")
	if !found {
		last = first
	}
	c1, r1, err := excelize.CellNameToCoordinates(first)
	if err != nil {
		return Range{}, fmt.Errorf("invalid range %q: %w", ref, err)
	}
	c2, r2, err := excelize.CellNameToCoordinates(last)
	if err != nil {
		return Range{}, fmt.Errorf("invalid range %q: %w", ref, err)
	}

	return Range{
		StartCol: min(c1, c2),
		StartRow: min(r1, r2),
		EndCol:   max(c1, c2),
		EndRow:   max(r1, r2),
	}, nil
}

// Rows returns the number of rows in r.
func (r Range) Rows() int { return r.EndRow - r.StartRow + 1 }

// Cols returns the number of columns in r.
func (r Range) Cols() int { return r.EndCol - r.StartCol + 1 }

// Adjacent returns the range of the same size that starts one column to the
// right of r. Translations are written there.
func (r Range) Adjacent() Range {
	width := r.Cols()
	return Range{
		StartCol: r.EndCol + 1,
		StartRow: r.StartRow,
		EndCol:   r.EndCol + width,
		EndRow:   r.EndRow,
	}
}

// String returns r in A1 notation.
func (r Range) String() string {
	start, err := excelize.CoordinatesToCellName(r.StartCol, r.StartRow)
	if err != nil {
		return "?"
	}
	end, err := excelize.CoordinatesToCellName(r.EndCol, r.EndRow)
	if err != nil {
		return start + ":?"
	}
	return start + ":" + end
}

// cells calls fn for every cell of r in row-major order.
func (r Range) cells(fn func(i, j int, name string) error) error {
	for i := 0; i < r.Rows(); i++ {
		for j := 0; j < r.Cols(); j++ {
			name, err := excelize.CoordinatesToCellName(r.StartCol+j, r.StartRow+i)
			if err != nil {
				return err
			}
			if err := fn(i, j, name); err != nil {
				return err
			}
		}
	}
	return nil
}

// Workbook is an open .xlsx file.
type Workbook struct {
	file *excelize.File
	path string
}

// Open opens the workbook at path.
func Open(path string) (*Workbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening workbook %s: %w", path, err)
	}
	return &Workbook{file: f, path: path}, nil
}

// Close releases the workbook.
func (w *Workbook) Close() error {
	return w.file.Close()
}

// SheetName resolves name, defaulting to the active sheet.
func (w *Workbook) SheetName(name string) (string, error) {
	if name == "" {
		return w.file.GetSheetName(w.file.GetActiveSheetIndex()), nil
	}
	if idx, err := w.file.GetSheetIndex(name); err != nil || idx < 0 {
		return "", fmt.Errorf("sheet %q not found", name)
	}
	return name, nil
}

// ReadRange reads the displayed values of the cells in ref.
func (w *Workbook) ReadRange(sheetName, ref string) (Range, domain.Grid, error) {
	r, err := ParseRange(ref)
	if err != nil {
		return Range{}, nil, err
	}
	sheetName, err = w.SheetName(sheetName)
	if err != nil {
		return Range{}, nil, err
	}

	grid := make(domain.Grid, r.Rows())
	for i := range grid {
		grid[i] = make([]string, r.Cols())
	}
	err = r.cells(func(i, j int, name string) error {
		value, err := w.file.GetCellValue(sheetName, name)
		if err != nil {
			return fmt.Errorf("reading %s!%s: %w", sheetName, name, err)
		}
		grid[i][j] = value
		return nil
	})
	if err != nil {
		return Range{}, nil, err
	}
	return r, grid, nil
}

// IsBlank reports whether every cell in r is empty.
func (w *Workbook) IsBlank(sheetName string, r Range) (bool, error) {
	sheetName, err := w.SheetName(sheetName)
	if err != nil {
		return false, err
	}
	blank := true
	err = r.cells(func(_, _ int, name string) error {
		if !blank {
			return nil
		}
		value, err := w.file.GetCellValue(sheetName, name)
		if err != nil {
			return fmt.Errorf("reading %s!%s: %w", sheetName, name, err)
		}
		if value != "" {
			blank = false
		}
		return nil
	})
	return blank, err
}

// WriteRange writes grid into r. The grid must have r's shape.
func (w *Workbook) WriteRange(sheetName string, r Range, grid domain.Grid) error {
	if len(grid) != r.Rows() || grid.Columns() != r.Cols() {
		return fmt.Errorf("grid of %dx%d does not fit range %s", len(grid), grid.Columns(), r)
	}
	sheetName, err := w.SheetName(sheetName)
	if err != nil {
		return err
	}
	return r.cells(func(i, j int, name string) error {
		if j >= len(grid[i]) {
			return fmt.Errorf("%w: row %d", domain.ErrRaggedGrid, i)
		}
		if err := w.file.SetCellStr(sheetName, name, grid[i][j]); err != nil {
			return fmt.Errorf("writing %s!%s: %w", sheetName, name, err)
		}
		return nil
	})
}

// Save writes the workbook back to the file it was opened from.
func (w *Workbook) Save() error {
	return w.SaveAs(w.path)
}

// SaveAs writes the workbook to path.
func (w *Workbook) SaveAs(path string) error {
	if err := w.file.SaveAs(path); err != nil {
		return fmt.Errorf("saving workbook %s: %w", path, err)
	}
	return nil
}
