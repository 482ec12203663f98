// Package memory is an in-memory sheet.Store, used by tests and dry runs.
package memory

import (
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/gyeh/trialcost/internal/model"
	"github.com/gyeh/trialcost/internal/sheet"
)

type cellKey struct {
	row int
	col sheet.Column
}

type cell struct {
	value     string
	highlight model.HighlightClass
}

// Store keeps cell text and highlight per coordinate.
type Store struct {
	mu    sync.Mutex
	cells map[cellKey]cell
}

func New() *Store {
	return &Store{cells: make(map[cellKey]cell)}
}

// Put seeds a cell with text, as a template would hold it.
func (s *Store) Put(row int, col sheet.Column, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.cells[cellKey{row, col}]
	c.value = text
	s.cells[cellKey{row, col}] = c
}

// PutRow seeds designation, unit rate and instructions of row.
func (s *Store) PutRow(row int, designation, unitRate, instructions string) {
	s.Put(row, sheet.ColDesignation, designation)
	if unitRate != "" {
		s.Put(row, sheet.ColUnitRate, unitRate)
	}
	if instructions != "" {
		s.Put(row, sheet.ColInstructions, instructions)
	}
}

// Highlight returns the highlight class of a cell, or "" when unfilled.
func (s *Store) Highlight(row int, col sheet.Column) model.HighlightClass {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cells[cellKey{row, col}].highlight
}

func (s *Store) Designation(row int) (string, error) {
	v, err := s.Cell(row, sheet.ColDesignation)
	return strings.TrimSpace(v), err
}

func (s *Store) Cell(row int, col sheet.Column) (string, error) {
	if row < 1 || col < 1 {
		return "", fmt.Errorf("invalid cell (%d, %d)", row, col)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cells[cellKey{row, col}].value, nil
}

func (s *Store) LastRow() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	last := 0
	for k, c := range s.cells {
		if c.value != "" && k.row > last {
			last = k.row
		}
	}
	return last, nil
}

func (s *Store) SetCell(row int, col sheet.Column, value any) error {
	if row < 1 || col < 1 {
		return fmt.Errorf("invalid cell (%d, %d)", row, col)
	}
	var text string
	switch v := value.(type) {
	case nil:
	case string:
		text = v
	case float64:
		text = strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		text = strconv.Itoa(v)
	default:
		text = fmt.Sprint(v)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.cells[cellKey{row, col}]
	c.value = text
	s.cells[cellKey{row, col}] = c
	return nil
}

func (s *Store) SetHighlight(row int, first, last sheet.Column, class model.HighlightClass) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for col := first; col <= last; col++ {
		c := s.cells[cellKey{row, col}]
		c.highlight = class
		s.cells[cellKey{row, col}] = c
	}
	return nil
}

func (s *Store) ClearCell(row int, col sheet.Column) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.cells[cellKey{row, col}]
	if !ok || (c.value == "" && c.highlight == "") {
		return false, nil
	}
	delete(s.cells, cellKey{row, col})
	return true, nil
}

var _ sheet.Store = (*Store)(nil)
