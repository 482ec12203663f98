package db

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/gyeh/trialcost/internal/model"
)

// LineSource implements pgx.CopyFromSource over the priced lines of a single
// run. Every record must carry that run's id; the first one that does not
// stops the COPY with an error.
type LineSource struct {
	runID   uuid.UUID
	lines   []*model.LineRecord
	pos     int
	current *model.LineRecord
	err     error
}

// NewLineSource creates a CopyFromSource for the lines of run runID.
func NewLineSource(runID uuid.UUID, lines []*model.LineRecord) *LineSource {
	return &LineSource{runID: runID, lines: lines}
}

// Next advances to the next line. Returns false at the end of the batch or
// after an error.
func (s *LineSource) Next() bool {
	if s.err != nil || s.pos >= len(s.lines) {
		return false
	}
	s.current = s.lines[s.pos]
	s.pos++
	return true
}

// Values returns the current line's values in model.LineColumns order.
func (s *LineSource) Values() ([]any, error) {
	if s.current == nil {
		s.err = fmt.Errorf("line %d: nil record", s.pos)
		return nil, s.err
	}
	values, err := s.current.CopyValues()
	if err != nil {
		s.err = fmt.Errorf("row %d: %w", s.current.Row, err)
		return nil, s.err
	}
	if values[0] != s.runID {
		s.err = fmt.Errorf("row %d: belongs to run %s, not %s", s.current.Row, s.current.RunID, s.runID)
		return nil, s.err
	}
	return values, nil
}

// Err returns the error that stopped the COPY, if any.
func (s *LineSource) Err() error {
	return s.err
}

// Sent reports how many lines were handed to COPY.
func (s *LineSource) Sent() int {
	return s.pos
}

var _ pgx.CopyFromSource = (*LineSource)(nil)
