package scheduler

import (
	"fmt"
	"log/slog"
	"sort"

	"batchcal/internal/models"
)

// Failure records a row that could not be scheduled.
type Failure struct {
	Line     int
	Calendar string
	Event    string
	Err      error
}

// Summary is the outcome of a run.
type Summary struct {
	Attempted int
	Succeeded int
	Failures  []Failure
}

func (s *Summary) record(row models.ScheduleRow, err error) {
	s.Attempted++
	if err == nil {
		s.Succeeded++
		return
	}
	s.Failures = append(s.Failures, Failure{Line: row.Line, Calendar: row.Calendar, Event: row.EventName, Err: err})
}

func (s *Summary) sortFailures() {
	sort.Slice(s.Failures, func(i, j int) bool { return s.Failures[i].Line < s.Failures[j].Line })
}

// Err returns an error when at least one row failed.
func (s *Summary) Err() error {
	if len(s.Failures) == 0 {
		return nil
	}
	return fmt.Errorf("%d of %d rows failed", len(s.Failures), s.Attempted)
}

func (s *Summary) log(logger *slog.Logger) {
	for _, f := range s.Failures {
		logger.Error("Row failed", "line", f.Line, "calendar", f.Calendar, "event", f.Event, "error", f.Err)
	}
	logger.Info("Batch scheduling finished.",
		"attempted", s.Attempted,
		"succeeded", s.Succeeded,
		"failed", len(s.Failures),
	)
}
