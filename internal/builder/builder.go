package builder

import (
	"errors"
	"strings"
	"time"

	"batchcal/internal/models"
	"batchcal/internal/schedule"
	"batchcal/internal/tz"
)

// flagTrue is the only value that enables a weekday column.
const flagTrue = "TRUE"

// Builder turns schedule rows into weekly recurring events.
type Builder struct {
	normalizer *tz.Normalizer
	timeZone   string
}

// New creates a Builder. timeZone is passed through to the API as the
// event's start and end timezone.
func New(normalizer *tz.Normalizer, timeZone string) *Builder {
	return &Builder{normalizer: normalizer, timeZone: timeZone}
}

// Build maps row into an Event. It fails on missing names or unparsable
// dates and times.
func (b *Builder) Build(row models.ScheduleRow) (*models.Event, tz.Span, error) {
	if strings.TrimSpace(row.Calendar) == "" {
		return nil, tz.Span{}, errors.New("Calendar is empty")
	}
	if strings.TrimSpace(row.EventName) == "" {
		return nil, tz.Span{}, errors.New("Event Name is empty")
	}

	times, err := schedule.ParseTimes(row)
	if err != nil {
		return nil, tz.Span{}, err
	}
	span := b.normalizer.Convert(times.Start, times.End)

	event := &models.Event{
		Subject:  row.EventName,
		Body:     row.Description,
		Location: row.Location,
		Start:    span.Start,
		End:      span.End,
		TimeZone: b.timeZone,
		Zone:     b.normalizer.Location(),
		Recurrence: models.RecurrenceRule{
			Type:           models.RecurrenceWeekly,
			Interval:       1,
			DaysOfWeek:     DaysOfWeek(row),
			FirstDayOfWeek: time.Sunday,
			RangeStart:     times.RangeStart,
			RangeEnd:       times.RangeEnd,
		},
	}
	return event, span, nil
}

// DaysOfWeek returns the weekdays whose column is exactly "TRUE", Sunday first.
func DaysOfWeek(row models.ScheduleRow) []time.Weekday {
	days := []time.Weekday{}
	for i, flag := range row.DayFlags() {
		if flag == flagTrue {
			days = append(days, time.Weekday(i))
		}
	}
	return days
}

