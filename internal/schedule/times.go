package schedule

import (
	"fmt"
	"strings"
	"time"

	"batchcal/internal/models"
)

const (
	dateLayout  = "1/2/2006"
	clockLayout = "3:04 PM"
)

// Times holds a row's parsed wall-clock values. They carry no zone: the
// location is time.UTC only as a container for the naive fields.
type Times struct {
	Start      time.Time // start date + start time
	End        time.Time // start date + end time
	RangeStart time.Time // start date at midnight
	RangeEnd   time.Time // end date at midnight
}

// ParseDate parses an MM/DD/YYYY value.
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, want MM/DD/YYYY", s)
	}
	return d, nil
}

// ParseClock parses an HH:MM AM/PM value and returns the time of day as an offset from midnight.
func ParseClock(s string) (time.Duration, error) {
	c, err := time.Parse(clockLayout, strings.ToUpper(strings.TrimSpace(s)))
	if err != nil {
		return 0, fmt.Errorf("invalid time %q, want HH:MM AM/PM", s)
	}
	return time.Duration(c.Hour())*time.Hour + time.Duration(c.Minute())*time.Minute, nil
}

// ParseTimes parses and checks the date and time columns of row.
func ParseTimes(row models.ScheduleRow) (Times, error) {
	startDate, err := ParseDate(row.StartDate)
	if err != nil {
		return Times{}, fmt.Errorf("Start Date: %w", err)
	}
	endDate, err := ParseDate(row.EndDate)
	if err != nil {
		return Times{}, fmt.Errorf("End Date: %w", err)
	}
	startClock, err := ParseClock(row.StartTime)
	if err != nil {
		return Times{}, fmt.Errorf("Start Time: %w", err)
	}
	endClock, err := ParseClock(row.EndTime)
	if err != nil {
		return Times{}, fmt.Errorf("End Time: %w", err)
	}

	if endDate.Before(startDate) {
		return Times{}, fmt.Errorf("End Date %s is before Start Date %s", row.EndDate, row.StartDate)
	}
	if endClock <= startClock {
		return Times{}, fmt.Errorf("End Time %s is not after Start Time %s", row.EndTime, row.StartTime)
	}

	return Times{
		Start:      startDate.Add(startClock),
		End:        startDate.Add(endClock),
		RangeStart: startDate,
		RangeEnd:   endDate,
	}, nil
}
