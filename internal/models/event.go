package models

import "time"

// RecurrenceType names the pattern of a recurring event. Only weekly
// recurrence is produced.
type RecurrenceType string

const (
	RecurrenceWeekly RecurrenceType = "Weekly"
)

// RecurrenceRule describes how an event repeats and the date range it is bound to.
type RecurrenceRule struct {
	Type           RecurrenceType
	Interval       int
	DaysOfWeek     []time.Weekday // Sunday first
	FirstDayOfWeek time.Weekday
	RangeStart     time.Time // midnight of the first day, UTC
	RangeEnd       time.Time // midnight of the last day, UTC
}

// Event is a recurring event ready to be sent to a calendar backend.
// It is built from a single ScheduleRow and discarded after the create call.
type Event struct {
	Subject    string
	Body       string
	Location   string
	Start      time.Time      // first occurrence start, UTC
	End        time.Time      // first occurrence end, UTC
	TimeZone   string         // timezone name passed through to the API (e.g. "Eastern Standard Time")
	Zone       *time.Location // zone the row's wall-clock times were read in
	Recurrence RecurrenceRule
}

// CreatedEvent is what a backend reports back after creating an event.
type CreatedEvent struct {
	ID      string
	Subject string
	WebLink string
}
