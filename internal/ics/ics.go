package ics

import (
	"fmt"
	"io"
	"time"

	"batchcal/internal/models"

	"github.com/emersion/go-ical"
	"github.com/google/uuid"
	"github.com/teambition/rrule-go"
)

const productID = "-//batchcal//EN"

var weekdays = [7]rrule.Weekday{rrule.SU, rrule.MO, rrule.TU, rrule.WE, rrule.TH, rrule.FR, rrule.SA}

// RuleOptions converts an event's recurrence into an RRULE. Occurrences
// start at the event's local start time and run through the last day of
// the range.
func RuleOptions(event *models.Event) rrule.ROption {
	loc := zone(event)
	start := event.Start.In(loc)
	end := event.Recurrence.RangeEnd

	byDay := make([]rrule.Weekday, 0, len(event.Recurrence.DaysOfWeek))
	for _, d := range event.Recurrence.DaysOfWeek {
		byDay = append(byDay, weekdays[d])
	}

	return rrule.ROption{
		Freq:      rrule.WEEKLY,
		Interval:  event.Recurrence.Interval,
		Byweekday: byDay,
		Wkst:      weekdays[event.Recurrence.FirstDayOfWeek],
		Dtstart:   start,
		Until:     time.Date(end.Year(), end.Month(), end.Day(), 23, 59, 59, 0, loc),
	}
}

// Occurrences expands the event's recurrence into concrete start times.
func Occurrences(event *models.Event) ([]time.Time, error) {
	if len(event.Recurrence.DaysOfWeek) == 0 {
		return nil, nil
	}
	rule, err := rrule.NewRRule(RuleOptions(event))
	if err != nil {
		return nil, fmt.Errorf("invalid recurrence for %q: %w", event.Subject, err)
	}
	return rule.All(), nil
}

// NewUID returns a new unique identifier for an event.
func NewUID() string {
	return uuid.New().String()
}

// Component converts an event to a VEVENT with the given UID.
func Component(event *models.Event, uid string) *ical.Component {
	loc := zone(event)

	ve := ical.NewEvent()
	ve.Props.SetText(ical.PropUID, uid)
	ve.Props.SetText(ical.PropSummary, event.Subject)
	ve.Props.SetDateTime(ical.PropDateTimeStamp, time.Now().UTC())
	ve.Props.SetDateTime(ical.PropDateTimeStart, event.Start.In(loc))
	ve.Props.SetDateTime(ical.PropDateTimeEnd, event.End.In(loc))

	if event.Body != "" {
		ve.Props.SetText(ical.PropDescription, event.Body)
	}
	if event.Location != "" {
		ve.Props.SetText(ical.PropLocation, event.Location)
	}
	if len(event.Recurrence.DaysOfWeek) > 0 {
		opt := RuleOptions(event)
		prop := ical.NewProp(ical.PropRecurrenceRule)
		prop.SetValueType(ical.ValueRecurrence)
		prop.Value = opt.RRuleString()
		ve.Props.Set(prop)
	}
	return ve.Component
}

// NewCalendar wraps events into a VCALENDAR. uids must be as long as events.
func NewCalendar(events []*models.Event, uids []string) *ical.Calendar {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, productID)
	for i, e := range events {
		cal.Children = append(cal.Children, Component(e, uids[i]))
	}
	return cal
}

// Write encodes events as an iCalendar document, generating a UID for each.
func Write(w io.Writer, events []*models.Event) error {
	uids := make([]string, len(events))
	for i := range uids {
		uids[i] = NewUID()
	}
	if err := ical.NewEncoder(w).Encode(NewCalendar(events, uids)); err != nil {
		return fmt.Errorf("failed to encode iCalendar: %w", err)
	}
	return nil
}

func zone(event *models.Event) *time.Location {
	if event.Zone != nil {
		return event.Zone
	}
	return time.UTC
}
