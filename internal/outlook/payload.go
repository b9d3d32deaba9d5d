package outlook

import (
	"batchcal/internal/models"
	"batchcal/internal/tz"
)

// EventPayload is the JSON body of a create-event request.
type EventPayload struct {
	Subject       string      `json:"Subject"`
	Body          ItemBody    `json:"Body"`
	Location      Location    `json:"Location"`
	Start         string      `json:"Start"`
	StartTimeZone string      `json:"StartTimeZone"`
	End           string      `json:"End"`
	EndTimeZone   string      `json:"EndTimeZone"`
	Recurrence    *Recurrence `json:"Recurrence,omitempty"`
}

type ItemBody struct {
	ContentType string `json:"ContentType"`
	Content     string `json:"Content"`
}

type Location struct {
	DisplayName string `json:"DisplayName"`
}

type Recurrence struct {
	Pattern RecurrencePattern `json:"Pattern"`
	Range   RecurrenceRange   `json:"Range"`
}

type RecurrencePattern struct {
	Type           string   `json:"Type"`
	Interval       int      `json:"Interval"`
	DaysOfWeek     []string `json:"DaysOfWeek"`
	FirstDayOfWeek string   `json:"FirstDayOfWeek"`
}

type RecurrenceRange struct {
	Type      string `json:"Type"`
	StartDate string `json:"StartDate"`
	EndDate   string `json:"EndDate"`
}

// NewEventPayload converts an event to the API's event schema.
func NewEventPayload(event *models.Event) EventPayload {
	rule := event.Recurrence
	days := make([]string, 0, len(rule.DaysOfWeek))
	for _, d := range rule.DaysOfWeek {
		days = append(days, d.String())
	}

	return EventPayload{
		Subject:       event.Subject,
		Body:          ItemBody{ContentType: "HTML", Content: event.Body},
		Location:      Location{DisplayName: event.Location},
		Start:         tz.Format(event.Start),
		StartTimeZone: event.TimeZone,
		End:           tz.Format(event.End),
		EndTimeZone:   event.TimeZone,
		Recurrence: &Recurrence{
			Pattern: RecurrencePattern{
				Type:           string(rule.Type),
				Interval:       rule.Interval,
				DaysOfWeek:     days,
				FirstDayOfWeek: rule.FirstDayOfWeek.String(),
			},
			Range: RecurrenceRange{
				Type:      "EndDate",
				StartDate: tz.FormatDate(rule.RangeStart),
				EndDate:   tz.FormatDate(rule.RangeEnd),
			},
		},
	}
}

// calendarResource is a calendar as listed by GET /users/{owner}/calendars.
type calendarResource map[string]any

func (c calendarResource) str(key string) string {
	s, _ := c[key].(string)
	return s
}

type calendarList struct {
	Value []calendarResource `json:"value"`
}

type createdEvent struct {
	ID      string `json:"Id"`
	Subject string `json:"Subject"`
	WebLink string `json:"WebLink"`
}
