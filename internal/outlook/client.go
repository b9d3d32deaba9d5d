package outlook

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"batchcal/internal/models"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
)

const userAgent = "batchcal/1.0"

// APIError is returned when the API answers with a non-success status.
type APIError struct {
	Op         string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: invalid response code [%d], response text: %s", e.Op, e.StatusCode, e.Body)
}

// Client talks to the Outlook REST calendar API on behalf of shared mailboxes.
type Client struct {
	http   *resty.Client
	logger *slog.Logger
}

// NewClient creates a client for baseURL (e.g. https://outlook.office365.com/api/v1.0).
// The credentials are sent as HTTP Basic auth on every request.
func NewClient(logger *slog.Logger, baseURL, username, password string, timeout time.Duration) *Client {
	hc := resty.New().
		SetBaseURL(baseURL).
		SetBasicAuth(username, password).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", userAgent)

	return &Client{http: hc, logger: logger}
}

func (c *Client) request(ctx context.Context) *resty.Request {
	return c.http.R().
		SetContext(ctx).
		SetHeader("client-request-id", uuid.NewString())
}

// ListCalendars returns the calendars of owner's mailbox.
func (c *Client) ListCalendars(ctx context.Context, owner string) ([]models.Calendar, error) {
	c.logger.Debug("Fetching shared calendars", "owner", owner)

	var list calendarList
	resp, err := c.request(ctx).
		SetPathParam("owner", owner).
		SetResult(&list).
		Get("/users/{owner}/calendars")
	if err != nil {
		return nil, fmt.Errorf("failed to list calendars for %s: %w", owner, err)
	}
	if resp.IsError() {
		return nil, &APIError{Op: "list calendars", StatusCode: resp.StatusCode(), Body: resp.String()}
	}

	calendars := make([]models.Calendar, 0, len(list.Value))
	for _, item := range list.Value {
		id := item.str("Id")
		if id == "" {
			c.logger.Warn("Skipping calendar without Id", "owner", owner, "name", item.str("Name"))
			continue
		}
		calendars = append(calendars, models.Calendar{
			ID:    id,
			Name:  item.str("Name"),
			Owner: owner,
			Raw:   item,
		})
	}

	c.logger.Debug("Fetched shared calendars", "owner", owner, "count", len(calendars))
	return calendars, nil
}

// CreateEvent creates event in cal. A status above 399 is returned as *APIError.
func (c *Client) CreateEvent(ctx context.Context, cal models.Calendar, event *models.Event) (*models.CreatedEvent, error) {
	c.logger.Debug("Sending create event request", "owner", cal.Owner, "calendar", cal.Name, "subject", event.Subject)

	var created createdEvent
	resp, err := c.request(ctx).
		SetPathParams(map[string]string{"owner": cal.Owner, "calendarId": cal.ID}).
		SetHeader("Content-Type", "application/json").
		SetBody(NewEventPayload(event)).
		SetResult(&created).
		Post("/users/{owner}/calendars/{calendarId}/events")
	if err != nil {
		return nil, fmt.Errorf("failed to create event %q: %w", event.Subject, err)
	}
	if resp.IsError() {
		return nil, &APIError{Op: "create event", StatusCode: resp.StatusCode(), Body: resp.String()}
	}

	return &models.CreatedEvent{ID: created.ID, Subject: created.Subject, WebLink: created.WebLink}, nil
}
