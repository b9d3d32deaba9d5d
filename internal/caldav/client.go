package caldav

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"path"
	"strings"
	"time"

	"batchcal/internal/ics"
	"batchcal/internal/models"

	"github.com/emersion/go-webdav"
	"github.com/emersion/go-webdav/caldav"
)

// basicAuthTransport adds Basic Auth and the client's User-Agent to each request.
type basicAuthTransport struct {
	Username  string
	Password  string
	Transport http.RoundTripper
}

// RoundTrip adds required headers and authentication to each request.
func (t *basicAuthTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.SetBasicAuth(t.Username, t.Password)
	req.Header.Set("User-Agent", "batchcal/1.0")
	return t.Transport.RoundTrip(req)
}

// Client creates events on a CalDAV server. Each owner's calendars live
// under a home set derived from a template such as "/calendars/{owner}/".
type Client struct {
	caldavClient *caldav.Client
	logger       *slog.Logger
	homeSet      string
}

// NewClient creates a CalDAV client for endpoint.
func NewClient(logger *slog.Logger, endpoint, username, password, homeSet string, timeout time.Duration) (*Client, error) {
	httpClient := &http.Client{
		Timeout: timeout,
		Transport: &basicAuthTransport{
			Username:  username,
			Password:  password,
			Transport: http.DefaultTransport,
		},
	}
	return newClient(logger, httpClient, endpoint, homeSet)
}

func newClient(logger *slog.Logger, httpClient webdav.HTTPClient, endpoint, homeSet string) (*Client, error) {
	caldavClient, err := caldav.NewClient(httpClient, endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to create caldav client: %w", err)
	}
	return &Client{caldavClient: caldavClient, logger: logger, homeSet: homeSet}, nil
}

// HomeSetPath returns the calendar home set path for owner.
func HomeSetPath(template, owner string) string {
	p := strings.ReplaceAll(template, "{owner}", owner)
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	if !strings.HasSuffix(p, "/") {
		p += "/"
	}
	return p
}

// ListCalendars returns the calendars found in owner's home set. The
// calendar path serves as its ID.
func (c *Client) ListCalendars(ctx context.Context, owner string) ([]models.Calendar, error) {
	homeSet := HomeSetPath(c.homeSet, owner)
	c.logger.Debug("Finding CalDAV calendars", "owner", owner, "homeSet", homeSet)

	found, err := c.caldavClient.FindCalendars(ctx, homeSet)
	if err != nil {
		return nil, fmt.Errorf("failed to find calendars for %s: %w", owner, err)
	}

	calendars := make([]models.Calendar, 0, len(found))
	for _, cal := range found {
		calendars = append(calendars, models.Calendar{
			ID:    cal.Path,
			Name:  cal.Name,
			Owner: owner,
			Raw: map[string]any{
				"Description":           cal.Description,
				"SupportedComponentSet": cal.SupportedComponentSet,
			},
		})
	}
	return calendars, nil
}

// CreateEvent stores event as a new calendar object in cal.
func (c *Client) CreateEvent(ctx context.Context, cal models.Calendar, event *models.Event) (*models.CreatedEvent, error) {
	uid := ics.NewUID()
	c.logger.Debug("Creating CalDAV event", "calendar", cal.ID, "subject", event.Subject, "uid", uid)

	doc := ics.NewCalendar([]*models.Event{event}, []string{uid})
	objectPath := path.Join(cal.ID, uid+".ics")
	obj, err := c.caldavClient.PutCalendarObject(ctx, objectPath, doc)
	if err != nil {
		return nil, fmt.Errorf("failed to create event on CalDAV server: %w", err)
	}

	return &models.CreatedEvent{ID: uid, Subject: event.Subject, WebLink: obj.Path}, nil
}
