package resolver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"batchcal/internal/models"
)

// ErrCalendarNotFound is returned when no calendar matches a row's owner.
var ErrCalendarNotFound = errors.New("no calendar found for owner")

// Lister lists the calendars of one owner's mailbox.
type Lister interface {
	ListCalendars(ctx context.Context, owner string) ([]models.Calendar, error)
}

// Resolver keeps the set of calendars fetched during a run. Calendars are
// unique by ID; fetching again updates entries in place.
type Resolver struct {
	lister       Lister
	logger       *slog.Logger
	calendarName string

	mu        sync.Mutex
	calendars []models.Calendar
	fetched   map[string]bool
	ownerMu   map[string]*sync.Mutex
}

// New creates a Resolver. When calendarName is set, Resolve only returns
// calendars with that display name.
func New(logger *slog.Logger, lister Lister, calendarName string) *Resolver {
	return &Resolver{
		lister:       lister,
		logger:       logger,
		calendarName: calendarName,
		fetched:      make(map[string]bool),
		ownerMu:      make(map[string]*sync.Mutex),
	}
}

// Calendars returns a copy of the current calendar set.
func (r *Resolver) Calendars() []models.Calendar {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.Calendar, len(r.calendars))
	copy(out, r.calendars)
	return out
}

// Fetch lists owner's calendars and merges them into the set. On failure
// the set is left unchanged and the error is logged and returned.
func (r *Resolver) Fetch(ctx context.Context, owner string) error {
	lock := r.ownerLock(owner)
	lock.Lock()
	defer lock.Unlock()
	return r.fetch(ctx, owner)
}

func (r *Resolver) fetch(ctx context.Context, owner string) error {
	fetched, err := r.lister.ListCalendars(ctx, owner)
	if err != nil {
		r.logger.Error("Failed to fetch shared calendars", "owner", owner, "error", err)
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, cal := range fetched {
		r.merge(owner, cal)
	}
	r.fetched[owner] = true
	return nil
}

// merge must be called with r.mu held.
func (r *Resolver) merge(owner string, cal models.Calendar) {
	for i := range r.calendars {
		if r.calendars[i].ID == cal.ID {
			r.calendars[i].Name = cal.Name
			r.calendars[i].Raw = cal.Raw
			r.logger.Debug("Calendar is a duplicate, updated in place", "name", cal.Name, "id", cal.ID)
			return
		}
	}
	cal.Owner = owner
	r.calendars = append(r.calendars, cal)
	r.logger.Debug("Appended calendar", "name", cal.Name, "id", cal.ID, "owner", owner)
}

// Resolve returns the calendar events for owner should be created in.
// The owner's calendars are fetched on first use only. If none match,
// the error wraps ErrCalendarNotFound and any fetch error.
func (r *Resolver) Resolve(ctx context.Context, owner string) (models.Calendar, error) {
	lock := r.ownerLock(owner)
	lock.Lock()
	defer lock.Unlock()

	var fetchErr error
	r.mu.Lock()
	done := r.fetched[owner]
	r.mu.Unlock()
	if !done {
		fetchErr = r.fetch(ctx, owner)
	}

	if cal, ok := r.find(owner); ok {
		return cal, nil
	}

	name := r.calendarName
	if name == "" {
		name = "*"
	}
	if fetchErr != nil {
		return models.Calendar{}, fmt.Errorf("%w %s (calendar %q): %w", ErrCalendarNotFound, owner, name, fetchErr)
	}
	return models.Calendar{}, fmt.Errorf("%w %s (calendar %q)", ErrCalendarNotFound, owner, name)
}

func (r *Resolver) find(owner string) (models.Calendar, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, cal := range r.calendars {
		if cal.Owner != owner {
			continue
		}
		if r.calendarName == "" || cal.Name == r.calendarName {
			return cal, true
		}
	}
	return models.Calendar{}, false
}

func (r *Resolver) ownerLock(owner string) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()
	lock, ok := r.ownerMu[owner]
	if !ok {
		lock = &sync.Mutex{}
		r.ownerMu[owner] = lock
	}
	return lock
}
