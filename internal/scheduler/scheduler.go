package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"batchcal/internal/builder"
	"batchcal/internal/ics"
	"batchcal/internal/models"
	"batchcal/internal/resolver"

	"golang.org/x/sync/errgroup"
)

// Backend is a calendar service events are created on.
type Backend interface {
	resolver.Lister
	CreateEvent(ctx context.Context, cal models.Calendar, event *models.Event) (*models.CreatedEvent, error)
}

// Plan is a validated row with the event built from it.
type Plan struct {
	Row     models.ScheduleRow
	Event   *models.Event
	Shifted bool // legacy DST shift applied to the event times
}

// Scheduler creates the planned events on a backend, one row at a time or
// one owner per worker.
type Scheduler struct {
	logger   *slog.Logger
	backend  Backend
	resolver *resolver.Resolver
	dryRun   bool
	workers  int
}

// Options configures a Scheduler.
type Options struct {
	DryRun       bool
	Workers      int
	CalendarName string
}

// NewScheduler creates a new Scheduler.
func NewScheduler(logger *slog.Logger, backend Backend, opts Options) *Scheduler {
	return &Scheduler{
		logger:   logger,
		backend:  backend,
		resolver: resolver.New(logger, backend, opts.CalendarName),
		dryRun:   opts.DryRun,
		workers:  opts.Workers,
	}
}

// BuildPlans builds an event for every row. It stops at the first row that
// cannot be built, so input errors surface before any request is sent.
func BuildPlans(b *builder.Builder, rows []models.ScheduleRow) ([]Plan, error) {
	plans := make([]Plan, 0, len(rows))
	for _, row := range rows {
		event, span, err := b.Build(row)
		if err != nil {
			return nil, fmt.Errorf("schedule line %d (%s): %w", row.Line, row.EventName, err)
		}
		plans = append(plans, Plan{Row: row, Event: event, Shifted: span.Shifted})
	}
	return plans, nil
}

// Run processes every plan and returns the outcome of the run. A failing
// row does not stop the others; it is recorded in the summary.
func (s *Scheduler) Run(ctx context.Context, plans []Plan) *Summary {
	s.logger.Info("Starting batch scheduling.", "rows", len(plans), "dryRun", s.dryRun, "workers", s.workers)
	summary := &Summary{}

	if s.workers <= 1 {
		for _, p := range plans {
			summary.record(p.Row, s.process(ctx, p))
		}
	} else {
		s.runByOwner(ctx, plans, summary)
	}

	summary.log(s.logger)
	return summary
}

// runByOwner gives each owner its own goroutine so that the rows of one
// owner stay in order and the owner's calendars are fetched once.
func (s *Scheduler) runByOwner(ctx context.Context, plans []Plan, summary *Summary) {
	var owners []string
	byOwner := make(map[string][]Plan)
	for _, p := range plans {
		owner := p.Row.Calendar
		if _, ok := byOwner[owner]; !ok {
			owners = append(owners, owner)
		}
		byOwner[owner] = append(byOwner[owner], p)
	}

	var mu sync.Mutex
	g := new(errgroup.Group)
	g.SetLimit(s.workers)
	for _, owner := range owners {
		ownerPlans := byOwner[owner]
		g.Go(func() error {
			for _, p := range ownerPlans {
				err := s.process(ctx, p)
				mu.Lock()
				summary.record(p.Row, err)
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()
	summary.sortFailures()
}

// process resolves the row's calendar and creates its event.
func (s *Scheduler) process(ctx context.Context, p Plan) error {
	row := p.Row
	log := s.logger.With("line", row.Line, "calendar", row.Calendar, "event", row.EventName)

	if err := ctx.Err(); err != nil {
		return err
	}
	if p.Shifted {
		log.Debug("Shifted event by one hour for daylight saving time", "start", p.Event.Start)
	}

	cal, err := s.resolver.Resolve(ctx, row.Calendar)
	if err != nil {
		log.Error("Failed to resolve calendar", "error", err)
		return err
	}

	if s.dryRun {
		occurrences, err := ics.Occurrences(p.Event)
		if err != nil {
			log.Error("Failed to expand recurrence", "error", err)
			return err
		}
		log.Info("[DRY RUN] Would create event",
			"calendarName", cal.Name,
			"start", p.Event.Start,
			"days", p.Event.Recurrence.DaysOfWeek,
			"occurrences", len(occurrences),
		)
		return nil
	}

	created, err := s.backend.CreateEvent(ctx, cal, p.Event)
	if err != nil {
		log.Error("Failed to create event", "error", err)
		return err
	}

	log.Info("Created event.", "calendarName", cal.Name, "id", created.ID)
	return nil
}
