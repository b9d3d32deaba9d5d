package resolver

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"

	"batchcal/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLister struct {
	mu        sync.Mutex
	responses map[string][][]models.Calendar
	errs      map[string]error
	calls     map[string]int
}

func newFakeLister() *fakeLister {
	return &fakeLister{
		responses: make(map[string][][]models.Calendar),
		errs:      make(map[string]error),
		calls:     make(map[string]int),
	}
}

func (f *fakeLister) ListCalendars(_ context.Context, owner string) ([]models.Calendar, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := f.calls[owner]
	f.calls[owner]++
	if err := f.errs[owner]; err != nil {
		return nil, err
	}
	resp := f.responses[owner]
	if len(resp) == 0 {
		return nil, nil
	}
	if n >= len(resp) {
		n = len(resp) - 1
	}
	return resp[n], nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestFetch_DedupByID(t *testing.T) {
	lister := newFakeLister()
	lister.responses["room@example.com"] = [][]models.Calendar{
		{{ID: "A", Name: "Calendar", Raw: map[string]any{"Color": "Auto"}}, {ID: "B", Name: "Holidays"}},
		{{ID: "A", Name: "Room Calendar", Raw: map[string]any{"Color": "Blue"}}, {ID: "B", Name: "Holidays"}},
	}
	r := New(testLogger(), lister, "")
	ctx := context.Background()

	require.NoError(t, r.Fetch(ctx, "room@example.com"))
	require.Len(t, r.Calendars(), 2)

	require.NoError(t, r.Fetch(ctx, "room@example.com"))
	cals := r.Calendars()
	require.Len(t, cals, 2)
	assert.Equal(t, "Room Calendar", cals[0].Name)
	assert.Equal(t, "Blue", cals[0].Raw["Color"])
	assert.Equal(t, "room@example.com", cals[0].Owner)
}

func TestFetch_KeepsFirstOwnerForSharedID(t *testing.T) {
	lister := newFakeLister()
	lister.responses["a@example.com"] = [][]models.Calendar{{{ID: "X", Name: "Shared"}}}
	lister.responses["b@example.com"] = [][]models.Calendar{{{ID: "X", Name: "Shared (b)"}}}
	r := New(testLogger(), lister, "")

	require.NoError(t, r.Fetch(context.Background(), "a@example.com"))
	require.NoError(t, r.Fetch(context.Background(), "b@example.com"))

	cals := r.Calendars()
	require.Len(t, cals, 1)
	assert.Equal(t, "a@example.com", cals[0].Owner)
	assert.Equal(t, "Shared (b)", cals[0].Name)
}

func TestFetch_ErrorLeavesSetUnchanged(t *testing.T) {
	lister := newFakeLister()
	lister.responses["a@example.com"] = [][]models.Calendar{{{ID: "A", Name: "Calendar"}}}
	lister.errs["b@example.com"] = errors.New("connection reset")
	r := New(testLogger(), lister, "")

	require.NoError(t, r.Fetch(context.Background(), "a@example.com"))
	assert.Error(t, r.Fetch(context.Background(), "b@example.com"))
	assert.Len(t, r.Calendars(), 1)
}

func TestResolve(t *testing.T) {
	lister := newFakeLister()
	lister.responses["a@example.com"] = [][]models.Calendar{{{ID: "A1", Name: "Calendar"}, {ID: "A2", Name: "Rooms"}}}
	r := New(testLogger(), lister, "")
	ctx := context.Background()

	cal, err := r.Resolve(ctx, "a@example.com")
	require.NoError(t, err)
	assert.Equal(t, "A1", cal.ID)

	_, err = r.Resolve(ctx, "a@example.com")
	require.NoError(t, err)
	assert.Equal(t, 1, lister.calls["a@example.com"], "owner is fetched once per session")
}

func TestResolve_ByName(t *testing.T) {
	lister := newFakeLister()
	lister.responses["a@example.com"] = [][]models.Calendar{{{ID: "A1", Name: "Calendar"}, {ID: "A2", Name: "Rooms"}}}
	r := New(testLogger(), lister, "Rooms")

	cal, err := r.Resolve(context.Background(), "a@example.com")
	require.NoError(t, err)
	assert.Equal(t, "A2", cal.ID)
}

func TestResolve_NotFound(t *testing.T) {
	lister := newFakeLister()
	fetchErr := errors.New("403 forbidden")
	lister.errs["denied@example.com"] = fetchErr
	r := New(testLogger(), lister, "")
	ctx := context.Background()

	_, err := r.Resolve(ctx, "empty@example.com")
	assert.ErrorIs(t, err, ErrCalendarNotFound)

	_, err = r.Resolve(ctx, "denied@example.com")
	assert.ErrorIs(t, err, ErrCalendarNotFound)
	assert.ErrorIs(t, err, fetchErr)

	// a failed fetch is retried on the next row
	_, _ = r.Resolve(ctx, "denied@example.com")
	assert.Equal(t, 2, lister.calls["denied@example.com"])
}

func TestResolve_Concurrent(t *testing.T) {
	lister := newFakeLister()
	owners := []string{"a@example.com", "b@example.com", "c@example.com"}
	for _, o := range owners {
		lister.responses[o] = [][]models.Calendar{{{ID: o + "-cal", Name: "Calendar"}}}
	}
	r := New(testLogger(), lister, "")

	var wg sync.WaitGroup
	for i := 0; i < 30; i++ {
		wg.Add(1)
		go func(owner string) {
			defer wg.Done()
			_, err := r.Resolve(context.Background(), owner)
			assert.NoError(t, err)
		}(owners[i%len(owners)])
	}
	wg.Wait()

	assert.Len(t, r.Calendars(), 3)
	for _, o := range owners {
		assert.Equal(t, 1, lister.calls[o])
	}
}
