package tz

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newYork(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	return loc
}

func naive(y int, m time.Month, d, h, min int) time.Time {
	return time.Date(y, m, d, h, min, 0, 0, time.UTC)
}

func TestConvert_NoDSTDifference(t *testing.T) {
	loc := newYork(t)
	summer := time.Date(2021, 7, 1, 16, 0, 0, 0, time.UTC)

	for _, mode := range []Mode{ModeZoned, ModeLegacy} {
		t.Run(string(mode), func(t *testing.T) {
			n := NewNormalizer(loc, mode)
			n.now = func() time.Time { return summer }

			span := n.Convert(naive(2021, 6, 21, 9, 0), naive(2021, 6, 21, 9, 30))

			// EDT is UTC-4 at call time
			assert.False(t, span.Shifted)
			assert.Equal(t, "2021-06-21T13:00:00Z", Format(span.Start))
			assert.Equal(t, "2021-06-21T13:30:00Z", Format(span.End))
		})
	}
}

func TestConvert_LegacyShiftsStandardTimeEvents(t *testing.T) {
	loc := newYork(t)
	n := NewNormalizer(loc, ModeLegacy)
	n.now = func() time.Time { return time.Date(2021, 7, 1, 16, 0, 0, 0, time.UTC) }

	span := n.Convert(naive(2021, 12, 6, 9, 0), naive(2021, 12, 6, 10, 0))

	// 09:00 + 1h, then + 4h for the EDT offset
	assert.True(t, span.Shifted)
	assert.Equal(t, "2021-12-06T14:00:00Z", Format(span.Start))
	assert.Equal(t, "2021-12-06T15:00:00Z", Format(span.End))
}

func TestConvert_LegacyNoShiftWhenNowIsStandard(t *testing.T) {
	loc := newYork(t)
	n := NewNormalizer(loc, ModeLegacy)
	n.now = func() time.Time { return time.Date(2021, 1, 15, 16, 0, 0, 0, time.UTC) }

	span := n.Convert(naive(2021, 7, 5, 9, 0), naive(2021, 7, 5, 10, 0))

	// the heuristic only covers the daylight-now case, EST offset is used as-is
	assert.False(t, span.Shifted)
	assert.Equal(t, "2021-07-05T14:00:00Z", Format(span.Start))
}

func TestConvert_ZonedAcrossDST(t *testing.T) {
	loc := newYork(t)
	n := NewNormalizer(loc, ModeZoned)
	n.now = func() time.Time { return time.Date(2021, 7, 1, 16, 0, 0, 0, time.UTC) }

	span := n.Convert(naive(2021, 12, 6, 9, 0), naive(2021, 12, 6, 10, 0))
	assert.False(t, span.Shifted)
	assert.Equal(t, "2021-12-06T14:00:00Z", Format(span.Start))

	span = n.Convert(naive(2021, 3, 15, 9, 0), naive(2021, 3, 15, 10, 0))
	assert.Equal(t, "2021-03-15T13:00:00Z", Format(span.Start))
}

func TestConvert_UTC(t *testing.T) {
	n := NewNormalizer(time.UTC, ModeLegacy)
	span := n.Convert(naive(2021, 6, 21, 9, 0), naive(2021, 6, 21, 9, 30))
	assert.Equal(t, "2021-06-21T09:00:00Z", Format(span.Start))
	assert.Equal(t, "2021-06-21T09:30:00Z", Format(span.End))
}

func TestFormatDate(t *testing.T) {
	loc := newYork(t)
	assert.Equal(t, "2021-06-21T00:00:00Z", FormatDate(time.Date(2021, 6, 21, 23, 59, 0, 0, loc)))
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("legacy")
	require.NoError(t, err)
	assert.Equal(t, ModeLegacy, m)

	_, err = ParseMode("auto")
	assert.Error(t, err)
}
