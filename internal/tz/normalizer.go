package tz

import (
	"fmt"
	"time"
)

// APILayout is the timestamp format the calendar API expects.
const APILayout = "2006-01-02T15:04:05Z"

// Mode selects how wall-clock times are converted to UTC.
type Mode string

const (
	// ModeZoned resolves the wall time in the zone using the tz database.
	ModeZoned Mode = "zoned"
	// ModeLegacy applies the DST shift heuristic and then subtracts the
	// zone's current UTC offset. Results can be off by an hour for
	// instants near a transition.
	ModeLegacy Mode = "legacy"
)

// ParseMode validates a configured mode name.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeZoned, ModeLegacy:
		return Mode(s), nil
	default:
		return "", fmt.Errorf("unknown timezone mode %q", s)
	}
}

// Span is the UTC start and end of one occurrence.
type Span struct {
	Start   time.Time
	End     time.Time
	Shifted bool // legacy DST shift was applied
}

// Normalizer turns naive local wall-clock times into UTC instants.
type Normalizer struct {
	loc  *time.Location
	mode Mode
	now  func() time.Time
}

// NewNormalizer returns a Normalizer for wall times written in loc.
func NewNormalizer(loc *time.Location, mode Mode) *Normalizer {
	if loc == nil {
		loc = time.Local
	}
	return &Normalizer{loc: loc, mode: mode, now: time.Now}
}

// Location returns the zone wall times are read in.
func (n *Normalizer) Location() *time.Location {
	return n.loc
}

// Mode returns the conversion mode.
func (n *Normalizer) Mode() Mode {
	return n.mode
}

// Convert maps naive start/end wall times to UTC. Only the date and clock
// fields of start and end are used; their locations are ignored.
func (n *Normalizer) Convert(start, end time.Time) Span {
	if n.mode == ModeLegacy {
		return n.convertLegacy(start, end)
	}
	return Span{
		Start: wall(start, n.loc).UTC(),
		End:   wall(end, n.loc).UTC(),
	}
}

func (n *Normalizer) convertLegacy(start, end time.Time) Span {
	now := n.now().In(n.loc)

	var span Span
	if now.IsDST() && !wall(start, n.loc).IsDST() {
		start = start.Add(time.Hour)
		end = end.Add(time.Hour)
		span.Shifted = true
	}

	// offset between UTC and local time right now, applied to every instant
	_, offset := now.Zone()
	shift := -time.Duration(offset) * time.Second
	span.Start = wall(start, time.UTC).Add(shift)
	span.End = wall(end, time.UTC).Add(shift)
	return span
}

// Format renders t in APILayout after converting it to UTC.
func Format(t time.Time) string {
	return t.UTC().Format(APILayout)
}

// FormatDate renders the date of t at midnight, e.g. 2021-06-21T00:00:00Z.
func FormatDate(t time.Time) string {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC).Format(APILayout)
}

func wall(t time.Time, loc *time.Location) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, loc)
}
