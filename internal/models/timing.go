package models

import (
	"fmt"
	"time"
)

// Timing is either an instant (End is nil) or a closed range.
type Timing struct {
	Start time.Time  `json:"start"`
	End   *time.Time `json:"end,omitempty"`
}

func Instant(t time.Time) Timing {
	return Timing{Start: t.UTC()}
}

func Range(start, end time.Time) Timing {
	e := end.UTC()
	return Timing{Start: start.UTC(), End: &e}
}

func (t Timing) IsInstant() bool {
	return t.End == nil
}

// Within reports whether the timing falls inside r. Instants must lie in
// [r.Start, r.End]; ranges only need to overlap it.
func (t Timing) Within(r TimeRange) bool {
	if t.IsInstant() {
		return !t.Start.Before(r.Start) && !t.Start.After(r.End)
	}
	return !t.End.Before(r.Start) && !t.Start.After(r.End)
}

// TimeRange is the closed interval a timeline query covers.
type TimeRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

func NewTimeRange(start, end time.Time) (TimeRange, error) {
	if end.Before(start) {
		return TimeRange{}, fmt.Errorf("range end %s is before start %s", end.Format(time.RFC3339), start.Format(time.RFC3339))
	}
	return TimeRange{Start: start.UTC(), End: end.UTC()}, nil
}
