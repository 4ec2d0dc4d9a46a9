package timeline

import (
	"sort"
	"time"

	"solar_tracker/internal/model"
)

// Index answers nearest-timestamp and windowed-sum queries over an immutable
// simulated timeline. Rows are sorted at a fixed cadence, so every lookup is
// a binary search. All operations are read-only.
type Index struct {
	rows []model.SimulationRow
}

// New builds an Index over rows. An empty timeline is not queryable and is
// rejected up front rather than failing on the first Nearest call.
func New(rows []model.SimulationRow) (*Index, error) {
	if len(rows) == 0 {
		return nil, &model.ConfigurationError{Field: "timeline", Value: 0, Reason: "at least one row is required"}
	}
	return &Index{rows: rows}, nil
}

func (ix *Index) Len() int {
	return len(ix.rows)
}

// Row returns the row at index i.
func (ix *Index) Row(i int) model.SimulationRow {
	return ix.rows[i]
}

// TimeRange returns the first and last row timestamps.
func (ix *Index) TimeRange() model.TimeRange {
	return model.TimeRange{
		Start: ix.rows[0].Timestamp,
		End:   ix.rows[len(ix.rows)-1].Timestamp,
	}
}

// Nearest returns the index and timestamp of the row closest to t. Queries
// before the first row resolve to index 0 and queries after the last row to
// the last index, both with clamped set. Equidistant queries resolve to the
// earlier row.
func (ix *Index) Nearest(t time.Time) (int, time.Time, bool) {
	rows := ix.rows
	first := rows[0].Timestamp
	if !t.After(first) {
		return 0, first, t.Before(first)
	}
	lastIdx := len(rows) - 1
	last := rows[lastIdx].Timestamp
	if !t.Before(last) {
		return lastIdx, last, t.After(last)
	}

	// First row at or after t; its predecessor is the other candidate.
	i := sort.Search(len(rows), func(j int) bool {
		return !rows[j].Timestamp.Before(t)
	})
	before := t.Sub(rows[i-1].Timestamp)
	after := rows[i].Timestamp.Sub(t)
	if before <= after {
		return i - 1, rows[i-1].Timestamp, false
	}
	return i, rows[i].Timestamp, false
}

// WindowSum sums the field over rows with timestamps in [end-hours, end],
// both bounds inclusive. A window that covers no rows sums to zero.
func (ix *Index) WindowSum(field model.Field, end time.Time, hours float64) float64 {
	start := end.Add(-time.Duration(hours * float64(time.Hour)))

	rows := ix.rows
	lo := sort.Search(len(rows), func(j int) bool {
		return !rows[j].Timestamp.Before(start)
	})
	hi := sort.Search(len(rows), func(j int) bool {
		return rows[j].Timestamp.After(end)
	})

	if hi < lo {
		return 0
	}
	var sum float64
	for _, r := range rows[lo:hi] {
		sum += r.Value(field)
	}
	return sum
}
