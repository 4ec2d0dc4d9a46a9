package solar

import (
	"fmt"
	"time"

	"solar_tracker/internal/model"
)

// Profile is a climatological irradiance lookup table keyed by
// (day-of-year, hour-of-day), built once and immutable afterwards.
//
// The key deliberately aliases every observed year onto one profile:
// February 29th lands on day 60 and shifts later days by one relative to
// non-leap years. That conflation is a documented simplification inherited
// from the grouping scheme, not a calendar bug to fix here.
type Profile struct {
	mean [367][24]float64 // kW/m², day-of-year is 1-based
	seen [367][24]bool
}

// Build aggregates raw samples into a Profile. Every sample timestamp is
// normalized to loc before grouping. Samples whose wall-clock time in loc
// does not round-trip back to the same instant (ambiguous or nonexistent
// local times around DST transitions) are dropped with a warning rather than
// resolved by guessing. Input magnitudes are W/m²; stored means are kW/m².
func Build(samples []model.IrradianceSample, loc *time.Location) (*Profile, []model.Warning) {
	var sum [367][24]float64
	var count [367][24]int
	var warnings []model.Warning

	for _, s := range samples {
		local := s.Timestamp.In(loc)
		y, mo, d := local.Date()
		recon := time.Date(y, mo, d, local.Hour(), local.Minute(), local.Second(), local.Nanosecond(), loc)
		if !recon.Equal(s.Timestamp) {
			warnings = append(warnings, model.Warning{
				Code:    model.WarnSampleDropped,
				Message: fmt.Sprintf("local time %s is ambiguous in %s, sample dropped", local.Format(time.RFC3339), loc),
			})
			continue
		}

		doy := local.YearDay()
		h := local.Hour()
		sum[doy][h] += s.WPerM2
		count[doy][h]++
	}

	p := &Profile{}
	for doy := 1; doy <= 366; doy++ {
		for h := 0; h < 24; h++ {
			if count[doy][h] > 0 {
				p.mean[doy][h] = sum[doy][h] / float64(count[doy][h]) / 1000
				p.seen[doy][h] = true
			}
		}
	}
	return p, warnings
}

// Query returns the mean irradiance in kW/m² for the given key. Keys never
// observed (or out of range) read as zero; Query never fails.
func (p *Profile) Query(dayOfYear, hourOfDay int) float64 {
	if dayOfYear < 1 || dayOfYear > 366 || hourOfDay < 0 || hourOfDay > 23 {
		return 0
	}
	return p.mean[dayOfYear][hourOfDay]
}

// Observed reports whether the key has at least one contributing sample.
func (p *Profile) Observed(dayOfYear, hourOfDay int) bool {
	if dayOfYear < 1 || dayOfYear > 366 || hourOfDay < 0 || hourOfDay > 23 {
		return false
	}
	return p.seen[dayOfYear][hourOfDay]
}

// Entries counts the distinct (day-of-year, hour-of-day) keys with data.
func (p *Profile) Entries() int {
	n := 0
	for doy := 1; doy <= 366; doy++ {
		for h := 0; h < 24; h++ {
			if p.seen[doy][h] {
				n++
			}
		}
	}
	return n
}
