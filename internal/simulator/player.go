package simulator

import (
	"sync"
	"time"

	"solar_tracker/internal/model"
	"solar_tracker/internal/timeline"
)

// State represents the current playback state.
type State struct {
	Time    time.Time `json:"time"`
	Speed   float64   `json:"speed"`
	Running bool      `json:"running"`
}

// Summary holds the dashboard metrics computed at the player's position.
type Summary struct {
	CumulativeKWh    float64 `json:"cumulative_kwh"`
	LastHourKWh      float64 `json:"last_hour_kwh"`
	LastHourDeltaKWh float64 `json:"last_hour_delta_kwh"`
	Trailing24hKWh   float64 `json:"trailing_24h_kwh"`
	LoadKWh          float64 `json:"load_kwh"`
	BatteryLevelKWh  float64 `json:"battery_level_kwh"`
	SoCPercent       float64 `json:"soc_percent"`
	CurtailedKWh     float64 `json:"curtailed_kwh"`
	UnmetKWh         float64 `json:"unmet_kwh"`
}

// Callback receives playback events.
type Callback interface {
	OnState(state State)
	OnRow(row model.SimulationRow)
	OnSummary(summary Summary)
}

// Player replays an immutable simulated timeline at configurable speed. The
// timeline itself is never mutated; all summary numbers are derived through
// the index at the player's current position.
type Player struct {
	mu       sync.Mutex
	index    *timeline.Index
	result   *Result
	callback Callback

	capacityKWh float64

	running bool
	speed   float64
	simTime time.Time
	cursor  int // next row to emit
	stopCh  chan struct{}
}

// NewPlayer creates a player positioned at the start of the timeline.
// capacityKWh is used to express battery level as a state-of-charge percent.
func NewPlayer(ix *timeline.Index, res *Result, capacityKWh float64, cb Callback) *Player {
	return &Player{
		index:       ix,
		result:      res,
		callback:    cb,
		capacityKWh: capacityKWh,
		speed:       3600,
		simTime:     ix.TimeRange().Start,
	}
}

// State returns the current playback state.
func (p *Player) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return State{Time: p.simTime, Speed: p.speed, Running: p.running}
}

// Len returns the number of rows in the replayed timeline.
func (p *Player) Len() int {
	return p.index.Len()
}

// TimeRange returns the replayed timeline's bounds.
func (p *Player) TimeRange() model.TimeRange {
	return p.index.TimeRange()
}

// Warnings returns the data-quality warnings from the pipeline run.
func (p *Player) Warnings() []model.Warning {
	return p.result.Warnings
}

// Start begins the playback loop.
func (p *Player) Start() {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return
	}
	p.running = true
	p.stopCh = make(chan struct{})
	p.mu.Unlock()

	p.broadcastState()
	go p.loop()
}

// Pause stops the playback loop.
func (p *Player) Pause() {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return
	}
	p.running = false
	close(p.stopCh)
	p.mu.Unlock()

	p.broadcastState()
}

// SetSpeed sets the playback speed multiplier.
func (p *Player) SetSpeed(speed float64) {
	if speed < 0.1 {
		speed = 0.1
	}
	if speed > 604800 {
		speed = 604800
	}

	p.mu.Lock()
	p.speed = speed
	p.mu.Unlock()

	p.broadcastState()
}

// Seek jumps to a specific time, clamped into the timeline bounds.
func (p *Player) Seek(t time.Time) {
	tr := p.index.TimeRange()
	if t.Before(tr.Start) {
		t = tr.Start
	}
	if t.After(tr.End) {
		t = tr.End
	}

	p.mu.Lock()
	p.simTime = t
	// Resume emission at the first row not before the seek point.
	idx, ts, _ := p.index.Nearest(t)
	if !ts.Before(t) {
		p.cursor = idx
	} else {
		p.cursor = idx + 1
	}
	p.mu.Unlock()

	p.broadcastState()
	p.broadcastSummary()
}

// Step advances playback by the given simulated duration and emits any rows
// crossed. Useful for deterministic testing; does not require Start().
func (p *Player) Step(delta time.Duration) {
	p.mu.Lock()
	p.simTime = p.simTime.Add(delta)

	end := p.index.TimeRange().End
	ended := false
	if !p.simTime.Before(end) {
		p.simTime = end
		ended = true
	}
	current := p.simTime
	p.mu.Unlock()

	p.emitRows(current)
	p.broadcastState()
	p.broadcastSummary()

	if ended {
		p.mu.Lock()
		p.running = false
		p.mu.Unlock()
		p.broadcastState()
	}
}

const tickInterval = 100 * time.Millisecond

func (p *Player) loop() {
	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-p.stopCh:
			return
		case <-ticker.C:
			if p.tick() {
				return
			}
		}
	}
}

// tick advances one frame. Returns true when playback reached the end.
func (p *Player) tick() bool {
	p.mu.Lock()
	simDelta := time.Duration(float64(tickInterval) * p.speed)
	p.simTime = p.simTime.Add(simDelta)

	end := p.index.TimeRange().End
	ended := false
	if !p.simTime.Before(end) {
		p.simTime = end
		ended = true
	}
	current := p.simTime
	p.mu.Unlock()

	p.emitRows(current)
	p.broadcastState()
	p.broadcastSummary()

	if ended {
		// Pause may have closed stopCh while the lock was released for the
		// row broadcast above; close only if this tick still owns the stop.
		p.mu.Lock()
		if p.running {
			p.running = false
			close(p.stopCh)
		}
		p.mu.Unlock()
		p.broadcastState()
		return true
	}
	return false
}

// emitRows sends every row up to and including current, advancing the cursor.
func (p *Player) emitRows(current time.Time) {
	for {
		p.mu.Lock()
		if p.cursor >= p.index.Len() {
			p.mu.Unlock()
			return
		}
		row := p.index.Row(p.cursor)
		if row.Timestamp.After(current) {
			p.mu.Unlock()
			return
		}
		p.cursor++
		p.mu.Unlock()

		p.callback.OnRow(row)
	}
}

func (p *Player) broadcastState() {
	p.callback.OnState(p.State())
}

func (p *Player) broadcastSummary() {
	p.mu.Lock()
	at := p.simTime
	p.mu.Unlock()

	p.callback.OnSummary(p.summaryAt(at))
}

// summaryAt derives the dashboard metrics at time t from the index alone.
func (p *Player) summaryAt(t time.Time) Summary {
	tr := p.index.TimeRange()
	sinceStart := t.Sub(tr.Start).Hours()

	idx, _, _ := p.index.Nearest(t)
	row := p.index.Row(idx)

	var delta float64
	if idx > 0 {
		delta = row.GeneratedKWh - p.index.Row(idx-1).GeneratedKWh
	}

	var soc float64
	if p.capacityKWh > 0 {
		soc = row.BatteryLevelKWh / p.capacityKWh * 100
	}

	return Summary{
		CumulativeKWh:    p.index.WindowSum(model.FieldGenerated, t, sinceStart),
		LastHourKWh:      row.GeneratedKWh,
		LastHourDeltaKWh: delta,
		Trailing24hKWh:   p.index.WindowSum(model.FieldGenerated, t, 24),
		LoadKWh:          p.index.WindowSum(model.FieldLoad, t, sinceStart),
		BatteryLevelKWh:  row.BatteryLevelKWh,
		SoCPercent:       soc,
		CurtailedKWh:     p.result.CurtailedKWh,
		UnmetKWh:         p.result.UnmetKWh,
	}
}
