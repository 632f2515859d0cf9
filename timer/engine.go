package timer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/maruel/natural"

	"github.com/azatkg/lounge/alert"
	"github.com/azatkg/lounge/config"
	"github.com/azatkg/lounge/internal/models"
	"github.com/azatkg/lounge/internal/timeutil"
	"github.com/azatkg/lounge/store"
)

// tickInterval is how often active timers are recomputed.
const tickInterval = 250 * time.Millisecond

var ErrUnknownStation = errors.New("no station with the specified id exists")

// Engine owns every station timer. All mutation happens under its mutex,
// either inside an operation or inside the recompute tick; durable writes
// and alerts triggered by a transition never block or roll back the
// in-memory change.
type Engine struct {
	clock  clockwork.Clock
	db     store.DB
	alerts alert.Sink
	opts   *config.LoungeConfig
	timers map[string]*Timer
	mu     sync.Mutex
	// statMu serializes the read-merge-write on daily aggregate rows so
	// concurrent stops cannot discard each other's totals
	statMu sync.Mutex
}

// New creates an engine for the configured stations. Load must be called
// before the engine is operated.
func New(
	db store.DB,
	alerts alert.Sink,
	cfg *config.LoungeConfig,
	clock clockwork.Clock,
) *Engine {
	return &Engine{
		clock:  clock,
		db:     db,
		alerts: alerts,
		opts:   cfg,
		timers: make(map[string]*Timer),
	}
}

// Load seeds the timer collection from configuration and the data store.
// Persisted state is not trusted at face value: every active timer is
// recomputed against the current wall clock and its status re-derived, so
// sessions survive restarts and suspensions without losing or
// double-counting time. A timer discovered to have run out while the
// process was down fires its finished alarm here.
func (e *Engine) Load() error {
	rows, err := e.db.GetTimers()
	if err != nil {
		return err
	}

	byID := make(map[string]*models.Timer, len(rows))
	for _, row := range rows {
		byID[row.ID] = row
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.clock.Now()

	e.timers = make(map[string]*Timer, len(e.opts.Stations))

	for _, station := range e.opts.Stations {
		row, ok := byID[station.ID]
		if !ok {
			t := &Timer{
				ID:        station.ID,
				Name:      station.Name,
				Category:  station.Category,
				Status:    StatusIdle,
				Duration:  e.opts.SessionDuration,
				Remaining: e.opts.SessionDuration,
			}
			e.timers[station.ID] = t
			e.persist(t)

			continue
		}

		t := newTimerFromDB(row)
		// name and category follow the config, not the stored row
		t.Name = station.Name
		t.Category = station.Category

		e.timers[station.ID] = t

		if !t.Status.Active() {
			continue
		}

		prev := t.Status

		t.recompute(now)
		deriveStatus(t, e.opts.WarningThreshold)

		if t.Status == StatusFinished {
			t.alarmed = true

			e.alerts.Alarm(t.ID, t.Name)

			if prev != StatusFinished {
				e.logActivity(t, ActionFinished, now)
			}
		}

		e.persist(t)
	}

	return nil
}

// Run drives the recompute tick until the context is cancelled.
func (e *Engine) Run(ctx context.Context) {
	ticker := e.clock.NewTicker(tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			e.Tick()
		}
	}
}

// Tick recomputes every active timer and applies any due transitions.
func (e *Engine) Tick() {
	e.mu.Lock()
	defer e.mu.Unlock()

	active := false

	for _, t := range e.timers {
		if t.Status.Active() {
			active = true
			break
		}
	}

	if !active {
		return
	}

	now := e.clock.Now()

	for _, t := range e.timers {
		if !t.Status.Active() {
			continue
		}

		t.recompute(now)

		switch {
		case t.Remaining <= 0 && t.Status != StatusFinished:
			t.Status = StatusFinished

			if !t.alarmed {
				t.alarmed = true

				e.alerts.Alarm(t.ID, t.Name)
				e.alerts.Notify(
					"Time is up",
					t.Name+": the session has ended",
					true,
				)
				e.logActivity(t, ActionFinished, now)
			}

			e.persist(t)
		case t.Status == StatusFinished:
			// keep counting overtime; the alarm already fired
		case t.Remaining <= e.opts.WarningThreshold && t.Status == StatusRunning:
			t.Status = StatusWarning

			if !t.warned {
				t.warned = true

				e.alerts.Warn(t.Name)
				e.alerts.Notify(
					"Time is almost up",
					fmt.Sprintf(
						"%s: %d minutes remaining",
						t.Name,
						int(e.opts.WarningThreshold/time.Minute),
					),
					false,
				)
				e.logActivity(t, ActionWarning, now)
			}

			e.persist(t)
		}
	}
}

// SetDuration sets the session length for an idle station.
func (e *Engine) SetDuration(id string, minutes int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	t, ok := e.timers[id]
	if !ok {
		return ErrUnknownStation
	}

	if t.Status != StatusIdle || minutes <= 0 {
		return nil
	}

	d := time.Duration(minutes) * time.Minute

	t.Duration = d
	t.Remaining = d

	e.logActivity(t, ActionDurationSet, e.clock.Now())
	e.persist(t)

	return nil
}

// Start begins an idle station's session and charges the session price to
// the paid or unpaid amount according to the payment type.
func (e *Engine) Start(id string, payment PaymentType) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	t, ok := e.timers[id]
	if !ok {
		return ErrUnknownStation
	}

	if t.Status != StatusIdle {
		return nil
	}

	now := e.clock.Now()

	t.Status = StatusRunning
	t.StartTime = now
	t.RemainingAtStart = t.Remaining
	t.ElapsedAtStart = t.Elapsed
	t.clearMarkers()

	price := sessionPrice(t.Duration, e.opts.PricePerHour(id))
	if payment == Postpaid {
		t.UnpaidAmount += price
	} else {
		t.PaidAmount += price
	}

	e.logActivity(t, ActionStarted, now)
	e.persist(t)

	return nil
}

// Stop ends an active session, silences its alarm, and folds the elapsed
// time and any overtime into the daily aggregate.
func (e *Engine) Stop(id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	t, ok := e.timers[id]
	if !ok {
		return ErrUnknownStation
	}

	if !t.Status.Active() {
		return nil
	}

	now := e.clock.Now()

	t.recompute(now)

	e.alerts.StopAlarm(t.ID)
	t.clearMarkers()

	var overtimeMins int
	if t.Remaining < 0 {
		overtimeMins = timeutil.CeilMinutes(t.Remaining)
	}

	elapsed := t.Elapsed

	t.Status = StatusStopped
	t.StartTime = time.Time{}

	e.logActivity(t, ActionStopped, now)
	e.persist(t)

	stationID, stationName := t.ID, t.Name

	go func() {
		err := e.foldIntoDailyStat(now, stationID, stationName, elapsed, overtimeMins)
		if err != nil {
			slog.Error("unable to update daily aggregate",
				"station", stationID,
				"error", err,
			)
		}
	}()

	return nil
}

// Extend adds extra minutes to an active session, charges the incremental
// price, and re-arms the timer as running.
func (e *Engine) Extend(id string, extraMinutes int, payment PaymentType) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	t, ok := e.timers[id]
	if !ok {
		return ErrUnknownStation
	}

	if !t.Status.Active() || extraMinutes <= 0 {
		return nil
	}

	now := e.clock.Now()

	t.recompute(now)

	e.alerts.StopAlarm(t.ID)
	t.clearMarkers()

	extra := time.Duration(extraMinutes) * time.Minute

	t.Duration += extra
	t.Remaining += extra
	t.Status = StatusRunning
	t.StartTime = now
	t.RemainingAtStart = t.Remaining
	t.ElapsedAtStart = t.Elapsed

	price := extensionPrice(extraMinutes, e.opts.PricePerHour(id))
	if payment == Postpaid {
		t.UnpaidAmount += price
	} else {
		t.PaidAmount += price
	}

	e.logActivity(t, ActionExtended, now)
	e.persist(t)

	return nil
}

// Reset returns a station to idle with the default duration and zeroed
// accumulators. It is allowed from any status.
func (e *Engine) Reset(id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	t, ok := e.timers[id]
	if !ok {
		return ErrUnknownStation
	}

	e.alerts.StopAlarm(t.ID)
	t.clearMarkers()

	t.Status = StatusIdle
	t.StartTime = time.Time{}
	t.Duration = e.opts.SessionDuration
	t.Remaining = e.opts.SessionDuration
	t.Elapsed = 0
	t.RemainingAtStart = 0
	t.ElapsedAtStart = 0
	t.PaidAmount = 0
	t.UnpaidAmount = 0

	e.logActivity(t, ActionReset, e.clock.Now())
	e.persist(t)

	return nil
}

// AdjustTime adds or subtracts minutes from an active session without
// repricing it. Remaining and duration are clamped at zero; the status is
// re-derived from the new remaining time.
func (e *Engine) AdjustTime(id string, deltaMinutes int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	t, ok := e.timers[id]
	if !ok {
		return ErrUnknownStation
	}

	if !t.Status.Active() || deltaMinutes == 0 {
		return nil
	}

	now := e.clock.Now()

	t.recompute(now)

	delta := time.Duration(deltaMinutes) * time.Minute

	t.Remaining += delta
	if t.Remaining < 0 {
		t.Remaining = 0
	}

	t.Duration += delta
	if t.Duration < 0 {
		t.Duration = 0
	}

	t.StartTime = now
	t.RemainingAtStart = t.Remaining
	t.ElapsedAtStart = t.Elapsed

	deriveStatus(t, e.opts.WarningThreshold)

	switch t.Status {
	case StatusFinished:
		if !t.alarmed {
			t.alarmed = true

			e.alerts.Alarm(t.ID, t.Name)
			e.logActivity(t, ActionFinished, now)
		}
	case StatusWarning:
		e.alerts.StopAlarm(t.ID)
		t.alarmed = false
	default:
		e.alerts.StopAlarm(t.ID)
		t.clearMarkers()
	}

	e.logActivity(t, ActionAdjusted, now)
	e.persist(t)

	return nil
}

// deriveStatus maps an active timer's remaining time back to a status.
func deriveStatus(t *Timer, threshold time.Duration) {
	switch {
	case t.Remaining <= 0:
		t.Status = StatusFinished
	case t.Remaining <= threshold:
		t.Status = StatusWarning
	default:
		t.Status = StatusRunning
	}
}

// Snapshot returns a copy of every timer, recomputed to the current clock
// reading and ordered naturally by station id.
func (e *Engine) Snapshot() []*models.Timer {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.clock.Now()

	snap := make([]*models.Timer, 0, len(e.timers))

	for _, t := range e.timers {
		c := *t
		c.recompute(now)
		snap = append(snap, c.ToDBModel())
	}

	sort.Slice(snap, func(i, j int) bool {
		return natural.Less(snap[i].ID, snap[j].ID)
	})

	return snap
}

// persist issues a fire-and-forget durable write for a timer. A failed
// write is logged; the in-memory state stays authoritative.
func (e *Engine) persist(t *Timer) {
	m := t.ToDBModel()

	go func() {
		err := e.db.UpdateTimer(m)
		if err != nil {
			slog.Error("unable to persist timer",
				"station", m.ID,
				"error", err,
			)
		}
	}()
}

// logActivity appends an activity entry, fire-and-forget like persist.
func (e *Engine) logActivity(t *Timer, action Action, now time.Time) {
	entry := &models.ActivityEntry{
		Timestamp: now,
		TimerID:   t.ID,
		TimerName: t.Name,
		Action:    string(action),
	}

	go func() {
		err := e.db.AppendActivity(entry)
		if err != nil {
			slog.Error("unable to append activity entry",
				"station", entry.TimerID,
				"action", entry.Action,
				"error", err,
			)
		}
	}()
}

// foldIntoDailyStat merges a stopped session's consumption into the
// aggregate row for the day the stop occurred on.
func (e *Engine) foldIntoDailyStat(
	now time.Time,
	stationID, stationName string,
	elapsed time.Duration,
	overtimeMins int,
) error {
	e.statMu.Lock()
	defer e.statMu.Unlock()

	key := timeutil.DayKey(now)

	stat, err := e.db.GetDailyStat(key)
	if err != nil {
		return err
	}

	stat.Elapsed[stationID] += elapsed

	if overtimeMins > 0 {
		stat.Overtime = append(stat.Overtime, models.OvertimeEntry{
			Timestamp: now,
			TimerID:   stationID,
			TimerName: stationName,
			Minutes:   overtimeMins,
		})
	}

	return e.db.UpdateDailyStat(stat)
}
