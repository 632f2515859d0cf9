// Package timer operates the countdown timers for rentable stations and
// handles the recovery of interrupted sessions
package timer

import (
	"time"

	"github.com/azatkg/lounge/internal/models"
)

// Status is the lifecycle state of a station timer.
type Status string

const (
	StatusIdle     Status = "idle"
	StatusRunning  Status = "running"
	StatusWarning  Status = "warning"
	StatusFinished Status = "finished"
	StatusStopped  Status = "stopped"
)

// Active reports whether a timer in this status is consuming time.
func (s Status) Active() bool {
	return s == StatusRunning || s == StatusWarning || s == StatusFinished
}

// PaymentType states whether a session is paid up front or owed at the end.
type PaymentType string

const (
	Prepaid  PaymentType = "prepaid"
	Postpaid PaymentType = "postpaid"
)

// Action names an activity log entry.
type Action string

const (
	ActionStarted     Action = "started"
	ActionStopped     Action = "stopped"
	ActionWarning     Action = "warning"
	ActionFinished    Action = "finished"
	ActionExtended    Action = "extended"
	ActionReset       Action = "reset"
	ActionAdjusted    Action = "adjusted"
	ActionDurationSet Action = "duration set"
)

// Timer tracks one station's session. Remaining may go negative once the
// timer is finished, representing overtime. The warned and alarmed markers
// keep the threshold side effects from firing more than once per pass.
type Timer struct {
	StartTime        time.Time
	ID               string
	Name             string
	Category         string
	Status           Status
	Duration         time.Duration
	Remaining        time.Duration
	Elapsed          time.Duration
	RemainingAtStart time.Duration
	ElapsedAtStart   time.Duration
	PaidAmount       int
	UnpaidAmount     int
	warned           bool
	alarmed          bool
}

// recompute re-derives the remaining and elapsed time from the wall clock.
// Deriving both from the snapshots taken when StartTime was last stamped
// keeps the values exact regardless of tick jitter, suspended processes, or
// restarts.
func (t *Timer) recompute(now time.Time) {
	if !t.Status.Active() {
		return
	}

	sinceStart := now.Sub(t.StartTime)

	t.Remaining = t.RemainingAtStart - sinceStart
	t.Elapsed = t.ElapsedAtStart + sinceStart
}

// clearMarkers resets the side-effect guards so a later pass through the
// same threshold alerts again.
func (t *Timer) clearMarkers() {
	t.warned = false
	t.alarmed = false
}

// ToDBModel converts a timer to its persisted form.
func (t *Timer) ToDBModel() *models.Timer {
	return &models.Timer{
		ID:               t.ID,
		Name:             t.Name,
		Category:         t.Category,
		Status:           string(t.Status),
		Duration:         t.Duration,
		Remaining:        t.Remaining,
		Elapsed:          t.Elapsed,
		StartTime:        t.StartTime,
		RemainingAtStart: t.RemainingAtStart,
		ElapsedAtStart:   t.ElapsedAtStart,
		PaidAmount:       t.PaidAmount,
		UnpaidAmount:     t.UnpaidAmount,
	}
}

// RestoreSnapshot recomputes a persisted timer against the given wall-clock
// reading and re-derives its status, without firing any side effects. It is
// used by read-only views of a database the daemon is not holding.
func RestoreSnapshot(
	m *models.Timer,
	now time.Time,
	warningThreshold time.Duration,
) *models.Timer {
	t := newTimerFromDB(m)

	if t.Status.Active() {
		t.recompute(now)
		deriveStatus(t, warningThreshold)
	}

	return t.ToDBModel()
}

func newTimerFromDB(m *models.Timer) *Timer {
	return &Timer{
		ID:               m.ID,
		Name:             m.Name,
		Category:         m.Category,
		Status:           Status(m.Status),
		Duration:         m.Duration,
		Remaining:        m.Remaining,
		Elapsed:          m.Elapsed,
		StartTime:        m.StartTime,
		RemainingAtStart: m.RemainingAtStart,
		ElapsedAtStart:   m.ElapsedAtStart,
		PaidAmount:       m.PaidAmount,
		UnpaidAmount:     m.UnpaidAmount,
	}
}
