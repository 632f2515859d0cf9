// Package models defines the records persisted to the data store.
package models

import "time"

// Timer is the persisted state of one station timer.
type Timer struct {
	StartTime        time.Time     `json:"start_time"`
	ID               string        `json:"id"`
	Name             string        `json:"name"`
	Category         string        `json:"category"`
	Status           string        `json:"status"`
	Duration         time.Duration `json:"duration"`
	Remaining        time.Duration `json:"remaining"`
	Elapsed          time.Duration `json:"elapsed"`
	RemainingAtStart time.Duration `json:"remaining_at_start"`
	ElapsedAtStart   time.Duration `json:"elapsed_at_start"`
	PaidAmount       int           `json:"paid_amount"`
	UnpaidAmount     int           `json:"unpaid_amount"`
}

// ActivityEntry is one append-only activity log record.
type ActivityEntry struct {
	Timestamp time.Time `json:"timestamp"`
	TimerID   string    `json:"timer_id"`
	TimerName string    `json:"timer_name"`
	Action    string    `json:"action"`
}

// OvertimeEntry records overtime accrued by a station when it was stopped.
type OvertimeEntry struct {
	Timestamp time.Time `json:"timestamp"`
	TimerID   string    `json:"timer_id"`
	TimerName string    `json:"timer_name"`
	Minutes   int       `json:"minutes"`
}

// DailyStat aggregates station usage for one calendar day. Elapsed maps a
// station id to the cumulative time consumed on that day.
type DailyStat struct {
	Elapsed  map[string]time.Duration `json:"elapsed"`
	Date     string                   `json:"date"`
	Overtime []OvertimeEntry          `json:"overtime"`
}
