package store

import (
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/azatkg/lounge/internal/models"
	"github.com/azatkg/lounge/internal/timeutil"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()

	db, err := NewClient(filepath.Join(t.TempDir(), "lounge.db"))
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}

	t.Cleanup(func() {
		_ = db.Close()
	})

	return db
}

func TestSecondInstanceIsRejected(t *testing.T) {
	db := newTestClient(t)

	_, err := NewClient(db.Path())
	if !errors.Is(err, errLoungeRunning) {
		t.Fatalf("expected the second open to be rejected, got: %v", err)
	}
}

func TestTimerRoundtrip(t *testing.T) {
	db := newTestClient(t)

	want := &models.Timer{
		ID:               "table-1",
		Name:             "Table 1",
		Category:         "billiards",
		Status:           "running",
		Duration:         time.Hour,
		Remaining:        45 * time.Minute,
		RemainingAtStart: time.Hour,
		StartTime:        time.Date(2024, 3, 1, 18, 0, 0, 0, time.UTC),
		PaidAmount:       100,
	}

	err := db.UpdateTimer(want)
	if err != nil {
		t.Fatalf("UpdateTimer: %v", err)
	}

	timers, err := db.GetTimers()
	if err != nil {
		t.Fatalf("GetTimers: %v", err)
	}

	if len(timers) != 1 {
		t.Fatalf("expected 1 timer, got %d", len(timers))
	}

	if diff := cmp.Diff(want, timers[0]); diff != "" {
		t.Errorf("timer did not survive the roundtrip (-want +got):\n%s", diff)
	}
}

func TestTimerUpdateOverwrites(t *testing.T) {
	db := newTestClient(t)

	timer := &models.Timer{ID: "ps-1", Status: "idle"}

	err := db.UpdateTimer(timer)
	if err != nil {
		t.Fatalf("UpdateTimer: %v", err)
	}

	timer.Status = "running"
	timer.PaidAmount = 150

	err = db.UpdateTimer(timer)
	if err != nil {
		t.Fatalf("UpdateTimer: %v", err)
	}

	timers, err := db.GetTimers()
	if err != nil {
		t.Fatalf("GetTimers: %v", err)
	}

	if len(timers) != 1 {
		t.Fatalf("expected 1 timer, got %d", len(timers))
	}

	if timers[0].Status != "running" || timers[0].PaidAmount != 150 {
		t.Errorf(
			"expected updated timer, got status %q and paid %d",
			timers[0].Status,
			timers[0].PaidAmount,
		)
	}
}

func TestRecentActivityOrderAndLimit(t *testing.T) {
	db := newTestClient(t)

	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		err := db.AppendActivity(&models.ActivityEntry{
			Timestamp: base.Add(time.Duration(i) * time.Minute),
			TimerID:   "table-1",
			TimerName: "Table 1",
			Action:    fmt.Sprintf("action-%d", i),
		})
		if err != nil {
			t.Fatalf("AppendActivity: %v", err)
		}
	}

	entries, err := db.RecentActivity(3)
	if err != nil {
		t.Fatalf("RecentActivity: %v", err)
	}

	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}

	// newest first
	for i, want := range []string{"action-4", "action-3", "action-2"} {
		if entries[i].Action != want {
			t.Errorf(
				"entry %d: expected %q, got %q",
				i,
				want,
				entries[i].Action,
			)
		}
	}
}

func TestActivityPruning(t *testing.T) {
	db := newTestClient(t)

	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	total := maxActivityEntries + 20

	for i := 0; i < total; i++ {
		err := db.AppendActivity(&models.ActivityEntry{
			Timestamp: base.Add(time.Duration(i) * time.Second),
			TimerID:   "vip-1",
			Action:    fmt.Sprintf("action-%d", i),
		})
		if err != nil {
			t.Fatalf("AppendActivity: %v", err)
		}
	}

	entries, err := db.RecentActivity(total)
	if err != nil {
		t.Fatalf("RecentActivity: %v", err)
	}

	if len(entries) != maxActivityEntries {
		t.Fatalf(
			"expected the activity log to be capped at %d entries, got %d",
			maxActivityEntries,
			len(entries),
		)
	}

	// the newest entry survives, the oldest are gone
	if got := entries[0].Action; got != fmt.Sprintf("action-%d", total-1) {
		t.Errorf("expected the newest entry to survive, got %q", got)
	}

	oldest := entries[len(entries)-1].Action
	if oldest != fmt.Sprintf("action-%d", total-maxActivityEntries) {
		t.Errorf("expected the oldest entries to be pruned, got %q", oldest)
	}
}

func TestDailyStatEmptyRow(t *testing.T) {
	db := newTestClient(t)

	stat, err := db.GetDailyStat("20240301")
	if err != nil {
		t.Fatalf("GetDailyStat: %v", err)
	}

	if stat.Date != "20240301" {
		t.Errorf("expected date 20240301, got %q", stat.Date)
	}

	if stat.Elapsed == nil {
		t.Error("expected a usable elapsed map on an empty row")
	}
}

func TestDailyStatRoundtrip(t *testing.T) {
	db := newTestClient(t)

	want := &models.DailyStat{
		Date: "20240301",
		Elapsed: map[string]time.Duration{
			"table-1": 2 * time.Hour,
			"ps-1":    45 * time.Minute,
		},
		Overtime: []models.OvertimeEntry{
			{
				Timestamp: time.Date(2024, 3, 1, 20, 3, 0, 0, time.UTC),
				TimerID:   "table-1",
				TimerName: "Table 1",
				Minutes:   3,
			},
		},
	}

	err := db.UpdateDailyStat(want)
	if err != nil {
		t.Fatalf("UpdateDailyStat: %v", err)
	}

	got, err := db.GetDailyStat("20240301")
	if err != nil {
		t.Fatalf("GetDailyStat: %v", err)
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("stat did not survive the roundtrip (-want +got):\n%s", diff)
	}
}

func TestGetDailyStatsRange(t *testing.T) {
	db := newTestClient(t)

	for _, key := range []string{"20240225", "20240301", "20240302", "20240310"} {
		err := db.UpdateDailyStat(&models.DailyStat{
			Date: key,
			Elapsed: map[string]time.Duration{
				"table-1": time.Hour,
			},
		})
		if err != nil {
			t.Fatalf("UpdateDailyStat: %v", err)
		}
	}

	start, err := timeutil.ParseDayKey("20240301")
	if err != nil {
		t.Fatal(err)
	}

	end, err := timeutil.ParseDayKey("20240305")
	if err != nil {
		t.Fatal(err)
	}

	rows, err := db.GetDailyStats(start, end)
	if err != nil {
		t.Fatalf("GetDailyStats: %v", err)
	}

	var gotKeys []string
	for _, row := range rows {
		gotKeys = append(gotKeys, row.Date)
	}

	wantKeys := []string{"20240301", "20240302"}

	if diff := cmp.Diff(wantKeys, gotKeys); diff != "" {
		t.Errorf("unexpected rows in range (-want +got):\n%s", diff)
	}
}
