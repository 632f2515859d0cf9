package stats

import (
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/azatkg/lounge/internal/models"
)

func TestAggregate(t *testing.T) {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.Local)
	end := time.Date(2024, 3, 2, 23, 59, 59, 0, time.Local)

	rows := []*models.DailyStat{
		{
			Date: "20240301",
			Elapsed: map[string]time.Duration{
				"table-1": 2 * time.Hour,
				"ps-1":    time.Hour,
			},
			Overtime: []models.OvertimeEntry{
				{TimerID: "table-1", TimerName: "Billiard 1", Minutes: 4},
			},
		},
		{
			Date: "20240302",
			Elapsed: map[string]time.Duration{
				"table-1": 30 * time.Minute,
			},
			Overtime: []models.OvertimeEntry{
				{TimerID: "table-1", TimerName: "Billiard 1", Minutes: 2},
			},
		},
	}

	r := Aggregate(rows, start, end)

	wantTotals := map[string]time.Duration{
		"table-1": 2*time.Hour + 30*time.Minute,
		"ps-1":    time.Hour,
	}

	if diff := cmp.Diff(wantTotals, r.Totals); diff != "" {
		t.Errorf("unexpected totals (-want +got):\n%s", diff)
	}

	if got := r.overtimeMinutes()["table-1"]; got != 6 {
		t.Errorf("expected 6 overtime minutes for table-1, got %d", got)
	}
}

func TestStationIDsNaturalOrder(t *testing.T) {
	r := Aggregate([]*models.DailyStat{
		{
			Date: "20240301",
			Elapsed: map[string]time.Duration{
				"table-10": time.Hour,
				"table-2":  time.Hour,
				"table-1":  time.Hour,
			},
		},
	}, time.Time{}, time.Time{})

	want := []string{"table-1", "table-2", "table-10"}

	if diff := cmp.Diff(want, r.stationIDs()); diff != "" {
		t.Errorf("unexpected order (-want +got):\n%s", diff)
	}
}

func TestPrintEmptyReport(t *testing.T) {
	r := Aggregate(nil, time.Time{}, time.Time{})

	var sb strings.Builder

	r.Print(&sb, nil)

	if !strings.Contains(sb.String(), noUsageMsg) {
		t.Errorf("expected the no-usage message, got %q", sb.String())
	}
}

func TestPrintPrefersConfiguredNames(t *testing.T) {
	r := Aggregate([]*models.DailyStat{
		{
			Date: "20240301",
			Elapsed: map[string]time.Duration{
				"ps-1": time.Hour,
			},
		},
	}, time.Time{}, time.Time{})

	var sb strings.Builder

	r.Print(&sb, map[string]string{"ps-1": "PlayStation 1"})

	if !strings.Contains(sb.String(), "PlayStation 1") {
		t.Errorf("expected the configured station name, got %q", sb.String())
	}
}
