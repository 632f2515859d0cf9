// Package stats reports station usage statistics
package stats

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/maruel/natural"

	"github.com/azatkg/lounge/internal/models"
	"github.com/azatkg/lounge/internal/ui"
	"github.com/azatkg/lounge/store"
)

const noUsageMsg = "No usage was recorded for the specified time range"

// Report is station usage aggregated over a reporting period.
type Report struct {
	Totals    map[string]time.Duration
	Names     map[string]string
	StartTime time.Time
	EndTime   time.Time
	Overtime  []models.OvertimeEntry
}

// Generate folds the daily aggregate rows within the period into a single
// report.
func Generate(db store.DB, start, end time.Time) (*Report, error) {
	rows, err := db.GetDailyStats(start, end)
	if err != nil {
		return nil, err
	}

	return Aggregate(rows, start, end), nil
}

// Aggregate folds already-fetched daily rows into a report.
func Aggregate(rows []*models.DailyStat, start, end time.Time) *Report {
	r := &Report{
		StartTime: start,
		EndTime:   end,
		Totals:    make(map[string]time.Duration),
		Names:     make(map[string]string),
	}

	for _, row := range rows {
		for id, elapsed := range row.Elapsed {
			r.Totals[id] += elapsed
		}

		for _, entry := range row.Overtime {
			r.Names[entry.TimerID] = entry.TimerName
			r.Overtime = append(r.Overtime, entry)
		}
	}

	return r
}

// overtimeMinutes sums the overtime entries per station.
func (r *Report) overtimeMinutes() map[string]int {
	mins := make(map[string]int)

	for _, entry := range r.Overtime {
		mins[entry.TimerID] += entry.Minutes
	}

	return mins
}

// stationIDs returns every station in the report in natural order, so that
// table-2 sorts before table-10.
func (r *Report) stationIDs() []string {
	seen := make(map[string]bool)

	var ids []string

	for id := range r.Totals {
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}

	for _, entry := range r.Overtime {
		if !seen[entry.TimerID] {
			seen[entry.TimerID] = true
			ids = append(ids, entry.TimerID)
		}
	}

	sort.Sort(natural.StringSlice(ids))

	return ids
}

// Print writes the usage table for the reporting period.
func (r *Report) Print(w io.Writer, names map[string]string) {
	ids := r.stationIDs()

	if len(ids) == 0 {
		fmt.Fprintln(w, noUsageMsg)
		return
	}

	overtime := r.overtimeMinutes()

	tableBody := make([][]string, 0, len(ids)+1)
	tableBody = append(tableBody, []string{
		"STATION",
		"TIME USED",
		"OVERTIME (MINS)",
	})

	for _, id := range ids {
		name := names[id]
		if name == "" {
			name = r.Names[id]
		}

		if name == "" {
			name = id
		}

		total := r.Totals[id].Round(time.Minute)

		tableBody = append(tableBody, []string{
			name,
			total.String(),
			fmt.Sprintf("%d", overtime[id]),
		})
	}

	ui.PrintTable(tableBody, w)
}
