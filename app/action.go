package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"os/signal"
	"runtime"
	"sort"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/maruel/natural"
	"github.com/pterm/pterm"
	"github.com/urfave/cli/v2"

	"github.com/azatkg/lounge/alert"
	"github.com/azatkg/lounge/config"
	"github.com/azatkg/lounge/internal/models"
	"github.com/azatkg/lounge/internal/timeutil"
	"github.com/azatkg/lounge/internal/ui"
	"github.com/azatkg/lounge/server"
	"github.com/azatkg/lounge/stats"
	"github.com/azatkg/lounge/store"
	"github.com/azatkg/lounge/timer"
)

var errStationRequired = errors.New("a station id is required")

// firstNonEmptyString returns its first non-empty argument, or "" if all
// arguments are empty.
func firstNonEmptyString(ss ...string) string {
	for _, s := range ss {
		if s != "" {
			return s
		}
	}

	return ""
}

func stationArg(ctx *cli.Context) (string, error) {
	id := ctx.Args().First()
	if id == "" {
		return "", errStationRequired
	}

	return id, nil
}

func paymentFlag(ctx *cli.Context) timer.PaymentType {
	if ctx.Bool("postpaid") {
		return timer.Postpaid
	}

	return timer.Prepaid
}

// serveAction runs the timer daemon until it is interrupted.
func serveAction(ctx *cli.Context) error {
	cfg := config.Lounge(ctx)

	db, err := store.NewClient(config.DBFilePath())
	if err != nil {
		return err
	}

	sink := alert.New(alert.Options{
		WarningSound: cfg.WarningSound,
		AlarmSound:   cfg.AlarmSound,
		AlarmCmd:     cfg.AlarmCmd,
		Notify:       cfg.Notify,
	})

	eng := timer.New(db, sink, cfg, clockwork.NewRealClock())

	err = eng.Load()
	if err != nil {
		return err
	}

	runCtx, cancel := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer cancel()

	go eng.Run(runCtx)

	pterm.Info.Printfln("Dashboard available at http://%s", cfg.ListenAddr)

	err = server.New(eng, db, cfg.ListenAddr).Start(runCtx)
	if err != nil && !errors.Is(err, context.Canceled) {
		pterm.Error.Printfln("server stopped: %v", err)
	}

	slog.InfoContext(ctx.Context, "exiting lounge")

	return db.Close()
}

func startAction(ctx *cli.Context) error {
	id, err := stationArg(ctx)
	if err != nil {
		return err
	}

	cfg := config.Lounge(ctx)

	if mins := ctx.Int("minutes"); mins > 0 {
		err = apiPost(cfg, "/api/timers/"+id+"/duration", map[string]int{
			"minutes": mins,
		})
		if err != nil {
			return err
		}
	}

	err = apiPost(cfg, "/api/timers/"+id+"/start", map[string]string{
		"payment": string(paymentFlag(ctx)),
	})
	if err != nil {
		return err
	}

	pterm.Success.Printfln("%s started", id)

	return nil
}

func stopAction(ctx *cli.Context) error {
	id, err := stationArg(ctx)
	if err != nil {
		return err
	}

	err = apiPost(config.Lounge(ctx), "/api/timers/"+id+"/stop", nil)
	if err != nil {
		return err
	}

	pterm.Success.Printfln("%s stopped", id)

	return nil
}

func extendAction(ctx *cli.Context) error {
	id, err := stationArg(ctx)
	if err != nil {
		return err
	}

	mins := ctx.Int("minutes")
	if mins <= 0 {
		return errors.New("the number of extra minutes must be greater than zero")
	}

	err = apiPost(config.Lounge(ctx), "/api/timers/"+id+"/extend", map[string]any{
		"minutes": mins,
		"payment": string(paymentFlag(ctx)),
	})
	if err != nil {
		return err
	}

	pterm.Success.Printfln("%s extended by %d minutes", id, mins)

	return nil
}

func adjustAction(ctx *cli.Context) error {
	id, err := stationArg(ctx)
	if err != nil {
		return err
	}

	mins := ctx.Int("minutes")
	if mins == 0 {
		return errors.New("the number of minutes to adjust by must not be zero")
	}

	err = apiPost(config.Lounge(ctx), "/api/timers/"+id+"/adjust", map[string]int{
		"minutes": mins,
	})
	if err != nil {
		return err
	}

	pterm.Success.Printfln("%s adjusted by %d minutes", id, mins)

	return nil
}

func resetAction(ctx *cli.Context) error {
	id, err := stationArg(ctx)
	if err != nil {
		return err
	}

	err = apiPost(config.Lounge(ctx), "/api/timers/"+id+"/reset", nil)
	if err != nil {
		return err
	}

	pterm.Success.Printfln("%s reset", id)

	return nil
}

func setDurationAction(ctx *cli.Context) error {
	id, err := stationArg(ctx)
	if err != nil {
		return err
	}

	mins := ctx.Int("minutes")
	if mins <= 0 {
		return errors.New("the session length in minutes must be greater than zero")
	}

	err = apiPost(config.Lounge(ctx), "/api/timers/"+id+"/duration", map[string]int{
		"minutes": mins,
	})
	if err != nil {
		return err
	}

	pterm.Success.Printfln("%s session length set to %d minutes", id, mins)

	return nil
}

// formatClock renders a duration as a countdown clock reading. Negative
// values represent overtime.
func formatClock(d time.Duration) string {
	sign := ""
	if d < 0 {
		sign = "-"
		d = -d
	}

	d = d.Round(time.Second)

	h := int(d / time.Hour)
	m := int(d % time.Hour / time.Minute)
	s := int(d % time.Minute / time.Second)

	if h > 0 {
		return fmt.Sprintf("%s%d:%02d:%02d", sign, h, m, s)
	}

	return fmt.Sprintf("%s%02d:%02d", sign, m, s)
}

func statusText(status string) string {
	switch timer.Status(status) {
	case timer.StatusRunning:
		return ui.Green(status)
	case timer.StatusWarning:
		return ui.Yellow(status)
	case timer.StatusFinished:
		return ui.Red(status)
	default:
		return status
	}
}

// printStations outputs the station table.
func printStations(w io.Writer, timers []*models.Timer) {
	tableBody := make([][]string, 0, len(timers)+1)

	tableBody = append(tableBody, []string{
		"STATION",
		"STATUS",
		"REMAINING",
		"ELAPSED",
		"PAID",
		"UNPAID",
	})

	for _, t := range timers {
		tableBody = append(tableBody, []string{
			ui.Highlight(t.Name),
			statusText(t.Status),
			formatClock(t.Remaining),
			formatClock(t.Elapsed),
			fmt.Sprintf("%d", t.PaidAmount),
			fmt.Sprintf("%d", t.UnpaidAmount),
		})
	}

	ui.PrintTable(tableBody, w)
}

// loadSnapshotFromDB reads the timers straight from the database when the
// daemon is not running, re-deriving live values from the wall clock.
func loadSnapshotFromDB(cfg *config.LoungeConfig) ([]*models.Timer, error) {
	db, err := store.NewClient(config.DBFilePath())
	if err != nil {
		return nil, err
	}

	defer func() {
		_ = db.Close()
	}()

	rows, err := db.GetTimers()
	if err != nil {
		return nil, err
	}

	now := time.Now()

	snap := make([]*models.Timer, 0, len(rows))
	for _, row := range rows {
		snap = append(snap, timer.RestoreSnapshot(row, now, cfg.WarningThreshold))
	}

	sort.Slice(snap, func(i, j int) bool {
		return natural.Less(snap[i].ID, snap[j].ID)
	})

	return snap, nil
}

// statusAction prints the current state of every station, via the daemon
// when it is running or straight from the database otherwise.
func statusAction(ctx *cli.Context) error {
	cfg := config.Lounge(ctx)

	ui.DarkTheme = cfg.DarkTheme

	var timers []*models.Timer

	err := apiGet(cfg, "/api/timers", &timers)
	if errors.Is(err, errDaemonUnreachable) {
		timers, err = loadSnapshotFromDB(cfg)
	}

	if err != nil {
		return err
	}

	if len(timers) == 0 {
		pterm.Info.Println("No stations have been configured yet")
		return nil
	}

	printStations(os.Stdout, timers)

	return nil
}

// logAction prints the most recent activity entries, newest first.
func logAction(ctx *cli.Context) error {
	cfg := config.Lounge(ctx)

	limit := ctx.Int("limit")

	var entries []*models.ActivityEntry

	err := apiGet(cfg, fmt.Sprintf("/api/activity?limit=%d", limit), &entries)
	if errors.Is(err, errDaemonUnreachable) {
		var db *store.Client

		db, err = store.NewClient(config.DBFilePath())
		if err != nil {
			return err
		}

		defer func() {
			_ = db.Close()
		}()

		entries, err = db.RecentActivity(limit)
	}

	if err != nil {
		return err
	}

	if len(entries) == 0 {
		pterm.Info.Println("No activity has been recorded yet")
		return nil
	}

	tableBody := make([][]string, 0, len(entries)+1)

	tableBody = append(tableBody, []string{
		"TIME",
		"STATION",
		"ACTION",
	})

	for _, entry := range entries {
		tableBody = append(tableBody, []string{
			entry.Timestamp.Format("Jan 02, 2006 03:04:05 PM"),
			entry.TimerName,
			entry.Action,
		})
	}

	ui.PrintTable(tableBody, os.Stdout)

	return nil
}

// statsAction reports station usage for the specified period.
func statsAction(ctx *cli.Context) error {
	cfg := config.Lounge(ctx)

	today := timeutil.DayKey(time.Now())

	fromKey := firstNonEmptyString(ctx.String("from"), today)
	toKey := firstNonEmptyString(ctx.String("to"), today)

	from, err := timeutil.ParseDayKey(fromKey)
	if err != nil {
		return err
	}

	to, err := timeutil.ParseDayKey(toKey)
	if err != nil {
		return err
	}

	to = timeutil.RoundToEnd(to)

	var rows []*models.DailyStat

	err = apiGet(
		cfg,
		fmt.Sprintf("/api/stats?from=%s&to=%s", fromKey, toKey),
		&rows,
	)
	if errors.Is(err, errDaemonUnreachable) {
		var db *store.Client

		db, err = store.NewClient(config.DBFilePath())
		if err != nil {
			return err
		}

		defer func() {
			_ = db.Close()
		}()

		rows, err = db.GetDailyStats(from, to)
	}

	if err != nil {
		return err
	}

	names := make(map[string]string)
	for _, station := range cfg.Stations {
		names[station.ID] = station.Name
	}

	stats.Aggregate(rows, from, to).Print(os.Stdout, names)

	return nil
}

// editConfigAction handles the edit-config command which opens the lounge
// config file in the user's default text editor.
func editConfigAction(ctx *cli.Context) error {
	defaultEditor := "nano"

	if runtime.GOOS == "windows" {
		defaultEditor = "C:\\Windows\\system32\\notepad.exe"
	}

	editor := firstNonEmptyString(
		os.Getenv("VISUAL"),
		os.Getenv("EDITOR"),
		defaultEditor,
	)

	cfg := config.Lounge(ctx)

	cmd := exec.Command(editor, cfg.PathToConfig)

	cmd.Stderr = os.Stderr
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout

	return cmd.Run()
}
