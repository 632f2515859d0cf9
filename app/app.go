// Package app assembles the lounge command-line interface.
package app

import (
	"log/slog"
	"os"

	"github.com/pterm/pterm"
	"github.com/urfave/cli/v2"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/azatkg/lounge/config"
)

const (
	envNoColor       = "NO_COLOR"
	envLoungeNoColor = "LOUNGE_NO_COLOR"
)

// disableStyling disables all styling provided by pterm.
func disableStyling() {
	pterm.DisableColor()
	pterm.DisableStyling()
	pterm.Debug.Prefix.Text = ""
	pterm.Info.Prefix.Text = ""
	pterm.Success.Prefix.Text = ""
	pterm.Warning.Prefix.Text = ""
	pterm.Error.Prefix.Text = ""
	pterm.Fatal.Prefix.Text = ""
}

// initLogFile routes diagnostics to a rotated log file so they never mix
// with the operator-facing output.
func initLogFile() {
	logger := slog.New(slog.NewJSONHandler(&lumberjack.Logger{
		Filename:   config.LogFilePath(),
		MaxSize:    10, // megabytes
		MaxBackups: 3,
	}, nil))

	slog.SetDefault(logger)
}

func beforeAction(ctx *cli.Context) error {
	config.InitializePaths()

	initLogFile()

	if _, ok := os.LookupEnv(envNoColor); ok {
		disableStyling()
	}

	if _, ok := os.LookupEnv(envLoungeNoColor); ok {
		disableStyling()
	}

	if ctx.Bool("no-color") {
		disableStyling()
	}

	return nil
}

// Get retrieves the lounge app instance.
func Get() *cli.App {
	cli.AppHelpTemplate = helpText()

	loungeApp := &cli.App{
		Name: "lounge",
		Usage: `
		Lounge runs the session timers for the rentable stations of a gaming
		lounge. It sounds an alarm when a station's time runs out, keeps an
		activity log, and serves a small dashboard for the front desk.`,
		UsageText:            "[COMMAND] [OPTIONS]",
		Version:              config.Version,
		EnableBashCompletion: true,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the timer daemon, the dashboard, and the operations API",
				Action: serveAction,
				Flags: []cli.Flag{
					listenFlag,
					disableNotificationFlag,
					alarmCmdFlag,
				},
			},
			{
				Name:      "start",
				Usage:     "Start a station's session. Use --minutes to change the session length first",
				ArgsUsage: "<station>",
				Action:    startAction,
				Flags: []cli.Flag{
					minutesFlag,
					postpaidFlag,
				},
			},
			{
				Name:      "stop",
				Usage:     "Stop a station's session and record its usage",
				ArgsUsage: "<station>",
				Action:    stopAction,
			},
			{
				Name:      "extend",
				Usage:     "Add minutes to a running session and charge for them",
				ArgsUsage: "<station>",
				Action:    extendAction,
				Flags: []cli.Flag{
					minutesFlag,
					postpaidFlag,
				},
			},
			{
				Name:      "adjust",
				Usage:     "Add or subtract minutes from a running session without charging",
				ArgsUsage: "<station>",
				Action:    adjustAction,
				Flags: []cli.Flag{
					minutesFlag,
				},
			},
			{
				Name:      "reset",
				Usage:     "Return a station to idle with the default session length",
				ArgsUsage: "<station>",
				Action:    resetAction,
			},
			{
				Name:      "set-duration",
				Usage:     "Change the session length of an idle station",
				ArgsUsage: "<station>",
				Action:    setDurationAction,
				Flags: []cli.Flag{
					minutesFlag,
				},
			},
			{
				Name:   "status",
				Usage:  "Print the current state of every station",
				Action: statusAction,
			},
			{
				Name:   "log",
				Usage:  "Print the most recent activity entries",
				Action: logAction,
				Flags: []cli.Flag{
					limitFlag,
				},
			},
			{
				Name:   "stats",
				Usage:  "Report station usage and overtime for a period. Defaults to today",
				Action: statsAction,
				Flags: []cli.Flag{
					fromFlag,
					toFlag,
				},
			},
			{
				Name:   "edit-config",
				Usage:  "Edit the configuration file",
				Action: editConfigAction,
			},
		},
		Flags: []cli.Flag{
			noColorFlag,
		},
		Action: statusAction,
		Before: beforeAction,
	}

	return loungeApp
}
