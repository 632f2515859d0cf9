package app

import "github.com/urfave/cli/v2"

var (
	minutesFlag = &cli.IntFlag{
		Name:    "minutes",
		Aliases: []string{"m"},
		Usage:   "Session length in minutes",
	}

	postpaidFlag = &cli.BoolFlag{
		Name:  "postpaid",
		Usage: "Charge the session to the amount owed at the end instead of collecting up front",
	}

	limitFlag = &cli.IntFlag{
		Name:    "limit",
		Aliases: []string{"n"},
		Usage:   "Maximum number of activity entries to show",
		Value:   50,
	}

	fromFlag = &cli.StringFlag{
		Name:  "from",
		Usage: "Start of the reporting period as YYYYMMDD. Defaults to today",
	}

	toFlag = &cli.StringFlag{
		Name:  "to",
		Usage: "End of the reporting period as YYYYMMDD. Defaults to today",
	}

	listenFlag = &cli.StringFlag{
		Name:  "listen",
		Usage: "Address for the dashboard and API to listen on",
	}

	disableNotificationFlag = &cli.BoolFlag{
		Name:    "disable-notification",
		Aliases: []string{"d"},
		Usage:   "Disable the desktop notifications sent when a session is almost up or has ended",
	}

	alarmCmdFlag = &cli.StringFlag{
		Name:  "alarm-cmd",
		Usage: "Execute an arbitrary command when a station's time runs out",
	}

	noColorFlag = &cli.BoolFlag{
		Name:  "no-color",
		Usage: "Disable coloured output",
	}
)
