// Package alert delivers warning and alarm cues for station timers through
// the system speaker and desktop notifications
package alert

import (
	"os/exec"
	"sync"

	"github.com/gen2brain/beeep"
	"github.com/kballard/go-shellquote"
	"github.com/pterm/pterm"
)

// Sink receives timer lifecycle cues. Implementations must tolerate
// repeated calls: Alarm is a no-op for a station whose alarm is already
// sounding, until StopAlarm is called for it.
type Sink interface {
	// Warn plays the low-time warning cue for a station.
	Warn(stationName string)
	// Alarm starts the repeating finished alarm for a station.
	Alarm(stationID, stationName string)
	// StopAlarm silences the finished alarm for a station.
	StopAlarm(stationID string)
	// Notify shows a desktop notification.
	Notify(title, body string, urgent bool)
}

// Desktop is the production Sink. It plays sound cues through the system
// speaker, sends desktop notifications, and optionally runs a shell command
// when an alarm starts.
type Desktop struct {
	active       map[string]bool
	warningSound string
	alarmSound   string
	alarmCmd     string
	mu           sync.Mutex
	notify       bool
}

// Options configures the production Sink.
type Options struct {
	WarningSound string
	AlarmSound   string
	AlarmCmd     string
	Notify       bool
}

// New returns a Sink that renders alerts on the local desktop.
func New(opts Options) *Desktop {
	return &Desktop{
		warningSound: opts.WarningSound,
		alarmSound:   opts.AlarmSound,
		alarmCmd:     opts.AlarmCmd,
		notify:       opts.Notify,
		active:       make(map[string]bool),
	}
}

func (d *Desktop) Warn(stationName string) {
	err := playSound(d.warningSound, false)
	if err != nil {
		pterm.Error.Printfln("unable to play warning sound: %v", err)
	}
}

func (d *Desktop) Alarm(stationID, stationName string) {
	d.mu.Lock()

	if d.active[stationID] {
		d.mu.Unlock()
		return
	}

	alreadySounding := len(d.active) > 0
	d.active[stationID] = true

	d.mu.Unlock()

	// one looping stream serves however many stations are alarming
	if !alreadySounding {
		err := playSound(d.alarmSound, true)
		if err != nil {
			pterm.Error.Printfln("unable to play alarm sound: %v", err)
		}
	}

	d.runAlarmCmd(stationName)
}

func (d *Desktop) StopAlarm(stationID string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.active[stationID] {
		return
	}

	delete(d.active, stationID)

	if len(d.active) == 0 {
		stopSounds()
	}
}

func (d *Desktop) Notify(title, body string, urgent bool) {
	if !d.notify {
		return
	}

	var err error
	if urgent {
		err = beeep.Alert(title, body, "")
	} else {
		err = beeep.Notify(title, body, "")
	}

	if err != nil {
		pterm.Error.Printfln("unable to display notification: %v", err)
	}
}

// runAlarmCmd executes the configured alarm command.
func (d *Desktop) runAlarmCmd(stationName string) {
	if d.alarmCmd == "" {
		return
	}

	cmdSlice, err := shellquote.Split(d.alarmCmd)
	if err != nil {
		pterm.Error.Printfln("unable to parse alarm_cmd option: %v", err)
		return
	}

	if len(cmdSlice) == 0 {
		return
	}

	name := cmdSlice[0]
	args := append(cmdSlice[1:], stationName)

	go func() {
		err := exec.Command(name, args...).Run()
		if err != nil {
			pterm.Error.Printfln("alarm command failed: %v", err)
		}
	}()
}

type noop struct{}

func (noop) Warn(string)          {}
func (noop) Alarm(string, string) {}
func (noop) StopAlarm(string)     {}

func (noop) Notify(string, string, bool) {}

// Noop returns a Sink that discards every alert. It is used by read-only
// commands that load timers without operating them.
func Noop() Sink {
	return noop{}
}
