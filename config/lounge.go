// Package config is responsible for setting the program config from
// the config file and command-line arguments
package config

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/adrg/xdg"
	"github.com/pterm/pterm"
	"github.com/spf13/viper"
	"github.com/urfave/cli/v2"
)

var loungeCfg = &LoungeConfig{}

var once sync.Once

var errInitFailed = errors.New(
	"unable to initialise lounge settings from the configuration file",
)

const (
	defaultSessionMinutes = 60
	defaultWarningMinutes = 5
	defaultListenAddr     = "127.0.0.1:7730"
	defaultHourlyRate     = 100
)

const (
	configStations       = "stations"
	configPrices         = "prices"
	configDefaultRate    = "default_rate"
	configSessionMinutes = "session_mins"
	configWarningMinutes = "warning_mins"
	configListenAddr     = "listen_addr"
	configNotify         = "notify"
	configWarningSound   = "warning_sound"
	configAlarmSound     = "alarm_sound"
	configAlarmCmd       = "alarm_cmd"
	configDarkTheme      = "dark_theme"
)

// Station identifies one rentable unit on the floor.
type Station struct {
	ID       string `json:"id"       mapstructure:"id"`
	Name     string `json:"name"     mapstructure:"name"`
	Category string `json:"category" mapstructure:"category"`
}

// LoungeConfig represents the program configuration derived from the config
// file and command-line arguments.
type LoungeConfig struct {
	Prices           map[string]int `json:"prices"`
	PathToConfig     string         `json:"path_to_config"`
	PathToDB         string         `json:"path_to_db"`
	ListenAddr       string         `json:"listen_addr"`
	WarningSound     string         `json:"warning_sound"`
	AlarmSound       string         `json:"alarm_sound"`
	AlarmCmd         string         `json:"alarm_cmd"`
	Stations         []Station      `json:"stations"`
	DefaultRate      int            `json:"default_rate"`
	SessionDuration  time.Duration  `json:"session_duration"`
	WarningThreshold time.Duration  `json:"warning_threshold"`
	Notify           bool           `json:"notify"`
	DarkTheme        bool           `json:"dark_theme"`
}

// PricePerHour returns the hourly rate for a station, falling back to the
// default rate for unknown ids.
func (c *LoungeConfig) PricePerHour(stationID string) int {
	if rate, ok := c.Prices[stationID]; ok {
		return rate
	}

	return c.DefaultRate
}

func defaultStations() []map[string]string {
	return []map[string]string{
		{"id": "table-1", "name": "Billiard 1", "category": "billiard"},
		{"id": "table-2", "name": "Billiard 2", "category": "billiard"},
		{"id": "table-3", "name": "Billiard 3", "category": "billiard"},
		{"id": "ps-1", "name": "PlayStation 1", "category": "playstation"},
		{"id": "ps-2", "name": "PlayStation 2", "category": "playstation"},
		{"id": "vip-1", "name": "VIP Room", "category": "vip"},
	}
}

// createLoungeConfig writes a config file with default settings on first
// run.
func createLoungeConfig() error {
	viper.SetDefault(configStations, defaultStations())
	viper.SetDefault(configPrices, map[string]int{
		"table-1": 100,
		"table-2": 100,
		"table-3": 100,
		"ps-1":    150,
		"ps-2":    150,
		"vip-1":   300,
	})
	viper.SetDefault(configDefaultRate, defaultHourlyRate)
	viper.SetDefault(configSessionMinutes, defaultSessionMinutes)
	viper.SetDefault(configWarningMinutes, defaultWarningMinutes)
	viper.SetDefault(configListenAddr, defaultListenAddr)
	viper.SetDefault(configNotify, true)
	viper.SetDefault(configWarningSound, "bell")
	viper.SetDefault(configAlarmSound, "loud_bell")
	viper.SetDefault(configAlarmCmd, "")
	viper.SetDefault(configDarkTheme, true)

	err := viper.WriteConfigAs(loungeCfg.PathToConfig)
	if err != nil {
		return err
	}

	pterm.Info.Printfln(
		"Default settings were saved to: %s",
		loungeCfg.PathToConfig,
	)

	return viper.ReadInConfig()
}

// initLoungeConfig initialises the application configuration. If the config
// file does not exist, it is created with default settings.
func initLoungeConfig() error {
	viper.SetConfigName(configFileName)
	viper.SetConfigType("yaml")

	relPath := filepath.Join(configDir, configFileName)

	pathToConfigFile, err := xdg.ConfigFile(relPath)
	if err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}

	loungeCfg.PathToConfig = pathToConfigFile

	viper.AddConfigPath(filepath.Dir(loungeCfg.PathToConfig))

	if err := viper.ReadInConfig(); err != nil {
		if errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return createLoungeConfig()
		}

		return err
	}

	return nil
}

func setLoungeConfig(ctx *cli.Context) {
	loungeCfg.PathToDB = DBFilePath()

	// set from config file
	loungeCfg.DefaultRate = viper.GetInt(configDefaultRate)
	loungeCfg.SessionDuration = time.Duration(
		viper.GetInt(configSessionMinutes),
	) * time.Minute
	loungeCfg.WarningThreshold = time.Duration(
		viper.GetInt(configWarningMinutes),
	) * time.Minute
	loungeCfg.ListenAddr = viper.GetString(configListenAddr)
	loungeCfg.Notify = viper.GetBool(configNotify)
	loungeCfg.WarningSound = viper.GetString(configWarningSound)
	loungeCfg.AlarmSound = viper.GetString(configAlarmSound)
	loungeCfg.AlarmCmd = viper.GetString(configAlarmCmd)

	if viper.IsSet(configDarkTheme) {
		loungeCfg.DarkTheme = viper.GetBool(configDarkTheme)
	} else {
		loungeCfg.DarkTheme = true
	}

	loungeCfg.Prices = make(map[string]int)
	for id := range viper.GetStringMap(configPrices) {
		loungeCfg.Prices[id] = viper.GetInt(configPrices + "." + id)
	}

	var stations []Station

	err := viper.UnmarshalKey(configStations, &stations)
	if err != nil {
		pterm.Error.Printfln("%s: %s", errInitFailed.Error(), err.Error())
		os.Exit(1)
	}

	loungeCfg.Stations = stations

	// set from command-line arguments
	if ctx.Bool("disable-notification") {
		loungeCfg.Notify = false
	}

	if ctx.String("listen") != "" {
		loungeCfg.ListenAddr = ctx.String("listen")
	}

	if ctx.String("alarm-cmd") != "" {
		loungeCfg.AlarmCmd = ctx.String("alarm-cmd")
	}
}

// Lounge initialises and returns the application configuration.
func Lounge(ctx *cli.Context) *LoungeConfig {
	once.Do(func() {
		err := initLoungeConfig()
		if err != nil {
			pterm.Error.Printfln("%s: %s", errInitFailed.Error(), err.Error())
			os.Exit(1)
		}

		setLoungeConfig(ctx)
	})

	return loungeCfg
}
