package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/pterm/pterm"
)

// Version is set at build time through ldflags.
var Version = "dev"

var (
	configDir      = "lounge"
	configFileName = "config.yml"
	dbFileName     = "lounge.db"
	logFileName    = "lounge.log"
	dbFilePath     string
	configFilePath string
	logFilePath    string
)

func Dir() string {
	return configDir
}

func DBFilePath() string {
	return dbFilePath
}

func FilePath() string {
	return configFilePath
}

func LogFilePath() string {
	return logFilePath
}

func InitializePaths() {
	loungeEnv := strings.TrimSpace(os.Getenv("LOUNGE_ENV"))
	if loungeEnv != "" {
		configFileName = fmt.Sprintf("config_%s.yml", loungeEnv)
		dbFileName = fmt.Sprintf("lounge_%s.db", loungeEnv)
		logFileName = fmt.Sprintf("lounge_%s.log", loungeEnv)
	}

	var err error

	relPath := filepath.Join(configDir, configFileName)

	configFilePath, err = xdg.ConfigFile(relPath)
	if err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}

	dataDir, err := xdg.DataFile(configDir)
	if err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}

	dbFilePath = filepath.Join(dataDir, dbFileName)

	logFilePath = filepath.Join(dataDir, logFileName)
}
