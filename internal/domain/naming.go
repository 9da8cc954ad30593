package domain

import (
	"fmt"
	"path/filepath"
	"regexp"
)

// File and directory names.
const (
	AppName              = "chattasks"
	ConfigFileName       = "chattasks.toml" // Local config in the working directory
	GlobalConfigFileName = "config.toml"    // Global config under $XDG_CONFIG_HOME/chattasks
	LogsDirName          = "logs"
)

// GlobalConfigDir returns the global configuration directory.
// configHome is typically XDG_CONFIG_HOME or ~/.config (resolved by caller).
func GlobalConfigDir(configHome string) string {
	return filepath.Join(configHome, AppName)
}

// GlobalConfigPath returns the global config path.
func GlobalConfigPath(configHome string) string {
	return filepath.Join(GlobalConfigDir(configHome), GlobalConfigFileName)
}

// LocalConfigPath returns the config path inside a working directory.
func LocalConfigPath(dir string) string {
	return filepath.Join(dir, ConfigFileName)
}

// GlobalLogPath returns the path to the global log file.
func GlobalLogPath(dir string) string {
	return filepath.Join(dir, LogsDirName, AppName+".log")
}

var unsafeFileChars = regexp.MustCompile(`[^A-Za-z0-9_-]+`)

// SpaceLogPath returns the path to the log file of one space.
func SpaceLogPath(dir, space string) string {
	id := unsafeFileChars.ReplaceAllString(SpaceShortID(space), "_")
	return filepath.Join(dir, LogsDirName, fmt.Sprintf("space-%s.log", id))
}

// ReportFileName returns the CSV file name for a report period.
func ReportFileName(r DateRange) string {
	return fmt.Sprintf("task_report_%s_%s.csv", r.Start.Format(DateLayout), r.End.Format(DateLayout))
}
