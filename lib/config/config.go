// Package config provides configuration management for credscan.
package config

import (
	"os"
	"path"
	"runtime"
	"slices"
	"time"

	gap "github.com/muesli/go-app-paths"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/unclesp1d3r/credscan/scanstate"
)

const (
	// DefaultEngine is the cracking engine used when none is configured.
	DefaultEngine = "john"
	// DefaultCrackTimeout bounds a single engine invocation.
	DefaultCrackTimeout = 60 * time.Second
	// DefaultIncrementalBudget bounds the incremental pass of one entry.
	DefaultIncrementalBudget = 30 * time.Second
	// DefaultOutputFormat is how scan results are printed.
	DefaultOutputFormat = "json"
)

var (
	scope = gap.NewScope(gap.User, "credscan") //nolint:gochecknoglobals // Configuration scope

	outputFormats = []string{"json", "yaml"} //nolint:gochecknoglobals // Accepted output values
)

// InitConfig initializes the configuration from various sources.
func InitConfig(cfgFile string) {
	scanstate.ErrorLogger.SetReportCaller(true)

	home, err := os.UserConfigDir()
	cobra.CheckErr(err)

	cwd, err := os.Getwd()
	cobra.CheckErr(err)
	viper.AddConfigPath(cwd)

	configDirs, err := scope.ConfigDirs()
	cobra.CheckErr(err)

	for _, dir := range configDirs {
		viper.AddConfigPath(dir)
	}

	viper.AddConfigPath(home)
	viper.SetConfigType("yaml")
	viper.SetConfigName("credscan")

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	}

	viper.SetEnvPrefix("credscan")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		scanstate.Logger.Info("Using config file", "config_file", viper.ConfigFileUsed())
	} else {
		scanstate.Logger.Debug("No config file found, using defaults", "error", err)
	}
}

// SetupSharedState configures the scanner state from configuration values.
// Paths that are not set explicitly are derived from data_path. Invalid durations, worker counts
// and output formats fall back to their defaults.
func SetupSharedState() {
	dataRoot := viper.GetString("data_path")
	scanstate.State.DataPath = dataRoot
	scanstate.State.PidFile = path.Join(dataRoot, "lock.pid")
	scanstate.State.TempPath = stringOr("temp_path", path.Join(dataRoot, "tmp"))
	scanstate.State.CrackersPath = stringOr("crackers_path", path.Join(dataRoot, "crackers"))
	scanstate.State.ResultDBPath = stringOr("result_db", path.Join(dataRoot, "results.db"))
	scanstate.State.JohnPath = viper.GetString("john_path")
	scanstate.State.WordlistPath = viper.GetString("wordlist_path")
	scanstate.State.Engine = stringOr("engine", DefaultEngine)
	scanstate.State.Debug = viper.GetBool("debug")
	scanstate.State.ExtraDebugging = viper.GetBool("extra_debugging")

	scanstate.State.CrackTimeout = viper.GetDuration("crack_timeout")
	if scanstate.State.CrackTimeout <= 0 {
		scanstate.Logger.Warn("Invalid crack_timeout, using default", "value", viper.Get("crack_timeout"))
		scanstate.State.CrackTimeout = DefaultCrackTimeout
	}

	scanstate.State.IncrementalBudget = viper.GetDuration("incremental_budget")
	if scanstate.State.IncrementalBudget <= 0 {
		scanstate.Logger.Warn("Invalid incremental_budget, using default", "value", viper.Get("incremental_budget"))
		scanstate.State.IncrementalBudget = DefaultIncrementalBudget
	}

	scanstate.State.Workers = viper.GetInt("workers")
	if scanstate.State.Workers < 1 {
		scanstate.State.Workers = runtime.NumCPU()
	}

	scanstate.State.OutputFormat = viper.GetString("output")
	if !slices.Contains(outputFormats, scanstate.State.OutputFormat) {
		scanstate.Logger.Warn("Unknown output format, using default", "output", scanstate.State.OutputFormat)
		scanstate.State.OutputFormat = DefaultOutputFormat
	}
}

// SetDefaultConfigValues sets default configuration values.
func SetDefaultConfigValues() {
	cwd, err := os.Getwd()
	cobra.CheckErr(err)

	viper.SetDefault("data_path", path.Join(cwd, "data"))
	viper.SetDefault("john_path", "")
	viper.SetDefault("wordlist_path", "")
	viper.SetDefault("engine", DefaultEngine)
	viper.SetDefault("crack_timeout", DefaultCrackTimeout)
	viper.SetDefault("incremental_budget", DefaultIncrementalBudget)
	viper.SetDefault("workers", runtime.NumCPU())
	viper.SetDefault("output", DefaultOutputFormat)
	viper.SetDefault("debug", false)
	viper.SetDefault("extra_debugging", false)
}

func stringOr(key, fallback string) string {
	if v := viper.GetString(key); v != "" {
		return v
	}

	return fallback
}
