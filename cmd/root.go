// Package cmd implements the credscan command line.
package cmd

import (
	"context"
	"os"
	"syscall"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/unclesp1d3r/credscan/lib/config"
	"github.com/unclesp1d3r/credscan/lib/cracker"
	"github.com/unclesp1d3r/credscan/scanstate"
)

// Version is the credscan release, set at build time.
var Version = "dev" //nolint:gochecknoglobals // Overridden with -ldflags

var cfgFile string //nolint:gochecknoglobals // Cobra flag target

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{ //nolint:gochecknoglobals // Cobra root command
	Use:   "credscan",
	Short: "Find and crack credentials embedded in binary objects",
	Long: "credscan searches files for UNIX passwd/shadow, htpasswd and mosquitto password entries,\n" +
		"classifies each hash and tries to recover the plaintext with john or the built-in engine.",
	SilenceUsage: true,
}

// Execute runs the root command until it completes or ctx is cancelled by SIGINT/SIGTERM.
func Execute(ctx context.Context) error {
	return fang.Execute(ctx, rootCmd,
		fang.WithVersion(Version),
		fang.WithNotifySignal(os.Interrupt, syscall.SIGTERM),
	)
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is credscan.yaml in the working or config directory)")
	flags.Bool("debug", false, "Enable debug mode")
	flags.Bool("extra-debugging", false, "Stream john's session log into the debug log")
	flags.String("data-path", "", "Directory credscan writes its data to")
	flags.String("engine", config.DefaultEngine, "Cracking engine: john or native")
	flags.String("john-path", "", "Path to the john binary")
	flags.String("wordlist", "", "Wordlist for the dictionary pass (default is the builtin list)")

	bindFlag("debug", "debug")
	bindFlag("extra_debugging", "extra-debugging")
	bindFlag("data_path", "data-path")
	bindFlag("engine", "engine")
	bindFlag("john_path", "john-path")
	bindFlag("wordlist_path", "wordlist")

	config.SetDefaultConfigValues()

	rootCmd.AddCommand(scanCmd, resultsCmd, wordlistCmd, versionCmd)
}

func bindFlag(key, flag string) {
	cobra.CheckErr(viper.BindPFlag(key, rootCmd.PersistentFlags().Lookup(flag)))
}

func initConfig() {
	config.InitConfig(cfgFile)
}

// setupState copies the configuration into scanstate.State and configures the loggers.
// Logs go to stderr so results printed on stdout stay parseable.
func setupState() {
	config.SetupSharedState()

	for _, logger := range []*log.Logger{scanstate.Logger, scanstate.ErrorLogger} {
		logger.SetOutput(os.Stderr)

		if scanstate.State.Debug {
			logger.SetLevel(log.DebugLevel)
			logger.SetReportCaller(true)
		} else {
			logger.SetLevel(log.InfoLevel)
		}
	}

	scanstate.ErrorLogger.SetReportCaller(true)
}

// acquireLock creates the data directories and the lock file, failing when another credscan
// process holds the lock. The returned func releases it.
func acquireLock() (func(), error) {
	if cracker.CheckForExistingClient(scanstate.State.PidFile) {
		return nil, errAlreadyRunning
	}

	if err := cracker.CreateDataDirs(); err != nil {
		return nil, err
	}

	if err := cracker.CreateLockFile(); err != nil {
		return nil, err
	}

	return func() {
		if err := cracker.RemoveLockFile(); err != nil {
			scanstate.ErrorLogger.Error("Failed to remove PID file", "path", scanstate.State.PidFile, "error", err)
		}
	}, nil
}
