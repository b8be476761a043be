package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/unclesp1d3r/credscan/lib/cserrors"
	"github.com/unclesp1d3r/credscan/lib/display"
	"github.com/unclesp1d3r/credscan/lib/plugin"
	"github.com/unclesp1d3r/credscan/lib/progress"
	"github.com/unclesp1d3r/credscan/lib/result"
	"github.com/unclesp1d3r/credscan/lib/store"
	"github.com/unclesp1d3r/credscan/scanstate"
	"gopkg.in/yaml.v3"
)

var (
	errAlreadyRunning = errors.New("another credscan process holds the lock file")
	errObjectsFailed  = errors.New("some objects could not be analysed")
)

var scanCmd = &cobra.Command{ //nolint:gochecknoglobals // Cobra command
	Use:   "scan FILE...",
	Short: "Extract and crack credentials in files",
	Long: "scan analyses each file, stores the result per file in the result database and prints\n" +
		"all results keyed by the file's absolute path.",
	Args: cobra.MinimumNArgs(1),
	RunE: runScan,
}

func init() {
	flags := scanCmd.Flags()
	flags.StringP("output", "o", "json", "Output format: json or yaml")
	flags.Int("workers", 0, "Entries cracked concurrently (default is the CPU count)")
	flags.Duration("crack-timeout", 0, "Limit for a single engine invocation")
	flags.Duration("incremental-budget", 0, "Limit for the incremental pass of one entry")
	flags.Bool("no-progress", false, "Don't show the progress bar")

	for key, flag := range map[string]string{
		"output":             "output",
		"workers":            "workers",
		"crack_timeout":      "crack-timeout",
		"incremental_budget": "incremental-budget",
	} {
		cobra.CheckErr(viper.BindPFlag(key, flags.Lookup(flag)))
	}
}

func runScan(cmd *cobra.Command, args []string) error {
	setupState()

	ctx := cmd.Context()

	release, err := acquireLock()
	if err != nil {
		return cserrors.LogAndWrap("Couldn't start scan", err)
	}
	defer release()

	db, err := store.Open(ctx, scanstate.State.ResultDBPath)
	if err != nil {
		return cserrors.LogAndWrap("Couldn't open result store", err)
	}
	defer db.Close() //nolint:errcheck // Closed on exit

	p, err := plugin.New(plugin.WithSink(db))
	if err != nil {
		return cserrors.LogAndWrap("Couldn't create cracking engine", err)
	}

	started := time.Now()
	display.Startup(p.Engine().Name(), scanstate.State.Workers)
	defer display.ShuttingDown()

	noProgress, _ := cmd.Flags().GetBool("no-progress")
	bar := progress.NewScanBar(len(args))
	if noProgress {
		bar.SetWriter(io.Discard)
	}

	results := make(map[string]*result.AnalysisResult, len(args))
	failed := 0

	for _, path := range args {
		obj := plugin.FileFromPath(path)

		res, err := p.ProcessObject(ctx, obj)
		bar.Increment()

		if res != nil {
			results[obj.ID()] = res
		}

		if err != nil {
			if ctx.Err() != nil {
				scanstate.Logger.Warn("Scan interrupted, keeping completed entries", "object", obj.ID())

				break
			}

			scanstate.ErrorLogger.Error("Failed to analyse object", "object", obj.ID(), "error", err)

			failed++
		}
	}

	bar.Finish()

	if err := writeOutput(cmd.OutOrStdout(), scanstate.State.OutputFormat, results); err != nil {
		return err
	}

	display.RunTotals(len(results), started)

	if ctx.Err() != nil {
		return ctx.Err()
	}

	if failed > 0 {
		return fmt.Errorf("%w: %d of %d", errObjectsFailed, failed, len(args))
	}

	return nil
}

// writeOutput encodes v as indented JSON or YAML.
func writeOutput(w io.Writer, format string, v any) error {
	switch format {
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2) //nolint:mnd // Two-space YAML

		if err := enc.Encode(v); err != nil {
			return err
		}

		return enc.Close()
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")

		return enc.Encode(v)
	}
}
