package cmd

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/unclesp1d3r/credscan/lib/plugin"
	"github.com/unclesp1d3r/credscan/lib/result"
	"github.com/unclesp1d3r/credscan/lib/store"
	"github.com/unclesp1d3r/credscan/scanstate"
)

var resultsCmd = &cobra.Command{ //nolint:gochecknoglobals // Cobra command
	Use:   "results [OBJECT...]",
	Short: "Show stored scan results",
	Long:  "results prints the stored result of each OBJECT, or lists the scanned objects when none is given.",
	RunE:  runResults,
}

type storedResult struct {
	AnalysisDate time.Time              `json:"analysis_date" yaml:"analysis_date"`
	Result       *result.AnalysisResult `json:"result"        yaml:"result"`
}

func init() {
	resultsCmd.Flags().StringP("output", "o", "", "Output format: json or yaml (default from config)")
}

func runResults(cmd *cobra.Command, args []string) error {
	setupState()

	ctx := cmd.Context()

	db, err := store.Open(ctx, scanstate.State.ResultDBPath)
	if err != nil {
		return fmt.Errorf("couldn't open result store: %w", err)
	}
	defer db.Close() //nolint:errcheck // Closed on exit

	format := scanstate.State.OutputFormat
	if f, _ := cmd.Flags().GetString("output"); f != "" {
		format = f
	}

	if len(args) == 0 {
		ids, err := db.ObjectIDs(ctx, plugin.Name)
		if err != nil {
			return err
		}

		if ids == nil {
			ids = []string{}
		}

		return writeOutput(cmd.OutOrStdout(), format, ids)
	}

	out := make(map[string]storedResult, len(args))

	for _, arg := range args {
		id := arg
		if abs, err := filepath.Abs(arg); err == nil {
			id = abs
		}

		rec, err := db.LoadRecord(ctx, id, plugin.Name)
		if err != nil {
			return err
		}

		res := result.New()
		if err := json.Unmarshal(rec.Result, res); err != nil {
			return fmt.Errorf("decode stored result for %s: %w", id, err)
		}

		out[id] = storedResult{AnalysisDate: rec.AnalysisDate.UTC(), Result: res}
	}

	return writeOutput(cmd.OutOrStdout(), format, out)
}
