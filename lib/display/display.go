// Package display provides the user-facing log lines of the credscan CLI.
package display

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/dustin/go-humanize"
	"github.com/unclesp1d3r/credscan/scanstate"
)

// Startup logs the start of a scan run.
func Startup(engine string, workers int) {
	scanstate.Logger.Info("Starting credscan", "engine", engine, "workers", workers)
}

// ShuttingDown logs the end of the run.
func ShuttingDown() {
	scanstate.Logger.Info("Shutting down credscan")
}

// ScanStarting logs the start of the analysis of one object.
func ScanStarting(objectID string, size int) {
	scanstate.Logger.Info("Scanning object", "object", objectID, "size", humanize.Bytes(uint64(size))) //nolint:gosec // size is a slice length
}

// ObjectSkipped logs an object whose MIME type is blacklisted.
func ObjectSkipped(objectID, mimeType string) {
	scanstate.Logger.Info("Skipping object", "object", objectID, "mime_type", mimeType)
}

// CandidatesFound logs how many credential lines were extracted from an object.
func CandidatesFound(objectID string, count int) {
	scanstate.Logger.Debug("Credential lines extracted", "object", objectID, "count", count)
}

// EntryCracked logs a recovered password. The plaintext is only logged at debug level.
func EntryCracked(key, password string) {
	scanstate.Logger.Info("Password recovered", "finding", key)
	scanstate.Logger.Debug("Recovered plaintext", "finding", key, "password", password)
}

// EntryFailed logs an entry whose password could not be recovered.
func EntryFailed(key, reason string) {
	scanstate.Logger.Debug("Password not recovered", "finding", key, "reason", reason)
}

// EngineOutput logs a line of engine output with non-printable characters removed.
func EngineOutput(line string) {
	scanstate.Logger.Debug("Engine output", "line", strings.Map(func(r rune) rune {
		if unicode.IsPrint(r) {
			return r
		}

		return -1
	}, line))
}

// ScanComplete logs the outcome of the analysis of one object.
func ScanComplete(objectID string, findings, cracked int, elapsed time.Duration) {
	scanstate.Logger.Info("Scan complete",
		"object", objectID,
		"findings", findings,
		"cracked", cracked,
		"cracked_pct", crackedPercent(cracked, findings),
		"elapsed", elapsed.Round(time.Millisecond))
}

const percentageMultiplier = 100

// crackedPercent formats cracked/findings with two decimals, "0.00%" for an empty result.
func crackedPercent(cracked, findings int) string {
	if findings == 0 {
		return "0.00%"
	}

	return fmt.Sprintf("%.2f%%", float64(cracked)*percentageMultiplier/float64(findings))
}

// ResultStored logs that a result was handed to the result store.
func ResultStored(objectID, plugin string) {
	scanstate.Logger.Debug("Result stored", "object", objectID, "plugin", plugin)
}

// DownloadStarting logs the start of a download.
func DownloadStarting(url, path string) {
	scanstate.Logger.Info("Downloading", "url", url, "path", path)
}

// DownloadComplete logs a finished download with its size.
func DownloadComplete(path string, size int64) {
	scanstate.Logger.Info("Download complete", "path", path, "size", humanize.Bytes(uint64(size))) //nolint:gosec // file size
}

// RunTotals logs the counters accumulated over the whole run.
func RunTotals(objects int, started time.Time) {
	scanstate.Logger.Info("Run totals",
		"objects", objects,
		"entries", humanize.Comma(scanstate.State.GetEntriesFound()),
		"cracked", humanize.Comma(scanstate.State.GetEntriesCracked()),
		"started", humanize.Time(started))
}
