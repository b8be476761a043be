// Package scanstate provides the process-wide configuration snapshot and loggers shared across credscan.
package scanstate

import (
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
)

// State represents the configuration and runtime state of the scanner.
var State = scanState{} //nolint:gochecknoglobals // Global scanner state

// scanState holds the settings resolved from configuration plus a few counters updated while scanning.
// Counters are touched by crack workers concurrently; use the getter/setter methods for those fields.
type scanState struct {
	PidFile           string        // PidFile is the path to the lock file holding the scanner's process ID.
	DataPath          string        // DataPath is the root directory for everything credscan writes.
	CrackersPath      string        // CrackersPath is the directory searched for a bundled john binary.
	TempPath          string        // TempPath is where per-attempt credential, pot and session files are created.
	WordlistPath      string        // WordlistPath is the dictionary used for the first cracking pass (empty for the built-in list).
	JohnPath          string        // JohnPath is the path to the john binary (empty for auto-detection).
	ResultDBPath      string        // ResultDBPath is the SQLite database results are stored in.
	Engine            string        // Engine selects the cracking engine: "john" or "native".
	CrackTimeout      time.Duration // CrackTimeout bounds a single engine invocation.
	IncrementalBudget time.Duration // IncrementalBudget bounds the incremental cracking pass.
	Workers           int           // Workers is the maximum number of entries cracked concurrently.
	OutputFormat      string        // OutputFormat is "json" or "yaml".
	Debug             bool          // Debug enables debug logging.
	ExtraDebugging    bool          // ExtraDebugging streams john's session log into the debug logger.

	entriesFound   atomic.Int64
	entriesCracked atomic.Int64
	activityMu     sync.RWMutex
	activity       Activity
}

// Activity represents what the scanner is currently doing.
type Activity string

// Activity constants.
const (
	ActivityIdle       Activity = "idle"
	ActivityExtracting Activity = "extracting"
	ActivityCracking   Activity = "cracking"
	ActivityStoring    Activity = "storing"
)

// AddEntriesFound adds n to the number of credential entries extracted so far.
func (s *scanState) AddEntriesFound(n int64) {
	s.entriesFound.Add(n)
}

// GetEntriesFound returns the number of credential entries extracted so far.
func (s *scanState) GetEntriesFound() int64 {
	return s.entriesFound.Load()
}

// AddEntriesCracked adds n to the number of entries whose password was recovered.
func (s *scanState) AddEntriesCracked(n int64) {
	s.entriesCracked.Add(n)
}

// GetEntriesCracked returns the number of entries whose password was recovered.
func (s *scanState) GetEntriesCracked() int64 {
	return s.entriesCracked.Load()
}

// ResetCounters zeroes the entry counters.
func (s *scanState) ResetCounters() {
	s.entriesFound.Store(0)
	s.entriesCracked.Store(0)
}

// GetActivity returns the current activity (thread-safe).
func (s *scanState) GetActivity() Activity {
	s.activityMu.RLock()
	defer s.activityMu.RUnlock()

	if s.activity == "" {
		return ActivityIdle
	}

	return s.activity
}

// SetActivity sets the current activity (thread-safe).
func (s *scanState) SetActivity(a Activity) {
	s.activityMu.Lock()
	defer s.activityMu.Unlock()
	s.activity = a
}

// Logger is a shared logging instance configured to output logs at InfoLevel with timestamps to os.Stdout.
var Logger = log.NewWithOptions(os.Stdout, log.Options{ //nolint:gochecknoglobals // Global logger instance
	Level:           log.InfoLevel,
	ReportTimestamp: true,
})

// ErrorLogger is a logger instance for logging critical errors with detailed error information.
var ErrorLogger = Logger.With() //nolint:gochecknoglobals // Global error logger instance
