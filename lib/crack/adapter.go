package crack

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/unclesp1d3r/credscan/scanstate"
)

const (
	defaultTimeout           = 60 * time.Second
	defaultIncrementalBudget = 30 * time.Second
	dirPermissions           = 0o700
	filePermissions          = 0o600
	hashFileName             = "hashes.txt"
)

// Failure reasons recorded on entries.
const (
	ReasonNotFound    = "no password found"
	ReasonUnsupported = "hash type is not supported"
)

var (
	// ErrTempFile is returned when the scoped credential file cannot be created or written.
	ErrTempFile = errors.New("couldn't create temporary credential file")
	// ErrNilEntry is returned when Crack is called without a result entry.
	ErrNilEntry = errors.New("nil result entry")
)

// Entry is the per-credential record the adapter fills in.
// After Crack returns without error exactly one of Password and Error is set.
type Entry struct {
	Password string
	Error    string
	Log      string
	Cracked  bool
}

// Adapter runs the dictionary pass and, only when that finds nothing, the incremental pass.
type Adapter struct {
	engine  Engine
	tempDir string
	timeout time.Duration
	budget  time.Duration
}

// Option configures an Adapter.
type Option func(*Adapter)

// WithTempDir sets the directory per-attempt files are created in.
func WithTempDir(dir string) Option {
	return func(a *Adapter) { a.tempDir = dir }
}

// WithTimeout sets the hard wall-clock limit of a single engine invocation.
func WithTimeout(d time.Duration) Option {
	return func(a *Adapter) {
		if d > 0 {
			a.timeout = d
		}
	}
}

// WithIncrementalBudget sets how long the incremental pass may run.
func WithIncrementalBudget(d time.Duration) Option {
	return func(a *Adapter) {
		if d > 0 {
			a.budget = d
		}
	}
}

// NewAdapter returns an Adapter driving engine.
func NewAdapter(engine Engine, opts ...Option) *Adapter {
	a := &Adapter{
		engine:  engine,
		tempDir: os.TempDir(),
		timeout: defaultTimeout,
		budget:  defaultIncrementalBudget,
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Engine returns the engine the adapter drives.
func (a *Adapter) Engine() Engine {
	return a.engine
}

// Crack tries to recover the password for the single credential line and records the outcome on entry.
// A hash that cannot be cracked is not an error: Crack returns false and sets entry.Error.
// Errors are returned only for failures that make the whole run meaningless, and for cancellation of ctx.
// formatHint, with or without a leading "--format=", overrides the engine's auto-detection.
func (a *Adapter) Crack(ctx context.Context, line []byte, entry *Entry, formatHint string) (bool, error) {
	if entry == nil {
		return false, ErrNilEntry
	}

	workDir, hashFile, err := a.writeHashFile(line)
	if err != nil {
		return false, err
	}
	defer func() {
		if err := os.RemoveAll(workDir); err != nil {
			scanstate.Logger.Error("Couldn't remove attempt directory", "path", workDir, "error", err)
		}
	}()

	attempt := Attempt{
		HashFile: hashFile,
		WorkDir:  workDir,
		Format:   normalizeFormat(formatHint),
	}

	reason := ReasonNotFound
	logs := make([]string, 0, 2) //nolint:mnd // one per pass

	for _, mode := range []Mode{ModeDictionary, ModeIncremental} {
		attempt.Mode = mode
		attempt.Budget = a.budget

		outcome, err := a.run(ctx, attempt)
		if outcome.Log != "" {
			logs = append(logs, outcome.Log)
		}

		entry.Log = strings.Join(logs, "\n")

		if err != nil {
			if ctx.Err() != nil {
				return false, ctx.Err()
			}

			if errors.Is(err, context.DeadlineExceeded) {
				scanstate.Logger.Debug("Cracking pass timed out", "engine", a.engine.Name(), "mode", mode)
				reason = fmt.Sprintf("%s pass timed out after %s", mode, a.passTimeout(mode))

				continue
			}

			return false, err
		}

		if outcome.Found {
			entry.Password = outcome.Password
			entry.Cracked = true
			entry.Error = ""

			return true, nil
		}

		if outcome.Unsupported {
			entry.Error = ReasonUnsupported

			return false, nil
		}

		if outcome.Reason != "" {
			reason = outcome.Reason
		}
	}

	entry.Error = reason

	return false, nil
}

func (a *Adapter) run(ctx context.Context, attempt Attempt) (Outcome, error) {
	passCtx, cancel := context.WithTimeout(ctx, a.passTimeout(attempt.Mode))
	defer cancel()

	scanstate.Logger.Debug("Running cracking pass",
		"engine", a.engine.Name(), "mode", attempt.Mode, "format", attempt.Format)

	outcome, err := a.engine.Attempt(passCtx, attempt)
	if outcome.Found {
		// A password recovered before the deadline still counts.
		return outcome, nil
	}

	if passCtx.Err() != nil && ctx.Err() == nil {
		return outcome, context.DeadlineExceeded
	}

	return outcome, err
}

// passTimeout is the hard limit for one invocation. The incremental pass is already bounded by its
// budget, so its limit leaves the budget plus the normal timeout for startup and the show query.
func (a *Adapter) passTimeout(mode Mode) time.Duration {
	if mode == ModeIncremental {
		return a.budget + a.timeout
	}

	return a.timeout
}

func (a *Adapter) writeHashFile(line []byte) (string, string, error) {
	workDir := filepath.Join(a.tempDir, "attempt-"+uuid.NewString())
	if err := os.MkdirAll(workDir, dirPermissions); err != nil {
		return "", "", fmt.Errorf("%w: %w", ErrTempFile, err)
	}

	hashFile := filepath.Join(workDir, hashFileName)

	content := make([]byte, 0, len(line)+1)
	content = append(content, line...)
	content = append(content, '\n')

	if err := os.WriteFile(hashFile, content, filePermissions); err != nil {
		_ = os.RemoveAll(workDir)

		return "", "", fmt.Errorf("%w: %w", ErrTempFile, err)
	}

	return workDir, hashFile, nil
}

func normalizeFormat(hint string) string {
	return strings.TrimPrefix(strings.TrimSpace(hint), "--format=")
}
