package john

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/unclesp1d3r/credscan/lib/crack"
	"github.com/unclesp1d3r/credscan/lib/cracker"
	"github.com/unclesp1d3r/credscan/scanstate"
)

const (
	potFileName     = "john.pot"
	sessionFileName = "session"
)

// Engine cracks credentials by running the john binary. It implements crack.Engine.
type Engine struct {
	binary   string
	wordlist string
	rules    bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithBinary uses the given john binary instead of searching for one.
func WithBinary(path string) Option {
	return func(e *Engine) { e.binary = path }
}

// WithWordlist sets the dictionary for the first pass.
func WithWordlist(path string) Option {
	return func(e *Engine) { e.wordlist = path }
}

// WithRules toggles john's default mangling rules in the dictionary pass.
func WithRules(enabled bool) Option {
	return func(e *Engine) { e.rules = enabled }
}

// NewEngine returns an Engine. Without WithBinary the john binary is located with cracker.FindJohnBinary;
// a missing binary is returned as an error wrapping cracker.ErrJohnBinaryNotFound.
func NewEngine(opts ...Option) (*Engine, error) {
	e := &Engine{
		wordlist: scanstate.State.WordlistPath,
		rules:    true,
	}

	for _, opt := range opts {
		opt(e)
	}

	if e.binary == "" {
		binary, err := cracker.FindJohnBinary()
		if err != nil {
			return nil, fmt.Errorf("couldn't locate john: %w", err)
		}

		e.binary = binary
	}

	return e, nil
}

// Name returns the engine name.
func (e *Engine) Name() string {
	return "john"
}

// Binary returns the path of the john binary in use.
func (e *Engine) Binary() string {
	return e.binary
}

// Attempt runs one cracking pass followed by the show query against the same file and pot.
func (e *Engine) Attempt(ctx context.Context, attempt crack.Attempt) (crack.Outcome, error) {
	params := Params{
		Mode:       attempt.Mode,
		HashFile:   attempt.HashFile,
		Format:     attempt.Format,
		Wordlist:   e.wordlist,
		Rules:      e.rules,
		MaxRunTime: attempt.Budget,
		PotFile:    filepath.Join(attempt.WorkDir, potFileName),
		Session:    filepath.Join(attempt.WorkDir, sessionFileName),
	}

	args, err := params.toCmdArgs()
	if err != nil {
		// A bad format hint concerns only this entry.
		return crack.Outcome{Reason: err.Error()}, nil
	}

	run, err := NewSession(ctx, e.binary, args, params.Session+".log").Run(ctx)
	if err != nil {
		return crack.Outcome{Log: run.Output()}, err
	}

	logs := []string{strings.TrimSpace(run.Output())}

	if failure, ok := FirstFailure(run.Output()); ok && failure.Category == ErrorCategoryHashFormat {
		return crack.Outcome{Unsupported: true, Log: joinLogs(logs)}, nil
	}

	show, err := NewSession(ctx, e.binary, params.toShowArgs(), "").Run(ctx)
	logs = append(logs, strings.TrimSpace(show.Output()))

	if err != nil {
		return crack.Outcome{Log: joinLogs(logs)}, err
	}

	return interpret(run, show, joinLogs(logs)), nil
}

func interpret(run, show RunResult, log string) crack.Outcome {
	parsed := ParseShowOutput(show.Stdout)

	if len(parsed.Cracked) > 0 {
		return crack.Outcome{Found: true, Password: parsed.Cracked[0].Password, Log: log}
	}

	if failure, ok := FirstFailure(show.Output()); ok {
		if failure.Category == ErrorCategoryHashFormat {
			return crack.Outcome{Unsupported: true, Log: log}
		}

		return crack.Outcome{Reason: failure.Message, Log: log}
	}

	if len(parsed.Rejected) > 0 {
		return crack.Outcome{Reason: "unexpected john output: " + parsed.Rejected[0], Log: log}
	}

	if !IsNormalCompletion(run.ExitCode) {
		reason := fmt.Sprintf("john exited with status %d (%s)", run.ExitCode, ClassifyExitCode(run.ExitCode).Status)
		if failure, ok := FirstFailure(run.Output()); ok {
			reason = failure.Message
		}

		return crack.Outcome{Reason: reason, Log: log}
	}

	return crack.Outcome{Log: log}
}

func joinLogs(logs []string) string {
	out := make([]string, 0, len(logs))
	for _, l := range logs {
		if l != "" {
			out = append(out, l)
		}
	}

	return strings.Join(out, "\n")
}
