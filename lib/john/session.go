package john

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"

	"github.com/nxadm/tail"
	"github.com/unclesp1d3r/credscan/scanstate"
)

const waitDelay = 2 * time.Second

// RunResult is the captured output of one john invocation.
type RunResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Output returns stdout followed by stderr.
func (r RunResult) Output() string {
	switch {
	case r.Stderr == "":
		return r.Stdout
	case r.Stdout == "":
		return r.Stderr
	default:
		return r.Stdout + "\n" + r.Stderr
	}
}

// Session is a single john process.
type Session struct {
	proc    *exec.Cmd
	logFile string
	stdout  bytes.Buffer
	stderr  bytes.Buffer
}

// NewSession prepares a john process with the given arguments. The process is killed when ctx is done.
// logFile, when set and extra debugging is enabled, is tailed into the debug logger while john runs.
func NewSession(ctx context.Context, binaryPath string, args []string, logFile string) *Session {
	sess := &Session{
		proc:    exec.CommandContext(ctx, binaryPath, args...),
		logFile: logFile,
	}

	sess.proc.Stdout = &sess.stdout
	sess.proc.Stderr = &sess.stderr
	sess.proc.WaitDelay = waitDelay

	return sess
}

// Run starts john, waits for it to exit and returns its output.
// A non-zero exit is reported in RunResult.ExitCode, not as an error; errors mean john could not be run
// at all or the context ended first.
func (sess *Session) Run(ctx context.Context) (RunResult, error) {
	scanstate.Logger.Debug("Running john command", "command", sess.proc.String())

	if err := sess.proc.Start(); err != nil {
		return RunResult{ExitCode: ExitCodeSignal}, fmt.Errorf("couldn't start john: %w", err)
	}

	tailer := sess.startTailer()

	waitErr := sess.proc.Wait()

	sess.stopTailer(tailer)

	result := RunResult{
		Stdout:   sess.stdout.String(),
		Stderr:   sess.stderr.String(),
		ExitCode: exitCodeFromError(waitErr),
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return result, fmt.Errorf("john interrupted: %w", ctxErr)
	}

	var exitErr *exec.ExitError
	if waitErr != nil && !errors.As(waitErr, &exitErr) {
		return result, fmt.Errorf("couldn't wait for john: %w", waitErr)
	}

	return result, nil
}

// startTailer follows john's session log when extra debugging is enabled.
func (sess *Session) startTailer() *tail.Tail {
	if !scanstate.State.ExtraDebugging || sess.logFile == "" {
		return nil
	}

	tailer, err := tail.TailFile(sess.logFile, tail.Config{
		Follow:    true,
		ReOpen:    true,
		MustExist: false,
		Logger:    scanstate.Logger.StandardLog(),
	})
	if err != nil {
		scanstate.Logger.Error("couldn't tail john log", "path", sess.logFile, "error", err)

		return nil
	}

	go func() {
		for line := range tailer.Lines {
			if line.Err != nil {
				continue
			}

			scanstate.Logger.Debug("john", "log", line.Text)
		}
	}()

	return tailer
}

func (sess *Session) stopTailer(tailer *tail.Tail) {
	if tailer == nil {
		return
	}

	if err := tailer.Stop(); err != nil {
		scanstate.Logger.Debug("couldn't stop john log tailer", "error", err)
	}

	tailer.Cleanup()
}
