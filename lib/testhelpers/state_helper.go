package testhelpers

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/unclesp1d3r/credscan/scanstate"
)

// SetupTestState points scanstate.State at directories under t.TempDir() and restores the previous
// values when the test ends.
func SetupTestState(t testing.TB) {
	t.Helper()

	saved := struct {
		pidFile, dataPath, crackersPath, tempPath, wordlist, johnPath, resultDB, engine, output string
		crackTimeout, budget                                                                    time.Duration
		workers                                                                                 int
		debug, extra                                                                            bool
	}{
		scanstate.State.PidFile, scanstate.State.DataPath, scanstate.State.CrackersPath,
		scanstate.State.TempPath, scanstate.State.WordlistPath, scanstate.State.JohnPath,
		scanstate.State.ResultDBPath, scanstate.State.Engine, scanstate.State.OutputFormat,
		scanstate.State.CrackTimeout, scanstate.State.IncrementalBudget,
		scanstate.State.Workers,
		scanstate.State.Debug, scanstate.State.ExtraDebugging,
	}

	root := t.TempDir()
	scanstate.State.DataPath = filepath.Join(root, "data")
	scanstate.State.PidFile = filepath.Join(root, "data", "lock.pid")
	scanstate.State.CrackersPath = filepath.Join(root, "data", "crackers")
	scanstate.State.TempPath = filepath.Join(root, "data", "tmp")
	scanstate.State.ResultDBPath = filepath.Join(root, "data", "results.db")
	scanstate.State.WordlistPath = ""
	scanstate.State.JohnPath = ""
	scanstate.State.Engine = "native"
	scanstate.State.OutputFormat = "json"
	scanstate.State.CrackTimeout = 10 * time.Second
	scanstate.State.IncrementalBudget = time.Second
	scanstate.State.Workers = 2
	scanstate.State.Debug = false
	scanstate.State.ExtraDebugging = false
	scanstate.State.ResetCounters()

	t.Cleanup(func() {
		scanstate.State.PidFile = saved.pidFile
		scanstate.State.DataPath = saved.dataPath
		scanstate.State.CrackersPath = saved.crackersPath
		scanstate.State.TempPath = saved.tempPath
		scanstate.State.WordlistPath = saved.wordlist
		scanstate.State.JohnPath = saved.johnPath
		scanstate.State.ResultDBPath = saved.resultDB
		scanstate.State.Engine = saved.engine
		scanstate.State.OutputFormat = saved.output
		scanstate.State.CrackTimeout = saved.crackTimeout
		scanstate.State.IncrementalBudget = saved.budget
		scanstate.State.Workers = saved.workers
		scanstate.State.Debug = saved.debug
		scanstate.State.ExtraDebugging = saved.extra
		scanstate.State.ResetCounters()
	})
}
