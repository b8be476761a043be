package display

import (
	"bytes"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/unclesp1d3r/credscan/scanstate"
)

func captureLogs(t *testing.T, level log.Level) *bytes.Buffer {
	t.Helper()

	saved := scanstate.Logger
	t.Cleanup(func() { scanstate.Logger = saved })

	var buf bytes.Buffer
	scanstate.Logger = log.NewWithOptions(&buf, log.Options{Level: level})

	return &buf
}

func TestScanStarting(t *testing.T) {
	buf := captureLogs(t, log.InfoLevel)

	ScanStarting("/fw/passwd", 2048)

	assert.Contains(t, buf.String(), "Scanning object")
	assert.Contains(t, buf.String(), "2.0 kB")
}

func TestScanComplete(t *testing.T) {
	buf := captureLogs(t, log.InfoLevel)

	ScanComplete("/fw/passwd", 4, 3, 1500*time.Millisecond)

	out := buf.String()
	assert.Contains(t, out, "findings=4")
	assert.Contains(t, out, "cracked=3")
	assert.Contains(t, out, "75.00%")
}

func TestCrackedPercent(t *testing.T) {
	tests := []struct {
		cracked, findings int
		want              string
	}{
		{0, 0, "0.00%"},
		{0, 4, "0.00%"},
		{1, 3, "33.33%"},
		{2, 3, "66.67%"},
		{4, 4, "100.00%"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, crackedPercent(tt.cracked, tt.findings), "%d/%d", tt.cracked, tt.findings)
	}
}

func TestEntryCracked_PlaintextOnlyAtDebug(t *testing.T) {
	buf := captureLogs(t, log.InfoLevel)
	EntryCracked("root:unix", "hunter2")
	assert.Contains(t, buf.String(), "root:unix")
	assert.NotContains(t, buf.String(), "hunter2")

	buf = captureLogs(t, log.DebugLevel)
	EntryCracked("root:unix", "hunter2")
	assert.Contains(t, buf.String(), "hunter2")
}

func TestEngineOutput_StripsControlCharacters(t *testing.T) {
	buf := captureLogs(t, log.DebugLevel)

	EngineOutput("Loaded 1 password hash\x1b[0m\x00")

	assert.Contains(t, buf.String(), "Loaded 1 password hash[0m")
	assert.NotContains(t, buf.String(), "\x1b")
}

func TestRunTotals(t *testing.T) {
	buf := captureLogs(t, log.InfoLevel)

	scanstate.State.ResetCounters()
	t.Cleanup(scanstate.State.ResetCounters)
	scanstate.State.AddEntriesFound(1200)
	scanstate.State.AddEntriesCracked(3)

	RunTotals(2, time.Now())

	assert.Contains(t, buf.String(), "1,200")
}
