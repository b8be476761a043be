package scanstate

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestState_Modification(t *testing.T) {
	origData := State.DataPath
	origTimeout := State.CrackTimeout
	origWorkers := State.Workers

	t.Cleanup(func() {
		State.DataPath = origData
		State.CrackTimeout = origTimeout
		State.Workers = origWorkers
	})

	State.DataPath = "/tmp/credscan"
	State.CrackTimeout = 5 * time.Second
	State.Workers = 3

	assert.Equal(t, "/tmp/credscan", State.DataPath)
	assert.Equal(t, 5*time.Second, State.CrackTimeout)
	assert.Equal(t, 3, State.Workers)
}

func TestActivity_DefaultsToIdle(t *testing.T) {
	State.SetActivity("")
	assert.Equal(t, ActivityIdle, State.GetActivity())

	State.SetActivity(ActivityCracking)
	t.Cleanup(func() { State.SetActivity(ActivityIdle) })

	assert.Equal(t, ActivityCracking, State.GetActivity())
}

func TestCounters_ConcurrentAdds(t *testing.T) {
	State.ResetCounters()
	t.Cleanup(State.ResetCounters)

	var wg sync.WaitGroup
	for range 50 {
		wg.Go(func() {
			State.AddEntriesFound(2)
			State.AddEntriesCracked(1)
		})
	}
	wg.Wait()

	assert.Equal(t, int64(100), State.GetEntriesFound())
	assert.Equal(t, int64(50), State.GetEntriesCracked())
}

func TestLoggers_NotNil(t *testing.T) {
	assert.NotNil(t, Logger)
	assert.NotNil(t, ErrorLogger)
}
