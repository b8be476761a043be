// Package progress provides progress bars for downloads and scans.
package progress

// Progress tracking for downloads, after go-getter's cmd/go-getter/progress_tracking.go.

import (
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/cheggaaa/pb/v3"
	getter "github.com/hashicorp/go-getter"
)

const scanBarTemplate = `{{string . "prefix"}}{{counters . }} {{bar . }} {{percent . }} {{etime . }}`

// DefaultProgressBar is the shared download progress tracker.
var DefaultProgressBar getter.ProgressTracker = &progressBar{} //nolint:gochecknoglobals // Shared pool

// progressBar shows every concurrent download in one pb.Pool.
type progressBar struct {
	lock sync.Mutex
	pool *pb.Pool
	pbs  int
}

// TrackProgress instantiates a new progress bar that will display the progress of stream until closed.
// totalSize can be 0.
func (cpb *progressBar) TrackProgress(src string, currentSize, totalSize int64, stream io.ReadCloser) io.ReadCloser {
	cpb.lock.Lock()
	defer cpb.lock.Unlock()

	bar := pb.New64(totalSize)
	bar.SetCurrent(currentSize)
	bar.Set(pb.Bytes, true)
	bar.Set("prefix", filepath.Base(src)+" ")

	if cpb.pool == nil {
		// Without a terminal the pool cannot start; the download still proceeds, undrawn.
		if pool := pb.NewPool(); pool.Start() == nil {
			cpb.pool = pool
		}
	}

	if cpb.pool != nil {
		cpb.pool.Add(bar)
	}
	reader := bar.NewProxyReader(stream)

	cpb.pbs++

	return &readCloser{
		Reader: reader,
		close: func() error {
			cpb.lock.Lock()
			defer cpb.lock.Unlock()

			bar.Finish()

			cpb.pbs--
			if cpb.pbs <= 0 && cpb.pool != nil {
				_ = cpb.pool.Stop() //nolint:errcheck // Display only
				cpb.pool = nil
			}

			return stream.Close()
		},
	}
}

type readCloser struct {
	io.Reader
	close func() error
}

func (c *readCloser) Close() error { return c.close() }

// NewScanBar returns a started bar counting scanned objects on stderr.
// Call Finish on it when the scan ends.
func NewScanBar(total int) *pb.ProgressBar {
	bar := pb.New(total)
	bar.SetTemplateString(scanBarTemplate)
	bar.SetWriter(os.Stderr)
	bar.Set("prefix", "scanning ")

	return bar.Start()
}
