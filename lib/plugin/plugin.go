// Package plugin is the credential analysis plugin: it extracts credential lines from an object,
// classifies and cracks them, and hands the aggregated result to a sink.
package plugin

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/unclesp1d3r/credscan/lib/crack"
	"github.com/unclesp1d3r/credscan/lib/display"
	"github.com/unclesp1d3r/credscan/lib/extract"
	"github.com/unclesp1d3r/credscan/lib/john"
	"github.com/unclesp1d3r/credscan/lib/native"
	"github.com/unclesp1d3r/credscan/lib/result"
	"github.com/unclesp1d3r/credscan/lib/scheme"
	"github.com/unclesp1d3r/credscan/scanstate"
	"golang.org/x/sync/errgroup"
)

// Plugin identity.
const (
	Name        = "users_and_passwords"
	Version     = "0.5.0"
	Description = "search for UNIX, httpd, and mosquitto password files, parse them and try to crack the passwords"
)

// Engine names accepted by New.
const (
	EngineJohn   = "john"
	EngineNative = "native"
)

// ReasonUnknownScheme is recorded on entries whose hash matches no known scheme.
const ReasonUnknownScheme = "hash type is not known"

// MIMEBlacklist lists the major MIME types that are never analysed.
var MIMEBlacklist = []string{"audio", "filesystem", "image", "video"} //nolint:gochecknoglobals // Plugin metadata

var (
	// ErrReadObject is returned when the object's bytes cannot be read.
	ErrReadObject = errors.New("couldn't read object")
	// ErrUnknownEngine is returned for an engine name other than "john" or "native".
	ErrUnknownEngine = errors.New("unknown cracking engine")
)

// Plugin analyses objects for credentials.
type Plugin struct {
	adapter *crack.Adapter
	sink    ResultSink
	workers int
}

// Option configures a Plugin.
type Option func(*Plugin)

// WithAdapter uses adapter instead of one built from scanstate.State.
func WithAdapter(adapter *crack.Adapter) Option {
	return func(p *Plugin) { p.adapter = adapter }
}

// WithSink sets the sink results are stored in. Without one, results are only returned.
func WithSink(sink ResultSink) Option {
	return func(p *Plugin) { p.sink = sink }
}

// WithWorkers bounds the number of entries cracked concurrently.
func WithWorkers(n int) Option {
	return func(p *Plugin) {
		if n > 0 {
			p.workers = n
		}
	}
}

// New returns a Plugin. Unless WithAdapter is given, the engine named by scanstate.State.Engine is
// created and driven with the configured temp directory, timeout and incremental budget; an engine that
// cannot be created (for example a missing john binary) is returned as an error.
func New(opts ...Option) (*Plugin, error) {
	p := &Plugin{workers: scanstate.State.Workers}
	if p.workers <= 0 {
		p.workers = runtime.NumCPU()
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.adapter == nil {
		engine, err := NewEngine(scanstate.State.Engine)
		if err != nil {
			return nil, err
		}

		p.adapter = crack.NewAdapter(engine,
			crack.WithTempDir(scanstate.State.TempPath),
			crack.WithTimeout(scanstate.State.CrackTimeout),
			crack.WithIncrementalBudget(scanstate.State.IncrementalBudget),
		)
	}

	return p, nil
}

// NewEngine creates the cracking engine called name. An empty name selects john.
func NewEngine(name string) (crack.Engine, error) {
	switch name {
	case EngineJohn, "":
		engine, err := john.NewEngine()
		if err != nil {
			return nil, err
		}

		return engine, nil
	case EngineNative:
		engine, err := native.NewEngine()
		if err != nil {
			return nil, err
		}

		return engine, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEngine, name)
	}
}

// Engine returns the engine the plugin cracks with.
func (p *Plugin) Engine() crack.Engine {
	return p.adapter.Engine()
}

// ProcessObject analyses obj and stores the result in the sink.
// Objects with a blacklisted MIME type yield an empty result that is not stored.
// If ctx is cancelled while cracking, the result for the entries completed so far is returned together
// with the context's error, and nothing is stored.
func (p *Plugin) ProcessObject(ctx context.Context, obj FileObject) (*result.AnalysisResult, error) {
	start := time.Now()
	defer scanstate.State.SetActivity(scanstate.ActivityIdle)

	scanstate.State.SetActivity(scanstate.ActivityExtracting)

	data, err := obj.RawBytes(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrReadObject, obj.ID(), err)
	}

	if mimeType := sniffMIME(data); blacklisted(mimeType) {
		display.ObjectSkipped(obj.ID(), mimeType)

		return result.New(), nil
	}

	display.ScanStarting(obj.ID(), len(data))

	candidates := extract.Collect(data)
	scanstate.State.AddEntriesFound(int64(len(candidates)))
	display.CandidatesFound(obj.ID(), len(candidates))

	scanstate.State.SetActivity(scanstate.ActivityCracking)

	completed, crackErr := p.crackAll(ctx, candidates)

	res := result.Aggregate(completed)

	if crackErr != nil {
		if ctx.Err() != nil {
			return res, crackErr
		}

		return nil, crackErr
	}

	if p.sink != nil {
		scanstate.State.SetActivity(scanstate.ActivityStoring)

		if err := p.sink.StoreResult(ctx, obj.ID(), Name, res); err != nil {
			return res, fmt.Errorf("couldn't store result for %s: %w", obj.ID(), err)
		}

		display.ResultStored(obj.ID(), Name)
	}

	display.ScanComplete(obj.ID(), res.Len(), res.Cracked(), time.Since(start))

	return res, nil
}

// crackAll classifies and cracks every candidate with at most p.workers in flight.
// It returns the results of the entries that completed, in no particular order.
func (p *Plugin) crackAll(ctx context.Context, candidates []extract.Candidate) ([]crack.Result, error) {
	results := make([]crack.Result, len(candidates))
	done := make([]bool, len(candidates))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)

	for i, c := range candidates {
		results[i].Candidate = c

		s, directive := scheme.Classify(c.RawHash)
		results[i].Scheme = s

		if directive == nil {
			results[i].Error = ReasonUnknownScheme
			done[i] = true

			continue
		}

		line, err := directive.Line(c.User, c.RawHash)
		if err != nil {
			results[i].Error = err.Error()
			done[i] = true

			continue
		}

		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			r := &results[i]

			ok, err := p.adapter.Crack(gctx, line, &r.Entry, directive.FormatArg())
			if err != nil {
				return fmt.Errorf("cracking %s: %w", r.Key(), err)
			}

			if ok {
				scanstate.State.AddEntriesCracked(1)
				display.EntryCracked(r.Key(), r.Password)
			} else {
				display.EntryFailed(r.Key(), r.Error)
			}

			done[i] = true

			return nil
		})
	}

	err := g.Wait()

	completed := make([]crack.Result, 0, len(results))
	for i, r := range results {
		if done[i] {
			completed = append(completed, r)
		}
	}

	if err != nil && ctx.Err() != nil {
		return completed, ctx.Err()
	}

	return completed, err
}
