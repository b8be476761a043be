// Package native cracks credentials in-process, without an external john binary.
// It covers the crypt(3), htpasswd and mosquitto schemes that have pure Go implementations;
// descrypt and yescrypt are reported as unsupported.
package native

import (
	"bufio"
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"iter"
	"os"
	"strings"
	"time"

	"github.com/duke-git/lancet/v2/fileutil"
	"github.com/dustin/go-humanize"
	"github.com/unclesp1d3r/credscan/lib/crack"
	"github.com/unclesp1d3r/credscan/lib/scheme"
	"github.com/unclesp1d3r/credscan/scanstate"
)

// defaultMaxLength bounds the incremental pass independently of its time budget.
const defaultMaxLength = 6

//go:embed wordlist.txt
var builtinWordlist string

// ErrEmptyWordlist is returned when a configured wordlist has no usable entries.
var ErrEmptyWordlist = errors.New("wordlist has no entries")

// Engine is the in-process cracking engine. It implements crack.Engine.
type Engine struct {
	words     []string
	rules     bool
	maxLength int
}

// Option configures an Engine.
type Option func(*Engine) error

// WithWordlist loads the dictionary from path instead of the built-in list.
func WithWordlist(path string) Option {
	return func(e *Engine) error {
		lines, err := fileutil.ReadFileByLine(path)
		if err != nil {
			return fmt.Errorf("couldn't read wordlist %s: %w", path, err)
		}

		words := make([]string, 0, len(lines))
		for _, l := range lines {
			if l = strings.TrimRight(l, "\r"); l != "" {
				words = append(words, l)
			}
		}

		if len(words) == 0 {
			return fmt.Errorf("%w: %s", ErrEmptyWordlist, path)
		}

		e.words = words

		return nil
	}
}

// WithWords uses the given dictionary.
func WithWords(words ...string) Option {
	return func(e *Engine) error {
		e.words = words

		return nil
	}
}

// WithRules toggles the mangling rules of the dictionary pass.
func WithRules(enabled bool) Option {
	return func(e *Engine) error {
		e.rules = enabled

		return nil
	}
}

// WithMaxLength bounds the candidate length of the incremental pass.
func WithMaxLength(n int) Option {
	return func(e *Engine) error {
		if n > 0 {
			e.maxLength = n
		}

		return nil
	}
}

// NewEngine returns an Engine. Without WithWordlist or WithWords, scanstate.State.WordlistPath is used
// when set, and the built-in list otherwise.
func NewEngine(opts ...Option) (*Engine, error) {
	e := &Engine{
		rules:     true,
		maxLength: defaultMaxLength,
	}

	if scanstate.State.WordlistPath != "" {
		opts = append([]Option{WithWordlist(scanstate.State.WordlistPath)}, opts...)
	}

	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}

	if e.words == nil {
		e.words = splitWords(builtinWordlist)
	}

	return e, nil
}

// Name returns the engine name.
func (e *Engine) Name() string {
	return "native"
}

// Attempt runs one pass over the single credential in attempt.HashFile.
func (e *Engine) Attempt(ctx context.Context, attempt crack.Attempt) (crack.Outcome, error) {
	data, err := os.ReadFile(attempt.HashFile)
	if err != nil {
		return crack.Outcome{Reason: fmt.Sprintf("couldn't read credential file: %v", err)}, nil
	}

	user, hash := parseLine(data)

	s, directive := scheme.Classify([]byte(hash))
	if directive == nil || (attempt.Format != "" && !strings.EqualFold(attempt.Format, directive.Format)) {
		return crack.Outcome{Unsupported: true, Log: fmt.Sprintf("%s: no hashes loaded", user)}, nil
	}

	verify, err := newVerifier(s, hash)
	if errors.Is(err, errNoVerifier) {
		return crack.Outcome{Unsupported: true, Log: fmt.Sprintf("%s: %s is not supported natively", user, s)}, nil
	}

	if err != nil {
		return crack.Outcome{Reason: fmt.Sprintf("%s: %v", s, err)}, nil
	}

	var (
		source iter.Seq[string]
		limit  time.Time
	)

	switch attempt.Mode {
	case crack.ModeDictionary:
		source = candidates(e.words, e.rules)
	case crack.ModeIncremental:
		source = incremental(e.maxLength)
		if attempt.Budget > 0 {
			limit = time.Now().Add(attempt.Budget)
		}
	default:
		return crack.Outcome{Reason: fmt.Sprintf("unsupported attack mode %d", attempt.Mode)}, nil
	}

	start := time.Now()
	tried := 0

	for c := range source {
		if err := ctx.Err(); err != nil {
			return crack.Outcome{Log: e.summary(attempt.Mode, s, tried, start)}, err
		}

		if !limit.IsZero() && time.Now().After(limit) {
			break
		}

		tried++

		if verify([]byte(c)) {
			return crack.Outcome{
				Found:    true,
				Password: c,
				Log:      e.summary(attempt.Mode, s, tried, start) + fmt.Sprintf("\n%s (%s)", c, user),
			}, nil
		}
	}

	return crack.Outcome{Log: e.summary(attempt.Mode, s, tried, start)}, nil
}

func (e *Engine) summary(mode crack.Mode, s scheme.Scheme, tried int, start time.Time) string {
	return fmt.Sprintf("native %s pass (%s): %s candidates in %s",
		mode, s, humanize.Comma(int64(tried)), time.Since(start).Round(time.Millisecond))
}

// parseLine splits the first non-empty line of a credential file into user and hash.
func parseLine(data []byte) (string, string) {
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}

		if user, hash, ok := strings.Cut(line, ":"); ok {
			return user, hash
		}

		return "", line
	}

	return "", ""
}

func splitWords(s string) []string {
	var words []string

	for w := range strings.Lines(s) {
		w = strings.TrimRight(w, "\r\n")
		if w != "" {
			words = append(words, w)
		}
	}

	return words
}
