// Package crack drives a cracking engine through the two-pass recovery of a single credential.
package crack

import (
	"context"
	"time"
)

// Mode is the attack mode of a single engine invocation.
type Mode int

const (
	// ModeDictionary runs the wordlist with the engine's default mangling rules.
	ModeDictionary Mode = iota
	// ModeIncremental runs the engine's brute-force generator for a bounded time.
	ModeIncremental
)

// String returns the string representation of a Mode.
func (m Mode) String() string {
	switch m {
	case ModeDictionary:
		return "dictionary"
	case ModeIncremental:
		return "incremental"
	default:
		return "unknown"
	}
}

// Attempt describes one engine invocation against a credential file.
type Attempt struct {
	HashFile string        // HashFile holds exactly one credential line.
	WorkDir  string        // WorkDir is private to this attempt; engines keep pot and session files here.
	Format   string        // Format is the engine's dialect selector; empty means auto-detect.
	Mode     Mode          // Mode selects the attack.
	Budget   time.Duration // Budget bounds ModeIncremental.
}

// Outcome is what an engine reports back for one Attempt.
// Found and Unsupported are mutually exclusive; Reason explains a failure that is not fatal.
type Outcome struct {
	Found       bool
	Password    string
	Unsupported bool
	Reason      string
	Log         string
}

// Engine is a capability that can recover a plaintext for a credential file.
// Returned errors are fatal to the whole run (missing binary, unusable environment);
// anything that only concerns the hash at hand belongs in the Outcome.
type Engine interface {
	Name() string
	Attempt(ctx context.Context, attempt Attempt) (Outcome, error)
}
