// Package john runs John the Ripper as an external cracking engine.
package john

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"time"

	"github.com/duke-git/lancet/v2/fileutil"
	"github.com/duke-git/lancet/v2/strutil"
	"github.com/unclesp1d3r/credscan/lib/crack"
)

var (
	// ErrMissingHashFile is returned when no credential file is given.
	ErrMissingHashFile = errors.New("hash file is required")
	// ErrMissingPotFile is returned when no private pot file is given.
	ErrMissingPotFile = errors.New("pot file is required")
	// ErrInvalidFormat is returned for a format selector john would not accept.
	ErrInvalidFormat = errors.New("invalid hash format")
	// ErrWordlistNotFound is returned when the configured wordlist does not exist.
	ErrWordlistNotFound = errors.New("wordlist not found")
	// ErrInvalidRunTime is returned when an incremental run has no usable time budget.
	ErrInvalidRunTime = errors.New("incremental mode requires a run time of at least one second")
	// ErrUnsupportedMode is returned for an attack mode john has no mapping for.
	ErrUnsupportedMode = errors.New("unsupported attack mode")
)

//nolint:gochecknoglobals // Compiled once
var formatPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// Params holds everything needed to build one john command line.
type Params struct {
	Mode       crack.Mode
	HashFile   string
	Format     string
	Wordlist   string // Wordlist empty means john's bundled password.lst.
	Rules      bool
	MaxRunTime time.Duration
	PotFile    string
	Session    string // Session is the session file prefix; john appends .rec and .log.
}

// Validate checks the parameters for the selected mode.
func (p Params) Validate() error {
	if strutil.IsBlank(p.HashFile) {
		return ErrMissingHashFile
	}

	if strutil.IsBlank(p.PotFile) {
		return ErrMissingPotFile
	}

	if p.Format != "" && !formatPattern.MatchString(p.Format) {
		return fmt.Errorf("%w: %q", ErrInvalidFormat, p.Format)
	}

	switch p.Mode {
	case crack.ModeDictionary:
		if p.Wordlist != "" && !fileutil.IsExist(p.Wordlist) {
			return fmt.Errorf("%w: %s", ErrWordlistNotFound, p.Wordlist)
		}
	case crack.ModeIncremental:
		if p.MaxRunTime < time.Second {
			return ErrInvalidRunTime
		}
	default:
		return fmt.Errorf("%w: %d", ErrUnsupportedMode, p.Mode)
	}

	return nil
}

// toCmdArgs returns the arguments of the cracking run.
func (p Params) toCmdArgs() ([]string, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	args := make([]string, 0, 7) //nolint:mnd // upper bound of the flags below

	switch p.Mode {
	case crack.ModeDictionary:
		if p.Wordlist != "" {
			args = append(args, "--wordlist="+p.Wordlist)
		} else {
			args = append(args, "--wordlist")
		}

		if p.Rules {
			args = append(args, "--rules")
		}
	case crack.ModeIncremental:
		seconds := int(math.Ceil(p.MaxRunTime.Seconds()))
		args = append(args, "--incremental", fmt.Sprintf("--max-run-time=%d", seconds))
	}

	args = append(args, "--pot="+p.PotFile)

	if p.Session != "" {
		args = append(args, "--session="+p.Session)
	}

	if p.Format != "" {
		args = append(args, "--format="+p.Format)
	}

	return append(args, p.HashFile), nil
}

// toShowArgs returns the arguments of the "show cracked" query against the same file and pot.
func (p Params) toShowArgs() []string {
	args := []string{"--show", "--pot=" + p.PotFile}

	if p.Format != "" {
		args = append(args, "--format="+p.Format)
	}

	return append(args, p.HashFile)
}
