package crack

import (
	"github.com/unclesp1d3r/credscan/lib/extract"
	"github.com/unclesp1d3r/credscan/lib/scheme"
)

// Result is one extracted credential together with its classification and cracking outcome.
type Result struct {
	Candidate extract.Candidate
	Scheme    scheme.Scheme
	Entry
}

// Label returns the display label of the result: the label of the grammar that matched,
// or the coarse label of the scheme when the candidate carries none.
func (r Result) Label() string {
	if r.Candidate.Label != "" {
		return r.Candidate.Label
	}

	return scheme.Label(r.Scheme)
}

// Key returns the deduplication key "user:label".
func (r Result) Key() string {
	return r.Candidate.User + ":" + r.Label()
}
