// Package result builds the analysis result handed to the result sink.
package result

import (
	"encoding/json"
	"slices"
	"strings"

	"github.com/unclesp1d3r/credscan/lib/crack"
	"gopkg.in/yaml.v3"
)

// Reserved top-level keys of the serialized result.
const (
	SummaryKey = "summary"
	TagsKey    = "tags"
)

// TagColor is the color of every password tag.
const TagColor = "danger"

// Finding is the record stored under a "user:label" key.
type Finding struct {
	Type         string  `json:"type" yaml:"type"`
	PasswordHash string  `json:"password-hash" yaml:"password-hash"`
	Password     *string `json:"password,omitempty" yaml:"password,omitempty"`
	Entry        string  `json:"entry" yaml:"entry"`
	Cracked      bool    `json:"cracked" yaml:"cracked"`
	Error        string  `json:"ERROR,omitempty" yaml:"ERROR,omitempty"`
	Log          string  `json:"log,omitempty" yaml:"log,omitempty"`
}

// Tag marks a recovered password for display.
type Tag struct {
	Value     string `json:"value" yaml:"value"`
	Color     string `json:"color" yaml:"color"`
	Propagate bool   `json:"propagate" yaml:"propagate"`
}

// AnalysisResult is the outcome of analysing one object. It serializes as a single flat mapping of
// finding keys plus the reserved "summary" and "tags" keys.
type AnalysisResult struct {
	Findings map[string]Finding
	Summary  []string
	Tags     map[string]Tag
}

// New returns an empty, well-formed result.
func New() *AnalysisResult {
	return &AnalysisResult{
		Findings: map[string]Finding{},
		Summary:  []string{},
		Tags:     map[string]Tag{},
	}
}

// Aggregate builds the result for results, which may arrive in any order. Results are ordered by
// extraction index first; when two share a key the first one seen wins and later ones are dropped.
// Aggregate does not modify results.
func Aggregate(results []crack.Result) *AnalysisResult {
	ordered := slices.Clone(results)
	slices.SortStableFunc(ordered, func(a, b crack.Result) int {
		return a.Candidate.Index - b.Candidate.Index
	})

	out := New()

	for _, r := range ordered {
		key := r.Key()
		if _, dup := out.Findings[key]; dup {
			continue
		}

		out.Findings[key] = newFinding(r)
		out.Summary = append(out.Summary, key)

		if r.Cracked {
			out.Tags[TagKey(r.Candidate.User, r.Password)] = NewTag(r.Candidate.User, r.Password)
		}
	}

	return out
}

func newFinding(r crack.Result) Finding {
	f := Finding{
		Type:         r.Label(),
		PasswordHash: printable(r.Candidate.RawHash),
		Entry:        printable(r.Candidate.Line),
		Cracked:      r.Cracked,
		Log:          r.Log,
	}

	if r.Cracked {
		password := r.Password
		f.Password = &password
	} else {
		f.Error = r.Error
	}

	return f
}

// TagKey returns the key of the password tag for user.
func TagKey(user, password string) string {
	return user + "_" + password
}

// NewTag returns the password tag for user.
func NewTag(user, password string) Tag {
	return Tag{
		Value:     "Password: " + user + ":" + password,
		Color:     TagColor,
		Propagate: true,
	}
}

// Len returns the number of findings.
func (r *AnalysisResult) Len() int {
	return len(r.Summary)
}

// Cracked returns the number of findings with a recovered password.
func (r *AnalysisResult) Cracked() int {
	n := 0

	for _, f := range r.Findings {
		if f.Cracked {
			n++
		}
	}

	return n
}

// Map returns the flat mapping the result serializes as.
func (r *AnalysisResult) Map() map[string]any {
	m := make(map[string]any, len(r.Findings)+2) //nolint:mnd // summary and tags
	for k, f := range r.Findings {
		m[k] = f
	}

	summary := r.Summary
	if summary == nil {
		summary = []string{}
	}

	tags := r.Tags
	if tags == nil {
		tags = map[string]Tag{}
	}

	m[SummaryKey] = summary
	m[TagsKey] = tags

	return m
}

// MarshalJSON implements json.Marshaler.
func (r *AnalysisResult) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Map())
}

// UnmarshalJSON implements json.Unmarshaler.
func (r *AnalysisResult) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	out := New()

	for k, v := range raw {
		var err error

		switch k {
		case SummaryKey:
			err = json.Unmarshal(v, &out.Summary)
		case TagsKey:
			err = json.Unmarshal(v, &out.Tags)
		default:
			var f Finding
			err = json.Unmarshal(v, &f)
			out.Findings[k] = f
		}

		if err != nil {
			return err
		}
	}

	*r = *out

	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (r *AnalysisResult) MarshalYAML() (any, error) {
	return r.Map(), nil
}

// YAML renders the result as YAML with the same keys as its JSON form.
func (r *AnalysisResult) YAML() ([]byte, error) {
	return yaml.Marshal(r)
}

// printable renders bytes found in binary input so that they survive JSON and YAML.
func printable(b []byte) string {
	var sb strings.Builder

	for _, c := range b {
		if c >= 0x20 && c < 0x7f {
			sb.WriteByte(c)
		} else {
			sb.WriteString(`\x`)
			sb.WriteByte("0123456789abcdef"[c>>4])
			sb.WriteByte("0123456789abcdef"[c&0xf])
		}
	}

	return sb.String()
}
