// Package extract scans raw, possibly binary, data for embedded credential file entries.
//
// Lines that match none of the known grammars are skipped without comment: firmware
// images are mostly noise and an unmatched line is the expected case, not lost data.
package extract

import (
	"bytes"
	"iter"
	"slices"
)

// Source describes where a candidate was found.
type Source int

const (
	// SourceUnixShadow is a passwd/shadow style line or an inline crypt(3) hash.
	SourceUnixShadow Source = iota
	// SourceHTPasswd is an Apache htpasswd entry.
	SourceHTPasswd
	// SourceMosquitto is a mosquitto password file entry.
	SourceMosquitto
	// SourceBinaryEmbedded is any entry found on a line that is not clean text.
	SourceBinaryEmbedded
)

// String returns the string representation of a Source.
func (s Source) String() string {
	switch s {
	case SourceUnixShadow:
		return "unix_shadow"
	case SourceHTPasswd:
		return "htpasswd"
	case SourceMosquitto:
		return "mosquitto"
	case SourceBinaryEmbedded:
		return "binary_embedded"
	default:
		return "unknown"
	}
}

// Candidate is one credential entry discovered in the input.
// User, RawHash and Line are copies; mutating them does not affect the scanned data or other candidates.
type Candidate struct {
	User    string
	RawHash []byte
	Line    []byte // Line is the matched credential text.
	Source  Source
	Label   string // Label is the display label of the grammar that matched.
	Index   int    // Index is the zero-based extraction order.
	Offset  int    // Offset is the byte offset of the entry within the scanned data.
}

// match is a candidate span on a single line, before overlap resolution.
type match struct {
	start, end         int
	userStart, userEnd int
	hashStart, hashEnd int
	g                  *grammar
}

// Extract returns a forward scan over data yielding each credential entry in order of appearance.
// The data is split on '\n' with a trailing '\r' removed; nothing is decoded, so NUL bytes and
// invalid UTF-8 are harmless. Each call to the returned sequence rescans from the beginning.
func Extract(data []byte) iter.Seq[Candidate] {
	return func(yield func(Candidate) bool) {
		index := 0

		for lineStart := 0; lineStart <= len(data); {
			lineEnd := bytes.IndexByte(data[lineStart:], '\n')
			next := 0

			if lineEnd < 0 {
				lineEnd = len(data)
				next = len(data) + 1
			} else {
				lineEnd += lineStart
				next = lineEnd + 1
			}

			line := bytes.TrimSuffix(data[lineStart:lineEnd], []byte{'\r'})
			for _, c := range scanLine(line) {
				c.Index = index
				c.Offset += lineStart
				index++

				if !yield(c) {
					return
				}
			}

			lineStart = next
		}
	}
}

// Collect drains Extract into a slice.
func Collect(data []byte) []Candidate {
	return slices.Collect(Extract(data))
}

func scanLine(line []byte) []Candidate {
	if bytes.IndexByte(line, ':') < 0 {
		return nil
	}

	var matches []match

	for i := range grammars {
		g := &grammars[i]
		for _, loc := range g.pattern.FindAllSubmatchIndex(line, -1) {
			m := match{
				start:     loc[2],
				end:       loc[1],
				userStart: loc[2],
				userEnd:   loc[3],
				hashStart: loc[4],
				hashEnd:   loc[5],
				g:         g,
			}

			if g.boundary != nil && m.end < len(line) && !g.boundary(line[m.end]) {
				continue
			}

			matches = append(matches, m)
		}
	}

	if len(matches) == 0 {
		return nil
	}

	accepted := resolveOverlaps(matches)
	binary := !isCleanText(line)
	out := make([]Candidate, 0, len(accepted))

	for _, m := range accepted {
		source := m.g.source
		if binary {
			source = SourceBinaryEmbedded
		}

		out = append(out, Candidate{
			User:    string(line[m.userStart:m.userEnd]),
			RawHash: bytes.Clone(line[m.hashStart:m.hashEnd]),
			Line:    bytes.Clone(line[m.start:m.end]),
			Source:  source,
			Label:   m.g.label,
			Offset:  m.start,
		})
	}

	return out
}

// resolveOverlaps keeps, in priority order, every match that does not overlap one already kept,
// and returns the survivors in order of appearance.
func resolveOverlaps(matches []match) []match {
	slices.SortStableFunc(matches, func(a, b match) int {
		if a.g.priority != b.g.priority {
			return a.g.priority - b.g.priority
		}

		return a.start - b.start
	})

	kept := make([]match, 0, len(matches))

	for _, m := range matches {
		overlaps := slices.ContainsFunc(kept, func(k match) bool {
			return m.start < k.end && k.start < m.end
		})
		if !overlaps {
			kept = append(kept, m)
		}
	}

	slices.SortFunc(kept, func(a, b match) int { return a.start - b.start })

	return kept
}

func isCleanText(line []byte) bool {
	for _, c := range line {
		if c == '\t' {
			continue
		}

		if c < ' ' || c > '~' {
			return false
		}
	}

	return true
}
