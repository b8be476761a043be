package john

import (
	"regexp"
	"strconv"
	"strings"
)

//nolint:gochecknoglobals // Compiled once
var summaryPattern = regexp.MustCompile(`(\d+) password hash(?:es)? cracked, (\d+) left`)

// ShowResult is the parsed output of john --show.
type ShowResult struct {
	Cracked  []Credential
	Count    int  // Count is the cracked count john reported in its summary line.
	Left     int  // Left is the remaining count john reported in its summary line.
	Summary  bool // Summary is set when the summary line was present.
	Rejected []string
}

// Credential is one recovered user:plaintext pair.
type Credential struct {
	User     string
	Password string
}

// ParseShowOutput parses john --show output: zero or more "user:plaintext" lines,
// a blank line and the summary "N password hash(es) cracked, M left".
// Lines that do not split into a non-empty user and a password are collected in Rejected.
func ParseShowOutput(output string) ShowResult {
	var result ShowResult

	for line := range strings.SplitSeq(output, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		if m := summaryPattern.FindStringSubmatch(line); m != nil {
			result.Count, _ = strconv.Atoi(m[1])
			result.Left, _ = strconv.Atoi(m[2])
			result.Summary = true

			continue
		}

		parts := strings.SplitN(line, ":", 2) //nolint:mnd // user and plaintext
		if len(parts) != 2 || parts[0] == "" {
			result.Rejected = append(result.Rejected, line)

			continue
		}

		result.Cracked = append(result.Cracked, Credential{User: parts[0], Password: parts[1]})
	}

	return result
}
