package extract

import (
	"regexp"

	"github.com/unclesp1d3r/credscan/lib/scheme"
)

// grammar describes one credential file dialect. Lower priority values win when matches overlap.
type grammar struct {
	name     string
	label    string
	source   Source
	priority int
	pattern  *regexp.Regexp
	// boundary reports whether a byte may follow the hash without the match being a fragment of a longer token.
	// Nil means the pattern delimits itself.
	boundary func(c byte) bool
}

// Each pattern has exactly two capture groups: the user and the hash.
// Text fields use [ -9;-~] (printable ASCII without ':') so invalid UTF-8 never matches.
// User names are not anchored on the left: a name glued to a longer identifier run yields
// the last 16 bytes of the run.
const (
	userField = `([A-Za-z][A-Za-z0-9_-]{2,15})`
	textField = `[ -9;-~]*`
	// passwordField is any colon-free password column of passwd/shadow.
	passwordField = `[!*./0-9A-Za-z$=+]*`
	// extraFields takes the remaining columns of a 9 field shadow line.
	extraFields = `(?::[ -9;-~]*)*`
)

//nolint:gochecknoglobals // Compiled once
var grammars = []grammar{
	{
		name:     "unix_shadow",
		label:    scheme.LabelUnix,
		source:   SourceUnixShadow,
		priority: 0,
		pattern: regexp.MustCompile(userField + `:([./0-9A-Za-z$=]{13,}):[0-9]*:[0-9]*:` +
			textField + `:` + textField + `:` + textField + extraFields),
	},
	{
		// Accounts whose password field is a placeholder ("x", "*", "!!", empty) or a locked
		// hash ("!$6$..."). The third field must be a number so runs of colons in binary noise
		// don't qualify.
		name:     "unix_account",
		label:    scheme.LabelUnix,
		source:   SourceUnixShadow,
		priority: 0,
		pattern: regexp.MustCompile(userField + `:(` + passwordField + `):[0-9]+:[0-9]*:` +
			textField + `:` + textField + `:` + textField + extraFields),
	},
	{
		name:     "unix_inline",
		label:    scheme.LabelUnix,
		source:   SourceUnixShadow,
		priority: 1,
		pattern: regexp.MustCompile(userField +
			`:(\$(?:1|2[abx]|5|6|y)\$(?:rounds=[0-9]+\$)?[./0-9A-Za-z]{1,16}\$[./0-9A-Za-z$]{8,})`),
		boundary: notIn(`./0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz$=+`),
	},
	{
		name:     "htpasswd",
		label:    scheme.LabelHTPasswd,
		source:   SourceHTPasswd,
		priority: 2,
		pattern: regexp.MustCompile(userField + `:(` +
			`\$apr1\$[./0-9A-Za-z]{1,8}\$[./0-9A-Za-z]{22}` +
			`|\{SHA\}[A-Za-z0-9+/]{27}=` +
			`|\{SSHA\}[A-Za-z0-9+/]{26,}={0,2}` +
			`|\$2y\$[0-9]{2}\$[./0-9A-Za-z]{53}` +
			`)`),
		boundary: notIn(`./0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz$=+:{}`),
	},
	{
		// A bare 13 character string is too weak a signal inside binary noise, so DES htpasswd
		// entries only count when they make up the whole line.
		name:     "htpasswd_des",
		label:    scheme.LabelHTPasswd,
		source:   SourceHTPasswd,
		priority: 2,
		pattern:  regexp.MustCompile(`^` + userField + `:([./0-9A-Za-z]{13})[ \t]*$`),
	},
	{
		name:     "mosquitto",
		label:    scheme.LabelMosquitto,
		source:   SourceMosquitto,
		priority: 3,
		pattern: regexp.MustCompile(userField + `:(` +
			`\$6\$[A-Za-z0-9+/]{4,}={0,2}\$[A-Za-z0-9+/]{86}==` +
			`|\$7\$[0-9]+\$[A-Za-z0-9+/]{4,}={0,2}\$[A-Za-z0-9+/]{86}==` +
			`)`),
		boundary: notIn(`ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+/=$:`),
	},
}

func notIn(set string) func(c byte) bool {
	var table [256]bool
	for i := range len(set) {
		table[set[i]] = true
	}

	return func(c byte) bool {
		return !table[c]
	}
}
