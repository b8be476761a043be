package scheme

import (
	"bytes"
	"strings"
)

// Directive tells the cracking adapter how to present a hash to the engine.
type Directive struct {
	Format   string   // Format is john's --format selector.
	WrapUser bool     // WrapUser means the credential file line is "user:hash" rather than the bare hash.
	Encoding Encoding // Encoding rewrites the hash into a notation the engine can load.
}

// FormatArg returns the hash format as a command line argument.
func (d Directive) FormatArg() string {
	return "--format=" + d.Format
}

// Line synthesizes the one-line credential file handed to the cracking engine.
func (d Directive) Line(user string, rawHash []byte) ([]byte, error) {
	encoded, err := d.Encoding.Apply(rawHash)
	if err != nil {
		return nil, err
	}

	if !d.WrapUser {
		return encoded, nil
	}

	line := make([]byte, 0, len(user)+1+len(encoded))
	line = append(line, user...)
	line = append(line, ':')

	return append(line, encoded...), nil
}

type rule struct {
	prefix   string
	match    func(hash string) bool
	scheme   Scheme
	format   string
	encoding Encoding
}

// Rules are checked in order; the first whose prefix (and optional predicate) matches wins.
// Longer prefixes that share a leading token with shorter ones must come first.
//
//nolint:gochecknoglobals // Dispatch table
var prefixRules = []rule{
	{prefix: "$dynamic_82$", scheme: Dynamic82, format: "dynamic_82"},
	{prefix: "$pbkdf2-hmac-sha512$", scheme: PBKDF2SHA512, format: "PBKDF2-HMAC-SHA512"},
	{prefix: "$apr1$", scheme: APR1MD5, format: "md5crypt"},
	{prefix: "$1$", scheme: MD5Crypt, format: "md5crypt"},
	{prefix: "$2a$", scheme: Bcrypt, format: "bcrypt"},
	{prefix: "$2b$", scheme: Bcrypt, format: "bcrypt"},
	{prefix: "$2x$", scheme: Bcrypt, format: "bcrypt"},
	{prefix: "$2y$", scheme: Bcrypt, format: "bcrypt"},
	{prefix: "$5$", scheme: SHA256Crypt, format: "sha256crypt"},
	{
		prefix:   "$6$",
		match:    isMosquittoSHA512,
		scheme:   MosquittoSHA512,
		format:   "dynamic_82",
		encoding: EncodingMosquittoSHA512,
	},
	{prefix: "$6$", scheme: SHA512Crypt, format: "sha512crypt"},
	{prefix: "$7$", scheme: MosquittoPBKDF2, format: "PBKDF2-HMAC-SHA512", encoding: EncodingMosquittoPBKDF2},
	{prefix: "$y$", scheme: Yescrypt, format: "crypt"},
	{prefix: "{SSHA}", scheme: HTPasswdGeneric, format: "Salted-SHA1"},
	{prefix: "{SHA}", scheme: SHA1, format: "nsldap"},
}

// Classify maps a raw hash to its scheme and the directive needed to crack it.
// Explicit prefix tokens take precedence over the 13 character DES heuristic.
// Unknown is returned with a nil directive; it is a valid classification, not an error.
func Classify(rawHash []byte) (Scheme, *Directive) {
	hash := string(bytes.TrimSpace(rawHash))

	for _, r := range prefixRules {
		if !strings.HasPrefix(hash, r.prefix) {
			continue
		}

		if r.match != nil && !r.match(hash) {
			continue
		}

		return r.scheme, &Directive{Format: r.format, WrapUser: true, Encoding: r.encoding}
	}

	if isDESCrypt(hash) {
		return DESCrypt, &Directive{Format: "descrypt", WrapUser: true}
	}

	return Unknown, nil
}

// isMosquittoSHA512 tells a mosquitto 1.x "$6$" entry apart from a glibc sha512crypt hash:
// mosquitto stores standard base64 with padding, crypt(3) never emits '+' or '='.
func isMosquittoSHA512(hash string) bool {
	parts := strings.Split(hash, "$")
	if len(parts) != 4 { //nolint:mnd // "", "6", salt, digest
		return false
	}

	digest := parts[3]

	return strings.HasSuffix(digest, "=") || strings.ContainsAny(parts[2]+digest, "+")
}

func isDESCrypt(hash string) bool {
	if len(hash) != desCryptLength {
		return false
	}

	for i := range len(hash) {
		if !isCrypt64(hash[i]) {
			return false
		}
	}

	return true
}

const desCryptLength = 13

func isCrypt64(c byte) bool {
	return c == '.' || c == '/' ||
		(c >= '0' && c <= '9') ||
		(c >= 'A' && c <= 'Z') ||
		(c >= 'a' && c <= 'z')
}
