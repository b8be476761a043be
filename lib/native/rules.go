package native

import (
	"iter"
	"strings"
	"unicode"
	"unicode/utf8"
)

// rule derives one candidate from a wordlist entry; ok is false when the rule does not apply.
type rule func(word string) (candidate string, ok bool)

// defaultRules is a small subset of john's wordlist mangling rules, cheapest first.
//
//nolint:gochecknoglobals // Rule table
var defaultRules = []rule{
	func(w string) (string, bool) { return w, true },
	capitalize,
	func(w string) (string, bool) { return changed(w, strings.ToUpper(w)) },
	func(w string) (string, bool) { return w + "1", true },
	func(w string) (string, bool) { return w + "123", true },
	func(w string) (string, bool) { return w + "!", true },
	func(w string) (string, bool) {
		c, _ := capitalize(w)
		return c + "1", true
	},
	func(w string) (string, bool) {
		r := []rune(w)
		for i, j := 0, len(r)-1; i < j; i, j = i+1, j-1 {
			r[i], r[j] = r[j], r[i]
		}

		return changed(w, string(r))
	},
}

func capitalize(w string) (string, bool) {
	first, size := utf8.DecodeRuneInString(w)
	if first == utf8.RuneError {
		return w, false
	}

	return changed(w, string(unicode.ToUpper(first))+strings.ToLower(w[size:]))
}

func changed(orig, derived string) (string, bool) {
	return derived, derived != orig
}

// candidates yields every word, then, when rules is set, every derived candidate. Duplicates
// produced by different rules are skipped.
func candidates(words []string, rules bool) iter.Seq[string] {
	return func(yield func(string) bool) {
		seen := make(map[string]struct{}, len(words))
		emit := func(c string) bool {
			if _, dup := seen[c]; dup {
				return true
			}

			seen[c] = struct{}{}

			return yield(c)
		}

		for _, w := range words {
			if !emit(w) {
				return
			}
		}

		if !rules {
			return
		}

		for _, r := range defaultRules[1:] {
			for _, w := range words {
				if c, ok := r(w); ok && !emit(c) {
					return
				}
			}
		}
	}
}

const incrementalCharset = "0123456789abcdefghijklmnopqrstuvwxyz"

// incremental yields every string over incrementalCharset up to maxLen characters, shortest first.
func incremental(maxLen int) iter.Seq[string] {
	return func(yield func(string) bool) {
		for length := 1; length <= maxLen; length++ {
			idx := make([]int, length)
			buf := make([]byte, length)

			for {
				for i, n := range idx {
					buf[i] = incrementalCharset[n]
				}

				if !yield(string(buf)) {
					return
				}

				pos := length - 1
				for pos >= 0 {
					idx[pos]++
					if idx[pos] < len(incrementalCharset) {
						break
					}

					idx[pos] = 0
					pos--
				}

				if pos < 0 {
					break
				}
			}
		}
	}
}
