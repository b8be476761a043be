// Package testhelpers provides reusable test utilities for exercising credscan without a real john install.
package testhelpers

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// Fake john behaviours for a credential.
const (
	FakeWordlist    = "wordlist"    // FakeWordlist is recovered by the dictionary pass.
	FakeIncremental = "incremental" // FakeIncremental is recovered only by the incremental pass.
	FakeUnloadable  = "unloadable"  // FakeUnloadable makes john report "No password hashes loaded".
	FakeHang        = "hang"        // FakeHang makes the cracking run sleep until it is killed.
)

// FakeCredential tells the fake john how to treat one hash.
type FakeCredential struct {
	Hash     string
	Password string
	Mode     string
	Format   string // Format, when set, must be passed with --format= or the hash does not load.
}

// WriteFakeJohn writes a shell script into dir that imitates the parts of john credscan relies on:
// cracking runs append "hash:plaintext" to the --pot file, --show prints "user:plaintext" lines and the
// summary, and --list=build-info prints a version. Every invocation's arguments are appended to the
// returned path plus ".calls".
func WriteFakeJohn(t testing.TB, dir string, creds []FakeCredential) string {
	t.Helper()

	var cases strings.Builder
	for _, c := range creds {
		mode := c.Mode
		if mode == "" {
			mode = FakeWordlist
		}

		if c.Format != "" {
			fmt.Fprintf(&cases, "    %s) if [ \"$format\" = %s ]; then echo %s; else echo %s; fi ;;\n",
				shellQuote(c.Hash), shellQuote(c.Format), mode, FakeUnloadable)
		} else {
			fmt.Fprintf(&cases, "    %s) echo %s ;;\n", shellQuote(c.Hash), mode)
		}
	}

	var passwords strings.Builder
	for _, c := range creds {
		fmt.Fprintf(&passwords, "    %s) printf '%%s' %s ;;\n", shellQuote(c.Hash), shellQuote(c.Password))
	}

	script := fmt.Sprintf(fakeJohnTemplate, cases.String(), passwords.String())

	path := filepath.Join(dir, "john")
	if err := os.WriteFile(path, []byte(script), 0o700); err != nil { //nolint:gosec // Executable needs exec permission
		t.Fatalf("couldn't write fake john: %v", err)
	}

	return path
}

// FakeJohnCalls returns the argument lists the fake john at path was invoked with.
func FakeJohnCalls(t testing.TB, path string) []string {
	t.Helper()

	data, err := os.ReadFile(path + ".calls")
	if os.IsNotExist(err) {
		return nil
	}

	if err != nil {
		t.Fatalf("couldn't read fake john calls: %v", err)
	}

	return strings.Split(strings.TrimRight(string(data), "\n"), "\n")
}

func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

const fakeJohnTemplate = `#!/bin/sh
echo "$*" >> "$0.calls"

file=""
pot=""
format=""
show=0
mode=wordlist

for arg in "$@"; do
  case "$arg" in
    --list=build-info) echo "Version: 1.9.0-jumbo-1 (fake)"; exit 0 ;;
    --show) show=1 ;;
    --pot=*) pot="${arg#--pot=}" ;;
    --format=*) format="${arg#--format=}" ;;
    --incremental*) mode=incremental ;;
    --*) ;;
    *) file="$arg" ;;
  esac
done

mode_of() {
  case "$1" in
%s    *) echo none ;;
  esac
}

password_of() {
  case "$1" in
%s    *) ;;
  esac
}

if [ ! -f "$file" ]; then
  echo "fopen: $file: No such file or directory" >&2
  exit 1
fi

loaded=0
cracked=0
left=0

while IFS= read -r line || [ -n "$line" ]; do
  [ -z "$line" ] && continue
  user="${line%%%%:*}"
  hash="${line#*:}"
  m=$(mode_of "$hash")
  [ "$m" = unloadable ] && continue
  loaded=$((loaded + 1))

  if [ "$show" = 1 ]; then
    if [ -f "$pot" ] && grep -qF "$hash:" "$pot"; then
      echo "$user:$(password_of "$hash")"
      cracked=$((cracked + 1))
    else
      left=$((left + 1))
    fi
    continue
  fi

  if [ "$m" = hang ]; then
    exec sleep 30
  fi

  if [ "$m" = "$mode" ]; then
    echo "$hash:$(password_of "$hash")" >> "$pot"
    echo "$(password_of "$hash")         ($user)"
  fi
done < "$file"

if [ "$loaded" = 0 ]; then
  echo "No password hashes loaded (see FAQ)" >&2
  exit 0
fi

if [ "$show" = 1 ]; then
  echo ""
  if [ "$cracked" = 1 ]; then
    echo "1 password hash cracked, $left left"
  else
    echo "$cracked password hashes cracked, $left left"
  fi
fi

exit 0
`
