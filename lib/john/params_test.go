package john

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/unclesp1d3r/credscan/lib/crack"
)

func TestParams_Validate(t *testing.T) {
	wordlist := filepath.Join(t.TempDir(), "words.txt")
	require.NoError(t, os.WriteFile(wordlist, []byte("root\n"), 0o600))

	tests := []struct {
		name    string
		params  Params
		wantErr error
	}{
		{
			name:   "dictionary with default wordlist",
			params: Params{Mode: crack.ModeDictionary, HashFile: "h", PotFile: "p"},
		},
		{
			name:   "dictionary with wordlist",
			params: Params{Mode: crack.ModeDictionary, HashFile: "h", PotFile: "p", Wordlist: wordlist},
		},
		{
			name:    "missing wordlist",
			params:  Params{Mode: crack.ModeDictionary, HashFile: "h", PotFile: "p", Wordlist: "/nonexistent/words"},
			wantErr: ErrWordlistNotFound,
		},
		{
			name:    "missing hash file",
			params:  Params{Mode: crack.ModeDictionary, PotFile: "p"},
			wantErr: ErrMissingHashFile,
		},
		{
			name:    "missing pot file",
			params:  Params{Mode: crack.ModeDictionary, HashFile: "h"},
			wantErr: ErrMissingPotFile,
		},
		{
			name:    "format with shell characters",
			params:  Params{Mode: crack.ModeDictionary, HashFile: "h", PotFile: "p", Format: "raw; rm -rf /"},
			wantErr: ErrInvalidFormat,
		},
		{
			name:    "incremental without budget",
			params:  Params{Mode: crack.ModeIncremental, HashFile: "h", PotFile: "p"},
			wantErr: ErrInvalidRunTime,
		},
		{
			name:   "incremental",
			params: Params{Mode: crack.ModeIncremental, HashFile: "h", PotFile: "p", MaxRunTime: 30 * time.Second},
		},
		{
			name:    "unknown mode",
			params:  Params{Mode: crack.Mode(9), HashFile: "h", PotFile: "p"},
			wantErr: ErrUnsupportedMode,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.params.Validate()
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)

				return
			}

			require.NoError(t, err)
		})
	}
}

func TestParams_toCmdArgs(t *testing.T) {
	wordlist := filepath.Join(t.TempDir(), "words.txt")
	require.NoError(t, os.WriteFile(wordlist, []byte("root\n"), 0o600))

	tests := []struct {
		name   string
		params Params
		want   []string
	}{
		{
			name: "dictionary with rules and format",
			params: Params{
				Mode: crack.ModeDictionary, HashFile: "/w/hashes.txt", PotFile: "/w/john.pot",
				Session: "/w/session", Wordlist: wordlist, Rules: true, Format: "descrypt",
			},
			want: []string{
				"--wordlist=" + wordlist, "--rules", "--pot=/w/john.pot", "--session=/w/session",
				"--format=descrypt", "/w/hashes.txt",
			},
		},
		{
			name:   "dictionary with bundled wordlist",
			params: Params{Mode: crack.ModeDictionary, HashFile: "/w/hashes.txt", PotFile: "/w/john.pot"},
			want:   []string{"--wordlist", "--pot=/w/john.pot", "/w/hashes.txt"},
		},
		{
			name: "incremental rounds budget up",
			params: Params{
				Mode: crack.ModeIncremental, HashFile: "/w/hashes.txt", PotFile: "/w/john.pot",
				MaxRunTime: 1500 * time.Millisecond,
			},
			want: []string{"--incremental", "--max-run-time=2", "--pot=/w/john.pot", "/w/hashes.txt"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.params.toCmdArgs()
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParams_toCmdArgsInvalid(t *testing.T) {
	_, err := Params{Mode: crack.ModeDictionary}.toCmdArgs()
	require.ErrorIs(t, err, ErrMissingHashFile)
}

func TestParams_toShowArgs(t *testing.T) {
	p := Params{HashFile: "/w/hashes.txt", PotFile: "/w/john.pot", Format: "dynamic_82"}
	assert.Equal(t,
		[]string{"--show", "--pot=/w/john.pot", "--format=dynamic_82", "/w/hashes.txt"},
		p.toShowArgs())

	p.Format = ""
	assert.Equal(t, []string{"--show", "--pot=/w/john.pot", "/w/hashes.txt"}, p.toShowArgs())
}
