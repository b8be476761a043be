package cmd

import (
	"fmt"
	"net/url"
	"path"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/unclesp1d3r/credscan/lib/cracker"
	"github.com/unclesp1d3r/credscan/lib/downloader"
	"github.com/unclesp1d3r/credscan/scanstate"
)

var wordlistCmd = &cobra.Command{ //nolint:gochecknoglobals // Cobra command
	Use:   "wordlist",
	Short: "Manage wordlists for the dictionary pass",
}

var wordlistFetchCmd = &cobra.Command{ //nolint:gochecknoglobals // Cobra command
	Use:   "fetch URL",
	Short: "Download a wordlist into the data directory",
	Long: "fetch downloads URL into <data_path>/wordlists and prints the local path. Compressed\n" +
		"wordlists are unpacked. Point wordlist_path (or --wordlist) at the printed path to use it.",
	Args: cobra.ExactArgs(1),
	RunE: runWordlistFetch,
}

func init() {
	wordlistFetchCmd.Flags().String("checksum", "", "Expected MD5 checksum of the file")
	wordlistFetchCmd.Flags().String("name", "", "Local file name (default is derived from the URL)")
	wordlistFetchCmd.Flags().Bool("no-progress", false, "Don't show the progress bar")
	wordlistCmd.AddCommand(wordlistFetchCmd)
}

func runWordlistFetch(cmd *cobra.Command, args []string) error {
	setupState()

	if err := cracker.CreateDataDirs(); err != nil {
		return err
	}

	checksum, _ := cmd.Flags().GetString("checksum")
	name, _ := cmd.Flags().GetString("name")
	noProgress, _ := cmd.Flags().GetBool("no-progress")

	if name == "" {
		name = wordlistName(args[0])
	}

	dst := filepath.Join(scanstate.State.DataPath, "wordlists", name)

	err := downloader.DownloadFile(cmd.Context(), args[0], dst, checksum, downloader.WithProgress(!noProgress))
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), dst)

	return err
}

// wordlistName derives a file name from the last path element of rawURL without its compression suffix.
func wordlistName(rawURL string) string {
	name := "wordlist.txt"
	if u, err := url.Parse(rawURL); err == nil {
		if base := path.Base(u.Path); base != "/" && base != "." {
			name = base
		}
	}

	for _, ext := range []string{".gz", ".bz2", ".xz", ".zip"} {
		if trimmed, ok := strings.CutSuffix(name, ext); ok && trimmed != "" {
			return trimmed
		}
	}

	return name
}
