package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/unclesp1d3r/credscan/lib/arch"
	"github.com/unclesp1d3r/credscan/lib/cracker"
	"github.com/unclesp1d3r/credscan/lib/plugin"
)

var versionCmd = &cobra.Command{ //nolint:gochecknoglobals // Cobra command
	Use:   "version",
	Short: "Print credscan, plugin and john versions",
	RunE: func(cmd *cobra.Command, _ []string) error {
		setupState()

		johnVersion, err := cracker.GetCurrentJohnVersion(cmd.Context())
		if err != nil {
			johnVersion = "not found"
		}

		_, err = fmt.Fprintf(cmd.OutOrStdout(),
			"credscan %s (%s)\nplugin   %s %s\njohn     %s\n",
			Version, arch.GetPlatform(), plugin.Name, plugin.Version, johnVersion)

		return err
	},
}
