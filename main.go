// Command credscan finds credential-store fragments in files and tries to crack them.
package main

import (
	"context"
	"os"

	"github.com/unclesp1d3r/credscan/cmd"
)

func main() {
	if err := cmd.Execute(context.Background()); err != nil {
		os.Exit(1)
	}
}
