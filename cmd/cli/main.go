package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/pratik-mahalle/horizon/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		// the cause has already been logged
		if !errors.Is(err, cli.ErrNotSignedIn) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}
