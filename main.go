package main

import (
	"fmt"
	"os"

	"council/cmd"
	"council/config"
)

const version = "v0.1.0"

func main() {
	config.LoadDotEnv()

	if err := cmd.NewApp(version).Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}
