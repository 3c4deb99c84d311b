// Package main provides the entry point for the sieve CLI.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/roach88/sieve/internal/cli"
)

func main() {
	os.Exit(run())
}

func run() int {
	err := cli.NewRootCommand().ExecuteContext(context.Background())
	if err == nil {
		return cli.ExitSuccess
	}

	var exitErr *cli.ExitError
	if !errors.As(err, &exitErr) {
		// Cobra usage errors: bad flags, wrong argument count.
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return cli.ExitCommandError
	}
	if !exitErr.Reported {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
	}
	return exitErr.Code
}
