// Command stinger validates Stinger interface documents and generates code
// from them.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/roach88/stingeripc/internal/cli"
)

func main() {
	err := cli.NewRootCommand().Execute()
	if err == nil {
		return
	}
	// ExitErrors have already been reported by the command.
	var exitErr *cli.ExitError
	if !errors.As(err, &exitErr) {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	os.Exit(cli.GetExitCode(err))
}
