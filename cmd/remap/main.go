// Command remap compiles and runs remap programs over event streams.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/remap/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(cli.GetExitCode(err))
	}
}
