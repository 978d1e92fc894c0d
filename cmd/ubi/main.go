// Command ubi fetches and installs a release asset from GitHub or GitLab.
// Flag parsing, help text and exit-code mapping live here; the actual
// pipeline is the library at the module root.
package main

import (
	"os"

	"github.com/3leaps/ubi/internal/cli"
)

func init() {
	cli.Handler = cli.RunUbi
}

func main() {
	os.Exit(cli.Run(os.Args[1:], os.Stdout, os.Stderr))
}
