// Command shards-compliance is the standalone entrypoint for the supply
// chain compliance subsystem: vulnerability auditing, license and
// dependency policy checks, lockfile diffing, and compliance reporting.
package main

import (
	"os"

	"github.com/shards-pm/shards/internal/cli"
)

func main() {
	os.Exit(cli.Run(os.Args[1:]))
}
