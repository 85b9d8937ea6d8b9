// Command jobsched is a thin, single-shot front-end over the scheduler
// engine. Each subcommand builds one Scheduler, issues one control
// call (blocking for submissions to reach a terminal state), prints
// the result, and exits. There is no readline loop, command history,
// or ANSI rendering here; the engine does the interesting work.
package main

import (
	"fmt"
	"os"

	"github.com/ahmadhassan44/jobsched/cmd/jobsched/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
