package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// Each of kill/suspend/resume/reprioritize builds its own in-process
// Scheduler, like every other subcommand. Run against a job submitted
// by an earlier, separate invocation they print false (for example
// "kill job 3: false") — there is no persistence layer across
// processes, so the fresh Scheduler knows no jobs. The operations are
// most useful exercised directly against the Scheduler type from Go
// code.

var killCmd = &cobra.Command{
	Use:   "kill <job-id>",
	Short: "Send SIGTERM to a RUNNING job",
	Args:  cobra.ExactArgs(1),
	RunE:  runLifecycleAction("kill", func(s schedulerLike, id int) bool { return s.Kill(id) }),
}

var suspendCmd = &cobra.Command{
	Use:   "suspend <job-id>",
	Short: "Send SIGSTOP to a RUNNING job",
	Args:  cobra.ExactArgs(1),
	RunE:  runLifecycleAction("suspend", func(s schedulerLike, id int) bool { return s.Suspend(id) }),
}

var resumeCmd = &cobra.Command{
	Use:   "resume <job-id>",
	Short: "Send SIGCONT to a SUSPENDED job",
	Args:  cobra.ExactArgs(1),
	RunE:  runLifecycleAction("resume", func(s schedulerLike, id int) bool { return s.Resume(id) }),
}

var reprioritizePriority string

var reprioritizeCmd = &cobra.Command{
	Use:   "reprioritize <job-id>",
	Short: "Change the priority of a PENDING job",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		priority, ok := parsePriorityFlag(reprioritizePriority)
		if !ok {
			return fmt.Errorf("jobsched: unrecognized --priority %q", reprioritizePriority)
		}
		id, err := parseJobID(args[0])
		if err != nil {
			return err
		}

		s, err := newScheduler()
		if err != nil {
			return err
		}
		defer s.Stop(context.Background())

		ok = s.ChangePriority(id, priority)
		fmt.Printf("reprioritize job %d: %v\n", id, ok)
		return nil
	},
}

func init() {
	reprioritizeCmd.Flags().StringVar(&reprioritizePriority, "priority", "MEDIUM", "LOW, MEDIUM, HIGH, or CRITICAL")
}

type schedulerLike interface {
	Kill(id int) bool
	Suspend(id int) bool
	Resume(id int) bool
}

func runLifecycleAction(verb string, action func(schedulerLike, int) bool) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		id, err := parseJobID(args[0])
		if err != nil {
			return err
		}

		s, err := newScheduler()
		if err != nil {
			return err
		}
		defer s.Stop(context.Background())

		ok := action(s, id)
		fmt.Printf("%s job %d: %v\n", verb, id, ok)
		return nil
	}
}
