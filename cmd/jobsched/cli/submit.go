package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ahmadhassan44/jobsched/internal/job"
)

var (
	submitPriority string
	submitDeps     []int
)

var submitCmd = &cobra.Command{
	Use:   "submit -- <command...>",
	Short: "Submit a shell command as a job and wait for it to finish",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		priority, ok := parsePriorityFlag(submitPriority)
		if !ok {
			return fmt.Errorf("jobsched: unrecognized --priority %q", submitPriority)
		}

		s, err := newScheduler()
		if err != nil {
			return err
		}
		defer s.Stop(context.Background())

		command := strings.Join(args, " ")

		var rec *job.Job
		if len(submitDeps) > 0 {
			rec, err = s.SubmitWithDeps(command, submitDeps, priority)
			if err != nil {
				return fmt.Errorf("jobsched: %w", err)
			}
		} else {
			rec = s.Submit(command, priority)
		}

		printJobResult(s, rec.ID)
		return nil
	},
}

func init() {
	submitCmd.Flags().StringVar(&submitPriority, "priority", "MEDIUM", "LOW, MEDIUM, HIGH, or CRITICAL")
	submitCmd.Flags().IntSliceVar(&submitDeps, "deps", nil, "job IDs this submission depends on")
}

// printJobResult polls jobID to a terminal state and prints its final
// record, matching the "issue one call, print the result" shape.
func printJobResult(s interface {
	GetJobs() []job.Job
}, jobID int) {
	deadline := time.Now().Add(30 * time.Second)
	for time.Now().Before(deadline) {
		for _, rec := range s.GetJobs() {
			if rec.ID == jobID && rec.Status.Terminal() {
				fmt.Printf("job %d: %s (exit %d)\n", rec.ID, rec.Status, rec.ExitCode)
				return
			}
		}
		time.Sleep(20 * time.Millisecond)
	}
	fmt.Printf("job %d: still running after timeout\n", jobID)
}
