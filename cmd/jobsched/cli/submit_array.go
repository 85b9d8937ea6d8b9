package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var (
	arraySize     int
	arrayPriority string
)

var submitArrayCmd = &cobra.Command{
	Use:   "submit-array -- <template...>",
	Short: "Submit an array of jobs, substituting $ARRAY_ID in the template",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		priority, ok := parsePriorityFlag(arrayPriority)
		if !ok {
			return fmt.Errorf("jobsched: unrecognized --priority %q", arrayPriority)
		}

		s, err := newScheduler()
		if err != nil {
			return err
		}
		defer s.Stop(context.Background())

		template := strings.Join(args, " ")
		jobs, err := s.SubmitArray(template, arraySize, priority)
		if err != nil {
			return fmt.Errorf("jobsched: %w", err)
		}

		for _, j := range jobs {
			printJobResult(s, j.ID)
		}
		return nil
	},
}

func init() {
	submitArrayCmd.Flags().IntVar(&arraySize, "size", 1, "number of array tasks to submit")
	submitArrayCmd.Flags().StringVar(&arrayPriority, "priority", "MEDIUM", "LOW, MEDIUM, HIGH, or CRITICAL")
}
