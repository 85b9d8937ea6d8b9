package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var submitScriptCmd = &cobra.Command{
	Use:   "submit-script <path>",
	Short: "Parse a job-script file and submit it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newScheduler()
		if err != nil {
			return err
		}
		defer s.Stop(context.Background())

		rec, err := s.SubmitScript(args[0])
		if err != nil {
			return fmt.Errorf("jobsched: %w", err)
		}

		printJobResult(s, rec.ID)
		return nil
	},
}
