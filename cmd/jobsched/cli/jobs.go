package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var jobsCmd = &cobra.Command{
	Use:   "jobs",
	Short: "List every known job and its current status",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newScheduler()
		if err != nil {
			return err
		}
		defer s.Stop(context.Background())

		for _, rec := range s.GetJobs() {
			fmt.Printf("%d\t%s\t%s\t%s\n", rec.ID, rec.Status, rec.Priority, rec.Command)
		}
		return nil
	},
}
