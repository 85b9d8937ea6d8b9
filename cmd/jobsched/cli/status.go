package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print system-wide scheduler statistics",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newScheduler()
		if err != nil {
			return err
		}
		defer s.Stop(context.Background())

		snap := s.GetSystemStats()
		fmt.Printf("submitted=%d completed=%d failed=%d killed=%d\n",
			snap.TotalJobsSubmitted, snap.TotalJobsCompleted, snap.TotalJobsFailed, snap.TotalJobsKilled)
		fmt.Printf("avg_turnaround_ms=%.1f avg_wait_ms=%.1f throughput_per_min=%.2f current_memory_mb=%d\n",
			snap.AverageTurnaroundTimeMS, snap.AverageWaitTimeMS, snap.SystemThroughput, snap.CurrentMemoryUsageMB)

		for coreID, util := range s.GetCoreUtilization() {
			fmt.Printf("core %d: %.1f%%\n", coreID, util)
		}
		return nil
	},
}
