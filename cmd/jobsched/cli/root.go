// Package cli wires the cobra command tree for the jobsched front-end.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ahmadhassan44/jobsched/internal/eventlog"
	"github.com/ahmadhassan44/jobsched/internal/scheduler"
	"github.com/ahmadhassan44/jobsched/pkg/config"
)

var (
	cfgFile string
	cfg     config.Config
)

var rootCmd = &cobra.Command{
	Use:   "jobsched",
	Short: "A single-host job-scheduling engine",
	Long: "jobsched places commands into a priority-ordered queue, dispatches them\n" +
		"to a bounded pool of worker threads, accounting each running job to a\n" +
		"logical CPU core (threads are not pinned), and\n" +
		"records every lifecycle transition to a CSV audit log.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(cfgFile, cmd.Flags())
		if err != nil {
			return err
		}
		cfg = loaded
		return nil
	},
}

// Execute runs the command tree; the sole entry point main calls.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "path to jobsched.yaml")
	rootCmd.PersistentFlags().Int("num_cores", 0, "override num_cores from config")
	rootCmd.PersistentFlags().Int("max_concurrent_jobs", 0, "override max_concurrent_jobs from config")
	rootCmd.PersistentFlags().String("log_path", "", "override log_path from config")
	rootCmd.PersistentFlags().String("scheduling_policy", "", "override scheduling_policy from config")

	rootCmd.AddCommand(submitCmd)
	rootCmd.AddCommand(submitScriptCmd)
	rootCmd.AddCommand(submitArrayCmd)
	rootCmd.AddCommand(killCmd)
	rootCmd.AddCommand(suspendCmd)
	rootCmd.AddCommand(resumeCmd)
	rootCmd.AddCommand(reprioritizeCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(jobsCmd)
}

// newScheduler builds and starts a Scheduler from the resolved Config,
// opening its CSV Event Log at cfg.LogPath.
func newScheduler() (*scheduler.Scheduler, error) {
	sink, err := eventlog.Open(cfg.LogPath)
	if err != nil {
		return nil, fmt.Errorf("jobsched: %w", err)
	}
	s := scheduler.NewFromConfig(cfg, sink)
	s.Start()
	return s, nil
}
