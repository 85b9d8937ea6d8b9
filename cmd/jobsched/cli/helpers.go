package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ahmadhassan44/jobsched/internal/job"
)

func parseJobID(raw string) (int, error) {
	id, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("jobsched: invalid job id %q", raw)
	}
	return id, nil
}

func parsePriorityFlag(raw string) (job.Priority, bool) {
	return job.ParsePriority(strings.ToUpper(raw))
}
