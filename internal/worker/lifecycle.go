// Package worker runs one job to completion: fork/exec the job's
// command under /bin/sh -c, wait for the child, and report the outcome
// back to the scheduler. The child execs immediately after the fork
// with no intervening work, so forking from a multi-threaded process
// stays safe.
package worker

import (
	"os/exec"
	"syscall"
	"time"

	"github.com/ahmadhassan44/jobsched/internal/logging"
)

var log = logging.For("Lifecycle")

// Outcome is the terminal result of running one command. The scheduler
// consumes it under its own lock to update the job record and emit the
// matching audit record.
type Outcome struct {
	Event     string
	ExitCode  int
	StartTime time.Time
	EndTime   time.Time
}

// Run executes command via /bin/sh -c, blocking until the child exits.
// started is invoked with the child pid as soon as the fork succeeds,
// so the caller can publish it for kill/suspend signaling while the
// wait is still in flight. Run itself touches no shared state; callers
// must not hold the scheduler lock across it.
func Run(jobID int, command string, started func(pid int)) Outcome {
	cmd := exec.Command("/bin/sh", "-c", command)

	start := time.Now()
	if err := cmd.Start(); err != nil {
		log.WithField("job_id", jobID).WithError(err).Warn("fork failed")
		return Outcome{
			Event:     "FAILED",
			ExitCode:  -1,
			StartTime: start,
			EndTime:   time.Now(),
		}
	}

	started(cmd.Process.Pid)

	err := cmd.Wait()
	end := time.Now()

	if err == nil {
		return Outcome{Event: "COMPLETED", ExitCode: 0, StartTime: start, EndTime: end}
	}

	if exitErr, ok := err.(*exec.ExitError); ok {
		return Outcome{Event: "FAILED", ExitCode: exitErr.ExitCode(), StartTime: start, EndTime: end}
	}

	// Abnormal termination with no usable exit code.
	return Outcome{Event: "FAILED", ExitCode: -1, StartTime: start, EndTime: end}
}

// Signal sends sig to pid, if one has been forked. Kill routes SIGTERM,
// Suspend SIGSTOP, Resume SIGCONT, and shutdown teardown SIGTERM
// through here. A zero or negative pid (not yet forked, or already
// reaped) is a no-op.
func Signal(pid int, sig syscall.Signal) error {
	if pid <= 0 {
		return nil
	}
	return syscall.Kill(pid, sig)
}
