package scheduler

import (
	"fmt"
	"strconv"
	"strings"
	"syscall"

	"github.com/google/uuid"

	"github.com/ahmadhassan44/jobsched/internal/depindex"
	"github.com/ahmadhassan44/jobsched/internal/eventlog"
	"github.com/ahmadhassan44/jobsched/internal/job"
	"github.com/ahmadhassan44/jobsched/internal/jobscript"
	"github.com/ahmadhassan44/jobsched/internal/policy"
	"github.com/ahmadhassan44/jobsched/internal/stats"
	"github.com/ahmadhassan44/jobsched/internal/worker"
)

// Submit enters a dependency-free command into the ready queue. Always
// succeeds with a new id.
func (s *Scheduler) Submit(command string, priority job.Priority) *job.Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.submitLocked(command, priority, nil)
}

// SubmitWithDeps enters a job that becomes eligible only once every id
// in deps reaches COMPLETED. A dependency set that would introduce a
// cycle is rejected outright rather than parked forever in
// WAITING_DEPS.
func (s *Scheduler) SubmitWithDeps(command string, deps []int, priority job.Priority) (*job.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	proposedID := int(s.nextJobID.Load()) + 1
	if err := depindex.Validate(proposedID, deps, s.dependenciesOfLocked); err != nil {
		return nil, err
	}

	return s.submitLocked(command, priority, deps), nil
}

func (s *Scheduler) dependenciesOfLocked(id int) []int {
	if j, ok := s.allJobs[id]; ok {
		return j.Dependencies
	}
	return nil
}

// submitLocked performs the actual record creation and queue/waiting-set
// placement. Must be called with mu held.
func (s *Scheduler) submitLocked(command string, priority job.Priority, deps []int) *job.Job {
	id := s.allocateJobID()
	j := job.New(id, command, priority)
	j.Dependencies = deps

	s.allJobs[id] = j
	s.statsAgg.RecordSubmitted()
	s.emitLocked(j, eventlog.Submitted)

	if unmet := s.unmetDependenciesLocked(j); len(unmet) > 0 {
		j.Status = job.WaitingDeps
		s.waiting[id] = j
		for _, depID := range unmet {
			s.depIdx.Add(depID, id)
			if dep, ok := s.allJobs[depID]; ok {
				dep.Dependents = append(dep.Dependents, id)
			}
		}
		return j
	}

	s.ready.Push(j)
	s.cond.Signal()
	return j
}

func (s *Scheduler) unmetDependenciesLocked(j *job.Job) []int {
	var unmet []int
	for _, depID := range j.Dependencies {
		dep, ok := s.allJobs[depID]
		if !ok || dep.Status != job.Completed {
			unmet = append(unmet, depID)
		}
	}
	return unmet
}

// SubmitScript parses a job-script file and submits the command it
// describes, carrying the script's name, limits, and dependencies onto
// the new record. A parse failure creates no record.
func (s *Scheduler) SubmitScript(path string) (*job.Job, error) {
	script, err := jobscript.Parse(path)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(script.Dependencies) > 0 {
		proposedID := int(s.nextJobID.Load()) + 1
		if err := depindex.Validate(proposedID, script.Dependencies, s.dependenciesOfLocked); err != nil {
			return nil, err
		}
	}

	j := s.submitLocked(script.Command, script.Priority, script.Dependencies)
	j.Name = script.JobName
	j.Limits.MaxMemoryMB = script.MemoryLimit
	j.Limits.MaxRuntimeSecond = script.RuntimeLimit
	j.Limits.MaxCPUCores = script.Cores
	return j, nil
}

// SubmitArray issues size submissions, substituting the literal
// $ARRAY_ID in template with each task index. Every task shares the
// first task's job id as its array identity.
func (s *Scheduler) SubmitArray(template string, size int, priority job.Priority) ([]*job.Job, error) {
	if size <= 0 {
		return nil, fmt.Errorf("scheduler: array size must be positive, got %d", size)
	}

	batch := uuid.New()

	s.mu.Lock()
	defer s.mu.Unlock()

	arrayJobID := int(s.nextJobID.Load()) + 1
	out := make([]*job.Job, 0, size)
	for i := 0; i < size; i++ {
		command := strings.ReplaceAll(template, "$ARRAY_ID", strconv.Itoa(i))
		j := s.submitLocked(command, priority, nil)
		j.Type = job.ArrayJob
		j.ArrayJobID = arrayJobID
		j.ArrayTaskID = i
		out = append(out, j)
	}

	log.WithFields(map[string]interface{}{
		"array_batch":  batch,
		"array_job_id": arrayJobID,
		"tasks":        size,
	}).Info("array submitted")
	return out, nil
}

// Kill sends SIGTERM to a RUNNING job's process and flips its status to
// KILLED immediately; KILLED is terminal and survives the child's exit
// observation. No-op, returns false, for any job not currently RUNNING.
func (s *Scheduler) Kill(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	j, ok := s.allJobs[id]
	if !ok || j.Status != job.Running {
		return false
	}

	_ = worker.Signal(j.ProcessID, syscall.SIGTERM)
	j.Status = job.Killed
	return true
}

// Suspend sends SIGSTOP to a RUNNING job's process.
func (s *Scheduler) Suspend(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	j, ok := s.allJobs[id]
	if !ok || j.Status != job.Running {
		return false
	}
	_ = worker.Signal(j.ProcessID, syscall.SIGSTOP)
	j.Status = job.Suspended
	return true
}

// Resume sends SIGCONT to a SUSPENDED job's process.
func (s *Scheduler) Resume(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	j, ok := s.allJobs[id]
	if !ok || j.Status != job.Suspended {
		return false
	}
	_ = worker.Signal(j.ProcessID, syscall.SIGCONT)
	j.Status = job.Running
	return true
}

// ChangePriority succeeds only for PENDING jobs; anything already
// dispatched, waiting, or terminal is left untouched.
func (s *Scheduler) ChangePriority(id int, p job.Priority) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	j, ok := s.allJobs[id]
	if !ok || j.Status != job.Pending {
		return false
	}
	j.Priority = p
	s.ready.Fix(id)
	return true
}

// GetJobs returns a point-in-time snapshot of every known job.
func (s *Scheduler) GetJobs() []job.Job {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]job.Job, 0, len(s.allJobs))
	for _, j := range s.allJobs {
		out = append(out, j.Snapshot())
	}
	return out
}

// GetActiveJobs returns a snapshot of the current running set.
func (s *Scheduler) GetActiveJobs() []job.Job {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]job.Job, 0, len(s.runningSet))
	for _, j := range s.runningSet {
		out = append(out, j.Snapshot())
	}
	return out
}

// GetCompletedJobs returns a snapshot of the completed FIFO.
func (s *Scheduler) GetCompletedJobs() []job.Job {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]job.Job, 0, len(s.completed))
	for _, j := range s.completed {
		out = append(out, j.Snapshot())
	}
	return out
}

// GetSystemStats computes the stats snapshot on demand, under the
// scheduler lock. High-frequency pollers can use GetCachedStats
// instead.
func (s *Scheduler) GetSystemStats() stats.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	running := make([]*job.Job, 0, len(s.runningSet))
	for _, j := range s.runningSet {
		running = append(running, j)
	}

	return s.statsAgg.Compute(s.completed, running)
}

// GetCachedStats returns the background refresher's most recent
// snapshot without recomputing it; the scheduler lock is held only
// long enough to read the refresher. Falls back to an on-demand
// computation when the scheduler has not been started.
func (s *Scheduler) GetCachedStats() stats.Snapshot {
	s.mu.Lock()
	refresher := s.refresher
	s.mu.Unlock()

	if refresher != nil {
		return refresher.Latest()
	}
	return s.GetSystemStats()
}

// GetCoreUtilization returns a synthetic percent per core: 0 when free,
// else the running job's simulated cpu_utilization. These are the
// values derived at job start, not live OS samples.
func (s *Scheduler) GetCoreUtilization() []float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	util := make([]float64, s.cores.NumCores())
	for _, j := range s.runningSet {
		if j.AssignedCoreID >= 0 && j.AssignedCoreID < len(util) {
			util[j.AssignedCoreID] = j.CPUUtilization
		}
	}
	return util
}

// GetQueueLength returns the current ready-queue size.
func (s *Scheduler) GetQueueLength() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ready.Len()
}

// SetSchedulingPolicy switches dispatch policy for future decisions;
// in-flight jobs are unaffected.
func (s *Scheduler) SetSchedulingPolicy(p policy.Policy) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.policy = p
}

// SetMaxConcurrentJobs updates the concurrency cap and wakes any
// workers the new cap unblocks.
func (s *Scheduler) SetMaxConcurrentJobs(n int) {
	s.maxConcurrent.Store(int64(n))
	s.mu.Lock()
	s.cond.Broadcast()
	s.mu.Unlock()
}

// EnableCPUAffinity records the affinity flag. The flag is accounting
// only; worker goroutines are not pinned to OS cores.
func (s *Scheduler) EnableCPUAffinity(enabled bool) {
	s.cpuAffinity.Store(enabled)
}

// CPUAffinityEnabled reports the current affinity flag.
func (s *Scheduler) CPUAffinityEnabled() bool {
	return s.cpuAffinity.Load()
}
