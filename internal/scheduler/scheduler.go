// Package scheduler ties the whole engine together: the ready queue,
// the core table, the dependency index, the worker pool, the stats
// aggregator, and the audit log, all behind a single mutex and one
// condition variable for worker wakeups.
package scheduler

import (
	"context"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/ahmadhassan44/jobsched/internal/coretable"
	"github.com/ahmadhassan44/jobsched/internal/depindex"
	"github.com/ahmadhassan44/jobsched/internal/estimate"
	"github.com/ahmadhassan44/jobsched/internal/eventlog"
	"github.com/ahmadhassan44/jobsched/internal/job"
	"github.com/ahmadhassan44/jobsched/internal/logging"
	"github.com/ahmadhassan44/jobsched/internal/policy"
	"github.com/ahmadhassan44/jobsched/internal/queue"
	"github.com/ahmadhassan44/jobsched/internal/stats"
	"github.com/ahmadhassan44/jobsched/internal/worker"
)

var log = logging.For("Scheduler")

const defaultCompletedCapacity = 1000

// Scheduler is the single owning table for every job record plus the
// shared state every control operation touches. All mutation goes
// through mu; nextJobID, running, maxConcurrent, and cpuAffinity are
// independent atomics read and written on tight paths.
type Scheduler struct {
	InstanceID uuid.UUID

	mu   sync.Mutex
	cond *sync.Cond

	cores      *coretable.Table
	ready      *queue.Queue
	waiting    map[int]*job.Job
	allJobs    map[int]*job.Job
	runningSet map[int]*job.Job
	completed  []*job.Job

	completedCap int
	depIdx       *depindex.Index
	statsAgg     *stats.Aggregator
	groupUsageMS map[int]float64
	sink         eventlog.Sink
	policy       policy.Policy

	nextJobID     atomic.Int64
	running       atomic.Bool
	maxConcurrent atomic.Int64
	cpuAffinity   atomic.Bool

	refresher *stats.Refresher
	wg        sync.WaitGroup
}

// New constructs a Scheduler. numCores is fixed for the process
// lifetime; maxConcurrent defaults to 2*numCores when <= 0.
func New(numCores, maxConcurrent int, sink eventlog.Sink) *Scheduler {
	if maxConcurrent <= 0 {
		maxConcurrent = 2 * numCores
	}

	s := &Scheduler{
		InstanceID:   uuid.New(),
		cores:        coretable.New(numCores),
		ready:        queue.New(),
		waiting:      make(map[int]*job.Job),
		allJobs:      make(map[int]*job.Job),
		runningSet:   make(map[int]*job.Job),
		completedCap: defaultCompletedCapacity,
		depIdx:       depindex.New(),
		statsAgg:     stats.New(),
		groupUsageMS: make(map[int]float64),
		sink:         sink,
		policy:       policy.PriorityFirst,
	}
	s.cond = sync.NewCond(&s.mu)
	s.maxConcurrent.Store(int64(maxConcurrent))
	return s
}

// NewFromConfig builds a Scheduler from a loaded pkg/config.Config plus
// its audit log sink, applying completed_capacity and scheduling_policy
// on top of what New provides.
func NewFromConfig(cfg configLike, sink eventlog.Sink) *Scheduler {
	s := New(cfg.Cores(), cfg.MaxConcurrent(), sink)
	s.completedCap = cfg.CompletedCap()
	s.policy = cfg.SchedPolicy()
	s.cpuAffinity.Store(cfg.Affinity())
	return s
}

// configLike is the minimal view of pkg/config.Config NewFromConfig
// needs, kept local so internal/scheduler does not import pkg/config
// (config already imports internal/policy; callers hand their Config in
// through this narrow interface instead of closing the import loop).
type configLike interface {
	Cores() int
	MaxConcurrent() int
	CompletedCap() int
	SchedPolicy() policy.Policy
	Affinity() bool
}

// Start launches one worker goroutine per core and the background
// stats refresher.
func (s *Scheduler) Start() {
	s.running.Store(true)
	n := s.cores.NumCores()
	for i := 0; i < n; i++ {
		s.wg.Add(1)
		go s.workerLoop(i)
	}

	refresher := stats.NewRefresher(time.Second, s.GetSystemStats)
	refresher.Start()
	s.mu.Lock()
	s.refresher = refresher
	s.mu.Unlock()

	log.WithFields(map[string]interface{}{
		"instance_id": s.InstanceID,
		"workers":     n,
	}).Info("scheduler started")
}

// Stop flips the running flag, wakes every worker, joins them, then
// best-effort SIGTERMs any process still in the active set and clears
// it. Workers finish the job they are on before exiting, so the active
// set is normally already empty by the time the join returns.
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	s.running.Store(false)
	s.cond.Broadcast()
	refresher := s.refresher
	s.refresher = nil
	s.mu.Unlock()
	if refresher != nil {
		refresher.Stop()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		return ctx.Err()
	}

	s.mu.Lock()
	for _, j := range s.runningSet {
		_ = worker.Signal(j.ProcessID, syscall.SIGTERM)
	}
	s.runningSet = make(map[int]*job.Job)
	s.mu.Unlock()

	if s.sink != nil {
		return s.sink.Close()
	}
	return nil
}

// workerLoop is one of the fixed worker goroutines: wait for
// dispatchable work, pop the next job per the active policy, run it
// outside the lock, then retire it.
func (s *Scheduler) workerLoop(workerID int) {
	defer s.wg.Done()

	for {
		s.mu.Lock()
		for s.running.Load() && !s.hasDispatchableWork() {
			s.cond.Wait()
		}
		if !s.running.Load() {
			s.mu.Unlock()
			return
		}

		j := s.popNextLocked()
		if j == nil {
			// Woken spuriously or lost a race to another worker.
			s.mu.Unlock()
			continue
		}
		s.runningSet[j.ID] = j
		j.ThreadID = workerID
		s.mu.Unlock()

		s.runLifecycle(j)

		s.mu.Lock()
		delete(s.runningSet, j.ID)
		s.finishJobLocked(j)
		s.cond.Broadcast()
		s.mu.Unlock()
	}
}

func (s *Scheduler) hasDispatchableWork() bool {
	return s.ready.Len() > 0 && int64(len(s.runningSet)) < s.maxConcurrent.Load()
}

// popNextLocked selects and removes the next job per the active
// scheduling policy. Must be called with mu held.
func (s *Scheduler) popNextLocked() *job.Job {
	candidates := s.ready.Snapshot()
	chosen := policy.Select(s.policy, candidates, time.Now(), s.groupUsageMS)
	if chosen == nil {
		return nil
	}
	s.ready.Remove(chosen.ID)
	return chosen
}

// runLifecycle drives one job through RUNNING to a terminal state. The
// state-mutating prologue and epilogue run under the scheduler lock;
// the blocking fork/exec/wait runs outside it.
func (s *Scheduler) runLifecycle(j *job.Job) {
	s.mu.Lock()
	coreID, ok := s.cores.Allocate()
	if !ok {
		// No free core: the concurrency cap should prevent this, but
		// fail the job rather than run it unaccounted.
		j.Status = job.Failed
		j.ExitCode = -1
		s.emitLocked(j, eventlog.Failed)
		s.statsAgg.RecordFailed()
		s.mu.Unlock()
		return
	}
	j.AssignedCoreID = coreID
	j.AssignedCores = []int{coreID}
	j.Status = job.Running
	j.StartTime = time.Now()

	metrics := estimate.Simulate(j.Command)
	j.CPUUtilization = metrics.CPUUtilization
	j.MemoryUsageMB = metrics.MemoryUsageMB
	j.ContextSwitches = metrics.ContextSwitches

	s.emitLocked(j, eventlog.Started)
	jobID, command := j.ID, j.Command
	s.mu.Unlock()

	outcome := worker.Run(jobID, command, func(pid int) {
		s.mu.Lock()
		j.ProcessID = pid
		s.mu.Unlock()
	})

	s.mu.Lock()
	s.cores.Release(j.AssignedCoreID)
	j.StartTime = outcome.StartTime
	j.EndTime = outcome.EndTime

	switch {
	case j.Status == job.Killed:
		// Kill flipped the terminal status while the child was in
		// flight; its natural exit must not overwrite KILLED.
		s.emitLocked(j, eventlog.Killed)
		s.statsAgg.RecordKilled()
	case outcome.Event == "COMPLETED":
		j.Status = job.Completed
		j.ExitCode = outcome.ExitCode
		s.emitLocked(j, eventlog.Completed)
		s.statsAgg.RecordCompleted()
	default:
		j.Status = job.Failed
		j.ExitCode = outcome.ExitCode
		s.emitLocked(j, eventlog.Failed)
		s.statsAgg.RecordFailed()
	}

	s.groupUsageMS[policy.GroupKey(j)] += float64(j.ActualRuntimeMS())
	s.mu.Unlock()
}

// finishJobLocked retires a terminated job into the completed FIFO and
// promotes any dependents now ready. Must be called with mu held.
func (s *Scheduler) finishJobLocked(j *job.Job) {
	s.completed = append(s.completed, j)
	if len(s.completed) > s.completedCap {
		s.completed = s.completed[len(s.completed)-s.completedCap:]
	}

	if j.Status == job.Completed {
		s.promoteDependentsLocked(j.ID)
	}
}

// promoteDependentsLocked re-checks every candidate dependent of a
// just-completed job. A single dependency completing is necessary but
// not sufficient; only jobs whose every dependency is now COMPLETED
// move to PENDING and enter the ready queue.
func (s *Scheduler) promoteDependentsLocked(completedID int) {
	for _, depID := range s.depIdx.Candidates(completedID) {
		dependent, ok := s.allJobs[depID]
		if !ok || dependent.Status != job.WaitingDeps {
			continue
		}
		if !s.allDepsCompletedLocked(dependent) {
			continue
		}
		delete(s.waiting, dependent.ID)
		dependent.Status = job.Pending
		s.ready.Push(dependent)
	}
}

func (s *Scheduler) allDepsCompletedLocked(j *job.Job) bool {
	for _, depID := range j.Dependencies {
		dep, ok := s.allJobs[depID]
		if !ok || dep.Status != job.Completed {
			return false
		}
	}
	return true
}

// emitLocked writes one audit record. A write failure is reported to
// the structured log and never fails the job itself.
func (s *Scheduler) emitLocked(j *job.Job, event eventlog.Event) {
	if s.sink == nil {
		return
	}
	if err := s.sink.Record(j, event); err != nil {
		log.WithField("job_id", j.ID).WithError(err).Warn("event log write failed")
	}
}

func (s *Scheduler) allocateJobID() int {
	return int(s.nextJobID.Add(1))
}
