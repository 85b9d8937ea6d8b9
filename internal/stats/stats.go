// Package stats aggregates scheduler-wide counters: monotonic totals
// updated at each transition, plus averages and throughput recomputed
// on demand at query time.
package stats

import (
	"sync/atomic"
	"time"

	"github.com/ahmadhassan44/jobsched/internal/job"
)

// Refresher keeps a cached Snapshot warm for high-frequency external
// pollers. It recomputes on a fixed interval in the background; Latest
// never touches the scheduler lock. On-demand computation via Compute
// remains the authoritative path.
type Refresher struct {
	compute  func() Snapshot
	interval time.Duration
	cached   atomic.Pointer[Snapshot]
	stop     chan struct{}
	done     chan struct{}
}

// NewRefresher builds a Refresher around compute. Start must be called
// before Latest returns anything useful.
func NewRefresher(interval time.Duration, compute func() Snapshot) *Refresher {
	return &Refresher{
		compute:  compute,
		interval: interval,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start begins the background refresh loop, priming the cache once
// immediately.
func (r *Refresher) Start() {
	snap := r.compute()
	r.cached.Store(&snap)

	go func() {
		defer close(r.done)
		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()
		for {
			select {
			case <-r.stop:
				return
			case <-ticker.C:
				snap := r.compute()
				r.cached.Store(&snap)
			}
		}
	}()
}

// Stop halts the refresh loop and waits for it to exit.
func (r *Refresher) Stop() {
	close(r.stop)
	<-r.done
}

// Latest returns the most recently cached Snapshot. Zero value before
// Start has primed the cache.
func (r *Refresher) Latest() Snapshot {
	if p := r.cached.Load(); p != nil {
		return *p
	}
	return Snapshot{}
}

// Counters are the monotonic totals maintained across the process
// lifetime. Each field is an independent atomic so increments never
// contend with the scheduler's main lock.
type Counters struct {
	submitted atomic.Uint64
	completed atomic.Uint64
	failed    atomic.Uint64
	killed    atomic.Uint64
}

// Snapshot is one consistent observation of the system-wide stats.
type Snapshot struct {
	TotalJobsSubmitted      uint64
	TotalJobsCompleted      uint64
	TotalJobsFailed         uint64
	TotalJobsKilled         uint64
	AverageTurnaroundTimeMS float64
	AverageWaitTimeMS       float64
	SystemThroughput        float64
	CurrentMemoryUsageMB    int
	StartTime               time.Time
}

// Aggregator computes Snapshot on demand from the current counters plus
// the completed/running sets it is handed at query time.
type Aggregator struct {
	counters  Counters
	startTime time.Time
}

// New returns an Aggregator whose StartTime is now.
func New() *Aggregator {
	return &Aggregator{startTime: time.Now()}
}

func (a *Aggregator) RecordSubmitted() { a.counters.submitted.Add(1) }
func (a *Aggregator) RecordCompleted() { a.counters.completed.Add(1) }
func (a *Aggregator) RecordFailed()    { a.counters.failed.Add(1) }
func (a *Aggregator) RecordKilled()    { a.counters.killed.Add(1) }

// Compute derives a Snapshot. completed is the completed-job FIFO and
// running is the current running set, both passed by the caller under
// the scheduler lock since Job fields are not independently
// synchronized. Throughput stays 0 until a minute has elapsed.
func (a *Aggregator) Compute(completed []*job.Job, running []*job.Job) Snapshot {
	snap := Snapshot{
		TotalJobsSubmitted: a.counters.submitted.Load(),
		TotalJobsCompleted: a.counters.completed.Load(),
		TotalJobsFailed:    a.counters.failed.Load(),
		TotalJobsKilled:    a.counters.killed.Load(),
		StartTime:          a.startTime,
	}

	if len(completed) > 0 {
		var turnaround, wait float64
		for _, j := range completed {
			turnaround += float64(j.EndTime.Sub(j.SubmitTime).Milliseconds())
			wait += float64(j.StartTime.Sub(j.SubmitTime).Milliseconds())
		}
		snap.AverageTurnaroundTimeMS = turnaround / float64(len(completed))
		snap.AverageWaitTimeMS = wait / float64(len(completed))
	}

	elapsed := time.Since(a.startTime).Minutes()
	if elapsed >= 1.0 {
		snap.SystemThroughput = float64(snap.TotalJobsCompleted) / elapsed
	}

	mem := 0
	for _, j := range running {
		mem += j.MemoryUsageMB
	}
	snap.CurrentMemoryUsageMB = mem

	return snap
}
