package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ahmadhassan44/jobsched/internal/job"
)

func TestCountersMonotonic(t *testing.T) {
	a := New()
	a.RecordSubmitted()
	a.RecordSubmitted()
	a.RecordCompleted()
	a.RecordFailed()
	a.RecordKilled()

	snap := a.Compute(nil, nil)
	assert.Equal(t, uint64(2), snap.TotalJobsSubmitted)
	assert.Equal(t, uint64(1), snap.TotalJobsCompleted)
	assert.Equal(t, uint64(1), snap.TotalJobsFailed)
	assert.Equal(t, uint64(1), snap.TotalJobsKilled)
	assert.LessOrEqual(t, snap.TotalJobsCompleted+snap.TotalJobsFailed+snap.TotalJobsKilled, snap.TotalJobsSubmitted+1)
}

func TestAverageTurnaroundAndWait(t *testing.T) {
	a := New()
	now := time.Now()

	j1 := job.New(1, "echo a", job.Medium)
	j1.SubmitTime = now
	j1.StartTime = now.Add(1 * time.Second)
	j1.EndTime = now.Add(3 * time.Second)

	j2 := job.New(2, "echo b", job.Medium)
	j2.SubmitTime = now
	j2.StartTime = now.Add(2 * time.Second)
	j2.EndTime = now.Add(5 * time.Second)

	snap := a.Compute([]*job.Job{j1, j2}, nil)

	assert.InDelta(t, 4000.0, snap.AverageTurnaroundTimeMS, 1.0)
	assert.InDelta(t, 1500.0, snap.AverageWaitTimeMS, 1.0)
}

func TestThroughputZeroUnderOneMinute(t *testing.T) {
	a := New()
	a.RecordCompleted()
	snap := a.Compute(nil, nil)
	assert.Equal(t, 0.0, snap.SystemThroughput)
}

func TestRefresherPrimesAndServesCachedSnapshot(t *testing.T) {
	a := New()
	a.RecordSubmitted()

	r := NewRefresher(time.Hour, func() Snapshot {
		return a.Compute(nil, nil)
	})
	r.Start()
	defer r.Stop()

	snap := r.Latest()
	assert.Equal(t, uint64(1), snap.TotalJobsSubmitted, "Start must prime the cache synchronously")
}

func TestRefresherLatestZeroBeforeStart(t *testing.T) {
	r := NewRefresher(time.Hour, func() Snapshot { return Snapshot{TotalJobsSubmitted: 9} })
	assert.Equal(t, Snapshot{}, r.Latest())
}

func TestCurrentMemoryUsageSumsRunning(t *testing.T) {
	a := New()
	r1 := job.New(1, "x", job.Medium)
	r1.MemoryUsageMB = 100
	r2 := job.New(2, "y", job.Medium)
	r2.MemoryUsageMB = 50

	snap := a.Compute(nil, []*job.Job{r1, r2})
	assert.Equal(t, 150, snap.CurrentMemoryUsageMB)
}
