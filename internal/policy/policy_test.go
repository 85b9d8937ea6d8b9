package policy

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ahmadhassan44/jobsched/internal/job"
)

func TestPriorityFirstPicksCritical(t *testing.T) {
	low := job.New(1, "echo a", job.Low)
	critical := job.New(2, "echo b", job.Critical)

	got := Select(PriorityFirst, []*job.Job{low, critical}, time.Now(), nil)
	assert.Equal(t, critical.ID, got.ID)
}

func TestShortestJobFirstPicksSmallestEstimate(t *testing.T) {
	long := job.New(1, "sleep 100", job.Medium)
	short := job.New(2, "sleep 1", job.Medium)

	got := Select(ShortestJobFirst, []*job.Job{long, short}, time.Now(), nil)
	assert.Equal(t, short.ID, got.ID)
}

func TestRoundRobinFIFOWithinTopBucket(t *testing.T) {
	now := time.Now()
	earlier := job.New(1, "echo a", job.High)
	earlier.SubmitTime = now.Add(-1 * time.Minute)
	later := job.New(2, "echo b", job.High)
	later.SubmitTime = now
	lowPriority := job.New(3, "echo c", job.Low)
	lowPriority.SubmitTime = now.Add(-2 * time.Minute)

	got := Select(RoundRobin, []*job.Job{later, earlier, lowPriority}, now, nil)
	assert.Equal(t, earlier.ID, got.ID, "earliest submission within the highest priority bucket wins")
}

func TestFairSharePrefersLeastConsumedGroup(t *testing.T) {
	heavy := job.New(1, "echo a", job.Medium)
	heavy.ArrayJobID = 0
	light := job.New(2, "echo b", job.Medium)
	light.ArrayJobID = 0

	usage := map[int]float64{heavy.ID: 5000, light.ID: 100}
	got := Select(FairShare, []*job.Job{heavy, light}, time.Now(), usage)
	assert.Equal(t, light.ID, got.ID)
}

func TestSelectEmptyReturnsNil(t *testing.T) {
	assert.Nil(t, Select(PriorityFirst, nil, time.Now(), nil))
}

func TestGroupKeyUsesArrayJobID(t *testing.T) {
	j := job.New(5, "echo a", job.Medium)
	j.ArrayJobID = 42
	assert.Equal(t, 42, GroupKey(j))

	solo := job.New(9, "echo b", job.Medium)
	assert.Equal(t, 9, GroupKey(solo))
}
