// Package policy implements the four pluggable dispatch orderings.
// Selection operates over a snapshot of the ready set's current
// members; PriorityFirst reproduces internal/queue's score ordering,
// the others provide alternate orderings over the same snapshot.
package policy

import (
	"time"

	"github.com/ahmadhassan44/jobsched/internal/estimate"
	"github.com/ahmadhassan44/jobsched/internal/job"
	"github.com/ahmadhassan44/jobsched/internal/queue"
)

// Policy selects which policy governs dispatch order.
type Policy int

const (
	PriorityFirst Policy = iota
	ShortestJobFirst
	RoundRobin
	FairShare
)

func (p Policy) String() string {
	switch p {
	case PriorityFirst:
		return "PRIORITY_FIRST"
	case ShortestJobFirst:
		return "SHORTEST_JOB_FIRST"
	case RoundRobin:
		return "ROUND_ROBIN"
	case FairShare:
		return "FAIR_SHARE"
	default:
		return "UNKNOWN"
	}
}

// Parse converts a name into a Policy, defaulting to PriorityFirst.
func Parse(name string) (Policy, bool) {
	switch name {
	case "PRIORITY_FIRST":
		return PriorityFirst, true
	case "SHORTEST_JOB_FIRST":
		return ShortestJobFirst, true
	case "ROUND_ROBIN":
		return RoundRobin, true
	case "FAIR_SHARE":
		return FairShare, true
	default:
		return PriorityFirst, false
	}
}

// GroupKey returns the unit FairShare tracks usage against: a job's
// array identity when it belongs to an array, else its own id.
func GroupKey(j *job.Job) int {
	if j.ArrayJobID != 0 {
		return j.ArrayJobID
	}
	return j.ID
}

// Select picks the next job to dispatch from candidates (the current
// ready-set snapshot) according to policy. groupUsageMS maps GroupKey
// to cumulative CPU time consumed so far, used only by FairShare.
// Returns nil if candidates is empty.
func Select(p Policy, candidates []*job.Job, now time.Time, groupUsageMS map[int]float64) *job.Job {
	if len(candidates) == 0 {
		return nil
	}

	switch p {
	case ShortestJobFirst:
		return argmin(candidates, func(j *job.Job) float64 {
			return estimate.Runtime(j.Command)
		})

	case RoundRobin:
		best := highestPriorityBucket(candidates)
		return earliestSubmitted(best)

	case FairShare:
		return argmin(candidates, func(j *job.Job) float64 {
			return groupUsageMS[GroupKey(j)]
		})

	default: // PriorityFirst
		return argmax(candidates, func(j *job.Job) float64 {
			return queue.Score(j, now)
		})
	}
}

func argmax(jobs []*job.Job, key func(*job.Job) float64) *job.Job {
	best := jobs[0]
	bestScore := key(best)
	for _, j := range jobs[1:] {
		if s := key(j); s > bestScore {
			best, bestScore = j, s
		}
	}
	return best
}

func argmin(jobs []*job.Job, key func(*job.Job) float64) *job.Job {
	best := jobs[0]
	bestScore := key(best)
	for _, j := range jobs[1:] {
		if s := key(j); s < bestScore {
			best, bestScore = j, s
		}
	}
	return best
}

func highestPriorityBucket(jobs []*job.Job) []*job.Job {
	var maxP job.Priority = -1
	for _, j := range jobs {
		if j.Priority > maxP {
			maxP = j.Priority
		}
	}
	out := make([]*job.Job, 0, len(jobs))
	for _, j := range jobs {
		if j.Priority == maxP {
			out = append(out, j)
		}
	}
	return out
}

func earliestSubmitted(jobs []*job.Job) *job.Job {
	best := jobs[0]
	for _, j := range jobs[1:] {
		if j.SubmitTime.Before(best.SubmitTime) {
			best = j
		}
	}
	return best
}
