// Package queue implements the ready set: a max-heap of dispatchable
// jobs keyed by priority score, with stable submission-order
// tie-breaking.
package queue

import (
	"container/heap"
	"time"

	"github.com/ahmadhassan44/jobsched/internal/estimate"
	"github.com/ahmadhassan44/jobsched/internal/job"
)

// Score computes a job's priority score as of now. The wait-time term
// means the score ages upward, so an entry's heap position can go stale;
// slightly out-of-order dispatch is accepted as the cost of O(log n)
// operations. Exposed as a function so tests can freeze time and
// alternate policies can reuse it.
func Score(j *job.Job, now time.Time) float64 {
	score := float64(j.Priority)

	runtime := estimate.Runtime(j.Command)
	score += 0.1 * (1.0 / (1.0 + runtime/60.0))

	score += 0.01 * j.WaitMinutesSinceSubmit(now)

	if j.Type == job.Interactive {
		score += 0.2
	}
	if j.Priority == job.Critical {
		score += 2.0
	}
	if j.Status == job.WaitingDeps {
		score -= 1.0
	}

	return score
}

// entry wraps a *job.Job with the insertion sequence number used to
// break comparator ties deterministically: equal scores dequeue in
// submission order.
type entry struct {
	j     *job.Job
	seq   uint64
	index int
}

type heapImpl []*entry

func (h heapImpl) Len() int { return len(h) }

func (h heapImpl) Less(i, k int) bool {
	si := Score(h[i].j, time.Now())
	sk := Score(h[k].j, time.Now())
	if si != sk {
		return si > sk // max-heap
	}
	return h[i].seq < h[k].seq // stable: earlier submission wins ties
}

func (h heapImpl) Swap(i, k int) {
	h[i], h[k] = h[k], h[i]
	h[i].index = i
	h[k].index = k
}

func (h *heapImpl) Push(x any) {
	e := x.(*entry)
	e.index = len(*h)
	*h = append(*h, e)
}

func (h *heapImpl) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return e
}

// Queue is the Ready Set: jobs whose dependencies are satisfied and
// which are not yet running, ordered by priority_score.
type Queue struct {
	h    heapImpl
	next uint64
}

// New returns an empty Ready Set.
func New() *Queue {
	q := &Queue{}
	heap.Init(&q.h)
	return q
}

// Push inserts a job into the Ready Set.
func (q *Queue) Push(j *job.Job) {
	e := &entry{j: j, seq: q.next}
	q.next++
	heap.Push(&q.h, e)
}

// Pop removes and returns the highest-scored job, or nil if empty.
func (q *Queue) Pop() *job.Job {
	if q.h.Len() == 0 {
		return nil
	}
	e := heap.Pop(&q.h).(*entry)
	return e.j
}

// Len reports the current Ready Set size.
func (q *Queue) Len() int {
	return q.h.Len()
}

// Peek returns the highest-scored job without removing it, or nil if empty.
func (q *Queue) Peek() *job.Job {
	if q.h.Len() == 0 {
		return nil
	}
	return q.h[0].j
}

// Remove deletes a specific job from the Ready Set by ID, used when a
// scheduling policy has selected that job for dispatch. Returns true if
// found.
func (q *Queue) Remove(id int) bool {
	for i, e := range q.h {
		if e.j.ID == id {
			heap.Remove(&q.h, i)
			return true
		}
	}
	return false
}

// Snapshot returns the jobs currently in the Ready Set, in no
// particular order (callers needing ordering should Pop a copy).
func (q *Queue) Snapshot() []*job.Job {
	out := make([]*job.Job, 0, len(q.h))
	for _, e := range q.h {
		out = append(out, e.j)
	}
	return out
}

// Fix re-establishes heap ordering for a job already in the queue after
// its priority or status changed in place.
func (q *Queue) Fix(id int) {
	for i, e := range q.h {
		if e.j.ID == id {
			heap.Fix(&q.h, i)
			return
		}
	}
}
