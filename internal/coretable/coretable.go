// Package coretable tracks logical-core allocation: a fixed vector of
// slots with first-free allocation and idempotent release. Allocation
// is accounting only and does not pin any OS thread.
package coretable

import (
	"fmt"
	"time"
)

type slot struct {
	available bool
	lastUsed  time.Time
}

// Table is a fixed-size vector of logical core slots. All operations
// run under the owning Scheduler's lock; Table itself holds no lock of
// its own.
type Table struct {
	slots []slot
}

// New builds a Table of n cores, all initially free.
func New(n int) *Table {
	if n <= 0 {
		n = 1
	}
	slots := make([]slot, n)
	for i := range slots {
		slots[i].available = true
	}
	return &Table{slots: slots}
}

// NumCores returns the fixed core count.
func (t *Table) NumCores() int {
	return len(t.slots)
}

// Allocate returns the lowest-indexed free slot, or (-1, false) if none
// is free. The lowest-index rule keeps allocation deterministic.
func (t *Table) Allocate() (int, bool) {
	for i := range t.slots {
		if !t.slots[i].available {
			continue
		}
		t.slots[i].available = false
		t.slots[i].lastUsed = time.Now()
		return i, true
	}
	return -1, false
}

// AllocateN returns k free core IDs, or an error if fewer than k are
// free. Partial allocation is not permitted: on failure nothing is
// allocated.
func (t *Table) AllocateN(k int) ([]int, error) {
	if k <= 0 {
		return nil, fmt.Errorf("coretable: allocate_n requires k > 0, got %d", k)
	}
	free := make([]int, 0, k)
	for i := range t.slots {
		if t.slots[i].available {
			free = append(free, i)
			if len(free) == k {
				break
			}
		}
	}
	if len(free) < k {
		return nil, fmt.Errorf("coretable: requested %d cores, only %d free", k, len(free))
	}
	now := time.Now()
	for _, i := range free {
		t.slots[i].available = false
		t.slots[i].lastUsed = now
	}
	return free, nil
}

// Release marks a core free. Idempotent: releasing a free slot is a
// no-op.
func (t *Table) Release(coreID int) {
	if coreID < 0 || coreID >= len(t.slots) {
		return
	}
	t.slots[coreID].available = true
}

// ReleaseAll releases every core in the list.
func (t *Table) ReleaseAll(coreIDs []int) {
	for _, id := range coreIDs {
		t.Release(id)
	}
}

// AllocatedCount returns how many cores are currently unavailable.
func (t *Table) AllocatedCount() int {
	n := 0
	for i := range t.slots {
		if !t.slots[i].available {
			n++
		}
	}
	return n
}

// Available reports whether a given core is currently free.
func (t *Table) Available(coreID int) bool {
	if coreID < 0 || coreID >= len(t.slots) {
		return false
	}
	return t.slots[coreID].available
}
