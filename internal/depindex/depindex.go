// Package depindex maintains the reverse dependency map: for every job
// D, which waiting jobs become candidates for promotion once D
// completes.
package depindex

import "fmt"

// Index is the reverse dependency map. All lookups happen under the
// owning scheduler's lock.
type Index struct {
	// dependents[D] is the set of job IDs waiting on D.
	dependents map[int]map[int]struct{}
}

// New returns an empty Dependency Index.
func New() *Index {
	return &Index{dependents: make(map[int]map[int]struct{})}
}

// Add records that waiterID depends on dependencyID.
func (idx *Index) Add(dependencyID, waiterID int) {
	set, ok := idx.dependents[dependencyID]
	if !ok {
		set = make(map[int]struct{})
		idx.dependents[dependencyID] = set
	}
	set[waiterID] = struct{}{}
}

// Remove drops waiterID from dependencyID's dependent set, e.g. once the
// waiter is no longer waiting on anything.
func (idx *Index) Remove(dependencyID, waiterID int) {
	if set, ok := idx.dependents[dependencyID]; ok {
		delete(set, waiterID)
		if len(set) == 0 {
			delete(idx.dependents, dependencyID)
		}
	}
}

// Candidates returns the job IDs that should be re-checked for
// readiness now that completedID has reached COMPLETED. A single
// dependency completing is necessary but not sufficient; the caller
// must re-check every dependency of each candidate.
func (idx *Index) Candidates(completedID int) []int {
	set, ok := idx.dependents[completedID]
	if !ok {
		return nil
	}
	out := make([]int, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	return out
}

// HasCycle reports whether adding a job with the given proposed
// dependencies would introduce a cycle, given the dependency edges
// already known for existing jobs via depsOf: a DFS over the proposed
// job's transitive dependencies looking for newJobID. Rejecting cycles
// at submission keeps jobs from parking in WAITING_DEPS forever.
//
// depsOf(id) must return the current dependency list for an existing
// job id (empty for unknown ids).
func HasCycle(newJobID int, proposedDeps []int, depsOf func(id int) []int) bool {
	visited := make(map[int]bool)
	var dfs func(id int) bool
	dfs = func(id int) bool {
		if id == newJobID {
			return true
		}
		if visited[id] {
			return false
		}
		visited[id] = true
		for _, d := range depsOf(id) {
			if dfs(d) {
				return true
			}
		}
		return false
	}

	for _, d := range proposedDeps {
		if dfs(d) {
			return true
		}
	}
	return false
}

// Validate is a convenience wrapper returning a descriptive error
// instead of a bool, for use directly from Submit-path validation.
func Validate(newJobID int, proposedDeps []int, depsOf func(id int) []int) error {
	if HasCycle(newJobID, proposedDeps, depsOf) {
		return fmt.Errorf("depindex: dependency set for job %d introduces a cycle", newJobID)
	}
	return nil
}
