package depindex

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAddAndCandidates(t *testing.T) {
	idx := New()
	idx.Add(1, 2) // job 2 waits on job 1
	idx.Add(1, 3) // job 3 waits on job 1

	cands := idx.Candidates(1)
	assert.ElementsMatch(t, []int{2, 3}, cands)
	assert.Empty(t, idx.Candidates(99))
}

func TestRemove(t *testing.T) {
	idx := New()
	idx.Add(1, 2)
	idx.Remove(1, 2)
	assert.Empty(t, idx.Candidates(1))
}

func TestHasCycleDirect(t *testing.T) {
	deps := map[int][]int{
		1: {2},
		2: {3},
	}
	depsOf := func(id int) []int { return deps[id] }

	// Job 4 depends on 1 -> 2 -> 3; no cycle.
	assert.False(t, HasCycle(4, []int{1}, depsOf))

	// Job 3 proposing a dependency on 1: 1 -> 2 -> 3 already leads back
	// to 3, so this closes a cycle.
	assert.True(t, HasCycle(3, []int{1}, depsOf))
}

func TestHasCycleDetectsBackEdge(t *testing.T) {
	// 1 depends on 2, 2 depends on 3. Now job 3 proposes depending on 1:
	// 3 -> 1 -> 2 -> 3 is a cycle.
	deps := map[int][]int{
		1: {2},
		2: {3},
	}
	depsOf := func(id int) []int { return deps[id] }

	assert.True(t, HasCycle(3, []int{1}, depsOf))
}

func TestValidateReturnsDescriptiveError(t *testing.T) {
	deps := map[int][]int{1: {2}, 2: {3}}
	depsOf := func(id int) []int { return deps[id] }

	err := Validate(3, []int{1}, depsOf)
	assert.Error(t, err)
}
