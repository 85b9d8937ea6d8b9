package coretable

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllocateLowestIndexFirst(t *testing.T) {
	tbl := New(4)

	id, ok := tbl.Allocate()
	require.True(t, ok)
	assert.Equal(t, 0, id)

	id, ok = tbl.Allocate()
	require.True(t, ok)
	assert.Equal(t, 1, id)
}

func TestAllocateExhausted(t *testing.T) {
	tbl := New(2)
	_, _ = tbl.Allocate()
	_, _ = tbl.Allocate()

	_, ok := tbl.Allocate()
	assert.False(t, ok)
}

func TestReleaseIsIdempotent(t *testing.T) {
	tbl := New(2)
	tbl.Release(0)
	tbl.Release(0)
	assert.Equal(t, 0, tbl.AllocatedCount())

	id, _ := tbl.Allocate()
	tbl.Release(id)
	tbl.Release(id)
	assert.Equal(t, 0, tbl.AllocatedCount())
}

func TestAllocateNAllOrNothing(t *testing.T) {
	tbl := New(3)

	ids, err := tbl.AllocateN(2)
	require.NoError(t, err)
	assert.ElementsMatch(t, []int{0, 1}, ids)

	_, err = tbl.AllocateN(2)
	assert.Error(t, err, "only one core left; partial allocation must fail")

	assert.Equal(t, 2, tbl.AllocatedCount())
}

func TestReleaseAll(t *testing.T) {
	tbl := New(3)
	ids, _ := tbl.AllocateN(3)
	tbl.ReleaseAll(ids)
	assert.Equal(t, 0, tbl.AllocatedCount())
}
