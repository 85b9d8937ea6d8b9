package eventlog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahmadhassan44/jobsched/internal/job"
)

func TestOpenWritesHeaderOnce(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sub", "job_log.csv")

	sink, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, sink.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Timestamp,JobID,JobName,Command,Priority,Status,ThreadID,CoreID,Duration(ms),Event")

	// Re-opening an existing, non-empty file must not duplicate the header.
	sink2, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, sink2.Record(job.New(1, "echo hi", job.Medium), Submitted))
	require.NoError(t, sink2.Close())

	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 1, countOccurrences(string(data), "Timestamp,JobID"), "header must be written once per file, not once per session")
}

func countOccurrences(haystack, needle string) int {
	count := 0
	for i := 0; i+len(needle) <= len(haystack); i++ {
		if haystack[i:i+len(needle)] == needle {
			count++
		}
	}
	return count
}

func TestMemorySinkCapturesOrder(t *testing.T) {
	sink := NewMemorySink()
	j := job.New(7, "echo hi", job.High)

	require.NoError(t, sink.Record(j, Submitted))
	j.Status = job.Running
	require.NoError(t, sink.Record(j, Started))

	records := sink.Snapshot()
	require.Len(t, records, 2)
	assert.Equal(t, Submitted, records[0].Event)
	assert.Equal(t, Started, records[1].Event)
}
