package jobscript

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ahmadhassan44/jobsched/internal/job"
)

func write(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "job.script")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestParseFullScript(t *testing.T) {
	path := write(t, `# JOB_NAME: nightly-backup
# PRIORITY: HIGH
# MEMORY_LIMIT: 2048
# RUNTIME_LIMIT: 600
# CORES: 2
# DEPENDENCIES: 1, 2
tar czf backup.tgz /data
`)

	s, err := Parse(path)
	require.NoError(t, err)
	assert.Equal(t, "nightly-backup", s.JobName)
	assert.Equal(t, job.High, s.Priority)
	assert.Equal(t, 2048, s.MemoryLimit)
	assert.Equal(t, 600, s.RuntimeLimit)
	assert.Equal(t, 2, s.Cores)
	assert.Equal(t, []int{1, 2}, s.Dependencies)
	assert.Equal(t, "tar czf backup.tgz /data", s.Command)
}

func TestParseDefaults(t *testing.T) {
	path := write(t, "echo hello\n")

	s, err := Parse(path)
	require.NoError(t, err)
	assert.Equal(t, job.Medium, s.Priority)
	assert.Equal(t, 1024, s.MemoryLimit)
	assert.Equal(t, 3600, s.RuntimeLimit)
	assert.Equal(t, 1, s.Cores)
	assert.Empty(t, s.Dependencies)
}

func TestParseMissingCommandIsError(t *testing.T) {
	path := write(t, "# JOB_NAME: nothing-to-do\n")

	_, err := Parse(path)
	assert.Error(t, err)
}

func TestParseMalformedNumericHeader(t *testing.T) {
	path := write(t, "# MEMORY_LIMIT: not-a-number\necho hi\n")

	_, err := Parse(path)
	assert.Error(t, err)
}

func TestParseInvalidPriority(t *testing.T) {
	path := write(t, "# PRIORITY: URGENT\necho hi\n")

	_, err := Parse(path)
	assert.Error(t, err)
}

func TestParseFileNotFound(t *testing.T) {
	_, err := Parse("/nonexistent/path/job.script")
	assert.Error(t, err)
}
