// Package jobscript parses job-script files: a line-oriented text
// format with '#'-prefixed header lines followed by a single command
// line.
package jobscript

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/ahmadhassan44/jobsched/internal/job"
)

// Script is the parsed result of one job-script file.
type Script struct {
	JobName      string
	Priority     job.Priority
	MemoryLimit  int
	RuntimeLimit int
	Cores        int
	Dependencies []int
	Command      string
}

// Parse reads and validates a job-script file. Any malformed input
// returns a descriptive error and no Script.
func Parse(path string) (*Script, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("jobscript: open %q: %w", path, err)
	}
	defer f.Close()

	s := &Script{
		Priority:     job.Medium,
		MemoryLimit:  1024,
		RuntimeLimit: 3600,
		Cores:        1,
	}

	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "#") {
			if err := applyHeader(s, strings.TrimPrefix(line, "#")); err != nil {
				return nil, fmt.Errorf("jobscript: %s:%d: %w", path, lineNo, err)
			}
			continue
		}

		// First non-header, non-blank line is the command.
		s.Command = line
		break
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("jobscript: read %q: %w", path, err)
	}

	if s.Command == "" {
		return nil, fmt.Errorf("jobscript: %s: missing command line", path)
	}

	return s, nil
}

func applyHeader(s *Script, raw string) error {
	raw = strings.TrimSpace(raw)
	key, value, ok := strings.Cut(raw, ":")
	if !ok {
		// Not every '#' line need be a recognized header (plain comments
		// are allowed); unrecognized lines are silently ignored.
		return nil
	}
	key = strings.TrimSpace(key)
	value = strings.TrimSpace(value)

	switch key {
	case "JOB_NAME":
		s.JobName = value
	case "PRIORITY":
		p, ok := job.ParsePriority(value)
		if !ok {
			return fmt.Errorf("invalid PRIORITY %q (want LOW, MEDIUM, HIGH, or CRITICAL)", value)
		}
		s.Priority = p
	case "MEMORY_LIMIT":
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return fmt.Errorf("invalid MEMORY_LIMIT %q: must be an unsigned integer", value)
		}
		s.MemoryLimit = n
	case "RUNTIME_LIMIT":
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return fmt.Errorf("invalid RUNTIME_LIMIT %q: must be an unsigned integer", value)
		}
		s.RuntimeLimit = n
	case "CORES":
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			return fmt.Errorf("invalid CORES %q: must be a positive integer", value)
		}
		s.Cores = n
	case "DEPENDENCIES":
		deps, err := parseDependencies(value)
		if err != nil {
			return err
		}
		s.Dependencies = deps
	}
	return nil
}

func parseDependencies(value string) ([]int, error) {
	if value == "" {
		return nil, nil
	}
	parts := strings.Split(value, ",")
	deps := make([]int, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		n, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("invalid DEPENDENCIES entry %q: must be a job ID", p)
		}
		deps = append(deps, n)
	}
	return deps, nil
}
