// Package eventlog records job lifecycle transitions to an append-only
// CSV audit log. The writer is injected as a Sink interface: production
// binds a CSV file, tests substitute an in-memory sink.
package eventlog

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/ahmadhassan44/jobsched/internal/job"
)

// Event names the kind of lifecycle transition recorded.
type Event string

const (
	Submitted Event = "SUBMITTED"
	Started   Event = "STARTED"
	Completed Event = "COMPLETED"
	Failed    Event = "FAILED"
	Killed    Event = "KILLED"
)

var header = []string{
	"Timestamp", "JobID", "JobName", "Command", "Priority", "Status",
	"ThreadID", "CoreID", "Duration(ms)", "Event",
}

const timestampLayout = "2006-01-02 15:04:05.000"

// Sink receives one record per lifecycle transition. Record must not
// block the caller for long; implementations serialize internally.
type Sink interface {
	Record(j *job.Job, event Event) error
	Close() error
}

// CSVSink is the default production Sink: an append-only CSV file,
// flushed after every record so crash loss is bounded to the in-flight
// record.
type CSVSink struct {
	mu     sync.Mutex
	file   *os.File
	writer *csv.Writer
}

// Open creates (or appends to) the CSV file at path, creating parent
// directories as needed, and writes the header if the file is new or
// empty. Callers must treat a non-nil error as fatal at startup.
func Open(path string) (*CSVSink, error) {
	dir := filepath.Dir(path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("eventlog: create log directory %q: %w", dir, err)
		}
	}

	info, statErr := os.Stat(path)
	needsHeader := statErr != nil || info.Size() == 0

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("eventlog: open log file %q: %w", path, err)
	}

	w := csv.NewWriter(f)
	sink := &CSVSink{file: f, writer: w}

	if needsHeader {
		if err := w.Write(header); err != nil {
			f.Close()
			return nil, fmt.Errorf("eventlog: write header: %w", err)
		}
		w.Flush()
		if err := w.Error(); err != nil {
			f.Close()
			return nil, fmt.Errorf("eventlog: flush header: %w", err)
		}
	}

	return sink, nil
}

// Record appends one row for the given job/event. Duration(ms) stays 0
// until the job has started, then measures from its start time.
func (s *CSVSink) Record(j *job.Job, event Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	duration := int64(0)
	if event != Submitted && !j.StartTime.IsZero() {
		duration = time.Since(j.StartTime).Milliseconds()
	}

	row := []string{
		time.Now().Format(timestampLayout),
		fmt.Sprintf("%d", j.ID),
		j.Name,
		j.Command,
		j.Priority.String(),
		j.Status.String(),
		fmt.Sprintf("%d", j.ThreadID),
		fmt.Sprintf("%d", j.AssignedCoreID),
		fmt.Sprintf("%d", duration),
		string(event),
	}

	if err := s.writer.Write(row); err != nil {
		return fmt.Errorf("eventlog: write record for job %d: %w", j.ID, err)
	}
	s.writer.Flush()
	return s.writer.Error()
}

// Close flushes and closes the underlying file.
func (s *CSVSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writer.Flush()
	return s.file.Close()
}

// MemorySink is an in-memory Sink for tests.
type MemorySink struct {
	mu      sync.Mutex
	Records []Record
}

// Record is one captured lifecycle transition.
type Record struct {
	JobID  int
	Event  Event
	Status job.Status
	CoreID int
}

// NewMemorySink returns an empty in-memory Sink.
func NewMemorySink() *MemorySink {
	return &MemorySink{}
}

func (m *MemorySink) Record(j *job.Job, event Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Records = append(m.Records, Record{
		JobID:  j.ID,
		Event:  event,
		Status: j.Status,
		CoreID: j.AssignedCoreID,
	})
	return nil
}

func (m *MemorySink) Close() error { return nil }

// Snapshot returns a copy of recorded events, safe to inspect without
// racing concurrent writers.
func (m *MemorySink) Snapshot() []Record {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Record, len(m.Records))
	copy(out, m.Records)
	return out
}
