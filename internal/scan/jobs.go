package scan

import (
	"sync"
	"time"

	"github.com/helpforge/helpaudit/internal/findings"
)

// JobStatus represents the state of a scan job.
type JobStatus string

const (
	StatusQueued    JobStatus = "queued"
	StatusRunning   JobStatus = "running"
	StatusCompleted JobStatus = "completed"
	StatusEmpty     JobStatus = "empty_collection"
	StatusFailed    JobStatus = "failed"
)

// Job tracks one scan of one collection.
type Job struct {
	mu sync.Mutex

	ID             string    `json:"scan_id"`
	CollectionID   int64     `json:"collection_id"`
	CollectionName string    `json:"collection_name,omitempty"`
	Status         JobStatus `json:"status"`
	Error          string    `json:"error,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	// Set once on completion; nil until then.
	report *findings.Report
}

func NewJob(collectionID int64, collectionName string) *Job {
	now := time.Now()
	return &Job{
		ID:             NewID(),
		CollectionID:   collectionID,
		CollectionName: collectionName,
		Status:         StatusQueued,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// SetStatus updates job status atomically.
func (j *Job) SetStatus(status JobStatus) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Status = status
	j.UpdatedAt = time.Now()
}

// Fail records a terminal error.
func (j *Job) Fail(err error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Status = StatusFailed
	j.Error = err.Error()
	j.UpdatedAt = time.Now()
}

// Complete stores the finished report.
func (j *Job) Complete(r *findings.Report) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Status = StatusCompleted
	j.report = r
	j.UpdatedAt = time.Now()
}

// Report returns the finished report, or nil while the scan is pending.
func (j *Job) Report() *findings.Report {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.report
}

// Snapshot is a read-only, JSON-safe copy of job state.
type Snapshot struct {
	ID             string    `json:"scan_id"`
	CollectionID   int64     `json:"collection_id"`
	CollectionName string    `json:"collection_name,omitempty"`
	Status         JobStatus `json:"status"`
	Error          string    `json:"error,omitempty"`
	Findings       int       `json:"findings"`
	Documents      int       `json:"documents"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Snapshot copies the job state for serialization.
func (j *Job) Snapshot() Snapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	s := Snapshot{
		ID:             j.ID,
		CollectionID:   j.CollectionID,
		CollectionName: j.CollectionName,
		Status:         j.Status,
		Error:          j.Error,
		CreatedAt:      j.CreatedAt,
		UpdatedAt:      j.UpdatedAt,
	}
	if j.report != nil {
		s.Findings = j.report.Total()
		s.Documents = j.report.Documents
	}
	return s
}

// JobStore is a thread-safe in-memory job registry with TTL eviction.
type JobStore struct {
	mu   sync.Mutex
	jobs map[string]*Job
	ttl  time.Duration
}

func NewJobStore(ttl time.Duration) *JobStore {
	return &JobStore{jobs: make(map[string]*Job), ttl: ttl}
}

func (s *JobStore) Put(job *Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = job
}

func (s *JobStore) Get(id string) *Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.jobs[id]
}

// Cleanup removes jobs idle past the TTL.
func (s *JobStore) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	for id, job := range s.jobs {
		job.mu.Lock()
		idle := now.Sub(job.UpdatedAt)
		job.mu.Unlock()
		if idle > s.ttl {
			delete(s.jobs, id)
		}
	}
}
