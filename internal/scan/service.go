package scan

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// ServiceConfig sizes the async scan service.
type ServiceConfig struct {
	WorkerCount  int
	MaxQueueSize int
	JobTTL       time.Duration
}

// Service runs queued scan jobs on a fixed pool of workers and keeps their
// results available for polling until the TTL evicts them.
type Service struct {
	scanner *Scanner
	jobs    *JobStore
	queue   chan *Job
	log     *slog.Logger
	cfg     ServiceConfig

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewService(scanner *Scanner, log *slog.Logger, cfg ServiceConfig) *Service {
	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 2
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = 50
	}
	if cfg.JobTTL <= 0 {
		cfg.JobTTL = time.Hour
	}
	return &Service{
		scanner: scanner,
		jobs:    NewJobStore(cfg.JobTTL),
		queue:   make(chan *Job, cfg.MaxQueueSize),
		log:     log,
		cfg:     cfg,
	}
}

// Start launches the scan workers and the job-store janitor.
func (s *Service) Start(ctx context.Context) {
	workerCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	for range s.cfg.WorkerCount {
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			for {
				select {
				case <-workerCtx.Done():
					return
				case job, ok := <-s.queue:
					if !ok {
						return
					}
					s.run(workerCtx, job)
				}
			}
		}()
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-workerCtx.Done():
				return
			case <-ticker.C:
				s.jobs.Cleanup()
			}
		}
	}()
}

// Stop drains the queue and waits for in-flight scans.
func (s *Service) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	close(s.queue)
	s.wg.Wait()
}

// Submit queues a scan job.
func (s *Service) Submit(job *Job) error {
	s.jobs.Put(job)
	select {
	case s.queue <- job:
		return nil
	default:
		job.Fail(fmt.Errorf("scan queue is full (%d)", s.cfg.MaxQueueSize))
		return fmt.Errorf("scan queue is full (%d)", s.cfg.MaxQueueSize)
	}
}

// Get returns a job by id, or nil.
func (s *Service) Get(id string) *Job {
	return s.jobs.Get(id)
}

// QueueDepth returns the number of queued jobs.
func (s *Service) QueueDepth() int {
	return len(s.queue)
}

func (s *Service) run(ctx context.Context, job *Job) {
	log := s.log.With("scan_id", job.ID, "collection_id", job.CollectionID)
	job.SetStatus(StatusRunning)

	report, err := s.scanner.Scan(ctx, job.CollectionID)
	switch {
	case errors.Is(err, ErrNoDocuments):
		log.Warn("collection empty")
		job.SetStatus(StatusEmpty)
	case err != nil:
		log.Error("scan failed", "error", err)
		job.Fail(err)
	default:
		log.Info("scan completed", "findings", report.Total())
		job.Complete(report)
	}
}
