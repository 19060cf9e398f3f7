package scan

import (
	"context"
	"testing"
	"time"

	"github.com/helpforge/helpaudit/internal/dms"
)

func waitForTerminal(t *testing.T, svc *Service, id string) JobStatus {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		job := svc.Get(id)
		if job == nil {
			t.Fatal("job disappeared")
		}
		switch status := job.Snapshot().Status; status {
		case StatusCompleted, StatusEmpty, StatusFailed:
			return status
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("job never reached a terminal status")
	return ""
}

func TestService_EmptyCollectionStatus(t *testing.T) {
	scanner := NewScanner(&fakeSource{}, testLogger(), Options{})
	svc := NewService(scanner, testLogger(), ServiceConfig{WorkerCount: 1, MaxQueueSize: 2})
	svc.Start(context.Background())
	defer svc.Stop()

	job := NewJob(7, "")
	if err := svc.Submit(job); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if got := waitForTerminal(t, svc, job.ID); got != StatusEmpty {
		t.Errorf("expected empty_collection, got %s", got)
	}
}

func TestService_CompletesScan(t *testing.T) {
	src := &fakeSource{
		files: []dms.FileRef{{ID: 1, Name: "Proj_en-US_a.html"}},
		content: map[int64][]byte{
			1: []byte(`<body><a href="nowhere.html">x</a></body>`),
		},
	}
	scanner := NewScanner(src, testLogger(), Options{})
	svc := NewService(scanner, testLogger(), ServiceConfig{WorkerCount: 1, MaxQueueSize: 2})
	svc.Start(context.Background())
	defer svc.Stop()

	job := NewJob(7, "Help EN")
	if err := svc.Submit(job); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if got := waitForTerminal(t, svc, job.ID); got != StatusCompleted {
		t.Fatalf("expected completed, got %s", got)
	}
	rep := job.Report()
	if rep == nil || rep.Total() != 1 {
		t.Errorf("expected a report with 1 finding, got %+v", rep)
	}
}

func TestService_QueueFull(t *testing.T) {
	scanner := NewScanner(&fakeSource{}, testLogger(), Options{})
	// Never started: nothing drains the queue.
	svc := NewService(scanner, testLogger(), ServiceConfig{WorkerCount: 1, MaxQueueSize: 1})

	if err := svc.Submit(NewJob(1, "")); err != nil {
		t.Fatalf("first submit should queue: %v", err)
	}
	overflow := NewJob(2, "")
	if err := svc.Submit(overflow); err == nil {
		t.Fatal("expected queue-full error")
	}
	if got := overflow.Snapshot().Status; got != StatusFailed {
		t.Errorf("expected overflow job marked failed, got %s", got)
	}
	if svc.QueueDepth() != 1 {
		t.Errorf("expected queue depth 1, got %d", svc.QueueDepth())
	}
}
