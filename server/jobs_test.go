package server

import (
	"os"
	"testing"
	"time"

	"promptarena/internal/runner"
)

func TestMain(m *testing.M) {
	AppLogger = NewLogger()
	os.Exit(m.Run())
}

func TestJobManager_CreateAndGet(t *testing.T) {
	jm := NewJobManager(NewHub())

	job := jm.CreateJob(RunRequest{Prompts: []string{"hexagon"}})
	if job.ID == "" {
		t.Fatal("Expected a job ID")
	}
	if job.Status != "running" {
		t.Errorf("Expected status 'running', got %q", job.Status)
	}
	if job.Progress != 0 {
		t.Errorf("Expected progress 0, got %d", job.Progress)
	}
	if jm.ActiveJobCount() != 1 {
		t.Errorf("Expected 1 active job, got %d", jm.ActiveJobCount())
	}

	got, exists := jm.GetJob(job.ID)
	if !exists {
		t.Fatal("Expected job to be retrievable")
	}
	if len(got.Request.Prompts) != 1 || got.Request.Prompts[0] != "hexagon" {
		t.Errorf("Expected request preserved, got %+v", got.Request)
	}

	if _, exists := jm.GetJob("nonesuch"); exists {
		t.Error("Expected unknown job ID to not resolve")
	}
}

func TestJobManager_Complete(t *testing.T) {
	jm := NewJobManager(NewHub())
	job := jm.CreateJob(RunRequest{})

	summary := runner.Summary{Attempted: 4, Completed: 3, Rejected: 1}
	jm.CompleteJob(job.ID, summary)

	got, _ := jm.GetJob(job.ID)
	if got.Status != "completed" {
		t.Errorf("Expected status 'completed', got %q", got.Status)
	}
	if got.Progress != 100 {
		t.Errorf("Expected progress 100, got %d", got.Progress)
	}
	if got.Summary == nil || got.Summary.Completed != 3 {
		t.Errorf("Expected summary stored, got %+v", got.Summary)
	}
	if got.CompletedAt == nil {
		t.Error("Expected a completion timestamp")
	}
	if jm.ActiveJobCount() != 0 {
		t.Errorf("Expected 0 active jobs, got %d", jm.ActiveJobCount())
	}
}

func TestJobManager_Fail(t *testing.T) {
	jm := NewJobManager(NewHub())
	job := jm.CreateJob(RunRequest{})

	jm.FailJob(job.ID, "persisting run history: disk full")

	got, _ := jm.GetJob(job.ID)
	if got.Status != "failed" {
		t.Errorf("Expected status 'failed', got %q", got.Status)
	}
	if got.Error != "persisting run history: disk full" {
		t.Errorf("Expected the error message stored, got %q", got.Error)
	}
	if jm.ActiveJobCount() != 0 {
		t.Errorf("Expected 0 active jobs, got %d", jm.ActiveJobCount())
	}
}

func TestJobManager_Cancel(t *testing.T) {
	jm := NewJobManager(NewHub())
	job := jm.CreateJob(RunRequest{})

	ctx, ok := jm.JobContext(job.ID)
	if !ok {
		t.Fatal("Expected a job context")
	}

	if !jm.CancelJob(job.ID) {
		t.Fatal("Expected cancellation to succeed")
	}

	select {
	case <-ctx.Done():
	default:
		t.Error("Expected the job context to be cancelled")
	}

	got, _ := jm.GetJob(job.ID)
	if got.Status != "cancelled" {
		t.Errorf("Expected status 'cancelled', got %q", got.Status)
	}

	// A finished job cannot be cancelled again.
	if jm.CancelJob(job.ID) {
		t.Error("Expected second cancellation to fail")
	}
	if jm.CancelJob("nonesuch") {
		t.Error("Expected cancellation of unknown job to fail")
	}
}

func TestJobManager_CleanupOldJobs(t *testing.T) {
	jm := NewJobManager(NewHub())

	finished := jm.CreateJob(RunRequest{})
	jm.CompleteJob(finished.ID, runner.Summary{})
	stillRunning := jm.CreateJob(RunRequest{})

	// Age both jobs past the retention window.
	jm.mutex.Lock()
	jm.jobs[finished.ID].CreatedAt = time.Now().Add(-2 * time.Hour)
	jm.jobs[stillRunning.ID].CreatedAt = time.Now().Add(-2 * time.Hour)
	jm.mutex.Unlock()

	jm.CleanupOldJobs()

	if _, exists := jm.GetJob(finished.ID); exists {
		t.Error("Expected the old finished job to be removed")
	}
	if _, exists := jm.GetJob(stillRunning.ID); !exists {
		t.Error("Expected the old running job to survive cleanup")
	}
}

func TestJobManager_UpdateProgress(t *testing.T) {
	jm := NewJobManager(NewHub())
	job := jm.CreateJob(RunRequest{})

	jm.UpdateProgress(job.ID, ProgressUpdate{
		Prompt:   "hexagon",
		Provider: "gpt",
		Progress: 25,
		Pair:     1,
		Total:    4,
	})

	got, _ := jm.GetJob(job.ID)
	if got.Progress != 25 {
		t.Errorf("Expected progress 25, got %d", got.Progress)
	}
	if got.Message != "hexagon / gpt" {
		t.Errorf("Expected pair message, got %q", got.Message)
	}
}
