package server

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"promptarena/internal/runner"
)

// Singleton pattern for JobManager
var (
	jobManagerInstance *JobManager
	jobManagerOnce     sync.Once
)

// Job represents one run with basic status tracking
type Job struct {
	ID          string          `json:"id"`
	Status      string          `json:"status"`   // "running", "completed", "failed", "cancelled"
	Progress    int             `json:"progress"` // 0-100
	Message     string          `json:"message"`
	Summary     *runner.Summary `json:"summary,omitempty"`
	Error       string          `json:"error,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
	CompletedAt *time.Time      `json:"completedAt,omitempty"`
	Request     RunRequest      `json:"request"`
	// Context and cancellation for proper job cancellation
	ctx        context.Context    `json:"-"`
	cancelFunc context.CancelFunc `json:"-"`
}

// JobManager tracks runs and broadcasts their progress over the hub
type JobManager struct {
	jobs           map[string]*Job
	hub            *Hub
	activeJobCount int
	mutex          sync.RWMutex
}

// NewJobManager creates a new job manager
func NewJobManager(hub *Hub) *JobManager {
	return &JobManager{
		jobs: make(map[string]*Job),
		hub:  hub,
	}
}

// GetJobManager returns the singleton JobManager instance
func GetJobManager() *JobManager {
	jobManagerOnce.Do(func() {
		jobManagerInstance = NewJobManager(GetHub())
		AppLogger.Info("Singleton JobManager instance created")
	})
	return jobManagerInstance
}

// CreateJob creates a new running job and returns it
func (jm *JobManager) CreateJob(request RunRequest) *Job {
	jm.mutex.Lock()
	defer jm.mutex.Unlock()

	ctx, cancelFunc := context.WithCancel(context.Background())
	job := &Job{
		ID:         uuid.New().String(),
		Status:     "running",
		Progress:   0,
		Message:    "Starting run...",
		CreatedAt:  time.Now(),
		Request:    request,
		ctx:        ctx,
		cancelFunc: cancelFunc,
	}

	jm.jobs[job.ID] = job
	jm.activeJobCount++
	AppLogger.InfoWithFields("Job created", map[string]interface{}{
		"jobId":      job.ID,
		"activeJobs": jm.activeJobCount,
	})
	return job
}

// GetJob retrieves a job by ID
func (jm *JobManager) GetJob(jobID string) (*Job, bool) {
	jm.mutex.RLock()
	defer jm.mutex.RUnlock()

	job, exists := jm.jobs[jobID]
	return job, exists
}

// ListJobs returns all jobs
func (jm *JobManager) ListJobs() []*Job {
	jm.mutex.RLock()
	defer jm.mutex.RUnlock()

	jobs := make([]*Job, 0, len(jm.jobs))
	for _, job := range jm.jobs {
		jobs = append(jobs, job)
	}
	return jobs
}

// JobContext returns the cancellable context of a job
func (jm *JobManager) JobContext(jobID string) (context.Context, bool) {
	jm.mutex.RLock()
	defer jm.mutex.RUnlock()

	if job, exists := jm.jobs[jobID]; exists && job.ctx != nil {
		return job.ctx, true
	}
	return nil, false
}

// UpdateProgress updates job progress and broadcasts it to subscribers
func (jm *JobManager) UpdateProgress(jobID string, update ProgressUpdate) {
	jm.mutex.Lock()
	if job, exists := jm.jobs[jobID]; exists {
		job.Progress = int(update.Progress)
		if update.Prompt != "" {
			job.Message = update.Prompt + " / " + update.Provider
		}
	} else {
		jm.mutex.Unlock()
		AppLogger.ErrorWithContext(&LogContext{JobID: jobID}, "Job not found for progress update")
		return
	}
	jm.mutex.Unlock()

	update.JobID = jobID
	update.Status = "running"
	jm.hub.Broadcast(NewProgressMessage(jobID, update))
}

// CompleteJob marks a job as completed with its summary
func (jm *JobManager) CompleteJob(jobID string, summary runner.Summary) {
	jm.mutex.Lock()
	job, exists := jm.jobs[jobID]
	if !exists {
		jm.mutex.Unlock()
		AppLogger.ErrorWithContext(&LogContext{JobID: jobID}, "Job not found for completion")
		return
	}

	job.Status = "completed"
	job.Progress = 100
	job.Message = "Run completed"
	job.Summary = &summary
	now := time.Now()
	job.CompletedAt = &now
	if jm.activeJobCount > 0 {
		jm.activeJobCount--
	}
	duration := now.Sub(job.CreatedAt).Seconds()
	jm.mutex.Unlock()

	AppLogger.InfoWithFields("Job completed", map[string]interface{}{
		"jobId":     jobID,
		"completed": summary.Completed,
		"rejected":  summary.Rejected,
		"failed":    summary.Failed,
		"skipped":   summary.Skipped,
	})

	jm.hub.Broadcast(NewCompletionMessage(jobID, CompletionMessage{
		JobID:     jobID,
		Status:    "completed",
		Summary:   summary,
		Duration:  duration,
		Completed: now,
	}))
}

// FailJob marks a job as failed with an error message
func (jm *JobManager) FailJob(jobID string, errorMsg string) {
	jm.mutex.Lock()
	job, exists := jm.jobs[jobID]
	if !exists {
		jm.mutex.Unlock()
		AppLogger.ErrorWithContext(&LogContext{JobID: jobID}, "Job not found for failure")
		return
	}

	job.Status = "failed"
	job.Message = "Run failed"
	job.Error = errorMsg
	now := time.Now()
	job.CompletedAt = &now
	if jm.activeJobCount > 0 {
		jm.activeJobCount--
	}
	jm.mutex.Unlock()

	AppLogger.ErrorWithFields("Job failed", map[string]interface{}{
		"jobId": jobID,
		"error": errorMsg,
	})

	jm.hub.Broadcast(NewErrorMessage(jobID, ErrorMessage{
		JobID: jobID,
		Error: errorMsg,
	}))
}

// CancelJob cancels a running job by cancelling its context
func (jm *JobManager) CancelJob(jobID string) bool {
	jm.mutex.Lock()
	job, exists := jm.jobs[jobID]
	if !exists {
		jm.mutex.Unlock()
		AppLogger.ErrorWithContext(&LogContext{JobID: jobID}, "Job not found for cancellation")
		return false
	}
	if job.Status != "running" || job.cancelFunc == nil {
		status := job.Status
		jm.mutex.Unlock()
		AppLogger.WarnWithContext(&LogContext{JobID: jobID}, "Job cannot be cancelled (status: %s)", status)
		return false
	}

	job.cancelFunc()
	job.Status = "cancelled"
	job.Message = "Job cancelled by user"
	job.Error = "Job cancelled by user"
	now := time.Now()
	job.CompletedAt = &now
	if jm.activeJobCount > 0 {
		jm.activeJobCount--
	}
	jm.mutex.Unlock()

	AppLogger.InfoWithContext(&LogContext{JobID: jobID}, "Job cancelled")
	jm.hub.Broadcast(NewCancellationMessage(jobID, "Job cancelled by user"))
	return true
}

// ActiveJobCount returns the number of currently running jobs
func (jm *JobManager) ActiveJobCount() int {
	jm.mutex.RLock()
	defer jm.mutex.RUnlock()
	return jm.activeJobCount
}

// CleanupOldJobs removes finished jobs older than 1 hour
func (jm *JobManager) CleanupOldJobs() {
	jm.mutex.Lock()
	defer jm.mutex.Unlock()

	cutoff := time.Now().Add(-1 * time.Hour)
	for id, job := range jm.jobs {
		if job.Status != "running" && job.CreatedAt.Before(cutoff) {
			delete(jm.jobs, id)
		}
	}
}
