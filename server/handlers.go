package server

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"promptarena/internal/catalog"
	"promptarena/internal/history"
	"promptarena/internal/pricing"
	"promptarena/internal/provider"
	"promptarena/internal/runner"
)

// App bundles the shared state behind the HTTP handlers.
type App struct {
	Catalog   *catalog.Catalog
	Registry  *provider.Registry
	Configs   []provider.Config
	Store     *history.Store
	OutputDir string
	Prices    pricing.Table
	Jobs      *JobManager
	Hub       *Hub
}

// Health handles health check requests
func (app *App) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"service":   "promptarena",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// ListPrompts returns the prompt catalog
func (app *App) ListPrompts(c *gin.Context) {
	prompts := app.Catalog.All()
	out := make([]PromptInfo, 0, len(prompts))
	for _, p := range prompts {
		out = append(out, PromptInfo{
			Name: p.Name,
			Text: p.Text,
			Kind: string(p.Kind),
		})
	}
	c.JSON(http.StatusOK, gin.H{"prompts": out})
}

// ListProviders returns the configured providers and whether each has a
// credential set, without exposing the credential itself
func (app *App) ListProviders(c *gin.Context) {
	out := make([]ProviderInfo, 0, len(app.Configs))
	for _, cfg := range app.Configs {
		out = append(out, ProviderInfo{
			Key:           cfg.Key,
			Name:          cfg.Name,
			Model:         cfg.Model,
			HasCredential: os.Getenv(cfg.CredentialEnv) != "",
		})
	}
	c.JSON(http.StatusOK, gin.H{"providers": out})
}

// Results returns every stored (prompt, provider) entry with its cost
// caption and, when the artifact file exists, its download name
func (app *App) Results(c *gin.Context) {
	hist, err := app.Store.Load()
	if err != nil {
		AppLogger.Error("Failed to load run history: %v", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "Internal Server Error",
			Message: "Failed to load run history",
			Code:    http.StatusInternalServerError,
		})
		return
	}

	out := make([]ResultEntry, 0)
	for _, p := range app.Catalog.All() {
		for _, key := range app.Registry.Keys() {
			entry, ok := hist.Get(p.Name, key)
			if !ok {
				continue
			}
			result := ResultEntry{
				Prompt:      p.Name,
				Provider:    key,
				Usage:       entry.Usage,
				TimeSeconds: entry.TimeSeconds,
				Caption:     app.Prices.Caption(key, entry),
			}
			name := p.ArtifactName(key)
			if _, err := os.Stat(filepath.Join(app.outputDir(), name)); err == nil {
				result.Artifact = name
			}
			out = append(out, result)
		}
	}
	c.JSON(http.StatusOK, gin.H{"results": out})
}

// Artifact serves one generated output file by name. Only plain file
// names produced by a run are accepted, never paths.
func (app *App) Artifact(c *gin.Context) {
	name := c.Param("name")
	if name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Bad Request",
			Message: "Invalid artifact name",
			Code:    http.StatusBadRequest,
		})
		return
	}

	path := filepath.Join(app.outputDir(), name)
	if _, err := os.Stat(path); err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "Not Found",
			Message: "Artifact does not exist",
			Code:    http.StatusNotFound,
		})
		return
	}
	c.File(path)
}

// StartRun launches an asynchronous run and returns its job ID
func (app *App) StartRun(c *gin.Context) {
	var req RunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Bad Request",
			Message: fmt.Sprintf("Invalid request body: %v", err),
			Code:    http.StatusBadRequest,
		})
		return
	}

	prompts, err := app.Catalog.Select(req.Prompts)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Bad Request",
			Message: err.Error(),
			Code:    http.StatusBadRequest,
		})
		return
	}
	providers, err := app.Registry.Select(req.Providers)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Bad Request",
			Message: err.Error(),
			Code:    http.StatusBadRequest,
		})
		return
	}

	job := app.Jobs.CreateJob(req)
	go app.runJob(job, prompts, providers)

	c.JSON(http.StatusAccepted, gin.H{
		"jobId":  job.ID,
		"status": job.Status,
		"pairs":  len(prompts) * len(providers),
	})
}

// ListRuns returns all known jobs
func (app *App) ListRuns(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"jobs": app.Jobs.ListJobs()})
}

// GetRun returns one job by ID
func (app *App) GetRun(c *gin.Context) {
	jobID := c.Param("jobId")
	job, exists := app.Jobs.GetJob(jobID)
	if !exists {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "Not Found",
			Message: "Job not found",
			Code:    http.StatusNotFound,
		})
		return
	}
	c.JSON(http.StatusOK, job)
}

// CancelRun cancels a running job
func (app *App) CancelRun(c *gin.Context) {
	jobID := c.Param("jobId")
	if app.Jobs.CancelJob(jobID) {
		c.JSON(http.StatusOK, gin.H{
			"jobId":  jobID,
			"status": "cancelled",
		})
		return
	}
	c.JSON(http.StatusNotFound, ErrorResponse{
		Error:   "Not Found",
		Message: "Job not found or not cancellable",
		Code:    http.StatusNotFound,
	})
}

// RunSocket upgrades to a WebSocket subscribed to one job's progress
func (app *App) RunSocket(c *gin.Context) {
	jobID := c.Param("jobId")
	if _, exists := app.Jobs.GetJob(jobID); !exists {
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "Not Found",
			Message: "Job not found",
			Code:    http.StatusNotFound,
		})
		return
	}
	if err := app.Hub.Serve(c, jobID); err != nil {
		AppLogger.ErrorWithContext(&LogContext{JobID: jobID}, "WebSocket upgrade failed: %v", err)
	}
}

// runJob executes one run in the background and reports its outcome
func (app *App) runJob(job *Job, prompts []catalog.Prompt, providers []provider.Provider) {
	AppLogger.InfoWithFields("Starting run", map[string]interface{}{
		"jobId":     job.ID,
		"prompts":   len(prompts),
		"providers": len(providers),
	})

	r := &runner.Runner{
		Prompts:   prompts,
		Providers: providers,
		OutputDir: app.outputDir(),
		Store:     app.Store,
		Reporter:  &jobReporter{jobs: app.Jobs, jobID: job.ID},
	}

	ctx, ok := app.Jobs.JobContext(job.ID)
	if !ok {
		app.Jobs.FailJob(job.ID, "job context missing")
		return
	}

	summary, err := r.Run(ctx)
	if err != nil {
		if ctx.Err() != nil {
			// CancelJob already transitioned the job and broadcast it
			AppLogger.InfoWithContext(&LogContext{JobID: job.ID}, "Run stopped by cancellation")
			return
		}
		app.Jobs.FailJob(job.ID, err.Error())
		return
	}
	app.Jobs.CompleteJob(job.ID, summary)
}

func (app *App) outputDir() string {
	if app.OutputDir == "" {
		return "."
	}
	return app.OutputDir
}

// jobReporter forwards runner events to the job manager, which
// broadcasts them over the hub
type jobReporter struct {
	jobs  *JobManager
	jobID string
}

func (r *jobReporter) Event(ev runner.Event) {
	progress := 0.0
	if ev.Total > 0 {
		done := ev.Pair
		if ev.Type == runner.EventStarted {
			done--
		}
		progress = float64(done) / float64(ev.Total) * 100
	}

	r.jobs.UpdateProgress(r.jobID, ProgressUpdate{
		Prompt:      ev.PromptName,
		Provider:    ev.ProviderKey,
		Event:       string(ev.Type),
		Reason:      ev.Reason,
		Progress:    progress,
		Pair:        ev.Pair,
		Total:       ev.Total,
		ElapsedTime: ev.Elapsed,
	})
}
