package server

import (
	"encoding/json"
	"time"

	"promptarena/internal/runner"
)

// WebSocket message types
const (
	MessageTypeProgress  = "progress"
	MessageTypeError     = "error"
	MessageTypeComplete  = "complete"
	MessageTypeCancelled = "cancelled"
)

// WebSocketMessage represents a message sent over WebSocket
type WebSocketMessage struct {
	Type      string      `json:"type"`
	JobID     string      `json:"jobId,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data,omitempty"`
}

// ProgressUpdate represents run progress information
type ProgressUpdate struct {
	JobID       string  `json:"jobId"`
	Status      string  `json:"status"` // "running", "completed", "failed", "cancelled"
	Prompt      string  `json:"prompt,omitempty"`
	Provider    string  `json:"provider,omitempty"`
	Event       string  `json:"event,omitempty"` // per-pair event type
	Reason      string  `json:"reason,omitempty"`
	Progress    float64 `json:"progress"` // 0-100
	Pair        int     `json:"pair,omitempty"`
	Total       int     `json:"total,omitempty"`
	ElapsedTime float64 `json:"elapsedTime,omitempty"` // seconds for the pair
}

// CompletionMessage represents run completion information
type CompletionMessage struct {
	JobID     string         `json:"jobId"`
	Status    string         `json:"status"`
	Summary   runner.Summary `json:"summary"`
	Duration  float64        `json:"duration"` // total duration in seconds
	Completed time.Time      `json:"completed"`
}

// ErrorMessage represents error information
type ErrorMessage struct {
	JobID   string `json:"jobId"`
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// NewProgressMessage creates a progress update message
func NewProgressMessage(jobID string, progress ProgressUpdate) *WebSocketMessage {
	return &WebSocketMessage{
		Type:      MessageTypeProgress,
		JobID:     jobID,
		Timestamp: time.Now(),
		Data:      progress,
	}
}

// NewCompletionMessage creates a completion message
func NewCompletionMessage(jobID string, completion CompletionMessage) *WebSocketMessage {
	return &WebSocketMessage{
		Type:      MessageTypeComplete,
		JobID:     jobID,
		Timestamp: time.Now(),
		Data:      completion,
	}
}

// NewErrorMessage creates an error message
func NewErrorMessage(jobID string, errMsg ErrorMessage) *WebSocketMessage {
	return &WebSocketMessage{
		Type:      MessageTypeError,
		JobID:     jobID,
		Timestamp: time.Now(),
		Data:      errMsg,
	}
}

// NewCancellationMessage creates a cancellation message
func NewCancellationMessage(jobID string, reason string) *WebSocketMessage {
	return &WebSocketMessage{
		Type:      MessageTypeCancelled,
		JobID:     jobID,
		Timestamp: time.Now(),
		Data:      map[string]string{"reason": reason},
	}
}

// ToJSON converts a WebSocket message to JSON bytes
func (m *WebSocketMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}
