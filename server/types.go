package server

// RunRequest selects the prompt and provider subset for one run. Empty
// lists mean "all known".
type RunRequest struct {
	Prompts   []string `json:"prompts"`
	Providers []string `json:"providers"`
}

// PromptInfo describes one catalog prompt for the dashboard.
type PromptInfo struct {
	Name string `json:"name"`
	Text string `json:"text"`
	Kind string `json:"kind"`
}

// ProviderInfo describes one configured provider. The credential itself
// never leaves the process.
type ProviderInfo struct {
	Key           string `json:"key"`
	Name          string `json:"name"`
	Model         string `json:"model"`
	HasCredential bool   `json:"hasCredential"`
}

// ResultEntry is one (prompt, provider) cell of the comparison view.
type ResultEntry struct {
	Prompt      string         `json:"prompt"`
	Provider    string         `json:"provider"`
	Usage       map[string]int `json:"usage"`
	TimeSeconds float64        `json:"timeSeconds"`
	Caption     string         `json:"caption"`
	Artifact    string         `json:"artifact,omitempty"`
}

// ErrorResponse represents a standard error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}
