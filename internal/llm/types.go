package llm

import "time"

// Supported provider names.
const (
	ProviderGoogle = "google"
	ProviderOpenAI = "openai"
)

const (
	defaultOpenAIBaseURL = "https://api.openai.com/v1"
	defaultTimeout       = 60 * time.Second
)

// Config is model provider configuration.
type Config struct {
	Provider    string
	Model       string
	APIKey      string
	BaseURL     string
	Temperature float32
	Timeout     time.Duration
}

// Request is a single structured completion request.
type Request struct {
	// Task names the signature being executed. Used for logging and schema naming.
	Task         string
	Instructions string
	Input        string
	// Schema is the JSON schema of the expected response object. Empty means free text.
	Schema map[string]any
}

// Response is a single completion response.
type Response struct {
	Text             string
	PromptTokens     int
	CompletionTokens int
}
