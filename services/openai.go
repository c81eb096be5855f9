package services

import (
	"github.com/sashabaranov/go-openai"
)

// NewOpenAIClient creates a client for an OpenAI-compatible chat endpoint.
// An empty baseURL keeps the library default.
func NewOpenAIClient(apiKey, baseURL string) *openai.Client {
	config := openai.DefaultConfig(apiKey)

	if baseURL != "" {
		config.BaseURL = baseURL
	}

	return openai.NewClientWithConfig(config)
}
