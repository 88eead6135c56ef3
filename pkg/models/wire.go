package models

// OpenRouter chat-completions wire format.

// ChatMessage represents a single message in a chat conversation.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ResponseFormat hints the response encoding to the upstream model.
type ResponseFormat struct {
	Type string `json:"type"`
}

// ProviderPrefs selects upstream providers and carries the ZDR requirement.
type ProviderPrefs struct {
	Order      []string `json:"order"`
	RequireZDR bool     `json:"require_zdr"`
}

// ChatCompletionRequest is the request body sent to /chat/completions.
type ChatCompletionRequest struct {
	Model          string          `json:"model"`
	Messages       []ChatMessage   `json:"messages"`
	ResponseFormat *ResponseFormat `json:"response_format,omitempty"`
	Provider       *ProviderPrefs  `json:"provider,omitempty"`
	Reasoning      bool            `json:"reasoning,omitempty"`
}

// Usage holds token counts reported by the upstream response.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Choice represents a single completion choice.
type Choice struct {
	Index        int         `json:"index"`
	Message      ChatMessage `json:"message"`
	FinishReason string      `json:"finish_reason"`
}

// ChatCompletionResponse is the response body from /chat/completions.
type ChatCompletionResponse struct {
	ID      string   `json:"id"`
	Model   string   `json:"model"`
	Choices []Choice `json:"choices"`
	Usage   *Usage   `json:"usage,omitempty"`
}
