package models

// The closed set of tool names exposed by the dispatcher.
const (
	ToolGenerateCode = "generate_code"
	ToolEditCode     = "edit_code"
	ToolReviewCode   = "review_code"
	ToolCostReport   = "get_cost_report"
)

// GenerateArgs are the arguments for the generate_code tool.
type GenerateArgs struct {
	FilePath        string `json:"file_path,omitempty"`
	TaskDescription string `json:"task_description"`
	Language        string `json:"language"`
	Context         string `json:"context,omitempty"`
}

// EditArgs are the arguments for the edit_code tool.
type EditArgs struct {
	FilePath      string `json:"file_path,omitempty"`
	OriginalCode  string `json:"original_code"`
	ChangeRequest string `json:"change_request"`
	Language      string `json:"language"`
}

// ReviewArgs are the arguments for the review_code tool.
type ReviewArgs struct {
	Code       string   `json:"code"`
	FocusAreas []string `json:"focus_areas,omitempty"`
}

// ReportArgs are the arguments for the get_cost_report tool.
type ReportArgs struct {
	Period string `json:"period"`
	Tool   string `json:"tool,omitempty"`
}

// TokenUsage counts input and output tokens for a single request.
type TokenUsage struct {
	Input  int `json:"input"`
	Output int `json:"output"`
}

// GenerationResult is the outcome of a generate/edit/review call.
// Suggestions is only populated by review_code.
type GenerationResult struct {
	Code        string     `json:"code"`
	Explanation string     `json:"explanation"`
	Suggestions []string   `json:"suggestions"`
	CostUSD     float64    `json:"cost_usd"`
	TokensUsed  TokenUsage `json:"tokens_used"`
}
