package models

import "time"

// RequestRecord is one immutable row in the request ledger.
type RequestRecord struct {
	ID           int64     `json:"id"`
	RequestID    string    `json:"request_id"`
	ToolName     string    `json:"tool_name"`
	CostUSD      float64   `json:"cost_usd"`
	InputTokens  int       `json:"input_tokens"`
	OutputTokens int       `json:"output_tokens"`
	FilePath     string    `json:"file_path,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// ReportRow aggregates requests for one (calendar date, tool) pair.
type ReportRow struct {
	Date     string  `json:"date"`
	Tool     string  `json:"tool"`
	Requests int     `json:"requests"`
	CostUSD  float64 `json:"cost_usd"`
}

// Report is a cost report over a time window.
type Report struct {
	TotalRequests int         `json:"total_requests"`
	TotalCostUSD  float64     `json:"total_cost_usd"`
	Breakdown     []ReportRow `json:"breakdown"`
}
