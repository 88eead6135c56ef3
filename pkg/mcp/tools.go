package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"log"

	"github.com/grove-ai/grove/pkg/budget"
	"github.com/grove-ai/grove/pkg/ledger"
	"github.com/grove-ai/grove/pkg/models"
)

// allTools is the list of tool definitions exposed via tools/list.
var allTools = []ToolDefinition{
	{
		Name:        models.ToolGenerateCode,
		Description: "Generate new code using the DeepSeek specialist",
		InputSchema: map[string]any{
			"type":     "object",
			"required": []string{"task_description", "language"},
			"properties": map[string]any{
				"file_path": map[string]any{
					"type":        "string",
					"description": "Target file path (for context)",
				},
				"task_description": map[string]any{
					"type":        "string",
					"description": "What to build",
				},
				"language": map[string]any{
					"type":        "string",
					"description": "Programming language (python, typescript, etc.)",
				},
				"context": map[string]any{
					"type":        "string",
					"description": "Optional surrounding code or documentation",
				},
			},
		},
	},
	{
		Name:        models.ToolEditCode,
		Description: "Edit existing code using the DeepSeek specialist",
		InputSchema: map[string]any{
			"type":     "object",
			"required": []string{"original_code", "change_request", "language"},
			"properties": map[string]any{
				"file_path": map[string]any{
					"type":        "string",
					"description": "Path to the file being edited",
				},
				"original_code": map[string]any{
					"type":        "string",
					"description": "Current code block to modify",
				},
				"change_request": map[string]any{
					"type":        "string",
					"description": "What to change",
				},
				"language": map[string]any{
					"type":        "string",
					"description": "Programming language",
				},
			},
		},
	},
	{
		Name:        models.ToolReviewCode,
		Description: "Review code for issues using DeepSeek reasoning mode",
		InputSchema: map[string]any{
			"type":     "object",
			"required": []string{"code"},
			"properties": map[string]any{
				"code": map[string]any{
					"type":        "string",
					"description": "Code to review",
				},
				"focus_areas": map[string]any{
					"type":        "array",
					"items":       map[string]any{"type": "string"},
					"description": "Areas to focus on (performance, security, readability)",
				},
			},
		},
	},
	{
		Name:        models.ToolCostReport,
		Description: "Query the cost tracking ledger",
		InputSchema: map[string]any{
			"type":     "object",
			"required": []string{"period"},
			"properties": map[string]any{
				"period": map[string]any{
					"type":        "string",
					"enum":        []string{"today", "week", "month", "all"},
					"description": "Time period for the report",
				},
				"tool": map[string]any{
					"type":        "string",
					"description": "Filter by tool name (optional)",
				},
			},
		},
	},
}

func textResult(text string) ToolCallResult {
	return ToolCallResult{
		Content: []ContentBlock{{Type: "text", Text: text}},
	}
}

func errorResult(text string) ToolCallResult {
	return ToolCallResult{
		Content: []ContentBlock{{Type: "text", Text: text}},
		IsError: true,
	}
}

func jsonResult(v any) ToolCallResult {
	data, err := json.Marshal(v)
	if err != nil {
		return errorResult("serialize result: " + err.Error())
	}
	return textResult(string(data))
}

// callTool routes a tool call over the closed tool set. Unknown names are
// an explicit error result, never a crash.
func (s *Server) callTool(ctx context.Context, name string, rawArgs json.RawMessage) ToolCallResult {
	switch name {
	case models.ToolGenerateCode:
		var args models.GenerateArgs
		if err := unmarshalArgs(rawArgs, &args); err != nil {
			return errorResult("invalid arguments: " + err.Error())
		}
		return s.generation(ctx, name, args.FilePath, func() (*models.GenerationResult, error) {
			return s.worker.Generate(ctx, args)
		})
	case models.ToolEditCode:
		var args models.EditArgs
		if err := unmarshalArgs(rawArgs, &args); err != nil {
			return errorResult("invalid arguments: " + err.Error())
		}
		return s.generation(ctx, name, args.FilePath, func() (*models.GenerationResult, error) {
			return s.worker.Edit(ctx, args)
		})
	case models.ToolReviewCode:
		var args models.ReviewArgs
		if err := unmarshalArgs(rawArgs, &args); err != nil {
			return errorResult("invalid arguments: " + err.Error())
		}
		return s.generation(ctx, name, "", func() (*models.GenerationResult, error) {
			return s.worker.Review(ctx, args)
		})
	case models.ToolCostReport:
		return s.costReport(ctx, rawArgs)
	default:
		return errorResult("unknown tool: " + name)
	}
}

func unmarshalArgs(raw json.RawMessage, v any) error {
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, v)
}

// generation runs a worker call behind the budget gate and records the
// result's cost in the ledger before returning it. Failed calls write
// nothing.
func (s *Server) generation(ctx context.Context, toolName, filePath string, invoke func() (*models.GenerationResult, error)) ToolCallResult {
	if s.enforcer != nil {
		if err := s.enforcer.Check(ctx); err != nil {
			if errors.Is(err, budget.ErrLimitExceeded) {
				return errorResult(err.Error())
			}
			return errorResult("budget check failed: " + err.Error())
		}
	}

	result, err := invoke()
	if err != nil {
		log.Printf("mcp: %s failed: %v", toolName, err)
		return errorResult(err.Error())
	}

	rec := models.RequestRecord{
		ToolName:     toolName,
		CostUSD:      result.CostUSD,
		InputTokens:  result.TokensUsed.Input,
		OutputTokens: result.TokensUsed.Output,
		FilePath:     filePath,
	}
	if err := s.ledger.Record(ctx, rec); err != nil {
		log.Printf("mcp: ledger record failed for %s: %v", toolName, err)
		return errorResult("record request: " + err.Error())
	}

	return jsonResult(result)
}

func (s *Server) costReport(ctx context.Context, rawArgs json.RawMessage) ToolCallResult {
	var args models.ReportArgs
	if err := unmarshalArgs(rawArgs, &args); err != nil {
		return errorResult("invalid arguments: " + err.Error())
	}
	if args.Period == "" {
		args.Period = string(ledger.PeriodToday)
	}

	period, err := ledger.ParsePeriod(args.Period)
	if err != nil {
		return errorResult(err.Error())
	}

	report, err := s.ledger.Report(ctx, period, args.Tool)
	if err != nil {
		return errorResult("fetch report: " + err.Error())
	}
	return jsonResult(report)
}
