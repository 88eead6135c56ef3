package worker

import (
	"fmt"
	"strings"

	"github.com/grove-ai/grove/pkg/models"
)

const generateSystemPrompt = `You are a code generation specialist. Write clean, working code.

RULES:
1. Return ONLY a JSON object with keys "code" and "explanation"
2. Code must be complete, runnable, and follow best practices for %s
3. Explanation must be brief (1-2 sentences) describing key decisions
4. No markdown formatting, no code fences, no prose outside JSON
5. If unsure, make reasonable assumptions and document in explanation

OUTPUT FORMAT:
{"code": "...", "explanation": "..."}`

const editSystemPrompt = `You are a code editing specialist. Modify existing code as requested.

RULES:
1. Return ONLY a JSON object with keys "code" and "explanation"
2. The "code" field must contain the complete modified code
3. Preserve the original code's style and conventions
4. Explanation must be brief (1-2 sentences) describing what changed
5. No markdown formatting, no code fences, no prose outside JSON

OUTPUT FORMAT:
{"code": "...", "explanation": "..."}`

const reviewSystemPrompt = `You are a code reviewer. Analyze the provided code for issues.

Focus areas: %s

Return JSON with:
- "code": (original code unchanged)
- "explanation": summary of findings
- "suggestions": array of specific improvements`

// defaultFocusAreas apply when review_code is called without focus_areas.
var defaultFocusAreas = []string{"performance", "security", "readability"}

func generatePrompts(args models.GenerateArgs) (system, user string) {
	language := args.Language
	if language == "" {
		language = "python"
	}
	system = fmt.Sprintf(generateSystemPrompt, language)

	parts := []string{
		"Task: " + args.TaskDescription,
		"Language: " + language,
	}
	if args.FilePath != "" {
		parts = append(parts, "Target file: "+args.FilePath)
	}
	if args.Context != "" {
		parts = append(parts, "Context:\n"+args.Context)
	}
	return system, strings.Join(parts, "\n")
}

func editPrompts(args models.EditArgs) (system, user string) {
	language := args.Language
	if language == "" {
		language = "python"
	}

	parts := []string{
		fmt.Sprintf("Original code:\n```\n%s\n```", args.OriginalCode),
		"Change request: " + args.ChangeRequest,
		"Language: " + language,
	}
	if args.FilePath != "" {
		parts = append(parts, "File: "+args.FilePath)
	}
	return editSystemPrompt, strings.Join(parts, "\n")
}

func reviewPrompts(args models.ReviewArgs) (system, user string) {
	focus := args.FocusAreas
	if len(focus) == 0 {
		focus = defaultFocusAreas
	}
	system = fmt.Sprintf(reviewSystemPrompt, strings.Join(focus, ", "))

	parts := []string{
		fmt.Sprintf("Code to review:\n```\n%s\n```", args.Code),
	}
	if len(args.FocusAreas) > 0 {
		parts = append(parts, "Focus on: "+strings.Join(args.FocusAreas, ", "))
	}
	return system, strings.Join(parts, "\n")
}
