package explain

import "github.com/abhisek/ripasso/internal/llm"

// ExplanationSchema defines the JSON schema for question explanations.
var ExplanationSchema = &llm.Schema{
	Name:        "question-explanation",
	Description: "Explanation of the correct answer of a multiple-choice question",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"summary": map[string]any{
				"type":        "string",
				"description": "The key fact the question tests (1-2 sentences)",
			},
			"why_correct": map[string]any{
				"type":        "string",
				"description": "Why the correct option(s) are right (2-4 sentences)",
			},
			"distractors": map[string]any{
				"type":        "array",
				"description": "One entry per wrong option",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"letter": map[string]any{
							"type":        "string",
							"description": "Letter of the wrong option",
						},
						"reason": map[string]any{
							"type":        "string",
							"description": "Why this option is wrong (one sentence)",
						},
					},
					"required":             []any{"letter", "reason"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []any{"summary", "why_correct", "distractors"},
		"additionalProperties": false,
	},
}
