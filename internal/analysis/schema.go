package analysis

import "github.com/felipemolinaphoto-cpu/rosamentaquiz/internal/llm"

// ReplySchema is the shape a well-formed analysis reply must have.
var ReplySchema = &llm.Schema{
	Name:        "design-analysis",
	Description: "A named design profile with a three-paragraph narrative",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"profileName": map[string]any{"type": "string"},
			"description": map[string]any{"type": "string"},
		},
		"required": []any{"profileName", "description"},
	},
}
