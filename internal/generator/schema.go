package generator

import "github.com/abhisek/eduspark/internal/llm"

// StudyPackSchema defines the JSON returned for a study pack. The mind map
// node references itself, so providers without recursive schema support
// fall back to plain JSON mode and the response is validated here.
var StudyPackSchema = &llm.Schema{
	Name:        "study-pack",
	Description: "A structured learning session built from the learner's material",
	Recursive:   true,
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"title": map[string]any{
				"type":        "string",
				"description": "Short title for the topic (3-8 words)",
			},
			"summary": map[string]any{
				"type":        "string",
				"description": "Concise summary of the material (3-5 sentences)",
			},
			"concepts": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"description": "Key concepts, one or two words each",
			},
			"quizzes": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"id":   map[string]any{"type": "string"},
						"type": map[string]any{"type": "string", "enum": []any{"multiple-choice", "true-false", "fill-blank"}},
						"question": map[string]any{
							"type": "string",
						},
						"options": map[string]any{
							"type":        []any{"array", "null"},
							"items":       map[string]any{"type": "string"},
							"description": "Choices for multiple-choice and true-false questions; omitted or null for fill-blank",
						},
						"answer": map[string]any{
							"type":        "string",
							"description": "The correct answer, verbatim one of the options when options are given",
						},
						"explanation": map[string]any{
							"type":        "string",
							"description": "One or two sentences on why the answer is correct",
						},
					},
					"required": []any{"id", "type", "question", "answer", "explanation"},
				},
			},
			"flashcards": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"id":    map[string]any{"type": "string"},
						"front": map[string]any{"type": "string"},
						"back":  map[string]any{"type": "string"},
					},
					"required": []any{"id", "front", "back"},
				},
			},
			"mindMap": map[string]any{"$ref": "#/$defs/node"},
		},
		"required": []any{"title", "summary", "concepts", "quizzes", "flashcards", "mindMap"},
		"$defs": map[string]any{
			"node": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"id":    map[string]any{"type": "string"},
					"label": map[string]any{"type": "string"},
					"children": map[string]any{
						"type":  "array",
						"items": map[string]any{"$ref": "#/$defs/node"},
					},
				},
				"required": []any{"id", "label", "children"},
			},
		},
	},
}
