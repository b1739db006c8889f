package llm

import (
	"testing"

	"google.golang.org/genai"
)

func TestGeminiModelMapping(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"gemini-flash", "gemini-3-flash-preview"},
		{"gemini-pro", "gemini-3-pro-preview"},
		{"gemini-3-flash-preview", "gemini-3-flash-preview"}, // Pass-through
	}
	for _, tt := range tests {
		got := resolveModel(tt.input, geminiModels)
		if got != tt.expected {
			t.Errorf("resolveModel(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestBuildGeminiSchema(t *testing.T) {
	def := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"title":    map[string]any{"type": "string"},
			"score":    map[string]any{"type": "integer"},
			"type":     map[string]any{"type": "string", "enum": []any{"multiple-choice", "true-false", "fill-blank"}},
			"concepts": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
		},
		"required": []any{"title", "concepts"},
	}

	schema := buildGeminiSchema(def)

	if schema.Type != genai.TypeObject {
		t.Fatalf("expected OBJECT type, got %s", schema.Type)
	}
	if len(schema.Properties) != 4 {
		t.Fatalf("expected 4 properties, got %d", len(schema.Properties))
	}
	if schema.Properties["score"].Type != genai.TypeInteger {
		t.Fatalf("expected INTEGER for score, got %s", schema.Properties["score"].Type)
	}
	if len(schema.Properties["type"].Enum) != 3 {
		t.Fatalf("expected 3 enum values, got %d", len(schema.Properties["type"].Enum))
	}
	if schema.Properties["concepts"].Items.Type != genai.TypeString {
		t.Fatalf("expected STRING items, got %s", schema.Properties["concepts"].Items.Type)
	}
	if len(schema.Required) != 2 {
		t.Fatalf("expected 2 required fields, got %d", len(schema.Required))
	}
}

func TestBuildGeminiConfig(t *testing.T) {
	t.Run("structured output", func(t *testing.T) {
		cfg, err := buildGeminiConfig(Request{
			System:      "sys",
			Schema:      cardSchema(),
			Temperature: 0.7,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.ResponseMIMEType != "application/json" || cfg.ResponseSchema == nil {
			t.Fatalf("expected JSON mode with schema, got %q %v", cfg.ResponseMIMEType, cfg.ResponseSchema)
		}
		if cfg.Temperature == nil || *cfg.Temperature != float32(0.7) {
			t.Fatalf("temperature not set: %v", cfg.Temperature)
		}
		if cfg.SystemInstruction == nil || cfg.SystemInstruction.Parts[0].Text != "sys" {
			t.Fatal("system instruction not set")
		}
		if len(cfg.Tools) != 0 {
			t.Fatal("no tools expected")
		}
	})

	t.Run("recursive schema falls back to JSON mode", func(t *testing.T) {
		cfg, err := buildGeminiConfig(Request{Schema: treeSchema()})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.ResponseMIMEType != "application/json" {
			t.Fatalf("mime = %q", cfg.ResponseMIMEType)
		}
		if cfg.ResponseSchema != nil {
			t.Fatal("recursive schema should not be sent natively")
		}
	})

	t.Run("search grounding", func(t *testing.T) {
		cfg, err := buildGeminiConfig(Request{SearchGrounding: true})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(cfg.Tools) != 1 || cfg.Tools[0].GoogleSearch == nil {
			t.Fatalf("expected google search tool, got %+v", cfg.Tools)
		}
	})

	t.Run("grounding with schema rejected", func(t *testing.T) {
		if _, err := buildGeminiConfig(Request{SearchGrounding: true, Schema: cardSchema()}); err == nil {
			t.Fatal("expected error")
		}
	})
}

func TestBuildGeminiContents_ImageBeforeText(t *testing.T) {
	contents := buildGeminiContents([]Message{{
		Role:        RoleUser,
		Content:     "Make a study pack.",
		Attachments: []Attachment{{MIMEType: "image/webp", Data: []byte("webp")}},
	}})

	if len(contents) != 1 || contents[0].Role != "user" {
		t.Fatalf("unexpected contents %+v", contents)
	}
	parts := contents[0].Parts
	if len(parts) != 2 {
		t.Fatalf("expected 2 parts, got %d", len(parts))
	}
	if parts[0].InlineData == nil || parts[0].InlineData.MIMEType != "image/webp" {
		t.Fatalf("first part should be the image, got %+v", parts[0])
	}
	if parts[1].Text != "Make a study pack." {
		t.Fatalf("second part should be the prompt, got %q", parts[1].Text)
	}
}
