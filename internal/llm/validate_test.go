package llm

import (
	"encoding/json"
	"errors"
	"testing"
)

func cardSchema() *Schema {
	return &Schema{
		Name:        "test-flashcard",
		Description: "A flashcard",
		Definition: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"front": map[string]any{"type": "string"},
				"back":  map[string]any{"type": "string"},
				"kind":  map[string]any{"type": "string", "enum": []any{"term", "fact"}},
				"box":   map[string]any{"type": "integer", "minimum": 0},
			},
			"required": []any{"front", "back"},
		},
	}
}

// treeSchema is a self-referencing schema, like a mind map.
func treeSchema() *Schema {
	return &Schema{
		Name:      "test-tree",
		Recursive: true,
		Definition: map[string]any{
			"$ref": "#/$defs/node",
			"$defs": map[string]any{
				"node": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"label": map[string]any{"type": "string"},
						"children": map[string]any{
							"type":  "array",
							"items": map[string]any{"$ref": "#/$defs/node"},
						},
					},
					"required": []any{"label", "children"},
				},
			},
		},
	}
}

func TestValidateResponse(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{"valid", `{"front":"ATP","back":"Energy currency","kind":"term","box":1}`, false},
		{"without optional", `{"front":"ATP","back":"Energy currency"}`, false},
		{"missing required", `{"front":"ATP"}`, true},
		{"wrong type", `{"front":"ATP","back":"x","box":"one"}`, true},
		{"invalid enum", `{"front":"ATP","back":"x","kind":"quote"}`, true},
		{"malformed", `{not json}`, true},
		{"empty", ``, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateResponse(cardSchema(), json.RawMessage(tt.raw))
			if (err != nil) != tt.wantErr {
				t.Fatalf("validateResponse() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				var invErr *ErrInvalidResponse
				if !errors.As(err, &invErr) {
					t.Fatalf("expected ErrInvalidResponse, got: %T", err)
				}
			}
		})
	}
}

func TestValidateResponse_NilSchema(t *testing.T) {
	if err := validateResponse(nil, json.RawMessage(`{"anything":"goes"}`)); err != nil {
		t.Fatalf("expected no error with nil schema, got: %v", err)
	}
}

func TestValidateResponse_RecursiveTree(t *testing.T) {
	valid := json.RawMessage(`{"label":"Biology","children":[{"label":"Cells","children":[{"label":"Mitochondria","children":[]}]}]}`)
	if err := validateResponse(treeSchema(), valid); err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	// A grandchild without children fails deep in the tree.
	invalid := json.RawMessage(`{"label":"Biology","children":[{"label":"Cells","children":[{"label":"Mitochondria"}]}]}`)
	if err := validateResponse(treeSchema(), invalid); err == nil {
		t.Fatal("expected error for node missing children")
	}
}

func TestCleanJSON(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`{"a":1}`, `{"a":1}`},
		{"  {\"a\":1}\n", `{"a":1}`},
		{"```json\n{\"a\":1}\n```", `{"a":1}`},
		{"```\n{\"a\":1}\n```", `{"a":1}`},
		{"Here is your study pack:\n{\"a\":{\"b\":2}}\nGood luck!", `{"a":{"b":2}}`},
		{"[1,2]", `[1,2]`},
		{"no json here", `no json here`},
		{"```json\n{\"a\":1}\n```\nNote: use {x} to mark blanks.", `{"a":1}`},
		{"Pick {one}: {\"a\":[1]} then stop.", `{"a":[1]}`},
		{"{\"a\":1} trailing }", `{"a":1}`},
		{"{\"a\":", "{\"a\":"},
	}
	for _, tt := range tests {
		if got := string(cleanJSON(json.RawMessage(tt.in))); got != tt.want {
			t.Errorf("cleanJSON(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestValidateJSON(t *testing.T) {
	got, err := ValidateJSON(cardSchema(), json.RawMessage("```json\n{\"front\":\"a\",\"back\":\"b\"}\n```"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(got) != `{"front":"a","back":"b"}` {
		t.Errorf("ValidateJSON returned %q", got)
	}

	_, err = ValidateJSON(cardSchema(), json.RawMessage(`{"front":"a"}`))
	var invalid *ErrInvalidResponse
	if !errors.As(err, &invalid) {
		t.Errorf("expected ErrInvalidResponse, got %v", err)
	}
}

func TestCompileCachesPerSchema(t *testing.T) {
	s := cardSchema()
	a, err := compile(s)
	if err != nil {
		t.Fatal(err)
	}
	b, err := compile(s)
	if err != nil {
		t.Fatal(err)
	}
	if a != b {
		t.Error("expected the cached validator to be reused")
	}

	// Same name, different definition: must not reuse the first one.
	other := cardSchema()
	other.Definition["required"] = []any{"front", "back", "kind"}
	if err := validateResponse(other, json.RawMessage(`{"front":"a","back":"b"}`)); err == nil {
		t.Error("expected the stricter schema to reject a missing kind")
	}
}
