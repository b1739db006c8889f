package llm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// compiled holds one compiled validator per *Schema. Schemas are package
// level values, so the pointer is a stable key.
var compiled sync.Map // map[*Schema]*jsonschema.Schema

// ValidateJSON extracts the JSON document from raw and checks it against
// schema. It returns the extracted JSON. Failures are *ErrInvalidResponse.
func ValidateJSON(schema *Schema, raw json.RawMessage) (json.RawMessage, error) {
	doc := cleanJSON(raw)
	if err := validateResponse(schema, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// validateResponse checks raw against schema. A nil schema accepts anything.
func validateResponse(schema *Schema, raw json.RawMessage) error {
	if schema == nil {
		return nil
	}

	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return &ErrInvalidResponse{Content: raw, Err: fmt.Errorf("invalid JSON: %w", err)}
	}

	v, err := compile(schema)
	if err != nil {
		return &ErrInvalidResponse{Content: raw, Err: err}
	}
	if err := v.Validate(doc); err != nil {
		return &ErrInvalidResponse{Content: raw, Err: fmt.Errorf("%s: %w", schema.Name, err)}
	}
	return nil
}

func compile(schema *Schema) (*jsonschema.Schema, error) {
	if v, ok := compiled.Load(schema); ok {
		return v.(*jsonschema.Schema), nil
	}

	// The compiler wants decoded JSON values, not Go maps of arbitrary types.
	b, err := json.Marshal(schema.Definition)
	if err != nil {
		return nil, fmt.Errorf("marshal schema %q: %w", schema.Name, err)
	}
	var def any
	if err := json.Unmarshal(b, &def); err != nil {
		return nil, fmt.Errorf("decode schema %q: %w", schema.Name, err)
	}

	c := jsonschema.NewCompiler()
	url := "mem://" + schema.Name + ".json"
	if err := c.AddResource(url, def); err != nil {
		return nil, fmt.Errorf("add schema %q: %w", schema.Name, err)
	}
	v, err := c.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("compile schema %q: %w", schema.Name, err)
	}

	actual, _ := compiled.LoadOrStore(schema, v)
	return actual.(*jsonschema.Schema), nil
}

// cleanJSON returns the JSON object or array inside raw, dropping markdown
// fences and any prose a model put around it. The first complete value wins;
// anything after it is ignored.
func cleanJSON(raw json.RawMessage) json.RawMessage {
	b := bytes.TrimSpace(raw)
	for off := 0; off < len(b); {
		i := bytes.IndexAny(b[off:], "{[")
		if i < 0 {
			break
		}
		start := off + i
		var v json.RawMessage
		if err := json.NewDecoder(bytes.NewReader(b[start:])).Decode(&v); err == nil {
			return v
		}
		off = start + 1
	}
	return b
}
