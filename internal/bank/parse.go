package bank

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/mod/semver"

	"github.com/abhisek/ripasso/internal/validate"
)

// FormatMajor is the bank file format major version this build reads.
const FormatMajor = "v1"

var namePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]*$`)

// ErrUnsupportedVersion is returned for envelope files with a version
// outside FormatMajor.
var ErrUnsupportedVersion = errors.New("unsupported bank format version")

// File is the envelope form of a bank file. A bare JSON array of questions
// is also accepted.
type File struct {
	Version   string     `json:"version"`
	Title     string     `json:"title,omitempty"`
	Questions []Question `json:"questions"`
}

// ValidName reports whether name can be used as a bank name.
func ValidName(name string) bool {
	return namePattern.MatchString(name)
}

// Parse decodes and validates the bank file data for bank name. IDs are
// namespaced by name so that questions from different banks never collide.
func Parse(name string, data []byte) (*File, error) {
	if !ValidName(name) {
		return nil, fmt.Errorf("invalid bank name %q", name)
	}

	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	schema, err := fileSchema()
	if err != nil {
		return nil, err
	}
	if err := schema.Validate(raw); err != nil {
		return nil, fmt.Errorf("schema validation failed: %w", err)
	}

	f := &File{Version: FormatMajor + ".0.0"}
	if bytes.HasPrefix(bytes.TrimSpace(data), []byte("[")) {
		if err := json.Unmarshal(data, &f.Questions); err != nil {
			return nil, fmt.Errorf("decode questions: %w", err)
		}
	} else {
		if err := json.Unmarshal(data, f); err != nil {
			return nil, fmt.Errorf("decode bank: %w", err)
		}
		if !semver.IsValid(f.Version) || semver.Major(f.Version) != FormatMajor {
			return nil, fmt.Errorf("%w: %q (want %s.x.y)", ErrUnsupportedVersion, f.Version, FormatMajor)
		}
	}

	if len(f.Questions) == 0 {
		return nil, errors.New("bank has no questions")
	}

	ids := make(map[string]int, len(f.Questions))
	for i := range f.Questions {
		q := &f.Questions[i]
		if q.ID == "" {
			q.ID = fmt.Sprintf("%s-%d", name, i+1)
		} else {
			q.ID = name + "/" + q.ID
		}
		if prev, dup := ids[q.ID]; dup {
			return nil, fmt.Errorf("question %d: duplicate id %q (first used by question %d)", i+1, q.ID, prev+1)
		}
		ids[q.ID] = i

		if err := validate.Struct(q); err != nil {
			return nil, fmt.Errorf("question %d: %w", i+1, err)
		}
		if err := q.checkStructure(); err != nil {
			return nil, fmt.Errorf("question %d: %w", i+1, err)
		}
	}

	return f, nil
}

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

func fileSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		c := jsonschema.NewCompiler()
		const url = "schema://bank.json"
		if err := c.AddResource(url, bankSchema()); err != nil {
			schemaErr = fmt.Errorf("add resource: %w", err)
			return
		}
		compiledSchema, schemaErr = c.Compile(url)
	})
	return compiledSchema, schemaErr
}

func bankSchema() any {
	question := map[string]any{
		"type":     "object",
		"required": []any{"question", "options", "correct"},
		"properties": map[string]any{
			"id":       map[string]any{"type": "string"},
			"question": map[string]any{"type": "string", "minLength": float64(1)},
			"options": map[string]any{
				"type":                 "object",
				"minProperties":        float64(1),
				"additionalProperties": map[string]any{"type": "string"},
			},
			"correct": map[string]any{
				"type":     "array",
				"minItems": float64(1),
				"items":    map[string]any{"type": "string"},
			},
			"explanation": map[string]any{"type": "string"},
		},
	}
	questions := map[string]any{
		"type":  "array",
		"items": question,
	}
	return map[string]any{
		"oneOf": []any{
			questions,
			map[string]any{
				"type":     "object",
				"required": []any{"version", "questions"},
				"properties": map[string]any{
					"version":   map[string]any{"type": "string"},
					"title":     map[string]any{"type": "string"},
					"questions": questions,
				},
			},
		},
	}
}
