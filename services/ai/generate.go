package ai

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"
)

// GenerationErrorKind separates transport failures from unusable answers.
type GenerationErrorKind string

const (
	KindProvider GenerationErrorKind = "provider_error"
	KindParse    GenerationErrorKind = "parse_error"
)

// GenerationError is returned by every generation step. Completion is set when
// the model answered but the answer could not be used.
type GenerationError struct {
	Kind       GenerationErrorKind
	Err        error
	Completion *Completion
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// Validator is implemented by decoded answers that carry range or enum rules.
type Validator interface {
	Validate() error
}

// GenerateJSON calls the model once and decodes the first JSON object of the
// answer into T. Every key in requiredKeys must be present and non-null; a
// missing or null key is a parse failure rather than a zero value.
func GenerateJSON[T any](ctx context.Context, model Model, req Request, requiredKeys ...string) (T, *Completion, error) {
	var out T

	completion, err := model.Complete(ctx, req)
	if err != nil {
		return out, nil, &GenerationError{Kind: KindProvider, Err: err}
	}

	raw, ok := ExtractJSONObject(completion.Text)
	if !ok {
		return out, completion, &GenerationError{Kind: KindParse, Err: fmt.Errorf("no JSON object in model response"), Completion: completion}
	}
	if !gjson.Valid(raw) {
		return out, completion, &GenerationError{Kind: KindParse, Err: fmt.Errorf("model response is not valid JSON"), Completion: completion}
	}

	parsed := gjson.Parse(raw)
	for _, key := range requiredKeys {
		value := parsed.Get(key)
		if !value.Exists() {
			return out, completion, &GenerationError{Kind: KindParse, Err: fmt.Errorf("missing key %q", key), Completion: completion}
		}
		if value.Type == gjson.Null {
			return out, completion, &GenerationError{Kind: KindParse, Err: fmt.Errorf("key %q is null", key), Completion: completion}
		}
	}

	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return out, completion, &GenerationError{Kind: KindParse, Err: fmt.Errorf("failed to decode model response: %w", err), Completion: completion}
	}

	if v, ok := any(&out).(Validator); ok {
		if err := v.Validate(); err != nil {
			return out, completion, &GenerationError{Kind: KindParse, Err: err, Completion: completion}
		}
	}

	return out, completion, nil
}

// ExtractJSONObject returns the first balanced top-level {...} in text.
// Braces inside string literals are ignored.
func ExtractJSONObject(text string) (string, bool) {
	start := -1
	depth := 0
	inString := false
	escaped := false

	for i := 0; i < len(text); i++ {
		ch := text[i]
		if start < 0 {
			if ch == '{' {
				start = i
				depth = 1
			}
			continue
		}

		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}

		switch ch {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return text[start : i+1], true
			}
		}
	}
	return "", false
}
