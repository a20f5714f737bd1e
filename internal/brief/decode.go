package brief

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var ErrEmptyPayload = errors.New("empty payload")

// FieldError names the first missing field of a variant.
type FieldError struct {
	Index int
	Field string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("variant %d: missing field %q", e.Index+1, e.Field)
}

// CountError is returned when the reply holds a different number of
// variants than the brief asked for.
type CountError struct {
	Want int
	Got  int
}

func (e *CountError) Error() string {
	return fmt.Sprintf("expected %d variants, got %d", e.Want, e.Got)
}

// rawObject keeps the reply keys verbatim. Struct decoding would match
// "SECTIONS" or "Header" case-insensitively.
type rawObject map[string]json.RawMessage

// DecodeVariants parses the service reply and checks it holds exactly want
// variants. The whole batch is rejected when any variant lacks a field;
// nothing is partially accepted.
func DecodeVariants(text string, want int) ([]Variant, error) {
	text = stripCodeFence(text)
	if text == "" {
		return nil, ErrEmptyPayload
	}

	var raw []rawObject
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return nil, fmt.Errorf("decode variants: %w", err)
	}
	if len(raw) == 0 {
		return nil, ErrEmptyPayload
	}
	if len(raw) != want {
		return nil, &CountError{Want: want, Got: len(raw)}
	}

	out := make([]Variant, 0, len(raw))
	seen := make(map[string]int, len(raw))
	for i, obj := range raw {
		v, err := decodeVariant(i, obj)
		if err != nil {
			return nil, err
		}
		if prev, ok := seen[v.ID]; ok {
			return nil, fmt.Errorf("variant %d: duplicate id %q (also variant %d)", i+1, v.ID, prev+1)
		}
		seen[v.ID] = i
		out = append(out, v)
	}
	return out, nil
}

func decodeVariant(i int, obj rawObject) (Variant, error) {
	var v Variant
	top := []struct {
		name string
		dst  *string
	}{
		{"id", &v.ID},
		{"title", &v.Title},
		{"purpose", &v.Purpose},
		{"description", &v.Description},
		{"fullPrompt", &v.FullPrompt},
	}
	for _, f := range top {
		if err := obj.stringField(i, f.name, f.name, f.dst); err != nil {
			return Variant{}, err
		}
	}

	rawSections, ok := obj["sections"]
	if !ok || isNull(rawSections) {
		return Variant{}, &FieldError{Index: i, Field: "sections"}
	}
	var sections rawObject
	if err := json.Unmarshal(rawSections, &sections); err != nil {
		return Variant{}, fmt.Errorf("variant %d: sections: %w", i+1, err)
	}

	s := &v.Sections
	fields := []struct {
		name string
		dst  *string
	}{
		{"header", &s.Header},
		{"scene", &s.Scene},
		{"placement", &s.Placement},
		{"supporting", &s.Supporting},
		{"dynamic", &s.Dynamic},
		{"lighting", &s.Lighting},
		{"camera", &s.Camera},
		{"color", &s.Color},
		{"tech", &s.Tech},
		{"quality", &s.Quality},
		{"negative", &s.Negative},
	}
	for _, f := range fields {
		if err := sections.stringField(i, f.name, "sections."+f.name, f.dst); err != nil {
			return Variant{}, err
		}
	}
	return v, nil
}

// stringField decodes obj[key] into dst. Missing and null values are
// reported as a FieldError named path.
func (obj rawObject) stringField(i int, key, path string, dst *string) error {
	raw, ok := obj[key]
	if !ok || isNull(raw) {
		return &FieldError{Index: i, Field: path}
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("variant %d: %s: %w", i+1, path, err)
	}
	return nil
}

func isNull(raw json.RawMessage) bool {
	return strings.TrimSpace(string(raw)) == "null"
}

func stripCodeFence(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.TrimPrefix(text, "```")
	if idx := strings.IndexByte(text, '\n'); idx >= 0 {
		text = text[idx+1:]
	} else {
		return ""
	}
	text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	return strings.TrimSpace(text)
}
