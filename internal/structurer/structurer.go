package structurer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"docgen-backend/internal/llm"
	"docgen-backend/internal/shared/telemetry"
)

// ErrStructuringFailed marks generated output that could not be turned into
// typed data. Errors from this package wrap it.
var ErrStructuringFailed = errors.New("failed to structure generated content")

// Sheet is one named sheet of row data. Rows are positional; row 0 is the
// header row. Rows may be ragged.
type Sheet struct {
	Name string
	Rows [][]string
}

// Slide is one slide of a deck. Notes is optional; blank means the slide
// carries no speaker notes.
type Slide struct {
	Title   string
	Content string
	Notes   string
}

// Service turns free-text model output into typed intermediate data. It owns
// the tolerance rules for prose-wrapped and partially malformed responses.
type Service struct {
	LLM llm.Client
}

// Table asks the model for a spreadsheet structure and parses the response
// into ordered sheets. Sheet order follows the response's key order. Top-level
// keys whose value is not a list are dropped; rows that are not lists are
// skipped within their sheet.
func (s *Service) Table(ctx context.Context, title, content string, sections []string) ([]Sheet, error) {
	raw, err := s.LLM.Complete(ctx, buildTablePrompt(title, content, sections))
	if err != nil {
		return nil, fmt.Errorf("generate table structure: %w", err)
	}
	members, err := parseObject(raw)
	if err != nil {
		return nil, err
	}

	sheets := make([]Sheet, 0, len(members))
	for _, m := range members {
		rows, ok := decodeRows(m.value)
		if !ok {
			telemetry.Debug("structurer.drop_key", map[string]any{"key": m.key})
			continue
		}
		sheets = append(sheets, Sheet{Name: m.key, Rows: rows})
	}
	return sheets, nil
}

// Slides asks the model for a slide structure and parses the response into an
// ordered slide list. Two response shapes are accepted: a "slides" key holding
// a list of objects, or top-level values that are themselves objects (taken in
// key order). A response yielding zero slides is a failure, not an empty deck.
func (s *Service) Slides(ctx context.Context, title, content string, sections []string) ([]Slide, error) {
	raw, err := s.LLM.Complete(ctx, buildSlidesPrompt(title, content, sections))
	if err != nil {
		return nil, fmt.Errorf("generate slide structure: %w", err)
	}
	members, err := parseObject(raw)
	if err != nil {
		return nil, err
	}

	var slides []Slide
	if list, ok := findSlideList(members); ok {
		for _, item := range list {
			if entry, ok := decodeFields(item); ok {
				slides = append(slides, toSlide(entry))
			}
		}
	} else {
		for _, m := range members {
			if entry, ok := decodeFields(m.value); ok {
				slides = append(slides, toSlide(entry))
			}
		}
	}
	if len(slides) == 0 {
		return nil, fmt.Errorf("%w: response contained no slides", ErrStructuringFailed)
	}
	return slides, nil
}

// Sections asks the model to write one content string per section name and
// returns the section->content mapping without further coercion.
func (s *Service) Sections(ctx context.Context, title string, sections []string) (map[string]string, error) {
	raw, err := s.LLM.Complete(ctx, buildSectionsPrompt(title, sections))
	if err != nil {
		return nil, fmt.Errorf("generate section content: %w", err)
	}
	members, err := parseObject(raw)
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(members))
	for _, m := range members {
		out[m.key] = stringify(decodeValue(m.value))
	}
	return out, nil
}

// member is one top-level key/value pair, in response order.
type member struct {
	key   string
	value json.RawMessage
}

// parseObject locates the outermost {...} in the raw response (first '{' to
// last '}') and decodes its top-level members in document order. Prose around
// the JSON is tolerated; anything else is a structuring failure.
func parseObject(raw string) ([]member, error) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end < start {
		return nil, fmt.Errorf("%w: no JSON object in response", ErrStructuringFailed)
	}
	dec := json.NewDecoder(strings.NewReader(raw[start : end+1]))
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStructuringFailed, err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("%w: response is not a JSON object", ErrStructuringFailed)
	}
	var members []member
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrStructuringFailed, err)
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("%w: unexpected token %v", ErrStructuringFailed, keyTok)
		}
		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrStructuringFailed, err)
		}
		members = append(members, member{key: key, value: value})
	}
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStructuringFailed, err)
	}
	return members, nil
}

func findSlideList(members []member) ([]json.RawMessage, bool) {
	for _, m := range members {
		if m.key != "slides" {
			continue
		}
		var list []json.RawMessage
		if err := json.Unmarshal(m.value, &list); err == nil {
			return list, true
		}
	}
	return nil, false
}

// decodeRows decodes a sheet value into rows of stringified cells. Returns
// false when the value is not a list at all.
func decodeRows(raw json.RawMessage) ([][]string, bool) {
	var rawRows []json.RawMessage
	if err := json.Unmarshal(raw, &rawRows); err != nil {
		return nil, false
	}
	rows := make([][]string, 0, len(rawRows))
	for _, rawRow := range rawRows {
		var cells []json.RawMessage
		if err := json.Unmarshal(rawRow, &cells); err != nil {
			continue
		}
		row := make([]string, 0, len(cells))
		for _, cell := range cells {
			row = append(row, stringify(decodeValue(cell)))
		}
		rows = append(rows, row)
	}
	return rows, true
}

// decodeFields decodes a slide object into its recognized fields. Returns
// false when the value is not an object.
func decodeFields(raw json.RawMessage) (map[string]any, bool) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var fields map[string]any
	if err := dec.Decode(&fields); err != nil || fields == nil {
		return nil, false
	}
	return fields, true
}

func toSlide(fields map[string]any) Slide {
	return Slide{
		Title:   stringify(fields["title"]),
		Content: stringify(fields["content"]),
		Notes:   stringify(fields["notes"]),
	}
}

// decodeValue decodes a scalar-or-structure leaf, preserving the source
// number text so "1" never surfaces as "1.0".
func decodeValue(raw json.RawMessage) any {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return string(raw)
	}
	return v
}

func stringify(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case json.Number:
		return val.String()
	case bool:
		return strconv.FormatBool(val)
	default:
		data, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprintf("%v", val)
		}
		return string(data)
	}
}
