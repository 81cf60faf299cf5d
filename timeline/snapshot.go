package timeline

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// Snapshot returns a copy of elements sorted ascending by priority.
// The sort is stable, so equal priorities keep their input order. The copy
// insulates a running job from later timeline edits.
func Snapshot(elements []Element) []Element {
	out := make([]Element, len(elements))
	copy(out, elements)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Priority < out[j].Priority
	})
	return out
}

// ParseTimeline decodes a JSON mapping of element id to element record.
// Object key order is preserved so that priority ties resolve the same way
// the sender ordered them.
func ParseTimeline(data []byte) ([]Element, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("parse timeline: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("parse timeline: expected object, got %v", tok)
	}

	var elements []Element
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("parse timeline: %w", err)
		}
		id, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("parse timeline: expected element id, got %v", keyTok)
		}
		var e Element
		if err := dec.Decode(&e); err != nil {
			return nil, fmt.Errorf("parse timeline element %s: %w", id, err)
		}
		e.ID = id
		elements = append(elements, e)
	}
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("parse timeline: %w", err)
	}
	return elements, nil
}

// ValidateAll checks every element, failing on the first violation.
func ValidateAll(elements []Element) error {
	for i := range elements {
		if err := elements[i].Validate(); err != nil {
			return err
		}
	}
	return nil
}
