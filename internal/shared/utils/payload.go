package utils

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ParseStringOrArray normalizes a loosely typed list field. It accepts a
// JSON array encoded as a string, a comma-separated string, or an array,
// and returns the trimmed non-empty entries in input order.
func ParseStringOrArray(input interface{}) []string {
	switch v := input.(type) {
	case nil:
		return []string{}
	case string:
		s := strings.TrimSpace(v)
		if strings.HasPrefix(s, "[") {
			var arr []interface{}
			if err := json.Unmarshal([]byte(s), &arr); err == nil {
				return ParseStringOrArray(arr)
			}
		}
		return clean(strings.Split(s, ","))
	case []string:
		return clean(v)
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if item == nil {
				continue
			}
			out = append(out, fmt.Sprint(item))
		}
		return clean(out)
	}
	return clean([]string{fmt.Sprint(input)})
}

func clean(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s := strings.TrimSpace(item); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// ParseUUIDs parses every entry of ids, failing on the first invalid one.
func ParseUUIDs(ids []string) ([]uuid.UUID, error) {
	out := make([]uuid.UUID, 0, len(ids))
	for _, raw := range ids {
		id, err := uuid.Parse(strings.TrimSpace(raw))
		if err != nil {
			return nil, fmt.Errorf("invalid id %q: %w", raw, err)
		}
		out = append(out, id)
	}
	return out, nil
}

// OptionalUUID parses s, returning nil for an empty string.
func OptionalUUID(s string) (*uuid.UUID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return nil, err
	}
	return &id, nil
}
