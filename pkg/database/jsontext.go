package database

import (
	"encoding/json"
	"fmt"
)

// EncodeValue converts a patch value into a column argument. String sets
// are stored as JSON array text.
func EncodeValue(v any) (any, error) {
	switch val := v.(type) {
	case string:
		return val, nil
	case []string:
		if val == nil {
			val = []string{}
		}
		b, err := json.Marshal(val)
		if err != nil {
			return nil, err
		}
		return string(b), nil
	}
	return nil, fmt.Errorf("unsupported value type %T", v)
}

// DecodeStrings parses JSON array text. Malformed text yields an empty set.
func DecodeStrings(s string) []string {
	out := []string{}
	if s == "" {
		return out
	}
	if err := json.Unmarshal([]byte(s), &out); err != nil || out == nil {
		return []string{}
	}
	return out
}
