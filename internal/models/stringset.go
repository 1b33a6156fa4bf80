package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// StringSet is an unordered set of strings stored as a JSONB array. Values
// are trimmed, deduplicated and kept sorted so equal sets compare equal.
type StringSet []string

// NewStringSet normalises values into a set, dropping blanks.
func NewStringSet(values ...string) StringSet {
	seen := make(map[string]struct{}, len(values))
	out := make(StringSet, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// Contains reports whether v is in the set.
func (s StringSet) Contains(v string) bool {
	i := sort.SearchStrings(s, v)
	return i < len(s) && s[i] == v
}

// Value implements driver.Valuer.
func (s StringSet) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(s))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (s *StringSet) Scan(value any) error {
	var raw []byte
	switch v := value.(type) {
	case nil:
		*s = StringSet{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into StringSet", value)
	}

	var values []string
	if err := json.Unmarshal(raw, &values); err != nil {
		return fmt.Errorf("invalid tags json: %w", err)
	}
	*s = NewStringSet(values...)
	return nil
}

// MarshalJSON never emits null.
func (s StringSet) MarshalJSON() ([]byte, error) {
	if s == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(s))
}
