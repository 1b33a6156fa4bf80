package models

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestNewStringSetNormalises(t *testing.T) {
	s := NewStringSet(" work", "family", "work", "", "  ", "art")
	want := StringSet{"art", "family", "work"}
	if !reflect.DeepEqual(s, want) {
		t.Errorf("Expected %v, got %v", want, s)
	}
	if !s.Contains("family") || s.Contains("travel") {
		t.Errorf("Unexpected membership for %v", s)
	}
}

func TestStringSetScan(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  StringSet
	}{
		{"bytes", []byte(`["b","a","b"]`), StringSet{"a", "b"}},
		{"string", `["x"]`, StringSet{"x"}},
		{"nil", nil, StringSet{}},
		{"empty array", `[]`, StringSet{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s StringSet
			if err := s.Scan(tt.value); err != nil {
				t.Fatalf("Scan failed: %v", err)
			}
			if !reflect.DeepEqual(s, tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, s)
			}
		})
	}
}

func TestStringSetScanRejectsBadInput(t *testing.T) {
	var s StringSet
	if err := s.Scan(42); err == nil {
		t.Error("Expected error for int")
	}
	if err := s.Scan(`{"a":1}`); err == nil {
		t.Error("Expected error for object")
	}
}

func TestStringSetValueAndJSON(t *testing.T) {
	var nilSet StringSet
	v, err := nilSet.Value()
	if err != nil || v != "[]" {
		t.Errorf("Expected [] for nil set, got %v (%v)", v, err)
	}
	b, _ := json.Marshal(struct {
		Tags StringSet `json:"tags"`
	}{})
	if string(b) != `{"tags":[]}` {
		t.Errorf("Expected empty array, got %s", b)
	}
}
