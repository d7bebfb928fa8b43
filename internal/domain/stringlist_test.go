package domain_test

import (
	"encoding/json"
	"testing"

	"github.com/boddenberg/rentease-api-go/internal/domain"

	"github.com/google/go-cmp/cmp"
)

func TestStringList_RoundTrip(t *testing.T) {
	original := []string{"wifi", "parking", "gym", "wifi"}

	encoded, err := domain.EncodeStringList(original)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	decoded, err := domain.DecodeStringList(encoded)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if diff := cmp.Diff(original, []string(decoded)); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestStringList_EncodeNil(t *testing.T) {
	encoded, err := domain.EncodeStringList(nil)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if encoded != "[]" {
		t.Errorf("expected '[]', got %q", encoded)
	}
}

func TestStringList_DecodeAbsent(t *testing.T) {
	for _, raw := range []string{"", "  ", "null", "[]"} {
		decoded, err := domain.DecodeStringList(raw)
		if err != nil {
			t.Fatalf("decode %q: %v", raw, err)
		}
		if decoded == nil || len(decoded) != 0 {
			t.Errorf("decode %q: expected empty non-nil list, got %#v", raw, decoded)
		}
	}
}

func TestStringList_DecodeInvalid(t *testing.T) {
	if _, err := domain.DecodeStringList("{not json"); err == nil {
		t.Fatal("expected error for malformed column")
	}
}

func TestStringList_Scan(t *testing.T) {
	var l domain.StringList
	if err := l.Scan([]byte(`["a","b"]`)); err != nil {
		t.Fatalf("scan bytes: %v", err)
	}
	if diff := cmp.Diff(domain.StringList{"a", "b"}, l); diff != "" {
		t.Errorf("scan mismatch (-want +got):\n%s", diff)
	}

	if err := l.Scan(nil); err != nil {
		t.Fatalf("scan nil: %v", err)
	}
	if l == nil || len(l) != 0 {
		t.Errorf("expected empty list after NULL scan, got %#v", l)
	}

	if err := l.Scan(42); err == nil {
		t.Error("expected error scanning an int")
	}
}

func TestStringList_Value(t *testing.T) {
	v, err := domain.StringList{"pool"}.Value()
	if err != nil {
		t.Fatalf("value: %v", err)
	}
	if v != `["pool"]` {
		t.Errorf("expected JSON text, got %v", v)
	}
}

func TestStringList_JSON(t *testing.T) {
	var p struct {
		Images domain.StringList `json:"images"`
	}

	out, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != `{"images":[]}` {
		t.Errorf("nil list must marshal as [], got %s", out)
	}

	cases := map[string]domain.StringList{
		`{"images":null}`:            {},
		`{"images":["x","y"]}`:       {"x", "y"},
		`{"images":"[\"x\",\"y\"]"}`: {"x", "y"},
	}
	for in, want := range cases {
		if err := json.Unmarshal([]byte(in), &p); err != nil {
			t.Fatalf("unmarshal %s: %v", in, err)
		}
		if diff := cmp.Diff(want, p.Images); diff != "" {
			t.Errorf("unmarshal %s mismatch (-want +got):\n%s", in, diff)
		}
	}
}
