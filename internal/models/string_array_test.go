package models

import (
	"reflect"
	"testing"
)

func TestStringArrayScan(t *testing.T) {
	tests := []struct {
		name  string
		value interface{}
		want  StringArray
	}{
		{"nil value", nil, StringArray{}},
		{"empty string", "", StringArray{}},
		{"null literal", "null", StringArray{}},
		{"json array", `["a","b"]`, StringArray{"a", "b"}},
		{"json array bytes", []byte(`["x"]`), StringArray{"x"}},
		{"empty json array", `[]`, StringArray{}},
		{"quoted single value", `"solo"`, StringArray{"solo"}},
		{"quoted empty value", `""`, StringArray{}},
		{"legacy raw string", "plain-tag", StringArray{"plain-tag"}},
		{"whitespace only", "   ", StringArray{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var a StringArray
			if err := a.Scan(tt.value); err != nil {
				t.Fatalf("Scan(%v) error = %v", tt.value, err)
			}
			if !reflect.DeepEqual(a, tt.want) {
				t.Errorf("Scan(%v) = %v, want %v", tt.value, a, tt.want)
			}
		})
	}
}

func TestStringArrayScanUnsupportedType(t *testing.T) {
	var a StringArray
	if err := a.Scan(42); err == nil {
		t.Error("Scan(int) should fail")
	}
}

func TestStringArrayValue(t *testing.T) {
	tests := []struct {
		name string
		in   StringArray
		want string
	}{
		{"nil array", nil, "[]"},
		{"empty array", StringArray{}, "[]"},
		{"values", StringArray{"a", "b"}, `["a","b"]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.in.Value()
			if err != nil {
				t.Fatalf("Value() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Value() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStringArrayRoundTrip(t *testing.T) {
	in := StringArray{"graphs", "trees", "dp"}
	v, err := in.Value()
	if err != nil {
		t.Fatalf("Value() error = %v", err)
	}
	var out StringArray
	if err := out.Scan(v); err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	if !reflect.DeepEqual(in, out) {
		t.Errorf("round trip = %v, want %v", out, in)
	}
}
