package configs

import (
	"reflect"
	"testing"
)

func TestDeepMergeJSON(t *testing.T) {
	tests := []struct {
		name   string
		oldVal interface{}
		newVal interface{}
		want   interface{}
	}{
		{
			name:   "scalar replaces scalar",
			oldVal: "old",
			newVal: "new",
			want:   "new",
		},
		{
			name:   "array replaces as a whole",
			oldVal: []interface{}{"a", "b"},
			newVal: []interface{}{"c"},
			want:   []interface{}{"c"},
		},
		{
			name:   "map over scalar replaces",
			oldVal: "plain",
			newVal: map[string]interface{}{"k": "v"},
			want:   map[string]interface{}{"k": "v"},
		},
		{
			name: "maps merge recursively",
			oldVal: map[string]interface{}{
				"site": map[string]interface{}{
					"title":    "EduSpace",
					"subtitle": "learn",
				},
				"kept": true,
			},
			newVal: map[string]interface{}{
				"site": map[string]interface{}{
					"subtitle": "teach",
				},
			},
			want: map[string]interface{}{
				"site": map[string]interface{}{
					"title":    "EduSpace",
					"subtitle": "teach",
				},
				"kept": true,
			},
		},
		{
			name:   "new keys are added",
			oldVal: map[string]interface{}{"a": float64(1)},
			newVal: map[string]interface{}{"b": float64(2)},
			want:   map[string]interface{}{"a": float64(1), "b": float64(2)},
		},
		{
			name:   "nested array replaces inside merged map",
			oldVal: map[string]interface{}{"tags": []interface{}{"x", "y"}},
			newVal: map[string]interface{}{"tags": []interface{}{"z"}},
			want:   map[string]interface{}{"tags": []interface{}{"z"}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := deepMergeJSON(tt.oldVal, tt.newVal)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("deepMergeJSON() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestDeepMergeJSONDoesNotMutateOld(t *testing.T) {
	oldVal := map[string]interface{}{"a": "1"}
	_ = deepMergeJSON(oldVal, map[string]interface{}{"a": "2"})
	if oldVal["a"] != "1" {
		t.Errorf("merge mutated the original map: %v", oldVal)
	}
}
