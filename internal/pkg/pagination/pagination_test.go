package pagination

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func queryContext(t *testing.T, rawQuery string) *gin.Context {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/?"+rawQuery, nil)
	return c
}

func TestFromContext(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		wantPage int
		wantSize int
	}{
		{"defaults", "", DefaultPage, DefaultSize},
		{"explicit values", "page=3&size=25", 3, 25},
		{"zero page clamps", "page=0&size=5", 1, 5},
		{"negative values clamp", "page=-2&size=-5", 1, DefaultSize},
		{"oversized clamps to max", "page=1&size=5000", 1, MaxSize},
		{"garbage falls back", "page=abc&size=xyz", DefaultPage, DefaultSize},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := FromContext(queryContext(t, tt.query))
			if q.Page != tt.wantPage || q.Size != tt.wantSize {
				t.Errorf("FromContext(%q) = %+v, want page=%d size=%d", tt.query, q, tt.wantPage, tt.wantSize)
			}
		})
	}
}

func TestParseIntOr(t *testing.T) {
	if got := parseIntOr("42", 7); got != 42 {
		t.Errorf("parseIntOr(42) = %d", got)
	}
	if got := parseIntOr("not-a-number", 7); got != 7 {
		t.Errorf("parseIntOr fallback = %d, want 7", got)
	}
}
