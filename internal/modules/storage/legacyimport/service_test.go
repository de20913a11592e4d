package legacyimport

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/eduspace/core/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestMapLegacyIDDeterminism(t *testing.T) {
	const hex = "507f1f77bcf86cd799439011"
	first := mapLegacyID(hex)
	if first == "" {
		t.Fatal("mapLegacyID returned empty for a valid hex id")
	}
	if second := mapLegacyID(hex); second != first {
		t.Errorf("same hex mapped to different UUIDs: %q vs %q", first, second)
	}
	if other := mapLegacyID("507f1f77bcf86cd799439012"); other == first {
		t.Error("distinct hex ids must map to distinct UUIDs")
	}
	if got := mapLegacyID("  "); got != "" {
		t.Errorf("blank id should map to empty, got %q", got)
	}
}

func TestMapReference(t *testing.T) {
	const hex = "507f1f77bcf86cd799439011"
	want := mapLegacyID(hex)

	oid, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		t.Fatalf("ObjectIDFromHex: %v", err)
	}

	tests := []struct {
		name  string
		value interface{}
		want  string
	}{
		{"object id", oid, want},
		{"extended json wrapper", bson.M{"$oid": hex}, want},
		{"plain string", hex, want},
		{"wrapper without oid", bson.M{"$ref": "users"}, ""},
		{"nil", nil, ""},
		{"number", int64(7), ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := mapReference(tt.value); got != tt.want {
				t.Errorf("mapReference(%v) = %q, want %q", tt.value, got, tt.want)
			}
		})
	}
}

func TestChildID(t *testing.T) {
	const hex = "507f1f77bcf86cd799439011"
	withID := bson.M{"_id": hex}
	if got := childID(withID, "parent", "video", 0); got != mapLegacyID(hex) {
		t.Errorf("childID should prefer the document id, got %q", got)
	}

	derived := childID(bson.M{}, "parent", "video", 3)
	if derived == "" {
		t.Fatal("childID must always produce an id")
	}
	if again := childID(bson.M{}, "parent", "video", 3); again != derived {
		t.Error("derived ids must be stable across runs")
	}
	if other := childID(bson.M{}, "parent", "video", 4); other == derived {
		t.Error("different indexes must derive different ids")
	}
}

func TestDecodeDocs(t *testing.T) {
	raw := json.RawMessage(`[
		{"_id": {"$oid": "507f1f77bcf86cd799439011"}, "email": "a@b.c",
		 "createdAt": {"$date": "2024-05-01T10:00:00Z"}},
		{"_id": "plain-id", "name": "second"}
	]`)

	docs, err := decodeDocs(raw)
	if err != nil {
		t.Fatalf("decodeDocs() error = %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("decoded %d docs, want 2", len(docs))
	}

	if id := mappedID(docs[0]); id != mapLegacyID("507f1f77bcf86cd799439011") {
		t.Errorf("extended json _id not resolved: %q", id)
	}
	if got := docTime(docs[0], "createdAt"); got.IsZero() {
		t.Error("$date field should decode to a non-zero time")
	}
	if id := mappedID(docs[1]); id != mapLegacyID("plain-id") {
		t.Errorf("string _id not resolved: %q", id)
	}
}

func TestDecodeDocsEdgeCases(t *testing.T) {
	if docs, err := decodeDocs(nil); err != nil || docs != nil {
		t.Errorf("empty input = (%v, %v), want (nil, nil)", docs, err)
	}
	if _, err := decodeDocs(json.RawMessage(`{"not":"an array"}`)); err == nil {
		t.Error("non-array input should fail")
	}
}

func TestDocTime(t *testing.T) {
	when := time.Date(2024, time.May, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		doc  bson.M
		want time.Time
	}{
		{"primitive datetime", bson.M{"createdAt": primitive.NewDateTimeFromTime(when)}, when},
		{"go time", bson.M{"createdAt": when}, when},
		{"rfc3339 string", bson.M{"createdAt": "2024-05-01T10:00:00Z"}, when},
		{"fallback key", bson.M{"created": when}, when},
		{"unparseable", bson.M{"createdAt": "yesterday"}, time.Time{}},
		{"missing", bson.M{}, time.Time{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := docTime(tt.doc, "createdAt", "created")
			if !got.Equal(tt.want) {
				t.Errorf("docTime() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNormalizeRole(t *testing.T) {
	tests := []struct{ in, want string }{
		{"admin", models.RoleAdmin},
		{"Instructor", models.RoleInstructor},
		{"teacher", models.RoleInstructor},
		{"student", models.RoleStudent},
		{"", models.RoleStudent},
		{"moderator", models.RoleStudent},
	}
	for _, tt := range tests {
		if got := normalizeRole(tt.in); got != tt.want {
			t.Errorf("normalizeRole(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeLevel(t *testing.T) {
	tests := []struct{ in, want string }{
		{"Intermediate", models.LevelIntermediate},
		{"advanced", models.LevelAdvanced},
		{"beginner", models.LevelBeginner},
		{"", models.LevelBeginner},
		{"expert", models.LevelBeginner},
	}
	for _, tt := range tests {
		if got := normalizeLevel(tt.in); got != tt.want {
			t.Errorf("normalizeLevel(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalizePaymentStatus(t *testing.T) {
	tests := []struct{ in, want string }{
		{"completed", models.PaymentCompleted},
		{"Paid", models.PaymentCompleted},
		{"captured", models.PaymentCompleted},
		{"success", models.PaymentCompleted},
		{"failed", models.PaymentFailed},
		{"cancelled", models.PaymentFailed},
		{"created", models.PaymentPending},
		{"", models.PaymentPending},
	}
	for _, tt := range tests {
		if got := normalizePaymentStatus(tt.in); got != tt.want {
			t.Errorf("normalizePaymentStatus(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestDocHelpers(t *testing.T) {
	doc := bson.M{
		"title":    "  Graph Theory  ",
		"empty":    "",
		"price":    float64(499),
		"count":    int32(7),
		"flag":     true,
		"tags":     bson.A{"go", " ", "http", 3},
		"sections": []interface{}{bson.M{"title": "s1"}},
	}

	if got := docString(doc, "missing", "title"); got != "Graph Theory" {
		t.Errorf("docString = %q", got)
	}
	if got := docString(doc, "empty"); got != "" {
		t.Errorf("empty string should not match, got %q", got)
	}
	if got := docInt64(doc, "price"); got != 499 {
		t.Errorf("docInt64(float) = %d", got)
	}
	if got := docInt64(doc, "count"); got != 7 {
		t.Errorf("docInt64(int32) = %d", got)
	}
	if !docBool(doc, "flag") {
		t.Error("docBool should read true")
	}
	if got := docStrings(doc, "tags"); len(got) != 2 || got[0] != "go" || got[1] != "http" {
		t.Errorf("docStrings = %v", got)
	}
	if got := docSlice(doc, "sections"); len(got) != 1 {
		t.Errorf("docSlice = %v", got)
	}
	if got := orderOrIndex(bson.M{"order": int64(5)}, 2); got != 5 {
		t.Errorf("explicit order = %d", got)
	}
	if got := orderOrIndex(bson.M{}, 2); got != 2 {
		t.Errorf("index fallback = %d", got)
	}
}
