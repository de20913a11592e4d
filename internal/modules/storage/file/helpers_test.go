package file

import (
	"strings"
	"testing"
	"time"

	appcfg "github.com/eduspace/core/internal/config"
)

func TestNormalizeKind(t *testing.T) {
	tests := []struct{ in, want string }{
		{"thumbnail", KindThumbnail},
		{"image", KindThumbnail},
		{"Document", KindDocument},
		{"doc", KindDocument},
		{"video", KindVideo},
		{"", KindFile},
		{"file", KindFile},
		{" VIDEO ", KindVideo},
		{"archive", ""},
	}
	for _, tt := range tests {
		if got := normalizeKind(tt.in); got != tt.want {
			t.Errorf("normalizeKind(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestValidateUpload(t *testing.T) {
	formats := []string{"jpg", ".PNG", "webp"}

	tests := []struct {
		name     string
		filename string
		size     int64
		formats  []string
		maxMB    int
		wantErr  bool
	}{
		{"allowed extension", "photo.jpg", 1024, formats, 10, false},
		{"case insensitive", "photo.PNG", 1024, formats, 10, false},
		{"disallowed extension", "script.exe", 1024, formats, 10, true},
		{"missing extension", "noext", 1024, formats, 10, true},
		{"over the size limit", "photo.jpg", 11 * 1024 * 1024, formats, 10, true},
		{"exactly at the limit", "photo.jpg", 10 * 1024 * 1024, formats, 10, false},
		{"no whitelist accepts anything", "anything.bin", 1024, nil, 10, false},
		{"zero limit disables size check", "big.jpg", 1 << 40, formats, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateUpload(tt.filename, tt.size, tt.formats, tt.maxMB)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateUpload() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestAllowedFormats(t *testing.T) {
	opts := appcfg.UploadOptions{
		AllowedImageFormats:  []string{"jpg"},
		AllowedVideoFormats:  []string{"mp4"},
		AllowedDocumentTypes: []string{"pdf"},
	}
	if got := allowedFormats(KindThumbnail, opts); len(got) != 1 || got[0] != "jpg" {
		t.Errorf("thumbnail formats = %v", got)
	}
	if got := allowedFormats(KindVideo, opts); len(got) != 1 || got[0] != "mp4" {
		t.Errorf("video formats = %v", got)
	}
	if got := allowedFormats(KindDocument, opts); len(got) != 1 || got[0] != "pdf" {
		t.Errorf("document formats = %v", got)
	}
	if got := allowedFormats(KindFile, opts); got != nil {
		t.Errorf("generic files should have no whitelist, got %v", got)
	}
}

func TestBuildFileName(t *testing.T) {
	name := buildFileName("lecture-notes.PDF")
	if !strings.HasSuffix(name, ".pdf") {
		t.Errorf("extension not preserved lowercase: %q", name)
	}
	if len(name) != 18+len(".pdf") {
		t.Errorf("unexpected name length: %q", name)
	}

	if other := buildFileName("lecture-notes.PDF"); other == name {
		t.Error("two generated names should differ")
	}

	if noExt := buildFileName("README"); !strings.HasSuffix(noExt, ".dat") {
		t.Errorf("missing extension should fall back to .dat: %q", noExt)
	}
}

func TestBuildObjectKey(t *testing.T) {
	now := time.Date(2026, time.August, 28, 12, 0, 0, 0, time.UTC)
	key := buildObjectKey(KindDocument, "syllabus.pdf", now)
	if !strings.HasPrefix(key, "document/2026/08/") {
		t.Errorf("key prefix = %q", key)
	}
	if !strings.HasSuffix(key, ".pdf") {
		t.Errorf("key should keep the extension: %q", key)
	}
}

func TestSafeName(t *testing.T) {
	tests := []struct{ in, want string }{
		{"photo.jpg", "photo.jpg"},
		{"  notes_v2.pdf ", "notes_v2.pdf"},
		{"../../etc/passwd", "passwd"},
		{"bad name.jpg", ""},
		{"semi;colon.png", ""},
		{".", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := safeName(tt.in); got != tt.want {
			t.Errorf("safeName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestDetectContentType(t *testing.T) {
	if got := detectContentType("a.bin", nil, "image/png"); got != "image/png" {
		t.Errorf("header type should win, got %q", got)
	}
	if got := detectContentType("report.pdf", nil, ""); !strings.Contains(got, "application/pdf") {
		t.Errorf("extension sniff = %q", got)
	}
	if got := detectContentType("", []byte("%PDF-1.7 trailer"), ""); got == "" {
		t.Error("payload sniff should produce a type")
	}
	if got := detectContentType("", nil, ""); got != "application/octet-stream" {
		t.Errorf("empty input fallback = %q", got)
	}
}
