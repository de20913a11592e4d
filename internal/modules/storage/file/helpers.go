package file

import (
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	appcfg "github.com/eduspace/core/internal/config"
	"github.com/google/uuid"
)

const EnvStaticDir = "EDU_STATIC_DIR"

// Upload kinds map to both the local subdirectory and the S3 key prefix.
const (
	KindThumbnail = "thumbnail"
	KindDocument  = "document"
	KindVideo     = "video"
	KindFile      = "file"
)

// resolveStaticDir returns the absolute path to the local asset directory,
// reading EDU_STATIC_DIR from the environment or falling back to the default.
func resolveStaticDir() string {
	if dir := strings.TrimSpace(os.Getenv(EnvStaticDir)); dir != "" {
		return appcfg.ResolveRuntimePath(dir, "")
	}
	return appcfg.ResolveRuntimePath("", "static")
}

// normalizeKind validates the requested upload kind, defaulting to KindFile.
func normalizeKind(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case KindThumbnail, "image":
		return KindThumbnail
	case KindDocument, "doc":
		return KindDocument
	case KindVideo:
		return KindVideo
	case "", KindFile:
		return KindFile
	default:
		return ""
	}
}

// allowedFormats returns the extension whitelist for a kind. An empty slice
// means any extension is accepted.
func allowedFormats(kind string, opts appcfg.UploadOptions) []string {
	switch kind {
	case KindThumbnail:
		return opts.AllowedImageFormats
	case KindVideo:
		return opts.AllowedVideoFormats
	case KindDocument:
		return opts.AllowedDocumentTypes
	default:
		return nil
	}
}

// validateUpload checks the extension and size against the configured limits.
func validateUpload(filename string, size int64, formats []string, maxSizeMB int) error {
	if maxSizeMB > 0 && size > int64(maxSizeMB)*1024*1024 {
		return fmt.Errorf("file exceeds the %dMB limit", maxSizeMB)
	}
	if len(formats) == 0 {
		return nil
	}

	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(strings.TrimSpace(filename))), ".")
	if ext == "" {
		return fmt.Errorf("file extension is required")
	}
	for _, allowed := range formats {
		if ext == strings.TrimPrefix(strings.ToLower(strings.TrimSpace(allowed)), ".") {
			return nil
		}
	}
	return fmt.Errorf("format .%s is not allowed", ext)
}

// buildFileName generates a collision-resistant filename that preserves the
// original extension.
func buildFileName(original string) string {
	ext := strings.ToLower(filepath.Ext(strings.TrimSpace(original)))
	if ext == "" || len(ext) > 10 {
		ext = ".dat"
	}
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:18] + ext
}

// buildObjectKey produces the S3 key for an upload, e.g.
// "document/2026/08/3f2a...9c.pdf".
func buildObjectKey(kind, original string, now time.Time) string {
	return kind + "/" + now.Format("2006/01") + "/" + buildFileName(original)
}

// detectContentType sniffs the MIME type from the multipart header, the
// extension, or the payload bytes, in that priority order.
func detectContentType(filename string, payload []byte, fallback string) string {
	if ct := strings.TrimSpace(fallback); ct != "" {
		return ct
	}
	if ext := strings.ToLower(filepath.Ext(strings.TrimSpace(filename))); ext != "" {
		if guessed := mime.TypeByExtension(ext); guessed != "" {
			return guessed
		}
	}
	if len(payload) > 0 {
		return http.DetectContentType(payload)
	}
	return "application/octet-stream"
}

// safeName returns the base name of raw only when it is a clean path segment.
func safeName(raw string) string {
	name := filepath.Base(strings.TrimSpace(raw))
	if name == "" || name == "." || name == string(filepath.Separator) || !isSafeSegment(name) {
		return ""
	}
	return name
}

func isSafeSegment(s string) bool {
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') ||
			(r >= '0' && r <= '9') || r == '-' || r == '_' || r == '.' {
			continue
		}
		return false
	}
	return true
}
