package ai

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"go.uber.org/zap"
)

const (
	fetchTimeout = 30 * time.Second
	// extractBudget bounds extracted text before it reaches the prompt stage.
	extractBudget      = 15000
	truncationMarker   = "..."
	maxDownloadedBytes = 32 << 20 // 32 MiB
)

// TextSource resolves a document's raw text from its file URL. Every failure
// path returns ok=false; extraction is best effort and never errors out.
type TextSource struct {
	http   *http.Client
	logger *zap.Logger
}

func NewTextSource(logger *zap.Logger) *TextSource {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TextSource{
		http:   &http.Client{Timeout: fetchTimeout},
		logger: logger,
	}
}

// FetchAndExtract downloads the PDF at url and extracts its text, normalized
// and clamped to the extraction budget. ok is false when anything along the
// way fails; the caller degrades to supplied text or a templated fallback.
func (t *TextSource) FetchAndExtract(url string) (text string, ok bool) {
	url = strings.TrimSpace(url)
	if url == "" {
		return "", false
	}

	data, err := t.fetch(url)
	if err != nil {
		t.logger.Warn("document fetch failed", zap.String("url", url), zap.Error(err))
		return "", false
	}

	raw, err := extractPDFText(data)
	if err != nil {
		t.logger.Warn("pdf text extraction failed", zap.String("url", url), zap.Error(err))
		return "", false
	}

	cleaned := normalizeWhitespace(raw)
	if cleaned == "" {
		return "", false
	}
	return clampText(cleaned, extractBudget), true
}

func (t *TextSource) fetch(url string) ([]byte, error) {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := t.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxDownloadedBytes))
}

// extractPDFText walks every page's decoded content stream and collects the
// arguments of the Tj/TJ text-showing operators. Layout is not reconstructed;
// the summarizer only needs readable prose.
func extractPDFText(data []byte) (string, error) {
	conf := model.NewDefaultConfiguration()
	pdfCtx, err := api.ReadValidateAndOptimize(bytes.NewReader(data), conf)
	if err != nil {
		return "", err
	}

	var full strings.Builder
	for pageNr := 1; pageNr <= pdfCtx.PageCount; pageNr++ {
		reader, err := pdfcpu.ExtractPageContent(pdfCtx, pageNr)
		if err != nil || reader == nil {
			continue
		}
		content, err := io.ReadAll(reader)
		if err != nil {
			continue
		}
		pageText := textFromContentStream(content)
		if pageText == "" {
			continue
		}
		full.WriteString(pageText)
		full.WriteString("\n")
	}

	out := full.String()
	if strings.TrimSpace(out) == "" {
		return "", fmt.Errorf("no extractable text")
	}
	return out, nil
}

// textFromContentStream scans a PDF content stream for string literals that
// feed Tj/TJ operators. Hex strings and font-level encodings are skipped.
func textFromContentStream(content []byte) string {
	var out strings.Builder
	var literal strings.Builder
	inString := false
	depth := 0
	escaped := false

	flush := func() {
		s := literal.String()
		literal.Reset()
		if strings.TrimSpace(s) == "" {
			return
		}
		out.WriteString(s)
		out.WriteByte(' ')
	}

	for i := 0; i < len(content); i++ {
		ch := content[i]

		if inString {
			if escaped {
				switch ch {
				case 'n':
					literal.WriteByte('\n')
				case 't':
					literal.WriteByte('\t')
				case 'r', 'b', 'f':
					literal.WriteByte(' ')
				case '(', ')', '\\':
					literal.WriteByte(ch)
				}
				escaped = false
				continue
			}
			switch ch {
			case '\\':
				escaped = true
			case '(':
				depth++
				literal.WriteByte(ch)
			case ')':
				if depth == 0 {
					inString = false
					flush()
				} else {
					depth--
					literal.WriteByte(ch)
				}
			default:
				literal.WriteByte(ch)
			}
			continue
		}

		if ch == '(' {
			inString = true
			depth = 0
			escaped = false
		}
	}

	return out.String()
}

// normalizeWhitespace collapses runs of whitespace into single spaces.
func normalizeWhitespace(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// clampText truncates to budget runes, appending the truncation marker when
// anything was cut.
func clampText(text string, budget int) string {
	runes := []rune(text)
	if len(runes) <= budget {
		return text
	}
	return string(runes[:budget]) + truncationMarker
}
