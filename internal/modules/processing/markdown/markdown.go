package markdown

import (
	"bytes"
	"html/template"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	htmlrenderer "github.com/yuin/goldmark/renderer/html"
)

var engine = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,
		extension.Table,
		extension.Strikethrough,
		extension.TaskList,
		extension.Linkify,
		extension.Typographer,
	),
	goldmark.WithRendererOptions(
		htmlrenderer.WithHardWraps(),
		htmlrenderer.WithXHTML(),
	),
)

var (
	imageTagRegex        = regexp.MustCompile(`(?is)<img\s+[^>]*>`)
	imageAttrRegex       = regexp.MustCompile(`([a-zA-Z:_-]+)\s*=\s*"([^"]*)"`)
	figureParagraphRegex = regexp.MustCompile(`(?is)<p>\s*(<figure>[\s\S]*?</figure>)\s*</p>`)
	htmlTagRegex         = regexp.MustCompile(`<[^>]+>`)
)

// Render converts markdown (course descriptions, section notes) to HTML.
// Raw inline HTML is escaped by goldmark's defaults.
func Render(markdownText string) string {
	text := strings.TrimSpace(markdownText)
	if text == "" {
		return ""
	}

	var out bytes.Buffer
	if err := engine.Convert([]byte(text), &out); err != nil {
		return template.HTMLEscapeString(text)
	}
	return rewriteImages(out.String())
}

// Plaintext strips markdown/HTML down to readable prose, e.g. to feed text
// documents into the summarizer.
func Plaintext(markdownText string) string {
	html := Render(markdownText)
	stripped := htmlTagRegex.ReplaceAllString(html, " ")
	return strings.Join(strings.Fields(stripped), " ")
}

// rewriteImages wraps captioned images ("!caption" alt prefix) in a figure
// element and strips attributes beyond src.
func rewriteImages(html string) string {
	processed := imageTagRegex.ReplaceAllStringFunc(html, func(tag string) string {
		attrs := parseImageAttrs(tag)
		src := strings.TrimSpace(attrs["src"])
		if src == "" {
			return tag
		}

		alt := strings.TrimSpace(attrs["alt"])
		escapedSrc := template.HTMLEscapeString(src)

		if strings.HasPrefix(alt, "!") {
			caption := template.HTMLEscapeString(strings.TrimSpace(strings.TrimPrefix(alt, "!")))
			return `<figure><img src="` + escapedSrc + `"/><figcaption>` + caption + `</figcaption></figure>`
		}
		return `<img src="` + escapedSrc + `" alt="` + template.HTMLEscapeString(alt) + `"/>`
	})
	return figureParagraphRegex.ReplaceAllString(processed, "$1")
}

func parseImageAttrs(tag string) map[string]string {
	attrs := make(map[string]string)
	for _, item := range imageAttrRegex.FindAllStringSubmatch(tag, -1) {
		if len(item) < 3 {
			continue
		}
		key := strings.ToLower(strings.TrimSpace(item[1]))
		if key == "" {
			continue
		}
		attrs[key] = item[2]
	}
	return attrs
}
