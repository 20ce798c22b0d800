package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"strings"
)

// DefaultDocumentTitle is used when an export has no title.
const DefaultDocumentTitle = "Exported Document"

// Sentinel errors for document assembly.
var (
	ErrDocumentTemplate = errors.New("document template parsing failed")
	ErrDocumentRender   = errors.New("document template rendering failed")
)

// DocumentData holds what goes into a standalone HTML document.
type DocumentData struct {
	Title string
	CSS   string
	Body  string // HTML fragment, inserted verbatim
}

// DocumentBuilder renders converted fragments into a complete HTML document.
type DocumentBuilder struct {
	tmpl *template.Template
}

// NewDocumentBuilder parses the document template.
// The template sees .Title (escaped), .CSS and .Body (both trusted).
func NewDocumentBuilder(tmplContent string) (*DocumentBuilder, error) {
	tmpl, err := template.New("document").Parse(tmplContent)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDocumentTemplate, err)
	}
	return &DocumentBuilder{tmpl: tmpl}, nil
}

// Build renders data through the template.
func (b *DocumentBuilder) Build(ctx context.Context, data DocumentData) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	title := strings.TrimSpace(data.Title)
	if title == "" {
		title = DefaultDocumentTitle
	}

	view := struct {
		Title string
		CSS   template.CSS
		Body  template.HTML
	}{
		Title: title,
		CSS:   template.CSS(sanitizeCSS(data.CSS)), // #nosec G203 -- sanitized, style block only
		Body:  template.HTML(data.Body),            // #nosec G203 -- converter output
	}

	var buf bytes.Buffer
	if err := b.tmpl.Execute(&buf, view); err != nil {
		return "", fmt.Errorf("%w: %v", ErrDocumentRender, err)
	}
	return buf.String(), nil
}

// CSSInjector defines the contract for CSS injection into HTML.
type CSSInjector interface {
	InjectCSS(ctx context.Context, htmlContent, cssContent string) string
}

// CSSInjection injects CSS as a <style> block into HTML content.
type CSSInjection struct{}

// InjectCSS inserts a <style> block into HTML content.
// Tries </head> first, then <body>, then prepends to the HTML.
// CSS content is sanitized so it cannot close the style element.
func (s *CSSInjection) InjectCSS(ctx context.Context, htmlContent, cssContent string) string {
	if cssContent == "" || ctx.Err() != nil {
		return htmlContent
	}

	styleBlock := "<style>" + sanitizeCSS(cssContent) + "</style>"
	lowerHTML := strings.ToLower(htmlContent)

	if idx := strings.Index(lowerHTML, "</head>"); idx != -1 {
		return htmlContent[:idx] + styleBlock + htmlContent[idx:]
	}

	if idx := strings.Index(lowerHTML, "<body"); idx != -1 {
		if closeIdx := strings.Index(htmlContent[idx:], ">"); closeIdx != -1 {
			insertPos := idx + closeIdx + 1
			return htmlContent[:insertPos] + styleBlock + htmlContent[insertPos:]
		}
	}

	return styleBlock + htmlContent
}

// sanitizeCSS escapes "</" so user CSS cannot end the <style> block early.
func sanitizeCSS(css string) string {
	return strings.ReplaceAll(css, "</", `<\/`)
}
