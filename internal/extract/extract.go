// Package extract recovers a standalone HTML document from free-form
// model output. Conversational models wrap the requested artifact in
// prose or fenced code blocks in vendor-specific ways, so extraction is
// an ordered chain of matchers, most structurally confident first.
package extract

import (
	"regexp"
	"strings"
)

// matcher attempts to pull a document out of raw text. The second return
// reports whether it matched.
type matcher func(raw string) (string, bool)

// matchers run in priority order; the first match wins.
var matchers = []matcher{
	fencedDocument,
	strippedFences,
	bareDocument,
	wrappedFragment,
}

var (
	fencedDoctypeRe  = regexp.MustCompile("(?is)```(?:html)?\\s*(<!DOCTYPE html>.*?</html>)\\s*```")
	fencedHTMLRe     = regexp.MustCompile("(?is)```(?:html)?\\s*(<html.*?</html>)\\s*```")
	bareDoctypeRe    = regexp.MustCompile(`(?is)(<!DOCTYPE html>.*?</html>)`)
	canvasFragmentRe = regexp.MustCompile(`(?is)(<canvas.*?</script>)`)
	leadingFenceRe   = regexp.MustCompile("^```[a-zA-Z]*[ \\t]*\\r?\\n?")
	trailingFenceRe  = regexp.MustCompile("\\r?\\n?```\\s*$")
)

// Payload extracts the intended document from raw model output. It never
// fails: when no matcher is confident, the input comes back unchanged and
// the caller decides how to treat the degraded artifact.
func Payload(raw string) string {
	for _, m := range matchers {
		if out, ok := m(raw); ok {
			return out
		}
	}
	return raw
}

// fencedDocument finds a complete document inside a fenced code block,
// with or without surrounding prose.
func fencedDocument(raw string) (string, bool) {
	if m := fencedDoctypeRe.FindStringSubmatch(raw); m != nil {
		return m[1], true
	}
	if m := fencedHTMLRe.FindStringSubmatch(raw); m != nil {
		return m[1], true
	}
	return "", false
}

// strippedFences removes a single leading and trailing fence marker and
// accepts the remainder if it then reads as a document from the start.
func strippedFences(raw string) (string, bool) {
	trimmed := strings.TrimSpace(raw)
	stripped := leadingFenceRe.ReplaceAllString(trimmed, "")
	stripped = trailingFenceRe.ReplaceAllString(stripped, "")
	stripped = strings.TrimSpace(stripped)
	if IsDocument(stripped) {
		return stripped, true
	}
	return "", false
}

// bareDocument finds the first complete doctype-to-closing-tag span
// anywhere in the text.
func bareDocument(raw string) (string, bool) {
	if m := bareDoctypeRe.FindStringSubmatch(raw); m != nil {
		return m[1], true
	}
	return "", false
}

// wrappedFragment finds the smallest renderable fragment, a canvas
// element through the end of its script block, and synthesizes a minimal
// document around it so the artifact still stands alone.
func wrappedFragment(raw string) (string, bool) {
	m := canvasFragmentRe.FindStringSubmatch(raw)
	if m == nil {
		return "", false
	}
	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"UTF-8\">\n")
	b.WriteString("<style>* { margin: 0; padding: 0; } body { background: #0a0a14; overflow: hidden; } canvas { display: block; }</style>\n")
	b.WriteString("</head>\n<body>\n")
	b.WriteString(m[1])
	b.WriteString("\n</body>\n</html>")
	return b.String(), true
}

// IsDocument reports whether text already reads as a standalone HTML
// document from its first non-space character.
func IsDocument(s string) bool {
	lower := strings.ToLower(strings.TrimSpace(s))
	return strings.HasPrefix(lower, "<!doctype") || strings.HasPrefix(lower, "<html")
}
