package extract

import (
	"strings"
	"testing"
)

const sampleDoc = "<!DOCTYPE html>\n<html>\n<head><title>t</title></head>\n<body><canvas id=\"c\"></canvas><script>draw();</script></body>\n</html>"

func TestPayload_FencedDocumentWithProse(t *testing.T) {
	raw := "Sure! Here is the animation you asked for:\n\n```html\n" + sampleDoc + "\n```\n\nLet me know if you want changes."

	got := Payload(raw)
	if got != sampleDoc {
		t.Errorf("Expected the fenced document alone, got: %q", got)
	}
}

func TestPayload_FencedDocumentNoLanguageTag(t *testing.T) {
	raw := "```\n" + sampleDoc + "\n```"

	got := Payload(raw)
	if got != sampleDoc {
		t.Errorf("Expected the fenced document alone, got: %q", got)
	}
}

func TestPayload_FencedHTMLWithoutDoctype(t *testing.T) {
	doc := "<html>\n<body>hello</body>\n</html>"
	raw := "```html\n" + doc + "\n```"

	got := Payload(raw)
	if got != doc {
		t.Errorf("Expected the html element alone, got: %q", got)
	}
}

func TestPayload_StrippedFences(t *testing.T) {
	// A fence that opens but never closes a complete ```...``` pair with
	// the document inside still gets unwrapped by the fence stripper.
	doc := "<html>\n<body>x</body>\n</html>"
	raw := "```html\n" + doc

	got := Payload(raw)
	if got != doc {
		t.Errorf("Expected fences stripped, got: %q", got)
	}
}

func TestPayload_BareDocumentInsideProse(t *testing.T) {
	raw := "Here you go:\n" + sampleDoc + "\nEnjoy!"

	got := Payload(raw)
	if got != sampleDoc {
		t.Errorf("Expected the bare document span, got: %q", got)
	}
}

func TestPayload_CanvasFragmentGetsWrapped(t *testing.T) {
	fragment := "<canvas id=\"scene\" width=\"500\" height=\"670\"></canvas>\n<script>\nconst ctx = scene.getContext('2d');\n</script>"
	raw := "The page body would be:\n\n" + fragment + "\n\nThat is all."

	got := Payload(raw)
	if !strings.HasPrefix(got, "<!DOCTYPE html>") {
		t.Errorf("Expected a synthesized document, got: %q", got)
	}
	if !strings.Contains(got, fragment) {
		t.Errorf("Expected the fragment preserved inside the wrapper, got: %q", got)
	}
	if !strings.HasSuffix(got, "</html>") {
		t.Errorf("Expected a closed document, got: %q", got)
	}
	if !strings.Contains(got, "background: #0a0a14") {
		t.Errorf("Expected the dark page style in the wrapper, got: %q", got)
	}
}

func TestPayload_NoMatchReturnsInputUnchanged(t *testing.T) {
	raw := "I cannot produce that page, but here is a description instead."

	got := Payload(raw)
	if got != raw {
		t.Errorf("Expected input returned unchanged, got: %q", got)
	}
}

func TestPayload_AlreadyCleanDocument(t *testing.T) {
	got := Payload(sampleDoc)
	if got != sampleDoc {
		t.Errorf("Expected clean document untouched, got: %q", got)
	}
}

func TestIsDocument(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{sampleDoc, true},
		{"  \n<!doctype HTML><html></html>", true},
		{"<html lang=\"en\"></html>", true},
		{"```html\n<!DOCTYPE html>", false},
		{"Here is your page:", false},
		{"", false},
	}
	for _, c := range cases {
		if got := IsDocument(c.in); got != c.want {
			t.Errorf("IsDocument(%q) = %v, expected %v", c.in, got, c.want)
		}
	}
}
