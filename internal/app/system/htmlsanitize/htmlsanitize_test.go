package htmlsanitize_test

import (
	"strings"
	"testing"

	"github.com/placementhub/placementhub/internal/app/system/htmlsanitize"
)

func TestSanitize_Preserved(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"plain text", "Hello, World!"},
		{"formatting", "<p><strong>Bold</strong> and <em>italic</em></p>"},
		{"extended formatting", "<u>underline</u> <s>strike</s> <sub>sub</sub> <sup>sup</sup> <mark>mark</mark>"},
		{"lists", "<ul><li>Item 1</li><li>Item 2</li></ul>"},
		{"table", `<table><thead><tr><th>Header</th></tr></thead><tbody><tr><td>Cell</td></tr></tbody></table>`},
		{"code block", "<pre><code>func main() {}</code></pre>"},
		{"blockquote", "<blockquote>A quote</blockquote>"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := htmlsanitize.Sanitize(tt.input); got != tt.input {
				t.Errorf("Sanitize(%q) = %q, want unchanged", tt.input, got)
			}
		})
	}
}

func TestSanitize_Removed(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		barred string
	}{
		{"script tag", "<p>Hello</p><script>alert('x')</script>", "script"},
		{"onclick", `<button onclick="alert('x')">Click</button>`, "onclick"},
		{"onerror", `<img src="x" onerror="alert('x')">`, "onerror"},
		{"javascript href", `<a href="javascript:alert('x')">Click</a>`, "javascript:"},
		{"iframe", `<iframe src="https://evil.example"></iframe>`, "iframe"},
		{"form", `<form action="/steal"><input name="x"></form>`, "form"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := htmlsanitize.Sanitize(tt.input); strings.Contains(got, tt.barred) {
				t.Errorf("Sanitize(%q) = %q, still contains %q", tt.input, got, tt.barred)
			}
		})
	}
}

func TestSanitize_TableAttributes(t *testing.T) {
	input := `<table class="grid"><tr><td colspan="2" rowspan="2">Cell</td></tr></table>`
	got := htmlsanitize.Sanitize(input)
	for _, want := range []string{`class="grid"`, `colspan="2"`, `rowspan="2"`} {
		if !strings.Contains(got, want) {
			t.Errorf("Sanitize(%q) = %q, missing %q", input, got, want)
		}
	}
}

func TestSanitize_SafeLinks(t *testing.T) {
	got := htmlsanitize.Sanitize(`<a href="https://example.com">Link</a>`)
	if !strings.Contains(got, "https://example.com") {
		t.Errorf("safe link dropped: %q", got)
	}
}
