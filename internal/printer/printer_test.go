package printer_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"

	"github.com/tailored-agentic-units/vortex/internal/printer"
)

func TestError(t *testing.T) {
	tests := []struct {
		name        string
		suggestions []string
	}{
		{name: "no suggestions"},
		{name: "one suggestion", suggestions: []string{"Try this fix"}},
		{name: "several suggestions", suggestions: []string{"First option", "Second option"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := printer.Error("Test Error", "Explanation", tt.suggestions)
			if err == nil || err.Error() != "Test Error" {
				t.Errorf("got %v, want error %q", err, "Test Error")
			}
		})
	}
}

func TestSuccess_Prefix(t *testing.T) {
	var buf bytes.Buffer
	printer.Success(&buf, "done\n")
	printer.Success(&buf, "✓ already marked\n")

	if got := strings.Count(buf.String(), "✓"); got != 2 {
		t.Errorf("got %d checkmarks, want 2: %q", got, buf.String())
	}
}

func TestSwatch(t *testing.T) {
	prev := color.NoColor
	color.NoColor = false
	t.Cleanup(func() { color.NoColor = prev })

	if got := printer.Swatch("not a colour"); got != "  " {
		t.Errorf("invalid colour swatch = %q, want blanks", got)
	}
	if got := printer.Swatch("#ff8000"); !strings.Contains(got, "  ") || got == "  " {
		t.Errorf("swatch = %q, want an escaped block", got)
	}
}
