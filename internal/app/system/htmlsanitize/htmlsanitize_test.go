package htmlsanitize_test

import (
	"strings"
	"testing"

	"github.com/dalemusser/startupinsight/internal/app/system/htmlsanitize"
)

func TestPlainText_Empty(t *testing.T) {
	if got := htmlsanitize.PlainText(""); got != "" {
		t.Errorf("expected empty string, got %q", got)
	}
}

func TestPlainText_Unchanged(t *testing.T) {
	input := "San Francisco, CA"
	if got := htmlsanitize.PlainText(input); got != input {
		t.Errorf("expected plain text unchanged, got %q", got)
	}
}

func TestPlainText_KeepsPunctuationUnescaped(t *testing.T) {
	input := "The company's flagship product & its users"
	if got := htmlsanitize.PlainText(input); got != input {
		t.Errorf("expected %q, got %q", input, got)
	}
}

func TestPlainText_StripsTags(t *testing.T) {
	got := htmlsanitize.PlainText("<b>Nutri</b>Tech")
	if got != "NutriTech" {
		t.Errorf("expected tags stripped, got %q", got)
	}
}

func TestPlainText_RemovesScript(t *testing.T) {
	got := htmlsanitize.PlainText("Hello<script>alert('xss')</script>")
	if strings.Contains(got, "alert") {
		t.Errorf("expected script body removed, got %q", got)
	}
	if !strings.Contains(got, "Hello") {
		t.Errorf("expected safe text preserved, got %q", got)
	}
}

func TestPlainText_TrimsSpace(t *testing.T) {
	if got := htmlsanitize.PlainText("  HealthAI \n"); got != "HealthAI" {
		t.Errorf("expected trimmed text, got %q", got)
	}
}

func TestIsPlainText(t *testing.T) {
	if !htmlsanitize.IsPlainText("Y Combinator") {
		t.Error("expected string without tags to be plain text")
	}
	if htmlsanitize.IsPlainText("<p>Hello</p>") {
		t.Error("expected string with tags to NOT be plain text")
	}
}
