package sanitization

import (
	"strings"
	"testing"
)

func TestSanitizeLogString_StripsCRLF(t *testing.T) {
	if got := SanitizeLogString("line\r\ninjected"); got != "lineinjected" {
		t.Fatalf("unexpected result %q", got)
	}
	if got := SanitizeLogString(""); got != "" {
		t.Fatalf("empty input must stay empty, got %q", got)
	}
}

func TestSanitizeFieldValue_RedactsCredentials(t *testing.T) {
	for _, key := range []string{"password", "secret", "api_token", "Authorization", " PRIVATE_KEY "} {
		if got := SanitizeFieldValue(key, "hunter2"); got != "[REDACTED]" {
			t.Fatalf("%s: expected redaction, got %v", key, got)
		}
	}
}

func TestSanitizeFieldValue_MasksChallenges(t *testing.T) {
	got := SanitizeFieldValue("verification_token", "google-site-verification=abcdef123456")
	masked, ok := got.(string)
	if !ok {
		t.Fatalf("expected string, got %T", got)
	}
	if !strings.HasPrefix(masked, "goog") || !strings.HasSuffix(masked, "3456") {
		t.Fatalf("expected prefix/suffix to survive: %q", masked)
	}
	if strings.Contains(masked, "verification=") {
		t.Fatalf("middle must be masked: %q", masked)
	}
}

func TestSanitizeFieldValue_PassthroughForOrdinaryFields(t *testing.T) {
	if got := SanitizeFieldValue("fqdn", "www.example.com"); got != "www.example.com" {
		t.Fatalf("unexpected result %v", got)
	}
	if got := SanitizeFieldValue("count", 4); got != 4 {
		t.Fatalf("non-string values pass through, got %v", got)
	}
	if got := SanitizeFieldValue("note", "with\nnewline"); got != "withnewline" {
		t.Fatalf("ordinary strings still lose control characters, got %q", got)
	}
}

func TestMaskFirstLast(t *testing.T) {
	if got := MaskFirstLast("", 4, 4); got != "(empty)" {
		t.Fatalf("unexpected result %q", got)
	}
	if got := MaskFirstLast("short", 4, 4); got != "***masked***" {
		t.Fatalf("too-short values fully mask, got %q", got)
	}
	if got := MaskFirstLast("abcdefghijkl", 4, 4); got != "abcd...ijkl" {
		t.Fatalf("unexpected result %q", got)
	}
}
