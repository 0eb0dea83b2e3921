package quotes

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeQuotes(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "quotes.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write quotes: %v", err)
	}
	return path
}

func TestLoadAndRandom(t *testing.T) {
	path := writeQuotes(t, `[{"q": "Waste no more time arguing what a good man should be. Be one.", "a": "Marcus Aurelius"}]`)
	book := Load(path)
	if book.Len() != 1 {
		t.Fatalf("expected 1 quote, got %d", book.Len())
	}
	got := book.Random()
	if !strings.Contains(got, "Waste no more time") || !strings.Contains(got, "Marcus Aurelius") {
		t.Fatalf("unexpected quote: %s", got)
	}
}

func TestMissingFileFallsBack(t *testing.T) {
	book := Load(filepath.Join(t.TempDir(), "absent.json"))
	if book.Len() != 0 {
		t.Fatalf("expected empty book, got %d", book.Len())
	}
	if got := book.Random(); !strings.Contains(got, "Marcus Aurelius") {
		t.Fatalf("expected fallback quote, got %s", got)
	}
}

func TestMalformedFileFallsBack(t *testing.T) {
	book := Load(writeQuotes(t, `{not json`))
	if got := book.Random(); !strings.Contains(got, "Marcus Aurelius") {
		t.Fatalf("expected fallback quote, got %s", got)
	}
}

func TestMissingAuthorBecomesStoic(t *testing.T) {
	book := Load(writeQuotes(t, `[{"q": "We suffer more often in imagination than in reality."}]`))
	if got := book.Random(); !strings.Contains(got, "Stoic") {
		t.Fatalf("expected Stoic attribution, got %s", got)
	}
}

func TestEmptyTextFallsBack(t *testing.T) {
	book := Load(writeQuotes(t, `[{"q": "  ", "a": "Seneca"}]`))
	if got := book.Random(); !strings.Contains(got, "Marcus Aurelius") {
		t.Fatalf("expected fallback for empty text, got %s", got)
	}
}
