// Package quotes serves the stoic quote printed at the top of the daily
// digest.
package quotes

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"strings"
)

type Quote struct {
	Text   string `json:"q"`
	Author string `json:"a"`
}

// Book is a loaded quote collection. An empty book still produces a
// fallback quote.
type Book struct {
	quotes []Quote
}

const fallback = "«" + "The happiness of your life depends upon the quality of your thoughts." + "» — Marcus Aurelius"

// Load reads the quote file. A missing or malformed file yields an
// empty book rather than an error; the digest falls back to a stock
// quote.
func Load(path string) *Book {
	data, err := os.ReadFile(path)
	if err != nil {
		return &Book{}
	}
	var quotes []Quote
	if err := json.Unmarshal(data, &quotes); err != nil {
		return &Book{}
	}
	return &Book{quotes: quotes}
}

func (b *Book) Len() int {
	return len(b.quotes)
}

// Random formats a random quote from the book, skipping entries with an
// empty text and attributing missing authors to "Stoic".
func (b *Book) Random() string {
	if len(b.quotes) > 0 {
		item := b.quotes[rand.Intn(len(b.quotes))]
		text := strings.TrimSpace(item.Text)
		author := strings.TrimSpace(item.Author)
		if author == "" {
			author = "Stoic"
		}
		if text != "" {
			return fmt.Sprintf("«%s» — %s", text, author)
		}
	}
	return fallback
}
