package ingestion

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Input formats
const (
	FormatText = "text"
	FormatHTML = "html"
)

// Metadata describes one prepared input.
type Metadata struct {
	Source    string `json:"source,omitempty"`
	Format    string `json:"format"`
	Hash      string `json:"hash"` // SHA256 of the cleaned text
	Chars     int    `json:"chars"`
	Timestamp string `json:"timestamp"` // RFC3339
}

// Document is cleaned text plus its metadata.
type Document struct {
	Text string
	Meta Metadata
}

// Prepare cleans raw input. HTML is reduced to its text first; if the markup
// cannot be parsed the raw content is cleaned as plain text.
func Prepare(raw string) *Document {
	format := FormatText
	text := raw
	if LooksLikeHTML(raw) {
		if extracted, err := HTMLToText(raw); err == nil {
			text = extracted
			format = FormatHTML
		}
	}
	text = CleanText(text)

	return &Document{
		Text: text,
		Meta: Metadata{
			Format:    format,
			Hash:      computeHash(text),
			Chars:     len(text),
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		},
	}
}

func computeHash(content string) string {
	hash := sha256.Sum256([]byte(content))
	return hex.EncodeToString(hash[:])
}
