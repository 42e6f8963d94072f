package ingestion

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Source formats
const (
	FormatText = "text"
	FormatHTML = "html"
	FormatCSV  = "csv"
	FormatJSON = "json"
)

// Metadata describes an ingested document
type Metadata struct {
	Source    string `json:"source,omitempty"`
	Format    string `json:"format"`
	Timestamp string `json:"timestamp"` // RFC3339
	Hash      string `json:"hash"`      // SHA256 of the cleaned content
}

// NewMetadata creates a new Metadata instance with current timestamp
func NewMetadata(content, source, format string) *Metadata {
	return &Metadata{
		Source:    source,
		Format:    format,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Hash:      computeHash(content),
	}
}

// computeHash computes SHA256 hash of content and returns hex string
func computeHash(content string) string {
	hash := sha256.Sum256([]byte(content))
	return hex.EncodeToString(hash[:])
}
