// Package ingestion turns job descriptions and job tables supplied as files
// or request bodies into the plain text and records the engine consumes.
package ingestion

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/jonathan/smart-applier/internal/types"
)

var (
	spaceRun     = regexp.MustCompile(`\s+`)
	blankLineRun = regexp.MustCompile(`\n\n\n+`)
	htmlMarker   = regexp.MustCompile(`(?i)<\s*(html|body|div|p|ul|li|br|h[1-6])[\s>/]`)
)

// CleanText cleans and normalizes text content while preserving structure
func CleanText(content string) string {
	if content == "" {
		return ""
	}

	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")

	lines := strings.Split(content, "\n")
	cleanedLines := make([]string, 0, len(lines))
	for _, line := range lines {
		cleanedLines = append(cleanedLines, cleanLine(line))
	}

	result := strings.Join(cleanedLines, "\n")
	result = removeExcessiveBlankLines(result)
	return strings.TrimSpace(result)
}

// cleanLine cleans a single line while preserving structure
func cleanLine(line string) string {
	line = strings.TrimRight(line, " \t")
	if strings.TrimSpace(line) == "" {
		return ""
	}

	trimmed := strings.TrimLeft(line, " \t")
	if strings.HasPrefix(trimmed, "#") {
		return trimmed
	}

	indent := len(line) - len(trimmed)
	if isBulletLine(trimmed) {
		return strings.Repeat(" ", indent) + trimmed
	}

	content := spaceRun.ReplaceAllString(strings.TrimSpace(line), " ")
	return strings.Repeat(" ", indent) + content
}

// isBulletLine checks if a line is a bullet list item
func isBulletLine(line string) bool {
	trimmed := strings.TrimLeft(line, " \t")
	return strings.HasPrefix(trimmed, "- ") || strings.HasPrefix(trimmed, "* ") ||
		strings.HasPrefix(trimmed, "• ") || strings.HasPrefix(trimmed, "· ")
}

// removeExcessiveBlankLines reduces consecutive blank lines to max 2
func removeExcessiveBlankLines(content string) string {
	return blankLineRun.ReplaceAllString(content, "\n\n")
}

// LooksLikeHTML reports whether content appears to be an HTML fragment or
// document rather than plain text.
func LooksLikeHTML(content string) bool {
	return htmlMarker.MatchString(content)
}

// JobDescriptionText turns a pasted job description into clean plain text.
// HTML input is reduced to its main text first.
func JobDescriptionText(content string) (string, error) {
	if LooksLikeHTML(content) {
		text, err := HTMLToText(content)
		if err != nil {
			return "", err
		}
		content = text
	}
	return CleanText(content), nil
}

// ReadJobDescription reads a job description from a .txt, .md or .html file,
// cleans it, and returns the text with its metadata.
func ReadJobDescription(path string) (string, *Metadata, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil, types.NewStageError(types.StageInput, types.ErrNotFound, "job description file not found", err)
		}
		return "", nil, types.NewStageError(types.StageInput, types.ErrInvalidInput, "failed to read job description", err)
	}

	raw := string(content)
	format := FormatText
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		format = FormatHTML
	default:
		if LooksLikeHTML(raw) {
			format = FormatHTML
		}
	}

	text := raw
	if format == FormatHTML {
		if text, err = HTMLToText(raw); err != nil {
			return "", nil, err
		}
	}
	text = CleanText(text)
	return text, NewMetadata(text, path, format), nil
}
