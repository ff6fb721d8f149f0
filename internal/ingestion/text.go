// Package ingestion prepares raw job, resume and CV input for analysis: line
// cleanup, HTML reduction and file loading.
package ingestion

import (
	"fmt"
	"os"
	"regexp"
	"strings"
)

var (
	innerSpace  = regexp.MustCompile(`[ \t\f\v]+`)
	blankLines  = regexp.MustCompile(`\n{3,}`)
	bulletRunes = []string{"- ", "* ", "• ", "· "}
)

// CleanText normalizes line endings, collapses runs of spaces inside lines,
// keeps bullet indentation and caps blank runs at one empty line.
func CleanText(content string) string {
	if content == "" {
		return ""
	}

	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.ReplaceAll(content, "\r", "\n")

	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = cleanLine(line)
	}

	result := blankLines.ReplaceAllString(strings.Join(lines, "\n"), "\n\n")
	return strings.TrimSpace(result)
}

func cleanLine(line string) string {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return ""
	}
	if isBulletLine(trimmed) {
		indent := len(line) - len(strings.TrimLeft(line, " \t"))
		return strings.Repeat(" ", indent) + innerSpace.ReplaceAllString(trimmed, " ")
	}
	return innerSpace.ReplaceAllString(trimmed, " ")
}

func isBulletLine(trimmed string) bool {
	for _, prefix := range bulletRunes {
		if strings.HasPrefix(trimmed, prefix) {
			return true
		}
	}
	return false
}

// ReadFile loads a text or HTML file and returns it prepared for analysis.
// An empty path yields an empty document.
func ReadFile(path string) (*Document, error) {
	if path == "" {
		return Prepare(""), nil
	}
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("file not found: %w", err)
		}
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	doc := Prepare(string(content))
	doc.Meta.Source = path
	return doc, nil
}
