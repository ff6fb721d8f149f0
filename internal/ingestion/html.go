package ingestion

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var htmlTag = regexp.MustCompile(`(?i)<(html|body|div|p|ul|ol|li|br|h[1-6]|span|section|article|strong|em|table)\b[^>]*>`)

// noiseSelector removes page chrome that never belongs to a posting.
const noiseSelector = "nav, footer, header, script, style, noscript, .ad, .advertisement, .sidebar, .cookie-banner"

// JobPostingSelectors lists containers that commonly hold the posting body on
// job boards, most specific first.
func JobPostingSelectors() []string {
	return []string{
		".job-description",
		"#job-description",
		".posting-page",
		"#content .job",
		"[data-automation-id='jobPostingDescription']",
		"main",
		"article",
	}
}

// LooksLikeHTML reports whether content contains markup worth parsing.
func LooksLikeHTML(content string) bool {
	return htmlTag.MatchString(content)
}

// HTMLToText extracts readable text from HTML. Block elements become line
// breaks so bullet lists keep one skill phrase per line.
func HTMLToText(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	doc.Find(noiseSelector).Remove()
	doc.Find("br").ReplaceWithHtml("\n")
	doc.Find("p, li, div, h1, h2, h3, h4, h5, h6, tr").Each(func(_ int, s *goquery.Selection) {
		s.AppendHtml("\n")
	})

	var main *goquery.Selection
	for _, selector := range JobPostingSelectors() {
		if sel := doc.Find(selector); sel.Length() > 0 {
			main = sel.First()
			break
		}
	}
	if main == nil {
		main = doc.Find("body")
	}

	return CleanText(main.Text()), nil
}
