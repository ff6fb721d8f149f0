package ingestion

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"Empty", "", ""},
		{"Collapses spaces", "Line    with \t multiple   spaces", "Line with multiple spaces"},
		{"Normalizes line endings", "Line 1\r\nLine 2\rLine 3", "Line 1\nLine 2\nLine 3"},
		{"Caps blank lines", "Line 1\n\n\n\n\nLine 2", "Line 1\n\nLine 2"},
		{"Keeps bullet indentation", "Skills:\n  - Python\n  - AWS", "Skills:\n  - Python\n  - AWS"},
		{"Trims", "   \n  Python  \n\n", "Python"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CleanText(tt.input))
		})
	}
}

func TestCleanText_Deterministic(t *testing.T) {
	input := "Test content   with   spaces\n\n\nMultiple   blank   lines"
	assert.Equal(t, CleanText(input), CleanText(input))
}

func TestLooksLikeHTML(t *testing.T) {
	assert.True(t, LooksLikeHTML("<div>Python</div>"))
	assert.True(t, LooksLikeHTML("<UL><LI>Java</LI></UL>"))
	assert.False(t, LooksLikeHTML("C++ <3 and a < b"))
	assert.False(t, LooksLikeHTML("Plain Python developer"))
}

func TestHTMLToText(t *testing.T) {
	html := `<html><body>
<nav>Home | Jobs | Login</nav>
<div class="job-description">
  <h2>Requirements</h2>
  <ul><li>Python</li><li>Machine Learning</li></ul>
  <p>Strong<br>communication</p>
</div>
<footer>Copyright</footer>
<script>var tracking = "java";</script>
</body></html>`

	text, err := HTMLToText(html)
	require.NoError(t, err)

	assert.Contains(t, text, "Requirements")
	assert.Contains(t, text, "Python")
	assert.Contains(t, text, "Machine Learning")
	assert.NotContains(t, text, "PythonMachine")
	assert.NotContains(t, text, "Login")
	assert.NotContains(t, text, "Copyright")
	assert.NotContains(t, text, "tracking")
}

func TestHTMLToText_FallbackToBody(t *testing.T) {
	text, err := HTMLToText("<html><body><p>Docker and Kubernetes</p></body></html>")
	require.NoError(t, err)
	assert.Equal(t, "Docker and Kubernetes", text)
}

func TestPrepare(t *testing.T) {
	plain := Prepare("Python   developer")
	assert.Equal(t, "Python developer", plain.Text)
	assert.Equal(t, FormatText, plain.Meta.Format)
	assert.Len(t, plain.Meta.Hash, 64)
	assert.Equal(t, len("Python developer"), plain.Meta.Chars)

	html := Prepare("<div><p>Python developer</p></div>")
	assert.Equal(t, FormatHTML, html.Meta.Format)
	assert.Equal(t, "Python developer", html.Text)
	assert.Equal(t, plain.Meta.Hash, html.Meta.Hash, "hash covers the cleaned text")
}

func TestReadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "resume.txt")
	require.NoError(t, os.WriteFile(path, []byte("Java\r\nDocker  "), 0644))

	doc, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Java\nDocker", doc.Text)
	assert.Equal(t, path, doc.Meta.Source)

	empty, err := ReadFile("")
	require.NoError(t, err)
	assert.Empty(t, empty.Text)

	_, err = ReadFile(filepath.Join(dir, "missing.txt"))
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "file not found"))
}
