package markdown

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRender(t *testing.T) {
	tp := New()

	tests := []struct {
		name     string
		input    string
		contains []string
		absent   []string
	}{
		{
			name:     "emphasis",
			input:    "some *text* here",
			contains: []string{"<em>text</em>"},
		},
		{
			name:     "strikethrough",
			input:    "~~gone~~",
			contains: []string{"<del>gone</del>"},
		},
		{
			name:   "script is dropped",
			input:  "hi <script>alert(1)</script>",
			absent: []string{"<script", "alert(1)</script>"},
		},
		{
			name:     "fenced code",
			input:    "```\nx := 1\n```",
			contains: []string{"<pre><code>x := 1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := tp.Render(tt.input)
			for _, c := range tt.contains {
				assert.Contains(t, out, c)
			}
			for _, a := range tt.absent {
				assert.NotContains(t, out, a)
			}
		})
	}
}

func TestPlainText(t *testing.T) {
	tp := New()

	assert.Equal(t, "Title some bold text & more", tp.PlainText("# Title\n\nsome **bold**\ntext &amp; more"))
	assert.Equal(t, "", tp.PlainText(""))
}

func TestExcerpt(t *testing.T) {
	tp := New()

	t.Run("short content is untouched", func(t *testing.T) {
		assert.Equal(t, "test post", tp.Excerpt("test post", 100))
	})

	t.Run("exactly at limit", func(t *testing.T) {
		text := strings.Repeat("a", 100)
		assert.Equal(t, text, tp.Excerpt(text, 100))
	})

	t.Run("long content is cut", func(t *testing.T) {
		text := strings.Repeat("a", 150)
		got := tp.Excerpt(text, 100)
		assert.Equal(t, strings.Repeat("a", 100)+"...", got)
	})

	t.Run("counts characters not bytes", func(t *testing.T) {
		text := strings.Repeat("가", 120)
		got := tp.Excerpt(text, 100)
		assert.Equal(t, strings.Repeat("가", 100)+"...", got)
	})

	t.Run("markup does not count", func(t *testing.T) {
		assert.Equal(t, "bold", tp.Excerpt("**bold**", 4))
	})
}
