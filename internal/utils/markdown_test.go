package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderMarkdownStripsMarkers(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		has     []string
		missing []string
	}{
		{"bold", "Created **Notes** for you", []string{"Notes", "Created"}, []string{"**"}},
		{"heading", "## Preview", []string{"Preview"}, []string{"##"}},
		{"bullet", "- first item", []string{"• first item"}, nil},
		{"ordered", "2. second", []string{"2. second"}, nil},
		{"link", "see [doc](https://docs.google.com/d/1)", []string{"doc", "https://docs.google.com/d/1"}, []string{"]("}},
		{"code span keeps stars", "run `a*b*c`", []string{"a*b*c"}, []string{"`"}},
		{"fence", "```\nfmt.Println()\n```", []string{"fmt.Println()"}, []string{"```"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := RenderMarkdown(tt.in)
			for _, s := range tt.has {
				assert.Contains(t, out, s)
			}
			for _, s := range tt.missing {
				assert.NotContains(t, out, s)
			}
		})
	}
}

func TestRenderMarkdownPlainTextUnchanged(t *testing.T) {
	assert.Equal(t, "hello world", RenderMarkdown("hello world"))
}
