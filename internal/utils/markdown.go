package utils

import (
	"regexp"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	codeStyle   = lipgloss.NewStyle().Background(lipgloss.Color("236")).Padding(0, 1)
	boldStyle   = lipgloss.NewStyle().Bold(true)
	italicStyle = lipgloss.NewStyle().Italic(true)
	linkStyle   = lipgloss.NewStyle().Underline(true)
	quoteStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	listStyle   = lipgloss.NewStyle().MarginLeft(2)

	orderedItemRe = regexp.MustCompile(`^(\d+)\.\s+(.*)`)
	headingRe     = regexp.MustCompile(`^#{1,6}\s+(.*)`)
	inlineCodeRe  = regexp.MustCompile("`([^`]+)`")
	linkRe        = regexp.MustCompile(`\[([^\]]+)\]\(([^)]+)\)`)
	boldRe        = regexp.MustCompile(`\*\*([^*]+)\*\*|__([^_]+)__`)
	italicRe      = regexp.MustCompile(`\*([^*\s][^*]*)\*|\b_([^_]+)_\b`)
)

// RenderMarkdown styles the subset of Markdown the agent emits: headings,
// lists, quotes, fenced code, links and emphasis. Anything else is passed
// through unchanged.
func RenderMarkdown(text string) string {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	out := make([]string, 0, len(lines))

	inCode := false
	for _, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			inCode = !inCode
			continue
		}
		if inCode {
			out = append(out, codeStyle.Render(line))
			continue
		}

		trimmed := strings.TrimSpace(line)
		switch {
		case headingRe.MatchString(trimmed):
			title := headingRe.FindStringSubmatch(trimmed)[1]
			out = append(out, boldStyle.Render(renderInline(title)))
		case strings.HasPrefix(trimmed, "- "), strings.HasPrefix(trimmed, "* "):
			out = append(out, listStyle.Render("• "+renderInline(trimmed[2:])))
		case orderedItemRe.MatchString(trimmed):
			m := orderedItemRe.FindStringSubmatch(trimmed)
			out = append(out, listStyle.Render(m[1]+". "+renderInline(m[2])))
		case strings.HasPrefix(trimmed, "> "):
			out = append(out, quoteStyle.Render("│ "+renderInline(trimmed[2:])))
		default:
			out = append(out, renderInline(line))
		}
	}

	return strings.TrimRight(strings.Join(out, "\n"), "\n")
}

func renderInline(line string) string {
	// Code spans first so their contents are not treated as emphasis.
	var spans []string
	line = inlineCodeRe.ReplaceAllStringFunc(line, func(m string) string {
		spans = append(spans, codeStyle.Render(strings.Trim(m, "`")))
		return "\x00"
	})

	line = linkRe.ReplaceAllStringFunc(line, func(m string) string {
		parts := linkRe.FindStringSubmatch(m)
		return linkStyle.Render(parts[1]) + " (" + parts[2] + ")"
	})
	line = boldRe.ReplaceAllStringFunc(line, func(m string) string {
		return boldStyle.Render(firstGroup(boldRe.FindStringSubmatch(m)))
	})
	line = italicRe.ReplaceAllStringFunc(line, func(m string) string {
		return italicStyle.Render(firstGroup(italicRe.FindStringSubmatch(m)))
	})

	for _, span := range spans {
		line = strings.Replace(line, "\x00", span, 1)
	}
	return line
}

func firstGroup(groups []string) string {
	for _, g := range groups[1:] {
		if g != "" {
			return g
		}
	}
	return groups[0]
}
