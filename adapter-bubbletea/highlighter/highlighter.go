// Package highlighter colors the positions file for the preview pane.
package highlighter

import (
	"strings"
	"sync"

	"charm.land/lipgloss/v2"
	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// Highlighter renders text with lipgloss styles taken from a chroma theme.
// It remembers the last document so re-rendering an unchanged file is free.
type Highlighter struct {
	lexer chroma.Lexer
	theme *chroma.Style

	mu         sync.Mutex
	tokenStyle map[chroma.TokenType]lipgloss.Style
	lastSource string
	lastOutput string
}

// New returns a highlighter for language. Unknown languages are rendered as
// plain text and unknown themes fall back to chroma's default.
func New(language string, theme string) *Highlighter {
	lexer := lexers.Get(language)
	if lexer == nil {
		lexer = lexers.Fallback
	}

	return &Highlighter{
		lexer:      chroma.Coalesce(lexer),
		theme:      styles.Get(theme),
		tokenStyle: make(map[chroma.TokenType]lipgloss.Style),
	}
}

// Lines tokenizes content and groups the tokens by line.
func (h *Highlighter) Lines(content string) [][]chroma.Token {
	if content == "" {
		return nil
	}

	iterator, err := h.lexer.Tokenise(nil, content)
	if err != nil {
		return plainLines(content)
	}
	return splitLines(iterator.Tokens())
}

// Render returns content with every token styled.
func (h *Highlighter) Render(content string) string {
	h.mu.Lock()
	defer h.mu.Unlock()

	if content == h.lastSource && h.lastOutput != "" {
		return h.lastOutput
	}

	var sb strings.Builder
	for i, line := range h.Lines(content) {
		if i > 0 {
			sb.WriteByte('\n')
		}
		for _, token := range line {
			sb.WriteString(h.styleFor(token.Type).Render(token.Value))
		}
	}

	h.lastSource, h.lastOutput = content, sb.String()
	return h.lastOutput
}

func (h *Highlighter) styleFor(tokenType chroma.TokenType) lipgloss.Style {
	if style, ok := h.tokenStyle[tokenType]; ok {
		return style
	}
	style := toLipgloss(h.theme.Get(tokenType))
	h.tokenStyle[tokenType] = style
	return style
}

func toLipgloss(entry chroma.StyleEntry) lipgloss.Style {
	style := lipgloss.NewStyle().
		Bold(entry.Bold == chroma.Yes).
		Italic(entry.Italic == chroma.Yes).
		Underline(entry.Underline == chroma.Yes)
	if entry.Colour.IsSet() {
		style = style.Foreground(lipgloss.Color(entry.Colour.String()))
	}
	return style
}

// splitLines breaks multi-line tokens apart. Each line keeps its tokens in
// order; a trailing newline yields a final empty line.
func splitLines(tokens []chroma.Token) [][]chroma.Token {
	lines := [][]chroma.Token{nil}
	for _, token := range tokens {
		for i, part := range strings.Split(token.Value, "\n") {
			if i > 0 {
				lines = append(lines, nil)
			}
			if part == "" {
				continue
			}
			last := len(lines) - 1
			lines[last] = append(lines[last], chroma.Token{Type: token.Type, Value: part})
		}
	}
	return lines
}

func plainLines(content string) [][]chroma.Token {
	raw := strings.Split(content, "\n")
	lines := make([][]chroma.Token, len(raw))
	for i, line := range raw {
		lines[i] = []chroma.Token{{Type: chroma.Text, Value: line}}
	}
	return lines
}
