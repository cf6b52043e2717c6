package deck

import (
	"os"
	"strings"
)

const (
	commentPrefix = "c "
	bannerWidth   = 78
	wrapWidth     = 80
)

// Render serializes the deck to the on-disk format. It is a pure function
// of the deck's current state: rendering an unmutated deck twice yields
// byte-identical output.
//
// Layout: title line; header comment wrapped at 80 columns with every line
// comment-prefixed; then the fixed section order Cells, Geometry, Data,
// Materials, each introduced by a centered banner. Block fragments are
// written verbatim (each is already newline-terminated) with one blank line
// closing each section.
func (d *Deck) Render() string {
	var b strings.Builder
	b.WriteString(d.Title)
	b.WriteString("\n")
	b.WriteString(wrapComment(d.comment))
	b.WriteString("\n")

	b.WriteString(banner(" Cells "))
	for _, f := range d.cells {
		b.WriteString(f)
	}
	b.WriteString("\n")

	b.WriteString(banner(" Geometry "))
	for _, f := range d.geometry {
		b.WriteString(f)
	}
	b.WriteString("\n")

	b.WriteString(banner(" Data "))
	for _, f := range d.data {
		b.WriteString(f)
	}
	b.WriteString(banner(" Materials "))
	for _, f := range d.materials {
		b.WriteString(f)
	}
	b.WriteString("\n")

	return b.String()
}

// WriteFile renders the deck and writes it to path as UTF-8 text.
func (d *Deck) WriteFile(path string) error {
	return os.WriteFile(path, []byte(d.Render()), 0o644)
}

// banner renders a section header: the comment marker followed by the label
// centered in a 78-character field of '-'.
func banner(label string) string {
	return commentPrefix + center(label, bannerWidth) + "\n"
}

func center(s string, width int) string {
	if len(s) >= width {
		return s
	}
	left := (width - len(s)) / 2
	right := width - len(s) - left
	return strings.Repeat("-", left) + s + strings.Repeat("-", right)
}

// wrapComment greedily wraps already-normalized text, prefixing every line
// (first and subsequent) with the comment marker. The marker counts toward
// the wrap width.
func wrapComment(text string) string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return commentPrefix
	}
	var lines []string
	line := commentPrefix + words[0]
	for _, w := range words[1:] {
		if len(line)+1+len(w) > wrapWidth {
			lines = append(lines, line)
			line = commentPrefix + w
			continue
		}
		line += " " + w
	}
	lines = append(lines, line)
	return strings.Join(lines, "\n")
}
