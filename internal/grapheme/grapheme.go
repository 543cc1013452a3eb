// Package grapheme splits lines of text into grapheme clusters and decides how wide each
// one is when drawn on a terminal.
package grapheme

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"

	"github.com/dpinela/pled/internal/coord"
)

// Placeholders used for clusters that can't be drawn as-is.
const (
	ControlPlaceholder   = "▯" // a lone control character
	ZeroWidthPlaceholder = "·" // any other cluster that would occupy no cells
	SpacePlaceholder     = "␣" // whitespace other than the plain space
	InvalidPlaceholder   = "�"
)

// DefaultTabWidth is the distance between tab stops used when none is configured.
const DefaultTabWidth = 4

// A Fragment is a single grapheme cluster, annotated with how it should be drawn.
type Fragment struct {
	Text        string       // The cluster itself, as it appears in the source text
	Width       coord.ColIdx // The number of terminal cells it occupies
	Replacement string       // What to draw instead of Text; empty if Text can be drawn directly
	Offset      coord.ByteIdx
}

// Render returns the string that should be drawn for f.
func (f Fragment) Render() string {
	if f.Replacement != "" {
		return f.Replacement
	}
	return f.Text
}

// widthCond is fixed so that widths don't depend on the user's locale; ambiguous-width
// characters are always narrow.
var widthCond = func() *runewidth.Condition {
	c := runewidth.NewCondition()
	c.EastAsianWidth = false
	return c
}()

// A Classifier segments text into Fragments.
// The zero Classifier uses DefaultTabWidth.
type Classifier struct {
	TabWidth int
}

func (c Classifier) tabWidth() coord.ColIdx {
	if c.TabWidth <= 0 {
		return DefaultTabWidth
	}
	return coord.ColIdx(c.TabWidth)
}

// Classify splits text, which must not contain line breaks, into grapheme clusters.
// An empty text yields no fragments.
func (c Classifier) Classify(text string) []Fragment {
	if text == "" {
		return nil
	}
	out := make([]Fragment, 0, len(text))
	var col coord.ColIdx
	offset := 0
	state := -1
	for rest := text; len(rest) > 0; {
		var cluster string
		cluster, rest, _, state = uniseg.StepString(rest, state)
		f := c.fragment(cluster, col)
		f.Offset = coord.ByteIdx(offset)
		out = append(out, f)
		offset += len(cluster)
		col += f.Width
	}
	return out
}

// Width returns the total number of cells text occupies when drawn starting at column 0.
func (c Classifier) Width(text string) coord.ColIdx {
	var w coord.ColIdx
	for _, f := range c.Classify(text) {
		w += f.Width
	}
	return w
}

// fragment classifies one cluster that starts at display column col.
func (c Classifier) fragment(cluster string, col coord.ColIdx) Fragment {
	switch {
	case cluster == "\t":
		tw := c.tabWidth()
		n := tw - col%tw
		return Fragment{Text: cluster, Width: n, Replacement: strings.Repeat(" ", int(n))}
	case !utf8.ValidString(cluster):
		return Fragment{Text: cluster, Width: 1, Replacement: InvalidPlaceholder}
	case cluster == " ":
		return Fragment{Text: cluster, Width: 1}
	}
	w := widthCond.StringWidth(cluster)
	switch {
	case w == 0:
		if r, n := utf8.DecodeRuneInString(cluster); n == len(cluster) && unicode.IsControl(r) {
			return Fragment{Text: cluster, Width: 1, Replacement: ControlPlaceholder}
		}
		return Fragment{Text: cluster, Width: 1, Replacement: ZeroWidthPlaceholder}
	case isSpace(cluster):
		return Fragment{Text: cluster, Width: 1, Replacement: SpacePlaceholder}
	case w >= 2:
		return Fragment{Text: cluster, Width: 2}
	default:
		return Fragment{Text: cluster, Width: 1}
	}
}

func isSpace(cluster string) bool {
	for _, r := range cluster {
		if !unicode.IsSpace(r) {
			return false
		}
	}
	return true
}
