package buffer

import (
	"sort"
	"strings"

	"github.com/dpinela/pled/internal/coord"
	"github.com/dpinela/pled/internal/grapheme"
)

// A Line is one line of text, without its terminator, split into grapheme clusters.
//
// Alongside the clusters, a Line caches the display column at which each of them starts,
// so that converting between grapheme indices and columns doesn't need to rescan the text.
// The cache is rebuilt after every change.
type Line struct {
	text      string
	fragments []grapheme.Fragment
	cols      []coord.ColIdx // cols[i] is where fragment i starts; the last entry is the line's width
	cls       grapheme.Classifier
}

// NewLine creates a Line holding text, which must not contain line breaks.
func NewLine(text string, cls grapheme.Classifier) *Line {
	l := &Line{cls: cls}
	l.set(text)
	return l
}

func (l *Line) set(text string) {
	if strings.ContainsAny(text, "\r\n") {
		panic("buffer: line break inside a line")
	}
	l.text = text
	l.fragments = l.cls.Classify(text)
	l.cols = l.cols[:0]
	var c coord.ColIdx
	for _, f := range l.fragments {
		l.cols = append(l.cols, c)
		c += f.Width
	}
	l.cols = append(l.cols, c)
}

// String returns the text of the line.
func (l *Line) String() string { return l.text }

// Len returns the number of grapheme clusters in the line.
func (l *Line) Len() coord.GraphemeIdx { return coord.GraphemeIdx(len(l.fragments)) }

// Width returns the number of terminal cells the line occupies.
func (l *Line) Width() coord.ColIdx { return l.cols[len(l.cols)-1] }

// Insert inserts text before the grapheme at index at, or at the end of the line if
// at == l.Len(). It reports whether anything was inserted; nothing is if at is out of range.
//
// The line is re-segmented afterwards, so the number of graphemes may grow by less than
// expected; for example, a combining mark merges into the cluster before it.
func (l *Line) Insert(text string, at coord.GraphemeIdx) bool {
	if at < 0 || at > l.Len() || text == "" {
		return false
	}
	b := l.GraphemeToByte(at)
	l.set(l.text[:b] + text + l.text[b:])
	return true
}

// Delete removes the grapheme at index at, reporting whether there was one.
func (l *Line) Delete(at coord.GraphemeIdx) bool {
	if at < 0 || at >= l.Len() {
		return false
	}
	f := l.fragments[at]
	start := int(f.Offset)
	l.set(l.text[:start] + l.text[start+len(f.Text):])
	return true
}

// Split divides the line into the graphemes before index at and those from at onwards.
// The receiver is left unchanged.
func (l *Line) Split(at coord.GraphemeIdx) (left, right *Line) {
	b := l.GraphemeToByte(coord.Clamp(at, l.Len()))
	return NewLine(l.text[:b], l.cls), NewLine(l.text[b:], l.cls)
}

// Append adds the contents of other to the end of l.
func (l *Line) Append(other *Line) {
	if other.text != "" {
		l.set(l.text + other.text)
	}
}

// GraphemeToCol returns the display column at which the grapheme at index idx starts.
// Indices past the end map to the line's width.
func (l *Line) GraphemeToCol(idx coord.GraphemeIdx) coord.ColIdx {
	return l.cols[coord.Clamp(idx, l.Len())]
}

// ColToGrapheme returns the index of the grapheme drawn at display column col.
// A column in the middle of a wide grapheme resolves to that grapheme; columns past the
// end of the line resolve to l.Len().
func (l *Line) ColToGrapheme(col coord.ColIdx) coord.GraphemeIdx {
	if col >= l.Width() {
		return l.Len()
	}
	i := sort.Search(len(l.cols), func(i int) bool { return l.cols[i] > col })
	return coord.GraphemeIdx(max(i-1, 0))
}

// GraphemeToByte returns the byte offset at which the grapheme at index idx starts.
// Indices past the end map to the length of the text.
func (l *Line) GraphemeToByte(idx coord.GraphemeIdx) coord.ByteIdx {
	if idx <= 0 {
		return 0
	}
	if idx >= l.Len() {
		return coord.ByteIdx(len(l.text))
	}
	return l.fragments[idx].Offset
}

// ByteToGrapheme returns the index of the grapheme containing the byte at offset b.
// Offsets past the end map to l.Len().
func (l *Line) ByteToGrapheme(b coord.ByteIdx) coord.GraphemeIdx {
	if b >= coord.ByteIdx(len(l.text)) {
		return l.Len()
	}
	i := sort.Search(len(l.fragments), func(i int) bool { return l.fragments[i].Offset > b })
	return coord.GraphemeIdx(max(i-1, 0))
}

// Cells lays out the part of the line between display columns left (inclusive) and right
// (exclusive). Each element of the result is what should be drawn in one column.
//
// A wide grapheme is placed in its first column and followed by an empty string.
// A wide grapheme cut off by either edge is drawn as blanks instead.
func (l *Line) Cells(left, right coord.ColIdx) []string {
	right = min(right, l.Width())
	if left >= right {
		return nil
	}
	out := make([]string, 0, right-left)
	for i := l.ColToGrapheme(left); i < l.Len(); i++ {
		f := l.fragments[i]
		start := l.cols[i]
		if start >= right {
			break
		}
		switch {
		case f.Text == "\t":
			for c := max(start, left); c < min(start+f.Width, right); c++ {
				out = append(out, " ")
			}
		case f.Width > 1 && (start < left || start+f.Width > right):
			for c := max(start, left); c < min(start+f.Width, right); c++ {
				out = append(out, " ")
			}
		default:
			out = append(out, f.Render())
			for c := coord.ColIdx(1); c < f.Width; c++ {
				out = append(out, "")
			}
		}
	}
	return out
}
