// Package buffer implements a text-editing buffer.
package buffer

import (
	"bytes"
	"io"
	"strings"

	"github.com/dpinela/pled/internal/coord"
	"github.com/dpinela/pled/internal/grapheme"
)

// Buffer is a text buffer made up of Lines, addressed by Location.
// It implements the io.ReaderFrom and io.WriterTo interfaces.
//
// A Buffer always has at least one line; an empty document is a single empty line.
type Buffer struct {
	lines []*Line
	dirty bool
	file  FileInfo
	cls   grapheme.Classifier
}

// New creates an empty buffer whose lines are segmented with cls.
func New(cls grapheme.Classifier) *Buffer {
	return &Buffer{lines: []*Line{NewLine("", cls)}, cls: cls}
}

// IsDirty reports whether the buffer has been modified since it was last loaded or saved.
func (b *Buffer) IsDirty() bool { return b.dirty }

// File returns the identity of the file associated with the buffer.
func (b *Buffer) File() FileInfo { return b.file }

// LineCount returns the number of lines in the buffer.
// It is also the row of the end-of-document location.
func (b *Buffer) LineCount() coord.RowIdx { return coord.RowIdx(len(b.lines)) }

// Line returns the line at index row, if there is one.
func (b *Buffer) Line(row coord.RowIdx) (*Line, bool) {
	if row < 0 || row >= b.LineCount() {
		return nil, false
	}
	return b.lines[row], true
}

// LineLen returns the number of graphemes in line row, or 0 if there is no such line.
func (b *Buffer) LineLen(row coord.RowIdx) coord.GraphemeIdx {
	if l, ok := b.Line(row); ok {
		return l.Len()
	}
	return 0
}

// WidthUntil returns the display column of grapheme g in line row.
func (b *Buffer) WidthUntil(row coord.RowIdx, g coord.GraphemeIdx) coord.ColIdx {
	if l, ok := b.Line(row); ok {
		return l.GraphemeToCol(g)
	}
	return 0
}

// ColToGrapheme returns the grapheme at display column col in line row.
func (b *Buffer) ColToGrapheme(row coord.RowIdx, col coord.ColIdx) coord.GraphemeIdx {
	if l, ok := b.Line(row); ok {
		return l.ColToGrapheme(col)
	}
	return 0
}

// Load replaces the contents of the buffer with text. Lines may be terminated by
// "\n", "\r\n" or "\r". Loading clears the dirty flag.
func (b *Buffer) Load(text string) {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	parts := strings.Split(text, "\n")
	b.lines = make([]*Line, len(parts))
	for i, p := range parts {
		b.lines[i] = NewLine(p, b.cls)
	}
	b.dirty = false
}

// ReadFrom reads data from r until EOF and replaces the contents of the buffer with it.
// If reading fails, the buffer is left unchanged.
func (b *Buffer) ReadFrom(r io.Reader) (int64, error) {
	var data bytes.Buffer
	n, err := data.ReadFrom(r)
	if err != nil {
		return n, err
	}
	b.Load(data.String())
	return n, nil
}

// String returns the full content of the buffer, with lines separated by "\n".
// The line terminators used by the text the buffer was loaded from are not preserved.
func (b *Buffer) String() string {
	var sb strings.Builder
	b.WriteTo(&sb)
	return sb.String()
}

var newline = []byte("\n")

// WriteTo writes the full content of the buffer to w, in the same format as String.
func (b *Buffer) WriteTo(w io.Writer) (int64, error) {
	var n int64
	for i, line := range b.lines {
		if i > 0 {
			nw, err := w.Write(newline)
			n += int64(nw)
			if err != nil {
				return n, err
			}
		}
		nw, err := io.WriteString(w, line.text)
		n += int64(nw)
		if err != nil {
			return n, err
		}
	}
	return n, nil
}

// InsertChar inserts text, which should be a single grapheme, at the given location.
// If at is the end-of-document location, the text becomes a new last line.
//
// It panics if at.Line is beyond the end of the document.
func (b *Buffer) InsertChar(text string, at coord.Location) {
	switch {
	case at.Line > b.LineCount() || at.Line < 0:
		panic("buffer: insertion point past end of document")
	case text == "":
	case at.Line == b.LineCount():
		b.lines = append(b.lines, NewLine(text, b.cls))
		b.dirty = true
	default:
		if b.lines[at.Line].Insert(text, at.Grapheme) {
			b.dirty = true
		}
	}
}

// InsertNewline breaks line at.Line in two at at.Grapheme; the second half becomes a new
// line directly after it. At the end-of-document location, an empty line is added.
func (b *Buffer) InsertNewline(at coord.Location) {
	switch {
	case at.Line > b.LineCount() || at.Line < 0:
		panic("buffer: insertion point past end of document")
	case at.Line == b.LineCount():
		b.lines = append(b.lines, NewLine("", b.cls))
	default:
		left, right := b.lines[at.Line].Split(at.Grapheme)
		b.lines = append(b.lines, nil)
		copy(b.lines[at.Line+2:], b.lines[at.Line+1:])
		b.lines[at.Line] = left
		b.lines[at.Line+1] = right
	}
	b.dirty = true
}

// DeleteForward deletes the grapheme at the given location. If at is at the end of its
// line, the next line is joined onto it instead. At the end of the document it does nothing.
func (b *Buffer) DeleteForward(at coord.Location) {
	line, ok := b.Line(at.Line)
	if !ok {
		return
	}
	switch {
	case at.Grapheme < line.Len():
		if line.Delete(at.Grapheme) {
			b.dirty = true
		}
	case at.Line+1 < b.LineCount():
		line.Append(b.lines[at.Line+1])
		copy(b.lines[at.Line+1:], b.lines[at.Line+2:])
		b.lines[len(b.lines)-1] = nil
		b.lines = b.lines[:len(b.lines)-1]
		b.dirty = true
	}
}

// DeleteBackward deletes the grapheme before the given location, joining the line with
// the previous one if at is at the start of a line. It returns the location where the
// deletion happened, which is where the cursor should go next.
func (b *Buffer) DeleteBackward(at coord.Location) coord.Location {
	at.Grapheme = coord.Clamp(at.Grapheme, b.LineLen(at.Line))
	switch {
	case at.Grapheme > 0:
		at.Grapheme--
	case at.Line > 0:
		at.Line--
		at.Grapheme = b.LineLen(at.Line)
	default:
		return at
	}
	b.DeleteForward(at)
	return at
}
