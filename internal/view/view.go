// Package view maps a buffer onto a rectangular area of the screen: it owns the cursor and
// the scroll offset, applies motions and edits, and works out what is visible.
package view

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/dpinela/pled/internal/buffer"
	"github.com/dpinela/pled/internal/command"
	"github.com/dpinela/pled/internal/coord"
)

// A View shows part of a Buffer.
//
// After every operation, the cursor is inside the visible area, unless that area is empty.
// Keeping it there is done by adjusting the scroll offset; the cursor itself is never moved
// to follow the viewport.
type View struct {
	buf    *buffer.Buffer
	cursor coord.Location
	scroll coord.Position // Document position shown at the top-left corner
	size   coord.Size
}

// New creates a View of buf with the cursor at the start of the document.
func New(buf *buffer.Buffer, size coord.Size) *View {
	return &View{buf: buf, size: size}
}

// Buffer returns the buffer being viewed.
func (v *View) Buffer() *buffer.Buffer { return v.buf }

// SetBuffer replaces the buffer being viewed and moves back to the start of the document.
func (v *View) SetBuffer(buf *buffer.Buffer) {
	v.buf = buf
	v.cursor = coord.Location{}
	v.scroll = coord.Position{}
}

func (v *View) Cursor() coord.Location { return v.cursor }
func (v *View) Scroll() coord.Position { return v.scroll }
func (v *View) Size() coord.Size       { return v.size }

// Resize changes the size of the visible area.
func (v *View) Resize(size coord.Size) {
	v.size = size
	v.scrollIntoView()
}

// Move applies a cursor motion.
func (v *View) Move(m command.Move) {
	v.cursor = Motion(m, v.cursor, v.buf, v.size)
	v.scrollIntoView()
}

// Edit applies an editing command at the cursor and moves the cursor accordingly.
func (v *View) Edit(e command.Edit) {
	switch e := e.(type) {
	case command.InsertChar:
		v.insertChar(e.Text)
	case command.InsertNewline:
		v.buf.InsertNewline(v.cursor)
		v.cursor = coord.Location{Line: v.cursor.Line + 1}
	case command.DeleteForward:
		v.buf.DeleteForward(v.cursor)
	case command.DeleteBackward:
		v.cursor = v.buf.DeleteBackward(v.cursor)
	default:
		log.Warn().Str("command", fmt.Sprintf("%T", e)).Msg("unhandled edit command")
	}
	v.scrollIntoView()
}

func (v *View) insertChar(text string) {
	oldCount := v.buf.LineCount()
	oldLen := v.buf.LineLen(v.cursor.Line)
	v.buf.InsertChar(text, v.cursor)
	switch {
	case v.buf.LineCount() > oldCount:
		v.cursor.Grapheme = v.buf.LineLen(v.cursor.Line)
	case v.buf.LineLen(v.cursor.Line) > oldLen:
		v.cursor.Grapheme++
	}
}

// docPosition returns the display position of the cursor in document space.
func (v *View) docPosition() coord.Position {
	return coord.Position{Row: v.cursor.Line, Col: v.buf.WidthUntil(v.cursor.Line, v.cursor.Grapheme)}
}

// scrollIntoView scrolls by the smallest amount that brings the cursor into the visible area.
func (v *View) scrollIntoView() {
	if v.size.Empty() {
		return
	}
	p := v.docPosition()
	h, w := coord.RowIdx(v.size.Height), coord.ColIdx(v.size.Width)
	if p.Row < v.scroll.Row {
		v.scroll.Row = p.Row
	} else if p.Row >= v.scroll.Row+h {
		v.scroll.Row = p.Row - h + 1
	}
	if p.Col < v.scroll.Col {
		v.scroll.Col = p.Col
	} else if p.Col >= v.scroll.Col+w {
		v.scroll.Col = p.Col - w + 1
	}
}

// CaretPosition returns the screen position of the cursor, relative to the top-left corner
// of the view.
func (v *View) CaretPosition() coord.Position {
	return v.docPosition().SatSub(v.scroll)
}

// A Row is one visible row of the view.
type Row struct {
	// Cells holds what to draw in each column, as returned by buffer.Line.Cells.
	// It may be shorter than the view is wide.
	Cells []string
	// PastEnd is set for rows below the last line of the document.
	PastEnd bool
}

// Rows returns the contents of each visible row, from top to bottom.
func (v *View) Rows() []Row {
	if v.size.Empty() {
		return nil
	}
	rows := make([]Row, v.size.Height)
	left := v.scroll.Col
	right := left + coord.ColIdx(v.size.Width)
	for i := range rows {
		line, ok := v.buf.Line(v.scroll.Row + coord.RowIdx(i))
		if !ok {
			rows[i].PastEnd = true
			continue
		}
		rows[i].Cells = line.Cells(left, right)
	}
	return rows
}
