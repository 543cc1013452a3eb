// Package termdraw draws a grid of cells onto a terminal.
package termdraw

import (
	"fmt"
	"io"

	"github.com/mattn/go-runewidth"

	"github.com/dpinela/pled/internal/color"
	"github.com/dpinela/pled/internal/coord"
	"github.com/dpinela/pled/internal/termesc"
)

// A Style describes the appearance of a chunk of text.
//
// The zero Style means non-bold, non-inverted text with the default colors
// for the output device.
type Style struct {
	Foreground, Background *color.Color
	Bold                   bool
	Inverted               bool
}

// A Cell represents a single grapheme along with the style it should be displayed with.
// The zero Cell acts as an empty space.
//
// A Cell whose content is two columns wide covers the cell to its right as well; whatever
// is stored in that cell is not drawn.
type Cell struct {
	Content string
	Style   Style
	Width   int // Columns occupied by Content; if zero, it is measured from Content
}

var narrowCond = func() *runewidth.Condition {
	c := runewidth.NewCondition()
	c.EastAsianWidth = false
	return c
}()

func (c *Cell) width() int {
	if c.Width > 0 {
		return c.Width
	}
	return max(narrowCond.StringWidth(c.Content), 1)
}

// Screen represents a buffered terminal screen.
//
// Changes made to the contents by Resize, Put, Clear, SetCursorPos, SetCursorVisible or SetTitle
// are not reflected on the terminal until Flip is called.
type Screen struct {
	console io.Writer
	size    coord.Size

	current       []Cell
	cursorPos     coord.Position
	cursorVisible bool
	title         string

	titleNeedsRedraw bool
}

// NewScreen creates a new, blank Screen connected to a terminal with the given dimensions.
func NewScreen(out io.Writer, size coord.Size) *Screen {
	s := &Screen{console: out}
	s.Resize(size)
	return s
}

// Size returns the current dimensions of the Screen.
func (s *Screen) Size() coord.Size { return s.size }

// Resize updates the dimensions of the Screen, then clears it.
func (s *Screen) Resize(size coord.Size) {
	if size.Empty() {
		size = coord.Size{}
	}
	s.size = size
	n := size.Width * size.Height
	if n <= cap(s.current) {
		s.current = s.current[:n]
		s.Clear()
	} else {
		s.current = make([]Cell, n)
	}
}

// Clear sets all cells in the Screen to blank spaces.
func (s *Screen) Clear() {
	for i := range s.current {
		s.current[i] = Cell{}
	}
}

// Put replaces the content of the cell at position p. Positions outside the screen are ignored.
func (s *Screen) Put(p coord.Position, c Cell) {
	if !s.size.Contains(p) {
		return
	}
	s.current[int(p.Row)*s.size.Width+int(p.Col)] = c
}

// FillRow sets every cell in row to a blank with the given style.
func (s *Screen) FillRow(row coord.RowIdx, style Style) {
	for col := 0; col < s.size.Width; col++ {
		s.Put(coord.Position{Row: row, Col: coord.ColIdx(col)}, Cell{Style: style})
	}
}

// SetTitle sets the terminal's title.
func (s *Screen) SetTitle(t string) {
	if t != s.title {
		s.title = t
		s.titleNeedsRedraw = true
	}
}

// SetCursorPos sets the cursor position.
func (s *Screen) SetCursorPos(p coord.Position) { s.cursorPos = p }

// SetCursorVisible sets whether the cursor is visible.
func (s *Screen) SetCursorVisible(visible bool) { s.cursorVisible = visible }

var styleReset = termesc.SetGraphicAttributes(termesc.StyleNone)

// Flip replaces the contents of the screen with the current contents of the Screen's buffer.
// It also updates the title and cursor, if necessary.
//
// It assumes that nothing else has written to the terminal since the last call to Flip, unless
// this is the first such call for that Screen.
func (s *Screen) Flip() error {
	if s.titleNeedsRedraw {
		if _, err := io.WriteString(s.console, termesc.SetTitle(s.title)); err != nil {
			return err
		}
		s.titleNeedsRedraw = false
	}
	if _, err := fmt.Fprint(s.console, termesc.HideCursor, termesc.SetCursorPos(1, 1), termesc.ClearScreenForward); err != nil {
		return err
	}
	w := s.size.Width
	var buf []byte
	for i := 0; i < len(s.current); i += w {
		buf = buf[:0]
		curStyle := Style{}
		row := trimTrailingBlanks(s.current[i : i+w])
		for x := 0; x < len(row); x++ {
			c := row[x]
			cw := c.width()
			if x+cw > w {
				c, cw = Cell{Style: c.Style}, 1
			}
			if c.Style != curStyle {
				buf = append(buf, styleReset...)
				buf = append(buf, makeSGRString(&c.Style)...)
				curStyle = c.Style
			}
			if c.Content == "" {
				c.Content = " "
			}
			buf = append(buf, c.Content...)
			x += cw - 1
		}
		buf = append(buf, styleReset...)
		if i+w < len(s.current) {
			buf = append(buf, '\r', '\n')
		}
		if _, err := s.console.Write(buf); err != nil {
			return err
		}
	}
	if s.cursorVisible && s.size.Contains(s.cursorPos) {
		if _, err := fmt.Fprint(s.console, termesc.SetCursorPos(int(s.cursorPos.Row)+1, int(s.cursorPos.Col)+1), termesc.ShowCursor); err != nil {
			return err
		}
	}
	return nil
}

func trimTrailingBlanks(cs []Cell) []Cell {
	for i := len(cs) - 1; i >= 0; i-- {
		if cs[i].Content != "" || cs[i].Style != (Style{}) {
			return cs[:i+1]
		}
	}
	return cs[:0]
}

func makeSGRString(s *Style) string {
	var params []termesc.GraphicAttribute
	// At the end of each styled region, these flags are all reset,
	// so at the start of this one we know that they're all off.
	if fg := s.Foreground; fg != nil {
		params = append(params, termesc.OutputColor(*fg))
	}
	if bg := s.Background; bg != nil {
		params = append(params, termesc.OutputColorBackground(*bg))
	}
	if s.Bold {
		params = append(params, termesc.StyleBold)
	}
	if s.Inverted {
		params = append(params, termesc.StyleInverted)
	}
	return termesc.SetGraphicAttributes(params...)
}
