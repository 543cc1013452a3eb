package main

import (
	"strings"
	"unicode"

	"github.com/dpinela/pled/internal/buffer"
	"github.com/dpinela/pled/internal/coord"
	"github.com/dpinela/pled/internal/grapheme"
	"github.com/dpinela/pled/internal/termdraw"
	"github.com/dpinela/pled/internal/view"
)

// redraw renders the whole editor onto screen: the text area, the status bar on the second
// to last row and the command or message bar on the last one.
func (app *application) redraw(screen *termdraw.Screen) error {
	if screen.Size() != app.size {
		screen.Resize(app.size)
	} else {
		screen.Clear()
	}
	if app.size.Empty() {
		return nil
	}
	status := app.view.Status()
	screen.SetTitle(displayText(status.FileName) + " - pled")

	for i, row := range app.view.Rows() {
		y := coord.RowIdx(i)
		if row.PastEnd {
			screen.Put(coord.Position{Row: y}, termdraw.Cell{Content: "~", Style: termdraw.Style{Bold: true}})
			continue
		}
		putCells(screen, y, 0, row.Cells, termdraw.Style{})
	}
	app.drawStatusBar(screen, coord.RowIdx(app.size.Height-2), status)

	bottom := coord.RowIdx(app.size.Height - 1)
	if app.prompt != nil {
		caret := app.drawPrompt(screen, bottom)
		screen.SetCursorPos(coord.Position{Row: bottom, Col: caret})
		screen.SetCursorVisible(true)
	} else {
		if msg := app.currentMessage(); msg != "" {
			line := app.displayLine(msg)
			putCells(screen, bottom, 0, line.Cells(0, coord.ColIdx(app.size.Width)), termdraw.Style{})
		}
		screen.SetCursorPos(app.view.CaretPosition())
		screen.SetCursorVisible(!app.view.Size().Empty())
	}
	return screen.Flip()
}

func (app *application) statusBarStyle() termdraw.Style {
	bs := app.cfg.StatusBar
	if bs.Foreground == nil && bs.Background == nil {
		return termdraw.Style{Inverted: true}
	}
	return termdraw.Style{Foreground: bs.Foreground, Background: bs.Background}
}

// drawStatusBar shows the file name, line count and modification state on the left and the
// cursor line on the right. If both don't fit, the bar is left blank.
func (app *application) drawStatusBar(screen *termdraw.Screen, y coord.RowIdx, status view.DocumentStatus) {
	if y < 0 {
		return
	}
	style := app.statusBarStyle()
	screen.FillRow(y, style)
	left := status.FileName + " - " + status.LineCountString()
	if m := status.ModifiedIndicator(); m != "" {
		left += " " + m
	}
	right := status.PositionIndicator()
	left, right = displayText(left), displayText(right)
	lw, rw := app.cls.Width(left), app.cls.Width(right)
	width := coord.ColIdx(app.size.Width)
	if lw+rw > width {
		return
	}
	putCells(screen, y, 0, buffer.NewLine(left, app.cls).Cells(0, lw), style)
	putCells(screen, y, width-rw, buffer.NewLine(right, app.cls).Cells(0, rw), style)
}

// drawPrompt shows the prompt label followed by as much of the end of the input as fits
// while leaving a column for the caret, and returns the column where the caret goes.
func (app *application) drawPrompt(screen *termdraw.Screen, y coord.RowIdx) coord.ColIdx {
	width := coord.ColIdx(app.size.Width)
	label := app.displayLine(app.prompt.label)
	lw := min(label.Width(), width)
	putCells(screen, y, 0, label.Cells(0, lw), termdraw.Style{})
	input := app.prompt.input
	end := input.Width()
	start := coord.SatSub(end, coord.SatSub(width-lw, 1))
	putCells(screen, y, lw, input.Cells(start, end), termdraw.Style{})
	return min(lw+end-start, width-1)
}

// putCells draws the output of buffer.Line.Cells starting at column x.
func putCells(screen *termdraw.Screen, y coord.RowIdx, x coord.ColIdx, cells []string, style termdraw.Style) {
	for i, c := range cells {
		if c == "" {
			continue
		}
		w := 1
		if i+1 < len(cells) && cells[i+1] == "" {
			w = 2
		}
		screen.Put(coord.Position{Row: y, Col: x + coord.ColIdx(i)}, termdraw.Cell{Content: c, Style: style, Width: w})
	}
}

func isControl(r rune) bool { return r != '\t' && unicode.IsControl(r) }

// displayText replaces line breaks and other control characters in s, which may come from
// file names or error messages, so that it can be drawn on a single row.
func displayText(s string) string {
	if !strings.ContainsFunc(s, isControl) {
		return s
	}
	var sb strings.Builder
	for _, r := range s {
		if isControl(r) {
			sb.WriteString(grapheme.ControlPlaceholder)
		} else {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

func (app *application) displayLine(s string) *buffer.Line {
	return buffer.NewLine(displayText(s), app.cls)
}
