package view

import (
	"github.com/dpinela/pled/internal/command"
	"github.com/dpinela/pled/internal/coord"
)

// A Document is the read-only view of a text that motions need.
// *buffer.Buffer implements it.
type Document interface {
	LineCount() coord.RowIdx
	LineLen(row coord.RowIdx) coord.GraphemeIdx
	WidthUntil(row coord.RowIdx, g coord.GraphemeIdx) coord.ColIdx
	ColToGrapheme(row coord.RowIdx, col coord.ColIdx) coord.GraphemeIdx
}

// PageStep returns how many lines PageUp and PageDown move by in a viewport of the given size.
func PageStep(size coord.Size) coord.RowIdx {
	return coord.RowIdx(max(size.Height-1, 1))
}

// Motion returns where the cursor ends up after applying m at loc.
//
// The cursor may rest on any line from 0 to doc.LineCount() inclusive; the last of these is
// the empty position just past the final line. Vertical motions keep the display column
// where possible, landing on the grapheme drawn at that column or at the end of a shorter line.
func Motion(m command.Move, loc coord.Location, doc Document, size coord.Size) coord.Location {
	loc = snap(loc, doc)
	switch m {
	case command.Up:
		return vertical(loc, coord.SatSub(loc.Line, 1), doc)
	case command.Down:
		return vertical(loc, loc.Line+1, doc)
	case command.PageUp:
		return vertical(loc, coord.SatSub(loc.Line, PageStep(size)), doc)
	case command.PageDown:
		return vertical(loc, loc.Line+PageStep(size), doc)
	case command.Left:
		switch {
		case loc.Grapheme > 0:
			loc.Grapheme--
		case loc.Line > 0:
			loc.Line--
			loc.Grapheme = doc.LineLen(loc.Line)
		}
	case command.Right:
		switch {
		case loc.Grapheme < doc.LineLen(loc.Line):
			loc.Grapheme++
		case loc.Line < doc.LineCount():
			loc = coord.Location{Line: loc.Line + 1}
		}
	case command.LineStart:
		loc.Grapheme = 0
	case command.LineEnd:
		loc.Grapheme = doc.LineLen(loc.Line)
	case command.DocumentStart:
		loc = coord.Location{}
	case command.DocumentEnd:
		last := coord.SatSub(doc.LineCount(), 1)
		loc = coord.Location{Line: last, Grapheme: doc.LineLen(last)}
	}
	return loc
}

func vertical(from coord.Location, line coord.RowIdx, doc Document) coord.Location {
	line = coord.Clamp(line, doc.LineCount())
	col := doc.WidthUntil(from.Line, from.Grapheme)
	return snap(coord.Location{Line: line, Grapheme: doc.ColToGrapheme(line, col)}, doc)
}

func snap(loc coord.Location, doc Document) coord.Location {
	loc.Line = coord.Clamp(loc.Line, doc.LineCount())
	loc.Grapheme = coord.Clamp(loc.Grapheme, doc.LineLen(loc.Line))
	return loc
}
