// Package coord defines the index and coordinate types shared by the editor's packages.
//
// There are three coordinate spaces for a position within a line:
//   - byte space - offsets into the line's UTF-8 text; used when talking to file I/O
//   - grapheme space - indices of user-perceived characters; used by the cursor and all editing commands
//   - column space - terminal cells; used for scrolling and for placing the hardware cursor
//
// Each space has its own named type so that values can't be mixed up without an explicit conversion.
package coord

// RowIdx is the index of a line in a document, or of a row on the screen.
type RowIdx int

// GraphemeIdx is the index of a grapheme cluster within a line.
type GraphemeIdx int

// ColIdx is a display column, measured in terminal cells.
type ColIdx int

// ByteIdx is a byte offset within a line's UTF-8 text.
type ByteIdx int

// Index is satisfied by all of the index types in this package.
type Index interface {
	~int
}

// SatSub returns a - b, or 0 if that would be negative.
func SatSub[T Index](a, b T) T {
	if b >= a {
		return 0
	}
	return a - b
}

// Clamp restricts v to the interval [0, hi].
// If hi is negative, it returns 0.
func Clamp[T Index](v, hi T) T {
	if v > hi {
		v = hi
	}
	if v < 0 {
		v = 0
	}
	return v
}

// Location is a logical position in a document: a line and a grapheme within it.
//
// A valid Location has Line in [0, n], where n is the number of lines in the document
// (n itself denotes the end of the document), and Grapheme in [0, length of that line].
type Location struct {
	Line     RowIdx
	Grapheme GraphemeIdx
}

// Position is a point in display space: a row and a column.
// The zero Position is the top-left corner.
type Position struct {
	Row RowIdx
	Col ColIdx
}

// SatSub subtracts q from p component-wise, stopping at zero.
func (p Position) SatSub(q Position) Position {
	return Position{Row: SatSub(p.Row, q.Row), Col: SatSub(p.Col, q.Col)}
}

// Size is the dimensions of a rectangular area of the screen.
// Either dimension may be zero, in which case nothing in the area is visible.
type Size struct {
	Height, Width int
}

// Empty reports whether s has no visible cells.
func (s Size) Empty() bool { return s.Height <= 0 || s.Width <= 0 }

// Contains reports whether p lies within an area of size s anchored at the origin.
func (s Size) Contains(p Position) bool {
	return int(p.Row) < s.Height && int(p.Col) < s.Width && p.Row >= 0 && p.Col >= 0
}
