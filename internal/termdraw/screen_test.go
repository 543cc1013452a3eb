package termdraw

import (
	"bytes"
	"strings"
	"testing"

	"github.com/dpinela/pled/internal/coord"
	"github.com/dpinela/pled/internal/termesc"
)

func at(row, col int) coord.Position {
	return coord.Position{Row: coord.RowIdx(row), Col: coord.ColIdx(col)}
}

func putString(s *Screen, row int, text string, style Style) {
	for i, r := range text {
		s.Put(at(row, i), Cell{Content: string(r), Style: style})
	}
}

func flip(t *testing.T, s *Screen, out *bytes.Buffer) string {
	t.Helper()
	out.Reset()
	if err := s.Flip(); err != nil {
		t.Fatal(err)
	}
	return out.String()
}

const prelude = termesc.HideCursor + "\x1B[1;1H" + termesc.ClearScreenForward

func TestFlipPlainText(t *testing.T) {
	var out bytes.Buffer
	s := NewScreen(&out, coord.Size{Height: 2, Width: 4})
	putString(s, 0, "ab", Style{})
	putString(s, 1, "cde", Style{})
	want := prelude + "ab" + styleReset + "\r\n" + "cde" + styleReset
	if got := flip(t, s, &out); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestFlipWideCell(t *testing.T) {
	var out bytes.Buffer
	s := NewScreen(&out, coord.Size{Height: 1, Width: 4})
	s.Put(at(0, 0), Cell{Content: "世", Width: 2})
	s.Put(at(0, 1), Cell{})
	s.Put(at(0, 2), Cell{Content: "x"})
	want := prelude + "世x" + styleReset
	if got := flip(t, s, &out); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestFlipClipsWideCellAtEdge(t *testing.T) {
	var out bytes.Buffer
	s := NewScreen(&out, coord.Size{Height: 1, Width: 2})
	s.Put(at(0, 0), Cell{Content: "a"})
	s.Put(at(0, 1), Cell{Content: "界"})
	want := prelude + "a " + styleReset
	if got := flip(t, s, &out); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestFlipStyles(t *testing.T) {
	var out bytes.Buffer
	s := NewScreen(&out, coord.Size{Height: 1, Width: 3})
	inv := Style{Inverted: true}
	s.FillRow(0, inv)
	s.Put(at(0, 0), Cell{Content: "z", Style: inv})
	invCode := termesc.SetGraphicAttributes(termesc.StyleInverted)
	want := prelude + styleReset + invCode + "z  " + styleReset
	if got := flip(t, s, &out); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestCursorAndTitle(t *testing.T) {
	var out bytes.Buffer
	s := NewScreen(&out, coord.Size{Height: 3, Width: 3})
	s.SetTitle("doc - pled")
	s.SetCursorVisible(true)
	s.SetCursorPos(at(1, 2))
	got := flip(t, s, &out)
	if !strings.HasPrefix(got, termesc.SetTitle("doc - pled")) {
		t.Errorf("first Flip output %q doesn't start by setting the title", got)
	}
	if !strings.HasSuffix(got, termesc.SetCursorPos(2, 3)+termesc.ShowCursor) {
		t.Errorf("Flip output %q doesn't end by placing the cursor", got)
	}
	if got := flip(t, s, &out); strings.Contains(got, "]2;") {
		t.Errorf("second Flip output %q sets the title again", got)
	}
	s.SetCursorVisible(false)
	if got := flip(t, s, &out); strings.Contains(got, termesc.ShowCursor) {
		t.Errorf("Flip with hidden cursor output %q shows it", got)
	}
}

func TestResizeClears(t *testing.T) {
	var out bytes.Buffer
	s := NewScreen(&out, coord.Size{Height: 2, Width: 2})
	putString(s, 0, "ab", Style{})
	s.Resize(coord.Size{Height: 1, Width: 2})
	if got, want := flip(t, s, &out), prelude+styleReset; got != want {
		t.Errorf("after Resize got %q, want %q", got, want)
	}
	s.Resize(coord.Size{Height: 0, Width: 5})
	if s.Size() != (coord.Size{}) {
		t.Errorf("degenerate Resize gave size %+v", s.Size())
	}
	s.Put(at(0, 0), Cell{Content: "x"})
}
