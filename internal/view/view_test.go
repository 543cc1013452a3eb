package view

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/dpinela/pled/internal/buffer"
	"github.com/dpinela/pled/internal/command"
	"github.com/dpinela/pled/internal/coord"
	"github.com/dpinela/pled/internal/grapheme"
)

var cls = grapheme.Classifier{TabWidth: 4}

func newView(text string, size coord.Size) *View {
	buf := buffer.New(cls)
	buf.Load(text)
	return New(buf, size)
}

func loc(line, g int) coord.Location {
	return coord.Location{Line: coord.RowIdx(line), Grapheme: coord.GraphemeIdx(g)}
}

func pos(row, col int) coord.Position {
	return coord.Position{Row: coord.RowIdx(row), Col: coord.ColIdx(col)}
}

func moveN(v *View, m command.Move, n int) {
	for i := 0; i < n; i++ {
		v.Move(m)
	}
}

func TestWideGlyphColumns(t *testing.T) {
	v := newView("héllo 世界", coord.Size{Height: 5, Width: 40})
	moveN(v, command.Right, 6)
	assert.Equal(t, loc(0, 6), v.Cursor())
	assert.Equal(t, pos(0, 6), v.CaretPosition())
	v.Move(command.Right)
	assert.Equal(t, loc(0, 7), v.Cursor())
	assert.Equal(t, pos(0, 8), v.CaretPosition())
	assert.EqualValues(t, 7, v.Buffer().ColToGrapheme(0, 8))
	assert.EqualValues(t, 6, v.Buffer().ColToGrapheme(0, 7))
}

func TestMotion(t *testing.T) {
	const text = "long line\nab\n世界x\nabcdef"
	size := coord.Size{Height: 3, Width: 20}
	for _, tt := range []struct {
		name string
		m    command.Move
		from coord.Location
		want coord.Location
	}{
		{"DownToShorterLine", command.Down, loc(0, 9), loc(1, 2)},
		{"DownKeepsColumn", command.Down, loc(0, 1), loc(1, 1)},
		{"DownIntoWideGlyph", command.Down, loc(1, 1), loc(2, 0)},
		{"DownFromWideGlyph", command.Down, loc(2, 1), loc(3, 2)},
		{"UpIntoWideGlyph", command.Up, loc(3, 3), loc(2, 1)},
		{"UpAtTop", command.Up, loc(0, 4), loc(0, 4)},
		{"DownPastLastLine", command.Down, loc(3, 2), loc(4, 0)},
		{"DownAtEnd", command.Down, loc(4, 0), loc(4, 0)},
		{"LeftAtLineStart", command.Left, loc(1, 0), loc(0, 9)},
		{"LeftAtDocumentStart", command.Left, loc(0, 0), loc(0, 0)},
		{"RightAtLineEnd", command.Right, loc(0, 9), loc(1, 0)},
		{"RightAtLastLineEnd", command.Right, loc(3, 6), loc(4, 0)},
		{"RightAtEnd", command.Right, loc(4, 0), loc(4, 0)},
		{"LineStart", command.LineStart, loc(2, 2), loc(2, 0)},
		{"LineEnd", command.LineEnd, loc(2, 0), loc(2, 3)},
		{"PageDown", command.PageDown, loc(0, 3), loc(2, 1)},
		{"PageDownClamps", command.PageDown, loc(3, 0), loc(4, 0)},
		{"PageUp", command.PageUp, loc(3, 5), loc(1, 2)},
		{"PageUpClamps", command.PageUp, loc(1, 1), loc(0, 1)},
		{"DocumentStart", command.DocumentStart, loc(3, 3), loc(0, 0)},
		{"DocumentEnd", command.DocumentEnd, loc(0, 0), loc(3, 6)},
		{"SnapsInvalidLocation", command.LineStart, loc(99, 4), loc(4, 0)},
		{"SnapsPastLineEnd", command.Left, loc(1, 40), loc(1, 1)},
	} {
		t.Run(tt.name, func(t *testing.T) {
			doc := buffer.New(cls)
			doc.Load(text)
			assert.Equal(t, tt.want, Motion(tt.m, tt.from, doc, size))
		})
	}
}

func TestPageStep(t *testing.T) {
	for _, tt := range []struct {
		height int
		want   coord.RowIdx
	}{{0, 1}, {1, 1}, {2, 1}, {10, 9}} {
		assert.Equal(t, tt.want, PageStep(coord.Size{Height: tt.height, Width: 1}), "height %d", tt.height)
	}
}

func TestMotionOnEmptyDocument(t *testing.T) {
	doc := buffer.New(cls)
	for m := command.Up; m <= command.DocumentEnd; m++ {
		got := Motion(m, loc(0, 0), doc, coord.Size{Height: 4, Width: 4})
		if got != loc(0, 0) && got != loc(1, 0) {
			t.Errorf("%v on empty document gave %+v", m, got)
		}
	}
}

func TestVerticalScroll(t *testing.T) {
	text := ""
	for i := 0; i < 99; i++ {
		text += "line\n"
	}
	v := newView(text, coord.Size{Height: 10, Width: 20})
	moveN(v, command.Down, 15)
	assert.Equal(t, pos(6, 0), v.Scroll())
	assert.Equal(t, pos(9, 0), v.CaretPosition())
	moveN(v, command.Up, 12)
	assert.Equal(t, pos(3, 0), v.Scroll())
	assert.Equal(t, pos(0, 0), v.CaretPosition())
	v.Move(command.DocumentEnd)
	assert.Equal(t, pos(90, 0), v.Scroll())
}

func TestHorizontalScroll(t *testing.T) {
	v := newView("0123456789abcdefghijklmnopqrstuvwxyz\nshort", coord.Size{Height: 5, Width: 10})
	v.Move(command.LineEnd)
	assert.Equal(t, pos(0, 27), v.Scroll())
	assert.Equal(t, pos(0, 9), v.CaretPosition())
	v.Move(command.Down)
	assert.Equal(t, loc(1, 5), v.Cursor())
	assert.Equal(t, pos(0, 5), v.Scroll())
	assert.Equal(t, pos(1, 0), v.CaretPosition())
}

func TestDegenerateViewportKeepsScroll(t *testing.T) {
	v := newView("a\nb\nc\nd", coord.Size{})
	moveN(v, command.Down, 3)
	v.Move(command.LineEnd)
	assert.Equal(t, coord.Position{}, v.Scroll())
	assert.Nil(t, v.Rows())
	v.Resize(coord.Size{Height: 2, Width: 2})
	assert.Equal(t, pos(2, 0), v.Scroll())
	assert.Equal(t, pos(1, 1), v.CaretPosition())
}

func TestEditInsertAndNewline(t *testing.T) {
	v := newView("", coord.Size{Height: 5, Width: 10})
	v.Edit(command.InsertChar{Text: "A"})
	v.Edit(command.InsertNewline{})
	buf := v.Buffer()
	require.EqualValues(t, 2, buf.LineCount())
	assert.Equal(t, "A\n", buf.String())
	assert.True(t, buf.IsDirty())
	assert.Equal(t, loc(1, 0), v.Cursor())
}

func TestEditInsertCombiningMarkKeepsCursor(t *testing.T) {
	v := newView("e", coord.Size{Height: 5, Width: 10})
	v.Move(command.Right)
	v.Edit(command.InsertChar{Text: "\u0301"})
	assert.Equal(t, loc(0, 1), v.Cursor())
	assert.EqualValues(t, 1, v.Buffer().LineLen(0))
}

func TestEditInsertAtEndOfDocument(t *testing.T) {
	v := newView("foo", coord.Size{Height: 5, Width: 10})
	v.Move(command.Down)
	require.Equal(t, loc(1, 0), v.Cursor())
	v.Edit(command.InsertChar{Text: "世"})
	assert.Equal(t, "foo\n世", v.Buffer().String())
	assert.Equal(t, loc(1, 1), v.Cursor())
	assert.Equal(t, pos(1, 2), v.CaretPosition())
}

func TestEditDeletes(t *testing.T) {
	v := newView("ab\ncd", coord.Size{Height: 5, Width: 10})
	v.Move(command.Down)
	v.Edit(command.DeleteBackward{})
	assert.Equal(t, "abcd", v.Buffer().String())
	assert.Equal(t, loc(0, 2), v.Cursor())
	v.Edit(command.DeleteForward{})
	assert.Equal(t, "abd", v.Buffer().String())
	assert.Equal(t, loc(0, 2), v.Cursor())
	v.Move(command.DocumentStart)
	v.Edit(command.DeleteBackward{})
	assert.Equal(t, "abd", v.Buffer().String())
	assert.Equal(t, loc(0, 0), v.Cursor())
}

func TestRows(t *testing.T) {
	v := newView("a世b\n\tx", coord.Size{Height: 4, Width: 3})
	rows := v.Rows()
	require.Len(t, rows, 4)
	assert.Equal(t, Row{Cells: []string{"a", "世", ""}}, rows[0])
	assert.Equal(t, Row{Cells: []string{" ", " ", " "}}, rows[1])
	assert.Equal(t, Row{PastEnd: true}, rows[2])
	assert.Equal(t, Row{PastEnd: true}, rows[3])
}

func TestRowsScrolledIntoWideGlyph(t *testing.T) {
	v := newView("世界abc", coord.Size{Height: 1, Width: 3})
	v.Move(command.LineEnd)
	require.Equal(t, pos(0, 5), v.Scroll())
	assert.Equal(t, []Row{{Cells: []string{"b", "c"}}}, v.Rows())
	v.Resize(coord.Size{Height: 1, Width: 6})
	moveN(v, command.Left, 4)
	require.Equal(t, pos(0, 2), v.Scroll())
	assert.Equal(t, []Row{{Cells: []string{"界", "", "a", "b", "c"}}}, v.Rows())
}

func TestStatus(t *testing.T) {
	v := newView("one\ntwo\nthree", coord.Size{Height: 5, Width: 10})
	v.Move(command.Down)
	v.Move(command.LineEnd)
	st := v.Status()
	assert.Equal(t, DocumentStatus{TotalLines: 3, CurrentLine: 1, Column: 3, FileName: NoName}, st)
	assert.Equal(t, "", st.ModifiedIndicator())
	assert.Equal(t, "3 lines", st.LineCountString())
	assert.Equal(t, "2/3", st.PositionIndicator())
	v.Edit(command.InsertChar{Text: "!"})
	assert.Equal(t, "(modified)", v.Status().ModifiedIndicator())
}

func TestStatusFileName(t *testing.T) {
	buf, err := buffer.Open(filepath.Join(t.TempDir(), "notes.txt"), cls)
	require.NoError(t, err)
	v := New(buf, coord.Size{Height: 2, Width: 2})
	assert.Equal(t, "notes.txt", v.Status().FileName)
}

func TestSetBufferResetsPosition(t *testing.T) {
	v := newView("a\nb\nc", coord.Size{Height: 1, Width: 5})
	moveN(v, command.Down, 2)
	other := buffer.New(cls)
	v.SetBuffer(other)
	assert.Same(t, other, v.Buffer())
	assert.Equal(t, coord.Location{}, v.Cursor())
	assert.Equal(t, coord.Position{}, v.Scroll())
}

var genEdit = rapid.SampledFrom([]command.Edit{
	command.InsertChar{Text: "a"},
	command.InsertChar{Text: "世"},
	command.InsertChar{Text: "\t"},
	command.InsertChar{Text: "\u0301"},
	command.InsertNewline{},
	command.DeleteForward{},
	command.DeleteBackward{},
})

func TestCaretStaysVisible(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		size := coord.Size{
			Height: rapid.IntRange(1, 6).Draw(rt, "height"),
			Width:  rapid.IntRange(1, 8).Draw(rt, "width"),
		}
		v := newView(rapid.StringMatching(`([a-z世\t]{0,12}\n){0,6}`).Draw(rt, "text"), size)
		n := rapid.IntRange(0, 60).Draw(rt, "steps")
		for i := 0; i < n; i++ {
			if rapid.Bool().Draw(rt, "isEdit") {
				v.Edit(genEdit.Draw(rt, "edit"))
			} else {
				v.Move(command.Move(rapid.IntRange(int(command.Up), int(command.DocumentEnd)).Draw(rt, "move")))
			}
			if p := v.CaretPosition(); !size.Contains(p) {
				rt.Fatalf("caret at %+v outside %+v (cursor %+v, scroll %+v)", p, size, v.Cursor(), v.Scroll())
			}
			c := v.Cursor()
			if c.Line > v.Buffer().LineCount() || c.Grapheme > v.Buffer().LineLen(c.Line) {
				rt.Fatalf("cursor %+v is not a valid location", c)
			}
		}
	})
}

func TestDownFromLongerLineLandsAtEnd(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		long := rapid.StringMatching(`[a-z世]{1,20}`).Draw(rt, "long")
		short := rapid.StringMatching(`[a-z世]{0,20}`).Draw(rt, "short")
		doc := buffer.New(cls)
		doc.Load(long + "\n" + short)
		lineWidth := func(row coord.RowIdx) coord.ColIdx { return doc.WidthUntil(row, doc.LineLen(row)) }
		if lineWidth(0) <= lineWidth(1) {
			return
		}
		got := Motion(command.Down, loc(0, int(doc.LineLen(0))), doc, coord.Size{Height: 5, Width: 5})
		if want := loc(1, int(doc.LineLen(1))); got != want {
			rt.Fatalf("got %+v, want %+v", got, want)
		}
	})
}
