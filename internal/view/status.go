package view

import "strconv"

// NoName is shown in place of the file name for buffers that haven't been saved.
const NoName = "[No Name]"

// DocumentStatus is a snapshot of the information shown in the status bar.
type DocumentStatus struct {
	TotalLines  int
	CurrentLine int // 0-based
	Column      int // 0-based display column
	Modified    bool
	FileName    string
}

// ModifiedIndicator returns "(modified)" if the document has unsaved changes, or "" otherwise.
func (s DocumentStatus) ModifiedIndicator() string {
	if s.Modified {
		return "(modified)"
	}
	return ""
}

func (s DocumentStatus) LineCountString() string {
	return strconv.Itoa(s.TotalLines) + " lines"
}

// PositionIndicator returns the 1-based current line and the total, as "line/total".
func (s DocumentStatus) PositionIndicator() string {
	return strconv.Itoa(s.CurrentLine+1) + "/" + strconv.Itoa(s.TotalLines)
}

// Status returns the current status of the document and cursor.
func (v *View) Status() DocumentStatus {
	name := v.buf.File().Name()
	if name == "" {
		name = NoName
	}
	return DocumentStatus{
		TotalLines:  int(v.buf.LineCount()),
		CurrentLine: int(v.cursor.Line),
		Column:      int(v.docPosition().Col),
		Modified:    v.buf.IsDirty(),
		FileName:    name,
	}
}
