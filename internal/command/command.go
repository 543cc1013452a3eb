// Package command defines the discrete actions a user can ask the editor to perform, and
// how keyboard input maps onto them.
//
// Commands come in three closed families: Edit commands change the text, Move commands
// change the cursor position, and System commands act on the editor session itself.
package command

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dpinela/pled/internal/coord"
	"github.com/dpinela/pled/internal/termesc"
)

// A Command is an Edit, a Move or a System command.
type Command interface {
	command()
}

// An Edit is a command that modifies the text at the cursor.
// It is one of InsertChar, InsertNewline, DeleteForward or DeleteBackward.
type Edit interface {
	Command
	edit()
}

// InsertChar inserts Text, a single grapheme cluster or a tab, at the cursor.
type InsertChar struct{ Text string }

// InsertNewline breaks the current line at the cursor.
type InsertNewline struct{}

// DeleteForward deletes the grapheme under the cursor.
type DeleteForward struct{}

// DeleteBackward deletes the grapheme before the cursor.
type DeleteBackward struct{}

func (InsertChar) command()     {}
func (InsertNewline) command()  {}
func (DeleteForward) command()  {}
func (DeleteBackward) command() {}

func (InsertChar) edit()     {}
func (InsertNewline) edit()  {}
func (DeleteForward) edit()  {}
func (DeleteBackward) edit() {}

// A Move is a cursor motion.
type Move int

const (
	Up Move = iota
	Down
	Left
	Right
	LineStart
	LineEnd
	PageUp
	PageDown
	DocumentStart
	DocumentEnd
)

var moveNames = [...]string{"Up", "Down", "Left", "Right", "LineStart", "LineEnd",
	"PageUp", "PageDown", "DocumentStart", "DocumentEnd"}

func (m Move) String() string {
	if m < 0 || int(m) >= len(moveNames) {
		return "Move(?)"
	}
	return moveNames[m]
}

func (Move) command() {}

// A System command acts on the session rather than on the text.
// It is one of Save, SaveAs, Quit, Resize or Dismiss.
type System interface {
	Command
	system()
}

type (
	Save    struct{}
	SaveAs  struct{}
	Quit    struct{}
	Dismiss struct{} // Cancels a prompt or clears the current message
)

// Resize reports that the terminal now has the given size.
type Resize struct{ Size coord.Size }

func (Save) command()    {}
func (SaveAs) command()  {}
func (Quit) command()    {}
func (Resize) command()  {}
func (Dismiss) command() {}

func (Save) system()    {}
func (SaveAs) system()  {}
func (Quit) system()    {}
func (Resize) system()  {}
func (Dismiss) system() {}

var keyCommands = map[string]Command{
	termesc.EnterKey:     InsertNewline{},
	termesc.LineFeedKey:  InsertNewline{},
	termesc.BackspaceKey: DeleteBackward{},
	termesc.CtrlHKey:     DeleteBackward{},
	termesc.DeleteKey:    DeleteForward{},
	termesc.TabKey:       InsertChar{Text: "\t"},

	termesc.UpKey:       Up,
	termesc.DownKey:     Down,
	termesc.LeftKey:     Left,
	termesc.RightKey:    Right,
	termesc.HomeKey:     LineStart,
	termesc.HomeKeyVT:   LineStart,
	termesc.HomeKeySS3:  LineStart,
	termesc.EndKey:      LineEnd,
	termesc.EndKeyVT:    LineEnd,
	termesc.EndKeySS3:   LineEnd,
	termesc.PageUpKey:   PageUp,
	termesc.PageDownKey: PageDown,
	termesc.CtrlHomeKey: DocumentStart,
	termesc.CtrlEndKey:  DocumentEnd,

	termesc.CtrlSKey:  Save{},
	termesc.CtrlWKey:  SaveAs{},
	termesc.CtrlQKey:  Quit{},
	termesc.EscapeKey: Dismiss{},
}

// FromToken maps one token read from the terminal onto the command it stands for.
// It reports false if the token doesn't correspond to any command.
func FromToken(token string) (Command, bool) {
	if c, ok := keyCommands[token]; ok {
		return c, true
	}
	if isPrintable(token) {
		return InsertChar{Text: token}, true
	}
	return nil, false
}

func isPrintable(token string) bool {
	if token == "" || !utf8.ValidString(token) || strings.HasPrefix(token, termesc.EscapeKey) {
		return false
	}
	for _, r := range token {
		if unicode.IsControl(r) {
			return false
		}
	}
	return true
}
