// Package termesc abstracts terminal ANSI escape codes.
package termesc

import "fmt"

const (
	esc = "\x1B"
	csi = esc + "["
	ss3 = esc + "O"
)

const (
	ClearScreenForward   = csi + "J"      // Clears everything from the cursor to the end of the screen
	EnterAlternateScreen = csi + "?1049h" // Switches to the alternate screen
	ExitAlternateScreen  = csi + "?1049l" // Switches from the alternate screen to the regular one
	ShowCursor           = csi + "?25h"
	HideCursor           = csi + "?25l"
)

// Tokens produced by the keyboard, as returned by ConsoleReader.ReadToken.
// Keys that terminals encode in several ways have one constant per encoding.
const (
	EscapeKey    = esc
	EnterKey     = "\r"
	LineFeedKey  = "\n"
	TabKey       = "\t"
	BackspaceKey = "\x7f"
	CtrlHKey     = "\b"
	DeleteKey    = csi + "3~"

	UpKey    = csi + "A"
	DownKey  = csi + "B"
	LeftKey  = csi + "D"
	RightKey = csi + "C"

	HomeKey     = csi + "H"
	HomeKeyVT   = csi + "1~"
	HomeKeySS3  = ss3 + "H"
	EndKey      = csi + "F"
	EndKeyVT    = csi + "4~"
	EndKeySS3   = ss3 + "F"
	PageUpKey   = csi + "5~"
	PageDownKey = csi + "6~"

	CtrlHomeKey = csi + "1;5H"
	CtrlEndKey  = csi + "1;5F"

	CtrlQKey = "\x11"
	CtrlSKey = "\x13"
	CtrlWKey = "\x17"
)

// SetCursorPos returns a code that sets the cursor's position to (y, x).
// Coordinates are 1-based.
func SetCursorPos(y, x int) string { return fmt.Sprintf(csi+"%d;%dH", y, x) }

// SetTitle returns a code that sets the terminal window's title to t.
func SetTitle(t string) string { return esc + "]2;" + t + "\a" }
