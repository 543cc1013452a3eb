package termesc

import (
	"bufio"
	"io"
	"time"
	"unicode/utf8"

	"golang.org/x/sys/unix"
)

// EscapeDelay is how long ReadToken waits after an ESC byte for the rest of an escape
// sequence, when reading from a terminal.
const EscapeDelay = 25 * time.Millisecond

// A ConsoleReader splits terminal input into tokens: single characters or complete escape
// sequences.
type ConsoleReader struct {
	br *bufio.Reader
	// moreInput reports whether more input arrives within the given time.
	// If nil, only input that has already been read counts.
	moreInput func(time.Duration) bool
}

// NewConsoleReader returns a ConsoleReader reading from r.
// If r is a file, such as os.Stdin, escape sequences split across several reads are
// reassembled as long as the parts arrive within EscapeDelay of each other.
func NewConsoleReader(r io.Reader) *ConsoleReader {
	c := &ConsoleReader{br: bufio.NewReader(r)}
	if f, ok := r.(interface{ Fd() uintptr }); ok {
		fd := int(f.Fd())
		c.moreInput = func(d time.Duration) bool { return pollInput(fd, d) }
	}
	return c
}

func pollInput(fd int, d time.Duration) bool {
	fds := []unix.PollFd{{Fd: int32(fd), Events: unix.POLLIN}}
	for {
		n, err := unix.Poll(fds, int(d/time.Millisecond))
		if err == unix.EINTR {
			continue
		}
		return err == nil && n > 0
	}
}

func (c *ConsoleReader) inputPending() bool {
	if c.br.Buffered() > 0 {
		return true
	}
	return c.moreInput != nil && c.moreInput(EscapeDelay)
}

// ReadToken reads the next token from the console.
//
// An ESC byte that isn't followed by more input within EscapeDelay is returned on its own, so that
// the Escape key can be told apart from the start of a sequence. ESC followed by anything
// other than '[' or 'O' is also returned alone, leaving the next byte for the following call.
// Bytes that aren't valid UTF-8 are returned one at a time.
func (c *ConsoleReader) ReadToken() (string, error) {
	b, err := c.br.ReadByte()
	if err != nil {
		return "", err
	}
	if b == esc[0] {
		return c.readEscape()
	}
	c.br.UnreadByte()
	r, size, err := c.br.ReadRune()
	if err != nil {
		return "", err
	}
	if r == utf8.RuneError && size == 1 {
		c.br.UnreadRune()
		b, _ := c.br.ReadByte()
		return string([]byte{b}), nil
	}
	return string(r), nil
}

func (c *ConsoleReader) readEscape() (string, error) {
	if !c.inputPending() {
		return esc, nil
	}
	next, err := c.br.Peek(1)
	if err != nil {
		return esc, nil
	}
	switch next[0] {
	case '[':
		c.br.ReadByte()
		return c.readCSI()
	case 'O':
		c.br.ReadByte()
		if !c.inputPending() {
			return esc + "O", nil
		}
		b, err := c.br.ReadByte()
		if err != nil {
			return esc + "O", nil
		}
		return ss3 + string([]byte{b}), nil
	}
	return esc, nil
}

// readCSI reads the rest of a control sequence whose introducer has already been consumed.
// The sequence ends at the first final byte (0x40 to 0x7E).
func (c *ConsoleReader) readCSI() (string, error) {
	seq := []byte(csi)
	for {
		b, err := c.br.ReadByte()
		if err != nil {
			return string(seq), nil
		}
		seq = append(seq, b)
		if b >= 0x40 && b <= 0x7E {
			return string(seq), nil
		}
	}
}
