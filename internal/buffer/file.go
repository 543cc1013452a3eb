package buffer

import (
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/dpinela/pled/internal/atomicwrite"
	"github.com/dpinela/pled/internal/grapheme"
)

// FileInfo identifies the file a Buffer is associated with.
type FileInfo struct {
	Path   string // Empty if the buffer has never been saved
	Exists bool   // Whether the file existed when it was last opened or saved
}

// Name returns the base name of the file, or "" if there is none.
func (fi FileInfo) Name() string {
	if fi.Path == "" {
		return ""
	}
	return filepath.Base(fi.Path)
}

// ErrNoPath is returned by Save when the buffer isn't associated with a file.
var ErrNoPath = errors.New("buffer has no file name")

// Open creates a buffer holding the contents of the file at path.
// If the file doesn't exist, the buffer is empty but still associated with path, so that
// it will be created on the first save.
func Open(path string, cls grapheme.Classifier) (*Buffer, error) {
	b := New(cls)
	b.file.Path = path
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return b, nil
	}
	if err != nil {
		return nil, errors.WithMessage(err, "open failed")
	}
	defer f.Close()
	if _, err := b.ReadFrom(f); err != nil {
		return nil, errors.Wrapf(err, "reading %s failed", path)
	}
	b.file.Exists = true
	return b, nil
}

// Save writes the buffer to its associated file and clears the dirty flag.
// If writing fails, the buffer is left unchanged.
func (b *Buffer) Save() error {
	if b.file.Path == "" {
		return ErrNoPath
	}
	if err := b.writeFile(b.file.Path); err != nil {
		return err
	}
	b.file.Exists = true
	b.dirty = false
	return nil
}

// SaveAs writes the buffer to the file at path and associates the buffer with it.
// If writing fails, the buffer keeps its old association.
func (b *Buffer) SaveAs(path string) error {
	if path == "" {
		return ErrNoPath
	}
	if err := b.writeFile(path); err != nil {
		return err
	}
	b.file = FileInfo{Path: path, Exists: true}
	b.dirty = false
	return nil
}

func (b *Buffer) writeFile(path string) error {
	return atomicwrite.Write(path, func(w io.Writer) error {
		_, err := b.WriteTo(w)
		return err
	})
}
