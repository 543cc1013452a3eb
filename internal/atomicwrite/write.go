// Package atomicwrite provides functions to write files atomically.
package atomicwrite

import (
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// The permissions given to files that didn't exist before being written.
const defaultPerms os.FileMode = 0644

// Write atomically overwrites the file at filename with the content written by the
// given function.
// The file is created if it doesn't already exist; otherwise its permissions are preserved.
// The temporary file is created in the same directory as filename, so that the final
// rename never crosses file systems.
func Write(filename string, contentWriter func(io.Writer) error) error {
	perms := defaultPerms
	if info, err := os.Stat(filename); err == nil {
		perms = info.Mode().Perm()
	} else if !os.IsNotExist(err) {
		return errors.Wrap(err, errString(filename))
	}
	tf, err := os.CreateTemp(filepath.Dir(filename), "."+filepath.Base(filename)+".pled-")
	if err != nil {
		return errors.Wrap(err, errString(filename))
	}
	name := tf.Name()
	fail := func(err error) error {
		tf.Close()
		os.Remove(name)
		return errors.Wrap(err, errString(filename))
	}
	if err := contentWriter(tf); err != nil {
		return fail(err)
	}
	if err := tf.Chmod(perms); err != nil {
		return fail(err)
	}
	if err := tf.Sync(); err != nil {
		return fail(err)
	}
	if err := tf.Close(); err != nil {
		os.Remove(name)
		return errors.Wrap(err, errString(filename))
	}
	if err := os.Rename(name, filename); err != nil {
		os.Remove(name)
		return errors.Wrap(err, errString(filename))
	}
	return nil
}

func errString(filename string) string { return "saving " + filename + " failed" }
