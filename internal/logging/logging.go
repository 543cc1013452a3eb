// Package logging sets up pled's log file.
//
// The editor owns the terminal while it runs, so log output goes to a file instead:
// pled.log in pled's XDG data directory.
package logging

import (
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/tajtiattila/basedir"
)

// FileName is the name of the log file within the data directory.
const FileName = "pled.log"

// Dir returns pled's data directory, creating it if needed.
func Dir() (string, error) {
	return basedir.Data.EnsureDir("pled", 0700)
}

// Setup points the global logger at the log file in dir and sets the minimum level to
// level ("debug", "info", and so on). If dir is empty, Dir is used.
// The returned Closer closes the log file.
//
// If the log file can't be opened, logging is disabled and the error is returned.
func Setup(dir, level string) (io.Closer, error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	if dir == "" {
		if dir, err = Dir(); err != nil {
			Discard()
			return io.NopCloser(nil), errors.WithMessage(err, "creating log directory")
		}
	}
	f, err := os.OpenFile(filepath.Join(dir, FileName), os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0600)
	if err != nil {
		Discard()
		return io.NopCloser(nil), errors.Wrap(err, "opening log file")
	}
	zerolog.SetGlobalLevel(lvl)
	log.Logger = zerolog.New(f).With().Timestamp().Int("pid", os.Getpid()).Logger()
	return f, nil
}

// Discard turns off logging.
func Discard() {
	log.Logger = zerolog.Nop()
}
