// Command pled is a small terminal text editor.
package main

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/ssh/terminal"
	"golang.org/x/sys/unix"

	"github.com/dpinela/pled/internal/config"
	"github.com/dpinela/pled/internal/coord"
	"github.com/dpinela/pled/internal/logging"
	"github.com/dpinela/pled/internal/pathwatch"
	"github.com/dpinela/pled/internal/termdraw"
	"github.com/dpinela/pled/internal/termesc"
)

var version = "dev"

var (
	cfgFile string
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:          "pled [file]",
	Short:        "A small terminal text editor",
	Version:      version,
	Args:         cobra.MaximumNArgs(1),
	SilenceUsage: true,
	RunE:         runEditor,
}

func init() {
	rootCmd.Flags().StringVarP(&cfgFile, "config", "c", "", "config file (default is $XDG_CONFIG_HOME/pled/config.toml)")
	rootCmd.Flags().BoolVar(&debug, "debug", false, "log at debug level")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runEditor(cmd *cobra.Command, args []string) error {
	path := cfgFile
	if path == "" {
		var err error
		if path, err = config.DefaultPath(); err != nil {
			fmt.Fprintln(os.Stderr, "warning: can't find config directory:", err)
		}
	}
	cfg := config.Default()
	var cfgErr error
	if path != "" {
		cfg, cfgErr = config.Load(path)
		if cfgErr != nil {
			fmt.Fprintln(os.Stderr, "warning:", cfgErr)
		}
	}
	level := cfg.LogLevel
	if debug {
		level = "debug"
	}
	logFile, err := logging.Setup("", level)
	if err != nil {
		fmt.Fprintln(os.Stderr, "warning: logging disabled:", err)
	}
	defer logFile.Close()
	if cfgErr != nil {
		log.Warn().Err(cfgErr).Msg("config problems")
	}
	log.Info().Str("version", version).Msg("starting")

	fd := int(os.Stdin.Fd())
	if !terminal.IsTerminal(fd) {
		return errors.New("standard input is not a terminal")
	}
	w, h, err := terminal.GetSize(fd)
	if err != nil {
		return errors.Wrap(err, "error finding terminal size")
	}
	size := coord.Size{Height: h, Width: w}

	app := newApplication(cfg, size)
	if watcher, err := pathwatch.NewWatcher(); err != nil {
		log.Warn().Err(err).Msg("can't watch files for changes")
	} else {
		defer watcher.Close()
		app.watcher = watcher
	}
	if len(args) > 0 {
		app.open(args[0])
	}

	resize := make(chan os.Signal, 1)
	signal.Notify(resize, unix.SIGWINCH)
	defer signal.Stop(resize)

	oldMode, err := terminal.MakeRaw(fd)
	if err != nil {
		return errors.Wrap(err, "error entering raw mode")
	}
	os.Stdout.WriteString(termesc.EnterAlternateScreen)
	defer func() {
		os.Stdout.WriteString(termesc.ExitAlternateScreen + termesc.ShowCursor)
		terminal.Restore(fd, oldMode)
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("crashed")
			panic(r)
		}
	}()
	getSize := func() (coord.Size, error) {
		w, h, err := terminal.GetSize(fd)
		return coord.Size{Height: h, Width: w}, err
	}
	return app.run(os.Stdin, resize, getSize, termdraw.NewScreen(os.Stdout, size))
}
