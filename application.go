package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/dpinela/pled/internal/buffer"
	"github.com/dpinela/pled/internal/command"
	"github.com/dpinela/pled/internal/config"
	"github.com/dpinela/pled/internal/coord"
	"github.com/dpinela/pled/internal/grapheme"
	"github.com/dpinela/pled/internal/pathwatch"
	"github.com/dpinela/pled/internal/streak"
	"github.com/dpinela/pled/internal/termdraw"
	"github.com/dpinela/pled/internal/termesc"
	"github.com/dpinela/pled/internal/view"
)

const (
	helpMessage     = "HELP: Ctrl-S = save | Ctrl-W = save as | Ctrl-Q = quit"
	saveAsLabel     = "Save as (Esc to cancel): "
	saveAborted     = "Save aborted."
	savedMessage    = "File saved successfully."
	changedOnDisk   = "File changed on disk."
	quitWarningText = "WARNING! File has unsaved changes. Press Ctrl-Q %d more times to quit."
)

type application struct {
	cfg  *config.Config
	cls  grapheme.Classifier
	size coord.Size

	view    *view.View
	prompt  *prompt // Non-nil while asking for a file name
	message message
	expiry  <-chan time.Time // Fires when the current message should disappear

	quitStreak streak.Tracker
	shouldQuit bool

	watcher     *pathwatch.Watcher // May be nil
	watchedPath string
	fileChanged chan struct{}
	stamp       fileStamp // The state of the file when we last read or wrote it

	now func() time.Time
}

type prompt struct {
	label string
	input *buffer.Line
}

type message struct {
	text string
	at   time.Time
}

func newApplication(cfg *config.Config, size coord.Size) *application {
	cls := grapheme.Classifier{TabWidth: cfg.TabWidth}
	app := &application{
		cfg:         cfg,
		cls:         cls,
		view:        view.New(buffer.New(cls), coord.Size{}),
		fileChanged: make(chan struct{}, 1),
		now:         time.Now,
	}
	app.quitStreak = streak.Tracker{
		Limit:    cfg.QuitTimes,
		Interval: cfg.QuitInterval.Duration,
		Clock:    func() time.Time { return app.now() },
	}
	app.resize(size)
	app.setMessage(helpMessage)
	return app
}

// open loads the file at path into the editor. If that fails, the current buffer is kept and
// the error is reported in the message bar.
func (app *application) open(path string) {
	buf, err := buffer.Open(path, app.cls)
	if err != nil {
		log.Error().Err(err).Str("path", path).Msg("open failed")
		app.setMessage("ERROR: Could not open file: " + path)
		return
	}
	app.view.SetBuffer(buf)
	app.stamp = statFile(path)
	app.watch(path)
	log.Info().Str("path", path).Bool("exists", buf.File().Exists).Int("lines", int(buf.LineCount())).Msg("opened file")
}

func (app *application) watch(path string) {
	if app.watcher == nil || path == app.watchedPath {
		return
	}
	if app.watchedPath != "" {
		app.watcher.Remove(app.watchedPath, app.fileChanged)
	}
	app.watcher.Add(path, app.fileChanged)
	app.watchedPath = path
}

// handle carries out a single command.
func (app *application) handle(c command.Command) {
	log.Debug().Str("command", fmt.Sprintf("%#v", c)).Msg("dispatch")
	if r, ok := c.(command.Resize); ok {
		app.resize(r.Size)
		return
	}
	if app.prompt != nil {
		app.handlePrompt(c)
		return
	}
	if _, ok := c.(command.Quit); ok {
		app.quit()
		return
	}
	app.resetQuit()
	switch c := c.(type) {
	case command.Move:
		app.view.Move(c)
	case command.Edit:
		app.view.Edit(c)
	case command.Save:
		app.save()
	case command.SaveAs:
		app.openPrompt()
	case command.Dismiss:
		app.clearMessage()
	}
}

func (app *application) handlePrompt(c command.Command) {
	input := app.prompt.input
	switch c := c.(type) {
	case command.Dismiss:
		app.prompt = nil
		app.setMessage(saveAborted)
	case command.InsertNewline:
		app.prompt = nil
		if name := input.String(); name != "" {
			app.saveAs(name)
		} else {
			app.setMessage(saveAborted)
		}
	case command.InsertChar:
		input.Insert(c.Text, input.Len())
	case command.DeleteBackward:
		input.Delete(input.Len() - 1)
	}
}

func (app *application) resize(size coord.Size) {
	app.size = size
	app.view.Resize(coord.Size{Height: max(size.Height-2, 0), Width: size.Width})
}

func (app *application) quit() {
	if !app.view.Buffer().IsDirty() || app.quitStreak.Tick() {
		app.shouldQuit = true
		return
	}
	app.setMessage(fmt.Sprintf(quitWarningText, app.quitStreak.Remaining()))
}

func (app *application) resetQuit() {
	if app.quitStreak.Count() > 0 {
		app.quitStreak.Reset()
		app.clearMessage()
	}
}

func (app *application) openPrompt() {
	app.prompt = &prompt{label: saveAsLabel, input: buffer.NewLine("", app.cls)}
}

func (app *application) save() {
	buf := app.view.Buffer()
	if buf.File().Path == "" {
		app.openPrompt()
		return
	}
	app.finishSave(buf.Save(), buf.File().Path)
}

func (app *application) saveAs(path string) {
	err := app.view.Buffer().SaveAs(path)
	if err == nil {
		app.watch(path)
	}
	app.finishSave(err, path)
}

func (app *application) finishSave(err error, path string) {
	if err != nil {
		log.Error().Err(err).Str("path", path).Msg("save failed")
		app.setMessage("Error writing file: " + err.Error())
		return
	}
	app.stamp = statFile(path)
	log.Info().Str("path", path).Msg("saved file")
	app.setMessage(savedMessage)
}

// checkExternalChange is called when the watcher reports activity on the open file.
// Our own saves update the stamp first, so they don't count as changes.
func (app *application) checkExternalChange() {
	path := app.view.Buffer().File().Path
	if path == "" {
		return
	}
	st := statFile(path)
	if st.equal(app.stamp) {
		return
	}
	app.stamp = st
	log.Info().Str("path", path).Msg("file changed on disk")
	app.setMessage(changedOnDisk)
}

func (app *application) setMessage(text string) {
	app.message = message{text: text, at: app.now()}
	app.expiry = time.After(app.cfg.MessageTimeout.Duration)
}

func (app *application) clearMessage() {
	app.message = message{}
	app.expiry = nil
}

// currentMessage returns the message to show, or "" if it has expired.
func (app *application) currentMessage() string {
	if app.now().Sub(app.message.at) >= app.cfg.MessageTimeout.Duration {
		return ""
	}
	return app.message.text
}

// A fileStamp records enough about a file to notice when someone else modifies it.
type fileStamp struct {
	exists  bool
	size    int64
	modTime time.Time
}

func statFile(path string) fileStamp {
	info, err := os.Stat(path)
	if err != nil {
		return fileStamp{}
	}
	return fileStamp{exists: true, size: info.Size(), modTime: info.ModTime()}
}

func (s fileStamp) equal(t fileStamp) bool {
	return s.exists == t.exists && s.size == t.size && s.modTime.Equal(t.modTime)
}

// run processes input until the user quits or the input ends.
// Commands are handled one at a time, in the order they arrive; the goroutine reading the
// input only splits it into tokens.
func (app *application) run(in io.Reader, resizeSignal <-chan os.Signal, getSize func() (coord.Size, error), screen *termdraw.Screen) error {
	inputCh := make(chan string, 32)
	go func() {
		con := termesc.NewConsoleReader(in)
		for {
			s, err := con.ReadToken()
			if err != nil {
				if err != io.EOF {
					log.Error().Err(err).Msg("reading input failed")
				}
				close(inputCh)
				return
			}
			inputCh <- s
		}
	}()
	var watchErrors <-chan error
	if app.watcher != nil {
		watchErrors = app.watcher.Errors()
	}
	for !app.shouldQuit {
		if err := app.redraw(screen); err != nil {
			return err
		}
		select {
		case token, ok := <-inputCh:
			if !ok {
				return nil
			}
			if c, ok := command.FromToken(token); ok {
				app.handle(c)
			} else {
				log.Debug().Str("token", token).Msg("ignored input")
			}
		case <-resizeSignal:
			size, err := getSize()
			if err != nil {
				return err
			}
			app.handle(command.Resize{Size: size})
		case <-app.fileChanged:
			app.checkExternalChange()
		case err := <-watchErrors:
			log.Warn().Err(err).Msg("file watcher error")
		case <-app.expiry:
			app.expiry = nil
		}
	}
	log.Info().Msg("quitting")
	return nil
}
