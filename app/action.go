package app

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/gen2brain/beeep"
	"github.com/kballard/go-shellquote"
	"github.com/pterm/pterm"
	"github.com/urfave/cli/v2"

	"github.com/raminsharifi/time-logging/internal/config"
	"github.com/raminsharifi/time-logging/internal/logger"
	"github.com/raminsharifi/time-logging/internal/osutil"
	"github.com/raminsharifi/time-logging/internal/pathutil"
	"github.com/raminsharifi/time-logging/internal/timeutil"
	"github.com/raminsharifi/time-logging/internal/ui"
	"github.com/raminsharifi/time-logging/store"
	"github.com/raminsharifi/time-logging/timer"
	"github.com/raminsharifi/time-logging/todo"
)

const (
	envNoColor   = "NO_COLOR"
	envTLNoColor = "TL_NO_COLOR"
)

const abortedMsg = "Aborted: nothing was changed"

// state carries what the Before hook sets up to the command actions.
type state struct {
	cfg       *config.Config
	db        store.DB
	logCloser io.Closer
	out       io.Writer
	now       func() time.Time
}

// disableStyling disables all styling provided by pterm.
func disableStyling() {
	pterm.DisableColor()
	pterm.DisableStyling()
	pterm.Debug.Prefix.Text = ""
	pterm.Info.Prefix.Text = ""
	pterm.Success.Prefix.Text = ""
	pterm.Warning.Prefix.Text = ""
	pterm.Error.Prefix.Text = ""
	pterm.Fatal.Prefix.Text = ""
}

// openDB opens the database on first use.
func (s *state) openDB() (store.DB, error) {
	if s.db != nil {
		return s.db, nil
	}

	path := s.cfg.Storage.Path
	if path == "" {
		paths, err := pathutil.New()
		if err != nil {
			return nil, err
		}

		path = paths.DBFilePath(s.cfg.Storage.Driver)
	}

	slog.Debug(
		"opening database",
		slog.String("driver", s.cfg.Storage.Driver),
		slog.String("path", path),
	)

	db, err := store.Open(store.Driver(s.cfg.Storage.Driver), path)
	if err != nil {
		return nil, err
	}

	s.db = db

	return db, nil
}

func (s *state) tracker(ctx *cli.Context) (*timer.Tracker, error) {
	db, err := s.openDB()
	if err != nil {
		return nil, err
	}

	prompter := &ui.Prompter{
		Accessible: ctx.Bool("accessible"),
	}

	return timer.New(
		db,
		prompter,
		timer.WithDefaultCategory(s.cfg.Settings.DefaultCategory),
	), nil
}

// idArg parses the first positional argument as a record id.
func idArg(ctx *cli.Context, what string) (int64, error) {
	arg := ctx.Args().First()
	if arg == "" {
		return 0, errMissingID.Fmt(what)
	}

	id, err := strconv.ParseInt(strings.TrimPrefix(arg, "#"), 10, 64)
	if err != nil || id <= 0 {
		return 0, errInvalidID.Fmt(arg)
	}

	return id, nil
}

// startAction handles the start command which starts a new timer.
func (s *state) startAction(ctx *cli.Context) error {
	tr, err := s.tracker(ctx)
	if err != nil {
		return err
	}

	res, err := tr.Start()
	if err != nil {
		return err
	}

	if res.Aborted {
		pterm.Info.Println(abortedMsg)
		return nil
	}

	if res.Paused != nil {
		pterm.Info.Printfln("Paused %q.", res.Paused.Name)
	}

	pterm.Success.Printfln(
		"Started %q [%s] at %s",
		res.Timer.Name,
		res.Timer.Category,
		time.Unix(res.Timer.StartedAt, 0).Format(s.cfg.TimeFormat()),
	)

	return nil
}

// stopAction handles the stop command which turns the running timer into a
// log entry.
func (s *state) stopAction(ctx *cli.Context) error {
	tr, err := s.tracker(ctx)
	if err != nil {
		return err
	}

	res, err := tr.Stop()
	if res == nil {
		return err
	}

	msg := fmt.Sprintf(
		"Stopped %q [%s]: active %s, breaks %s",
		res.Entry.Name,
		res.Entry.Category,
		timeutil.FormatSeconds(res.Entry.ActiveSecs),
		timeutil.FormatSeconds(res.BreakSecs),
	)

	pterm.Success.Println(msg)

	if res.TodoDone {
		pterm.Success.Printfln("Marked todo #%d as done.", res.Todo.ID)
	}

	s.afterStop(msg)

	return err
}

// afterStop sends the stop notification and runs settings.stop_cmd. Neither
// can fail the stop itself.
func (s *state) afterStop(msg string) {
	if s.cfg.Notifications.Enabled {
		if err := beeep.Notify("tl", msg, ""); err != nil {
			slog.Warn("notification failed", slog.Any("error", err))
		}
	}

	args := s.cfg.StopCmd()
	if len(args) == 0 {
		return
	}

	cmd := exec.Command(args[0], args[1:]...)

	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		slog.Warn(
			"stop command failed",
			slog.String("cmd", s.cfg.Settings.StopCmd),
			slog.Any("error", err),
		)

		pterm.Warning.Printfln("stop_cmd failed: %s", err)
	}
}

// pauseAction handles the pause command.
func (s *state) pauseAction(ctx *cli.Context) error {
	tr, err := s.tracker(ctx)
	if err != nil {
		return err
	}

	t, err := tr.Pause()
	if err != nil {
		return err
	}

	pterm.Success.Printfln(
		"Paused %q at %s",
		t.Name,
		s.now().Format(s.cfg.TimeFormat()),
	)

	return nil
}

// resumeAction handles the resume command.
func (s *state) resumeAction(ctx *cli.Context) error {
	tr, err := s.tracker(ctx)
	if err != nil {
		return err
	}

	res, err := tr.Resume()
	if err != nil {
		return err
	}

	if res.Aborted {
		pterm.Info.Println(abortedMsg)
		return nil
	}

	pterm.Success.Printfln(
		"Resumed %q at %s",
		res.Timer.Name,
		s.now().Format(s.cfg.TimeFormat()),
	)

	return nil
}

// switchAction handles the switch command.
func (s *state) switchAction(ctx *cli.Context) error {
	tr, err := s.tracker(ctx)
	if err != nil {
		return err
	}

	res, err := tr.Switch()
	if err != nil {
		return err
	}

	switch {
	case res.Nothing:
		pterm.Info.Println("No other timers to switch to.")
		return nil
	case res.Aborted:
		pterm.Info.Println(abortedMsg)
		return nil
	}

	if res.Paused != nil {
		pterm.Info.Printfln("Paused %q.", res.Paused.Name)
	}

	pterm.Success.Printfln(
		"Switched to %q [%s].",
		res.Resumed.Name,
		res.Resumed.Category,
	)

	return nil
}

// statusAction handles the status command which lists the active timers.
func (s *state) statusAction(ctx *cli.Context) error {
	tr, err := s.tracker(ctx)
	if err != nil {
		return err
	}

	statuses, err := tr.Status()
	if err != nil {
		return err
	}

	if ctx.Bool("json") {
		return printJSON(s.out, statuses)
	}

	printStatus(s.out, statuses, s.now(), s.cfg.TimeFormat())

	return nil
}

// logSince returns the start of the window selected by the log flags. The
// zero time means no window. --today takes precedence over --week, which
// takes precedence over --since.
func logSince(now time.Time, today, week bool, since string) (time.Time, error) {
	switch {
	case today:
		return timeutil.StartOfDay(now), nil
	case week:
		return now.AddDate(0, 0, -7), nil
	case since != "":
		return timeutil.FromStr(since, now)
	default:
		return time.Time{}, nil
	}
}

// logAction handles the log command which lists completed timers.
func (s *state) logAction(ctx *cli.Context) error {
	since, err := logSince(
		s.now(),
		ctx.Bool("today"),
		ctx.Bool("week"),
		ctx.String("since"),
	)
	if err != nil {
		return err
	}

	tr, err := s.tracker(ctx)
	if err != nil {
		return err
	}

	lines, err := tr.Log(since)
	if err != nil {
		return err
	}

	if ctx.Bool("json") {
		return printJSON(s.out, lines)
	}

	printLog(s.out, lines, s.cfg.TimeFormat())

	return nil
}

// logRmAction handles the log rm command which deletes a log entry.
func (s *state) logRmAction(ctx *cli.Context) error {
	id, err := idArg(ctx, "log entry")
	if err != nil {
		return err
	}

	tr, err := s.tracker(ctx)
	if err != nil {
		return err
	}

	if err := tr.Rm(id); err != nil {
		return err
	}

	pterm.Success.Printfln("Deleted log entry #%d.", id)

	return nil
}

func (s *state) todoAddAction(ctx *cli.Context) error {
	db, err := s.openDB()
	if err != nil {
		return err
	}

	t, err := todo.Add(db, strings.Join(ctx.Args().Slice(), " "), s.now())
	if err != nil {
		return err
	}

	pterm.Success.Printfln("Added todo #%d: %s", t.ID, t.Text)

	return nil
}

func (s *state) todoListAction(ctx *cli.Context) error {
	db, err := s.openDB()
	if err != nil {
		return err
	}

	items, err := todo.List(db, s.now())
	if err != nil {
		return err
	}

	if ctx.Bool("json") {
		return printJSON(s.out, items)
	}

	printTodos(s.out, items)

	return nil
}

func (s *state) todoDoneAction(ctx *cli.Context) error {
	id, err := idArg(ctx, "todo")
	if err != nil {
		return err
	}

	db, err := s.openDB()
	if err != nil {
		return err
	}

	if _, err := todo.Done(db, id); err != nil {
		return err
	}

	pterm.Success.Printfln("Marked todo #%d as done.", id)

	return nil
}

func (s *state) todoRmAction(ctx *cli.Context) error {
	id, err := idArg(ctx, "todo")
	if err != nil {
		return err
	}

	db, err := s.openDB()
	if err != nil {
		return err
	}

	if err := todo.Remove(db, id); err != nil {
		return err
	}

	pterm.Success.Printfln("Removed todo #%d.", id)

	return nil
}

// editConfigAction handles the edit-config command which opens the config
// file in the user's default text editor.
func (s *state) editConfigAction(_ *cli.Context) error {
	editor, err := shellquote.Split(osutil.Editor())
	if err != nil || len(editor) == 0 {
		return errInvalidEditor.Wrap(err)
	}

	editor = append(editor, s.cfg.PathToConfig)

	cmd := exec.Command(editor[0], editor[1:]...)

	cmd.Stderr = os.Stderr
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout

	return cmd.Run()
}

func (s *state) beforeAction(ctx *cli.Context) error {
	// Override the default help template
	cli.AppHelpTemplate = helpText()

	pterm.Error.MessageStyle = pterm.NewStyle(pterm.FgRed)
	pterm.Error.Prefix = pterm.Prefix{
		Text:  "ERROR",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}

	// Disable colour output if NO_COLOR is set
	if _, exists := os.LookupEnv(envNoColor); exists {
		disableStyling()
	}

	// Disable colour output if TL_NO_COLOR is set
	if _, exists := os.LookupEnv(envTLNoColor); exists {
		disableStyling()
	}

	if ctx.Bool("no-color") {
		disableStyling()
	}

	paths, err := pathutil.New()
	if err != nil {
		return err
	}

	s.cfg, err = config.New(
		config.WithViperConfig(paths.ConfigFilePath()),
		config.WithCLIConfig(ctx),
	)
	if err != nil {
		return err
	}

	ui.DarkTheme = s.cfg.Display.DarkTheme

	level, err := s.cfg.LogLevel()
	if err != nil {
		return err
	}

	l, closer := logger.New(paths.LogFilePath(), level)
	slog.SetDefault(l)

	s.logCloser = closer

	slog.InfoContext(
		ctx.Context,
		"starting tl",
		slog.String("version", config.Version),
		slog.Any("args", ctx.Args().Slice()),
	)

	return nil
}

func (s *state) afterAction(ctx *cli.Context) error {
	if s.db != nil {
		if err := s.db.Close(); err != nil {
			slog.ErrorContext(ctx.Context, "closing database", slog.Any("error", err))
		}
	}

	slog.InfoContext(ctx.Context, "exiting tl")

	if s.logCloser != nil {
		return s.logCloser.Close()
	}

	return nil
}
