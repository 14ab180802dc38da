package repl

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"sync"
	"time"

	"ojide/internal/ide/config"
	"ojide/internal/ide/display"
	"ojide/internal/ide/editor"
	"ojide/internal/ide/judge"
	"ojide/internal/ide/runner"
	"ojide/internal/ide/store"
	"ojide/internal/ide/transport"
	appErr "ojide/pkg/errors"

	"github.com/chzyer/readline"
	"github.com/google/shlex"
)

const (
	prompt     = "ojide> "
	editPrompt = "... "
	editEnd    = "."
)

// errExit ends the read loop.
var errExit = errors.New("exit")

// Options tunes a Session.
type Options struct {
	Out         io.Writer
	HistoryFile string
	// RestoreBackend switches to the backend saved by a previous session.
	RestoreBackend bool
}

// Session holds REPL state.
type Session struct {
	cfg    config.Config
	store  store.Store
	runner *runner.Runner
	source *editor.Buffer
	input  *editor.Buffer
	output display.Result

	language config.Language
	history  string
	styles   styles

	outMu sync.Mutex
	out   io.Writer

	// readLine feeds multi-line edits; Run binds it to the line editor.
	readLine func(prompt string) (string, error)
}

func New(cfg config.Config, st store.Store, opts Options) *Session {
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}
	s := &Session{
		cfg:     cfg,
		store:   st,
		source:  editor.NewBuffer("", ""),
		input:   editor.NewBuffer("", "plain"),
		out:     out,
		history: opts.HistoryFile,
		styles:  newStyles(out),
		readLine: func(string) (string, error) {
			return "", io.EOF
		},
	}

	if saved := st.Get(store.KeyBackend); opts.RestoreBackend && saved != "" && saved != cfg.Backend {
		if next := cfg.WithBackend(saved); next.Validate() == nil {
			s.cfg = next
		}
	}
	s.resetRunner()
	st.Set(store.KeyBackend, s.cfg.Backend)

	name := st.Get(store.KeyLanguage)
	if name == "" {
		name = s.cfg.DefaultLanguage
	}
	if err := s.selectLanguage(name); err != nil {
		_ = s.selectLanguage(s.cfg.DefaultLanguage)
	}
	return s
}

// Run reads commands until exit or end of input.
func (s *Session) Run(ctx context.Context) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          prompt,
		HistoryFile:     s.history,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
		Stdout:          s.out,
	})
	if err != nil {
		return fmt.Errorf("init line editor failed: %w", err)
	}
	defer rl.Close()

	s.readLine = func(p string) (string, error) {
		rl.SetPrompt(p)
		defer rl.SetPrompt(prompt)
		return rl.Readline()
	}

	s.printLine("backend %s at %s, language %s. type help for commands.", s.cfg.Backend, s.cfg.BaseURL, s.language.Name)
	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("read input failed: %w", err)
		}

		if err := s.HandleLine(ctx, line); err != nil {
			if errors.Is(err, errExit) {
				s.printLine("bye")
				return nil
			}
			s.printLine("error: %v", err)
		}
	}
}

// HandleLine executes one command line.
func (s *Session) HandleLine(ctx context.Context, line string) error {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}
	tokens, err := shlex.Split(line)
	if err != nil {
		return fmt.Errorf("parse command failed: %w", err)
	}
	if len(tokens) == 0 {
		return nil
	}

	args := tokens[1:]
	switch strings.ToLower(tokens[0]) {
	case "help":
		s.printHelp()
	case "exit", "quit":
		return errExit
	case "lang":
		return s.handleLang(args)
	case "langs":
		s.handleLangs()
	case "load":
		return s.handleLoad(args)
	case "input":
		return s.handleInput(args)
	case "edit":
		return s.handleEdit(args)
	case "show":
		return s.handleShow(args)
	case "run", "f9":
		return s.handleRun(ctx)
	case "set":
		return s.handleSet(args)
	default:
		return appErr.Newf(appErr.UnknownCommand, "unknown command: %s", tokens[0])
	}
	return nil
}

func (s *Session) handleLang(args []string) error {
	if len(args) == 0 {
		s.printLine("language: %s (id %s)", s.language.Name, s.language.ID)
		return nil
	}
	return s.selectLanguage(strings.Join(args, " "))
}

func (s *Session) selectLanguage(name string) error {
	lang, ok := s.cfg.Language(name)
	if !ok {
		return appErr.Newf(appErr.LanguageNotSupported, "unknown language %q, see langs", name)
	}
	s.language = lang
	s.source.SetMode(lang.Mode)
	s.runner.SetLanguage(lang.ID)
	s.store.Set(store.KeyLanguage, lang.Name)
	return nil
}

func (s *Session) handleLangs() {
	for _, lang := range s.cfg.Languages {
		marker := " "
		if lang.ID == s.language.ID {
			marker = "*"
		}
		s.printLine("%s %-12s %s", marker, lang.Name, lang.ID)
	}
}

func (s *Session) handleLoad(args []string) error {
	if len(args) != 1 {
		return appErr.BadRequest("usage: load <file>")
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read source failed: %w", err)
	}
	s.source.SetValue(string(data))
	s.source.MoveToEnd()
	s.source.MarkClean()
	s.printLine("loaded %s (%d lines)", args[0], s.source.LineCount())
	return nil
}

func (s *Session) handleInput(args []string) error {
	if len(args) != 1 {
		return appErr.BadRequest("usage: input <file>|-")
	}
	if args[0] == "-" {
		s.input.SetValue("")
		s.printLine("input cleared")
		return nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read input failed: %w", err)
	}
	s.input.SetValue(string(data))
	s.printLine("input set from %s (%d bytes)", args[0], len(data))
	return nil
}

func (s *Session) handleEdit(args []string) error {
	target := "source"
	if len(args) > 0 {
		target = args[0]
	}
	var buf *editor.Buffer
	switch target {
	case "source":
		buf = s.source
	case "input":
		buf = s.input
	default:
		return appErr.BadRequest("usage: edit [source|input]")
	}

	s.printLine("enter %s, end with a line containing only %q", target, editEnd)
	var lines []string
	for {
		line, err := s.readLine(editPrompt)
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			if errors.Is(err, readline.ErrInterrupt) {
				s.printLine("edit aborted")
				return nil
			}
			return fmt.Errorf("read input failed: %w", err)
		}
		if line == editEnd {
			break
		}
		lines = append(lines, line)
	}

	value := strings.Join(lines, "\n")
	if len(lines) > 0 {
		value += "\n"
	}
	buf.SetValue(value)
	buf.MoveToEnd()
	s.printLine("%s updated (%d lines)", target, len(lines))
	return nil
}

func (s *Session) handleShow(args []string) error {
	if len(args) != 1 {
		return appErr.BadRequest("usage: show source|input|output|config")
	}
	switch args[0] {
	case "source":
		s.printBlock(s.source.Value())
	case "input":
		s.printBlock(s.input.Value())
	case "output":
		s.printResult(s.output)
	case "config":
		opts := s.runner.PollOptions()
		s.printLine("backend: %s", s.cfg.Backend)
		if c := s.client(); c != nil {
			s.printLine("baseURL: %s", c.BaseURL())
			s.printLine("timeout: %s", c.Timeout())
		}
		s.printLine("poll interval: %s", opts.Interval)
		s.printLine("poll timeout: %s", opts.Timeout)
		s.printLine("language: %s (%s)", s.language.Name, s.language.Mode)
		s.printLine("store: %s", s.cfg.Store.Driver)
	default:
		return appErr.BadRequest("usage: show source|input|output|config")
	}
	return nil
}

func (s *Session) handleRun(ctx context.Context) error {
	req := judge.Request{
		SourceCode: s.source.Value(),
		LanguageID: s.language.ID,
		Stdin:      s.input.Value(),
	}
	if err := req.Validate(); err != nil {
		return err
	}

	runCtx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	start := time.Now()
	s.printLine("%s", s.styles.pending.Render("running..."))
	_, ch := s.runner.Start(runCtx, req)
	out := <-ch

	s.output = out.Display
	s.printResult(out.Display)
	s.printLine("%s", s.styles.dim.Render(fmt.Sprintf("took %s", time.Since(start).Round(time.Millisecond))))
	return nil
}

func (s *Session) handleSet(args []string) error {
	if len(args) < 2 {
		return appErr.BadRequest("usage: set base|interval|timeout|backend <value>")
	}
	switch args[0] {
	case "base":
		c := s.client()
		if c == nil {
			return appErr.New(appErr.Unsupported)
		}
		c.SetBaseURL(args[1])
		s.cfg.BaseURL = c.BaseURL()
		s.printLine("base set to %s", c.BaseURL())
	case "interval":
		dur, err := time.ParseDuration(args[1])
		if err != nil || dur <= 0 {
			return appErr.Newf(appErr.InvalidParams, "invalid duration %q", args[1])
		}
		opts := s.runner.PollOptions()
		opts.Interval = dur
		s.runner.SetPollOptions(opts)
		s.cfg.Poll.Interval = dur
		s.printLine("poll interval set to %s", dur)
	case "timeout":
		dur, err := time.ParseDuration(args[1])
		if err != nil || dur <= 0 {
			return appErr.Newf(appErr.InvalidParams, "invalid duration %q", args[1])
		}
		if c := s.client(); c != nil {
			c.SetTimeout(dur)
		}
		s.cfg.Timeout = dur
		s.printLine("timeout set to %s", dur)
	case "backend":
		if args[1] == s.cfg.Backend {
			return nil
		}
		next := s.cfg.WithBackend(args[1])
		if err := next.Validate(); err != nil {
			return appErr.Wrap(err, appErr.InvalidParams)
		}
		s.cfg = next
		s.resetRunner()
		s.store.Set(store.KeyBackend, s.cfg.Backend)
		if err := s.selectLanguage(s.language.Name); err != nil {
			_ = s.selectLanguage(s.cfg.DefaultLanguage)
		}
		s.printLine("backend set to %s at %s", s.cfg.Backend, s.cfg.BaseURL)
	default:
		return appErr.BadRequest("usage: set base|interval|timeout|backend <value>")
	}
	return nil
}

func (s *Session) resetRunner() {
	r := runner.New(config.NewBackend(s.cfg), s.cfg.PollOptions())
	r.Subscribe(func(u runner.Update) {
		if r.Current(u.Seq) {
			s.onUpdate(u)
		}
	})
	if s.runner != nil {
		s.runner.Cancel()
	}
	s.runner = r
}

func (s *Session) onUpdate(u runner.Update) {
	if u.Pending == nil {
		return
	}
	s.printLine("%s", s.styles.pending.Render(u.Pending.Status.Description+"..."))
}

// client returns the HTTP client of the current backend.
func (s *Session) client() *transport.Client {
	if b, ok := s.runner.Backend().(interface{ Client() *transport.Client }); ok {
		return b.Client()
	}
	return nil
}

func (s *Session) printResult(res display.Result) {
	if res.StatusLine == "" && res.Empty() {
		s.printLine("%s", s.styles.dim.Render(display.Placeholder))
		return
	}
	s.printLine("%s", s.styles.forKind(res.Kind).Render(res.StatusLine))
	if res.Empty() {
		s.printLine("%s", s.styles.dim.Render(display.Placeholder))
		return
	}
	s.printBlock(res.Body)
}

func (s *Session) printBlock(text string) {
	if text == "" {
		s.printLine("%s", s.styles.dim.Render(display.Placeholder))
		return
	}
	s.printLine("%s", strings.TrimRight(text, "\n"))
}

func (s *Session) printHelp() {
	s.printLine("commands:")
	s.printLine("  lang [name]            show or select the language")
	s.printLine("  langs                  list languages")
	s.printLine("  load <file>            load source code from a file")
	s.printLine("  input <file>|-         set stdin from a file, - clears it")
	s.printLine("  edit [source|input]    type text, end with a lone %q", editEnd)
	s.printLine("  show source|input|output|config")
	s.printLine("  run | F9               run the source, Ctrl-C cancels")
	s.printLine("  set base <url> | interval <dur> | timeout <dur> | backend judge0|oj")
	s.printLine("  help | exit")
}

func (s *Session) printLine(format string, args ...interface{}) {
	s.outMu.Lock()
	defer s.outMu.Unlock()
	_, _ = fmt.Fprintf(s.out, format+"\n", args...)
}
