// Package repl implements the interactive Numerus session.
//
// One Interpreter lives for the whole session, so declarations persist from
// line to line. Line editing and history come from github.com/peterh/liner.
package repl

import (
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/peterh/liner"

	"github.com/numerus-lang/numerus/internal/ast"
	"github.com/numerus-lang/numerus/internal/cli"
	"github.com/numerus-lang/numerus/internal/diagnostic"
	"github.com/numerus-lang/numerus/internal/errors"
	"github.com/numerus-lang/numerus/internal/interpreter"
	"github.com/numerus-lang/numerus/internal/lexer"
	"github.com/numerus-lang/numerus/internal/parser"
	"github.com/numerus-lang/numerus/internal/term"
)

// Options configures a REPL.
type Options struct {
	Prompt      string
	HistoryFile string
	MaxHistory  int // entries listed by :history; the file holds up to liner.HistoryLimit
	Color       bool
	Debug       bool

	Out    io.Writer
	Err    io.Writer
	Logger *cli.Logger
}

// historyStore is the part of *liner.State that persists history.
type historyStore interface {
	ReadHistory(r io.Reader) (int, error)
	WriteHistory(w io.Writer) (int, error)
}

var _ historyStore = (*liner.State)(nil)

// REPL is an interactive session.
type REPL struct {
	interp  *interpreter.Interpreter
	colors  term.Colorizer
	out     io.Writer
	errOut  io.Writer
	logger  *cli.Logger
	history []string // entries shown by :history
	session []string // executed source written by :save

	prompt      string
	historyFile string
	maxHistory  int
	debug       bool
}

// New creates a REPL with a fresh interpreter.
func New(opts Options) *REPL {
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.Err == nil {
		opts.Err = os.Stderr
	}
	if opts.Prompt == "" {
		opts.Prompt = "NUMERUS> "
	}
	if opts.MaxHistory <= 0 {
		opts.MaxHistory = 1000
	}
	if opts.Logger == nil {
		opts.Logger = cli.NewLoggerTo(opts.Err, false, opts.Debug)
	}

	return &REPL{
		interp:      interpreter.New(nil, interpreter.NewWriterSink(opts.Out)),
		colors:      term.Colorizer{Enabled: opts.Color},
		out:         opts.Out,
		errOut:      opts.Err,
		logger:      opts.Logger,
		prompt:      opts.Prompt,
		historyFile: opts.HistoryFile,
		maxHistory:  opts.MaxHistory,
		debug:       opts.Debug,
	}
}

// Interpreter returns the session interpreter.
func (r *REPL) Interpreter() *interpreter.Interpreter { return r.interp }

// Run reads lines until EXITUS or end of input.
func (r *REPL) Run() error {
	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if err := loadHistory(ln, r.historyFile); err != nil {
		r.logger.Warn("could not read history from %s: %v", r.historyFile, err)
	}
	defer func() {
		if err := saveHistory(ln, r.historyFile); err != nil {
			r.logger.Warn("could not save history to %s: %v", r.historyFile, err)
		}
	}()

	PrintBanner(r.out, r.colors)

	for {
		src, err := r.readInput(ln)
		if err == liner.ErrPromptAborted {
			fmt.Fprintln(r.out, r.colors.Yellow("CTRL-C detectum. Scribe 'EXITUS' pro exire."))
			continue
		}
		if stderrors.Is(err, io.EOF) {
			PrintFarewell(r.out, r.colors)
			return nil
		}
		if err != nil {
			return fmt.Errorf("repl: %w", err)
		}

		trimmed := strings.TrimSpace(src)
		if trimmed == "" {
			continue
		}
		ln.AppendHistory(strings.ReplaceAll(trimmed, "\n", " "))

		if r.Handle(trimmed) {
			return nil
		}
	}
}

// readInput reads one entry, continuing onto further lines while a
// parenthesis is left open.
func (r *REPL) readInput(ln *liner.State) (string, error) {
	var b strings.Builder
	for {
		prompt := r.prompt
		if b.Len() > 0 {
			prompt = strings.Repeat(".", max(1, len(strings.TrimRight(r.prompt, " ")))) + " "
		}

		line, err := ln.Prompt(prompt)
		if err != nil {
			return "", err
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		if !Incomplete(b.String()) {
			return b.String(), nil
		}
	}
}

// Incomplete reports whether src only fails because input ended inside
// parentheses.
func Incomplete(src string) bool {
	_, err := parser.ParseSource(src)
	return stderrors.Is(err, errors.ErrUnclosedParenthesis)
}

// Handle processes one entry and reports whether the session should end.
func (r *REPL) Handle(line string) bool {
	r.addHistory(line)

	switch {
	case strings.EqualFold(line, "EXITUS"):
		PrintFarewell(r.out, r.colors)
		return true
	case strings.EqualFold(line, "AUXILIUM"):
		PrintHelp(r.out, r.colors)
		return false
	case strings.HasPrefix(line, ":"):
		return r.HandleCommand(line)
	}

	r.ExecuteLine(line)
	return false
}

// ExecuteLine lexes and parses src, then executes its statements one by one.
// A failing statement is reported and the remaining ones still run. It
// reports whether every statement succeeded.
func (r *REPL) ExecuteLine(src string) bool {
	tokens, err := lexer.Tokenize(src)
	if err != nil {
		r.reportWithSource(src, err)
		return false
	}
	if r.debug {
		r.logger.Debug("Tokens: %v", tokens)
	}

	program, err := parser.New(tokens).Parse()
	if err != nil {
		r.reportWithSource(src, err)
		return false
	}
	if r.debug {
		r.logger.Debug("AST:\n%s", strings.TrimRight(ast.Dump(program), "\n"))
	}

	ok := true
	for _, stmt := range program.Statements {
		if _, _, err := r.interp.Execute(stmt); err != nil {
			fmt.Fprintln(r.errOut, r.colors.Red(err.Error()))
			ok = false
			continue
		}
		r.record(src, stmt)
	}
	return ok
}

// record keeps the source of a statement that ran, for :save.
func (r *REPL) record(src string, stmt ast.Statement) {
	span := stmt.GetSpan()
	if !span.IsValid() || span.End.Offset > len(src) {
		return
	}
	r.session = append(r.session, src[span.Start.Offset:span.End.Offset])
}

func (r *REPL) reportWithSource(src string, err error) {
	fmt.Fprint(r.errOut, r.colors.Red(diagnostic.FormatWithSource(src, err)))
}

// HandleCommand runs a colon command and reports whether the session should
// end.
func (r *REPL) HandleCommand(cmd string) bool {
	parts := strings.Fields(cmd)
	if len(parts) == 0 {
		return false
	}

	switch parts[0] {
	case ":help", ":h":
		PrintHelp(r.out, r.colors)
	case ":quit", ":q", ":exit":
		PrintFarewell(r.out, r.colors)
		return true
	case ":clear", ":c":
		fmt.Fprint(r.out, r.colors.ClearScreen())
	case ":reset":
		r.interp.Reset()
		r.session = nil
		fmt.Fprintln(r.out, "Variabiles deletae.")
	case ":load":
		if len(parts) < 2 {
			fmt.Fprintln(r.errOut, "Usus: :load <file>")
			break
		}
		if err := r.LoadFile(parts[1]); err != nil {
			fmt.Fprintln(r.errOut, r.colors.Red(err.Error()))
		}
	case ":save":
		if len(parts) < 2 {
			fmt.Fprintln(r.errOut, "Usus: :save <file>")
			break
		}
		if err := r.SaveSession(parts[1]); err != nil {
			fmt.Fprintln(r.errOut, r.colors.Red(err.Error()))
		}
	case ":history":
		r.ShowHistory()
	case ":vars":
		r.ShowVariables()
	case ":debug":
		if len(parts) < 2 {
			fmt.Fprintf(r.out, "Modus debug: %v\n", r.debug)
			break
		}
		switch parts[1] {
		case "on", "true", "1":
			r.setDebug(true)
			fmt.Fprintln(r.out, "Modus debug activus.")
		case "off", "false", "0":
			r.setDebug(false)
			fmt.Fprintln(r.out, "Modus debug inactivus.")
		default:
			fmt.Fprintln(r.errOut, "Usus: :debug on|off")
		}
	default:
		fmt.Fprintf(r.errOut, "Mandatum ignotum: %s\n", parts[0])
		fmt.Fprintln(r.errOut, "Scribe :help pro mandatis.")
	}

	return false
}

func (r *REPL) setDebug(on bool) {
	r.debug = on
	r.logger.DebugMode = on
}

// LoadFile runs a script inside the current session. Execution stops at the
// first failing statement; the statements before it stay in effect.
func (r *REPL) LoadFile(filename string) error {
	content, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("Non possum legere file '%s': %w", filename, err)
	}
	src := string(content)

	program, err := parser.ParseSource(src)
	if err != nil {
		return fmt.Errorf("%s", strings.TrimRight(diagnostic.FormatWithSource(src, err), "\n"))
	}
	for _, stmt := range program.Statements {
		if _, _, err := r.interp.Execute(stmt); err != nil {
			return err
		}
		r.record(src, stmt)
	}

	r.logger.Info("loaded %s", filename)
	return nil
}

// SaveSession writes every statement that ran in this session to filename,
// one per line, so that :load replays it. Commands and failed input are
// left out.
func (r *REPL) SaveSession(filename string) error {
	var content string
	if len(r.session) > 0 {
		content = strings.Join(r.session, "\n") + "\n"
	}
	if err := os.WriteFile(filename, []byte(content), 0o644); err != nil {
		return err
	}
	fmt.Fprintf(r.out, "Historia servata in %s\n", filename)
	return nil
}

func (r *REPL) addHistory(line string) {
	r.history = append(r.history, strings.ReplaceAll(line, "\n", " "))
	if len(r.history) > r.maxHistory {
		r.history = r.history[len(r.history)-r.maxHistory:]
	}
}

// History returns the entries recorded so far, capped at MaxHistory.
func (r *REPL) History() []string {
	return append([]string(nil), r.history...)
}

func (r *REPL) ShowHistory() {
	if len(r.history) == 0 {
		fmt.Fprintln(r.out, "Historia vacua.")
		return
	}
	for i, cmd := range r.history {
		fmt.Fprintf(r.out, "%3d: %s\n", i+1, cmd)
	}
}

func (r *REPL) ShowVariables() {
	env := r.interp.Environment()
	if env.Len() == 0 {
		fmt.Fprintln(r.out, "Nullae variabiles.")
		return
	}

	snapshot := env.Snapshot()
	for _, name := range env.Names() {
		value := snapshot[name]
		switch v := value.(type) {
		case interpreter.Str:
			fmt.Fprintf(r.out, "  %s = %q\n", name, string(v))
		case interpreter.Number:
			if roman, err := interpreter.OutputString(v); err == nil {
				fmt.Fprintf(r.out, "  %s = %s (%s)\n", name, roman, v)
			} else {
				fmt.Fprintf(r.out, "  %s = %s\n", name, v)
			}
		}
	}
}

// Session returns the source of the statements executed so far.
func (r *REPL) Session() []string {
	return append([]string(nil), r.session...)
}

// loadHistory fills h from path. A missing file or an empty path is not an
// error.
func loadHistory(h historyStore, path string) error {
	if path == "" {
		return nil
	}
	f, err := os.Open(path)
	if stderrors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = h.ReadHistory(f)
	return err
}

// saveHistory writes h to path. liner keeps at most liner.HistoryLimit
// entries.
func saveHistory(h historyStore, path string) error {
	if path == "" {
		return nil
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}
	if _, err := h.WriteHistory(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
