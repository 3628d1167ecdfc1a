// Command numerus runs NUMERUS++ programs: an interactive REPL, file
// execution, syntax checking for editors, a file watcher and an HTTP/3
// tooling endpoint.
package main

import (
	"context"
	stderrors "errors"
	"flag"
	"fmt"
	"io"
	"net"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/numerus-lang/numerus/internal/cli"
	"github.com/numerus-lang/numerus/internal/config"
	"github.com/numerus-lang/numerus/internal/diagnostic"
	"github.com/numerus-lang/numerus/internal/interpreter"
	"github.com/numerus-lang/numerus/internal/parser"
	"github.com/numerus-lang/numerus/internal/repl"
	"github.com/numerus-lang/numerus/internal/server"
	"github.com/numerus-lang/numerus/internal/term"
	"github.com/numerus-lang/numerus/internal/watch"
)

const tool = "numerus"

func main() {
	cli.ExitWithCode(run(os.Args[1:], os.Stdout, os.Stderr), "")
}

// app carries what every subcommand needs.
type app struct {
	cfg    *config.Config
	logger *cli.Logger
	stdout io.Writer
	stderr io.Writer
}

func run(args []string, stdout, stderr io.Writer) int {
	configPath, args, err := globalFlags(args)
	if err != nil {
		return cli.HandleError(stderr, err)
	}

	if len(args) > 0 {
		switch args[0] {
		case "help", "-h", "--help", "AUXILIUM":
			if len(args) > 1 {
				if cmd, ok := findCommand(args[1]); ok {
					cli.PrintCommandUsage(stdout, tool, cmd)
					return cli.ExitOK
				}
			}
			cli.PrintUsage(stdout, tool, commands)
			return cli.ExitOK
		case "-v", "--version":
			return cli.HandleError(stderr, cli.PrintVersion(stdout, cli.ToolName, false))
		}
	}

	cfg, err := config.Resolve(configPath)
	if err != nil {
		return cli.HandleError(stderr, err)
	}
	a := &app{
		cfg:    cfg,
		logger: cli.NewLoggerTo(stderr, cfg.Log.Verbose, cfg.Log.Debug),
		stdout: stdout,
		stderr: stderr,
	}
	if cfg.Path != "" {
		a.logger.Debug("config loaded from %s", cfg.Path)
	}

	if len(args) == 0 {
		return a.repl(nil)
	}
	if args[0] != "version" {
		if err := cfg.CheckVersion(cli.Version); err != nil {
			return cli.HandleError(stderr, err)
		}
	}

	sub, rest := args[0], args[1:]
	switch sub {
	case "version":
		return a.version(rest)
	case "repl":
		return a.repl(rest)
	case "run":
		if err := cli.ValidateArgs(rest, 1, 1, "numerus run <file.npp>"); err != nil {
			return cli.HandleError(stderr, err)
		}
		return a.runFile(rest[0])
	case "check", "--check":
		if sub == "--check" {
			rest = append([]string{"--json"}, rest...)
		}
		return a.check(rest)
	case "watch":
		return a.watch(rest)
	case "serve":
		return a.serve(rest)
	}

	if len(rest) > 0 || strings.HasPrefix(sub, "-") {
		cli.PrintUsage(stderr, tool, commands)
		return cli.ExitFailure
	}
	return a.runFile(sub)
}

// globalFlags strips a leading --config option.
func globalFlags(args []string) (string, []string, error) {
	var path string
	for len(args) > 0 {
		arg := args[0]
		switch {
		case arg == "--config" || arg == "-config":
			if len(args) < 2 {
				return "", nil, &cli.UsageError{Usage: "numerus --config <file> [command]"}
			}
			path, args = args[1], args[2:]
		case strings.HasPrefix(arg, "--config="):
			path, args = strings.TrimPrefix(arg, "--config="), args[1:]
		default:
			return path, args, nil
		}
	}
	return path, args, nil
}

func (a *app) colorEnabled(f *os.File) bool {
	return term.ShouldColor(string(a.cfg.REPL.Color), f)
}

func (a *app) version(args []string) int {
	fs := flag.NewFlagSet("version", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	jsonOutput := fs.Bool("json", false, "output version information as JSON")
	check := fs.String("check", "", "exit 1 unless the version satisfies this semver constraint")
	if err := fs.Parse(args); err != nil {
		return cli.ExitUsage
	}

	if *check != "" {
		ok, err := config.Satisfies(cli.Version, *check)
		if err != nil {
			cli.HandleError(a.stderr, err)
			return cli.ExitUsage
		}
		if !ok {
			fmt.Fprintf(a.stderr, "%s %s does not satisfy %s\n", cli.ToolName, cli.Version, *check)
			return cli.ExitFailure
		}
	}

	return cli.HandleError(a.stderr, cli.PrintVersion(a.stdout, cli.ToolName, *jsonOutput))
}

func (a *app) repl(args []string) int {
	fs := flag.NewFlagSet("repl", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	debug := fs.Bool("debug", a.cfg.Log.Debug, "log tokens and syntax trees")
	history := fs.String("history", a.cfg.REPL.HistoryFile, "history file")
	if err := fs.Parse(args); err != nil {
		return cli.ExitUsage
	}

	a.logger.DebugMode = *debug
	r := repl.New(repl.Options{
		Prompt:      a.cfg.REPL.Prompt,
		HistoryFile: *history,
		MaxHistory:  a.cfg.REPL.MaxHistory,
		Color:       a.colorEnabled(os.Stdout),
		Debug:       *debug,
		Out:         a.stdout,
		Err:         a.stderr,
		Logger:      a.logger,
	})
	return cli.HandleError(a.stderr, r.Run())
}

func (a *app) runFile(filename string) int {
	content, err := os.ReadFile(filename)
	if err != nil {
		return cli.HandleError(a.stderr, fmt.Errorf("Non possum legere file '%s': %w", filename, err))
	}
	source := string(content)

	if f, ok := a.stdout.(*os.File); ok && term.IsTerminalFile(f) {
		repl.PrintMiniBanner(a.stdout, term.Colorizer{Enabled: a.colorEnabled(f)})
	}

	program, err := parser.ParseSource(source)
	if err == nil {
		_, err = interpreter.Run(program, nil, interpreter.NewWriterSink(a.stdout))
	}
	if err != nil {
		colors := term.Colorizer{Enabled: a.colorEnabled(os.Stderr)}
		fmt.Fprint(a.stderr, colors.Red(diagnostic.FormatWithSource(source, err)))
		return cli.ExitFailure
	}
	return cli.ExitOK
}

// check reports syntax problems without running anything. Files are checked
// concurrently; results are printed in argument order.
func (a *app) check(args []string) int {
	fs := flag.NewFlagSet("check", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	jsonOutput := fs.Bool("json", false, "print one diagnostics JSON object per file")
	jobs := fs.Int("jobs", runtime.NumCPU(), "maximum files checked at once")
	if err := fs.Parse(args); err != nil {
		return cli.ExitUsage
	}
	files := fs.Args()
	if err := cli.ValidateArgs(files, 1, -1, "numerus check [--json] <file.npp>..."); err != nil {
		return cli.HandleError(a.stderr, err)
	}

	reports := make([]diagnostic.Report, len(files))
	readFailed := make([]bool, len(files))

	sem := make(chan struct{}, max(1, *jobs))
	g, ctx := errgroup.WithContext(context.Background())
	for i, file := range files {
		i, file := i, file
		g.Go(func() error {
			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				return ctx.Err()
			}
			defer func() { <-sem }()

			content, err := os.ReadFile(file)
			if err != nil {
				reports[i] = diagnostic.Report{Diagnostics: []diagnostic.Diagnostic{diagnostic.FileError(err)}}
				readFailed[i] = true
			} else {
				reports[i] = diagnostic.Check(string(content))
			}
			if len(files) > 1 {
				reports[i].File = file
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return cli.HandleError(a.stderr, err)
	}

	code := cli.ExitOK
	for i, report := range reports {
		if readFailed[i] {
			code = cli.ExitFailure
		}
		if *jsonOutput {
			data, err := report.JSON()
			if err != nil {
				return cli.HandleError(a.stderr, err)
			}
			fmt.Fprintln(a.stdout, string(data))
			continue
		}

		if !report.HasErrors() {
			fmt.Fprintf(a.stdout, "%s: bene\n", files[i])
			continue
		}
		code = cli.ExitFailure
		for _, d := range report.Diagnostics {
			fmt.Fprintf(a.stdout, "%s:%d:%d: %s: %s\n", files[i], d.Line, d.Column, d.Severity, d.Message)
		}
	}
	return code
}

func (a *app) watch(args []string) int {
	fs := flag.NewFlagSet("watch", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	debounce := fs.Duration("debounce", a.cfg.Watch.Debounce.Std(), "quiet period before re-running")
	if err := fs.Parse(args); err != nil {
		return cli.ExitUsage
	}
	if err := cli.ValidateArgs(fs.Args(), 1, 1, "numerus watch <file.npp>"); err != nil {
		return cli.HandleError(a.stderr, err)
	}

	w, err := watch.New(fs.Arg(0), *debounce, func(path string) error {
		fmt.Fprintf(a.stdout, "--- %s ---\n", path)
		return watch.Execute(path, a.stdout, a.stderr)
	}, a.logger)
	if err != nil {
		return cli.HandleError(a.stderr, err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a.logger.Info("watching %s", w.Path())
	return cli.HandleError(a.stderr, w.Run(ctx))
}

func (a *app) serve(args []string) int {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	addr := fs.String("addr", a.cfg.Serve.Addr, "UDP listen address")
	cert := fs.String("cert", a.cfg.Serve.Cert, "TLS certificate (PEM); self-signed when empty")
	key := fs.String("key", a.cfg.Serve.Key, "TLS private key (PEM)")
	if err := fs.Parse(args); err != nil {
		return cli.ExitUsage
	}
	if err := cli.ValidateArgs(fs.Args(), 0, 0, "numerus serve [--addr host:port] [--cert file --key file]"); err != nil {
		return cli.HandleError(a.stderr, err)
	}

	host, _, err := net.SplitHostPort(*addr)
	if err != nil {
		cli.HandleError(a.stderr, err)
		return cli.ExitUsage
	}
	if host == "" {
		host = "localhost"
	}
	tlsCfg, err := server.TLSConfig(*cert, *key, host)
	if err != nil {
		return cli.HandleError(a.stderr, err)
	}

	srv := server.New(*addr, tlsCfg, server.NewHandler(a.logger))
	bound, err := srv.Start()
	if err != nil {
		return cli.HandleError(a.stderr, err)
	}
	fmt.Fprintf(a.stdout, "serving on https://%s (HTTP/3)\n", bound)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case <-ctx.Done():
		if err := srv.Stop(); err != nil && !stderrors.Is(err, net.ErrClosed) {
			a.logger.Warn("serve: %v", err)
		}
		return cli.ExitOK
	case <-srv.Done():
	}

	// The serve loop ended without a signal.
	err = srv.Stop()
	if err == nil {
		err = stderrors.New("serve: stopped unexpectedly")
	}
	return cli.HandleError(a.stderr, err)
}

func findCommand(name string) (cli.CommandInfo, bool) {
	for _, cmd := range commands {
		if cmd.Name == name {
			return cmd, true
		}
	}
	return cli.CommandInfo{}, false
}

var commands = []cli.CommandInfo{
	{
		Name:        "run",
		Usage:       "numerus run <file.npp>",
		Description: "Exsequi file Numerus++",
		Examples:    []string{"numerus run example.npp", "numerus example.npp"},
	},
	{
		Name:        "repl",
		Usage:       "numerus repl [--debug] [--history file]",
		Description: "Incipe REPL (modus interactivus)",
		Flags: []cli.FlagInfo{
			{Name: "debug", Usage: "log tokens and syntax trees"},
			{Name: "history", Usage: "history file", Default: "~/.numerus_history"},
		},
	},
	{
		Name:        "check",
		Usage:       "numerus check [--json] [--jobs n] <file.npp>...",
		Description: "Check syntax without running",
		Examples:    []string{"numerus check --json example.npp"},
		Flags: []cli.FlagInfo{
			{Name: "json", Usage: "print diagnostics as JSON"},
			{Name: "jobs", Usage: "maximum files checked at once", Default: "number of CPUs"},
		},
	},
	{
		Name:        "watch",
		Usage:       "numerus watch [--debounce d] <file.npp>",
		Description: "Re-run a file whenever it changes",
		Flags: []cli.FlagInfo{
			{Name: "debounce", Usage: "quiet period before re-running", Default: "100ms"},
		},
	},
	{
		Name:        "serve",
		Usage:       "numerus serve [--addr host:port] [--cert file --key file]",
		Description: "Serve /check and /run over HTTP/3",
		Flags: []cli.FlagInfo{
			{Name: "addr", Usage: "UDP listen address", Default: "127.0.0.1:4433"},
			{Name: "cert", Usage: "TLS certificate (PEM)"},
			{Name: "key", Usage: "TLS private key (PEM)"},
		},
	},
	{
		Name:        "version",
		Usage:       "numerus version [--json] [--check constraint]",
		Description: "Monstra versionem",
		Flags: []cli.FlagInfo{
			{Name: "json", Usage: "output as JSON"},
			{Name: "check", Usage: "require a semver constraint"},
		},
	},
}
