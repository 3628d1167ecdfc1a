// Package watch re-runs a Numerus script whenever its file changes.
package watch

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/numerus-lang/numerus/internal/cli"
	"github.com/numerus-lang/numerus/internal/diagnostic"
	"github.com/numerus-lang/numerus/internal/interpreter"
	"github.com/numerus-lang/numerus/internal/parser"
)

// DefaultDebounce is used when no debounce interval is configured.
const DefaultDebounce = 100 * time.Millisecond

// RunFunc executes the watched script once.
type RunFunc func(path string) error

// Watcher reports changes to a single file. The parent directory is watched
// so editors that save by rename are still seen.
type Watcher struct {
	path     string
	debounce time.Duration
	run      RunFunc
	logger   *cli.Logger

	fs *fsnotify.Watcher
}

// New creates a Watcher for path. A nil run executes the script to stdout.
func New(path string, debounce time.Duration, run RunFunc, logger *cli.Logger) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("watch: %w", err)
	}
	if _, err := os.Stat(abs); err != nil {
		return nil, fmt.Errorf("watch: %w", err)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if run == nil {
		run = func(p string) error { return Execute(p, os.Stdout, os.Stderr) }
	}
	if logger == nil {
		logger = cli.NewLogger(false, false)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: %w", err)
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watch: %w", err)
	}

	return &Watcher{path: abs, debounce: debounce, run: run, logger: logger, fs: fw}, nil
}

// Path returns the absolute path being watched.
func (w *Watcher) Path() string { return w.path }

// Run executes the script once, then again after every burst of changes,
// until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fs.Close()

	w.execute()

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if !w.relevant(ev) {
				continue
			}
			w.logger.Debug("%s %s", ev.Op, ev.Name)
			timer.Reset(w.debounce)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch: %v", err)
		case <-timer.C:
			w.execute()
		}
	}
}

func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if filepath.Clean(ev.Name) != w.path {
		return false
	}
	return ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0
}

func (w *Watcher) execute() {
	if _, err := os.Stat(w.path); err != nil {
		w.logger.Warn("%s: %v", w.path, err)
		return
	}
	w.logger.Info("running %s", w.path)
	if err := w.run(w.path); err != nil {
		w.logger.Debug("run failed: %v", err)
	}
}

// Execute runs the script at path with a fresh Environment, printing its
// output to out and any error with source context to errOut.
func Execute(path string, out, errOut io.Writer) error {
	content, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(errOut, "ERRATUM: Non possum legere file '%s': %v\n", path, err)
		return err
	}
	src := string(content)

	program, err := parser.ParseSource(src)
	if err == nil {
		_, err = interpreter.Run(program, nil, interpreter.NewWriterSink(out))
	}
	if err != nil {
		fmt.Fprint(errOut, diagnostic.FormatWithSource(src, err))
		return err
	}
	return nil
}
