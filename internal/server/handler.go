// Package server exposes checking and running of Numerus source over HTTP/3
// for editor tooling.
package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/numerus-lang/numerus/internal/cli"
	"github.com/numerus-lang/numerus/internal/diagnostic"
	"github.com/numerus-lang/numerus/internal/interpreter"
	"github.com/numerus-lang/numerus/internal/parser"
)

// MaxSourceSize bounds request bodies.
const MaxSourceSize = 1 << 20

// RunResponse is the body returned by POST /run.
type RunResponse struct {
	Output      []string                `json:"output"`
	Diagnostics []diagnostic.Diagnostic `json:"diagnostics"`
}

// NewHandler returns the routes served by `numerus serve`.
func NewHandler(logger *cli.Logger) http.Handler {
	if logger == nil {
		logger = cli.NewLogger(false, false)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/check", handleCheck)
	mux.HandleFunc("/run", handleRun)
	mux.HandleFunc("/version", handleVersion)

	return logRequests(logger, mux)
}

func handleCheck(w http.ResponseWriter, r *http.Request) {
	source, ok := readSource(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, diagnostic.Check(source))
}

func handleRun(w http.ResponseWriter, r *http.Request) {
	source, ok := readSource(w, r)
	if !ok {
		return
	}

	resp := RunResponse{Output: []string{}, Diagnostics: []diagnostic.Diagnostic{}}
	program, err := parser.ParseSource(source)
	if err == nil {
		var lines []string
		lines, err = interpreter.Run(program, nil, nil)
		resp.Output = append(resp.Output, lines...)
	}
	if err != nil {
		resp.Diagnostics = append(resp.Diagnostics, diagnostic.FromError(err, source))
	}
	writeJSON(w, http.StatusOK, resp)
}

func handleVersion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, cli.GetVersionInfo())
}

func readSource(w http.ResponseWriter, r *http.Request) (string, bool) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return "", false
	}
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxSourceSize))
	if err != nil {
		http.Error(w, fmt.Sprintf("read body: %v", err), http.StatusRequestEntityTooLarge)
		return "", false
	}
	return string(body), true
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func logRequests(logger *cli.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logger.Info("%s %s %s %d %s", r.Proto, r.Method, r.URL.Path, rec.status, time.Since(start).Round(time.Microsecond))
	})
}
