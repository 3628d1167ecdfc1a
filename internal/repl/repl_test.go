package repl

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/peterh/liner"

	"github.com/numerus-lang/numerus/internal/interpreter"
)

func newTestREPL(t *testing.T) (*REPL, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	var out, errOut bytes.Buffer
	r := New(Options{
		HistoryFile: filepath.Join(t.TempDir(), "history"),
		MaxHistory:  5,
		Out:         &out,
		Err:         &errOut,
	})
	return r, &out, &errOut
}

func TestSessionPersistsVariables(t *testing.T) {
	r, out, errOut := newTestREPL(t)

	lines := []string{
		"DECLARA X EST XV",
		"X EST X ADDIUS 5",
		"SCRIBE(X)",
		`SCRIBE("Summa: " ADDIUS X)`,
	}
	for _, line := range lines {
		if r.Handle(line) {
			t.Fatalf("Handle(%q) ended the session", line)
		}
	}

	expected := "XX\nSumma: XX\n"
	if out.String() != expected {
		t.Errorf("output wrong. expected=%q, got=%q", expected, out.String())
	}
	if errOut.Len() != 0 {
		t.Errorf("unexpected error output: %q", errOut.String())
	}
}

func TestErrorsDoNotEndSession(t *testing.T) {
	tests := []struct {
		input    string
		contains string
	}{
		{"SCRIBE(Y)", "Variable 'Y' non declarata est!"},
		{"SCRIBE(X DIVIDE (X SUBTRAHE X))", "Divisio per nihilum"},
		{`SCRIBE("abc`, "linea 1"},
		{"DECLARA EST 5", "ERRATUM SYNTAXIS"},
	}

	for i, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			r, _, errOut := newTestREPL(t)
			r.Handle("DECLARA X EST 5")
			if r.Handle(tt.input) {
				t.Fatalf("tests[%d] - session ended on error", i)
			}
			if !strings.Contains(errOut.String(), tt.contains) {
				t.Errorf("tests[%d] - error output wrong. expected to contain %q, got=%q",
					i, tt.contains, errOut.String())
			}
		})
	}
}

func TestFailingStatementDoesNotStopLine(t *testing.T) {
	r, out, errOut := newTestREPL(t)

	r.Handle("SCRIBE(1) SCRIBE(Y) SCRIBE(II)")

	if out.String() != "I\nII\n" {
		t.Errorf("output wrong. expected=%q, got=%q", "I\nII\n", out.String())
	}
	if !strings.Contains(errOut.String(), "'Y'") {
		t.Errorf("expected undefined variable error, got=%q", errOut.String())
	}
}

func TestExitCommands(t *testing.T) {
	tests := []struct {
		input string
		exit  bool
	}{
		{"EXITUS", true},
		{"exitus", true},
		{":quit", true},
		{":q", true},
		{"AUXILIUM", false},
		{"auxilium", false},
		{":help", false},
		{":nonsense", false},
	}

	for i, tt := range tests {
		r, _, _ := newTestREPL(t)
		if got := r.Handle(tt.input); got != tt.exit {
			t.Errorf("tests[%d] - Handle(%q) wrong. expected=%v, got=%v", i, tt.input, tt.exit, got)
		}
	}
}

func TestFarewellAndHelp(t *testing.T) {
	r, out, _ := newTestREPL(t)

	r.Handle("AUXILIUM")
	if !strings.Contains(out.String(), "ROMANIZA") {
		t.Errorf("help does not mention ROMANIZA: %q", out.String())
	}

	out.Reset()
	r.Handle("EXITUS")
	if !strings.Contains(out.String(), "VALE!") {
		t.Errorf("farewell missing: %q", out.String())
	}
}

func TestVarsAndReset(t *testing.T) {
	r, out, _ := newTestREPL(t)

	r.Handle(":vars")
	if !strings.Contains(out.String(), "Nullae variabiles.") {
		t.Errorf("empty vars wrong. got=%q", out.String())
	}

	r.Handle("DECLARA B EST II")
	r.Handle(`DECLARA A EST "salve"`)
	r.Handle("DECLARA Q EST 1 SUBTRAHE 5")
	out.Reset()
	r.Handle(":vars")

	expected := "  A = \"salve\"\n  B = II (2)\n  Q = -4\n"
	if out.String() != expected {
		t.Errorf("vars wrong. expected=%q, got=%q", expected, out.String())
	}

	r.Handle(":reset")
	if r.Interpreter().Environment().Len() != 0 {
		t.Errorf("reset kept %d variables", r.Interpreter().Environment().Len())
	}
}

func TestIncomplete(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"SCRIBE(", false},
		{"SCRIBE((I ADDIUS II)", true},
		{"DECLARA X EST (V MULTIPLICA", false},
		{"DECLARA X EST (V MULTIPLICA II", true},
		{"SCRIBE(X)", false},
		{"SCRIBE(X))", false},
	}

	for i, tt := range tests {
		if got := Incomplete(tt.input); got != tt.expected {
			t.Errorf("tests[%d] - Incomplete(%q) wrong. expected=%v, got=%v", i, tt.input, tt.expected, got)
		}
	}
}

func TestHistory(t *testing.T) {
	r, out, _ := newTestREPL(t)

	for _, line := range []string{"SCRIBE(1)", "SCRIBE(II)", "SCRIBE(III)", "SCRIBE(IV)", "SCRIBE(5)", "SCRIBE(VI)"} {
		r.Handle(line)
	}

	history := r.History()
	if len(history) != 5 {
		t.Fatalf("history length wrong. expected=5, got=%d", len(history))
	}
	if history[0] != "SCRIBE(II)" {
		t.Errorf("oldest entry wrong. expected=%q, got=%q", "SCRIBE(II)", history[0])
	}

	out.Reset()
	r.Handle(":history")
	if !strings.HasPrefix(out.String(), "  1: SCRIBE(II)\n") {
		t.Errorf(":history output wrong. got=%q", out.String())
	}
}

func TestHistoryFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history")
	entries := []string{"DECLARA X EST XV", "SCRIBE(X)", ":vars"}

	saved := &liner.State{}
	for _, entry := range entries {
		saved.AppendHistory(entry)
	}
	if err := saveHistory(saved, path); err != nil {
		t.Fatalf("saveHistory: %v", err)
	}

	loaded := &liner.State{}
	if err := loadHistory(loaded, path); err != nil {
		t.Fatalf("loadHistory: %v", err)
	}
	var buf bytes.Buffer
	if _, err := loaded.WriteHistory(&buf); err != nil {
		t.Fatal(err)
	}
	expected := strings.Join(entries, "\n") + "\n"
	if buf.String() != expected {
		t.Errorf("reloaded history wrong. expected=%q, got=%q", expected, buf.String())
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("history file mode wrong. expected=0600, got=%o", perm)
	}
}

func TestHistoryFileMissing(t *testing.T) {
	tests := []string{
		"",
		filepath.Join(t.TempDir(), "absens"),
	}

	for i, path := range tests {
		h := &liner.State{}
		if err := loadHistory(h, path); err != nil {
			t.Errorf("tests[%d] - loadHistory(%q) wrong. expected=nil, got=%v", i, path, err)
		}
		if err := saveHistory(h, ""); err != nil {
			t.Errorf("tests[%d] - saveHistory with no file wrong. expected=nil, got=%v", i, err)
		}
	}

	if err := saveHistory(&liner.State{}, filepath.Join(t.TempDir(), "no", "such", "dir")); err == nil {
		t.Error("saveHistory into a missing directory should fail")
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "load.npp")
	if err := os.WriteFile(script, []byte("DECLARA X EST 10\nSCRIBE(X MULTIPLICA II)\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	r, out, errOut := newTestREPL(t)
	r.Handle(":load " + script)
	r.Handle("SCRIBE(X)")

	if out.String() != "XX\nX\n" {
		t.Errorf("output wrong. expected=%q, got=%q", "XX\nX\n", out.String())
	}
	if errOut.Len() != 0 {
		t.Errorf("unexpected errors: %q", errOut.String())
	}

	r.Handle(":load " + filepath.Join(dir, "missing.npp"))
	if !strings.Contains(errOut.String(), "Non possum legere") {
		t.Errorf("missing file error wrong. got=%q", errOut.String())
	}
}

func TestSaveSession(t *testing.T) {
	r, _, _ := newTestREPL(t)
	r.Handle("DECLARA X EST 5")
	r.Handle("SCRIBE(X)")

	path := filepath.Join(t.TempDir(), "session.npp")
	r.Handle(":save " + path)

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(content) != "DECLARA X EST 5\nSCRIBE(X)\n" {
		t.Errorf("saved session wrong. got=%q", string(content))
	}
}

func TestSaveThenLoadRestoresVariables(t *testing.T) {
	path := filepath.Join(t.TempDir(), "f.npp")

	r, _, errOut := newTestREPL(t)
	for _, line := range []string{
		"DECLARA A EST XV",
		":vars",
		"AUXILIUM",
		"SCRIBE(Z)",
		"DECLARA B EST 2 SCRIBE(Q) DECLARA C EST A ADDIUS B",
		"DECLARA @",
		":history",
		":save " + path,
	} {
		r.Handle(line)
	}
	if !strings.Contains(errOut.String(), "Variable 'Z' non declarata est!") {
		t.Fatalf("expected runtime error for Z. got=%q", errOut.String())
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	expected := "DECLARA A EST XV\nDECLARA B EST 2\nDECLARA C EST A ADDIUS B\n"
	if string(content) != expected {
		t.Errorf("saved session wrong. expected=%q, got=%q", expected, string(content))
	}

	fresh, _, freshErr := newTestREPL(t)
	fresh.Handle(":load " + path)
	if freshErr.Len() != 0 {
		t.Fatalf("loading a saved session failed: %q", freshErr.String())
	}

	env := fresh.Interpreter().Environment()
	tests := []struct {
		name     string
		expected interpreter.Number
	}{
		{"A", 15},
		{"B", 2},
		{"C", 17},
	}
	for i, tt := range tests {
		got, err := env.Get(tt.name)
		if err != nil {
			t.Errorf("tests[%d] - %s not restored: %v", i, tt.name, err)
			continue
		}
		if got != tt.expected {
			t.Errorf("tests[%d] - %s wrong. expected=%v, got=%v", i, tt.name, tt.expected, got)
		}
	}

	if got := fresh.Session(); len(got) != 3 {
		t.Errorf("loaded statements not kept for :save. got=%v", got)
	}
}

func TestResetClearsSession(t *testing.T) {
	r, _, _ := newTestREPL(t)
	r.Handle("DECLARA X EST 5")
	r.Handle(":reset")
	r.Handle("DECLARA Y EST 6")

	got := r.Session()
	if len(got) != 1 || got[0] != "DECLARA Y EST 6" {
		t.Errorf("session after :reset wrong. got=%v", got)
	}
}

func TestDebugLogsTokens(t *testing.T) {
	var out, errOut bytes.Buffer
	r := New(Options{Out: &out, Err: &errOut})

	r.Handle(":debug on")
	r.Handle("SCRIBE(5)")

	if !strings.Contains(errOut.String(), "[DEBUG]") || !strings.Contains(errOut.String(), "AST:") {
		t.Errorf("debug output missing. got=%q", errOut.String())
	}

	errOut.Reset()
	r.Handle(":debug off")
	r.Handle("SCRIBE(5)")
	if strings.Contains(errOut.String(), "[DEBUG]") {
		t.Errorf("debug output after :debug off: %q", errOut.String())
	}
}
