package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func run(t *testing.T, s *session, line string) string {
	t.Helper()
	var out strings.Builder
	if !s.exec(line, &out) {
		t.Fatalf("exec(%q) ended the session", line)
	}
	return out.String()
}

func TestSession_Commands(t *testing.T) {
	tests := []struct {
		line string
		want string
	}{
		{"z*z + c", "c + sqr(z)\n"},
		{"zr", "re(z)\n"},
		{":d z^3 + c", "3 * sqr(z)\n"},
		{":d abs z", "no derivative\n"},
		{":help", ":asm"},
		{":frobnicate", "unknown command"},
		{"(z + ", "^"},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got := run(t, newSession(), tt.line)
			if !strings.Contains(got, tt.want) {
				t.Errorf("exec(%q) = %q, want it to contain %q", tt.line, got, tt.want)
			}
		})
	}
}

func TestSession_Asm(t *testing.T) {
	got := run(t, newSession(), ":asm z^2 + c")
	lines := strings.Split(strings.TrimSpace(got), "\n")
	want := []string{"load z", "sqr", "add swap c"}
	if len(lines) != len(want) {
		t.Fatalf(":asm output =\n%s\nwant %d instructions", got, len(want))
	}
	for i, w := range want {
		if !strings.HasSuffix(lines[i], w) {
			t.Errorf("instruction %d = %q, want %q", i, lines[i], w)
		}
	}
}

func TestSession_Eval(t *testing.T) {
	s := newSession()
	if got := run(t, s, ":eval 0"); !strings.Contains(got, "no formula") {
		t.Errorf(":eval without formula = %q", got)
	}
	run(t, s, "z^2 + c")
	if got := run(t, s, ":eval 2"); !strings.HasPrefix(got, "bailout") {
		t.Errorf(":eval 2 = %q, want bailout", got)
	}
	if got := run(t, s, ":eval -0.6,0.1"); !strings.HasPrefix(got, "lake") {
		t.Errorf(":eval -0.6,0.1 = %q, want lake", got)
	}
}

func TestSession_EvalParams(t *testing.T) {
	s := newSession()
	run(t, s, "z^2 + c + k")
	if got := run(t, s, ":eval 0"); !strings.Contains(got, "parameter") {
		t.Errorf(":eval with unset k = %q, want a parameter error", got)
	}
	if got := run(t, s, ":set K 3"); got != "" {
		t.Fatalf(":set = %q", got)
	}
	if got := run(t, s, ":eval 0"); !strings.HasPrefix(got, "bailout") {
		t.Errorf(":eval 0 with k = 3 = %q, want bailout", got)
	}
	if got := run(t, s, ":set k c"); !strings.Contains(got, "not a constant") {
		t.Errorf(":set k c = %q, want an error", got)
	}

	// Values of parameters the formula does not use are ignored.
	run(t, s, "z^2 + c")
	if got := run(t, s, ":eval 0"); !strings.HasPrefix(got, "lake") {
		t.Errorf(":eval 0 = %q, want lake", got)
	}
}

func TestSession_EvalCachesPrograms(t *testing.T) {
	s := newSession()
	run(t, s, "z^2 + k c")
	run(t, s, ":set k 1")
	run(t, s, ":eval 0.1")
	run(t, s, ":eval 0.2")
	if n := s.generators.Len(); n != 1 {
		t.Errorf("%d cached programs after two evaluations, want 1", n)
	}
	run(t, s, ":set k 2")
	run(t, s, ":eval 0.1")
	if n := s.generators.Len(); n != 2 {
		t.Errorf("%d cached programs after a parameter change, want 2", n)
	}
}

func TestSession_Quit(t *testing.T) {
	var out strings.Builder
	if newSession().exec(":quit", &out) {
		t.Error(":quit did not end the session")
	}
}

// =============================================================================
// Render Command Tests
// =============================================================================

func TestLoadFractal_Overrides(t *testing.T) {
	f, err := loadFractal("", "z^2 + p", nil, []string{"p=0.25,0.5"})
	if err != nil {
		t.Fatal(err)
	}
	if f.Function != "z^2 + p" || f.Params["p"] != "0.25,0.5" || len(f.Init) != 1 {
		t.Errorf("fractal = %+v", f)
	}
	if _, err := loadFractal("", "", nil, []string{"p"}); err == nil {
		t.Error("parameter without '=' accepted")
	}
}

func TestCmdRender(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.png", "a.bmp", "a.tiff"} {
		out := filepath.Join(dir, name)
		code := cmdRender([]string{"-w", "24", "-h", "16", "-supersample", "2", "-o", out})
		if code != 0 {
			t.Fatalf("%s: exit code %d", name, code)
		}
		if st, err := os.Stat(out); err != nil || st.Size() == 0 {
			t.Errorf("%s: not written (%v)", name, err)
		}
	}

	if code := cmdRender([]string{"-w", "8", "-h", "8", "-o", filepath.Join(dir, "a.gif")}); code == 0 {
		t.Error("unknown format accepted")
	}
	if code := cmdRender([]string{"-formula", "z^2 +", "-o", filepath.Join(dir, "b.png")}); code == 0 {
		t.Error("bad formula accepted")
	}
}
