package main

import (
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/peterh/liner"

	"github.com/searles/fractview"
	"github.com/searles/fractview/compiler"
	"github.com/searles/fractview/expr"
	"github.com/searles/fractview/formula"
	"github.com/searles/fractview/internal/cache"
	"github.com/searles/fractview/orbit"
	"github.com/searles/fractview/parser"
)

const (
	historyFile = ".fractview_history"
	prompt      = "f> "
)

const replHelp = `Enter a formula to print its canonical form.
  :d <formula>      derivative with respect to z
  :asm <formula>    compiled instruction stream
  :set <name> <v>   set a parameter value
  :eval <c>         classify the orbit of c under the last formula
  :help             this text
  :quit             leave`

// session is the state of the REPL between lines.
type session struct {
	parser *parser.Parser
	names  *expr.Predefined
	last   string
	params map[string]string

	// generators caches compiled formulas by source and parameters.
	generators *cache.LRU[string, *orbit.Generator]
}

func newSession() *session {
	names := expr.DefaultNames()
	return &session{
		parser: parser.New(parser.Config{Names: names}),
		names:  names,
		params: make(map[string]string),

		generators: cache.New[string, *orbit.Generator](32),
	}
}

// exec runs one input line. It reports false when the session ends.
func (s *session) exec(line string, out io.Writer) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return true
	}
	if !strings.HasPrefix(line, ":") {
		if e, ok := s.parse(line, out); ok {
			s.last = line
			fmt.Fprintln(out, s.names.Format(e))
		}
		return true
	}

	cmd, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)
	switch strings.ToLower(cmd) {
	case ":quit", ":q":
		return false
	case ":help":
		fmt.Fprintln(out, replHelp)
	case ":d":
		e, ok := s.parse(arg, out)
		if !ok {
			break
		}
		d, ok := expr.Derive(e, s.names.Iterate)
		if !ok {
			fmt.Fprintln(out, "no derivative")
			break
		}
		fmt.Fprintln(out, s.names.Format(d))
	case ":asm":
		e, ok := s.parse(arg, out)
		if !ok {
			break
		}
		pools := compiler.NewPools()
		x := compiler.New(pools, compiler.Options{Names: s.names}).Compile(e)
		fmt.Fprint(out, x)
	case ":set":
		name, value, ok := strings.Cut(arg, " ")
		if !ok || strings.TrimSpace(value) == "" {
			fmt.Fprintln(out, "usage: :set <name> <value>")
			break
		}
		if _, err := s.parser.ParseValue(value); err != nil {
			fmt.Fprintln(out, err)
			break
		}
		s.params[expr.Fold(name)] = strings.TrimSpace(value)
	case ":eval":
		s.eval(arg, out)
	default:
		fmt.Fprintf(out, "unknown command %s, type :help\n", cmd)
	}
	return true
}

func (s *session) parse(src string, out io.Writer) (expr.Expr, bool) {
	e, diags := s.parser.Parse(src)
	if len(diags) == 0 {
		return e, true
	}
	for _, d := range diags {
		fmt.Fprintln(out, d.Caret(src))
	}
	return nil, false
}

// eval iterates the last formula, starting every history slot at 0.
func (s *session) eval(arg string, out io.Writer) {
	if s.last == "" {
		fmt.Fprintln(out, "no formula yet")
		return
	}
	c, err := s.parser.ParseValue(arg)
	if err != nil {
		fmt.Fprintln(out, err)
		return
	}
	fn, _ := s.parser.Parse(s.last)

	f := fractview.DefaultFractal()
	f.Function = s.last
	f.Init = slices.Repeat([]string{"0"}, formula.MaxLag(fn, s.names))
	f.Params = s.usedParams(fn)

	gen, err := s.generators.GetOrCreate(generatorKey(f), func() (*orbit.Generator, error) {
		spec, err := f.Specification(s.names)
		if err != nil {
			return nil, err
		}
		bailout, lake, err := f.Valuers()
		if err != nil {
			return nil, err
		}
		return orbit.NewGenerator(spec.Compile(compiler.Options{}), f.Limits(), bailout, lake)
	})
	if err != nil {
		fmt.Fprintln(out, err)
		return
	}
	o := orbit.New(f.MaxIterations)
	gen.Run(c, o)
	fmt.Fprintf(out, "%v after %d values, last %v, value %.6g\n", o.Kind, o.Len(), o.Last(), o.Value)
}

func generatorKey(f *fractview.Fractal) string {
	var sb strings.Builder
	sb.WriteString(f.Function)
	names := slices.Sorted(maps.Keys(f.Params))
	for _, name := range names {
		sb.WriteString("\x00" + name + "=" + f.Params[name])
	}
	return sb.String()
}

// usedParams returns the set parameters that occur in e, so that values
// left over from earlier formulas do not fail validation.
func (s *session) usedParams(e expr.Expr) map[string]string {
	used := make(map[string]string)
	for name, v := range s.params {
		if expr.DependsOn(e, name) {
			used[name] = v
		}
	}
	return used
}

func cmdRepl(_ []string) int {
	fmt.Println("fractview formula shell, :help for commands")

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	s := newSession()
	for {
		line, err := ln.Prompt(prompt)
		if errors.Is(err, liner.ErrPromptAborted) {
			continue
		}
		if err != nil {
			fmt.Println()
			return 0
		}
		if strings.TrimSpace(line) != "" {
			ln.AppendHistory(line)
		}
		if !s.exec(line, os.Stdout) {
			return 0
		}
	}
}
