// Package ninja emits build.ninja files for the declared targets.
package ninja

import (
	"fmt"
	"io"
	"strings"
)

// Writer emits ninja syntax line by line. Write errors stick: after the
// first failure every call is a no-op and Err reports the cause, so call
// sites do not check each line.
type Writer struct {
	w   io.Writer
	err error
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Err returns the first write error, if any.
func (n *Writer) Err() error { return n.err }

func (n *Writer) printf(format string, args ...any) {
	if n.err != nil {
		return
	}
	_, n.err = fmt.Fprintf(n.w, format, args...)
}

func (n *Writer) Comment(text string) {
	n.printf("# %s\n", text)
}

func (n *Writer) Newline() {
	n.printf("\n")
}

// Variable emits a top-level `name = value` binding. Empty values are
// skipped; ninja treats unset and empty the same way.
func (n *Writer) Variable(name, value string) {
	if value == "" {
		return
	}
	n.printf("%s = %s\n", name, value)
}

// Rule describes a ninja rule. Depfile and Deps enable header dependency
// tracking for compilers that write .d files.
type Rule struct {
	Name        string
	Command     string
	Description string
	Depfile     string
	Deps        string
}

func (n *Writer) Rule(r Rule) {
	n.printf("rule %s\n", r.Name)
	n.printf("  command = %s\n", r.Command)
	if r.Description != "" {
		n.printf("  description = %s\n", r.Description)
	}
	if r.Depfile != "" {
		n.printf("  depfile = %s\n", r.Depfile)
	}
	if r.Deps != "" {
		n.printf("  deps = %s\n", r.Deps)
	}
}

// Build emits one build edge. Paths are escaped; rule names are not.
func (n *Writer) Build(outputs []string, rule string, inputs []string) {
	n.printf("build %s: %s", escapePaths(outputs), rule)
	if len(inputs) > 0 {
		n.printf(" %s", escapePaths(inputs))
	}
	n.printf("\n")
}

// Phony emits a phony edge, ninja's named alias mechanism.
func (n *Writer) Phony(name string, deps []string) {
	n.Build([]string{name}, "phony", deps)
}

func (n *Writer) Default(targets []string) {
	n.printf("default %s\n", escapePaths(targets))
}

// escapePath quotes the three characters ninja assigns meaning to in
// paths. `$` must go first so the escapes themselves survive.
func escapePath(p string) string {
	p = strings.ReplaceAll(p, "$", "$$")
	p = strings.ReplaceAll(p, " ", "$ ")
	p = strings.ReplaceAll(p, ":", "$:")
	return p
}

func escapePaths(paths []string) string {
	escaped := make([]string, len(paths))
	for i, p := range paths {
		escaped[i] = escapePath(p)
	}
	return strings.Join(escaped, " ")
}
