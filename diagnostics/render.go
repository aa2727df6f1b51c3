package diagnostics

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/fatih/color"

	"github.com/shibukawa/leafbuild/syntax"
)

// Severity classifies a diagnostic for rendering.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
)

func (s Severity) String() string {
	if s == SeverityWarning {
		return "warning"
	}
	return "error"
}

var (
	errorLabelFmt = color.New(color.FgRed, color.Bold).SprintFunc()
	warnLabelFmt  = color.New(color.FgYellow, color.Bold).SprintFunc()
	gutterFmt     = color.New(color.FgBlue, color.Bold).SprintFunc()
	markerFmt     = color.New(color.FgRed, color.Bold).SprintFunc()
)

func severityLabel(s Severity) string {
	if s == SeverityWarning {
		return warnLabelFmt("warning")
	}
	return errorLabelFmt("error")
}

// Renderer writes diagnostics as code frames:
//
//	error: unexpected `]`
//	  --> build.leaf:2:5
//	   |
//	 2 | x = ]
//	   |     ^
//
// Spans crossing lines are marked on their first line; zero-width spans
// get a single caret.
type Renderer struct {
	out io.Writer
}

func NewRenderer(out io.Writer) *Renderer {
	return &Renderer{out: out}
}

// Render writes one code frame.
func (r *Renderer) Render(file *SourceFile, sev Severity, d syntax.Diagnostic) {
	pos := file.PositionFor(d.Span.Start)
	fmt.Fprintf(r.out, "%s: %s\n", severityLabel(sev), d.Message)
	fmt.Fprintf(r.out, "  --> %s:%s\n", file.Name, pos)

	lineText := file.Line(pos.Line)
	width := len(strconv.Itoa(pos.Line)) + 1
	bar := fmt.Sprintf("%*s |", width, "")
	fmt.Fprintln(r.out, gutterFmt(bar))
	fmt.Fprintf(r.out, "%s %s\n", gutterFmt(fmt.Sprintf("%*d |", width, pos.Line)), lineText)

	end := d.Span.End
	if lineEnd := file.lineEnd(pos.Line); end > lineEnd {
		end = lineEnd
	}
	carets := 1
	if end > d.Span.Start {
		carets = utf8.RuneCountInString(file.Content[d.Span.Start:end])
	}
	marker := strings.Repeat(" ", pos.Column-1) + strings.Repeat("^", carets)
	fmt.Fprintf(r.out, "%s %s\n", gutterFmt(bar), markerFmt(marker))
}

// RenderAll writes every diagnostic separated by blank lines and returns
// the count.
func (r *Renderer) RenderAll(file *SourceFile, sev Severity, diags []syntax.Diagnostic) int {
	for i, d := range diags {
		if i > 0 {
			fmt.Fprintln(r.out)
		}
		r.Render(file, sev, d)
	}
	return len(diags)
}
