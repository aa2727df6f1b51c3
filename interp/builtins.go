package interp

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shibukawa/leafbuild/syntax"
)

var (
	// ErrBadArgument reports a builtin call with missing, duplicate or
	// wrongly typed arguments.
	ErrBadArgument = errors.New("invalid argument")
	// ErrNoProject reports a target declared before project().
	ErrNoProject = errors.New("no project declared")
	// ErrProjectRedeclared reports a second project() call.
	ErrProjectRedeclared = errors.New("project already declared")
	// ErrDuplicateTarget reports two targets sharing a name.
	ErrDuplicateTarget = errors.New("duplicate target")
	// ErrBuildError carries the message of an error() call.
	ErrBuildError = errors.New("build error")
)

// callContext carries one builtin invocation: the evaluated arguments plus
// the call span for diagnostics. Keyword order is preserved for output.
type callContext struct {
	in           *Interpreter
	name         string
	span         syntax.Span
	positional   []Value
	keyword      map[string]Value
	keywordOrder []string
}

type builtinFunc func(c *callContext) (Value, error)

var builtins = map[string]builtinFunc{
	"project":    builtinProject,
	"executable": builtinExecutable,
	"library":    builtinLibrary,
	"print":      builtinPrint,
	"message":    builtinPrint,
	"error":      builtinError,
}

// arg resolves an argument by keyword name first, positional index second.
func (c *callContext) arg(i int, name string) (Value, bool) {
	if v, ok := c.keyword[name]; ok {
		return v, true
	}
	if i >= 0 && i < len(c.positional) {
		return c.positional[i], true
	}
	return nil, false
}

// stringArg fetches a required string argument. The middle result is true
// when the argument is present but poisoned, in which case the builtin
// stays silent and returns poison itself.
func (c *callContext) stringArg(i int, name string) (string, bool, error) {
	v, ok := c.arg(i, name)
	if !ok {
		return "", false, fmt.Errorf("%w: %s requires `%s`", ErrBadArgument, c.name, name)
	}
	if v.Type() == ErrorType {
		return "", true, nil
	}
	s, ok := v.(Str)
	if !ok {
		return "", false, fmt.Errorf("%w: `%s` of %s must be a string, got %s", ErrBadArgument, name, c.name, v.Type())
	}
	return string(s), false, nil
}

func builtinProject(c *callContext) (Value, error) {
	if c.in.project != "" {
		return c.in.fail(c.span, ErrProjectRedeclared)
	}
	name, poisoned, err := c.stringArg(0, "name")
	if err != nil {
		return c.in.fail(c.span, err)
	}
	if poisoned {
		return errorValue{}, nil
	}
	if name == "" {
		return c.in.fail(c.span, fmt.Errorf("%w: project name is empty", ErrBadArgument))
	}
	// Positional arguments after the name list the project languages.
	if len(c.positional) > 1 {
		for _, v := range c.positional[1:] {
			switch lang := v.(type) {
			case Str:
				c.in.languages = append(c.in.languages, string(lang))
			case errorValue:
			default:
				return c.in.fail(c.span, fmt.Errorf("%w: language must be a string, got %s", ErrBadArgument, v.Type()))
			}
		}
	}
	c.in.project = name
	return Unit{}, nil
}

func builtinExecutable(c *callContext) (Value, error) {
	return declareTarget(c, ExecutableTarget)
}

func builtinLibrary(c *callContext) (Value, error) {
	return declareTarget(c, LibraryTarget)
}

func declareTarget(c *callContext, kind TargetKind) (Value, error) {
	if c.in.project == "" {
		return c.in.fail(c.span, fmt.Errorf("%w: call project() before %s()", ErrNoProject, c.name))
	}
	name, poisoned, err := c.stringArg(0, "name")
	if err != nil {
		return c.in.fail(c.span, err)
	}
	sources, sourcesPoisoned, err := c.sources()
	if err != nil {
		return c.in.fail(c.span, err)
	}
	if poisoned || sourcesPoisoned {
		return errorValue{}, nil
	}
	if name == "" {
		return c.in.fail(c.span, fmt.Errorf("%w: target name is empty", ErrBadArgument))
	}
	if c.in.targetNames[name] {
		return c.in.fail(c.span, fmt.Errorf("%w: %s", ErrDuplicateTarget, name))
	}
	if len(sources) == 0 {
		return c.in.fail(c.span, fmt.Errorf("%w: %s %q has no sources", ErrBadArgument, kind, name))
	}
	t := &Target{Name: name, Kind: kind, Sources: sources, Ordinal: len(c.in.targets)}
	c.in.targetNames[name] = true
	c.in.targets = append(c.in.targets, t)
	return t, nil
}

// sources collects source files from the `sources` keyword and from the
// positional arguments after the target name. Strings are taken as-is,
// arrays are flattened one level.
func (c *callContext) sources() ([]string, bool, error) {
	var items []Value
	if v, ok := c.keyword["sources"]; ok {
		items = append(items, v)
	}
	if len(c.positional) > 1 {
		items = append(items, c.positional[1:]...)
	}
	var out []string
	for _, v := range items {
		switch s := v.(type) {
		case Str:
			out = append(out, string(s))
		case *Array:
			for _, e := range s.Elems {
				switch es := e.(type) {
				case Str:
					out = append(out, string(es))
				case errorValue:
					return nil, true, nil
				default:
					return nil, false, fmt.Errorf("%w: source entries must be strings, got %s", ErrBadArgument, e.Type())
				}
			}
		case errorValue:
			return nil, true, nil
		default:
			return nil, false, fmt.Errorf("%w: sources must be strings or arrays of strings, got %s", ErrBadArgument, v.Type())
		}
	}
	return out, false, nil
}

// builtinPrint serves both print() and message(). Output goes to the
// configured writer with the `-- ` status prefix; keyword arguments render
// as `name: value` in call order. It returns 0, which scripts occasionally
// depend on.
func builtinPrint(c *callContext) (Value, error) {
	parts := make([]string, 0, len(c.positional)+len(c.keywordOrder))
	for _, v := range c.positional {
		parts = append(parts, v.String())
	}
	for _, name := range c.keywordOrder {
		parts = append(parts, name+": "+c.keyword[name].String())
	}
	fmt.Fprintf(c.in.opts.Stdout, "-- %s\n", strings.Join(parts, ", "))
	return Int(0), nil
}

// builtinError reports a user-raised build error and halts the run
// whatever the cascade setting says; that is the whole point of calling
// error().
func builtinError(c *callContext) (Value, error) {
	msg := "halted"
	if len(c.positional) > 0 {
		parts := make([]string, 0, len(c.positional))
		for _, v := range c.positional {
			parts = append(parts, v.String())
		}
		msg = strings.Join(parts, ", ")
	}
	c.in.diags = append(c.in.diags, syntax.Diagnostic{
		Message: fmt.Errorf("%w: %s", ErrBuildError, msg).Error(),
		Span:    c.span,
	})
	return errorValue{}, errHalt
}
