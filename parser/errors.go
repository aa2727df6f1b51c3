package parser

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shibukawa/leafbuild/syntax"
)

// Parsing functions communicate failure through error values; the statement
// loop is the only place that turns them into diagnostics. End of input
// stops the loop cleanly, incomplete records one diagnostic and resumes at
// the next statement, and every other category records and halts.
var (
	errEOF        = errors.New("end of input")
	errIncomplete = errors.New("incomplete")
)

// mapIncomplete upgrades end-of-input to incomplete. It is applied at call
// sites that sit mid-construct, where running out of tokens means a
// construct was started but never finished.
func mapIncomplete(err error) error {
	if errors.Is(err, errEOF) {
		return errIncomplete
	}
	return err
}

// unexpectedTokenError reports a token that cannot appear where it did.
type unexpectedTokenError struct {
	kind syntax.Kind
	span syntax.Span
}

func (e *unexpectedTokenError) Error() string {
	return fmt.Sprintf("unexpected `%s`", e.kind.TokenName())
}

// expectedTokenError reports a mismatch against one required token.
type expectedTokenError struct {
	want  syntax.Kind
	found syntax.Kind
	span  syntax.Span
}

func (e *expectedTokenError) Error() string {
	return fmt.Sprintf("expected token %s, found token %s", e.want.TokenName(), e.found.TokenName())
}

// expectedOneOfError reports a token matching none of an allowed set.
type expectedOneOfError struct {
	wants []syntax.Kind
	span  syntax.Span
}

func (e *expectedOneOfError) Error() string {
	names := make([]string, len(e.wants))
	for i, k := range e.wants {
		names[i] = k.TokenName()
	}
	return fmt.Sprintf("expected one of {%s}", strings.Join(names, ", "))
}

// syntaxError is the generic category: a bespoke message with a span.
type syntaxError struct {
	msg  string
	span syntax.Span
}

func (e *syntaxError) Error() string {
	return e.msg
}

// errorSpan extracts the span a halting error category carries.
func errorSpan(err error) syntax.Span {
	switch e := err.(type) {
	case *unexpectedTokenError:
		return e.span
	case *expectedTokenError:
		return e.span
	case *expectedOneOfError:
		return e.span
	case *syntaxError:
		return e.span
	}
	return syntax.Span{}
}
