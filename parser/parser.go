// Package parser turns build-language source into a lossless syntax tree.
//
// The pipeline has two phases. The lexer first runs to completion, producing
// the raw token vector; a meaningful index (the raw positions of every token
// that is neither trivia nor newline) is derived from it. A single
// recursive-descent pass then walks the meaningful index while the raw
// vector feeds the tree builder, so every byte of the input ends up in the
// tree regardless of how parsing goes.
package parser

import (
	"errors"

	"github.com/shibukawa/leafbuild/syntax"
	"github.com/shibukawa/leafbuild/tokenizer"
)

// meaningfulToken pairs a grammar-relevant token's kind with its index into
// the raw vector.
type meaningfulToken struct {
	kind syntax.Kind
	raw  int
}

type parser struct {
	tokens     []syntax.Token
	meaningful []meaningfulToken
	index      int // raw cursor: the next raw token to emit
	mi         int // meaningful cursor
	builder    syntax.Builder
	end        int // byte length of the source
}

// Parse scans and parses source, returning the tree and all diagnostics:
// lexical complaints first in scan order, then parse complaints. A tree is
// always returned, whatever the diagnostics say, and concatenating its leaf
// text reproduces source exactly. Each call uses a fresh parser; the same
// source always yields the same tree and diagnostics.
func Parse(source string) (*syntax.Node, []syntax.Diagnostic) {
	var diags []syntax.Diagnostic

	var tokens []syntax.Token
	for tok, err := range tokenizer.New(source).Tokens() {
		if err != nil {
			diags = append(diags, syntax.Diagnostic{Message: err.Error(), Span: tok.Span})
		}
		tokens = append(tokens, tok)
	}

	var meaningful []meaningfulToken
	for i, tok := range tokens {
		if tok.Kind.IsMeaningful() {
			meaningful = append(meaningful, meaningfulToken{kind: tok.Kind, raw: i})
		}
	}

	p := &parser{tokens: tokens, meaningful: meaningful, end: len(source)}
	return p.parse(&diags), diags
}

// parse runs the statement loop under the root node, applying the recovery
// policy, then flushes whatever raw tokens remain so the tree stays
// lossless even after a halt.
func (p *parser) parse(diags *[]syntax.Diagnostic) *syntax.Node {
	p.builder.StartNode(syntax.ROOT)

	for {
		err := parseStatement(p)
		if err == nil {
			continue
		}
		if errors.Is(err, errEOF) {
			break
		}
		if errors.Is(err, errIncomplete) {
			*diags = append(*diags, syntax.Diagnostic{
				Message: "incomplete",
				Span:    syntax.Span{Start: p.end, End: p.end},
			})
			continue
		}
		*diags = append(*diags, syntax.Diagnostic{Message: err.Error(), Span: errorSpan(err)})
		break
	}

	p.bumpRawTo(len(p.tokens))
	p.builder.FinishNode()
	return p.builder.Finish()
}

// current returns the kind of the current meaningful token, or EOF.
func (p *parser) current() syntax.Kind {
	if p.mi >= len(p.meaningful) {
		return syntax.EOF
	}
	return p.meaningful[p.mi].kind
}

// currentSpan returns the span of the current meaningful token, or a
// zero-width span at end of input.
func (p *parser) currentSpan() syntax.Span {
	if p.mi >= len(p.meaningful) {
		return syntax.Span{Start: p.end, End: p.end}
	}
	return p.tokens[p.meaningful[p.mi].raw].Span
}

// bump advances past the current meaningful token, emitting every raw token
// from the raw cursor up to the next meaningful token: the token itself
// plus surrounding trivia and newlines. When nothing meaningful follows,
// only the cursor moves; the driver's final flush picks up the leftovers.
func (p *parser) bump() {
	p.mi++
	if p.mi < len(p.meaningful) {
		p.bumpRawTo(p.meaningful[p.mi].raw)
	}
}

// bumpLast is the trailing variant: it emits raw tokens through the current
// meaningful token itself and nothing after, so a production's final token
// does not drag the following trivia into its node.
func (p *parser) bumpLast() {
	if p.mi < len(p.meaningful) {
		p.bumpRawTo(p.meaningful[p.mi].raw + 1)
	}
	p.mi++
}

// bumpIf consumes the current meaningful token only when it matches.
func (p *parser) bumpIf(kind syntax.Kind) bool {
	if p.current() == kind {
		p.bump()
		return true
	}
	return false
}

// bumpRawTo emits raw tokens up to, not including, the given raw index.
func (p *parser) bumpRawTo(rawIndex int) {
	for ; p.index < rawIndex; p.index++ {
		p.builder.Token(p.tokens[p.index])
	}
}

// bumpRaw emits exactly one raw token. If it happens to be the current
// meaningful token, the meaningful cursor moves with it.
func (p *parser) bumpRaw() {
	if p.index >= len(p.tokens) {
		return
	}
	if p.mi < len(p.meaningful) && p.index == p.meaningful[p.mi].raw {
		p.mi++
	}
	p.builder.Token(p.tokens[p.index])
	p.index++
}

// currentRaw returns the kind of the raw token at the cursor, or EOF.
func (p *parser) currentRaw() syntax.Kind {
	if p.index >= len(p.tokens) {
		return syntax.EOF
	}
	return p.tokens[p.index].Kind
}

// nextNontrivia returns the kind of the next raw token, skipping trivia
// only: newlines are visible to it. Nothing is consumed. This is how the
// postfix chain and bare return/break see statement boundaries.
func (p *parser) nextNontrivia() syntax.Kind {
	for i := p.index; i < len(p.tokens); i++ {
		if !p.tokens[i].Kind.IsTrivia() {
			return p.tokens[i].Kind
		}
	}
	return syntax.EOF
}

// nextNontriviaLookahead is nextNontrivia starting one raw token later: the
// single token of lookahead used to spot keyword arguments.
func (p *parser) nextNontriviaLookahead() syntax.Kind {
	for i := p.index + 1; i < len(p.tokens); i++ {
		if !p.tokens[i].Kind.IsTrivia() {
			return p.tokens[i].Kind
		}
	}
	return syntax.EOF
}

// requireNewline consumes pending trivia, then demands one newline, the
// statement terminator. Any other raw token is an unexpected-token error;
// running out of input is end-of-input.
func (p *parser) requireNewline() error {
	for p.currentRaw().IsTrivia() {
		p.bumpRaw()
	}
	switch kind := p.currentRaw(); kind {
	case syntax.NEWLINE:
		p.bumpRaw()
		return nil
	case syntax.EOF:
		return errEOF
	default:
		return &unexpectedTokenError{kind: kind, span: p.tokens[p.index].Span}
	}
}

// errorLeaf emits a zero-width placeholder leaf into the current branch.
func (p *parser) errorLeaf() {
	at := p.end
	if p.index < len(p.tokens) {
		at = p.tokens[p.index].Span.Start
	}
	p.builder.Token(syntax.Token{Kind: syntax.ERROR, Span: syntax.Span{Start: at, End: at}})
}

// unexpected builds the unexpected-token category for the current
// meaningful token.
func (p *parser) unexpected() error {
	return &unexpectedTokenError{kind: p.current(), span: p.currentSpan()}
}

// expect consumes one required meaningful token, or emits a placeholder
// leaf and reports expected-token.
func (p *parser) expect(kind syntax.Kind) error {
	if p.bumpIf(kind) {
		return nil
	}
	err := &expectedTokenError{want: kind, found: p.current(), span: p.currentSpan()}
	p.errorLeaf()
	return err
}

// node runs f inside a node of the given kind. The node is finished whether
// or not f fails, so the tree stays balanced on every error path.
func (p *parser) node(kind syntax.Kind, f func(*parser) error) error {
	p.builder.StartNode(kind)
	err := f(p)
	p.builder.FinishNode()
	return err
}

// nodeAt is node starting at a checkpoint, adopting the siblings emitted
// since the checkpoint was taken.
func (p *parser) nodeAt(cp syntax.Checkpoint, kind syntax.Kind, f func(*parser) error) error {
	p.builder.StartNodeAt(cp, kind)
	err := f(p)
	p.builder.FinishNode()
	return err
}
