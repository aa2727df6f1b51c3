package syntax

import (
	"testing"

	"github.com/alecthomas/assert/v2"
)

// feed emits tokens for consecutive spans starting at the given offset and
// returns the offset past the last one.
func feed(b *Builder, start int, tokens ...Token) int {
	pos := start
	for _, tok := range tokens {
		tok.Span = Span{Start: pos, End: pos + len(tok.Text)}
		b.Token(tok)
		pos = tok.Span.End
	}
	return pos
}

func TestBuilderBasic(t *testing.T) {
	// let x = 1
	var b Builder
	b.StartNode(ROOT)
	b.StartNode(DECLARATION)
	feed(&b, 0,
		Token{Kind: LET_KW, Text: "let"},
		Token{Kind: WHITESPACE, Text: " "},
		Token{Kind: IDENTIFIER, Text: "x"},
		Token{Kind: WHITESPACE, Text: " "},
		Token{Kind: ASSIGN, Text: "="},
		Token{Kind: WHITESPACE, Text: " "},
		Token{Kind: NUMBER, Text: "1"},
	)
	b.FinishNode()
	b.FinishNode()
	root := b.Finish()

	assert.Equal(t, ROOT, root.Kind)
	assert.Equal(t, Span{Start: 0, End: 9}, root.Span)
	assert.Equal(t, 1, len(root.Children))

	decl := root.Children[0]
	assert.Equal(t, DECLARATION, decl.Kind)
	assert.Equal(t, Span{Start: 0, End: 9}, decl.Span)
	assert.Equal(t, 7, len(decl.Children))
	assert.Equal(t, "let x = 1", root.Source())
}

func TestBuilderCheckpointWrap(t *testing.T) {
	// A checkpoint taken before the left operand lets the operator node
	// adopt it after the fact.
	var b Builder
	b.StartNode(ROOT)

	cp := b.Checkpoint()
	pos := feed(&b, 0, Token{Kind: NUMBER, Text: "1"})
	b.StartNodeAt(cp, INFIX_BIN_OP_EXPR)
	feed(&b, pos,
		Token{Kind: PLUS, Text: "+"},
		Token{Kind: NUMBER, Text: "2"},
	)
	b.FinishNode()
	b.FinishNode()
	root := b.Finish()

	binop := root.Children[0]
	assert.Equal(t, INFIX_BIN_OP_EXPR, binop.Kind)
	assert.Equal(t, Span{Start: 0, End: 3}, binop.Span)
	assert.Equal(t, 3, len(binop.Children))
	assert.Equal(t, NUMBER, binop.Children[0].Kind)
	assert.Equal(t, PLUS, binop.Children[1].Kind)
	assert.Equal(t, "1+2", binop.Source())
}

func TestBuilderCheckpointReuseNestsLeft(t *testing.T) {
	// Rewrapping from the same checkpoint twice makes the first operator
	// node the left operand of the second: 1-2-3 parses as (1-2)-3.
	var b Builder
	b.StartNode(ROOT)

	cp := b.Checkpoint()
	pos := feed(&b, 0, Token{Kind: NUMBER, Text: "1"})

	b.StartNodeAt(cp, INFIX_BIN_OP_EXPR)
	pos = feed(&b, pos,
		Token{Kind: MINUS, Text: "-"},
		Token{Kind: NUMBER, Text: "2"},
	)
	b.FinishNode()

	b.StartNodeAt(cp, INFIX_BIN_OP_EXPR)
	feed(&b, pos,
		Token{Kind: MINUS, Text: "-"},
		Token{Kind: NUMBER, Text: "3"},
	)
	b.FinishNode()

	b.FinishNode()
	root := b.Finish()

	outer := root.Children[0]
	assert.Equal(t, INFIX_BIN_OP_EXPR, outer.Kind)
	assert.Equal(t, "1-2-3", outer.Source())
	assert.Equal(t, 3, len(outer.Children))

	inner := outer.Children[0]
	assert.Equal(t, INFIX_BIN_OP_EXPR, inner.Kind)
	assert.Equal(t, "1-2", inner.Source())
	assert.Equal(t, NUMBER, outer.Children[2].Kind)
	assert.Equal(t, "3", outer.Children[2].Text)
}

func TestBuilderEmptyNodeSpan(t *testing.T) {
	// A node finished without children sits at the current position with
	// zero width.
	var b Builder
	b.StartNode(ROOT)
	feed(&b, 0, Token{Kind: IDENTIFIER, Text: "abc"})
	b.StartNode(EXPR)
	b.FinishNode()
	b.FinishNode()
	root := b.Finish()

	assert.Equal(t, 2, len(root.Children))
	empty := root.Children[1]
	assert.Equal(t, EXPR, empty.Kind)
	assert.Equal(t, Span{Start: 3, End: 3}, empty.Span)
	assert.Equal(t, 0, len(empty.Children))
}

func TestBuilderMisusePanics(t *testing.T) {
	t.Run("finish without start", func(t *testing.T) {
		var b Builder
		assert.Panics(t, func() { b.FinishNode() })
	})

	t.Run("finish with open node", func(t *testing.T) {
		var b Builder
		b.StartNode(ROOT)
		assert.Panics(t, func() { b.Finish() })
	})

	t.Run("finish with no root", func(t *testing.T) {
		var b Builder
		assert.Panics(t, func() { b.Finish() })
	})

	t.Run("stale checkpoint", func(t *testing.T) {
		var b Builder
		b.StartNode(ROOT)
		b.StartNode(EXPR)
		feed(&b, 0, Token{Kind: NUMBER, Text: "1"}, Token{Kind: NUMBER, Text: "2"})
		cp := b.Checkpoint()
		b.FinishNode()
		assert.Panics(t, func() { b.StartNodeAt(cp, EXPR) })
	})

	t.Run("checkpoint crossing open node", func(t *testing.T) {
		var b Builder
		b.StartNode(ROOT)
		cp := b.Checkpoint()
		pos := feed(&b, 0, Token{Kind: NUMBER, Text: "1"})
		b.StartNode(EXPR)
		feed(&b, pos, Token{Kind: NUMBER, Text: "2"})
		assert.Panics(t, func() { b.StartNodeAt(cp, EXPR) })
	})
}
