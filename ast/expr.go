package ast

import (
	"strings"

	"github.com/shibukawa/leafbuild/syntax"
	"github.com/shibukawa/leafbuild/tokenizer"
)

// Expr wraps an EXPR node.
type Expr struct {
	node *syntax.Node
}

func (e *Expr) Node() *syntax.Node { return e.node }

// Inner returns the typed view of the wrapped expression, descending
// through the EXPR and PRIMARY_EXPR layers. It returns nil when the tree
// under the wrapper is malformed.
func (e *Expr) Inner() Expression {
	if e == nil {
		return nil
	}
	return exprView(e.node)
}

// Expression is one expression view. The concrete type is *NumberLit,
// *Identifier, *StringLit, *ArrayLit, *TupleLit, *FuncCall, *IndexExpr,
// *UnaryExpr, *BinaryExpr, *Conditional or *Block.
type Expression interface {
	Node() *syntax.Node
}

// exprView maps a node in expression position to its view, unwrapping EXPR
// and PRIMARY_EXPR.
func exprView(n *syntax.Node) Expression {
	for n != nil && (n.Kind == syntax.EXPR || n.Kind == syntax.PRIMARY_EXPR) {
		kids := n.NonTriviaChildren()
		if len(kids) != 1 {
			return nil
		}
		n = kids[0]
	}
	if n == nil {
		return nil
	}

	switch n.Kind {
	case syntax.NUMBER:
		return &NumberLit{node: n}
	case syntax.IDENTIFIER:
		return &Identifier{node: n}
	case syntax.STR_LIT:
		return &StringLit{node: n}
	case syntax.ARRAY_LIT_EXPR:
		return &ArrayLit{node: n}
	case syntax.TUPLE_EXPR:
		return &TupleLit{node: n}
	case syntax.FUNC_CALL_EXPR:
		return &FuncCall{node: n}
	case syntax.INDEXED_EXPR:
		return &IndexExpr{node: n}
	case syntax.PREFIX_UNARY_OP_EXPR:
		return &UnaryExpr{node: n}
	case syntax.INFIX_BIN_OP_EXPR:
		return &BinaryExpr{node: n}
	case syntax.CONDITIONAL:
		return &Conditional{node: n}
	case syntax.EXPR_BLOCK:
		return &Block{node: n}
	}
	return nil
}

// NumberLit is a numeric literal token.
type NumberLit struct {
	node *syntax.Node
}

func (l *NumberLit) Node() *syntax.Node { return l.node }

// Value returns the literal's value with the language's wrapping int32
// semantics.
func (l *NumberLit) Value() int32 {
	return tokenizer.NumberValue(l.node.Text)
}

// Identifier is a name in value position.
type Identifier struct {
	node *syntax.Node
}

func (i *Identifier) Node() *syntax.Node { return i.node }

// Name returns the identifier text.
func (i *Identifier) Name() string { return i.node.Text }

// StringLit is a STR_LIT node holding a single or multiline string token.
type StringLit struct {
	node *syntax.Node
}

func (l *StringLit) Node() *syntax.Node { return l.node }

func (l *StringLit) token() *syntax.Node {
	if tok := l.node.FirstChild(syntax.STRING); tok != nil {
		return tok
	}
	return l.node.FirstChild(syntax.MULTILINE_STRING)
}

// IsMultiline reports whether the literal used the ''' form.
func (l *StringLit) IsMultiline() bool {
	return l.node.FirstChild(syntax.MULTILINE_STRING) != nil
}

// Content returns the text between the quotes. Strings are verbatim; the
// language has no escape sequences.
func (l *StringLit) Content() string {
	tok := l.token()
	if tok == nil {
		return ""
	}
	if tok.Kind == syntax.MULTILINE_STRING {
		return strings.TrimSuffix(strings.TrimPrefix(tok.Text, "'''"), "'''")
	}
	return strings.TrimSuffix(strings.TrimPrefix(tok.Text, "'"), "'")
}

// ArrayLit is `[e1, e2, ...]`.
type ArrayLit struct {
	node *syntax.Node
}

func (l *ArrayLit) Node() *syntax.Node { return l.node }

// Elements returns the element expressions in order.
func (l *ArrayLit) Elements() []*Expr {
	return exprChildren(l.node)
}

// TupleLit is `(e1, e2, ...)`. One element is still a tuple; the language
// has no grouping parentheses.
type TupleLit struct {
	node *syntax.Node
}

func (l *TupleLit) Node() *syntax.Node { return l.node }

// Elements returns the element expressions in order.
func (l *TupleLit) Elements() []*Expr {
	return exprChildren(l.node)
}

// FuncCall is `callee(args)`.
type FuncCall struct {
	node *syntax.Node
}

func (c *FuncCall) Node() *syntax.Node { return c.node }

// Callee returns the called expression: the function name, or the chain
// being called.
func (c *FuncCall) Callee() Expression {
	kids := c.node.NonTriviaChildren()
	if len(kids) == 0 {
		return nil
	}
	return exprView(kids[0])
}

// Arguments splits the argument list into positional expressions and
// keyword arguments, each in source order.
func (c *FuncCall) Arguments() ([]*Expr, []*KeywordArg) {
	args := c.node.FirstChild(syntax.FUNC_CALL_ARGS)
	if args == nil {
		return nil, nil
	}
	var positional []*Expr
	var keyword []*KeywordArg
	for _, n := range args.NonTriviaChildren() {
		switch n.Kind {
		case syntax.EXPR:
			positional = append(positional, &Expr{node: n})
		case syntax.K_EXPR:
			keyword = append(keyword, &KeywordArg{node: n})
		}
	}
	return positional, keyword
}

// KeywordArg is `name = value` inside an argument list.
type KeywordArg struct {
	node *syntax.Node
}

func (a *KeywordArg) Node() *syntax.Node { return a.node }

// Name returns the argument name.
func (a *KeywordArg) Name() string {
	if tok := a.node.FirstChild(syntax.IDENTIFIER); tok != nil {
		return tok.Text
	}
	return ""
}

// Value returns the argument value expression.
func (a *KeywordArg) Value() *Expr {
	return exprChild(a.node, 0)
}

// IndexExpr is `base[subscript]`.
type IndexExpr struct {
	node *syntax.Node
}

func (e *IndexExpr) Node() *syntax.Node { return e.node }

// Base returns the indexed expression.
func (e *IndexExpr) Base() Expression {
	kids := e.node.NonTriviaChildren()
	if len(kids) == 0 {
		return nil
	}
	return exprView(kids[0])
}

// Subscript returns the expression between the brackets.
func (e *IndexExpr) Subscript() *Expr {
	brackets := e.node.FirstChild(syntax.INDEXED_EXPR_BRACKETS)
	if brackets == nil {
		return nil
	}
	return exprChild(brackets, 0)
}

// UnaryExpr is prefix `+` or `-`.
type UnaryExpr struct {
	node *syntax.Node
}

func (e *UnaryExpr) Node() *syntax.Node { return e.node }

// Operator returns PLUS or MINUS.
func (e *UnaryExpr) Operator() syntax.Kind {
	for _, c := range e.node.NonTriviaChildren() {
		if c.IsToken() {
			return c.Kind
		}
	}
	return syntax.EOF
}

// Operand returns the expression the operator applies to.
func (e *UnaryExpr) Operand() Expression {
	kids := e.node.NonTriviaChildren()
	if len(kids) < 2 {
		return nil
	}
	return exprView(kids[len(kids)-1])
}

// BinaryExpr is one infix operator application. All precedence levels share
// this node; Operator distinguishes them.
type BinaryExpr struct {
	node *syntax.Node
}

func (e *BinaryExpr) Node() *syntax.Node { return e.node }

// Left returns the left operand.
func (e *BinaryExpr) Left() Expression {
	kids := e.node.NonTriviaChildren()
	if len(kids) == 0 {
		return nil
	}
	return exprView(kids[0])
}

// Operator returns the operator token kind.
func (e *BinaryExpr) Operator() syntax.Kind {
	for _, c := range e.node.NonTriviaChildren() {
		if c.IsToken() {
			return c.Kind
		}
	}
	return syntax.EOF
}

// Right returns the right operand, or nil on a malformed tree.
func (e *BinaryExpr) Right() Expression {
	kids := e.node.NonTriviaChildren()
	if len(kids) < 3 {
		return nil
	}
	return exprView(kids[len(kids)-1])
}

// exprChildren collects views over every direct EXPR child.
func exprChildren(n *syntax.Node) []*Expr {
	var out []*Expr
	for _, c := range n.FindNodes(syntax.EXPR) {
		out = append(out, &Expr{node: c})
	}
	return out
}
