// Package ast provides typed views over the lossless syntax tree.
//
// The views are thin wrappers around *syntax.Node: they never copy or
// restructure the tree, they only navigate it, skipping trivia. Every
// accessor tolerates malformed trees (the parser emits a tree for any
// input), returning nil or zero values where a part is missing, so
// consumers can walk error-recovered trees without guarding each step.
package ast

import (
	"github.com/shibukawa/leafbuild/syntax"
)

// BuildDefinition is the root view over a parsed build file.
type BuildDefinition struct {
	node *syntax.Node
}

// NewBuildDefinition wraps a root node. It returns nil if n is not a ROOT.
func NewBuildDefinition(n *syntax.Node) *BuildDefinition {
	if n == nil || n.Kind != syntax.ROOT {
		return nil
	}
	return &BuildDefinition{node: n}
}

// Node returns the underlying root node.
func (d *BuildDefinition) Node() *syntax.Node { return d.node }

// Statements returns the top-level statements in source order.
func (d *BuildDefinition) Statements() []Statement {
	return statements(d.node)
}

// Statement is one statement view. The concrete type is *Declaration,
// *Assignment, *Conditional, *Foreach, *ControlStatement or *ExprStatement.
type Statement interface {
	Node() *syntax.Node
}

// statements collects statement views from a node's direct children.
func statements(n *syntax.Node) []Statement {
	var out []Statement
	for _, c := range n.NonTriviaChildren() {
		if s := statementView(c); s != nil {
			out = append(out, s)
		}
	}
	return out
}

func statementView(n *syntax.Node) Statement {
	switch n.Kind {
	case syntax.DECLARATION:
		return &Declaration{node: n}
	case syntax.ASSIGNMENT:
		return &Assignment{node: n}
	case syntax.CONDITIONAL:
		return &Conditional{node: n}
	case syntax.FOREACH:
		return &Foreach{node: n}
	case syntax.CONTROL_STATEMENT:
		return &ControlStatement{node: n}
	case syntax.EXPR:
		return &ExprStatement{node: n}
	}
	return nil
}

// Declaration is `let name = value`.
type Declaration struct {
	node *syntax.Node
}

func (d *Declaration) Node() *syntax.Node { return d.node }

// Name returns the declared identifier, or "" on a malformed tree.
func (d *Declaration) Name() string {
	if tok := d.node.FirstChild(syntax.IDENTIFIER); tok != nil {
		return tok.Text
	}
	return ""
}

// Value returns the initializer expression.
func (d *Declaration) Value() *Expr {
	return exprChild(d.node, 0)
}

// Assignment is `target op value` for = and the compound operators.
type Assignment struct {
	node *syntax.Node
}

func (a *Assignment) Node() *syntax.Node { return a.node }

// Target returns the left-hand side expression.
func (a *Assignment) Target() *Expr {
	return exprChild(a.node, 0)
}

// Operator returns the assignment operator kind, or EOF when missing.
func (a *Assignment) Operator() syntax.Kind {
	for _, c := range a.node.NonTriviaChildren() {
		if c.IsToken() {
			return c.Kind
		}
	}
	return syntax.EOF
}

// Value returns the right-hand side expression.
func (a *Assignment) Value() *Expr {
	return exprChild(a.node, 1)
}

// Conditional is an if/else-if/else chain; it appears both as a statement
// and as a primary expression.
type Conditional struct {
	node *syntax.Node
}

func (c *Conditional) Node() *syntax.Node { return c.node }

// Branches returns the if and else-if branches in order.
func (c *Conditional) Branches() []*ConditionalBranch {
	var out []*ConditionalBranch
	for _, n := range c.node.FindNodes(syntax.CONDITIONAL_BRANCH) {
		out = append(out, &ConditionalBranch{node: n})
	}
	return out
}

// ElseBody returns the trailing bare else block, or nil.
func (c *Conditional) ElseBody() *Block {
	if n := c.node.FirstChild(syntax.EXPR_BLOCK); n != nil {
		return &Block{node: n}
	}
	return nil
}

// ConditionalBranch is one `if condition { body }` arm.
type ConditionalBranch struct {
	node *syntax.Node
}

func (b *ConditionalBranch) Node() *syntax.Node { return b.node }

// Condition returns the branch condition expression.
func (b *ConditionalBranch) Condition() *Expr {
	return exprChild(b.node, 0)
}

// Body returns the branch block.
func (b *ConditionalBranch) Body() *Block {
	if n := b.node.FirstChild(syntax.EXPR_BLOCK); n != nil {
		return &Block{node: n}
	}
	return nil
}

// Foreach is `foreach variable in iterable { body }`.
type Foreach struct {
	node *syntax.Node
}

func (f *Foreach) Node() *syntax.Node { return f.node }

// Variable returns the loop variable expression. The grammar admits any
// expression here; the evaluator requires an identifier.
func (f *Foreach) Variable() *Expr {
	return exprChild(f.node, 0)
}

// Iterable returns the expression looped over.
func (f *Foreach) Iterable() *Expr {
	return exprChild(f.node, 1)
}

// Body returns the loop block.
func (f *Foreach) Body() *Block {
	if n := f.node.FirstChild(syntax.EXPR_BLOCK); n != nil {
		return &Block{node: n}
	}
	return nil
}

// ControlStatement is continue, break or return.
type ControlStatement struct {
	node *syntax.Node
}

func (s *ControlStatement) Node() *syntax.Node { return s.node }

// Keyword returns CONTINUE_KW, BREAK_KW or RETURN_KW, or EOF on a
// malformed tree.
func (s *ControlStatement) Keyword() syntax.Kind {
	for _, c := range s.node.NonTriviaChildren() {
		if c.IsToken() {
			return c.Kind
		}
	}
	return syntax.EOF
}

// Value returns the carried expression of a return or break, or nil.
func (s *ControlStatement) Value() *Expr {
	return exprChild(s.node, 0)
}

// ExprStatement is a bare expression in statement position.
type ExprStatement struct {
	node *syntax.Node
}

func (s *ExprStatement) Node() *syntax.Node { return s.node }

// Expr returns the expression itself.
func (s *ExprStatement) Expr() *Expr {
	return &Expr{node: s.node}
}

// Block is a braced statement sequence, usable as an expression whose value
// is its final expression statement.
type Block struct {
	node *syntax.Node
}

func (b *Block) Node() *syntax.Node { return b.node }

// Statements returns the block's statements in order.
func (b *Block) Statements() []Statement {
	return statements(b.node)
}

// exprChild returns a view over the i-th direct EXPR child, or nil.
func exprChild(n *syntax.Node, i int) *Expr {
	exprs := n.FindNodes(syntax.EXPR)
	if i >= len(exprs) {
		return nil
	}
	return &Expr{node: exprs[i]}
}
