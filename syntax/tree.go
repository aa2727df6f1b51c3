package syntax

import (
	"fmt"
	"iter"
	"strings"
)

// Node is a node of the lossless syntax tree. Leaves carry token text;
// interior nodes carry children. Concatenating the text of all leaves in
// document order reproduces the parsed source exactly, trivia included.
type Node struct {
	Kind     Kind
	Span     Span
	Text     string  // leaves only
	Children []*Node // interior nodes only
}

// IsToken reports whether n is a leaf holding a single lexical token.
func (n *Node) IsToken() bool {
	return !n.Kind.IsNode()
}

// FirstChild returns the first direct child of the given kind, or nil.
func (n *Node) FirstChild(kind Kind) *Node {
	for _, c := range n.Children {
		if c.Kind == kind {
			return c
		}
	}
	return nil
}

// NonTrivia iterates over the grammar-relevant children: interior nodes and
// tokens that are neither trivia nor newlines. The first element yielded for
// a binary operator node is its left operand.
func (n *Node) NonTrivia() iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		for _, c := range n.Children {
			if c.IsToken() && !c.Kind.IsMeaningful() {
				continue
			}
			if !yield(c) {
				return
			}
		}
	}
}

// NonTriviaChildren collects NonTrivia into a slice.
func (n *Node) NonTriviaChildren() []*Node {
	var out []*Node
	for c := range n.NonTrivia() {
		out = append(out, c)
	}
	return out
}

// FindNodes returns every direct child node of the given kind, in order.
func (n *Node) FindNodes(kind Kind) []*Node {
	var out []*Node
	for _, c := range n.Children {
		if c.Kind == kind {
			out = append(out, c)
		}
	}
	return out
}

// Source reconstructs the exact source text this node covers, trivia and
// error leaves included.
func (n *Node) Source() string {
	var sb strings.Builder
	n.writeSource(&sb)
	return sb.String()
}

func (n *Node) writeSource(sb *strings.Builder) {
	if n.IsToken() {
		sb.WriteString(n.Text)
		return
	}
	for _, c := range n.Children {
		c.writeSource(sb)
	}
}

// Dump renders the tree one node per line as KIND@start..end, with token
// text quoted, indented two spaces per level. Tests and the inspect command
// compare against this form.
func (n *Node) Dump() string {
	var sb strings.Builder
	n.dump(&sb, 0)
	return sb.String()
}

func (n *Node) dump(sb *strings.Builder, depth int) {
	sb.WriteString(strings.Repeat("  ", depth))
	if n.IsToken() {
		fmt.Fprintf(sb, "%s@%s %q\n", n.Kind, n.Span, n.Text)
		return
	}
	fmt.Fprintf(sb, "%s@%s\n", n.Kind, n.Span)
	for _, c := range n.Children {
		c.dump(sb, depth+1)
	}
}
