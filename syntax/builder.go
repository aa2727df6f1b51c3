package syntax

// Builder assembles a lossless tree bottom-up from tokens and node
// boundaries. Finished siblings accumulate in a flat arena; open nodes form
// a stack of frames pointing at the arena index where their children begin.
// Checkpoint plus StartNodeAt retroactively wrap siblings that were already
// emitted, which is how left-associative operator chains and assignment
// detection work without backtracking.
//
// Misuse (unbalanced FinishNode, stale checkpoints) is a programmer error
// and panics.
type Builder struct {
	parents  []parentFrame
	children []*Node
	pos      int // byte offset just past the last emitted leaf
}

type parentFrame struct {
	kind  Kind
	first int
}

// Checkpoint marks a position between siblings for a later StartNodeAt.
type Checkpoint int

// Checkpoint returns a mark at the current position.
func (b *Builder) Checkpoint() Checkpoint {
	return Checkpoint(len(b.children))
}

// StartNode opens a node of the given kind at the current position.
func (b *Builder) StartNode(kind Kind) {
	b.parents = append(b.parents, parentFrame{kind: kind, first: len(b.children)})
}

// StartNodeAt opens a node whose children begin at the checkpoint, adopting
// every sibling emitted since it was taken.
func (b *Builder) StartNodeAt(cp Checkpoint, kind Kind) {
	at := int(cp)
	if at > len(b.children) {
		panic("syntax: checkpoint is ahead of the builder")
	}
	if len(b.parents) > 0 && at < b.parents[len(b.parents)-1].first {
		panic("syntax: checkpoint crosses an open node boundary")
	}
	b.parents = append(b.parents, parentFrame{kind: kind, first: at})
}

// Token emits one leaf into the innermost open scope.
func (b *Builder) Token(tok Token) {
	b.children = append(b.children, &Node{Kind: tok.Kind, Span: tok.Span, Text: tok.Text})
	if tok.Span.End > b.pos {
		b.pos = tok.Span.End
	}
}

// FinishNode closes the most recently opened node. The node's span runs from
// its first child's start to its last child's end; a node that ended up
// empty gets a zero-width span at the current position.
func (b *Builder) FinishNode() {
	if len(b.parents) == 0 {
		panic("syntax: FinishNode without StartNode")
	}
	frame := b.parents[len(b.parents)-1]
	b.parents = b.parents[:len(b.parents)-1]

	kids := append([]*Node(nil), b.children[frame.first:]...)
	span := Span{Start: b.pos, End: b.pos}
	if len(kids) > 0 {
		span = Span{Start: kids[0].Span.Start, End: kids[len(kids)-1].Span.End}
	}
	node := &Node{Kind: frame.kind, Span: span, Children: kids}
	b.children = append(b.children[:frame.first], node)
}

// Finish returns the single finished root. It panics if nodes are still open
// or the builder holds anything other than exactly one root.
func (b *Builder) Finish() *Node {
	if len(b.parents) != 0 {
		panic("syntax: Finish with open nodes")
	}
	if len(b.children) != 1 {
		panic("syntax: Finish expects exactly one root node")
	}
	return b.children[0]
}
