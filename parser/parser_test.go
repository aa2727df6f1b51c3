package parser

import (
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/shibukawa/leafbuild/syntax"
)

// checkTree verifies the structural guarantees on every node: a parent's
// span runs from its first child's start to its last child's end, siblings
// tile the span with no gaps, and leaf text matches the source bytes it
// claims to cover.
func checkTree(t *testing.T, source string, n *syntax.Node) {
	t.Helper()
	if n.IsToken() {
		assert.Equal(t, source[n.Span.Start:n.Span.End], n.Text)
		return
	}
	if len(n.Children) == 0 {
		assert.Equal(t, 0, n.Span.Len())
		return
	}
	assert.Equal(t, n.Children[0].Span.Start, n.Span.Start)
	assert.Equal(t, n.Children[len(n.Children)-1].Span.End, n.Span.End)
	pos := n.Span.Start
	for _, c := range n.Children {
		assert.Equal(t, pos, c.Span.Start)
		pos = c.Span.End
		checkTree(t, source, c)
	}
}

func TestParseEmpty(t *testing.T) {
	root, diags := Parse("")

	assert.Equal(t, 0, len(diags))
	assert.Equal(t, syntax.ROOT, root.Kind)
	assert.Equal(t, syntax.Span{Start: 0, End: 0}, root.Span)
	assert.Equal(t, 0, len(root.Children))
}

func TestParseDump(t *testing.T) {
	root, diags := Parse("x = 1\n")

	assert.Equal(t, 0, len(diags))
	expected := "ROOT@0..6\n" +
		"  ASSIGNMENT@0..6\n" +
		"    EXPR@0..1\n" +
		"      PRIMARY_EXPR@0..1\n" +
		"        IDENTIFIER@0..1 \"x\"\n" +
		"    WHITESPACE@1..2 \" \"\n" +
		"    ASSIGN@2..3 \"=\"\n" +
		"    WHITESPACE@3..4 \" \"\n" +
		"    EXPR@4..5\n" +
		"      PRIMARY_EXPR@4..5\n" +
		"        NUMBER@4..5 \"1\"\n" +
		"    NEWLINE@5..6 \"\\n\"\n"
	assert.Equal(t, expected, root.Dump())
}

func TestLosslessAndBalanced(t *testing.T) {
	// Valid or broken, every input must reassemble byte for byte from the
	// tree's leaves, and every span must nest exactly.
	sources := []string{
		"",
		"let x = 1\n",
		"1 + 2 * 3\n",
		"x = a\n[1]\n",
		"x += [1, 2,]\n",
		"'abc",
		"let x = 'abc\n",
		"[1 2]\n",
		"]\n",
		"1 +\n",
		"1 +",
		"f(",
		"foreach x y\n",
		"x = 1 y\n",
		"if a {\n",
		"if a {\nb()\n} else if c {\n} else {\nd()\n}\n",
		"foreach it in [1, 2] {\nif it == 2 {\ncontinue\n}\nshow(it)\n}\n",
		"f(1, name = 2, g(x)[0])\n",
		"s = 'a' + '''multi\nline'''\n",
		"x = {\nlet y = 1\ny\n}\n",
		"// just a comment\n",
		"/* unterminated",
		"\n\n\n",
		"   ",
		"x = \u20ac + 1\n",
	}

	for _, source := range sources {
		t.Run(source, func(t *testing.T) {
			root, _ := Parse(source)

			assert.Equal(t, source, root.Source())
			checkTree(t, source, root)
		})
	}
}

func TestParseDeterminism(t *testing.T) {
	source := "let a = f(1)[0] + -2 * 3\nif a {\nb()\n}\nbroken ]\n"

	first, firstDiags := Parse(source)
	second, secondDiags := Parse(source)

	assert.Equal(t, first.Dump(), second.Dump())
	assert.Equal(t, firstDiags, secondDiags)
}

func TestDiagnostics(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []syntax.Diagnostic
	}{
		{
			name:  "declaration missing its newline",
			input: "let x = 1",
			expected: []syntax.Diagnostic{
				{Message: "incomplete", Span: syntax.Span{Start: 9, End: 9}},
			},
		},
		{
			name:  "statement cannot start with a closer",
			input: "]\n",
			expected: []syntax.Diagnostic{
				{Message: "unexpected `]`", Span: syntax.Span{Start: 0, End: 1}},
			},
		},
		{
			name:  "foreach missing in",
			input: "foreach x y\n",
			expected: []syntax.Diagnostic{
				{Message: "expected token in, found token identifier", Span: syntax.Span{Start: 10, End: 11}},
			},
		},
		{
			name:  "array elements without separator",
			input: "[1 2]\n",
			expected: []syntax.Diagnostic{
				{Message: "expected one of {], ,}", Span: syntax.Span{Start: 3, End: 4}},
			},
		},
		{
			name:  "unterminated string then parse stumbles on it",
			input: "'abc",
			expected: []syntax.Diagnostic{
				{Message: "unterminated string literal", Span: syntax.Span{Start: 0, End: 4}},
				{Message: "unexpected `error`", Span: syntax.Span{Start: 0, End: 4}},
			},
		},
		{
			name:  "declaration cut off at the operator",
			input: "let y",
			expected: []syntax.Diagnostic{
				{Message: "expected token =, found token end of file", Span: syntax.Span{Start: 5, End: 5}},
			},
		},
		{
			name:  "trailing junk after an assignment",
			input: "x = 1 y\n",
			expected: []syntax.Diagnostic{
				{Message: "unexpected `identifier`", Span: syntax.Span{Start: 6, End: 7}},
			},
		},
		{
			name:  "keyword argument missing its value",
			input: "f(name = )\n",
			expected: []syntax.Diagnostic{
				{Message: "unexpected `)`", Span: syntax.Span{Start: 9, End: 10}},
			},
		},
		{
			name:  "call cut off after the opener",
			input: "f(",
			expected: []syntax.Diagnostic{
				{Message: "incomplete", Span: syntax.Span{Start: 2, End: 2}},
			},
		},
		{
			name:  "true is not a value",
			input: "x = true\n",
			expected: []syntax.Diagnostic{
				{Message: "unexpected `true`", Span: syntax.Span{Start: 4, End: 8}},
			},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			root, diags := Parse(test.input)

			assert.Equal(t, test.expected, diags)
			assert.Equal(t, test.input, root.Source())
		})
	}
}

func TestEOFWithoutNewlineIsSilent(t *testing.T) {
	// Statement forms that do not upgrade end-of-input stop cleanly when the
	// source ends without a final newline.
	sources := []string{
		"x = 1",
		"continue",
		"return",
		"1 +",
	}

	for _, source := range sources {
		t.Run(source, func(t *testing.T) {
			root, diags := Parse(source)

			assert.Equal(t, 0, len(diags))
			assert.Equal(t, source, root.Source())
		})
	}
}

func TestTriviaOnlyInput(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		tokens int
	}{
		{name: "line comment", input: "// note\n", tokens: 2},
		{name: "block comment", input: "/* note */", tokens: 1},
		{name: "blank lines", input: "\n\n", tokens: 2},
		{name: "spaces", input: "  \t ", tokens: 1},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			root, diags := Parse(test.input)

			assert.Equal(t, 0, len(diags))
			assert.Equal(t, test.tokens, len(root.Children))
			assert.Equal(t, test.input, root.Source())
		})
	}
}

func TestLexicalErrorSpans(t *testing.T) {
	// The scanner reports an unterminated string exactly once, at the
	// opening quote.
	_, diags := Parse("'abc")

	lexical := 0
	for _, d := range diags {
		if d.Message == "unterminated string literal" {
			lexical++
			assert.Equal(t, 0, d.Span.Start)
		}
	}
	assert.Equal(t, 1, lexical)
}
