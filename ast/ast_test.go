package ast

import (
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/shibukawa/leafbuild/parser"
	"github.com/shibukawa/leafbuild/syntax"
)

func parseDefinition(t *testing.T, source string) *BuildDefinition {
	t.Helper()
	root, diags := parser.Parse(source)
	assert.Equal(t, 0, len(diags))
	def := NewBuildDefinition(root)
	assert.NotZero(t, def)
	return def
}

func TestNewBuildDefinition(t *testing.T) {
	root, _ := parser.Parse("x = 1\n")

	assert.NotZero(t, NewBuildDefinition(root))
	assert.Zero(t, NewBuildDefinition(nil))
	assert.Zero(t, NewBuildDefinition(root.Children[0]))
}

func TestStatementViews(t *testing.T) {
	def := parseDefinition(t, "let a = 1\nb = 2\nif a {\n}\nforeach x in b {\n}\ncontinue\nf()\n")

	stmts := def.Statements()
	assert.Equal(t, 6, len(stmts))

	_, ok := stmts[0].(*Declaration)
	assert.True(t, ok)
	_, ok = stmts[1].(*Assignment)
	assert.True(t, ok)
	_, ok = stmts[2].(*Conditional)
	assert.True(t, ok)
	_, ok = stmts[3].(*Foreach)
	assert.True(t, ok)
	_, ok = stmts[4].(*ControlStatement)
	assert.True(t, ok)
	_, ok = stmts[5].(*ExprStatement)
	assert.True(t, ok)
}

func TestDeclarationView(t *testing.T) {
	def := parseDefinition(t, "let total = 40 + 2\n")

	decl := def.Statements()[0].(*Declaration)
	assert.Equal(t, "total", decl.Name())

	binop, ok := decl.Value().Inner().(*BinaryExpr)
	assert.True(t, ok)
	assert.Equal(t, syntax.PLUS, binop.Operator())
}

func TestAssignmentView(t *testing.T) {
	def := parseDefinition(t, "flags += ['-O2']\n")

	a := def.Statements()[0].(*Assignment)
	assert.Equal(t, syntax.PLUS_ASSIGN, a.Operator())

	target, ok := a.Target().Inner().(*Identifier)
	assert.True(t, ok)
	assert.Equal(t, "flags", target.Name())

	value, ok := a.Value().Inner().(*ArrayLit)
	assert.True(t, ok)
	assert.Equal(t, 1, len(value.Elements()))
}

func TestConditionalView(t *testing.T) {
	def := parseDefinition(t, "if a {\nx = 1\n} else if b {\n} else {\ny = 2\nz = 3\n}\n")

	cond := def.Statements()[0].(*Conditional)
	branches := cond.Branches()
	assert.Equal(t, 2, len(branches))

	first, ok := branches[0].Condition().Inner().(*Identifier)
	assert.True(t, ok)
	assert.Equal(t, "a", first.Name())
	assert.Equal(t, 1, len(branches[0].Body().Statements()))
	assert.Equal(t, 0, len(branches[1].Body().Statements()))

	assert.Equal(t, 2, len(cond.ElseBody().Statements()))
}

func TestConditionalWithoutElse(t *testing.T) {
	def := parseDefinition(t, "if a {\n}\n")

	cond := def.Statements()[0].(*Conditional)
	assert.Equal(t, 1, len(cond.Branches()))
	assert.Zero(t, cond.ElseBody())
}

func TestForeachView(t *testing.T) {
	def := parseDefinition(t, "foreach src in sources {\ncompile(src)\n}\n")

	loop := def.Statements()[0].(*Foreach)
	v, ok := loop.Variable().Inner().(*Identifier)
	assert.True(t, ok)
	assert.Equal(t, "src", v.Name())

	it, ok := loop.Iterable().Inner().(*Identifier)
	assert.True(t, ok)
	assert.Equal(t, "sources", it.Name())

	assert.Equal(t, 1, len(loop.Body().Statements()))
}

func TestControlStatementViews(t *testing.T) {
	tests := []struct {
		input    string
		keyword  syntax.Kind
		hasValue bool
	}{
		{input: "continue\n", keyword: syntax.CONTINUE_KW, hasValue: false},
		{input: "break\n", keyword: syntax.BREAK_KW, hasValue: false},
		{input: "return\n", keyword: syntax.RETURN_KW, hasValue: false},
		{input: "return 1\n", keyword: syntax.RETURN_KW, hasValue: true},
		{input: "break done\n", keyword: syntax.BREAK_KW, hasValue: true},
	}

	for _, test := range tests {
		t.Run(test.input, func(t *testing.T) {
			def := parseDefinition(t, test.input)

			ctrl := def.Statements()[0].(*ControlStatement)
			assert.Equal(t, test.keyword, ctrl.Keyword())
			assert.Equal(t, test.hasValue, ctrl.Value() != nil)
		})
	}
}

func TestNumberLitValues(t *testing.T) {
	def := parseDefinition(t, "x = 0xFF\n")

	a := def.Statements()[0].(*Assignment)
	lit, ok := a.Value().Inner().(*NumberLit)
	assert.True(t, ok)
	assert.Equal(t, int32(255), lit.Value())
}

func TestStringLitContent(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		content   string
		multiline bool
	}{
		{name: "plain", input: "x = 'hello'\n", content: "hello", multiline: false},
		{name: "empty", input: "x = ''\n", content: "", multiline: false},
		{name: "with newline inside", input: "x = 'a\nb'\n", content: "a\nb", multiline: false},
		{name: "multiline", input: "x = '''first\nsecond'''\n", content: "first\nsecond", multiline: true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			def := parseDefinition(t, test.input)

			a := def.Statements()[0].(*Assignment)
			lit, ok := a.Value().Inner().(*StringLit)
			assert.True(t, ok)
			assert.Equal(t, test.content, lit.Content())
			assert.Equal(t, test.multiline, lit.IsMultiline())
		})
	}
}

func TestFuncCallView(t *testing.T) {
	def := parseDefinition(t, "executable('app', sources = ['main.c'], install = 1)\n")

	call, ok := def.Statements()[0].(*ExprStatement).Expr().Inner().(*FuncCall)
	assert.True(t, ok)

	callee, ok := call.Callee().(*Identifier)
	assert.True(t, ok)
	assert.Equal(t, "executable", callee.Name())

	positional, keyword := call.Arguments()
	assert.Equal(t, 1, len(positional))
	assert.Equal(t, 2, len(keyword))
	assert.Equal(t, "sources", keyword[0].Name())
	assert.Equal(t, "install", keyword[1].Name())

	_, ok = keyword[0].Value().Inner().(*ArrayLit)
	assert.True(t, ok)
}

func TestIndexExprView(t *testing.T) {
	def := parseDefinition(t, "x = list[2]\n")

	a := def.Statements()[0].(*Assignment)
	idx, ok := a.Value().Inner().(*IndexExpr)
	assert.True(t, ok)

	base, ok := idx.Base().(*Identifier)
	assert.True(t, ok)
	assert.Equal(t, "list", base.Name())

	sub, ok := idx.Subscript().Inner().(*NumberLit)
	assert.True(t, ok)
	assert.Equal(t, int32(2), sub.Value())
}

func TestUnaryAndBinaryViews(t *testing.T) {
	def := parseDefinition(t, "x = -a * (b)[0]\n")

	a := def.Statements()[0].(*Assignment)
	mul, ok := a.Value().Inner().(*BinaryExpr)
	assert.True(t, ok)
	assert.Equal(t, syntax.MULTIPLY, mul.Operator())

	neg, ok := mul.Left().(*UnaryExpr)
	assert.True(t, ok)
	assert.Equal(t, syntax.MINUS, neg.Operator())
	_, ok = neg.Operand().(*Identifier)
	assert.True(t, ok)

	idx, ok := mul.Right().(*IndexExpr)
	assert.True(t, ok)
	_, ok = idx.Base().(*TupleLit)
	assert.True(t, ok)
}

func TestBlockExpressionView(t *testing.T) {
	def := parseDefinition(t, "x = {\nlet y = 1\ny\n}\n")

	a := def.Statements()[0].(*Assignment)
	block, ok := a.Value().Inner().(*Block)
	assert.True(t, ok)
	assert.Equal(t, 2, len(block.Statements()))
}

func TestConditionalAsExpressionView(t *testing.T) {
	def := parseDefinition(t, "x = if a {\n1\n} else {\n2\n}\n")

	a := def.Statements()[0].(*Assignment)
	_, ok := a.Value().Inner().(*Conditional)
	assert.True(t, ok)
}

func TestViewsTolerateMalformedTrees(t *testing.T) {
	// Recovered trees still wrap without panicking; missing parts read as
	// nil or zero values.
	sources := []string{
		"let x\n",
		"foreach x y\n",
		"f(name = )\n",
		"]\n",
		"let x = 'abc",
	}

	for _, source := range sources {
		t.Run(source, func(t *testing.T) {
			root, _ := parser.Parse(source)
			def := NewBuildDefinition(root)
			assert.NotZero(t, def)

			for _, stmt := range def.Statements() {
				switch s := stmt.(type) {
				case *Declaration:
					_ = s.Name()
					if v := s.Value(); v != nil {
						_ = v.Inner()
					}
				case *Foreach:
					_ = s.Variable()
					_ = s.Iterable()
					_ = s.Body()
				case *ExprStatement:
					_ = s.Expr().Inner()
				}
			}
		})
	}
}
