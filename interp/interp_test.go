package interp

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shibukawa/leafbuild/ast"
	"github.com/shibukawa/leafbuild/parser"
	"github.com/shibukawa/leafbuild/syntax"
)

func execSource(t *testing.T, in *Interpreter, source string) []syntax.Diagnostic {
	t.Helper()
	root, parseDiags := parser.Parse(source)
	require.Empty(t, parseDiags, "source must parse cleanly")
	return in.Execute(ast.NewBuildDefinition(root))
}

func evalSource(t *testing.T, source string) *Interpreter {
	t.Helper()
	in := New(Options{Stdout: io.Discard})
	diags := execSource(t, in, source)
	require.Empty(t, diags)
	return in
}

func lookupValue(t *testing.T, in *Interpreter, name string) Value {
	t.Helper()
	v, ok := in.Lookup(name)
	require.True(t, ok, "variable %s not defined", name)
	return v
}

func TestExecuteProjectAndTargets(t *testing.T) {
	in := evalSource(t, `project('demo', 'c')
let common = ['util.c', 'log.c']
executable('demo', sources = ['main.c'] + common)
library('core', 'core.c', 'core_extra.c')
`)

	assert.Equal(t, "demo", in.ProjectName())
	assert.Equal(t, []string{"c"}, in.Languages())

	targets := in.Targets()
	require.Len(t, targets, 2)

	assert.Equal(t, "demo", targets[0].Name)
	assert.Equal(t, ExecutableTarget, targets[0].Kind)
	assert.Equal(t, []string{"main.c", "util.c", "log.c"}, targets[0].Sources)
	assert.Equal(t, 0, targets[0].Ordinal)

	assert.Equal(t, "core", targets[1].Name)
	assert.Equal(t, LibraryTarget, targets[1].Kind)
	assert.Equal(t, []string{"core.c", "core_extra.c"}, targets[1].Sources)
	assert.Equal(t, 1, targets[1].Ordinal)
}

func TestTargetKeywordName(t *testing.T) {
	in := evalSource(t, `project('p', 'c')
executable(sources = ['m.c'], name = 'app')
`)
	require.Len(t, in.Targets(), 1)
	assert.Equal(t, "app", in.Targets()[0].Name)
	assert.Equal(t, []string{"m.c"}, in.Targets()[0].Sources)
}

func TestProjectKeywordName(t *testing.T) {
	in := evalSource(t, `project(name = 'solo')
executable('app', 'main.c')
`)
	assert.Equal(t, "solo", in.ProjectName())
	assert.Empty(t, in.Languages())
}

func TestVariablesAndScopes(t *testing.T) {
	in := evalSource(t, `let x = 1
x += 2
x *= 10
if x == 30 {
	let y = 2
	x = x + y
}
`)
	assert.Equal(t, Int(32), lookupValue(t, in, "x"))

	_, ok := in.Lookup("y")
	assert.False(t, ok, "block-scoped y must not leak into the file scope")
}

func TestForeachVariableScope(t *testing.T) {
	in := evalSource(t, `let n = 0
foreach x in [1, 2, 3] {
	n += x
}
`)
	assert.Equal(t, Int(6), lookupValue(t, in, "n"))

	_, ok := in.Lookup("x")
	assert.False(t, ok, "loop variable must not leak into the file scope")
}

func TestStringConcatBothSides(t *testing.T) {
	in := evalSource(t, `let a = 'v' + 1
let b = 2 + 'w'
let c = 'x' + 'y'
`)
	assert.Equal(t, Str("v1"), lookupValue(t, in, "a"))
	assert.Equal(t, Str("2w"), lookupValue(t, in, "b"))
	assert.Equal(t, Str("xy"), lookupValue(t, in, "c"))
}

func TestMultilineStringValue(t *testing.T) {
	in := evalSource(t, "let m = '''first\nsecond'''\n")
	assert.Equal(t, Str("first\nsecond"), lookupValue(t, in, "m"))
}

func TestArrayOps(t *testing.T) {
	in := evalSource(t, `let xs = [1, 2]
xs += 3
xs += [4, 5]
xs[0] = 10
xs[1] += 5
let n = xs[4]
let nested = [[1, 2], [3]][0][1]
`)
	xs := lookupValue(t, in, "xs").(*Array)
	assert.Equal(t, []Value{Int(10), Int(7), Int(3), Int(4), Int(5)}, xs.Elems)
	assert.Equal(t, Int(5), lookupValue(t, in, "n"))
	assert.Equal(t, Int(2), lookupValue(t, in, "nested"))
}

func TestArrayAppendDoesNotAliasOperand(t *testing.T) {
	in := evalSource(t, `let base = [1]
let grown = base + 2
grown[0] = 9
`)
	base := lookupValue(t, in, "base").(*Array)
	grown := lookupValue(t, in, "grown").(*Array)
	assert.Equal(t, []Value{Int(1)}, base.Elems)
	assert.Equal(t, []Value{Int(9), Int(2)}, grown.Elems)
}

func TestArrayEquality(t *testing.T) {
	in := evalSource(t, `let eq = [1, 'a'] == [1, 'a']
let ne = [1] == [1, 2]
`)
	assert.Equal(t, Bool(true), lookupValue(t, in, "eq"))
	assert.Equal(t, Bool(false), lookupValue(t, in, "ne"))
}

func TestArithmeticWraparound(t *testing.T) {
	in := evalSource(t, `let big = 2147483647
big += 1
let m = -2147483648
let q = m / -1
let sh = 1 << 40
let asr = -8 >> 1
`)
	assert.Equal(t, Int(-2147483648), lookupValue(t, in, "big"))
	assert.Equal(t, Int(-2147483648), lookupValue(t, in, "q"))
	assert.Equal(t, Int(0), lookupValue(t, in, "sh"))
	assert.Equal(t, Int(-4), lookupValue(t, in, "asr"))
}

func TestComparisonAndLogical(t *testing.T) {
	in := evalSource(t, `let x = 3
let inRange = x > 1 and x < 5
let other = x == 4 or x != 9
`)
	assert.Equal(t, Bool(true), lookupValue(t, in, "inRange"))
	assert.Equal(t, Bool(true), lookupValue(t, in, "other"))
}

func TestLogicalShortCircuit(t *testing.T) {
	// The right sides would be index errors if they ever ran.
	in := evalSource(t, `let x = 3
let sc = x == 3 or [1][5] == 1
let sc2 = x == 0 and [1][5] == 1
`)
	assert.Equal(t, Bool(true), lookupValue(t, in, "sc"))
	assert.Equal(t, Bool(false), lookupValue(t, in, "sc2"))
}

func TestConditionalValues(t *testing.T) {
	in := evalSource(t, `let x = 10
let label = if x > 50 {
	'huge'
} else if x > 5 {
	'big'
} else {
	'small'
}
let missing = if x > 100 {
	'never'
}
`)
	assert.Equal(t, Str("big"), lookupValue(t, in, "label"))
	assert.Equal(t, Unit{}, lookupValue(t, in, "missing"))
}

func TestBlockExpressionValue(t *testing.T) {
	in := evalSource(t, `let x = {
	let a = 2
	a * 3
}
let y = {
	let b = 1
}
`)
	assert.Equal(t, Int(6), lookupValue(t, in, "x"))
	assert.Equal(t, Unit{}, lookupValue(t, in, "y"))
}

func TestForeachControlFlow(t *testing.T) {
	in := evalSource(t, `let total = 0
foreach x in [1, 2, 3, 4] {
	if x == 3 {
		continue
	}
	total += x
}
let steps = 0
foreach x in [1, 2, 3] {
	if x == 2 {
		break
	}
	steps += 1
}
`)
	assert.Equal(t, Int(7), lookupValue(t, in, "total"))
	assert.Equal(t, Int(1), lookupValue(t, in, "steps"))
}

func TestPrintOutput(t *testing.T) {
	var buf bytes.Buffer
	in := New(Options{Stdout: &buf})
	diags := execSource(t, in, `print('hello', 42)
message('checking', found = 'yes')
let r = print('x')
`)
	require.Empty(t, diags)
	assert.Equal(t, "-- hello, 42\n-- checking, found: yes\n-- x\n", buf.String())
	assert.Equal(t, Int(0), lookupValue(t, in, "r"))
}

func TestTargetValues(t *testing.T) {
	in := evalSource(t, `project('p', 'c')
let t = executable('app', 'main.c')
let s = '' + t
let same = t == t
`)
	assert.Equal(t, Str("<executable app>"), lookupValue(t, in, "s"))
	assert.Equal(t, Bool(true), lookupValue(t, in, "same"))
}

func TestRuntimeDiagnostics(t *testing.T) {
	tests := []struct {
		name    string
		source  string
		message string
	}{
		{
			name:    "undefined variable",
			source:  "let x = y\n",
			message: "undefined variable: y",
		},
		{
			name:    "assignment to undeclared",
			source:  "x = 1\n",
			message: "undefined variable: x",
		},
		{
			name:    "redeclaration in same scope",
			source:  "let x = 1\nlet x = 2\n",
			message: "variable already declared: x",
		},
		{
			name:    "division by zero",
			source:  "let x = 1 / 0\n",
			message: "division by zero",
		},
		{
			name:    "modulo by zero",
			source:  "let x = 1 % 0\n",
			message: "division by zero",
		},
		{
			name:    "negative shift",
			source:  "let x = 1 << -1\n",
			message: "unsupported operation: negative shift count -1",
		},
		{
			name:    "operator type mismatch",
			source:  "let x = 'a' - 1\n",
			message: "unsupported operation: `-` on string and int",
		},
		{
			name:    "cross-type comparison",
			source:  "let x = 1 == 'a'\n",
			message: "unsupported operation: cannot compare int and string",
		},
		{
			name:    "index out of range",
			source:  "let x = [1][5]\n",
			message: "index out of range: 5 (length 1)",
		},
		{
			name:    "index on non-array",
			source:  "let x = 5\nlet y = x[0]\n",
			message: "unsupported operation: cannot index int",
		},
		{
			name:    "non-int index",
			source:  "let x = [1]\nlet y = x['a']\n",
			message: "type mismatch: index evaluates to string, expected int",
		},
		{
			name:    "non-bool condition",
			source:  "if 1 {\n}\n",
			message: "type mismatch: condition evaluates to int, expected bool",
		},
		{
			name:    "foreach over non-array",
			source:  "foreach x in 5 {\n}\n",
			message: "type mismatch: foreach needs an array, got int",
		},
		{
			name:    "tuple value",
			source:  "let x = (1, 2)\n",
			message: "unsupported operation: tuple values",
		},
		{
			name:    "unknown function",
			source:  "frobnicate()\n",
			message: "unknown function: frobnicate",
		},
		{
			name:    "target before project",
			source:  "executable('a', 'b.c')\n",
			message: "no project declared: call project() before executable()",
		},
		{
			name:    "project redeclared",
			source:  "project('a')\nproject('b')\n",
			message: "project already declared",
		},
		{
			name:    "duplicate target",
			source:  "project('p')\nexecutable('app', 'a.c')\nexecutable('app', 'b.c')\n",
			message: "duplicate target: app",
		},
		{
			name:    "target without sources",
			source:  "project('p')\nexecutable('app')\n",
			message: "invalid argument: executable \"app\" has no sources",
		},
		{
			name:    "duplicate keyword",
			source:  "project('p')\nexecutable('a', sources = ['m.c'], sources = ['n.c'])\n",
			message: "invalid argument: duplicate keyword `sources`",
		},
		{
			name:    "stray break",
			source:  "break\n",
			message: "stray control flow: `break` outside a loop",
		},
		{
			name:    "stray continue",
			source:  "continue\n",
			message: "stray control flow: `continue` outside a loop",
		},
		{
			name:    "stray return",
			source:  "return 1\n",
			message: "stray control flow: `return` outside a function",
		},
		{
			name:    "user error",
			source:  "error('no compiler found')\n",
			message: "build error: no compiler found",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := New(Options{Stdout: io.Discard})
			diags := execSource(t, in, tt.source)
			require.Len(t, diags, 1)
			assert.Equal(t, tt.message, diags[0].Message)
		})
	}
}

func TestDiagnosticSpans(t *testing.T) {
	in := New(Options{Stdout: io.Discard})
	diags := execSource(t, in, "let x = y\n")
	require.Len(t, diags, 1)
	assert.Equal(t, syntax.Span{Start: 8, End: 9}, diags[0].Span)
}

func TestErrorCascadePoisons(t *testing.T) {
	in := New(Options{Stdout: io.Discard})
	diags := execSource(t, in, `let x = y
let z = x + 1
let w = z * 2
`)
	require.Len(t, diags, 1, "only the root failure is reported")
	assert.Equal(t, ErrorType, lookupValue(t, in, "z").Type())
	assert.Equal(t, ErrorType, lookupValue(t, in, "w").Type())
}

func TestDisableErrorCascadeHalts(t *testing.T) {
	in := New(Options{Stdout: io.Discard, DisableErrorCascade: true})
	diags := execSource(t, in, `let x = y
let z = 1
`)
	require.Len(t, diags, 1)
	_, ok := in.Lookup("z")
	assert.False(t, ok, "evaluation must stop at the first error")
}

func TestErrorBuiltinHalts(t *testing.T) {
	in := New(Options{Stdout: io.Discard})
	diags := execSource(t, in, `project('p', 'c')
error('boom')
executable('app', 'a.c')
`)
	require.Len(t, diags, 1)
	assert.Equal(t, "build error: boom", diags[0].Message)
	assert.Empty(t, in.Targets(), "error() halts before later targets")
}

func TestControlFlowCannotEscapeExpression(t *testing.T) {
	in := New(Options{Stdout: io.Discard})
	diags := execSource(t, in, `foreach x in [1] {
	let y = if x == 1 {
		break
	}
}
`)
	require.Len(t, diags, 1)
	assert.Equal(t, "stray control flow: `break` cannot escape an expression", diags[0].Message)
}

func TestPoisonedConditionSkipsChain(t *testing.T) {
	var buf bytes.Buffer
	in := New(Options{Stdout: &buf})
	diags := execSource(t, in, `let flag = nope
if flag == 1 {
	print('then')
} else {
	print('else')
}
`)
	// One report for the undefined name; neither branch runs.
	require.Len(t, diags, 1)
	assert.Equal(t, "undefined variable: nope", diags[0].Message)
	assert.Zero(t, buf.Len())
}
