// Package interp evaluates parsed build definitions.
//
// Evaluation is diagnostic-driven like parsing: a runtime failure is
// recorded with its source span and the failing expression takes an error
// value that silently poisons everything computed from it, so one mistake
// does not flood the report. With the cascade disabled the first failure
// stops the run instead.
package interp

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/shibukawa/leafbuild/ast"
	"github.com/shibukawa/leafbuild/syntax"
)

var (
	// ErrUndefinedVariable reports a name no enclosing scope declares.
	ErrUndefinedVariable = errors.New("undefined variable")
	// ErrAlreadyDeclared reports a second let for a name in the same scope.
	ErrAlreadyDeclared = errors.New("variable already declared")
	// ErrInvalidTarget reports an assignment whose left side is not a
	// variable or index expression.
	ErrInvalidTarget = errors.New("invalid assignment target")
	// ErrTypeMismatch reports a value of the wrong type in a position with
	// a fixed type requirement, like a condition or an index.
	ErrTypeMismatch = errors.New("type mismatch")
	// ErrIndexOutOfRange reports an array subscript outside 0..len-1.
	ErrIndexOutOfRange = errors.New("index out of range")
	// ErrUnknownFunction reports a call to a name that is not a builtin.
	ErrUnknownFunction = errors.New("unknown function")
	// ErrNotCallable reports a call whose callee is not a plain name.
	ErrNotCallable = errors.New("expression is not callable")
	// ErrStrayControl reports break, continue or return escaping the
	// construct it belongs to.
	ErrStrayControl = errors.New("stray control flow")
)

// errHalt aborts the walk after a diagnostic has been recorded. It never
// reaches callers of Execute.
var errHalt = errors.New("evaluation halted")

// Options configures an Interpreter.
type Options struct {
	// Stdout receives print and message output. Defaults to os.Stdout.
	Stdout io.Writer
	// DisableErrorCascade stops evaluation at the first runtime error
	// instead of poisoning the result and carrying on.
	DisableErrorCascade bool
}

// Interpreter walks a build definition and collects the declared project
// and targets. One Interpreter evaluates one build file; zero value is not
// usable, construct with New.
type Interpreter struct {
	opts        Options
	env         *environment
	project     string
	languages   []string
	targets     []*Target
	targetNames map[string]bool
	diags       []syntax.Diagnostic
}

// New returns an Interpreter with a fresh file scope.
func New(opts Options) *Interpreter {
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	return &Interpreter{
		opts:        opts,
		env:         newEnvironment(nil),
		targetNames: map[string]bool{},
	}
}

// Execute evaluates all top-level statements and returns the recorded
// diagnostics. Statement order is source order; targets keep declaration
// order so generation downstream is deterministic.
func (in *Interpreter) Execute(def *ast.BuildDefinition) []syntax.Diagnostic {
	if def == nil {
		return in.diags
	}
	for _, s := range def.Statements() {
		_, fl, err := in.execStatement(s, in.env)
		if err != nil {
			break
		}
		if fl.kind != flowNormal {
			if _, err := in.fail(fl.span, strayError(fl.kw)); err != nil {
				break
			}
		}
	}
	return in.diags
}

// ProjectName returns the name passed to project(), or "" before that call.
func (in *Interpreter) ProjectName() string { return in.project }

// Languages returns the language arguments of project() in call order.
func (in *Interpreter) Languages() []string { return in.languages }

// Targets returns the declared build targets in declaration order.
func (in *Interpreter) Targets() []*Target { return in.targets }

// Diagnostics returns the runtime diagnostics recorded so far.
func (in *Interpreter) Diagnostics() []syntax.Diagnostic { return in.diags }

// Lookup resolves a variable in the file scope, mostly for inspection.
func (in *Interpreter) Lookup(name string) (Value, bool) {
	return in.env.lookup(name)
}

// fail records a diagnostic and yields the poison value. The returned
// error is errHalt when the cascade is disabled, nil otherwise.
func (in *Interpreter) fail(span syntax.Span, err error) (Value, error) {
	in.diags = append(in.diags, syntax.Diagnostic{Message: err.Error(), Span: span})
	if in.opts.DisableErrorCascade {
		return errorValue{}, errHalt
	}
	return errorValue{}, nil
}

// flow is the signal a control statement sends up through blocks until a
// loop, or the top level, consumes it.
type flowKind int

const (
	flowNormal flowKind = iota
	flowBreak
	flowContinue
	flowReturn
)

type flow struct {
	kind flowKind
	kw   syntax.Kind
	span syntax.Span
}

func strayError(kw syntax.Kind) error {
	switch kw {
	case syntax.BREAK_KW:
		return fmt.Errorf("%w: `break` outside a loop", ErrStrayControl)
	case syntax.CONTINUE_KW:
		return fmt.Errorf("%w: `continue` outside a loop", ErrStrayControl)
	default:
		return fmt.Errorf("%w: `return` outside a function", ErrStrayControl)
	}
}

func escapeError(kw syntax.Kind) error {
	return fmt.Errorf("%w: `%s` cannot escape an expression", ErrStrayControl, kw.TokenName())
}

// execStatement runs one statement. The value is non-nil only for
// statements that produce one (expressions and conditionals), which is
// what gives blocks their trailing value.
func (in *Interpreter) execStatement(s ast.Statement, env *environment) (Value, flow, error) {
	switch st := s.(type) {
	case *ast.Declaration:
		return nil, flow{}, in.execDeclaration(st, env)
	case *ast.Assignment:
		return nil, flow{}, in.execAssignment(st, env)
	case *ast.Conditional:
		return in.evalConditional(st, env)
	case *ast.Foreach:
		fl, err := in.execForeach(st, env)
		return nil, fl, err
	case *ast.ControlStatement:
		return in.execControl(st, env)
	case *ast.ExprStatement:
		v, err := in.evalExpr(st.Expr(), env)
		return v, flow{}, err
	}
	// Views over malformed subtrees; the parser has diagnosed them.
	return nil, flow{}, nil
}

func (in *Interpreter) execDeclaration(d *ast.Declaration, env *environment) error {
	val, err := in.evalExpr(d.Value(), env)
	if err != nil {
		return err
	}
	name := d.Name()
	if name == "" {
		return nil
	}
	if env.declaredHere(name) {
		_, err := in.fail(declarationSpan(d), fmt.Errorf("%w: %s", ErrAlreadyDeclared, name))
		return err
	}
	env.define(name, val)
	return nil
}

func declarationSpan(d *ast.Declaration) syntax.Span {
	if id := d.Node().FirstChild(syntax.IDENTIFIER); id != nil {
		return id.Span
	}
	return d.Node().Span
}

func (in *Interpreter) execAssignment(a *ast.Assignment, env *environment) error {
	val, err := in.evalExpr(a.Value(), env)
	if err != nil {
		return err
	}
	target := a.Target()
	if target == nil {
		return nil
	}
	op := a.Operator()
	switch t := target.Inner().(type) {
	case *ast.Identifier:
		return in.assignVariable(t, op, val, env)
	case *ast.IndexExpr:
		return in.assignIndexed(t, op, val, env)
	}
	_, err = in.fail(target.Node().Span, fmt.Errorf("%w: left side is not assignable", ErrInvalidTarget))
	return err
}

func (in *Interpreter) assignVariable(id *ast.Identifier, op syntax.Kind, val Value, env *environment) error {
	name := id.Name()
	if base, compound := compoundBase[op]; compound {
		old, found := env.lookup(name)
		if !found {
			_, err := in.fail(id.Node().Span, fmt.Errorf("%w: %s", ErrUndefinedVariable, name))
			return err
		}
		res, opErr := applyBinary(base, old, val)
		if opErr != nil {
			_, err := in.fail(id.Node().Span, opErr)
			return err
		}
		val = res
	}
	if !env.assign(name, val) {
		_, err := in.fail(id.Node().Span, fmt.Errorf("%w: %s", ErrUndefinedVariable, name))
		return err
	}
	return nil
}

func (in *Interpreter) assignIndexed(t *ast.IndexExpr, op syntax.Kind, val Value, env *environment) error {
	span := t.Node().Span
	base, err := in.evalExpression(t.Base(), span, env)
	if err != nil {
		return err
	}
	index, err := in.evalExpr(t.Subscript(), env)
	if err != nil {
		return err
	}
	if isPoisoned(base, index) {
		return nil
	}
	arr, ok := base.(*Array)
	if !ok {
		_, err := in.fail(span, fmt.Errorf("%w: cannot index %s", ErrUnsupportedOperation, base.Type()))
		return err
	}
	i, ok := index.(Int)
	if !ok {
		_, err := in.fail(span, fmt.Errorf("%w: index evaluates to %s, expected int", ErrTypeMismatch, index.Type()))
		return err
	}
	if i < 0 || int(i) >= len(arr.Elems) {
		_, err := in.fail(span, fmt.Errorf("%w: %d (length %d)", ErrIndexOutOfRange, int(i), len(arr.Elems)))
		return err
	}
	if baseOp, compound := compoundBase[op]; compound {
		res, opErr := applyBinary(baseOp, arr.Elems[i], val)
		if opErr != nil {
			_, err := in.fail(span, opErr)
			return err
		}
		val = res
	}
	arr.Elems[i] = val
	return nil
}

// evalConditional runs an if/else-if/else chain. A poisoned condition
// skips the whole chain: without knowing the branch there is nothing
// sound to execute.
func (in *Interpreter) evalConditional(c *ast.Conditional, env *environment) (Value, flow, error) {
	for _, br := range c.Branches() {
		cond, err := in.evalExpr(br.Condition(), env)
		if err != nil {
			return nil, flow{}, err
		}
		if cond.Type() == ErrorType {
			return errorValue{}, flow{}, nil
		}
		b, ok := cond.(Bool)
		if !ok {
			v, err := in.fail(conditionSpan(br, c), fmt.Errorf("%w: condition evaluates to %s, expected bool", ErrTypeMismatch, cond.Type()))
			return v, flow{}, err
		}
		if bool(b) {
			return in.execBlock(br.Body(), env)
		}
	}
	if els := c.ElseBody(); els != nil {
		return in.execBlock(els, env)
	}
	return Unit{}, flow{}, nil
}

func conditionSpan(br *ast.ConditionalBranch, c *ast.Conditional) syntax.Span {
	if cond := br.Condition(); cond != nil {
		return cond.Node().Span
	}
	return c.Node().Span
}

func (in *Interpreter) execForeach(f *ast.Foreach, env *environment) (flow, error) {
	name := ""
	if v := f.Variable(); v != nil {
		if id, ok := v.Inner().(*ast.Identifier); ok {
			name = id.Name()
		}
	}
	if name == "" {
		_, err := in.fail(f.Node().Span, fmt.Errorf("%w: loop variable must be an identifier", ErrInvalidTarget))
		return flow{}, err
	}
	iter, err := in.evalExpr(f.Iterable(), env)
	if err != nil {
		return flow{}, err
	}
	if iter.Type() == ErrorType {
		return flow{}, nil
	}
	arr, ok := iter.(*Array)
	if !ok {
		_, err := in.fail(f.Iterable().Node().Span, fmt.Errorf("%w: foreach needs an array, got %s", ErrTypeMismatch, iter.Type()))
		return flow{}, err
	}
	for _, elem := range arr.Elems {
		scope := newEnvironment(env)
		scope.define(name, elem)
		_, fl, err := in.execBlock(f.Body(), scope)
		if err != nil {
			return flow{}, err
		}
		switch fl.kind {
		case flowBreak:
			return flow{}, nil
		case flowReturn:
			return fl, nil
		}
	}
	return flow{}, nil
}

func (in *Interpreter) execControl(s *ast.ControlStatement, env *environment) (Value, flow, error) {
	kw := s.Keyword()
	var kind flowKind
	switch kw {
	case syntax.BREAK_KW:
		kind = flowBreak
	case syntax.CONTINUE_KW:
		kind = flowContinue
	case syntax.RETURN_KW:
		kind = flowReturn
	default:
		return nil, flow{}, nil
	}
	// A carried expression still runs for its effects and diagnostics,
	// even though nothing consumes the value yet.
	if ve := s.Value(); ve != nil {
		if _, err := in.evalExpr(ve, env); err != nil {
			return nil, flow{}, err
		}
	}
	span := s.Node().Span
	if tok := s.Node().FirstChild(kw); tok != nil {
		span = tok.Span
	}
	return nil, flow{kind: kind, kw: kw, span: span}, nil
}

// execBlock runs a block in a child scope. Its value is the value of the
// trailing statement when that statement is an expression, unit otherwise.
func (in *Interpreter) execBlock(b *ast.Block, env *environment) (Value, flow, error) {
	if b == nil {
		return Unit{}, flow{}, nil
	}
	scope := newEnvironment(env)
	var last Value = Unit{}
	for _, s := range b.Statements() {
		v, fl, err := in.execStatement(s, scope)
		if err != nil {
			return nil, flow{}, err
		}
		if fl.kind != flowNormal {
			return Unit{}, fl, nil
		}
		if v != nil {
			last = v
		} else {
			last = Unit{}
		}
	}
	return last, flow{}, nil
}

// evalExpr evaluates a wrapped expression. A nil expression or view means
// the parser recovered over a hole there; it evaluates to poison without a
// second report.
func (in *Interpreter) evalExpr(e *ast.Expr, env *environment) (Value, error) {
	if e == nil {
		return errorValue{}, nil
	}
	return in.evalExpression(e.Inner(), e.Node().Span, env)
}

func (in *Interpreter) evalExpression(x ast.Expression, span syntax.Span, env *environment) (Value, error) {
	if x == nil {
		return errorValue{}, nil
	}
	switch v := x.(type) {
	case *ast.NumberLit:
		return Int(v.Value()), nil

	case *ast.StringLit:
		return Str(v.Content()), nil

	case *ast.Identifier:
		if val, ok := env.lookup(v.Name()); ok {
			return val, nil
		}
		return in.fail(v.Node().Span, fmt.Errorf("%w: %s", ErrUndefinedVariable, v.Name()))

	case *ast.ArrayLit:
		elems := make([]Value, 0, len(v.Elements()))
		for _, e := range v.Elements() {
			ev, err := in.evalExpr(e, env)
			if err != nil {
				return nil, err
			}
			elems = append(elems, ev)
		}
		return &Array{Elems: elems}, nil

	case *ast.TupleLit:
		return in.evalTuple(v, env)

	case *ast.FuncCall:
		return in.evalCall(v, env)

	case *ast.IndexExpr:
		return in.evalIndex(v, env)

	case *ast.UnaryExpr:
		operand, err := in.evalExpression(v.Operand(), v.Node().Span, env)
		if err != nil {
			return nil, err
		}
		res, opErr := applyUnary(v.Operator(), operand)
		if opErr != nil {
			return in.fail(v.Node().Span, opErr)
		}
		return res, nil

	case *ast.BinaryExpr:
		return in.evalBinary(v, env)

	case *ast.Conditional:
		val, fl, err := in.evalConditional(v, env)
		if err != nil {
			return nil, err
		}
		if fl.kind != flowNormal {
			return in.fail(fl.span, escapeError(fl.kw))
		}
		return val, nil

	case *ast.Block:
		val, fl, err := in.execBlock(v, env)
		if err != nil {
			return nil, err
		}
		if fl.kind != flowNormal {
			return in.fail(fl.span, escapeError(fl.kw))
		}
		return val, nil
	}
	return errorValue{}, nil
}

// evalTuple treats parentheses as grouping. The grammar admits real
// tuples but no operation consumes one, so multi-element tuples are
// rejected after their elements have been evaluated.
func (in *Interpreter) evalTuple(t *ast.TupleLit, env *environment) (Value, error) {
	elems := t.Elements()
	switch len(elems) {
	case 0:
		return Unit{}, nil
	case 1:
		return in.evalExpr(elems[0], env)
	}
	poisoned := false
	for _, e := range elems {
		v, err := in.evalExpr(e, env)
		if err != nil {
			return nil, err
		}
		poisoned = poisoned || v.Type() == ErrorType
	}
	if poisoned {
		return errorValue{}, nil
	}
	return in.fail(t.Node().Span, fmt.Errorf("%w: tuple values", ErrUnsupportedOperation))
}

func (in *Interpreter) evalBinary(b *ast.BinaryExpr, env *environment) (Value, error) {
	op := b.Operator()
	if op == syntax.AND_KW || op == syntax.OR_KW {
		return in.evalLogical(b, env)
	}
	span := b.Node().Span
	left, err := in.evalExpression(b.Left(), span, env)
	if err != nil {
		return nil, err
	}
	right, err := in.evalExpression(b.Right(), span, env)
	if err != nil {
		return nil, err
	}
	res, opErr := applyBinary(op, left, right)
	if opErr != nil {
		return in.fail(span, opErr)
	}
	return res, nil
}

// evalLogical short-circuits and/or, so the right side only runs when the
// left side leaves the answer open.
func (in *Interpreter) evalLogical(b *ast.BinaryExpr, env *environment) (Value, error) {
	op := b.Operator()
	span := b.Node().Span
	left, err := in.evalExpression(b.Left(), span, env)
	if err != nil {
		return nil, err
	}
	if left.Type() == ErrorType {
		return errorValue{}, nil
	}
	lb, ok := left.(Bool)
	if !ok {
		return in.fail(span, fmt.Errorf("%w: `%s` needs bool operands, got %s", ErrTypeMismatch, op.TokenName(), left.Type()))
	}
	if op == syntax.AND_KW && !bool(lb) {
		return Bool(false), nil
	}
	if op == syntax.OR_KW && bool(lb) {
		return Bool(true), nil
	}
	right, err := in.evalExpression(b.Right(), span, env)
	if err != nil {
		return nil, err
	}
	if right.Type() == ErrorType {
		return errorValue{}, nil
	}
	rb, ok := right.(Bool)
	if !ok {
		return in.fail(span, fmt.Errorf("%w: `%s` needs bool operands, got %s", ErrTypeMismatch, op.TokenName(), right.Type()))
	}
	return rb, nil
}

func (in *Interpreter) evalIndex(e *ast.IndexExpr, env *environment) (Value, error) {
	span := e.Node().Span
	base, err := in.evalExpression(e.Base(), span, env)
	if err != nil {
		return nil, err
	}
	index, err := in.evalExpr(e.Subscript(), env)
	if err != nil {
		return nil, err
	}
	if isPoisoned(base, index) {
		return errorValue{}, nil
	}
	arr, ok := base.(*Array)
	if !ok {
		return in.fail(span, fmt.Errorf("%w: cannot index %s", ErrUnsupportedOperation, base.Type()))
	}
	i, ok := index.(Int)
	if !ok {
		return in.fail(span, fmt.Errorf("%w: index evaluates to %s, expected int", ErrTypeMismatch, index.Type()))
	}
	if i < 0 || int(i) >= len(arr.Elems) {
		return in.fail(span, fmt.Errorf("%w: %d (length %d)", ErrIndexOutOfRange, int(i), len(arr.Elems)))
	}
	return arr.Elems[i], nil
}

func (in *Interpreter) evalCall(call *ast.FuncCall, env *environment) (Value, error) {
	span := call.Node().Span
	id, ok := call.Callee().(*ast.Identifier)
	if !ok {
		return in.fail(span, ErrNotCallable)
	}
	fn, ok := builtins[id.Name()]
	if !ok {
		return in.fail(id.Node().Span, fmt.Errorf("%w: %s", ErrUnknownFunction, id.Name()))
	}
	c := &callContext{
		in:      in,
		name:    id.Name(),
		span:    span,
		keyword: map[string]Value{},
	}
	positional, keywords := call.Arguments()
	for _, p := range positional {
		v, err := in.evalExpr(p, env)
		if err != nil {
			return nil, err
		}
		c.positional = append(c.positional, v)
	}
	for _, k := range keywords {
		name := k.Name()
		if name == "" {
			continue
		}
		v, err := in.evalExpr(k.Value(), env)
		if err != nil {
			return nil, err
		}
		if _, dup := c.keyword[name]; dup {
			if _, err := in.fail(k.Node().Span, fmt.Errorf("%w: duplicate keyword `%s`", ErrBadArgument, name)); err != nil {
				return nil, err
			}
			continue
		}
		c.keyword[name] = v
		c.keywordOrder = append(c.keywordOrder, name)
	}
	return fn(c)
}
