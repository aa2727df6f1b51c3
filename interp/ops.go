package interp

import (
	"errors"
	"fmt"

	"github.com/shibukawa/leafbuild/syntax"
)

var (
	// ErrUnsupportedOperation reports an operator applied to operand types
	// it is not defined for.
	ErrUnsupportedOperation = errors.New("unsupported operation")
	// ErrDivisionByZero reports division or remainder with a zero divisor.
	ErrDivisionByZero = errors.New("division by zero")
)

// compoundBase maps a compound assignment operator to the binary operator
// it applies before storing.
var compoundBase = map[syntax.Kind]syntax.Kind{
	syntax.PLUS_ASSIGN:     syntax.PLUS,
	syntax.MINUS_ASSIGN:    syntax.MINUS,
	syntax.MULTIPLY_ASSIGN: syntax.MULTIPLY,
	syntax.DIVIDE_ASSIGN:   syntax.DIVIDE,
	syntax.MODULO_ASSIGN:   syntax.MODULO,
}

// applyBinary evaluates a binary operator on already-computed operands.
// Logical and/or never reach here; they short-circuit in the evaluator.
// Errors come back without positions; the caller attaches the span.
//
// Arithmetic wraps silently in two's complement, including the
// MinInt32 / -1 and -MinInt32 cases, so overflow never aborts a build
// script. Shift counts larger than the width are well defined (zero or
// sign fill); only negative counts are rejected.
func applyBinary(op syntax.Kind, left, right Value) (Value, error) {
	if isPoisoned(left, right) {
		return errorValue{}, nil
	}

	switch op {
	case syntax.PLUS:
		return applyAdd(left, right)

	case syntax.MINUS, syntax.MULTIPLY, syntax.DIVIDE, syntax.MODULO:
		l, r, err := intOperands(op, left, right)
		if err != nil {
			return errorValue{}, err
		}
		switch op {
		case syntax.MINUS:
			return l - r, nil
		case syntax.MULTIPLY:
			return l * r, nil
		case syntax.DIVIDE:
			if r == 0 {
				return errorValue{}, ErrDivisionByZero
			}
			return l / r, nil
		default:
			if r == 0 {
				return errorValue{}, ErrDivisionByZero
			}
			return l % r, nil
		}

	case syntax.SHIFT_LEFT, syntax.SHIFT_RIGHT:
		l, r, err := intOperands(op, left, right)
		if err != nil {
			return errorValue{}, err
		}
		if r < 0 {
			return errorValue{}, fmt.Errorf("%w: negative shift count %d", ErrUnsupportedOperation, r)
		}
		if op == syntax.SHIFT_LEFT {
			return l << uint32(r), nil
		}
		return l >> uint32(r), nil

	case syntax.EQUAL, syntax.NOT_EQUAL:
		eq, err := valuesEqual(left, right)
		if err != nil {
			return errorValue{}, err
		}
		if op == syntax.NOT_EQUAL {
			eq = !eq
		}
		return Bool(eq), nil

	case syntax.LESS_THAN, syntax.LESS_EQUAL, syntax.GREATER_THAN, syntax.GREATER_EQUAL:
		l, r, err := intOperands(op, left, right)
		if err != nil {
			return errorValue{}, err
		}
		switch op {
		case syntax.LESS_THAN:
			return Bool(l < r), nil
		case syntax.LESS_EQUAL:
			return Bool(l <= r), nil
		case syntax.GREATER_THAN:
			return Bool(l > r), nil
		default:
			return Bool(l >= r), nil
		}
	}

	return errorValue{}, fmt.Errorf("%w: `%s` on %s and %s",
		ErrUnsupportedOperation, op.TokenName(), left.Type(), right.Type())
}

// applyAdd handles `+`, the one overloaded operator. Arrays grow: another
// array concatenates, anything else is appended. A string on either side
// turns the operation into concatenation of the display forms. Both cases
// build fresh values and leave the operands alone.
func applyAdd(left, right Value) (Value, error) {
	if la, ok := left.(*Array); ok {
		elems := make([]Value, 0, len(la.Elems)+1)
		elems = append(elems, la.Elems...)
		if ra, ok := right.(*Array); ok {
			elems = append(elems, ra.Elems...)
		} else {
			elems = append(elems, right)
		}
		return &Array{Elems: elems}, nil
	}
	if left.Type() == StringType || right.Type() == StringType {
		return Str(left.String() + right.String()), nil
	}
	if l, ok := left.(Int); ok {
		if r, ok := right.(Int); ok {
			return l + r, nil
		}
	}
	return errorValue{}, fmt.Errorf("%w: `+` on %s and %s",
		ErrUnsupportedOperation, left.Type(), right.Type())
}

// applyUnary evaluates prefix `+` and `-`.
func applyUnary(op syntax.Kind, operand Value) (Value, error) {
	if isPoisoned(operand) {
		return errorValue{}, nil
	}
	v, ok := operand.(Int)
	if !ok {
		return errorValue{}, fmt.Errorf("%w: `%s` on %s",
			ErrUnsupportedOperation, op.TokenName(), operand.Type())
	}
	if op == syntax.MINUS {
		return -v, nil
	}
	return v, nil
}

// valuesEqual compares two values of the same type; comparing across types
// is an error rather than false, so typos surface instead of silently
// failing every condition. Arrays compare element-wise, targets by
// identity.
func valuesEqual(left, right Value) (bool, error) {
	if left.Type() != right.Type() {
		return false, fmt.Errorf("%w: cannot compare %s and %s",
			ErrUnsupportedOperation, left.Type(), right.Type())
	}
	switch l := left.(type) {
	case Unit:
		return true, nil
	case Int:
		return l == right.(Int), nil
	case Str:
		return l == right.(Str), nil
	case Bool:
		return l == right.(Bool), nil
	case *Target:
		return l == right.(*Target), nil
	case *Array:
		r := right.(*Array)
		if len(l.Elems) != len(r.Elems) {
			return false, nil
		}
		for i := range l.Elems {
			eq, err := valuesEqual(l.Elems[i], r.Elems[i])
			if err != nil || !eq {
				return false, err
			}
		}
		return true, nil
	}
	return false, fmt.Errorf("%w: cannot compare %s values",
		ErrUnsupportedOperation, left.Type())
}

func intOperands(op syntax.Kind, left, right Value) (Int, Int, error) {
	l, lok := left.(Int)
	r, rok := right.(Int)
	if !lok || !rok {
		return 0, 0, fmt.Errorf("%w: `%s` on %s and %s",
			ErrUnsupportedOperation, op.TokenName(), left.Type(), right.Type())
	}
	return l, r, nil
}
