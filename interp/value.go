package interp

import (
	"strconv"
	"strings"
)

// Type identifies a runtime value's type.
type Type int

const (
	UnitType Type = iota
	IntType
	StringType
	BoolType
	ArrayType
	TargetType
	ErrorType
)

func (t Type) String() string {
	switch t {
	case UnitType:
		return "unit"
	case IntType:
		return "int"
	case StringType:
		return "string"
	case BoolType:
		return "bool"
	case ArrayType:
		return "array"
	case TargetType:
		return "target"
	case ErrorType:
		return "error"
	default:
		return "unknown"
	}
}

// Value is a runtime value. String returns the display form used by print
// and by string concatenation.
type Value interface {
	Type() Type
	String() string
}

// Unit is the value of statements and of builtins with nothing to return.
type Unit struct{}

func (Unit) Type() Type     { return UnitType }
func (Unit) String() string { return "()" }

// Int is the numeric type: 32-bit signed with silent two's-complement
// wraparound, matching the literal semantics.
type Int int32

func (Int) Type() Type       { return IntType }
func (i Int) String() string { return strconv.FormatInt(int64(i), 10) }

// Str is a string value.
type Str string

func (Str) Type() Type       { return StringType }
func (s Str) String() string { return string(s) }

// Bool is a boolean value. Only comparisons and logical operators produce
// them; the language has no boolean literals in value position.
type Bool bool

func (Bool) Type() Type { return BoolType }
func (b Bool) String() string {
	if b {
		return "true"
	}
	return "false"
}

// Array is a mutable sequence. It is held by pointer so index assignment
// through any reference is visible through all of them.
type Array struct {
	Elems []Value
}

func (*Array) Type() Type { return ArrayType }
func (a *Array) String() string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, e := range a.Elems {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(e.String())
	}
	sb.WriteByte(']')
	return sb.String()
}

// TargetKind distinguishes the build target flavors.
type TargetKind int

const (
	ExecutableTarget TargetKind = iota
	LibraryTarget
)

func (k TargetKind) String() string {
	if k == LibraryTarget {
		return "library"
	}
	return "executable"
}

// Target is a build target declared by executable() or library(). Ordinal
// records declaration order, which downstream generation relies on.
type Target struct {
	Name    string
	Kind    TargetKind
	Sources []string
	Ordinal int
}

func (*Target) Type() Type { return TargetType }
func (t *Target) String() string {
	return "<" + t.Kind.String() + " " + t.Name + ">"
}

// errorValue poisons the result of a failed evaluation. Operations on it
// yield it back without reporting again, so one broken expression does not
// bury the build file in follow-on diagnostics.
type errorValue struct{}

func (errorValue) Type() Type     { return ErrorType }
func (errorValue) String() string { return "<error>" }

func isPoisoned(vs ...Value) bool {
	for _, v := range vs {
		if v.Type() == ErrorType {
			return true
		}
	}
	return false
}
