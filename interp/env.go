package interp

// environment is one lexical scope frame. Blocks and foreach bodies push a
// child frame; lookup walks toward the file frame at the root of the chain.
type environment struct {
	parent *environment
	vars   map[string]Value
}

func newEnvironment(parent *environment) *environment {
	return &environment{parent: parent, vars: map[string]Value{}}
}

// lookup resolves a name through the frame chain.
func (e *environment) lookup(name string) (Value, bool) {
	for frame := e; frame != nil; frame = frame.parent {
		if v, ok := frame.vars[name]; ok {
			return v, true
		}
	}
	return nil, false
}

// declaredHere reports whether the current frame already binds name,
// ignoring outer frames. Shadowing an outer binding is allowed; declaring
// the same name twice in one frame is not.
func (e *environment) declaredHere(name string) bool {
	_, ok := e.vars[name]
	return ok
}

// define binds name in the current frame.
func (e *environment) define(name string, v Value) {
	e.vars[name] = v
}

// assign overwrites an existing binding in whichever frame declared it.
// It reports false when no frame binds the name.
func (e *environment) assign(name string, v Value) bool {
	for frame := e; frame != nil; frame = frame.parent {
		if _, ok := frame.vars[name]; ok {
			frame.vars[name] = v
			return true
		}
	}
	return false
}
