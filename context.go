package meval

import "fmt"

type callStack interface {
	push(name string)
	pop()
	testStack(name string) (bool, []string)
}

// A Context is a kind of dictionnary of expression. You can pass it
// to Eval.
type Context interface {
	// Returns an expression from a given name.
	GetExpression(string) (Expression, error)
	callStack
}

// CallStack is meant to be embedded in any type that want to
// implement Context. It records the names being resolved, so that
// cyclic references can be reported instead of looping forever.
type CallStack struct {
	stack []string
}

func (c *CallStack) push(name string) {
	c.stack = append(c.stack, name)
}

func (c *CallStack) pop() {
	if len(c.stack) == 0 {
		panic("Should never happen")
	}
	c.stack = c.stack[0 : len(c.stack)-1]
}

// testStack reports whether name is being resolved, and if so the
// chain of names from its first resolution.
func (c *CallStack) testStack(name string) (bool, []string) {
	res := false
	var deps []string
	for _, n := range c.stack {
		if n == name {
			res = true
		}
		if res {
			deps = append(deps, n)
		}
	}
	return res, deps
}

// MapContext represents the most simple context, aka a dictionnary of
// expressions.
type MapContext struct {
	// In order to be a Context, one should embed a CallStack
	CallStack

	exprs map[string]Expression
}

// NewMapContext creates a MapContext
func NewMapContext() *MapContext {
	return &MapContext{exprs: make(map[string]Expression)}
}

// GetExpression returns an Expression stored in the MapContext, or an
// error wrapping ErrUndefined.
func (c *MapContext) GetExpression(name string) (Expression, error) {
	if e, ok := c.exprs[name]; ok {
		return e, nil
	}
	return nil, fmt.Errorf("%w '%s'", ErrUndefined, name)
}

// Add adds a new expression to the MapContext
func (c *MapContext) Add(name string, e Expression) {
	c.exprs[name] = e
}

// CompileAndAdd compiles and adds a new expression to the MapContext.
//
// It returns the same errors than Compile()
func (c *MapContext) CompileAndAdd(name, input string) error {
	e, err := Compile(input)
	if err != nil {
		return err
	}
	c.Add(name, e)
	return nil
}

// Delete deletes the given expression from the MapContext if it
// exists.
func (c *MapContext) Delete(name string) {
	delete(c.exprs, name)
}

// Names returns the names defined in the MapContext, in no particular
// order.
func (c *MapContext) Names() []string {
	names := make([]string, 0, len(c.exprs))
	for n := range c.exprs {
		names = append(names, n)
	}
	return names
}

// bindContext binds a single variable to a value, and resolves every
// other name through an optional parent Context.
type bindContext struct {
	CallStack

	name   string
	value  valueExp
	parent Context
}

func (c *bindContext) GetExpression(name string) (Expression, error) {
	if name == c.name {
		return &c.value, nil
	}
	if c.parent == nil {
		return nil, fmt.Errorf("%w '%s'", ErrUndefined, name)
	}
	return c.parent.GetExpression(name)
}
