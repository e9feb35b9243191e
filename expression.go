package meval

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// An Expression can be evaluated, and printed back as a statement.
type Expression interface {
	// Evaluates the expression. You can pass a context to refer other
	// expression. You can also pass nil as a context.
	Eval(Context) (float64, error)
	String() string
}

// Compile a new expression from an input string. The returned error
// is always a *ParseError.
func Compile(input string) (Expression, error) {
	return buildAST(input)
}

// MustCompile is like Compile but panics if input cannot be parsed.
func MustCompile(input string) Expression {
	e, err := Compile(input)
	if err != nil {
		panic(`meval: Compile(` + strconv.Quote(input) + `): ` + err.Error())
	}
	return e
}

// Variables returns the names of the variables e refers to, in order
// of first appearance.
func Variables(e Expression) []string {
	var names []string
	seen := make(map[string]bool)
	walk(e, func(e Expression) {
		if r, ok := e.(*refExp); ok && !seen[r.variable] {
			seen[r.variable] = true
			names = append(names, r.variable)
		}
	})
	return names
}

func walk(e Expression, f func(Expression)) {
	f(e)
	switch e := e.(type) {
	case *unaryExp:
		walk(e.child, f)
	case *binaryExp:
		walk(e.leftChild, f)
		walk(e.rightChild, f)
	case *callExp:
		for _, a := range e.args {
			walk(a, f)
		}
	}
}

const atomPrecedence = 10

func precedenceOf(e Expression) int {
	switch e := e.(type) {
	case *unaryExp:
		return e.precedence
	case *binaryExp:
		return e.precedence
	}
	return atomPrecedence
}

// checkResult turns a non-finite result of finite operands into an
// error.
func checkResult(e Expression, v float64) (float64, error) {
	if math.IsNaN(v) {
		return math.NaN(), fmt.Errorf("%s: %w", e, ErrDomain)
	}
	if math.IsInf(v, 0) {
		return math.NaN(), fmt.Errorf("%s: %w", e, ErrNotFinite)
	}
	return v, nil
}

//rest of the stuff is pretty private
type refExp struct {
	variable string
}

func (e *refExp) Eval(c Context) (float64, error) {
	if c == nil {
		return math.NaN(), fmt.Errorf("%w '%s': referenced, but no Context provided", ErrUndefined, e.variable)
	}
	if bad, deps := c.testStack(e.variable); bad {
		deps = append(deps, e.variable)
		return math.NaN(), fmt.Errorf("%w %s", ErrCyclic, strings.Join(deps, " -> "))
	}
	expr, err := c.GetExpression(e.variable)
	if err != nil {
		return math.NaN(), err
	}
	c.push(e.variable)
	defer c.pop()
	return expr.Eval(c)
}

func (e *refExp) String() string { return e.variable }

type valueExp struct {
	value float64
	// name is set for named constants like pi.
	name string
}

func (e *valueExp) Eval(Context) (float64, error) {
	return e.value, nil
}

func (e *valueExp) String() string {
	if e.name != "" {
		return e.name
	}
	return strconv.FormatFloat(e.value, 'g', -1, 64)
}

type unaryEvaluer func(float64) float64

type unaryExp struct {
	op         string
	precedence int
	child      Expression
	evaluer    unaryEvaluer
}

func (e *unaryExp) Eval(c Context) (float64, error) {
	value, err := e.child.Eval(c)
	if err != nil {
		return math.NaN(), err
	}
	return checkResult(e, e.evaluer(value))
}

func (e *unaryExp) String() string {
	if precedenceOf(e.child) < e.precedence {
		return e.op + "(" + e.child.String() + ")"
	}
	return e.op + e.child.String()
}

type binaryEvaluer func(float64, float64) (float64, error)

type binaryExp struct {
	op                    string
	precedence            int
	leftAssociative       bool
	leftChild, rightChild Expression
	evaluer               binaryEvaluer
}

func (e *binaryExp) Eval(c Context) (float64, error) {
	valueLeft, err := e.leftChild.Eval(c)
	if err != nil {
		return math.NaN(), err
	}

	valueRight, err := e.rightChild.Eval(c)
	if err != nil {
		return math.NaN(), err
	}
	res, err := e.evaluer(valueLeft, valueRight)
	if err != nil {
		return math.NaN(), fmt.Errorf("%s: %w", e, err)
	}
	return checkResult(e, res)
}

func (e *binaryExp) String() string {
	left, right := e.leftChild.String(), e.rightChild.String()
	lp, rp := precedenceOf(e.leftChild), precedenceOf(e.rightChild)
	if lp < e.precedence || (lp == e.precedence && !e.leftAssociative) {
		left = "(" + left + ")"
	}
	if rp < e.precedence || (rp == e.precedence && e.leftAssociative) {
		right = "(" + right + ")"
	}
	return left + " " + e.op + " " + right
}

type callEvaluer func([]float64) (float64, error)

type callExp struct {
	name    string
	args    []Expression
	evaluer callEvaluer
}

func (e *callExp) Eval(c Context) (float64, error) {
	values := make([]float64, len(e.args))
	for i, a := range e.args {
		v, err := a.Eval(c)
		if err != nil {
			return math.NaN(), err
		}
		values[i] = v
	}
	res, err := e.evaluer(values)
	if err != nil {
		return math.NaN(), fmt.Errorf("%s: %w", e, err)
	}
	return checkResult(e, res)
}

func (e *callExp) String() string {
	args := make([]string, len(e.args))
	for i, a := range e.args {
		args[i] = a.String()
	}
	return e.name + "(" + strings.Join(args, ", ") + ")"
}
