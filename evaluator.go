package meval

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// DefaultVariable is the name of the free variable of a statement,
// unless WithVariable says otherwise.
const DefaultVariable = "x"

// An Evaluator holds a compiled statement in one free variable, and
// evaluates it over data. It does not keep any state between calls,
// but it must not be used concurrently when its Context is shared.
type Evaluator struct {
	statement string
	expr      Expression
	variable  string
	parent    Context
}

// An Option configures an Evaluator.
type Option func(*Evaluator)

// WithVariable sets the name of the free variable.
func WithVariable(name string) Option {
	return func(e *Evaluator) { e.variable = name }
}

// WithContext makes the expressions of c available to the
// statement. The free variable shadows any expression of c with the
// same name.
func WithContext(c Context) Option {
	return func(e *Evaluator) { e.parent = c }
}

// New compiles statement. It fails with ErrInvalidVariable if the free
// variable cannot be used as a name, with a *ParseError if statement is
// not a valid expression, and with an *EvaluationError of Index -1 if
// it refers to a name that is neither the free variable nor defined
// in the Context.
func New(statement string, opts ...Option) (*Evaluator, error) {
	e := &Evaluator{statement: statement, variable: DefaultVariable}
	for _, opt := range opts {
		opt(e)
	}
	if !isIdentifier(e.variable) || IsReserved(e.variable) {
		return nil, fmt.Errorf("%w %q", ErrInvalidVariable, e.variable)
	}

	expr, err := Compile(statement)
	if err != nil {
		return nil, err
	}
	e.expr = expr

	if name, ok := e.unresolved(expr, map[string]bool{}); !ok {
		return nil, &EvaluationError{
			Index:    -1,
			Variable: e.variable,
			Err:      fmt.Errorf("%w '%s'", ErrUndefined, name),
		}
	}
	return e, nil
}

// unresolved looks for a name used by expr, or by the definitions it
// refers to, that cannot be resolved.
func (e *Evaluator) unresolved(expr Expression, seen map[string]bool) (string, bool) {
	for _, name := range Variables(expr) {
		if name == e.variable || seen[name] {
			continue
		}
		seen[name] = true
		if e.parent == nil {
			return name, false
		}
		def, err := e.parent.GetExpression(name)
		if err != nil {
			return name, false
		}
		if n, ok := e.unresolved(def, seen); !ok {
			return n, false
		}
	}
	return "", true
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, ru := range s {
		switch {
		case ru == '_', 'a' <= ru && ru <= 'z', 'A' <= ru && ru <= 'Z':
		case i > 0 && '0' <= ru && ru <= '9':
		default:
			return false
		}
	}
	return true
}

// Statement returns the statement e was built from.
func (e *Evaluator) Statement() string { return e.statement }

// Expression returns the compiled statement.
func (e *Evaluator) Expression() Expression { return e.expr }

// Variable returns the name of the free variable.
func (e *Evaluator) Variable() string { return e.variable }

// Variables returns the names the statement refers to.
func (e *Evaluator) Variables() []string { return Variables(e.expr) }

// At evaluates the statement with the free variable bound to v. The
// returned error, if any, is an *EvaluationError of Index 0.
func (e *Evaluator) At(v float64) (float64, error) {
	return e.at(0, v)
}

func (e *Evaluator) at(i int, v float64) (float64, error) {
	c := &bindContext{name: e.variable, value: valueExp{value: v}, parent: e.parent}
	res, err := e.expr.Eval(c)
	if err != nil {
		return math.NaN(), &EvaluationError{Index: i, Variable: e.variable, Input: v, Err: err}
	}
	return res, nil
}

// Evaluate converts every value of data with ToFloat and evaluates
// the statement for it. Results have the order and the length of
// data. The first failure aborts the batch and no result is returned.
func (e *Evaluator) Evaluate(data []interface{}) ([]float64, error) {
	res := make([]float64, len(data))
	for i, d := range data {
		v, err := ToFloat(d)
		if err != nil {
			return nil, &ConversionError{Index: i, Value: d, Err: err}
		}
		if res[i], err = e.at(i, v); err != nil {
			return nil, err
		}
	}
	return res, nil
}

// EvaluateFloats is like Evaluate for data that is already numeric.
func (e *Evaluator) EvaluateFloats(data []float64) ([]float64, error) {
	res := make([]float64, len(data))
	for i, v := range data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, &ConversionError{Index: i, Value: v, Err: ErrNotFinite}
		}
		var err error
		if res[i], err = e.at(i, v); err != nil {
			return nil, err
		}
	}
	return res, nil
}

// Evaluate compiles statement, a statement in the free variable x,
// and evaluates it for every value of data. See Evaluator.Evaluate.
func Evaluate(statement string, data []interface{}) ([]float64, error) {
	e, err := New(statement)
	if err != nil {
		return nil, err
	}
	return e.Evaluate(data)
}

// ToFloat converts a data value to a finite float64. It accepts Go
// numbers, json.Number, booleans and strings holding a number.
func ToFloat(v interface{}) (float64, error) {
	var f float64
	switch v := v.(type) {
	case float64:
		f = v
	case float32:
		f = float64(v)
	case int:
		f = float64(v)
	case int8:
		f = float64(v)
	case int16:
		f = float64(v)
	case int32:
		f = float64(v)
	case int64:
		f = float64(v)
	case uint:
		f = float64(v)
	case uint8:
		f = float64(v)
	case uint16:
		f = float64(v)
	case uint32:
		f = float64(v)
	case uint64:
		f = float64(v)
	case bool:
		if v {
			f = 1
		}
	case json.Number:
		return parseFloat(string(v))
	case string:
		return parseFloat(v)
	default:
		return math.NaN(), ErrNotNumeric
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return math.NaN(), ErrNotFinite
	}
	return f, nil
}

func parseFloat(s string) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return math.NaN(), ErrNotNumeric
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return math.NaN(), ErrNotFinite
	}
	return f, nil
}
