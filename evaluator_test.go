package meval

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"

	. "gopkg.in/check.v1"
)

type EvaluatorSuite struct{}

var _ = Suite(&EvaluatorSuite{})

func ints(xs ...int) []interface{} {
	res := make([]interface{}, len(xs))
	for i, x := range xs {
		res[i] = x
	}
	return res
}

func (s *EvaluatorSuite) TestIdentity(c *C) {
	res, err := Evaluate("x", ints(1, 2, 3))
	c.Assert(err, IsNil)
	c.Check(res, DeepEquals, []float64{1, 2, 3})
}

func (s *EvaluatorSuite) TestSquare(c *C) {
	res, err := Evaluate("x**2", ints(0, 1, 2, 3))
	c.Assert(err, IsNil)
	c.Check(res, DeepEquals, []float64{0, 1, 4, 9})

	res, err = Evaluate("x ^ 2 + 1", ints(1, 2, 3))
	c.Assert(err, IsNil)
	c.Check(res, DeepEquals, []float64{2, 5, 10})
}

func (s *EvaluatorSuite) TestLengthAndOrderArePreserved(c *C) {
	data := ints(5, -3, 8, 0, 2, 2, -7)
	res, err := Evaluate("2*x - 1", data)
	c.Assert(err, IsNil)
	c.Assert(res, HasLen, len(data))
	for i, d := range data {
		c.Check(res[i], Equals, 2*float64(d.(int))-1)
	}

	res, err = Evaluate("x", nil)
	c.Assert(err, IsNil)
	c.Check(res, HasLen, 0)
}

func (s *EvaluatorSuite) TestIdempotent(c *C) {
	ev, err := New("sin(x) * sqrt(abs(x)) + x ** 3")
	c.Assert(err, IsNil)
	data := []float64{-2.5, -1, 0, 0.25, 1, 3.75}
	first, err := ev.EvaluateFloats(data)
	c.Assert(err, IsNil)
	second, err := ev.EvaluateFloats(data)
	c.Assert(err, IsNil)
	c.Check(second, DeepEquals, first)

	again, err := Evaluate("sin(x) * sqrt(abs(x)) + x ** 3", []interface{}{-2.5, -1, 0, 0.25, 1, 3.75})
	c.Assert(err, IsNil)
	c.Check(again, DeepEquals, first)
}

func (s *EvaluatorSuite) TestDivisionByZero(c *C) {
	res, err := Evaluate("1/x", ints(0))
	c.Check(res, IsNil)
	var everr *EvaluationError
	c.Assert(errors.As(err, &everr), Equals, true)
	c.Check(everr.Index, Equals, 0)
	c.Check(errors.Is(err, ErrDivisionByZero), Equals, true)
	c.Check(err.Error(), Equals, "cannot evaluate data[0] (x = 0): 1 / x: division by zero")
}

func (s *EvaluatorSuite) TestSecondFreeVariableIsAnError(c *C) {
	res, err := Evaluate("x+y", ints(1, 2))
	c.Check(res, IsNil)
	var everr *EvaluationError
	c.Assert(errors.As(err, &everr), Equals, true)
	c.Check(everr.Index, Equals, -1)
	c.Check(errors.Is(err, ErrUndefined), Equals, true)
	c.Check(err.Error(), Equals, "cannot evaluate: undefined variable 'y'")

	// even with no data to evaluate
	_, err = Evaluate("x+y", nil)
	c.Check(errors.As(err, &everr), Equals, true)
}

func (s *EvaluatorSuite) TestParseError(c *C) {
	res, err := Evaluate("not a valid $$ expr", ints(1))
	c.Check(res, IsNil)
	var perr *ParseError
	c.Assert(errors.As(err, &perr), Equals, true)
	c.Check(perr.Pos, Equals, 12)
}

func (s *EvaluatorSuite) TestConversion(c *C) {
	res, err := Evaluate("x", []interface{}{
		1, int8(2), int16(3), int32(4), int64(5),
		uint(6), uint8(7), uint16(8), uint32(9), uint64(10),
		float32(11.5), 12.25, json.Number("13"), " 14.5 ", "1e1", true, false,
	})
	c.Assert(err, IsNil)
	c.Check(res, DeepEquals, []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11.5, 12.25, 13, 14.5, 10, 1, 0})
}

func (s *EvaluatorSuite) TestConversionErrorAbortsTheBatch(c *C) {
	tests := []struct {
		value interface{}
		cause error
	}{
		{"abc", ErrNotNumeric},
		{"", ErrNotNumeric},
		{nil, ErrNotNumeric},
		{[]int{1}, ErrNotNumeric},
		{map[string]interface{}{}, ErrNotNumeric},
		{"NaN", ErrNotFinite},
		{math.Inf(1), ErrNotFinite},
		{json.Number("1e999"), ErrNotNumeric},
	}
	for i, t := range tests {
		res, err := Evaluate("x + 1", []interface{}{1, 2, t.value, 4})
		c.Check(res, IsNil)
		var cerr *ConversionError
		if !c.Check(errors.As(err, &cerr), Equals, true, Commentf("[%d] %#v", i, t.value)) {
			continue
		}
		c.Check(cerr.Index, Equals, 2)
		c.Check(errors.Is(err, t.cause), Equals, true, Commentf("[%d] %#v: %s", i, t.value, err))
	}
}

func (s *EvaluatorSuite) TestConversionErrorMessage(c *C) {
	_, err := Evaluate("x", []interface{}{1, "a"})
	c.Check(err, ErrorMatches, `cannot convert data\[1\] \("a"\) to a number: value is not numeric`)

	_, err = Evaluate("x", []interface{}{json.Number("1e999")})
	c.Check(err, ErrorMatches, `cannot convert data\[0\] \("1e999"\) to a number: value is not numeric`)

	_, err = Evaluate("x", []interface{}{"Inf"})
	c.Check(err, ErrorMatches, `cannot convert data\[0\] \("Inf"\) to a number: result is not finite`)
}

func (s *EvaluatorSuite) TestFirstFailureWins(c *C) {
	_, err := Evaluate("1 / (x - 2)", []interface{}{1, 2, "bad"})
	var everr *EvaluationError
	c.Assert(errors.As(err, &everr), Equals, true)
	c.Check(everr.Index, Equals, 1)
	c.Check(everr.Input, Equals, 2.0)
}

func (s *EvaluatorSuite) TestDomainErrors(c *C) {
	for _, stmt := range []string{"sqrt(x)", "ln(x)", "x ** 0.5", "acosh(x)"} {
		_, err := Evaluate(stmt, ints(1, -4))
		var everr *EvaluationError
		if !c.Check(errors.As(err, &everr), Equals, true, Commentf("%s", stmt)) {
			continue
		}
		c.Check(everr.Index, Equals, 1, Commentf("%s", stmt))
		c.Check(errors.Is(err, ErrDomain), Equals, true, Commentf("%s: %s", stmt, err))
	}
}

func (s *EvaluatorSuite) TestWithVariable(c *C) {
	ev, err := New("t ** 2 - t", WithVariable("t"))
	c.Assert(err, IsNil)
	c.Check(ev.Variable(), Equals, "t")
	res, err := ev.EvaluateFloats([]float64{0, 1, 2})
	c.Assert(err, IsNil)
	c.Check(res, DeepEquals, []float64{0, 0, 2})

	// x is not free anymore
	_, err = New("t + x", WithVariable("t"))
	c.Check(err, ErrorMatches, "cannot evaluate: undefined variable 'x'")

	for _, name := range []string{"", "1t", "a-b", "pi", "sin", "e"} {
		_, err = New("1", WithVariable(name))
		c.Check(err, ErrorMatches, "invalid variable name .*", Commentf("%q", name))
		c.Check(errors.Is(err, ErrInvalidVariable), Equals, true, Commentf("%q", name))
	}
}

func (s *EvaluatorSuite) TestWithContext(c *C) {
	defs := NewMapContext()
	c.Assert(defs.CompileAndAdd("a", "2 * x"), IsNil)
	c.Assert(defs.CompileAndAdd("b", "a + k"), IsNil)
	c.Assert(defs.CompileAndAdd("k", "10"), IsNil)

	ev, err := New("b - a", WithContext(defs))
	c.Assert(err, IsNil)
	c.Check(ev.Variables(), DeepEquals, []string{"b", "a"})
	res, err := ev.Evaluate(ints(1, 2, 3))
	c.Assert(err, IsNil)
	c.Check(res, DeepEquals, []float64{10, 10, 10})

	// undefined names are found through the definitions
	c.Assert(defs.CompileAndAdd("k", "z"), IsNil)
	_, err = New("b - a", WithContext(defs))
	c.Check(err, ErrorMatches, "cannot evaluate: undefined variable 'z'")

	// a cycle passes construction and fails at evaluation
	c.Assert(defs.CompileAndAdd("k", "b"), IsNil)
	ev, err = New("b", WithContext(defs))
	c.Assert(err, IsNil)
	_, err = ev.Evaluate(ints(1))
	c.Check(errors.Is(err, ErrCyclic), Equals, true)
	c.Check(err, ErrorMatches, `cannot evaluate data\[0\] \(x = 1\): cyclic dependency b -> k -> b`)
}

func (s *EvaluatorSuite) TestAt(c *C) {
	ev, err := New("hypot(x, 4)")
	c.Assert(err, IsNil)
	v, err := ev.At(3)
	c.Assert(err, IsNil)
	c.Check(v, Equals, 5.0)
	c.Check(ev.Statement(), Equals, "hypot(x, 4)")
	c.Check(ev.Expression().String(), Equals, "hypot(x, 4)")
}

func (s *EvaluatorSuite) TestEvaluateFloatsRejectsNonFinite(c *C) {
	ev, err := New("x")
	c.Assert(err, IsNil)
	_, err = ev.EvaluateFloats([]float64{1, math.NaN()})
	var cerr *ConversionError
	c.Assert(errors.As(err, &cerr), Equals, true)
	c.Check(cerr.Index, Equals, 1)
}

func ExampleEvaluate() {
	ys, err := Evaluate("x**2 + 1", []interface{}{1, 2, 3})
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(ys)
	// Output: [2 5 10]
}

func ExampleNew() {
	defs := NewMapContext()
	if err := defs.CompileAndAdd("half", "t / 2"); err != nil {
		fmt.Println(err)
		return
	}
	ev, err := New("half + 1", WithVariable("t"), WithContext(defs))
	if err != nil {
		fmt.Println(err)
		return
	}
	ys, err := ev.EvaluateFloats([]float64{2, 4})
	fmt.Println(ys, err)
	// Output: [2 3] <nil>
}
