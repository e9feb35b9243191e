package meval

import (
	"errors"
	"fmt"

	. "gopkg.in/check.v1"
)

type ErrorSuite struct{}

var _ = Suite(&ErrorSuite{})

func (s *ErrorSuite) TestShowParseError(c *C) {
	_, err := Compile("x +\t$")
	perr, ok := err.(*ParseError)
	c.Assert(ok, Equals, true)
	c.Check(perr.Show(false), Equals,
		"parse error: unexpected rune \"$\"\n"+
			"  x +\t$\n"+
			"     \t^")

	c.Check(perr.Show(true), Equals,
		"parse error: \033[31;1munexpected rune \"$\"\033[m\n"+
			"  x +\t$\n"+
			"     \t\033[32;1m^\033[m")
}

func (s *ErrorSuite) TestShowAtEndOfInput(c *C) {
	_, err := Compile("2 *")
	perr, ok := err.(*ParseError)
	c.Assert(ok, Equals, true)
	c.Check(perr.Show(false), Equals,
		"parse error: unexpected end of statement\n"+
			"  2 *\n"+
			"     ^")
}

func (s *ErrorSuite) TestWrappedErrorsUnwrap(c *C) {
	cause := fmt.Errorf("boom: %w", ErrDomain)
	var err error = &EvaluationError{Index: 3, Variable: "x", Input: 1.5, Err: cause}
	c.Check(err.Error(), Equals, "cannot evaluate data[3] (x = 1.5): boom: result is not a real number")
	c.Check(errors.Is(err, ErrDomain), Equals, true)

	err = &ConversionError{Index: 0, Value: "abc", Err: ErrNotNumeric}
	c.Check(err.Error(), Equals, "cannot convert data[0] (\"abc\") to a number: value is not numeric")
	c.Check(errors.Is(err, ErrNotNumeric), Equals, true)
}
