package meval

import (
	"sort"

	. "gopkg.in/check.v1"
)

type ContextSuite struct {
	c *MapContext
}

var _ = Suite(&ContextSuite{
	c: NewMapContext(),
})

func (s *ContextSuite) TestCompileAndAddReportsParseErrors(c *C) {
	err := s.c.CompileAndAdd("foo", "0x")
	c.Assert(err, NotNil)
	_, ok := err.(*ParseError)
	c.Check(ok, Equals, true)

	_, err = s.c.GetExpression("foo")
	c.Check(err, ErrorMatches, "undefined variable 'foo'")
}

func (s *ContextSuite) TestAddGetDelete(c *C) {
	c.Assert(s.c.CompileAndAdd("a", "1 + 1"), IsNil)
	s.c.Add("b", MustCompile("a * 3"))
	defer s.c.Delete("b")

	names := s.c.Names()
	sort.Strings(names)
	c.Check(names, DeepEquals, []string{"a", "b"})

	e, err := s.c.GetExpression("b")
	c.Assert(err, IsNil)
	v, err := e.Eval(s.c)
	c.Assert(err, IsNil)
	c.Check(v, Equals, 6.0)

	s.c.Delete("a")
	_, err = e.Eval(s.c)
	c.Check(err, ErrorMatches, "undefined variable 'a'")
}

func (s *ContextSuite) TestInvalidPopWillPanic(c *C) {
	c.Check(func() { s.c.pop() }, PanicMatches, "Should never happen")
}

func (s *ContextSuite) TestBindContextShadowsParent(c *C) {
	parent := NewMapContext()
	parent.Add("x", MustCompile("100"))
	parent.Add("y", MustCompile("x + 1"))

	bc := &bindContext{name: "x", value: valueExp{value: 2}, parent: parent}
	v, err := MustCompile("x * y").Eval(bc)
	c.Assert(err, IsNil)
	c.Check(v, Equals, 6.0)

	bc = &bindContext{name: "x", value: valueExp{value: 2}}
	_, err = MustCompile("x * y").Eval(bc)
	c.Check(err, ErrorMatches, "undefined variable 'y'")
}
