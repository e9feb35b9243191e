// Copyright 2014 Alexandre Tuleu
// This file is part of go-meval.
//
// go-meval is free software: you can redistribute it and/or modify it
// under the terms of the GNU Lesser General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// go-meval is distributed in the hope that it will be useful, but
// WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
// General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public
// License along with go-meval.  If not, see
// <http://www.gnu.org/licenses/>.

/*
Package meval provides a mathematical expression parser and a batch
evaluator. A statement such as "x**2 + 1" is compiled once into an
expression tree, and that tree is evaluated for every value of a data
sequence, producing one result per value, in order.

Basics

An expression can be parsed using Compile, and evaluated with a nil
context as long as it does not refer to any variable. See the
Expression basic example.

Batch evaluation

Evaluate compiles a statement in the free variable x and evaluates it
over a slice of values. Use New to keep the compiled statement around,
to rename the free variable, or to provide extra definitions:

	ev, err := meval.New("a * x", meval.WithContext(defs))
	ys, err := ev.EvaluateFloats([]float64{1, 2, 3})

Evaluation is all or nothing: the first value that cannot be converted
or evaluated aborts the whole batch.

Grammar

Statements use numbers (decimal, exponent, 0x and 0b forms), the
operators + - * / % ^ and ** (^ and ** are both exponentiation and are
right associative), unary + and -, parentheses, the constants pi and e,
and a fixed table of named functions (sin, sqrt, ln, atan2, ...). Nothing
outside this grammar is ever executed.

Context

An expression can refer to other named expressions through a
Context. MapContext is the simplest one, a dictionary of expressions.
References are resolved at evaluation time, and cyclic references are
reported as errors.
*/
package meval
