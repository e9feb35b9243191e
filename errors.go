package meval

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrDivisionByZero is reported when a division, a modulo or a
	// power of zero has a zero divisor.
	ErrDivisionByZero = errors.New("division by zero")
	// ErrDomain is reported when an operation has no real result for
	// its operands, like sqrt(-1).
	ErrDomain = errors.New("result is not a real number")
	// ErrNotFinite is reported when a result overflows or diverges,
	// like exp(1000) or ln(0).
	ErrNotFinite = errors.New("result is not finite")
	// ErrUndefined is reported when a variable cannot be resolved.
	ErrUndefined = errors.New("undefined variable")
	// ErrCyclic is reported when named expressions refer to each other
	// in a loop.
	ErrCyclic = errors.New("cyclic dependency")
	// ErrNotNumeric is reported when a data value has a type that
	// cannot be converted to a number.
	ErrNotNumeric = errors.New("value is not numeric")
	// ErrInvalidVariable is returned by New when the free variable is
	// not an identifier, or is the name of a function or a constant.
	ErrInvalidVariable = errors.New("invalid variable name")
)

// ParseError is returned when a statement is not a valid expression.
type ParseError struct {
	// Input is the statement being parsed.
	Input string
	// Pos is the byte offset of the error in Input.
	Pos int
	// Message describes the error.
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s at offset %d", e.Message, e.Pos)
}

// Show renders the error followed by the statement and a caret under
// the offending position. If color is true, the message and the caret
// are highlighted with ANSI escape sequences.
func (e *ParseError) Show(color bool) string {
	var sb strings.Builder
	if color {
		fmt.Fprintf(&sb, "parse error: \033[31;1m%s\033[m\n", e.Message)
	} else {
		fmt.Fprintf(&sb, "parse error: %s\n", e.Message)
	}
	sb.WriteString("  ")
	sb.WriteString(e.Input)
	sb.WriteString("\n  ")
	pos := e.Pos
	if pos > len(e.Input) {
		pos = len(e.Input)
	}
	// Tabs are kept so the caret lines up on terminals.
	for _, ru := range e.Input[:pos] {
		if ru == '\t' {
			sb.WriteRune('\t')
		} else {
			sb.WriteRune(' ')
		}
	}
	if color {
		sb.WriteString("\033[32;1m^\033[m")
	} else {
		sb.WriteString("^")
	}
	return sb.String()
}

// ConversionError is returned when a data value cannot be converted
// to a number.
type ConversionError struct {
	// Index is the position of the value in the data.
	Index int
	// Value is the offending value.
	Value interface{}
	Err   error
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("cannot convert data[%d] (%#v) to a number: %s", e.Index, e.Value, e.Err)
}

func (e *ConversionError) Unwrap() error { return e.Err }

// EvaluationError is returned when a statement cannot be evaluated
// for a data value.
type EvaluationError struct {
	// Index is the position of the data value, or -1 when the error
	// does not depend on any value.
	Index int
	// Variable is the name of the free variable.
	Variable string
	// Input is the value bound to Variable.
	Input float64
	Err   error
}

func (e *EvaluationError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("cannot evaluate: %s", e.Err)
	}
	return fmt.Sprintf("cannot evaluate data[%d] (%s = %g): %s", e.Index, e.Variable, e.Input, e.Err)
}

func (e *EvaluationError) Unwrap() error { return e.Err }
