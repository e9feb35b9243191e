package meval

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

type outQueue struct {
	q []Expression
}

func (o *outQueue) unsafePop() Expression {
	expr := o.q[len(o.q)-1]
	o.q = o.q[0 : len(o.q)-1]
	return expr
}

func (o *outQueue) push(e Expression) {
	o.q = append(o.q, e)
}

func (o *outQueue) size() int {
	return len(o.q)
}

type queuePoper func(*outQueue) Expression

type operatorType uint

const (
	opStandard operatorType = iota
	opFunction
	opLeftParenthesis
)

type operator struct {
	oType            operatorType
	name             string
	pos              int
	precedence, card int
	leftAssociative  bool
	poper            queuePoper
	// call is set on the parenthesis opening a function call, and
	// args counts the commas seen inside it.
	call bool
	args int
	fn   *function
}

type opStack struct {
	s []operator
}

func (o *opStack) unsafePop() operator {
	op := o.s[len(o.s)-1]
	o.s = o.s[0 : len(o.s)-1]
	return op
}

func (o *opStack) push(op operator) {
	o.s = append(o.s, op)
}

func (o *opStack) size() int {
	return len(o.s)
}

func (o *opStack) unsafeTop() *operator {
	return &o.s[len(o.s)-1]
}

const (
	precAdditive       = 2
	precMultiplicative = 3
	precUnary          = 4
	precPower          = 5
)

var operators = make(map[TokenType]operator)
var unaryOperators = make(map[TokenType]operator)

func poperForBinaryOperator(op string, precedence int, leftAssociative bool, evaluer binaryEvaluer) queuePoper {
	return func(output *outQueue) Expression {
		return &binaryExp{
			op:              op,
			precedence:      precedence,
			leftAssociative: leftAssociative,
			evaluer:         evaluer,
			rightChild:      output.unsafePop(),
			leftChild:       output.unsafePop(),
		}
	}
}

func registerOperator(t TokenType,
	precedence int,
	leftAssociative bool,
	evaluer binaryEvaluer) {
	operators[t] = operator{
		oType:           opStandard,
		precedence:      precedence,
		leftAssociative: leftAssociative,
		card:            2,
		poper:           poperForBinaryOperator(t.symbol(), precedence, leftAssociative, evaluer),
	}
}

func registerUnaryOperator(t TokenType, evaluer unaryEvaluer) {
	op := t.symbol()
	unaryOperators[t] = operator{
		oType:      opStandard,
		precedence: precUnary,
		card:       1,
		poper: func(output *outQueue) Expression {
			return &unaryExp{
				op:         op,
				precedence: precUnary,
				evaluer:    evaluer,
				child:      output.unsafePop(),
			}
		},
	}
}

// symbol is the text used to print an operator token.
func (t TokenType) symbol() string {
	switch t {
	case TokPlus:
		return "+"
	case TokMinus:
		return "-"
	case TokMult:
		return "*"
	case TokDivide:
		return "/"
	case TokModulo:
		return "%"
	case TokPower:
		return "**"
	}
	return t.String()
}

func divide(a, b float64) (float64, error) {
	if b == 0 {
		return math.NaN(), ErrDivisionByZero
	}
	return a / b, nil
}

func modulo(a, b float64) (float64, error) {
	if b == 0 {
		return math.NaN(), ErrDivisionByZero
	}
	// floored modulo, the result has the sign of the divisor
	m := math.Mod(a, b)
	if m != 0 && (m < 0) != (b < 0) {
		m += b
	}
	return m, nil
}

func power(a, b float64) (float64, error) {
	if a == 0 && b < 0 {
		return math.NaN(), ErrDivisionByZero
	}
	return math.Pow(a, b), nil
}

func init() {
	registerOperator(TokPlus, precAdditive, true, func(a, b float64) (float64, error) { return a + b, nil })
	registerOperator(TokMinus, precAdditive, true, func(a, b float64) (float64, error) { return a - b, nil })
	registerOperator(TokMult, precMultiplicative, true, func(a, b float64) (float64, error) { return a * b, nil })
	registerOperator(TokDivide, precMultiplicative, true, divide)
	registerOperator(TokModulo, precMultiplicative, true, modulo)
	registerOperator(TokPower, precPower, false, power)

	registerUnaryOperator(TokMinus, func(a float64) float64 { return -a })
	registerUnaryOperator(TokPlus, func(a float64) float64 { return a })
}

// compiler holds the state of the shunting-yard algorithm.
type compiler struct {
	input  string
	output outQueue
	stack  opStack
	// expectOperand is true when the next token must start an
	// operand: at the start, after an operator, a '(' or a ','.
	expectOperand bool
}

func (cp *compiler) errorf(pos int, format string, args ...interface{}) error {
	return &ParseError{
		Input:   cp.input,
		Pos:     pos,
		Message: fmt.Sprintf(format, args...),
	}
}

func (cp *compiler) popOperatorFromStack() error {
	if cp.stack.size() == 0 {
		return cp.errorf(len(cp.input), "internal compilation error, operator stack is empty")
	}
	op := cp.stack.unsafePop()
	if cp.output.size() < op.card {
		return cp.errorf(op.pos, "evaluation stack error for '%s', need %d element, but only %d provided",
			op.name, op.card, cp.output.size())
	}
	//will pop the stack and push it
	cp.output.push(op.poper(&cp.output))
	return nil
}

// popUntilParenthesis pops operators until a left parenthesis is on
// top of the stack. It returns false if there is none.
func (cp *compiler) popUntilParenthesis() (bool, error) {
	for cp.stack.size() > 0 && cp.stack.unsafeTop().oType != opLeftParenthesis {
		if err := cp.popOperatorFromStack(); err != nil {
			return false, err
		}
	}
	return cp.stack.size() > 0, nil
}

func buildAST(input string) (Expression, error) {
	tokens, err := Tokenize(input)
	if err != nil {
		return nil, err
	}
	if len(tokens) == 0 {
		return nil, &ParseError{Input: input, Pos: 0, Message: "empty statement"}
	}

	cp := &compiler{input: input, expectOperand: true}
	for i, t := range tokens {
		var next *Token
		if i+1 < len(tokens) {
			next = &tokens[i+1]
		}
		if err := cp.handle(t, next); err != nil {
			return nil, err
		}
	}

	if cp.expectOperand {
		return nil, cp.errorf(len(input), "unexpected end of statement")
	}

	for cp.stack.size() > 0 {
		if top := cp.stack.unsafeTop(); top.oType == opLeftParenthesis {
			return nil, cp.errorf(top.pos, "mismatched parenthesis")
		}
		if err := cp.popOperatorFromStack(); err != nil {
			return nil, err
		}
	}

	if cp.output.size() != 1 {
		return nil, cp.errorf(len(input), "evaluation stack error, still got %d element instead of 1 at the final state",
			cp.output.size())
	}

	return cp.output.unsafePop(), nil
}

func (cp *compiler) handle(t Token, next *Token) error {
	switch t.Type {
	case TokValue:
		if !cp.expectOperand {
			return cp.errorf(t.Pos, "unexpected number %s", t.Value)
		}
		value, err := parseNumber(t.Value)
		if err != nil {
			return cp.errorf(t.Pos, "%s", err)
		}
		cp.output.push(&valueExp{value: value})
		cp.expectOperand = false
		return nil

	case TokIdent:
		if !cp.expectOperand {
			return cp.errorf(t.Pos, "unexpected identifier %q", t.Value)
		}
		if next != nil && next.Type == TokOParen {
			fn, ok := functions[t.Value]
			if !ok {
				return cp.errorf(t.Pos, "unknown function %q", t.Value)
			}
			cp.stack.push(operatorFromFunction(fn, t.Pos))
			// expectOperand stays true, the '(' comes next.
			return nil
		}
		if c, ok := constants[t.Value]; ok {
			cp.output.push(&valueExp{value: c, name: t.Value})
		} else {
			cp.output.push(&refExp{variable: t.Value})
		}
		cp.expectOperand = false
		return nil

	case TokOParen:
		if !cp.expectOperand {
			return cp.errorf(t.Pos, "unexpected '('")
		}
		// a function operator is only ever on top of the stack right
		// before its own parenthesis
		isCall := cp.stack.size() > 0 && cp.stack.unsafeTop().oType == opFunction
		cp.stack.push(operator{
			oType: opLeftParenthesis,
			name:  "(",
			pos:   t.Pos,
			call:  isCall,
			poper: func(*outQueue) Expression {
				return nil
			},
		})
		return nil

	case TokComma:
		if cp.expectOperand {
			return cp.errorf(t.Pos, "missing argument before ','")
		}
		found, err := cp.popUntilParenthesis()
		if err != nil {
			return err
		}
		if !found || !cp.stack.unsafeTop().call {
			return cp.errorf(t.Pos, "misplaced comma or mismatched parenthesis")
		}
		cp.stack.unsafeTop().args++
		cp.expectOperand = true
		return nil

	case TokCParen:
		return cp.closeParenthesis(t)
	}

	if cp.expectOperand {
		if op, ok := unaryOperators[t.Type]; ok {
			op.name = t.Value
			op.pos = t.Pos
			cp.stack.push(op)
			return nil
		}
		return cp.errorf(t.Pos, "missing operand before '%s'", t.Value)
	}

	op1, ok := operators[t.Type]
	if !ok {
		return cp.errorf(t.Pos, "operator '%s' is not yet implemented", t.Value)
	}
	op1.name = t.Value
	op1.pos = t.Pos
	for cp.stack.size() > 0 {
		op2 := cp.stack.unsafeTop()
		if op2.oType != opStandard {
			break
		}
		if op1.precedence < op2.precedence ||
			(op1.leftAssociative && op1.precedence == op2.precedence) {
			if err := cp.popOperatorFromStack(); err != nil {
				return err
			}
			continue
		}
		break
	}
	cp.stack.push(op1)
	cp.expectOperand = true
	return nil
}

func (cp *compiler) closeParenthesis(t Token) error {
	emptyCall := false
	if cp.expectOperand {
		if cp.stack.size() == 0 {
			return cp.errorf(t.Pos, "mismatched parenthesis")
		}
		top := cp.stack.unsafeTop()
		if top.oType != opLeftParenthesis || !top.call || top.args > 0 {
			return cp.errorf(t.Pos, "missing operand before ')'")
		}
		emptyCall = true
	}

	found, err := cp.popUntilParenthesis()
	if err != nil {
		return err
	}
	if !found {
		return cp.errorf(t.Pos, "mismatched parenthesis")
	}
	paren := cp.stack.unsafePop()
	cp.expectOperand = false
	if !paren.call {
		return nil
	}

	nargs := paren.args + 1
	if emptyCall {
		nargs = 0
	}
	fnOp := cp.stack.unsafeTop()
	if nargs != fnOp.fn.arity {
		return cp.errorf(fnOp.pos, "function %s expects %d argument(s), but got %d",
			fnOp.name, fnOp.fn.arity, nargs)
	}
	return cp.popOperatorFromStack()
}

func parseNumber(s string) (float64, error) {
	if len(s) > 2 && s[0] == '0' && strings.ContainsRune("xXbB", rune(s[1])) {
		v, err := strconv.ParseUint(s, 0, 64)
		if err != nil {
			return math.NaN(), fmt.Errorf("bad number syntax %q", s)
		}
		return float64(v), nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		if ne, ok := err.(*strconv.NumError); ok && ne.Err == strconv.ErrRange {
			return math.NaN(), fmt.Errorf("number %s is out of range", s)
		}
		return math.NaN(), fmt.Errorf("bad number syntax %q", s)
	}
	return v, nil
}
