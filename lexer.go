package meval

import (
	"fmt"
	"io"
	"strings"
	"unicode"
	"unicode/utf8"
)

// TokenType identifies the kind of a Token.
type TokenType int

const (
	TokPlus TokenType = iota
	TokMinus
	TokMult
	TokDivide
	TokModulo
	TokPower
	TokIdent
	TokOParen
	TokCParen
	TokValue
	TokComma

	tokUserStart
)

var tokenNames = map[TokenType]string{
	TokPlus:   "'+'",
	TokMinus:  "'-'",
	TokMult:   "'*'",
	TokDivide: "'/'",
	TokModulo: "'%'",
	TokPower:  "power",
	TokIdent:  "identifier",
	TokOParen: "'('",
	TokCParen: "')'",
	TokValue:  "number",
	TokComma:  "','",
}

func (t TokenType) String() string {
	if n, ok := tokenNames[t]; ok {
		return n
	}
	return fmt.Sprintf("token(%d)", int(t))
}

// Token is a lexical item of a statement. Pos is the byte offset of
// the token in the lexed input.
type Token struct {
	Type  TokenType
	Value string
	Pos   int
}

// NewToken returns a Token at offset 0.
func NewToken(t TokenType, value string) Token {
	return Token{Type: t, Value: value}
}

// Lexer splits a statement into Tokens. It is a state machine where
// each state is an lActionFn returning the next state.
type Lexer struct {
	input      string
	tokens     chan Token
	errors     chan error
	action     lActionFn
	start, pos int
	width      int
}

type lActionFn func(l *Lexer) lActionFn

// NewLexer returns a Lexer reading input.
func NewLexer(input string) *Lexer {
	return &Lexer{
		input:  input,
		errors: make(chan error, 2),
		tokens: make(chan Token, 2),
		action: lexWS,
	}
}

// Next returns the next Token, io.EOF once the input is exhausted,
// or a *ParseError.
func (l *Lexer) Next() (Token, error) {
	for {
		select {
		case err := <-l.errors:
			return Token{}, err
		case t := <-l.tokens:
			return t, nil
		default:
			if l.action == nil {
				return Token{}, io.EOF
			}
			l.action = l.action(l)
		}
	}
}

// Tokenize lexes the whole input.
func Tokenize(input string) ([]Token, error) {
	l := NewLexer(input)
	var tokens []Token
	for {
		t, err := l.Next()
		if err == io.EOF {
			return tokens, nil
		}
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, t)
	}
}

const eof rune = -1

// Actions

func lexHexadecimal(l *Lexer) lActionFn {
	if !l.accept(hexadecimal) {
		return l.errorf("bad number syntax %q", l.current())
	}
	l.acceptRun(hexadecimal)
	return lexNumberEndCheck
}

func lexBinary(l *Lexer) lActionFn {
	if !l.accept("01") {
		return l.errorf("bad number syntax %q", l.current())
	}
	l.acceptRun("01")
	return lexNumberEndCheck
}

func lexNumberEndCheck(l *Lexer) lActionFn {
	if l.accept(alphabetic + numeric + "_.") {
		return l.errorf("bad number syntax %q", l.current())
	}

	l.emit(TokValue)

	return lexWS
}

func lexNumber(l *Lexer) lActionFn {
	l.backup()

	if l.accept("0") {
		if l.accept("xX") {
			return lexHexadecimal
		}
		if l.accept("bB") {
			return lexBinary
		}
	}

	l.acceptRun(numeric)

	if l.accept(".") {
		l.acceptRun(numeric)
	}

	if l.current() == "." {
		return l.errorf("bad number syntax %q", l.current())
	}

	if l.accept("eE") {
		l.accept("+-")
		if !l.accept(numeric) {
			return l.errorf("bad number syntax %q", l.current())
		}
		l.acceptRun(numeric)
	}

	return lexNumberEndCheck
}

func lexIdentifier(l *Lexer) lActionFn {
	l.acceptRun(alphabetic + numeric + "_")
	l.emit(TokIdent)
	return lexWS
}

// lexOperator emits the longest registered operator starting at the
// current position.
func lexOperator(l *Lexer) lActionFn {
	l.backup()
	for n := maxOpTokenLen; n > 0; n-- {
		if l.pos+n > len(l.input) {
			continue
		}
		if t, ok := opTokens[l.input[l.pos:l.pos+n]]; ok {
			l.pos += n
			l.emit(t)
			return lexWS
		}
	}
	ru := l.next()
	return l.errorf("invalid token %q found", string(ru))
}

func lexWS(l *Lexer) lActionFn {
	var ru rune
	for {
		ru = l.next()
		if !unicode.IsSpace(ru) {
			break
		}
	}
	//we peek the last char
	l.backup()

	//we ignore all data
	l.ignore()

	if ru == eof {
		return nil
	}

	if l.accept(numeric + ".") {
		return lexNumber
	}

	if l.accept(alphabetic + "_") {
		return lexIdentifier
	}

	if l.accept(opRunes) {
		return lexOperator
	}

	//check for runes
	ru = l.next() //we know it is not eof
	if action, ok := runeToken[ru]; ok {
		return action
	}

	return l.errorf("unexpected rune %q", string(ru))
}

// static data

const numeric = "0123456789"

const hexadecimal = numeric + "abcdefABCDEF"

const alphabetic = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

// opRunes are the runes an operator token can be made of.
const opRunes = "+-*/%^@&|<>=!~"

var runeToken = make(map[rune]lActionFn)

var opTokens = make(map[string]TokenType)

var maxOpTokenLen int

func registerRuneToken(ru rune, t TokenType) {
	runeToken[ru] = func(l *Lexer) lActionFn {
		l.emit(t)
		return lexWS
	}
}

func registerOpToken(op string, t TokenType) error {
	if len(op) == 0 {
		return fmt.Errorf("invalid operator syntax %q", op)
	}
	for _, ru := range op {
		if !strings.ContainsRune(opRunes, ru) {
			return fmt.Errorf("invalid operator syntax %q", op)
		}
	}
	opTokens[op] = t
	if len(op) > maxOpTokenLen {
		maxOpTokenLen = len(op)
	}
	return nil
}

func mustRegisterOpToken(op string, t TokenType) {
	if err := registerOpToken(op, t); err != nil {
		panic("cannot register operator token: " + err.Error())
	}
}

func init() {
	mustRegisterOpToken("+", TokPlus)
	mustRegisterOpToken("-", TokMinus)
	mustRegisterOpToken("*", TokMult)
	mustRegisterOpToken("/", TokDivide)
	mustRegisterOpToken("%", TokModulo)
	mustRegisterOpToken("^", TokPower)
	mustRegisterOpToken("**", TokPower)
	registerRuneToken('(', TokOParen)
	registerRuneToken(')', TokCParen)
	registerRuneToken(',', TokComma)
}

// helpers

func (l *Lexer) current() string {
	return l.input[l.start:l.pos]
}

func (l *Lexer) emit(t TokenType) {
	l.tokens <- Token{Type: t, Value: l.current(), Pos: l.start}
	l.ignore()
}

func (l *Lexer) errorf(format string, args ...interface{}) lActionFn {
	if len(l.errors) == 0 {
		l.errors <- &ParseError{
			Input:   l.input,
			Pos:     l.start,
			Message: fmt.Sprintf(format, args...),
		}
	}
	return nil
}

func (l *Lexer) next() rune {
	if l.pos >= len(l.input) {
		l.width = 0
		return eof
	}
	var ru rune
	ru, l.width = utf8.DecodeRuneInString(l.input[l.pos:])
	l.pos += l.width
	return ru
}

func (l *Lexer) backup() {
	l.pos -= l.width
}

func (l *Lexer) ignore() {
	l.start = l.pos
}

func (l *Lexer) accept(valid string) bool {
	if strings.ContainsRune(valid, l.next()) {
		return true
	}
	l.backup()
	return false
}

func (l *Lexer) acceptRun(valid string) {
	for strings.ContainsRune(valid, l.next()) {
	}
	l.backup()
}
