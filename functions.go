package meval

import (
	"math"
	"sort"
)

type function struct {
	name    string
	arity   int
	evaluer callEvaluer
}

func operatorFromFunction(f *function, pos int) operator {
	return operator{
		oType: opFunction,
		name:  f.name,
		pos:   pos,
		card:  f.arity,
		fn:    f,
		poper: func(out *outQueue) Expression {
			args := make([]Expression, f.arity)
			for i := f.arity - 1; i >= 0; i-- {
				args[i] = out.unsafePop()
			}
			return &callExp{
				name:    f.name,
				args:    args,
				evaluer: f.evaluer,
			}
		},
	}
}

var functions = make(map[string]*function)

var constants = map[string]float64{
	"pi": math.Pi,
	"e":  math.E,
	"E":  math.E,
}

func registerFunction(name string, arity int, evaluer callEvaluer) {
	functions[name] = &function{name: name, arity: arity, evaluer: evaluer}
}

func registerUnaryFunction(name string, evaluer func(float64) float64) {
	registerFunction(name, 1, func(args []float64) (float64, error) {
		return evaluer(args[0]), nil
	})
}

func registerBinaryFunction(name string, evaluer func(float64, float64) float64) {
	registerFunction(name, 2, func(args []float64) (float64, error) {
		return evaluer(args[0], args[1]), nil
	})
}

// Functions returns the names of the functions a statement can call,
// sorted.
func Functions() []string {
	names := make([]string, 0, len(functions))
	for n := range functions {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// IsReserved reports whether name is a function or a constant name,
// and thus cannot be used as a variable.
func IsReserved(name string) bool {
	_, isFunction := functions[name]
	_, isConstant := constants[name]
	return isFunction || isConstant
}

func sign(a float64) float64 {
	switch {
	case a > 0:
		return 1
	case a < 0:
		return -1
	}
	return 0
}

func init() {
	registerUnaryFunction("sin", math.Sin)
	registerUnaryFunction("cos", math.Cos)
	registerUnaryFunction("tan", math.Tan)
	registerUnaryFunction("asin", math.Asin)
	registerUnaryFunction("acos", math.Acos)
	registerUnaryFunction("atan", math.Atan)
	registerUnaryFunction("sinh", math.Sinh)
	registerUnaryFunction("cosh", math.Cosh)
	registerUnaryFunction("tanh", math.Tanh)
	registerUnaryFunction("asinh", math.Asinh)
	registerUnaryFunction("acosh", math.Acosh)
	registerUnaryFunction("atanh", math.Atanh)
	registerUnaryFunction("sqrt", math.Sqrt)
	registerUnaryFunction("cbrt", math.Cbrt)
	registerUnaryFunction("exp", math.Exp)
	registerUnaryFunction("ln", math.Log)
	registerUnaryFunction("log", math.Log)
	registerUnaryFunction("log10", math.Log10)
	registerUnaryFunction("log2", math.Log2)
	registerUnaryFunction("abs", math.Abs)
	registerUnaryFunction("Abs", math.Abs)
	registerUnaryFunction("ceil", math.Ceil)
	registerUnaryFunction("ceiling", math.Ceil)
	registerUnaryFunction("floor", math.Floor)
	registerUnaryFunction("round", math.RoundToEven)
	registerUnaryFunction("sign", sign)

	registerBinaryFunction("atan2", math.Atan2)
	registerBinaryFunction("hypot", math.Hypot)
	registerBinaryFunction("min", math.Min)
	registerBinaryFunction("max", math.Max)
	registerFunction("pow", 2, func(args []float64) (float64, error) { return power(args[0], args[1]) })
	registerFunction("mod", 2, func(args []float64) (float64, error) { return modulo(args[0], args[1]) })

	registerFunction("pi", 0, func([]float64) (float64, error) { return math.Pi, nil })
}
