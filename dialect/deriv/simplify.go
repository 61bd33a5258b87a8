package deriv

import "github.com/ardnew/qex/lang"

// Simplify rewrites an expression tree bottom-up through the algebraic
// identities used by the differentiation rules: additive and multiplicative
// units, zero absorption, double negation, and constant folding. The input
// tree is never modified.
func Simplify(e *lang.Expr) *lang.Expr {
	if e == nil || e.Kind != lang.KindCall {
		return e
	}

	args := make([]*lang.Expr, len(e.Args))
	for i, arg := range e.Args {
		args[i] = Simplify(arg)
	}

	switch e.Name {
	case "+":
		if len(args) == 2 {
			return add(args[0], args[1])
		}

	case "-":
		if len(args) == 2 {
			return sub(args[0], args[1])
		}

	case "*":
		if len(args) == 2 {
			return mul(args[0], args[1])
		}

	case "/":
		if len(args) == 2 {
			return div(args[0], args[1])
		}

	case "^":
		if len(args) == 2 {
			return pow(args[0], args[1])
		}

	case "neg":
		if len(args) == 1 {
			return neg(args[0])
		}
	}

	return lang.Call(e.Name, args...)
}

// add builds a + b with unit elimination and constant folding.
func add(a, b *lang.Expr) *lang.Expr {
	switch {
	case isZero(a):
		return b

	case isZero(b):
		return a
	}

	if v, ok := fold(a, b, func(x, y float64) float64 { return x + y }); ok {
		return v
	}

	return lang.Call("+", a, b)
}

// sub builds a - b, negating when the left side vanishes.
func sub(a, b *lang.Expr) *lang.Expr {
	switch {
	case isZero(b):
		return a

	case isZero(a):
		return neg(b)
	}

	if v, ok := fold(a, b, func(x, y float64) float64 { return x - y }); ok {
		return v
	}

	return lang.Call("-", a, b)
}

// mul builds a * b with zero absorption and unit elimination.
func mul(a, b *lang.Expr) *lang.Expr {
	switch {
	case isZero(a) || isZero(b):
		return lang.Lit(int64(0))

	case isOne(a):
		return b

	case isOne(b):
		return a
	}

	if v, ok := fold(a, b, func(x, y float64) float64 { return x * y }); ok {
		return v
	}

	return lang.Call("*", a, b)
}

// div builds a / b. Constants are not folded so exact rationals survive.
func div(a, b *lang.Expr) *lang.Expr {
	switch {
	case isZero(a):
		return lang.Lit(int64(0))

	case isOne(b):
		return a
	}

	return lang.Call("/", a, b)
}

// pow builds a ^ b with unit and zero exponent elimination.
func pow(a, b *lang.Expr) *lang.Expr {
	switch {
	case isZero(b):
		return lang.Lit(int64(1))

	case isOne(b):
		return a
	}

	return lang.Call("^", a, b)
}

// neg builds -a, folding constants and collapsing double negation.
func neg(a *lang.Expr) *lang.Expr {
	if a.Kind == lang.KindCall && a.Name == "neg" && len(a.Args) == 1 {
		return a.Args[0]
	}

	switch v := literal(a).(type) {
	case int64:
		return lang.Lit(-v)

	case float64:
		return lang.Lit(-v)
	}

	return lang.Call("neg", a)
}

// literal returns the numeric payload of a literal node, or nil.
func literal(e *lang.Expr) any {
	if e == nil || e.Kind != lang.KindLiteral {
		return nil
	}

	switch e.Value.(type) {
	case int64, float64:
		return e.Value
	}

	return nil
}

// isZero reports whether e is the numeric literal zero.
func isZero(e *lang.Expr) bool {
	switch v := literal(e).(type) {
	case int64:
		return v == 0

	case float64:
		return v == 0
	}

	return false
}

// isOne reports whether e is the numeric literal one.
func isOne(e *lang.Expr) bool {
	switch v := literal(e).(type) {
	case int64:
		return v == 1

	case float64:
		return v == 1
	}

	return false
}

// fold combines two numeric literals, keeping int64 when both sides are
// integral.
func fold(a, b *lang.Expr, op func(x, y float64) float64) (*lang.Expr, bool) {
	av, bv := literal(a), literal(b)
	if av == nil || bv == nil {
		return nil, false
	}

	ai, aInt := av.(int64)
	bi, bInt := bv.(int64)

	if aInt && bInt {
		return lang.Lit(int64(op(float64(ai), float64(bi)))), true
	}

	return lang.Lit(op(toFloat(av), toFloat(bv))), true
}

// toFloat widens a numeric literal payload to float64.
func toFloat(v any) float64 {
	switch v := v.(type) {
	case int64:
		return float64(v)

	case float64:
		return v
	}

	return 0
}
