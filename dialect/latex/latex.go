// Package latex translates captured math expressions to LaTeX source.
//
// Known symbols (Greek letters and fixed keywords) win over everything;
// identifiers with no symbol binding pass through as their own name; known
// operators render with infix or function templates; any other operator
// routes through the \mathtt fallback so translation never fails.
package latex

import (
	"context"
	"fmt"
	"strings"

	"github.com/ardnew/qex/lang"
)

// Symbols returns the known symbol table: names that translate to fixed
// LaTeX tokens regardless of any other binding.
func Symbols() map[string]any {
	return map[string]any{
		"pi":      `\pi`,
		"tau":     `\tau`,
		"alpha":   `\alpha`,
		"beta":    `\beta`,
		"gamma":   `\gamma`,
		"delta":   `\delta`,
		"epsilon": `\epsilon`,
		"zeta":    `\zeta`,
		"eta":     `\eta`,
		"theta":   `\theta`,
		"kappa":   `\kappa`,
		"lambda":  `\lambda`,
		"mu":      `\mu`,
		"nu":      `\nu`,
		"xi":      `\xi`,
		"rho":     `\rho`,
		"sigma":   `\sigma`,
		"phi":     `\phi`,
		"chi":     `\chi`,
		"psi":     `\psi`,
		"omega":   `\omega`,
		"inf":     `\infty`,
	}
}

// Operators returns the known operator table: infix arithmetic plus the
// common function templates.
func Operators() map[string]lang.Resolver {
	return map[string]lang.Resolver{
		"+":    lang.Binary(" + "),
		"-":    lang.Binary(" - "),
		"*":    lang.Binary(` \cdot `),
		"/":    lang.Binary(" / "),
		"^":    lang.Binary("^"),
		"neg":  lang.Unary("-", ""),
		"sin":  lang.Unary(`\sin(`, `)`),
		"cos":  lang.Unary(`\cos(`, `)`),
		"tan":  lang.Unary(`\tan(`, `)`),
		"log":  lang.Unary(`\log(`, `)`),
		"exp":  lang.Unary(`\exp(`, `)`),
		"sqrt": lang.Unary(`\sqrt{`, `}`),
		"abs":  lang.Unary(`\left| `, ` \right|`),
		"frac": lang.Fixed(2, func(args []any) (any, error) {
			return fmt.Sprintf(`\frac{%v}{%v}`, args[0], args[1]), nil
		}),
	}
}

// Fallback renders an unknown operator generically as
// "\mathtt{op} \left( args \right )" so translation stays total.
func Fallback(call *lang.CallSite) (any, error) {
	parts := make([]string, 0, len(call.Args)+len(call.Named))

	for _, arg := range call.Args {
		parts = append(parts, fmt.Sprint(arg))
	}

	for _, nv := range call.Named {
		parts = append(parts, nv.Name+" = "+fmt.Sprint(nv.Value))
	}

	return fmt.Sprintf(
		`\mathtt{%s} \left( %s \right )`,
		call.Op,
		strings.Join(parts, ", "),
	), nil
}

// ToMath captures source and translates it to LaTeX.
func ToMath(ctx context.Context, source string, opts ...lang.EnvOption) (string, error) {
	e, err := lang.ParseString(ctx, source)
	if err != nil {
		return "", err
	}

	return Resolve(ctx, e, opts...)
}

// Resolve translates an already-captured expression to LaTeX.
func Resolve(ctx context.Context, e *lang.Expr, opts ...lang.EnvOption) (string, error) {
	env := lang.NewEnv(e, append([]lang.EnvOption{
		lang.WithSymbols(Symbols()),
		lang.WithOperators(Operators()),
		lang.WithFallback(Fallback),
	}, opts...)...)

	out, err := lang.Resolve(ctx, e, env)
	if err != nil {
		return "", err
	}

	return fmt.Sprint(out), nil
}
