package lang

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml"
)

// Format deparses the expression back to source text.
//
// Binary calls whose operator name has a precedence render infix, with
// grouping parentheses inserted only where required to preserve the tree
// shape. All other calls render as "name(arg, ...)".
func (e *Expr) Format() string {
	var b strings.Builder

	e.format(&b, 0)

	return b.String()
}

// String implements fmt.Stringer as an alias for Format.
func (e *Expr) String() string {
	if e == nil {
		return "<nil>"
	}

	return e.Format()
}

// format writes the deparsed expression, parenthesizing when the node binds
// looser than the surrounding context.
func (e *Expr) format(b *strings.Builder, parentPrec int) {
	switch e.Kind {
	case KindLiteral:
		b.WriteString(formatLiteral(e.Value))

	case KindIdent:
		b.WriteString(e.Name)

	case KindCall:
		e.formatCall(b, parentPrec)
	}
}

// formatCall renders a call node, infix when the operator is binary.
func (e *Expr) formatCall(b *strings.Builder, parentPrec int) {
	prec := OperatorPrecedence(e.Name)

	if prec > 0 && len(e.Args) == 2 && len(e.Named) == 0 {
		grouped := prec < parentPrec
		if grouped {
			b.WriteString("(")
		}

		// Right operand of a left-associative operator needs parens at equal
		// precedence; "^" is right-associative, so the left operand does.
		leftPrec, rightPrec := prec, prec+1
		if e.Name == "^" {
			leftPrec, rightPrec = prec+1, prec
		}

		e.Args[0].format(b, leftPrec)
		b.WriteString(" " + e.Name + " ")
		e.Args[1].format(b, rightPrec)

		if grouped {
			b.WriteString(")")
		}

		return
	}

	if e.Name == "neg" && len(e.Args) == 1 && len(e.Named) == 0 {
		b.WriteString("-")
		// Bind tighter than any binary operator so the operand groups.
		e.Args[0].format(b, len(binaryPrec)+1)

		return
	}

	b.WriteString(e.Name)
	b.WriteString("(")

	for i, arg := range e.Args {
		if i > 0 {
			b.WriteString(", ")
		}

		arg.format(b, 0)
	}

	for i, named := range e.Named {
		if i > 0 || len(e.Args) > 0 {
			b.WriteString(", ")
		}

		b.WriteString(named.Name + " = ")
		named.Value.format(b, 0)
	}

	b.WriteString(")")
}

// formatLiteral renders a literal payload as source text.
func formatLiteral(v any) string {
	switch v := v.(type) {
	case string:
		return strconv.Quote(v)

	case bool:
		return strconv.FormatBool(v)

	case int64:
		return strconv.FormatInt(v, 10)

	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)

	default:
		return fmt.Sprint(v)
	}
}

// FormatJSON renders the expression tree as indented JSON.
func FormatJSON(e *Expr) (string, error) {
	if e == nil {
		return "", ErrNilExpression
	}

	data, err := json.MarshalIndent(e, "", "  ")
	if err != nil {
		return "", WrapError(err)
	}

	return string(data), nil
}

// FormatYAML renders the expression tree as YAML.
func FormatYAML(ctx context.Context, e *Expr) (string, error) {
	if e == nil {
		return "", ErrNilExpression
	}

	data, err := yaml.MarshalContext(ctx, e)
	if err != nil {
		return "", WrapError(err)
	}

	return string(data), nil
}
