// Package html renders tag-call expressions to HTML text.
//
// Positional arguments become children, named arguments become attributes.
// Literal strings and bare identifiers are escaped; values already produced
// by a tag resolver are trusted markup and pass through unescaped. Unknown
// operators render as generic elements so rendering never fails.
package html

import (
	"context"
	"fmt"
	"html"
	"sort"
	"strings"

	"github.com/ardnew/qex/lang"
)

// Markup is HTML text already rendered by a tag resolver.
// It is not escaped again when nested inside another tag.
type Markup string

// tags is the known element vocabulary.
var tags = []string{
	"a", "b", "blockquote", "body", "code", "div", "em", "h1", "h2", "h3",
	"h4", "head", "html", "i", "li", "ol", "p", "pre", "span", "strong",
	"table", "td", "th", "title", "tr", "ul",
}

// voidTags are elements that never carry children.
var voidTags = []string{"br", "hr", "img", "input", "meta"}

// Tags returns the sorted known element names, void elements included.
func Tags() []string {
	all := make([]string, 0, len(tags)+len(voidTags))
	all = append(all, tags...)
	all = append(all, voidTags...)
	sort.Strings(all)

	return all
}

// Operators returns the known operator table binding every element name to
// its renderer.
func Operators() map[string]lang.Resolver {
	ops := make(map[string]lang.Resolver, len(tags)+len(voidTags))

	for _, tag := range tags {
		ops[tag] = element(tag)
	}

	for _, tag := range voidTags {
		ops[tag] = voidElement(tag)
	}

	return ops
}

// element renders "<tag attrs>children</tag>".
func element(tag string) lang.Resolver {
	return func(call *lang.CallSite) (any, error) {
		var b strings.Builder

		b.WriteString("<" + tag + attributes(call.Named) + ">")

		for _, arg := range call.Args {
			b.WriteString(escape(arg))
		}

		b.WriteString("</" + tag + ">")

		return Markup(b.String()), nil
	}
}

// voidElement renders "<tag attrs />" and rejects children.
func voidElement(tag string) lang.Resolver {
	return func(call *lang.CallSite) (any, error) {
		if len(call.Args) != 0 {
			return nil, lang.NewArityError(call, "0")
		}

		return Markup("<" + tag + attributes(call.Named) + " />"), nil
	}
}

// attributes renders named argument values as escaped attributes, in source
// order with a leading space.
func attributes(named []lang.NamedValue) string {
	var b strings.Builder

	for _, nv := range named {
		b.WriteString(" " + nv.Name + `="`)
		b.WriteString(html.EscapeString(fmt.Sprint(nv.Value)))
		b.WriteString(`"`)
	}

	return b.String()
}

// escape renders a child value, escaping everything except nested markup.
func escape(v any) string {
	if m, ok := v.(Markup); ok {
		return string(m)
	}

	return html.EscapeString(fmt.Sprint(v))
}

// Fallback renders an unknown operator as a generic element.
func Fallback(call *lang.CallSite) (any, error) {
	return element(call.Op)(call)
}

// Render captures source and renders it to HTML.
func Render(ctx context.Context, source string, opts ...lang.EnvOption) (string, error) {
	e, err := lang.ParseString(ctx, source)
	if err != nil {
		return "", err
	}

	return Resolve(ctx, e, opts...)
}

// Resolve renders an already-captured expression to HTML.
func Resolve(ctx context.Context, e *lang.Expr, opts ...lang.EnvOption) (string, error) {
	env := lang.NewEnv(e, append([]lang.EnvOption{
		lang.WithOperators(Operators()),
		lang.WithFallback(Fallback),
	}, opts...)...)

	out, err := lang.Resolve(ctx, e, env)
	if err != nil {
		return "", err
	}

	if m, ok := out.(Markup); ok {
		return string(m), nil
	}

	return escape(out), nil
}
