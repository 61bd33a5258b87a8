package lang

import (
	"fmt"
	"maps"
	"strings"
)

// Resolver computes the output value for a call node given its
// already-resolved argument values.
type Resolver func(call *CallSite) (any, error)

// CallSite carries a call node's operator name, resolved argument values,
// and source position to a Resolver.
type CallSite struct {
	Op    string
	Args  []any
	Named []NamedValue
	Pos   Pos
}

// NamedValue is a resolved keyword argument.
type NamedValue struct {
	Name  string
	Value any
}

// NamedMap returns the keyword arguments as a map.
// Later duplicates win, matching resolution order.
func (c *CallSite) NamedMap() map[string]any {
	if len(c.Named) == 0 {
		return nil
	}

	m := make(map[string]any, len(c.Named))
	for _, nv := range c.Named {
		m[nv.Name] = nv.Value
	}

	return m
}

// Scope layer names, in priority order from most to least specific.
const (
	ScopeSymbols     = "symbols"
	ScopeIdentifiers = "identifiers"
	ScopeOperators   = "operators"
	ScopeFallback    = "fallback"
)

// Scope is one immutable layer of a resolution environment: a mapping from
// name to either a plain value or a Resolver.
type Scope struct {
	name  string
	table map[string]any
}

// NewScope creates a scope layer with a private copy of the given table.
func NewScope(name string, table map[string]any) Scope {
	return Scope{name: name, table: maps.Clone(table)}
}

// Name returns the layer name assigned at construction.
func (s Scope) Name() string { return s.name }

// Lookup returns the binding for name within this single layer.
func (s Scope) Lookup(name string) (any, bool) {
	v, ok := s.table[name]

	return v, ok
}

// Env is an ordered chain of scopes consulted most-specific first.
// It is constructed once per expression and never mutated afterward, so a
// single Env may be shared by concurrent resolutions.
type Env struct {
	scopes   []Scope
	fallback Resolver
	strict   bool
}

// EnvOption configures environment construction.
type EnvOption func(*envConfig)

// envConfig collects the inputs to NewEnv before layering.
type envConfig struct {
	symbols      map[string]any
	operators    map[string]Resolver
	identDefault func(name string) any
	fallback     Resolver
	strict       bool
}

// WithSymbols binds the known symbol table: explicit domain vocabulary that
// wins over every other layer.
func WithSymbols(symbols map[string]any) EnvOption {
	return func(c *envConfig) {
		c.symbols = symbols
	}
}

// WithOperators binds the known operator table consulted for call heads.
func WithOperators(operators map[string]Resolver) EnvOption {
	return func(c *envConfig) {
		c.operators = operators
	}
}

// WithIdentDefault sets the rule that binds identifiers literally present in
// the expression but absent from the symbol table. The default rule binds
// each identifier to its own name.
func WithIdentDefault(rule func(name string) any) EnvOption {
	return func(c *envConfig) {
		c.identDefault = rule
	}
}

// WithFallback sets the catch-all resolver invoked for operator names not
// present in the operator table. The fallback must never fail to resolve;
// it guarantees totality. The default fallback deparses the call generically
// as "op(arg, ...)".
func WithFallback(fallback Resolver) EnvOption {
	return func(c *envConfig) {
		c.fallback = fallback
	}
}

// WithStrict converts any fallback-layer hit into an error instead of a
// resolution: identifiers absent from the symbol table raise ErrUnknownName,
// and operators absent from the operator table do likewise rather than
// routing through the fallback resolver.
func WithStrict(strict bool) EnvOption {
	return func(c *envConfig) {
		c.strict = strict
	}
}

// NewEnv assembles the layered resolution environment for one expression.
//
// Layering order, highest priority first:
//  1. known symbols,
//  2. identifiers present in the expression, bound by the default rule,
//  3. known operators,
//  4. the fallback resolver for any other operator name.
//
// Every identifier and operator in the expression is guaranteed to resolve
// unless strict mode is enabled.
func NewEnv(e *Expr, opts ...EnvOption) *Env {
	cfg := envConfig{
		identDefault: func(name string) any { return name },
		fallback:     deparseFallback,
	}

	for _, opt := range opts {
		opt(&cfg)
	}

	idents := make(map[string]any)

	if e != nil {
		for name := range Identifiers(e) {
			idents[name] = cfg.identDefault(name)
		}
	}

	operators := make(map[string]any, len(cfg.operators))
	for name, resolve := range cfg.operators {
		operators[name] = resolve
	}

	return &Env{
		scopes: []Scope{
			NewScope(ScopeSymbols, cfg.symbols),
			NewScope(ScopeIdentifiers, idents),
			NewScope(ScopeOperators, operators),
		},
		fallback: cfg.fallback,
		strict:   cfg.strict,
	}
}

// Scopes returns the scope chain in priority order.
func (env *Env) Scopes() []Scope { return env.scopes }

// Strict reports whether fallback-layer hits raise errors.
func (env *Env) Strict() bool { return env.strict }

// Lookup walks the scope chain for name, most-specific first.
// The name of the matching layer is returned alongside the binding.
func (env *Env) Lookup(name string) (value any, scope string, ok bool) {
	for _, s := range env.scopes {
		if v, ok := s.Lookup(name); ok {
			return v, s.name, true
		}
	}

	return nil, "", false
}

// lookupOperator finds the Resolver bound to an operator name.
// Scope bindings that are not resolvers are skipped so that a symbol and an
// operator may share a name without shadowing each other.
func (env *Env) lookupOperator(name string) (Resolver, string, bool) {
	for _, s := range env.scopes {
		v, ok := s.Lookup(name)
		if !ok {
			continue
		}

		if resolve, ok := v.(Resolver); ok {
			return resolve, s.name, true
		}
	}

	return env.fallback, ScopeFallback, env.fallback != nil
}

// deparseFallback is the default catch-all resolver.
// It renders an unknown call generically so resolution stays total.
func deparseFallback(call *CallSite) (any, error) {
	parts := make([]string, 0, len(call.Args)+len(call.Named))

	for _, arg := range call.Args {
		parts = append(parts, fmt.Sprint(arg))
	}

	for _, nv := range call.Named {
		parts = append(parts, nv.Name+" = "+fmt.Sprint(nv.Value))
	}

	return call.Op + "(" + strings.Join(parts, ", ") + ")", nil
}
