package lang

import (
	"iter"

	"github.com/ardnew/qex/log"
)

// Kind indicates the variant of an expression node.
type Kind int

const (
	// KindLiteral represents a self-evaluating constant value.
	KindLiteral Kind = iota

	// KindIdent represents an identifier reference resolved by name.
	KindIdent

	// KindCall represents an operator applied to ordered arguments.
	KindCall
)

// String returns a string representation of the node kind.
func (k Kind) String() string {
	switch k {
	case KindLiteral:
		return "Literal"

	case KindIdent:
		return "Ident"

	case KindCall:
		return "Call"

	default:
		return "Unknown"
	}
}

// Pos locates a node within its source text.
// The zero value means the node was constructed programmatically.
type Pos struct {
	Line int
	Col  int
}

// IsZero reports whether the position carries no source location.
func (p Pos) IsZero() bool { return p.Line == 0 && p.Col == 0 }

// NamedArg is a keyword argument of a call node.
type NamedArg struct {
	Name  string
	Value *Expr
}

// Expr is a captured expression node: a literal, an identifier reference, or
// an operator call over sub-expressions.
//
// An Expr tree is acyclic and never mutated after capture. Exactly one of the
// payload fields is meaningful based on Kind.
type Expr struct {
	Kind  Kind
	Value any        // literal payload (KindLiteral)
	Name  string     // identifier or operator name (KindIdent, KindCall)
	Args  []*Expr    // positional arguments (KindCall)
	Named []NamedArg // keyword arguments, in source order (KindCall)
	Pos   Pos
}

// Lit constructs a literal node holding the given value.
func Lit(v any) *Expr {
	return &Expr{Kind: KindLiteral, Value: v}
}

// Ident constructs an identifier reference node.
func Ident(name string) *Expr {
	return &Expr{Kind: KindIdent, Name: name}
}

// Call constructs a call node applying the named operator to the given
// positional arguments.
func Call(name string, args ...*Expr) *Expr {
	return &Expr{Kind: KindCall, Name: name, Args: args}
}

// WithNamed returns the receiver with a keyword argument appended.
// It is intended for programmatic construction only and must not be used on
// trees that have already been captured or shared.
func (e *Expr) WithNamed(name string, value *Expr) *Expr {
	e.Named = append(e.Named, NamedArg{Name: name, Value: value})

	return e
}

// All returns an iterator over every node in the tree, preorder.
// Each subtree is visited exactly once, including keyword argument values.
func (e *Expr) All() iter.Seq[*Expr] {
	return func(yield func(*Expr) bool) {
		e.walk(yield)
	}
}

// walk implements the preorder traversal behind All.
func (e *Expr) walk(yield func(*Expr) bool) bool {
	if e == nil {
		return true
	}

	if !yield(e) {
		return false
	}

	for _, arg := range e.Args {
		if !arg.walk(yield) {
			return false
		}
	}

	for _, named := range e.Named {
		if !named.Value.walk(yield) {
			return false
		}
	}

	return true
}

// DefaultMaxDepth is the default maximum nesting depth accepted by the
// parser. Users may modify this before parsing to change the default.
var DefaultMaxDepth = 100

// optionsKey holds capture configuration options.
// This type is gob-encodable for cache key hashing.
type optionsKey struct {
	maxDepth int
}

// config carries capture options together with runtime-only state that must
// not affect cache keys.
type config struct {
	opts   optionsKey
	logger log.Logger
}

// Option configures expression capture behavior.
type Option func(*config)

// WithMaxDepth sets the maximum nesting depth accepted by the parser.
func WithMaxDepth(depth int) Option {
	return func(c *config) {
		c.opts.maxDepth = depth
	}
}

// WithLogger sets the structured logger for trace-level debugging.
// If not provided, the logger is zero-valued and all logging is a no-op.
func WithLogger(logger log.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// applyDefaults sets default option values on a config.
func applyDefaults(c *config) {
	c.opts.maxDepth = DefaultMaxDepth
}

// applyOptions applies functional options to a config.
func applyOptions(c *config, opts ...Option) {
	for _, opt := range opts {
		opt(c)
	}
}

// makeConfig builds a config from defaults overridden by the given options.
func makeConfig(opts ...Option) config {
	var c config

	applyDefaults(&c)
	applyOptions(&c, opts...)

	return c
}
