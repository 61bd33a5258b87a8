package lang

import (
	"maps"
	"slices"
)

// Identifiers returns the distinct identifier names referenced anywhere in
// the tree. An expression with no identifiers yields an empty set.
func Identifiers(e *Expr) map[string]struct{} {
	names := make(map[string]struct{})

	for node := range e.All() {
		if node.Kind == KindIdent {
			names[node.Name] = struct{}{}
		}
	}

	return names
}

// Operators returns the distinct operator names applied by call nodes
// anywhere in the tree, including nested call arguments.
func Operators(e *Expr) map[string]struct{} {
	names := make(map[string]struct{})

	for node := range e.All() {
		if node.Kind == KindCall {
			names[node.Name] = struct{}{}
		}
	}

	return names
}

// IdentifierNames returns the identifier set of Identifiers sorted by name.
func IdentifierNames(e *Expr) []string {
	return slices.Sorted(maps.Keys(Identifiers(e)))
}

// OperatorNames returns the operator set of Operators sorted by name.
func OperatorNames(e *Expr) []string {
	return slices.Sorted(maps.Keys(Operators(e)))
}
