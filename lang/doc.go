// Package lang captures expressions as immutable trees and resolves them
// against layered lookup environments.
//
// Capture and resolution are separate steps. ParseString (or ParseReader)
// turns source text into an *Expr tree without evaluating anything. NewEnv
// layers the lookup environment for one expression: known symbols first,
// then identifiers present in the expression, then known operators, then a
// catch-all fallback that keeps resolution total. Resolve walks the tree
// bottom-up, replacing identifiers through the scope chain and invoking a
// Resolver for every call node.
//
// Trees are never mutated after capture, so a single captured expression may
// be resolved concurrently against any number of environments.
package lang
