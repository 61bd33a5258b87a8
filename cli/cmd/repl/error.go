package repl

import "github.com/ardnew/qex/lang"

// ErrUnknownDialect reports a dialect name with no evaluator.
var ErrUnknownDialect = lang.NewError("unknown dialect")
