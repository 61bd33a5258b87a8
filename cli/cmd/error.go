package cmd

import "github.com/ardnew/qex/lang"

// Predefined errors (sentinel values).
var (
	ErrReadData      = lang.NewError("read data frame")
	ErrWriteOutput   = lang.NewError("write output")
	ErrEmptyVariable = lang.NewError("differentiation variable is empty")
)
