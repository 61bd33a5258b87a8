// Package frame filters column-oriented data by evaluating a predicate once
// per row. Predicates compile once per filter call; each row's column values
// form the evaluation environment for that row.
package frame

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"slices"

	"github.com/goccy/go-yaml"

	"github.com/ardnew/qex/lang"
)

// Predefined errors (sentinel values).
var (
	ErrRaggedFrame     = lang.NewError("columns have unequal lengths")
	ErrUnknownColumn   = lang.NewError("unknown column")
	ErrDuplicateColumn = lang.NewError("duplicate column name")
	ErrPredicate       = lang.NewError("predicate did not evaluate to a boolean")
)

// Column is one named column of values.
type Column struct {
	Name   string `json:"name"   yaml:"name"`
	Values []any  `json:"values" yaml:"values"`
}

// Frame is an ordered set of equal-length columns.
type Frame struct {
	Columns []Column `json:"columns" yaml:"columns"`
}

// Decode reads a YAML frame and validates its shape.
func Decode(r io.Reader) (*Frame, error) {
	var f Frame

	if err := yaml.NewDecoder(r).Decode(&f); err != nil {
		return nil, lang.ErrReadInput.Wrap(err)
	}

	if err := f.Validate(); err != nil {
		return nil, err
	}

	return &f, nil
}

// Validate checks that column names are distinct and lengths are equal.
func (f *Frame) Validate() error {
	seen := make(map[string]struct{}, len(f.Columns))

	for _, col := range f.Columns {
		if _, ok := seen[col.Name]; ok {
			return ErrDuplicateColumn.With(slog.String("column", col.Name))
		}

		seen[col.Name] = struct{}{}

		if len(col.Values) != f.Rows() {
			return ErrRaggedFrame.With(
				slog.String("column", col.Name),
				slog.Int("length", len(col.Values)),
				slog.Int("expected", f.Rows()),
			)
		}
	}

	return nil
}

// Names returns the column names in frame order.
func (f *Frame) Names() []string {
	names := make([]string, len(f.Columns))
	for i, col := range f.Columns {
		names[i] = col.Name
	}

	return names
}

// Rows returns the row count, taken from the first column.
func (f *Frame) Rows() int {
	if len(f.Columns) == 0 {
		return 0
	}

	return len(f.Columns[0].Values)
}

// Row returns the values of row i keyed by column name.
func (f *Frame) Row(i int) map[string]any {
	row := make(map[string]any, len(f.Columns))
	for _, col := range f.Columns {
		row[col.Name] = col.Values[i]
	}

	return row
}

// EncodeYAML writes the frame as YAML.
func (f *Frame) EncodeYAML(ctx context.Context, w io.Writer) error {
	data, err := yaml.MarshalContext(ctx, f)
	if err != nil {
		return lang.WrapError(err)
	}

	_, err = w.Write(data)

	return err
}

// EncodeJSON writes the frame as indented JSON.
func (f *Frame) EncodeJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(f)
}

// Select projects the frame onto the given columns, in the given order.
func Select(f *Frame, cols []string) (*Frame, error) {
	out := &Frame{Columns: make([]Column, 0, len(cols))}

	for _, name := range cols {
		i := slices.IndexFunc(f.Columns, func(c Column) bool {
			return c.Name == name
		})
		if i < 0 {
			return nil, ErrUnknownColumn.With(slog.String("column", name))
		}

		out.Columns = append(out.Columns, Column{
			Name:   name,
			Values: slices.Clone(f.Columns[i].Values),
		})
	}

	return out, nil
}

// empty returns a frame with the same columns and no rows.
func (f *Frame) empty() *Frame {
	out := &Frame{Columns: make([]Column, len(f.Columns))}
	for i, col := range f.Columns {
		out.Columns[i] = Column{Name: col.Name}
	}

	return out
}

// keep returns a frame holding the rows whose indices are listed.
func (f *Frame) keep(rows []int) *Frame {
	out := f.empty()

	for i, col := range f.Columns {
		out.Columns[i].Values = make([]any, 0, len(rows))
		for _, r := range rows {
			out.Columns[i].Values = append(out.Columns[i].Values, col.Values[r])
		}
	}

	return out
}
