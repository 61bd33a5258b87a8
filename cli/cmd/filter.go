package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/ardnew/qex/dialect/frame"
	"github.com/ardnew/qex/log"
)

// Filter evaluates a row predicate against a YAML data frame and writes the
// matching rows.
type Filter struct {
	Data   string   `default:"-"    help:"YAML data frame file, or '-' for stdin." short:"d"`
	Output string   `default:"yaml" enum:"json,yaml" help:"Output encoding."       short:"o"`
	Cols   []string `help:"Project onto these columns after filtering."            short:"c"`

	Predicate string `arg:"" help:"Row predicate expression." name:"predicate"`
}

// Run executes the filter command.
func (f *Filter) Run(ctx context.Context) error {
	return f.run(ctx, stdoutFrom(ctx))
}

func (f *Filter) run(ctx context.Context, w io.Writer) error {
	var in io.ReadCloser = os.Stdin

	if f.Data != "-" {
		file, err := os.Open(f.Data)
		if err != nil {
			return ErrReadData.Wrap(err).
				With(slog.String("path", f.Data))
		}
		defer file.Close()

		in = file
	}

	data, err := frame.Decode(in)
	if err != nil {
		return err
	}

	out, err := frame.Filter(ctx, data, f.Predicate)
	if err != nil {
		return err
	}

	if len(f.Cols) > 0 {
		out, err = frame.Select(out, f.Cols)
		if err != nil {
			return err
		}
	}

	log.TraceContext(ctx, "filtered frame",
		slog.String("predicate", f.Predicate),
		slog.Int("rows_in", data.Rows()),
		slog.Int("rows_out", out.Rows()),
	)

	if f.Output == "json" {
		err = out.EncodeJSON(w)
	} else {
		err = out.EncodeYAML(ctx, w)
	}

	if err != nil {
		return ErrWriteOutput.Wrap(err)
	}

	return nil
}
