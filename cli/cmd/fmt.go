package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/ardnew/qex/lang"
)

// Fmt parses an expression and formats its tree in the chosen format.
type Fmt struct {
	Native Native `cmd:"" default:"withargs" help:"Format as expression syntax (default)."`
	JSON   JSON   `cmd:""                    help:"Format as JSON."`
	YAML   YAML   `cmd:""                    help:"Format as YAML."`
	AST    AST    `cmd:""                    help:"Format as an indented syntax tree."`
}

// parseSource captures the expression named by source: a file path, or "-"
// for stdin.
func parseSource(ctx context.Context, source, format string) (*lang.Expr, error) {
	var file *os.File

	if source == "-" {
		file = os.Stdin
	} else {
		var err error

		file, err = os.Open(source)
		if err != nil {
			return nil, err
		}
		defer file.Close()
	}

	expr, err := lang.ParseReader(ctx, bufio.NewReader(file))
	if err != nil {
		return nil, lang.WrapError(err).
			With(slog.String("format", format))
	}

	return expr, nil
}

// Native formats input as expression syntax.
type Native struct {
	Source string `arg:"" default:"-" help:"Source input file or '-' for default stdin." name:"source"`
}

// Run executes the native command.
func (f *Native) Run(ctx context.Context) error {
	expr, err := parseSource(ctx, f.Source, "native")
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(stdoutFrom(ctx), expr.Format())

	return err
}

// JSON formats input as a JSON tree.
type JSON struct {
	Source string `arg:"" default:"-" help:"Source input file or '-' for default stdin." name:"source"`
}

// Run executes the json command.
func (j *JSON) Run(ctx context.Context) error {
	expr, err := parseSource(ctx, j.Source, "json")
	if err != nil {
		return err
	}

	out, err := lang.FormatJSON(expr)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(stdoutFrom(ctx), out)

	return err
}

// YAML formats input as a YAML tree.
type YAML struct {
	Source string `arg:"" default:"-" help:"Source input file or '-' for default stdin." name:"source"`
}

// Run executes the yaml command.
func (y *YAML) Run(ctx context.Context) error {
	expr, err := parseSource(ctx, y.Source, "yaml")
	if err != nil {
		return err
	}

	out, err := lang.FormatYAML(ctx, expr)
	if err != nil {
		return err
	}

	_, err = fmt.Fprint(stdoutFrom(ctx), out)

	return err
}

// AST formats input as an indented syntax tree.
type AST struct {
	Source string `arg:"" default:"-" help:"Source input file or '-' for default stdin." name:"source"`
}

// Run executes the ast command.
func (a *AST) Run(ctx context.Context) error {
	expr, err := parseSource(ctx, a.Source, "ast")
	if err != nil {
		return err
	}

	return writeTree(stdoutFrom(ctx), expr, 0)
}

// writeTree prints one node per line, indented by depth.
func writeTree(w io.Writer, e *lang.Expr, depth int) error {
	indent := strings.Repeat("  ", depth)

	var err error

	switch e.Kind {
	case lang.KindLiteral:
		_, err = fmt.Fprintf(w, "%sLiteral %#v\n", indent, e.Value)

	case lang.KindIdent:
		_, err = fmt.Fprintf(w, "%sIdent %s\n", indent, e.Name)

	case lang.KindCall:
		_, err = fmt.Fprintf(w, "%sCall %s\n", indent, e.Name)
	}

	if err != nil {
		return err
	}

	for _, arg := range e.Args {
		if err := writeTree(w, arg, depth+1); err != nil {
			return err
		}
	}

	for _, named := range e.Named {
		if _, err := fmt.Fprintf(
			w, "%s  %s =\n", indent, named.Name,
		); err != nil {
			return err
		}

		if err := writeTree(w, named.Value, depth+2); err != nil {
			return err
		}
	}

	return nil
}
