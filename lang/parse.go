package lang

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"unicode"
)

// tokenKind enumerates the lexical token classes of the expression syntax.
type tokenKind int

const (
	tokEOF tokenKind = iota
	tokNumber
	tokString
	tokBool
	tokIdent
	tokOp
	tokLParen
	tokRParen
	tokComma
	tokAssign
)

// String returns a human-readable token class name for error messages.
func (k tokenKind) String() string {
	switch k {
	case tokEOF:
		return "end of input"
	case tokNumber:
		return "number"
	case tokString:
		return "string"
	case tokBool:
		return "boolean"
	case tokIdent:
		return "identifier"
	case tokOp:
		return "operator"
	case tokLParen:
		return "("
	case tokRParen:
		return ")"
	case tokComma:
		return ","
	case tokAssign:
		return "="
	default:
		return "unknown"
	}
}

// token is a single lexeme with its source location.
type token struct {
	kind tokenKind
	text string
	pos  Pos
}

// lexer produces tokens from expression source text.
type lexer struct {
	src  []rune
	off  int
	line int
	col  int
}

func newLexer(src string) *lexer {
	return &lexer{src: []rune(src), line: 1, col: 1}
}

// pos returns the current source location.
func (l *lexer) pos() Pos { return Pos{Line: l.line, Col: l.col} }

// advance consumes one rune, tracking line and column.
func (l *lexer) advance() rune {
	r := l.src[l.off]
	l.off++

	if r == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}

	return r
}

// peek returns the next rune without consuming it, or -1 at end of input.
func (l *lexer) peek() rune {
	if l.off >= len(l.src) {
		return -1
	}

	return l.src[l.off]
}

// next scans and returns the next token.
func (l *lexer) next() (token, error) {
	for l.off < len(l.src) && unicode.IsSpace(l.peek()) {
		l.advance()
	}

	start := l.pos()

	if l.off >= len(l.src) {
		return token{kind: tokEOF, pos: start}, nil
	}

	r := l.peek()

	switch {
	case unicode.IsDigit(r):
		return l.scanNumber(start)

	case r == '"':
		return l.scanString(start)

	case unicode.IsLetter(r) || r == '_':
		return l.scanIdent(start)
	}

	l.advance()

	switch r {
	case '+', '-', '*', '/', '^':
		return token{kind: tokOp, text: string(r), pos: start}, nil

	case '(':
		return token{kind: tokLParen, text: "(", pos: start}, nil

	case ')':
		return token{kind: tokRParen, text: ")", pos: start}, nil

	case ',':
		return token{kind: tokComma, text: ",", pos: start}, nil

	case '=':
		return token{kind: tokAssign, text: "=", pos: start}, nil
	}

	return token{}, NewParseError(
		"unexpected character "+strconv.QuoteRune(r),
		start,
	)
}

// scanNumber scans an integer or floating-point literal.
func (l *lexer) scanNumber(start Pos) (token, error) {
	var b strings.Builder

	for l.off < len(l.src) && unicode.IsDigit(l.peek()) {
		b.WriteRune(l.advance())
	}

	if l.peek() == '.' {
		b.WriteRune(l.advance())

		for l.off < len(l.src) && unicode.IsDigit(l.peek()) {
			b.WriteRune(l.advance())
		}
	}

	if r := l.peek(); r == 'e' || r == 'E' {
		b.WriteRune(l.advance())

		if r := l.peek(); r == '+' || r == '-' {
			b.WriteRune(l.advance())
		}

		if !unicode.IsDigit(l.peek()) {
			return token{}, NewParseError(
				"malformed exponent in number literal",
				l.pos(),
				"digit",
			)
		}

		for l.off < len(l.src) && unicode.IsDigit(l.peek()) {
			b.WriteRune(l.advance())
		}
	}

	return token{kind: tokNumber, text: b.String(), pos: start}, nil
}

// scanString scans a double-quoted string literal with escape sequences.
func (l *lexer) scanString(start Pos) (token, error) {
	var b strings.Builder

	b.WriteRune(l.advance()) // opening quote

	for {
		if l.off >= len(l.src) {
			return token{}, NewParseError(
				"unterminated string literal",
				start,
				`"`,
			)
		}

		r := l.advance()
		b.WriteRune(r)

		if r == '\\' {
			if l.off >= len(l.src) {
				return token{}, NewParseError(
					"unterminated escape sequence",
					l.pos(),
				)
			}

			b.WriteRune(l.advance())

			continue
		}

		if r == '"' {
			break
		}
	}

	text, err := strconv.Unquote(b.String())
	if err != nil {
		return token{}, NewParseError(
			"invalid string literal: "+err.Error(),
			start,
		)
	}

	return token{kind: tokString, text: text, pos: start}, nil
}

// scanIdent scans an identifier or boolean keyword.
func (l *lexer) scanIdent(start Pos) (token, error) {
	var b strings.Builder

	for l.off < len(l.src) {
		r := l.peek()
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' {
			break
		}

		b.WriteRune(l.advance())
	}

	text := b.String()
	if text == "true" || text == "false" {
		return token{kind: tokBool, text: text, pos: start}, nil
	}

	return token{kind: tokIdent, text: text, pos: start}, nil
}

// binaryPrec maps binary operator names to their precedence level.
// Higher binds tighter. "^" is right-associative; all others left.
var binaryPrec = map[string]int{
	"+": 1,
	"-": 1,
	"*": 2,
	"/": 2,
	"^": 3,
}

// OperatorPrecedence returns the binding precedence of a binary operator
// name, or 0 when the name is not a binary operator. Used by the deparser to
// decide where grouping parentheses are required.
func OperatorPrecedence(name string) int {
	return binaryPrec[name]
}

// parser consumes a token stream and builds an Expr tree.
type parser struct {
	toks   []token
	pos    int
	cfg    config
	source string
	depth  int
}

// parse captures an expression from source text.
// This is the internal, uncached entry point; see ParseString.
func parse(ctx context.Context, source string, cfg config) (*Expr, error) {
	cfg.logger.TraceContext(
		ctx,
		"parse start",
		slog.Int("source_length", len(source)),
	)

	lex := newLexer(source)

	var toks []token

	for {
		tok, err := lex.next()
		if err != nil {
			attachSource(err, source)

			return nil, err
		}

		toks = append(toks, tok)

		if tok.kind == tokEOF {
			break
		}
	}

	p := &parser{toks: toks, cfg: cfg, source: source}

	expr, err := p.parseExpr(1)
	if err != nil {
		attachSource(err, source)

		return nil, err
	}

	if tok := p.peek(); tok.kind != tokEOF {
		err := NewParseError(
			"unexpected trailing input "+strconv.Quote(tok.text),
			tok.pos,
			tokEOF.String(),
		)
		attachSource(err, source)

		return nil, err
	}

	cfg.logger.TraceContext(
		ctx,
		"parse complete",
		slog.Int("token_count", len(toks)-1),
	)

	return expr, nil
}

// attachSource attaches the source text to a ParseError for snippets.
func attachSource(err error, source string) {
	if pe, ok := err.(*ParseError); ok {
		pe.Source = source
	}
}

func (p *parser) peek() token { return p.toks[p.pos] }

func (p *parser) advance() token {
	tok := p.toks[p.pos]
	if tok.kind != tokEOF {
		p.pos++
	}

	return tok
}

// enter tracks nesting depth to bound the recursive descent.
func (p *parser) enter() error {
	p.depth++
	if p.depth > p.cfg.opts.maxDepth {
		return ErrMaxDepthExceeded.With(
			slog.Int("depth", p.depth),
			slog.Int("max_depth", p.cfg.opts.maxDepth),
		)
	}

	return nil
}

func (p *parser) leave() { p.depth-- }

// parseExpr parses a binary expression with precedence climbing.
func (p *parser) parseExpr(minPrec int) (*Expr, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}

	for {
		tok := p.peek()
		if tok.kind != tokOp {
			return left, nil
		}

		prec := binaryPrec[tok.text]
		if prec < minPrec {
			return left, nil
		}

		p.advance()

		// "^" is right-associative: recurse at the same precedence.
		nextMin := prec + 1
		if tok.text == "^" {
			nextMin = prec
		}

		right, err := p.parseExpr(nextMin)
		if err != nil {
			return nil, err
		}

		left = &Expr{
			Kind: KindCall,
			Name: tok.text,
			Args: []*Expr{left, right},
			Pos:  tok.pos,
		}
	}
}

// parseUnary parses an optional prefix sign before a primary expression.
func (p *parser) parseUnary() (*Expr, error) {
	tok := p.peek()

	if tok.kind == tokOp && (tok.text == "-" || tok.text == "+") {
		p.advance()

		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}

		if tok.text == "+" {
			return operand, nil
		}

		// Fold sign into numeric literals; otherwise capture as neg(x).
		if operand.Kind == KindLiteral {
			switch v := operand.Value.(type) {
			case int64:
				operand.Value = -v

				return operand, nil

			case float64:
				operand.Value = -v

				return operand, nil
			}
		}

		return &Expr{
			Kind: KindCall,
			Name: "neg",
			Args: []*Expr{operand},
			Pos:  tok.pos,
		}, nil
	}

	return p.parsePrimary()
}

// parsePrimary parses a literal, identifier, call, or parenthesized group.
func (p *parser) parsePrimary() (*Expr, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	tok := p.advance()

	switch tok.kind {
	case tokNumber:
		return p.parseNumber(tok)

	case tokString:
		return &Expr{Kind: KindLiteral, Value: tok.text, Pos: tok.pos}, nil

	case tokBool:
		return &Expr{
			Kind:  KindLiteral,
			Value: tok.text == "true",
			Pos:   tok.pos,
		}, nil

	case tokIdent:
		if p.peek().kind == tokLParen {
			return p.parseCall(tok)
		}

		return &Expr{Kind: KindIdent, Name: tok.text, Pos: tok.pos}, nil

	case tokLParen:
		expr, err := p.parseExpr(1)
		if err != nil {
			return nil, err
		}

		if closing := p.advance(); closing.kind != tokRParen {
			return nil, NewParseError(
				"unbalanced parenthesis",
				closing.pos,
				tokRParen.String(),
			)
		}

		return expr, nil
	}

	return nil, NewParseError(
		"unexpected "+tok.kind.String(),
		tok.pos,
		tokNumber.String(),
		tokString.String(),
		tokIdent.String(),
		tokLParen.String(),
	)
}

// parseNumber converts a scanned number literal to int64 or float64.
func (p *parser) parseNumber(tok token) (*Expr, error) {
	if i, err := strconv.ParseInt(tok.text, 10, 64); err == nil {
		return &Expr{Kind: KindLiteral, Value: i, Pos: tok.pos}, nil
	}

	f, err := strconv.ParseFloat(tok.text, 64)
	if err != nil {
		return nil, NewParseError(
			"invalid number literal "+strconv.Quote(tok.text),
			tok.pos,
		)
	}

	return &Expr{Kind: KindLiteral, Value: f, Pos: tok.pos}, nil
}

// parseCall parses the argument list of a call whose head has been consumed.
// Positional and keyword arguments may interleave; source order is kept.
func (p *parser) parseCall(head token) (*Expr, error) {
	p.advance() // consume "("

	call := &Expr{Kind: KindCall, Name: head.text, Pos: head.pos}

	if p.peek().kind == tokRParen {
		p.advance()

		return call, nil
	}

	for {
		// A keyword argument is an identifier immediately followed by "=".
		if tok := p.peek(); tok.kind == tokIdent &&
			p.toks[p.pos+1].kind == tokAssign {
			p.advance() // identifier
			p.advance() // "="

			value, err := p.parseExpr(1)
			if err != nil {
				return nil, err
			}

			call.Named = append(call.Named, NamedArg{
				Name:  tok.text,
				Value: value,
			})
		} else {
			arg, err := p.parseExpr(1)
			if err != nil {
				return nil, err
			}

			call.Args = append(call.Args, arg)
		}

		switch next := p.advance(); next.kind {
		case tokComma:
			continue

		case tokRParen:
			return call, nil

		default:
			return nil, NewParseError(
				"unexpected "+next.kind.String()+" in argument list",
				next.pos,
				tokComma.String(),
				tokRParen.String(),
			)
		}
	}
}
