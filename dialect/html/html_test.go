package html

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/ardnew/qex/lang"
)

func TestRender(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "simple tag",
			input: `p("hello")`,
			want:  "<p>hello</p>",
		},
		{
			name:  "empty tag",
			input: "div()",
			want:  "<div></div>",
		},
		{
			name:  "nested tags",
			input: `p("a", b("x"))`,
			want:  "<p>a<b>x</b></p>",
		},
		{
			name:  "attribute from named argument",
			input: `p("a", class = "wide")`,
			want:  `<p class="wide">a</p>`,
		},
		{
			name:  "multiple attributes keep source order",
			input: `a("link", href = "x", id = "y")`,
			want:  `<a href="x" id="y">link</a>`,
		},
		{
			name:  "literal text is escaped",
			input: `p("<script>")`,
			want:  "<p>&lt;script&gt;</p>",
		},
		{
			name:  "attribute value is escaped",
			input: `p("a", title = "x \"y\"")`,
			want:  `<p title="x &#34;y&#34;">a</p>`,
		},
		{
			name:  "identifier becomes text",
			input: "p(name)",
			want:  "<p>name</p>",
		},
		{
			name:  "void tag",
			input: "br()",
			want:  "<br />",
		},
		{
			name:  "void tag with attribute",
			input: `img(src = "a.png")`,
			want:  `<img src="a.png" />`,
		},
		{
			name:  "unknown tag renders generically",
			input: `widget("x")`,
			want:  "<widget>x</widget>",
		},
		{
			name:  "numeric child",
			input: "span(42)",
			want:  "<span>42</span>",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Render(context.Background(), tt.input)
			if err != nil {
				t.Fatalf("render error: %v", err)
			}

			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestRender_NestedMarkupNotEscaped(t *testing.T) {
	// The inner tag renders to markup, which the outer tag must embed
	// verbatim rather than escape.
	got, err := Render(context.Background(), `div(p("x"), span("y"))`)
	if err != nil {
		t.Fatalf("render error: %v", err)
	}

	if got != "<div><p>x</p><span>y</span></div>" {
		t.Errorf("unexpected nesting: %q", got)
	}
}

func TestRender_VoidTagRejectsChildren(t *testing.T) {
	_, err := Render(context.Background(), `br("x")`)

	var ae *lang.ArityError
	if !errors.As(err, &ae) {
		t.Fatalf("expected *ArityError, got %T: %v", err, err)
	}

	if ae.Op != "br" {
		t.Errorf("expected br in arity report, got %q", ae.Op)
	}
}

func TestRender_Strict(t *testing.T) {
	_, err := Render(context.Background(), `widget("x")`, lang.WithStrict(true))
	if !errors.Is(err, lang.ErrUnknownName) {
		t.Fatalf("expected ErrUnknownName, got %v", err)
	}
}

func TestTags_SortedAndComplete(t *testing.T) {
	names := Tags()

	if !slices.IsSorted(names) {
		t.Errorf("expected sorted tag names")
	}

	for _, want := range []string{"p", "div", "br", "img"} {
		if !slices.Contains(names, want) {
			t.Errorf("expected %q in tag set", want)
		}
	}
}
