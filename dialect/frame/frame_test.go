package frame

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const peopleYAML = `
columns:
  - name: name
    values: [alice, bob, carol, dave]
  - name: age
    values: [34, 28, 41, 19]
  - name: active
    values: [true, false, true, true]
`

func decodePeople(t *testing.T) *Frame {
	t.Helper()

	f, err := Decode(strings.NewReader(peopleYAML))
	if err != nil {
		t.Fatalf("decode error: %v", err)
	}

	return f
}

func TestDecode(t *testing.T) {
	f := decodePeople(t)

	if got := f.Rows(); got != 4 {
		t.Errorf("expected 4 rows, got %d", got)
	}

	want := []string{"name", "age", "active"}
	if diff := cmp.Diff(want, f.Names()); diff != "" {
		t.Errorf("column names mismatch (-want +got):\n%s", diff)
	}
}

func TestDecode_Ragged(t *testing.T) {
	const ragged = `
columns:
  - name: a
    values: [1, 2]
  - name: b
    values: [1]
`

	_, err := Decode(strings.NewReader(ragged))
	if !errors.Is(err, ErrRaggedFrame) {
		t.Fatalf("expected ErrRaggedFrame, got %v", err)
	}
}

func TestDecode_DuplicateColumn(t *testing.T) {
	const dup = `
columns:
  - name: a
    values: [1]
  - name: a
    values: [2]
`

	_, err := Decode(strings.NewReader(dup))
	if !errors.Is(err, ErrDuplicateColumn) {
		t.Fatalf("expected ErrDuplicateColumn, got %v", err)
	}
}

func TestFilter(t *testing.T) {
	tests := []struct {
		name      string
		predicate string
		wantNames []any
	}{
		{
			name:      "numeric comparison",
			predicate: "age > 30",
			wantNames: []any{"alice", "carol"},
		},
		{
			name:      "boolean column",
			predicate: "active",
			wantNames: []any{"alice", "carol", "dave"},
		},
		{
			name:      "conjunction",
			predicate: "active && age < 40",
			wantNames: []any{"alice", "dave"},
		},
		{
			name:      "string comparison",
			predicate: `name == "bob"`,
			wantNames: []any{"bob"},
		},
		{
			name:      "no matches",
			predicate: "age > 100",
			wantNames: []any{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := decodePeople(t)

			got, err := Filter(context.Background(), f, tt.predicate)
			if err != nil {
				t.Fatalf("filter error: %v", err)
			}

			names, err := Select(got, []string{"name"})
			if err != nil {
				t.Fatalf("select error: %v", err)
			}

			values := names.Columns[0].Values
			if values == nil {
				values = []any{}
			}

			if diff := cmp.Diff(tt.wantNames, values); diff != "" {
				t.Errorf("matched rows mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFilter_InputUnchanged(t *testing.T) {
	f := decodePeople(t)

	if _, err := Filter(context.Background(), f, "age > 30"); err != nil {
		t.Fatalf("filter error: %v", err)
	}

	if got := f.Rows(); got != 4 {
		t.Errorf("input frame mutated: %d rows", got)
	}
}

func TestFilter_NonBooleanPredicate(t *testing.T) {
	f := decodePeople(t)

	_, err := Filter(context.Background(), f, "age + 1")
	if err == nil {
		t.Fatalf("expected error for non-boolean predicate")
	}
}

func TestFilter_UnknownColumn(t *testing.T) {
	f := decodePeople(t)

	if _, err := Filter(context.Background(), f, "salary > 10"); err == nil {
		t.Fatalf("expected compile error for unknown column")
	}
}

func TestFilter_EmptyFrame(t *testing.T) {
	f := &Frame{Columns: []Column{{Name: "a"}}}

	got, err := Filter(context.Background(), f, "a > 0")
	if err != nil {
		t.Fatalf("filter error: %v", err)
	}

	if got.Rows() != 0 {
		t.Errorf("expected empty result, got %d rows", got.Rows())
	}
}

func TestSelect(t *testing.T) {
	f := decodePeople(t)

	got, err := Select(f, []string{"age", "name"})
	if err != nil {
		t.Fatalf("select error: %v", err)
	}

	want := []string{"age", "name"}
	if diff := cmp.Diff(want, got.Names()); diff != "" {
		t.Errorf("projection mismatch (-want +got):\n%s", diff)
	}

	if _, err := Select(f, []string{"missing"}); !errors.Is(err, ErrUnknownColumn) {
		t.Fatalf("expected ErrUnknownColumn, got %v", err)
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	f := decodePeople(t)

	var buf bytes.Buffer
	if err := f.EncodeYAML(context.Background(), &buf); err != nil {
		t.Fatalf("encode error: %v", err)
	}

	again, err := Decode(&buf)
	if err != nil {
		t.Fatalf("decode error: %v", err)
	}

	if diff := cmp.Diff(f, again); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestEncodeJSON(t *testing.T) {
	f := decodePeople(t)

	var buf bytes.Buffer
	if err := f.EncodeJSON(&buf); err != nil {
		t.Fatalf("encode error: %v", err)
	}

	if !strings.Contains(buf.String(), `"name": "age"`) {
		t.Errorf("expected column metadata in JSON output:\n%s", buf.String())
	}
}
