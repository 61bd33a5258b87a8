package lang

import "encoding/json"

// Native converts the expression tree to plain maps and slices suitable for
// any structured encoder. Literal payloads pass through unchanged.
func (e *Expr) Native() map[string]any {
	if e == nil {
		return nil
	}

	m := map[string]any{"kind": e.Kind.String()}

	switch e.Kind {
	case KindLiteral:
		m["value"] = e.Value

	case KindIdent:
		m["name"] = e.Name

	case KindCall:
		m["name"] = e.Name

		if len(e.Args) > 0 {
			args := make([]any, len(e.Args))
			for i, arg := range e.Args {
				args[i] = arg.Native()
			}

			m["args"] = args
		}

		if len(e.Named) > 0 {
			named := make([]any, len(e.Named))
			for i, na := range e.Named {
				named[i] = map[string]any{
					"name":  na.Name,
					"value": na.Value.Native(),
				}
			}

			m["named"] = named
		}
	}

	if !e.Pos.IsZero() {
		m["pos"] = map[string]any{"line": e.Pos.Line, "col": e.Pos.Col}
	}

	return m
}

// MarshalJSON implements json.Marshaler using the Native representation.
func (e *Expr) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.Native())
}

// MarshalYAML implements the yaml interface marshaler using the Native
// representation.
func (e *Expr) MarshalYAML() (any, error) {
	return e.Native(), nil
}
