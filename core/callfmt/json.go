package callfmt

import (
	"encoding/json"
	"fmt"

	"github.com/aledsdavies/callbind/core/ast"
	"github.com/aledsdavies/callbind/core/types"
)

// JSONCall is the JSON document for a call. Unlike the canonical form it
// keeps source spans.
type JSONCall struct {
	Head       JSONExpr             `json:"head"`
	Span       types.Span           `json:"span"`
	Positional []JSONExpr           `json:"positional,omitempty"`
	Named      map[string]JSONNamed `json:"named,omitempty"`
}

// JSONNamed is one named-argument outcome
type JSONNamed struct {
	Kind  string    `json:"kind"`
	Value *JSONExpr `json:"value,omitempty"`
}

// JSONExpr is one expression
type JSONExpr struct {
	Type  string     `json:"type"`
	Span  types.Span `json:"span"`
	Value any        `json:"value,omitempty"`
	Items []JSONExpr `json:"items,omitempty"`
	Call  *JSONCall  `json:"call,omitempty"`
}

// ToJSON builds the JSON document for call
func ToJSON(call *ast.Call, source string) (*JSONCall, error) {
	head, err := toJSONExpr(call.Head, source)
	if err != nil {
		return nil, fmt.Errorf("head: %w", err)
	}

	jc := &JSONCall{Head: head, Span: call.Loc}
	for i, expr := range call.Positional {
		je, err := toJSONExpr(expr, source)
		if err != nil {
			return nil, fmt.Errorf("positional %d: %w", i, err)
		}
		jc.Positional = append(jc.Positional, je)
	}

	if call.Named.Len() > 0 {
		jc.Named = make(map[string]JSONNamed, call.Named.Len())
		for _, name := range call.Named.Names() {
			v := call.Named.Entries[name]
			jn := JSONNamed{Kind: v.Kind.String()}
			if v.Kind == ast.Value {
				je, err := toJSONExpr(v.Expr, source)
				if err != nil {
					return nil, fmt.Errorf("--%s: %w", name, err)
				}
				jn.Value = &je
			}
			jc.Named[name] = jn
		}
	}
	return jc, nil
}

func toJSONExpr(expr ast.Expression, source string) (JSONExpr, error) {
	je := JSONExpr{Type: expr.Kind().String(), Span: expr.Span()}

	switch e := expr.(type) {
	case *ast.BareLiteral:
		je.Value = e.Loc.Slice(source)
	case *ast.StringLiteral:
		je.Value = e.Value(source)
	case *ast.IntLiteral:
		je.Value = e.Value
	case *ast.NumberLiteral:
		je.Value = e.Value
	case *ast.PathLiteral:
		je.Value = e.Path
	case *ast.PatternLiteral:
		je.Value = e.Pattern
	case *ast.FlagLiteral:
		je.Value = e.Flag.Prefix() + e.Name
	case *ast.Variable:
		je.Value = e.Name.Slice(source)
	case *ast.Block:
		items, err := toJSONAll(e.Body, source)
		if err != nil {
			return JSONExpr{}, err
		}
		je.Items = items
	case *ast.List:
		items, err := toJSONAll(e.Items, source)
		if err != nil {
			return JSONExpr{}, err
		}
		je.Items = items
	case *ast.Call:
		jc, err := ToJSON(e, source)
		if err != nil {
			return JSONExpr{}, err
		}
		je.Call = jc
	default:
		return JSONExpr{}, fmt.Errorf("unsupported expression %T", expr)
	}
	return je, nil
}

func toJSONAll(exprs []ast.Expression, source string) ([]JSONExpr, error) {
	out := make([]JSONExpr, 0, len(exprs))
	for i, expr := range exprs {
		je, err := toJSONExpr(expr, source)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		out = append(out, je)
	}
	return out, nil
}

// JSON renders call as indented JSON
func JSON(call *ast.Call, source string) ([]byte, error) {
	jc, err := ToJSON(call, source)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(jc, "", "  ")
}

// PipelineJSON renders every call of a pipeline as a JSON array
func PipelineJSON(calls []*ast.Call, source string) ([]byte, error) {
	docs := make([]*JSONCall, 0, len(calls))
	for i, call := range calls {
		jc, err := ToJSON(call, source)
		if err != nil {
			return nil, fmt.Errorf("call %d: %w", i, err)
		}
		docs = append(docs, jc)
	}
	return json.MarshalIndent(docs, "", "  ")
}
