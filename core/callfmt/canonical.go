// Package callfmt renders bound calls for people and machines.
//
// Three forms are provided: an indented text tree, a JSON document that keeps
// source spans, and a canonical CBOR encoding used for fingerprints. The
// canonical form drops spans and orders named arguments by name, so two
// invocations that differ only in where the flags were written encode to the
// same bytes.
package callfmt

import (
	"encoding/hex"
	"fmt"

	"github.com/aledsdavies/callbind/core/ast"
	"github.com/aledsdavies/callbind/core/invariant"
	"github.com/fxamacker/cbor/v2"
	"golang.org/x/crypto/blake2b"
)

// canonicalVersion is bumped whenever the canonical layout changes
const canonicalVersion uint8 = 1

// CanonicalCall is the span-free form of a call used for hashing
type CanonicalCall struct {
	Version    uint8            `cbor:"1,keyasint,omitempty"`
	Head       string           `cbor:"2,keyasint"`
	Positional []CanonicalExpr  `cbor:"3,keyasint,omitempty"`
	Named      []CanonicalNamed `cbor:"4,keyasint,omitempty"`
}

// CanonicalNamed is one named-argument outcome. Entries are sorted by Name.
type CanonicalNamed struct {
	Name  string         `cbor:"1,keyasint"`
	Kind  string         `cbor:"2,keyasint"`
	Value *CanonicalExpr `cbor:"3,keyasint,omitempty"`
}

// CanonicalExpr is a union of expression kinds; Type selects the fields used
type CanonicalExpr struct {
	Type   string          `cbor:"1,keyasint"`
	Text   string          `cbor:"2,keyasint,omitempty"` // literal text, string value, path, pattern, flag or variable name
	Int    int64           `cbor:"3,keyasint,omitempty"`
	Number float64         `cbor:"4,keyasint,omitempty"`
	Items  []CanonicalExpr `cbor:"5,keyasint,omitempty"` // block body, list items
	Call   *CanonicalCall  `cbor:"6,keyasint,omitempty"`
}

// Canonicalize converts call to its canonical form, resolving literal text
// against source.
func Canonicalize(call *ast.Call, source string) (*CanonicalCall, error) {
	cc, err := canonicalizeCall(call, source)
	if err != nil {
		return nil, err
	}
	cc.Version = canonicalVersion
	return cc, nil
}

func canonicalizeCall(call *ast.Call, source string) (*CanonicalCall, error) {
	invariant.NotNil(call, "call")

	cc := &CanonicalCall{Head: call.HeadName(source)}
	for i, expr := range call.Positional {
		ce, err := canonicalizeExpr(expr, source)
		if err != nil {
			return nil, fmt.Errorf("positional %d: %w", i, err)
		}
		cc.Positional = append(cc.Positional, ce)
	}

	for _, name := range call.Named.Names() {
		v := call.Named.Entries[name]
		cn := CanonicalNamed{Name: name, Kind: v.Kind.String()}
		if v.Kind == ast.Value {
			ce, err := canonicalizeExpr(v.Expr, source)
			if err != nil {
				return nil, fmt.Errorf("--%s: %w", name, err)
			}
			cn.Value = &ce
		}
		cc.Named = append(cc.Named, cn)
	}
	return cc, nil
}

func canonicalizeExpr(expr ast.Expression, source string) (CanonicalExpr, error) {
	ce := CanonicalExpr{Type: expr.Kind().String()}

	switch e := expr.(type) {
	case *ast.BareLiteral:
		ce.Text = e.Loc.Slice(source)
	case *ast.StringLiteral:
		ce.Text = e.Value(source)
	case *ast.IntLiteral:
		ce.Int = e.Value
	case *ast.NumberLiteral:
		ce.Number = e.Value
	case *ast.PathLiteral:
		ce.Text = e.Path
	case *ast.PatternLiteral:
		ce.Text = e.Pattern
	case *ast.FlagLiteral:
		ce.Text = e.Flag.Prefix() + e.Name
	case *ast.Variable:
		ce.Text = e.Name.Slice(source)
	case *ast.Block:
		items, err := canonicalizeAll(e.Body, source)
		if err != nil {
			return CanonicalExpr{}, err
		}
		ce.Items = items
	case *ast.List:
		items, err := canonicalizeAll(e.Items, source)
		if err != nil {
			return CanonicalExpr{}, err
		}
		ce.Items = items
	case *ast.Call:
		cc, err := canonicalizeCall(e, source)
		if err != nil {
			return CanonicalExpr{}, err
		}
		ce.Call = cc
	default:
		return CanonicalExpr{}, fmt.Errorf("unsupported expression %T", expr)
	}
	return ce, nil
}

func canonicalizeAll(exprs []ast.Expression, source string) ([]CanonicalExpr, error) {
	out := make([]CanonicalExpr, 0, len(exprs))
	for i, expr := range exprs {
		ce, err := canonicalizeExpr(expr, source)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		out = append(out, ce)
	}
	return out, nil
}

// Encode produces the deterministic CBOR encoding. Encoding the same call
// twice yields identical bytes.
func (cc *CanonicalCall) Encode() ([]byte, error) {
	encMode, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		return nil, fmt.Errorf("failed to create CBOR encoder: %w", err)
	}

	data, err := encMode.Marshal(cc)
	if err != nil {
		return nil, fmt.Errorf("CBOR encoding failed: %w", err)
	}
	return data, nil
}

// UnmarshalCanonical decodes bytes produced by MarshalCanonical
func UnmarshalCanonical(data []byte) (*CanonicalCall, error) {
	var cc CanonicalCall
	if err := cbor.Unmarshal(data, &cc); err != nil {
		return nil, fmt.Errorf("CBOR decoding failed: %w", err)
	}
	if cc.Version != canonicalVersion {
		return nil, fmt.Errorf("unsupported canonical version %d (want %d)", cc.Version, canonicalVersion)
	}
	return &cc, nil
}

// MarshalCanonical encodes call in canonical CBOR
func MarshalCanonical(call *ast.Call, source string) ([]byte, error) {
	cc, err := Canonicalize(call, source)
	if err != nil {
		return nil, err
	}
	return cc.Encode()
}

// Digest is the BLAKE2b-256 hash of the canonical encoding
func Digest(call *ast.Call, source string) ([32]byte, error) {
	data, err := MarshalCanonical(call, source)
	if err != nil {
		return [32]byte{}, err
	}
	return blake2b.Sum256(data), nil
}

// DigestHex returns Digest as lowercase hex
func DigestHex(call *ast.Call, source string) (string, error) {
	sum, err := Digest(call, source)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(sum[:]), nil
}
