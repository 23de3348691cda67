// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

// ParseResult is a successfully validated and decoded input.
type ParseResult[T any] struct {
	Value *T
	// Unified is the data unified with the schema definition.
	Unified cue.Value
}

// ParseAndDecode compiles data as CUE (or JSON), unifies it with the
// definition at defPath in schema, validates it and decodes it into T.
func ParseAndDecode[T any](schema string, data []byte, defPath string, opts ...Option) (*ParseResult[T], error) {
	o := applyOptions(opts)
	if err := CheckFileSize(data, o.maxFileSize, o.filename); err != nil {
		return nil, err
	}

	ctx := cuecontext.New()
	def, err := lookupDefinition(ctx, schema, defPath)
	if err != nil {
		return nil, err
	}

	user := ctx.CompileBytes(data, cue.Filename(o.filename))
	if user.Err() != nil {
		return nil, FormatError(user.Err(), o.filename)
	}
	return decodeUnified[T](def.Unify(user), o)
}

// EncodeAndDecode validates an already-decoded Go value (for example a map
// read from TOML) against the definition at defPath and decodes it into T.
func EncodeAndDecode[T any](schema string, value any, defPath string, opts ...Option) (*ParseResult[T], error) {
	o := applyOptions(opts)

	ctx := cuecontext.New()
	def, err := lookupDefinition(ctx, schema, defPath)
	if err != nil {
		return nil, err
	}

	user := ctx.Encode(value)
	if user.Err() != nil {
		return nil, FormatError(user.Err(), o.filename)
	}
	return decodeUnified[T](def.Unify(user), o)
}

func applyOptions(opts []Option) parseOptions {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func lookupDefinition(ctx *cue.Context, schema, defPath string) (cue.Value, error) {
	compiled := ctx.CompileString(schema)
	if compiled.Err() != nil {
		return cue.Value{}, fmt.Errorf("internal error: compile schema: %w", compiled.Err())
	}
	def := compiled.LookupPath(cue.ParsePath(defPath))
	if def.Err() != nil {
		return cue.Value{}, fmt.Errorf("internal error: schema definition %s: %w", defPath, def.Err())
	}
	return def, nil
}

func decodeUnified[T any](unified cue.Value, o parseOptions) (*ParseResult[T], error) {
	if err := unified.Validate(cue.Concrete(o.concrete)); err != nil {
		return nil, FormatError(err, o.filename)
	}
	var out T
	if err := unified.Decode(&out); err != nil {
		return nil, FormatError(err, o.filename)
	}
	return &ParseResult[T]{Value: &out, Unified: unified}, nil
}
