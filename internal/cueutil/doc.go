// SPDX-License-Identifier: MPL-2.0

// Package cueutil validates configuration data against embedded CUE
// schemas.
//
// Data arrives either as CUE or JSON source (JSON is valid CUE) or as an
// already-decoded Go value, for formats CUE cannot read itself. Both paths
// share the same steps: compile the schema, unify the data with a schema
// definition, validate, then decode.
//
//	res, err := cueutil.ParseAndDecode[map[string]any](
//		schema, data, "#Config",
//		cueutil.WithFilename("indexify.conf.json"),
//		cueutil.WithConcrete(false),
//	)
package cueutil
