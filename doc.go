// Package bench implements a template generation engine: it compiles a
// template containing embedded <?gen.KIND ...?> processing instructions into
// a tree of segment nodes, then walks that tree to emit bytes, driving
// iteration counts and value selection with configurable statistical
// distributions (uniform, serial, context, Zipf, log-decay).
//
// Design policy:
//   - Keep the compiled-tree API (ParseFile, ParseString, SetVariables,
//     Generate, GenerateToString) in this root package; put the statistical
//     primitives under internal/engine, and pluggable variable/word-list
//     input formats under source/.
//   - The CLI wrapper under cmd/gentmpl is a thin client of this package, not
//     part of the core engine.
//
// Typical usage:
//
//	tree, err := bench.ParseFile("order.tmpl")
//	tree.SetVariables("{region=west,year=2026}")
//	n, err := tree.Generate(0, out)
package bench
