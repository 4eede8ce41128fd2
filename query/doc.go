// Package query defines the read descriptors accepted by lookout and the
// compiler that turns structured descriptors into parameterized SQL.
//
// A Descriptor is one of two variants:
//
//   - Query: a structured description of a single-table SELECT. The
//     compiler assembles the statement; callers never write SQL.
//   - RawQuery: an opaque statement the caller wrote, together with the
//     explicit set of tables whose changes invalidate it.
//
// The variant set is sealed: consumers dispatch with a type switch and
// can rely on it being exhaustive.
//
// # Parameterization
//
// Values are never interpolated into statements. Structured filters carry
// their parameters in Query.Args and compile to "?" placeholders; raw
// statements carry theirs in RawQuery.Args.
package query
