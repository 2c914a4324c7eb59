// Package core provides the business logic for loading and parsing the book list.
//
// This package holds all domain logic independent of any UI or transport
// layer. It is used by the web server, the csvtohtml command, and tests
// without modification.
//
// # Pipeline
//
// A single run is load → parse → map, executed by [Service.Catalog]:
//
//  1. A [Loader] fetches the raw [Document] from a location (local path,
//     file://, http(s):// or s3://). Non-success outcomes become a [LoadError].
//  2. [ParseRows] splits the text into lines, drops the header line and scans
//     each remaining line into a [Row]. Parsing never fails.
//  3. [BooksFromRows] reads each row through the column [Schema] into a [Book].
//
// Runs share no mutable state; calling Catalog twice yields two independent
// results. An optional [LoadLimiter] bounds how many runs read the source at
// once, and [CheckHeader] reports header drift without failing the run.
//
// # Row Parsing
//
// Each line is scanned by a two-state machine (unquoted, quoted):
//
//	a,"b,c",d      → ["a", "b,c", "d"]
//	"  x  ",y      → ["x", "y"]
//	a,"open,b      → ["a", "open,b"]
//
// Quote characters toggle the state and are never emitted. Doubled quotes
// are not an escape, and a quoted field cannot span lines.
//
// # Error Handling
//
// Technical errors are mapped to user-friendly messages using [MapError].
// Each error category has a code for support reference:
//
//   - LOAD001-LOAD007: source loading (not found, denied, upstream, unreachable, size, timeout, busy)
//   - PIPE001: unexpected failure while building the table data
//   - RATE001: rate limited
//   - ERR000: anything else
package core
