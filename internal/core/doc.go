// Package core provides the business logic for translating Office documents.
//
// This package holds all domain logic independent of any UI or transport
// layer. It is used by the web server and the command line tool alike.
//
// # Architecture
//
// The package is organized around several key concepts:
//
//   - Kind Definitions: registered via the registry, each kind names the file
//     extensions it accepts, the package entries that hold text and the
//     [TextLocator] that finds text runs inside them.
//   - Walker: visits a parsed part depth-first and substitutes translated text
//     into every translatable run, in document order.
//   - Transform: opens a package, walks every matching part and writes the
//     package back with all other entries byte-for-byte unchanged.
//   - Service: the entry point for requests. It validates input, limits
//     concurrency, bounds each transform with a timeout and records jobs.
//
// # Kind Registry
//
// Kinds are registered at init time using [Register]. The kinds package
// registers pptx and docx:
//
//	core.Register(core.KindDefinition{
//	    Key:           "pptx",
//	    Extensions:    []string{".pptx"},
//	    EntryPatterns: []*regexp.Regexp{regexp.MustCompile(`^ppt/slides/[^/]+\.xml$`)},
//	    Locator:       core.RunLocator{Run: xmltree.Name{Space: "a", Local: "t"}},
//	})
//
// # Failure Isolation
//
// A part that cannot be parsed is logged, counted in [Stats.PartsFailed] and
// copied unchanged. A failed translation call keeps the source text. Only an
// unreadable package, a failed write, a full limiter or an expired deadline
// fail a request.
//
// # Error Handling
//
// Technical errors are mapped to user-friendly messages using [MapError].
// Each error category has a unique code for support reference:
//
//   - FILE001-FILE006: File errors (size, missing, empty, unsupported type)
//   - PKG001-PKG003: Package errors (not a zip, write failure, oversized part)
//   - UPL002-UPL005: Request errors (busy, cancelled, timed out)
//   - JOB001-JOB002: Job history errors
//
// # Job History
//
// Every request that reaches kind resolution is recorded through a
// [JobStore]. [PgJobStore] persists records in PostgreSQL and
// [Service.StartHistoryPruner] deletes old ones; [MemoryJobStore] keeps
// recent records in process.
package core
