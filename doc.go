// Package dlog is a minimal, embeddable diagnostic logging facility.
//
// It provides two independent components sharing one design:
//
//   - Message: a stack-scoped builder that accumulates fields into a single
//     line and commits it exactly once, routing the finished line to a
//     size-capped rotating file and/or a console sink.
//   - Scope: a tracer bound to a function or named region that appends
//     start/end events to a separate diagnostics file together with the
//     process-wide open-scope depth, allowing the next process start to
//     detect an abnormal termination (a crude crash detector).
//
// A Logger owns both file sinks, the console backend, the depth counter, and
// the crash-detection cache. It is intended to be constructed once per
// process and injected wherever logging is needed; concurrent use from any
// number of goroutines is synchronized internally.
//
// Logging calls never return errors, never panic, and never block beyond
// ordinary file I/O. When a sink cannot be opened or written, the write is
// silently dropped; a diagnostic logger that can itself fail loudly would
// defeat its purpose. Configuration APIs do return errors.
package dlog
