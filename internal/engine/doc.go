// Package engine runs the redaction pipeline over an ordered file set.
//
// [Process] fans per-file classification, span detection and redaction
// decisions out to a bounded errgroup, collects results by index, and then
// assembles the kept and removed documents on a single goroutine in file
// order. The returned [Report] totals lines, removals by reason and pages,
// and carries warnings such as unterminated block comments.
package engine
