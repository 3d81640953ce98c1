// Package output formats run reports for display or machine consumption.
//
// Four formats are supported:
//   - text: human-readable terminal summary (default)
//   - json: full structured report
//   - yaml: the same structure as json, for filing archives
//   - markdown: summary and per-file table for attaching to a filing
//
// Use [GetWriter] to obtain a [Writer] for a given format string, then call
// [Writer.Write] with an [io.Writer] and an [*engine.Report]. [WriteReport]
// handles destination selection.
package output
