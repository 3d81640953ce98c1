// Package document holds the paragraph/page-break model of a filing
// document and renders it to files.
//
// A [Document] is either the kept filing document, paginated with a running
// "name version" header, or the removed audit document, a flat list of
// "path:line" entries after a preamble describing the rules in effect.
//
// Formats:
//   - docx: Office Open XML, Courier New / SimSun
//   - pdf: A4 via fpdf, optional TrueType font for CJK text
//   - txt: plain text, form feed between pages
//   - md: fenced code block per page, "---" between pages
//
// [SaveAll] writes several documents as one unit: every document is rendered
// to a temporary file first and renamed into place only when all renders
// succeeded. Failures are reported as [*WriteError] naming the destination.
package document
