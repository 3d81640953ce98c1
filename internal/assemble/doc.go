// Package assemble builds the kept and removed documents from per-file
// redaction decisions.
//
// Assembly is a single forward pass in file order with two accumulators.
// Every paragraph records its file, line and part, so the two documents are
// an exact partition of the input: [Reconstruct] merges them back into the
// original lines. Page breaks appear only in the kept document.
package assemble
