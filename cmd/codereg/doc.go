// Codereg prepares source code for software copyright registration.
//
// It reads a source tree, orders the files, removes comments by configurable
// rules and writes two documents: the paginated filing document with a
// "name version" page header, and an audit document listing every removed
// line by path and line number.
//
// Usage:
//
//	codereg scan .                              # files in document order, estimated pages
//	codereg generate . --name Demo --strip-header --sample 3
//	codereg generate src --format pdf --pdf-font /path/to/NotoSansSC.ttf
//	codereg classify main.c --strip-block       # per-line labels and decisions
//	codereg config set redaction.samplingRatio 3
package main
