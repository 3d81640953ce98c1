// Package source lists and reads the files that make up a filing.
//
// [List] walks a root directory (or asks git for its tracked files) and
// filters the result with doublestar include/exclude globs. [ReadLines]
// rejects non-text content, decodes legacy encodings to UTF-8 and splits
// into lines, dropping blank lines unless asked to keep them. [Load] reads a
// whole file list up front and sets aside unreadable and short files.
// [Count] is the read-only variant used by scans; it consults the stat
// cache.
package source
