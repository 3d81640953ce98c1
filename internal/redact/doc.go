// Package redact decides, line by line, what a filing document keeps and
// what it removes.
//
// [Decide] applies the enabled [Rules] to one file's classified lines and
// comment spans and returns exactly one [Decision] per line. Rules are
// applied in precedence order: file header, multi-line block comments,
// foreign-language comments, then stride sampling of single-line comments.
// Sampling is deterministic: with ratio R every R-th eligible line of a
// file is dropped, so the same input always yields the same decisions.
//
// A trailing comment on a code line is never dropped with its code. Such
// lines get an [ActionSplit] decision that keeps the code prefix and drops
// the comment suffix. Code after a block closer is kept the same way with
// [ActionSplitHead].
package redact
