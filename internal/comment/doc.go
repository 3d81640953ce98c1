// Package comment classifies source lines as code or comment and groups
// comment lines into spans.
//
// Comment syntax is looked up per language from a declarative table keyed
// by language tag ([Lookup]); files with unknown extensions use [Fallback],
// which recognises "#" and "//" line comments only. Classification is
// lexical: a [Classifier] folds a file's lines left to right, threading a
// [State] that records whether a block comment is open. Lines that match
// nothing are [Code]; nothing is ever discarded here.
//
// [Detect] turns classified lines into non-overlapping [Span] values. A
// [ScriptTagger] tags comment text as native or foreign by the share of
// letters outside the project's native Unicode script.
package comment
