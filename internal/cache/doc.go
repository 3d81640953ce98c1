// Package cache stores per-file scan results (line count, language, text
// check) on disk so repeated scans of a large tree skip unchanged files.
//
// A [Key] covers the file's absolute path, size and modification time plus
// the read options that change its line count (blank-line handling and
// source encoding). Entries record an absolute expiry when a TTL is set and
// are deleted when read past it. The default directory is
// $XDG_CACHE_HOME/codereg or the platform's user cache directory.
package cache
