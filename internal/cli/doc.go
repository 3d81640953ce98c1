// Package cli wires together the Cobra command tree for the codereg binary.
//
// It defines the root command and all subcommands (generate, scan, classify,
// config, cache, version), binds flags to config keys, invokes the engine,
// and returns deterministic exit codes:
//
//	0  success
//	1  warnings were produced and --strict is set
//	2  usage error
//	3  invalid configuration
//	4  runtime or write failure
package cli
