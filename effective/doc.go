// Package effective computes the configuration a command actually runs with:
// metadata and environment merged from the root down to the target, and exec
// lines with their {{namespace.key}} placeholders expanded.
//
// Placeholders are expanded in a single left-to-right pass. Substituted values
// are inserted literally and never rescanned, so a value containing "{{" is
// safe. The namespaces are:
//
//	meta.<key>    effective metadata, e.g. {{meta.version}}
//	env.<KEY>     effective target environment, last assignment wins
//	params.<key>  invocation parameters (yake -p key=value)
//	target.path   absolute dotted path of the target
//	target.name   local name of the target
package effective
