// Package yakefile reads target definitions from YAML.
//
// A Yakefile has a root meta mapping (doc plus free metadata such as
// version), a root env list and a targets mapping. Each target carries a meta
// mapping with doc, type (group or cmd) and, for commands, depends; any other
// meta key is metadata. Groups nest further targets, commands list exec lines.
// Declaration order of every targets mapping is preserved.
package yakefile
