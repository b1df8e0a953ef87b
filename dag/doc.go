// Package dag builds the dependency graph between command targets and
// derives execution orders from it.
//
// Node identity is the absolute dotted path of a command; a dependency shared
// by several targets is a single node. Two orderings are available:
//   - Schedule: the depth-first, post-order walk used for execution
//   - Levels: Kahn-style grouping by dependency depth, used for display
package dag
