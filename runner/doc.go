// Package runner executes a schedule of command targets.
//
// Every target in the schedule is resolved and every exec line expanded
// before the first subprocess starts, so a bad placeholder fails the whole
// run without side effects. Targets then run one at a time in schedule order,
// each exec line through "<shell> -c <line>".
//
// Two failure policies are available. FailFast (the default) stops at the
// first non-zero exit. SkipDependents keeps going with targets that do not
// depend, directly or transitively, on a failed target and returns the
// first failure at the end.
package runner
