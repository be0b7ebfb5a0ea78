// Package logging configures structured logging for bookindex.
//
// Debug runs log JSON to a size-rotated file under ~/.bookindex/logs; normal
// runs log warnings to stderr. Each CLI invocation carries a run id that
// FromContext attaches to every record.
package logging
