//go:build !orcdebug

package freader

// assertInBounds is a no-op outside of the orcdebug build tag: the DWARF
// parser is trusted to stay within declared section lengths, matching
// SPEC_FULL.md §4.A's "debug-time assertion guards pos <= limit."
func assertInBounds(r *Reader, n int) {}
