//go:build orcdebug

package freader

func assertInBounds(r *Reader, n int) {
	if r.pos < 0 || r.pos+n > r.lim {
		panic("freader: read out of bounds")
	}
}
