package domain

// Zero overwrites each byte slice with zeros. Nil slices are ignored.
func Zero(bufs ...[]byte) {
	for _, b := range bufs {
		clear(b)
	}
}
