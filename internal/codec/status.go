package codec

// statusTable maps a status enum to its single-byte wire discriminant by
// slice position. Unrecognized discriminants decode to the first entry
// rather than failing, so records written by a newer build with extra
// variants still load as the initial status
type statusTable[S ~string] []S

func (t statusTable[S]) discriminant(s S) byte {
	for i, v := range t {
		if v == s {
			return byte(i)
		}
	}
	return 0
}

func (t statusTable[S]) status(b byte) S {
	if int(b) < len(t) {
		return t[b]
	}
	return t[0]
}
