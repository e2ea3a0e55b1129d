package core

// EnsureLen returns a slice with the requested length, reusing buf capacity if possible.
func EnsureLen(buf []float64, n int) []float64 {
	if n <= 0 {
		return buf[:0]
	}
	if cap(buf) >= n {
		return buf[:n]
	}
	return make([]float64, n)
}

// EnsurePlanar returns a channels x frames grid, reusing the rows of buf
// where their capacity allows. Rows are not zeroed.
func EnsurePlanar(buf [][]float64, channels, frames int) [][]float64 {
	if channels <= 0 {
		return buf[:0]
	}
	if cap(buf) < channels {
		grown := make([][]float64, channels)
		copy(grown, buf)
		buf = grown
	}
	buf = buf[:channels]
	for c := range buf {
		buf[c] = EnsureLen(buf[c], frames)
	}
	return buf
}

// Zero sets all values in buf to 0.
func Zero(buf []float64) {
	for i := range buf {
		buf[i] = 0
	}
}

// CopyInto copies src into dst and returns the number of copied elements.
func CopyInto(dst, src []float64) int {
	n := len(dst)
	if len(src) < n {
		n = len(src)
	}
	copy(dst[:n], src[:n])
	return n
}

// CopyFromFloat32 widens src into dst and returns the number of copied elements.
func CopyFromFloat32(dst []float64, src []float32) int {
	n := len(dst)
	if len(src) < n {
		n = len(src)
	}
	for i := 0; i < n; i++ {
		dst[i] = float64(src[i])
	}
	return n
}

// CopyToFloat32 narrows src into dst and returns the number of copied elements.
func CopyToFloat32(dst []float32, src []float64) int {
	n := len(dst)
	if len(src) < n {
		n = len(src)
	}
	for i := 0; i < n; i++ {
		dst[i] = float32(src[i])
	}
	return n
}
