package delay

import (
	"fmt"

	"github.com/cwbudde/algo-delay/dsp/core"
)

// Line is a multi-channel circular history with a power-of-two capacity and
// one write cursor shared by all channels.
type Line struct {
	rows   [][]float64
	mask   int
	cursor int
}

// NewLine returns a zero-filled line. capacity must be a power of two.
func NewLine(channels, capacity int) (*Line, error) {
	l := &Line{}
	if err := l.Resize(channels, capacity); err != nil {
		return nil, err
	}
	return l, nil
}

// Resize reshapes the line, reusing row storage where possible. All
// samples are cleared and the cursor returns to 0.
func (l *Line) Resize(channels, capacity int) error {
	if channels <= 0 || channels > MaxChannels {
		return fmt.Errorf("%w: %d", ErrInvalidChannels, channels)
	}
	if !core.IsPowerOfTwo(capacity) {
		return fmt.Errorf("%w: %d", ErrInvalidCapacity, capacity)
	}

	l.rows = core.EnsurePlanar(l.rows, channels, capacity)
	l.mask = capacity - 1
	l.Reset()
	return nil
}

// Channels returns the number of rows.
func (l *Line) Channels() int { return len(l.rows) }

// Capacity returns the samples per row.
func (l *Line) Capacity() int { return l.mask + 1 }

// Mask returns Capacity()-1.
func (l *Line) Mask() int { return l.mask }

// Cursor returns the index the next Write targets.
func (l *Line) Cursor() int { return l.cursor }

// Read returns the sample written delay frames before the cursor on
// channel ch. A delay of 0 reads the slot about to be overwritten.
func (l *Line) Read(ch, delay int) float64 {
	return l.rows[ch][(l.cursor-delay+l.mask+1)&l.mask]
}

// Write stores v at the cursor on channel ch.
func (l *Line) Write(ch int, v float64) {
	l.rows[ch][l.cursor] = v
}

// Advance moves the cursor forward by one frame.
func (l *Line) Advance() {
	l.cursor = (l.cursor + 1) & l.mask
}

// Row returns the live history of channel ch. Callers must not modify it.
func (l *Line) Row(ch int) []float64 {
	return l.rows[ch]
}

// Reset zeroes every row and rewinds the cursor.
func (l *Line) Reset() {
	for _, row := range l.rows {
		core.Zero(row)
	}
	l.cursor = 0
}
