package histogram

import (
	"encoding/binary"
	"io"
)

// Bins is the number of buckets, one per byte value.
const Bins = 256

// EncodedSize is the length of the raw encoding written by WriteTo.
const EncodedSize = Bins * 4

// Histogram holds one counter per byte value.
type Histogram [Bins]uint32

// Total returns the sum of all counters.
func (h *Histogram) Total() uint64 {
	var total uint64
	for _, c := range h {
		total += uint64(c)
	}
	return total
}

// Add adds every counter of other into h.
func (h *Histogram) Add(other *Histogram) {
	for v, c := range other {
		h[v] += c
	}
}

// WriteTo writes the 256 counters as raw uint32 values in native byte
// order, with no header or separators.
func (h *Histogram) WriteTo(w io.Writer) (int64, error) {
	var buf [EncodedSize]byte
	for v, c := range h {
		binary.NativeEndian.PutUint32(buf[v*4:], c)
	}

	n, err := w.Write(buf[:])
	return int64(n), err
}

// ReadFrom reads exactly EncodedSize bytes written by WriteTo. A short
// input returns io.ErrUnexpectedEOF (or io.EOF if r was empty).
func (h *Histogram) ReadFrom(r io.Reader) (int64, error) {
	var buf [EncodedSize]byte
	n, err := io.ReadFull(r, buf[:])
	if err != nil {
		return int64(n), err
	}

	for v := range h {
		h[v] = binary.NativeEndian.Uint32(buf[v*4:])
	}
	return int64(n), nil
}
