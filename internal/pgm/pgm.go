// Package pgm reads and writes 8-bit binary PGM (P5) rasters.
package pgm

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
)

// Magic is the header line of a binary graymap.
const Magic = "P5"

// MaxSampleValue is the largest maxval representable with one byte per
// sample.
const MaxSampleValue = 255

// ErrMalformed wraps every error caused by input that is not an 8-bit P5
// raster, including a header or sample block cut short. Other read errors
// are returned as they are.
var ErrMalformed = errors.New("malformed PGM raster")

// sampleChunk bounds the initial sample buffer; it grows with the data
// actually read, not with the size the header announces.
const sampleChunk = 64 << 10

// Image is a decoded raster. Samples holds Width*Height bytes in row-major
// order and is owned by the caller.
type Image struct {
	Width    uint32
	Height   uint32
	MaxValue uint32
	Samples  []byte
}

// Len returns the number of samples the header announces.
func (img *Image) Len() int {
	return int(img.Width) * int(img.Height)
}

// Decode reads a P5 raster: the magic, width, height and maxval separated
// by whitespace (with '#' comments allowed between them), one whitespace
// byte, then exactly Width*Height sample bytes. Trailing data is ignored.
func Decode(r io.Reader) (*Image, error) {
	br := bufio.NewReader(r)

	magic := make([]byte, len(Magic))
	if _, err := io.ReadFull(br, magic); err != nil {
		return nil, readError("reading magic", err)
	}
	if string(magic) != Magic {
		return nil, fmt.Errorf("%w: bad magic %q, expected %q", ErrMalformed, magic, Magic)
	}
	next, err := br.Peek(1)
	if err != nil {
		return nil, readError("reading header", err)
	}
	if !isSpace(next[0]) && next[0] != '#' {
		return nil, fmt.Errorf("%w: expected whitespace after %s, got %q", ErrMalformed, Magic, next[0])
	}

	var fields [3]uint32
	for i, name := range []string{"width", "height", "maxval"} {
		v, err := readHeaderInt(br)
		if err != nil {
			return nil, readError("reading "+name, err)
		}
		fields[i] = v
	}
	img := &Image{Width: fields[0], Height: fields[1], MaxValue: fields[2]}

	switch {
	case img.Width == 0 || img.Height == 0:
		return nil, fmt.Errorf("%w: empty raster %dx%d", ErrMalformed, img.Width, img.Height)
	case img.MaxValue == 0 || img.MaxValue > MaxSampleValue:
		return nil, fmt.Errorf("%w: maxval %d outside [1, %d]", ErrMalformed, img.MaxValue, MaxSampleValue)
	case uint64(img.Width)*uint64(img.Height) > math.MaxInt32:
		return nil, fmt.Errorf("%w: raster %dx%d is too large", ErrMalformed, img.Width, img.Height)
	}

	// readHeaderInt stops after the digits; exactly one whitespace byte
	// separates the header from the samples.
	sep, err := br.ReadByte()
	if err != nil {
		return nil, readError("reading separator after header", err)
	}
	if !isSpace(sep) {
		return nil, fmt.Errorf("%w: expected whitespace after maxval, got %q", ErrMalformed, sep)
	}

	want := img.Len()
	var buf bytes.Buffer
	buf.Grow(min(want, sampleChunk))
	if _, err := buf.ReadFrom(io.LimitReader(br, int64(want))); err != nil {
		return nil, readError("reading samples", err)
	}
	if buf.Len() != want {
		return nil, fmt.Errorf("%w: expected %d samples, got %d", ErrMalformed, want, buf.Len())
	}
	img.Samples = buf.Bytes()

	return img, nil
}

// readError adds context to err. Running out of input is a malformed
// raster; any other failure is the reader's and is passed through.
func readError(what string, err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%w: %s: unexpected end of input", ErrMalformed, what)
	}
	return fmt.Errorf("%s: %w", what, err)
}

// readHeaderInt skips whitespace and comments, then reads one decimal
// number. The byte following the number is left unread.
func readHeaderInt(br *bufio.Reader) (uint32, error) {
	if err := skipSpaceAndComments(br); err != nil {
		return 0, err
	}

	var digits []byte
	for {
		c, err := br.ReadByte()
		if err == io.EOF && len(digits) > 0 {
			break
		}
		if err != nil {
			return 0, err
		}
		if c < '0' || c > '9' {
			if err := br.UnreadByte(); err != nil {
				return 0, err
			}
			break
		}
		digits = append(digits, c)
	}

	if len(digits) == 0 {
		c, _ := br.Peek(1)
		return 0, fmt.Errorf("%w: expected a number, found %q", ErrMalformed, c)
	}

	v, err := strconv.ParseUint(string(digits), 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	return uint32(v), nil
}

func skipSpaceAndComments(br *bufio.Reader) error {
	for {
		c, err := br.ReadByte()
		if err != nil {
			return err
		}
		switch {
		case isSpace(c):
		case c == '#':
			if _, err := br.ReadBytes('\n'); err != nil {
				return err
			}
		default:
			return br.UnreadByte()
		}
	}
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}

// Encode writes img as a P5 raster with a canonical header.
func Encode(w io.Writer, img *Image) error {
	if len(img.Samples) != img.Len() {
		return fmt.Errorf("%w: %dx%d raster has %d samples", ErrMalformed, img.Width, img.Height, len(img.Samples))
	}
	if img.MaxValue == 0 || img.MaxValue > MaxSampleValue {
		return fmt.Errorf("%w: maxval %d outside [1, %d]", ErrMalformed, img.MaxValue, MaxSampleValue)
	}

	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "%s\n%d %d\n%d\n", Magic, img.Width, img.Height, img.MaxValue); err != nil {
		return err
	}
	if _, err := bw.Write(img.Samples); err != nil {
		return err
	}
	return bw.Flush()
}
