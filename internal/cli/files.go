package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/multierr"

	"github.com/utkarsh5026/refine/histogram"
	"github.com/utkarsh5026/refine/internal/pgm"
)

// Bounds is the content of an integrator input file.
type Bounds struct {
	A, B      float64
	Tolerance float64
}

// ReadBounds parses the first three whitespace-separated numbers of the
// file at path: lower bound, upper bound and tolerance. Anything after the
// third number is ignored.
func ReadBounds(path string) (Bounds, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Bounds{}, newError(InputNotFound, "read input", path, err)
	}

	fields := strings.Fields(string(data))
	if len(fields) < 3 {
		return Bounds{}, newError(MalformedInput, "read input", path,
			fmt.Errorf("expected 3 numbers (a b tolerance), found %d", len(fields)))
	}

	var vals [3]float64
	for i, name := range []string{"lower bound", "upper bound", "tolerance"} {
		v, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return Bounds{}, newError(MalformedInput, "read input", path, fmt.Errorf("%s: %w", name, err))
		}
		vals[i] = v
	}

	return Bounds{A: vals[0], B: vals[1], Tolerance: vals[2]}, nil
}

// ReadImage decodes the P5 raster at path.
func ReadImage(path string) (*pgm.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, newError(InputNotFound, "read input", path, err)
	}
	defer f.Close()

	img, err := pgm.Decode(f)
	if err != nil {
		if errors.Is(err, pgm.ErrMalformed) {
			return nil, newError(MalformedInput, "read input", path, err)
		}
		return nil, newError(InputNotFound, "read input", path, err)
	}
	return img, nil
}

// FormatEstimate renders a value like C's "%g": six significant digits,
// trailing zeros trimmed.
func FormatEstimate(v float64) string {
	return strconv.FormatFloat(v, 'g', 6, 64)
}

// WriteEstimate writes the value on a single line.
func WriteEstimate(path string, v float64) error {
	return writeFile(path, func(w io.Writer) error {
		_, err := io.WriteString(w, FormatEstimate(v)+"\n")
		return err
	})
}

// WriteHistogram writes the raw 256-counter encoding.
func WriteHistogram(path string, h *histogram.Histogram) error {
	return writeFile(path, func(w io.Writer) error {
		_, err := h.WriteTo(w)
		return err
	})
}

// writeFile writes through a temporary file in the destination directory
// and renames it over path, so path either keeps its old content or holds
// the complete new content.
func writeFile(path string, write func(io.Writer) error) (err error) {
	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}

	tmp, err := os.CreateTemp(dir, "."+base+".tmp-*")
	if err != nil {
		return newError(OutputNotWritable, "write output", path, err)
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	bw := bufio.NewWriter(tmp)
	err = write(bw)
	if err == nil {
		err = bw.Flush()
	}
	if err == nil {
		err = tmp.Chmod(0o644)
	}
	err = multierr.Append(err, tmp.Close())
	if err != nil {
		return newError(OutputNotWritable, "write output", path, err)
	}

	if err = os.Rename(tmp.Name(), path); err != nil {
		return newError(OutputNotWritable, "write output", path, err)
	}
	return nil
}
