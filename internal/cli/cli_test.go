package cli

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/utkarsh5026/refine/histogram"
	"github.com/utkarsh5026/refine/internal/config"
	"github.com/utkarsh5026/refine/internal/pgm"
	"github.com/utkarsh5026/refine/pool"
)

func execute(t *testing.T, cmd *cobra.Command, args ...string) (int, string) {
	t.Helper()

	var stderr bytes.Buffer
	cmd.SetOut(&stderr)
	cmd.SetErr(&stderr)
	code := Main(cmd, args)
	return code, stderr.String()
}

func writeInput(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "input.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func testEnv() *Env {
	return &Env{Config: config.Default(), Logger: zap.NewNop(), Stderr: &bytes.Buffer{}}
}

func TestIntegrate_EndToEnd(t *testing.T) {
	in := writeInput(t, "0.1 3.0 0.0001\n")

	for _, threads := range []string{"-1", "0", "1", "4"} {
		t.Run(threads, func(t *testing.T) {
			out := filepath.Join(t.TempDir(), "output.txt")

			code, stderr := execute(t, NewIntegrateCommand(), in, out, threads)
			require.Equal(t, ExitOK, code, stderr)

			data, err := os.ReadFile(out)
			require.NoError(t, err)
			assert.Equal(t, "-1.42878\n", string(data))
			assert.Contains(t, stderr, "Time (")
		})
	}
}

func TestIntegrate_FlagsAndReport(t *testing.T) {
	in := writeInput(t, "0.5 2.5 1e-5")
	out := filepath.Join(t.TempDir(), "output.txt")

	code, stderr := execute(t, NewIntegrateCommand(),
		"--schedule", "guided", "--chunk", "64", "--report", "--progress", "--log-level", "debug",
		in, out, "3")
	require.Equal(t, ExitOK, code, stderr)

	assert.Contains(t, stderr, "Time (3 thread(s))")
	assert.Contains(t, stderr, "guided")
	assert.Contains(t, stderr, "refinement level")
	assert.Contains(t, stderr, "integral converged")
}

func TestIntegrate_NotConverged(t *testing.T) {
	in := writeInput(t, "0.1 3.0 1e-14")
	out := filepath.Join(t.TempDir(), "output.txt")

	code, stderr := execute(t, NewIntegrateCommand(), "--max-levels", "3", in, out, "2")
	assert.Equal(t, ExitFailure, code)
	assert.Contains(t, stderr, "not converged")
	assert.NoFileExists(t, out)
}

func TestIntegrate_InputErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    Kind
	}{
		{"empty file", "", MalformedInput},
		{"two numbers", "0.1 3.0", MalformedInput},
		{"not a number", "0.1 three 0.001", MalformedInput},
		{"zero tolerance", "0.1 3.0 0", MalformedInput},
		{"negative tolerance", "0.1 3.0 -0.5", MalformedInput},
		{"infinite bound", "0.1 +Inf 0.001", MalformedInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := writeInput(t, tt.content)
			out := filepath.Join(t.TempDir(), "output.txt")

			err := RunIntegrate(testEnv(), Args{Input: in, Output: out, Threads: pool.Sequential})
			assert.Equal(t, tt.want, KindOf(err), "error: %v", err)
			assert.NoFileExists(t, out)
		})
	}

	t.Run("missing file", func(t *testing.T) {
		dir := t.TempDir()
		out := filepath.Join(dir, "output.txt")

		err := RunIntegrate(testEnv(), Args{Input: filepath.Join(dir, "nope.txt"), Output: out, Threads: pool.Auto})
		assert.Equal(t, InputNotFound, KindOf(err))
		assert.ErrorIs(t, err, os.ErrNotExist)
		assert.NoFileExists(t, out)
	})
}

func TestArguments(t *testing.T) {
	in := writeInput(t, "0.1 3.0 0.01")

	tests := []struct {
		name string
		args []string
	}{
		{"no arguments", nil},
		{"two arguments", []string{in, "out"}},
		{"four arguments", []string{in, "out", "1", "extra"}},
		{"threads below -1", []string{in, "out", "-2"}},
		{"threads not a number", []string{in, "out", "many"}},
		{"unknown flag", []string{"--turbo", in, "out", "1"}},
		{"bad schedule", []string{"--schedule", "random", in, "out", "1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			args := make([]string, len(tt.args))
			for i, a := range tt.args {
				if a == "out" {
					a = filepath.Join(dir, "out.txt")
				}
				args[i] = a
			}

			code, stderr := execute(t, NewIntegrateCommand(), args...)
			assert.Equal(t, ExitUsage, code)
			assert.Contains(t, stderr, "usage:")
			assert.NoFileExists(t, filepath.Join(dir, "out.txt"))
		})
	}
}

func TestIntegrate_ConfigFileAndOverride(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "refine.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("schedule: dynamic\nreport: true\n"), 0o600))
	in := writeInput(t, "0.1 3.0 0.001")

	code, stderr := execute(t, NewIntegrateCommand(), "--config", cfgPath, in, filepath.Join(dir, "a.txt"), "2")
	require.Equal(t, ExitOK, code, stderr)
	assert.Contains(t, stderr, "dynamic")

	code, stderr = execute(t, NewIntegrateCommand(), "--config", cfgPath, "--schedule", "static", in, filepath.Join(dir, "b.txt"), "2")
	require.Equal(t, ExitOK, code, stderr)
	assert.Contains(t, stderr, "static")
	assert.NotContains(t, stderr, "dynamic")

	code, _ = execute(t, NewIntegrateCommand(), "--config", filepath.Join(dir, "missing.yaml"), in, filepath.Join(dir, "c.txt"), "2")
	assert.Equal(t, ExitUsage, code)
}

func writeImage(t *testing.T, img *pgm.Image) string {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, pgm.Encode(&buf, img))
	path := filepath.Join(t.TempDir(), "input.pgm")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o600))
	return path
}

func testImage() *pgm.Image {
	samples := make([]byte, 640*480)
	for i := range samples {
		samples[i] = byte((i * i) >> 3)
	}
	return &pgm.Image{Width: 640, Height: 480, MaxValue: 255, Samples: samples}
}

func readHistogram(t *testing.T, path string) histogram.Histogram {
	t.Helper()

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var h histogram.Histogram
	_, err = h.ReadFrom(f)
	require.NoError(t, err)
	return h
}

func TestHistogram_EndToEnd(t *testing.T) {
	img := testImage()
	in := writeImage(t, img)
	want := histogram.Compute(img.Samples, pool.Sequential)

	variants := [][]string{
		{},
		{"--mode", "private"},
		{"--schedule", "static"},
		{"--schedule", "guided", "--chunk", "100", "--mode", "private"},
		{"--affinity", "--report", "--progress"},
	}

	for _, flags := range variants {
		for _, threads := range []string{"-1", "0", "1", "3", "8"} {
			t.Run(strings.Join(append(flags, threads), " "), func(t *testing.T) {
				out := filepath.Join(t.TempDir(), "histogram.bin")
				args := append(append([]string{}, flags...), in, out, threads)

				code, stderr := execute(t, NewHistogramCommand(), args...)
				require.Equal(t, ExitOK, code, stderr)

				info, err := os.Stat(out)
				require.NoError(t, err)
				assert.EqualValues(t, histogram.EncodedSize, info.Size())

				if diff := cmp.Diff(want, readHistogram(t, out)); diff != "" {
					t.Fatalf("histogram mismatch (-want +got):\n%s", diff)
				}
				assert.Contains(t, stderr, "Time (")
			})
		}
	}
}

func TestHistogram_InputErrors(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "histogram.bin")

	err := RunHistogram(testEnv(), Args{Input: filepath.Join(dir, "missing.pgm"), Output: out, Threads: pool.Auto})
	assert.Equal(t, InputNotFound, KindOf(err))
	assert.NoFileExists(t, out)

	for name, content := range map[string]string{
		"text file":     "0.1 3.0 0.001",
		"short samples": "P5\n10 10\n255\n\x01\x02",
		"bad maxval":    "P5\n1 1\n1000\n\x00",
	} {
		t.Run(name, func(t *testing.T) {
			in := writeInput(t, content)
			err := RunHistogram(testEnv(), Args{Input: in, Output: out, Threads: pool.Fixed(2)})
			assert.Equal(t, MalformedInput, KindOf(err), "error: %v", err)
			assert.ErrorIs(t, err, pgm.ErrMalformed)
			assert.NoFileExists(t, out)
		})
	}
}

func TestEnvironmentOverriddenByFlags(t *testing.T) {
	t.Setenv("REFINE_MODE", "bogus")
	t.Setenv("REFINE_SCHEDULE", "lifo")
	dir := t.TempDir()
	img := writeImage(t, testImage())

	code, stderr := execute(t, NewHistogramCommand(), "--mode", "private", "--schedule", "guided", img, filepath.Join(dir, "h.bin"), "2")
	assert.Equal(t, ExitOK, code, stderr)

	code, stderr = execute(t, NewHistogramCommand(), "--schedule", "guided", img, filepath.Join(dir, "bad.bin"), "2")
	assert.Equal(t, ExitUsage, code)
	assert.Contains(t, stderr, "bogus")
	assert.NoFileExists(t, filepath.Join(dir, "bad.bin"))

	// integrate has no mode, so a bad one does not concern it.
	in := writeInput(t, "0.1 3.0 0.001")
	code, stderr = execute(t, NewIntegrateCommand(), "--schedule", "static", in, filepath.Join(dir, "i.txt"), "2")
	assert.Equal(t, ExitOK, code, stderr)
}

func TestUnreadableInput(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(t.TempDir(), "output.bin")

	err := RunIntegrate(testEnv(), Args{Input: dir, Output: out, Threads: pool.Sequential})
	assert.Equal(t, InputNotFound, KindOf(err), "integrate: %v", err)

	err = RunHistogram(testEnv(), Args{Input: dir, Output: out, Threads: pool.Fixed(2)})
	assert.Equal(t, InputNotFound, KindOf(err), "histogram: %v", err)
	assert.NotErrorIs(t, err, pgm.ErrMalformed)
	assert.NoFileExists(t, out)
}

func TestHistogram_OutputNotWritable(t *testing.T) {
	in := writeImage(t, testImage())
	out := filepath.Join(t.TempDir(), "no", "such", "dir", "histogram.bin")

	code, stderr := execute(t, NewHistogramCommand(), in, out, "2")
	assert.Equal(t, ExitFailure, code)
	assert.Contains(t, stderr, "output not writable")
}

func TestWriteFile_ReplacesAtomically(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "estimate.txt")
	require.NoError(t, os.WriteFile(out, []byte("old\n"), 0o600))

	require.NoError(t, WriteEstimate(out, 2))
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "2\n", string(data))

	failing := errors.New("disk on fire")
	err = writeFile(out, func(io.Writer) error { return failing })
	assert.Equal(t, OutputNotWritable, KindOf(err))
	assert.ErrorIs(t, err, failing)

	data, err = os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "2\n", string(data), "failed write must keep the old content")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary files must be cleaned up")
}

func TestFormatEstimate(t *testing.T) {
	tests := map[float64]string{
		-1.428781529536041: "-1.42878",
		2:                  "2",
		0.5:                "0.5",
		1e-05:              "1e-05",
		123456789:          "1.23457e+08",
		0:                  "0",
	}
	for v, want := range tests {
		assert.Equal(t, want, FormatEstimate(v), "value %v", v)
	}
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, ExitOK, ExitCode(nil))
	assert.Equal(t, ExitUsage, ExitCode(invalidArgs("bad")))
	assert.Equal(t, ExitFailure, ExitCode(newError(InputNotFound, "", "", nil)))
	assert.Equal(t, ExitFailure, ExitCode(errors.New("plain")))
	assert.Equal(t, KindUnknown, KindOf(errors.New("plain")))
}
