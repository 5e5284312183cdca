// Command histogram counts the brightness values of a binary PGM image.
//
// Usage:
//
//	histogram [flags] <input_path> <output_path> <thread_count>
package main

import "github.com/utkarsh5026/refine/internal/cli"

func main() {
	cli.Run(cli.NewHistogramCommand())
}
