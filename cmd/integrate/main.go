// Command integrate estimates the integral of log(sin(x)) over an interval.
//
// Usage:
//
//	integrate [flags] <input_path> <output_path> <thread_count>
package main

import "github.com/utkarsh5026/refine/internal/cli"

func main() {
	cli.Run(cli.NewIntegrateCommand())
}
