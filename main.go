// Package main provides the entry point for rv32core.
// rv32core models the control and data path of a single-issue RV32I core.
//
// For the full CLI, use: go run ./cmd/rvcore
package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Println("rv32core - RV32I control and data path model")
	fmt.Println("Timing built on Akita simulation framework")
	fmt.Println("")
	fmt.Println("Usage: rvcore [options] decode|trace <hexword>...")
	fmt.Println("")
	fmt.Println("Options:")
	fmt.Println("  -json      Print decoded control signals as JSON")
	fmt.Println("  -config    Path to timing configuration JSON file")
	fmt.Println("  -cache     Attach the default L1 data cache")
	fmt.Println("  -steps     Maximum instructions to execute in trace mode")
	fmt.Println("  -v         Verbose output")
	fmt.Println("")
	fmt.Println("Run 'go run ./cmd/rvcore' for the full CLI.")

	if len(os.Args) > 1 {
		fmt.Println("\nNote: You provided arguments. Use 'go run ./cmd/rvcore' instead.")
	}
}
