// Package main provides the entry point for AdderSim.
// AdderSim is a cycle-level model of a memory-mapped adder array built on
// Akita.
//
// For the full CLI, use: go run ./cmd/addersim
package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Println("AdderSim - Memory-Mapped Adder Array Simulator")
	fmt.Println("Built on Akita simulation framework")
	fmt.Println("")
	fmt.Println("Usage: addersim [options]")
	fmt.Println("")
	fmt.Println("Options:")
	fmt.Println("  -config       Path to register file configuration JSON")
	fmt.Println("  -jobs         Number of verification jobs to run")
	fmt.Println("  -reset-first  Pulse a reset before the first job")
	fmt.Println("  -v            Verbose output")
	fmt.Println("")
	fmt.Println("Run 'go run ./cmd/addersim' for the full CLI.")

	if len(os.Args) > 1 {
		fmt.Println("\nNote: You provided arguments. Use 'go run ./cmd/addersim' instead.")
	}
}
