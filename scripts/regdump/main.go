// Dump the register map for a configuration - bring-up aid for driver authors
package main

import (
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/sarchlab/addersim/regmap"
)

var (
	configPath   = flag.String("config", "", "Path to register file configuration JSON")
	writeDefault = flag.String("write-default", "", "Write the default configuration to this path and exit")
)

func main() {
	flag.Parse()

	if *writeDefault != "" {
		cfg := regmap.DefaultConfig()
		if err := cfg.SaveConfig(*writeDefault); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing configuration: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Wrote default configuration to %s\n", *writeDefault)
		return
	}

	cfg := regmap.DefaultConfig()
	if *configPath != "" {
		var err error
		cfg, err = regmap.LoadConfig(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
			os.Exit(1)
		}
	}

	table, err := regmap.Build(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error building register map: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Register file: %d adders, %d-bit operands, %d-byte beats\n",
		cfg.NumAdders, cfg.OperandWidth, cfg.BeatBytes)
	fmt.Printf("Window: [0x%X, 0x%X), %d of %d bytes mapped\n",
		cfg.BaseAddr, cfg.BaseAddr+cfg.WindowSize,
		table.Footprint(), cfg.WindowSize)
	fmt.Println("")

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tOFFSET\tADDRESS\tVALUE BITS\tACCESS")
	for _, field := range table.Fields() {
		fmt.Fprintf(w, "%s\t0x%03X\t0x%X\t%d\t%s\n",
			field.Name,
			field.Offset,
			cfg.BaseAddr+field.Offset,
			field.ValueBits,
			field.Access,
		)
	}
	if err := w.Flush(); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing table: %v\n", err)
		os.Exit(1)
	}
}
