package main

import (
	"github.com/spf13/cobra"
)

const version = "0.1.0"

var (
	rootCmd = &cobra.Command{
		Use:          "feratverify <qbf-file> <expansion-file>",
		Short:        "feratverify",
		Long:         "Checks a propositional expansion of a ∀Exp+RAT/FERAT QBF proof against its QBF for soundness.",
		Version:      version,
		SilenceUsage: true,
		Args:         cobra.ExactArgs(2),
		RunE:         runVerify,
	}

	silent      bool
	jsonOutput  bool
	noOriginMap bool
	maxScan     int
)

// Execute runs the root command.
func Execute() error {
	rootCmd.Flags().BoolVar(&silent, "silent", false, "suppress warning diagnostics")
	rootCmd.Flags().BoolVar(&jsonOutput, "json", false, "render the verdict report as JSON instead of the s/c text format")
	rootCmd.Flags().BoolVar(&noOriginMap, "no-origin-map", false, "ignore any c o origin map and always use iterative candidate selection")
	rootCmd.Flags().IntVar(&maxScan, "max-matrix-scan", 0, "cap candidate QBF clauses tried per expansion clause in iterative mode (0 = unbounded)")
	return rootCmd.Execute()
}
