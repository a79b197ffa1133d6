package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/BrooklynCarly/kindroot/internal/plan"
	"github.com/BrooklynCarly/kindroot/internal/report"
)

var planFlags struct {
	input  string
	layout string
}

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Compile report data to edit operations without touching Google",
	Long: `Plan runs the compiler only and prints the skeleton operations plus the
pending table locations as JSON. Compilation is deterministic, so the output
is stable for a given input and suitable for offline inspection.`,
	Args: cobra.NoArgs,
	RunE: runPlan,
}

func init() {
	f := planCmd.Flags()
	f.StringVarP(&planFlags.input, "file", "f", "", "Path to report data JSON (required)")
	f.StringVar(&planFlags.layout, "layout", "", "Layout policy YAML")
	_ = planCmd.MarkFlagRequired("file")
}

func runPlan(cmd *cobra.Command, args []string) error {
	data, err := report.ReadFile(planFlags.input)
	if err != nil {
		return err
	}

	layout := report.DefaultLayout()
	if planFlags.layout != "" {
		layout, err = report.LoadLayout(planFlags.layout)
		if err != nil {
			return err
		}
	}

	nodes, err := report.Build(data, layout)
	if err != nil {
		return err
	}

	pl, err := plan.Compile(nodes)
	if err != nil {
		return err
	}

	out, err := plan.MarshalOps(pl.Ops)
	if err != nil {
		return err
	}
	os.Stdout.Write(out)
	fmt.Println()

	for _, pt := range pl.PendingTables {
		fmt.Printf("pending table %-16s predicted_start=%d rows=%d cols=%d\n",
			pt.Key, pt.PredictedStart, len(pt.Table.Rows), len(pt.Table.Rows[0]))
	}
	fmt.Printf("final cursor: %d\n", pl.End)
	return nil
}
