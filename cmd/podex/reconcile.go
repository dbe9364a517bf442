package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mfreitas/podex/internal/model"
	"github.com/mfreitas/podex/internal/reconcile"
)

func reconcileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reconcile <result-a.json> <result-b.json>",
		Short: "Reconcile two extraction results into one decision",
		Long: `Read two extraction results from JSON files and print the
reconciled outcome. Useful for replaying decisions on stored pipeline
outputs.`,
		Args: cobra.ExactArgs(2),
		RunE: runReconcile,
	}
	cmd.Flags().Float64("min-confidence", 0.6, "confidence below which matching codes still go to review")
	cmd.Flags().Bool("strict-leading-zero", false, "treat leading-zero variants as different codes")
	return cmd
}

func runReconcile(cmd *cobra.Command, args []string) error {
	a, err := readResult(args[0])
	if err != nil {
		return err
	}
	b, err := readResult(args[1])
	if err != nil {
		return err
	}

	minConfidence, _ := cmd.Flags().GetFloat64("min-confidence")
	strictZero, _ := cmd.Flags().GetBool("strict-leading-zero")

	outcome := reconcile.Reconcile(a, b, reconcile.Options{
		MinConfidence:    minConfidence,
		AllowLeadingZero: !strictZero,
	})

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(outcome)
}

func readResult(path string) (model.ExtractionResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.ExtractionResult{}, fmt.Errorf("failed to read %s: %w", path, err)
	}
	var result model.ExtractionResult
	if err := json.Unmarshal(data, &result); err != nil {
		return model.ExtractionResult{}, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return result, nil
}
