package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mfreitas/podex/internal/boundary"
	"github.com/mfreitas/podex/internal/pdftext"
)

func boundariesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "boundaries <batch.pdf>",
		Short: "Show detected document boundaries without processing",
		Args:  cobra.ExactArgs(1),
		RunE:  runBoundaries,
	}
}

func runBoundaries(cmd *cobra.Command, args []string) error {
	pages, err := pdftext.NewExtractor(nil).ExtractPages(args[0])
	if err != nil {
		return fmt.Errorf("failed to extract page text: %w", err)
	}

	ranges := boundary.Detect(pages)
	fmt.Fprintf(cmd.OutOrStdout(), "%d pages, %d documents\n", len(pages), len(ranges))
	for i, rng := range ranges {
		fmt.Fprintf(cmd.OutOrStdout(), "document %d: pages %d-%d (%d pages)\n",
			i+1, rng.StartPage+1, rng.EndPage+1, rng.PageCount())
	}
	return nil
}
