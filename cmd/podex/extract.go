package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mfreitas/podex/internal/boundary"
	"github.com/mfreitas/podex/internal/extract"
	"github.com/mfreitas/podex/internal/model"
	"github.com/mfreitas/podex/internal/pdftext"
)

func extractCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract <batch.pdf>",
		Short: "Run the deterministic pattern extractor and print results",
		Long: `Extract purchase order numbers using only the keyword and pattern
rules, without consulting the oracle. One JSON result per detected
document.`,
		Args: cobra.ExactArgs(1),
		RunE: runExtract,
	}
	cmd.Flags().Bool("whole-file", false, "treat the whole file as a single document")
	return cmd
}

type extractOutput struct {
	Pages  string                 `json:"pages"`
	Result model.ExtractionResult `json:"result"`
}

func runExtract(cmd *cobra.Command, args []string) error {
	pages, err := pdftext.NewExtractor(nil).ExtractPages(args[0])
	if err != nil {
		return fmt.Errorf("failed to extract page text: %w", err)
	}

	wholeFile, _ := cmd.Flags().GetBool("whole-file")
	ranges := []model.PageRange{{StartPage: 0, EndPage: len(pages) - 1}}
	if !wholeFile {
		ranges = boundary.Detect(pages)
	}

	outputs := make([]extractOutput, 0, len(ranges))
	for _, rng := range ranges {
		outputs = append(outputs, extractOutput{
			Pages:  rng.String(),
			Result: extract.Extract(rng.PagesIn(pages)),
		})
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(outputs)
}
