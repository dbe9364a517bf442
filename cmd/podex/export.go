package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/mfreitas/podex/internal/export"
	"github.com/mfreitas/podex/internal/model"
	"github.com/mfreitas/podex/internal/service"
)

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export <batch-id>",
		Short: "Re-export the index workbook for a stored batch",
		Args:  cobra.ExactArgs(1),
		RunE:  runExport,
	}
	cmd.Flags().String("out", "index.xlsx", "output path for the workbook")
	cmd.Flags().Bool("rejects-only", false, "include only documents sent to review")
	return cmd
}

func runExport(cmd *cobra.Command, args []string) error {
	batchID := args[0]
	outPath, _ := cmd.Flags().GetString("out")
	rejectsOnly, _ := cmd.Flags().GetBool("rejects-only")

	store, err := openStorage()
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	ctx := cmd.Context()
	if _, err := store.GetBatch(ctx, batchID); err != nil {
		return fmt.Errorf("unknown batch: %w", err)
	}

	var records []model.DocumentRecord
	if rejectsOnly {
		records, err = store.GetRejects(ctx, batchID)
	} else {
		records, err = store.GetDocumentRecords(ctx, service.RecordFilter{BatchID: batchID})
	}
	if err != nil {
		return fmt.Errorf("failed to load records: %w", err)
	}

	if err := export.NewExporter(nil).WriteIndex(outPath, records); err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	slog.Info("Index exported", "batch_id", batchID, "rows", len(records), "path", outPath)
	return nil
}
