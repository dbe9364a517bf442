package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mfreitas/podex/internal/engine"
	"github.com/mfreitas/podex/internal/export"
	"github.com/mfreitas/podex/internal/pdftext"
	"github.com/mfreitas/podex/internal/pipeline"
	"github.com/mfreitas/podex/internal/reconcile"
	"github.com/mfreitas/podex/internal/split"
)

func processCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "process <batch.pdf>",
		Short: "Process a batch PDF end to end",
		Long: `Run the full flow for one batch file: detect document boundaries,
extract purchase order numbers through both pipelines, reconcile the
results, persist them, split the batch into per-document PDFs and
write the index workbook.`,
		Args: cobra.ExactArgs(1),
		RunE: runProcess,
	}

	cmd.Flags().String("output-dir", "output", "directory for split documents and the index")
	cmd.Flags().Int("workers", 4, "concurrent documents in flight")
	cmd.Flags().Bool("no-split", false, "skip writing per-document PDFs")
	cmd.Flags().Bool("no-index", false, "skip writing index.xlsx")
	cmd.Flags().Float64("min-confidence", 0.6, "confidence below which matching codes still go to review")
	cmd.Flags().Bool("strict-leading-zero", false, "treat leading-zero variants as different codes")

	_ = viper.BindPFlag("process.output_dir", cmd.Flags().Lookup("output-dir"))
	_ = viper.BindPFlag("process.workers", cmd.Flags().Lookup("workers"))

	return cmd
}

func runProcess(cmd *cobra.Command, args []string) error {
	pdfPath := args[0]
	if _, err := os.Stat(pdfPath); err != nil {
		return fmt.Errorf("cannot read batch file: %w", err)
	}

	noSplit, _ := cmd.Flags().GetBool("no-split")
	noIndex, _ := cmd.Flags().GetBool("no-index")
	minConfidence, _ := cmd.Flags().GetFloat64("min-confidence")
	strictZero, _ := cmd.Flags().GetBool("strict-leading-zero")

	oracleClient, err := createOracleClient()
	if err != nil {
		return err
	}

	store, err := openStorage()
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	ctx := cmd.Context()
	if err := store.Migrate(ctx); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	logger := slog.Default()
	eng := engine.New(
		pdftext.NewExtractor(logger),
		pipeline.NewFlexibleArm(oracleClient, logger),
		pipeline.NewHybridArm(oracleClient, logger),
		store,
		split.NewSplitter(logger),
		export.NewExporter(logger),
		engine.Config{
			ProgressWriter: os.Stderr,
			OutputDir:      viper.GetString("process.output_dir"),
			MaxWorkers:     viper.GetInt("process.workers"),
			Reconcile: reconcile.Options{
				MinConfidence:    minConfidence,
				AllowLeadingZero: !strictZero,
			},
			SplitDocuments: !noSplit,
			WriteIndex:     !noIndex,
		},
		logger)

	result, err := eng.ProcessBatch(ctx, pdfPath)
	if err != nil {
		return fmt.Errorf("batch processing failed: %w", err)
	}

	slog.Info("Batch processed",
		"batch_id", result.BatchID,
		"pages", result.Pages,
		"documents", len(result.Records),
		"approved", result.Approved,
		"rejected", result.Rejected)
	if result.IndexPath != "" {
		slog.Info("Index written", "path", result.IndexPath)
	}
	return nil
}
