// Package export generates the index.xlsx workbook indexing every
// sub-document of a batch with both arms' results and the decision.
package export

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/mfreitas/podex/internal/model"
)

const sheetName = "Document Index"

// column pairs a header with the value it pulls from a record.
type column struct {
	value  func(model.DocumentRecord) any
	header string
	width  float64
}

var columns = []column{
	{header: "batch_id", width: 38, value: func(r model.DocumentRecord) any { return r.BatchID }},
	{header: "doc_id", width: 38, value: func(r model.DocumentRecord) any { return r.DocID }},
	{header: "page_start", width: 12, value: func(r model.DocumentRecord) any { return r.PageStart }},
	{header: "page_end", width: 12, value: func(r model.DocumentRecord) any { return r.PageEnd }},
	{header: "supplier_A", width: 25, value: func(r model.DocumentRecord) any { return r.SupplierA }},
	{header: "po_primary_A", width: 18, value: func(r model.DocumentRecord) any { return r.PrimaryA }},
	{header: "po_secondary_A", width: 18, value: func(r model.DocumentRecord) any { return r.SecondaryA }},
	{header: "confidence_A", width: 14, value: func(r model.DocumentRecord) any { return r.ConfidenceA }},
	{header: "method_A", width: 12, value: func(r model.DocumentRecord) any { return string(r.MethodA) }},
	{header: "supplier_B", width: 25, value: func(r model.DocumentRecord) any { return r.SupplierB }},
	{header: "po_primary_B", width: 18, value: func(r model.DocumentRecord) any { return r.PrimaryB }},
	{header: "po_secondary_B", width: 18, value: func(r model.DocumentRecord) any { return r.SecondaryB }},
	{header: "confidence_B", width: 14, value: func(r model.DocumentRecord) any { return r.ConfidenceB }},
	{header: "method_B", width: 12, value: func(r model.DocumentRecord) any { return string(r.MethodB) }},
	{header: "match_status", width: 16, value: func(r model.DocumentRecord) any { return string(r.MatchStatus) }},
	{header: "decided_po_primary", width: 20, value: func(r model.DocumentRecord) any { return r.DecidedPrimary }},
	{header: "decided_po_secondary", width: 20, value: func(r model.DocumentRecord) any { return r.DecidedSecondary }},
	{header: "status", width: 10, value: func(r model.DocumentRecord) any { return string(r.FinalStatus) }},
	{header: "next_action", width: 18, value: func(r model.DocumentRecord) any { return string(r.NextAction) }},
	{header: "reject_reason", width: 40, value: func(r model.DocumentRecord) any { return r.RejectReason }},
}

// Exporter writes the batch index workbook.
type Exporter struct {
	logger *slog.Logger
}

// NewExporter creates an index exporter.
func NewExporter(logger *slog.Logger) *Exporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Exporter{logger: logger}
}

// WriteIndex writes an index.xlsx at path covering the given records.
func (e *Exporter) WriteIndex(path string, records []model.DocumentRecord) error {
	start := time.Now()

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("failed to drop default sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	for i, col := range columns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return fmt.Errorf("failed to name header cell: %w", err)
		}
		if err := f.SetCellValue(sheetName, cell, col.header); err != nil {
			return fmt.Errorf("failed to write header %s: %w", col.header, err)
		}
		if err := f.SetCellStyle(sheetName, cell, cell, headerStyle); err != nil {
			return fmt.Errorf("failed to style header %s: %w", col.header, err)
		}
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return fmt.Errorf("failed to name column %d: %w", i+1, err)
		}
		if err := f.SetColWidth(sheetName, name, name, col.width); err != nil {
			return fmt.Errorf("failed to size column %s: %w", name, err)
		}
	}

	for rowIdx, record := range records {
		for colIdx, col := range columns {
			cell, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			if err != nil {
				return fmt.Errorf("failed to name data cell: %w", err)
			}
			if err := f.SetCellValue(sheetName, cell, col.value(record)); err != nil {
				return fmt.Errorf("failed to write row %d: %w", rowIdx+2, err)
			}
		}
	}

	if err := f.SetPanes(sheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("failed to freeze header row: %w", err)
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}

	e.logger.Info("index workbook written",
		"path", path,
		"rows", len(records),
		"elapsed_ms", time.Since(start).Milliseconds())
	return nil
}
