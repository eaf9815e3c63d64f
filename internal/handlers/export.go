// internal/handlers/export.go
package handlers

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/tealeg/xlsx/v3"

	"github.com/ammerola/motofleet-be/internal/core/ports"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// LowStockSheet is the worksheet name of the low stock export
const LowStockSheet = "Low stock"

var lowStockHeaders = []string{
	"Reference", "Name", "Category", "Current Stock",
	"Min Threshold", "Shortfall", "Unit Price", "Reorder Cost",
}

// ExportHandler handles spreadsheet exports
type ExportHandler struct {
	inventoryService ports.InventoryService
	logger           *slog.Logger
}

// NewExportHandler creates a new export handler
func NewExportHandler(inventoryService ports.InventoryService, logger *slog.Logger) *ExportHandler {
	return &ExportHandler{
		inventoryService: inventoryService,
		logger:           logger.With(slog.String("handler", "export")),
	}
}

// ExportLowStock handles GET /api/v1/inventory/parts/low-stock/export
func (h *ExportHandler) ExportLowStock(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	report, err := h.inventoryService.LowStockReport(ctx)
	if err != nil {
		respondServiceError(ctx, h.logger, w, err, "build low stock report")
		return
	}

	data, err := generateLowStockWorkbook(report)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to generate Excel file", slog.String("error", err.Error()))
		respondError(ctx, h.logger, w, http.StatusInternalServerError, "Failed to generate Excel file")
		return
	}

	filename := fmt.Sprintf("low_stock_%s.xlsx", report.GeneratedAt.Format("20060102_150405"))
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")

	if _, err := w.Write(data); err != nil {
		h.logger.ErrorContext(ctx, "failed to write Excel response", slog.String("error", err.Error()))
		return
	}

	h.logger.InfoContext(ctx, "low stock export completed",
		slog.Int("total_rows", len(report.Items)),
		slog.String("filename", filename))
}

// generateLowStockWorkbook renders the report as a single sheet with a totals row
func generateLowStockWorkbook(report *ports.LowStockReport) ([]byte, error) {
	file := xlsx.NewFile()

	sheet, err := file.AddSheet(LowStockSheet)
	if err != nil {
		return nil, fmt.Errorf("failed to add worksheet: %w", err)
	}

	headerRow := sheet.AddRow()
	for _, header := range lowStockHeaders {
		cell := headerRow.AddCell()
		cell.Value = header
		cell.GetStyle().Font.Bold = true
		cell.GetStyle().Fill.PatternType = "solid"
		cell.GetStyle().Fill.FgColor = "CCCCCC"
	}

	for _, item := range report.Items {
		row := sheet.AddRow()
		row.AddCell().SetString(item.Part.ReferenceNumber)
		row.AddCell().SetString(item.Part.Name)
		row.AddCell().SetString(string(item.Part.Category))
		row.AddCell().SetInt(item.Part.CurrentStock)
		row.AddCell().SetInt(item.Part.MinStockThreshold)
		row.AddCell().SetInt(item.Shortfall)
		row.AddCell().SetString(item.Part.UnitPrice.StringFixed(2))
		row.AddCell().SetString(item.ReorderCost.StringFixed(2))
	}

	totalRow := sheet.AddRow()
	for i := range lowStockHeaders {
		cell := totalRow.AddCell()
		switch i {
		case 0:
			cell.Value = "Total"
			cell.GetStyle().Font.Bold = true
		case len(lowStockHeaders) - 1:
			cell.SetString(report.TotalReorderCost.StringFixed(2))
			cell.GetStyle().Font.Bold = true
		}
	}

	generated := sheet.AddRow()
	generated.AddCell().Value = "Generated at " + report.GeneratedAt.UTC().Format(time.RFC3339)

	sheet.SetColWidth(1, len(lowStockHeaders), 18)

	var buffer bytes.Buffer
	if err := file.Write(&buffer); err != nil {
		return nil, fmt.Errorf("failed to write Excel file to buffer: %w", err)
	}

	return buffer.Bytes(), nil
}
