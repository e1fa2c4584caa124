package interunit

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/xuri/excelize/v2"

	"github.com/candor-retail/candor-backend/internal/platform/httpx"
)

// exportManifest streams the challan manifest as an xlsx workbook: one sheet
// of lines, one of scanned boxes.
func (h *Handler) exportManifest(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	trf, lines, boxes, err := h.service.GetTransfer(r.Context(), id)
	if err != nil {
		h.respondError(w, "export manifest", err)
		return
	}

	f := excelize.NewFile()
	defer f.Close()

	linesSheet := "Lines"
	f.SetSheetName("Sheet1", linesSheet)

	f.SetCellValue(linesSheet, "A1", "Challan No")
	f.SetCellValue(linesSheet, "B1", trf.ChallanNo)
	f.SetCellValue(linesSheet, "A2", "Transfer Date")
	f.SetCellValue(linesSheet, "B2", trf.StockTrfDate.Format("2006-01-02"))
	f.SetCellValue(linesSheet, "A3", "From")
	f.SetCellValue(linesSheet, "B3", trf.FromSite)
	f.SetCellValue(linesSheet, "A4", "To")
	f.SetCellValue(linesSheet, "B4", trf.ToSite)
	f.SetCellValue(linesSheet, "A5", "Vehicle No")
	f.SetCellValue(linesSheet, "B5", trf.VehicleNo)
	f.SetCellValue(linesSheet, "A6", "Status")
	f.SetCellValue(linesSheet, "B6", string(trf.Status))

	headers := []string{"Material Type", "Category", "Description", "Qty", "UOM", "Pack Size", "Net Weight", "Total Weight", "Batch", "Lot"}
	for i, title := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 8)
		f.SetCellValue(linesSheet, cell, title)
	}
	for i, l := range lines {
		row := i + 9
		f.SetCellValue(linesSheet, fmt.Sprintf("A%d", row), string(l.MaterialType))
		f.SetCellValue(linesSheet, fmt.Sprintf("B%d", row), l.ItemCategory)
		f.SetCellValue(linesSheet, fmt.Sprintf("C%d", row), l.Description)
		f.SetCellValue(linesSheet, fmt.Sprintf("D%d", row), l.Quantity)
		f.SetCellValue(linesSheet, fmt.Sprintf("E%d", row), l.UOM)
		f.SetCellValue(linesSheet, fmt.Sprintf("F%d", row), l.PackSize)
		f.SetCellValue(linesSheet, fmt.Sprintf("G%d", row), l.NetWeight)
		f.SetCellValue(linesSheet, fmt.Sprintf("H%d", row), l.TotalWeight)
		f.SetCellValue(linesSheet, fmt.Sprintf("I%d", row), l.BatchNumber)
		f.SetCellValue(linesSheet, fmt.Sprintf("J%d", row), l.LotNumber)
	}

	boxSheet := "Boxes"
	if _, err := f.NewSheet(boxSheet); err == nil {
		boxHeaders := []string{"Box Number", "Article", "Batch", "Lot", "Transaction No", "Net Weight", "Gross Weight"}
		for i, title := range boxHeaders {
			cell, _ := excelize.CoordinatesToCellName(i+1, 1)
			f.SetCellValue(boxSheet, cell, title)
		}
		for i, b := range boxes {
			row := i + 2
			f.SetCellValue(boxSheet, fmt.Sprintf("A%d", row), b.BoxNumber)
			f.SetCellValue(boxSheet, fmt.Sprintf("B%d", row), b.Article)
			f.SetCellValue(boxSheet, fmt.Sprintf("C%d", row), b.BatchNumber)
			f.SetCellValue(boxSheet, fmt.Sprintf("D%d", row), b.LotNumber)
			f.SetCellValue(boxSheet, fmt.Sprintf("E%d", row), b.TransactionNo)
			f.SetCellValue(boxSheet, fmt.Sprintf("F%d", row), b.NetWeight)
			f.SetCellValue(boxSheet, fmt.Sprintf("G%d", row), b.GrossWeight)
		}
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", trf.ChallanNo+"-manifest.xlsx"))
	if err := f.Write(w); err != nil {
		h.logger.Error("manifest write failed", slog.Any("error", err))
	}
}
