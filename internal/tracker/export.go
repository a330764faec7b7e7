package tracker

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"
)

var exportHeaders = []string{
	"Ticket_Number",
	"Date",
	"Credit_Card",
	"Total_Price",
	"Product_Name",
	"Product_Qty",
	"Product_Unit_Price",
	"Product_Total_Price",
}

// ExportXLSX renders a session's projected rows as an XLSX workbook, one
// row per line item, in the export column order.
func (s *Service) ExportXLSX(sessionID string) ([]byte, error) {
	start := time.Now()

	rows, err := s.sessionRows(sessionID)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	const sheet = "Tickets"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)
	_ = f.DeleteSheet("Sheet1")

	for i, h := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	for i, r := range rows {
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, i+2)
			_ = f.SetCellValue(sheet, cell, v)
		}
		write(1, r.TicketNumber)
		write(2, r.Date.Format("2006-01-02 15:04"))
		write(3, r.CreditCard)
		write(4, r.TotalPrice)
		write(5, r.ProductName)
		write(6, r.ProductQty)
		write(7, r.ProductUnitPrice)
		write(8, r.ProductTotalPrice)
	}

	// Widen a few columns
	_ = f.SetColWidth(sheet, "A", "A", 18) // ticket number
	_ = f.SetColWidth(sheet, "B", "B", 18) // date
	_ = f.SetColWidth(sheet, "E", "E", 36) // product name

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	slog.Info("export.xlsx.ok",
		"session_id", sessionID,
		"rows", len(rows),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}
