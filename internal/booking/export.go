package booking

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"
)

const exportSheet = "Bookings"

var exportColumns = []string{
	"Booking ID", "Status", "Date", "Start", "End",
	"Customer", "Email", "Total", "Special requests", "Created",
}

// WriteXLSX renders bookings as a one-sheet workbook, times shown in loc.
func WriteXLSX(w io.Writer, bookings []BookingWithDetails, loc *time.Location) error {
	if loc == nil {
		loc = time.UTC
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	if err := writeRow(f, 1, toCells(exportColumns)); err != nil {
		return err
	}
	if style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err == nil {
		last, _ := excelize.CoordinatesToCellName(len(exportColumns), 1)
		_ = f.SetCellStyle(exportSheet, "A1", last, style)
	}

	for i, b := range bookings {
		start := b.StartTime.In(loc)
		row := []interface{}{
			b.ID,
			string(b.Status),
			start.Format("2006-01-02"),
			start.Format("15:04"),
			b.EndTime.In(loc).Format("15:04"),
			b.UserName,
			b.UserEmail,
			float64(b.TotalPriceCents) / 100,
			b.SpecialRequests,
			b.CreatedAt.In(loc).Format(time.RFC3339),
		}
		if err := writeRow(f, i+2, row); err != nil {
			return err
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func toCells(values []string) []interface{} {
	out := make([]interface{}, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

func writeRow(f *excelize.File, row int, values []interface{}) error {
	for col, v := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(exportSheet, cell, v); err != nil {
			return fmt.Errorf("set %s: %w", cell, err)
		}
	}
	return nil
}
