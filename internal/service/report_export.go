package service

import (
	"io"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const dailyRevenueSheet = "Daily Revenue"

// WriteDailyRevenueXLSX renders a daily revenue series as a workbook with
// one row per day and a totals row.
func WriteDailyRevenueXLSX(w io.Writer, points []DailyRevenuePoint) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", dailyRevenueSheet); err != nil {
		return err
	}
	headers := []interface{}{"Date", "Revenue", "Bookings", "Refunded", "Refund Amount"}
	if err := f.SetSheetRow(dailyRevenueSheet, "A1", &headers); err != nil {
		return err
	}

	revenue, refunds := decimal.Zero, decimal.Zero
	bookings, refunded := 0, 0
	row := 2
	for _, p := range points {
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return err
		}
		values := []interface{}{p.Date, p.Revenue.InexactFloat64(), p.Bookings, p.Refunded, p.RefundAmount.InexactFloat64()}
		if err := f.SetSheetRow(dailyRevenueSheet, cell, &values); err != nil {
			return err
		}
		revenue = revenue.Add(p.Revenue)
		refunds = refunds.Add(p.RefundAmount)
		bookings += p.Bookings
		refunded += p.Refunded
		row++
	}

	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	totals := []interface{}{"Total", revenue.InexactFloat64(), bookings, refunded, refunds.InexactFloat64()}
	if err := f.SetSheetRow(dailyRevenueSheet, cell, &totals); err != nil {
		return err
	}
	return f.Write(w)
}
