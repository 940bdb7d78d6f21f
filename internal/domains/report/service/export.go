package service

import (
	"fmt"

	"hostly/internal/domains/report/model"
	"hostly/internal/domains/report/model/dto"
	"hostly/shared/date"
	"hostly/shared/format"

	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"
)

const (
	sheetSummary    = "Summary"
	sheetProperties = "Properties"
)

var propertyHeader = []any{
	"Property ID", "Name", "City", "Approval", "Bookings", "Revenue",
	"Commission Rate (%)", "Commission", "Owner Payout", "Rooms", "Occupied", "Occupancy (%)",
}

func exportFileName(rng model.Range) string {
	from, to := "all", "all"

	if !rng.From.IsZero() {
		from = rng.From.String()
	}

	if !rng.To.IsZero() {
		to = rng.To.String()
	}

	return fmt.Sprintf("report_%s_%s.xlsx", from, to)
}

// workbook renders the summary and per-property lines as an XLSX file.
func workbook(summary model.Summary, lines []model.PropertyLine, currency string) ([]byte, error) {
	file := excelize.NewFile()
	defer func() {
		if err := file.Close(); err != nil {
			log.Warn().Err(err).Msg("failed to close workbook")
		}
	}()

	if err := file.SetSheetName(file.GetSheetName(0), sheetSummary); err != nil {
		return nil, fmt.Errorf("failed to rename sheet: %w", err)
	}

	bold, err := file.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("failed to create style: %w", err)
	}

	if err := writeSummary(file, summary, currency, bold); err != nil {
		return nil, err
	}

	if _, err := file.NewSheet(sheetProperties); err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}

	if err := writeProperties(file, lines, bold); err != nil {
		return nil, err
	}

	buf, err := file.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}

	return buf.Bytes(), nil
}

func writeSummary(file *excelize.File, summary model.Summary, currency string, bold int) error {
	rows := [][]any{
		{"Metric", "Value"},
		{"From", rangeBound(summary.From)},
		{"To", rangeBound(summary.To)},
		{"Property", summary.PropertyID},
		{"Total bookings", summary.TotalBookings},
		{"Total revenue", format.Currency(currency, summary.TotalRevenue)},
		{"Total commission", format.Currency(currency, summary.TotalCommission)},
		{"Owner payout", format.Currency(currency, summary.OwnerPayout)},
		{"Average booking value", format.Currency(currency, summary.AverageBookingValue)},
		{"Refunds issued", format.Currency(currency, summary.RefundsIssued)},
		{"Occupancy rate", format.Percentage(summary.OccupancyRate)},
		{"Pending properties", summary.PendingProperties},
		{"Pending owners", summary.PendingOwners},
	}

	for _, status := range dto.StatusOrder {
		rows = append(rows, []any{"Bookings " + string(status), summary.BookingsByStatus[status]})
	}

	for idx, row := range rows {
		if err := file.SetSheetRow(sheetSummary, cell(1, idx+1), &row); err != nil {
			return fmt.Errorf("failed to write summary row: %w", err)
		}
	}

	if err := file.SetCellStyle(sheetSummary, "A1", "B1", bold); err != nil {
		return fmt.Errorf("failed to style summary header: %w", err)
	}

	return file.SetColWidth(sheetSummary, "A", "B", 24) //nolint:wrapcheck
}

func writeProperties(file *excelize.File, lines []model.PropertyLine, bold int) error {
	if err := file.SetSheetRow(sheetProperties, "A1", &propertyHeader); err != nil {
		return fmt.Errorf("failed to write property header: %w", err)
	}

	for idx, line := range lines {
		row := []any{
			line.PropertyID, line.Name, line.City, line.ApprovalStatus, line.Bookings, line.Revenue,
			line.CommissionRate, line.Commission, line.OwnerPayout, line.Rooms, line.OccupiedRooms, line.OccupancyRate,
		}

		if err := file.SetSheetRow(sheetProperties, cell(1, idx+2), &row); err != nil {
			return fmt.Errorf("failed to write property row: %w", err)
		}
	}

	if err := file.SetCellStyle(sheetProperties, "A1", cell(len(propertyHeader), 1), bold); err != nil {
		return fmt.Errorf("failed to style property header: %w", err)
	}

	return nil
}

func cell(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)

	return name
}

func rangeBound(d date.Date) string {
	if d.IsZero() {
		return "all"
	}

	return d.String()
}
