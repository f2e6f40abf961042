package api

import (
	"fmt"
	"net/http"
	"time"

	"carrental/internal/models"

	"github.com/xuri/excelize/v2"
)

var exportHeaders = []string{
	"ID", "Customer", "Email", "Vehicle", "Category",
	"Start Date", "End Date", "Total", "Status", "Created At",
}

// handleAdminExportBookings streams the full booking list as an xlsx
// workbook.
func (s *Server) handleAdminExportBookings(w http.ResponseWriter, r *http.Request) {
	bookings, err := s.db.ListBookingsWithVehicles(r.Context())
	if err != nil {
		s.log.Error().Err(err).Msg("export bookings failed")
		writeError(w, http.StatusInternalServerError, "Failed to fetch bookings")
		return
	}

	f, err := buildBookingsWorkbook(bookings)
	if err != nil {
		s.log.Error().Err(err).Msg("build export workbook failed")
		writeError(w, http.StatusInternalServerError, "Failed to build export")
		return
	}
	defer f.Close()

	filename := fmt.Sprintf("bookings_%s.xlsx", time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)

	if err := f.Write(w); err != nil {
		s.log.Error().Err(err).Msg("write export failed")
	}
}

func buildBookingsWorkbook(bookings []*models.AdminBooking) (*excelize.File, error) {
	f := excelize.NewFile()
	const sheet = "Bookings"

	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}

	for col, header := range exportHeaders {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return nil, err
		}
	}

	for i, b := range bookings {
		row := []any{
			b.ID,
			b.CustomerName,
			b.CustomerEmail,
			b.Vehicle.Make + " " + b.Vehicle.Model,
			b.Vehicle.Category,
			b.StartDate.Format(models.DateLayout),
			b.EndDate.Format(models.DateLayout),
			b.TotalAmount,
			b.Status,
			b.CreatedAt.Format(time.RFC3339),
		}
		for col, value := range row {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return nil, err
			}
		}
	}

	return f, nil
}
