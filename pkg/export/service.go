package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/jordanlanch/brokerhub/pkg/domain"
	"github.com/jordanlanch/brokerhub/pkg/logger"
	"github.com/jordanlanch/brokerhub/pkg/models"
	"github.com/jordanlanch/brokerhub/pkg/store"
)

// Service renders lead exports in CSV or Excel form. Files are
// written straight to the caller, nothing is kept on disk.
type Service struct {
	store  *store.Store
	logger logger.Logger
}

// NewService creates a new export service
func NewService(st *store.Store, log logger.Logger) *Service {
	return &Service{store: st, logger: log}
}

var leadHeaders = []string{
	"ID", "Name", "Email", "Phone", "Source", "Status", "Priority",
	"Assigned To", "Budget", "Interests", "Next Action", "Notes", "Created At",
}

// Filter narrows which leads end up in the export
type Filter struct {
	Status     string
	AssignedTo string
}

func (f Filter) matches(l models.Lead) bool {
	if f.Status != "" && l.Status != f.Status {
		return false
	}
	if f.AssignedTo != "" && l.AssignedTo != f.AssignedTo {
		return false
	}
	return true
}

func (s *Service) filteredLeads(ctx context.Context, filter Filter) ([]models.Lead, map[string]string, error) {
	leads, err := s.store.Leads(ctx)
	if err != nil {
		return nil, nil, err
	}
	users, err := s.store.Users(ctx)
	if err != nil {
		return nil, nil, err
	}

	names := make(map[string]string, len(users))
	for _, u := range users {
		names[u.ID] = u.Name
	}

	kept := leads[:0]
	for _, l := range leads {
		if filter.matches(l) {
			kept = append(kept, l)
		}
	}
	return kept, names, nil
}

func leadRow(l models.Lead, names map[string]string) []string {
	assigned := names[l.AssignedTo]
	if assigned == "" {
		assigned = l.AssignedTo
	}
	return []string{
		l.ID,
		l.Name,
		l.Email,
		l.Phone,
		l.Source,
		l.Status,
		l.Priority,
		assigned,
		strconv.FormatFloat(l.Budget, 'f', 2, 64),
		strings.Join(l.Interests, "; "),
		l.NextAction,
		l.Notes,
		l.CreatedAt.Format(time.RFC3339),
	}
}

// WriteCSV streams the filtered leads as CSV
func (s *Service) WriteCSV(ctx context.Context, w io.Writer, filter Filter) (int, error) {
	leads, names, err := s.filteredLeads(ctx, filter)
	if err != nil {
		return 0, err
	}

	writer := csv.NewWriter(w)
	if err := writer.Write(leadHeaders); err != nil {
		return 0, domain.NewInternalError(fmt.Errorf("failed to write header: %w", err))
	}
	for _, l := range leads {
		if err := writer.Write(leadRow(l, names)); err != nil {
			return 0, domain.NewInternalError(fmt.Errorf("failed to write row: %w", err))
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return 0, domain.NewInternalError(err)
	}

	s.logger.Info("✅ Leads exported", "format", "csv", "count", len(leads))
	return len(leads), nil
}

// WriteExcel streams the filtered leads as an Excel workbook with a
// second sheet summarizing the funnel per broker
func (s *Service) WriteExcel(ctx context.Context, w io.Writer, filter Filter) (int, error) {
	leads, names, err := s.filteredLeads(ctx, filter)
	if err != nil {
		return 0, err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Leads"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return 0, domain.NewInternalError(fmt.Errorf("failed to create sheet: %w", err))
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})
	if err != nil {
		return 0, domain.NewInternalError(fmt.Errorf("failed to create style: %w", err))
	}

	for i, header := range leadHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, header)
		f.SetCellStyle(sheet, cell, cell, headerStyle)
	}

	for rowIdx, l := range leads {
		for colIdx, value := range leadRow(l, names) {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			f.SetCellValue(sheet, cell, value)
		}
	}

	for i := range leadHeaders {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheet, col, col, 18)
	}

	if err := s.writeFunnelSheet(f, headerStyle, leads, names); err != nil {
		return 0, err
	}

	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	if err := f.Write(w); err != nil {
		return 0, domain.NewInternalError(fmt.Errorf("failed to write workbook: %w", err))
	}

	s.logger.Info("✅ Leads exported", "format", "excel", "count", len(leads))
	return len(leads), nil
}

// writeFunnelSheet adds per-broker totals, closed deals and pipeline
// budget so the workbook stands on its own
func (s *Service) writeFunnelSheet(f *excelize.File, headerStyle int, leads []models.Lead, names map[string]string) error {
	sheet := "Resumen"
	if _, err := f.NewSheet(sheet); err != nil {
		return domain.NewInternalError(fmt.Errorf("failed to create summary sheet: %w", err))
	}

	type summary struct {
		total  int
		closed int
		budget float64
	}
	totals := map[string]*summary{}
	var order []string
	for _, l := range leads {
		sum, ok := totals[l.AssignedTo]
		if !ok {
			sum = &summary{}
			totals[l.AssignedTo] = sum
			order = append(order, l.AssignedTo)
		}
		sum.total++
		sum.budget += l.Budget
		if l.Status == models.LeadStatusSold {
			sum.closed++
		}
	}

	headers := []string{"Broker", "Total Leads", "Closed Deals", "Pipeline Budget"}
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, header)
		f.SetCellStyle(sheet, cell, cell, headerStyle)
	}

	for rowIdx, userID := range order {
		sum := totals[userID]
		name := names[userID]
		if name == "" {
			name = userID
		}
		row := rowIdx + 2
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), name)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), sum.total)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), sum.closed)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), sum.budget)
	}

	for i := range headers {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheet, col, col, 18)
	}
	return nil
}
