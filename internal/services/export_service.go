package services

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	apperrors "moneybook/internal/errors"
	"moneybook/internal/models"
)

// ExportSheet is the worksheet that holds exported entries.
const ExportSheet = "Entries"

var exportHeader = []interface{}{"Description", "Month", "Year", "Type", "Status", "Amount", "Created At"}

// exportService writes entries to XLSX workbooks.
type exportService struct {
	entries  EntryServicer
	balances BalanceServicer
}

// NewExportService creates a new ExportServicer.
func NewExportService(entries EntryServicer, balances BalanceServicer) ExportServicer {
	return &exportService{entries: entries, balances: balances}
}

// ExportEntries builds a workbook with one row per matching entry. When the
// filter names a user, a final row carries that user's settled balance.
// The caller owns the returned file and must Close it.
func (s *exportService) ExportEntries(filter EntryFilter) (*excelize.File, error) {
	entries, err := s.entries.FindByExample(filter)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	if err := s.fill(f, filter, entries); err != nil {
		_ = f.Close()
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return f, nil
}

func (s *exportService) fill(f *excelize.File, filter EntryFilter, entries []models.Entry) error {
	if err := f.SetSheetName(f.GetSheetName(0), ExportSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	if err := f.SetSheetRow(ExportSheet, "A1", &exportHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, e := range entries {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := []interface{}{
			e.Description,
			e.Month,
			e.Year,
			string(e.Type),
			string(e.Status),
			e.Amount.InexactFloat64(),
			e.CreatedAt.Format("2006-01-02"),
		}
		if err := f.SetSheetRow(ExportSheet, cell, &values); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	if filter.UserID == nil {
		return nil
	}

	balance, err := s.balances.BalanceForUser(*filter.UserID)
	if err != nil {
		return err
	}
	cell, err := excelize.CoordinatesToCellName(1, len(entries)+3)
	if err != nil {
		return err
	}
	footer := []interface{}{"Settled balance", "", "", "", "", balance.InexactFloat64()}
	if err := f.SetSheetRow(ExportSheet, cell, &footer); err != nil {
		return fmt.Errorf("write balance row: %w", err)
	}
	return nil
}
