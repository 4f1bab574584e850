package service

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"royalty-backend/internal/domains/report/model"
	"royalty-backend/internal/shared/utils"
)

const (
	paymentsSheet = "Author payments"
	summarySheet  = "Summary"
)

var (
	paymentHeaders = []string{"Author ID", "Author", "Sale ID", "Book", "Date", "Quantity", "Publisher Revenue", "Royalty", "Paid"}
	summaryHeaders = []string{"Author ID", "Author", "Unpaid Sales", "Unpaid Total"}
)

// ExportAuthorPayments renders every author's ledger rows and unpaid
// balance as a workbook, in the order of the grouped payments report.
func (s *reportService) ExportAuthorPayments(ctx context.Context) (*excelize.File, error) {
	groups, _, err := s.GroupedAuthorPayments(ctx, utils.Page{All: true})
	if err != nil {
		return nil, fmt.Errorf("failed to load author payments: %w", err)
	}

	f, err := buildPaymentsWorkbook(groups)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to build workbook: %w", err)
	}
	return f, nil
}

func buildPaymentsWorkbook(groups []model.AuthorPaymentGroup) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", paymentsSheet); err != nil {
		return f, err
	}
	if _, err := f.NewSheet(summarySheet); err != nil {
		return f, err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return f, err
	}
	// Built-in number format 2 is "0.00".
	money, err := f.NewStyle(&excelize.Style{NumFmt: 2})
	if err != nil {
		return f, err
	}
	if err := writeHeader(f, paymentsSheet, paymentHeaders, bold); err != nil {
		return f, err
	}
	if err := writeHeader(f, summarySheet, summaryHeaders, bold); err != nil {
		return f, err
	}

	row := 2
	for i, g := range groups {
		summary := []any{g.AuthorID, g.Name, g.UnpaidCount, g.UnpaidTotal.InexactFloat64()}
		if err := writeRow(f, summarySheet, i+2, summary); err != nil {
			return f, err
		}

		for _, r := range g.Rows {
			paid := "no"
			if r.Paid {
				paid = "yes"
			}
			values := []any{
				r.AuthorID,
				r.AuthorName,
				r.SaleID,
				r.BookTitle,
				utils.FormatDate(r.Date),
				r.Quantity,
				r.PublisherRevenue.InexactFloat64(),
				r.RoyaltyAmount.InexactFloat64(),
				paid,
			}
			if err := writeRow(f, paymentsSheet, row, values); err != nil {
				return f, err
			}
			row++
		}
	}

	if row > 2 {
		if err := f.SetCellStyle(paymentsSheet, "G2", fmt.Sprintf("H%d", row-1), money); err != nil {
			return f, err
		}
	}
	if len(groups) > 0 {
		if err := f.SetCellStyle(summarySheet, "D2", fmt.Sprintf("D%d", len(groups)+1), money); err != nil {
			return f, err
		}
	}

	return f, nil
}

func writeHeader(f *excelize.File, sheet string, headers []string, style int) error {
	values := make([]any, len(headers))
	for i, h := range headers {
		values[i] = h
	}
	if err := writeRow(f, sheet, 1, values); err != nil {
		return err
	}

	last, err := excelize.CoordinatesToCellName(len(headers), 1)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, "A1", last, style)
}

// writeRow writes values into consecutive cells of row, starting at column A.
func writeRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}
