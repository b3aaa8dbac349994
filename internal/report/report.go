// Package report renders the sales register and the ledgers as spreadsheets.
package report

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/timlee789/account/internal/ledger"
	"github.com/timlee789/account/internal/models"
)

const (
	SalesSheet = "Sales"
	CashSheet  = "Cash"
)

var salesHeaders = []string{"Date", "Cash", "Debit", "Credit", "Svc", "Tips", "Tax", "Cash Tips", "DoorDash", "Stripe", "Total", "Memo"}

var ledgerHeaders = []string{"Date", "Category", "Payee", "Payee Note", "Income", "Expense", "Cash Amount", "Bank Balance", "Description", "Account Source"}

var cashHeaders = []string{"Date", "Category", "Payee", "Income", "Expense", "Balance", "Description"}

func money(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

// salesLine flattens one rollup row into spreadsheet cells. Subtotals leave
// the channels they do not sum blank.
func salesLine(r ledger.RollupRow) []interface{} {
	if r.Type == ledger.RollupSubtotal {
		s := r.Subtotal
		return []interface{}{
			s.Month + " Subtotal", money(s.Cash), money(s.Debit), money(s.Credit),
			nil, nil, nil, money(s.CashTips), money(s.Doordash), money(s.Stripe), money(s.Total),
			fmt.Sprintf("%d days", s.Count),
		}
	}
	rec := r.Record
	return []interface{}{
		rec.Date, money(rec.Cash), money(rec.Debit), money(rec.Credit),
		money(rec.Svc), money(rec.Tips), money(rec.Tax), money(rec.CashTips),
		money(rec.Doordash), money(rec.Stripe), money(rec.Total), rec.Memo,
	}
}

// SalesWorkbook writes the month-grouped sales register into one sheet, with
// subtotal rows in bold.
func SalesWorkbook(rows []ledger.RollupRow) (*excelize.File, error) {
	f := excelize.NewFile()
	if _, err := f.NewSheet(SalesSheet); err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}
	_ = f.DeleteSheet("Sheet1")
	if idx, err := f.GetSheetIndex(SalesSheet); err == nil {
		f.SetActiveSheet(idx)
	}

	bold, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#E7EEF7"}},
	})
	if err != nil {
		return nil, fmt.Errorf("create style: %w", err)
	}

	if err := writeRow(f, SalesSheet, 1, toCells(salesHeaders)); err != nil {
		return nil, err
	}
	for i, r := range rows {
		n := i + 2
		if err := writeRow(f, SalesSheet, n, salesLine(r)); err != nil {
			return nil, err
		}
		if r.Type == ledger.RollupSubtotal {
			first, _ := excelize.CoordinatesToCellName(1, n)
			last, _ := excelize.CoordinatesToCellName(len(salesHeaders), n)
			if err := f.SetCellStyle(SalesSheet, first, last, bold); err != nil {
				return nil, fmt.Errorf("style row %d: %w", n, err)
			}
		}
	}

	_ = f.SetColWidth(SalesSheet, "A", "A", 18)
	_ = f.SetColWidth(SalesSheet, "B", "K", 12)
	_ = f.SetColWidth(SalesSheet, "L", "L", 30)
	return f, nil
}

// WriteSalesCSV writes the same register as CSV with a UTF-8 BOM so Excel
// opens it with the right encoding.
func WriteSalesCSV(w io.Writer, rows []ledger.RollupRow) error {
	if _, err := w.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(salesHeaders); err != nil {
		return err
	}
	for _, r := range rows {
		line := salesLine(r)
		record := make([]string, len(line))
		for i, v := range line {
			switch val := v.(type) {
			case nil:
				record[i] = ""
			case float64:
				record[i] = decimal.NewFromFloat(val).StringFixed(2)
			default:
				record[i] = fmt.Sprint(val)
			}
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// LedgerWorkbook writes the bank ledger, the card ledger and the cash book
// into one workbook, one sheet each.
func LedgerWorkbook(txns []models.Transaction, cards []models.CreditCardTransaction, cash []models.CashRecord) (*excelize.File, error) {
	f := excelize.NewFile()

	entries := make([]models.LedgerFields, len(txns))
	for i := range txns {
		entries[i] = txns[i].LedgerFields
	}
	if err := ledgerSheet(f, "Transactions", entries); err != nil {
		return nil, err
	}

	entries = make([]models.LedgerFields, len(cards))
	for i := range cards {
		entries[i] = cards[i].LedgerFields
	}
	if err := ledgerSheet(f, "Credit Cards", entries); err != nil {
		return nil, err
	}

	if _, err := f.NewSheet(CashSheet); err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}
	if err := writeRow(f, CashSheet, 1, toCells(cashHeaders)); err != nil {
		return nil, err
	}
	for i, c := range cash {
		if err := writeRow(f, CashSheet, i+2, []interface{}{
			c.Date, c.Category, c.Payee, money(c.Income), money(c.Expense), money(c.Balance), c.Description,
		}); err != nil {
			return nil, err
		}
	}

	_ = f.DeleteSheet("Sheet1")
	if idx, err := f.GetSheetIndex("Transactions"); err == nil {
		f.SetActiveSheet(idx)
	}
	return f, nil
}

func ledgerSheet(f *excelize.File, sheet string, rows []models.LedgerFields) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("create sheet %s: %w", sheet, err)
	}
	if err := writeRow(f, sheet, 1, toCells(ledgerHeaders)); err != nil {
		return err
	}
	for i, e := range rows {
		if err := writeRow(f, sheet, i+2, []interface{}{
			e.Date, e.Category, e.Payee, e.PayeeNote,
			money(e.Income), money(e.Expense), money(e.CashAmount), money(e.BankBalance),
			e.Description, e.AccountSource,
		}); err != nil {
			return err
		}
	}
	_ = f.SetColWidth(sheet, "A", "A", 12)
	_ = f.SetColWidth(sheet, "B", "D", 18)
	_ = f.SetColWidth(sheet, "I", "I", 40)
	return nil
}

func writeRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("write %s row %d: %w", sheet, row, err)
	}
	return nil
}

func toCells(headers []string) []interface{} {
	out := make([]interface{}, len(headers))
	for i, h := range headers {
		out[i] = h
	}
	return out
}
