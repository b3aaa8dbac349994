package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/timlee789/account/internal/ledger"
	"github.com/timlee789/account/internal/report"
	"github.com/timlee789/account/internal/util"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportHandler streams spreadsheets of the register and the ledgers.
type ExportHandler struct {
	Store *ledger.Store
}

func NewExportHandler(store *ledger.Store) *ExportHandler {
	return &ExportHandler{Store: store}
}

func attachment(c *gin.Context, contentType, prefix, ext string) {
	c.Header("Content-Type", contentType)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s_%s.%s\"",
		prefix, time.Now().Format("20060102"), ext))
}

// SalesXLSX GET /export/sales.xlsx
func (h *ExportHandler) SalesXLSX(c *gin.Context) {
	rows, err := h.Store.ListSales(c.Request.Context())
	if err != nil {
		util.Fail(c, err)
		return
	}
	f, err := report.SalesWorkbook(ledger.MonthlySalesRollup(rows))
	if err != nil {
		util.Fail(c, err)
		return
	}
	defer f.Close()

	attachment(c, xlsxContentType, "sales", "xlsx")
	if err := f.Write(c.Writer); err != nil {
		slog.Error("write sales workbook", "error", err)
	}
}

// SalesCSV GET /export/sales.csv
func (h *ExportHandler) SalesCSV(c *gin.Context) {
	rows, err := h.Store.ListSales(c.Request.Context())
	if err != nil {
		util.Fail(c, err)
		return
	}
	attachment(c, "text/csv; charset=utf-8", "sales", "csv")
	c.Status(http.StatusOK)
	if err := report.WriteSalesCSV(c.Writer, ledger.MonthlySalesRollup(rows)); err != nil {
		slog.Error("write sales csv", "error", err)
	}
}

// LedgerXLSX GET /export/ledger.xlsx
func (h *ExportHandler) LedgerXLSX(c *gin.Context) {
	ctx := c.Request.Context()
	txns, err := h.Store.ListTransactions(ctx)
	if err != nil {
		util.Fail(c, err)
		return
	}
	cards, err := h.Store.ListCreditCards(ctx)
	if err != nil {
		util.Fail(c, err)
		return
	}
	cash, err := h.Store.ListCash(ctx)
	if err != nil {
		util.Fail(c, err)
		return
	}
	f, err := report.LedgerWorkbook(txns, cards, cash)
	if err != nil {
		util.Fail(c, err)
		return
	}
	defer f.Close()

	attachment(c, xlsxContentType, "ledger", "xlsx")
	if err := f.Write(c.Writer); err != nil {
		slog.Error("write ledger workbook", "error", err)
	}
}
