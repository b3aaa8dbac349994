package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/timlee789/account/internal/ledger"
	"github.com/timlee789/account/internal/util"
)

// LedgerHandler serves the bank ledger, the card ledger and the invoice lines.
type LedgerHandler struct {
	Store *ledger.Store
}

func NewLedgerHandler(store *ledger.Store) *LedgerHandler {
	return &LedgerHandler{Store: store}
}

// ListTransactions GET /transactions
func (h *LedgerHandler) ListTransactions(c *gin.Context) {
	rows, err := h.Store.ListTransactions(c.Request.Context())
	if err != nil {
		util.Fail(c, err)
		return
	}
	util.List(c, rows)
}

// UpdateTransaction PUT /transactions/:id with body {field: value, ...}
func (h *LedgerHandler) UpdateTransaction(c *gin.Context) {
	h.update(c, ledger.RecordTransaction)
}

// ListCreditCards GET /credit-cards
func (h *LedgerHandler) ListCreditCards(c *gin.Context) {
	rows, err := h.Store.ListCreditCards(c.Request.Context())
	if err != nil {
		util.Fail(c, err)
		return
	}
	util.List(c, rows)
}

// UpdateCreditCard PUT /credit-cards/:id
func (h *LedgerHandler) UpdateCreditCard(c *gin.Context) {
	h.update(c, ledger.RecordCreditCard)
}

// ListInvoices GET /invoices
func (h *LedgerHandler) ListInvoices(c *gin.Context) {
	rows, err := h.Store.ListInvoices(c.Request.Context())
	if err != nil {
		util.Fail(c, err)
		return
	}
	util.List(c, rows)
}

func (h *LedgerHandler) update(c *gin.Context, kind ledger.RecordKind) {
	values, ok := bindFields(c)
	if !ok {
		return
	}
	id := c.Param("id")
	if err := h.Store.UpdateFields(c.Request.Context(), kind, id, values); err != nil {
		util.Fail(c, err)
		return
	}
	util.Done(c, util.Response{"message": "Updated successfully"})
}

// bindFields decodes a {field: value} body keeping numbers exact.
func bindFields(c *gin.Context) (map[string]any, bool) {
	dec := json.NewDecoder(c.Request.Body)
	dec.UseNumber()
	var values map[string]any
	if err := dec.Decode(&values); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "request body must be a JSON object")
		return nil, false
	}
	for field := range values {
		if err := util.ValidateField(field); err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
			return nil, false
		}
	}
	return values, true
}
