package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/timlee789/account/internal/ledger"
	"github.com/timlee789/account/internal/models"
	"github.com/timlee789/account/internal/util"
)

// SalesHandler serves the daily sales register.
type SalesHandler struct {
	Store *ledger.Store
}

func NewSalesHandler(store *ledger.Store) *SalesHandler {
	return &SalesHandler{Store: store}
}

type salesUpdateReq struct {
	Date string `json:"date" binding:"required,isodate"`
	fieldUpdateReq
}

// List GET /sales returns a bare array, newest day first.
func (h *SalesHandler) List(c *gin.Context) {
	rows, err := h.Store.ListSales(c.Request.Context())
	if err != nil {
		util.Fail(c, err)
		return
	}
	if rows == nil {
		rows = []models.SalesRecord{}
	}
	util.Success(c, rows)
}

// Rollup GET /sales/rollup returns the register grouped by month with subtotals.
func (h *SalesHandler) Rollup(c *gin.Context) {
	rows, err := h.Store.ListSales(c.Request.Context())
	if err != nil {
		util.Fail(c, err)
		return
	}
	util.Success(c, ledger.MonthlySalesRollup(rows))
}

// Update POST /update-sales with body {date, field, value}. The day is
// created on first edit.
func (h *SalesHandler) Update(c *gin.Context) {
	var req salesUpdateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "body must be {date, field, value} with a valid date")
		return
	}
	value, err := req.decodeValue()
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "value is not valid JSON")
		return
	}
	rec, err := h.Store.UpsertSalesField(c.Request.Context(), req.Date, req.Field, value)
	if err != nil {
		util.Fail(c, err)
		return
	}
	util.Done(c, util.Response{"data": rec})
}

// Delete DELETE /sales/:date
func (h *SalesHandler) Delete(c *gin.Context) {
	if err := h.Store.Delete(c.Request.Context(), ledger.RecordSales, c.Param("date")); err != nil {
		util.Fail(c, err)
		return
	}
	util.Done(c, nil)
}
