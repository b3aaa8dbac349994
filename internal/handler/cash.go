package handler

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/timlee789/account/internal/ledger"
	"github.com/timlee789/account/internal/util"
)

// CashHandler serves the manual cash book.
type CashHandler struct {
	Store *ledger.Store
}

func NewCashHandler(store *ledger.Store) *CashHandler {
	return &CashHandler{Store: store}
}

type fieldUpdateReq struct {
	Field string          `json:"field" binding:"required,max=32"`
	Value json.RawMessage `json:"value"`
}

// decodeValue keeps numeric values exact; an absent value clears the field.
func (r fieldUpdateReq) decodeValue() (any, error) {
	if len(r.Value) == 0 {
		return nil, nil
	}
	dec := json.NewDecoder(bytes.NewReader(r.Value))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}

type createCashReq struct {
	Date string `json:"date" binding:"omitempty,isodate"`
}

// List GET /cash
func (h *CashHandler) List(c *gin.Context) {
	rows, err := h.Store.ListCash(c.Request.Context())
	if err != nil {
		util.Fail(c, err)
		return
	}
	util.List(c, rows)
}

// Create POST /cash adds a blank record, dated today unless the body names a date.
func (h *CashHandler) Create(c *gin.Context) {
	var req createCashReq
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid date")
			return
		}
	}
	rec, err := h.Store.CreateCashRecord(c.Request.Context(), req.Date)
	if err != nil {
		util.Fail(c, err)
		return
	}
	util.Done(c, util.Response{"message": "Record added", "id": rec.ID, "data": rec})
}

// Update PUT /cash/:id with body {field, value}
func (h *CashHandler) Update(c *gin.Context) {
	var req fieldUpdateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "body must be {field, value}")
		return
	}
	value, err := req.decodeValue()
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "value is not valid JSON")
		return
	}
	if err := h.Store.UpdateField(c.Request.Context(), ledger.RecordCash, c.Param("id"), req.Field, value); err != nil {
		util.Fail(c, err)
		return
	}
	util.Done(c, nil)
}

// Delete DELETE /cash/:id
func (h *CashHandler) Delete(c *gin.Context) {
	if err := h.Store.Delete(c.Request.Context(), ledger.RecordCash, c.Param("id")); err != nil {
		util.Fail(c, err)
		return
	}
	util.Done(c, nil)
}
