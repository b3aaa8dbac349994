package util

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/timlee789/account/internal/ledger"
)

// Response is an extra payload merged into a mutation acknowledgement.
type Response map[string]interface{}

// Business error codes, returned next to the HTTP status.
const (
	CodeInvalidParam = 40001
	CodeNotFound     = 40401
	CodeTooLarge     = 41301
	CodeServerErr    = 50001
)

// Success writes data as the whole body. The dashboard, sales and rollup
// endpoints return their payload bare.
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// List writes a table as {count, data}.
func List[T any](c *gin.Context, rows []T) {
	if rows == nil {
		rows = []T{}
	}
	c.JSON(http.StatusOK, gin.H{
		"count": len(rows),
		"data":  rows,
	})
}

// Done acknowledges a mutation as {status: "success", ...extra}.
func Done(c *gin.Context, extra Response) {
	body := gin.H{"status": "success"}
	for k, v := range extra {
		body[k] = v
	}
	c.JSON(http.StatusOK, body)
}

// Error writes {detail, code} and stops the handler chain.
func Error(c *gin.Context, httpStatus int, code int, msg string) {
	c.AbortWithStatusJSON(httpStatus, gin.H{
		"detail": msg,
		"code":   code,
	})
}

// Fail maps a ledger error onto its HTTP status. Anything unexpected is
// logged and reported as a generic server error.
func Fail(c *gin.Context, err error) {
	var (
		ve *ledger.ValidationError
		nf *ledger.NotFoundError
	)
	switch {
	case errors.As(err, &ve):
		Error(c, http.StatusBadRequest, CodeInvalidParam, ve.Error())
	case errors.As(err, &nf):
		Error(c, http.StatusNotFound, CodeNotFound, nf.Error())
	default:
		slog.Error("request failed", "method", c.Request.Method, "path", c.Request.URL.Path, "error", err)
		Error(c, http.StatusInternalServerError, CodeServerErr, "internal server error")
	}
}
