package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/timlee789/account/internal/ledger"
	"github.com/timlee789/account/internal/util"
)

// DashboardHandler serves the monthly summary.
type DashboardHandler struct {
	Aggregator *ledger.Aggregator
}

func NewDashboardHandler(agg *ledger.Aggregator) *DashboardHandler {
	return &DashboardHandler{Aggregator: agg}
}

type summaryQuery struct {
	Month string `form:"month" binding:"omitempty,yearmonth"`
}

// Summary GET /dashboard-summary?month=YYYY-MM. Without a month every record counts.
func (h *DashboardHandler) Summary(c *gin.Context) {
	var q summaryQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "month must be YYYY-MM")
		return
	}
	summary, err := h.Aggregator.DashboardSummary(c.Request.Context(), q.Month)
	if err != nil {
		util.Fail(c, err)
		return
	}
	util.Success(c, summary)
}
