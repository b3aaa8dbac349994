package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/timlee789/account/internal/models"
	"github.com/timlee789/account/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// LogHandler serves the audit trail of mutating requests.
type LogHandler struct {
	DB *gorm.DB
}

func NewLogHandler(db *gorm.DB) *LogHandler {
	return &LogHandler{DB: db}
}

// ListLogs GET /audit-logs, paged, filtered by start/end (YYYY-MM-DD) and q.
func (h *LogHandler) ListLogs(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page <= 0 {
		page = 1
	}
	size, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	base := h.DB.WithContext(c.Request.Context()).Model(&models.AuditLog{})

	if s := c.Query("start"); s != "" {
		start, err := time.Parse("2006-01-02", s)
		if err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "start must be YYYY-MM-DD")
			return
		}
		base = base.Where("created_at >= ?", start)
	}
	if e := c.Query("end"); e != "" {
		end, err := time.Parse("2006-01-02", e)
		if err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "end must be YYYY-MM-DD")
			return
		}
		base = base.Where("created_at < ?", end.Add(24*time.Hour))
	}
	if q := strings.TrimSpace(c.Query("q")); q != "" {
		like := "%" + q + "%"
		base = base.Where("path LIKE ? OR body LIKE ?", like, like)
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		util.Fail(c, err)
		return
	}

	var logs []models.AuditLog
	if err := base.
		Order("created_at DESC, id DESC").
		Limit(size).
		Offset(offset).
		Find(&logs).Error; err != nil {
		util.Fail(c, err)
		return
	}
	if logs == nil {
		logs = []models.AuditLog{}
	}

	util.Success(c, gin.H{
		"count":     len(logs),
		"total":     total,
		"page":      page,
		"page_size": size,
		"data":      logs,
	})
}
