package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/timlee789/account/internal/importer"
	"github.com/timlee789/account/internal/ledger"
	"github.com/timlee789/account/internal/util"
)

// UploadHandler accepts CSV exports and lists past imports.
type UploadHandler struct {
	Importer *importer.Importer
	Store    *ledger.Store
	MaxBytes int64
}

func NewUploadHandler(im *importer.Importer, store *ledger.Store, maxMB int) *UploadHandler {
	return &UploadHandler{Importer: im, Store: store, MaxBytes: int64(maxMB) << 20}
}

// Upload POST /upload, multipart "file" plus "target_tab" (ledger, credit_card, invoice).
func (h *UploadHandler) Upload(c *gin.Context) {
	if h.MaxBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.MaxBytes)
	}
	fh, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			util.Error(c, http.StatusRequestEntityTooLarge, util.CodeTooLarge, "file too large")
			return
		}
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "missing file")
		return
	}
	f, err := fh.Open()
	if err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "cannot read file")
		return
	}
	defer f.Close()

	res, err := h.Importer.Import(c.Request.Context(), f, importer.Options{
		Target:        c.PostForm("target_tab"),
		FileName:      fh.Filename,
		AccountSource: c.PostForm("account_source"),
	})
	if err != nil {
		util.Fail(c, err)
		return
	}
	util.Done(c, util.Response{
		"message":    res.Message,
		"batch_id":   res.BatchID,
		"format":     res.Format,
		"imported":   res.Imported,
		"duplicates": res.Duplicates,
		"skipped":    res.Skipped,
		"warnings":   res.Warnings,
	})
}

// ListImports GET /imports?limit=N
func (h *UploadHandler) ListImports(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	rows, err := h.Store.ListImports(c.Request.Context(), limit)
	if err != nil {
		util.Fail(c, err)
		return
	}
	util.List(c, rows)
}
