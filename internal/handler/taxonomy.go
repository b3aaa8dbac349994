package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/timlee789/account/internal/ledger"
	"github.com/timlee789/account/internal/util"
)

// TaxonomyHandler feeds the category and payee pickers.
type TaxonomyHandler struct {
	Taxonomy ledger.Taxonomy
}

func NewTaxonomyHandler(t ledger.Taxonomy) *TaxonomyHandler {
	return &TaxonomyHandler{Taxonomy: t}
}

// Get GET /taxonomy?q=... filters both lists by substring.
func (h *TaxonomyHandler) Get(c *gin.Context) {
	q := c.Query("q")
	util.Success(c, gin.H{
		"categories": ledger.Suggest(h.Taxonomy.Categories, q),
		"payees":     ledger.Suggest(h.Taxonomy.Payees, q),
	})
}
