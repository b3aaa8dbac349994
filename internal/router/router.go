package router

import (
	"fmt"
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"

	"github.com/timlee789/account/internal/config"
	"github.com/timlee789/account/internal/handler"
	"github.com/timlee789/account/internal/importer"
	"github.com/timlee789/account/internal/ledger"
	"github.com/timlee789/account/internal/logger"
	"github.com/timlee789/account/internal/middleware"
	"github.com/timlee789/account/internal/util"
)

// SetupRouter wires the ledger, the importer and the handlers onto a Gin engine.
// Every route is served both at the root and under /api.
func SetupRouter(cfg *config.Config, db *gorm.DB, log *slog.Logger) (*gin.Engine, error) {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		if err := util.RegisterValidators(v); err != nil {
			return nil, fmt.Errorf("register validators: %w", err)
		}
	}

	policy := ledger.Policy{SalesAuthoritative: cfg.Dashboard.SalesAuthoritative}
	balance, err := ledger.NewBalancePolicy(cfg.Dashboard.BalancePolicy)
	if err != nil {
		return nil, err
	}
	dupPolicy, err := ledger.ParseDuplicatePolicy(cfg.Import.DuplicatePolicy)
	if err != nil {
		return nil, err
	}
	taxonomy, err := ledger.LoadTaxonomy(cfg.Taxonomy.Path)
	if err != nil {
		return nil, err
	}

	store := ledger.NewStore(db, log.With("component", logger.ComponentStore))
	agg := ledger.NewAggregator(db, policy, balance)
	im := importer.New(store, dupPolicy, log.With("component", logger.ComponentImport))

	r := gin.New()
	r.MaxMultipartMemory = int64(cfg.Import.MaxUploadMB) << 20
	httpLog := log.With("component", logger.ComponentHTTP)
	r.Use(
		gin.Recovery(),
		middleware.RequestLogger(httpLog),
		middleware.CORS(cfg.Server.CORSOrigins),
		middleware.AuditMiddleware(db, httpLog),
	)

	h := handlers{
		dashboard: handler.NewDashboardHandler(agg),
		ledger:    handler.NewLedgerHandler(store),
		cash:      handler.NewCashHandler(store),
		sales:     handler.NewSalesHandler(store),
		upload:    handler.NewUploadHandler(im, store, cfg.Import.MaxUploadMB),
		export:    handler.NewExportHandler(store),
		taxonomy:  handler.NewTaxonomyHandler(taxonomy),
		logs:      handler.NewLogHandler(db),
		health:    handler.Health(db),
	}
	h.register(r)
	h.register(r.Group("/api"))

	log.Info("router ready",
		"balance_policy", balance.Name(),
		"duplicate_policy", dupPolicy,
		"sales_authoritative", policy.SalesAuthoritative)
	return r, nil
}

type handlers struct {
	dashboard *handler.DashboardHandler
	ledger    *handler.LedgerHandler
	cash      *handler.CashHandler
	sales     *handler.SalesHandler
	upload    *handler.UploadHandler
	export    *handler.ExportHandler
	taxonomy  *handler.TaxonomyHandler
	logs      *handler.LogHandler
	health    gin.HandlerFunc
}

func (h handlers) register(r gin.IRoutes) {
	r.GET("/", handler.Root)
	r.GET("/healthz", h.health)

	r.GET("/dashboard-summary", h.dashboard.Summary)

	r.GET("/transactions", h.ledger.ListTransactions)
	r.PUT("/transactions/:id", h.ledger.UpdateTransaction)
	r.GET("/credit-cards", h.ledger.ListCreditCards)
	r.PUT("/credit-cards/:id", h.ledger.UpdateCreditCard)
	r.GET("/invoices", h.ledger.ListInvoices)

	r.GET("/cash", h.cash.List)
	r.POST("/cash", h.cash.Create)
	r.PUT("/cash/:id", h.cash.Update)
	r.DELETE("/cash/:id", h.cash.Delete)

	r.GET("/sales", h.sales.List)
	r.GET("/sales/rollup", h.sales.Rollup)
	r.POST("/update-sales", h.sales.Update)
	r.DELETE("/sales/:date", h.sales.Delete)

	r.POST("/upload", h.upload.Upload)
	r.GET("/imports", h.upload.ListImports)

	r.GET("/taxonomy", h.taxonomy.Get)

	r.GET("/export/sales.xlsx", h.export.SalesXLSX)
	r.GET("/export/sales.csv", h.export.SalesCSV)
	r.GET("/export/ledger.xlsx", h.export.LedgerXLSX)

	r.GET("/audit-logs", h.logs.ListLogs)
}
