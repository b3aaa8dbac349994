package router

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/timlee789/account/internal/config"
	"github.com/timlee789/account/internal/database"
	"github.com/timlee789/account/internal/models"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func setupTestRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	cfg := &config.Config{
		Server:    config.ServerConfig{Mode: gin.TestMode, CORSOrigins: []string{"*"}},
		Database:  config.DatabaseConfig{Path: filepath.Join(t.TempDir(), "api.db")},
		Import:    config.ImportConfig{DuplicatePolicy: "reject", MaxUploadMB: 1},
		Dashboard: config.DashboardConfig{BalancePolicy: "month", SalesAuthoritative: true},
	}
	db, err := database.Init(cfg.Database)
	if err != nil {
		t.Fatalf("init test database: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}
	t.Cleanup(func() { _ = database.Close(db) })

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	r, err := SetupRouter(cfg, db, log)
	if err != nil {
		t.Fatalf("SetupRouter error = %v", err)
	}
	return r, db
}

func doJSON(t *testing.T, r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		rd = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), v); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
}

func TestRoot(t *testing.T) {
	r, _ := setupTestRouter(t)
	for _, path := range []string{"/", "/api/", "/healthz", "/api/healthz"} {
		if w := doJSON(t, r, http.MethodGet, path, nil); w.Code != http.StatusOK {
			t.Errorf("GET %s status = %d, want 200", path, w.Code)
		}
	}
}

func TestDashboardSummary(t *testing.T) {
	r, db := setupTestRouter(t)
	db.Create(&models.SalesRecord{Date: "2024-03-02", Cash: d("50"), Total: d("50")})

	w := doJSON(t, r, http.MethodGet, "/dashboard-summary?month=2024-03", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	var got map[string]any
	decode(t, w, &got)
	if got["totalRevenue"] != float64(50) || got["netProfit"] != float64(50) {
		t.Errorf("summary = %v", got)
	}
	breakdown, ok := got["salesBreakdown"].(map[string]any)
	if !ok || breakdown["cash"] != float64(50) {
		t.Errorf("salesBreakdown = %v", got["salesBreakdown"])
	}

	empty := doJSON(t, r, http.MethodGet, "/api/dashboard-summary?month=1999-01", nil)
	decode(t, empty, &got)
	if empty.Code != http.StatusOK || got["totalRevenue"] != float64(0) {
		t.Errorf("empty month = %d %v", empty.Code, got)
	}

	bad := doJSON(t, r, http.MethodGet, "/dashboard-summary?month=March", nil)
	if bad.Code != http.StatusBadRequest {
		t.Errorf("bad month status = %d, want 400", bad.Code)
	}
	var errBody map[string]any
	decode(t, bad, &errBody)
	if errBody["detail"] == nil {
		t.Errorf("error body = %v, want detail", errBody)
	}
}

func TestUpdateSales(t *testing.T) {
	r, _ := setupTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/update-sales", map[string]any{"date": "2024-03-10", "field": "stripe", "value": 42})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	doJSON(t, r, http.MethodPost, "/update-sales", map[string]any{"date": "2024-03-10", "field": "cash", "value": "8.50"})

	var sales []map[string]any
	decode(t, doJSON(t, r, http.MethodGet, "/sales", nil), &sales)
	if len(sales) != 1 {
		t.Fatalf("sales = %v, want one record", sales)
	}
	if sales[0]["stripe"] != float64(42) || sales[0]["total"] != 50.5 {
		t.Errorf("record = %v, want stripe 42 total 50.5", sales[0])
	}

	if w := doJSON(t, r, http.MethodPost, "/update-sales", map[string]any{"date": "2024-03-10", "field": "total", "value": 1}); w.Code != http.StatusBadRequest {
		t.Errorf("writing total status = %d, want 400", w.Code)
	}
	if w := doJSON(t, r, http.MethodPost, "/update-sales", map[string]any{"date": "someday", "field": "cash", "value": 1}); w.Code != http.StatusBadRequest {
		t.Errorf("bad date status = %d, want 400", w.Code)
	}

	var rollup []map[string]any
	decode(t, doJSON(t, r, http.MethodGet, "/sales/rollup", nil), &rollup)
	if len(rollup) != 2 || rollup[1]["type"] != "subtotal" {
		t.Errorf("rollup = %v", rollup)
	}

	if w := doJSON(t, r, http.MethodDelete, "/sales/2024-03-10", nil); w.Code != http.StatusOK {
		t.Errorf("delete status = %d", w.Code)
	}
	if w := doJSON(t, r, http.MethodDelete, "/sales/2024-03-10", nil); w.Code != http.StatusNotFound {
		t.Errorf("second delete status = %d, want 404", w.Code)
	}
}

func TestUpdateTransaction(t *testing.T) {
	r, db := setupTestRouter(t)
	db.Create(&models.Transaction{ID: 7, LedgerFields: models.LedgerFields{Date: "2024-03-01", Category: "Don't Know"}})

	w := doJSON(t, r, http.MethodPut, "/api/transactions/7", map[string]any{"category": "Catering Gear", "cash_amount": -15})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	var list struct {
		Count int              `json:"count"`
		Data  []map[string]any `json:"data"`
	}
	decode(t, doJSON(t, r, http.MethodGet, "/transactions", nil), &list)
	if list.Count != 1 || list.Data[0]["category"] != "Catering Gear" || list.Data[0]["cash_amount"] != float64(-15) {
		t.Errorf("transactions = %+v", list)
	}
	if _, leaked := list.Data[0]["fingerprint"]; leaked {
		t.Error("fingerprint should not be serialized")
	}

	if w := doJSON(t, r, http.MethodPut, "/transactions/7", map[string]any{"colour": "red"}); w.Code != http.StatusBadRequest {
		t.Errorf("unknown field status = %d, want 400", w.Code)
	}
	if w := doJSON(t, r, http.MethodPut, "/transactions/8", map[string]any{"payee": "PFG"}); w.Code != http.StatusNotFound {
		t.Errorf("missing id status = %d, want 404", w.Code)
	}
	if w := doJSON(t, r, http.MethodPut, "/credit-cards/1", map[string]any{"payee": "Amex"}); w.Code != http.StatusNotFound {
		t.Errorf("missing card status = %d, want 404", w.Code)
	}
}

func TestCashEndpoints(t *testing.T) {
	r, _ := setupTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/cash", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("create status = %d, body %s", w.Code, w.Body.String())
	}
	var created map[string]any
	decode(t, w, &created)
	if created["status"] != "success" || created["id"] != float64(1) {
		t.Errorf("create body = %v", created)
	}

	if w := doJSON(t, r, http.MethodPut, "/cash/1", map[string]any{"field": "income", "value": 120}); w.Code != http.StatusOK {
		t.Errorf("update status = %d, body %s", w.Code, w.Body.String())
	}
	if w := doJSON(t, r, http.MethodPut, "/cash/1", map[string]any{"field": "expense", "value": -1}); w.Code != http.StatusBadRequest {
		t.Errorf("negative expense status = %d, want 400", w.Code)
	}
	if w := doJSON(t, r, http.MethodPut, "/cash/1", map[string]any{"value": 1}); w.Code != http.StatusBadRequest {
		t.Errorf("missing field status = %d, want 400", w.Code)
	}

	var list struct {
		Count int              `json:"count"`
		Data  []map[string]any `json:"data"`
	}
	decode(t, doJSON(t, r, http.MethodGet, "/cash", nil), &list)
	if list.Count != 1 || list.Data[0]["income"] != float64(120) {
		t.Errorf("cash = %+v", list)
	}

	if w := doJSON(t, r, http.MethodDelete, "/cash/1", nil); w.Code != http.StatusOK {
		t.Errorf("delete status = %d", w.Code)
	}
	if w := doJSON(t, r, http.MethodDelete, "/cash/1", nil); w.Code != http.StatusNotFound {
		t.Errorf("second delete status = %d, want 404", w.Code)
	}
}

func upload(t *testing.T, r http.Handler, target, name, content string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", name)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	_, _ = fw.Write([]byte(content))
	if target != "" {
		_ = mw.WriteField("target_tab", target)
	}
	_ = mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestUpload(t *testing.T) {
	r, _ := setupTestRouter(t)
	csv := "Date,Description,Amount\n" +
		"2024-03-01,A,10\n2024-03-02,B,-20\n,C,-5\n2024-03-04,D,30\n2024-03-05,E,-40\n"

	w := upload(t, r, "ledger", "bank.csv", csv)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	var got struct {
		Status   string `json:"status"`
		Imported int    `json:"imported"`
		Skipped  []struct {
			Row    int    `json:"row"`
			Reason string `json:"reason"`
		} `json:"skipped"`
		Message string `json:"message"`
	}
	decode(t, w, &got)
	if got.Status != "success" || got.Imported != 4 || len(got.Skipped) != 1 || got.Skipped[0].Row != 3 {
		t.Errorf("upload result = %+v", got)
	}

	var imports struct {
		Count int `json:"count"`
	}
	decode(t, doJSON(t, r, http.MethodGet, "/imports", nil), &imports)
	if imports.Count != 1 {
		t.Errorf("imports count = %d, want 1", imports.Count)
	}

	wrong := upload(t, r, "invoice", "bank.csv", "Transaction Date,Posted Date,Full description,Amount\n01/02/2024,01/02/2024,X,1\n")
	if wrong.Code != http.StatusBadRequest {
		t.Errorf("wrong tab status = %d, want 400", wrong.Code)
	}
	var detail map[string]any
	decode(t, wrong, &detail)
	if !strings.Contains(detail["detail"].(string), "Financial Ledger") {
		t.Errorf("wrong tab detail = %v", detail)
	}
}

func TestTaxonomy(t *testing.T) {
	r, _ := setupTestRouter(t)
	var got struct {
		Categories []string `json:"categories"`
		Payees     []string `json:"payees"`
	}
	decode(t, doJSON(t, r, http.MethodGet, "/taxonomy?q=tax", nil), &got)
	if len(got.Categories) != 1 || got.Categories[0] != "Tax" {
		t.Errorf("categories = %v, want [Tax]", got.Categories)
	}
	if len(got.Payees) != 2 {
		t.Errorf("payees = %v, want State Tax and Federal Tax", got.Payees)
	}
}

func TestExports(t *testing.T) {
	r, db := setupTestRouter(t)
	db.Create(&models.SalesRecord{Date: "2024-03-02", Cash: d("50"), Total: d("50")})

	testCases := map[string]string{
		"/export/sales.xlsx":  "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		"/export/sales.csv":   "text/csv; charset=utf-8",
		"/export/ledger.xlsx": "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	}
	for path, contentType := range testCases {
		w := doJSON(t, r, http.MethodGet, path, nil)
		if w.Code != http.StatusOK {
			t.Errorf("GET %s status = %d", path, w.Code)
			continue
		}
		if got := w.Header().Get("Content-Type"); got != contentType {
			t.Errorf("GET %s content type = %q, want %q", path, got, contentType)
		}
		if w.Body.Len() == 0 {
			t.Errorf("GET %s returned an empty body", path)
		}
	}
}

func TestAuditTrail(t *testing.T) {
	r, db := setupTestRouter(t)
	doJSON(t, r, http.MethodPost, "/cash", nil)
	doJSON(t, r, http.MethodPut, "/cash/1", map[string]any{"field": "payee", "value": "Costco"})
	doJSON(t, r, http.MethodGet, "/cash", nil)

	var logs []models.AuditLog
	db.Order("id ASC").Find(&logs)
	if len(logs) != 2 {
		t.Fatalf("audit rows = %d, want 2 (reads are not audited)", len(logs))
	}
	if logs[1].Method != http.MethodPut || !strings.Contains(logs[1].Body, "Costco") || logs[1].Status != http.StatusOK {
		t.Errorf("audit row = %+v", logs[1])
	}

	var page struct {
		Total int `json:"total"`
	}
	decode(t, doJSON(t, r, http.MethodGet, "/audit-logs?q=Costco", nil), &page)
	if page.Total != 1 {
		t.Errorf("audit search total = %d, want 1", page.Total)
	}
}

func TestCORSPreflight(t *testing.T) {
	r, _ := setupTestRouter(t)
	req := httptest.NewRequest(http.MethodOptions, "/transactions/1", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNoContent {
		t.Errorf("preflight status = %d, want 204", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Errorf("allow origin = %q", got)
	}
}
