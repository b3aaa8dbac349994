package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/timlee789/account/internal/models"
)

// DuplicatePolicy decides what an import does with a row whose fingerprint
// already exists in the target table.
type DuplicatePolicy string

const (
	DuplicatesReject DuplicatePolicy = "reject"
	DuplicatesAllow  DuplicatePolicy = "allow"
)

// ErrDuplicate marks an imported row that was skipped as already present.
var ErrDuplicate = errors.New("duplicate of an existing row")

func ParseDuplicatePolicy(s string) (DuplicatePolicy, error) {
	switch DuplicatePolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", DuplicatesReject:
		return DuplicatesReject, nil
	case DuplicatesAllow:
		return DuplicatesAllow, nil
	default:
		return "", fmt.Errorf("unknown duplicate policy %q", s)
	}
}

// Store owns every ledger table. Each method is one short database
// transaction; concurrent edits to the same record resolve last-write-wins.
type Store struct {
	db  *gorm.DB
	log *slog.Logger
	now func() time.Time
}

func NewStore(db *gorm.DB, log *slog.Logger) *Store {
	if log == nil {
		log = slog.Default()
	}
	return &Store{db: db, log: log, now: time.Now}
}

// DB exposes the handle for read-only collaborators such as the aggregator.
func (s *Store) DB() *gorm.DB {
	return s.db
}

func (s *Store) today() string {
	return s.now().Format(DateLayout)
}

// ---------- reads ----------

func (s *Store) ListTransactions(ctx context.Context) ([]models.Transaction, error) {
	var rows []models.Transaction
	if err := s.db.WithContext(ctx).Order("date DESC, id DESC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return rows, nil
}

func (s *Store) ListCreditCards(ctx context.Context) ([]models.CreditCardTransaction, error) {
	var rows []models.CreditCardTransaction
	if err := s.db.WithContext(ctx).Order("date DESC, id DESC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list credit card records: %w", err)
	}
	return rows, nil
}

func (s *Store) ListInvoices(ctx context.Context) ([]models.InvoiceItem, error) {
	var rows []models.InvoiceItem
	if err := s.db.WithContext(ctx).Order("date DESC, id ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	return rows, nil
}

func (s *Store) ListCash(ctx context.Context) ([]models.CashRecord, error) {
	var rows []models.CashRecord
	if err := s.db.WithContext(ctx).Order("date DESC, id DESC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list cash records: %w", err)
	}
	return rows, nil
}

func (s *Store) ListSales(ctx context.Context) ([]models.SalesRecord, error) {
	var rows []models.SalesRecord
	if err := s.db.WithContext(ctx).Order("date DESC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list sales records: %w", err)
	}
	return rows, nil
}

// ListImports returns the most recent import batches first.
func (s *Store) ListImports(ctx context.Context, limit int) ([]models.ImportBatch, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	var rows []models.ImportBatch
	if err := s.db.WithContext(ctx).Order("created_at DESC").Limit(limit).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list imports: %w", err)
	}
	return rows, nil
}

// ---------- updates ----------

// UpdateField sets one field of one record. For sales the key is the date,
// otherwise the numeric id.
func (s *Store) UpdateField(ctx context.Context, kind RecordKind, key, field string, value any) error {
	return s.UpdateFields(ctx, kind, key, map[string]any{field: value})
}

// UpdateFields applies a partial update atomically: every field is validated
// first, then all are written in one transaction or none are.
func (s *Store) UpdateFields(ctx context.Context, kind RecordKind, key string, values map[string]any) error {
	if kind == RecordSales {
		_, err := s.UpdateSalesFields(ctx, key, values)
		return err
	}

	fields, err := coerceFields(kind, values)
	if err != nil {
		return err
	}
	id, err := parseID(key)
	if err != nil {
		return err
	}
	model, err := newModel(kind)
	if err != nil {
		return err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(model).Where("id = ?", id).Updates(fields)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return &NotFoundError{Kind: kind, Key: key}
		}
		return nil
	})
	if err != nil {
		if IsNotFound(err) {
			return err
		}
		return fmt.Errorf("update %s %s: %w", kind, key, err)
	}
	s.log.Debug("record updated", "kind", kind, "key", key, "fields", len(fields))
	return nil
}

// CreateCashRecord inserts a blank cash record, dated today when date is empty.
func (s *Store) CreateCashRecord(ctx context.Context, date string) (models.CashRecord, error) {
	if strings.TrimSpace(date) == "" {
		date = s.today()
	}
	d, err := ParseDate(date)
	if err != nil {
		return models.CashRecord{}, invalid("date", "%v", err)
	}
	rec := models.CashRecord{Date: d}
	if err := s.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return models.CashRecord{}, fmt.Errorf("create cash record: %w", err)
	}
	s.log.Info("cash record created", "id", rec.ID, "date", rec.Date)
	return rec, nil
}

// Delete removes a cash record by id or a sales record by date. Ledger and
// card rows belong to their imports and cannot be deleted here.
func (s *Store) Delete(ctx context.Context, kind RecordKind, key string) error {
	var res *gorm.DB
	switch kind {
	case RecordCash:
		id, err := parseID(key)
		if err != nil {
			return err
		}
		res = s.db.WithContext(ctx).Delete(&models.CashRecord{}, id)
	case RecordSales:
		date, err := ParseDate(key)
		if err != nil {
			return invalid("date", "%v", err)
		}
		key = date
		res = s.db.WithContext(ctx).Where("date = ?", date).Delete(&models.SalesRecord{})
	default:
		return invalid("", "%s records cannot be deleted", kind)
	}
	if res.Error != nil {
		return fmt.Errorf("delete %s %s: %w", kind, key, res.Error)
	}
	if res.RowsAffected == 0 {
		return &NotFoundError{Kind: kind, Key: key}
	}
	s.log.Info("record deleted", "kind", kind, "key", key)
	return nil
}

// ---------- imports ----------

// InsertEntry stores one normalized bank or card row. With DuplicatesReject a
// row whose fingerprint already exists is skipped with ErrDuplicate.
func (s *Store) InsertEntry(ctx context.Context, kind SourceKind, entry models.LedgerFields, batchID string, policy DuplicatePolicy) error {
	entry.BatchID = batchID
	var model any
	switch kind {
	case SourceBank:
		model = &models.Transaction{LedgerFields: entry}
	case SourceCreditCard:
		model = &models.CreditCardTransaction{LedgerFields: entry}
	default:
		return fmt.Errorf("insert entry: unsupported source kind %q", kind)
	}
	return s.insertOnce(ctx, model, entry.Fingerprint, policy)
}

// InsertInvoice stores one normalized invoice line under the same duplicate policy.
func (s *Store) InsertInvoice(ctx context.Context, item models.InvoiceItem, batchID string, policy DuplicatePolicy) error {
	item.BatchID = batchID
	return s.insertOnce(ctx, &item, item.Fingerprint, policy)
}

func (s *Store) insertOnce(ctx context.Context, model any, fingerprint string, policy DuplicatePolicy) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if policy != DuplicatesAllow && fingerprint != "" {
			var n int64
			if err := tx.Model(model).Where("fingerprint = ?", fingerprint).Count(&n).Error; err != nil {
				return fmt.Errorf("check duplicate: %w", err)
			}
			if n > 0 {
				return ErrDuplicate
			}
		}
		if err := tx.Create(model).Error; err != nil {
			return fmt.Errorf("insert: %w", err)
		}
		return nil
	})
}

// RecordBatch stores the outcome of one import.
func (s *Store) RecordBatch(ctx context.Context, batch *models.ImportBatch) error {
	if err := s.db.WithContext(ctx).Create(batch).Error; err != nil {
		return fmt.Errorf("record import batch: %w", err)
	}
	return nil
}

func newModel(kind RecordKind) (any, error) {
	switch kind {
	case RecordTransaction:
		return &models.Transaction{}, nil
	case RecordCreditCard:
		return &models.CreditCardTransaction{}, nil
	case RecordCash:
		return &models.CashRecord{}, nil
	case RecordSales:
		return &models.SalesRecord{}, nil
	case RecordInvoice:
		return &models.InvoiceItem{}, nil
	default:
		return nil, invalid("", "unknown record kind %q", kind)
	}
}

func parseID(key string) (uint, error) {
	id, err := strconv.ParseUint(strings.TrimSpace(key), 10, 64)
	if err != nil || id == 0 {
		return 0, invalid("id", "must be a positive integer")
	}
	return uint(id), nil
}
