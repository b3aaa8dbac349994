package ledger

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/timlee789/account/internal/models"
)

// UpsertSalesField sets one field of the day's sales record, creating the
// record with every channel at zero if the day has none yet. The insert relies
// on the unique date index, so two first edits of the same day cannot both
// create a row. Total is recomputed in the same transaction.
func (s *Store) UpsertSalesField(ctx context.Context, date, field string, value any) (models.SalesRecord, error) {
	d, err := ParseDate(date)
	if err != nil {
		return models.SalesRecord{}, invalid("date", "%v", err)
	}
	fields, err := coerceFields(RecordSales, map[string]any{field: value})
	if err != nil {
		return models.SalesRecord{}, err
	}

	var rec models.SalesRecord
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		blank := models.SalesRecord{Date: d}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "date"}},
			DoNothing: true,
		}).Create(&blank).Error; err != nil {
			return err
		}
		if err := tx.Where("date = ?", d).First(&rec).Error; err != nil {
			return err
		}
		return saveSales(tx, &rec, fields)
	})
	if err != nil {
		return models.SalesRecord{}, fmt.Errorf("upsert sales %s: %w", d, err)
	}
	s.log.Debug("sales record upserted", "date", d, "field", field, "total", rec.Total.String())
	return rec, nil
}

// UpdateSalesFields edits an existing day. Unlike UpsertSalesField it never creates one.
func (s *Store) UpdateSalesFields(ctx context.Context, date string, values map[string]any) (models.SalesRecord, error) {
	d, err := ParseDate(date)
	if err != nil {
		return models.SalesRecord{}, invalid("date", "%v", err)
	}
	fields, err := coerceFields(RecordSales, values)
	if err != nil {
		return models.SalesRecord{}, err
	}

	var rec models.SalesRecord
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("date = ?", d).First(&rec).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &NotFoundError{Kind: RecordSales, Key: d}
			}
			return err
		}
		return saveSales(tx, &rec, fields)
	})
	if err != nil {
		if IsNotFound(err) {
			return models.SalesRecord{}, err
		}
		return models.SalesRecord{}, fmt.Errorf("update sales %s: %w", d, err)
	}
	return rec, nil
}

// RecomputeSalesTotals rewrites every stored total from its channels and
// returns how many were out of step.
func (s *Store) RecomputeSalesTotals(ctx context.Context) (int, error) {
	fixed := 0
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var rows []models.SalesRecord
		if err := tx.Find(&rows).Error; err != nil {
			return err
		}
		for i := range rows {
			want := rows[i].ChannelTotal()
			if rows[i].Total.Equal(want) {
				continue
			}
			if err := tx.Model(&rows[i]).Update("total", want).Error; err != nil {
				return err
			}
			fixed++
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("recompute sales totals: %w", err)
	}
	return fixed, nil
}

func saveSales(tx *gorm.DB, rec *models.SalesRecord, fields map[string]any) error {
	for field, v := range fields {
		if err := setSalesField(rec, field, v); err != nil {
			return err
		}
	}
	rec.Total = rec.ChannelTotal()
	return tx.Save(rec).Error
}

func setSalesField(rec *models.SalesRecord, field string, v any) error {
	if field == "memo" {
		rec.Memo, _ = v.(string)
		return nil
	}
	d, ok := v.(decimal.Decimal)
	if !ok {
		return invalid(field, "must be a number")
	}
	switch field {
	case "cash":
		rec.Cash = d
	case "debit":
		rec.Debit = d
	case "credit":
		rec.Credit = d
	case "svc":
		rec.Svc = d
	case "tips":
		rec.Tips = d
	case "tax":
		rec.Tax = d
	case "cash_tips":
		rec.CashTips = d
	case "doordash":
		rec.Doordash = d
	case "stripe":
		rec.Stripe = d
	default:
		return invalid(field, "unknown or read-only field for %s (writable: %s)", RecordSales, strings.Join(WritableFields(RecordSales), ", "))
	}
	return nil
}
