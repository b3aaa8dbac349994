package database

import (
	"fmt"

	"github.com/timlee789/account/internal/models"

	"gorm.io/gorm"
)

// AutoMigrate runs database schema migrations for all models.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.Transaction{},
		&models.CreditCardTransaction{},
		&models.CashRecord{},
		&models.SalesRecord{},
		&models.InvoiceItem{},
		&models.ImportBatch{},
		&models.AuditLog{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
