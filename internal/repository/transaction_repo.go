package repository

import (
	"time"

	"go-clinic-pos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TransactionRepository is append-only: sales are created once and read
// back for reconciliation and history, never updated or deleted.
type TransactionRepository interface {
	Create(tx *model.Transaction) error
	FindByID(id uuid.UUID) (*model.Transaction, error)
	FindAll() ([]model.Transaction, error)
	FindByShiftID(shiftID uuid.UUID) ([]model.Transaction, error)
	FindByDay(day time.Time) ([]model.Transaction, error)
}

type transactionRepo struct {
	db *gorm.DB
}

func NewTransactionRepo(db *gorm.DB) TransactionRepository {
	return &transactionRepo{db}
}

func (r *transactionRepo) Create(tx *model.Transaction) error {
	return r.db.Create(tx).Error
}

func (r *transactionRepo) FindByID(id uuid.UUID) (*model.Transaction, error) {
	var transaction model.Transaction
	err := r.db.Preload("Lines").Preload("Tenders").First(&transaction, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &transaction, nil
}

func (r *transactionRepo) FindAll() ([]model.Transaction, error) {
	var transactions []model.Transaction
	err := r.db.Preload("Lines").Preload("Tenders").
		Order("created_at DESC").Find(&transactions).Error
	return transactions, err
}

func (r *transactionRepo) FindByShiftID(shiftID uuid.UUID) ([]model.Transaction, error) {
	var transactions []model.Transaction
	err := r.db.Preload("Lines").Preload("Tenders").
		Where("shift_id = ?", shiftID).
		Order("created_at ASC").Find(&transactions).Error
	return transactions, err
}

func (r *transactionRepo) FindByDay(day time.Time) ([]model.Transaction, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	end := start.AddDate(0, 0, 1)

	var transactions []model.Transaction
	err := r.db.Preload("Lines").Preload("Tenders").
		Where("created_at >= ? AND created_at < ?", start, end).
		Order("created_at DESC").Find(&transactions).Error
	return transactions, err
}
