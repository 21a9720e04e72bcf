package repository

import (
	"go-clinic-pos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ShiftRepository interface {
	Create(shift *model.Shift) error
	Update(shift *model.Shift) error
	FindByID(id uuid.UUID) (*model.Shift, error)
	FindAll() ([]model.Shift, error)

	// FindOpen returns every shift stored with status OPEN. More than
	// one element means the exclusivity invariant was violated outside
	// this process; callers treat that as fatal to their operation.
	FindOpen() ([]model.Shift, error)

	AddMovement(movement *model.CashMovement) error
	FindMovementsByShift(shiftID uuid.UUID) ([]model.CashMovement, error)
}

type shiftRepo struct {
	db *gorm.DB
}

func NewShiftRepo(db *gorm.DB) ShiftRepository {
	return &shiftRepo{db}
}

func (r *shiftRepo) Create(shift *model.Shift) error {
	return r.db.Create(shift).Error
}

func (r *shiftRepo) Update(shift *model.Shift) error {
	return r.db.Save(shift).Error
}

func (r *shiftRepo) FindByID(id uuid.UUID) (*model.Shift, error) {
	var shift model.Shift
	if err := r.db.Preload("Movements", func(db *gorm.DB) *gorm.DB {
		return db.Order("created_at ASC")
	}).First(&shift, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &shift, nil
}

func (r *shiftRepo) FindAll() ([]model.Shift, error) {
	var shifts []model.Shift
	err := r.db.Preload("Movements").Order("opened_at DESC").Find(&shifts).Error
	return shifts, err
}

func (r *shiftRepo) FindOpen() ([]model.Shift, error) {
	var shifts []model.Shift
	err := r.db.Preload("Movements").Where("status = ?", model.ShiftOpen).Find(&shifts).Error
	return shifts, err
}

func (r *shiftRepo) AddMovement(movement *model.CashMovement) error {
	return r.db.Create(movement).Error
}

func (r *shiftRepo) FindMovementsByShift(shiftID uuid.UUID) ([]model.CashMovement, error) {
	var movements []model.CashMovement
	err := r.db.Where("shift_id = ?", shiftID).Order("created_at ASC").Find(&movements).Error
	return movements, err
}
