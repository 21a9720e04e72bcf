package repository

import (
	"go-clinic-pos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CatalogRepository is the read surface over the price list. The
// catalog is edited by an external module; the register only reads it
// (Create exists for seeding).
type CatalogRepository interface {
	Create(item *model.CatalogItem) error
	FindAll() ([]model.CatalogItem, error)
	FindByID(id uuid.UUID) (*model.CatalogItem, error)
	FindByCode(code string) (*model.CatalogItem, error)
}

type catalogRepo struct {
	db *gorm.DB
}

func NewCatalogRepo(db *gorm.DB) CatalogRepository {
	return &catalogRepo{db}
}

func (r *catalogRepo) Create(item *model.CatalogItem) error {
	return r.db.Create(item).Error
}

func (r *catalogRepo) FindAll() ([]model.CatalogItem, error) {
	var items []model.CatalogItem
	err := r.db.Preload("Supplies").Order("category ASC, name ASC").Find(&items).Error
	return items, err
}

func (r *catalogRepo) FindByID(id uuid.UUID) (*model.CatalogItem, error) {
	var item model.CatalogItem
	if err := r.db.Preload("Supplies").First(&item, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *catalogRepo) FindByCode(code string) (*model.CatalogItem, error) {
	var item model.CatalogItem
	if err := r.db.Preload("Supplies").First(&item, "code = ?", code).Error; err != nil {
		return nil, err
	}
	return &item, nil
}
