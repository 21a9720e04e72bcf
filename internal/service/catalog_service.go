package service

import (
	"errors"
	"fmt"

	"go-clinic-pos/internal/model"
	"go-clinic-pos/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CatalogService exposes the price list to the register. Lookups by
// code back the search box on the POS screen.
type CatalogService interface {
	GetAll() ([]model.CatalogItem, error)
	GetByID(id uuid.UUID) (*model.CatalogItem, error)
	GetByCode(code string) (*model.CatalogItem, error)
}

type catalogService struct {
	catalogRepo repository.CatalogRepository
}

func NewCatalogService(catalogRepo repository.CatalogRepository) CatalogService {
	return &catalogService{catalogRepo: catalogRepo}
}

func (s *catalogService) GetAll() ([]model.CatalogItem, error) {
	return s.catalogRepo.FindAll()
}

func (s *catalogService) GetByID(id uuid.UUID) (*model.CatalogItem, error) {
	item, err := s.catalogRepo.FindByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("catalog item %s: %w", id, ErrNotFound)
	}
	return item, err
}

func (s *catalogService) GetByCode(code string) (*model.CatalogItem, error) {
	item, err := s.catalogRepo.FindByCode(code)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("catalog code %q: %w", code, ErrNotFound)
	}
	return item, err
}
