package services

import (
	"github.com/dquintero/muebleria_backend/models"
)

// CatalogSnapshot is a read-only prefetch of everything the pricing and
// commission engines consume: products by id hex, categories by name and
// the active exchange rates. Repositories build one per computation;
// engines never fetch anything themselves, so composing many order lines
// concurrently over the same snapshot is safe.
type CatalogSnapshot struct {
	Products   map[string]models.Product
	Categories map[string]models.Category
	Rates      models.RateMap
}

// NewCatalogSnapshot returns an empty snapshot with all maps allocated.
func NewCatalogSnapshot() *CatalogSnapshot {
	return &CatalogSnapshot{
		Products:   make(map[string]models.Product),
		Categories: make(map[string]models.Category),
		Rates:      make(models.RateMap),
	}
}

// Product looks up a product by its id hex.
func (s *CatalogSnapshot) Product(idHex string) (models.Product, bool) {
	p, ok := s.Products[idHex]
	return p, ok
}

// Category looks up a category by name.
func (s *CatalogSnapshot) Category(name string) (models.Category, bool) {
	c, ok := s.Categories[name]
	return c, ok
}
