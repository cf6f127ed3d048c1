package services

import (
	"novastock/internal/domain"
)

type InventoryService struct {
	Catalog *CatalogService
}

func NewInventoryService(c *CatalogService) *InventoryService {
	return &InventoryService{Catalog: c}
}

// CheckAvailability reports stock for the product a barcode resolves to.
// An unknown barcode is OUT_OF_STOCK with found=false.
func (s *InventoryService) CheckAvailability(barcode string) (domain.Availability, bool, error) {
	res, err := s.Catalog.Resolve(barcode)
	if err != nil {
		return domain.Availability{}, false, err
	}
	if !res.Found {
		return domain.Availability{Status: domain.StockOut, Qty: 0}, false, nil
	}
	return domain.Availability{Status: res.Product.Stock(), Qty: res.Product.Amount}, true, nil
}
