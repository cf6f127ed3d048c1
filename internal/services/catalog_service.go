package services

import (
	"novastock/internal/domain"
)

// Resolution is the outcome of one scan. A miss is not an error.
type Resolution struct {
	Barcode string
	Product domain.Product
	Found   bool
}

type CatalogService struct {
	Store  CatalogStore
	Events Publisher
}

func NewCatalogService(store CatalogStore, events Publisher) *CatalogService {
	return &CatalogService{Store: store, Events: events}
}

// List backs the list view.
func (s *CatalogService) List(q string) ([]domain.Product, error) {
	all, err := s.Store.ListAll()
	if err != nil {
		return nil, err
	}
	return Search(q, all), nil
}

func (s *CatalogService) GetProduct(id string) (domain.Product, error) {
	return s.Store.Get(id)
}

// Resolve runs a single exact lookup for a decoded barcode.
func (s *CatalogService) Resolve(barcode string) (Resolution, error) {
	all, err := s.Store.ListAll()
	if err != nil {
		return Resolution{}, err
	}
	p, ok := ExactMatch(barcode, all)
	return Resolution{Barcode: barcode, Product: p, Found: ok}, nil
}

// NewProduct starts the create flow, usually from a scan miss.
func (s *CatalogService) NewProduct(barcode string) *Lifecycle {
	return NewCreating(s.Store, s.Events, barcode)
}

// Open loads a product in the Viewing state.
func (s *CatalogService) Open(id string) (*Lifecycle, error) {
	p, err := s.Store.Get(id)
	if err != nil {
		return nil, err
	}
	return Open(s.Store, s.Events, p), nil
}

func (s *CatalogService) Delete(id string) error {
	p, err := s.Store.Get(id)
	if err != nil {
		return err
	}
	if err := s.Store.Delete(id); err != nil {
		return &domain.PersistenceError{Op: "delete", Err: err}
	}
	publish(s.Events, TopicProductDeleted, p.ID, p.Name, p.Barcode)
	return nil
}
