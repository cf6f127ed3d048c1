package handlers

import (
	"novastock/internal/config"
	"novastock/internal/repos"
	"novastock/internal/scanner"
	"novastock/internal/services"

	"github.com/jmoiron/sqlx"
)

type Deps struct {
	Catalog *services.CatalogService
	Flow    *services.ScanFlow
	Pushed  *scanner.ChannelSource

	ProductHandler *ProductHandler
	ScanHandler    *ScanHandler
	APIHandler     *APIHandler
}

// NewDeps wires repos, services and handlers. events may be nil.
func NewDeps(db *sqlx.DB, cfg config.Config, events services.Publisher) *Deps {
	prodRepo := repos.NewProductRepo(db)

	catalogSvc := services.NewCatalogService(prodRepo, events)
	invSvc := services.NewInventoryService(catalogSvc)
	flow := services.NewScanFlow(catalogSvc)
	pushed := scanner.NewChannelSource(16)

	return &Deps{
		Catalog: catalogSvc,
		Flow:    flow,
		Pushed:  pushed,

		ProductHandler: &ProductHandler{Catalog: catalogSvc, MaxImageBytes: cfg.ImageLimit()},
		ScanHandler:    &ScanHandler{Catalog: catalogSvc, Flow: flow, Source: pushed},
		APIHandler:     &APIHandler{Catalog: catalogSvc, Inv: invSvc},
	}
}
