package service

import (
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/bumimakmur/bumi-erp/internal/erp/repository"
)

// Services ERP服务集合
type Services struct {
	Product       *ProductService
	Supplier      *SupplierService
	Inventory     *InventoryService
	Procurement   *ProcurementService
	Manufacturing *ManufacturingService
	Subcontract   *SubcontractService
	MRP           *MRPService
	MRPSuggestion *MRPSuggestionService
}

func NewServices(repos *repository.Repositories, rdb *redis.Client) *Services {
	clock := SystemClock()

	inventory := NewInventoryService(repos.Inventory, repos.Product, clock)
	procurement := NewProcurementService(repos.Purchase, repos.Product, repos.Supplier, inventory, clock)
	manufacturing := NewManufacturingService(repos.WorkOrder, repos.Bom, repos.Product, inventory, clock)
	subcontract := NewSubcontractService(repos.Subcontract, repos.Product, repos.Supplier, inventory, clock)

	mrp := NewMRPService(repos.MRP, repos.WorkOrder, repos.Inventory, repos.Purchase, repos.Bom, repos.Product, clock, rdb)
	suggestion := NewMRPSuggestionService(repos.MRP, clock, procurement, manufacturing, subcontract)

	return &Services{
		Product:       NewProductService(repos.Product, repos.Bom),
		Supplier:      NewSupplierService(repos.Supplier),
		Inventory:     inventory,
		Procurement:   procurement,
		Manufacturing: manufacturing,
		Subcontract:   subcontract,
		MRP:           mrp,
		MRPSuggestion: suggestion,
	}
}

func parseDate(s string) (time.Time, error) {
	return time.Parse("2006-01-02", s)
}
