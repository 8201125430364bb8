package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/bumimakmur/bumi-erp/internal/erp/service"
)

// Handlers ERP HTTP处理器集合
type Handlers struct {
	Product       *ProductHandler
	Supplier      *SupplierHandler
	Inventory     *InventoryHandler
	Procurement   *ProcurementHandler
	Manufacturing *ManufacturingHandler
	Subcontract   *SubcontractHandler
	MRP           *MRPHandler
}

func NewHandlers(services *service.Services) *Handlers {
	return &Handlers{
		Product:       NewProductHandler(services.Product),
		Supplier:      NewSupplierHandler(services.Supplier),
		Inventory:     NewInventoryHandler(services.Inventory),
		Procurement:   NewProcurementHandler(services.Procurement),
		Manufacturing: NewManufacturingHandler(services.Manufacturing),
		Subcontract:   NewSubcontractHandler(services.Subcontract),
		MRP:           NewMRPHandler(services.MRP, services.MRPSuggestion),
	}
}

func currentUser(c *gin.Context) string {
	if v, ok := c.Get("user_id"); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
