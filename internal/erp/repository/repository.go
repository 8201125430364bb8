package repository

import "gorm.io/gorm"

// Repositories ERP 仓库集合
type Repositories struct {
	Product     *ProductRepository
	Bom         *BomRepository
	Supplier    *SupplierRepository
	Inventory   *InventoryRepository
	Purchase    *PurchaseRepository
	WorkOrder   *WorkOrderRepository
	Subcontract *SubcontractRepository
	MRP         *MRPRepository
}

func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Product:     NewProductRepository(db),
		Bom:         NewBomRepository(db),
		Supplier:    NewSupplierRepository(db),
		Inventory:   NewInventoryRepository(db),
		Purchase:    NewPurchaseRepository(db),
		WorkOrder:   NewWorkOrderRepository(db),
		Subcontract: NewSubcontractRepository(db),
		MRP:         NewMRPRepository(db),
	}
}
