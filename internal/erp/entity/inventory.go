package entity

import (
	"time"
)

// StockMovementType 库存移动类型
const (
	MovementPurchaseIn    = "PURCHASE_IN"    // 采购入库
	MovementProductionIn  = "PRODUCTION_IN"  // 生产入库
	MovementSubcontractIn = "SUBCONTRACT_IN" // 委外入库
	MovementProductionOut = "PRODUCTION_OUT" // 生产领料
	MovementAdjust        = "ADJUST"         // 库存调整
)

// ProductStock 产品在某仓库的库存快照（权威在手/预留数量）
type ProductStock struct {
	ID          string     `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	ProductID   string     `json:"product_id" gorm:"type:uuid;not null;index:idx_stock_product_wh,unique"`
	WarehouseID string     `json:"warehouse_id" gorm:"type:uuid;not null;index:idx_stock_product_wh,unique"`
	QtyOnHand   float64    `json:"qty_on_hand" gorm:"type:decimal(14,4);not null;default:0"`
	QtyReserved float64    `json:"qty_reserved" gorm:"type:decimal(14,4);not null;default:0"`
	Unit        string     `json:"unit" gorm:"size:20;not null;default:pcs"`
	LastMovedAt *time.Time `json:"last_moved_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	Warehouse *Warehouse `json:"warehouse,omitempty" gorm:"foreignKey:WarehouseID"`
}

func (ProductStock) TableName() string {
	return "erp_product_stocks"
}

// StockMovement 库存移动流水。正数入库，负数出库。
type StockMovement struct {
	ID            string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	ProductID     string    `json:"product_id" gorm:"type:uuid;not null;index"`
	WarehouseID   string    `json:"warehouse_id" gorm:"type:uuid;not null;index"`
	MovementType  string    `json:"movement_type" gorm:"size:20;not null"`
	Quantity      float64   `json:"quantity" gorm:"type:decimal(14,4);not null"`
	UnitCost      float64   `json:"unit_cost" gorm:"type:decimal(14,4);default:0"`
	ReferenceType string    `json:"reference_type" gorm:"size:20"` // PO, WO, SCO
	ReferenceID   string    `json:"reference_id" gorm:"size:64"`
	ReferenceCode string    `json:"reference_code" gorm:"size:50"`
	Notes         string    `json:"notes" gorm:"type:text"`
	CreatedBy     string    `json:"created_by" gorm:"size:64"`
	CreatedAt     time.Time `json:"created_at"`
}

func (StockMovement) TableName() string {
	return "erp_stock_movements"
}
