package entity

import (
	"time"
)

// PurchaseOrderStatus 采购订单状态
const (
	POStatusDraft     = "DRAFT"
	POStatusPending   = "PENDING"
	POStatusApproved  = "APPROVED"
	POStatusSent      = "SENT"
	POStatusPartial   = "PARTIAL"
	POStatusReceived  = "RECEIVED"
	POStatusClosed    = "CLOSED"
	POStatusCancelled = "CANCELLED"
)

// PurchaseOrder 采购订单（PO）
type PurchaseOrder struct {
	ID           string     `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	POCode       string     `json:"po_code" gorm:"size:50;not null;uniqueIndex"`
	SupplierID   string     `json:"supplier_id" gorm:"type:uuid;not null;index"`
	Status       string     `json:"status" gorm:"size:20;not null;default:DRAFT"`
	TotalAmount  float64    `json:"total_amount" gorm:"type:decimal(16,2);default:0"`
	Currency     string     `json:"currency" gorm:"size:10;not null;default:IDR"`
	OrderDate    *time.Time `json:"order_date"`
	ExpectedDate *time.Time `json:"expected_date"`
	ReceivedDate *time.Time `json:"received_date"`
	SourceType   string     `json:"source_type" gorm:"size:20"` // MRP, MANUAL
	SourceID     string     `json:"source_id" gorm:"size:64"`
	Notes        string     `json:"notes" gorm:"type:text"`
	CreatedBy    string     `json:"created_by" gorm:"size:64;not null"`
	ApprovedBy   string     `json:"approved_by" gorm:"size:64"`
	ApprovedAt   *time.Time `json:"approved_at"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	DeletedAt    *time.Time `json:"deleted_at" gorm:"index"`

	Supplier *Supplier `json:"supplier,omitempty" gorm:"foreignKey:SupplierID"`
	Items    []POItem  `json:"items,omitempty" gorm:"foreignKey:POID"`
}

func (PurchaseOrder) TableName() string {
	return "erp_purchase_orders"
}

// POItemStatus 采购订单行状态
const (
	POItemStatusOpen     = "OPEN"
	POItemStatusPartial  = "PARTIAL"
	POItemStatusReceived = "RECEIVED"
	POItemStatusClosed   = "CLOSED"
)

// POItem 采购订单明细。quantity - received_qty 计入MRP在途供应。
type POItem struct {
	ID          string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	POID        string    `json:"po_id" gorm:"type:uuid;not null;index"`
	ProductID   string    `json:"product_id" gorm:"type:uuid;not null;index"`
	ProductCode string    `json:"product_code" gorm:"size:64"`
	ProductName string    `json:"product_name" gorm:"size:128"`
	Quantity    float64   `json:"quantity" gorm:"type:decimal(14,4);not null"`
	Unit        string    `json:"unit" gorm:"size:20;not null;default:pcs"`
	UnitPrice   float64   `json:"unit_price" gorm:"type:decimal(14,4);not null"`
	Amount      float64   `json:"amount" gorm:"type:decimal(16,2);not null"`
	ReceivedQty float64   `json:"received_qty" gorm:"type:decimal(14,4);default:0"`
	Status      string    `json:"status" gorm:"size:20;not null;default:OPEN"`
	WarehouseID string    `json:"warehouse_id" gorm:"type:uuid"` // 收货仓库
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (POItem) TableName() string {
	return "erp_po_items"
}
