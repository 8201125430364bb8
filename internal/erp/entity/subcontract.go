package entity

import (
	"time"
)

// SubcontractOrderStatus 委外订单状态
const (
	SCOStatusDraft      = "DRAFT"
	SCOStatusConfirmed  = "CONFIRMED"
	SCOStatusInProgress = "IN_PROGRESS"
	SCOStatusReceived   = "RECEIVED"
	SCOStatusCancelled  = "CANCELLED"
)

// SubcontractOrder 委外加工订单
type SubcontractOrder struct {
	ID              string     `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	SCOCode         string     `json:"sco_code" gorm:"size:50;not null;uniqueIndex"`
	SubcontractorID string     `json:"subcontractor_id" gorm:"type:uuid;not null;index"`
	ProductID       string     `json:"product_id" gorm:"type:uuid;not null;index"`
	ProductCode     string     `json:"product_code" gorm:"size:64"`
	ProductName     string     `json:"product_name" gorm:"size:128"`
	Quantity        float64    `json:"quantity" gorm:"type:decimal(14,4);not null"`
	ReceivedQty     float64    `json:"received_qty" gorm:"type:decimal(14,4);default:0"`
	Unit            string     `json:"unit" gorm:"size:20;not null;default:pcs"`
	UnitCost        float64    `json:"unit_cost" gorm:"type:decimal(14,4);default:0"`
	TotalCost       float64    `json:"total_cost" gorm:"type:decimal(16,2);default:0"`
	Status          string     `json:"status" gorm:"size:20;not null;default:DRAFT"`
	OrderDate       *time.Time `json:"order_date"`
	DueDate         *time.Time `json:"due_date"`
	WarehouseID     string     `json:"warehouse_id" gorm:"type:uuid"` // 收货仓库
	SourceType      string     `json:"source_type" gorm:"size:20"`    // MRP, MANUAL
	SourceID        string     `json:"source_id" gorm:"size:64"`
	Notes           string     `json:"notes" gorm:"type:text"`
	CreatedBy       string     `json:"created_by" gorm:"size:64;not null"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
	DeletedAt       *time.Time `json:"deleted_at" gorm:"index"`

	Subcontractor *Supplier `json:"subcontractor,omitempty" gorm:"foreignKey:SubcontractorID"`
}

func (SubcontractOrder) TableName() string {
	return "erp_subcontract_orders"
}
