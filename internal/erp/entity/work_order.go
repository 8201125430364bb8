package entity

import (
	"time"
)

// WorkOrderStatus 生产工单状态。CONFIRMED/RELEASED/IN_PROGRESS参与MRP需求收集。
const (
	WOStatusDraft      = "DRAFT"
	WOStatusConfirmed  = "CONFIRMED"
	WOStatusReleased   = "RELEASED"
	WOStatusInProgress = "IN_PROGRESS"
	WOStatusCompleted  = "COMPLETED"
	WOStatusCancelled  = "CANCELLED"
)

// WorkOrder 生产工单
type WorkOrder struct {
	ID           string     `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	WOCode       string     `json:"wo_code" gorm:"size:50;not null;uniqueIndex"`
	ProductID    string     `json:"product_id" gorm:"type:uuid;not null;index"`
	ProductCode  string     `json:"product_code" gorm:"size:64"`
	ProductName  string     `json:"product_name" gorm:"size:128"`
	BomID        string     `json:"bom_id" gorm:"type:uuid"`
	PlannedQty   float64    `json:"planned_qty" gorm:"type:decimal(14,4);not null"`
	CompletedQty float64    `json:"completed_qty" gorm:"type:decimal(14,4);default:0"`
	ScrapQty     float64    `json:"scrap_qty" gorm:"type:decimal(14,4);default:0"`
	Status       string     `json:"status" gorm:"size:20;not null;default:DRAFT"`
	PlannedStart *time.Time `json:"planned_start"`
	PlannedEnd   *time.Time `json:"planned_end"` // 计划完工，为空视为急单
	ActualStart  *time.Time `json:"actual_start"`
	ActualEnd    *time.Time `json:"actual_end"`
	WarehouseID  string     `json:"warehouse_id" gorm:"type:uuid"` // 成品入库仓库
	SourceType   string     `json:"source_type" gorm:"size:20"`    // MRP, MANUAL
	SourceID     string     `json:"source_id" gorm:"size:64"`
	Notes        string     `json:"notes" gorm:"type:text"`
	CreatedBy    string     `json:"created_by" gorm:"size:64;not null"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	DeletedAt    *time.Time `json:"deleted_at" gorm:"index"`

	Materials []WorkOrderMaterial `json:"materials,omitempty" gorm:"foreignKey:WorkOrderID"`
	Reports   []WorkOrderReport   `json:"reports,omitempty" gorm:"foreignKey:WorkOrderID"`
}

func (WorkOrder) TableName() string {
	return "erp_work_orders"
}

// WorkOrderMaterial 工单物料需求行。required - consumed 为剩余需求。
type WorkOrderMaterial struct {
	ID          string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	WorkOrderID string    `json:"work_order_id" gorm:"type:uuid;not null;index"`
	ProductID   string    `json:"product_id" gorm:"type:uuid;not null"`
	ProductCode string    `json:"product_code" gorm:"size:64"`
	ProductName string    `json:"product_name" gorm:"size:128"`
	RequiredQty float64   `json:"required_qty" gorm:"type:decimal(14,4);not null"`
	ConsumedQty float64   `json:"consumed_qty" gorm:"type:decimal(14,4);default:0"`
	Unit        string    `json:"unit" gorm:"size:20;not null;default:pcs"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (WorkOrderMaterial) TableName() string {
	return "erp_work_order_materials"
}

// RemainingQty 尚未领用的需求数量
func (m *WorkOrderMaterial) RemainingQty() float64 {
	remaining := m.RequiredQty - m.ConsumedQty
	if remaining < 0 {
		return 0
	}
	return remaining
}

// WorkOrderReport 工单报工记录
type WorkOrderReport struct {
	ID          string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	WorkOrderID string    `json:"work_order_id" gorm:"type:uuid;not null;index"`
	Quantity    float64   `json:"quantity" gorm:"type:decimal(14,4);not null"`
	ScrapQty    float64   `json:"scrap_qty" gorm:"type:decimal(14,4);default:0"`
	Notes       string    `json:"notes" gorm:"type:text"`
	ReportedBy  string    `json:"reported_by" gorm:"size:64;not null"`
	ReportedAt  time.Time `json:"reported_at"`
	CreatedAt   time.Time `json:"created_at"`
}

func (WorkOrderReport) TableName() string {
	return "erp_work_order_reports"
}
