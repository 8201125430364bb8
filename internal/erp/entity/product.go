package entity

import (
	"time"
)

// ProcurementType 产品获取方式。建议类型和转换目标由此派生，switch必须穷尽。
const (
	ProcurePurchase    = "PURCHASE"    // 外购
	ProcureManufacture = "MANUFACTURE" // 自制
	ProcureSubcontract = "SUBCONTRACT" // 委外
)

// ProductStatus 产品状态
const (
	ProductStatusActive   = "ACTIVE"
	ProductStatusInactive = "INACTIVE"
)

// Product 产品/物料主数据
type Product struct {
	ID              string     `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	Code            string     `json:"code" gorm:"size:64;not null;uniqueIndex"`
	Name            string     `json:"name" gorm:"size:128;not null"`
	Unit            string     `json:"unit" gorm:"size:20;not null;default:pcs"`
	ProcurementType string     `json:"procurement_type" gorm:"size:20;not null;default:PURCHASE"`
	LeadTimeDays    int        `json:"lead_time_days" gorm:"default:0"`
	MinOrderQty     float64    `json:"min_order_qty" gorm:"type:decimal(14,4);default:0"`
	OrderMultiple   float64    `json:"order_multiple" gorm:"type:decimal(14,4);default:0"`
	PurchasePrice   float64    `json:"purchase_price" gorm:"type:decimal(14,4);default:0"`
	SafetyStock     float64    `json:"safety_stock" gorm:"type:decimal(14,4);default:0"`
	SupplierID      *string    `json:"supplier_id" gorm:"type:uuid"`      // 默认供应商
	SubcontractorID *string    `json:"subcontractor_id" gorm:"type:uuid"` // 默认委外供应商
	Status          string     `json:"status" gorm:"size:20;not null;default:ACTIVE"`
	Notes           string     `json:"notes" gorm:"type:text"`
	CreatedBy       string     `json:"created_by" gorm:"size:64"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
	DeletedAt       *time.Time `json:"deleted_at" gorm:"index"`

	Supplier *Supplier `json:"supplier,omitempty" gorm:"foreignKey:SupplierID"`
}

func (Product) TableName() string {
	return "erp_products"
}

// EffectiveMinOrderQty 缺省MOQ按1处理
func (p *Product) EffectiveMinOrderQty() float64 {
	if p.MinOrderQty <= 0 {
		return 1
	}
	return p.MinOrderQty
}

// EffectiveLeadTimeDays 缺省提前期按0处理
func (p *Product) EffectiveLeadTimeDays() int {
	if p.LeadTimeDays < 0 {
		return 0
	}
	return p.LeadTimeDays
}
