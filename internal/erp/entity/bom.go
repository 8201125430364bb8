package entity

import (
	"time"
)

// BomStatus BOM状态
const (
	BomStatusDraft    = "DRAFT"
	BomStatusActive   = "ACTIVE"
	BomStatusObsolete = "OBSOLETE"
)

// Bom 物料清单头。一个产品同一时间最多一个ACTIVE版本参与MRP。
type Bom struct {
	ID        string     `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	ProductID string     `json:"product_id" gorm:"type:uuid;not null;index"`
	Version   string     `json:"version" gorm:"size:16;not null"`
	Status    string     `json:"status" gorm:"size:20;not null;default:DRAFT"`
	OutputQty float64    `json:"output_qty" gorm:"type:decimal(14,4);not null;default:1"` // 单次产出数量
	Unit      string     `json:"unit" gorm:"size:20;not null;default:pcs"`
	Notes     string     `json:"notes" gorm:"type:text"`
	CreatedBy string     `json:"created_by" gorm:"size:64"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at" gorm:"index"`

	Product *Product  `json:"product,omitempty" gorm:"foreignKey:ProductID"`
	Items   []BomItem `json:"items,omitempty" gorm:"foreignKey:BomID"`
}

func (Bom) TableName() string {
	return "erp_boms"
}

// BomItem BOM组件行
type BomItem struct {
	ID        string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	BomID     string    `json:"bom_id" gorm:"type:uuid;not null;index"`
	ProductID string    `json:"product_id" gorm:"type:uuid;not null"` // 组件产品
	Sequence  int       `json:"sequence" gorm:"default:0"`
	Quantity  float64   `json:"quantity" gorm:"type:decimal(14,4);not null"` // 每份产出的用量
	WastePct  float64   `json:"waste_pct" gorm:"type:decimal(6,2);default:0"` // 损耗百分比
	Unit      string    `json:"unit" gorm:"size:20;not null;default:pcs"`
	Notes     string    `json:"notes" gorm:"type:text"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Product *Product `json:"product,omitempty" gorm:"foreignKey:ProductID"`
}

func (BomItem) TableName() string {
	return "erp_bom_items"
}

// EffectiveQty 含损耗的单位用量
func (i *BomItem) EffectiveQty() float64 {
	return i.Quantity * (1 + i.WastePct/100)
}
