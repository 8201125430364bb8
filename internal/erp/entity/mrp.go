package entity

import (
	"time"
)

// MRPRunStatus MRP运行状态
const (
	MRPStatusDraft      = "DRAFT"
	MRPStatusProcessing = "PROCESSING"
	MRPStatusCompleted  = "COMPLETED"
	MRPStatusApplied    = "APPLIED"
)

// MRPSuggestionType 建议类型
const (
	SuggestionTypePurchase    = "PURCHASE"
	SuggestionTypeWorkOrder   = "WORK_ORDER"
	SuggestionTypeSubcontract = "SUBCONTRACT"
)

// MRPSuggestionStatus 建议状态
const (
	SuggestionStatusPending   = "PENDING"
	SuggestionStatusAccepted  = "ACCEPTED"
	SuggestionStatusRejected  = "REJECTED"
	SuggestionStatusConverted = "CONVERTED"
)

// MRPPriority 建议优先级（按下单日期紧迫程度）
const (
	MRPPriorityUrgent = "URGENT"
	MRPPriorityHigh   = "HIGH"
	MRPPriorityNormal = "NORMAL"
	MRPPriorityLow    = "LOW"
)

// MRPDemandSourceType 需求来源类型
const (
	DemandSourceWorkOrder = "WORK_ORDER"
)

// MRPRun 一次MRP计算。需求和建议归该运行独占，每次执行前全量删除重建。
type MRPRun struct {
	ID               string     `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	RunCode          string     `json:"run_code" gorm:"size:50;not null;uniqueIndex"`
	Status           string     `json:"status" gorm:"size:20;not null;default:DRAFT"`
	HorizonStart     time.Time  `json:"horizon_start" gorm:"not null"`
	HorizonEnd       time.Time  `json:"horizon_end" gorm:"not null"`
	WarehouseID      string     `json:"warehouse_id" gorm:"type:uuid"` // 空表示全部仓库
	TotalDemands     int        `json:"total_demands" gorm:"default:0"`
	TotalShortages   int        `json:"total_shortages" gorm:"default:0"`
	TotalSuggestions int        `json:"total_suggestions" gorm:"default:0"`
	LastError        string     `json:"last_error" gorm:"type:text"`
	Remark           string     `json:"remark" gorm:"type:text"`
	CompletedAt      *time.Time `json:"completed_at"`
	AppliedAt        *time.Time `json:"applied_at"`
	CreatedBy        string     `json:"created_by" gorm:"size:64;not null"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`

	Demands     []MRPDemand     `json:"demands,omitempty" gorm:"foreignKey:RunID"`
	Suggestions []MRPSuggestion `json:"suggestions,omitempty" gorm:"foreignKey:RunID"`
}

func (MRPRun) TableName() string {
	return "erp_mrp_runs"
}

// MRPDemand 一行净需求。数量均为计算时点快照，运行完成后不再更新。
type MRPDemand struct {
	ID             string    `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	RunID          string    `json:"run_id" gorm:"type:uuid;not null;index"`
	ProductID      string    `json:"product_id" gorm:"type:uuid;not null;index"`
	ProductCode    string    `json:"product_code" gorm:"size:64"`
	ProductName    string    `json:"product_name" gorm:"size:128"`
	WarehouseID    string    `json:"warehouse_id" gorm:"type:uuid"`
	SourceType     string    `json:"source_type" gorm:"size:20;not null"`
	SourceID       string    `json:"source_id" gorm:"size:64;not null"`
	SourceCode     string    `json:"source_code" gorm:"size:50"`
	ParentDemandID *string   `json:"parent_demand_id" gorm:"type:uuid"` // BOM展开的父需求
	BomLevel       int       `json:"bom_level" gorm:"default:0"`        // 0=顶层
	RequiredDate   time.Time `json:"required_date" gorm:"not null"`
	WeekBucket     string    `json:"week_bucket" gorm:"size:10"` // ISO周，如 2024-W23
	QtyRequired    float64   `json:"qty_required" gorm:"type:decimal(14,4);not null"`
	QtyOnHand      float64   `json:"qty_on_hand" gorm:"type:decimal(14,4);default:0"`
	QtyOnOrder     float64   `json:"qty_on_order" gorm:"type:decimal(14,4);default:0"`
	QtyReserved    float64   `json:"qty_reserved" gorm:"type:decimal(14,4);default:0"`
	QtyAvailable   float64   `json:"qty_available" gorm:"type:decimal(14,4);default:0"`
	QtyShort       float64   `json:"qty_short" gorm:"type:decimal(14,4);default:0"`
	Unit           string    `json:"unit" gorm:"size:20;not null;default:pcs"`
	CreatedAt      time.Time `json:"created_at"`
}

func (MRPDemand) TableName() string {
	return "erp_mrp_demands"
}

// MRPSuggestion 每产品每运行一条合并建议。只能从ACCEPTED转换，且最多一次。
type MRPSuggestion struct {
	ID            string     `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	RunID         string     `json:"run_id" gorm:"type:uuid;not null;index"`
	ProductID     string     `json:"product_id" gorm:"type:uuid;not null;index"`
	ProductCode   string     `json:"product_code" gorm:"size:64"`
	ProductName   string     `json:"product_name" gorm:"size:128"`
	Type          string     `json:"type" gorm:"size:20;not null"`
	Status        string     `json:"status" gorm:"size:20;not null;default:PENDING"`
	Priority      string     `json:"priority" gorm:"size:10;not null;default:NORMAL"`
	OrderDate     time.Time  `json:"order_date" gorm:"not null"` // DueDate - 提前期
	DueDate       time.Time  `json:"due_date" gorm:"not null"`   // 合并需求中最早的需求日期
	QtyRequired   float64    `json:"qty_required" gorm:"type:decimal(14,4);not null"`  // 缺口合计
	QtySuggested  float64    `json:"qty_suggested" gorm:"type:decimal(14,4);not null"` // 批量规则后
	AdjustedQty   *float64   `json:"adjusted_qty" gorm:"type:decimal(14,4)"`
	Unit          string     `json:"unit" gorm:"size:20;not null;default:pcs"`
	SupplierID    *string    `json:"supplier_id" gorm:"type:uuid"`
	WarehouseID   string     `json:"warehouse_id" gorm:"type:uuid"` // 取运行的仓库范围，空表示全部仓库
	UnitCost      float64    `json:"unit_cost" gorm:"type:decimal(14,4);default:0"`
	EstimatedCost float64    `json:"estimated_cost" gorm:"type:decimal(14,2);default:0"`
	RejectReason  string     `json:"reject_reason" gorm:"type:text"`
	DocumentType  string     `json:"document_type" gorm:"size:20"` // PO, WO, SCO
	DocumentID    *string    `json:"document_id" gorm:"size:64"`
	DocumentCode  string     `json:"document_code" gorm:"size:50"`
	ConvertedAt   *time.Time `json:"converted_at"`
	ConvertedBy   string     `json:"converted_by" gorm:"size:64"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

func (MRPSuggestion) TableName() string {
	return "erp_mrp_suggestions"
}

// EffectiveQty 转换时采用的数量：有调整值用调整值，否则用建议值
func (s *MRPSuggestion) EffectiveQty() float64 {
	if s.AdjustedQty != nil && *s.AdjustedQty > 0 {
		return *s.AdjustedQty
	}
	return s.QtySuggested
}
