package repository

import (
	"time"

	"github.com/bumimakmur/bumi-erp/internal/erp/entity"
	"gorm.io/gorm"
)

type WorkOrderRepository struct {
	db *gorm.DB
}

func NewWorkOrderRepository(db *gorm.DB) *WorkOrderRepository {
	return &WorkOrderRepository{db: db}
}

func (r *WorkOrderRepository) Create(wo *entity.WorkOrder) error {
	return r.db.Create(wo).Error
}

func (r *WorkOrderRepository) GetByID(id string) (*entity.WorkOrder, error) {
	var wo entity.WorkOrder
	err := r.db.Preload("Materials").Preload("Reports").
		Where("id = ? AND deleted_at IS NULL", id).First(&wo).Error
	return &wo, err
}

func (r *WorkOrderRepository) Update(wo *entity.WorkOrder) error {
	return r.db.Save(wo).Error
}

func (r *WorkOrderRepository) UpdateMaterial(m *entity.WorkOrderMaterial) error {
	return r.db.Save(m).Error
}

type WOListParams struct {
	Status    string
	ProductID string
	Keyword   string
	Page      int
	Size      int
}

func (r *WorkOrderRepository) List(params WOListParams) ([]entity.WorkOrder, int64, error) {
	query := r.db.Model(&entity.WorkOrder{}).Where("deleted_at IS NULL")
	if params.Status != "" {
		query = query.Where("status = ?", params.Status)
	}
	if params.ProductID != "" {
		query = query.Where("product_id = ?", params.ProductID)
	}
	if params.Keyword != "" {
		kw := "%" + params.Keyword + "%"
		query = query.Where("wo_code ILIKE ? OR product_name ILIKE ?", kw, kw)
	}
	var total int64
	query.Count(&total)
	if params.Page <= 0 {
		params.Page = 1
	}
	if params.Size <= 0 {
		params.Size = 20
	}
	var wos []entity.WorkOrder
	err := query.Order("created_at DESC").Offset((params.Page - 1) * params.Size).Limit(params.Size).Find(&wos).Error
	return wos, total, err
}

func (r *WorkOrderRepository) CreateReport(report *entity.WorkOrderReport) error {
	return r.db.Create(report).Error
}

// OpenDemandLine MRP需求收集用的工单物料行
type OpenDemandLine struct {
	WorkOrderID   string
	WorkOrderCode string
	WarehouseID   string
	PlannedEnd    *time.Time
	ProductID     string
	ProductCode   string
	ProductName   string
	Unit          string
	RequiredQty   float64
	ConsumedQty   float64
}

// OpenDemandLines 计划期内未完成工单的物料需求行。
// 计划完工日期为空的工单视为急单，一并纳入。
func (r *WorkOrderRepository) OpenDemandLines(start, end time.Time, warehouseID string) ([]OpenDemandLine, error) {
	query := r.db.Table("erp_work_order_materials m").
		Select(`w.id as work_order_id, w.wo_code as work_order_code, w.warehouse_id,
			w.planned_end, m.product_id, m.product_code, m.product_name, m.unit,
			m.required_qty, m.consumed_qty`).
		Joins("JOIN erp_work_orders w ON w.id = m.work_order_id").
		Where("w.status IN ?", []string{entity.WOStatusConfirmed, entity.WOStatusReleased, entity.WOStatusInProgress}).
		Where("w.deleted_at IS NULL").
		Where("(w.planned_end IS NULL OR (w.planned_end >= ? AND w.planned_end <= ?))", start, end)
	if warehouseID != "" {
		query = query.Where("w.warehouse_id = ?", warehouseID)
	}
	var lines []OpenDemandLine
	err := query.Order("w.planned_end NULLS FIRST, w.wo_code, m.product_code").Scan(&lines).Error
	return lines, err
}

// InProductionQty 产品在制数量（未完成工单的计划数量 - 已完成数量）
func (r *WorkOrderRepository) InProductionQty(productID string) (float64, error) {
	var result struct{ Total float64 }
	err := r.db.Raw(`
		SELECT COALESCE(SUM(planned_qty - completed_qty), 0) as total
		FROM erp_work_orders
		WHERE product_id = ?
		AND status IN ('CONFIRMED', 'RELEASED', 'IN_PROGRESS')
		AND deleted_at IS NULL
	`, productID).Scan(&result).Error
	return result.Total, err
}
