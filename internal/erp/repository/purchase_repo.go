package repository

import (
	"github.com/bumimakmur/bumi-erp/internal/erp/entity"
	"gorm.io/gorm"
)

type PurchaseRepository struct {
	db *gorm.DB
}

func NewPurchaseRepository(db *gorm.DB) *PurchaseRepository {
	return &PurchaseRepository{db: db}
}

func (r *PurchaseRepository) CreatePO(po *entity.PurchaseOrder) error {
	return r.db.Create(po).Error
}

func (r *PurchaseRepository) GetPOByID(id string) (*entity.PurchaseOrder, error) {
	var po entity.PurchaseOrder
	err := r.db.Preload("Supplier").Preload("Items").
		Where("id = ? AND deleted_at IS NULL", id).First(&po).Error
	return &po, err
}

func (r *PurchaseRepository) UpdatePO(po *entity.PurchaseOrder) error {
	return r.db.Save(po).Error
}

func (r *PurchaseRepository) UpdatePOItem(item *entity.POItem) error {
	return r.db.Save(item).Error
}

type POListParams struct {
	Status     string
	SupplierID string
	Keyword    string
	Page       int
	Size       int
}

func (r *PurchaseRepository) ListPOs(params POListParams) ([]entity.PurchaseOrder, int64, error) {
	query := r.db.Model(&entity.PurchaseOrder{}).Where("deleted_at IS NULL")
	if params.Status != "" {
		query = query.Where("status = ?", params.Status)
	}
	if params.SupplierID != "" {
		query = query.Where("supplier_id = ?", params.SupplierID)
	}
	if params.Keyword != "" {
		kw := "%" + params.Keyword + "%"
		query = query.Where("po_code ILIKE ?", kw)
	}
	var total int64
	query.Count(&total)
	if params.Page <= 0 {
		params.Page = 1
	}
	if params.Size <= 0 {
		params.Size = 20
	}
	var pos []entity.PurchaseOrder
	err := query.Preload("Supplier").Order("created_at DESC").
		Offset((params.Page - 1) * params.Size).Limit(params.Size).Find(&pos).Error
	return pos, total, err
}

// OnOrderQty 产品在途数量：已批准未完成收货的PO行 (ordered - received) 之和。
// warehouseID为空时不限制收货仓库。
func (r *PurchaseRepository) OnOrderQty(productID, warehouseID string) (float64, error) {
	var result struct{ Total float64 }
	query := `
		SELECT COALESCE(SUM(i.quantity - i.received_qty), 0) as total
		FROM erp_po_items i
		JOIN erp_purchase_orders po ON po.id = i.po_id
		WHERE i.product_id = ?
		AND po.status IN ('APPROVED', 'SENT', 'PARTIAL')
		AND po.deleted_at IS NULL
		AND i.status IN ('OPEN', 'PARTIAL')`
	args := []interface{}{productID}
	if warehouseID != "" {
		query += ` AND i.warehouse_id = ?`
		args = append(args, warehouseID)
	}
	err := r.db.Raw(query, args...).Scan(&result).Error
	return result.Total, err
}
