package repository

import (
	"github.com/bumimakmur/bumi-erp/internal/erp/entity"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type InventoryRepository struct {
	db *gorm.DB
}

func NewInventoryRepository(db *gorm.DB) *InventoryRepository {
	return &InventoryRepository{db: db}
}

// Snapshot 读取产品库存快照。warehouseID为空时汇总全部仓库。
func (r *InventoryRepository) Snapshot(productID, warehouseID string) (onHand, reserved float64, err error) {
	var result struct {
		OnHand   float64
		Reserved float64
	}
	query := r.db.Model(&entity.ProductStock{}).
		Select("COALESCE(SUM(qty_on_hand), 0) as on_hand, COALESCE(SUM(qty_reserved), 0) as reserved").
		Where("product_id = ?", productID)
	if warehouseID != "" {
		query = query.Where("warehouse_id = ?", warehouseID)
	}
	err = query.Scan(&result).Error
	return result.OnHand, result.Reserved, err
}

// GetStock 获取产品在指定仓库的库存记录
func (r *InventoryRepository) GetStock(productID, warehouseID string) (*entity.ProductStock, error) {
	var stock entity.ProductStock
	err := r.db.Where("product_id = ? AND warehouse_id = ?", productID, warehouseID).First(&stock).Error
	return &stock, err
}

// UpsertStock 更新或创建库存记录
func (r *InventoryRepository) UpsertStock(stock *entity.ProductStock) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "product_id"}, {Name: "warehouse_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"qty_on_hand", "qty_reserved", "last_moved_at", "updated_at"}),
	}).Create(stock).Error
}

func (r *InventoryRepository) UpdateStock(stock *entity.ProductStock) error {
	return r.db.Save(stock).Error
}

func (r *InventoryRepository) CreateMovement(m *entity.StockMovement) error {
	return r.db.Create(m).Error
}

type StockListParams struct {
	ProductID   string
	WarehouseID string
	LowStock    bool
	Page        int
	Size        int
}

func (r *InventoryRepository) ListStocks(params StockListParams) ([]entity.ProductStock, int64, error) {
	query := r.db.Model(&entity.ProductStock{})
	if params.ProductID != "" {
		query = query.Where("product_id = ?", params.ProductID)
	}
	if params.WarehouseID != "" {
		query = query.Where("warehouse_id = ?", params.WarehouseID)
	}
	if params.LowStock {
		query = query.Where(`qty_on_hand - qty_reserved < (
			SELECT safety_stock FROM erp_products WHERE erp_products.id = erp_product_stocks.product_id
		)`)
	}
	var total int64
	query.Count(&total)
	if params.Page <= 0 {
		params.Page = 1
	}
	if params.Size <= 0 {
		params.Size = 20
	}
	var stocks []entity.ProductStock
	err := query.Preload("Warehouse").Order("updated_at DESC").
		Offset((params.Page - 1) * params.Size).Limit(params.Size).Find(&stocks).Error
	return stocks, total, err
}

func (r *InventoryRepository) ListMovements(productID string, page, size int) ([]entity.StockMovement, int64, error) {
	query := r.db.Model(&entity.StockMovement{})
	if productID != "" {
		query = query.Where("product_id = ?", productID)
	}
	var total int64
	query.Count(&total)
	if page <= 0 {
		page = 1
	}
	if size <= 0 {
		size = 20
	}
	var movements []entity.StockMovement
	err := query.Order("created_at DESC").Offset((page - 1) * size).Limit(size).Find(&movements).Error
	return movements, total, err
}
