package service

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/bumimakmur/bumi-erp/internal/erp/entity"
	"github.com/bumimakmur/bumi-erp/internal/erp/repository"
)

// InventoryService 库存服务。所有出入库都走这里，保证库存行和流水同步更新。
type InventoryService struct {
	repo     *repository.InventoryRepository
	products *repository.ProductRepository
	clock    Clock
}

func NewInventoryService(repo *repository.InventoryRepository, products *repository.ProductRepository, clock Clock) *InventoryService {
	if clock == nil {
		clock = SystemClock()
	}
	return &InventoryService{repo: repo, products: products, clock: clock}
}

// StockMoveRequest 出入库请求
type StockMoveRequest struct {
	ProductID     string  `json:"product_id" binding:"required"`
	WarehouseID   string  `json:"warehouse_id" binding:"required"`
	Quantity      float64 `json:"quantity" binding:"required"`
	UnitCost      float64 `json:"unit_cost"`
	MovementType  string  `json:"movement_type"`
	ReferenceType string  `json:"reference_type"`
	ReferenceID   string  `json:"reference_id"`
	ReferenceCode string  `json:"reference_code"`
	Notes         string  `json:"notes"`
	OperatorID    string  `json:"-"`
}

// Inbound 入库：增加在手数量并记流水
func (s *InventoryService) Inbound(req *StockMoveRequest) error {
	if req.Quantity <= 0 {
		return fmt.Errorf("入库数量必须大于0")
	}
	product, err := s.products.GetByID(req.ProductID)
	if err != nil {
		return fmt.Errorf("产品不存在: %w", err)
	}

	stock, err := s.repo.GetStock(req.ProductID, req.WarehouseID)
	if err != nil {
		return fmt.Errorf("查询库存失败: %w", err)
	}
	now := s.clock.Now()
	if stock == nil {
		stock = &entity.ProductStock{
			ID:          uuid.New().String(),
			ProductID:   req.ProductID,
			WarehouseID: req.WarehouseID,
			Unit:        product.Unit,
		}
	}
	stock.QtyOnHand += req.Quantity
	stock.LastMovedAt = &now
	if err := s.repo.UpsertStock(stock); err != nil {
		return fmt.Errorf("更新库存失败: %w", err)
	}

	return s.recordMovement(req, req.Quantity)
}

// Outbound 出库：校验可用量后扣减在手数量
func (s *InventoryService) Outbound(req *StockMoveRequest) error {
	if req.Quantity <= 0 {
		return fmt.Errorf("出库数量必须大于0")
	}
	stock, err := s.repo.GetStock(req.ProductID, req.WarehouseID)
	if err != nil {
		return fmt.Errorf("查询库存失败: %w", err)
	}
	if stock == nil || stock.QtyOnHand < req.Quantity {
		return fmt.Errorf("库存不足，无法出库")
	}

	now := s.clock.Now()
	stock.QtyOnHand -= req.Quantity
	stock.LastMovedAt = &now
	if err := s.repo.UpdateStock(stock); err != nil {
		return fmt.Errorf("更新库存失败: %w", err)
	}

	return s.recordMovement(req, -req.Quantity)
}

// Reserve 预留库存。预留量可以超过在手量，缺口由MRP暴露。
func (s *InventoryService) Reserve(productID, warehouseID string, qty float64) error {
	if qty <= 0 {
		return fmt.Errorf("预留数量必须大于0")
	}
	product, err := s.products.GetByID(productID)
	if err != nil {
		return fmt.Errorf("产品不存在: %w", err)
	}
	stock, err := s.repo.GetStock(productID, warehouseID)
	if err != nil {
		return fmt.Errorf("查询库存失败: %w", err)
	}
	if stock == nil {
		stock = &entity.ProductStock{
			ID:          uuid.New().String(),
			ProductID:   productID,
			WarehouseID: warehouseID,
			Unit:        product.Unit,
		}
	}
	stock.QtyReserved += qty
	return s.repo.UpsertStock(stock)
}

// Release 释放预留，最多释放到0
func (s *InventoryService) Release(productID, warehouseID string, qty float64) error {
	if qty <= 0 {
		return fmt.Errorf("释放数量必须大于0")
	}
	stock, err := s.repo.GetStock(productID, warehouseID)
	if err != nil {
		return fmt.Errorf("查询库存失败: %w", err)
	}
	if stock == nil {
		return nil
	}
	stock.QtyReserved -= qty
	if stock.QtyReserved < 0 {
		stock.QtyReserved = 0
	}
	return s.repo.UpdateStock(stock)
}

// Adjust 盘点调整：把在手量调到指定值，差额记ADJUST流水
func (s *InventoryService) Adjust(productID, warehouseID string, newQty float64, notes, operatorID string) error {
	if newQty < 0 {
		return fmt.Errorf("调整后数量不能为负")
	}
	product, err := s.products.GetByID(productID)
	if err != nil {
		return fmt.Errorf("产品不存在: %w", err)
	}
	stock, err := s.repo.GetStock(productID, warehouseID)
	if err != nil {
		return fmt.Errorf("查询库存失败: %w", err)
	}
	if stock == nil {
		stock = &entity.ProductStock{
			ID:          uuid.New().String(),
			ProductID:   productID,
			WarehouseID: warehouseID,
			Unit:        product.Unit,
		}
	}

	delta := newQty - stock.QtyOnHand
	if delta == 0 {
		return nil
	}
	now := s.clock.Now()
	stock.QtyOnHand = newQty
	stock.LastMovedAt = &now
	if err := s.repo.UpsertStock(stock); err != nil {
		return fmt.Errorf("更新库存失败: %w", err)
	}

	return s.recordMovement(&StockMoveRequest{
		ProductID:    productID,
		WarehouseID:  warehouseID,
		MovementType: entity.MovementAdjust,
		Notes:        notes,
		OperatorID:   operatorID,
	}, delta)
}

func (s *InventoryService) recordMovement(req *StockMoveRequest, signedQty float64) error {
	m := &entity.StockMovement{
		ID:            uuid.New().String(),
		ProductID:     req.ProductID,
		WarehouseID:   req.WarehouseID,
		MovementType:  req.MovementType,
		Quantity:      signedQty,
		UnitCost:      req.UnitCost,
		ReferenceType: req.ReferenceType,
		ReferenceID:   req.ReferenceID,
		ReferenceCode: req.ReferenceCode,
		Notes:         req.Notes,
		CreatedBy:     req.OperatorID,
	}
	if err := s.repo.CreateMovement(m); err != nil {
		return fmt.Errorf("记录库存流水失败: %w", err)
	}
	return nil
}

// ListStocks 库存列表
func (s *InventoryService) ListStocks(params repository.StockListParams) ([]entity.ProductStock, int64, error) {
	return s.repo.ListStocks(params)
}

// ListMovements 流水列表
func (s *InventoryService) ListMovements(productID string, page, size int) ([]entity.StockMovement, int64, error) {
	return s.repo.ListMovements(productID, page, size)
}
