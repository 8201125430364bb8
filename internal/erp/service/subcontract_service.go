package service

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/bumimakmur/bumi-erp/internal/erp/entity"
	"github.com/bumimakmur/bumi-erp/internal/erp/repository"
)

// SubcontractService 委外服务
type SubcontractService struct {
	repo      *repository.SubcontractRepository
	products  *repository.ProductRepository
	suppliers *repository.SupplierRepository
	inventory *InventoryService
	clock     Clock
}

func NewSubcontractService(repo *repository.SubcontractRepository, products *repository.ProductRepository,
	suppliers *repository.SupplierRepository, inventory *InventoryService, clock Clock) *SubcontractService {
	if clock == nil {
		clock = SystemClock()
	}
	return &SubcontractService{repo: repo, products: products, suppliers: suppliers, inventory: inventory, clock: clock}
}

// CreateSCORequest 创建委外订单
type CreateSCORequest struct {
	SubcontractorID string  `json:"subcontractor_id" binding:"required"`
	ProductID       string  `json:"product_id" binding:"required"`
	Quantity        float64 `json:"quantity" binding:"required"`
	UnitCost        float64 `json:"unit_cost"`
	DueDate         string  `json:"due_date"` // YYYY-MM-DD
	WarehouseID     string  `json:"warehouse_id"`
	Notes           string  `json:"notes"`
}

// Create 手工创建委外订单
func (s *SubcontractService) Create(req *CreateSCORequest, userID string) (*entity.SubcontractOrder, error) {
	if req.Quantity <= 0 {
		return nil, fmt.Errorf("委外数量必须大于0")
	}
	subcontractor, err := s.suppliers.GetByID(req.SubcontractorID)
	if err != nil {
		return nil, fmt.Errorf("委外供应商不存在: %w", err)
	}
	if subcontractor.Status != entity.SupplierStatusActive {
		return nil, fmt.Errorf("委外供应商%s状态为%s，不能下单", subcontractor.Name, subcontractor.Status)
	}
	product, err := s.products.GetByID(req.ProductID)
	if err != nil {
		return nil, fmt.Errorf("产品不存在: %w", err)
	}

	now := s.clock.Now()
	cost := req.UnitCost
	if cost <= 0 {
		cost = product.PurchasePrice
	}
	sco := &entity.SubcontractOrder{
		ID:              uuid.New().String(),
		SCOCode:         fmt.Sprintf("SCO-%s%04d", now.Format("20060102"), now.UnixNano()%10000),
		SubcontractorID: req.SubcontractorID,
		ProductID:       product.ID,
		ProductCode:     product.Code,
		ProductName:     product.Name,
		Quantity:        req.Quantity,
		Unit:            product.Unit,
		UnitCost:        cost,
		TotalCost:       req.Quantity * cost,
		Status:          entity.SCOStatusDraft,
		OrderDate:       &now,
		WarehouseID:     req.WarehouseID,
		SourceType:      "MANUAL",
		Notes:           req.Notes,
		CreatedBy:       userID,
	}
	if req.DueDate != "" {
		t, err := parseDate(req.DueDate)
		if err != nil {
			return nil, fmt.Errorf("无效的交期: %w", err)
		}
		sco.DueDate = &t
	}

	if err := s.repo.Create(sco); err != nil {
		return nil, fmt.Errorf("创建委外订单失败: %w", err)
	}
	return sco, nil
}

// CreateSCOFromSuggestion 从MRP建议生成委外订单
func (s *SubcontractService) CreateSCOFromSuggestion(sg *entity.MRPSuggestion, userID string) (string, string, error) {
	if sg.SupplierID == nil || *sg.SupplierID == "" {
		return "", "", fmt.Errorf("建议未指定委外供应商，请先维护产品的默认委外供应商")
	}
	subcontractor, err := s.suppliers.GetByID(*sg.SupplierID)
	if err != nil {
		return "", "", fmt.Errorf("委外供应商不存在: %w", err)
	}
	if subcontractor.Status != entity.SupplierStatusActive {
		return "", "", fmt.Errorf("委外供应商%s状态为%s，不能下单", subcontractor.Name, subcontractor.Status)
	}

	now := s.clock.Now()
	qty := sg.EffectiveQty()
	orderDate := sg.OrderDate
	dueDate := sg.DueDate
	sco := &entity.SubcontractOrder{
		ID:              uuid.New().String(),
		SCOCode:         fmt.Sprintf("SCO-%s%04d", now.Format("20060102"), now.UnixNano()%10000),
		SubcontractorID: *sg.SupplierID,
		ProductID:       sg.ProductID,
		ProductCode:     sg.ProductCode,
		ProductName:     sg.ProductName,
		Quantity:        qty,
		Unit:            sg.Unit,
		UnitCost:        sg.UnitCost,
		TotalCost:       qty * sg.UnitCost,
		Status:          entity.SCOStatusDraft,
		OrderDate:       &orderDate,
		DueDate:         &dueDate,
		WarehouseID:     sg.WarehouseID,
		SourceType:      "MRP",
		SourceID:        sg.ID,
		CreatedBy:       userID,
	}

	if err := s.repo.Create(sco); err != nil {
		return "", "", fmt.Errorf("创建委外订单失败: %w", err)
	}
	return sco.ID, sco.SCOCode, nil
}

// Confirm 确认委外订单
func (s *SubcontractService) Confirm(id string) (*entity.SubcontractOrder, error) {
	sco, err := s.repo.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("委外订单不存在: %w", err)
	}
	if sco.Status != entity.SCOStatusDraft {
		return nil, fmt.Errorf("委外订单状态为%s，不能确认", sco.Status)
	}
	sco.Status = entity.SCOStatusConfirmed
	if err := s.repo.Update(sco); err != nil {
		return nil, fmt.Errorf("更新委外订单失败: %w", err)
	}
	return sco, nil
}

// ReceiveSCORequest 委外收货
type ReceiveSCORequest struct {
	Quantity    float64 `json:"quantity" binding:"required"`
	WarehouseID string  `json:"warehouse_id"`
	Notes       string  `json:"notes"`
}

// Receive 委外收货入库
func (s *SubcontractService) Receive(id string, req *ReceiveSCORequest, userID string) (*entity.SubcontractOrder, error) {
	if req.Quantity <= 0 {
		return nil, fmt.Errorf("收货数量必须大于0")
	}
	sco, err := s.repo.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("委外订单不存在: %w", err)
	}
	if sco.Status != entity.SCOStatusConfirmed && sco.Status != entity.SCOStatusInProgress {
		return nil, fmt.Errorf("委外订单状态为%s，不能收货", sco.Status)
	}
	if sco.ReceivedQty+req.Quantity > sco.Quantity {
		return nil, fmt.Errorf("收货数量超过订单剩余数量")
	}

	warehouseID := req.WarehouseID
	if warehouseID == "" {
		warehouseID = sco.WarehouseID
	}
	if warehouseID == "" {
		return nil, fmt.Errorf("未指定收货仓库")
	}

	if err := s.inventory.Inbound(&StockMoveRequest{
		ProductID:     sco.ProductID,
		WarehouseID:   warehouseID,
		Quantity:      req.Quantity,
		UnitCost:      sco.UnitCost,
		MovementType:  entity.MovementSubcontractIn,
		ReferenceType: "SCO",
		ReferenceID:   sco.ID,
		ReferenceCode: sco.SCOCode,
		Notes:         req.Notes,
		OperatorID:    userID,
	}); err != nil {
		return nil, err
	}

	sco.ReceivedQty += req.Quantity
	if sco.ReceivedQty >= sco.Quantity {
		sco.Status = entity.SCOStatusReceived
	} else {
		sco.Status = entity.SCOStatusInProgress
	}
	if err := s.repo.Update(sco); err != nil {
		return nil, fmt.Errorf("更新委外订单失败: %w", err)
	}
	return sco, nil
}

// Cancel 取消委外订单，已收货的不能取消
func (s *SubcontractService) Cancel(id string) (*entity.SubcontractOrder, error) {
	sco, err := s.repo.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("委外订单不存在: %w", err)
	}
	if sco.ReceivedQty > 0 || sco.Status == entity.SCOStatusReceived {
		return nil, fmt.Errorf("委外订单已有收货，不能取消")
	}
	sco.Status = entity.SCOStatusCancelled
	if err := s.repo.Update(sco); err != nil {
		return nil, fmt.Errorf("更新委外订单失败: %w", err)
	}
	return sco, nil
}

// Get 查询委外订单
func (s *SubcontractService) Get(id string) (*entity.SubcontractOrder, error) {
	return s.repo.GetByID(id)
}

// List 分页查询委外订单
func (s *SubcontractService) List(params repository.SCOListParams) ([]entity.SubcontractOrder, int64, error) {
	return s.repo.List(params)
}
