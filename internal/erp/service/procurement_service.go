package service

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/bumimakmur/bumi-erp/internal/erp/entity"
	"github.com/bumimakmur/bumi-erp/internal/erp/repository"
)

// ProcurementService 采购服务
type ProcurementService struct {
	repo      *repository.PurchaseRepository
	products  *repository.ProductRepository
	suppliers *repository.SupplierRepository
	inventory *InventoryService
	clock     Clock
}

func NewProcurementService(repo *repository.PurchaseRepository, products *repository.ProductRepository,
	suppliers *repository.SupplierRepository, inventory *InventoryService, clock Clock) *ProcurementService {
	if clock == nil {
		clock = SystemClock()
	}
	return &ProcurementService{repo: repo, products: products, suppliers: suppliers, inventory: inventory, clock: clock}
}

// CreatePORequest 创建采购订单
type CreatePORequest struct {
	SupplierID   string             `json:"supplier_id" binding:"required"`
	ExpectedDate string             `json:"expected_date"` // YYYY-MM-DD
	Notes        string             `json:"notes"`
	Items        []CreatePOItemSpec `json:"items" binding:"required,min=1"`
}

type CreatePOItemSpec struct {
	ProductID   string  `json:"product_id" binding:"required"`
	Quantity    float64 `json:"quantity" binding:"required"`
	UnitPrice   float64 `json:"unit_price"`
	WarehouseID string  `json:"warehouse_id"`
}

// CreatePO 手工创建采购订单
func (s *ProcurementService) CreatePO(req *CreatePORequest, userID string) (*entity.PurchaseOrder, error) {
	supplier, err := s.suppliers.GetByID(req.SupplierID)
	if err != nil {
		return nil, fmt.Errorf("供应商不存在: %w", err)
	}
	if supplier.Status != entity.SupplierStatusActive {
		return nil, fmt.Errorf("供应商%s状态为%s，不能下单", supplier.Name, supplier.Status)
	}

	now := s.clock.Now()
	po := &entity.PurchaseOrder{
		ID:         uuid.New().String(),
		POCode:     fmt.Sprintf("PO-%s%04d", now.Format("20060102"), now.UnixNano()%10000),
		SupplierID: req.SupplierID,
		Status:     entity.POStatusDraft,
		OrderDate:  &now,
		SourceType: "MANUAL",
		Notes:      req.Notes,
		CreatedBy:  userID,
	}
	if req.ExpectedDate != "" {
		t, err := parseDate(req.ExpectedDate)
		if err != nil {
			return nil, fmt.Errorf("无效的期望到货日期: %w", err)
		}
		po.ExpectedDate = &t
	}

	var total float64
	for _, spec := range req.Items {
		if spec.Quantity <= 0 {
			return nil, fmt.Errorf("采购数量必须大于0")
		}
		product, err := s.products.GetByID(spec.ProductID)
		if err != nil {
			return nil, fmt.Errorf("产品不存在: %w", err)
		}
		price := spec.UnitPrice
		if price <= 0 {
			price = product.PurchasePrice
		}
		amount := spec.Quantity * price
		total += amount
		po.Items = append(po.Items, entity.POItem{
			ID:          uuid.New().String(),
			POID:        po.ID,
			ProductID:   product.ID,
			ProductCode: product.Code,
			ProductName: product.Name,
			Quantity:    spec.Quantity,
			Unit:        product.Unit,
			UnitPrice:   price,
			Amount:      amount,
			Status:      entity.POItemStatusOpen,
			WarehouseID: spec.WarehouseID,
		})
	}
	po.TotalAmount = total

	if err := s.repo.CreatePO(po); err != nil {
		return nil, fmt.Errorf("创建采购订单失败: %w", err)
	}
	return po, nil
}

// CreatePOFromSuggestion 从MRP建议生成单行采购订单
func (s *ProcurementService) CreatePOFromSuggestion(sg *entity.MRPSuggestion, userID string) (string, string, error) {
	if sg.SupplierID == nil || *sg.SupplierID == "" {
		return "", "", fmt.Errorf("建议未指定供应商，请先维护产品的默认供应商")
	}
	supplier, err := s.suppliers.GetByID(*sg.SupplierID)
	if err != nil {
		return "", "", fmt.Errorf("供应商不存在: %w", err)
	}
	if supplier.Status != entity.SupplierStatusActive {
		return "", "", fmt.Errorf("供应商%s状态为%s，不能下单", supplier.Name, supplier.Status)
	}

	now := s.clock.Now()
	qty := sg.EffectiveQty()
	amount := qty * sg.UnitCost
	orderDate := sg.OrderDate
	dueDate := sg.DueDate

	po := &entity.PurchaseOrder{
		ID:           uuid.New().String(),
		POCode:       fmt.Sprintf("PO-%s%04d", now.Format("20060102"), now.UnixNano()%10000),
		SupplierID:   *sg.SupplierID,
		Status:       entity.POStatusDraft,
		TotalAmount:  amount,
		OrderDate:    &orderDate,
		ExpectedDate: &dueDate,
		SourceType:   "MRP",
		SourceID:     sg.ID,
		CreatedBy:    userID,
		Items: []entity.POItem{{
			ID:          uuid.New().String(),
			ProductID:   sg.ProductID,
			ProductCode: sg.ProductCode,
			ProductName: sg.ProductName,
			Quantity:    qty,
			Unit:        sg.Unit,
			UnitPrice:   sg.UnitCost,
			Amount:      amount,
			Status:      entity.POItemStatusOpen,
			WarehouseID: sg.WarehouseID,
		}},
	}
	po.Items[0].POID = po.ID

	if err := s.repo.CreatePO(po); err != nil {
		return "", "", fmt.Errorf("创建采购订单失败: %w", err)
	}
	return po.ID, po.POCode, nil
}

// Approve 审批采购订单
func (s *ProcurementService) Approve(id, userID string) (*entity.PurchaseOrder, error) {
	po, err := s.repo.GetPOByID(id)
	if err != nil {
		return nil, fmt.Errorf("采购订单不存在: %w", err)
	}
	if po.Status != entity.POStatusDraft && po.Status != entity.POStatusPending {
		return nil, fmt.Errorf("采购订单状态为%s，不能审批", po.Status)
	}
	now := s.clock.Now()
	po.Status = entity.POStatusApproved
	po.ApprovedBy = userID
	po.ApprovedAt = &now
	if err := s.repo.UpdatePO(po); err != nil {
		return nil, fmt.Errorf("更新采购订单失败: %w", err)
	}
	return po, nil
}

// ReceiveRequest 采购收货
type ReceiveRequest struct {
	ItemID      string  `json:"item_id" binding:"required"`
	Quantity    float64 `json:"quantity" binding:"required"`
	WarehouseID string  `json:"warehouse_id"`
	Notes       string  `json:"notes"`
}

// Receive 采购收货：入库并推进订单行和订单状态
func (s *ProcurementService) Receive(poID string, req *ReceiveRequest, userID string) (*entity.PurchaseOrder, error) {
	if req.Quantity <= 0 {
		return nil, fmt.Errorf("收货数量必须大于0")
	}
	po, err := s.repo.GetPOByID(poID)
	if err != nil {
		return nil, fmt.Errorf("采购订单不存在: %w", err)
	}
	if po.Status != entity.POStatusApproved && po.Status != entity.POStatusSent && po.Status != entity.POStatusPartial {
		return nil, fmt.Errorf("采购订单状态为%s，不能收货", po.Status)
	}

	var item *entity.POItem
	for i := range po.Items {
		if po.Items[i].ID == req.ItemID {
			item = &po.Items[i]
			break
		}
	}
	if item == nil {
		return nil, fmt.Errorf("采购订单行不存在: %s", req.ItemID)
	}
	if item.ReceivedQty+req.Quantity > item.Quantity {
		return nil, fmt.Errorf("收货数量超过订单行剩余数量")
	}

	warehouseID := req.WarehouseID
	if warehouseID == "" {
		warehouseID = item.WarehouseID
	}
	if warehouseID == "" {
		return nil, fmt.Errorf("未指定收货仓库")
	}

	if err := s.inventory.Inbound(&StockMoveRequest{
		ProductID:     item.ProductID,
		WarehouseID:   warehouseID,
		Quantity:      req.Quantity,
		UnitCost:      item.UnitPrice,
		MovementType:  entity.MovementPurchaseIn,
		ReferenceType: "PO",
		ReferenceID:   po.ID,
		ReferenceCode: po.POCode,
		Notes:         req.Notes,
		OperatorID:    userID,
	}); err != nil {
		return nil, err
	}

	item.ReceivedQty += req.Quantity
	if item.ReceivedQty >= item.Quantity {
		item.Status = entity.POItemStatusReceived
	} else {
		item.Status = entity.POItemStatusPartial
	}
	if err := s.repo.UpdatePOItem(item); err != nil {
		return nil, fmt.Errorf("更新采购订单行失败: %w", err)
	}

	allReceived := true
	for i := range po.Items {
		if po.Items[i].Status != entity.POItemStatusReceived && po.Items[i].Status != entity.POItemStatusClosed {
			allReceived = false
			break
		}
	}
	if allReceived {
		now := s.clock.Now()
		po.Status = entity.POStatusReceived
		po.ReceivedDate = &now
	} else {
		po.Status = entity.POStatusPartial
	}
	if err := s.repo.UpdatePO(po); err != nil {
		return nil, fmt.Errorf("更新采购订单失败: %w", err)
	}
	return po, nil
}

// Cancel 取消采购订单，已收货的不能取消
func (s *ProcurementService) Cancel(id string) (*entity.PurchaseOrder, error) {
	po, err := s.repo.GetPOByID(id)
	if err != nil {
		return nil, fmt.Errorf("采购订单不存在: %w", err)
	}
	if po.Status == entity.POStatusPartial || po.Status == entity.POStatusReceived || po.Status == entity.POStatusClosed {
		return nil, fmt.Errorf("采购订单状态为%s，不能取消", po.Status)
	}
	po.Status = entity.POStatusCancelled
	if err := s.repo.UpdatePO(po); err != nil {
		return nil, fmt.Errorf("更新采购订单失败: %w", err)
	}
	return po, nil
}

// GetPO 查询采购订单
func (s *ProcurementService) GetPO(id string) (*entity.PurchaseOrder, error) {
	return s.repo.GetPOByID(id)
}

// ListPOs 分页查询采购订单
func (s *ProcurementService) ListPOs(params repository.POListParams) ([]entity.PurchaseOrder, int64, error) {
	return s.repo.ListPOs(params)
}
