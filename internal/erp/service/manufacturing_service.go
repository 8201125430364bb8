package service

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/bumimakmur/bumi-erp/internal/erp/entity"
	"github.com/bumimakmur/bumi-erp/internal/erp/repository"
)

// ManufacturingService 生产服务：工单全流程（创建/确认/下达/领料/报工/完工）
type ManufacturingService struct {
	repo      *repository.WorkOrderRepository
	boms      *repository.BomRepository
	products  *repository.ProductRepository
	inventory *InventoryService
	clock     Clock
}

func NewManufacturingService(repo *repository.WorkOrderRepository, boms *repository.BomRepository,
	products *repository.ProductRepository, inventory *InventoryService, clock Clock) *ManufacturingService {
	if clock == nil {
		clock = SystemClock()
	}
	return &ManufacturingService{repo: repo, boms: boms, products: products, inventory: inventory, clock: clock}
}

// CreateWORequest 创建生产工单
type CreateWORequest struct {
	ProductID    string  `json:"product_id" binding:"required"`
	PlannedQty   float64 `json:"planned_qty" binding:"required"`
	PlannedStart string  `json:"planned_start"` // YYYY-MM-DD
	PlannedEnd   string  `json:"planned_end"`
	WarehouseID  string  `json:"warehouse_id"`
	Notes        string  `json:"notes"`
}

// CreateWorkOrder 创建工单，物料需求按生效BOM展开
func (s *ManufacturingService) CreateWorkOrder(req *CreateWORequest, userID string) (*entity.WorkOrder, error) {
	if req.PlannedQty <= 0 {
		return nil, fmt.Errorf("计划数量必须大于0")
	}
	product, err := s.products.GetByID(req.ProductID)
	if err != nil {
		return nil, fmt.Errorf("产品不存在: %w", err)
	}

	bom, err := s.boms.ActiveBom(req.ProductID)
	if err != nil {
		return nil, fmt.Errorf("查询BOM失败: %w", err)
	}
	if bom == nil {
		return nil, fmt.Errorf("产品%s没有生效的BOM", product.Code)
	}
	if bom.OutputQty <= 0 {
		return nil, fmt.Errorf("产品%s的BOM产出数量无效", product.Code)
	}

	now := s.clock.Now()
	wo := &entity.WorkOrder{
		ID:          uuid.New().String(),
		WOCode:      fmt.Sprintf("WO-%s%04d", now.Format("20060102"), now.UnixNano()%10000),
		ProductID:   product.ID,
		ProductCode: product.Code,
		ProductName: product.Name,
		BomID:       bom.ID,
		PlannedQty:  req.PlannedQty,
		Status:      entity.WOStatusDraft,
		WarehouseID: req.WarehouseID,
		SourceType:  "MANUAL",
		Notes:       req.Notes,
		CreatedBy:   userID,
	}
	if req.PlannedStart != "" {
		t, err := parseDate(req.PlannedStart)
		if err != nil {
			return nil, fmt.Errorf("无效的计划开工日期: %w", err)
		}
		wo.PlannedStart = &t
	}
	if req.PlannedEnd != "" {
		t, err := parseDate(req.PlannedEnd)
		if err != nil {
			return nil, fmt.Errorf("无效的计划完工日期: %w", err)
		}
		wo.PlannedEnd = &t
	}

	wo.Materials = buildMaterials(wo, bom, req.PlannedQty)

	if err := s.repo.Create(wo); err != nil {
		return nil, fmt.Errorf("创建工单失败: %w", err)
	}
	return wo, nil
}

// CreateWOFromSuggestion 从MRP建议生成工单
func (s *ManufacturingService) CreateWOFromSuggestion(sg *entity.MRPSuggestion, userID string) (string, string, error) {
	bom, err := s.boms.ActiveBom(sg.ProductID)
	if err != nil {
		return "", "", fmt.Errorf("查询BOM失败: %w", err)
	}
	if bom == nil {
		return "", "", fmt.Errorf("产品%s没有生效的BOM，不能生成工单", sg.ProductCode)
	}
	if bom.OutputQty <= 0 {
		return "", "", fmt.Errorf("产品%s的BOM产出数量无效", sg.ProductCode)
	}

	now := s.clock.Now()
	qty := sg.EffectiveQty()
	plannedStart := sg.OrderDate
	plannedEnd := sg.DueDate
	wo := &entity.WorkOrder{
		ID:           uuid.New().String(),
		WOCode:       fmt.Sprintf("WO-%s%04d", now.Format("20060102"), now.UnixNano()%10000),
		ProductID:    sg.ProductID,
		ProductCode:  sg.ProductCode,
		ProductName:  sg.ProductName,
		BomID:        bom.ID,
		PlannedQty:   qty,
		Status:       entity.WOStatusDraft,
		PlannedStart: &plannedStart,
		PlannedEnd:   &plannedEnd,
		WarehouseID:  sg.WarehouseID,
		SourceType:   "MRP",
		SourceID:     sg.ID,
		CreatedBy:    userID,
	}
	wo.Materials = buildMaterials(wo, bom, qty)

	if err := s.repo.Create(wo); err != nil {
		return "", "", fmt.Errorf("创建工单失败: %w", err)
	}
	return wo.ID, wo.WOCode, nil
}

func buildMaterials(wo *entity.WorkOrder, bom *entity.Bom, plannedQty float64) []entity.WorkOrderMaterial {
	multiplier := plannedQty / bom.OutputQty
	materials := make([]entity.WorkOrderMaterial, 0, len(bom.Items))
	for _, item := range bom.Items {
		m := entity.WorkOrderMaterial{
			ID:          uuid.New().String(),
			WorkOrderID: wo.ID,
			ProductID:   item.ProductID,
			RequiredQty: item.EffectiveQty() * multiplier,
			Unit:        item.Unit,
		}
		if item.Product != nil {
			m.ProductCode = item.Product.Code
			m.ProductName = item.Product.Name
		}
		materials = append(materials, m)
	}
	return materials
}

// Confirm 确认工单并预留物料
func (s *ManufacturingService) Confirm(id string) (*entity.WorkOrder, error) {
	wo, err := s.repo.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("工单不存在: %w", err)
	}
	if wo.Status != entity.WOStatusDraft {
		return nil, fmt.Errorf("工单状态为%s，不能确认", wo.Status)
	}
	for i := range wo.Materials {
		m := &wo.Materials[i]
		if err := s.inventory.Reserve(m.ProductID, wo.WarehouseID, m.RequiredQty); err != nil {
			return nil, fmt.Errorf("预留物料%s失败: %w", m.ProductCode, err)
		}
	}
	wo.Status = entity.WOStatusConfirmed
	if err := s.repo.Update(wo); err != nil {
		return nil, fmt.Errorf("更新工单失败: %w", err)
	}
	return wo, nil
}

// Release 下达工单到车间
func (s *ManufacturingService) Release(id string) (*entity.WorkOrder, error) {
	wo, err := s.repo.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("工单不存在: %w", err)
	}
	if wo.Status != entity.WOStatusConfirmed {
		return nil, fmt.Errorf("工单状态为%s，不能下达", wo.Status)
	}
	now := s.clock.Now()
	wo.Status = entity.WOStatusReleased
	wo.ActualStart = &now
	if err := s.repo.Update(wo); err != nil {
		return nil, fmt.Errorf("更新工单失败: %w", err)
	}
	return wo, nil
}

// PickRequest 生产领料
type PickRequest struct {
	MaterialID string  `json:"material_id" binding:"required"`
	Quantity   float64 `json:"quantity" binding:"required"`
	Notes      string  `json:"notes"`
}

// Pick 领料出库：扣减在手和预留，累计物料已耗数量
func (s *ManufacturingService) Pick(woID string, req *PickRequest, userID string) (*entity.WorkOrder, error) {
	if req.Quantity <= 0 {
		return nil, fmt.Errorf("领料数量必须大于0")
	}
	wo, err := s.repo.GetByID(woID)
	if err != nil {
		return nil, fmt.Errorf("工单不存在: %w", err)
	}
	if wo.Status != entity.WOStatusReleased && wo.Status != entity.WOStatusInProgress {
		return nil, fmt.Errorf("工单状态为%s，不能领料", wo.Status)
	}

	var material *entity.WorkOrderMaterial
	for i := range wo.Materials {
		if wo.Materials[i].ID == req.MaterialID {
			material = &wo.Materials[i]
			break
		}
	}
	if material == nil {
		return nil, fmt.Errorf("工单物料行不存在: %s", req.MaterialID)
	}
	if req.Quantity > material.RemainingQty() {
		return nil, fmt.Errorf("领料数量超过剩余需求")
	}

	if err := s.inventory.Outbound(&StockMoveRequest{
		ProductID:     material.ProductID,
		WarehouseID:   wo.WarehouseID,
		Quantity:      req.Quantity,
		MovementType:  entity.MovementProductionOut,
		ReferenceType: "WO",
		ReferenceID:   wo.ID,
		ReferenceCode: wo.WOCode,
		Notes:         req.Notes,
		OperatorID:    userID,
	}); err != nil {
		return nil, err
	}
	if err := s.inventory.Release(material.ProductID, wo.WarehouseID, req.Quantity); err != nil {
		return nil, fmt.Errorf("释放预留失败: %w", err)
	}

	material.ConsumedQty += req.Quantity
	if err := s.repo.UpdateMaterial(material); err != nil {
		return nil, fmt.Errorf("更新工单物料失败: %w", err)
	}

	if wo.Status == entity.WOStatusReleased {
		wo.Status = entity.WOStatusInProgress
		if err := s.repo.Update(wo); err != nil {
			return nil, fmt.Errorf("更新工单失败: %w", err)
		}
	}
	return wo, nil
}

// ReportRequest 报工
type ReportRequest struct {
	Quantity float64 `json:"quantity" binding:"required"`
	ScrapQty float64 `json:"scrap_qty"`
	Notes    string  `json:"notes"`
}

// Report 报工：记录产出，不触发入库，入库在完工时统一处理
func (s *ManufacturingService) Report(woID string, req *ReportRequest, userID string) (*entity.WorkOrder, error) {
	if req.Quantity <= 0 {
		return nil, fmt.Errorf("报工数量必须大于0")
	}
	wo, err := s.repo.GetByID(woID)
	if err != nil {
		return nil, fmt.Errorf("工单不存在: %w", err)
	}
	if wo.Status != entity.WOStatusReleased && wo.Status != entity.WOStatusInProgress {
		return nil, fmt.Errorf("工单状态为%s，不能报工", wo.Status)
	}

	now := s.clock.Now()
	report := &entity.WorkOrderReport{
		ID:          uuid.New().String(),
		WorkOrderID: wo.ID,
		Quantity:    req.Quantity,
		ScrapQty:    req.ScrapQty,
		Notes:       req.Notes,
		ReportedBy:  userID,
		ReportedAt:  now,
	}
	if err := s.repo.CreateReport(report); err != nil {
		return nil, fmt.Errorf("记录报工失败: %w", err)
	}

	wo.CompletedQty += req.Quantity
	wo.ScrapQty += req.ScrapQty
	if wo.Status == entity.WOStatusReleased {
		wo.Status = entity.WOStatusInProgress
	}
	if err := s.repo.Update(wo); err != nil {
		return nil, fmt.Errorf("更新工单失败: %w", err)
	}
	return wo, nil
}

// Complete 完工：成品入库，释放未领用物料的预留
func (s *ManufacturingService) Complete(id, userID string) (*entity.WorkOrder, error) {
	wo, err := s.repo.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("工单不存在: %w", err)
	}
	if wo.Status != entity.WOStatusInProgress {
		return nil, fmt.Errorf("工单状态为%s，不能完工", wo.Status)
	}
	if wo.CompletedQty <= 0 {
		return nil, fmt.Errorf("工单没有报工产出，不能完工")
	}

	if err := s.inventory.Inbound(&StockMoveRequest{
		ProductID:     wo.ProductID,
		WarehouseID:   wo.WarehouseID,
		Quantity:      wo.CompletedQty,
		MovementType:  entity.MovementProductionIn,
		ReferenceType: "WO",
		ReferenceID:   wo.ID,
		ReferenceCode: wo.WOCode,
		OperatorID:    userID,
	}); err != nil {
		return nil, err
	}

	for i := range wo.Materials {
		m := &wo.Materials[i]
		if remaining := m.RemainingQty(); remaining > 0 {
			if err := s.inventory.Release(m.ProductID, wo.WarehouseID, remaining); err != nil {
				return nil, fmt.Errorf("释放预留失败: %w", err)
			}
		}
	}

	now := s.clock.Now()
	wo.Status = entity.WOStatusCompleted
	wo.ActualEnd = &now
	if err := s.repo.Update(wo); err != nil {
		return nil, fmt.Errorf("更新工单失败: %w", err)
	}
	return wo, nil
}

// Cancel 取消工单并释放预留
func (s *ManufacturingService) Cancel(id string) (*entity.WorkOrder, error) {
	wo, err := s.repo.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("工单不存在: %w", err)
	}
	if wo.Status == entity.WOStatusCompleted || wo.Status == entity.WOStatusCancelled {
		return nil, fmt.Errorf("工单状态为%s，不能取消", wo.Status)
	}
	if wo.Status != entity.WOStatusDraft {
		for i := range wo.Materials {
			m := &wo.Materials[i]
			if remaining := m.RemainingQty(); remaining > 0 {
				if err := s.inventory.Release(m.ProductID, wo.WarehouseID, remaining); err != nil {
					return nil, fmt.Errorf("释放预留失败: %w", err)
				}
			}
		}
	}
	wo.Status = entity.WOStatusCancelled
	if err := s.repo.Update(wo); err != nil {
		return nil, fmt.Errorf("更新工单失败: %w", err)
	}
	return wo, nil
}

// GetWorkOrder 查询工单
func (s *ManufacturingService) GetWorkOrder(id string) (*entity.WorkOrder, error) {
	return s.repo.GetByID(id)
}

// ListWorkOrders 分页查询工单
func (s *ManufacturingService) ListWorkOrders(params repository.WOListParams) ([]entity.WorkOrder, int64, error) {
	return s.repo.List(params)
}
