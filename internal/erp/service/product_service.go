package service

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/bumimakmur/bumi-erp/internal/erp/entity"
	"github.com/bumimakmur/bumi-erp/internal/erp/repository"
)

// ProductService 产品与BOM主数据服务
type ProductService struct {
	repo *repository.ProductRepository
	boms *repository.BomRepository
}

func NewProductService(repo *repository.ProductRepository, boms *repository.BomRepository) *ProductService {
	return &ProductService{repo: repo, boms: boms}
}

// CreateProductRequest 创建产品
type CreateProductRequest struct {
	Code            string  `json:"code" binding:"required"`
	Name            string  `json:"name" binding:"required"`
	Unit            string  `json:"unit"`
	ProcurementType string  `json:"procurement_type" binding:"required"`
	LeadTimeDays    int     `json:"lead_time_days"`
	MinOrderQty     float64 `json:"min_order_qty"`
	OrderMultiple   float64 `json:"order_multiple"`
	PurchasePrice   float64 `json:"purchase_price"`
	SafetyStock     float64 `json:"safety_stock"`
	SupplierID      *string `json:"supplier_id"`
	SubcontractorID *string `json:"subcontractor_id"`
	Notes           string  `json:"notes"`
}

func (s *ProductService) Create(req *CreateProductRequest, userID string) (*entity.Product, error) {
	switch req.ProcurementType {
	case entity.ProcurePurchase, entity.ProcureManufacture, entity.ProcureSubcontract:
	default:
		return nil, fmt.Errorf("无效的获取方式: %s", req.ProcurementType)
	}
	if existing, err := s.repo.GetByCode(req.Code); err == nil && existing != nil {
		return nil, fmt.Errorf("产品编码%s已存在", req.Code)
	}

	unit := req.Unit
	if unit == "" {
		unit = "pcs"
	}
	product := &entity.Product{
		ID:              uuid.New().String(),
		Code:            req.Code,
		Name:            req.Name,
		Unit:            unit,
		ProcurementType: req.ProcurementType,
		LeadTimeDays:    req.LeadTimeDays,
		MinOrderQty:     req.MinOrderQty,
		OrderMultiple:   req.OrderMultiple,
		PurchasePrice:   req.PurchasePrice,
		SafetyStock:     req.SafetyStock,
		SupplierID:      req.SupplierID,
		SubcontractorID: req.SubcontractorID,
		Status:          entity.ProductStatusActive,
		Notes:           req.Notes,
		CreatedBy:       userID,
	}
	if err := s.repo.Create(product); err != nil {
		return nil, fmt.Errorf("创建产品失败: %w", err)
	}
	return product, nil
}

func (s *ProductService) Get(id string) (*entity.Product, error) {
	return s.repo.GetByID(id)
}

func (s *ProductService) Update(product *entity.Product) error {
	if err := s.repo.Update(product); err != nil {
		return fmt.Errorf("更新产品失败: %w", err)
	}
	return nil
}

func (s *ProductService) List(params repository.ProductListParams) ([]entity.Product, int64, error) {
	return s.repo.List(params)
}

// CreateBomRequest 创建BOM
type CreateBomRequest struct {
	ProductID string              `json:"product_id" binding:"required"`
	Version   string              `json:"version" binding:"required"`
	OutputQty float64             `json:"output_qty"`
	Notes     string              `json:"notes"`
	Items     []CreateBomItemSpec `json:"items" binding:"required,min=1"`
}

type CreateBomItemSpec struct {
	ProductID string  `json:"product_id" binding:"required"`
	Quantity  float64 `json:"quantity" binding:"required"`
	WastePct  float64 `json:"waste_pct"`
	Notes     string  `json:"notes"`
}

// CreateBom 创建BOM草稿，组件不能引用产品自身
func (s *ProductService) CreateBom(req *CreateBomRequest, userID string) (*entity.Bom, error) {
	product, err := s.repo.GetByID(req.ProductID)
	if err != nil {
		return nil, fmt.Errorf("产品不存在: %w", err)
	}
	outputQty := req.OutputQty
	if outputQty <= 0 {
		outputQty = 1
	}

	bom := &entity.Bom{
		ID:        uuid.New().String(),
		ProductID: product.ID,
		Version:   req.Version,
		Status:    entity.BomStatusDraft,
		OutputQty: outputQty,
		Unit:      product.Unit,
		Notes:     req.Notes,
		CreatedBy: userID,
	}
	for i, spec := range req.Items {
		if spec.ProductID == product.ID {
			return nil, fmt.Errorf("BOM组件不能引用产品自身")
		}
		if spec.Quantity <= 0 {
			return nil, fmt.Errorf("组件用量必须大于0")
		}
		component, err := s.repo.GetByID(spec.ProductID)
		if err != nil {
			return nil, fmt.Errorf("组件产品不存在: %w", err)
		}
		bom.Items = append(bom.Items, entity.BomItem{
			ID:        uuid.New().String(),
			BomID:     bom.ID,
			ProductID: component.ID,
			Sequence:  i + 1,
			Quantity:  spec.Quantity,
			WastePct:  spec.WastePct,
			Unit:      component.Unit,
			Notes:     spec.Notes,
		})
	}

	if err := s.boms.Create(bom); err != nil {
		return nil, fmt.Errorf("创建BOM失败: %w", err)
	}
	return bom, nil
}

// ActivateBom 激活BOM，同产品其他生效版本转为废弃
func (s *ProductService) ActivateBom(id string) (*entity.Bom, error) {
	bom, err := s.boms.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("BOM不存在: %w", err)
	}
	if bom.Status == entity.BomStatusActive {
		return bom, nil
	}

	versions, err := s.boms.ListByProduct(bom.ProductID)
	if err != nil {
		return nil, fmt.Errorf("查询BOM版本失败: %w", err)
	}
	for i := range versions {
		if versions[i].ID != bom.ID && versions[i].Status == entity.BomStatusActive {
			versions[i].Status = entity.BomStatusObsolete
			if err := s.boms.Update(&versions[i]); err != nil {
				return nil, fmt.Errorf("废弃旧版本失败: %w", err)
			}
		}
	}

	bom.Status = entity.BomStatusActive
	if err := s.boms.Update(bom); err != nil {
		return nil, fmt.Errorf("更新BOM失败: %w", err)
	}
	return bom, nil
}

// GetActiveBom 查询产品的生效BOM
func (s *ProductService) GetActiveBom(productID string) (*entity.Bom, error) {
	bom, err := s.boms.ActiveBom(productID)
	if err != nil {
		return nil, err
	}
	if bom == nil {
		return nil, fmt.Errorf("产品没有生效的BOM")
	}
	return bom, nil
}

// ListBoms 查询产品的全部BOM版本
func (s *ProductService) ListBoms(productID string) ([]entity.Bom, error) {
	return s.boms.ListByProduct(productID)
}
