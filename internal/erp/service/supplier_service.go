package service

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/bumimakmur/bumi-erp/internal/erp/entity"
	"github.com/bumimakmur/bumi-erp/internal/erp/repository"
)

// SupplierService 供应商服务
type SupplierService struct {
	repo *repository.SupplierRepository
}

func NewSupplierService(repo *repository.SupplierRepository) *SupplierService {
	return &SupplierService{repo: repo}
}

// CreateSupplierRequest 创建供应商
type CreateSupplierRequest struct {
	SupplierCode string `json:"supplier_code" binding:"required"`
	Name         string `json:"name" binding:"required"`
	Type         string `json:"type" binding:"required"`
	ContactName  string `json:"contact_name"`
	Phone        string `json:"phone"`
	Email        string `json:"email"`
	Address      string `json:"address"`
	PaymentTerms string `json:"payment_terms"`
	Notes        string `json:"notes"`
}

func (s *SupplierService) Create(req *CreateSupplierRequest, userID string) (*entity.Supplier, error) {
	supplier := &entity.Supplier{
		ID:           uuid.New().String(),
		SupplierCode: req.SupplierCode,
		Name:         req.Name,
		Type:         req.Type,
		ContactName:  req.ContactName,
		Phone:        req.Phone,
		Email:        req.Email,
		Address:      req.Address,
		PaymentTerms: req.PaymentTerms,
		Status:       entity.SupplierStatusActive,
		Notes:        req.Notes,
		CreatedBy:    userID,
	}
	if err := s.repo.Create(supplier); err != nil {
		return nil, fmt.Errorf("创建供应商失败: %w", err)
	}
	return supplier, nil
}

func (s *SupplierService) Get(id string) (*entity.Supplier, error) {
	return s.repo.GetByID(id)
}

func (s *SupplierService) Update(supplier *entity.Supplier, userID string) error {
	supplier.UpdatedBy = userID
	if err := s.repo.Update(supplier); err != nil {
		return fmt.Errorf("更新供应商失败: %w", err)
	}
	return nil
}

func (s *SupplierService) Delete(id string) error {
	return s.repo.Delete(id)
}

func (s *SupplierService) List(params repository.SupplierListParams) ([]entity.Supplier, int64, error) {
	return s.repo.List(params)
}

// RateRequest 供应商评分
type RateRequest struct {
	QualityScore  float64 `json:"quality_score" binding:"min=0,max=100"`
	DeliveryScore float64 `json:"delivery_score" binding:"min=0,max=100"`
	PriceScore    float64 `json:"price_score" binding:"min=0,max=100"`
	ServiceScore  float64 `json:"service_score" binding:"min=0,max=100"`
}

// Rate 更新评分并重算评级
func (s *SupplierService) Rate(id string, req *RateRequest, userID string) (*entity.Supplier, error) {
	supplier, err := s.repo.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("供应商不存在: %w", err)
	}
	supplier.QualityScore = req.QualityScore
	supplier.DeliveryScore = req.DeliveryScore
	supplier.PriceScore = req.PriceScore
	supplier.ServiceScore = req.ServiceScore
	supplier.DetermineRating()
	supplier.UpdatedBy = userID
	if err := s.repo.Update(supplier); err != nil {
		return nil, fmt.Errorf("更新供应商失败: %w", err)
	}
	return supplier, nil
}

// SetStatus 修改供应商状态
func (s *SupplierService) SetStatus(id, status, userID string) (*entity.Supplier, error) {
	switch status {
	case entity.SupplierStatusActive, entity.SupplierStatusInactive, entity.SupplierStatusBlacklist:
	default:
		return nil, fmt.Errorf("无效的供应商状态: %s", status)
	}
	supplier, err := s.repo.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("供应商不存在: %w", err)
	}
	supplier.Status = status
	supplier.UpdatedBy = userID
	if err := s.repo.Update(supplier); err != nil {
		return nil, fmt.Errorf("更新供应商失败: %w", err)
	}
	return supplier, nil
}
