package repository

import (
	"github.com/bumimakmur/bumi-erp/internal/erp/entity"
	"gorm.io/gorm"
)

type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

func (r *ProductRepository) Create(p *entity.Product) error {
	return r.db.Create(p).Error
}

func (r *ProductRepository) GetByID(id string) (*entity.Product, error) {
	var p entity.Product
	err := r.db.Where("id = ? AND deleted_at IS NULL", id).First(&p).Error
	return &p, err
}

func (r *ProductRepository) GetByCode(code string) (*entity.Product, error) {
	var p entity.Product
	err := r.db.Where("code = ? AND deleted_at IS NULL", code).First(&p).Error
	return &p, err
}

func (r *ProductRepository) Update(p *entity.Product) error {
	return r.db.Save(p).Error
}

type ProductListParams struct {
	ProcurementType string
	Status          string
	Keyword         string
	Page            int
	Size            int
}

func (r *ProductRepository) List(params ProductListParams) ([]entity.Product, int64, error) {
	query := r.db.Model(&entity.Product{}).Where("deleted_at IS NULL")
	if params.ProcurementType != "" {
		query = query.Where("procurement_type = ?", params.ProcurementType)
	}
	if params.Status != "" {
		query = query.Where("status = ?", params.Status)
	}
	if params.Keyword != "" {
		kw := "%" + params.Keyword + "%"
		query = query.Where("code ILIKE ? OR name ILIKE ?", kw, kw)
	}
	var total int64
	query.Count(&total)
	if params.Page <= 0 {
		params.Page = 1
	}
	if params.Size <= 0 {
		params.Size = 20
	}
	var products []entity.Product
	err := query.Order("code").Offset((params.Page - 1) * params.Size).Limit(params.Size).Find(&products).Error
	return products, total, err
}
