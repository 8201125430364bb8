package repository

import (
	"github.com/bumimakmur/bumi-erp/internal/erp/entity"
	"gorm.io/gorm"
)

type SubcontractRepository struct {
	db *gorm.DB
}

func NewSubcontractRepository(db *gorm.DB) *SubcontractRepository {
	return &SubcontractRepository{db: db}
}

func (r *SubcontractRepository) Create(sco *entity.SubcontractOrder) error {
	return r.db.Create(sco).Error
}

func (r *SubcontractRepository) GetByID(id string) (*entity.SubcontractOrder, error) {
	var sco entity.SubcontractOrder
	err := r.db.Preload("Subcontractor").
		Where("id = ? AND deleted_at IS NULL", id).First(&sco).Error
	return &sco, err
}

func (r *SubcontractRepository) Update(sco *entity.SubcontractOrder) error {
	return r.db.Save(sco).Error
}

type SCOListParams struct {
	Status          string
	SubcontractorID string
	Page            int
	Size            int
}

func (r *SubcontractRepository) List(params SCOListParams) ([]entity.SubcontractOrder, int64, error) {
	query := r.db.Model(&entity.SubcontractOrder{}).Where("deleted_at IS NULL")
	if params.Status != "" {
		query = query.Where("status = ?", params.Status)
	}
	if params.SubcontractorID != "" {
		query = query.Where("subcontractor_id = ?", params.SubcontractorID)
	}
	var total int64
	query.Count(&total)
	if params.Page <= 0 {
		params.Page = 1
	}
	if params.Size <= 0 {
		params.Size = 20
	}
	var scos []entity.SubcontractOrder
	err := query.Preload("Subcontractor").Order("created_at DESC").
		Offset((params.Page - 1) * params.Size).Limit(params.Size).Find(&scos).Error
	return scos, total, err
}
