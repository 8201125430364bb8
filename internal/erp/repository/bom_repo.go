package repository

import (
	"errors"

	"github.com/bumimakmur/bumi-erp/internal/erp/entity"
	"gorm.io/gorm"
)

type BomRepository struct {
	db *gorm.DB
}

func NewBomRepository(db *gorm.DB) *BomRepository {
	return &BomRepository{db: db}
}

func (r *BomRepository) Create(bom *entity.Bom) error {
	return r.db.Create(bom).Error
}

func (r *BomRepository) GetByID(id string) (*entity.Bom, error) {
	var bom entity.Bom
	err := r.db.Preload("Items.Product").
		Where("id = ? AND deleted_at IS NULL", id).First(&bom).Error
	return &bom, err
}

func (r *BomRepository) Update(bom *entity.Bom) error {
	return r.db.Save(bom).Error
}

// ActiveBom 获取产品当前生效的BOM，不存在返回 (nil, nil)
func (r *BomRepository) ActiveBom(productID string) (*entity.Bom, error) {
	var bom entity.Bom
	err := r.db.Preload("Items.Product").
		Where("product_id = ? AND status = ? AND deleted_at IS NULL", productID, entity.BomStatusActive).
		Order("created_at DESC").First(&bom).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &bom, nil
}

func (r *BomRepository) ListByProduct(productID string) ([]entity.Bom, error) {
	var boms []entity.Bom
	err := r.db.Where("product_id = ? AND deleted_at IS NULL", productID).
		Order("created_at DESC").Find(&boms).Error
	return boms, err
}
