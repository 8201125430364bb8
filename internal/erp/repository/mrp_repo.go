package repository

import (
	"github.com/bumimakmur/bumi-erp/internal/erp/entity"
	"gorm.io/gorm"
)

type MRPRepository struct {
	db *gorm.DB
}

func NewMRPRepository(db *gorm.DB) *MRPRepository {
	return &MRPRepository{db: db}
}

func (r *MRPRepository) CreateRun(run *entity.MRPRun) error {
	return r.db.Create(run).Error
}

func (r *MRPRepository) GetRunByID(id string) (*entity.MRPRun, error) {
	var run entity.MRPRun
	err := r.db.Where("id = ?", id).First(&run).Error
	return &run, err
}

func (r *MRPRepository) UpdateRun(run *entity.MRPRun) error {
	return r.db.Save(run).Error
}

func (r *MRPRepository) GetLatestCompletedRun() (*entity.MRPRun, error) {
	var run entity.MRPRun
	err := r.db.Where("status IN ?", []string{entity.MRPStatusCompleted, entity.MRPStatusApplied}).
		Order("completed_at DESC").First(&run).Error
	return &run, err
}

func (r *MRPRepository) ListRuns(page, size int) ([]entity.MRPRun, int64, error) {
	var total int64
	r.db.Model(&entity.MRPRun{}).Count(&total)
	if page <= 0 {
		page = 1
	}
	if size <= 0 {
		size = 20
	}
	var runs []entity.MRPRun
	err := r.db.Order("created_at DESC").Offset((page - 1) * size).Limit(size).Find(&runs).Error
	return runs, total, err
}

// DeleteRun 删除运行及其全部需求和建议
func (r *MRPRepository) DeleteRun(run *entity.MRPRun) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("run_id = ?", run.ID).Delete(&entity.MRPDemand{}).Error; err != nil {
			return err
		}
		if err := tx.Where("run_id = ?", run.ID).Delete(&entity.MRPSuggestion{}).Error; err != nil {
			return err
		}
		return tx.Delete(run).Error
	})
}

// ReplaceRunResults 原子替换一次运行的需求与建议并保存运行状态。
// 计算阶段整体在一个事务里落库，失败则全部回滚。
func (r *MRPRepository) ReplaceRunResults(run *entity.MRPRun, demands []entity.MRPDemand, suggestions []entity.MRPSuggestion) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("run_id = ?", run.ID).Delete(&entity.MRPDemand{}).Error; err != nil {
			return err
		}
		if err := tx.Where("run_id = ?", run.ID).Delete(&entity.MRPSuggestion{}).Error; err != nil {
			return err
		}
		if len(demands) > 0 {
			if err := tx.Create(&demands).Error; err != nil {
				return err
			}
		}
		if len(suggestions) > 0 {
			if err := tx.Create(&suggestions).Error; err != nil {
				return err
			}
		}
		return tx.Save(run).Error
	})
}

func (r *MRPRepository) GetDemandsByRun(runID string) ([]entity.MRPDemand, error) {
	var demands []entity.MRPDemand
	err := r.db.Where("run_id = ?", runID).
		Order("bom_level, product_code, required_date").Find(&demands).Error
	return demands, err
}

func (r *MRPRepository) GetSuggestionByID(id string) (*entity.MRPSuggestion, error) {
	var sg entity.MRPSuggestion
	err := r.db.Where("id = ?", id).First(&sg).Error
	return &sg, err
}

func (r *MRPRepository) GetSuggestionsByRun(runID string) ([]entity.MRPSuggestion, error) {
	var sgs []entity.MRPSuggestion
	err := r.db.Where("run_id = ?", runID).
		Order("priority, order_date, product_code").Find(&sgs).Error
	return sgs, err
}

func (r *MRPRepository) UpdateSuggestion(sg *entity.MRPSuggestion) error {
	return r.db.Save(sg).Error
}
