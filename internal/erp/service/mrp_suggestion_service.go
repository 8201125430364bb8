package service

import (
	"fmt"

	"github.com/bumimakmur/bumi-erp/internal/erp/entity"
)

// PurchaseOrderFactory 从建议创建采购单
type PurchaseOrderFactory interface {
	CreatePOFromSuggestion(sg *entity.MRPSuggestion, userID string) (docID, docCode string, err error)
}

// WorkOrderFactory 从建议创建生产工单
type WorkOrderFactory interface {
	CreateWOFromSuggestion(sg *entity.MRPSuggestion, userID string) (docID, docCode string, err error)
}

// SubcontractOrderFactory 从建议创建委外单
type SubcontractOrderFactory interface {
	CreateSCOFromSuggestion(sg *entity.MRPSuggestion, userID string) (docID, docCode string, err error)
}

// MRPSuggestionService 建议生命周期：PENDING -> ACCEPTED/REJECTED -> CONVERTED
type MRPSuggestionService struct {
	store       MRPStore
	clock       Clock
	purchase    PurchaseOrderFactory
	workOrder   WorkOrderFactory
	subcontract SubcontractOrderFactory
}

func NewMRPSuggestionService(store MRPStore, clock Clock,
	purchase PurchaseOrderFactory, workOrder WorkOrderFactory, subcontract SubcontractOrderFactory) *MRPSuggestionService {
	if clock == nil {
		clock = SystemClock()
	}
	return &MRPSuggestionService{
		store:       store,
		clock:       clock,
		purchase:    purchase,
		workOrder:   workOrder,
		subcontract: subcontract,
	}
}

// Accept 接受建议，只有待处理的建议可以接受
func (s *MRPSuggestionService) Accept(id string) (*entity.MRPSuggestion, error) {
	sg, err := s.store.GetSuggestionByID(id)
	if err != nil {
		return nil, fmt.Errorf("建议不存在: %w", err)
	}
	if sg.Status != entity.SuggestionStatusPending {
		return nil, fmt.Errorf("建议状态为%s，只有待处理可以接受", sg.Status)
	}
	sg.Status = entity.SuggestionStatusAccepted
	if err := s.store.UpdateSuggestion(sg); err != nil {
		return nil, fmt.Errorf("更新建议失败: %w", err)
	}
	return sg, nil
}

// Reject 拒绝建议并记录原因
func (s *MRPSuggestionService) Reject(id, reason string) (*entity.MRPSuggestion, error) {
	sg, err := s.store.GetSuggestionByID(id)
	if err != nil {
		return nil, fmt.Errorf("建议不存在: %w", err)
	}
	if sg.Status != entity.SuggestionStatusPending {
		return nil, fmt.Errorf("建议状态为%s，只有待处理可以拒绝", sg.Status)
	}
	sg.Status = entity.SuggestionStatusRejected
	sg.RejectReason = reason
	if err := s.store.UpdateSuggestion(sg); err != nil {
		return nil, fmt.Errorf("更新建议失败: %w", err)
	}
	return sg, nil
}

// AdjustQty 调整建议数量并重算预估金额。已转换或已拒绝的建议不可调整。
func (s *MRPSuggestionService) AdjustQty(id string, qty float64) (*entity.MRPSuggestion, error) {
	if qty <= 0 {
		return nil, fmt.Errorf("调整数量必须大于0")
	}
	sg, err := s.store.GetSuggestionByID(id)
	if err != nil {
		return nil, fmt.Errorf("建议不存在: %w", err)
	}
	if sg.Status != entity.SuggestionStatusPending && sg.Status != entity.SuggestionStatusAccepted {
		return nil, fmt.Errorf("建议状态为%s，不能调整数量", sg.Status)
	}
	sg.AdjustedQty = &qty
	sg.EstimatedCost = qty * sg.UnitCost
	if err := s.store.UpdateSuggestion(sg); err != nil {
		return nil, fmt.Errorf("更新建议失败: %w", err)
	}
	return sg, nil
}

// Convert 把已接受的建议转换成对应单据，每条建议最多转换一次。
// 目标单据类型必须与建议类型一致。运行在第一次转换时进入APPLIED。
func (s *MRPSuggestionService) Convert(id, targetType, userID string) (*entity.MRPSuggestion, error) {
	sg, err := s.store.GetSuggestionByID(id)
	if err != nil {
		return nil, fmt.Errorf("建议不存在: %w", err)
	}
	if sg.Status == entity.SuggestionStatusConverted {
		return nil, fmt.Errorf("建议已转换为%s，不能重复转换", sg.DocumentCode)
	}
	if sg.Status != entity.SuggestionStatusAccepted {
		return nil, fmt.Errorf("建议状态为%s，只有已接受可以转换", sg.Status)
	}
	if targetType != "" && targetType != sg.Type {
		return nil, fmt.Errorf("目标单据类型%s与建议类型%s不匹配", targetType, sg.Type)
	}

	var docID, docCode, docType string
	switch sg.Type {
	case entity.SuggestionTypePurchase:
		docID, docCode, err = s.purchase.CreatePOFromSuggestion(sg, userID)
		docType = "PO"
	case entity.SuggestionTypeWorkOrder:
		docID, docCode, err = s.workOrder.CreateWOFromSuggestion(sg, userID)
		docType = "WO"
	case entity.SuggestionTypeSubcontract:
		docID, docCode, err = s.subcontract.CreateSCOFromSuggestion(sg, userID)
		docType = "SCO"
	default:
		return nil, fmt.Errorf("未知的建议类型: %s", sg.Type)
	}
	if err != nil {
		return nil, fmt.Errorf("转换建议失败: %w", err)
	}

	now := s.clock.Now()
	sg.Status = entity.SuggestionStatusConverted
	sg.DocumentType = docType
	sg.DocumentID = &docID
	sg.DocumentCode = docCode
	sg.ConvertedAt = &now
	sg.ConvertedBy = userID
	if err := s.store.UpdateSuggestion(sg); err != nil {
		return nil, fmt.Errorf("更新建议失败: %w", err)
	}

	if run, err := s.store.GetRunByID(sg.RunID); err == nil && run.Status == entity.MRPStatusCompleted {
		run.Status = entity.MRPStatusApplied
		run.AppliedAt = &now
		_ = s.store.UpdateRun(run)
	}
	return sg, nil
}
