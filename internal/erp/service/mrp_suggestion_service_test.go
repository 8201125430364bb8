package service

import (
	"fmt"
	"testing"

	"github.com/bumimakmur/bumi-erp/internal/erp/entity"
)

type fakeFactory struct {
	docID   string
	docCode string
	err     error
	calls   int
}

func (f *fakeFactory) CreatePOFromSuggestion(sg *entity.MRPSuggestion, userID string) (string, string, error) {
	f.calls++
	return f.docID, f.docCode, f.err
}

func (f *fakeFactory) CreateWOFromSuggestion(sg *entity.MRPSuggestion, userID string) (string, string, error) {
	f.calls++
	return f.docID, f.docCode, f.err
}

func (f *fakeFactory) CreateSCOFromSuggestion(sg *entity.MRPSuggestion, userID string) (string, string, error) {
	f.calls++
	return f.docID, f.docCode, f.err
}

type suggestionFixture struct {
	store   *fakeStore
	po      *fakeFactory
	wo      *fakeFactory
	sco     *fakeFactory
	svc     *MRPSuggestionService
	run     *entity.MRPRun
	pending *entity.MRPSuggestion
}

func newSuggestionFixture(t *testing.T, sgType string) *suggestionFixture {
	t.Helper()
	store := newFakeStore()
	completedAt := testNow.AddDate(0, 0, -1)
	run := &entity.MRPRun{
		ID:      "run-1",
		RunCode: "MRP-202406020001",
		Status:  entity.MRPStatusCompleted, CompletedAt: &completedAt,
		HorizonStart: testNow.AddDate(0, 0, -1), HorizonEnd: testNow.AddDate(0, 0, 29),
		CreatedBy: "tester",
	}
	store.CreateRun(run)

	supplierID := "sup-1"
	sg := entity.MRPSuggestion{
		ID:           "sg-1",
		RunID:        run.ID,
		ProductID:    "px",
		ProductCode:  "X-001",
		ProductName:  "零件X",
		Type:         sgType,
		Status:       entity.SuggestionStatusPending,
		Priority:     entity.MRPPriorityNormal,
		OrderDate:    testNow.AddDate(0, 0, 5),
		DueDate:      testNow.AddDate(0, 0, 8),
		QtyRequired:  30,
		QtySuggested: 50,
		Unit:         "pcs",
		SupplierID:   &supplierID,
		UnitCost:     2.5,
		EstimatedCost: 125,
	}
	store.suggestions[run.ID] = []entity.MRPSuggestion{sg}

	f := &suggestionFixture{
		store: store,
		po:    &fakeFactory{docID: "po-1", docCode: "PO-202406030001"},
		wo:    &fakeFactory{docID: "wo-1", docCode: "WO-202406030001"},
		sco:   &fakeFactory{docID: "sco-1", docCode: "SCO-202406030001"},
		run:   run,
	}
	f.svc = NewMRPSuggestionService(store, fixedClock{t: testNow}, f.po, f.wo, f.sco)
	f.pending = &sg
	return f
}

func TestAcceptThenConvert(t *testing.T) {
	f := newSuggestionFixture(t, entity.SuggestionTypePurchase)

	if _, err := f.svc.Accept("sg-1"); err != nil {
		t.Fatalf("Accept: %v", err)
	}
	sg, err := f.svc.Convert("sg-1", "", "tester")
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if sg.Status != entity.SuggestionStatusConverted {
		t.Errorf("status = %s, want CONVERTED", sg.Status)
	}
	if sg.DocumentType != "PO" || sg.DocumentCode != "PO-202406030001" {
		t.Errorf("document = %s/%s, want PO/PO-202406030001", sg.DocumentType, sg.DocumentCode)
	}
	if sg.ConvertedAt == nil || !sg.ConvertedAt.Equal(testNow) {
		t.Errorf("ConvertedAt = %v, want %v", sg.ConvertedAt, testNow)
	}
	if sg.ConvertedBy != "tester" {
		t.Errorf("ConvertedBy = %s, want tester", sg.ConvertedBy)
	}
	if f.po.calls != 1 {
		t.Errorf("factory calls = %d, want 1", f.po.calls)
	}

	run, _ := f.store.GetRunByID("run-1")
	if run.Status != entity.MRPStatusApplied {
		t.Errorf("run status = %s, want APPLIED", run.Status)
	}
	if run.AppliedAt == nil {
		t.Error("AppliedAt should be set")
	}
}

func TestConvertDispatchesByType(t *testing.T) {
	cases := []struct {
		sgType  string
		docType string
	}{
		{entity.SuggestionTypePurchase, "PO"},
		{entity.SuggestionTypeWorkOrder, "WO"},
		{entity.SuggestionTypeSubcontract, "SCO"},
	}
	for _, c := range cases {
		f := newSuggestionFixture(t, c.sgType)
		f.svc.Accept("sg-1")
		sg, err := f.svc.Convert("sg-1", c.sgType, "tester")
		if err != nil {
			t.Fatalf("Convert(%s): %v", c.sgType, err)
		}
		if sg.DocumentType != c.docType {
			t.Errorf("document type = %s, want %s", sg.DocumentType, c.docType)
		}
	}
}

func TestConvertOnlyOnce(t *testing.T) {
	f := newSuggestionFixture(t, entity.SuggestionTypePurchase)
	f.svc.Accept("sg-1")
	if _, err := f.svc.Convert("sg-1", "", "tester"); err != nil {
		t.Fatalf("first Convert: %v", err)
	}
	if _, err := f.svc.Convert("sg-1", "", "tester"); err == nil {
		t.Fatal("second Convert should fail")
	}
	if f.po.calls != 1 {
		t.Errorf("factory calls = %d, want 1", f.po.calls)
	}
}

func TestConvertRequiresAccepted(t *testing.T) {
	f := newSuggestionFixture(t, entity.SuggestionTypePurchase)
	if _, err := f.svc.Convert("sg-1", "", "tester"); err == nil {
		t.Fatal("converting a pending suggestion should fail")
	}

	f.svc.Reject("sg-1", "库存策略调整")
	if _, err := f.svc.Convert("sg-1", "", "tester"); err == nil {
		t.Fatal("converting a rejected suggestion should fail")
	}
	if f.po.calls != 0 {
		t.Errorf("factory calls = %d, want 0", f.po.calls)
	}
}

func TestConvertRejectsTypeMismatch(t *testing.T) {
	f := newSuggestionFixture(t, entity.SuggestionTypePurchase)
	f.svc.Accept("sg-1")
	if _, err := f.svc.Convert("sg-1", entity.SuggestionTypeWorkOrder, "tester"); err == nil {
		t.Fatal("type mismatch should fail")
	}
	if f.po.calls != 0 || f.wo.calls != 0 {
		t.Errorf("no factory should be called, got po=%d wo=%d", f.po.calls, f.wo.calls)
	}
}

func TestConvertFactoryFailureKeepsAccepted(t *testing.T) {
	f := newSuggestionFixture(t, entity.SuggestionTypePurchase)
	f.po.err = fmt.Errorf("供应商不存在")
	f.svc.Accept("sg-1")
	if _, err := f.svc.Convert("sg-1", "", "tester"); err == nil {
		t.Fatal("Convert should surface factory failure")
	}
	sg, _ := f.store.GetSuggestionByID("sg-1")
	if sg.Status != entity.SuggestionStatusAccepted {
		t.Errorf("status = %s, want ACCEPTED", sg.Status)
	}
	run, _ := f.store.GetRunByID("run-1")
	if run.Status != entity.MRPStatusCompleted {
		t.Errorf("run status = %s, want COMPLETED", run.Status)
	}
}

func TestAdjustRecomputesCost(t *testing.T) {
	f := newSuggestionFixture(t, entity.SuggestionTypePurchase)
	sg, err := f.svc.AdjustQty("sg-1", 40)
	if err != nil {
		t.Fatalf("AdjustQty: %v", err)
	}
	if sg.AdjustedQty == nil || *sg.AdjustedQty != 40 {
		t.Errorf("AdjustedQty = %v, want 40", sg.AdjustedQty)
	}
	if sg.EstimatedCost != 100 {
		t.Errorf("EstimatedCost = %v, want 100", sg.EstimatedCost)
	}
	if sg.EffectiveQty() != 40 {
		t.Errorf("EffectiveQty = %v, want 40", sg.EffectiveQty())
	}

	// 已接受仍可调整
	f.svc.Accept("sg-1")
	if _, err := f.svc.AdjustQty("sg-1", 60); err != nil {
		t.Errorf("AdjustQty accepted: %v", err)
	}
}

func TestAdjustGuards(t *testing.T) {
	f := newSuggestionFixture(t, entity.SuggestionTypePurchase)
	if _, err := f.svc.AdjustQty("sg-1", 0); err == nil {
		t.Error("zero qty should fail")
	}
	if _, err := f.svc.AdjustQty("sg-1", -5); err == nil {
		t.Error("negative qty should fail")
	}

	f.svc.Accept("sg-1")
	f.svc.Convert("sg-1", "", "tester")
	if _, err := f.svc.AdjustQty("sg-1", 40); err == nil {
		t.Error("converted suggestion should not be adjustable")
	}
}

func TestConvertUsesAdjustedQty(t *testing.T) {
	f := newSuggestionFixture(t, entity.SuggestionTypePurchase)
	f.svc.AdjustQty("sg-1", 40)
	f.svc.Accept("sg-1")

	if _, err := f.svc.Convert("sg-1", "", "tester"); err != nil {
		t.Fatalf("Convert: %v", err)
	}
	converted, _ := f.store.GetSuggestionByID("sg-1")
	if converted.EffectiveQty() != 40 {
		t.Errorf("EffectiveQty = %v, want 40", converted.EffectiveQty())
	}
}

func TestRejectRecordsReason(t *testing.T) {
	f := newSuggestionFixture(t, entity.SuggestionTypePurchase)
	sg, err := f.svc.Reject("sg-1", "改用现有库存")
	if err != nil {
		t.Fatalf("Reject: %v", err)
	}
	if sg.Status != entity.SuggestionStatusRejected {
		t.Errorf("status = %s, want REJECTED", sg.Status)
	}
	if sg.RejectReason != "改用现有库存" {
		t.Errorf("reason = %s", sg.RejectReason)
	}

	// 已拒绝不能再接受
	if _, err := f.svc.Accept("sg-1"); err == nil {
		t.Error("accepting a rejected suggestion should fail")
	}
}
