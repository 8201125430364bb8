package service

import (
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/bumimakmur/bumi-erp/internal/erp/entity"
	"github.com/bumimakmur/bumi-erp/internal/erp/repository"
)

type fixedClock struct {
	t time.Time
}

func (c fixedClock) Now() time.Time { return c.t }

type fakeStore struct {
	runs        map[string]*entity.MRPRun
	demands     map[string][]entity.MRPDemand
	suggestions map[string][]entity.MRPSuggestion
	failReplace bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		runs:        map[string]*entity.MRPRun{},
		demands:     map[string][]entity.MRPDemand{},
		suggestions: map[string][]entity.MRPSuggestion{},
	}
}

func (f *fakeStore) CreateRun(run *entity.MRPRun) error {
	c := *run
	f.runs[run.ID] = &c
	return nil
}

func (f *fakeStore) GetRunByID(id string) (*entity.MRPRun, error) {
	run, ok := f.runs[id]
	if !ok {
		return nil, fmt.Errorf("record not found")
	}
	c := *run
	return &c, nil
}

func (f *fakeStore) UpdateRun(run *entity.MRPRun) error {
	c := *run
	f.runs[run.ID] = &c
	return nil
}

func (f *fakeStore) DeleteRun(run *entity.MRPRun) error {
	delete(f.runs, run.ID)
	delete(f.demands, run.ID)
	delete(f.suggestions, run.ID)
	return nil
}

func (f *fakeStore) ListRuns(page, size int) ([]entity.MRPRun, int64, error) {
	var runs []entity.MRPRun
	for _, r := range f.runs {
		runs = append(runs, *r)
	}
	sort.Slice(runs, func(i, j int) bool { return runs[i].RunCode < runs[j].RunCode })
	return runs, int64(len(runs)), nil
}

func (f *fakeStore) GetLatestCompletedRun() (*entity.MRPRun, error) {
	var latest *entity.MRPRun
	for _, r := range f.runs {
		if r.Status != entity.MRPStatusCompleted && r.Status != entity.MRPStatusApplied {
			continue
		}
		if latest == nil || r.CompletedAt.After(*latest.CompletedAt) {
			latest = r
		}
	}
	if latest == nil {
		return nil, fmt.Errorf("record not found")
	}
	c := *latest
	return &c, nil
}

func (f *fakeStore) ReplaceRunResults(run *entity.MRPRun, demands []entity.MRPDemand, suggestions []entity.MRPSuggestion) error {
	if f.failReplace {
		return fmt.Errorf("connection refused")
	}
	f.demands[run.ID] = append([]entity.MRPDemand(nil), demands...)
	f.suggestions[run.ID] = append([]entity.MRPSuggestion(nil), suggestions...)
	c := *run
	f.runs[run.ID] = &c
	return nil
}

func (f *fakeStore) GetDemandsByRun(runID string) ([]entity.MRPDemand, error) {
	return append([]entity.MRPDemand(nil), f.demands[runID]...), nil
}

func (f *fakeStore) GetSuggestionByID(id string) (*entity.MRPSuggestion, error) {
	for runID := range f.suggestions {
		for i := range f.suggestions[runID] {
			if f.suggestions[runID][i].ID == id {
				c := f.suggestions[runID][i]
				return &c, nil
			}
		}
	}
	return nil, fmt.Errorf("record not found")
}

func (f *fakeStore) GetSuggestionsByRun(runID string) ([]entity.MRPSuggestion, error) {
	return append([]entity.MRPSuggestion(nil), f.suggestions[runID]...), nil
}

func (f *fakeStore) UpdateSuggestion(sg *entity.MRPSuggestion) error {
	for runID := range f.suggestions {
		for i := range f.suggestions[runID] {
			if f.suggestions[runID][i].ID == sg.ID {
				f.suggestions[runID][i] = *sg
				return nil
			}
		}
	}
	return fmt.Errorf("record not found")
}

type fakeDemandSource struct {
	lines []repository.OpenDemandLine
}

func (f *fakeDemandSource) OpenDemandLines(start, end time.Time, warehouseID string) ([]repository.OpenDemandLine, error) {
	return f.lines, nil
}

type fakeStocks struct {
	onHand   map[string]float64
	reserved map[string]float64
}

func (f *fakeStocks) Snapshot(productID, warehouseID string) (float64, float64, error) {
	return f.onHand[productID+"|"+warehouseID], f.reserved[productID+"|"+warehouseID], nil
}

type fakeOnOrder struct {
	qty map[string]float64
}

func (f *fakeOnOrder) OnOrderQty(productID, warehouseID string) (float64, error) {
	return f.qty[productID+"|"+warehouseID], nil
}

type fakeBoms struct {
	boms map[string]*entity.Bom
}

func (f *fakeBoms) ActiveBom(productID string) (*entity.Bom, error) {
	return f.boms[productID], nil
}

type fakeProducts struct {
	products map[string]*entity.Product
}

func (f *fakeProducts) GetByID(id string) (*entity.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, fmt.Errorf("record not found")
	}
	return p, nil
}

type mrpFixture struct {
	store    *fakeStore
	demands  *fakeDemandSource
	stocks   *fakeStocks
	onOrder  *fakeOnOrder
	boms     *fakeBoms
	products *fakeProducts
	clock    fixedClock
	svc      *MRPService
}

// 固定时点：2024-06-03 周一
var testNow = time.Date(2024, 6, 3, 8, 0, 0, 0, time.UTC)

func newFixture() *mrpFixture {
	f := &mrpFixture{
		store:    newFakeStore(),
		demands:  &fakeDemandSource{},
		stocks:   &fakeStocks{onHand: map[string]float64{}, reserved: map[string]float64{}},
		onOrder:  &fakeOnOrder{qty: map[string]float64{}},
		boms:     &fakeBoms{boms: map[string]*entity.Bom{}},
		products: &fakeProducts{products: map[string]*entity.Product{}},
		clock:    fixedClock{t: testNow},
	}
	f.svc = NewMRPService(f.store, f.demands, f.stocks, f.onOrder, f.boms, f.products, f.clock, nil)
	return f
}

func (f *mrpFixture) addProduct(p *entity.Product) {
	f.products.products[p.ID] = p
}

func (f *mrpFixture) addLine(woCode, productID string, qty, consumed float64, plannedEnd *time.Time) {
	p := f.products.products[productID]
	f.demands.lines = append(f.demands.lines, repository.OpenDemandLine{
		WorkOrderID:   "wo-" + woCode,
		WorkOrderCode: woCode,
		ProductID:     productID,
		ProductCode:   p.Code,
		ProductName:   p.Name,
		Unit:          p.Unit,
		RequiredQty:   qty,
		ConsumedQty:   consumed,
		PlannedEnd:    plannedEnd,
	})
}

func (f *mrpFixture) newRun(t *testing.T) *entity.MRPRun {
	t.Helper()
	run, err := f.svc.CreateRun(&CreateRunRequest{HorizonDays: 30}, "tester")
	if err != nil {
		t.Fatalf("CreateRun: %v", err)
	}
	return run
}

func day(offset int) time.Time {
	return testNow.AddDate(0, 0, offset)
}

func dayPtr(offset int) *time.Time {
	d := day(offset)
	return &d
}

func TestExecuteSharedPoolNetting(t *testing.T) {
	f := newFixture()
	f.addProduct(&entity.Product{ID: "px", Code: "X-001", Name: "零件X", Unit: "pcs",
		ProcurementType: entity.ProcurePurchase, LeadTimeDays: 2})
	f.stocks.onHand["px|"] = 15
	f.addLine("WO-B", "px", 10, 0, dayPtr(9))
	f.addLine("WO-A", "px", 10, 0, dayPtr(5))

	run := f.newRun(t)
	got, err := f.svc.Execute(run.ID)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if got.Status != entity.MRPStatusCompleted {
		t.Fatalf("status = %s, want COMPLETED", got.Status)
	}
	if got.CompletedAt == nil || !got.CompletedAt.Equal(testNow) {
		t.Errorf("CompletedAt = %v, want %v", got.CompletedAt, testNow)
	}

	demands, _ := f.store.GetDemandsByRun(run.ID)
	if len(demands) != 2 {
		t.Fatalf("demands = %d, want 2", len(demands))
	}
	byCode := map[string]entity.MRPDemand{}
	for _, d := range demands {
		byCode[d.SourceCode] = d
	}
	early := byCode["WO-A"]
	late := byCode["WO-B"]
	if early.QtyShort != 0 {
		t.Errorf("early demand short = %v, want 0", early.QtyShort)
	}
	if early.QtyAvailable != 15 {
		t.Errorf("early demand available = %v, want 15", early.QtyAvailable)
	}
	// 同一供应池按日期顺序消耗，晚到的需求只剩5可用
	if late.QtyAvailable != 5 {
		t.Errorf("late demand available = %v, want 5", late.QtyAvailable)
	}
	if late.QtyShort != 5 {
		t.Errorf("late demand short = %v, want 5", late.QtyShort)
	}

	suggestions, _ := f.store.GetSuggestionsByRun(run.ID)
	if len(suggestions) != 1 {
		t.Fatalf("suggestions = %d, want 1", len(suggestions))
	}
	sg := suggestions[0]
	if sg.Type != entity.SuggestionTypePurchase {
		t.Errorf("suggestion type = %s, want PURCHASE", sg.Type)
	}
	if sg.QtyRequired != 5 || sg.QtySuggested != 5 {
		t.Errorf("suggestion qty = %v/%v, want 5/5", sg.QtyRequired, sg.QtySuggested)
	}
	if !sg.DueDate.Equal(day(9)) {
		t.Errorf("due date = %v, want %v", sg.DueDate, day(9))
	}
	if !sg.OrderDate.Equal(day(7)) {
		t.Errorf("order date = %v, want %v", sg.OrderDate, day(7))
	}
	if sg.Priority != entity.MRPPriorityNormal {
		t.Errorf("priority = %s, want NORMAL", sg.Priority)
	}
	if sg.Status != entity.SuggestionStatusPending {
		t.Errorf("status = %s, want PENDING", sg.Status)
	}

	if got.TotalDemands != 2 || got.TotalShortages != 1 || got.TotalSuggestions != 1 {
		t.Errorf("summary = %d/%d/%d, want 2/1/1", got.TotalDemands, got.TotalShortages, got.TotalSuggestions)
	}
}

func TestExecuteAppliesLotSizing(t *testing.T) {
	f := newFixture()
	f.addProduct(&entity.Product{ID: "py", Code: "Y-001", Name: "原料Y", Unit: "kg",
		ProcurementType: entity.ProcurePurchase, LeadTimeDays: 5,
		MinOrderQty: 100, OrderMultiple: 25, PurchasePrice: 4})
	f.addLine("WO-1", "py", 130, 0, dayPtr(20))

	run := f.newRun(t)
	if _, err := f.svc.Execute(run.ID); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	suggestions, _ := f.store.GetSuggestionsByRun(run.ID)
	if len(suggestions) != 1 {
		t.Fatalf("suggestions = %d, want 1", len(suggestions))
	}
	sg := suggestions[0]
	if sg.QtyRequired != 130 {
		t.Errorf("qty required = %v, want 130", sg.QtyRequired)
	}
	if sg.QtySuggested != 150 {
		t.Errorf("qty suggested = %v, want 150", sg.QtySuggested)
	}
	if sg.EstimatedCost != 600 {
		t.Errorf("estimated cost = %v, want 600", sg.EstimatedCost)
	}
}

func TestExecuteConsolidatesShortagesAcrossWarehouses(t *testing.T) {
	f := newFixture()
	f.addProduct(&entity.Product{ID: "px", Code: "X-001", Name: "零件X", Unit: "pcs",
		ProcurementType: entity.ProcurePurchase, LeadTimeDays: 2, MinOrderQty: 100})
	f.addLine("WO-A", "px", 10, 0, dayPtr(5))
	f.addLine("WO-B", "px", 10, 0, dayPtr(9))
	f.demands.lines[0].WarehouseID = "wh-a"
	f.demands.lines[1].WarehouseID = "wh-b"

	run := f.newRun(t)
	if _, err := f.svc.Execute(run.ID); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	// 净算按仓库独立，但每个产品每次运行只产生一条建议
	demands, _ := f.store.GetDemandsByRun(run.ID)
	if len(demands) != 2 {
		t.Fatalf("demands = %d, want 2", len(demands))
	}
	for _, d := range demands {
		if d.QtyShort != 10 {
			t.Errorf("demand %s short = %v, want 10", d.WarehouseID, d.QtyShort)
		}
	}
	suggestions, _ := f.store.GetSuggestionsByRun(run.ID)
	if len(suggestions) != 1 {
		t.Fatalf("suggestions = %d, want 1", len(suggestions))
	}
	sg := suggestions[0]
	if sg.QtyRequired != 20 {
		t.Errorf("qty required = %v, want 20", sg.QtyRequired)
	}
	// 起订量只作用一次，不随仓库数翻倍
	if sg.QtySuggested != 100 {
		t.Errorf("qty suggested = %v, want 100", sg.QtySuggested)
	}
	if !sg.DueDate.Equal(day(5)) {
		t.Errorf("due date = %v, want %v", sg.DueDate, day(5))
	}
	if sg.WarehouseID != run.WarehouseID {
		t.Errorf("warehouse = %q, want run scope %q", sg.WarehouseID, run.WarehouseID)
	}
}

func TestExecuteExplodesSingleLevel(t *testing.T) {
	f := newFixture()
	f.addProduct(&entity.Product{ID: "fg", Code: "FG-001", Name: "成品", Unit: "pcs",
		ProcurementType: entity.ProcureManufacture, LeadTimeDays: 2})
	f.addProduct(&entity.Product{ID: "pc", Code: "C-001", Name: "组件C", Unit: "pcs",
		ProcurementType: entity.ProcurePurchase, LeadTimeDays: 3})
	f.boms.boms["fg"] = &entity.Bom{
		ID: "bom-fg", ProductID: "fg", Status: entity.BomStatusActive, OutputQty: 1,
		Items: []entity.BomItem{{ID: "bi-1", BomID: "bom-fg", ProductID: "pc", Quantity: 1}},
	}
	f.stocks.onHand["pc|"] = 4
	f.addLine("WO-1", "fg", 10, 0, dayPtr(10))

	run := f.newRun(t)
	if _, err := f.svc.Execute(run.ID); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	demands, _ := f.store.GetDemandsByRun(run.ID)
	if len(demands) != 2 {
		t.Fatalf("demands = %d, want 2", len(demands))
	}
	var parent, child entity.MRPDemand
	for _, d := range demands {
		if d.BomLevel == 0 {
			parent = d
		} else {
			child = d
		}
	}
	if parent.QtyShort != 10 {
		t.Fatalf("parent short = %v, want 10", parent.QtyShort)
	}
	if child.ProductID != "pc" || child.QtyRequired != 10 {
		t.Errorf("child = %s qty %v, want pc qty 10", child.ProductID, child.QtyRequired)
	}
	if child.ParentDemandID == nil || *child.ParentDemandID != parent.ID {
		t.Errorf("child parent = %v, want %s", child.ParentDemandID, parent.ID)
	}
	if child.BomLevel != 1 {
		t.Errorf("child level = %d, want 1", child.BomLevel)
	}
	// 组件需求日期 = 父需求日期 - 组件提前期
	if !child.RequiredDate.Equal(day(7)) {
		t.Errorf("child required date = %v, want %v", child.RequiredDate, day(7))
	}
	if child.QtyShort != 6 {
		t.Errorf("child short = %v, want 6", child.QtyShort)
	}

	suggestions, _ := f.store.GetSuggestionsByRun(run.ID)
	if len(suggestions) != 2 {
		t.Fatalf("suggestions = %d, want 2", len(suggestions))
	}
	byProduct := map[string]entity.MRPSuggestion{}
	for _, sg := range suggestions {
		byProduct[sg.ProductID] = sg
	}
	if byProduct["fg"].Type != entity.SuggestionTypeWorkOrder {
		t.Errorf("fg suggestion type = %s, want WORK_ORDER", byProduct["fg"].Type)
	}
	if byProduct["pc"].Type != entity.SuggestionTypePurchase {
		t.Errorf("pc suggestion type = %s, want PURCHASE", byProduct["pc"].Type)
	}
	if byProduct["pc"].QtySuggested != 6 {
		t.Errorf("pc suggested = %v, want 6", byProduct["pc"].QtySuggested)
	}
}

func TestExecuteAppliesWasteFactor(t *testing.T) {
	f := newFixture()
	f.addProduct(&entity.Product{ID: "fg", Code: "FG-001", Name: "成品", Unit: "pcs",
		ProcurementType: entity.ProcureManufacture})
	f.addProduct(&entity.Product{ID: "pc", Code: "C-001", Name: "组件C", Unit: "pcs",
		ProcurementType: entity.ProcurePurchase})
	// 每2件产出用1件组件，损耗10%
	f.boms.boms["fg"] = &entity.Bom{
		ID: "bom-fg", ProductID: "fg", Status: entity.BomStatusActive, OutputQty: 2,
		Items: []entity.BomItem{{ID: "bi-1", BomID: "bom-fg", ProductID: "pc", Quantity: 1, WastePct: 10}},
	}
	f.addLine("WO-1", "fg", 20, 0, dayPtr(10))

	run := f.newRun(t)
	if _, err := f.svc.Execute(run.ID); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	demands, _ := f.store.GetDemandsByRun(run.ID)
	for _, d := range demands {
		if d.BomLevel == 1 {
			// 20/2 * 1 * 1.1 = 11
			if d.QtyRequired < 10.999 || d.QtyRequired > 11.001 {
				t.Errorf("child qty = %v, want 11", d.QtyRequired)
			}
		}
	}
}

func TestExecuteFailsOnInvalidOutputQty(t *testing.T) {
	f := newFixture()
	f.addProduct(&entity.Product{ID: "fg", Code: "FG-001", Name: "成品", Unit: "pcs",
		ProcurementType: entity.ProcureManufacture})
	f.boms.boms["fg"] = &entity.Bom{ID: "bom-fg", ProductID: "fg", Status: entity.BomStatusActive, OutputQty: 0}
	f.addLine("WO-1", "fg", 10, 0, dayPtr(10))

	run := f.newRun(t)
	if _, err := f.svc.Execute(run.ID); err == nil {
		t.Fatal("Execute should fail on zero output qty")
	}
	stored, _ := f.store.GetRunByID(run.ID)
	if stored.Status != entity.MRPStatusDraft {
		t.Errorf("status = %s, want DRAFT", stored.Status)
	}
	if stored.LastError == "" {
		t.Error("LastError should be recorded")
	}
	demands, _ := f.store.GetDemandsByRun(run.ID)
	suggestions, _ := f.store.GetSuggestionsByRun(run.ID)
	if len(demands) != 0 || len(suggestions) != 0 {
		t.Errorf("partial results stored: %d demands, %d suggestions", len(demands), len(suggestions))
	}
}

func TestExecuteFailsOnUnknownProcurementType(t *testing.T) {
	f := newFixture()
	f.addProduct(&entity.Product{ID: "pz", Code: "Z-001", Name: "未知件", Unit: "pcs",
		ProcurementType: "DROPSHIP"})
	f.addLine("WO-1", "pz", 10, 0, dayPtr(10))

	run := f.newRun(t)
	if _, err := f.svc.Execute(run.ID); err == nil {
		t.Fatal("Execute should fail on unknown procurement type")
	}
	stored, _ := f.store.GetRunByID(run.ID)
	if stored.Status != entity.MRPStatusDraft {
		t.Errorf("status = %s, want DRAFT", stored.Status)
	}
}

func TestExecuteRevertsWhenPersistFails(t *testing.T) {
	f := newFixture()
	f.addProduct(&entity.Product{ID: "px", Code: "X-001", Name: "零件X", Unit: "pcs",
		ProcurementType: entity.ProcurePurchase})
	f.addLine("WO-1", "px", 10, 0, dayPtr(5))
	f.store.failReplace = true

	run := f.newRun(t)
	if _, err := f.svc.Execute(run.ID); err == nil {
		t.Fatal("Execute should surface persist failure")
	}
	stored, _ := f.store.GetRunByID(run.ID)
	if stored.Status != entity.MRPStatusDraft {
		t.Errorf("status = %s, want DRAFT", stored.Status)
	}
	if stored.CompletedAt != nil {
		t.Error("CompletedAt should be cleared")
	}
}

func TestExecuteRejectsNonDraftRun(t *testing.T) {
	f := newFixture()
	run := f.newRun(t)
	run.Status = entity.MRPStatusCompleted
	f.store.UpdateRun(run)

	if _, err := f.svc.Execute(run.ID); err == nil {
		t.Fatal("Execute should reject a non-draft run")
	}
}

func TestExecuteEmptyHorizon(t *testing.T) {
	f := newFixture()
	run := f.newRun(t)
	got, err := f.svc.Execute(run.ID)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if got.Status != entity.MRPStatusCompleted {
		t.Errorf("status = %s, want COMPLETED", got.Status)
	}
	if got.TotalDemands != 0 || got.TotalSuggestions != 0 {
		t.Errorf("summary = %d/%d, want 0/0", got.TotalDemands, got.TotalSuggestions)
	}
}

func TestExecuteSkipsConsumedLines(t *testing.T) {
	f := newFixture()
	f.addProduct(&entity.Product{ID: "px", Code: "X-001", Name: "零件X", Unit: "pcs",
		ProcurementType: entity.ProcurePurchase})
	f.addLine("WO-1", "px", 10, 10, dayPtr(5))
	f.addLine("WO-2", "px", 10, 4, dayPtr(6))

	run := f.newRun(t)
	if _, err := f.svc.Execute(run.ID); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	demands, _ := f.store.GetDemandsByRun(run.ID)
	if len(demands) != 1 {
		t.Fatalf("demands = %d, want 1", len(demands))
	}
	if demands[0].QtyRequired != 6 {
		t.Errorf("qty required = %v, want 6", demands[0].QtyRequired)
	}
}

func TestExecuteFallbackDateForUnscheduledOrders(t *testing.T) {
	f := newFixture()
	f.addProduct(&entity.Product{ID: "px", Code: "X-001", Name: "零件X", Unit: "pcs",
		ProcurementType: entity.ProcurePurchase})
	f.addLine("WO-1", "px", 10, 0, nil)

	run := f.newRun(t)
	if _, err := f.svc.Execute(run.ID); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	demands, _ := f.store.GetDemandsByRun(run.ID)
	if len(demands) != 1 {
		t.Fatalf("demands = %d, want 1", len(demands))
	}
	if !demands[0].RequiredDate.Equal(day(14)) {
		t.Errorf("required date = %v, want %v", demands[0].RequiredDate, day(14))
	}
}

func TestExecuteIsRepeatable(t *testing.T) {
	f := newFixture()
	f.addProduct(&entity.Product{ID: "px", Code: "X-001", Name: "零件X", Unit: "pcs",
		ProcurementType: entity.ProcurePurchase})
	f.stocks.onHand["px|"] = 3
	f.addLine("WO-1", "px", 10, 0, dayPtr(5))

	run1 := f.newRun(t)
	if _, err := f.svc.Execute(run1.ID); err != nil {
		t.Fatalf("Execute run1: %v", err)
	}
	run2 := f.newRun(t)
	if _, err := f.svc.Execute(run2.ID); err != nil {
		t.Fatalf("Execute run2: %v", err)
	}

	sg1, _ := f.store.GetSuggestionsByRun(run1.ID)
	sg2, _ := f.store.GetSuggestionsByRun(run2.ID)
	if len(sg1) != 1 || len(sg2) != 1 {
		t.Fatalf("suggestions = %d/%d, want 1/1", len(sg1), len(sg2))
	}
	if sg1[0].QtySuggested != sg2[0].QtySuggested || sg1[0].Priority != sg2[0].Priority {
		t.Errorf("reruns disagree: %v/%s vs %v/%s",
			sg1[0].QtySuggested, sg1[0].Priority, sg2[0].QtySuggested, sg2[0].Priority)
	}
}

func TestDeleteRunGuards(t *testing.T) {
	f := newFixture()
	run := f.newRun(t)
	run.Status = entity.MRPStatusApplied
	f.store.UpdateRun(run)
	if err := f.svc.DeleteRun(run.ID); err == nil {
		t.Error("applied run should not be deletable")
	}

	run2 := f.newRun(t)
	if err := f.svc.DeleteRun(run2.ID); err != nil {
		t.Errorf("draft run should be deletable: %v", err)
	}
}

func TestLotSize(t *testing.T) {
	cases := []struct {
		required, moq, multiple, want float64
	}{
		{130, 100, 25, 150},
		{50, 100, 25, 100},
		{5, 1, 0, 5},
		{99, 100, 0, 100},
		{101, 100, 25, 125},
		{100, 100, 25, 100},
	}
	for _, c := range cases {
		if got := lotSize(c.required, c.moq, c.multiple); got != c.want {
			t.Errorf("lotSize(%v, %v, %v) = %v, want %v", c.required, c.moq, c.multiple, got, c.want)
		}
	}
}

func TestPriorityFor(t *testing.T) {
	cases := []struct {
		offsetDays int
		want       string
	}{
		{-1, entity.MRPPriorityUrgent},
		{0, entity.MRPPriorityHigh},
		{2, entity.MRPPriorityHigh},
		{3, entity.MRPPriorityHigh},
		{5, entity.MRPPriorityNormal},
		{7, entity.MRPPriorityNormal},
		{8, entity.MRPPriorityLow},
		{30, entity.MRPPriorityLow},
	}
	for _, c := range cases {
		if got := priorityFor(testNow.AddDate(0, 0, c.offsetDays), testNow); got != c.want {
			t.Errorf("priorityFor(now%+dd) = %s, want %s", c.offsetDays, got, c.want)
		}
	}
}

func TestWeekBucket(t *testing.T) {
	cases := []struct {
		date time.Time
		want string
	}{
		{time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC), "2024-W23"},
		{time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), "2024-W01"},
		{time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), "2022-W52"},
	}
	for _, c := range cases {
		if got := weekBucket(c.date); got != c.want {
			t.Errorf("weekBucket(%v) = %s, want %s", c.date.Format("2006-01-02"), got, c.want)
		}
	}
}
