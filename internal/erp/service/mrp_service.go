package service

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/xuri/excelize/v2"

	"github.com/bumimakmur/bumi-erp/internal/erp/entity"
	"github.com/bumimakmur/bumi-erp/internal/erp/repository"
)

// DemandSource 需求来源，返回地平线内未关闭的物料需求行
type DemandSource interface {
	OpenDemandLines(start, end time.Time, warehouseID string) ([]repository.OpenDemandLine, error)
}

// StockReader 库存快照
type StockReader interface {
	Snapshot(productID, warehouseID string) (onHand, reserved float64, err error)
}

// OnOrderReader 在途供应（已下未收的采购/委外量）
type OnOrderReader interface {
	OnOrderQty(productID, warehouseID string) (float64, error)
}

// BomSource 物料清单来源
type BomSource interface {
	ActiveBom(productID string) (*entity.Bom, error)
}

// ProductSource 产品主数据来源
type ProductSource interface {
	GetByID(id string) (*entity.Product, error)
}

// MRPStore 运行及其结果的持久化
type MRPStore interface {
	CreateRun(run *entity.MRPRun) error
	GetRunByID(id string) (*entity.MRPRun, error)
	UpdateRun(run *entity.MRPRun) error
	DeleteRun(run *entity.MRPRun) error
	ListRuns(page, pageSize int) ([]entity.MRPRun, int64, error)
	GetLatestCompletedRun() (*entity.MRPRun, error)
	ReplaceRunResults(run *entity.MRPRun, demands []entity.MRPDemand, suggestions []entity.MRPSuggestion) error
	GetDemandsByRun(runID string) ([]entity.MRPDemand, error)
	GetSuggestionByID(id string) (*entity.MRPSuggestion, error)
	GetSuggestionsByRun(runID string) ([]entity.MRPSuggestion, error)
	UpdateSuggestion(sg *entity.MRPSuggestion) error
}

// MRPService 物料需求计划：收集需求->净算->BOM展开->生成建议
type MRPService struct {
	store    MRPStore
	demands  DemandSource
	stocks   StockReader
	onOrder  OnOrderReader
	boms     BomSource
	products ProductSource
	clock    Clock
	rdb      *redis.Client
}

func NewMRPService(store MRPStore, demands DemandSource, stocks StockReader, onOrder OnOrderReader,
	boms BomSource, products ProductSource, clock Clock, rdb *redis.Client) *MRPService {
	if clock == nil {
		clock = SystemClock()
	}
	return &MRPService{
		store:    store,
		demands:  demands,
		stocks:   stocks,
		onOrder:  onOrder,
		boms:     boms,
		products: products,
		clock:    clock,
		rdb:      rdb,
	}
}

// CreateRunRequest 创建MRP运行
type CreateRunRequest struct {
	HorizonStart string `json:"horizon_start"` // YYYY-MM-DD，空=今天
	HorizonDays  int    `json:"horizon_days"`  // 空=30天
	HorizonEnd   string `json:"horizon_end"`   // 指定结束日期时优先于天数
	WarehouseID  string `json:"warehouse_id"`  // 空=全仓
	Remark       string `json:"remark"`
}

// CreateRun 创建一条DRAFT状态的运行，计算由Execute触发
func (s *MRPService) CreateRun(req *CreateRunRequest, userID string) (*entity.MRPRun, error) {
	now := s.clock.Now()

	start := now
	if req.HorizonStart != "" {
		t, err := time.Parse("2006-01-02", req.HorizonStart)
		if err != nil {
			return nil, fmt.Errorf("无效的开始日期: %w", err)
		}
		start = t
	}

	days := req.HorizonDays
	if days <= 0 {
		days = 30
	}
	end := start.AddDate(0, 0, days)
	if req.HorizonEnd != "" {
		t, err := time.Parse("2006-01-02", req.HorizonEnd)
		if err != nil {
			return nil, fmt.Errorf("无效的结束日期: %w", err)
		}
		end = t
	}
	if !end.After(start) {
		return nil, fmt.Errorf("结束日期必须晚于开始日期")
	}

	run := &entity.MRPRun{
		ID:           uuid.New().String(),
		RunCode:      fmt.Sprintf("MRP-%s%04d", now.Format("20060102"), now.UnixNano()%10000),
		Status:       entity.MRPStatusDraft,
		HorizonStart: start,
		HorizonEnd:   end,
		WarehouseID:  req.WarehouseID,
		Remark:       req.Remark,
		CreatedBy:    userID,
	}

	if err := s.store.CreateRun(run); err != nil {
		return nil, fmt.Errorf("创建MRP运行失败: %w", err)
	}
	return run, nil
}

// Execute 执行MRP计算。计算在内存中完成，结果一次性落库；
// 任何阶段失败运行回到DRAFT，不留部分结果。
func (s *MRPService) Execute(runID string) (*entity.MRPRun, error) {
	run, err := s.store.GetRunByID(runID)
	if err != nil {
		return nil, fmt.Errorf("MRP运行不存在: %w", err)
	}
	if run.Status != entity.MRPStatusDraft {
		return nil, fmt.Errorf("MRP运行状态为%s，只有草稿可以执行", run.Status)
	}

	run.Status = entity.MRPStatusProcessing
	run.LastError = ""
	if err := s.store.UpdateRun(run); err != nil {
		return nil, fmt.Errorf("更新MRP运行状态失败: %w", err)
	}

	demands, suggestions, err := s.calculate(run)
	if err != nil {
		s.revertToDraft(run, err)
		return nil, fmt.Errorf("MRP计算失败: %w", err)
	}

	now := s.clock.Now()
	run.Status = entity.MRPStatusCompleted
	run.CompletedAt = &now
	summarize(run, demands, suggestions)

	if err := s.store.ReplaceRunResults(run, demands, suggestions); err != nil {
		run.CompletedAt = nil
		s.revertToDraft(run, err)
		return nil, fmt.Errorf("保存MRP结果失败: %w", err)
	}

	s.invalidateLatestRunCache()
	return run, nil
}

func (s *MRPService) revertToDraft(run *entity.MRPRun, cause error) {
	run.Status = entity.MRPStatusDraft
	run.LastError = cause.Error()
	_ = s.store.UpdateRun(run)
}

func (s *MRPService) calculate(run *entity.MRPRun) ([]entity.MRPDemand, []entity.MRPSuggestion, error) {
	demands, err := s.collectDemands(run)
	if err != nil {
		return nil, nil, err
	}

	pools := newSupplyPools(s.stocks, s.onOrder)
	if err := s.netDemands(demands, pools); err != nil {
		return nil, nil, err
	}

	children, err := s.explodeShortages(run, demands, pools)
	if err != nil {
		return nil, nil, err
	}
	demands = append(demands, children...)

	suggestions, err := s.generateSuggestions(run, demands)
	if err != nil {
		return nil, nil, err
	}
	return demands, suggestions, nil
}

// collectDemands 从未关闭工单的物料行收集顶层需求。
// 需求量=需求数-已耗数；无计划完工日期的工单按两周后处理。
func (s *MRPService) collectDemands(run *entity.MRPRun) ([]entity.MRPDemand, error) {
	lines, err := s.demands.OpenDemandLines(run.HorizonStart, run.HorizonEnd, run.WarehouseID)
	if err != nil {
		return nil, fmt.Errorf("收集需求失败: %w", err)
	}

	fallbackDate := s.clock.Now().AddDate(0, 0, 14)
	var demands []entity.MRPDemand
	for _, line := range lines {
		remaining := line.RequiredQty - line.ConsumedQty
		if remaining <= 0 {
			continue
		}
		requiredDate := fallbackDate
		if line.PlannedEnd != nil {
			requiredDate = *line.PlannedEnd
		}
		demands = append(demands, entity.MRPDemand{
			ID:           uuid.New().String(),
			RunID:        run.ID,
			ProductID:    line.ProductID,
			ProductCode:  line.ProductCode,
			ProductName:  line.ProductName,
			WarehouseID:  line.WarehouseID,
			SourceType:   entity.DemandSourceWorkOrder,
			SourceID:     line.WorkOrderID,
			SourceCode:   line.WorkOrderCode,
			BomLevel:     0,
			RequiredDate: requiredDate,
			WeekBucket:   weekBucket(requiredDate),
			QtyRequired:  remaining,
			Unit:         line.Unit,
		})
	}
	return demands, nil
}

// netDemands 顶层净算。同一(产品,仓库)的需求按需求日期先后共享一个供应池，
// 池按需求量递减，排在后面的需求只能用前面剩下的。
func (s *MRPService) netDemands(demands []entity.MRPDemand, pools *supplyPools) error {
	order := make([]*entity.MRPDemand, 0, len(demands))
	for i := range demands {
		order = append(order, &demands[i])
	}
	sortDemands(order)
	for _, d := range order {
		if err := pools.allocate(d); err != nil {
			return err
		}
	}
	return nil
}

// explodeShortages 单层BOM展开：对有缺口的制造件，把缺口折算成组件需求并立即净算。
// 展开只走一层，组件自身的缺口由建议生成兜底。
func (s *MRPService) explodeShortages(run *entity.MRPRun, demands []entity.MRPDemand, pools *supplyPools) ([]entity.MRPDemand, error) {
	productCache := map[string]*entity.Product{}
	var children []entity.MRPDemand

	for i := range demands {
		parent := &demands[i]
		if parent.QtyShort <= 0 {
			continue
		}
		product, err := s.productByID(parent.ProductID, productCache)
		if err != nil {
			return nil, err
		}
		if product.ProcurementType != entity.ProcureManufacture {
			continue
		}

		bom, err := s.boms.ActiveBom(parent.ProductID)
		if err != nil {
			return nil, fmt.Errorf("查询BOM失败: %w", err)
		}
		if bom == nil {
			continue
		}
		if bom.OutputQty <= 0 {
			return nil, fmt.Errorf("产品%s的BOM产出数量无效: %v", parent.ProductCode, bom.OutputQty)
		}

		multiplier := parent.QtyShort / bom.OutputQty
		for _, item := range bom.Items {
			comp, err := s.productByID(item.ProductID, productCache)
			if err != nil {
				return nil, err
			}
			requiredDate := parent.RequiredDate.AddDate(0, 0, -comp.EffectiveLeadTimeDays())
			child := entity.MRPDemand{
				ID:             uuid.New().String(),
				RunID:          run.ID,
				ProductID:      comp.ID,
				ProductCode:    comp.Code,
				ProductName:    comp.Name,
				WarehouseID:    parent.WarehouseID,
				SourceType:     parent.SourceType,
				SourceID:       parent.SourceID,
				SourceCode:     parent.SourceCode,
				ParentDemandID: &parent.ID,
				BomLevel:       parent.BomLevel + 1,
				RequiredDate:   requiredDate,
				WeekBucket:     weekBucket(requiredDate),
				QtyRequired:    item.EffectiveQty() * multiplier,
				Unit:           comp.Unit,
			}
			if err := pools.allocate(&child); err != nil {
				return nil, err
			}
			children = append(children, child)
		}
	}
	return children, nil
}

// generateSuggestions 把缺口按产品汇总成补货建议。
// 获取方式决定建议类型；未知获取方式视为数据错误，整次计算失败。
func (s *MRPService) generateSuggestions(run *entity.MRPRun, demands []entity.MRPDemand) ([]entity.MRPSuggestion, error) {
	// 同一产品跨仓库、跨层级只汇总成一条建议，
	// 否则起订量和订货倍数会被重复套用造成过量采购。
	type bucket struct {
		productID   string
		totalShort  float64
		earliestDue time.Time
	}
	var keys []string
	buckets := map[string]*bucket{}
	for i := range demands {
		d := &demands[i]
		if d.QtyShort <= 0 {
			continue
		}
		key := d.ProductID
		b, ok := buckets[key]
		if !ok {
			b = &bucket{productID: d.ProductID, earliestDue: d.RequiredDate}
			buckets[key] = b
			keys = append(keys, key)
		}
		b.totalShort += d.QtyShort
		if d.RequiredDate.Before(b.earliestDue) {
			b.earliestDue = d.RequiredDate
		}
	}

	productCache := map[string]*entity.Product{}
	now := s.clock.Now()
	var suggestions []entity.MRPSuggestion
	for _, key := range keys {
		b := buckets[key]
		product, err := s.productByID(b.productID, productCache)
		if err != nil {
			return nil, err
		}

		var sgType string
		var supplierID *string
		switch product.ProcurementType {
		case entity.ProcurePurchase:
			sgType = entity.SuggestionTypePurchase
			supplierID = product.SupplierID
		case entity.ProcureManufacture:
			sgType = entity.SuggestionTypeWorkOrder
		case entity.ProcureSubcontract:
			sgType = entity.SuggestionTypeSubcontract
			supplierID = product.SubcontractorID
		default:
			return nil, fmt.Errorf("产品%s的获取方式无效: %s", product.Code, product.ProcurementType)
		}

		qty := lotSize(b.totalShort, product.EffectiveMinOrderQty(), product.OrderMultiple)
		orderDate := b.earliestDue.AddDate(0, 0, -product.EffectiveLeadTimeDays())

		suggestions = append(suggestions, entity.MRPSuggestion{
			ID:            uuid.New().String(),
			RunID:         run.ID,
			Type:          sgType,
			Status:        entity.SuggestionStatusPending,
			Priority:      priorityFor(orderDate, now),
			ProductID:     product.ID,
			ProductCode:   product.Code,
			ProductName:   product.Name,
			WarehouseID:   run.WarehouseID,
			SupplierID:    supplierID,
			OrderDate:     orderDate,
			DueDate:       b.earliestDue,
			QtyRequired:   b.totalShort,
			QtySuggested:  qty,
			Unit:          product.Unit,
			UnitCost:      product.PurchasePrice,
			EstimatedCost: qty * product.PurchasePrice,
		})
	}
	return suggestions, nil
}

func (s *MRPService) productByID(id string, cache map[string]*entity.Product) (*entity.Product, error) {
	if p, ok := cache[id]; ok {
		return p, nil
	}
	p, err := s.products.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("产品%s不存在: %w", id, err)
	}
	cache[id] = p
	return p, nil
}

// GetRun 查询运行（含需求和建议）
func (s *MRPService) GetRun(id string) (*entity.MRPRun, error) {
	return s.store.GetRunByID(id)
}

// ListRuns 分页查询运行历史
func (s *MRPService) ListRuns(page, pageSize int) ([]entity.MRPRun, int64, error) {
	return s.store.ListRuns(page, pageSize)
}

// DeleteRun 删除运行及其结果，已应用的运行不可删除
func (s *MRPService) DeleteRun(id string) error {
	run, err := s.store.GetRunByID(id)
	if err != nil {
		return fmt.Errorf("MRP运行不存在: %w", err)
	}
	if run.Status == entity.MRPStatusApplied {
		return fmt.Errorf("已应用的MRP运行不能删除")
	}
	if run.Status == entity.MRPStatusProcessing {
		return fmt.Errorf("计算中的MRP运行不能删除")
	}
	if err := s.store.DeleteRun(run); err != nil {
		return fmt.Errorf("删除MRP运行失败: %w", err)
	}
	s.invalidateLatestRunCache()
	return nil
}

// GetDemands 查询运行的需求明细
func (s *MRPService) GetDemands(runID string) ([]entity.MRPDemand, error) {
	return s.store.GetDemandsByRun(runID)
}

// GetSuggestions 查询运行的补货建议
func (s *MRPService) GetSuggestions(runID string) ([]entity.MRPSuggestion, error) {
	return s.store.GetSuggestionsByRun(runID)
}

const latestRunCacheKey = "erp:mrp:latest_run"

// GetLatestRun 最近一次完成的运行，走Redis缓存
func (s *MRPService) GetLatestRun() (*entity.MRPRun, error) {
	ctx := context.Background()
	if s.rdb != nil {
		if data, err := s.rdb.Get(ctx, latestRunCacheKey).Bytes(); err == nil {
			var run entity.MRPRun
			if json.Unmarshal(data, &run) == nil {
				return &run, nil
			}
		}
	}

	run, err := s.store.GetLatestCompletedRun()
	if err != nil {
		return nil, err
	}

	if s.rdb != nil && run != nil {
		if data, err := json.Marshal(run); err == nil {
			s.rdb.Set(ctx, latestRunCacheKey, data, 10*time.Minute)
		}
	}
	return run, nil
}

func (s *MRPService) invalidateLatestRunCache() {
	if s.rdb == nil {
		return
	}
	s.rdb.Del(context.Background(), latestRunCacheKey)
}

// ExportSuggestions 导出运行的补货建议到Excel
func (s *MRPService) ExportSuggestions(runID string) (*excelize.File, string, error) {
	run, err := s.store.GetRunByID(runID)
	if err != nil {
		return nil, "", fmt.Errorf("MRP运行不存在: %w", err)
	}
	suggestions, err := s.store.GetSuggestionsByRun(runID)
	if err != nil {
		return nil, "", fmt.Errorf("查询建议失败: %w", err)
	}

	f := excelize.NewFile()
	sheet := "补货建议"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, "", fmt.Errorf("创建工作表失败: %w", err)
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headers := []string{"产品编码", "产品名称", "类型", "优先级", "状态", "建议数量", "需求数量", "单位", "下单日期", "到期日期", "预估金额"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"DDEBF7"}, Pattern: 1},
	})
	f.SetCellStyle(sheet, "A1", "K1", headerStyle)

	for i, sg := range suggestions {
		row := i + 2
		values := []interface{}{
			sg.ProductCode, sg.ProductName, sg.Type, sg.Priority, sg.Status,
			sg.EffectiveQty(), sg.QtyRequired, sg.Unit,
			sg.OrderDate.Format("2006-01-02"), sg.DueDate.Format("2006-01-02"),
			sg.EstimatedCost,
		}
		for j, v := range values {
			cell, _ := excelize.CoordinatesToCellName(j+1, row)
			f.SetCellValue(sheet, cell, v)
		}
	}

	filename := fmt.Sprintf("mrp-suggestions-%s.xlsx", run.RunCode)
	return f, filename, nil
}

// ---- 计算辅助 ----

type supplyKey struct {
	productID   string
	warehouseID string
}

type supplySnapshot struct {
	onHand   float64
	onOrder  float64
	reserved float64
}

// supplyPools 每个(产品,仓库)一个随分配递减的供应池。
// 快照只取一次，同一池内的需求按分配顺序依次消耗。
type supplyPools struct {
	stocks    StockReader
	onOrder   OnOrderReader
	snapshots map[supplyKey]supplySnapshot
	remaining map[supplyKey]float64
}

func newSupplyPools(stocks StockReader, onOrder OnOrderReader) *supplyPools {
	return &supplyPools{
		stocks:    stocks,
		onOrder:   onOrder,
		snapshots: map[supplyKey]supplySnapshot{},
		remaining: map[supplyKey]float64{},
	}
}

// allocate 用池中剩余供应冲减需求，填充需求行的供应与缺口字段。
// 池按整个需求量递减而不是按缺口递减。
func (p *supplyPools) allocate(d *entity.MRPDemand) error {
	key := supplyKey{productID: d.ProductID, warehouseID: d.WarehouseID}
	snap, ok := p.snapshots[key]
	if !ok {
		onHand, reserved, err := p.stocks.Snapshot(d.ProductID, d.WarehouseID)
		if err != nil {
			return fmt.Errorf("查询库存快照失败: %w", err)
		}
		onOrderQty, err := p.onOrder.OnOrderQty(d.ProductID, d.WarehouseID)
		if err != nil {
			return fmt.Errorf("查询在途数量失败: %w", err)
		}
		snap = supplySnapshot{onHand: onHand, onOrder: onOrderQty, reserved: reserved}
		p.snapshots[key] = snap
		p.remaining[key] = onHand + onOrderQty - reserved
	}

	pool := p.remaining[key]
	d.QtyOnHand = snap.onHand
	d.QtyOnOrder = snap.onOrder
	d.QtyReserved = snap.reserved
	d.QtyAvailable = math.Max(0, pool)
	d.QtyShort = math.Max(0, d.QtyRequired-math.Max(0, pool))
	p.remaining[key] = pool - d.QtyRequired
	return nil
}

// sortDemands 净算顺序：同池内按需求日期先到先得，其余字段只为保证确定性
func sortDemands(demands []*entity.MRPDemand) {
	sort.SliceStable(demands, func(i, j int) bool {
		return demandLess(demands[i], demands[j])
	})
}

func demandLess(a, b *entity.MRPDemand) bool {
	if a.ProductID != b.ProductID {
		return a.ProductID < b.ProductID
	}
	if a.WarehouseID != b.WarehouseID {
		return a.WarehouseID < b.WarehouseID
	}
	if !a.RequiredDate.Equal(b.RequiredDate) {
		return a.RequiredDate.Before(b.RequiredDate)
	}
	return a.SourceCode < b.SourceCode
}

// lotSize 批量修正：先补到最小起订量，再向上取整到订货倍数
func lotSize(required, minOrderQty, orderMultiple float64) float64 {
	qty := math.Max(required, minOrderQty)
	if orderMultiple > 1 {
		qty = math.Ceil(qty/orderMultiple) * orderMultiple
	}
	return qty
}

// priorityFor 按建议下单日期距今的天数分级
func priorityFor(orderDate, now time.Time) string {
	days := int(orderDate.Sub(now).Hours() / 24)
	switch {
	case orderDate.Before(now):
		return entity.MRPPriorityUrgent
	case days <= 3:
		return entity.MRPPriorityHigh
	case days <= 7:
		return entity.MRPPriorityNormal
	default:
		return entity.MRPPriorityLow
	}
}

// weekBucket ISO周格式，如2024-W23
func weekBucket(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}

// summarize 汇总字段从明细重算，保持一致
func summarize(run *entity.MRPRun, demands []entity.MRPDemand, suggestions []entity.MRPSuggestion) {
	run.TotalDemands = len(demands)
	shortages := 0
	for i := range demands {
		if demands[i].QtyShort > 0 {
			shortages++
		}
	}
	run.TotalShortages = shortages
	run.TotalSuggestions = len(suggestions)
}
