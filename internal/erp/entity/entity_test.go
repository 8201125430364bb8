package entity

import "testing"

func TestBomItemEffectiveQty(t *testing.T) {
	item := BomItem{Quantity: 10, WastePct: 10}
	if got := item.EffectiveQty(); got != 11 {
		t.Errorf("EffectiveQty = %v, want 11", got)
	}
	item = BomItem{Quantity: 4}
	if got := item.EffectiveQty(); got != 4 {
		t.Errorf("EffectiveQty without waste = %v, want 4", got)
	}
}

func TestSuggestionEffectiveQty(t *testing.T) {
	sg := MRPSuggestion{QtySuggested: 50}
	if got := sg.EffectiveQty(); got != 50 {
		t.Errorf("EffectiveQty = %v, want 50", got)
	}
	adjusted := 40.0
	sg.AdjustedQty = &adjusted
	if got := sg.EffectiveQty(); got != 40 {
		t.Errorf("EffectiveQty adjusted = %v, want 40", got)
	}
	zero := 0.0
	sg.AdjustedQty = &zero
	if got := sg.EffectiveQty(); got != 50 {
		t.Errorf("EffectiveQty zero adjustment = %v, want 50", got)
	}
}

func TestProductDefaults(t *testing.T) {
	p := Product{}
	if got := p.EffectiveMinOrderQty(); got != 1 {
		t.Errorf("EffectiveMinOrderQty = %v, want 1", got)
	}
	p.MinOrderQty = 100
	if got := p.EffectiveMinOrderQty(); got != 100 {
		t.Errorf("EffectiveMinOrderQty = %v, want 100", got)
	}
	p.LeadTimeDays = -3
	if got := p.EffectiveLeadTimeDays(); got != 0 {
		t.Errorf("EffectiveLeadTimeDays = %v, want 0", got)
	}
}

func TestWorkOrderMaterialRemainingQty(t *testing.T) {
	m := WorkOrderMaterial{RequiredQty: 10, ConsumedQty: 4}
	if got := m.RemainingQty(); got != 6 {
		t.Errorf("RemainingQty = %v, want 6", got)
	}
	m.ConsumedQty = 12
	if got := m.RemainingQty(); got != 0 {
		t.Errorf("RemainingQty over-consumed = %v, want 0", got)
	}
}

func TestSupplierDetermineRating(t *testing.T) {
	cases := []struct {
		quality, delivery, price, service float64
		want                              string
	}{
		{95, 95, 95, 95, SupplierRatingA},
		{80, 80, 80, 80, SupplierRatingB},
		{65, 65, 65, 65, SupplierRatingC},
		{40, 40, 40, 40, SupplierRatingD},
	}
	for _, c := range cases {
		s := Supplier{QualityScore: c.quality, DeliveryScore: c.delivery, PriceScore: c.price, ServiceScore: c.service}
		s.DetermineRating()
		if s.Rating != c.want {
			t.Errorf("rating(%v) = %s, want %s", c.quality, s.Rating, c.want)
		}
	}

	// 权重 0.4/0.3/0.2/0.1
	s := Supplier{QualityScore: 100, DeliveryScore: 0, PriceScore: 0, ServiceScore: 0}
	s.CalculateOverallScore()
	if s.OverallScore != 40 {
		t.Errorf("overall = %v, want 40", s.OverallScore)
	}
}
