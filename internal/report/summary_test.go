package report

import (
	"testing"

	"github.com/MaggieNush/milk-bar/internal/store"
)

func TestSummarizeTotals(t *testing.T) {
	snap := &store.Snapshot{
		Clients: []store.ContactRecord{{ID: 1}, {ID: 2}},
		Deliveries: []store.DeliveryRecord{
			{ID: 1, TotalCost: 2250},
			{ID: 2, TotalCost: 1200},
		},
		Sales: []store.SaleRecord{
			{ID: 1, TotalAmount: 1500},
			{ID: 2, TotalAmount: 900},
		},
	}
	s := Summarize(snap)
	if s.TotalSales != 2400 {
		t.Fatalf("expected total sales 2400, got %g", s.TotalSales)
	}
	if s.TotalExpenses != 3450 {
		t.Fatalf("expected total expenses 3450, got %g", s.TotalExpenses)
	}
	if s.Profit != -1050 {
		t.Fatalf("expected profit -1050, got %g", s.Profit)
	}
	if s.ClientCount != 2 {
		t.Fatalf("expected 2 clients, got %d", s.ClientCount)
	}
}

func TestSummarizeLimitsRecentActivity(t *testing.T) {
	snap := &store.Snapshot{}
	for i := 0; i < 8; i++ {
		snap.Sales = append(snap.Sales, store.SaleRecord{ID: uint(8 - i)})
		snap.Deliveries = append(snap.Deliveries, store.DeliveryRecord{ID: uint(8 - i)})
	}
	s := Summarize(snap)
	if len(s.RecentSales) != recentLimit || len(s.RecentDeliveries) != recentLimit {
		t.Fatalf("expected %d recent entries, got %d sales and %d deliveries",
			recentLimit, len(s.RecentSales), len(s.RecentDeliveries))
	}
	// Snapshot order is newest first, so the prefix keeps the newest ids.
	if s.RecentSales[0].ID != 8 || s.RecentSales[4].ID != 4 {
		t.Fatalf("unexpected recent sales window: %+v", s.RecentSales)
	}
}

func TestSummarizeEmptySnapshot(t *testing.T) {
	s := Summarize(&store.Snapshot{})
	if s.TotalSales != 0 || s.TotalExpenses != 0 || s.Profit != 0 || s.ClientCount != 0 {
		t.Fatalf("expected zero summary, got %+v", s)
	}
}
