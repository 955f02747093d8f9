package report

import (
	"github.com/MaggieNush/milk-bar/internal/store"
)

// recentLimit caps the recent activity slices shown on the dashboard.
const recentLimit = 5

// Summary is the financial overview derived from a ledger snapshot: revenue
// from all sales, expenses from all deliveries, and their difference.
type Summary struct {
	TotalSales       float64                `json:"total_sales"`
	TotalExpenses    float64                `json:"total_expenses"`
	Profit           float64                `json:"profit"`
	ClientCount      int                    `json:"client_count"`
	RecentSales      []store.SaleRecord     `json:"recent_sales"`
	RecentDeliveries []store.DeliveryRecord `json:"recent_deliveries"`
}

// Summarize computes the overview from a snapshot. Snapshot listings are
// already most-recent-first, so the recent slices are simple prefixes.
func Summarize(snap *store.Snapshot) Summary {
	s := Summary{ClientCount: len(snap.Clients)}
	for _, sale := range snap.Sales {
		s.TotalSales += sale.TotalAmount
	}
	for _, d := range snap.Deliveries {
		s.TotalExpenses += d.TotalCost
	}
	s.Profit = s.TotalSales - s.TotalExpenses

	s.RecentSales = snap.Sales
	if len(s.RecentSales) > recentLimit {
		s.RecentSales = s.RecentSales[:recentLimit]
	}
	s.RecentDeliveries = snap.Deliveries
	if len(s.RecentDeliveries) > recentLimit {
		s.RecentDeliveries = s.RecentDeliveries[:recentLimit]
	}
	return s
}
