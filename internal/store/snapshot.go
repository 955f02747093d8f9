package store

import (
	"time"

	"gorm.io/gorm"
)

// TimeFormat is how snapshot timestamps are rendered for reporting and export.
const TimeFormat = "2006-01-02 15:04:05"

// Snapshot is a point-in-time read of the whole ledger, with timestamps
// rendered as fixed-format strings. It feeds the report and CSV export
// collaborators.
type Snapshot struct {
	Products   []ProductRecord  `json:"products"`
	Clients    []ContactRecord  `json:"clients"`
	Suppliers  []ContactRecord  `json:"suppliers"`
	Deliveries []DeliveryRecord `json:"deliveries"`
	Sales      []SaleRecord     `json:"sales"`
}

type ProductRecord struct {
	ID        uint    `json:"id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Unit      string  `json:"unit"`
	Stock     float64 `json:"stock"`
	DateAdded string  `json:"date_added"`
}

// ContactRecord covers both clients and suppliers; they share a shape.
type ContactRecord struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	Phone     string `json:"phone"`
	DateAdded string `json:"date_added"`
}

type DeliveryRecord struct {
	ID           uint    `json:"id"`
	SupplierID   uint    `json:"supplier_id"`
	ProductID    uint    `json:"product_id"`
	Quantity     float64 `json:"quantity"`
	PricePerUnit float64 `json:"price_per_unit"`
	TotalCost    float64 `json:"total_cost"`
	Date         string  `json:"date"`
}

type SaleItemRecord struct {
	ID           uint    `json:"id"`
	ProductID    uint    `json:"product_id"`
	Quantity     float64 `json:"quantity"`
	PricePerUnit float64 `json:"price_per_unit"`
	Total        float64 `json:"total"`
}

type SaleRecord struct {
	ID          uint             `json:"id"`
	ClientID    uint             `json:"client_id"`
	Items       []SaleItemRecord `json:"items"`
	TotalAmount float64          `json:"total_amount"`
	Date        string           `json:"date"`
}

// Snapshot materializes all five collections inside a single read
// transaction, so the result is never torn between concurrent writers.
func (l *Ledger) Snapshot() (*Snapshot, error) {
	snap := &Snapshot{}
	err := l.db.Transaction(func(tx *gorm.DB) error {
		products, err := listProducts(tx)
		if err != nil {
			return err
		}
		for _, p := range products {
			snap.Products = append(snap.Products, ProductRecord{
				ID:        p.ID,
				Name:      p.Name,
				Price:     p.Price,
				Unit:      p.Unit,
				Stock:     p.Stock,
				DateAdded: formatTime(p.DateAdded),
			})
		}
		clients, err := listClients(tx)
		if err != nil {
			return err
		}
		for _, c := range clients {
			snap.Clients = append(snap.Clients, ContactRecord{
				ID:        c.ID,
				Name:      c.Name,
				Phone:     c.Phone,
				DateAdded: formatTime(c.DateAdded),
			})
		}
		suppliers, err := listSuppliers(tx)
		if err != nil {
			return err
		}
		for _, s := range suppliers {
			snap.Suppliers = append(snap.Suppliers, ContactRecord{
				ID:        s.ID,
				Name:      s.Name,
				Phone:     s.Phone,
				DateAdded: formatTime(s.DateAdded),
			})
		}
		deliveries, err := listDeliveries(tx)
		if err != nil {
			return err
		}
		for _, d := range deliveries {
			snap.Deliveries = append(snap.Deliveries, DeliveryRecord{
				ID:           d.ID,
				SupplierID:   d.SupplierID,
				ProductID:    d.ProductID,
				Quantity:     d.Quantity,
				PricePerUnit: d.PricePerUnit,
				TotalCost:    d.TotalCost,
				Date:         formatTime(d.Date),
			})
		}
		sales, err := listSales(tx)
		if err != nil {
			return err
		}
		for _, s := range sales {
			rec := SaleRecord{
				ID:          s.ID,
				ClientID:    s.ClientID,
				TotalAmount: s.TotalAmount,
				Date:        formatTime(s.Date),
			}
			for _, it := range s.Items {
				rec.Items = append(rec.Items, SaleItemRecord{
					ID:           it.ID,
					ProductID:    it.ProductID,
					Quantity:     it.Quantity,
					PricePerUnit: it.PricePerUnit,
					Total:        it.Total,
				})
			}
			snap.Sales = append(snap.Sales, rec)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return snap, nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(TimeFormat)
}
