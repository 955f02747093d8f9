package importer

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/MaggieNush/milk-bar/internal/model"

	"gorm.io/gorm"
)

// The legacy file-backed variant kept the whole ledger in one JSON document
// with minute-resolution timestamps. This package turns such a file into
// relational rows, once, preserving ids and recorded stock levels. The file
// is an import source only, never a runtime store.

var legacyTimeLayouts = []string{"2006-01-02 15:04", "2006-01-02 15:04:05"}

type legacyTime struct {
	time.Time
}

func (t *legacyTime) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if strings.TrimSpace(s) == "" {
		return nil
	}
	for _, layout := range legacyTimeLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("unrecognized legacy timestamp %q", s)
}

type legacyProduct struct {
	ID        uint       `json:"id"`
	Name      string     `json:"name"`
	Price     float64    `json:"price"`
	Unit      string     `json:"unit"`
	Stock     float64    `json:"stock"`
	DateAdded legacyTime `json:"date_added"`
}

type legacyContact struct {
	ID        uint       `json:"id"`
	Name      string     `json:"name"`
	Phone     string     `json:"phone"`
	DateAdded legacyTime `json:"date_added"`
}

type legacyDelivery struct {
	ID           uint       `json:"id"`
	SupplierID   uint       `json:"supplier_id"`
	ProductID    uint       `json:"product_id"`
	Quantity     float64    `json:"quantity"`
	PricePerUnit float64    `json:"price_per_unit"`
	TotalCost    float64    `json:"total_cost"`
	Date         legacyTime `json:"date"`
}

type legacySaleItem struct {
	ProductID    uint    `json:"product_id"`
	Quantity     float64 `json:"quantity"`
	PricePerUnit float64 `json:"price_per_unit"`
	Total        float64 `json:"total"`
}

type legacySale struct {
	ID          uint             `json:"id"`
	ClientID    uint             `json:"client_id"`
	Items       []legacySaleItem `json:"items"`
	TotalAmount float64          `json:"total_amount"`
	Date        legacyTime       `json:"date"`
}

type legacyFile struct {
	Products   []legacyProduct  `json:"products"`
	Clients    []legacyContact  `json:"clients"`
	Suppliers  []legacyContact  `json:"suppliers"`
	Deliveries []legacyDelivery `json:"deliveries"`
	Sales      []legacySale     `json:"sales"`
}

// Stats reports how many rows were imported per table. SkippedSales counts
// legacy single-line sales without an items array; a sale cannot exist
// without items in the relational schema.
type Stats struct {
	Products     int
	Clients      int
	Suppliers    int
	Deliveries   int
	Sales        int
	SaleItems    int
	SkippedSales int
}

// ImportFile loads the legacy JSON document at path into the database.
// It refuses to run against a database that already has products, so a
// repeated invocation cannot duplicate the ledger.
func ImportFile(db *gorm.DB, path string) (*Stats, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read legacy data file: %w", err)
	}
	var file legacyFile
	if err := json.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse legacy data file: %w", err)
	}

	var existing int64
	if err := db.Model(&model.Product{}).Count(&existing).Error; err != nil {
		return nil, err
	}
	if existing > 0 {
		return nil, fmt.Errorf("database already has %d products; legacy import only runs against an empty store", existing)
	}

	stats := &Stats{}
	err = db.Transaction(func(tx *gorm.DB) error {
		for _, p := range file.Products {
			row := model.Product{ID: p.ID, Name: p.Name, Price: p.Price, Unit: p.Unit, Stock: p.Stock, DateAdded: p.DateAdded.Time}
			if err := tx.Create(&row).Error; err != nil {
				return fmt.Errorf("import product %q: %w", p.Name, err)
			}
			stats.Products++
		}
		for _, c := range file.Clients {
			row := model.Client{ID: c.ID, Name: c.Name, Phone: c.Phone, DateAdded: c.DateAdded.Time}
			if err := tx.Create(&row).Error; err != nil {
				return fmt.Errorf("import client %q: %w", c.Name, err)
			}
			stats.Clients++
		}
		for _, s := range file.Suppliers {
			row := model.Supplier{ID: s.ID, Name: s.Name, Phone: s.Phone, DateAdded: s.DateAdded.Time}
			if err := tx.Create(&row).Error; err != nil {
				return fmt.Errorf("import supplier %q: %w", s.Name, err)
			}
			stats.Suppliers++
		}
		for _, d := range file.Deliveries {
			totalCost := d.TotalCost
			if totalCost == 0 {
				totalCost = d.Quantity * d.PricePerUnit
			}
			row := model.Delivery{
				ID:           d.ID,
				SupplierID:   d.SupplierID,
				ProductID:    d.ProductID,
				Quantity:     d.Quantity,
				PricePerUnit: d.PricePerUnit,
				TotalCost:    totalCost,
				Date:         d.Date.Time,
			}
			if err := tx.Create(&row).Error; err != nil {
				return fmt.Errorf("import delivery %d: %w", d.ID, err)
			}
			stats.Deliveries++
		}
		for _, s := range file.Sales {
			if len(s.Items) == 0 {
				stats.SkippedSales++
				continue
			}
			row := model.Sale{ID: s.ID, ClientID: s.ClientID, TotalAmount: s.TotalAmount, Date: s.Date.Time}
			for _, it := range s.Items {
				total := it.Total
				if total == 0 {
					total = it.Quantity * it.PricePerUnit
				}
				row.Items = append(row.Items, model.SaleItem{
					ProductID:    it.ProductID,
					Quantity:     it.Quantity,
					PricePerUnit: it.PricePerUnit,
					Total:        total,
				})
			}
			if err := tx.Create(&row).Error; err != nil {
				return fmt.Errorf("import sale %d: %w", s.ID, err)
			}
			stats.Sales++
			stats.SaleItems += len(row.Items)
		}
		return syncIDSequences(tx)
	})
	if err != nil {
		return nil, err
	}
	return stats, nil
}

// syncIDSequences advances each table's id sequence past the imported ids.
// Rows were created with explicit ids, which leaves postgres serial sequences
// untouched; without this, the first post-import create would collide on id 1.
// SQLite allocates from max(id)+1 on its own and has no sequences to fix.
func syncIDSequences(tx *gorm.DB) error {
	if !strings.HasPrefix(tx.Dialector.Name(), "postgres") {
		return nil
	}
	tables := []string{"products", "clients", "suppliers", "deliveries", "sales", "sale_items"}
	for _, table := range tables {
		stmt := fmt.Sprintf(
			"SELECT setval(pg_get_serial_sequence('%s', 'id'), COALESCE(MAX(id), 1)) FROM %s",
			table, table)
		if err := tx.Exec(stmt).Error; err != nil {
			return fmt.Errorf("advance %s id sequence: %w", table, err)
		}
	}
	return nil
}
