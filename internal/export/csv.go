package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/MaggieNush/milk-bar/internal/store"
)

// unknownName is used when a referenced row is missing from the snapshot.
const unknownName = "Unknown"

// WriteAll writes one CSV per entity into outDir: products, clients,
// suppliers, deliveries (enriched with supplier/product names) and sales
// (flattened to one row per line item, carrying both the line total and the
// parent sale's total).
func WriteAll(snap *store.Snapshot, outDir string) error {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("create export dir: %w", err)
	}

	products := make(map[uint]string, len(snap.Products))
	productRows := make([][]string, 0, len(snap.Products))
	for _, p := range snap.Products {
		products[p.ID] = p.Name
		productRows = append(productRows, []string{
			formatID(p.ID), p.Name, formatFloat(p.Price), p.Unit, formatFloat(p.Stock), p.DateAdded,
		})
	}
	if err := writeFile(outDir, "products.csv",
		[]string{"id", "name", "price", "unit", "stock", "date_added"}, productRows); err != nil {
		return err
	}

	clients := make(map[uint]string, len(snap.Clients))
	if err := writeContacts(outDir, "clients.csv", snap.Clients, clients); err != nil {
		return err
	}
	suppliers := make(map[uint]string, len(snap.Suppliers))
	if err := writeContacts(outDir, "suppliers.csv", snap.Suppliers, suppliers); err != nil {
		return err
	}

	deliveryRows := make([][]string, 0, len(snap.Deliveries))
	for _, d := range snap.Deliveries {
		deliveryRows = append(deliveryRows, []string{
			formatID(d.ID),
			d.Date,
			formatID(d.SupplierID),
			displayName(suppliers, d.SupplierID),
			formatID(d.ProductID),
			displayName(products, d.ProductID),
			formatFloat(d.Quantity),
			formatFloat(d.PricePerUnit),
			formatFloat(d.TotalCost),
		})
	}
	if err := writeFile(outDir, "deliveries.csv",
		[]string{"id", "date", "supplier_id", "supplier", "product_id", "product", "quantity", "price_per_unit", "total_cost"},
		deliveryRows); err != nil {
		return err
	}

	saleRows := make([][]string, 0, len(snap.Sales))
	for _, s := range snap.Sales {
		for _, it := range s.Items {
			saleRows = append(saleRows, []string{
				formatID(s.ID),
				s.Date,
				formatID(s.ClientID),
				displayName(clients, s.ClientID),
				formatID(it.ProductID),
				displayName(products, it.ProductID),
				formatFloat(it.Quantity),
				formatFloat(it.PricePerUnit),
				formatFloat(it.Total),
				formatFloat(s.TotalAmount),
			})
		}
	}
	return writeFile(outDir, "sales.csv",
		[]string{"sale_id", "date", "client_id", "client", "product_id", "product", "quantity", "price_per_unit", "line_total", "sale_total"},
		saleRows)
}

func writeContacts(outDir, name string, contacts []store.ContactRecord, names map[uint]string) error {
	rows := make([][]string, 0, len(contacts))
	for _, c := range contacts {
		names[c.ID] = c.Name
		rows = append(rows, []string{formatID(c.ID), c.Name, c.Phone, c.DateAdded})
	}
	return writeFile(outDir, name, []string{"id", "name", "phone", "date_added"}, rows)
}

func writeFile(outDir, name string, header []string, rows [][]string) error {
	f, err := os.Create(filepath.Join(outDir, name))
	if err != nil {
		return fmt.Errorf("create %s: %w", name, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("write %s header: %w", name, err)
	}
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("write %s rows: %w", name, err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush %s: %w", name, err)
	}
	return nil
}

func displayName(names map[uint]string, id uint) string {
	if name, ok := names[id]; ok {
		return name
	}
	return unknownName
}

func formatID(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
