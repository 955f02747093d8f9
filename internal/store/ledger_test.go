package store

import (
	"errors"
	"fmt"
	"testing"

	"github.com/MaggieNush/milk-bar/internal/model"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(
		&model.Product{}, &model.Client{}, &model.Supplier{},
		&model.Delivery{}, &model.Sale{}, &model.SaleItem{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// seedBasics creates one supplier, one client and one product with the given
// starting stock.
func seedBasics(t *testing.T, l *Ledger, stock float64) (*model.Supplier, *model.Client, *model.Product) {
	t.Helper()
	sup, err := l.CreateSupplier("KCC Dairies", "0700000001")
	if err != nil {
		t.Fatalf("create supplier: %v", err)
	}
	cli, err := l.CreateClient("Jane Doe", "0711222333")
	if err != nil {
		t.Fatalf("create client: %v", err)
	}
	prod, err := l.CreateProduct("Fresh Milk", 60.0, "liter", stock)
	if err != nil {
		t.Fatalf("create product: %v", err)
	}
	return sup, cli, prod
}

func f64(v float64) *float64 {
	return &v
}

func productStock(t *testing.T, db *gorm.DB, id uint) float64 {
	t.Helper()
	var p model.Product
	if err := db.First(&p, id).Error; err != nil {
		t.Fatalf("reload product %d: %v", id, err)
	}
	return p.Stock
}

func TestCreateProductValidation(t *testing.T) {
	l := New(setupTestDB(t))

	if _, err := l.CreateProduct("", 10, "liter", 0); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("empty name: expected ErrInvalidArgument, got %v", err)
	}
	if _, err := l.CreateProduct("Mala", -1, "packet", 0); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("negative price: expected ErrInvalidArgument, got %v", err)
	}
	if _, err := l.CreateProduct("Mala", 50, "packet", -5); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("negative stock: expected ErrInvalidArgument, got %v", err)
	}

	p, err := l.CreateProduct("Mala", 50, "packet", 0)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if p.ID == 0 {
		t.Fatal("expected assigned id")
	}
	if p.DateAdded.IsZero() {
		t.Fatal("expected date_added to be set")
	}
	if _, err := l.CreateProduct("Mala", 55, "packet", 0); !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Fatalf("duplicate name: expected ErrDuplicatedKey, got %v", err)
	}
}

func TestRecordDeliveryUpdatesStock(t *testing.T) {
	db := setupTestDB(t)
	l := New(db)
	sup, _, prod := seedBasics(t, l, 0)

	d, err := l.RecordDelivery(sup.ID, prod.ID, 10, 5)
	if err != nil {
		t.Fatalf("record delivery: %v", err)
	}
	if d.TotalCost != 50.0 {
		t.Fatalf("expected total_cost 50, got %g", d.TotalCost)
	}
	if got := productStock(t, db, prod.ID); got != 10 {
		t.Fatalf("expected stock 10, got %g", got)
	}

	if _, err := l.RecordDelivery(sup.ID, prod.ID, 0, 5); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("zero quantity: expected ErrInvalidArgument, got %v", err)
	}
	if _, err := l.RecordDelivery(sup.ID, prod.ID, 5, -1); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("negative price: expected ErrInvalidArgument, got %v", err)
	}
	if _, err := l.RecordDelivery(999, prod.ID, 5, 5); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown supplier: expected ErrNotFound, got %v", err)
	}
	if _, err := l.RecordDelivery(sup.ID, 999, 5, 5); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown product: expected ErrNotFound, got %v", err)
	}
	// failed deliveries must not touch stock
	if got := productStock(t, db, prod.ID); got != 10 {
		t.Fatalf("expected stock still 10, got %g", got)
	}
}

func TestRecordSaleDecrementsStock(t *testing.T) {
	db := setupTestDB(t)
	l := New(db)
	_, cli, prod := seedBasics(t, l, 10)

	s, err := l.RecordSale(cli.ID, []SaleLine{{ProductID: prod.ID, Quantity: 2, PricePerUnit: f64(60)}})
	if err != nil {
		t.Fatalf("record sale: %v", err)
	}
	if s.TotalAmount != 120.0 {
		t.Fatalf("expected total_amount 120, got %g", s.TotalAmount)
	}
	if len(s.Items) != 1 || s.Items[0].Total != 120.0 {
		t.Fatalf("unexpected items: %+v", s.Items)
	}
	if got := productStock(t, db, prod.ID); got != 8 {
		t.Fatalf("expected stock 8, got %g", got)
	}
}

func TestRecordSaleAllOrNothing(t *testing.T) {
	db := setupTestDB(t)
	l := New(db)
	_, cli, p1 := seedBasics(t, l, 5)
	p2, err := l.CreateProduct("Yogurt", 80, "bottle", 5)
	if err != nil {
		t.Fatalf("create product: %v", err)
	}

	_, err = l.RecordSale(cli.ID, []SaleLine{
		{ProductID: p1.ID, Quantity: 3, PricePerUnit: f64(60)},
		{ProductID: p2.ID, Quantity: 10, PricePerUnit: f64(80)},
	})
	var ins *InsufficientStockError
	if !errors.As(err, &ins) {
		t.Fatalf("expected InsufficientStockError, got %v", err)
	}
	if ins.ProductID != p2.ID || ins.Available != 5 || ins.Requested != 10 {
		t.Fatalf("unexpected conflict details: %+v", ins)
	}
	if got := productStock(t, db, p1.ID); got != 5 {
		t.Fatalf("p1 stock changed by failed sale: %g", got)
	}
	if got := productStock(t, db, p2.ID); got != 5 {
		t.Fatalf("p2 stock changed by failed sale: %g", got)
	}
	var sales, items int64
	db.Model(&model.Sale{}).Count(&sales)
	db.Model(&model.SaleItem{}).Count(&items)
	if sales != 0 || items != 0 {
		t.Fatalf("failed sale left rows behind: sales=%d items=%d", sales, items)
	}
}

func TestRecordSaleRepeatedProductDrawsDownCumulatively(t *testing.T) {
	db := setupTestDB(t)
	l := New(db)
	_, cli, prod := seedBasics(t, l, 5)

	// Two lines of 3 exceed stock 5 together even though each alone fits.
	_, err := l.RecordSale(cli.ID, []SaleLine{
		{ProductID: prod.ID, Quantity: 3, PricePerUnit: f64(60)},
		{ProductID: prod.ID, Quantity: 3, PricePerUnit: f64(60)},
	})
	var ins *InsufficientStockError
	if !errors.As(err, &ins) {
		t.Fatalf("expected InsufficientStockError, got %v", err)
	}
	if got := productStock(t, db, prod.ID); got != 5 {
		t.Fatalf("stock changed by failed sale: %g", got)
	}

	if _, err := l.RecordSale(cli.ID, []SaleLine{
		{ProductID: prod.ID, Quantity: 2, PricePerUnit: f64(60)},
		{ProductID: prod.ID, Quantity: 2, PricePerUnit: f64(60)},
	}); err != nil {
		t.Fatalf("record sale: %v", err)
	}
	if got := productStock(t, db, prod.ID); got != 1 {
		t.Fatalf("expected stock 1, got %g", got)
	}
}

func TestRecordSaleLinePricing(t *testing.T) {
	l := New(setupTestDB(t))
	_, cli, prod := seedBasics(t, l, 10)

	// No price given: the line sells at the catalog price.
	s, err := l.RecordSale(cli.ID, []SaleLine{{ProductID: prod.ID, Quantity: 3}})
	if err != nil {
		t.Fatalf("record sale: %v", err)
	}
	if s.Items[0].PricePerUnit != 60 {
		t.Fatalf("expected catalog price 60, got %g", s.Items[0].PricePerUnit)
	}
	if s.TotalAmount != 180 {
		t.Fatalf("expected total 180, got %g", s.TotalAmount)
	}

	// An explicit zero is a giveaway, not a request for the catalog price.
	s, err = l.RecordSale(cli.ID, []SaleLine{{ProductID: prod.ID, Quantity: 2, PricePerUnit: f64(0)}})
	if err != nil {
		t.Fatalf("record sale: %v", err)
	}
	if s.Items[0].PricePerUnit != 0 || s.Items[0].Total != 0 {
		t.Fatalf("expected zero-priced item, got %+v", s.Items[0])
	}
	if s.TotalAmount != 0 {
		t.Fatalf("expected total 0, got %g", s.TotalAmount)
	}
}

func TestRecordSaleValidation(t *testing.T) {
	l := New(setupTestDB(t))
	_, cli, prod := seedBasics(t, l, 5)

	if _, err := l.RecordSale(cli.ID, nil); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("empty items: expected ErrInvalidArgument, got %v", err)
	}
	if _, err := l.RecordSale(cli.ID, []SaleLine{{ProductID: prod.ID, Quantity: 0, PricePerUnit: f64(60)}}); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("zero quantity: expected ErrInvalidArgument, got %v", err)
	}
	if _, err := l.RecordSale(cli.ID, []SaleLine{{ProductID: prod.ID, Quantity: 1, PricePerUnit: f64(-1)}}); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("negative price: expected ErrInvalidArgument, got %v", err)
	}
	if _, err := l.RecordSale(999, []SaleLine{{ProductID: prod.ID, Quantity: 1, PricePerUnit: f64(60)}}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown client: expected ErrNotFound, got %v", err)
	}
	if _, err := l.RecordSale(cli.ID, []SaleLine{{ProductID: 999, Quantity: 1, PricePerUnit: f64(60)}}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown product: expected ErrNotFound, got %v", err)
	}
}

func TestDeleteSaleRestoresStock(t *testing.T) {
	db := setupTestDB(t)
	l := New(db)
	_, cli, p1 := seedBasics(t, l, 10)
	p2, _ := l.CreateProduct("Yogurt", 80, "bottle", 10)

	s, err := l.RecordSale(cli.ID, []SaleLine{
		{ProductID: p1.ID, Quantity: 4, PricePerUnit: f64(60)},
		{ProductID: p2.ID, Quantity: 2, PricePerUnit: f64(80)},
	})
	if err != nil {
		t.Fatalf("record sale: %v", err)
	}
	if err := l.DeleteSale(s.ID); err != nil {
		t.Fatalf("delete sale: %v", err)
	}
	if got := productStock(t, db, p1.ID); got != 10 {
		t.Fatalf("expected p1 stock restored to 10, got %g", got)
	}
	if got := productStock(t, db, p2.ID); got != 10 {
		t.Fatalf("expected p2 stock restored to 10, got %g", got)
	}
	var items int64
	db.Model(&model.SaleItem{}).Where("sale_id = ?", s.ID).Count(&items)
	if items != 0 {
		t.Fatalf("sale items not cascaded: %d left", items)
	}
	if err := l.DeleteSale(s.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second delete: expected ErrNotFound, got %v", err)
	}
}

func TestDeleteSaleItemAdjustsTotalAndCascades(t *testing.T) {
	db := setupTestDB(t)
	l := New(db)
	_, cli, p1 := seedBasics(t, l, 10)
	p2, _ := l.CreateProduct("Yogurt", 80, "bottle", 10)

	s, err := l.RecordSale(cli.ID, []SaleLine{
		{ProductID: p1.ID, Quantity: 2, PricePerUnit: f64(60)},
		{ProductID: p2.ID, Quantity: 1, PricePerUnit: f64(80)},
	})
	if err != nil {
		t.Fatalf("record sale: %v", err)
	}
	if s.TotalAmount != 200.0 {
		t.Fatalf("expected total 200, got %g", s.TotalAmount)
	}

	// Remove the first line: total shrinks by exactly that line, other intact.
	if err := l.DeleteSaleItem(s.Items[0].ID); err != nil {
		t.Fatalf("delete sale item: %v", err)
	}
	var reloaded model.Sale
	if err := db.Preload("Items").First(&reloaded, s.ID).Error; err != nil {
		t.Fatalf("reload sale: %v", err)
	}
	if reloaded.TotalAmount != 80.0 {
		t.Fatalf("expected total 80 after item delete, got %g", reloaded.TotalAmount)
	}
	if len(reloaded.Items) != 1 || reloaded.Items[0].ProductID != p2.ID {
		t.Fatalf("unexpected remaining items: %+v", reloaded.Items)
	}
	if got := productStock(t, db, p1.ID); got != 10 {
		t.Fatalf("expected p1 stock restored to 10, got %g", got)
	}

	// Removing the last line removes the sale itself.
	if err := l.DeleteSaleItem(reloaded.Items[0].ID); err != nil {
		t.Fatalf("delete last sale item: %v", err)
	}
	if err := db.First(&model.Sale{}, s.ID).Error; !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected sale gone, got %v", err)
	}
	if got := productStock(t, db, p2.ID); got != 10 {
		t.Fatalf("expected p2 stock restored to 10, got %g", got)
	}

	if err := l.DeleteSaleItem(12345); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteDeliveryFloorsStockAtZero(t *testing.T) {
	db := setupTestDB(t)
	l := New(db)
	sup, cli, prod := seedBasics(t, l, 0)

	d, err := l.RecordDelivery(sup.ID, prod.ID, 10, 5)
	if err != nil {
		t.Fatalf("record delivery: %v", err)
	}
	if _, err := l.RecordSale(cli.ID, []SaleLine{{ProductID: prod.ID, Quantity: 8, PricePerUnit: f64(60)}}); err != nil {
		t.Fatalf("record sale: %v", err)
	}
	// Stock is 2; removing the delivery of 10 floors at 0 instead of going
	// negative. The history is knowingly understated afterwards.
	if err := l.DeleteDelivery(d.ID); err != nil {
		t.Fatalf("delete delivery: %v", err)
	}
	if got := productStock(t, db, prod.ID); got != 0 {
		t.Fatalf("expected stock floored at 0, got %g", got)
	}
	if err := l.DeleteDelivery(d.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second delete: expected ErrNotFound, got %v", err)
	}
}

func TestReferentialDeleteGuards(t *testing.T) {
	db := setupTestDB(t)
	l := New(db)
	sup, cli, prod := seedBasics(t, l, 0)

	d, err := l.RecordDelivery(sup.ID, prod.ID, 5, 4)
	if err != nil {
		t.Fatalf("record delivery: %v", err)
	}
	s, err := l.RecordSale(cli.ID, []SaleLine{{ProductID: prod.ID, Quantity: 1, PricePerUnit: f64(60)}})
	if err != nil {
		t.Fatalf("record sale: %v", err)
	}

	var ref *ReferentialConflictError
	if err := l.DeleteSupplier(sup.ID); !errors.As(err, &ref) {
		t.Fatalf("supplier with deliveries: expected ReferentialConflictError, got %v", err)
	}
	if err := l.DeleteClient(cli.ID); !errors.As(err, &ref) {
		t.Fatalf("client with sales: expected ReferentialConflictError, got %v", err)
	}
	if err := l.DeleteProduct(prod.ID); !errors.As(err, &ref) {
		t.Fatalf("product with history: expected ReferentialConflictError, got %v", err)
	}

	// Clear the dependents; the guards release.
	if err := l.DeleteSale(s.ID); err != nil {
		t.Fatalf("delete sale: %v", err)
	}
	if err := l.DeleteDelivery(d.ID); err != nil {
		t.Fatalf("delete delivery: %v", err)
	}
	for _, del := range []struct {
		name string
		fn   func() error
	}{
		{"supplier", func() error { return l.DeleteSupplier(sup.ID) }},
		{"client", func() error { return l.DeleteClient(cli.ID) }},
		{"product", func() error { return l.DeleteProduct(prod.ID) }},
	} {
		if err := del.fn(); err != nil {
			t.Fatalf("delete %s after clearing dependents: %v", del.name, err)
		}
	}
	var products, clients, suppliers int64
	db.Model(&model.Product{}).Count(&products)
	db.Model(&model.Client{}).Count(&clients)
	db.Model(&model.Supplier{}).Count(&suppliers)
	if products != 0 || clients != 0 || suppliers != 0 {
		t.Fatalf("rows left after delete: products=%d clients=%d suppliers=%d", products, clients, suppliers)
	}

	if err := l.DeleteSupplier(999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown supplier: expected ErrNotFound, got %v", err)
	}
}

func TestUpdateProductPartialFields(t *testing.T) {
	db := setupTestDB(t)
	l := New(db)
	_, _, prod := seedBasics(t, l, 10)

	price := 65.0
	updated, err := l.UpdateProduct(prod.ID, ProductUpdate{Price: &price})
	if err != nil {
		t.Fatalf("update product: %v", err)
	}
	if updated.Price != 65.0 {
		t.Fatalf("expected price 65, got %g", updated.Price)
	}
	if updated.Name != prod.Name || updated.Unit != prod.Unit || updated.Stock != prod.Stock {
		t.Fatalf("untouched fields changed: %+v", updated)
	}

	// Manual stock override bypasses history on purpose.
	override := 42.0
	if _, err := l.UpdateProduct(prod.ID, ProductUpdate{Stock: &override}); err != nil {
		t.Fatalf("stock override: %v", err)
	}
	if got := productStock(t, db, prod.ID); got != 42 {
		t.Fatalf("expected overridden stock 42, got %g", got)
	}

	if _, err := l.UpdateProduct(999, ProductUpdate{Price: &price}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown id: expected ErrNotFound, got %v", err)
	}
	empty := " "
	if _, err := l.UpdateProduct(prod.ID, ProductUpdate{Name: &empty}); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("blank name: expected ErrInvalidArgument, got %v", err)
	}
}

func TestUpdateClientAndSupplier(t *testing.T) {
	l := New(setupTestDB(t))
	sup, cli, _ := seedBasics(t, l, 0)

	phone := "0799999999"
	c, err := l.UpdateClient(cli.ID, ContactUpdate{Phone: &phone})
	if err != nil {
		t.Fatalf("update client: %v", err)
	}
	if c.Phone != phone || c.Name != cli.Name {
		t.Fatalf("unexpected client after update: %+v", c)
	}

	name := "Brookside Dairies"
	s, err := l.UpdateSupplier(sup.ID, ContactUpdate{Name: &name})
	if err != nil {
		t.Fatalf("update supplier: %v", err)
	}
	if s.Name != name || s.Phone != sup.Phone {
		t.Fatalf("unexpected supplier after update: %+v", s)
	}

	if _, err := l.UpdateClient(999, ContactUpdate{Name: &name}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("unknown client: expected ErrNotFound, got %v", err)
	}
}

func TestListOrdering(t *testing.T) {
	db := setupTestDB(t)
	l := New(db)
	sup, cli, p1 := seedBasics(t, l, 100)
	p2, _ := l.CreateProduct("Mala", 50, "packet", 100)

	products, err := l.ListProducts()
	if err != nil {
		t.Fatalf("list products: %v", err)
	}
	if len(products) != 2 || products[0].ID != p1.ID || products[1].ID != p2.ID {
		t.Fatalf("products not ordered by id: %+v", products)
	}

	// Same-second timestamps fall back to id order, newest first.
	for i := 0; i < 3; i++ {
		if _, err := l.RecordDelivery(sup.ID, p1.ID, 1, 1); err != nil {
			t.Fatalf("record delivery: %v", err)
		}
		if _, err := l.RecordSale(cli.ID, []SaleLine{{ProductID: p1.ID, Quantity: 1, PricePerUnit: f64(60)}}); err != nil {
			t.Fatalf("record sale: %v", err)
		}
	}
	deliveries, err := l.ListDeliveries()
	if err != nil {
		t.Fatalf("list deliveries: %v", err)
	}
	for i := 1; i < len(deliveries); i++ {
		if deliveries[i-1].ID < deliveries[i].ID {
			t.Fatalf("deliveries not newest-first: %+v", deliveries)
		}
	}
	sales, err := l.ListSales()
	if err != nil {
		t.Fatalf("list sales: %v", err)
	}
	if len(sales) != 3 {
		t.Fatalf("expected 3 sales, got %d", len(sales))
	}
	for i := 1; i < len(sales); i++ {
		if sales[i-1].ID < sales[i].ID {
			t.Fatalf("sales not newest-first: %+v", sales)
		}
	}
	for _, s := range sales {
		if len(s.Items) != 1 {
			t.Fatalf("sale %d missing nested items", s.ID)
		}
	}
}
