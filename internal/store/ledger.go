package store

import (
	"errors"
	"strings"

	"github.com/MaggieNush/milk-bar/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Ledger owns the five entity tables and keeps product stock consistent with
// the delivery and sale history on every mutation. Every mutating operation
// runs as a single database transaction with row locks on the affected
// products, so read-check-write sequences never interleave.
type Ledger struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Ledger {
	return &Ledger{db: db}
}

// ProductUpdate carries the optional fields of an UpdateProduct call.
// Nil fields are left untouched. Setting Stock directly bypasses the
// delivery/sale history; it is the manual-override escape hatch.
type ProductUpdate struct {
	Name  *string
	Price *float64
	Unit  *string
	Stock *float64
}

// ContactUpdate carries the optional fields of a client or supplier update.
type ContactUpdate struct {
	Name  *string
	Phone *string
}

// SaleLine is one requested line of a sale. A nil PricePerUnit sells at the
// product's catalog price; an explicit value, including zero, is used as-is.
type SaleLine struct {
	ProductID    uint
	Quantity     float64
	PricePerUnit *float64
}

// lockRows adds a FOR UPDATE row lock on dialects that support it. SQLite
// serializes writers at the database level and rejects the clause.
func lockRows(tx *gorm.DB) *gorm.DB {
	if strings.HasPrefix(tx.Dialector.Name(), "sqlite") {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

func (l *Ledger) CreateProduct(name string, price float64, unit string, stock float64) (*model.Product, error) {
	if strings.TrimSpace(name) == "" {
		return nil, invalidf("product name must not be empty")
	}
	if price < 0 {
		return nil, invalidf("product price must not be negative, got %g", price)
	}
	if stock < 0 {
		return nil, invalidf("product stock must not be negative, got %g", stock)
	}
	p := &model.Product{Name: name, Price: price, Unit: unit, Stock: stock}
	if err := l.db.Create(p).Error; err != nil {
		return nil, err
	}
	return p, nil
}

func (l *Ledger) CreateClient(name, phone string) (*model.Client, error) {
	if strings.TrimSpace(name) == "" {
		return nil, invalidf("client name must not be empty")
	}
	c := &model.Client{Name: name, Phone: phone}
	if err := l.db.Create(c).Error; err != nil {
		return nil, err
	}
	return c, nil
}

func (l *Ledger) CreateSupplier(name, phone string) (*model.Supplier, error) {
	if strings.TrimSpace(name) == "" {
		return nil, invalidf("supplier name must not be empty")
	}
	s := &model.Supplier{Name: name, Phone: phone}
	if err := l.db.Create(s).Error; err != nil {
		return nil, err
	}
	return s, nil
}

func (l *Ledger) UpdateProduct(id uint, upd ProductUpdate) (*model.Product, error) {
	if upd.Name != nil && strings.TrimSpace(*upd.Name) == "" {
		return nil, invalidf("product name must not be empty")
	}
	if upd.Price != nil && *upd.Price < 0 {
		return nil, invalidf("product price must not be negative, got %g", *upd.Price)
	}
	if upd.Stock != nil && *upd.Stock < 0 {
		return nil, invalidf("product stock must not be negative, got %g", *upd.Stock)
	}
	var p model.Product
	err := l.db.Transaction(func(tx *gorm.DB) error {
		if err := lockRows(tx).First(&p, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound("product", id)
			}
			return err
		}
		if upd.Name != nil {
			p.Name = *upd.Name
		}
		if upd.Price != nil {
			p.Price = *upd.Price
		}
		if upd.Unit != nil {
			p.Unit = *upd.Unit
		}
		if upd.Stock != nil {
			p.Stock = *upd.Stock
		}
		return tx.Save(&p).Error
	})
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (l *Ledger) UpdateClient(id uint, upd ContactUpdate) (*model.Client, error) {
	if upd.Name != nil && strings.TrimSpace(*upd.Name) == "" {
		return nil, invalidf("client name must not be empty")
	}
	var c model.Client
	err := l.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&c, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound("client", id)
			}
			return err
		}
		if upd.Name != nil {
			c.Name = *upd.Name
		}
		if upd.Phone != nil {
			c.Phone = *upd.Phone
		}
		return tx.Save(&c).Error
	})
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (l *Ledger) UpdateSupplier(id uint, upd ContactUpdate) (*model.Supplier, error) {
	if upd.Name != nil && strings.TrimSpace(*upd.Name) == "" {
		return nil, invalidf("supplier name must not be empty")
	}
	var s model.Supplier
	err := l.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&s, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound("supplier", id)
			}
			return err
		}
		if upd.Name != nil {
			s.Name = *upd.Name
		}
		if upd.Phone != nil {
			s.Phone = *upd.Phone
		}
		return tx.Save(&s).Error
	})
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// RecordDelivery creates a delivery and increments the product's stock by the
// delivered quantity, both in one transaction.
func (l *Ledger) RecordDelivery(supplierID, productID uint, quantity, pricePerUnit float64) (*model.Delivery, error) {
	if quantity <= 0 {
		return nil, invalidf("delivery quantity must be positive, got %g", quantity)
	}
	if pricePerUnit < 0 {
		return nil, invalidf("delivery price per unit must not be negative, got %g", pricePerUnit)
	}
	d := &model.Delivery{
		SupplierID:   supplierID,
		ProductID:    productID,
		Quantity:     quantity,
		PricePerUnit: pricePerUnit,
		TotalCost:    quantity * pricePerUnit,
	}
	err := l.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.Supplier{}).Where("id = ?", supplierID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return notFound("supplier", supplierID)
		}
		var p model.Product
		if err := lockRows(tx).First(&p, productID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound("product", productID)
			}
			return err
		}
		if err := tx.Model(&model.Product{}).Where("id = ?", p.ID).
			Update("stock", p.Stock+quantity).Error; err != nil {
			return err
		}
		return tx.Create(d).Error
	})
	if err != nil {
		return nil, err
	}
	return d, nil
}

// RecordSale creates a sale with one item per requested line and decrements
// each product's stock. If any line exceeds the product's current stock the
// whole sale is rejected with InsufficientStockError and nothing changes.
func (l *Ledger) RecordSale(clientID uint, lines []SaleLine) (*model.Sale, error) {
	if len(lines) == 0 {
		return nil, invalidf("sale must have at least one item")
	}
	for _, ln := range lines {
		if ln.Quantity <= 0 {
			return nil, invalidf("sale quantity must be positive, got %g", ln.Quantity)
		}
		if ln.PricePerUnit != nil && *ln.PricePerUnit < 0 {
			return nil, invalidf("sale price per unit must not be negative, got %g", *ln.PricePerUnit)
		}
	}
	sale := &model.Sale{ClientID: clientID}
	err := l.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.Client{}).Where("id = ?", clientID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return notFound("client", clientID)
		}

		// Lock and load each referenced product once; repeated lines for the
		// same product draw down the same in-memory balance.
		products := make(map[uint]*model.Product)
		for _, ln := range lines {
			if _, ok := products[ln.ProductID]; ok {
				continue
			}
			var p model.Product
			if err := lockRows(tx).First(&p, ln.ProductID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return notFound("product", ln.ProductID)
				}
				return err
			}
			products[ln.ProductID] = &p
		}

		total := 0.0
		for _, ln := range lines {
			p := products[ln.ProductID]
			if p.Stock < ln.Quantity {
				return &InsufficientStockError{
					ProductID:   p.ID,
					ProductName: p.Name,
					Available:   p.Stock,
					Requested:   ln.Quantity,
				}
			}
			p.Stock -= ln.Quantity
			price := p.Price
			if ln.PricePerUnit != nil {
				price = *ln.PricePerUnit
			}
			lineTotal := ln.Quantity * price
			total += lineTotal
			sale.Items = append(sale.Items, model.SaleItem{
				ProductID:    ln.ProductID,
				Quantity:     ln.Quantity,
				PricePerUnit: price,
				Total:        lineTotal,
			})
		}
		sale.TotalAmount = total

		if err := tx.Create(sale).Error; err != nil {
			return err
		}
		for _, p := range products {
			if err := tx.Model(&model.Product{}).Where("id = ?", p.ID).
				Update("stock", p.Stock).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		sale.Items = nil
		return nil, err
	}
	return sale, nil
}

// DeleteSale removes a sale and all its items, restoring each item's quantity
// to the corresponding product's stock.
func (l *Ledger) DeleteSale(saleID uint) error {
	return l.db.Transaction(func(tx *gorm.DB) error {
		var sale model.Sale
		if err := tx.Preload("Items").First(&sale, saleID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound("sale", saleID)
			}
			return err
		}
		for _, it := range sale.Items {
			if err := restoreStock(tx, it.ProductID, it.Quantity); err != nil {
				return err
			}
		}
		if err := tx.Where("sale_id = ?", sale.ID).Delete(&model.SaleItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&sale).Error
	})
}

// DeleteSaleItem removes one line from a sale, restores its quantity to the
// product's stock, and shrinks the sale's total by the line total (floored at
// zero against float drift). Removing the last item removes the sale itself.
func (l *Ledger) DeleteSaleItem(saleItemID uint) error {
	return l.db.Transaction(func(tx *gorm.DB) error {
		var item model.SaleItem
		if err := tx.First(&item, saleItemID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound("sale item", saleItemID)
			}
			return err
		}
		var sale model.Sale
		if err := tx.First(&sale, item.SaleID).Error; err != nil {
			return err
		}
		if err := restoreStock(tx, item.ProductID, item.Quantity); err != nil {
			return err
		}
		if err := tx.Delete(&item).Error; err != nil {
			return err
		}
		var remaining int64
		if err := tx.Model(&model.SaleItem{}).Where("sale_id = ?", sale.ID).Count(&remaining).Error; err != nil {
			return err
		}
		if remaining == 0 {
			return tx.Delete(&sale).Error
		}
		newTotal := sale.TotalAmount - item.Total
		if newTotal < 0 {
			newTotal = 0
		}
		return tx.Model(&model.Sale{}).Where("id = ?", sale.ID).
			Update("total_amount", newTotal).Error
	})
}

// DeleteDelivery removes a delivery and takes the delivered quantity back out
// of the product's stock, floored at zero. The floor means a delivery deleted
// after later sales consumed its quantity understates true stock; that is the
// documented behavior, not a reconciliation bug.
func (l *Ledger) DeleteDelivery(deliveryID uint) error {
	return l.db.Transaction(func(tx *gorm.DB) error {
		var d model.Delivery
		if err := tx.First(&d, deliveryID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound("delivery", deliveryID)
			}
			return err
		}
		var p model.Product
		if err := lockRows(tx).First(&p, d.ProductID).Error; err != nil {
			return err
		}
		newStock := p.Stock - d.Quantity
		if newStock < 0 {
			newStock = 0
		}
		if err := tx.Model(&model.Product{}).Where("id = ?", p.ID).
			Update("stock", newStock).Error; err != nil {
			return err
		}
		return tx.Delete(&d).Error
	})
}

func (l *Ledger) DeleteProduct(id uint) error {
	return l.db.Transaction(func(tx *gorm.DB) error {
		if err := firstExists(tx, &model.Product{}, "product", id); err != nil {
			return err
		}
		var deliveries, saleItems int64
		if err := tx.Model(&model.Delivery{}).Where("product_id = ?", id).Count(&deliveries).Error; err != nil {
			return err
		}
		if err := tx.Model(&model.SaleItem{}).Where("product_id = ?", id).Count(&saleItems).Error; err != nil {
			return err
		}
		if deliveries > 0 || saleItems > 0 {
			return &ReferentialConflictError{
				Entity: "product",
				ID:     id,
				Reason: "product has deliveries or sales; remove related records first",
			}
		}
		return tx.Delete(&model.Product{}, id).Error
	})
}

func (l *Ledger) DeleteClient(id uint) error {
	return l.db.Transaction(func(tx *gorm.DB) error {
		if err := firstExists(tx, &model.Client{}, "client", id); err != nil {
			return err
		}
		var sales int64
		if err := tx.Model(&model.Sale{}).Where("client_id = ?", id).Count(&sales).Error; err != nil {
			return err
		}
		if sales > 0 {
			return &ReferentialConflictError{
				Entity: "client",
				ID:     id,
				Reason: "client has existing sales; delete those sales first",
			}
		}
		return tx.Delete(&model.Client{}, id).Error
	})
}

func (l *Ledger) DeleteSupplier(id uint) error {
	return l.db.Transaction(func(tx *gorm.DB) error {
		if err := firstExists(tx, &model.Supplier{}, "supplier", id); err != nil {
			return err
		}
		var deliveries int64
		if err := tx.Model(&model.Delivery{}).Where("supplier_id = ?", id).Count(&deliveries).Error; err != nil {
			return err
		}
		if deliveries > 0 {
			return &ReferentialConflictError{
				Entity: "supplier",
				ID:     id,
				Reason: "supplier has existing deliveries; delete those deliveries first",
			}
		}
		return tx.Delete(&model.Supplier{}, id).Error
	})
}

func (l *Ledger) ListProducts() ([]model.Product, error) {
	return listProducts(l.db)
}

func (l *Ledger) ListClients() ([]model.Client, error) {
	return listClients(l.db)
}

func (l *Ledger) ListSuppliers() ([]model.Supplier, error) {
	return listSuppliers(l.db)
}

func (l *Ledger) ListDeliveries() ([]model.Delivery, error) {
	return listDeliveries(l.db)
}

func (l *Ledger) ListSales() ([]model.Sale, error) {
	return listSales(l.db)
}

func listProducts(tx *gorm.DB) ([]model.Product, error) {
	var products []model.Product
	err := tx.Order("id").Find(&products).Error
	return products, err
}

func listClients(tx *gorm.DB) ([]model.Client, error) {
	var clients []model.Client
	err := tx.Order("id").Find(&clients).Error
	return clients, err
}

func listSuppliers(tx *gorm.DB) ([]model.Supplier, error) {
	var suppliers []model.Supplier
	err := tx.Order("id").Find(&suppliers).Error
	return suppliers, err
}

func listDeliveries(tx *gorm.DB) ([]model.Delivery, error) {
	var deliveries []model.Delivery
	// Secondary order on id keeps listings deterministic for same-second rows.
	err := tx.Order("date desc, id desc").Find(&deliveries).Error
	return deliveries, err
}

func listSales(tx *gorm.DB) ([]model.Sale, error) {
	var sales []model.Sale
	err := tx.Preload("Items").Order("date desc, id desc").Find(&sales).Error
	return sales, err
}

func restoreStock(tx *gorm.DB, productID uint, quantity float64) error {
	var p model.Product
	if err := lockRows(tx).First(&p, productID).Error; err != nil {
		return err
	}
	return tx.Model(&model.Product{}).Where("id = ?", p.ID).
		Update("stock", p.Stock+quantity).Error
}

func firstExists(tx *gorm.DB, dest interface{}, entity string, id uint) error {
	if err := tx.First(dest, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound(entity, id)
		}
		return err
	}
	return nil
}
