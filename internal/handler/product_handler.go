package handler

import (
	"net/http"

	"github.com/MaggieNush/milk-bar/internal/store"
	"github.com/MaggieNush/milk-bar/pkg/logger"
	"github.com/MaggieNush/milk-bar/pkg/validator"
	"github.com/MaggieNush/milk-bar/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// ProductRequest defines the structure for product creation requests
type ProductRequest struct {
	Name  string  `json:"name" validate:"required"`
	Price float64 `json:"price" validate:"gte=0"`
	Unit  string  `json:"unit" validate:"required"`
	Stock float64 `json:"stock" validate:"gte=0"`
}

// ProductUpdateRequest carries optional fields; absent fields are untouched
type ProductUpdateRequest struct {
	Name  *string  `json:"name"`
	Price *float64 `json:"price"`
	Unit  *string  `json:"unit"`
	Stock *float64 `json:"stock"`
}

type ProductHandler struct {
	Ledger *store.Ledger
}

func NewProductHandler(l *store.Ledger) *ProductHandler {
	return &ProductHandler{Ledger: l}
}

// List handles retrieving all products ordered by id
func (h *ProductHandler) List(c echo.Context) error {
	log := logger.FromContext(c)

	products, err := h.Ledger.ListProducts()
	if err != nil {
		return respondStoreError(c, log, "Failed to list products", err)
	}
	log.Info("Products retrieved", zap.Int("count", len(products)))
	return c.JSON(http.StatusOK, products)
}

// Create handles creating a new product
func (h *ProductHandler) Create(c echo.Context) error {
	log := logger.FromContext(c)

	var req ProductRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}
	if errs := validator.ValidateStruct(&req); len(errs) > 0 {
		log.Warn("Product validation failed",
			zap.String("field", errs[0].FailedField),
			zap.String("tag", errs[0].Tag))
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Validation failed on field " + errs[0].FailedField,
		})
	}

	product, err := h.Ledger.CreateProduct(req.Name, req.Price, req.Unit, req.Stock)
	if err != nil {
		return respondStoreError(c, log, "Failed to create product", err)
	}

	prometheus.RecordLedgerOperation("product", "create", "ok")
	prometheus.UpdateProductStock(product.ID, product.Name, product.Stock)
	log.Info("Product created",
		zap.Uint("product_id", product.ID),
		zap.String("name", product.Name))
	return c.JSON(http.StatusCreated, product)
}

// Update handles partial updates of an existing product
func (h *ProductHandler) Update(c echo.Context) error {
	log := logger.FromContext(c)
	id, err := pathID(c)
	if err != nil {
		return badID(c)
	}

	var req ProductUpdateRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}

	product, err := h.Ledger.UpdateProduct(id, store.ProductUpdate{
		Name:  req.Name,
		Price: req.Price,
		Unit:  req.Unit,
		Stock: req.Stock,
	})
	if err != nil {
		return respondStoreError(c, log, "Failed to update product", err)
	}

	prometheus.RecordLedgerOperation("product", "update", "ok")
	prometheus.UpdateProductStock(product.ID, product.Name, product.Stock)
	log.Info("Product updated", zap.Uint("product_id", product.ID))
	return c.JSON(http.StatusOK, product)
}

// Delete handles deleting a product without delivery or sale history
func (h *ProductHandler) Delete(c echo.Context) error {
	log := logger.FromContext(c)
	id, err := pathID(c)
	if err != nil {
		return badID(c)
	}

	if err := h.Ledger.DeleteProduct(id); err != nil {
		return respondStoreError(c, log, "Failed to delete product", err)
	}

	prometheus.RecordLedgerOperation("product", "delete", "ok")
	log.Info("Product deleted", zap.Uint("product_id", id))
	return c.JSON(http.StatusOK, echo.Map{"message": "Product deleted successfully"})
}
