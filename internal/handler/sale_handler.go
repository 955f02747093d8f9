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

// SaleItemRequest is one requested line of a sale. An omitted price_per_unit
// sells at the product's catalog price; zero is a valid explicit price.
type SaleItemRequest struct {
	ProductID    uint     `json:"product_id" validate:"required"`
	Quantity     float64  `json:"quantity" validate:"required,gt=0"`
	PricePerUnit *float64 `json:"price_per_unit" validate:"omitempty,gte=0"`
}

// SaleRequest defines the structure for recording a sale
type SaleRequest struct {
	ClientID uint              `json:"client_id" validate:"required"`
	Items    []SaleItemRequest `json:"items" validate:"required,min=1,dive"`
}

type SaleHandler struct {
	Ledger *store.Ledger
}

func NewSaleHandler(l *store.Ledger) *SaleHandler {
	return &SaleHandler{Ledger: l}
}

// List handles retrieving all sales with nested items, most recent first
func (h *SaleHandler) List(c echo.Context) error {
	log := logger.FromContext(c)

	sales, err := h.Ledger.ListSales()
	if err != nil {
		return respondStoreError(c, log, "Failed to list sales", err)
	}
	log.Info("Sales retrieved", zap.Int("count", len(sales)))
	return c.JSON(http.StatusOK, sales)
}

// Create records a sale; all lines apply or none do
func (h *SaleHandler) Create(c echo.Context) error {
	log := logger.FromContext(c)

	var req SaleRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}
	if errs := validator.ValidateStruct(&req); len(errs) > 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Validation failed on field " + errs[0].FailedField,
		})
	}

	lines := make([]store.SaleLine, 0, len(req.Items))
	for _, it := range req.Items {
		lines = append(lines, store.SaleLine{
			ProductID:    it.ProductID,
			Quantity:     it.Quantity,
			PricePerUnit: it.PricePerUnit,
		})
	}

	sale, err := h.Ledger.RecordSale(req.ClientID, lines)
	if err != nil {
		return respondStoreError(c, log, "Failed to record sale", err)
	}

	prometheus.RecordLedgerOperation("sale", "record", "ok")
	syncStockGauge(h.Ledger)
	log.Info("Sale recorded",
		zap.Uint("sale_id", sale.ID),
		zap.Uint("client_id", sale.ClientID),
		zap.Int("items", len(sale.Items)),
		zap.Float64("total_amount", sale.TotalAmount))
	return c.JSON(http.StatusCreated, sale)
}

// Delete removes a sale and restores the stock its items consumed
func (h *SaleHandler) Delete(c echo.Context) error {
	log := logger.FromContext(c)
	id, err := pathID(c)
	if err != nil {
		return badID(c)
	}

	if err := h.Ledger.DeleteSale(id); err != nil {
		return respondStoreError(c, log, "Failed to delete sale", err)
	}

	prometheus.RecordLedgerOperation("sale", "delete", "ok")
	syncStockGauge(h.Ledger)
	log.Info("Sale deleted", zap.Uint("sale_id", id))
	return c.JSON(http.StatusOK, echo.Map{"message": "Sale deleted successfully"})
}

// DeleteItem removes a single line from a sale. Removing the last line
// removes the sale too.
func (h *SaleHandler) DeleteItem(c echo.Context) error {
	log := logger.FromContext(c)
	id, err := pathID(c)
	if err != nil {
		return badID(c)
	}

	if err := h.Ledger.DeleteSaleItem(id); err != nil {
		return respondStoreError(c, log, "Failed to delete sale item", err)
	}

	prometheus.RecordLedgerOperation("sale_item", "delete", "ok")
	syncStockGauge(h.Ledger)
	log.Info("Sale item deleted", zap.Uint("sale_item_id", id))
	return c.JSON(http.StatusOK, echo.Map{"message": "Sale item deleted successfully"})
}
