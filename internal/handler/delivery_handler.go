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

// DeliveryRequest defines the structure for recording a delivery
type DeliveryRequest struct {
	SupplierID   uint    `json:"supplier_id" validate:"required"`
	ProductID    uint    `json:"product_id" validate:"required"`
	Quantity     float64 `json:"quantity" validate:"required,gt=0"`
	PricePerUnit float64 `json:"price_per_unit" validate:"gte=0"`
}

type DeliveryHandler struct {
	Ledger *store.Ledger
}

func NewDeliveryHandler(l *store.Ledger) *DeliveryHandler {
	return &DeliveryHandler{Ledger: l}
}

// List handles retrieving all deliveries, most recent first
func (h *DeliveryHandler) List(c echo.Context) error {
	log := logger.FromContext(c)

	deliveries, err := h.Ledger.ListDeliveries()
	if err != nil {
		return respondStoreError(c, log, "Failed to list deliveries", err)
	}
	log.Info("Deliveries retrieved", zap.Int("count", len(deliveries)))
	return c.JSON(http.StatusOK, deliveries)
}

// Create records a delivery and bumps the product's stock
func (h *DeliveryHandler) Create(c echo.Context) error {
	log := logger.FromContext(c)

	var req DeliveryRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}
	if errs := validator.ValidateStruct(&req); len(errs) > 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Validation failed on field " + errs[0].FailedField,
		})
	}

	delivery, err := h.Ledger.RecordDelivery(req.SupplierID, req.ProductID, req.Quantity, req.PricePerUnit)
	if err != nil {
		return respondStoreError(c, log, "Failed to record delivery", err)
	}

	prometheus.RecordLedgerOperation("delivery", "record", "ok")
	syncStockGauge(h.Ledger)
	log.Info("Delivery recorded",
		zap.Uint("delivery_id", delivery.ID),
		zap.Uint("product_id", delivery.ProductID),
		zap.Float64("quantity", delivery.Quantity),
		zap.Float64("total_cost", delivery.TotalCost))
	return c.JSON(http.StatusCreated, delivery)
}

// Delete removes a delivery, clawing the delivered quantity back out of stock
func (h *DeliveryHandler) Delete(c echo.Context) error {
	log := logger.FromContext(c)
	id, err := pathID(c)
	if err != nil {
		return badID(c)
	}

	if err := h.Ledger.DeleteDelivery(id); err != nil {
		return respondStoreError(c, log, "Failed to delete delivery", err)
	}

	prometheus.RecordLedgerOperation("delivery", "delete", "ok")
	syncStockGauge(h.Ledger)
	log.Info("Delivery deleted", zap.Uint("delivery_id", id))
	return c.JSON(http.StatusOK, echo.Map{"message": "Delivery deleted successfully"})
}
