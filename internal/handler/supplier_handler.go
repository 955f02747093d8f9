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

type SupplierHandler struct {
	Ledger *store.Ledger
}

func NewSupplierHandler(l *store.Ledger) *SupplierHandler {
	return &SupplierHandler{Ledger: l}
}

func (h *SupplierHandler) List(c echo.Context) error {
	log := logger.FromContext(c)

	suppliers, err := h.Ledger.ListSuppliers()
	if err != nil {
		return respondStoreError(c, log, "Failed to list suppliers", err)
	}
	log.Info("Suppliers retrieved", zap.Int("count", len(suppliers)))
	return c.JSON(http.StatusOK, suppliers)
}

func (h *SupplierHandler) Create(c echo.Context) error {
	log := logger.FromContext(c)

	var req ContactRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}
	if errs := validator.ValidateStruct(&req); len(errs) > 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Validation failed on field " + errs[0].FailedField,
		})
	}

	supplier, err := h.Ledger.CreateSupplier(req.Name, req.Phone)
	if err != nil {
		return respondStoreError(c, log, "Failed to create supplier", err)
	}

	prometheus.RecordLedgerOperation("supplier", "create", "ok")
	log.Info("Supplier created", zap.Uint("supplier_id", supplier.ID), zap.String("name", supplier.Name))
	return c.JSON(http.StatusCreated, supplier)
}

func (h *SupplierHandler) Update(c echo.Context) error {
	log := logger.FromContext(c)
	id, err := pathID(c)
	if err != nil {
		return badID(c)
	}

	var req ContactUpdateRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid request data"})
	}

	supplier, err := h.Ledger.UpdateSupplier(id, store.ContactUpdate{Name: req.Name, Phone: req.Phone})
	if err != nil {
		return respondStoreError(c, log, "Failed to update supplier", err)
	}

	prometheus.RecordLedgerOperation("supplier", "update", "ok")
	log.Info("Supplier updated", zap.Uint("supplier_id", supplier.ID))
	return c.JSON(http.StatusOK, supplier)
}

func (h *SupplierHandler) Delete(c echo.Context) error {
	log := logger.FromContext(c)
	id, err := pathID(c)
	if err != nil {
		return badID(c)
	}

	if err := h.Ledger.DeleteSupplier(id); err != nil {
		return respondStoreError(c, log, "Failed to delete supplier", err)
	}

	prometheus.RecordLedgerOperation("supplier", "delete", "ok")
	log.Info("Supplier deleted", zap.Uint("supplier_id", id))
	return c.JSON(http.StatusOK, echo.Map{"message": "Supplier deleted successfully"})
}
