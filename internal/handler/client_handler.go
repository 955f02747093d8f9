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

// ContactRequest covers client and supplier creation; phone is optional
type ContactRequest struct {
	Name  string `json:"name" validate:"required"`
	Phone string `json:"phone"`
}

// ContactUpdateRequest carries optional fields for client/supplier updates
type ContactUpdateRequest struct {
	Name  *string `json:"name"`
	Phone *string `json:"phone"`
}

type ClientHandler struct {
	Ledger *store.Ledger
}

func NewClientHandler(l *store.Ledger) *ClientHandler {
	return &ClientHandler{Ledger: l}
}

func (h *ClientHandler) List(c echo.Context) error {
	log := logger.FromContext(c)

	clients, err := h.Ledger.ListClients()
	if err != nil {
		return respondStoreError(c, log, "Failed to list clients", err)
	}
	log.Info("Clients retrieved", zap.Int("count", len(clients)))
	return c.JSON(http.StatusOK, clients)
}

func (h *ClientHandler) Create(c echo.Context) error {
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

	client, err := h.Ledger.CreateClient(req.Name, req.Phone)
	if err != nil {
		return respondStoreError(c, log, "Failed to create client", err)
	}

	prometheus.RecordLedgerOperation("client", "create", "ok")
	log.Info("Client created", zap.Uint("client_id", client.ID), zap.String("name", client.Name))
	return c.JSON(http.StatusCreated, client)
}

func (h *ClientHandler) Update(c echo.Context) error {
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

	client, err := h.Ledger.UpdateClient(id, store.ContactUpdate{Name: req.Name, Phone: req.Phone})
	if err != nil {
		return respondStoreError(c, log, "Failed to update client", err)
	}

	prometheus.RecordLedgerOperation("client", "update", "ok")
	log.Info("Client updated", zap.Uint("client_id", client.ID))
	return c.JSON(http.StatusOK, client)
}

func (h *ClientHandler) Delete(c echo.Context) error {
	log := logger.FromContext(c)
	id, err := pathID(c)
	if err != nil {
		return badID(c)
	}

	if err := h.Ledger.DeleteClient(id); err != nil {
		return respondStoreError(c, log, "Failed to delete client", err)
	}

	prometheus.RecordLedgerOperation("client", "delete", "ok")
	log.Info("Client deleted", zap.Uint("client_id", id))
	return c.JSON(http.StatusOK, echo.Map{"message": "Client deleted successfully"})
}
