package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/MaggieNush/milk-bar/internal/store"
	"github.com/MaggieNush/milk-bar/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// pathID parses the :id route parameter.
func pathID(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}

func badID(c echo.Context) error {
	return c.JSON(http.StatusBadRequest, echo.Map{"error": "Invalid id"})
}

// respondStoreError maps a ledger error to an HTTP response. The taxonomy is
// NotFound, InvalidArgument, InsufficientStock, ReferentialConflict plus the
// schema-level uniqueness violation.
func respondStoreError(c echo.Context, log *zap.Logger, msg string, err error) error {
	var ins *store.InsufficientStockError
	var ref *store.ReferentialConflictError
	switch {
	case errors.Is(err, store.ErrNotFound):
		log.Warn(msg, zap.Error(err))
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
	case errors.Is(err, store.ErrInvalidArgument):
		log.Warn(msg, zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case errors.As(err, &ins):
		log.Warn(msg,
			zap.Uint("product_id", ins.ProductID),
			zap.Float64("available", ins.Available),
			zap.Float64("requested", ins.Requested))
		prometheus.RecordInsufficientStock()
		return c.JSON(http.StatusConflict, echo.Map{
			"error":        err.Error(),
			"product_id":   ins.ProductID,
			"product_name": ins.ProductName,
			"available":    ins.Available,
			"requested":    ins.Requested,
		})
	case errors.As(err, &ref):
		log.Warn(msg, zap.Error(err))
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	case errors.Is(err, gorm.ErrDuplicatedKey):
		log.Warn(msg, zap.Error(err))
		return c.JSON(http.StatusConflict, echo.Map{"error": "Record with this name already exists"})
	default:
		log.Error(msg, zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": msg})
	}
}

// syncStockGauge refreshes the stock gauge for every product. The catalog is
// corner-shop sized, so a full refresh after stock-moving operations is fine.
func syncStockGauge(l *store.Ledger) {
	products, err := l.ListProducts()
	if err != nil {
		return
	}
	for _, p := range products {
		prometheus.UpdateProductStock(p.ID, p.Name, p.Stock)
	}
}
