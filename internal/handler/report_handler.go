package handler

import (
	"net/http"

	"github.com/MaggieNush/milk-bar/internal/report"
	"github.com/MaggieNush/milk-bar/internal/store"
	"github.com/MaggieNush/milk-bar/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type ReportHandler struct {
	Ledger *store.Ledger
}

func NewReportHandler(l *store.Ledger) *ReportHandler {
	return &ReportHandler{Ledger: l}
}

// Snapshot returns a consistent point-in-time read of the whole ledger
func (h *ReportHandler) Snapshot(c echo.Context) error {
	log := logger.FromContext(c)

	snap, err := h.Ledger.Snapshot()
	if err != nil {
		return respondStoreError(c, log, "Failed to take snapshot", err)
	}
	log.Info("Snapshot taken",
		zap.Int("products", len(snap.Products)),
		zap.Int("sales", len(snap.Sales)),
		zap.Int("deliveries", len(snap.Deliveries)))
	return c.JSON(http.StatusOK, snap)
}

// Summary returns the dashboard totals: sales revenue, delivery expenses,
// profit and recent activity
func (h *ReportHandler) Summary(c echo.Context) error {
	log := logger.FromContext(c)

	snap, err := h.Ledger.Snapshot()
	if err != nil {
		return respondStoreError(c, log, "Failed to take snapshot", err)
	}
	summary := report.Summarize(snap)
	log.Info("Summary computed",
		zap.Float64("total_sales", summary.TotalSales),
		zap.Float64("total_expenses", summary.TotalExpenses),
		zap.Float64("profit", summary.Profit))
	return c.JSON(http.StatusOK, summary)
}
