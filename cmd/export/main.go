package main

import (
	"flag"

	"github.com/MaggieNush/milk-bar/internal/export"
	"github.com/MaggieNush/milk-bar/internal/store"
	"github.com/MaggieNush/milk-bar/pkg/config"
	"github.com/MaggieNush/milk-bar/pkg/database"
	"github.com/MaggieNush/milk-bar/pkg/logger"

	"go.uber.org/zap"
)

// Exports the whole ledger to CSV files: products, clients, suppliers,
// deliveries and sales (flattened per line item).
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	logger.InitLogger(cfg)
	log := logger.GetLogger()
	defer log.Sync()

	outDir := flag.String("out", cfg.Export.OutDir, "directory to write CSV files into")
	flag.Parse()

	if err := database.InitDB(cfg); err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}

	ledger := store.New(database.GetDB())
	snap, err := ledger.Snapshot()
	if err != nil {
		log.Fatal("Failed to take snapshot", zap.Error(err))
	}
	if err := export.WriteAll(snap, *outDir); err != nil {
		log.Fatal("Failed to write CSV files", zap.Error(err))
	}

	log.Info("Export complete",
		zap.String("out_dir", *outDir),
		zap.Int("products", len(snap.Products)),
		zap.Int("clients", len(snap.Clients)),
		zap.Int("suppliers", len(snap.Suppliers)),
		zap.Int("deliveries", len(snap.Deliveries)),
		zap.Int("sales", len(snap.Sales)))
}
