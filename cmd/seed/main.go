package main

import (
	"flag"
	"strings"

	"github.com/MaggieNush/milk-bar/internal/importer"
	"github.com/MaggieNush/milk-bar/internal/store"
	"github.com/MaggieNush/milk-bar/pkg/config"
	"github.com/MaggieNush/milk-bar/pkg/database"
	"github.com/MaggieNush/milk-bar/pkg/logger"

	"go.uber.org/zap"
)

type sampleProduct struct {
	name  string
	price float64
	unit  string
	stock float64
}

type sampleContact struct {
	name  string
	phone string
}

type sampleDelivery struct {
	supplier     string
	product      string
	quantity     float64
	pricePerUnit float64
}

var (
	sampleProducts = []sampleProduct{
		{"Fresh Milk", 60.0, "liter", 100.0},
		{"Mala", 50.0, "packet", 60.0},
		{"Yogurt", 80.0, "bottle", 40.0},
	}
	sampleSuppliers = []sampleContact{
		{"KCC Dairies", "0700000001"},
		{"Brookside Dairies", "0700000002"},
	}
	sampleClients = []sampleContact{
		{"Jane Doe", "0711222333"},
		{"Kamau", "0700111222"},
	}
	sampleDeliveries = []sampleDelivery{
		{"KCC Dairies", "Fresh Milk", 50.0, 45.0},
		{"KCC Dairies", "Mala", 30.0, 40.0},
		{"Brookside Dairies", "Yogurt", 20.0, 60.0},
	}
)

// Seeds sample data for a fresh install, or imports a legacy JSON data file
// when -legacy is given. Seeding is idempotent by name.
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	logger.InitLogger(cfg)
	log := logger.GetLogger()
	defer log.Sync()

	legacyFile := flag.String("legacy", "", "path to a legacy JSON data file to import instead of seeding samples")
	flag.Parse()

	if err := database.InitDB(cfg); err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	db := database.GetDB()

	if *legacyFile != "" {
		stats, err := importer.ImportFile(db, *legacyFile)
		if err != nil {
			log.Fatal("Legacy import failed", zap.Error(err))
		}
		log.Info("Legacy import complete",
			zap.String("file", *legacyFile),
			zap.Int("products", stats.Products),
			zap.Int("clients", stats.Clients),
			zap.Int("suppliers", stats.Suppliers),
			zap.Int("deliveries", stats.Deliveries),
			zap.Int("sales", stats.Sales),
			zap.Int("sale_items", stats.SaleItems),
			zap.Int("skipped_sales", stats.SkippedSales))
		return
	}

	ledger := store.New(db)
	productIDs := map[string]uint{}
	supplierIDs := map[string]uint{}

	existingProducts, err := ledger.ListProducts()
	if err != nil {
		log.Fatal("Failed to list products", zap.Error(err))
	}
	for _, p := range existingProducts {
		productIDs[strings.ToLower(p.Name)] = p.ID
	}
	for _, sp := range sampleProducts {
		if _, ok := productIDs[strings.ToLower(sp.name)]; ok {
			continue
		}
		p, err := ledger.CreateProduct(sp.name, sp.price, sp.unit, sp.stock)
		if err != nil {
			log.Fatal("Failed to seed product", zap.String("name", sp.name), zap.Error(err))
		}
		productIDs[strings.ToLower(p.Name)] = p.ID
		log.Info("Seeded product", zap.String("name", p.Name), zap.Uint("id", p.ID))
	}

	existingSuppliers, err := ledger.ListSuppliers()
	if err != nil {
		log.Fatal("Failed to list suppliers", zap.Error(err))
	}
	for _, s := range existingSuppliers {
		supplierIDs[strings.ToLower(s.Name)] = s.ID
	}
	for _, ss := range sampleSuppliers {
		if _, ok := supplierIDs[strings.ToLower(ss.name)]; ok {
			continue
		}
		s, err := ledger.CreateSupplier(ss.name, ss.phone)
		if err != nil {
			log.Fatal("Failed to seed supplier", zap.String("name", ss.name), zap.Error(err))
		}
		supplierIDs[strings.ToLower(s.Name)] = s.ID
		log.Info("Seeded supplier", zap.String("name", s.Name), zap.Uint("id", s.ID))
	}

	existingClients, err := ledger.ListClients()
	if err != nil {
		log.Fatal("Failed to list clients", zap.Error(err))
	}
	clientNames := map[string]bool{}
	for _, c := range existingClients {
		clientNames[strings.ToLower(c.Name)] = true
	}
	for _, sc := range sampleClients {
		if clientNames[strings.ToLower(sc.name)] {
			continue
		}
		c, err := ledger.CreateClient(sc.name, sc.phone)
		if err != nil {
			log.Fatal("Failed to seed client", zap.String("name", sc.name), zap.Error(err))
		}
		log.Info("Seeded client", zap.String("name", c.Name), zap.Uint("id", c.ID))
	}

	// Sample deliveries only go in once; re-running the seeder must not
	// inflate stock.
	deliveries, err := ledger.ListDeliveries()
	if err != nil {
		log.Fatal("Failed to list deliveries", zap.Error(err))
	}
	if len(deliveries) > 0 {
		log.Info("Deliveries already present, skipping sample deliveries")
		return
	}
	for _, sd := range sampleDeliveries {
		supplierID := supplierIDs[strings.ToLower(sd.supplier)]
		productID := productIDs[strings.ToLower(sd.product)]
		d, err := ledger.RecordDelivery(supplierID, productID, sd.quantity, sd.pricePerUnit)
		if err != nil {
			log.Fatal("Failed to seed delivery",
				zap.String("supplier", sd.supplier),
				zap.String("product", sd.product),
				zap.Error(err))
		}
		log.Info("Seeded delivery",
			zap.Uint("id", d.ID),
			zap.String("product", sd.product),
			zap.Float64("quantity", d.Quantity),
			zap.Float64("total_cost", d.TotalCost))
	}
	log.Info("Seeding complete")
}
