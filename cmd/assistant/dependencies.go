package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/FACorreiaa/warehouse-assistant/internal/domain/expenses"
	"github.com/FACorreiaa/warehouse-assistant/internal/domain/reference"
	"github.com/FACorreiaa/warehouse-assistant/internal/domain/refiner"
	"github.com/FACorreiaa/warehouse-assistant/internal/domain/warehouse"
	"github.com/FACorreiaa/warehouse-assistant/pkg/config"
	"github.com/FACorreiaa/warehouse-assistant/pkg/db"
	"github.com/FACorreiaa/warehouse-assistant/pkg/llm"
)

// Dependencies holds all application dependencies
type Dependencies struct {
	Config *config.Config
	Logger *slog.Logger

	WarehouseDB *db.DB
	InvoicesDB  *db.DB

	// Repositories
	ReferenceRepo *reference.Repository
	WarehouseRepo *warehouse.Repository
	InvoicesRepo  *expenses.Repository

	// Services
	Generator llm.Generator
	Snapshot  *reference.Snapshot
	Refiner   *refiner.Refiner
	Expenses  *expenses.Service
}

// InitDependencies initializes all application dependencies
func InitDependencies(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Config: cfg,
		Logger: logger,
	}

	if err := deps.initDatabases(ctx); err != nil {
		return nil, fmt.Errorf("failed to init databases: %w", err)
	}

	if err := deps.initRepositories(); err != nil {
		return nil, fmt.Errorf("failed to init repositories: %w", err)
	}

	if err := deps.initServices(ctx); err != nil {
		return nil, fmt.Errorf("failed to init services: %w", err)
	}

	logger.Info("all dependencies initialized successfully")

	return deps, nil
}

// initDatabases connects the warehouse master store and the invoice store.
func (d *Dependencies) initDatabases(ctx context.Context) error {
	warehouseDB, err := db.Connect(ctx, d.Config.Warehouse.DSN(), db.TargetWarehouse, d.Logger)
	if err != nil {
		return err
	}
	d.WarehouseDB = warehouseDB

	invoicesDB, err := db.Connect(ctx, d.Config.Invoices.DSN(), db.TargetInvoices, d.Logger)
	if err != nil {
		return err
	}
	d.InvoicesDB = invoicesDB

	d.Logger.Info("databases connected")
	return nil
}

// initRepositories initializes all repository layer dependencies
func (d *Dependencies) initRepositories() error {
	d.ReferenceRepo = reference.NewRepository(d.WarehouseDB)
	d.WarehouseRepo = warehouse.NewRepository(d.WarehouseDB)
	d.InvoicesRepo = expenses.NewRepository(d.InvoicesDB)

	d.Logger.Info("repositories initialized")
	return nil
}

// initServices builds the reference snapshot, the refiner and the tool
// executor. The snapshot is loaded once and frozen for the process lifetime.
func (d *Dependencies) initServices(ctx context.Context) error {
	d.Generator = llm.NewOpenAIClient(d.Config.LLM, d.Logger)

	// A cheap probe catches an unreachable backend at startup instead of on
	// the first user query.
	if _, err := d.Generator.Generate(ctx, "test"); err != nil {
		return fmt.Errorf("text-generation backend unreachable: %w", err)
	}
	d.Logger.Info("text-generation backend reachable", "model", d.Config.LLM.Model)

	regionMap := reference.LoadRegionMap(d.Config.Reference.RegionMapFile, d.Logger)

	snapshot, err := reference.Load(ctx, d.ReferenceRepo, regionMap, d.Logger)
	if err != nil {
		return fmt.Errorf("failed to load reference data: %w", err)
	}
	d.Snapshot = snapshot

	d.Refiner = refiner.New(d.Generator, d.Snapshot, d.Config.Reference.WarehouseSampleSize, d.Logger)
	d.Expenses = expenses.NewService(d.Snapshot, d.WarehouseRepo, d.InvoicesRepo, d.Logger)

	d.Logger.Info("services initialized",
		"regions", len(d.Snapshot.Regions()),
		"cities", len(d.Snapshot.Cities()),
		"warehouses", len(d.Snapshot.Warehouses()))
	return nil
}

// Close releases held connections.
func (d *Dependencies) Close() {
	if d.WarehouseDB != nil {
		d.WarehouseDB.Close()
	}
	if d.InvoicesDB != nil {
		d.InvoicesDB.Close()
	}
}
