package main

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"go-retail-pos/internal/config"
	"go-retail-pos/internal/model"
	"go-retail-pos/internal/repository"
	"go-retail-pos/pkg/database"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

func main() {
	// 1. Load Env
	if err := godotenv.Load(); err != nil {
		slog.Warn(".env file not found, relying on system env")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	// 2. Setup Database
	db, err := database.ConnectDB(cfg.DatabaseURL, false)
	if err != nil {
		slog.Error("database unavailable", "error", err)
		os.Exit(1)
	}
	if err := model.Migrate(db); err != nil {
		slog.Error("migration failed", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	products := repository.NewProductRepo(db)
	staff := repository.NewStaffRepo(db)

	// 3. Products, matched by name so reruns are no-ops
	for _, p := range demoProducts() {
		_, err := products.FindByName(ctx, p.Name)
		if err == nil {
			continue
		}
		if !errors.Is(err, repository.ErrNotFound) {
			slog.Error("lookup failed", "product", p.Name, "error", err)
			os.Exit(1)
		}
		if err := products.Create(ctx, &p); err != nil {
			slog.Error("create failed", "product", p.Name, "error", err)
			os.Exit(1)
		}
		slog.Info("product seeded", "name", p.Name, "quantity", p.Quantity)
	}

	// 4. Staff, matched by email
	for _, s := range demoStaff() {
		_, err := staff.FindByEmail(ctx, s.Email)
		if err == nil {
			continue
		}
		if !errors.Is(err, repository.ErrNotFound) {
			slog.Error("lookup failed", "email", s.Email, "error", err)
			os.Exit(1)
		}
		if err := staff.Create(ctx, &s); err != nil {
			slog.Error("create failed", "email", s.Email, "error", err)
			os.Exit(1)
		}
		slog.Info("staff seeded", "name", s.Name, "role", s.Role)
	}

	slog.Info("seed complete")
}

func money(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func demoProducts() []model.Product {
	return []model.Product{
		{Name: "Item A", Category: "Kids", Price: money("70"), WholesalePrice: money("50"), WholesalePriceWithProfit: money("70"), Quantity: 10, MinStock: 3, BrandName: "Generic"},
		{Name: "Item B", Category: "Kids", Price: money("45"), WholesalePrice: money("30"), WholesalePriceWithProfit: money("45"), Quantity: 1, MinStock: 2, BrandName: "Generic"},
		{Name: "Baby Wipes", Category: "Baby Care", Price: money("25.50"), WholesalePrice: money("18"), WholesalePriceWithProfit: money("25.50"), Quantity: 40, MinStock: 10, BrandName: "Softy"},
		{Name: "School Socks (3 pack)", Category: "Clothing", Price: money("35"), WholesalePrice: money("22.75"), WholesalePriceWithProfit: money("35"), Quantity: 0, MinStock: 5},
	}
}

func demoStaff() []model.Staff {
	return []model.Staff{
		{Name: "Abena Owusu", Role: model.StaffManager, Email: "abena@owoabenes.example"},
		{Name: "Kofi Mensah", Role: model.StaffCashier, Email: "kofi@owoabenes.example"},
		{Name: "Yaw Boateng", Role: model.StaffSalesRep, Email: "yaw@owoabenes.example"},
	}
}
