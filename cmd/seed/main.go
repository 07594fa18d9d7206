// cmd/seed/main.go: creates or refreshes a demo supplier, client, category
// and a handful of products. Safe to run repeatedly.
// Usage: go run ./cmd/seed
package main

import (
	"context"
	"errors"
	"os"
	"time"

	"bclick/internal/config"
	"bclick/internal/infra"
	"bclick/internal/model"
	"bclick/internal/repository"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type seedProduct struct {
	name    string
	barCode string
	price   string
	stock   int
}

var demoProducts = []seedProduct{
	{"Yerba Mate 1kg", "7790387000016", "3250.00", 120},
	{"Aceite de Girasol 1.5L", "7790060023618", "2890.50", 60},
	{"Harina 000 1kg", "7792180001023", "980.00", 200},
	{"Azucar 1kg", "7790150100014", "1150.00", 0},
}

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config")
	}
	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("db connect")
	}
	ctx := context.Background()

	users := repository.NewUserRepository(db)
	supplierName := "Distribuidora Demo"
	supplier := &model.User{ExternalID: "demo|supplier", Role: model.RoleSupplier, Name: "Demo Supplier", Email: "supplier@bclick.local", BusinessName: &supplierName, Active: true}
	client := &model.User{ExternalID: "demo|client", Role: model.RoleClient, Name: "Demo Client", Email: "client@bclick.local", Active: true}
	for _, u := range []*model.User{supplier, client} {
		if err := users.Upsert(ctx, u); err != nil {
			log.Fatal().Err(err).Str("subject", u.ExternalID).Msg("upsert user")
		}
		log.Info().Str("subject", u.ExternalID).Str("id", u.ID.String()).Str("role", u.Role.String()).Msg("user ready")
	}

	categories := repository.NewCategoryRepository(db)
	cat, err := categories.FindByName(ctx, supplier.ID, "Almacen")
	if errors.Is(err, gorm.ErrRecordNotFound) {
		cat = &model.Category{SupplierID: supplier.ID, Name: "Almacen", Status: model.CategoryShown}
		err = categories.Create(ctx, cat)
	}
	if err != nil {
		log.Fatal().Err(err).Msg("category")
	}

	products := repository.NewProductRepository(db)
	for _, sp := range demoProducts {
		if _, err := products.FindByBarcode(ctx, sp.barCode); err == nil {
			log.Info().Str("bar_code", sp.barCode).Msg("product exists, skipped")
			continue
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Fatal().Err(err).Msg("lookup product")
		}
		p := &model.Product{
			SupplierID: supplier.ID,
			CategoryID: &cat.ID,
			Name:       sp.name,
			BarCode:    sp.barCode,
			Price:      decimal.RequireFromString(sp.price),
			Stock:      sp.stock,
			Status:     model.ProductActive,
		}
		if err := products.Create(ctx, p); err != nil {
			log.Fatal().Err(err).Str("bar_code", sp.barCode).Msg("create product")
		}
		log.Info().Str("name", p.Name).Int("stock", p.Stock).Msg("product created")
	}

	log.Info().Msg("seed complete; mint tokens with: go run ./cmd/devtoken -sub demo|client")
}
