package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"karma-light/internal/config"
	"karma-light/internal/database"
	"karma-light/internal/domain"
	"karma-light/internal/logger"
	"karma-light/internal/repository"
	"karma-light/internal/service"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// seedCatalog is the on-disk seed format: categories with their products.
type seedCatalog struct {
	Categories []seedCategory `json:"categories"`
}

type seedCategory struct {
	NameUK    string        `json:"name_uk"`
	NameRU    string        `json:"name_ru"`
	SortOrder int           `json:"sort_order"`
	Products  []seedProduct `json:"products"`
}

type seedProduct struct {
	NameUK          string `json:"name_uk"`
	NameRU          string `json:"name_ru"`
	DescriptionUK   string `json:"description_uk"`
	DescriptionRU   string `json:"description_ru"`
	Price           string `json:"price"`
	ImageURL        string `json:"image_url"`
	IsFeatured      bool   `json:"is_featured"`
	IsOnSale        bool   `json:"is_on_sale"`
	DiscountPercent *int   `json:"discount_percent"`
	SortOrder       int    `json:"sort_order"`
}

func main() {
	catalogPath := flag.String("catalog", "seed/catalog.json", "path to the catalog seed file")
	adminEmail := flag.String("admin-email", "", "initial admin email")
	adminPassword := flag.String("admin-password", "", "initial admin password")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found, relying on environment")
	}

	cfg := config.Load()

	log, err := logger.New(cfg.Server.Env)
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer log.Sync()

	db, err := database.Open(cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := database.RunMigrations(db, log); err != nil {
		log.Fatal("Failed to run migrations", zap.Error(err))
	}

	ctx := context.Background()

	catalog := service.NewCatalogService(
		repository.NewProductRepository(db),
		repository.NewCategoryRepository(db),
	)

	if err := seedCatalogFromFile(ctx, catalog, *catalogPath, log); err != nil {
		log.Fatal("Failed to seed catalog", zap.Error(err))
	}

	if *adminEmail != "" && *adminPassword != "" {
		if err := seedAdmin(ctx, db, cfg.JWT, *adminEmail, *adminPassword, log); err != nil {
			log.Fatal("Failed to seed admin", zap.Error(err))
		}
	}

	log.Info("Seeding complete")
}

// seedCatalogFromFile loads the seed file and inserts categories and
// products through the catalog service, so seeded rows get the same
// timestamps and category checks as admin-created ones. Categories that
// already exist are reused, so re-running the seeder against a seeded
// database only adds products.
func seedCatalogFromFile(ctx context.Context, catalog service.CatalogService, path string, log *zap.Logger) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read seed file: %w", err)
	}

	var seed seedCatalog
	if err := json.Unmarshal(data, &seed); err != nil {
		return fmt.Errorf("failed to parse seed file: %w", err)
	}

	for _, sc := range seed.Categories {
		category := &domain.Category{
			NameUK:    sc.NameUK,
			NameRU:    sc.NameRU,
			SortOrder: sc.SortOrder,
		}

		err := catalog.CreateCategory(ctx, category)
		switch {
		case errors.Is(err, repository.ErrCategoryAlreadyExists):
			existing, findErr := findCategoryByName(ctx, catalog, sc.NameUK)
			if findErr != nil {
				return findErr
			}
			category = existing
		case err != nil:
			return fmt.Errorf("failed to create category %q: %w", sc.NameUK, err)
		default:
			log.Info("Created category", zap.String("name", sc.NameUK), zap.Int64("id", category.ID))
		}

		for _, sp := range sc.Products {
			price, err := decimal.NewFromString(sp.Price)
			if err != nil {
				return fmt.Errorf("invalid price %q for product %q: %w", sp.Price, sp.NameUK, err)
			}

			product := &domain.Product{
				NameUK:          sp.NameUK,
				NameRU:          sp.NameRU,
				DescriptionUK:   sp.DescriptionUK,
				DescriptionRU:   sp.DescriptionRU,
				Price:           price,
				CategoryID:      category.ID,
				ImageURL:        sp.ImageURL,
				IsFeatured:      sp.IsFeatured,
				IsOnSale:        sp.IsOnSale,
				DiscountPercent: sp.DiscountPercent,
				SortOrder:       sp.SortOrder,
			}

			if err := catalog.CreateProduct(ctx, product); err != nil {
				return fmt.Errorf("failed to create product %q: %w", sp.NameUK, err)
			}
			log.Info("Created product", zap.String("name", sp.NameUK), zap.Int64("id", product.ID))
		}
	}

	return nil
}

func findCategoryByName(ctx context.Context, catalog service.CatalogService, nameUK string) (*domain.Category, error) {
	all, err := catalog.Categories(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	for _, c := range all {
		if c.NameUK == nameUK {
			return c, nil
		}
	}
	return nil, fmt.Errorf("category %q exists but could not be found", nameUK)
}

// seedAdmin creates the initial catalog-management account. An existing
// account with the same email is left untouched.
func seedAdmin(ctx context.Context, db *sql.DB, jwtCfg config.JWTConfig, email, password string, log *zap.Logger) error {
	admins := repository.NewAdminUserRepository(db)
	refreshTokens := repository.NewRefreshTokenRepository(db)
	auth := service.NewAuthService(
		admins,
		refreshTokens,
		jwtCfg.Secret,
		time.Duration(jwtCfg.AccessExpiry)*time.Minute,
		time.Duration(jwtCfg.RefreshExpiry)*24*time.Hour,
	)

	admin, err := auth.CreateAdmin(ctx, email, password)
	if errors.Is(err, repository.ErrAdminAlreadyExists) {
		log.Info("Admin already exists", zap.String("email", email))
		return nil
	}
	if err != nil {
		return err
	}

	log.Info("Created admin", zap.String("email", email), zap.String("id", admin.ID.String()))
	return nil
}
