package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

const productsCacheKey = "catalog:products"

// Product is one sellable article the field app preloads.
type Product struct {
	ID          uuid.UUID `json:"id"`
	SrNo        int       `json:"sr_no"`
	EAN         string    `json:"ean"`
	ArticleCode string    `json:"article_code"`
	Description string    `json:"description"`
	MRP         int       `json:"mrp"`
	SizeKg      float64   `json:"size_kg"`
	GSTRate     float64   `json:"gst_rate"`
}

// Repository loads products from PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository wraps the pool.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// ListProducts returns the full catalog ordered by serial number.
func (r *Repository) ListProducts(ctx context.Context) ([]Product, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, sr_no, ean, article_code, description, mrp, size_kg, gst_rate
		FROM products ORDER BY sr_no`)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	var products []Product
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.SrNo, &p.EAN, &p.ArticleCode, &p.Description, &p.MRP, &p.SizeKg, &p.GSTRate); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// Store loads the catalog from persistent storage.
type Store interface {
	ListProducts(ctx context.Context) ([]Product, error)
}

// Service serves the catalog through a Redis read-through cache. The catalog
// changes rarely and every login and punch-in fetches it, so a short TTL keeps
// the database out of the hot path. A nil client degrades to direct reads.
type Service struct {
	repo   Store
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewService constructs the catalog service.
func NewService(repo Store, client *redis.Client, ttl time.Duration, logger *slog.Logger) *Service {
	return &Service{repo: repo, client: client, ttl: ttl, logger: logger}
}

// ListProducts returns the catalog, cached.
func (s *Service) ListProducts(ctx context.Context) ([]Product, error) {
	if s.client == nil {
		return s.repo.ListProducts(ctx)
	}

	raw, err := s.client.Get(ctx, productsCacheKey).Bytes()
	if err == nil {
		var products []Product
		if err := json.Unmarshal(raw, &products); err == nil {
			return products, nil
		}
		// Corrupt entry, fall through and rebuild.
	} else if !errors.Is(err, redis.Nil) {
		s.logger.Warn("catalog cache read failed", slog.Any("error", err))
	}

	products, err := s.repo.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	if encoded, err := json.Marshal(products); err == nil {
		if err := s.client.Set(ctx, productsCacheKey, encoded, s.ttl).Err(); err != nil {
			s.logger.Warn("catalog cache write failed", slog.Any("error", err))
		}
	}
	return products, nil
}

// Invalidate drops the cached catalog.
func (s *Service) Invalidate(ctx context.Context) error {
	if s.client == nil {
		return nil
	}
	return s.client.Del(ctx, productsCacheKey).Err()
}
