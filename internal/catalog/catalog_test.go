package catalog

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

type stubStore struct {
	products []Product
	calls    int
}

func (s *stubStore) ListProducts(ctx context.Context) ([]Product, error) {
	s.calls++
	return s.products, nil
}

func TestListProductsReadThrough(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := &stubStore{products: []Product{
		{SrNo: 1, EAN: "8901234567890", ArticleCode: "ART-1", Description: "ALMOND COOKIES", MRP: 99, SizeKg: 0.5, GSTRate: 18},
	}}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := NewService(store, client, time.Minute, logger)
	ctx := context.Background()

	first, err := svc.ListProducts(ctx)
	require.NoError(t, err)
	require.Len(t, first, 1)
	require.Equal(t, 1, store.calls)

	// Second read is served from cache.
	second, err := svc.ListProducts(ctx)
	require.NoError(t, err)
	require.Equal(t, first, second)
	require.Equal(t, 1, store.calls)

	require.NoError(t, svc.Invalidate(ctx))
	_, err = svc.ListProducts(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, store.calls)
}

func TestListProductsTTLExpiry(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := &stubStore{products: []Product{{SrNo: 1, EAN: "1", ArticleCode: "A", Description: "X", MRP: 10, SizeKg: 1, GSTRate: 5}}}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := NewService(store, client, time.Minute, logger)
	ctx := context.Background()

	_, err := svc.ListProducts(ctx)
	require.NoError(t, err)

	mr.FastForward(2 * time.Minute)

	_, err = svc.ListProducts(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, store.calls)
}

func TestListProductsWithoutRedis(t *testing.T) {
	store := &stubStore{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := NewService(store, nil, time.Minute, logger)

	_, err := svc.ListProducts(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, store.calls)
}
