package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Service fronts the repository with a read-through cache. The cache is
// optional; without one every call goes straight to the repository.
type Service struct {
	repo  Repository
	cache Cache
	log   *zap.Logger
	sfg   singleflight.Group // Prevents cache stampede
}

func NewService(repo Repository, cache Cache, log *zap.Logger) *Service {
	return &Service{
		repo:  repo,
		cache: cache,
		log:   log,
	}
}

func (s *Service) GetProduct(ctx context.Context, id int64) (*Product, error) {
	if s.cache == nil {
		return s.repo.GetProduct(ctx, id)
	}

	// Use singleflight so concurrent misses for the same product trigger a
	// single repository read.
	v, err, _ := s.sfg.Do(productKey(id), func() (interface{}, error) {
		p, err := s.cache.GetProduct(ctx, id)
		if err == nil {
			return p, nil
		}
		if !errors.Is(err, ErrCacheMiss) {
			s.log.Warn("product cache get failed", zap.Int64("product_id", id), zap.Error(err))
		}

		p, err = s.repo.GetProduct(ctx, id)
		if err != nil {
			return nil, err
		}

		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			if err := s.cache.SetProduct(ctx, p); err != nil {
				s.log.Warn("product cache set failed", zap.Int64("product_id", id), zap.Error(err))
			}
		}()

		return p, nil
	})
	if err != nil {
		return nil, err
	}

	return v.(*Product), nil
}

func (s *Service) ListAvailable(ctx context.Context) ([]Product, error) {
	if s.cache == nil {
		return s.repo.ListAvailable(ctx)
	}

	v, err, _ := s.sfg.Do(availableKey, func() (interface{}, error) {
		products, err := s.cache.GetAvailable(ctx)
		if err == nil {
			return products, nil
		}
		if !errors.Is(err, ErrCacheMiss) {
			s.log.Warn("availability cache get failed", zap.Error(err))
		}

		products, err = s.repo.ListAvailable(ctx)
		if err != nil {
			return nil, err
		}

		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			if err := s.cache.SetAvailable(ctx, products); err != nil {
				s.log.Warn("availability cache set failed", zap.Error(err))
			}
		}()

		return products, nil
	})
	if err != nil {
		return nil, err
	}

	return v.([]Product), nil
}

// ListAll bypasses the cache: the admin screens must see exactly what is in
// the database.
func (s *Service) ListAll(ctx context.Context) ([]Product, error) {
	return s.repo.ListAll(ctx)
}

func (s *Service) CreateProduct(ctx context.Context, p *Product) error {
	if err := s.repo.CreateProduct(ctx, p); err != nil {
		return fmt.Errorf("create product: %w", err)
	}
	s.invalidate(p.ID)
	return nil
}

func (s *Service) UpdateProduct(ctx context.Context, p *Product) error {
	if err := s.repo.UpdateProduct(ctx, p); err != nil {
		return err
	}
	s.invalidate(p.ID)
	return nil
}

func (s *Service) DeleteProduct(ctx context.Context, id int64) error {
	if err := s.repo.DeleteProduct(ctx, id); err != nil {
		return err
	}
	s.invalidate(id)
	return nil
}

func (s *Service) invalidate(id int64) {
	if s.cache == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.cache.Invalidate(ctx, id); err != nil {
		s.log.Warn("cache invalidate failed", zap.Int64("product_id", id), zap.Error(err))
	}
}
