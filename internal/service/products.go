package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"order-loom/internal/model"
	"order-loom/internal/repository"
)

const latestProductsLimit = 6

type ProductRepository interface {
	Insert(ctx context.Context, p *model.Product) error
	FindByID(ctx context.Context, id string) (*model.Product, error)
	FindAll(ctx context.Context) ([]*model.Product, error)
	FindLatest(ctx context.Context, limit int64) ([]*model.Product, error)
}

type ProductService struct {
	repo ProductRepository
	now  func() time.Time
}

func NewProductService(r ProductRepository) *ProductService {
	return &ProductService{repo: r, now: func() time.Time { return time.Now().UTC() }}
}

func (s *ProductService) Latest(ctx context.Context) ([]*model.Product, error) {
	out, err := s.repo.FindLatest(ctx, latestProductsLimit)
	if err != nil {
		return nil, storageFault("latest products", err)
	}
	return out, nil
}

func (s *ProductService) List(ctx context.Context) ([]*model.Product, error) {
	out, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, storageFault("list products", err)
	}
	return out, nil
}

func (s *ProductService) Get(ctx context.Context, id string) (*model.Product, error) {
	p, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("%w: product not found", ErrNotFound)
	}
	if err != nil {
		return nil, storageFault("find product", err)
	}
	return p, nil
}

// Create da de alta un producto a nombre del manager que lo carga.
func (s *ProductService) Create(ctx context.Context, p *model.Product, createdBy string) (*model.Product, error) {
	if strings.TrimSpace(p.Title) == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if p.Price < 0 || p.AvailableQuantity < 0 || p.MinimumOrder < 0 {
		return nil, fmt.Errorf("%w: price and quantities must not be negative", ErrInvalidInput)
	}

	p.ID = primitive.NilObjectID
	p.CreatedBy = createdBy
	p.Date = s.now()
	if err := s.repo.Insert(ctx, p); err != nil {
		return nil, storageFault("insert product", err)
	}
	return p, nil
}
