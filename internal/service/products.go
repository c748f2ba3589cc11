package service

import (
	"context"

	"github.com/weblarek/backend/internal/model"
	"github.com/weblarek/backend/internal/query"
	"github.com/weblarek/backend/internal/store"
	"github.com/weblarek/backend/pkg/errors"
)

// Products carries the public catalogue reads.
// Products 承载公开目录的读取。
type Products struct {
	products store.ProductRepository
}

func NewProducts(products store.ProductRepository) *Products {
	return &Products{products: products}
}

func (s *Products) List(ctx context.Context, page, limit int64) ([]model.Product, model.Pagination, error) {
	page, limit = query.ClampPage(page), query.ClampLimit(limit)
	products, total, err := s.products.List(ctx, page, limit)
	if err != nil {
		return nil, model.Pagination{}, err
	}
	return products, query.NewPagination(total, page, limit), nil
}

func (s *Products) Get(ctx context.Context, id string) (*model.Product, error) {
	if !store.ValidID(id) {
		return nil, errors.BadRequest("malformed product id")
	}
	return s.products.Get(ctx, id)
}
