package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/weblarek/backend/internal/model"
	"github.com/weblarek/backend/internal/query"
	"github.com/weblarek/backend/pkg/errors"
)

// products implements store.ProductRepository. The catalog is written by an
// external collaborator; this backend only reads it.
//
// products 实现store.ProductRepository。目录由外部协作者写入；本后端只读取它。
type products struct {
	col *mongo.Collection
}

func (r *products) List(ctx context.Context, page, limit int64) ([]model.Product, int64, error) {
	total, err := r.col.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	findOpts := options.Find().
		SetSort(bson.D{{Key: "title", Value: 1}}).
		SetSkip(query.Skip(page, limit)).
		SetLimit(query.ClampLimit(limit))
	cur, err := r.col.Find(ctx, bson.M{}, findOpts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list products: %w", err)
	}
	var out []model.Product
	if err := cur.All(ctx, &out); err != nil {
		return nil, 0, fmt.Errorf("failed to decode products: %w", err)
	}
	return out, total, nil
}

func (r *products) Get(ctx context.Context, id string) (*model.Product, error) {
	var p model.Product
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if err == mongo.ErrNoDocuments {
		return nil, errors.NotFound("product")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get product %s: %w", id, err)
	}
	return &p, nil
}

func (r *products) GetByIDs(ctx context.Context, ids []string) ([]model.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	cur, err := r.col.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("failed to get products by ids: %w", err)
	}
	var out []model.Product
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}
	return out, nil
}
