package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/weblarek/backend/internal/model"
	"github.com/weblarek/backend/internal/query"
	"github.com/weblarek/backend/internal/store"
	"github.com/weblarek/backend/pkg/errors"
)

// customers implements store.CustomerRepository on the customers collection.
// customers 在客户集合上实现store.CustomerRepository。
type customers struct {
	col *mongo.Collection
}

func (r *customers) List(ctx context.Context, opts store.ListOptions) ([]model.Customer, int64, error) {
	match := toBSON(opts.Filter)
	total, err := r.col.CountDocuments(ctx, match)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count customers: %w", err)
	}

	findOpts := options.Find().
		SetSort(toSort(opts.Sort)).
		SetSkip(query.Skip(opts.Page, opts.Limit)).
		SetLimit(query.ClampLimit(opts.Limit))
	cur, err := r.col.Find(ctx, match, findOpts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list customers: %w", err)
	}
	var out []model.Customer
	if err := cur.All(ctx, &out); err != nil {
		return nil, 0, fmt.Errorf("failed to decode customers: %w", err)
	}
	return out, total, nil
}

func (r *customers) Get(ctx context.Context, id string) (*model.Customer, error) {
	var c model.Customer
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&c)
	if err == mongo.ErrNoDocuments {
		return nil, errors.NotFound("customer")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get customer %s: %w", id, err)
	}
	return &c, nil
}

func (r *customers) Update(ctx context.Context, id string, upd store.CustomerUpdate) (*model.Customer, error) {
	set := bson.M{}
	if upd.Name != nil {
		set["name"] = *upd.Name
	}
	if upd.Email != nil {
		set["email"] = *upd.Email
	}
	if upd.Phone != nil {
		set["phone"] = *upd.Phone
	}
	if len(set) == 0 {
		return r.Get(ctx, id)
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var c model.Customer
	err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&c)
	if err == mongo.ErrNoDocuments {
		return nil, errors.NotFound("customer")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update customer %s: %w", id, err)
	}
	return &c, nil
}

func (r *customers) Delete(ctx context.Context, id string) (*model.Customer, error) {
	var c model.Customer
	err := r.col.FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&c)
	if err == mongo.ErrNoDocuments {
		return nil, errors.NotFound("customer")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to delete customer %s: %w", id, err)
	}
	return &c, nil
}
