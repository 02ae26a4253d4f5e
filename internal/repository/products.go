package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"order-loom/internal/model"
)

type MongoProductRepository struct {
	col *mongo.Collection
}

func NewMongoProductRepository(db *mongo.Database) *MongoProductRepository {
	return &MongoProductRepository{col: db.Collection(productsCollection)}
}

func (m *MongoProductRepository) Insert(ctx context.Context, p *model.Product) error {
	res, err := m.col.InsertOne(ctx, p)
	if err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		p.ID = id
	}
	return nil
}

func (m *MongoProductRepository) FindByID(ctx context.Context, id string) (*model.Product, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	var res model.Product
	err = m.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&res)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find product: %w", err)
	}
	return &res, nil
}

func (m *MongoProductRepository) FindAll(ctx context.Context) ([]*model.Product, error) {
	return m.find(ctx, options.Find())
}

// FindLatest devuelve los últimos productos por fecha de alta.
func (m *MongoProductRepository) FindLatest(ctx context.Context, limit int64) ([]*model.Product, error) {
	return m.find(ctx, options.Find().SetSort(bson.D{{Key: "date", Value: -1}}).SetLimit(limit))
}

func (m *MongoProductRepository) find(ctx context.Context, opts *options.FindOptions) ([]*model.Product, error) {
	cur, err := m.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("find products: %w", err)
	}
	out, err := decodeAll[model.Product](ctx, cur)
	if err != nil {
		return nil, fmt.Errorf("decode products: %w", err)
	}
	return out, nil
}
