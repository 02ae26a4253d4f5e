package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"order-loom/internal/model"
)

type MongoUserRepository struct {
	col *mongo.Collection
}

func NewMongoUserRepository(db *mongo.Database) *MongoUserRepository {
	return &MongoUserRepository{col: db.Collection(usersCollection)}
}

func (m *MongoUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var res model.User
	err := m.col.FindOne(ctx, bson.M{"email": email}).Decode(&res)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &res, nil
}

// Upsert inserta el usuario si no existe. Si ya existe no toca rol ni
// aprobación, y devuelve el documento guardado.
func (m *MongoUserRepository) Upsert(ctx context.Context, u *model.User) (*model.User, error) {
	filter := bson.M{"email": u.Email}
	update := bson.M{"$setOnInsert": u}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var res model.User
	if err := m.col.FindOneAndUpdate(ctx, filter, update, opts).Decode(&res); err != nil {
		return nil, fmt.Errorf("upsert user: %w", err)
	}
	return &res, nil
}

func (m *MongoUserRepository) SetApproval(ctx context.Context, email, approval string) (*model.User, error) {
	return m.set(ctx, email, "adminApproval", approval)
}

// SetRole es la única vía para cambiar el rol; el registro siempre crea buyers.
func (m *MongoUserRepository) SetRole(ctx context.Context, email string, role model.Role) (*model.User, error) {
	return m.set(ctx, email, "role", role)
}

func (m *MongoUserRepository) set(ctx context.Context, email, field string, value any) (*model.User, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	update := bson.M{"$set": bson.M{field: value}}

	var res model.User
	err := m.col.FindOneAndUpdate(ctx, bson.M{"email": email}, update, opts).Decode(&res)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("set user %s: %w", field, err)
	}
	return &res, nil
}

func (m *MongoUserRepository) FindAll(ctx context.Context) ([]*model.User, error) {
	cur, err := m.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("find users: %w", err)
	}
	out, err := decodeAll[model.User](ctx, cur)
	if err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}
	return out, nil
}
