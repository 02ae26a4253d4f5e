package repository

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"order-loom/internal/model"
)

// Ledger de tracking: solo inserta y lee, nunca modifica ni borra.
type MongoTrackingLedger struct {
	col *mongo.Collection
}

func NewMongoTrackingLedger(db *mongo.Database) *MongoTrackingLedger {
	return &MongoTrackingLedger{col: db.Collection(trackingsCollection)}
}

func (m *MongoTrackingLedger) Append(ctx context.Context, e *model.TrackingEvent) (string, error) {
	res, err := m.col.InsertOne(ctx, e)
	if err != nil {
		return "", fmt.Errorf("append tracking event: %w", err)
	}
	id, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return fmt.Sprint(res.InsertedID), nil
	}
	e.ID = id
	return id.Hex(), nil
}

// ListByTrackingID hace una consulta nueva en cada llamada. No ordena: el
// orden es el que devuelve Mongo.
func (m *MongoTrackingLedger) ListByTrackingID(ctx context.Context, trackingID string) ([]*model.TrackingEvent, error) {
	cur, err := m.col.Find(ctx, bson.M{"trackingId": trackingID})
	if err != nil {
		return nil, fmt.Errorf("find tracking events: %w", err)
	}
	out, err := decodeAll[model.TrackingEvent](ctx, cur)
	if err != nil {
		return nil, fmt.Errorf("decode tracking events: %w", err)
	}
	return out, nil
}
