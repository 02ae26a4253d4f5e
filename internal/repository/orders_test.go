package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"order-loom/internal/model"
)

const ordersNS = "order_loom.orders"

func orderDoc(id primitive.ObjectID, status string) bson.D {
	return bson.D{
		{Key: "_id", Value: id},
		{Key: "productId", Value: "P1"},
		{Key: "buyerEmail", Value: "buyer@loom.test"},
		{Key: "status", Value: status},
		{Key: "trackingId", Value: "ORDR-20260101-ABCDEF"},
		{Key: "placedAt", Value: time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)},
	}
}

func TestMongoOrderRepository_Insert(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("assigns id", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())
		repo := NewMongoOrderRepository(mt.DB)

		o := &model.Order{ProductID: "P1", BuyerEmail: "buyer@loom.test", Status: model.StatusPending}
		require.NoError(mt, repo.Insert(context.Background(), o))
		assert.False(mt, o.ID.IsZero())
	})

	mt.Run("write error", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "duplicate key error",
		}))
		repo := NewMongoOrderRepository(mt.DB)

		err := repo.Insert(context.Background(), &model.Order{ProductID: "P1"})
		require.Error(mt, err)
		assert.True(mt, mongo.IsDuplicateKeyError(err))
	})
}

func TestMongoOrderRepository_FindByID(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("found", func(mt *mtest.T) {
		id := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ordersNS, mtest.FirstBatch, orderDoc(id, "pending")))
		repo := NewMongoOrderRepository(mt.DB)

		o, err := repo.FindByID(context.Background(), id.Hex())
		require.NoError(mt, err)
		assert.Equal(mt, id, o.ID)
		assert.Equal(mt, model.StatusPending, o.Status)
		assert.Equal(mt, "ORDR-20260101-ABCDEF", o.TrackingID)
	})

	mt.Run("not found", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ordersNS, mtest.FirstBatch))
		repo := NewMongoOrderRepository(mt.DB)

		_, err := repo.FindByID(context.Background(), primitive.NewObjectID().Hex())
		assert.ErrorIs(mt, err, ErrNotFound)
	})

	mt.Run("malformed id", func(mt *mtest.T) {
		repo := NewMongoOrderRepository(mt.DB)

		_, err := repo.FindByID(context.Background(), "not-an-object-id")
		assert.ErrorIs(mt, err, ErrNotFound)
	})

	mt.Run("storage error", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    91,
			Name:    "ShutdownInProgress",
			Message: "shutting down",
		}))
		repo := NewMongoOrderRepository(mt.DB)

		_, err := repo.FindByID(context.Background(), primitive.NewObjectID().Hex())
		require.Error(mt, err)
		assert.NotErrorIs(mt, err, ErrNotFound)
	})
}

func TestMongoOrderRepository_ExistsPending(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("exists", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ordersNS, mtest.FirstBatch, bson.D{{Key: "n", Value: int32(1)}}))
		repo := NewMongoOrderRepository(mt.DB)

		ok, err := repo.ExistsPending(context.Background(), "P1", "buyer@loom.test")
		require.NoError(mt, err)
		assert.True(mt, ok)
	})

	mt.Run("none", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ordersNS, mtest.FirstBatch))
		repo := NewMongoOrderRepository(mt.DB)

		ok, err := repo.ExistsPending(context.Background(), "P1", "buyer@loom.test")
		require.NoError(mt, err)
		assert.False(mt, ok)
	})
}

func TestMongoOrderRepository_UpdateStatus(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("returns updated order", func(mt *mtest.T) {
		id := primitive.NewObjectID()
		approvedAt := time.Date(2026, 1, 2, 9, 0, 0, 0, time.UTC)
		doc := append(orderDoc(id, "approved"), bson.E{Key: "approvedAt", Value: approvedAt})
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: doc}))
		repo := NewMongoOrderRepository(mt.DB)

		o, err := repo.UpdateStatus(context.Background(), id.Hex(), model.StatusApproved, &approvedAt)
		require.NoError(mt, err)
		assert.Equal(mt, model.StatusApproved, o.Status)
		require.NotNil(mt, o.ApprovedAt)
		assert.True(mt, approvedAt.Equal(*o.ApprovedAt))
	})

	mt.Run("malformed id", func(mt *mtest.T) {
		repo := NewMongoOrderRepository(mt.DB)

		_, err := repo.UpdateStatus(context.Background(), "nope", model.StatusApproved, nil)
		assert.ErrorIs(mt, err, ErrNotFound)
	})
}

func TestMongoOrderRepository_FindByBuyer(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("two batches", func(mt *mtest.T) {
		first := mtest.CreateCursorResponse(1, ordersNS, mtest.FirstBatch, orderDoc(primitive.NewObjectID(), "pending"))
		second := mtest.CreateCursorResponse(0, ordersNS, mtest.NextBatch, orderDoc(primitive.NewObjectID(), "shipped"))
		mt.AddMockResponses(first, second)
		repo := NewMongoOrderRepository(mt.DB)

		orders, err := repo.FindByBuyer(context.Background(), "buyer@loom.test")
		require.NoError(mt, err)
		require.Len(mt, orders, 2)
		assert.Equal(mt, model.StatusShipped, orders[1].Status)
	})
}

func TestMongoOrderRepository_Delete(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("deleted", func(mt *mtest.T) {
		mt.AddMockResponses(bson.D{{Key: "ok", Value: 1}, {Key: "n", Value: 1}})
		repo := NewMongoOrderRepository(mt.DB)

		require.NoError(mt, repo.Delete(context.Background(), primitive.NewObjectID().Hex()))
	})

	mt.Run("missing", func(mt *mtest.T) {
		mt.AddMockResponses(bson.D{{Key: "ok", Value: 1}, {Key: "n", Value: 0}})
		repo := NewMongoOrderRepository(mt.DB)

		err := repo.Delete(context.Background(), primitive.NewObjectID().Hex())
		assert.ErrorIs(mt, err, ErrNotFound)
	})
}
