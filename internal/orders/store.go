package orders

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ariefcatur/go-laptop-shop/internal/fault"
)

type MongoStore struct {
	col *mongo.Collection
}

func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{col: db.Collection("orders")}
}

func (s *MongoStore) Create(ctx context.Context, o *Order) error {
	_, err := s.col.InsertOne(ctx, o)
	return err
}

func (s *MongoStore) Find(ctx context.Context, id string) (*Order, error) {
	var o Order
	err := s.col.FindOne(ctx, bson.M{"_id": id}).Decode(&o)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fault.New(fault.CodeNotFound, "order not found: %s", id)
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// Replace writes the whole order document back. The service recomputes
// the total before calling, so the stored total is always derived.
func (s *MongoStore) Replace(ctx context.Context, o *Order) error {
	res, err := s.col.ReplaceOne(ctx, bson.M{"_id": o.ID}, o)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return fault.New(fault.CodeNotFound, "order not found: %s", o.ID)
	}
	return nil
}

func (s *MongoStore) Delete(ctx context.Context, id string) error {
	res, err := s.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return fault.New(fault.CodeNotFound, "order not found: %s", id)
	}
	return nil
}

func (s *MongoStore) ListByUser(ctx context.Context, userID string) ([]Order, error) {
	return s.list(ctx, bson.M{"user_id": userID})
}

func (s *MongoStore) ListAll(ctx context.Context) ([]Order, error) {
	return s.list(ctx, bson.M{})
}

func (s *MongoStore) list(ctx context.Context, filter bson.M) ([]Order, error) {
	cur, err := s.col.Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []Order
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
