package catalog

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ariefcatur/go-laptop-shop/internal/fault"
)

// Store owns the products collection, including the stock counters.
// Stock is only ever mutated through ReserveStock / ReleaseStock.
type Store struct {
	col *mongo.Collection
}

func NewStore(db *mongo.Database) *Store {
	return &Store{col: db.Collection("products")}
}

func (s *Store) Create(ctx context.Context, p *Product) error {
	if p.Brand == "" || p.Model == "" {
		return fault.New(fault.CodeValidation, "brand and model required")
	}
	if p.PriceCents < 0 || p.Stock < 0 {
		return fault.New(fault.CodeValidation, "price and stock must be non-negative")
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	p.CreatedAt, p.UpdatedAt = now, now
	_, err := s.col.InsertOne(ctx, p)
	return err
}

func (s *Store) Find(ctx context.Context, id string) (*Product, error) {
	var p Product
	err := s.col.FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fault.New(fault.CodeNotFound, "product not found: %s", id)
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Store) List(ctx context.Context) ([]Product, error) {
	cur, err := s.col.Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []Product
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Update replaces mutable catalog fields. Stock is deliberately not
// settable here; it belongs to the reserve/release pair.
func (s *Store) Update(ctx context.Context, id string, brand, model string, priceCents int, specs map[string]string) (*Product, error) {
	if priceCents < 0 {
		return nil, fault.New(fault.CodeValidation, "price must be non-negative")
	}
	set := bson.M{"updated_at": time.Now().UTC()}
	if brand != "" {
		set["brand"] = brand
	}
	if model != "" {
		set["model"] = model
	}
	set["price_cents"] = priceCents
	if specs != nil {
		set["specs"] = specs
	}

	var p Product
	err := s.col.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fault.New(fault.CodeNotFound, "product not found: %s", id)
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return fault.New(fault.CodeNotFound, "product not found: %s", id)
	}
	return nil
}

// ReserveStock decrements stock by qty only if stock >= qty. The filter
// and the $inc run as one conditional update, so two concurrent reserves
// can never both succeed against insufficient stock.
func (s *Store) ReserveStock(ctx context.Context, id string, qty int) error {
	if qty <= 0 {
		return fault.New(fault.CodeValidation, "qty must be positive")
	}
	res, err := s.col.UpdateOne(ctx,
		bson.M{"_id": id, "stock": bson.M{"$gte": qty}},
		bson.M{"$inc": bson.M{"stock": -qty}, "$set": bson.M{"updated_at": time.Now().UTC()}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 1 {
		return nil
	}
	// Filter missed: either the product is gone or stock is short.
	n, err := s.col.CountDocuments(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if n == 0 {
		return fault.New(fault.CodeNotFound, "product not found: %s", id)
	}
	return fault.New(fault.CodeInsufficientStock, "not enough stock for product %s", id)
}

// ReleaseStock returns qty units to the counter. Used as compensation
// when a later step of an order mutation fails, and on item removal,
// cancellation, and deletion of unshipped orders.
func (s *Store) ReleaseStock(ctx context.Context, id string, qty int) error {
	if qty <= 0 {
		return fault.New(fault.CodeValidation, "qty must be positive")
	}
	res, err := s.col.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$inc": bson.M{"stock": qty}, "$set": bson.M{"updated_at": time.Now().UTC()}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return fault.New(fault.CodeNotFound, "product not found: %s", id)
	}
	return nil
}

func (s *Store) AddReview(ctx context.Context, productID, userID string, rating int, comment string) (*Product, error) {
	if rating < 1 || rating > 5 {
		return nil, fault.New(fault.CodeValidation, "rating must be 1..5")
	}
	rev := Review{
		ID:        uuid.NewString(),
		UserID:    userID,
		Rating:    rating,
		Comment:   comment,
		CreatedAt: time.Now().UTC(),
	}
	var p Product
	err := s.col.FindOneAndUpdate(ctx,
		bson.M{"_id": productID},
		bson.M{"$push": bson.M{"reviews": rev}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fault.New(fault.CodeNotFound, "product not found: %s", productID)
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Store) RemoveReview(ctx context.Context, productID, reviewID string) (*Product, error) {
	var p Product
	err := s.col.FindOneAndUpdate(ctx,
		bson.M{"_id": productID},
		bson.M{"$pull": bson.M{"reviews": bson.M{"_id": reviewID}}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fault.New(fault.CodeNotFound, "product not found: %s", productID)
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}
