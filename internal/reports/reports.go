// Package reports runs read-only aggregations over committed catalog and
// order state. It has no write access and no consistency duties beyond
// reading a point-in-time snapshot.
package reports

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/ariefcatur/go-laptop-shop/internal/orders"
)

type BrandInventory struct {
	Brand       string  `bson:"_id" json:"brand"`
	AvgPrice    float64 `bson:"avg_price" json:"avg_price_cents"`
	TotalStock  int     `bson:"total_stock" json:"total_stock"`
	ModelsCount int     `bson:"models_count" json:"models_count"`
}

type BrandRevenue struct {
	Brand       string `bson:"_id" json:"brand"`
	Revenue     int64  `bson:"revenue" json:"revenue_cents"`
	SoldQty     int    `bson:"sold_qty" json:"sold_qty"`
	OrdersCount int    `bson:"orders_count" json:"orders_count"`
}

type Aggregator struct {
	products *mongo.Collection
	orders   *mongo.Collection
}

func NewAggregator(db *mongo.Database) *Aggregator {
	return &Aggregator{
		products: db.Collection("products"),
		orders:   db.Collection("orders"),
	}
}

// InventoryByBrand groups the catalog per brand: average price, summed
// stock and model count, sorted by average price descending.
func (a *Aggregator) InventoryByBrand(ctx context.Context) ([]BrandInventory, error) {
	cur, err := a.products.Aggregate(ctx, InventoryByBrandPipeline())
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []BrandInventory
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// RevenueByBrand expands line items of paid and shipped orders and sums
// revenue and sold quantity per brand, counting distinct orders touched.
func (a *Aggregator) RevenueByBrand(ctx context.Context) ([]BrandRevenue, error) {
	cur, err := a.orders.Aggregate(ctx, RevenueByBrandPipeline())
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []BrandRevenue
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func InventoryByBrandPipeline() mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"price_cents": bson.M{"$gte": 0}}}},
		{{Key: "$group", Value: bson.M{
			"_id":          "$brand",
			"avg_price":    bson.M{"$avg": "$price_cents"},
			"total_stock":  bson.M{"$sum": "$stock"},
			"models_count": bson.M{"$sum": 1},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "avg_price", Value: -1}}}},
	}
}

func RevenueByBrandPipeline() mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"status": bson.M{"$in": []orders.Status{orders.StatusPaid, orders.StatusShipped}},
		}}},
		{{Key: "$unwind", Value: "$items"}},
		{{Key: "$group", Value: bson.M{
			"_id":            "$items.brand",
			"revenue":        bson.M{"$sum": bson.M{"$multiply": []string{"$items.price_cents", "$items.qty"}}},
			"sold_qty":       bson.M{"$sum": "$items.qty"},
			"orders_touched": bson.M{"$addToSet": "$_id"},
		}}},
		{{Key: "$project", Value: bson.M{
			"revenue":      1,
			"sold_qty":     1,
			"orders_count": bson.M{"$size": "$orders_touched"},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "revenue", Value: -1}}}},
	}
}
