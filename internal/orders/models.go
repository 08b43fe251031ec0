package orders

import "time"

type Order struct {
	ID         string     `bson:"_id" json:"id"`
	UserID     string     `bson:"user_id" json:"user_id"`
	Items      []LineItem `bson:"items" json:"items"`
	TotalCents int        `bson:"total_cents" json:"total_cents"`
	Status     Status     `bson:"status" json:"status"`
	CreatedAt  time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt  time.Time  `bson:"updated_at" json:"updated_at"`
}

// LineItem carries a frozen snapshot of the product at reservation time.
// Brand, model and price never change afterwards, even if the catalog
// entry does; only ProductID stays a live reference, for restocking.
type LineItem struct {
	ID         string `bson:"_id" json:"id"`
	ProductID  string `bson:"product_id" json:"product_id"`
	Brand      string `bson:"brand" json:"brand"`
	Model      string `bson:"model" json:"model"`
	PriceCents int    `bson:"price_cents" json:"price_cents"`
	Qty        int    `bson:"qty" json:"qty"`
}

// Total recomputes the derived total from the current line items.
func (o *Order) Total() int {
	sum := 0
	for _, it := range o.Items {
		sum += it.PriceCents * it.Qty
	}
	return sum
}

func (o *Order) findItem(itemID string) (int, bool) {
	for i, it := range o.Items {
		if it.ID == itemID {
			return i, true
		}
	}
	return -1, false
}
