package catalog

import "time"

type Product struct {
	ID         string            `bson:"_id" json:"id"`
	Brand      string            `bson:"brand" json:"brand"`
	Model      string            `bson:"model" json:"model"`
	PriceCents int               `bson:"price_cents" json:"price_cents"`
	Stock      int               `bson:"stock" json:"stock"`
	Specs      map[string]string `bson:"specs,omitempty" json:"specs,omitempty"`
	Reviews    []Review          `bson:"reviews,omitempty" json:"reviews,omitempty"`
	CreatedAt  time.Time         `bson:"created_at" json:"created_at"`
	UpdatedAt  time.Time         `bson:"updated_at" json:"updated_at"`
}

type Review struct {
	ID        string    `bson:"_id" json:"id"`
	UserID    string    `bson:"user_id" json:"user_id"`
	Rating    int       `bson:"rating" json:"rating"` // 1..5
	Comment   string    `bson:"comment" json:"comment"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
