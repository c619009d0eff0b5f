package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Product is a catalog product. Products carry no stock figure: everything
// is made or sourced on demand, so availability is a sales question, not an
// inventory one.
//
// Attributes holds the product's default attribute selection, keyed by the
// category attribute title. It is used when the product is referenced as a
// product-type attribute value of another product and the order carries no
// override for it. Values are a scalar for select/number attributes, an
// array of labels for multipleSelect, and an array of product id hex
// strings for product-type attributes.
type Product struct {
	ID            primitive.ObjectID     `json:"id,omitempty" bson:"_id,omitempty"`
	Name          string                 `json:"name" bson:"name"`
	SKU           string                 `json:"sku" bson:"sku"`
	Price         float64                `json:"price" bson:"price"`
	PriceCurrency Currency               `json:"priceCurrency" bson:"priceCurrency"`
	CategoryName  string                 `json:"categoryName" bson:"categoryName"`
	Attributes    map[string]interface{} `json:"attributes,omitempty" bson:"attributes,omitempty"`
	Status        string                 `json:"status" bson:"status"` // "active", "discontinued"
	CreatedAt     time.Time              `json:"createdAt" bson:"createdAt"`
	UpdatedAt     time.Time              `json:"updatedAt" bson:"updatedAt"`
}
