package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SaleType classifies how an order was sold. Shared types pay part of the
// commission to a referrer according to the configured sale-type rule.
type SaleType string

const (
	SaleTypeDirect   SaleType = "direct"
	SaleTypeReferred SaleType = "referred"
	SaleTypeBudget   SaleType = "budget"
)

// OrderProduct is one product line of an order or budget.
//
// SelectedAttributes is keyed by the category attribute title. Values are a
// scalar for select/number, an array of labels for multipleSelect, and an
// array of product id hex strings for product-type attributes.
//
// SubProductAttributes carries per-sub-product overrides for product-type
// attributes, keyed "{attributeTitle}_{subProductHex}". When a sub-product
// has no entry here its own default attributes apply.
//
// UnitPrice and LineTotal are in Bs and are written once at finalization
// from the pricing engine's result; the commission engine consumes them and
// never re-derives pricing.
type OrderProduct struct {
	ProductID            primitive.ObjectID                `json:"productId" bson:"productId"`
	ProductName          string                            `json:"productName" bson:"productName"`
	CategoryID           primitive.ObjectID                `json:"categoryId" bson:"categoryId"`
	CategoryName         string                            `json:"categoryName" bson:"categoryName"`
	Quantity             int                               `json:"quantity" bson:"quantity"`
	SelectedAttributes   map[string]interface{}            `json:"selectedAttributes" bson:"selectedAttributes"`
	SubProductAttributes map[string]map[string]interface{} `json:"subProductAttributes,omitempty" bson:"subProductAttributes,omitempty"`
	UnitPrice            float64                           `json:"unitPrice" bson:"unitPrice"`
	LineTotal            float64                           `json:"lineTotal" bson:"lineTotal"`
}

type Order struct {
	ID           primitive.ObjectID  `json:"id,omitempty" bson:"_id,omitempty"`
	Number       string              `json:"number" bson:"number"`
	Products     []OrderProduct      `json:"products" bson:"products"`
	SaleType     SaleType            `json:"saleType" bson:"saleType"`
	SellerID     primitive.ObjectID  `json:"sellerId" bson:"sellerId"`
	SellerName   string              `json:"sellerName" bson:"sellerName"`
	ReferrerID   *primitive.ObjectID `json:"referrerId,omitempty" bson:"referrerId,omitempty"`
	ReferrerName string              `json:"referrerName,omitempty" bson:"referrerName,omitempty"`
	Total        float64             `json:"total" bson:"total"`
	Status       string              `json:"status" bson:"status"` // "budget", "confirmed", "delivered", "cancelled"
	CreatedAt    time.Time           `json:"createdAt" bson:"createdAt"`
	UpdatedAt    time.Time           `json:"updatedAt" bson:"updatedAt"`
}

// HasReferrer reports whether the order records a referrer alongside the
// primary seller.
func (o *Order) HasReferrer() bool {
	return o.ReferrerID != nil && !o.ReferrerID.IsZero()
}
