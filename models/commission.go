package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProductCommission is the per-category commission basis. Values are
// constrained to multiples of 2.5; the category admin endpoint rejects
// anything else at write time, and the computation path takes whatever is
// stored verbatim without rounding.
type ProductCommission struct {
	ID         primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	CategoryID primitive.ObjectID `json:"categoryId" bson:"categoryId"`
	Value      float64            `json:"value" bson:"value"`
	CreatedAt  time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt  time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// SaleTypeCommissionRule governs how a shared sale splits the commission
// basis between the primary seller and the referrer. Rates are percentages
// applied to the category commission value.
type SaleTypeCommissionRule struct {
	ID           primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	SaleType     SaleType           `json:"saleType" bson:"saleType"`
	VendorRate   float64            `json:"vendorRate" bson:"vendorRate"`
	ReferrerRate float64            `json:"referrerRate" bson:"referrerRate"`
	CreatedAt    time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt    time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// Commission is one computed payout for one order line. When the sale is
// shared two records are emitted, each naming the other party in
// CounterpartName for report display.
type Commission struct {
	ID              primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	OrderID         primitive.ObjectID `json:"orderId,omitempty" bson:"orderId,omitempty"`
	ProductID       primitive.ObjectID `json:"productId" bson:"productId"`
	SellerID        primitive.ObjectID `json:"sellerId" bson:"sellerId"`
	SellerName      string             `json:"sellerName" bson:"sellerName"`
	Commission      float64            `json:"commission" bson:"commission"`
	IsShared        bool               `json:"isShared" bson:"isShared"`
	CounterpartName string             `json:"counterpartName,omitempty" bson:"counterpartName,omitempty"`
	CreatedAt       time.Time          `json:"createdAt" bson:"createdAt"`
	Paid            bool               `json:"paid" bson:"paid"`
	PaidAt          *time.Time         `json:"paidAt,omitempty" bson:"paidAt,omitempty"`
}
