package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AttributeType determines how a category attribute is selected and priced.
type AttributeType string

const (
	AttributeTypeNumber         AttributeType = "number"
	AttributeTypeSelect         AttributeType = "select"
	AttributeTypeMultipleSelect AttributeType = "multipleSelect"
	AttributeTypeProduct        AttributeType = "product"
)

// IsValid reports whether the attribute type is one of the known values.
func (t AttributeType) IsValid() bool {
	switch t {
	case AttributeTypeNumber, AttributeTypeSelect, AttributeTypeMultipleSelect, AttributeTypeProduct:
		return true
	}
	return false
}

// AttributeValue is one selectable option of a category attribute. For
// product-type attributes ProductID references the linked catalog product
// and the price adjustment is unused (the linked product's own composed
// price substitutes).
type AttributeValue struct {
	ID                      primitive.ObjectID  `json:"id,omitempty" bson:"_id,omitempty"`
	Label                   string              `json:"label" bson:"label"`
	IsDefault               bool                `json:"isDefault" bson:"isDefault"`
	PriceAdjustment         float64             `json:"priceAdjustment" bson:"priceAdjustment"`
	PriceAdjustmentCurrency Currency            `json:"priceAdjustmentCurrency" bson:"priceAdjustmentCurrency"`
	ProductID               *primitive.ObjectID `json:"productId,omitempty" bson:"productId,omitempty"`
}

// CategoryAttribute describes one configurable aspect of products in a
// category. Values is empty for number attributes and non-empty for the
// rest. MaxSelections only applies to multipleSelect; MinValue/MaxValue
// only to number.
type CategoryAttribute struct {
	ID            primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Title         string             `json:"title" bson:"title"`
	Type          AttributeType      `json:"type" bson:"type"`
	Values        []AttributeValue   `json:"values" bson:"values"`
	MaxSelections int                `json:"maxSelections,omitempty" bson:"maxSelections,omitempty"`
	MinValue      *float64           `json:"minValue,omitempty" bson:"minValue,omitempty"`
	MaxValue      *float64           `json:"maxValue,omitempty" bson:"maxValue,omitempty"`
}

type Category struct {
	ID                  primitive.ObjectID  `json:"id,omitempty" bson:"_id,omitempty"`
	Name                string              `json:"name" bson:"name"`
	Attributes          []CategoryAttribute `json:"attributes" bson:"attributes"`
	MaxDiscount         float64             `json:"maxDiscount" bson:"maxDiscount"`
	MaxDiscountCurrency Currency            `json:"maxDiscountCurrency" bson:"maxDiscountCurrency"`
	CreatedAt           time.Time           `json:"createdAt" bson:"createdAt"`
	UpdatedAt           time.Time           `json:"updatedAt" bson:"updatedAt"`
}

// AttributeByTitle returns the attribute with the given title, or nil.
func (c *Category) AttributeByTitle(title string) *CategoryAttribute {
	for i := range c.Attributes {
		if c.Attributes[i].Title == title {
			return &c.Attributes[i]
		}
	}
	return nil
}
