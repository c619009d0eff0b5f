package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/dquintero/muebleria_backend/models"
)

func sharedOrder(categoryID primitive.ObjectID) models.Order {
	referrerID := primitive.NewObjectID()
	return models.Order{
		ID:       primitive.NewObjectID(),
		Number:   "ORD-TEST0001",
		SaleType: models.SaleTypeReferred,
		Products: []models.OrderProduct{
			{
				ProductID:    primitive.NewObjectID(),
				ProductName:  "Sofa Caracas",
				CategoryID:   categoryID,
				CategoryName: "Sofas",
				Quantity:     1,
				UnitPrice:    1000,
				LineTotal:    1000,
			},
		},
		SellerID:     primitive.NewObjectID(),
		SellerName:   "Maria",
		ReferrerID:   &referrerID,
		ReferrerName: "Pedro",
		Total:        1000,
	}
}

func TestComputeOrderCommissionsShared(t *testing.T) {
	categoryID := primitive.NewObjectID()
	rules := NewCommissionRuleSet()
	rules.ProductCommissions[categoryID.Hex()] = models.ProductCommission{CategoryID: categoryID, Value: 5}
	rules.SaleTypeRules[models.SaleTypeReferred] = models.SaleTypeCommissionRule{
		SaleType:     models.SaleTypeReferred,
		VendorRate:   2.5,
		ReferrerRate: 1.0,
	}

	order := sharedOrder(categoryID)
	result := NewCommissionService(nil).ComputeOrderCommissions(order, rules)

	assert.Empty(t, result.Warnings)
	require.Len(t, result.Commissions, 2)

	seller := result.Commissions[0]
	assert.Equal(t, order.SellerID, seller.SellerID)
	assert.Equal(t, "Maria", seller.SellerName)
	assert.Equal(t, 125.0, seller.Commission) // 5 * 2.5 / 100 * 1000
	assert.True(t, seller.IsShared)
	assert.Equal(t, "Pedro", seller.CounterpartName)

	referrer := result.Commissions[1]
	assert.Equal(t, *order.ReferrerID, referrer.SellerID)
	assert.Equal(t, "Pedro", referrer.SellerName)
	assert.Equal(t, 50.0, referrer.Commission) // 5 * 1.0 / 100 * 1000
	assert.True(t, referrer.IsShared)
	assert.Equal(t, "Maria", referrer.CounterpartName)
}

func TestComputeOrderCommissionsDirect(t *testing.T) {
	categoryID := primitive.NewObjectID()
	rules := NewCommissionRuleSet()
	rules.ProductCommissions[categoryID.Hex()] = models.ProductCommission{CategoryID: categoryID, Value: 5}

	order := sharedOrder(categoryID)
	order.SaleType = models.SaleTypeDirect
	order.ReferrerID = nil
	order.ReferrerName = ""

	result := NewCommissionService(nil).ComputeOrderCommissions(order, rules)

	assert.Empty(t, result.Warnings)
	require.Len(t, result.Commissions, 1)
	c := result.Commissions[0]
	assert.Equal(t, 50.0, c.Commission) // 5 / 100 * 1000
	assert.False(t, c.IsShared)
	assert.Empty(t, c.CounterpartName)
}

func TestComputeOrderCommissionsMissingSaleTypeRule(t *testing.T) {
	categoryID := primitive.NewObjectID()
	rules := NewCommissionRuleSet()
	rules.ProductCommissions[categoryID.Hex()] = models.ProductCommission{CategoryID: categoryID, Value: 5}

	// Referrer present but no rule for the sale type: the full flat
	// commission goes to the seller and the gap is surfaced as a warning.
	order := sharedOrder(categoryID)
	result := NewCommissionService(nil).ComputeOrderCommissions(order, rules)

	require.Len(t, result.Warnings, 1)
	assert.Equal(t, WarnMissingSaleTypeRule, result.Warnings[0].Code)
	require.Len(t, result.Commissions, 1)
	assert.Equal(t, 50.0, result.Commissions[0].Commission)
	assert.Equal(t, order.SellerID, result.Commissions[0].SellerID)
	assert.False(t, result.Commissions[0].IsShared)
}

func TestComputeOrderCommissionsMissingCategoryCommission(t *testing.T) {
	order := sharedOrder(primitive.NewObjectID())
	order.ReferrerID = nil
	order.ReferrerName = ""

	result := NewCommissionService(nil).ComputeOrderCommissions(order, NewCommissionRuleSet())

	require.Len(t, result.Warnings, 1)
	assert.Equal(t, WarnMissingCategoryCommission, result.Warnings[0].Code)
	require.Len(t, result.Commissions, 1)
	assert.Equal(t, 0.0, result.Commissions[0].Commission)
}

func TestComputeOrderCommissionsPerLine(t *testing.T) {
	sofaCategory := primitive.NewObjectID()
	tableCategory := primitive.NewObjectID()
	rules := NewCommissionRuleSet()
	rules.ProductCommissions[sofaCategory.Hex()] = models.ProductCommission{CategoryID: sofaCategory, Value: 5}
	rules.ProductCommissions[tableCategory.Hex()] = models.ProductCommission{CategoryID: tableCategory, Value: 10}

	order := sharedOrder(sofaCategory)
	order.ReferrerID = nil
	order.ReferrerName = ""
	order.Products = append(order.Products, models.OrderProduct{
		ProductID:    primitive.NewObjectID(),
		ProductName:  "Mesa Orinoco",
		CategoryID:   tableCategory,
		CategoryName: "Mesas",
		Quantity:     2,
		UnitPrice:    250,
		LineTotal:    500,
	})

	result := NewCommissionService(nil).ComputeOrderCommissions(order, rules)

	assert.Empty(t, result.Warnings)
	require.Len(t, result.Commissions, 2)
	assert.Equal(t, 50.0, result.Commissions[0].Commission) // 5% of 1000
	assert.Equal(t, 50.0, result.Commissions[1].Commission) // 10% of 500
}

func TestComputeOrderCommissionsEmptyOrder(t *testing.T) {
	order := models.Order{
		ID:         primitive.NewObjectID(),
		SaleType:   models.SaleTypeDirect,
		SellerID:   primitive.NewObjectID(),
		SellerName: "Maria",
	}

	result := NewCommissionService(nil).ComputeOrderCommissions(order, NewCommissionRuleSet())

	require.NotNil(t, result.Commissions)
	assert.Empty(t, result.Commissions)
	assert.Empty(t, result.Warnings)
}
