package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/dquintero/muebleria_backend/models"
)

// sofaCatalog builds the canonical showroom fixture: a Sofa priced in USD
// with a select attribute adjusted in Bs and a display-only width.
func sofaCatalog() (*CatalogSnapshot, models.Product) {
	snap := NewCatalogSnapshot()
	snap.Rates = testRates()

	category := models.Category{
		ID:   primitive.NewObjectID(),
		Name: "Sofas",
		Attributes: []models.CategoryAttribute{
			{
				ID:    primitive.NewObjectID(),
				Title: "Color",
				Type:  models.AttributeTypeSelect,
				Values: []models.AttributeValue{
					{ID: primitive.NewObjectID(), Label: "Rojo", PriceAdjustment: 10, PriceAdjustmentCurrency: models.CurrencyBs},
					{ID: primitive.NewObjectID(), Label: "Azul", PriceAdjustment: 15, PriceAdjustmentCurrency: models.CurrencyBs},
				},
			},
			{
				ID:       primitive.NewObjectID(),
				Title:    "Ancho",
				Type:     models.AttributeTypeNumber,
				MinValue: floatPtr(100),
				MaxValue: floatPtr(300),
			},
		},
	}
	snap.Categories[category.Name] = category

	sofa := models.Product{
		ID:            primitive.NewObjectID(),
		Name:          "Sofa Caracas",
		SKU:           "SOF-001",
		Price:         500,
		PriceCurrency: models.CurrencyUSD,
		CategoryName:  "Sofas",
	}
	snap.Products[sofa.ID.Hex()] = sofa
	return snap, sofa
}

func TestComposeUnitPriceSofa(t *testing.T) {
	snap, sofa := sofaCatalog()
	svc := NewPricingService(snap, nil)

	result, err := svc.ComposeUnitPrice(sofa, map[string]interface{}{
		"Color": "Rojo",
		"Ancho": 200.0,
	}, nil)
	require.NoError(t, err)

	// 500 USD at rate 40 = 20000 Bs base, plus 10 Bs for Rojo.
	assert.Equal(t, 20010.0, result.UnitPrice)
	assert.Equal(t, 20000.0, result.Breakdown.Base)
	assert.Empty(t, result.Warnings)

	require.Len(t, result.Breakdown.Adjustments, 2)
	width := result.Breakdown.Adjustments[1]
	assert.Equal(t, "Ancho", width.Attribute)
	assert.True(t, width.DisplayOnly)
	assert.Equal(t, 0.0, width.Adjustment)
	require.NotNil(t, width.NumberValue)
	assert.Equal(t, 200.0, *width.NumberValue)

	color := result.Breakdown.Adjustments[0]
	assert.Equal(t, "Color", color.Attribute)
	assert.Equal(t, []string{"Rojo"}, color.Labels)
	assert.Equal(t, 10.0, color.Adjustment)
	assert.False(t, color.DisplayOnly)
}

func TestComposeUnitPriceAdjustmentsAdd(t *testing.T) {
	snap, sofa := sofaCatalog()
	category := snap.Categories["Sofas"]
	category.Attributes = append(category.Attributes, models.CategoryAttribute{
		Title: "Extras",
		Type:  models.AttributeTypeMultipleSelect,
		Values: []models.AttributeValue{
			{ID: primitive.NewObjectID(), Label: "Cojines", PriceAdjustment: 30, PriceAdjustmentCurrency: models.CurrencyBs},
			{ID: primitive.NewObjectID(), Label: "Fundas", PriceAdjustment: 25, PriceAdjustmentCurrency: models.CurrencyBs},
		},
	})
	snap.Categories["Sofas"] = category
	svc := NewPricingService(snap, nil)

	result, err := svc.ComposeUnitPrice(sofa, map[string]interface{}{
		"Color":  "Azul",
		"Extras": []interface{}{"Cojines", "Fundas"},
	}, nil)
	require.NoError(t, err)

	// Each contribution is independent and additive: 20000 + 15 + 30 + 25.
	assert.Equal(t, 20070.0, result.UnitPrice)

	// Selection order inside a multipleSelect must not matter.
	swapped, err := svc.ComposeUnitPrice(sofa, map[string]interface{}{
		"Color":  "Azul",
		"Extras": []interface{}{"Fundas", "Cojines"},
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, result.UnitPrice, swapped.UnitPrice)
}

func TestComposeUnitPriceIdempotent(t *testing.T) {
	snap, sofa := sofaCatalog()
	svc := NewPricingService(snap, nil)
	selection := map[string]interface{}{"Color": "Rojo", "Ancho": 150}

	first, err := svc.ComposeUnitPrice(sofa, selection, nil)
	require.NoError(t, err)
	second, err := svc.ComposeUnitPrice(sofa, selection, nil)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestComposeUnitPriceUnmatchedValue(t *testing.T) {
	snap, sofa := sofaCatalog()
	svc := NewPricingService(snap, nil)

	result, err := svc.ComposeUnitPrice(sofa, map[string]interface{}{"Color": "Verde"}, nil)
	require.NoError(t, err)

	// A stale selection never blocks pricing: zero adjustment, one warning.
	assert.Equal(t, 20000.0, result.UnitPrice)
	require.Len(t, result.Warnings, 1)
	assert.Equal(t, WarnUnmatchedValue, result.Warnings[0].Code)
	require.Len(t, result.Breakdown.Adjustments, 1)
	assert.Equal(t, []string{"Verde"}, result.Breakdown.Adjustments[0].Labels)
	assert.Equal(t, 0.0, result.Breakdown.Adjustments[0].Adjustment)
}

func TestComposeUnitPriceMissingRate(t *testing.T) {
	snap, sofa := sofaCatalog()
	snap.Rates = models.RateMap{}
	svc := NewPricingService(snap, nil)

	result, err := svc.ComposeUnitPrice(sofa, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 500.0, result.UnitPrice)
	require.Len(t, result.Warnings, 1)
	assert.Equal(t, WarnMissingRate, result.Warnings[0].Code)
}

func TestComposeUnitPriceUnknownCategory(t *testing.T) {
	snap, sofa := sofaCatalog()
	sofa.CategoryName = "Descontinuados"
	svc := NewPricingService(snap, nil)

	result, err := svc.ComposeUnitPrice(sofa, map[string]interface{}{"Color": "Rojo"}, nil)
	require.NoError(t, err)
	assert.Equal(t, 20000.0, result.UnitPrice)
	require.Len(t, result.Warnings, 1)
	assert.Equal(t, WarnUnknownCategory, result.Warnings[0].Code)
}

func TestComposeUnitPriceSubProduct(t *testing.T) {
	snap, sofa := sofaCatalog()

	accessoryCategory := models.Category{
		ID:   primitive.NewObjectID(),
		Name: "Accesorios",
		Attributes: []models.CategoryAttribute{
			{
				Title: "Tela",
				Type:  models.AttributeTypeSelect,
				Values: []models.AttributeValue{
					{ID: primitive.NewObjectID(), Label: "Lino", PriceAdjustment: 0, PriceAdjustmentCurrency: models.CurrencyBs},
					{ID: primitive.NewObjectID(), Label: "Terciopelo", PriceAdjustment: 20, PriceAdjustmentCurrency: models.CurrencyBs},
				},
			},
		},
	}
	snap.Categories[accessoryCategory.Name] = accessoryCategory

	cushion := models.Product{
		ID:            primitive.NewObjectID(),
		Name:          "Cojin decorativo",
		Price:         100,
		PriceCurrency: models.CurrencyBs,
		CategoryName:  "Accesorios",
		Attributes:    map[string]interface{}{"Tela": "Lino"},
	}
	snap.Products[cushion.ID.Hex()] = cushion

	category := snap.Categories["Sofas"]
	category.Attributes = append(category.Attributes, models.CategoryAttribute{
		Title: "Tapiz",
		Type:  models.AttributeTypeProduct,
		Values: []models.AttributeValue{
			{ID: primitive.NewObjectID(), Label: cushion.Name, ProductID: &cushion.ID},
		},
	})
	snap.Categories["Sofas"] = category

	svc := NewPricingService(snap, nil)
	selection := map[string]interface{}{
		"Color": "Rojo",
		"Tapiz": []interface{}{cushion.ID.Hex()},
	}

	// Defaults: cushion composes to 100 (Lino adds nothing).
	result, err := svc.ComposeUnitPrice(sofa, selection, nil)
	require.NoError(t, err)
	assert.Equal(t, 20110.0, result.UnitPrice)
	require.Len(t, result.Breakdown.SubProducts, 1)
	sub := result.Breakdown.SubProducts[0]
	assert.Equal(t, "Tapiz", sub.Attribute)
	assert.Equal(t, cushion.Name, sub.ProductName)
	assert.Equal(t, 100.0, sub.UnitPrice)
	require.NotNil(t, sub.Breakdown)
	assert.Equal(t, 100.0, sub.Breakdown.Base)

	// An override reconfigures the nested instance: Terciopelo adds 20.
	overrides := map[string]map[string]interface{}{
		"Tapiz_" + cushion.ID.Hex(): {"Tela": "Terciopelo"},
	}
	result, err = svc.ComposeUnitPrice(sofa, selection, overrides)
	require.NoError(t, err)
	assert.Equal(t, 20130.0, result.UnitPrice)
	assert.Equal(t, 120.0, result.Breakdown.SubProducts[0].UnitPrice)
}

func TestComposeUnitPriceCircularReference(t *testing.T) {
	snap := NewCatalogSnapshot()
	snap.Rates = testRates()

	idA := primitive.NewObjectID()
	idB := primitive.NewObjectID()

	snap.Categories["Modulares"] = models.Category{
		Name: "Modulares",
		Attributes: []models.CategoryAttribute{
			{
				Title: "Complemento",
				Type:  models.AttributeTypeProduct,
				Values: []models.AttributeValue{
					{Label: "A", ProductID: &idA},
					{Label: "B", ProductID: &idB},
				},
			},
		},
	}

	productA := models.Product{
		ID: idA, Name: "Modulo A", Price: 100, PriceCurrency: models.CurrencyBs,
		CategoryName: "Modulares",
		Attributes:   map[string]interface{}{"Complemento": []interface{}{idB.Hex()}},
	}
	productB := models.Product{
		ID: idB, Name: "Modulo B", Price: 100, PriceCurrency: models.CurrencyBs,
		CategoryName: "Modulares",
		Attributes:   map[string]interface{}{"Complemento": []interface{}{idA.Hex()}},
	}
	snap.Products[idA.Hex()] = productA
	snap.Products[idB.Hex()] = productB

	svc := NewPricingService(snap, nil)
	_, err := svc.ComposeUnitPrice(productA, productA.Attributes, nil)

	var circular *CircularReferenceError
	require.ErrorAs(t, err, &circular)
	assert.Equal(t, []string{idA.Hex(), idB.Hex(), idA.Hex()}, circular.Chain)
}

func TestValidateRequiredSelections(t *testing.T) {
	snap, _ := sofaCatalog()
	category := snap.Categories["Sofas"]
	svc := NewPricingService(snap, nil)

	assert.NoError(t, svc.ValidateRequiredSelections(category, map[string]interface{}{
		"Color": "Rojo",
		"Ancho": 200,
	}))

	// Every missing attribute reported at once.
	err := svc.ValidateRequiredSelections(category, map[string]interface{}{})
	var missing *MissingRequiredAttributeError
	require.ErrorAs(t, err, &missing)
	assert.ElementsMatch(t, []string{"Color", "Ancho"}, missing.Missing)

	// Empty values count as missing.
	err = svc.ValidateRequiredSelections(category, map[string]interface{}{
		"Color": "",
		"Ancho": 200,
	})
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, []string{"Color"}, missing.Missing)

	// Bounds are enforced once everything is present.
	err = svc.ValidateRequiredSelections(category, map[string]interface{}{
		"Color": "Rojo",
		"Ancho": 500,
	})
	var oor *OutOfRangeError
	require.ErrorAs(t, err, &oor)
	assert.Equal(t, "Ancho", oor.Attribute)
}

func TestLineTotal(t *testing.T) {
	svc := NewPricingService(NewCatalogSnapshot(), nil)

	total, err := svc.LineTotal(20010, 3)
	require.NoError(t, err)
	assert.Equal(t, 60030.0, total)

	var invalid *InvalidQuantityError
	_, err = svc.LineTotal(20010, 0)
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, 0, invalid.Quantity)

	_, err = svc.LineTotal(20010, -2)
	require.ErrorAs(t, err, &invalid)
}
