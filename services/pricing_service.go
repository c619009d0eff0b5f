package services

import (
	"errors"

	"go.uber.org/zap"

	"github.com/dquintero/muebleria_backend/models"
)

// PriceBreakdownEntry records one attribute's contribution to a composed
// unit price. Number attributes carry their raw value for display and
// never adjust the price.
type PriceBreakdownEntry struct {
	Attribute   string          `json:"attribute"`
	Labels      []string        `json:"labels,omitempty"`
	NumberValue *float64        `json:"numberValue,omitempty"`
	Adjustment  float64         `json:"adjustment"` // already in Bs
	Currency    models.Currency `json:"currency"`   // currency the adjustment was configured in
	DisplayOnly bool            `json:"displayOnly"`
}

// SubProductBreakdown records one linked sub-product's contribution,
// including its own fully composed breakdown.
type SubProductBreakdown struct {
	Attribute   string          `json:"attribute"`
	ProductID   string          `json:"productId"`
	ProductName string          `json:"productName"`
	UnitPrice   float64         `json:"unitPrice"` // composed, in Bs
	Breakdown   *PriceBreakdown `json:"breakdown,omitempty"`
}

// PriceBreakdown enumerates every contribution to a unit price. It is
// never collapsed internally; reporting and commission derivation depend
// on the full enumeration.
type PriceBreakdown struct {
	Base        float64               `json:"base"` // product price in Bs
	Adjustments []PriceBreakdownEntry `json:"adjustments,omitempty"`
	SubProducts []SubProductBreakdown `json:"subProducts,omitempty"`
	UnitPrice   float64               `json:"unitPrice"`
}

// PriceResult is the envelope returned by ComposeUnitPrice: the unit price
// in Bs, the full breakdown and any warnings accumulated along the way.
type PriceResult struct {
	UnitPrice float64        `json:"unitPrice"`
	Breakdown PriceBreakdown `json:"breakdown"`
	Warnings  []Warning      `json:"warnings,omitempty"`
}

// PricingService composes unit prices over a catalog snapshot. It is pure:
// every method reads only the snapshot and its arguments, so one instance
// can serve concurrent compositions.
type PricingService struct {
	snap *CatalogSnapshot
	log  *zap.Logger
}

func NewPricingService(snap *CatalogSnapshot, log *zap.Logger) *PricingService {
	if log == nil {
		log = zap.NewNop()
	}
	return &PricingService{snap: snap, log: log}
}

// ComposeUnitPrice computes the unit price of a product instance in Bs:
// the base price plus every resolved attribute adjustment plus the fully
// composed price of every linked sub-product, recursively. Overrides are
// the order's per-sub-product attribute selections keyed
// "{attributeTitle}_{subProductHex}".
//
// Composition fails only on a circular product reference; everything else
// degrades to warnings in the result.
func (s *PricingService) ComposeUnitPrice(product models.Product, selection map[string]interface{}, overrides map[string]map[string]interface{}) (*PriceResult, error) {
	return s.compose(product, selection, overrides, nil)
}

func (s *PricingService) compose(product models.Product, selection map[string]interface{}, overrides map[string]map[string]interface{}, chain []string) (*PriceResult, error) {
	idHex := product.ID.Hex()
	for _, visited := range chain {
		if visited == idHex {
			return nil, &CircularReferenceError{Chain: append(append([]string{}, chain...), idHex)}
		}
	}
	// Chain entries are distinct, so a chain longer than the catalog can
	// only mean the snapshot no longer matches the stored references.
	if len(chain) > len(s.snap.Products) {
		return nil, &CircularReferenceError{Chain: append(append([]string{}, chain...), idHex)}
	}
	chain = append(chain, idHex)

	result := &PriceResult{}
	base, warn := ToBase(product.Price, product.PriceCurrency, s.snap.Rates)
	if warn != nil {
		result.Warnings = append(result.Warnings, *warn)
	}
	result.Breakdown.Base = base

	category, ok := s.snap.Category(product.CategoryName)
	if !ok {
		result.Warnings = append(result.Warnings, newWarning(WarnUnknownCategory,
			"product %q references unknown category %q", product.Name, product.CategoryName))
		result.UnitPrice = base
		result.Breakdown.UnitPrice = base
		return result, nil
	}

	adjustmentTotal := 0.0

	for _, attr := range category.Attributes {
		raw, present := selection[attr.Title]
		if !present {
			continue
		}
		switch attr.Type {
		case models.AttributeTypeNumber:
			if value, ok := toFloat(raw); ok {
				v := value
				result.Breakdown.Adjustments = append(result.Breakdown.Adjustments, PriceBreakdownEntry{
					Attribute:   attr.Title,
					NumberValue: &v,
					Currency:    models.CurrencyBs,
					DisplayOnly: true,
				})
			}

		case models.AttributeTypeSelect, models.AttributeTypeMultipleSelect:
			resolved, err := ResolveSelection(attr, raw)
			if err != nil {
				// Bounds violations are checked at finalization; they
				// cannot occur here for select attributes.
				continue
			}
			entry := PriceBreakdownEntry{Attribute: attr.Title, Currency: models.CurrencyBs}
			for _, value := range resolved.Values {
				entry.Labels = append(entry.Labels, value.Label)
				if !value.Matched {
					result.Warnings = append(result.Warnings, newWarning(WarnUnmatchedValue,
						"attribute %q selection %q no longer matches a configured value", attr.Title, value.Label))
					continue
				}
				adjusted, warn := ToBase(value.Adjustment, value.Currency, s.snap.Rates)
				if warn != nil {
					result.Warnings = append(result.Warnings, *warn)
				}
				entry.Adjustment += adjusted
				entry.Currency = value.Currency
			}
			if len(entry.Labels) > 0 {
				adjustmentTotal += entry.Adjustment
				result.Breakdown.Adjustments = append(result.Breakdown.Adjustments, entry)
			}
		}
	}

	for _, attr := range category.Attributes {
		if attr.Type != models.AttributeTypeProduct {
			continue
		}
		raw, present := selection[attr.Title]
		if !present {
			continue
		}
		subs, warnings := ResolveProductSelection(attr, raw, overrides, s.snap)
		result.Warnings = append(result.Warnings, warnings...)
		for _, sub := range subs {
			subResult, err := s.compose(sub.Product, sub.Selection, nil, chain)
			if err != nil {
				return nil, err
			}
			adjustmentTotal += subResult.UnitPrice
			result.Warnings = append(result.Warnings, subResult.Warnings...)
			result.Breakdown.SubProducts = append(result.Breakdown.SubProducts, SubProductBreakdown{
				Attribute:   attr.Title,
				ProductID:   sub.Product.ID.Hex(),
				ProductName: sub.Product.Name,
				UnitPrice:   subResult.UnitPrice,
				Breakdown:   &subResult.Breakdown,
			})
		}
	}

	result.UnitPrice = base + adjustmentTotal
	result.Breakdown.UnitPrice = result.UnitPrice
	return result, nil
}

// ValidateRequiredSelections checks that every attribute of the category
// has a usable selection before an order line is finalized. Missing
// attributes are collected into a single MissingRequiredAttributeError;
// number attributes additionally have their bounds enforced.
func (s *PricingService) ValidateRequiredSelections(category models.Category, selection map[string]interface{}) error {
	var missing []string
	var boundsErrs []error

	for _, attr := range category.Attributes {
		raw, present := selection[attr.Title]
		if !present || isEmptySelection(attr, raw) {
			missing = append(missing, attr.Title)
			continue
		}
		if attr.Type == models.AttributeTypeNumber {
			if _, err := ResolveSelection(attr, raw); err != nil {
				boundsErrs = append(boundsErrs, err)
			}
		}
	}

	if len(missing) > 0 {
		return &MissingRequiredAttributeError{Missing: missing}
	}
	return errors.Join(boundsErrs...)
}

// LineTotal multiplies a composed unit price by the line quantity.
func (s *PricingService) LineTotal(unitPrice float64, quantity int) (float64, error) {
	if quantity <= 0 {
		return 0, &InvalidQuantityError{Quantity: quantity}
	}
	return unitPrice * float64(quantity), nil
}

func isEmptySelection(attr models.CategoryAttribute, raw interface{}) bool {
	switch attr.Type {
	case models.AttributeTypeNumber:
		_, ok := toFloat(raw)
		return !ok
	case models.AttributeTypeSelect:
		return toString(raw) == ""
	case models.AttributeTypeMultipleSelect, models.AttributeTypeProduct:
		return len(toList(raw)) == 0
	}
	return false
}
