package services

import (
	"encoding/json"
	"fmt"
	"strconv"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/dquintero/muebleria_backend/models"
)

// ResolvedValue is one attribute option matched against a raw selection.
// Unmatched selections are kept as display-only entries with a zero
// adjustment: stored orders may reference option values that were later
// removed from the category, and that must never block pricing.
type ResolvedValue struct {
	Label      string
	Adjustment float64
	Currency   models.Currency
	Matched    bool
	Value      *models.AttributeValue
}

// ResolvedSelection is the canonical form of a raw selection for one
// category attribute. Number carries the numeric value for number
// attributes; Values carries the matched options for select and
// multipleSelect.
type ResolvedSelection struct {
	Attribute string
	Type      models.AttributeType
	Values    []ResolvedValue
	Number    *float64
}

// SubProductSelection pairs a linked sub-product with the attribute
// selection that applies to it: the order's per-sub-product override when
// one exists, otherwise the sub-product's own defaults.
type SubProductSelection struct {
	Product   models.Product
	Selection map[string]interface{}
}

// ResolveSelection resolves a raw stored selection against a category
// attribute definition.
//
// Select values historically stored either the option id hex or its label;
// both are accepted, with label taking precedence when they collide since
// newer writers store labels directly. Number selections are validated
// against the configured bounds. Product-type attributes are resolved
// separately by ResolveProductSelection.
func ResolveSelection(attr models.CategoryAttribute, raw interface{}) (*ResolvedSelection, error) {
	rs := &ResolvedSelection{Attribute: attr.Title, Type: attr.Type}

	switch attr.Type {
	case models.AttributeTypeNumber:
		value, ok := toFloat(raw)
		if !ok {
			return rs, nil
		}
		if attr.MinValue != nil && value < *attr.MinValue {
			return nil, &OutOfRangeError{Attribute: attr.Title, Value: value, Min: attr.MinValue, Max: attr.MaxValue}
		}
		if attr.MaxValue != nil && value > *attr.MaxValue {
			return nil, &OutOfRangeError{Attribute: attr.Title, Value: value, Min: attr.MinValue, Max: attr.MaxValue}
		}
		rs.Number = &value
		return rs, nil

	case models.AttributeTypeSelect:
		key := toString(raw)
		if key == "" {
			return rs, nil
		}
		rs.Values = append(rs.Values, matchValue(attr, key))
		return rs, nil

	case models.AttributeTypeMultipleSelect:
		for _, item := range toList(raw) {
			key := toString(item)
			if key == "" {
				continue
			}
			rs.Values = append(rs.Values, matchValue(attr, key))
		}
		return rs, nil
	}

	return rs, nil
}

// ValidateSelectionCount enforces maxSelections for multipleSelect
// attributes. Called when a selection is edited, not when a price is
// composed, so the offending pick can be rejected outright.
func ValidateSelectionCount(attr models.CategoryAttribute, raw interface{}) error {
	if attr.Type != models.AttributeTypeMultipleSelect || attr.MaxSelections <= 0 {
		return nil
	}
	selected := len(toList(raw))
	if selected > attr.MaxSelections {
		return &TooManySelectionsError{Attribute: attr.Title, Max: attr.MaxSelections, Selected: selected}
	}
	return nil
}

// ResolveProductSelection resolves a product-type attribute selection (an
// array of product id hex strings) into the linked products plus the
// attribute selection each one should be composed with. Overrides are keyed
// "{attributeTitle}_{subProductHex}". Ids that no longer resolve to a
// catalog product are skipped with a warning.
func ResolveProductSelection(attr models.CategoryAttribute, raw interface{}, overrides map[string]map[string]interface{}, snap *CatalogSnapshot) ([]SubProductSelection, []Warning) {
	var subs []SubProductSelection
	var warnings []Warning

	for _, item := range toList(raw) {
		idHex := toString(item)
		if idHex == "" {
			continue
		}
		product, ok := snap.Product(idHex)
		if !ok {
			warnings = append(warnings, newWarning(WarnUnknownProduct,
				"attribute %q references unknown product %s", attr.Title, idHex))
			continue
		}
		selection := product.Attributes
		if override, ok := overrides[attr.Title+"_"+idHex]; ok {
			selection = override
		}
		subs = append(subs, SubProductSelection{Product: product, Selection: selection})
	}
	return subs, warnings
}

// matchValue matches a raw select key against the attribute options,
// label first and id hex second.
func matchValue(attr models.CategoryAttribute, key string) ResolvedValue {
	for i := range attr.Values {
		if attr.Values[i].Label == key {
			v := attr.Values[i]
			return ResolvedValue{Label: v.Label, Adjustment: v.PriceAdjustment, Currency: v.PriceAdjustmentCurrency, Matched: true, Value: &v}
		}
	}
	for i := range attr.Values {
		if attr.Values[i].ID.Hex() == key {
			v := attr.Values[i]
			return ResolvedValue{Label: v.Label, Adjustment: v.PriceAdjustment, Currency: v.PriceAdjustmentCurrency, Matched: true, Value: &v}
		}
	}
	return ResolvedValue{Label: key, Currency: models.CurrencyBs}
}

// toFloat coerces the value shapes Mongo and JSON decoding produce for
// numbers.
func toFloat(raw interface{}) (float64, bool) {
	switch v := raw.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	case string:
		if v == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(v, 64)
		return f, err == nil
	}
	return 0, false
}

// toList normalizes array-valued selections. Mongo decodes arrays as
// primitive.A; JSON binding produces []interface{}; a bare scalar is
// treated as a single-element list.
func toList(raw interface{}) []interface{} {
	switch v := raw.(type) {
	case nil:
		return nil
	case []interface{}:
		return v
	case primitive.A:
		return v
	case []string:
		out := make([]interface{}, len(v))
		for i, s := range v {
			out[i] = s
		}
		return out
	default:
		return []interface{}{raw}
	}
}

func toString(raw interface{}) string {
	switch v := raw.(type) {
	case nil:
		return ""
	case string:
		return v
	case primitive.ObjectID:
		return v.Hex()
	default:
		return fmt.Sprintf("%v", raw)
	}
}
