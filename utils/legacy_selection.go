package utils

import (
	"strings"

	"github.com/dquintero/muebleria_backend/models"
)

// NormalizeLegacySelection rewrites a stored attribute selection so that
// every key is the attribute title. Older order writers keyed selections by
// the attribute id hex; the pricing engine only ever sees canonical
// title-keyed maps, so the translation happens here at the boundary, right
// after decode. Keys that match neither a title nor an id are kept as-is
// and ignored downstream.
//
// Value-level duality (option id hex vs label) is not rewritten; the
// attribute resolver accepts both permanently, since stored orders
// reference both forms.
func NormalizeLegacySelection(category models.Category, raw map[string]interface{}) map[string]interface{} {
	if raw == nil {
		return nil
	}
	out := make(map[string]interface{}, len(raw))
	for key, value := range raw {
		out[canonicalAttributeKey(category, key)] = value
	}
	return out
}

// NormalizeLegacySubProductKeys does the same for per-sub-product override
// keys of the form "{attributeKey}_{subProductHex}".
func NormalizeLegacySubProductKeys(category models.Category, raw map[string]map[string]interface{}) map[string]map[string]interface{} {
	if raw == nil {
		return nil
	}
	out := make(map[string]map[string]interface{}, len(raw))
	for key, value := range raw {
		// The sub-product hex never contains an underscore; attribute
		// titles can, so split at the last one.
		idx := strings.LastIndex(key, "_")
		if idx < 0 {
			out[key] = value
			continue
		}
		out[canonicalAttributeKey(category, key[:idx])+"_"+key[idx+1:]] = value
	}
	return out
}

func canonicalAttributeKey(category models.Category, key string) string {
	if category.AttributeByTitle(key) != nil {
		return key
	}
	for i := range category.Attributes {
		if category.Attributes[i].ID.Hex() == key {
			return category.Attributes[i].Title
		}
	}
	return key
}
