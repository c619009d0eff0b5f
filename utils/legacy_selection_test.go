package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/dquintero/muebleria_backend/models"
)

func legacyCategory() models.Category {
	return models.Category{
		ID:   primitive.NewObjectID(),
		Name: "Sofas",
		Attributes: []models.CategoryAttribute{
			{ID: primitive.NewObjectID(), Title: "Color", Type: models.AttributeTypeSelect},
			{ID: primitive.NewObjectID(), Title: "Tapiz_Interior", Type: models.AttributeTypeProduct},
		},
	}
}

func TestNormalizeLegacySelection(t *testing.T) {
	category := legacyCategory()

	raw := map[string]interface{}{
		category.Attributes[0].ID.Hex(): "Rojo",  // legacy id-keyed
		"Tapiz_Interior":                "x",     // already canonical
		"Descontinuado":                 "valor", // matches nothing, kept as-is
	}

	out := NormalizeLegacySelection(category, raw)
	require.Len(t, out, 3)
	assert.Equal(t, "Rojo", out["Color"])
	assert.Equal(t, "x", out["Tapiz_Interior"])
	assert.Equal(t, "valor", out["Descontinuado"])

	assert.Nil(t, NormalizeLegacySelection(category, nil))
}

func TestNormalizeLegacySubProductKeys(t *testing.T) {
	category := legacyCategory()
	subHex := primitive.NewObjectID().Hex()

	raw := map[string]map[string]interface{}{
		category.Attributes[1].ID.Hex() + "_" + subHex: {"Tela": "Lino"},
		// Attribute titles may contain underscores themselves; only the
		// trailing hex segment is the sub-product id.
		"Tapiz_Interior_" + subHex: {"Tela": "Terciopelo"},
		"sinseparador":             {"Tela": "Seda"},
	}

	out := NormalizeLegacySubProductKeys(category, raw)
	require.Len(t, out, 2)
	// Legacy and canonical variants collapse onto the same canonical key.
	assert.Contains(t, out, "Tapiz_Interior_"+subHex)
	assert.Equal(t, map[string]interface{}{"Tela": "Seda"}, out["sinseparador"])

	assert.Nil(t, NormalizeLegacySubProductKeys(category, nil))
}
