package controllers

import (
	"fmt"
	"math"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/dquintero/muebleria_backend/models"
	"github.com/dquintero/muebleria_backend/repositories"
)

// CategoryController administers categories, their attribute schemas and
// the per-category commission values.
type CategoryController struct {
	DB    *mongo.Database
	Rules *repositories.CommissionRuleRepository
	Log   *zap.Logger
}

func NewCategoryController(db *mongo.Database, rules *repositories.CommissionRuleRepository, log *zap.Logger) *CategoryController {
	return &CategoryController{DB: db, Rules: rules, Log: log}
}

type AttributeValueRequest struct {
	Label                   string  `json:"label" validate:"required"`
	IsDefault               bool    `json:"isDefault"`
	PriceAdjustment         float64 `json:"priceAdjustment"`
	PriceAdjustmentCurrency string  `json:"priceAdjustmentCurrency"`
	ProductID               string  `json:"productId"`
}

type CategoryAttributeRequest struct {
	Title         string                  `json:"title" validate:"required"`
	Type          string                  `json:"type" validate:"required"`
	Values        []AttributeValueRequest `json:"values" validate:"dive"`
	MaxSelections int                     `json:"maxSelections"`
	MinValue      *float64                `json:"minValue"`
	MaxValue      *float64                `json:"maxValue"`
}

type CategoryRequest struct {
	Name                string                     `json:"name" validate:"required"`
	Attributes          []CategoryAttributeRequest `json:"attributes" validate:"dive"`
	MaxDiscount         float64                    `json:"maxDiscount"`
	MaxDiscountCurrency string                     `json:"maxDiscountCurrency"`
}

type CategoryCommissionRequest struct {
	Value float64 `json:"value" validate:"required"`
}

type SaleTypeRuleRequest struct {
	VendorRate   float64 `json:"vendorRate" validate:"required,gt=0"`
	ReferrerRate float64 `json:"referrerRate" validate:"gte=0"`
}

// CreateCategory creates a category with its attribute schema.
func (cc *CategoryController) CreateCategory(c echo.Context) error {
	var req CategoryRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request format",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: err.Error(),
		})
	}

	attributes, err := buildAttributes(req.Attributes)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: err.Error(),
		})
	}

	ctx := c.Request().Context()

	var existing models.Category
	err = cc.DB.Collection("categories").FindOne(ctx, bson.M{"name": req.Name}).Decode(&existing)
	if err == nil {
		return c.JSON(http.StatusConflict, models.Response{
			Status:  http.StatusConflict,
			Message: "Category name already exists",
		})
	}

	now := time.Now()
	category := models.Category{
		ID:                  primitive.NewObjectID(),
		Name:                req.Name,
		Attributes:          attributes,
		MaxDiscount:         req.MaxDiscount,
		MaxDiscountCurrency: models.Currency(req.MaxDiscountCurrency),
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	if category.MaxDiscountCurrency == "" {
		category.MaxDiscountCurrency = models.CurrencyBs
	}

	if _, err := cc.DB.Collection("categories").InsertOne(ctx, category); err != nil {
		cc.Log.Error("failed to insert category", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to create category",
		})
	}

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Category created successfully",
		Data:    category,
	})
}

// AddAttribute appends one attribute to an existing category. Attributes
// are only ever appended or edited, never removed implicitly: stored
// orders keep referencing them.
func (cc *CategoryController) AddAttribute(c echo.Context) error {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid category ID",
		})
	}

	var req CategoryAttributeRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request format",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: err.Error(),
		})
	}

	attributes, err := buildAttributes([]CategoryAttributeRequest{req})
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: err.Error(),
		})
	}

	ctx := c.Request().Context()
	result, err := cc.DB.Collection("categories").UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{
			"$push": bson.M{"attributes": attributes[0]},
			"$set":  bson.M{"updatedAt": time.Now()},
		})
	if err != nil {
		cc.Log.Error("failed to add attribute", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to add attribute",
		})
	}
	if result.MatchedCount == 0 {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Category not found",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Attribute added successfully",
		Data:    attributes[0],
	})
}

// GetCategories lists all categories with their attribute schemas.
func (cc *CategoryController) GetCategories(c echo.Context) error {
	ctx := c.Request().Context()
	cursor, err := cc.DB.Collection("categories").Find(ctx, bson.M{})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to retrieve categories",
		})
	}
	var categories []models.Category
	if err := cursor.All(ctx, &categories); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to decode categories",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Categories retrieved successfully",
		Data:    categories,
	})
}

// SetCommission writes the commission value for a category. Values must be
// multiples of 2.5; that is enforced here, at configuration time, so the
// computation path never needs to round anything.
func (cc *CategoryController) SetCommission(c echo.Context) error {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid category ID",
		})
	}

	var req CategoryCommissionRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request format",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: err.Error(),
		})
	}

	if req.Value < 0 || !isMultipleOf(req.Value, 2.5) {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Commission value must be a non-negative multiple of 2.5",
		})
	}

	ctx := c.Request().Context()
	var category models.Category
	if err := cc.DB.Collection("categories").FindOne(ctx, bson.M{"_id": id}).Decode(&category); err != nil {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Category not found",
		})
	}

	pc, err := cc.Rules.UpsertProductCommission(ctx, id, req.Value)
	if err != nil {
		cc.Log.Error("failed to upsert category commission", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to save commission",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Commission saved successfully",
		Data:    pc,
	})
}

// SetSaleTypeRule writes the seller/referrer split rule for a sale type.
func (cc *CategoryController) SetSaleTypeRule(c echo.Context) error {
	saleType := models.SaleType(c.Param("saleType"))

	var req SaleTypeRuleRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request format",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: err.Error(),
		})
	}

	rule, err := cc.Rules.UpsertSaleTypeRule(c.Request().Context(), saleType, req.VendorRate, req.ReferrerRate)
	if err != nil {
		cc.Log.Error("failed to upsert sale type rule", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to save sale type rule",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Sale type rule saved successfully",
		Data:    rule,
	})
}

// buildAttributes converts attribute requests into model form, enforcing
// the schema invariants: number attributes carry no values, everything
// else needs at least one; product-type values must reference a product.
func buildAttributes(requests []CategoryAttributeRequest) ([]models.CategoryAttribute, error) {
	attributes := make([]models.CategoryAttribute, 0, len(requests))
	for _, req := range requests {
		attrType := models.AttributeType(req.Type)
		if !attrType.IsValid() {
			return nil, fmt.Errorf("unknown attribute type %q for %q", req.Type, req.Title)
		}

		if attrType == models.AttributeTypeNumber {
			if len(req.Values) > 0 {
				return nil, fmt.Errorf("number attribute %q cannot carry values", req.Title)
			}
			if req.MinValue != nil && req.MaxValue != nil && *req.MinValue > *req.MaxValue {
				return nil, fmt.Errorf("attribute %q has minValue above maxValue", req.Title)
			}
		} else if len(req.Values) == 0 {
			return nil, fmt.Errorf("attribute %q needs at least one value", req.Title)
		}

		if req.MaxSelections != 0 && attrType != models.AttributeTypeMultipleSelect {
			return nil, fmt.Errorf("maxSelections only applies to multipleSelect, attribute %q is %s", req.Title, req.Type)
		}

		values := make([]models.AttributeValue, 0, len(req.Values))
		for _, v := range req.Values {
			value := models.AttributeValue{
				ID:                      primitive.NewObjectID(),
				Label:                   v.Label,
				IsDefault:               v.IsDefault,
				PriceAdjustment:         v.PriceAdjustment,
				PriceAdjustmentCurrency: models.Currency(v.PriceAdjustmentCurrency),
			}
			if value.PriceAdjustmentCurrency == "" {
				value.PriceAdjustmentCurrency = models.CurrencyBs
			}
			if attrType == models.AttributeTypeProduct {
				if v.ProductID == "" {
					return nil, fmt.Errorf("product attribute %q value %q needs a productId", req.Title, v.Label)
				}
				productID, err := primitive.ObjectIDFromHex(v.ProductID)
				if err != nil {
					return nil, fmt.Errorf("product attribute %q value %q has an invalid productId", req.Title, v.Label)
				}
				value.ProductID = &productID
			}
			values = append(values, value)
		}

		attributes = append(attributes, models.CategoryAttribute{
			ID:            primitive.NewObjectID(),
			Title:         req.Title,
			Type:          attrType,
			Values:        values,
			MaxSelections: req.MaxSelections,
			MinValue:      req.MinValue,
			MaxValue:      req.MaxValue,
		})
	}
	return attributes, nil
}

func isMultipleOf(value, step float64) bool {
	return math.Abs(math.Remainder(value, step)) < 1e-9
}
