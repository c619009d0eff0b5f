package controllers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/dquintero/muebleria_backend/models"
	"github.com/dquintero/muebleria_backend/repositories"
	"github.com/dquintero/muebleria_backend/services"
	"github.com/dquintero/muebleria_backend/utils"
)

// OrderController handles price quotes, order finalization and per-order
// commission lookups. The engines compute over prefetched snapshots; the
// controller owns all the I/O around them.
type OrderController struct {
	DB      *mongo.Database
	Catalog *repositories.CatalogRepository
	Rates   *repositories.ExchangeRateRepository
	Rules   *repositories.CommissionRuleRepository
	Log     *zap.Logger
}

func NewOrderController(db *mongo.Database, catalog *repositories.CatalogRepository, rates *repositories.ExchangeRateRepository, rules *repositories.CommissionRuleRepository, log *zap.Logger) *OrderController {
	return &OrderController{DB: db, Catalog: catalog, Rates: rates, Rules: rules, Log: log}
}

type QuoteRequest struct {
	ProductID            string                            `json:"productId" validate:"required"`
	Quantity             int                               `json:"quantity"`
	SelectedAttributes   map[string]interface{}            `json:"selectedAttributes"`
	SubProductAttributes map[string]map[string]interface{} `json:"subProductAttributes"`
}

type OrderLineRequest struct {
	ProductID            string                            `json:"productId" validate:"required"`
	Quantity             int                               `json:"quantity" validate:"required"`
	SelectedAttributes   map[string]interface{}            `json:"selectedAttributes"`
	SubProductAttributes map[string]map[string]interface{} `json:"subProductAttributes"`
}

type CreateOrderRequest struct {
	SaleType     string             `json:"saleType" validate:"required"`
	SellerID     string             `json:"sellerId" validate:"required"`
	SellerName   string             `json:"sellerName" validate:"required"`
	ReferrerID   string             `json:"referrerId"`
	ReferrerName string             `json:"referrerName"`
	Products     []OrderLineRequest `json:"products" validate:"required,min=1,dive"`
}

type SelectionCheckRequest struct {
	ProductID string      `json:"productId" validate:"required"`
	Attribute string      `json:"attribute" validate:"required"`
	Selection interface{} `json:"selection"`
}

// PriceQuote composes the unit price of one product instance without
// finalizing anything. Missing required attributes do not fail a quote;
// the breakdown and warnings come back for transparent display.
func (oc *OrderController) PriceQuote(c echo.Context) error {
	var req QuoteRequest
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

	ctx := c.Request().Context()
	snap, err := oc.loadSnapshot(ctx)
	if err != nil {
		oc.Log.Error("failed to load catalog snapshot", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to load catalog",
		})
	}

	product, ok := snap.Product(req.ProductID)
	if !ok {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Product not found",
		})
	}

	pricing := services.NewPricingService(snap, oc.Log)
	selection := req.SelectedAttributes
	overrides := req.SubProductAttributes
	if category, ok := snap.Category(product.CategoryName); ok {
		selection = utils.NormalizeLegacySelection(category, selection)
		overrides = utils.NormalizeLegacySubProductKeys(category, overrides)
	}

	result, err := pricing.ComposeUnitPrice(product, selection, overrides)
	if err != nil {
		return oc.composeError(c, err)
	}

	quantity := req.Quantity
	if quantity == 0 {
		quantity = 1
	}
	lineTotal, err := pricing.LineTotal(result.UnitPrice, quantity)
	if err != nil {
		return oc.composeError(c, err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Price composed successfully",
		Data: map[string]interface{}{
			"unitPrice": result.UnitPrice,
			"quantity":  quantity,
			"lineTotal": lineTotal,
			"breakdown": result.Breakdown,
			"warnings":  result.Warnings,
		},
	})
}

// CheckSelection validates one attribute selection at edit time: selection
// count for multipleSelect, bounds for number. Rejections are returned to
// the UI so the offending pick can be refused, never truncated.
func (oc *OrderController) CheckSelection(c echo.Context) error {
	var req SelectionCheckRequest
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

	ctx := c.Request().Context()
	id, err := primitive.ObjectIDFromHex(req.ProductID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid product ID",
		})
	}
	product, err := oc.Catalog.GetProduct(ctx, id)
	if err != nil {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Product not found",
		})
	}
	category, err := oc.Catalog.GetCategory(ctx, product.CategoryName)
	if err != nil {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Category not found",
		})
	}

	attr := category.AttributeByTitle(req.Attribute)
	if attr == nil {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: fmt.Sprintf("Attribute %q not found in category %q", req.Attribute, category.Name),
		})
	}

	if err := services.ValidateSelectionCount(*attr, req.Selection); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, models.Response{
			Status:  http.StatusUnprocessableEntity,
			Message: err.Error(),
		})
	}
	if _, err := services.ResolveSelection(*attr, req.Selection); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, models.Response{
			Status:  http.StatusUnprocessableEntity,
			Message: err.Error(),
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Selection is valid",
	})
}

// CreateOrder finalizes an order: every line must pass required-attribute
// validation, then every line is composed and persisted together with its
// commissions. Validation problems across all lines are reported in one
// consolidated message.
func (oc *OrderController) CreateOrder(c echo.Context) error {
	var req CreateOrderRequest
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

	sellerID, err := primitive.ObjectIDFromHex(req.SellerID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid seller ID",
		})
	}
	var referrerID *primitive.ObjectID
	if req.ReferrerID != "" {
		id, err := primitive.ObjectIDFromHex(req.ReferrerID)
		if err != nil {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "Invalid referrer ID",
			})
		}
		referrerID = &id
	}

	ctx := c.Request().Context()
	snap, err := oc.loadSnapshot(ctx)
	if err != nil {
		oc.Log.Error("failed to load catalog snapshot", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to load catalog",
		})
	}

	pricing := services.NewPricingService(snap, oc.Log)

	var validationMessages []string
	var lines []models.OrderProduct
	var warnings []services.Warning
	total := 0.0

	for i, lineReq := range req.Products {
		product, ok := snap.Product(lineReq.ProductID)
		if !ok {
			validationMessages = append(validationMessages, fmt.Sprintf("line %d: product %s not found", i+1, lineReq.ProductID))
			continue
		}
		category, ok := snap.Category(product.CategoryName)
		if !ok {
			validationMessages = append(validationMessages, fmt.Sprintf("line %d: category %q not found", i+1, product.CategoryName))
			continue
		}

		selection := utils.NormalizeLegacySelection(category, lineReq.SelectedAttributes)
		overrides := utils.NormalizeLegacySubProductKeys(category, lineReq.SubProductAttributes)

		if err := pricing.ValidateRequiredSelections(category, selection); err != nil {
			validationMessages = append(validationMessages, fmt.Sprintf("line %d (%s): %s", i+1, product.Name, err.Error()))
			continue
		}

		result, err := pricing.ComposeUnitPrice(product, selection, overrides)
		if err != nil {
			validationMessages = append(validationMessages, fmt.Sprintf("line %d (%s): %s", i+1, product.Name, err.Error()))
			continue
		}
		lineTotal, err := pricing.LineTotal(result.UnitPrice, lineReq.Quantity)
		if err != nil {
			validationMessages = append(validationMessages, fmt.Sprintf("line %d (%s): %s", i+1, product.Name, err.Error()))
			continue
		}

		warnings = append(warnings, result.Warnings...)
		total += lineTotal
		lines = append(lines, models.OrderProduct{
			ProductID:            product.ID,
			ProductName:          product.Name,
			CategoryID:           category.ID,
			CategoryName:         category.Name,
			Quantity:             lineReq.Quantity,
			SelectedAttributes:   selection,
			SubProductAttributes: overrides,
			UnitPrice:            result.UnitPrice,
			LineTotal:            lineTotal,
		})
	}

	if len(validationMessages) > 0 {
		return c.JSON(http.StatusUnprocessableEntity, models.Response{
			Status:  http.StatusUnprocessableEntity,
			Message: strings.Join(validationMessages, "; "),
		})
	}

	now := time.Now()
	order := models.Order{
		ID:           primitive.NewObjectID(),
		Number:       newOrderNumber(),
		Products:     lines,
		SaleType:     models.SaleType(req.SaleType),
		SellerID:     sellerID,
		SellerName:   req.SellerName,
		ReferrerID:   referrerID,
		ReferrerName: req.ReferrerName,
		Total:        total,
		Status:       "confirmed",
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if _, err := oc.DB.Collection("orders").InsertOne(ctx, order); err != nil {
		oc.Log.Error("failed to insert order", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to create order",
		})
	}

	ruleSet, err := oc.Rules.LoadRuleSet(ctx)
	if err != nil {
		oc.Log.Error("failed to load commission rules", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Order created but commission computation failed",
		})
	}

	commissionSvc := services.NewCommissionService(oc.Log)
	commissionResult := commissionSvc.ComputeOrderCommissions(order, ruleSet)
	warnings = append(warnings, commissionResult.Warnings...)

	if len(commissionResult.Commissions) > 0 {
		docs := make([]interface{}, 0, len(commissionResult.Commissions))
		for _, commission := range commissionResult.Commissions {
			commission.ID = primitive.NewObjectID()
			docs = append(docs, commission)
		}
		if _, err := oc.DB.Collection("commissions").InsertMany(ctx, docs); err != nil {
			oc.Log.Error("failed to insert commissions", zap.Error(err), zap.String("order", order.Number))
		}
	}

	oc.Log.Info("order created",
		zap.String("number", order.Number),
		zap.Int("lines", len(order.Products)),
		zap.Float64("total", order.Total),
		zap.Int("commissions", len(commissionResult.Commissions)))

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Order created successfully",
		Data: map[string]interface{}{
			"order":       order,
			"commissions": commissionResult.Commissions,
			"warnings":    warnings,
		},
	})
}

// GetOrder returns one order by id.
func (oc *OrderController) GetOrder(c echo.Context) error {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid order ID",
		})
	}

	var order models.Order
	err = oc.DB.Collection("orders").FindOne(c.Request().Context(), bson.M{"_id": id}).Decode(&order)
	if err == mongo.ErrNoDocuments {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Order not found",
		})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to retrieve order",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Order retrieved successfully",
		Data:    order,
	})
}

// GetOrderCommissions recomputes commissions for a stored order from the
// current rule configuration.
func (oc *OrderController) GetOrderCommissions(c echo.Context) error {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid order ID",
		})
	}

	ctx := c.Request().Context()
	var order models.Order
	err = oc.DB.Collection("orders").FindOne(ctx, bson.M{"_id": id}).Decode(&order)
	if err == mongo.ErrNoDocuments {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Order not found",
		})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to retrieve order",
		})
	}

	ruleSet, err := oc.Rules.LoadRuleSet(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to load commission rules",
		})
	}

	result := services.NewCommissionService(oc.Log).ComputeOrderCommissions(order, ruleSet)

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Commissions computed successfully",
		Data:    result,
	})
}

func (oc *OrderController) loadSnapshot(ctx context.Context) (*services.CatalogSnapshot, error) {
	rates, err := oc.Rates.GetActiveRates(ctx)
	if err != nil {
		return nil, err
	}
	return oc.Catalog.LoadSnapshot(ctx, rates)
}

func (oc *OrderController) composeError(c echo.Context, err error) error {
	var circular *services.CircularReferenceError
	var quantity *services.InvalidQuantityError
	switch {
	case errors.As(err, &circular), errors.As(err, &quantity):
		return c.JSON(http.StatusUnprocessableEntity, models.Response{
			Status:  http.StatusUnprocessableEntity,
			Message: err.Error(),
		})
	}
	return c.JSON(http.StatusInternalServerError, models.Response{
		Status:  http.StatusInternalServerError,
		Message: err.Error(),
	})
}

// newOrderNumber derives a short human-readable order number.
func newOrderNumber() string {
	return "ORD-" + strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:10])
}
