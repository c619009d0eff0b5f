package controllers

import (
	"bytes"
	"encoding/base64"
	"image/png"
	"net/http"
	"time"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/qr"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/dquintero/muebleria_backend/models"
	"github.com/dquintero/muebleria_backend/repositories"
)

// ProductController administers catalog products. Stock is deliberately
// absent everywhere: furniture is made or sourced on demand.
type ProductController struct {
	DB      *mongo.Database
	Catalog *repositories.CatalogRepository
	Log     *zap.Logger
}

func NewProductController(db *mongo.Database, catalog *repositories.CatalogRepository, log *zap.Logger) *ProductController {
	return &ProductController{DB: db, Catalog: catalog, Log: log}
}

type ProductRequest struct {
	Name          string                 `json:"name" validate:"required"`
	SKU           string                 `json:"sku" validate:"required"`
	Price         float64                `json:"price" validate:"required,gt=0"`
	PriceCurrency string                 `json:"priceCurrency" validate:"required"`
	CategoryName  string                 `json:"categoryName" validate:"required"`
	Attributes    map[string]interface{} `json:"attributes"`
}

// CreateProduct registers a product after checking the SKU is unique and
// the category exists.
func (pc *ProductController) CreateProduct(c echo.Context) error {
	var req ProductRequest
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

	currency := models.Currency(req.PriceCurrency)
	if !currency.IsValid() {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Unsupported currency",
		})
	}

	ctx := c.Request().Context()
	if _, err := pc.Catalog.GetCategory(ctx, req.CategoryName); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Category does not exist",
		})
	}
	if existing, err := pc.Catalog.GetProductBySKU(ctx, req.SKU); err == nil && existing != nil {
		return c.JSON(http.StatusConflict, models.Response{
			Status:  http.StatusConflict,
			Message: "SKU already exists",
		})
	}

	now := time.Now()
	product := models.Product{
		ID:            primitive.NewObjectID(),
		Name:          req.Name,
		SKU:           req.SKU,
		Price:         req.Price,
		PriceCurrency: currency,
		CategoryName:  req.CategoryName,
		Attributes:    req.Attributes,
		Status:        "active",
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if _, err := pc.DB.Collection("products").InsertOne(ctx, product); err != nil {
		pc.Log.Error("failed to insert product", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to create product",
		})
	}

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Product created successfully",
		Data:    product,
	})
}

// GetProducts lists products, optionally filtered by category.
func (pc *ProductController) GetProducts(c echo.Context) error {
	filter := bson.M{}
	if category := c.QueryParam("category"); category != "" {
		filter["categoryName"] = category
	}

	ctx := c.Request().Context()
	cursor, err := pc.DB.Collection("products").Find(ctx, filter)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to retrieve products",
		})
	}
	var products []models.Product
	if err := cursor.All(ctx, &products); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to decode products",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Products retrieved successfully",
		Data:    products,
	})
}

// GetProduct returns one product by id.
func (pc *ProductController) GetProduct(c echo.Context) error {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid product ID",
		})
	}

	product, err := pc.Catalog.GetProduct(c.Request().Context(), id)
	if err == mongo.ErrNoDocuments {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Product not found",
		})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to retrieve product",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Product retrieved successfully",
		Data:    product,
	})
}

// GetProductLabel returns a QR label for the product SKU, base64-encoded
// for direct embedding, for printing workshop and showroom tags.
func (pc *ProductController) GetProductLabel(c echo.Context) error {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid product ID",
		})
	}

	product, err := pc.Catalog.GetProduct(c.Request().Context(), id)
	if err != nil {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Product not found",
		})
	}

	label, err := generateSKULabel(product.SKU)
	if err != nil {
		pc.Log.Error("failed to generate product label", zap.Error(err), zap.String("sku", product.SKU))
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to generate label",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Label generated successfully",
		Data: map[string]string{
			"sku":   product.SKU,
			"label": label,
		},
	})
}

func generateSKULabel(sku string) (string, error) {
	qrCode, err := qr.Encode(sku, qr.M, qr.Auto)
	if err != nil {
		return "", err
	}
	qrCode, err = barcode.Scale(qrCode, 300, 300)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, qrCode); err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
