package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/dquintero/muebleria_backend/models"
	"github.com/dquintero/muebleria_backend/services"
)

// CatalogRepository reads categories and products and builds the read-only
// snapshot the pricing engine computes over.
type CatalogRepository struct {
	db  *mongo.Database
	log *zap.Logger
}

func NewCatalogRepository(db *mongo.Database, log *zap.Logger) *CatalogRepository {
	return &CatalogRepository{db: db, log: log}
}

// GetCategory returns the category with the given name.
func (r *CatalogRepository) GetCategory(ctx context.Context, name string) (*models.Category, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	var category models.Category
	err := r.db.Collection("categories").FindOne(ctx, bson.M{"name": name}).Decode(&category)
	if err != nil {
		return nil, err
	}
	return &category, nil
}

// GetProduct returns the product with the given id.
func (r *CatalogRepository) GetProduct(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	var product models.Product
	err := r.db.Collection("products").FindOne(ctx, bson.M{"_id": id}).Decode(&product)
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// GetProductBySKU returns the product with the given SKU.
func (r *CatalogRepository) GetProductBySKU(ctx context.Context, sku string) (*models.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	var product models.Product
	err := r.db.Collection("products").FindOne(ctx, bson.M{"sku": sku}).Decode(&product)
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// LoadSnapshot prefetches the whole catalog plus the supplied rates into an
// in-memory snapshot. The furniture catalog is small (hundreds of
// products), so a full load per pricing request batch is cheaper than
// chasing references one query at a time mid-composition.
func (r *CatalogRepository) LoadSnapshot(ctx context.Context, rates models.RateMap) (*services.CatalogSnapshot, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	snap := services.NewCatalogSnapshot()
	snap.Rates = rates

	cursor, err := r.db.Collection("products").Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	var products []models.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, err
	}
	for _, p := range products {
		snap.Products[p.ID.Hex()] = p
	}

	cursor, err = r.db.Collection("categories").Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	var categories []models.Category
	if err := cursor.All(ctx, &categories); err != nil {
		return nil, err
	}
	for _, c := range categories {
		snap.Categories[c.Name] = c
	}

	r.log.Debug("catalog snapshot loaded",
		zap.Int("products", len(snap.Products)),
		zap.Int("categories", len(snap.Categories)),
		zap.Int("rates", len(snap.Rates)))

	return snap, nil
}
