package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/dquintero/muebleria_backend/models"
	"github.com/dquintero/muebleria_backend/services"
)

// CommissionRuleRepository reads and writes the commission configuration
// consumed by the commission engine.
type CommissionRuleRepository struct {
	db  *mongo.Database
	log *zap.Logger
}

func NewCommissionRuleRepository(db *mongo.Database, log *zap.Logger) *CommissionRuleRepository {
	return &CommissionRuleRepository{db: db, log: log}
}

// GetProductCommission returns the commission configured for a category,
// or nil when none is configured.
func (r *CommissionRuleRepository) GetProductCommission(ctx context.Context, categoryID primitive.ObjectID) (*models.ProductCommission, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	var pc models.ProductCommission
	err := r.db.Collection("product_commissions").FindOne(ctx, bson.M{"categoryId": categoryID}).Decode(&pc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &pc, nil
}

// GetSaleTypeRule returns the split rule for a sale type, or nil when none
// is configured.
func (r *CommissionRuleRepository) GetSaleTypeRule(ctx context.Context, saleType models.SaleType) (*models.SaleTypeCommissionRule, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	var rule models.SaleTypeCommissionRule
	err := r.db.Collection("sale_type_commission_rules").FindOne(ctx, bson.M{"saleType": saleType}).Decode(&rule)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rule, nil
}

// LoadRuleSet prefetches every commission rule into the in-memory form the
// commission engine consumes.
func (r *CommissionRuleRepository) LoadRuleSet(ctx context.Context) (services.CommissionRuleSet, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	rules := services.NewCommissionRuleSet()

	cursor, err := r.db.Collection("product_commissions").Find(ctx, bson.M{})
	if err != nil {
		return rules, err
	}
	var commissions []models.ProductCommission
	if err := cursor.All(ctx, &commissions); err != nil {
		return rules, err
	}
	for _, pc := range commissions {
		rules.ProductCommissions[pc.CategoryID.Hex()] = pc
	}

	cursor, err = r.db.Collection("sale_type_commission_rules").Find(ctx, bson.M{})
	if err != nil {
		return rules, err
	}
	var saleTypeRules []models.SaleTypeCommissionRule
	if err := cursor.All(ctx, &saleTypeRules); err != nil {
		return rules, err
	}
	for _, rule := range saleTypeRules {
		rules.SaleTypeRules[rule.SaleType] = rule
	}

	return rules, nil
}

// UpsertProductCommission writes the commission value for a category. The
// multiple-of-2.5 constraint is enforced by the admin controller before it
// gets here.
func (r *CommissionRuleRepository) UpsertProductCommission(ctx context.Context, categoryID primitive.ObjectID, value float64) (*models.ProductCommission, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	now := time.Now()
	filter := bson.M{"categoryId": categoryID}
	update := bson.M{
		"$set":         bson.M{"value": value, "updatedAt": now},
		"$setOnInsert": bson.M{"categoryId": categoryID, "createdAt": now},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var pc models.ProductCommission
	if err := r.db.Collection("product_commissions").FindOneAndUpdate(ctx, filter, update, opts).Decode(&pc); err != nil {
		return nil, err
	}
	return &pc, nil
}

// UpsertSaleTypeRule writes the split rule for a sale type.
func (r *CommissionRuleRepository) UpsertSaleTypeRule(ctx context.Context, saleType models.SaleType, vendorRate, referrerRate float64) (*models.SaleTypeCommissionRule, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	now := time.Now()
	filter := bson.M{"saleType": saleType}
	update := bson.M{
		"$set":         bson.M{"vendorRate": vendorRate, "referrerRate": referrerRate, "updatedAt": now},
		"$setOnInsert": bson.M{"saleType": saleType, "createdAt": now},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var rule models.SaleTypeCommissionRule
	if err := r.db.Collection("sale_type_commission_rules").FindOneAndUpdate(ctx, filter, update, opts).Decode(&rule); err != nil {
		return nil, err
	}
	return &rule, nil
}
