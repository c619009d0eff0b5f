package repositories

import (
	"context"
	"encoding/json"
	"time"

	"github.com/go-redis/redis/v8"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/dquintero/muebleria_backend/models"
)

const (
	rateCacheKey = "exchange_rates:active"
	rateCacheTTL = 5 * time.Minute
)

// ExchangeRateRepository reads and writes exchange rates. Rate documents
// are append-only: each refresh inserts a new document with its effective
// date and the latest one per currency wins, so the history stays
// auditable. The active snapshot is cached in Redis.
type ExchangeRateRepository struct {
	db    *mongo.Database
	redis *redis.Client
	log   *zap.Logger
}

func NewExchangeRateRepository(db *mongo.Database, redisClient *redis.Client, log *zap.Logger) *ExchangeRateRepository {
	return &ExchangeRateRepository{db: db, redis: redisClient, log: log}
}

// GetActiveRates returns the latest rate per foreign currency, from cache
// when possible.
func (r *ExchangeRateRepository) GetActiveRates(ctx context.Context) (models.RateMap, error) {
	if r.redis != nil {
		cached, err := r.redis.Get(ctx, rateCacheKey).Result()
		if err == nil {
			var rates models.RateMap
			if err := json.Unmarshal([]byte(cached), &rates); err == nil {
				return rates, nil
			}
			// Corrupt cache entry, fall through to Mongo.
			r.redis.Del(ctx, rateCacheKey)
		}
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	rates := make(models.RateMap)
	for _, currency := range []models.Currency{models.CurrencyUSD, models.CurrencyEUR} {
		var rate models.ExchangeRate
		err := r.db.Collection("exchange_rates").FindOne(ctx,
			bson.M{"currency": currency},
			options.FindOne().SetSort(bson.D{{Key: "effectiveDate", Value: -1}}),
		).Decode(&rate)
		if err == mongo.ErrNoDocuments {
			continue
		}
		if err != nil {
			return nil, err
		}
		rates[currency] = rate
	}

	if r.redis != nil {
		if payload, err := json.Marshal(rates); err == nil {
			if err := r.redis.Set(ctx, rateCacheKey, payload, rateCacheTTL).Err(); err != nil {
				r.log.Warn("failed to cache exchange rates", zap.Error(err))
			}
		}
	}

	return rates, nil
}

// UpsertRate records a new rate for a currency and invalidates the cached
// snapshot.
func (r *ExchangeRateRepository) UpsertRate(ctx context.Context, currency models.Currency, rate float64, effectiveDate time.Time) (*models.ExchangeRate, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	now := time.Now()
	doc := models.ExchangeRate{
		ID:            primitive.NewObjectID(),
		Currency:      currency,
		Rate:          rate,
		EffectiveDate: effectiveDate,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if _, err := r.db.Collection("exchange_rates").InsertOne(ctx, doc); err != nil {
		return nil, err
	}

	if r.redis != nil {
		if err := r.redis.Del(ctx, rateCacheKey).Err(); err != nil {
			r.log.Warn("failed to invalidate exchange rate cache", zap.Error(err))
		}
	}

	r.log.Info("exchange rate recorded",
		zap.String("currency", string(currency)),
		zap.Float64("rate", rate),
		zap.Time("effectiveDate", effectiveDate))

	return &doc, nil
}
