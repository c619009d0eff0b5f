package controllers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/dquintero/muebleria_backend/models"
	"github.com/dquintero/muebleria_backend/utils"
)

// CommissionController serves commission reports over the records
// persisted at order finalization.
type CommissionController struct {
	DB  *mongo.Database
	Log *zap.Logger
}

func NewCommissionController(db *mongo.Database, log *zap.Logger) *CommissionController {
	return &CommissionController{DB: db, Log: log}
}

// GetCommissions lists commission records, filterable by seller, date
// range and minimum amount.
func (cc *CommissionController) GetCommissions(c echo.Context) error {
	filter := bson.M{}

	if sellerID := c.QueryParam("sellerId"); sellerID != "" {
		id, err := primitive.ObjectIDFromHex(sellerID)
		if err != nil {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "Invalid seller ID",
			})
		}
		filter["sellerId"] = id
	}

	dateFilter := bson.M{}
	if from := c.QueryParam("from"); from != "" {
		parsed, err := time.Parse("2006-01-02", from)
		if err != nil {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "from must be YYYY-MM-DD",
			})
		}
		dateFilter["$gte"] = parsed
	}
	if to := c.QueryParam("to"); to != "" {
		parsed, err := time.Parse("2006-01-02", to)
		if err != nil {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "to must be YYYY-MM-DD",
			})
		}
		dateFilter["$lt"] = parsed.AddDate(0, 0, 1)
	}
	if len(dateFilter) > 0 {
		filter["createdAt"] = dateFilter
	}

	minAmount, err := utils.ParseFloat(c.QueryParam("minAmount"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "minAmount must be numeric",
		})
	}
	if minAmount > 0 {
		filter["commission"] = bson.M{"$gte": minAmount}
	}

	ctx := c.Request().Context()
	cursor, err := cc.DB.Collection("commissions").Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		cc.Log.Error("failed to query commissions", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to retrieve commissions",
		})
	}
	var commissions []models.Commission
	if err := cursor.All(ctx, &commissions); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to decode commissions",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Commissions retrieved successfully",
		Data:    commissions,
	})
}

// GetCommissionSummary aggregates commission totals per seller for the
// same filters as GetCommissions.
func (cc *CommissionController) GetCommissionSummary(c echo.Context) error {
	matchStage := bson.M{}
	if from := c.QueryParam("from"); from != "" {
		if parsed, err := time.Parse("2006-01-02", from); err == nil {
			matchStage["createdAt"] = bson.M{"$gte": parsed}
		}
	}

	pipeline := []bson.M{
		{"$match": matchStage},
		{"$group": bson.M{
			"_id":        "$sellerId",
			"sellerName": bson.M{"$first": "$sellerName"},
			"total":      bson.M{"$sum": "$commission"},
			"count":      bson.M{"$sum": 1},
			"sharedCount": bson.M{"$sum": bson.M{
				"$cond": []interface{}{"$isShared", 1, 0},
			}},
		}},
		{"$sort": bson.M{"total": -1}},
	}

	ctx := c.Request().Context()
	cursor, err := cc.DB.Collection("commissions").Aggregate(ctx, pipeline)
	if err != nil {
		cc.Log.Error("failed to aggregate commissions", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to build commission summary",
		})
	}
	var summary []bson.M
	if err := cursor.All(ctx, &summary); err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to decode commission summary",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Commission summary built successfully",
		Data:    summary,
	})
}

// MarkPaid marks one commission record as paid.
func (cc *CommissionController) MarkPaid(c echo.Context) error {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid commission ID",
		})
	}

	now := time.Now()
	result, err := cc.DB.Collection("commissions").UpdateOne(c.Request().Context(),
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"paid": true, "paidAt": now}})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to update commission",
		})
	}
	if result.MatchedCount == 0 {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Commission not found",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Commission marked as paid",
	})
}
