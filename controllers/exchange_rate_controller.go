package controllers

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/dquintero/muebleria_backend/models"
	"github.com/dquintero/muebleria_backend/repositories"
)

// ExchangeRateController administers the Bs conversion rates the pricing
// engine normalizes with.
type ExchangeRateController struct {
	Rates *repositories.ExchangeRateRepository
	Log   *zap.Logger
}

func NewExchangeRateController(rates *repositories.ExchangeRateRepository, log *zap.Logger) *ExchangeRateController {
	return &ExchangeRateController{Rates: rates, Log: log}
}

type ExchangeRateRequest struct {
	Rate          float64 `json:"rate" validate:"required,gt=0"`
	EffectiveDate string  `json:"effectiveDate"`
}

// GetActiveRates returns the latest rate per foreign currency.
func (ec *ExchangeRateController) GetActiveRates(c echo.Context) error {
	rates, err := ec.Rates.GetActiveRates(c.Request().Context())
	if err != nil {
		ec.Log.Error("failed to load exchange rates", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to retrieve exchange rates",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Exchange rates retrieved successfully",
		Data:    rates,
	})
}

// SetRate records a new rate for a currency. The base currency has no
// rate by definition.
func (ec *ExchangeRateController) SetRate(c echo.Context) error {
	currency := models.Currency(c.Param("currency"))
	if !currency.IsValid() || currency.IsBase() {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Currency must be USD or EUR",
		})
	}

	var req ExchangeRateRequest
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

	effectiveDate := time.Now()
	if req.EffectiveDate != "" {
		parsed, err := time.Parse(time.RFC3339, req.EffectiveDate)
		if err != nil {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "effectiveDate must be RFC3339",
			})
		}
		effectiveDate = parsed
	}

	rate, err := ec.Rates.UpsertRate(c.Request().Context(), currency, req.Rate, effectiveDate)
	if err != nil {
		ec.Log.Error("failed to record exchange rate", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to record exchange rate",
		})
	}

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Exchange rate recorded successfully",
		Data:    rate,
	})
}
