package services

import (
	"time"

	"go.uber.org/zap"

	"github.com/dquintero/muebleria_backend/models"
)

// CommissionRuleSet is the prefetched commission configuration consumed by
// ComputeOrderCommissions: per-category commission values keyed by category
// id hex, and sale-type split rules keyed by sale type.
type CommissionRuleSet struct {
	ProductCommissions map[string]models.ProductCommission
	SaleTypeRules      map[models.SaleType]models.SaleTypeCommissionRule
}

// NewCommissionRuleSet returns an empty rule set with maps allocated.
func NewCommissionRuleSet() CommissionRuleSet {
	return CommissionRuleSet{
		ProductCommissions: make(map[string]models.ProductCommission),
		SaleTypeRules:      make(map[models.SaleType]models.SaleTypeCommissionRule),
	}
}

// CommissionResult is the envelope returned by ComputeOrderCommissions.
type CommissionResult struct {
	Commissions []models.Commission `json:"commissions"`
	Warnings    []Warning           `json:"warnings,omitempty"`
}

// CommissionService distributes sale commissions over finalized orders. It
// only consumes the already-composed line totals; pricing is never
// re-derived here.
type CommissionService struct {
	log *zap.Logger
}

func NewCommissionService(log *zap.Logger) *CommissionService {
	if log == nil {
		log = zap.NewNop()
	}
	return &CommissionService{log: log}
}

// ComputeOrderCommissions computes per-line commissions for a finalized
// order.
//
// Basis convention: with a sale-type rule in place for a shared sale, the
// seller earns categoryValue * vendorRate / 100 of the line subtotal and
// the referrer categoryValue * referrerRate / 100 of it. Without a rule, or
// without a referrer on the order, the category value itself is applied as
// a flat percentage of the line subtotal and the whole amount goes to the
// primary seller.
//
// An order with no products yields an empty sequence. A category with no
// configured commission yields a zero commission for its lines, reported
// as a warning; configuration gaps must never halt reporting.
func (s *CommissionService) ComputeOrderCommissions(order models.Order, rules CommissionRuleSet) *CommissionResult {
	result := &CommissionResult{Commissions: []models.Commission{}}
	now := time.Now()

	shared := order.HasReferrer()
	rule, haveRule := rules.SaleTypeRules[order.SaleType]
	if shared && !haveRule {
		result.Warnings = append(result.Warnings, newWarning(WarnMissingSaleTypeRule,
			"no commission rule for sale type %q, full commission goes to %s", order.SaleType, order.SellerName))
		s.log.Warn("missing sale type commission rule",
			zap.String("saleType", string(order.SaleType)),
			zap.String("order", order.Number))
	}

	for _, line := range order.Products {
		value := 0.0
		if pc, ok := rules.ProductCommissions[line.CategoryID.Hex()]; ok {
			value = pc.Value
		} else {
			result.Warnings = append(result.Warnings, newWarning(WarnMissingCategoryCommission,
				"category %q has no configured commission, line %q pays zero", line.CategoryName, line.ProductName))
		}

		if shared && haveRule {
			seller := models.Commission{
				OrderID:         order.ID,
				ProductID:       line.ProductID,
				SellerID:        order.SellerID,
				SellerName:      order.SellerName,
				Commission:      value * rule.VendorRate / 100.0 * line.LineTotal,
				IsShared:        true,
				CounterpartName: order.ReferrerName,
				CreatedAt:       now,
			}
			referrer := models.Commission{
				OrderID:         order.ID,
				ProductID:       line.ProductID,
				SellerID:        *order.ReferrerID,
				SellerName:      order.ReferrerName,
				Commission:      value * rule.ReferrerRate / 100.0 * line.LineTotal,
				IsShared:        true,
				CounterpartName: order.SellerName,
				CreatedAt:       now,
			}
			result.Commissions = append(result.Commissions, seller, referrer)
			continue
		}

		result.Commissions = append(result.Commissions, models.Commission{
			OrderID:    order.ID,
			ProductID:  line.ProductID,
			SellerID:   order.SellerID,
			SellerName: order.SellerName,
			Commission: value / 100.0 * line.LineTotal,
			IsShared:   false,
			CreatedAt:  now,
		})
	}

	return result
}
