package services

import (
	"context"
	"fmt"

	"github.com/athebyme/gomarket-platform/storefront-service/internal/domain/risk"
	"github.com/athebyme/gomarket-platform/storefront-service/internal/utils"
	"github.com/athebyme/gomarket-platform/storefront-service/pkg/interfaces"
	"github.com/go-playground/validator/v10"
)

// RiskRepository loads the data risk rules look at.
type RiskRepository interface {
	RuleSets(ctx context.Context, paymentID int) ([]risk.RuleSet, error)
	SaveRuleSets(ctx context.Context, paymentID int, sets []risk.RuleSet) error
	CustomerOrders(ctx context.Context, customerID int) ([]risk.Order, error)
	EnrichBasket(ctx context.Context, items []risk.BasketItem) error
}

type RiskService struct {
	repository RiskRepository
	evaluator  *risk.Evaluator
	validate   *validator.Validate
	logger     interfaces.LoggerPort
}

func NewRiskService(repository RiskRepository, evaluator *risk.Evaluator, logger interfaces.LoggerPort) *RiskService {
	return &RiskService{
		repository: repository,
		evaluator:  evaluator,
		validate:   validator.New(),
		logger:     logger,
	}
}

// IsRisky reports whether the payment method must be blocked for the checkout.
func (s *RiskService) IsRisky(ctx context.Context, paymentID int, in *risk.Input) (bool, error) {
	if paymentID <= 0 {
		return false, fmt.Errorf("payment id: %w", utils.ErrParameterMissing)
	}
	if in == nil {
		return false, fmt.Errorf("risk input: %w", utils.ErrParameterMissing)
	}

	sets, err := s.repository.RuleSets(ctx, paymentID)
	if err != nil {
		return false, fmt.Errorf("failed to load risk rules: %w", err)
	}
	if len(sets) == 0 {
		riskChecks.WithLabelValues("no_rules").Inc()
		return false, nil
	}

	if in.CustomerID > 0 {
		if in.Orders, err = s.repository.CustomerOrders(ctx, in.CustomerID); err != nil {
			return false, fmt.Errorf("failed to load customer orders: %w", err)
		}
	}
	if len(in.Basket) > 0 {
		if err := s.repository.EnrichBasket(ctx, in.Basket); err != nil {
			return false, fmt.Errorf("failed to load basket data: %w", err)
		}
	}
	if in.CurrencyFactor == 0 {
		in.CurrencyFactor = 1
	}

	risky := s.evaluator.IsRisky(sets, in)
	if risky {
		riskChecks.WithLabelValues("risky").Inc()
		s.logger.InfoWithContext(ctx, "payment blocked by risk rules",
			interfaces.LogField{Key: "payment_id", Value: paymentID},
			interfaces.LogField{Key: "customer_id", Value: in.CustomerID})
	} else {
		riskChecks.WithLabelValues("clear").Inc()
	}
	return risky, nil
}

func (s *RiskService) RuleSets(ctx context.Context, paymentID int) ([]risk.RuleSet, error) {
	if paymentID <= 0 {
		return nil, fmt.Errorf("payment id: %w", utils.ErrParameterMissing)
	}
	sets, err := s.repository.RuleSets(ctx, paymentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load risk rules: %w", err)
	}
	return sets, nil
}

// SaveRuleSets replaces the rules of a payment method. Unknown rule names are rejected.
func (s *RiskService) SaveRuleSets(ctx context.Context, paymentID int, sets []risk.RuleSet) (err error) {
	defer func() { observeAdmin("risk_rules", OperationUpdate, err) }()

	if paymentID <= 0 {
		return fmt.Errorf("payment id: %w", utils.ErrParameterMissing)
	}
	for i := range sets {
		set := &sets[i]
		if err := s.validate.Struct(set); err != nil {
			return fmt.Errorf("rule set %d: %s: %w", i, err.Error(), utils.ErrValidation)
		}
		if !s.evaluator.Known(set.Rule1) {
			return fmt.Errorf("unknown rule %q: %w", set.Rule1, utils.ErrValidation)
		}
		if set.Rule2 != "" && !s.evaluator.Known(set.Rule2) {
			return fmt.Errorf("unknown rule %q: %w", set.Rule2, utils.ErrValidation)
		}
		set.PaymentID = paymentID
	}

	if err := s.repository.SaveRuleSets(ctx, paymentID, sets); err != nil {
		return fmt.Errorf("failed to save risk rules: %w", err)
	}
	return nil
}
