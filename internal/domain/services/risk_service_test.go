package services

import (
	"context"
	"testing"

	"github.com/athebyme/gomarket-platform/storefront-service/internal/adapters/logger"
	"github.com/athebyme/gomarket-platform/storefront-service/internal/domain/risk"
	"github.com/athebyme/gomarket-platform/storefront-service/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRiskService(repo *fakeRiskRepo) *RiskService {
	return NewRiskService(repo, risk.NewEvaluator(logger.NewNop()), logger.NewNop())
}

func TestRiskService_IsRisky(t *testing.T) {
	repo := &fakeRiskRepo{sets: []risk.RuleSet{{ID: 1, PaymentID: 5, Rule1: risk.RuleOrderValueLess, Value1: "20"}}}
	svc := newRiskService(repo)

	risky, err := svc.IsRisky(context.Background(), 5, &risk.Input{
		CustomerID: 7,
		Amount:     10,
		Basket:     []risk.BasketItem{{Number: "SW-1", Quantity: 1}},
	})
	require.NoError(t, err)
	assert.True(t, risky)
	assert.Equal(t, 1, repo.ordersCalls)
	assert.True(t, repo.enriched)
}

func TestRiskService_NoRulesSkipsLookups(t *testing.T) {
	repo := &fakeRiskRepo{}
	svc := newRiskService(repo)

	risky, err := svc.IsRisky(context.Background(), 5, &risk.Input{CustomerID: 7, Amount: 10})
	require.NoError(t, err)
	assert.False(t, risky)
	assert.Zero(t, repo.ordersCalls)
}

func TestRiskService_GuestHasNoOrders(t *testing.T) {
	repo := &fakeRiskRepo{sets: []risk.RuleSet{{Rule1: risk.RuleOrderValueMore, Value1: "100"}}}
	svc := newRiskService(repo)

	risky, err := svc.IsRisky(context.Background(), 5, &risk.Input{Amount: 50})
	require.NoError(t, err)
	assert.False(t, risky)
	assert.Zero(t, repo.ordersCalls)
}

func TestRiskService_MissingParameters(t *testing.T) {
	svc := newRiskService(&fakeRiskRepo{})

	_, err := svc.IsRisky(context.Background(), 0, &risk.Input{})
	assert.ErrorIs(t, err, utils.ErrParameterMissing)

	_, err = svc.IsRisky(context.Background(), 3, nil)
	assert.ErrorIs(t, err, utils.ErrParameterMissing)
}

func TestRiskService_SaveRuleSets(t *testing.T) {
	repo := &fakeRiskRepo{}
	svc := newRiskService(repo)
	ctx := context.Background()

	err := svc.SaveRuleSets(ctx, 5, []risk.RuleSet{{Rule1: "NOSUCHRULE"}})
	assert.ErrorIs(t, err, utils.ErrValidation)

	err = svc.SaveRuleSets(ctx, 5, []risk.RuleSet{{Rule1: risk.RuleZipCode, Value1: "48624", Rule2: "bogus"}})
	assert.ErrorIs(t, err, utils.ErrValidation)

	err = svc.SaveRuleSets(ctx, 5, []risk.RuleSet{{Rule1: ""}})
	assert.ErrorIs(t, err, utils.ErrValidation)

	require.NoError(t, svc.SaveRuleSets(ctx, 5, []risk.RuleSet{{Rule1: risk.RuleZipCode, Value1: "48624"}}))
	require.Len(t, repo.saved, 1)
	assert.Equal(t, 5, repo.saved[0].PaymentID)
}
