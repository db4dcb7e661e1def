package pricing

import (
	"testing"

	"github.com/athebyme/gomarket-platform/storefront-service/internal/domain/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func netContext(current, fallback string) *models.ShopContext {
	return &models.ShopContext{
		Shop:                  &models.Shop{ID: 1},
		Currency:              &models.Currency{ID: 1, Currency: "EUR", Factor: 1},
		CurrentCustomerGroup:  &models.CustomerGroup{ID: 10, Key: current},
		FallbackCustomerGroup: &models.CustomerGroup{ID: 1, Key: fallback},
		Taxes:                 map[int]*models.Tax{1: {ID: 1, Tax: 19}},
	}
}

func rule(variantID int, group string, from int, to *int, price float64) *models.PriceRule {
	return &models.PriceRule{
		VariantID:     variantID,
		From:          from,
		To:            to,
		Price:         price,
		CustomerGroup: &models.CustomerGroup{Key: group},
	}
}

func product(variantID int) *models.ListProduct {
	return &models.ListProduct{
		BaseProduct: models.BaseProduct{ID: 1, VariantID: variantID, Number: "SW-1"},
		Tax:         &models.Tax{ID: 1, Tax: 19},
		Unit:        &models.Unit{MinPurchase: 1},
	}
}

func TestCalculator_CalculatePrice(t *testing.T) {
	calc := NewCalculator()
	tax := &models.Tax{ID: 1, Tax: 19}

	tests := []struct {
		name  string
		ctx   *models.ShopContext
		price float64
		want  float64
	}{
		{
			name:  "net",
			ctx:   netContext("EK", "EK"),
			price: 100,
			want:  100,
		},
		{
			name: "gross",
			ctx: &models.ShopContext{
				CurrentCustomerGroup: &models.CustomerGroup{Key: "EK", DisplayGrossPrices: true},
			},
			price: 100,
			want:  119,
		},
		{
			name: "customer group discount",
			ctx: &models.ShopContext{
				CurrentCustomerGroup: &models.CustomerGroup{Key: "H", UseDiscount: true, PercentageDiscount: 10},
			},
			price: 100,
			want:  90,
		},
		{
			name: "currency factor",
			ctx: &models.ShopContext{
				Currency:             &models.Currency{Factor: 1.5},
				CurrentCustomerGroup: &models.CustomerGroup{Key: "EK"},
			},
			price: 10,
			want:  15,
		},
		{
			name:  "zero stays zero",
			ctx:   netContext("EK", "EK"),
			price: 0,
			want:  0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, calc.CalculatePrice(tt.price, tax, tt.ctx), 0.0001)
		})
	}
}

func TestCalculator_ReferencePrice(t *testing.T) {
	calc := NewCalculator()

	assert.InDelta(t, 20.0, calc.CalculateReferencePrice(10, &models.Unit{PurchaseUnit: 0.5, ReferenceUnit: 1}), 0.0001)
	assert.Zero(t, calc.CalculateReferencePrice(10, &models.Unit{}))
	assert.Zero(t, calc.CalculateReferencePrice(10, nil))
}

func TestService_GraduationUsesFallbackGroup(t *testing.T) {
	svc := NewService(nil)
	ctx := netContext("NOT", "BACK")

	rules := []*models.PriceRule{
		rule(5, "BACK", 11, nil, 80),
		rule(5, "BACK", 1, models.IntPtr(10), 100),
	}

	prices := svc.Graduation(product(5), rules, ctx)
	require.Len(t, prices, 2)

	for _, price := range prices {
		assert.Equal(t, "BACK", price.CustomerGroup.Key)
	}
	assert.Equal(t, 1, prices[0].From)
	assert.Equal(t, 10, *prices[0].To)
	assert.Equal(t, 11, prices[1].From)
	assert.Nil(t, prices[1].To)
}

func TestService_GraduationPrefersCurrentGroup(t *testing.T) {
	svc := NewService(nil)
	ctx := netContext("H", "EK")

	rules := []*models.PriceRule{
		rule(5, "EK", 1, nil, 100),
		rule(5, "H", 1, nil, 70),
	}

	prices := svc.Graduation(product(5), rules, ctx)
	require.Len(t, prices, 1)
	assert.Equal(t, "H", prices[0].CustomerGroup.Key)
	assert.InDelta(t, 70.0, prices[0].CalculatedPrice, 0.0001)
}

func TestService_PriceGroupGraduation(t *testing.T) {
	svc := NewService(nil)
	ctx := netContext("PHP", "EK")
	ctx.PriceGroups = map[int]*models.PriceGroup{
		3: {
			ID: 3,
			Discounts: []models.PriceDiscount{
				{CustomerGroupID: 10, Quantity: 10, Percent: 30},
				{CustomerGroupID: 10, Quantity: 1, Percent: 10},
				{CustomerGroupID: 10, Quantity: 5, Percent: 20},
				{CustomerGroupID: 99, Quantity: 1, Percent: 50},
			},
		},
	}

	p := product(5)
	p.PriceGroup = &models.PriceGroup{ID: 3}
	p.IsPriceGroupActive = true

	prices := svc.Graduation(p, []*models.PriceRule{rule(5, "PHP", 1, nil, 40)}, ctx)
	require.Len(t, prices, 3)

	assert.InDelta(t, 36.0, prices[0].CalculatedPrice, 0.0001)
	assert.Equal(t, 1, prices[0].From)
	assert.Equal(t, 4, *prices[0].To)

	assert.InDelta(t, 32.0, prices[1].CalculatedPrice, 0.0001)
	assert.Equal(t, 5, prices[1].From)
	assert.Equal(t, 9, *prices[1].To)

	assert.InDelta(t, 28.0, prices[2].CalculatedPrice, 0.0001)
	assert.Equal(t, 10, prices[2].From)
	assert.Nil(t, prices[2].To)
}

func TestService_InactivePriceGroupIsIgnored(t *testing.T) {
	svc := NewService(nil)
	ctx := netContext("PHP", "EK")
	ctx.PriceGroups = map[int]*models.PriceGroup{
		3: {ID: 3, Discounts: []models.PriceDiscount{{CustomerGroupID: 10, Quantity: 1, Percent: 10}}},
	}

	p := product(5)
	p.PriceGroup = &models.PriceGroup{ID: 3}

	prices := svc.Graduation(p, []*models.PriceRule{rule(5, "PHP", 1, nil, 40)}, ctx)
	require.Len(t, prices, 1)
	assert.InDelta(t, 40.0, prices[0].CalculatedPrice, 0.0001)
}

func TestService_CheapestPriceAcrossBands(t *testing.T) {
	svc := NewService(nil)
	ctx := netContext("EK", "EK")

	variants := []VariantRules{{
		VariantID: 5,
		Unit:      &models.Unit{MinPurchase: 1},
		Rules: []*models.PriceRule{
			rule(5, "EK", 1, models.IntPtr(20), 500),
			rule(5, "EK", 21, nil, 400),
		},
	}}

	p := product(5)
	require.NoError(t, svc.Apply(p, variants, ctx))

	assert.Len(t, p.Prices, 2)
	assert.InDelta(t, 400.0, p.CheapestUnitPrice.CalculatedPrice, 0.0001)
	assert.InDelta(t, 400.0, p.CheapestPrice.CalculatedPrice, 0.0001)
	assert.Equal(t, 21, p.CheapestPriceRule.From)
	assert.False(t, p.HasDifferentPrices)
}

func TestService_CheapestPriceScalesByMinPurchase(t *testing.T) {
	svc := NewService(nil)
	ctx := netContext("EK", "EK")

	variants := []VariantRules{{
		VariantID: 5,
		Unit:      &models.Unit{MinPurchase: 3},
		Rules:     []*models.PriceRule{rule(5, "EK", 1, nil, 10)},
	}}

	_, cheapest, unitPrice, _, err := svc.Cheapest(product(5), variants, ctx)
	require.NoError(t, err)

	assert.InDelta(t, 10.0, unitPrice.CalculatedPrice, 0.0001)
	assert.InDelta(t, 30.0, cheapest.CalculatedPrice, 0.0001)
}

func TestService_DifferentVariantPrices(t *testing.T) {
	svc := NewService(nil)
	ctx := netContext("EK", "EK")

	variants := []VariantRules{
		{VariantID: 5, Unit: &models.Unit{MinPurchase: 1}, Rules: []*models.PriceRule{rule(5, "EK", 1, nil, 20)}},
		{VariantID: 6, Unit: &models.Unit{MinPurchase: 1}, Rules: []*models.PriceRule{rule(6, "EK", 1, nil, 10)}},
	}

	p := product(5)
	require.NoError(t, svc.Apply(p, variants, ctx))

	assert.True(t, p.HasDifferentPrices)
	assert.InDelta(t, 10.0, p.CheapestUnitPrice.CalculatedPrice, 0.0001)
	assert.Equal(t, 6, p.CheapestPriceRule.VariantID)
	assert.InDelta(t, 20.0, p.VariantPrice().CalculatedPrice, 0.0001)
}

func TestService_NoPrice(t *testing.T) {
	svc := NewService(nil)
	ctx := netContext("EK", "EK")

	variants := []VariantRules{{VariantID: 5, Rules: []*models.PriceRule{rule(5, "H", 1, nil, 20)}}}

	err := svc.Apply(product(5), variants, ctx)
	assert.ErrorIs(t, err, ErrNoPrice)
}
