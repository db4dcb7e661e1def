package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/athebyme/gomarket-platform/storefront-service/internal/domain/models"
	"github.com/athebyme/gomarket-platform/storefront-service/internal/utils"
	"github.com/jackc/pgx/v5"
)

// GetShop returns nil, nil for an unknown shop.
func (r *Storage) GetShop(ctx context.Context, id int) (*models.Shop, error) {
	var shop models.Shop
	err := r.getExecutor(ctx).QueryRow(ctx,
		"SELECT id, name, host, base_path, secure, category_id FROM shops WHERE id = $1", id).
		Scan(&shop.ID, &shop.Name, &shop.Host, &shop.Path, &shop.Secure, &shop.CategoryID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get shop: %w", err)
	}
	return &shop, nil
}

// GetCurrency looks a currency up by ISO code; nil, nil when unknown.
func (r *Storage) GetCurrency(ctx context.Context, iso string) (*models.Currency, error) {
	var c models.Currency
	err := r.getExecutor(ctx).QueryRow(ctx,
		"SELECT id, name, currency, symbol, factor::float8 FROM currencies WHERE currency = $1", iso).
		Scan(&c.ID, &c.Name, &c.Currency, &c.Symbol, &c.Factor)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get currency: %w", err)
	}
	return &c, nil
}

// GetCustomerGroup looks a group up by key; nil, nil when unknown.
func (r *Storage) GetCustomerGroup(ctx context.Context, key string) (*models.CustomerGroup, error) {
	var g models.CustomerGroup
	err := r.getExecutor(ctx).QueryRow(ctx, `
		SELECT id, group_key, name, display_gross, inserted_gross, use_discount, discount::float8,
			minimum_order::float8, minimum_order_surcharge::float8
		FROM customer_groups
		WHERE group_key = $1
	`, key).Scan(&g.ID, &g.Key, &g.Name, &g.DisplayGrossPrices, &g.InsertedGrossPrices, &g.UseDiscount,
		&g.PercentageDiscount, &g.MinimumOrderValue, &g.SurchargeMinimum)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get customer group: %w", err)
	}
	return &g, nil
}

func (r *Storage) GetTaxes(ctx context.Context) (map[int]*models.Tax, error) {
	rows, err := r.getExecutor(ctx).Query(ctx, "SELECT id, name, tax::float8 FROM taxes")
	if err != nil {
		return nil, fmt.Errorf("failed to query taxes: %w", err)
	}
	defer rows.Close()

	taxes := make(map[int]*models.Tax)
	for rows.Next() {
		var t models.Tax
		if err := rows.Scan(&t.ID, &t.Name, &t.Tax); err != nil {
			return nil, fmt.Errorf("failed to scan tax row: %w", err)
		}
		taxes[t.ID] = &t
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error while iterating tax rows: %w", rows.Err())
	}
	return taxes, nil
}

// GetPriceGroups returns all price groups with their discounts ordered by quantity.
func (r *Storage) GetPriceGroups(ctx context.Context) (map[int]*models.PriceGroup, error) {
	rows, err := r.getExecutor(ctx).Query(ctx, `
		SELECT g.id, g.name, d.id, d.customer_group_id, d.discount_start, d.discount::float8
		FROM price_groups g
		LEFT JOIN price_group_discounts d ON d.price_group_id = g.id
		ORDER BY g.id, d.customer_group_id, d.discount_start
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query price groups: %w", err)
	}
	defer rows.Close()

	groups := make(map[int]*models.PriceGroup)
	for rows.Next() {
		var (
			id                                    int
			name                                  string
			discountID, customerGroupID, quantity *int
			percent                               *float64
		)
		if err := rows.Scan(&id, &name, &discountID, &customerGroupID, &quantity, &percent); err != nil {
			return nil, fmt.Errorf("failed to scan price group row: %w", err)
		}
		group, ok := groups[id]
		if !ok {
			group = &models.PriceGroup{ID: id, Name: name, Discounts: []models.PriceDiscount{}}
			groups[id] = group
		}
		if discountID == nil {
			continue
		}
		group.Discounts = append(group.Discounts, models.PriceDiscount{
			ID:              *discountID,
			CustomerGroupID: *customerGroupID,
			Quantity:        *quantity,
			Percent:         *percent,
		})
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error while iterating price group rows: %w", rows.Err())
	}
	return groups, nil
}

// ShopContext assembles the context of a shop for the given customer groups
// and currency.
func (r *Storage) ShopContext(ctx context.Context, shopID int, currencyISO, groupKey, fallbackKey string) (*models.ShopContext, error) {
	shop, err := r.GetShop(ctx, shopID)
	if err != nil {
		return nil, err
	}
	if shop == nil {
		return nil, fmt.Errorf("shop %d: %w", shopID, utils.ErrNotFound)
	}

	currency, err := r.GetCurrency(ctx, currencyISO)
	if err != nil {
		return nil, err
	}
	if currency == nil {
		return nil, fmt.Errorf("currency %s: %w", currencyISO, utils.ErrNotFound)
	}

	current, err := r.GetCustomerGroup(ctx, groupKey)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, fmt.Errorf("customer group %s: %w", groupKey, utils.ErrNotFound)
	}

	fallback := current
	if fallbackKey != groupKey {
		if fallback, err = r.GetCustomerGroup(ctx, fallbackKey); err != nil {
			return nil, err
		}
		if fallback == nil {
			return nil, fmt.Errorf("customer group %s: %w", fallbackKey, utils.ErrNotFound)
		}
	}

	taxes, err := r.GetTaxes(ctx)
	if err != nil {
		return nil, err
	}
	priceGroups, err := r.GetPriceGroups(ctx)
	if err != nil {
		return nil, err
	}

	return &models.ShopContext{
		Shop:                  shop,
		Currency:              currency,
		CurrentCustomerGroup:  current,
		FallbackCustomerGroup: fallback,
		Taxes:                 taxes,
		PriceGroups:           priceGroups,
	}, nil
}
