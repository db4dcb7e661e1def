package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/athebyme/gomarket-platform/storefront-service/internal/domain/risk"
)

func (r *Storage) RuleSets(ctx context.Context, paymentID int) ([]risk.RuleSet, error) {
	rows, err := r.getExecutor(ctx).Query(ctx, `
		SELECT id, payment_id, rule1, value1, rule2, value2
		FROM payment_risk_rules
		WHERE payment_id = $1
		ORDER BY id
	`, paymentID)
	if err != nil {
		return nil, fmt.Errorf("failed to query risk rules: %w", err)
	}
	defer rows.Close()

	var sets []risk.RuleSet
	for rows.Next() {
		var s risk.RuleSet
		if err := rows.Scan(&s.ID, &s.PaymentID, &s.Rule1, &s.Value1, &s.Rule2, &s.Value2); err != nil {
			return nil, fmt.Errorf("failed to scan risk rule row: %w", err)
		}
		sets = append(sets, s)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error while iterating risk rule rows: %w", rows.Err())
	}
	return sets, nil
}

func (r *Storage) SaveRuleSets(ctx context.Context, paymentID int, sets []risk.RuleSet) error {
	executor := r.getExecutor(ctx)

	if _, err := executor.Exec(ctx, "DELETE FROM payment_risk_rules WHERE payment_id = $1", paymentID); err != nil {
		return fmt.Errorf("failed to clear risk rules: %w", err)
	}
	for _, s := range sets {
		if _, err := executor.Exec(ctx, `
			INSERT INTO payment_risk_rules (payment_id, rule1, value1, rule2, value2)
			VALUES ($1, $2, $3, $4, $5)
		`, paymentID, s.Rule1, s.Value1, s.Rule2, s.Value2); err != nil {
			return fmt.Errorf("failed to save risk rule: %w", err)
		}
	}
	return nil
}

func (r *Storage) CustomerOrders(ctx context.Context, customerID int) ([]risk.Order, error) {
	rows, err := r.getExecutor(ctx).Query(ctx, `
		SELECT id, status, cleared, order_time
		FROM orders
		WHERE customer_id = $1
		ORDER BY order_time DESC
	`, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var orders []risk.Order
	for rows.Next() {
		var o risk.Order
		if err := rows.Scan(&o.ID, &o.Status, &o.Cleared, &o.OrderTime); err != nil {
			return nil, fmt.Errorf("failed to scan order row: %w", err)
		}
		orders = append(orders, o)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error while iterating order rows: %w", rows.Err())
	}
	return orders, nil
}

// EnrichBasket fills category ids (with ancestors) and detail attributes of
// basket items by order number.
func (r *Storage) EnrichBasket(ctx context.Context, items []risk.BasketItem) error {
	if len(items) == 0 {
		return nil
	}

	numbers := make([]string, 0, len(items))
	for _, item := range items {
		numbers = append(numbers, item.Number)
	}

	rows, err := r.getExecutor(ctx).Query(ctx, `
		SELECT d.number, d.article_id, d.attributes,
			COALESCE((
				SELECT array_agg(DISTINCT x)
				FROM article_categories ac
				JOIN categories c ON c.id = ac.category_id
				CROSS JOIN LATERAL unnest(array_append(c.path, c.id)) AS x
				WHERE ac.article_id = d.article_id
			), '{}')
		FROM article_details d
		WHERE d.number = ANY($1)
	`, numbers)
	if err != nil {
		return fmt.Errorf("failed to query basket details: %w", err)
	}
	defer rows.Close()

	type detail struct {
		articleID  int
		attributes map[string]interface{}
		categories []int
	}
	details := make(map[string]detail)
	for rows.Next() {
		var (
			number string
			d      detail
			attrs  []byte
		)
		if err := rows.Scan(&number, &d.articleID, &attrs, &d.categories); err != nil {
			return fmt.Errorf("failed to scan basket detail row: %w", err)
		}
		if len(attrs) > 0 {
			if err := json.Unmarshal(attrs, &d.attributes); err != nil {
				return fmt.Errorf("failed to decode basket detail attributes: %w", err)
			}
		}
		details[number] = d
	}
	if rows.Err() != nil {
		return fmt.Errorf("error while iterating basket detail rows: %w", rows.Err())
	}

	for i := range items {
		d, ok := details[items[i].Number]
		if !ok {
			continue
		}
		items[i].ArticleID = d.articleID
		if len(items[i].CategoryIDs) == 0 {
			items[i].CategoryIDs = d.categories
		}
		if items[i].Attributes == nil {
			items[i].Attributes = d.attributes
		}
	}
	return nil
}
