package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/athebyme/gomarket-platform/storefront-service/internal/domain/models"
	"github.com/athebyme/gomarket-platform/storefront-service/internal/domain/translation"
	"github.com/athebyme/gomarket-platform/storefront-service/internal/utils"
	"github.com/jackc/pgx/v5"
)

// Translations loads the overlays of the given objects for a shop. Shops
// without translations get an empty set.
func (r *Storage) Translations(ctx context.Context, shopID int, keys []translation.Key) (translation.Set, error) {
	set := translation.Set{}
	if shopID <= 0 || len(keys) == 0 {
		return set, nil
	}

	types := make([]string, len(keys))
	ids := make([]int, len(keys))
	for i, k := range keys {
		types[i] = k.Type
		ids[i] = k.ID
	}

	rows, err := r.getExecutor(ctx).Query(ctx, `
		SELECT t.object_type, t.object_id, t.data
		FROM translations t
		JOIN unnest($2::text[], $3::int[]) AS k(object_type, object_id)
		  ON k.object_type = t.object_type AND k.object_id = t.object_id
		WHERE t.shop_id = $1
	`, shopID, types, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to query translations: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		t := &translation.Translation{ShopID: shopID}
		var raw []byte
		if err := rows.Scan(&t.Type, &t.ID, &raw); err != nil {
			return nil, fmt.Errorf("failed to scan translation row: %w", err)
		}
		if err := json.Unmarshal(raw, &t.Fields); err != nil {
			return nil, fmt.Errorf("failed to decode translation %s/%d: %w", t.Type, t.ID, err)
		}
		set.Add(t)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error while iterating translation rows: %w", rows.Err())
	}
	return set, nil
}

func (r *Storage) GetTranslation(ctx context.Context, objectType string, id, shopID int) (*translation.Translation, error) {
	t := &translation.Translation{Type: objectType, ID: id, ShopID: shopID}
	var raw []byte
	err := r.getExecutor(ctx).QueryRow(ctx, `
		SELECT data FROM translations
		WHERE object_type = $1 AND object_id = $2 AND shop_id = $3
	`, objectType, id, shopID).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("translation %s/%d for shop %d: %w", objectType, id, shopID, utils.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get translation: %w", err)
	}
	if err := json.Unmarshal(raw, &t.Fields); err != nil {
		return nil, fmt.Errorf("failed to decode translation: %w", err)
	}
	return t, nil
}

// SaveTranslation replaces the stored fields of the object.
func (r *Storage) SaveTranslation(ctx context.Context, t *translation.Translation) error {
	data, err := json.Marshal(t.Fields)
	if err != nil {
		return fmt.Errorf("failed to encode translation: %w", err)
	}
	_, err = r.getExecutor(ctx).Exec(ctx, `
		INSERT INTO translations (object_type, object_id, shop_id, data, updated_at)
		VALUES ($1, $2, $3, $4, now())
		ON CONFLICT (object_type, object_id, shop_id)
		DO UPDATE SET data = EXCLUDED.data, updated_at = now()
	`, t.Type, t.ID, t.ShopID, data)
	if err != nil {
		return wrapWriteError("save translation", err)
	}
	return nil
}

func (r *Storage) DeleteTranslation(ctx context.Context, objectType string, id, shopID int) error {
	tag, err := r.getExecutor(ctx).Exec(ctx, `
		DELETE FROM translations
		WHERE object_type = $1 AND object_id = $2 AND shop_id = $3
	`, objectType, id, shopID)
	if err != nil {
		return fmt.Errorf("failed to delete translation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("translation %s/%d for shop %d: %w", objectType, id, shopID, utils.ErrNotFound)
	}
	return nil
}

func shopIDOf(shopCtx *models.ShopContext) int {
	if shopCtx == nil || shopCtx.Shop == nil {
		return 0
	}
	return shopCtx.Shop.ID
}
