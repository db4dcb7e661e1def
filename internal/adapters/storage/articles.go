package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/athebyme/gomarket-platform/storefront-service/internal/domain/models"
	"github.com/athebyme/gomarket-platform/storefront-service/internal/utils"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const articleColumns = `a.id, a.name, a.description, a.description_long, a.active, a.pseudo_sales,
	a.highlight, a.keywords, a.meta_title, a.template, a.notification, a.last_stock,
	a.tax_id, a.supplier_id, a.filter_group_id, a.price_group_id, a.price_group_active,
	a.created_at, a.updated_at`

func scanArticle(row pgx.Row) (*models.Article, error) {
	var a models.Article
	err := row.Scan(&a.ID, &a.Name, &a.Description, &a.DescriptionLong, &a.Active, &a.PseudoSales,
		&a.Highlight, &a.Keywords, &a.MetaTitle, &a.Template, &a.Notification, &a.LastStock,
		&a.TaxID, &a.SupplierID, &a.FilterGroupID, &a.PriceGroupID, &a.PriceGroupActive,
		&a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// wrapWriteError turns constraint violations into validation errors.
func wrapWriteError(op string, err error) error {
	switch {
	case isUniqueViolation(err):
		return fmt.Errorf("%s: duplicate value: %w", op, utils.ErrValidation)
	case isForeignKeyViolation(err):
		return fmt.Errorf("%s: referenced entity does not exist: %w", op, utils.ErrValidation)
	}
	return fmt.Errorf("failed to %s: %w", op, err)
}

// CreateArticle inserts the article with all details and associations and
// sets a.ID and the detail ids.
func (r *Storage) CreateArticle(ctx context.Context, a *models.Article) error {
	executor := r.getExecutor(ctx)

	now := time.Now().UTC()
	a.CreatedAt, a.UpdatedAt = now, now

	query := `
		INSERT INTO articles (name, description, description_long, active, pseudo_sales, highlight,
			keywords, meta_title, template, notification, last_stock, tax_id, supplier_id,
			filter_group_id, price_group_id, price_group_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
		RETURNING id
	`
	err := executor.QueryRow(ctx, query, a.Name, a.Description, a.DescriptionLong, a.Active, a.PseudoSales,
		a.Highlight, a.Keywords, a.MetaTitle, a.Template, a.Notification, a.LastStock, a.TaxID, a.SupplierID,
		a.FilterGroupID, a.PriceGroupID, a.PriceGroupActive, a.CreatedAt, a.UpdatedAt).Scan(&a.ID)
	if err != nil {
		return wrapWriteError("create article", err)
	}

	return r.saveArticleChildren(ctx, a)
}

// UpdateArticle overwrites the article row and replaces its associations.
// Details are matched by number; details missing from a are removed.
func (r *Storage) UpdateArticle(ctx context.Context, a *models.Article) error {
	executor := r.getExecutor(ctx)

	a.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE articles SET
			name = $2, description = $3, description_long = $4, active = $5, pseudo_sales = $6,
			highlight = $7, keywords = $8, meta_title = $9, template = $10, notification = $11,
			last_stock = $12, tax_id = $13, supplier_id = $14, filter_group_id = $15,
			price_group_id = $16, price_group_active = $17, updated_at = $18
		WHERE id = $1
	`
	tag, err := executor.Exec(ctx, query, a.ID, a.Name, a.Description, a.DescriptionLong, a.Active, a.PseudoSales,
		a.Highlight, a.Keywords, a.MetaTitle, a.Template, a.Notification, a.LastStock, a.TaxID, a.SupplierID,
		a.FilterGroupID, a.PriceGroupID, a.PriceGroupActive, a.UpdatedAt)
	if err != nil {
		return wrapWriteError("update article", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("article %d: %w", a.ID, utils.ErrNotFound)
	}

	return r.saveArticleChildren(ctx, a)
}

func (r *Storage) saveArticleChildren(ctx context.Context, a *models.Article) error {
	if err := r.saveDetails(ctx, a); err != nil {
		return err
	}

	steps := []struct {
		name string
		fn   func(context.Context, *models.Article) error
	}{
		{"categories", r.saveCategories},
		{"similar articles", r.saveSimilar},
		{"related articles", r.saveRelated},
		{"links", r.saveLinks},
		{"images", r.saveImages},
		{"property values", r.savePropertyValues},
	}
	for _, step := range steps {
		if err := step.fn(ctx, a); err != nil {
			return err
		}
	}
	return nil
}

func (r *Storage) saveDetails(ctx context.Context, a *models.Article) error {
	executor := r.getExecutor(ctx)

	details := a.Details()
	numbers := make([]string, 0, len(details))

	for i, d := range details {
		d.Kind = models.DetailKindVariant
		if i == 0 {
			d.Kind = models.DetailKindMain
		}
		if d.MinPurchase < 1 {
			d.MinPurchase = 1
		}

		attrs, err := attributesJSON(d.Attribute)
		if err != nil {
			return fmt.Errorf("failed to encode detail attributes: %w", err)
		}
		if attrs == nil {
			attrs = []byte("{}")
		}

		query := `
			INSERT INTO article_details (article_id, number, kind, active, instock, unit_id, min_purchase,
				max_purchase, purchase_steps, purchase_unit, reference_unit, pack_unit, additional_text,
				ean, supplier_number, shipping_time, shipping_free, weight, width, height, len,
				release_date, sales, attributes)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18,
				$19, $20, $21, $22, $23, $24)
			ON CONFLICT (number) DO UPDATE SET
				kind = EXCLUDED.kind, active = EXCLUDED.active, instock = EXCLUDED.instock,
				unit_id = EXCLUDED.unit_id, min_purchase = EXCLUDED.min_purchase,
				max_purchase = EXCLUDED.max_purchase, purchase_steps = EXCLUDED.purchase_steps,
				purchase_unit = EXCLUDED.purchase_unit, reference_unit = EXCLUDED.reference_unit,
				pack_unit = EXCLUDED.pack_unit, additional_text = EXCLUDED.additional_text,
				ean = EXCLUDED.ean, supplier_number = EXCLUDED.supplier_number,
				shipping_time = EXCLUDED.shipping_time, shipping_free = EXCLUDED.shipping_free,
				weight = EXCLUDED.weight, width = EXCLUDED.width, height = EXCLUDED.height,
				len = EXCLUDED.len, release_date = EXCLUDED.release_date, sales = EXCLUDED.sales,
				attributes = EXCLUDED.attributes
			WHERE article_details.article_id = EXCLUDED.article_id
			RETURNING id
		`
		err = executor.QueryRow(ctx, query, a.ID, d.Number, d.Kind, d.Active, d.InStock, d.UnitID, d.MinPurchase,
			d.MaxPurchase, d.PurchaseSteps, d.PurchaseUnit, d.ReferenceUnit, d.PackUnit, d.AdditionalText,
			d.Ean, d.SupplierNumber, d.ShippingTime, d.ShippingFree, d.Weight, d.Width, d.Height, d.Len,
			d.ReleaseDate, d.Sales, attrs).Scan(&d.ID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				// the number belongs to another article
				return fmt.Errorf("number %s is already used: %w", d.Number, utils.ErrValidation)
			}
			return wrapWriteError("save article detail", err)
		}

		if err := r.savePrices(ctx, a.ID, d); err != nil {
			return err
		}
		numbers = append(numbers, d.Number)
	}

	if _, err := executor.Exec(ctx,
		"DELETE FROM article_details WHERE article_id = $1 AND NOT (number = ANY($2))",
		a.ID, numbers); err != nil {
		return fmt.Errorf("failed to delete removed article details: %w", err)
	}

	if a.MainDetail != nil {
		if _, err := executor.Exec(ctx, "UPDATE articles SET main_detail_id = $2 WHERE id = $1",
			a.ID, a.MainDetail.ID); err != nil {
			return fmt.Errorf("failed to set main detail: %w", err)
		}
	}

	return nil
}

func (r *Storage) savePrices(ctx context.Context, articleID int, d *models.ArticleDetail) error {
	executor := r.getExecutor(ctx)

	if _, err := executor.Exec(ctx, "DELETE FROM prices WHERE detail_id = $1", d.ID); err != nil {
		return fmt.Errorf("failed to delete prices: %w", err)
	}

	query := `
		INSERT INTO prices (article_id, detail_id, customer_group_key, quantity_from, quantity_to,
			price, pseudo_price, percent)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	for _, p := range d.Prices {
		if _, err := executor.Exec(ctx, query, articleID, d.ID, p.CustomerGroupKey, p.From, p.To.Value,
			p.Price, p.PseudoPrice, p.Percent); err != nil {
			return wrapWriteError("save price", err)
		}
	}
	return nil
}

// replaceRefs rewrites a two column association table for one article.
func (r *Storage) replaceRefs(ctx context.Context, table, column string, articleID int, ids []int) error {
	executor := r.getExecutor(ctx)

	if _, err := executor.Exec(ctx, fmt.Sprintf("DELETE FROM %s WHERE article_id = $1", table), articleID); err != nil {
		return fmt.Errorf("failed to clear %s: %w", table, err)
	}
	if len(ids) == 0 {
		return nil
	}

	query := fmt.Sprintf(
		"INSERT INTO %s (article_id, %s) SELECT $1, unnest($2::int[]) ON CONFLICT DO NOTHING",
		table, column)
	if _, err := executor.Exec(ctx, query, articleID, ids); err != nil {
		return wrapWriteError("save "+strings.ReplaceAll(table, "_", " "), err)
	}
	return nil
}

func refIDs(refs []models.IDRef) []int {
	ids := make([]int, 0, len(refs))
	for _, ref := range refs {
		ids = append(ids, ref.ID)
	}
	return ids
}

func (r *Storage) saveCategories(ctx context.Context, a *models.Article) error {
	return r.replaceRefs(ctx, "article_categories", "category_id", a.ID, refIDs(a.Categories))
}

func (r *Storage) saveSimilar(ctx context.Context, a *models.Article) error {
	return r.replaceRefs(ctx, "article_similar", "related_id", a.ID, refIDs(a.Similar))
}

// saveRelated also links back from the related article when Cross is set.
func (r *Storage) saveRelated(ctx context.Context, a *models.Article) error {
	ids := make([]int, 0, len(a.Related))
	for _, ref := range a.Related {
		ids = append(ids, ref.ID)
	}
	if err := r.replaceRefs(ctx, "article_relationships", "related_id", a.ID, ids); err != nil {
		return err
	}

	executor := r.getExecutor(ctx)
	for _, ref := range a.Related {
		if !ref.Cross {
			continue
		}
		if _, err := executor.Exec(ctx,
			"INSERT INTO article_relationships (article_id, related_id) VALUES ($1, $2) ON CONFLICT DO NOTHING",
			ref.ID, a.ID); err != nil {
			return wrapWriteError("save cross relation", err)
		}
	}
	return nil
}

func (r *Storage) saveLinks(ctx context.Context, a *models.Article) error {
	executor := r.getExecutor(ctx)

	if _, err := executor.Exec(ctx, "DELETE FROM article_links WHERE article_id = $1", a.ID); err != nil {
		return fmt.Errorf("failed to clear article links: %w", err)
	}
	for _, l := range a.Links {
		target := l.Target
		if target == "" {
			target = "_blank"
		}
		if _, err := executor.Exec(ctx,
			"INSERT INTO article_links (article_id, description, link, target) VALUES ($1, $2, $3, $4)",
			a.ID, l.Name, l.Link, target); err != nil {
			return wrapWriteError("save article link", err)
		}
	}
	return nil
}

// saveImages keeps images that reference existing media. The first image is
// the cover unless another one is flagged main.
func (r *Storage) saveImages(ctx context.Context, a *models.Article) error {
	executor := r.getExecutor(ctx)

	if _, err := executor.Exec(ctx, "DELETE FROM article_images WHERE article_id = $1", a.ID); err != nil {
		return fmt.Errorf("failed to clear article images: %w", err)
	}

	hasMain := false
	for _, img := range a.Images {
		if img.Main == 1 {
			hasMain = true
			break
		}
	}

	for i, img := range a.Images {
		if img.MediaID == 0 {
			continue
		}
		main := 2
		if img.Main == 1 || (!hasMain && i == 0) {
			main = 1
		}
		position := img.Position
		if position == 0 {
			position = i + 1
		}
		if _, err := executor.Exec(ctx,
			"INSERT INTO article_images (article_id, media_id, main, position) VALUES ($1, $2, $3, $4)",
			a.ID, img.MediaID, main, position); err != nil {
			return wrapWriteError("save article image", err)
		}
	}
	return nil
}

// savePropertyValues creates missing options and values by name and links them
// to the article's property set.
func (r *Storage) savePropertyValues(ctx context.Context, a *models.Article) error {
	executor := r.getExecutor(ctx)

	if _, err := executor.Exec(ctx, "DELETE FROM filter_articles WHERE article_id = $1", a.ID); err != nil {
		return fmt.Errorf("failed to clear property values: %w", err)
	}
	if len(a.PropertyValues) == 0 {
		return nil
	}
	if a.FilterGroupID == nil {
		return fmt.Errorf("property values need a filterGroupId: %w", utils.ErrParameterMissing)
	}

	for _, pv := range a.PropertyValues {
		var optionID, valueID int
		err := executor.QueryRow(ctx, `
			INSERT INTO filter_options (name) VALUES ($1)
			ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
			RETURNING id`, pv.Option.Name).Scan(&optionID)
		if err != nil {
			return wrapWriteError("save property option", err)
		}

		if _, err := executor.Exec(ctx, `
			INSERT INTO filter_relations (group_id, option_id) VALUES ($1, $2)
			ON CONFLICT DO NOTHING`, *a.FilterGroupID, optionID); err != nil {
			return wrapWriteError("save property relation", err)
		}

		err = executor.QueryRow(ctx, `
			INSERT INTO filter_values (option_id, value) VALUES ($1, $2)
			ON CONFLICT (option_id, value) DO UPDATE SET value = EXCLUDED.value
			RETURNING id`, optionID, pv.Value).Scan(&valueID)
		if err != nil {
			return wrapWriteError("save property value", err)
		}

		if _, err := executor.Exec(ctx, `
			INSERT INTO filter_articles (article_id, value_id) VALUES ($1, $2)
			ON CONFLICT DO NOTHING`, a.ID, valueID); err != nil {
			return wrapWriteError("link property value", err)
		}
	}
	return nil
}

// GetArticle loads the full admin model. Returns nil, nil when it does not exist.
func (r *Storage) GetArticle(ctx context.Context, id int) (*models.Article, error) {
	executor := r.getExecutor(ctx)

	a, err := scanArticle(executor.QueryRow(ctx, "SELECT "+articleColumns+" FROM articles a WHERE a.id = $1", id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get article: %w", err)
	}

	details, err := r.articleDetails(ctx, []int{id})
	if err != nil {
		return nil, err
	}
	for _, d := range details[id] {
		if d.Kind == models.DetailKindMain && a.MainDetail == nil {
			a.MainDetail = d
			continue
		}
		a.Variants = append(a.Variants, d)
	}

	if a.Categories, err = r.articleRefs(ctx, "SELECT category_id FROM article_categories WHERE article_id = $1 ORDER BY category_id", id); err != nil {
		return nil, err
	}
	if a.Similar, err = r.articleRefs(ctx, "SELECT related_id FROM article_similar WHERE article_id = $1 ORDER BY related_id", id); err != nil {
		return nil, err
	}
	related, err := r.articleRefs(ctx, "SELECT related_id FROM article_relationships WHERE article_id = $1 ORDER BY related_id", id)
	if err != nil {
		return nil, err
	}
	for _, ref := range related {
		a.Related = append(a.Related, models.RelatedRef{ID: ref.ID})
	}

	if err := r.loadArticleLinksAndImages(ctx, a); err != nil {
		return nil, err
	}

	return a, nil
}

func (r *Storage) articleRefs(ctx context.Context, query string, id int) ([]models.IDRef, error) {
	rows, err := r.getExecutor(ctx).Query(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query article references: %w", err)
	}
	defer rows.Close()

	refs := []models.IDRef{}
	for rows.Next() {
		var ref models.IDRef
		if err := rows.Scan(&ref.ID); err != nil {
			return nil, fmt.Errorf("failed to scan article reference row: %w", err)
		}
		refs = append(refs, ref)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error while iterating article reference rows: %w", rows.Err())
	}
	return refs, nil
}

func (r *Storage) loadArticleLinksAndImages(ctx context.Context, a *models.Article) error {
	executor := r.getExecutor(ctx)

	rows, err := executor.Query(ctx,
		"SELECT description, link, target FROM article_links WHERE article_id = $1 ORDER BY id", a.ID)
	if err != nil {
		return fmt.Errorf("failed to query article links: %w", err)
	}
	a.Links = []models.ArticleLink{}
	for rows.Next() {
		var l models.ArticleLink
		if err := rows.Scan(&l.Name, &l.Link, &l.Target); err != nil {
			rows.Close()
			return fmt.Errorf("failed to scan article link row: %w", err)
		}
		a.Links = append(a.Links, l)
	}
	rows.Close()
	if rows.Err() != nil {
		return fmt.Errorf("error while iterating article link rows: %w", rows.Err())
	}

	rows, err = executor.Query(ctx,
		"SELECT media_id, main, position FROM article_images WHERE article_id = $1 ORDER BY main, position", a.ID)
	if err != nil {
		return fmt.Errorf("failed to query article images: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var img models.ArticleImage
		if err := rows.Scan(&img.MediaID, &img.Main, &img.Position); err != nil {
			return fmt.Errorf("failed to scan article image row: %w", err)
		}
		a.Images = append(a.Images, img)
	}
	if rows.Err() != nil {
		return fmt.Errorf("error while iterating article image rows: %w", rows.Err())
	}
	return nil
}

// articleDetails loads details with prices grouped by article id.
func (r *Storage) articleDetails(ctx context.Context, articleIDs []int) (map[int][]*models.ArticleDetail, error) {
	executor := r.getExecutor(ctx)

	rows, err := executor.Query(ctx, `
		SELECT id, article_id, number, kind, active, instock, unit_id, min_purchase, max_purchase,
			purchase_steps, purchase_unit::float8, reference_unit::float8, pack_unit, additional_text, ean,
			supplier_number, shipping_time, shipping_free, weight::float8, width::float8, height::float8,
			len::float8, release_date, sales, attributes
		FROM article_details
		WHERE article_id = ANY($1)
		ORDER BY article_id, kind, id
	`, articleIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query article details: %w", err)
	}
	defer rows.Close()

	result := make(map[int][]*models.ArticleDetail)
	byID := make(map[int]*models.ArticleDetail)
	var detailIDs []int
	for rows.Next() {
		var (
			d         models.ArticleDetail
			articleID int
			attrs     []byte
		)
		if err := rows.Scan(&d.ID, &articleID, &d.Number, &d.Kind, &d.Active, &d.InStock, &d.UnitID,
			&d.MinPurchase, &d.MaxPurchase, &d.PurchaseSteps, &d.PurchaseUnit, &d.ReferenceUnit, &d.PackUnit,
			&d.AdditionalText, &d.Ean, &d.SupplierNumber, &d.ShippingTime, &d.ShippingFree, &d.Weight,
			&d.Width, &d.Height, &d.Len, &d.ReleaseDate, &d.Sales, &attrs); err != nil {
			return nil, fmt.Errorf("failed to scan article detail row: %w", err)
		}
		if len(attrs) > 0 {
			if err := json.Unmarshal(attrs, &d.Attribute); err != nil {
				return nil, fmt.Errorf("failed to decode detail attributes: %w", err)
			}
		}
		d.Prices = []models.ArticlePrice{}
		result[articleID] = append(result[articleID], &d)
		byID[d.ID] = &d
		detailIDs = append(detailIDs, d.ID)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error while iterating article detail rows: %w", rows.Err())
	}
	rows.Close()

	if len(detailIDs) == 0 {
		return result, nil
	}

	priceRows, err := executor.Query(ctx, `
		SELECT detail_id, customer_group_key, quantity_from, quantity_to, price::float8,
			pseudo_price::float8, percent::float8
		FROM prices
		WHERE detail_id = ANY($1)
		ORDER BY detail_id, customer_group_key, quantity_from
	`, detailIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query prices: %w", err)
	}
	defer priceRows.Close()

	for priceRows.Next() {
		var (
			p        models.ArticlePrice
			detailID int
		)
		if err := priceRows.Scan(&detailID, &p.CustomerGroupKey, &p.From, &p.To.Value, &p.Price,
			&p.PseudoPrice, &p.Percent); err != nil {
			return nil, fmt.Errorf("failed to scan price row: %w", err)
		}
		if d, ok := byID[detailID]; ok {
			d.Prices = append(d.Prices, p)
		}
	}
	if priceRows.Err() != nil {
		return nil, fmt.Errorf("error while iterating price rows: %w", priceRows.Err())
	}

	return result, nil
}

// ListArticles returns a page of articles with their main detail and the total
// number of matching articles.
func (r *Storage) ListArticles(ctx context.Context, filter *models.ArticleFilter, offset, limit int) ([]*models.Article, int, error) {
	executor := r.getExecutor(ctx)

	var (
		conditions []string
		args       []interface{}
	)
	addArg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter != nil {
		if filter.Name != "" {
			conditions = append(conditions, "a.name ILIKE "+addArg("%"+filter.Name+"%"))
		}
		if filter.Number != "" {
			conditions = append(conditions,
				"EXISTS (SELECT 1 FROM article_details fd WHERE fd.article_id = a.id AND fd.number = "+addArg(filter.Number)+")")
		}
		if filter.SupplierID != 0 {
			conditions = append(conditions, "a.supplier_id = "+addArg(filter.SupplierID))
		}
		if filter.CategoryID != 0 {
			conditions = append(conditions,
				"EXISTS (SELECT 1 FROM article_categories fc WHERE fc.article_id = a.id AND fc.category_id = "+addArg(filter.CategoryID)+")")
		}
		if filter.Active != nil {
			conditions = append(conditions, "a.active = "+addArg(*filter.Active))
		}
		if filter.SearchQuery != "" {
			like := addArg("%" + filter.SearchQuery + "%")
			conditions = append(conditions, fmt.Sprintf("(a.name ILIKE %s OR a.keywords ILIKE %s)", like, like))
		}
		if filter.CreatedAfter > 0 {
			conditions = append(conditions, "a.created_at > "+addArg(time.Unix(filter.CreatedAfter, 0).UTC()))
		}
		if filter.UpdatedBefore > 0 {
			conditions = append(conditions, "a.updated_at < "+addArg(time.Unix(filter.UpdatedBefore, 0).UTC()))
		}
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int
	if err := executor.QueryRow(ctx, "SELECT COUNT(*) FROM articles a"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count articles: %w", err)
	}
	if total == 0 {
		return []*models.Article{}, 0, nil
	}

	query := "SELECT " + articleColumns + " FROM articles a" + where +
		" ORDER BY a.id LIMIT " + addArg(limit) + " OFFSET " + addArg(offset)

	rows, err := executor.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list articles: %w", err)
	}
	defer rows.Close()

	var (
		articles []*models.Article
		ids      []int
	)
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan article row: %w", err)
		}
		articles = append(articles, a)
		ids = append(ids, a.ID)
	}
	if rows.Err() != nil {
		return nil, 0, fmt.Errorf("error while iterating article rows: %w", rows.Err())
	}
	rows.Close()

	details, err := r.articleDetails(ctx, ids)
	if err != nil {
		return nil, 0, err
	}
	for _, a := range articles {
		for _, d := range details[a.ID] {
			if d.Kind == models.DetailKindMain {
				a.MainDetail = d
				break
			}
		}
	}

	return articles, total, nil
}

func (r *Storage) DeleteArticle(ctx context.Context, id int) error {
	executor := r.getExecutor(ctx)

	tag, err := executor.Exec(ctx, "DELETE FROM articles WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete article: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("article %d: %w", id, utils.ErrNotFound)
	}
	return nil
}

// ArticleIDByNumber resolves a variant number to its article id; 0 when unknown.
func (r *Storage) ArticleIDByNumber(ctx context.Context, number string) (int, error) {
	var id int
	err := r.getExecutor(ctx).QueryRow(ctx,
		"SELECT article_id FROM article_details WHERE number = $1", number).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to resolve article number: %w", err)
	}
	return id, nil
}

// SaveHistoryRecord stores one audit entry; ID and ChangedAt are filled in when empty.
func (r *Storage) SaveHistoryRecord(ctx context.Context, record *models.ArticleHistoryRecord) error {
	executor := r.getExecutor(ctx)

	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	if record.ChangedAt.IsZero() {
		record.ChangedAt = time.Now().UTC()
	}

	var before, after []byte
	var err error
	if record.Before != nil {
		if before, err = json.Marshal(record.Before); err != nil {
			return fmt.Errorf("failed to marshal 'before' state: %w", err)
		}
	}
	if record.After != nil {
		if after, err = json.Marshal(record.After); err != nil {
			return fmt.Errorf("failed to marshal 'after' state: %w", err)
		}
	}

	query := `
		INSERT INTO article_history (id, article_id, change_type, before, after, changed_by, changed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	if _, err := executor.Exec(ctx, query, record.ID, record.ArticleID, record.ChangeType, before, after,
		record.ChangedBy, record.ChangedAt); err != nil {
		return fmt.Errorf("failed to save history record: %w", err)
	}
	return nil
}

func (r *Storage) GetArticleHistory(ctx context.Context, articleID, limit, offset int) ([]*models.ArticleHistoryRecord, error) {
	executor := r.getExecutor(ctx)

	query := `
		SELECT id, article_id, change_type, before, after, changed_by, changed_at
		FROM article_history
		WHERE article_id = $1
		ORDER BY changed_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := executor.Query(ctx, query, articleID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query article history: %w", err)
	}
	defer rows.Close()

	records := []*models.ArticleHistoryRecord{}
	for rows.Next() {
		var (
			record            models.ArticleHistoryRecord
			before, afterJSON []byte
		)
		if err := rows.Scan(&record.ID, &record.ArticleID, &record.ChangeType, &before, &afterJSON,
			&record.ChangedBy, &record.ChangedAt); err != nil {
			return nil, fmt.Errorf("failed to scan history record row: %w", err)
		}

		if len(before) > 0 {
			record.Before = &models.Article{}
			if err := json.Unmarshal(before, record.Before); err != nil {
				return nil, fmt.Errorf("failed to unmarshal 'before' state: %w", err)
			}
		}
		if len(afterJSON) > 0 {
			record.After = &models.Article{}
			if err := json.Unmarshal(afterJSON, record.After); err != nil {
				return nil, fmt.Errorf("failed to unmarshal 'after' state: %w", err)
			}
		}

		records = append(records, &record)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error while iterating history record rows: %w", rows.Err())
	}

	return records, nil
}

// ArticleNumbers returns the variant numbers of an article ordered main first.
func (r *Storage) ArticleNumbers(ctx context.Context, articleID int) ([]string, error) {
	rows, err := r.getExecutor(ctx).Query(ctx,
		"SELECT number FROM article_details WHERE article_id = $1 ORDER BY kind, id", articleID)
	if err != nil {
		return nil, fmt.Errorf("failed to query article numbers: %w", err)
	}
	defer rows.Close()

	var numbers []string
	for rows.Next() {
		var number string
		if err := rows.Scan(&number); err != nil {
			return nil, fmt.Errorf("failed to scan article number row: %w", err)
		}
		numbers = append(numbers, number)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error while iterating article number rows: %w", rows.Err())
	}
	return numbers, nil
}
