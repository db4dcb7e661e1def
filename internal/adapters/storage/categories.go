package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/athebyme/gomarket-platform/storefront-service/internal/domain/models"
	"github.com/athebyme/gomarket-platform/storefront-service/internal/utils"
	"github.com/jackc/pgx/v5"
)

const categoryColumns = `c.id, COALESCE(c.parent_id, 0), c.name, c.position, c.path, c.active, c.blog,
	c.display_facets, c.display_in_navigation, c.allow_view_select, c.meta_title, c.meta_keywords,
	c.meta_description, c.cms_headline, c.cms_text, c.template, c.product_box_layout,
	c.external_link, c.media_id, c.attributes, c.created_at, c.updated_at`

func scanCategory(row pgx.Row) (*models.Category, *int, error) {
	var (
		c       models.Category
		mediaID *int
		attrs   []byte
	)
	err := row.Scan(&c.ID, &c.ParentID, &c.Name, &c.Position, &c.Path, &c.Active, &c.Blog,
		&c.DisplayFacets, &c.DisplayInNavigation, &c.AllowViewSelect, &c.MetaTitle, &c.MetaKeywords,
		&c.MetaDescription, &c.CmsHeadline, &c.CmsText, &c.Template, &c.ProductBoxLayout,
		&c.ExternalLink, &mediaID, &attrs, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, nil, err
	}
	if err := decodeAttribute(attrs, "core", &c.Attributes); err != nil {
		return nil, nil, err
	}
	return &c, mediaID, nil
}

func categoryMediaID(c *models.Category) *int {
	if c.Media == nil || c.Media.ID == 0 {
		return nil
	}
	id := c.Media.ID
	return &id
}

// categoryPath computes the ancestor list of a node below parentID.
func (r *Storage) categoryPath(ctx context.Context, id, parentID int) ([]int, error) {
	if parentID == 0 {
		return []int{}, nil
	}
	if parentID == id {
		return nil, fmt.Errorf("category cannot be its own parent: %w", utils.ErrValidation)
	}

	var parentPath []int
	err := r.getExecutor(ctx).QueryRow(ctx, "SELECT path FROM categories WHERE id = $1", parentID).Scan(&parentPath)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("parent category %d does not exist: %w", parentID, utils.ErrValidation)
		}
		return nil, fmt.Errorf("failed to load parent category: %w", err)
	}

	for _, ancestor := range parentPath {
		if id != 0 && ancestor == id {
			return nil, fmt.Errorf("category cannot be moved below its own child: %w", utils.ErrValidation)
		}
	}

	return append([]int{parentID}, parentPath...), nil
}

func nullableParent(parentID int) *int {
	if parentID == 0 {
		return nil
	}
	return &parentID
}

func (r *Storage) CreateCategory(ctx context.Context, c *models.Category) error {
	executor := r.getExecutor(ctx)

	p, err := r.categoryPath(ctx, 0, c.ParentID)
	if err != nil {
		return err
	}
	c.Path = p

	attrs, err := attributesJSON(c.Attributes.Get("core"))
	if err != nil {
		return fmt.Errorf("failed to encode category attributes: %w", err)
	}

	now := time.Now().UTC()
	c.CreatedAt, c.UpdatedAt = now, now

	query := `
		INSERT INTO categories (parent_id, name, position, path, active, blog, display_facets,
			display_in_navigation, allow_view_select, meta_title, meta_keywords, meta_description,
			cms_headline, cms_text, template, product_box_layout, external_link, media_id, attributes,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)
		RETURNING id
	`
	err = executor.QueryRow(ctx, query, nullableParent(c.ParentID), c.Name, c.Position, c.Path, c.Active,
		c.Blog, c.DisplayFacets, c.DisplayInNavigation, c.AllowViewSelect, c.MetaTitle, c.MetaKeywords,
		c.MetaDescription, c.CmsHeadline, c.CmsText, c.Template, c.ProductBoxLayout, c.ExternalLink,
		categoryMediaID(c), attrs, c.CreatedAt, c.UpdatedAt).Scan(&c.ID)
	if err != nil {
		return wrapWriteError("create category", err)
	}
	return nil
}

// UpdateCategory rewrites the node and the paths of all its descendants.
func (r *Storage) UpdateCategory(ctx context.Context, c *models.Category) error {
	executor := r.getExecutor(ctx)

	p, err := r.categoryPath(ctx, c.ID, c.ParentID)
	if err != nil {
		return err
	}
	c.Path = p

	attrs, err := attributesJSON(c.Attributes.Get("core"))
	if err != nil {
		return fmt.Errorf("failed to encode category attributes: %w", err)
	}
	c.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE categories SET
			parent_id = $2, name = $3, position = $4, path = $5, active = $6, blog = $7,
			display_facets = $8, display_in_navigation = $9, allow_view_select = $10, meta_title = $11,
			meta_keywords = $12, meta_description = $13, cms_headline = $14, cms_text = $15,
			template = $16, product_box_layout = $17, external_link = $18, media_id = $19,
			attributes = $20, updated_at = $21
		WHERE id = $1
	`
	tag, err := executor.Exec(ctx, query, c.ID, nullableParent(c.ParentID), c.Name, c.Position, c.Path,
		c.Active, c.Blog, c.DisplayFacets, c.DisplayInNavigation, c.AllowViewSelect, c.MetaTitle,
		c.MetaKeywords, c.MetaDescription, c.CmsHeadline, c.CmsText, c.Template, c.ProductBoxLayout,
		c.ExternalLink, categoryMediaID(c), attrs, c.UpdatedAt)
	if err != nil {
		return wrapWriteError("update category", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("category %d: %w", c.ID, utils.ErrNotFound)
	}

	_, err = executor.Exec(ctx, `
		WITH RECURSIVE tree(id, path) AS (
			SELECT id, path FROM categories WHERE id = $1
			UNION ALL
			SELECT child.id, ARRAY[child.parent_id] || tree.path
			FROM categories child
			JOIN tree ON child.parent_id = tree.id
		)
		UPDATE categories SET path = tree.path
		FROM tree
		WHERE categories.id = tree.id AND categories.id <> $1
	`, c.ID)
	if err != nil {
		return fmt.Errorf("failed to update category subtree paths: %w", err)
	}
	return nil
}

// GetCategory returns nil, nil when the category does not exist.
func (r *Storage) GetCategory(ctx context.Context, id int) (*models.Category, error) {
	categories, err := r.GetCategories(ctx, []int{id})
	if err != nil {
		return nil, err
	}
	if len(categories) == 0 {
		return nil, nil
	}
	return categories[0], nil
}

// GetCategories loads categories with media in the order of ids; unknown ids are skipped.
func (r *Storage) GetCategories(ctx context.Context, ids []int) ([]*models.Category, error) {
	rows, err := r.getExecutor(ctx).Query(ctx, "SELECT "+categoryColumns+" FROM categories c WHERE c.id = ANY($1)", ids)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	byID := make(map[int]*models.Category, len(ids))
	mediaIDs := make(map[int]int)
	var allMedia []int
	for rows.Next() {
		c, mediaID, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan category row: %w", err)
		}
		byID[c.ID] = c
		if mediaID != nil {
			mediaIDs[c.ID] = *mediaID
			allMedia = append(allMedia, *mediaID)
		}
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error while iterating category rows: %w", rows.Err())
	}
	rows.Close()

	media, err := r.loadMedia(ctx, allMedia)
	if err != nil {
		return nil, err
	}

	result := make([]*models.Category, 0, len(byID))
	for _, id := range ids {
		c, ok := byID[id]
		if !ok {
			continue
		}
		if mediaID, ok := mediaIDs[id]; ok {
			c.Media = media[mediaID]
		}
		result = append(result, c)
	}
	return result, nil
}

// ListCategories returns a page ordered by path depth and position, plus the total.
func (r *Storage) ListCategories(ctx context.Context, parentID *int, offset, limit int) ([]*models.Category, int, error) {
	executor := r.getExecutor(ctx)

	where := ""
	args := []interface{}{}
	if parentID != nil {
		if *parentID == 0 {
			where = " WHERE c.parent_id IS NULL"
		} else {
			where = " WHERE c.parent_id = $1"
			args = append(args, *parentID)
		}
	}

	var total int
	if err := executor.QueryRow(ctx, "SELECT COUNT(*) FROM categories c"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count categories: %w", err)
	}
	if total == 0 {
		return []*models.Category{}, 0, nil
	}

	query := fmt.Sprintf("SELECT c.id FROM categories c%s ORDER BY cardinality(c.path), c.position, c.id LIMIT $%d OFFSET $%d",
		where, len(args)+1, len(args)+2)
	rows, err := executor.Query(ctx, query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, 0, fmt.Errorf("failed to scan category id: %w", err)
		}
		ids = append(ids, id)
	}
	if rows.Err() != nil {
		return nil, 0, fmt.Errorf("error while iterating category rows: %w", rows.Err())
	}
	rows.Close()

	categories, err := r.GetCategories(ctx, ids)
	if err != nil {
		return nil, 0, err
	}
	return categories, total, nil
}

// DeleteCategory removes the category and, by cascade, its subtree.
func (r *Storage) DeleteCategory(ctx context.Context, id int) error {
	tag, err := r.getExecutor(ctx).Exec(ctx, "DELETE FROM categories WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("category %d: %w", id, utils.ErrNotFound)
	}
	return nil
}

// CategoryArticleNumbers returns the numbers of all variants in the subtree of id.
func (r *Storage) CategoryArticleNumbers(ctx context.Context, id int) ([]string, error) {
	rows, err := r.getExecutor(ctx).Query(ctx, `
		SELECT DISTINCT d.number
		FROM article_categories ac
		JOIN categories c ON c.id = ac.category_id
		JOIN article_details d ON d.article_id = ac.article_id
		WHERE c.id = $1 OR $1 = ANY(c.path)
	`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query category article numbers: %w", err)
	}
	defer rows.Close()

	var numbers []string
	for rows.Next() {
		var number string
		if err := rows.Scan(&number); err != nil {
			return nil, fmt.Errorf("failed to scan number row: %w", err)
		}
		numbers = append(numbers, number)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error while iterating number rows: %w", rows.Err())
	}
	return numbers, nil
}
