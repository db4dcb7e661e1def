package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/athebyme/gomarket-platform/storefront-service/internal/domain/models"
	"github.com/athebyme/gomarket-platform/storefront-service/internal/domain/pricing"
	"github.com/athebyme/gomarket-platform/storefront-service/internal/domain/translation"
	"golang.org/x/sync/errgroup"
)

const listProductQuery = `
	SELECT d.number, a.id, d.id, a.name, a.description, a.description_long, d.additional_text,
		a.keywords, a.meta_title, a.template, d.ean, d.supplier_number, d.shipping_time,
		a.highlight, a.last_stock, d.shipping_free, a.notification, a.configurator_set_id IS NOT NULL,
		COALESCE(a.filter_group_id, 0), d.instock, d.sales + a.pseudo_sales,
		d.weight::float8, d.width::float8, d.height::float8, d.len::float8,
		a.created_at, d.release_date,
		t.id, t.name, t.tax::float8,
		u.id, COALESCE(u.unit, ''), COALESCE(u.description, ''),
		d.purchase_unit::float8, d.reference_unit::float8, d.pack_unit,
		d.min_purchase, d.max_purchase, d.purchase_steps,
		m.id, m.name, m.description, m.link, m.img, m.meta_title, m.meta_description, m.meta_keywords,
		m.attributes, COALESCE(a.price_group_id, 0), a.price_group_active, d.attributes
	FROM article_details d
	JOIN articles a ON a.id = d.article_id
	JOIN taxes t ON t.id = a.tax_id
	JOIN manufacturers m ON m.id = a.supplier_id
	LEFT JOIN units u ON u.id = d.unit_id
	WHERE d.number = ANY($1) AND a.active = TRUE AND d.active = TRUE
`

func (r *Storage) scanListProduct(row interface{ Scan(...interface{}) error }) (*models.ListProduct, error) {
	var (
		p            models.ListProduct
		tax          models.Tax
		unit         models.Unit
		unitID       *int
		manufacturer models.Manufacturer
		img          string
		supplierAttr []byte
		priceGroupID int
		detailAttr   []byte
		createdAt    time.Time
	)
	err := row.Scan(&p.Number, &p.ID, &p.VariantID, &p.Name, &p.ShortDescription, &p.LongDescription,
		&p.AdditionalText, &p.Keywords, &p.MetaTitle, &p.Template, &p.Ean, &p.ManufacturerNumber,
		&p.ShippingTime, &p.Highlight, &p.CloseOuts, &p.ShippingFree, &p.AllowsNotification,
		&p.HasConfigurator, &p.PropertySetID, &p.Stock, &p.Sales,
		&p.Weight, &p.Width, &p.Height, &p.Length,
		&createdAt, &p.ReleaseDate,
		&tax.ID, &tax.Name, &tax.Tax,
		&unitID, &unit.Unit, &unit.Name,
		&unit.PurchaseUnit, &unit.ReferenceUnit, &unit.PackUnit,
		&unit.MinPurchase, &unit.MaxPurchase, &unit.PurchaseStep,
		&manufacturer.ID, &manufacturer.Name, &manufacturer.Description, &manufacturer.Link, &img,
		&manufacturer.MetaTitle, &manufacturer.MetaDescription, &manufacturer.MetaKeywords,
		&supplierAttr, &priceGroupID, &p.IsPriceGroupActive, &detailAttr)
	if err != nil {
		return nil, err
	}

	p.CreatedAt = &createdAt
	p.HasProperties = p.PropertySetID > 0

	if unitID != nil {
		unit.ID = *unitID
	}
	if unit.MinPurchase < 1 {
		unit.MinPurchase = 1
	}
	p.IsAvailable = isAvailable(p.CloseOuts, p.Stock, unit.MinPurchase)
	p.Unit = &unit
	p.Tax = &tax

	if img != "" {
		manufacturer.CoverFile = r.mediaURL(img)
	}
	if err := decodeAttribute(supplierAttr, "core", &manufacturer.Attributes); err != nil {
		return nil, err
	}
	p.Manufacturer = &manufacturer

	if priceGroupID > 0 {
		p.PriceGroup = &models.PriceGroup{ID: priceGroupID}
	}
	if err := decodeAttribute(detailAttr, "core", &p.Attributes); err != nil {
		return nil, err
	}

	return &p, nil
}

// isAvailable reports whether a variant can be bought. Closeouts need stock for
// at least one purchase unit, minPurchase is at least 1.
func isAvailable(closeOuts bool, stock, minPurchase int) bool {
	if minPurchase < 1 {
		minPurchase = 1
	}
	return !closeOuts || stock >= minPurchase
}

// ListProducts hydrates the active variants with the given numbers. The price
// rules of every variant of each article are attached for cheapest price
// resolution. Unknown or inactive numbers are missing from the result.
func (r *Storage) ListProducts(ctx context.Context, numbers []string, shopCtx *models.ShopContext) (map[string]*pricing.ProductRules, error) {
	result := make(map[string]*pricing.ProductRules, len(numbers))
	if len(numbers) == 0 {
		return result, nil
	}

	rows, err := r.getExecutor(ctx).Query(ctx, listProductQuery, numbers)
	if err != nil {
		return nil, fmt.Errorf("failed to query list products: %w", err)
	}
	defer rows.Close()

	var (
		products   []*models.ListProduct
		articleIDs []int
		seen       = map[int]bool{}
	)
	for rows.Next() {
		p, err := r.scanListProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan list product row: %w", err)
		}
		products = append(products, p)
		if !seen[p.ID] {
			seen[p.ID] = true
			articleIDs = append(articleIDs, p.ID)
		}
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error while iterating list product rows: %w", rows.Err())
	}
	rows.Close()

	if len(products) == 0 {
		return result, nil
	}

	var (
		variants   map[int][]pricing.VariantRules
		covers     map[int]*models.Media
		votes      map[int]*models.VoteAverage
		categories map[int][]int
		blocked    map[int][]int
	)

	eg, egCtx := errgroup.WithContext(withoutTx(ctx))
	eg.Go(func() error {
		var err error
		variants, err = r.variantRules(egCtx, articleIDs, shopCtx)
		return err
	})
	eg.Go(func() error {
		var err error
		covers, err = r.covers(egCtx, articleIDs)
		return err
	})
	eg.Go(func() error {
		var err error
		votes, err = r.voteAverages(egCtx, articleIDs)
		return err
	})
	eg.Go(func() error {
		var err error
		categories, err = r.articleIntList(egCtx, "SELECT article_id, category_id FROM article_categories WHERE article_id = ANY($1) ORDER BY category_id", articleIDs)
		return err
	})
	eg.Go(func() error {
		var err error
		blocked, err = r.articleIntList(egCtx, "SELECT article_id, customer_group_id FROM customer_group_blocks WHERE article_id = ANY($1)", articleIDs)
		return err
	})
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	var units []*models.Unit
	for _, vs := range variants {
		for _, v := range vs {
			units = append(units, v.Unit)
		}
	}
	texts, err := r.Translations(ctx, shopIDOf(shopCtx), translation.Keys(products, units))
	if err != nil {
		return nil, err
	}
	for _, u := range units {
		texts.Unit(u)
	}

	for _, p := range products {
		texts.ListProduct(p)
		p.Cover = covers[p.ID]
		p.VoteAverage = votes[p.ID]
		p.CategoryIDs = categories[p.ID]
		p.BlockedCustomerGroups = blocked[p.ID]
		if p.PriceGroup != nil && shopCtx != nil {
			if group, ok := shopCtx.PriceGroups[p.PriceGroup.ID]; ok {
				p.PriceGroup = group
			}
		}
		result[p.Number] = &pricing.ProductRules{Product: p, Variants: variants[p.ID]}
	}

	return result, nil
}

// customerGroupFor reuses the context groups so that rules carry full group data.
func customerGroupFor(key string, shopCtx *models.ShopContext) *models.CustomerGroup {
	if shopCtx != nil {
		if g := shopCtx.CurrentCustomerGroup; g != nil && g.Key == key {
			return g
		}
		if g := shopCtx.FallbackCustomerGroup; g != nil && g.Key == key {
			return g
		}
	}
	return &models.CustomerGroup{Key: key}
}

func (r *Storage) variantRules(ctx context.Context, articleIDs []int, shopCtx *models.ShopContext) (map[int][]pricing.VariantRules, error) {
	rows, err := r.getExecutor(ctx).Query(ctx, `
		SELECT d.article_id, d.id, d.number, u.id, COALESCE(u.unit, ''), COALESCE(u.description, ''),
			d.purchase_unit::float8, d.reference_unit::float8, d.pack_unit, d.min_purchase,
			d.max_purchase, d.purchase_steps,
			p.id, p.customer_group_key, p.quantity_from, p.quantity_to, p.price::float8, p.pseudo_price::float8
		FROM article_details d
		JOIN prices p ON p.detail_id = d.id
		LEFT JOIN units u ON u.id = d.unit_id
		WHERE d.article_id = ANY($1) AND d.active = TRUE
		ORDER BY d.article_id, d.kind, d.id, p.customer_group_key, p.quantity_from
	`, articleIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query price rules: %w", err)
	}
	defer rows.Close()

	result := make(map[int][]pricing.VariantRules)
	index := make(map[int]int)
	for rows.Next() {
		var (
			articleID int
			v         pricing.VariantRules
			unit      models.Unit
			unitID    *int
			rule      models.PriceRule
			groupKey  string
		)
		if err := rows.Scan(&articleID, &v.VariantID, &v.Number, &unitID, &unit.Unit, &unit.Name,
			&unit.PurchaseUnit, &unit.ReferenceUnit, &unit.PackUnit, &unit.MinPurchase,
			&unit.MaxPurchase, &unit.PurchaseStep,
			&rule.ID, &groupKey, &rule.From, &rule.To, &rule.Price, &rule.PseudoPrice); err != nil {
			return nil, fmt.Errorf("failed to scan price rule row: %w", err)
		}
		rule.VariantID = v.VariantID
		rule.CustomerGroup = customerGroupFor(groupKey, shopCtx)

		i, ok := index[v.VariantID]
		if !ok {
			if unitID != nil {
				unit.ID = *unitID
			}
			if unit.MinPurchase < 1 {
				unit.MinPurchase = 1
			}
			v.Unit = &unit
			result[articleID] = append(result[articleID], v)
			i = len(result[articleID]) - 1
			index[v.VariantID] = i
		}
		result[articleID][i].Rules = append(result[articleID][i].Rules, &rule)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error while iterating price rule rows: %w", rows.Err())
	}

	return result, nil
}

// covers returns the main image of every article, falling back to the first by position.
func (r *Storage) covers(ctx context.Context, articleIDs []int) (map[int]*models.Media, error) {
	rows, err := r.getExecutor(ctx).Query(ctx, `
		SELECT DISTINCT ON (article_id) article_id, media_id
		FROM article_images
		WHERE article_id = ANY($1)
		ORDER BY article_id, main, position, id
	`, articleIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query covers: %w", err)
	}
	defer rows.Close()

	byArticle := make(map[int]int)
	var mediaIDs []int
	for rows.Next() {
		var articleID, mediaID int
		if err := rows.Scan(&articleID, &mediaID); err != nil {
			return nil, fmt.Errorf("failed to scan cover row: %w", err)
		}
		byArticle[articleID] = mediaID
		mediaIDs = append(mediaIDs, mediaID)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error while iterating cover rows: %w", rows.Err())
	}
	rows.Close()

	media, err := r.loadMedia(ctx, mediaIDs)
	if err != nil {
		return nil, err
	}

	result := make(map[int]*models.Media, len(byArticle))
	for articleID, mediaID := range byArticle {
		if m, ok := media[mediaID]; ok {
			cover := *m
			cover.Preview = true
			result[articleID] = &cover
		}
	}
	return result, nil
}

func (r *Storage) voteAverages(ctx context.Context, articleIDs []int) (map[int]*models.VoteAverage, error) {
	rows, err := r.getExecutor(ctx).Query(ctx, `
		SELECT article_id, ROUND(points)::int, COUNT(*)
		FROM article_votes
		WHERE article_id = ANY($1) AND active = TRUE
		GROUP BY article_id, ROUND(points)
		ORDER BY article_id, 2 DESC
	`, articleIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query vote averages: %w", err)
	}
	defer rows.Close()

	result := make(map[int]*models.VoteAverage)
	sums := make(map[int]int)
	for rows.Next() {
		var articleID, points, total int
		if err := rows.Scan(&articleID, &points, &total); err != nil {
			return nil, fmt.Errorf("failed to scan vote row: %w", err)
		}
		avg, ok := result[articleID]
		if !ok {
			avg = &models.VoteAverage{}
			result[articleID] = avg
		}
		avg.Count += total
		avg.PointCount = append(avg.PointCount, models.VotePoints{Points: points, Total: total})
		sums[articleID] += points * total
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error while iterating vote rows: %w", rows.Err())
	}

	// the average is stored on the ten point scale used by the templates
	for articleID, avg := range result {
		if avg.Count > 0 {
			avg.Average = float64(sums[articleID]) / float64(avg.Count) * 2
		}
	}
	return result, nil
}

// articleIntList groups the second int column of query by the first.
func (r *Storage) articleIntList(ctx context.Context, query string, articleIDs []int) (map[int][]int, error) {
	rows, err := r.getExecutor(ctx).Query(ctx, query, articleIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query article list: %w", err)
	}
	defer rows.Close()

	result := make(map[int][]int)
	for rows.Next() {
		var articleID, value int
		if err := rows.Scan(&articleID, &value); err != nil {
			return nil, fmt.Errorf("failed to scan article list row: %w", err)
		}
		result[articleID] = append(result[articleID], value)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error while iterating article list rows: %w", rows.Err())
	}
	return result, nil
}

// ProductAssociations loads the detail page data of one variant.
func (r *Storage) ProductAssociations(ctx context.Context, articleID, variantID int, shopCtx *models.ShopContext) (*models.ProductAssociations, error) {
	assoc := &models.ProductAssociations{}

	eg, egCtx := errgroup.WithContext(withoutTx(ctx))
	eg.Go(func() error {
		var err error
		assoc.Media, err = r.productMedia(egCtx, articleID)
		return err
	})
	eg.Go(func() error {
		var err error
		assoc.Votes, err = r.productVotes(egCtx, articleID)
		return err
	})
	eg.Go(func() error {
		var err error
		assoc.Downloads, err = r.productDownloads(egCtx, articleID)
		return err
	})
	eg.Go(func() error {
		var err error
		assoc.Links, err = r.productLinks(egCtx, articleID)
		return err
	})
	eg.Go(func() error {
		var err error
		assoc.RelatedNumbers, err = r.mainNumbers(egCtx, "article_relationships", articleID)
		return err
	})
	eg.Go(func() error {
		var err error
		assoc.SimilarNumbers, err = r.mainNumbers(egCtx, "article_similar", articleID)
		return err
	})
	eg.Go(func() error {
		var err error
		assoc.RelatedProductStreams, err = r.productStreams(egCtx, articleID)
		return err
	})
	eg.Go(func() error {
		var err error
		assoc.PropertySet, err = r.propertySet(egCtx, articleID)
		return err
	})
	eg.Go(func() error {
		var err error
		assoc.ConfiguratorSet, err = r.configuratorSet(egCtx, articleID, variantID)
		return err
	})
	eg.Go(func() error {
		ids, err := r.articleIntList(egCtx, "SELECT article_id, category_id FROM article_categories WHERE article_id = ANY($1) ORDER BY category_id", []int{articleID})
		assoc.CategoryIDs = ids[articleID]
		return err
	})
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	texts, err := r.Translations(ctx, shopIDOf(shopCtx), translation.AssociationKeys(assoc.PropertySet, assoc.ConfiguratorSet))
	if err != nil {
		return nil, err
	}
	texts.PropertySet(assoc.PropertySet)
	texts.ConfiguratorSet(assoc.ConfiguratorSet)

	return assoc, nil
}

func (r *Storage) productMedia(ctx context.Context, articleID int) ([]*models.Media, error) {
	rows, err := r.getExecutor(ctx).Query(ctx, `
		SELECT media_id, main
		FROM article_images
		WHERE article_id = $1
		ORDER BY main, position, id
	`, articleID)
	if err != nil {
		return nil, fmt.Errorf("failed to query product media: %w", err)
	}
	defer rows.Close()

	var (
		ids  []int
		main = map[int]bool{}
	)
	for rows.Next() {
		var id, flag int
		if err := rows.Scan(&id, &flag); err != nil {
			return nil, fmt.Errorf("failed to scan product media row: %w", err)
		}
		ids = append(ids, id)
		if flag == 1 {
			main[id] = true
		}
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error while iterating product media rows: %w", rows.Err())
	}
	rows.Close()

	media, err := r.loadMedia(ctx, ids)
	if err != nil {
		return nil, err
	}

	result := make([]*models.Media, 0, len(ids))
	for _, id := range ids {
		if m, ok := media[id]; ok {
			m.Preview = main[id]
			result = append(result, m)
		}
	}
	return result, nil
}

func (r *Storage) productVotes(ctx context.Context, articleID int) ([]*models.Vote, error) {
	rows, err := r.getExecutor(ctx).Query(ctx, `
		SELECT id, name, headline, comment, points::float8, email, answer, created_at, answered_at
		FROM article_votes
		WHERE article_id = $1 AND active = TRUE
		ORDER BY created_at DESC NULLS LAST, id DESC
	`, articleID)
	if err != nil {
		return nil, fmt.Errorf("failed to query votes: %w", err)
	}
	defer rows.Close()

	votes := []*models.Vote{}
	for rows.Next() {
		var v models.Vote
		if err := rows.Scan(&v.ID, &v.Name, &v.Headline, &v.Comment, &v.Points, &v.Email, &v.Answer,
			&v.CreatedAt, &v.AnsweredAt); err != nil {
			return nil, fmt.Errorf("failed to scan vote row: %w", err)
		}
		votes = append(votes, &v)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error while iterating vote rows: %w", rows.Err())
	}
	return votes, nil
}

func (r *Storage) productDownloads(ctx context.Context, articleID int) ([]*models.Download, error) {
	rows, err := r.getExecutor(ctx).Query(ctx,
		"SELECT id, description, filename, size FROM article_downloads WHERE article_id = $1 ORDER BY id", articleID)
	if err != nil {
		return nil, fmt.Errorf("failed to query downloads: %w", err)
	}
	defer rows.Close()

	downloads := []*models.Download{}
	for rows.Next() {
		var (
			d    models.Download
			file string
		)
		if err := rows.Scan(&d.ID, &d.Description, &file, &d.Size); err != nil {
			return nil, fmt.Errorf("failed to scan download row: %w", err)
		}
		d.File = r.mediaURL(file)
		downloads = append(downloads, &d)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error while iterating download rows: %w", rows.Err())
	}
	return downloads, nil
}

func (r *Storage) productLinks(ctx context.Context, articleID int) ([]*models.Link, error) {
	rows, err := r.getExecutor(ctx).Query(ctx,
		"SELECT id, description, link, target FROM article_links WHERE article_id = $1 ORDER BY id", articleID)
	if err != nil {
		return nil, fmt.Errorf("failed to query links: %w", err)
	}
	defer rows.Close()

	links := []*models.Link{}
	for rows.Next() {
		var l models.Link
		if err := rows.Scan(&l.ID, &l.Description, &l.Link, &l.Target); err != nil {
			return nil, fmt.Errorf("failed to scan link row: %w", err)
		}
		links = append(links, &l)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error while iterating link rows: %w", rows.Err())
	}
	return links, nil
}

// mainNumbers returns the main variant numbers of the active articles linked in table.
func (r *Storage) mainNumbers(ctx context.Context, table string, articleID int) ([]string, error) {
	query := fmt.Sprintf(`
		SELECT d.number
		FROM %s rel
		JOIN articles a ON a.id = rel.related_id AND a.active = TRUE
		JOIN article_details d ON d.id = a.main_detail_id AND d.active = TRUE
		WHERE rel.article_id = $1
		ORDER BY rel.related_id
	`, table)
	rows, err := r.getExecutor(ctx).Query(ctx, query, articleID)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", table, err)
	}
	defer rows.Close()

	var numbers []string
	for rows.Next() {
		var number string
		if err := rows.Scan(&number); err != nil {
			return nil, fmt.Errorf("failed to scan %s row: %w", table, err)
		}
		numbers = append(numbers, number)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error while iterating %s rows: %w", table, rows.Err())
	}
	return numbers, nil
}

func (r *Storage) productStreams(ctx context.Context, articleID int) ([]*models.ProductStream, error) {
	rows, err := r.getExecutor(ctx).Query(ctx, `
		SELECT s.id, s.name, s.description, s.type
		FROM article_related_streams rs
		JOIN product_streams s ON s.id = rs.stream_id
		WHERE rs.article_id = $1
		ORDER BY rs.position, s.id
	`, articleID)
	if err != nil {
		return nil, fmt.Errorf("failed to query product streams: %w", err)
	}
	defer rows.Close()

	streams := []*models.ProductStream{}
	for rows.Next() {
		var s models.ProductStream
		if err := rows.Scan(&s.ID, &s.Name, &s.Description, &s.Type); err != nil {
			return nil, fmt.Errorf("failed to scan product stream row: %w", err)
		}
		streams = append(streams, &s)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error while iterating product stream rows: %w", rows.Err())
	}
	return streams, nil
}

// propertySet returns the article's property set with only the values assigned
// to the article; nil when it has none.
func (r *Storage) propertySet(ctx context.Context, articleID int) (*models.PropertySet, error) {
	rows, err := r.getExecutor(ctx).Query(ctx, `
		SELECT g.id, g.name, g.comparable, g.sort_mode, o.id, o.name, o.filterable, v.id, v.value, v.media_id
		FROM articles a
		JOIN filter_groups g ON g.id = a.filter_group_id
		JOIN filter_articles fa ON fa.article_id = a.id
		JOIN filter_values v ON v.id = fa.value_id
		JOIN filter_options o ON o.id = v.option_id
		JOIN filter_relations fr ON fr.group_id = g.id AND fr.option_id = o.id
		WHERE a.id = $1
		ORDER BY fr.position, o.id, v.position, v.value
	`, articleID)
	if err != nil {
		return nil, fmt.Errorf("failed to query property set: %w", err)
	}
	defer rows.Close()

	var (
		set      *models.PropertySet
		groups   = map[int]*models.PropertyGroup{}
		mediaFor = map[*models.PropertyOption]int{}
		mediaIDs []int
	)
	for rows.Next() {
		var (
			s       models.PropertySet
			g       models.PropertyGroup
			o       models.PropertyOption
			mediaID *int
		)
		if err := rows.Scan(&s.ID, &s.Name, &s.Comparable, &s.SortMode, &g.ID, &g.Name, &g.Filterable,
			&o.ID, &o.Name, &mediaID); err != nil {
			return nil, fmt.Errorf("failed to scan property row: %w", err)
		}
		if set == nil {
			set = &s
		}
		group, ok := groups[g.ID]
		if !ok {
			group = &g
			groups[g.ID] = group
			set.Groups = append(set.Groups, group)
		}
		option := &o
		group.Options = append(group.Options, option)
		if mediaID != nil {
			mediaFor[option] = *mediaID
			mediaIDs = append(mediaIDs, *mediaID)
		}
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error while iterating property rows: %w", rows.Err())
	}
	rows.Close()

	if len(mediaIDs) > 0 {
		media, err := r.loadMedia(ctx, mediaIDs)
		if err != nil {
			return nil, err
		}
		for option, id := range mediaFor {
			option.Media = media[id]
		}
	}

	return set, nil
}

// configuratorSet builds the variant selection of the article. Options of
// variantID are selected; options without an active variant are inactive.
func (r *Storage) configuratorSet(ctx context.Context, articleID, variantID int) (*models.ConfiguratorSet, error) {
	rows, err := r.getExecutor(ctx).Query(ctx, `
		SELECT s.id, s.name, s.type, g.id, g.name, g.description, o.id, o.name, o.media_id,
			EXISTS (
				SELECT 1 FROM configurator_option_relations cr
				WHERE cr.option_id = o.id AND cr.detail_id = $2
			),
			EXISTS (
				SELECT 1 FROM configurator_option_relations cr
				JOIN article_details d ON d.id = cr.detail_id
				WHERE cr.option_id = o.id AND d.article_id = a.id AND d.active = TRUE
			)
		FROM articles a
		JOIN configurator_sets s ON s.id = a.configurator_set_id
		JOIN configurator_set_options so ON so.set_id = s.id
		JOIN configurator_options o ON o.id = so.option_id
		JOIN configurator_groups g ON g.id = o.group_id
		WHERE a.id = $1
		ORDER BY g.position, g.id, o.position, o.id
	`, articleID, variantID)
	if err != nil {
		return nil, fmt.Errorf("failed to query configurator set: %w", err)
	}
	defer rows.Close()

	var (
		set      *models.ConfiguratorSet
		groups   = map[int]*models.ConfiguratorGroup{}
		mediaFor = map[*models.ConfiguratorOption]int{}
		mediaIDs []int
	)
	for rows.Next() {
		var (
			s       models.ConfiguratorSet
			g       models.ConfiguratorGroup
			o       models.ConfiguratorOption
			mediaID *int
		)
		if err := rows.Scan(&s.ID, &s.Name, &s.Type, &g.ID, &g.Name, &g.Description, &o.ID, &o.Name,
			&mediaID, &o.Selected, &o.Active); err != nil {
			return nil, fmt.Errorf("failed to scan configurator row: %w", err)
		}
		if set == nil {
			set = &s
		}
		group, ok := groups[g.ID]
		if !ok {
			group = &g
			groups[g.ID] = group
			set.Groups = append(set.Groups, group)
		}
		option := &o
		group.Options = append(group.Options, option)
		if option.Selected {
			group.Selected = true
			set.SelectionSpecified = true
		}
		if mediaID != nil {
			mediaFor[option] = *mediaID
			mediaIDs = append(mediaIDs, *mediaID)
		}
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error while iterating configurator rows: %w", rows.Err())
	}
	rows.Close()

	if len(mediaIDs) > 0 {
		media, err := r.loadMedia(ctx, mediaIDs)
		if err != nil {
			return nil, err
		}
		for option, id := range mediaFor {
			option.Media = media[id]
		}
	}

	return set, nil
}
