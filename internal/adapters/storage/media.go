package postgres

import (
	"context"
	"fmt"
	"path"
	"strconv"
	"strings"

	"github.com/athebyme/gomarket-platform/storefront-service/internal/domain/models"
)

// thumbnailPath follows the "<dir>/thumbnail/<name>_<size>[@2x].<ext>" layout.
func thumbnailPath(file, size string, retina bool) string {
	dir, base := path.Split(file)
	ext := path.Ext(base)
	name := strings.TrimSuffix(base, ext)
	suffix := ""
	if retina {
		suffix = "@2x"
	}
	return dir + "thumbnail/" + name + "_" + size + suffix + ext
}

func parseSize(size string) (int, int, bool) {
	parts := strings.SplitN(strings.ToLower(strings.TrimSpace(size)), "x", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}
	w, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, false
	}
	h, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, false
	}
	return w, h, true
}

func (r *Storage) thumbnails(file string, sizes []string) []models.Thumbnail {
	thumbnails := make([]models.Thumbnail, 0, len(sizes))
	for _, size := range sizes {
		w, h, ok := parseSize(size)
		if !ok {
			continue
		}
		retina := r.mediaURL(thumbnailPath(file, size, true))
		thumbnails = append(thumbnails, models.Thumbnail{
			Source:       r.mediaURL(thumbnailPath(file, size, false)),
			RetinaSource: &retina,
			MaxWidth:     w,
			MaxHeight:    h,
		})
	}
	return thumbnails
}

// loadMedia hydrates media rows by id.
func (r *Storage) loadMedia(ctx context.Context, ids []int) (map[int]*models.Media, error) {
	result := make(map[int]*models.Media, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	rows, err := r.getExecutor(ctx).Query(ctx, `
		SELECT id, name, description, type, extension, path, width, height, thumbnail_sizes, attributes
		FROM media
		WHERE id = ANY($1)
	`, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to query media: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			m     models.Media
			file  string
			sizes []string
			attrs []byte
		)
		if err := rows.Scan(&m.ID, &m.Name, &m.Description, &m.Type, &m.Extension, &file,
			&m.Width, &m.Height, &sizes, &attrs); err != nil {
			return nil, fmt.Errorf("failed to scan media row: %w", err)
		}
		m.File = r.mediaURL(file)
		if m.Type == models.MediaTypeImage {
			m.Thumbnails = r.thumbnails(file, sizes)
		}
		if err := decodeAttribute(attrs, "media", &m.Attributes); err != nil {
			return nil, err
		}
		result[m.ID] = &m
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error while iterating media rows: %w", rows.Err())
	}

	return result, nil
}
