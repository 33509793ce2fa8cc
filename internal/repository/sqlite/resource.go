package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/huvtsp/alumni/pkg/models"
)

func (r *SQLiteRepo) CreateResource(ctx context.Context, res *models.Resource) (int64, error) {
	if res == nil {
		return 0, fmt.Errorf("resource is nil")
	}
	if res.Slug == "" && res.Title != nil {
		res.Slug = models.Slugify(*res.Title)
	}
	if res.Slug == "" {
		return 0, fmt.Errorf("resource needs a title or slug")
	}

	out, err := r.conn.Exec(ctx, `INSERT INTO resources (title, slug, link, platform, description) VALUES (?, ?, ?, ?, ?)`,
		orNull(res.Title), res.Slug, res.Link, orNull(res.Platform), res.Description)
	if err != nil {
		return 0, classify(err, "resource")
	}
	id, err := out.LastInsertId()
	if err != nil {
		return 0, err
	}
	res.ID = id
	return id, nil
}

// ListResources returns resources ordered by title. An empty platform lists all.
func (r *SQLiteRepo) ListResources(ctx context.Context, platform string) ([]models.Resource, error) {
	w := &where{}
	if platform != "" {
		w.add("platform = ?", platform)
	}
	rows, err := r.conn.QueryRows(ctx, `SELECT id, title, slug, link, platform, description FROM resources`+w.String()+` ORDER BY title, id`, w.args...)
	if err != nil {
		return nil, fmt.Errorf("list resources: %w", err)
	}
	defer rows.Close()

	out := []models.Resource{}
	for rows.Next() {
		var res models.Resource
		var title, plat sql.NullString
		if err := rows.Scan(&res.ID, &title, &res.Slug, &res.Link, &plat, &res.Description); err != nil {
			return nil, fmt.Errorf("list resources: %w", err)
		}
		res.Title = nullable(title)
		res.Platform = nullable(plat)
		out = append(out, res)
	}
	return out, rows.Err()
}

func (r *SQLiteRepo) CountResourcesByPlatform(ctx context.Context) ([]models.GroupCount, error) {
	rows, err := r.conn.QueryRows(ctx, `SELECT COALESCE(platform, ''), COUNT(id) FROM resources GROUP BY platform ORDER BY platform`)
	if err != nil {
		return nil, fmt.Errorf("count resources by platform: %w", err)
	}
	return scanGroups(rows)
}
