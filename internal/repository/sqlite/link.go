package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/huvtsp/alumni/pkg/models"
)

func (r *SQLiteRepo) CreateSocialLink(ctx context.Context, l *models.SocialLink) (int64, error) {
	if l == nil {
		return 0, fmt.Errorf("social link is nil")
	}
	res, err := r.conn.Exec(ctx, `INSERT INTO social_links (member_id, title, link, description, platform) VALUES (?, ?, ?, ?, ?)`,
		l.MemberID, orNull(l.Title), l.Link, l.Description, orNull(l.Platform))
	if err != nil {
		return 0, classify(err, "social link")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	l.ID = id
	return id, nil
}

func (r *SQLiteRepo) ListSocialLinks(ctx context.Context, memberID int64) ([]models.SocialLink, error) {
	rows, err := r.conn.QueryRows(ctx, `SELECT id, member_id, title, link, description, platform FROM social_links WHERE member_id = ? ORDER BY id`, memberID)
	if err != nil {
		return nil, fmt.Errorf("list social links: %w", err)
	}
	defer rows.Close()

	out := []models.SocialLink{}
	for rows.Next() {
		var l models.SocialLink
		var title, platform sql.NullString
		if err := rows.Scan(&l.ID, &l.MemberID, &title, &l.Link, &l.Description, &platform); err != nil {
			return nil, fmt.Errorf("list social links: %w", err)
		}
		l.Title = nullable(title)
		l.Platform = nullable(platform)
		out = append(out, l)
	}
	return out, rows.Err()
}

func (r *SQLiteRepo) CreateProjectLink(ctx context.Context, l *models.ProjectLink) (int64, error) {
	if l == nil {
		return 0, fmt.Errorf("project link is nil")
	}
	res, err := r.conn.Exec(ctx, `INSERT INTO project_links (project_id, title, link, platform) VALUES (?, ?, ?, ?)`,
		l.ProjectID, orNull(l.Title), l.Link, orNull(l.Platform))
	if err != nil {
		return 0, classify(err, "project link")
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	l.ID = id
	return id, nil
}

func (r *SQLiteRepo) ListProjectLinks(ctx context.Context, projectID int64) ([]models.ProjectLink, error) {
	rows, err := r.conn.QueryRows(ctx, `SELECT id, project_id, title, link, platform FROM project_links WHERE project_id = ? ORDER BY id`, projectID)
	if err != nil {
		return nil, fmt.Errorf("list project links: %w", err)
	}
	defer rows.Close()

	out := []models.ProjectLink{}
	for rows.Next() {
		var l models.ProjectLink
		var title, platform sql.NullString
		if err := rows.Scan(&l.ID, &l.ProjectID, &title, &l.Link, &platform); err != nil {
			return nil, fmt.Errorf("list project links: %w", err)
		}
		l.Title = nullable(title)
		l.Platform = nullable(platform)
		out = append(out, l)
	}
	return out, rows.Err()
}
