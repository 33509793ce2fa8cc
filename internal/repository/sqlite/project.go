package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/huvtsp/alumni/pkg/models"
	"github.com/huvtsp/alumni/pkg/repository"
)

const projectColumns = `id, title, slug, type, stage, what_are_they_looking_for, additional_info`

var projectOrdering = map[string]string{
	"title": "title",
	"type":  "type",
	"stage": "stage",
}

func scanProject(s rowScanner) (*models.Project, error) {
	var p models.Project
	var typ, stage string
	var looking, info sql.NullString
	if err := s.Scan(&p.ID, &p.Title, &p.Slug, &typ, &stage, &looking, &info); err != nil {
		return nil, err
	}
	p.Type = models.ProjectType(typ)
	p.Stage = models.ProjectStage(stage)
	p.WhatAreTheyLookingFor = nullable(looking)
	p.AdditionalInfo = nullable(info)
	p.Founders = []models.Founder{}
	return &p, nil
}

// CreateProject inserts the project and its founder links in one transaction.
func (r *SQLiteRepo) CreateProject(ctx context.Context, p *models.Project, founderIDs []int64) (int64, error) {
	if p == nil {
		return 0, fmt.Errorf("project is nil")
	}
	if p.Slug == "" {
		p.Slug = models.Slugify(p.Title)
	}
	if p.Type == "" {
		p.Type = models.ProjectStartup
	}
	if p.Stage == "" {
		p.Stage = models.StageIdea
	}

	var id int64
	err := r.conn.InTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `INSERT INTO projects (title, slug, type, stage, what_are_they_looking_for, additional_info, created) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			p.Title, p.Slug, string(p.Type), string(p.Stage), orNull(p.WhatAreTheyLookingFor), orNull(p.AdditionalInfo), now())
		if err != nil {
			return classify(err, "project")
		}
		if id, err = res.LastInsertId(); err != nil {
			return err
		}
		for _, fid := range founderIDs {
			if _, err := tx.ExecContext(ctx, `INSERT OR IGNORE INTO project_founders (project_id, member_id) VALUES (?, ?)`, id, fid); err != nil {
				return classify(err, "project founder")
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	p.ID = id
	return id, r.attachFounders(ctx, []*models.Project{p})
}

func (r *SQLiteRepo) GetProjectBySlug(ctx context.Context, slug string) (*models.Project, error) {
	p, err := scanProject(r.conn.QueryRow(ctx, `SELECT `+projectColumns+` FROM projects WHERE slug = ?`, slug))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err := r.attachFounders(ctx, []*models.Project{p}); err != nil {
		return nil, err
	}
	return p, nil
}

func (r *SQLiteRepo) DeleteProject(ctx context.Context, id int64) error {
	_, err := r.conn.Exec(ctx, `DELETE FROM projects WHERE id = ?`, id)
	return err
}

func (r *SQLiteRepo) listProjects(ctx context.Context, q string, args ...any) ([]*models.Project, error) {
	rows, err := r.conn.QueryRows(ctx, q, args...)
	if err != nil {
		return nil, err
	}

	var out []*models.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		out = append(out, p)
	}
	err = rows.Err()
	rows.Close()
	if err != nil {
		return nil, err
	}

	if err := r.attachFounders(ctx, out); err != nil {
		return nil, err
	}
	return out, nil
}

// attachFounders loads the founders of every project with a single query.
func (r *SQLiteRepo) attachFounders(ctx context.Context, ps []*models.Project) error {
	if len(ps) == 0 {
		return nil
	}
	byID := make(map[int64]*models.Project, len(ps))
	args := make([]any, 0, len(ps))
	for _, p := range ps {
		byID[p.ID] = p
		args = append(args, p.ID)
	}

	q := `SELECT pf.project_id, m.id, m.first_name, m.last_name, m.slug
		FROM project_founders pf JOIN network_members m ON m.id = pf.member_id
		WHERE pf.project_id IN (` + placeholders(len(args)) + `)
		ORDER BY pf.project_id, m.id`
	rows, err := r.conn.QueryRows(ctx, q, args...)
	if err != nil {
		return fmt.Errorf("load founders: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var pid int64
		var f models.Founder
		if err := rows.Scan(&pid, &f.ID, &f.FirstName, &f.LastName, &f.Slug); err != nil {
			return fmt.Errorf("load founders: %w", err)
		}
		if p, ok := byID[pid]; ok {
			p.Founders = append(p.Founders, f)
		}
	}
	return rows.Err()
}

func (r *SQLiteRepo) ListProjects(ctx context.Context, f repository.ProjectListFilter) ([]models.Project, error) {
	w := &where{}
	if f.Type != "" {
		w.add("type = ?", f.Type)
	}
	if f.Stage != "" {
		w.add("stage = ?", f.Stage)
	}
	if f.Search != "" {
		p := like(f.Search)
		w.add(`(LOWER(title) LIKE ? OR LOWER(COALESCE(what_are_they_looking_for, '')) LIKE ? OR LOWER(COALESCE(additional_info, '')) LIKE ?)`, p, p, p)
	}
	limit, pargs := page(f.Limit, f.Offset)
	q := `SELECT ` + projectColumns + ` FROM projects` + w.String() +
		orderBy(f.Ordering, projectOrdering, "title") + limit

	ps, err := r.listProjects(ctx, q, append(w.args, pargs...)...)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	out := make([]models.Project, 0, len(ps))
	for _, p := range ps {
		out = append(out, *p)
	}
	return out, nil
}

// ListAllProjects returns every project with founders, in insertion order.
func (r *SQLiteRepo) ListAllProjects(ctx context.Context) ([]*models.Project, error) {
	out, err := r.listProjects(ctx, `SELECT `+projectColumns+` FROM projects ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list all projects: %w", err)
	}
	return out, nil
}

func (r *SQLiteRepo) CountProjectsByStage(ctx context.Context) ([]models.GroupCount, error) {
	rows, err := r.conn.QueryRows(ctx, `SELECT stage, COUNT(id) FROM projects GROUP BY stage ORDER BY stage`)
	if err != nil {
		return nil, fmt.Errorf("count projects by stage: %w", err)
	}
	return scanGroups(rows)
}

func (r *SQLiteRepo) CountProjectsByType(ctx context.Context) ([]models.GroupCount, error) {
	rows, err := r.conn.QueryRows(ctx, `SELECT type, COUNT(id) FROM projects GROUP BY type ORDER BY type`)
	if err != nil {
		return nil, fmt.Errorf("count projects by type: %w", err)
	}
	return scanGroups(rows)
}
