package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/huvtsp/alumni/pkg/models"
	"github.com/huvtsp/alumni/pkg/repository"
)

const memberColumns = `id, first_name, last_name, email, slug, region, location, session, pod, internship, skills, additional_info, updated`

var memberOrdering = map[string]string{
	"first_name": "first_name",
	"last_name":  "last_name",
	"region":     "region",
	"session":    "session",
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMember(s rowScanner) (*models.NetworkMember, error) {
	var m models.NetworkMember
	var region string
	var location, skills, info sql.NullString
	if err := s.Scan(&m.ID, &m.FirstName, &m.LastName, &m.Email, &m.Slug, &region, &location,
		&m.Session, &m.Pod, &m.Internship, &skills, &info, &m.Updated); err != nil {
		return nil, err
	}
	m.Region = models.Region(region)
	m.Location = nullable(location)
	m.Skills = nullable(skills)
	m.AdditionalInfo = nullable(info)
	return &m, nil
}

func collectMembers(rows *sql.Rows) ([]*models.NetworkMember, error) {
	defer rows.Close()
	var out []*models.NetworkMember
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *SQLiteRepo) CreateMember(ctx context.Context, m *models.NetworkMember) (int64, error) {
	if m == nil {
		return 0, fmt.Errorf("member is nil")
	}
	if m.Slug == "" {
		m.Slug = models.Slugify(m.FirstName + " " + m.LastName)
	}
	if m.Region == "" {
		m.Region = models.RegionNorthAmerica
	}

	ts := now()
	res, err := r.conn.Exec(ctx, `INSERT INTO network_members (first_name, last_name, email, slug, region, location, session, pod, internship, skills, additional_info, created, updated) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.FirstName, m.LastName, m.Email, m.Slug, string(m.Region), orNull(m.Location), m.Session, m.Pod, m.Internship,
		orNull(m.Skills), orNull(m.AdditionalInfo), ts, ts)
	if err != nil {
		return 0, classify(err, "member")
	}
	m.Updated = ts

	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	m.ID = id
	return id, nil
}

func (r *SQLiteRepo) GetMemberByID(ctx context.Context, id int64) (*models.NetworkMember, error) {
	m, err := scanMember(r.conn.QueryRow(ctx, `SELECT `+memberColumns+` FROM network_members WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return m, err
}

func (r *SQLiteRepo) GetMemberBySlug(ctx context.Context, slug string) (*models.NetworkMember, error) {
	m, err := scanMember(r.conn.QueryRow(ctx, `SELECT `+memberColumns+` FROM network_members WHERE slug = ?`, slug))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return m, err
}

func (r *SQLiteRepo) UpdateMember(ctx context.Context, m *models.NetworkMember) error {
	if m == nil {
		return fmt.Errorf("member is nil")
	}

	ts := now()
	_, err := r.conn.Exec(ctx, `UPDATE network_members SET first_name = ?, last_name = ?, email = ?, slug = ?, region = ?, location = ?, session = ?, pod = ?, internship = ?, skills = ?, additional_info = ?, updated = ? WHERE id = ?`,
		m.FirstName, m.LastName, m.Email, m.Slug, string(m.Region), orNull(m.Location), m.Session, m.Pod, m.Internship,
		orNull(m.Skills), orNull(m.AdditionalInfo), ts, m.ID)
	if err != nil {
		return classify(err, "member")
	}
	m.Updated = ts
	return nil
}

func (r *SQLiteRepo) DeleteMember(ctx context.Context, id int64) error {
	_, err := r.conn.Exec(ctx, `DELETE FROM network_members WHERE id = ?`, id)
	return err
}

func memberWhere(f repository.MemberListFilter) *where {
	w := &where{}
	if f.Region != "" {
		w.add("region = ?", f.Region)
	}
	if f.Session != "" {
		w.add("session = ?", f.Session)
	}
	if f.Pod != "" {
		w.add("pod = ?", f.Pod)
	}
	if f.Internship != "" {
		w.add("internship = ?", f.Internship)
	}
	if f.Search != "" {
		p := like(f.Search)
		w.add(`(LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ? OR LOWER(email) LIKE ? OR LOWER(COALESCE(skills, '')) LIKE ? OR LOWER(COALESCE(location, '')) LIKE ?)`,
			p, p, p, p, p)
	}
	return w
}

func (r *SQLiteRepo) ListMembers(ctx context.Context, f repository.MemberListFilter) ([]models.NetworkMember, error) {
	w := memberWhere(f)
	limit, pargs := page(f.Limit, f.Offset)
	q := `SELECT ` + memberColumns + ` FROM network_members` + w.String() +
		orderBy(f.Ordering, memberOrdering, "first_name, last_name") + limit

	rows, err := r.conn.QueryRows(ctx, q, append(w.args, pargs...)...)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	ms, err := collectMembers(rows)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	out := make([]models.NetworkMember, 0, len(ms))
	for _, m := range ms {
		out = append(out, *m)
	}
	return out, nil
}

func (r *SQLiteRepo) CountMembers(ctx context.Context, f repository.MemberListFilter) (int64, error) {
	w := memberWhere(f)
	var n int64
	if err := r.conn.QueryRow(ctx, `SELECT COUNT(1) FROM network_members`+w.String(), w.args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count members: %w", err)
	}
	return n, nil
}

// ListAllMembers returns every member in insertion order.
func (r *SQLiteRepo) ListAllMembers(ctx context.Context) ([]*models.NetworkMember, error) {
	rows, err := r.conn.QueryRows(ctx, `SELECT `+memberColumns+` FROM network_members ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list all members: %w", err)
	}
	return collectMembers(rows)
}

func (r *SQLiteRepo) CountMembersByRegion(ctx context.Context) ([]models.GroupCount, error) {
	rows, err := r.conn.QueryRows(ctx, `SELECT region, COUNT(id) FROM network_members GROUP BY region ORDER BY region`)
	if err != nil {
		return nil, fmt.Errorf("count members by region: %w", err)
	}
	return scanGroups(rows)
}

func (r *SQLiteRepo) CountMembersBySession(ctx context.Context) ([]models.GroupCount, error) {
	rows, err := r.conn.QueryRows(ctx, `SELECT session, COUNT(id) FROM network_members GROUP BY session ORDER BY session`)
	if err != nil {
		return nil, fmt.Errorf("count members by session: %w", err)
	}
	return scanGroups(rows)
}
