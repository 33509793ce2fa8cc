package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/huvtsp/alumni/pkg/models"
	"github.com/huvtsp/alumni/pkg/repository"
)

const organizationColumns = `id, name, slug, type, description, website`

var organizationOrdering = map[string]string{
	"name": "name",
	"type": "type",
}

func scanOrganization(s rowScanner) (*models.Organization, error) {
	var o models.Organization
	var typ, desc, site sql.NullString
	if err := s.Scan(&o.ID, &o.Name, &o.Slug, &typ, &desc, &site); err != nil {
		return nil, err
	}
	o.Type = models.OrganizationType(typ.String)
	o.Description = nullable(desc)
	o.Website = nullable(site)
	return &o, nil
}

func (r *SQLiteRepo) CreateOrganization(ctx context.Context, o *models.Organization) (int64, error) {
	if o == nil {
		return 0, fmt.Errorf("organization is nil")
	}
	if o.Slug == "" {
		o.Slug = models.Slugify(o.Name)
	}

	var typ any
	if o.Type != "" {
		typ = string(o.Type)
	}
	res, err := r.conn.Exec(ctx, `INSERT INTO organizations (name, slug, type, description, website, created) VALUES (?, ?, ?, ?, ?, ?)`,
		o.Name, o.Slug, typ, orNull(o.Description), orNull(o.Website), now())
	if err != nil {
		return 0, classify(err, "organization")
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	o.ID = id
	return id, nil
}

func (r *SQLiteRepo) GetOrganizationByID(ctx context.Context, id int64) (*models.Organization, error) {
	o, err := scanOrganization(r.conn.QueryRow(ctx, `SELECT `+organizationColumns+` FROM organizations WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return o, err
}

func (r *SQLiteRepo) GetOrganizationBySlug(ctx context.Context, slug string) (*models.Organization, error) {
	o, err := scanOrganization(r.conn.QueryRow(ctx, `SELECT `+organizationColumns+` FROM organizations WHERE slug = ?`, slug))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return o, err
}

func (r *SQLiteRepo) DeleteOrganization(ctx context.Context, id int64) error {
	_, err := r.conn.Exec(ctx, `DELETE FROM organizations WHERE id = ?`, id)
	return err
}

func (r *SQLiteRepo) listOrganizations(ctx context.Context, q string, args ...any) ([]*models.Organization, error) {
	rows, err := r.conn.QueryRows(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*models.Organization
	for rows.Next() {
		o, err := scanOrganization(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (r *SQLiteRepo) ListOrganizations(ctx context.Context, f repository.OrganizationListFilter) ([]models.Organization, error) {
	w := &where{}
	if f.Type != "" {
		w.add("type = ?", f.Type)
	}
	if f.Search != "" {
		p := like(f.Search)
		w.add(`(LOWER(name) LIKE ? OR LOWER(COALESCE(description, '')) LIKE ?)`, p, p)
	}
	limit, pargs := page(f.Limit, f.Offset)
	q := `SELECT ` + organizationColumns + ` FROM organizations` + w.String() +
		orderBy(f.Ordering, organizationOrdering, "name") + limit

	orgs, err := r.listOrganizations(ctx, q, append(w.args, pargs...)...)
	if err != nil {
		return nil, fmt.Errorf("list organizations: %w", err)
	}
	out := make([]models.Organization, 0, len(orgs))
	for _, o := range orgs {
		out = append(out, *o)
	}
	return out, nil
}

// ListAllOrganizations returns every organization in insertion order.
func (r *SQLiteRepo) ListAllOrganizations(ctx context.Context) ([]*models.Organization, error) {
	out, err := r.listOrganizations(ctx, `SELECT `+organizationColumns+` FROM organizations ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list all organizations: %w", err)
	}
	return out, nil
}

func (r *SQLiteRepo) CountOrganizationsByType(ctx context.Context) ([]models.GroupCount, error) {
	rows, err := r.conn.QueryRows(ctx, `SELECT COALESCE(type, ''), COUNT(id) FROM organizations GROUP BY type ORDER BY type`)
	if err != nil {
		return nil, fmt.Errorf("count organizations by type: %w", err)
	}
	return scanGroups(rows)
}

// ListAffiliatedMembers returns the distinct members holding any experience
// at the organization.
func (r *SQLiteRepo) ListAffiliatedMembers(ctx context.Context, organizationID int64) ([]models.NetworkMember, error) {
	q := `SELECT m.id, m.first_name, m.last_name, m.email, m.slug, m.region, m.location, m.session, m.pod, m.internship, m.skills, m.additional_info, m.updated
		FROM network_members m
		WHERE m.id IN (SELECT member_id FROM experiences WHERE organization_id = ?)
		ORDER BY m.first_name, m.last_name, m.id`
	rows, err := r.conn.QueryRows(ctx, q, organizationID)
	if err != nil {
		return nil, fmt.Errorf("list affiliated members: %w", err)
	}
	ms, err := collectMembers(rows)
	if err != nil {
		return nil, fmt.Errorf("list affiliated members: %w", err)
	}
	out := make([]models.NetworkMember, 0, len(ms))
	for _, m := range ms {
		out = append(out, *m)
	}
	return out, nil
}
