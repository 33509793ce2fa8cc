package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/huvtsp/alumni/pkg/models"
)

const experienceSelect = `SELECT e.id, e.member_id, e.organization_id, o.name, COALESCE(o.type, ''), e.title, e.experience_type,
	e.start_date, e.end_date, e.is_current, e.description, e.created
	FROM experiences e JOIN organizations o ON o.id = e.organization_id`

func scanExperience(s rowScanner) (*models.Experience, error) {
	var e models.Experience
	var typ string
	var title, start, end, desc sql.NullString
	if err := s.Scan(&e.ID, &e.MemberID, &e.OrganizationID, &e.OrganizationName, &e.OrganizationType,
		&title, &typ, &start, &end, &e.IsCurrent, &desc, &e.Created); err != nil {
		return nil, err
	}
	e.ExperienceType = models.ExperienceType(typ)
	e.Title = nullable(title)
	e.StartDate = nullable(start)
	e.EndDate = nullable(end)
	e.Description = nullable(desc)
	return &e, nil
}

func (r *SQLiteRepo) listExperiences(ctx context.Context, q string, args ...any) ([]models.Experience, error) {
	rows, err := r.conn.QueryRows(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Experience{}
	for rows.Next() {
		e, err := scanExperience(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *e)
	}
	return out, rows.Err()
}

func (r *SQLiteRepo) CreateExperience(ctx context.Context, e *models.Experience) (int64, error) {
	if e == nil {
		return 0, fmt.Errorf("experience is nil")
	}
	if e.ExperienceType == "" {
		e.ExperienceType = models.ExperienceOther
	}

	ts := now()
	res, err := r.conn.Exec(ctx, `INSERT INTO experiences (member_id, organization_id, title, experience_type, start_date, end_date, is_current, description, created) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.MemberID, e.OrganizationID, orNull(e.Title), string(e.ExperienceType), orNull(e.StartDate), orNull(e.EndDate),
		e.IsCurrent, orNull(e.Description), ts)
	if err != nil {
		return 0, classify(err, "experience")
	}
	e.Created = ts

	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	e.ID = id
	return id, nil
}

// ListExperiencesByMember returns the member's experiences newest first.
// Experiences without a start date sort last.
func (r *SQLiteRepo) ListExperiencesByMember(ctx context.Context, memberID int64) ([]models.Experience, error) {
	out, err := r.listExperiences(ctx, experienceSelect+` WHERE e.member_id = ? ORDER BY e.start_date DESC, e.id DESC`, memberID)
	if err != nil {
		return nil, fmt.Errorf("list experiences: %w", err)
	}
	return out, nil
}

func (r *SQLiteRepo) ListCurrentExperiences(ctx context.Context) ([]models.Experience, error) {
	out, err := r.listExperiences(ctx, experienceSelect+` WHERE e.is_current = 1 ORDER BY e.start_date DESC, e.id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list current experiences: %w", err)
	}
	return out, nil
}

func (r *SQLiteRepo) CountExperiencesByType(ctx context.Context) ([]models.GroupCount, error) {
	rows, err := r.conn.QueryRows(ctx, `SELECT experience_type, COUNT(id) FROM experiences GROUP BY experience_type ORDER BY experience_type`)
	if err != nil {
		return nil, fmt.Errorf("count experiences by type: %w", err)
	}
	return scanGroups(rows)
}
