package sqlite

import (
	"context"
	"fmt"

	"github.com/huvtsp/alumni/pkg/models"
)

// Overview gathers directory totals and the main groupings.
func (r *SQLiteRepo) Overview(ctx context.Context) (*models.Overview, error) {
	o := &models.Overview{}
	totals := []struct {
		table string
		dst   *int64
	}{
		{"network_members", &o.TotalMembers},
		{"organizations", &o.TotalOrganizations},
		{"projects", &o.TotalProjects},
		{"experiences", &o.TotalExperiences},
		{"resources", &o.TotalResources},
	}
	for _, t := range totals {
		if err := r.conn.QueryRow(ctx, `SELECT COUNT(1) FROM `+t.table).Scan(t.dst); err != nil {
			return nil, fmt.Errorf("count %s: %w", t.table, err)
		}
	}

	var err error
	if o.MembersByRegion, err = r.CountMembersByRegion(ctx); err != nil {
		return nil, err
	}
	if o.OrganizationsByType, err = r.CountOrganizationsByType(ctx); err != nil {
		return nil, err
	}
	if o.ProjectsByStage, err = r.CountProjectsByStage(ctx); err != nil {
		return nil, err
	}
	return o, nil
}
