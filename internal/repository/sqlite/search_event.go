package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/huvtsp/alumni/pkg/models"
)

const topQueriesLimit = 10

func (r *SQLiteRepo) CreateSearchEvent(ctx context.Context, e *models.SearchEvent) error {
	if e == nil {
		return fmt.Errorf("search event is nil")
	}
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Created == 0 {
		e.Created = now()
	}

	var filters any
	if len(e.Filters) > 0 {
		b, err := json.Marshal(e.Filters)
		if err != nil {
			return fmt.Errorf("marshal filters: %w", err)
		}
		filters = string(b)
	}

	_, err := r.conn.Exec(ctx, `INSERT INTO search_events (id, search_type, query, filters, results_count, created) VALUES (?, ?, ?, ?, ?, ?)`,
		e.ID, e.SearchType, e.Query, filters, e.ResultsCount, e.Created)
	if err != nil {
		return classify(err, "search event")
	}
	return nil
}

// SearchAnalytics summarizes the search events recorded at or after since.
func (r *SQLiteRepo) SearchAnalytics(ctx context.Context, since time.Time) (*models.SearchAnalytics, error) {
	from := since.UTC().UnixMilli()
	a := &models.SearchAnalytics{Since: from, ByType: []models.GroupCount{}, TopQueries: []models.QueryCount{}}

	var avg sql.NullFloat64
	if err := r.conn.QueryRow(ctx, `SELECT COUNT(1), AVG(results_count) FROM search_events WHERE created >= ?`, from).Scan(&a.TotalSearches, &avg); err != nil {
		return nil, fmt.Errorf("search totals: %w", err)
	}
	a.AverageResults = avg.Float64

	rows, err := r.conn.QueryRows(ctx, `SELECT search_type, COUNT(id) FROM search_events WHERE created >= ? GROUP BY search_type ORDER BY COUNT(id) DESC, search_type`, from)
	if err != nil {
		return nil, fmt.Errorf("searches by type: %w", err)
	}
	if a.ByType, err = scanGroups(rows); err != nil {
		return nil, fmt.Errorf("searches by type: %w", err)
	}

	rows, err = r.conn.QueryRows(ctx, `SELECT query, COUNT(id) FROM search_events WHERE created >= ? GROUP BY query ORDER BY COUNT(id) DESC, query LIMIT ?`, from, topQueriesLimit)
	if err != nil {
		return nil, fmt.Errorf("top queries: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var q models.QueryCount
		if err := rows.Scan(&q.Query, &q.Count); err != nil {
			return nil, fmt.Errorf("top queries: %w", err)
		}
		a.TopQueries = append(a.TopQueries, q)
	}
	return a, rows.Err()
}
