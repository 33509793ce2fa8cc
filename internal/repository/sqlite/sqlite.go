package sqlite

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/huvtsp/alumni/internal/apperr"
	"github.com/huvtsp/alumni/internal/db"
	"github.com/huvtsp/alumni/pkg/models"
	"github.com/huvtsp/alumni/pkg/repository"
)

// SQLiteRepo implements repository interfaces using the internal DB wrapper.
type SQLiteRepo struct {
	conn   *db.DB
	logger *slog.Logger
}

// Ensure SQLiteRepo implements the public interfaces.
var _ repository.MemberRepo = (*SQLiteRepo)(nil)
var _ repository.OrganizationRepo = (*SQLiteRepo)(nil)
var _ repository.ExperienceRepo = (*SQLiteRepo)(nil)
var _ repository.ProjectRepo = (*SQLiteRepo)(nil)
var _ repository.LinkRepo = (*SQLiteRepo)(nil)
var _ repository.ResourceRepo = (*SQLiteRepo)(nil)
var _ repository.SearchEventRepo = (*SQLiteRepo)(nil)
var _ repository.EmbeddingRepo = (*SQLiteRepo)(nil)
var _ repository.StatsRepo = (*SQLiteRepo)(nil)
var _ repository.JobQueue = (*SQLiteRepo)(nil)
var _ repository.Directory = (*SQLiteRepo)(nil)

func New(conn *db.DB, logger *slog.Logger) *SQLiteRepo {
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(os.Stdout, nil))
	}
	return &SQLiteRepo{conn: conn, logger: logger}
}

func now() int64 {
	return time.Now().UTC().UnixMilli()
}

// classify turns constraint violations into typed errors the API can map.
func classify(err error, what string) error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "UNIQUE constraint failed"):
		return apperr.Conflict(what+" already exists", err)
	case strings.Contains(msg, "FOREIGN KEY constraint failed"):
		return apperr.InvalidInput(what+" references a missing record", err)
	case strings.Contains(msg, "CHECK constraint failed"):
		return apperr.InvalidInput(what+" has an invalid value", err)
	}
	return fmt.Errorf("%s: %w", what, err)
}

func nullable(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

func orNull(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

// orderBy resolves a "field" or "-field" ordering against an allow list,
// falling back to def. The id column always breaks ties.
func orderBy(ordering string, allowed map[string]string, def string) string {
	dir := "ASC"
	field := ordering
	if strings.HasPrefix(field, "-") {
		dir = "DESC"
		field = field[1:]
	}
	col, ok := allowed[field]
	if !ok {
		return " ORDER BY " + def + ", id"
	}
	return " ORDER BY " + col + " " + dir + ", id"
}

func page(limit, offset int) (string, []any) {
	if limit <= 0 {
		return "", nil
	}
	if offset < 0 {
		offset = 0
	}
	return " LIMIT ? OFFSET ?", []any{limit, offset}
}

func like(s string) string {
	return "%" + strings.ToLower(s) + "%"
}

// where joins conditions with AND.
type where struct {
	conds []string
	args  []any
}

func (w *where) add(cond string, args ...any) {
	w.conds = append(w.conds, cond)
	w.args = append(w.args, args...)
}

func (w *where) String() string {
	if len(w.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.conds, " AND ")
}

func scanGroups(rows *sql.Rows) ([]models.GroupCount, error) {
	defer rows.Close()
	out := []models.GroupCount{}
	for rows.Next() {
		var g models.GroupCount
		var v sql.NullString
		if err := rows.Scan(&v, &g.Count); err != nil {
			return nil, err
		}
		g.Value = v.String
		out = append(out, g)
	}
	return out, rows.Err()
}

func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}
