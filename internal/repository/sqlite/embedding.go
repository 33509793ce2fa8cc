package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/huvtsp/alumni/pkg/models"
)

func (r *SQLiteRepo) UpsertMemberEmbedding(ctx context.Context, e *models.MemberEmbedding) error {
	if e == nil {
		return fmt.Errorf("embedding is nil")
	}
	vec, err := json.Marshal(e.Vector)
	if err != nil {
		return fmt.Errorf("marshal vector: %w", err)
	}
	e.Updated = now()
	_, err = r.conn.Exec(ctx, `INSERT INTO member_embeddings (member_id, model, vector, updated) VALUES (?, ?, ?, ?)
		ON CONFLICT(member_id) DO UPDATE SET model = excluded.model, vector = excluded.vector, updated = excluded.updated`,
		e.MemberID, e.Model, string(vec), e.Updated)
	if err != nil {
		return classify(err, "embedding")
	}
	return nil
}

func (r *SQLiteRepo) GetMemberEmbedding(ctx context.Context, memberID int64) (*models.MemberEmbedding, error) {
	var e models.MemberEmbedding
	var vec string
	err := r.conn.QueryRow(ctx, `SELECT member_id, model, vector, updated FROM member_embeddings WHERE member_id = ?`, memberID).
		Scan(&e.MemberID, &e.Model, &vec, &e.Updated)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get embedding: %w", err)
	}
	if err := json.Unmarshal([]byte(vec), &e.Vector); err != nil {
		return nil, fmt.Errorf("decode vector: %w", err)
	}
	return &e, nil
}
