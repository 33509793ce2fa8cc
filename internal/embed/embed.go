// Package embed generates vector embeddings for network members. The vectors
// are stored for later use and are not consulted by the search ranking.
package embed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/huvtsp/alumni/internal/jobs"
	"github.com/huvtsp/alumni/pkg/models"
)

var ErrNoText = errors.New("member has no skills or additional info to embed")

// Client produces embeddings; *ollama.Client satisfies it.
type Client interface {
	Embed(ctx context.Context, model string, texts ...string) ([][]float32, error)
}

// Store is the slice of the repository the embedder reads and writes.
type Store interface {
	GetMemberByID(ctx context.Context, id int64) (*models.NetworkMember, error)
	ListAllMembers(ctx context.Context) ([]*models.NetworkMember, error)
	UpsertMemberEmbedding(ctx context.Context, e *models.MemberEmbedding) error
}

type Embedder struct {
	client Client
	store  Store
	model  string
	logger *slog.Logger
}

func New(client Client, store Store, model string, logger *slog.Logger) (*Embedder, error) {
	if client == nil || store == nil {
		return nil, errors.New("embed: client and store are required")
	}
	if model == "" {
		return nil, errors.New("embed: model is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Embedder{client: client, store: store, model: model, logger: logger}, nil
}

// Text is the document embedded for m: skills and additional info joined by
// a space.
func Text(m *models.NetworkMember) string {
	var parts []string
	if m.Skills != nil {
		parts = append(parts, *m.Skills)
	}
	if m.AdditionalInfo != nil {
		parts = append(parts, *m.AdditionalInfo)
	}
	return strings.TrimSpace(strings.Join(parts, " "))
}

// EmbedMember embeds a single member and stores the vector.
func (e *Embedder) EmbedMember(ctx context.Context, memberID int64) error {
	m, err := e.store.GetMemberByID(ctx, memberID)
	if err != nil {
		return fmt.Errorf("get member %d: %w", memberID, err)
	}
	if m == nil {
		return fmt.Errorf("member %d not found", memberID)
	}
	return e.embed(ctx, m)
}

func (e *Embedder) embed(ctx context.Context, m *models.NetworkMember) error {
	text := Text(m)
	if text == "" {
		return ErrNoText
	}

	vecs, err := e.client.Embed(ctx, e.model, text)
	if err != nil {
		return fmt.Errorf("embed member %d: %w", m.ID, err)
	}
	if len(vecs) != 1 {
		return fmt.Errorf("embed member %d: expected 1 vector, got %d", m.ID, len(vecs))
	}

	if err := e.store.UpsertMemberEmbedding(ctx, &models.MemberEmbedding{
		MemberID: m.ID,
		Model:    e.model,
		Vector:   vecs[0],
	}); err != nil {
		return fmt.Errorf("store embedding for member %d: %w", m.ID, err)
	}
	e.logger.Debug("member embedded", slog.Int64("member_id", m.ID), slog.Int("dims", len(vecs[0])))
	return nil
}

// Summary reports the outcome of EmbedAll.
type Summary struct {
	Embedded int `json:"embedded"`
	Skipped  int `json:"skipped"`
	Failed   int `json:"failed"`
}

// EmbedAll walks every member. Members without text are skipped and
// individual failures are logged so one bad record does not stop the run.
func (e *Embedder) EmbedAll(ctx context.Context) (Summary, error) {
	var sum Summary
	members, err := e.store.ListAllMembers(ctx)
	if err != nil {
		return sum, fmt.Errorf("list members: %w", err)
	}

	for _, m := range members {
		if err := ctx.Err(); err != nil {
			return sum, err
		}
		err := e.embed(ctx, m)
		switch {
		case err == nil:
			sum.Embedded++
		case errors.Is(err, ErrNoText):
			sum.Skipped++
		default:
			sum.Failed++
			e.logger.Warn("embedding failed", slog.Int64("member_id", m.ID), slog.String("error", err.Error()))
		}
	}
	e.logger.Info("embedding run finished", slog.Int("embedded", sum.Embedded), slog.Int("skipped", sum.Skipped), slog.Int("failed", sum.Failed))
	return sum, nil
}

// Payload is the body of a member.embed job.
type Payload struct {
	MemberID int64 `json:"member_id"`
}

// Handler adapts EmbedMember to the worker pool. Malformed payloads, missing
// members and members without text are not retried.
func (e *Embedder) Handler() jobs.Handler {
	return func(ctx context.Context, j *models.BackgroundJob) error {
		var p Payload
		if err := json.Unmarshal(j.Payload, &p); err != nil {
			return jobs.Permanent(fmt.Errorf("decode payload: %w", err))
		}
		if p.MemberID <= 0 {
			return jobs.Permanent(errors.New("payload missing member_id"))
		}

		m, err := e.store.GetMemberByID(ctx, p.MemberID)
		if err != nil {
			return fmt.Errorf("get member %d: %w", p.MemberID, err)
		}
		if m == nil {
			return jobs.Permanent(fmt.Errorf("member %d not found", p.MemberID))
		}

		err = e.embed(ctx, m)
		if errors.Is(err, ErrNoText) {
			return jobs.Permanent(err)
		}
		return err
	}
}
