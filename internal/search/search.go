// Package search answers directory queries. It reads one snapshot per call,
// runs it through the matching core and caches the response.
package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/huvtsp/alumni/internal/apperr"
	"github.com/huvtsp/alumni/internal/cache"
	"github.com/huvtsp/alumni/internal/match"
	"github.com/huvtsp/alumni/internal/snapshot"
	"github.com/huvtsp/alumni/pkg/models"
	"github.com/huvtsp/alumni/pkg/repository"
)

// SearchTypeSmart tags unified searches in the tracking table.
const SearchTypeSmart = "smart"

// ErrQueryRequired is returned for a blank query.
var ErrQueryRequired = apperr.InvalidInput(`Query parameter "q" is required`, nil)

// Request is one unified search. Intent, when set, overrides the classified
// intent. Skills, Locations and Companies are merged into the processed query.
type Request struct {
	Query     string              `json:"query"`
	Members   match.MemberFilter  `json:"members"`
	Projects  match.ProjectFilter `json:"projects"`
	Intent    string              `json:"intent,omitempty"`
	Skills    []string            `json:"skills,omitempty"`
	Locations []string            `json:"locations,omitempty"`
	Companies []string            `json:"companies,omitempty"`
}

type Response struct {
	Results        []match.ScoredResult `json:"results"`
	Query          string               `json:"query"`
	ProcessedQuery match.ProcessedQuery `json:"processed_query"`
	Suggestions    []string             `json:"suggestions"`
	Total          int                  `json:"total"`
	Cached         bool                 `json:"-"`
}

type Service struct {
	store     *snapshot.Store
	agg       *match.Aggregator
	processor *match.Processor
	cache     cache.Cache
	cacheTTL  time.Duration
	events    repository.SearchEventRepo
	logger    *slog.Logger
}

// Option configures a Service.
type Option func(*Service) error

// WithCache stores responses in c for ttl.
func WithCache(c cache.Cache, ttl time.Duration) Option {
	return func(s *Service) error {
		s.cache = c
		s.cacheTTL = ttl
		return nil
	}
}

// WithEvents records every unified search in repo.
func WithEvents(repo repository.SearchEventRepo) Option {
	return func(s *Service) error {
		s.events = repo
		return nil
	}
}

// WithProcessor replaces the default query processor.
func WithProcessor(p *match.Processor) Option {
	return func(s *Service) error {
		if p == nil {
			return errors.New("processor is nil")
		}
		s.processor = p
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

func NewService(store *snapshot.Store, agg *match.Aggregator, opts ...Option) (*Service, error) {
	if store == nil || agg == nil {
		return nil, errors.New("search: store and aggregator are required")
	}
	s := &Service{
		store:     store,
		agg:       agg,
		processor: match.NewProcessor(),
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Search runs a unified search over every entity type the intent selects.
// Total counts the hits before the result cap.
func (s *Service) Search(ctx context.Context, req Request) (*Response, error) {
	if strings.TrimSpace(req.Query) == "" {
		return nil, ErrQueryRequired
	}
	var override *match.Intent
	if req.Intent != "" {
		in, err := match.ParseIntent(req.Intent)
		if err != nil {
			return nil, apperr.InvalidInput(fmt.Sprintf("unknown intent %q", req.Intent), err)
		}
		override = &in
	}

	snap, err := s.store.Get(ctx)
	if err != nil {
		return nil, apperr.Internal("search snapshot unavailable", err)
	}

	key := s.key(snap.ID, req)
	if resp, ok := s.cached(ctx, key); ok {
		s.track(ctx, req, resp.Total)
		return resp, nil
	}

	pq := s.processor.Process(req.Query)
	if len(req.Skills) > 0 || len(req.Locations) > 0 || len(req.Companies) > 0 {
		pq = pq.Merge(req.Skills, req.Locations, req.Companies)
	}
	if override != nil {
		pq.Intent = *override
	}

	results, total := s.agg.Search(pq, snap.Collections(), match.Filters{Members: req.Members, Projects: req.Projects})
	resp := &Response{
		Results:        results,
		Query:          req.Query,
		ProcessedQuery: pq,
		Suggestions:    match.Suggest(req.Query),
		Total:          total,
	}

	s.remember(ctx, key, resp)
	s.track(ctx, req, total)
	return resp, nil
}

// Members scores every member against query. The list is sorted and uncapped.
func (s *Service) Members(ctx context.Context, query string, f match.MemberFilter) ([]match.ScoredResult, error) {
	snap, pq, err := s.prepare(ctx, query)
	if err != nil {
		return nil, err
	}
	return s.agg.Members(pq, snap.Members, f), nil
}

// Projects scores every project against query. The list is sorted and uncapped.
func (s *Service) Projects(ctx context.Context, query string, f match.ProjectFilter) ([]match.ScoredResult, error) {
	snap, pq, err := s.prepare(ctx, query)
	if err != nil {
		return nil, err
	}
	return s.agg.Projects(pq, snap.Projects, f), nil
}

// Organizations scores every organization against query. The list is sorted and uncapped.
func (s *Service) Organizations(ctx context.Context, query string) ([]match.ScoredResult, error) {
	snap, pq, err := s.prepare(ctx, query)
	if err != nil {
		return nil, err
	}
	return s.agg.Organizations(pq, snap.Organizations), nil
}

// Suggestions returns example queries related to query.
func (s *Service) Suggestions(query string) []string {
	return match.Suggest(query)
}

// Process exposes the query processor.
func (s *Service) Process(query string) match.ProcessedQuery {
	return s.processor.Process(query)
}

// Invalidate marks the snapshot stale and drops cached responses.
func (s *Service) Invalidate(ctx context.Context) {
	s.store.MarkStale()
	if s.cache == nil {
		return
	}
	if err := s.cache.Clear(ctx); err != nil {
		s.logger.Warn("search cache clear failed", "error", err)
	}
}

func (s *Service) prepare(ctx context.Context, query string) (*snapshot.Snapshot, match.ProcessedQuery, error) {
	if strings.TrimSpace(query) == "" {
		return nil, match.ProcessedQuery{}, ErrQueryRequired
	}
	snap, err := s.store.Get(ctx)
	if err != nil {
		return nil, match.ProcessedQuery{}, apperr.Internal("search snapshot unavailable", err)
	}
	return snap, s.processor.Process(query), nil
}

func (s *Service) key(snapshotID string, req Request) string {
	b, err := json.Marshal(req)
	if err != nil {
		return ""
	}
	return cache.Key("search", snapshotID, string(b))
}

// cachedResult keeps Data as raw JSON so a cached response encodes exactly
// like the original.
type cachedResult struct {
	Type    match.EntityType `json:"type"`
	Data    json.RawMessage  `json:"data"`
	Score   float64          `json:"relevance_score"`
	Reasons []string         `json:"match_reasons"`
}

type cachedResponse struct {
	Results        []cachedResult       `json:"results"`
	Query          string               `json:"query"`
	ProcessedQuery match.ProcessedQuery `json:"processed_query"`
	Suggestions    []string             `json:"suggestions"`
	Total          int                  `json:"total"`
}

func (s *Service) cached(ctx context.Context, key string) (*Response, bool) {
	if s.cache == nil || key == "" {
		return nil, false
	}
	b, err := s.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, cache.ErrNotFound) {
			s.logger.Warn("search cache read failed", "error", err)
		}
		return nil, false
	}

	var c cachedResponse
	if err := json.Unmarshal(b, &c); err != nil {
		s.logger.Warn("search cache entry unreadable", "error", err)
		return nil, false
	}
	resp := &Response{
		Results:        make([]match.ScoredResult, 0, len(c.Results)),
		Query:          c.Query,
		ProcessedQuery: c.ProcessedQuery,
		Suggestions:    c.Suggestions,
		Total:          c.Total,
		Cached:         true,
	}
	for _, r := range c.Results {
		resp.Results = append(resp.Results, match.ScoredResult{Type: r.Type, Data: r.Data, Score: r.Score, Reasons: r.Reasons})
	}
	return resp, true
}

func (s *Service) remember(ctx context.Context, key string, resp *Response) {
	if s.cache == nil || key == "" {
		return
	}
	b, err := json.Marshal(resp)
	if err != nil {
		s.logger.Warn("search response not cacheable", "error", err)
		return
	}
	if err := s.cache.Set(ctx, key, b, s.cacheTTL); err != nil {
		s.logger.Warn("search cache write failed", "error", err)
	}
}

func (s *Service) track(ctx context.Context, req Request, results int) {
	if s.events == nil {
		return
	}
	filters := map[string]string{}
	for k, v := range map[string]string{
		"region":       req.Members.Region,
		"session":      req.Members.Session,
		"pod":          req.Members.Pod,
		"project_type": req.Projects.Type,
		"stage":        req.Projects.Stage,
		"intent":       req.Intent,
	} {
		if v != "" {
			filters[k] = v
		}
	}
	e := &models.SearchEvent{SearchType: SearchTypeSmart, Query: req.Query, Filters: filters, ResultsCount: results}
	if err := s.events.CreateSearchEvent(ctx, e); err != nil {
		s.logger.Warn("search event not recorded", "error", err)
	}
}
