package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/huvtsp/alumni/internal/apperr"
	"github.com/huvtsp/alumni/internal/match"
	"github.com/huvtsp/alumni/internal/schema"
	"github.com/huvtsp/alumni/internal/search"
	"github.com/huvtsp/alumni/pkg/models"
	"github.com/huvtsp/alumni/pkg/repository"
)

const defaultAnalyticsDays = 30

type SearchHandler struct {
	svc     *search.Service
	events  repository.SearchEventRepo
	schemas *schema.Loader
}

func NewSearchHandler(svc *search.Service, events repository.SearchEventRepo, schemas *schema.Loader) *SearchHandler {
	return &SearchHandler{svc: svc, events: events, schemas: schemas}
}

type typedSearchResponse struct {
	Query   string               `json:"query"`
	Results []match.ScoredResult `json:"results"`
	Total   int                  `json:"total"`
}

func memberFilter(r *http.Request) match.MemberFilter {
	q := r.URL.Query()
	return match.MemberFilter{Region: q.Get("region"), Session: q.Get("session"), Pod: q.Get("pod")}
}

func projectFilter(r *http.Request) match.ProjectFilter {
	q := r.URL.Query()
	return match.ProjectFilter{Type: q.Get("projectType"), Stage: q.Get("projectStage")}
}

// Search is the unified endpoint: every entity type the query intent selects,
// capped and ranked together.
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	req := search.Request{
		Query:     q.Get("q"),
		Members:   memberFilter(r),
		Projects:  projectFilter(r),
		Intent:    q.Get("intent"),
		Skills:    splitList(q.Get("skills")),
		Locations: splitList(q.Get("locations")),
		Companies: splitList(q.Get("companies")),
	}
	resp, err := h.svc.Search(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if resp.Cached {
		w.Header().Set("X-Cache", "HIT")
	}
	writeJSON(w, resp, http.StatusOK)
}

func (h *SearchHandler) writeTyped(w http.ResponseWriter, r *http.Request, results []match.ScoredResult, err error) {
	if err != nil {
		writeError(w, r, err)
		return
	}
	if results == nil {
		results = []match.ScoredResult{}
	}
	writeJSON(w, typedSearchResponse{Query: r.URL.Query().Get("q"), Results: results, Total: len(results)}, http.StatusOK)
}

func (h *SearchHandler) Members(w http.ResponseWriter, r *http.Request) {
	results, err := h.svc.Members(r.Context(), r.URL.Query().Get("q"), memberFilter(r))
	h.writeTyped(w, r, results, err)
}

func (h *SearchHandler) Projects(w http.ResponseWriter, r *http.Request) {
	results, err := h.svc.Projects(r.Context(), r.URL.Query().Get("q"), projectFilter(r))
	h.writeTyped(w, r, results, err)
}

func (h *SearchHandler) Organizations(w http.ResponseWriter, r *http.Request) {
	results, err := h.svc.Organizations(r.Context(), r.URL.Query().Get("q"))
	h.writeTyped(w, r, results, err)
}

// Suggestions never fails; an empty query yields an empty list.
func (h *SearchHandler) Suggestions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string][]string{"suggestions": h.svc.Suggestions(r.URL.Query().Get("q"))}, http.StatusOK)
}

type trackRequest struct {
	SearchType   string            `json:"search_type"`
	Query        string            `json:"query"`
	Filters      map[string]string `json:"filters"`
	ResultsCount int               `json:"results_count"`
}

// Track records a search performed by a client.
func (h *SearchHandler) Track(w http.ResponseWriter, r *http.Request) {
	var in trackRequest
	if err := decodeValid(r, h.schemas, schema.SearchEvent, &in); err != nil {
		writeError(w, r, err)
		return
	}
	e := &models.SearchEvent{SearchType: in.SearchType, Query: in.Query, Filters: in.Filters, ResultsCount: in.ResultsCount}
	if err := h.events.CreateSearchEvent(r.Context(), e); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, map[string]string{"id": e.ID}, http.StatusCreated)
}

// Analytics summarizes searches of the last ?days=N days (default 30).
func (h *SearchHandler) Analytics(w http.ResponseWriter, r *http.Request) {
	days := defaultAnalyticsDays
	if s := r.URL.Query().Get("days"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v <= 0 || v > 3650 {
			writeError(w, r, apperr.InvalidInput("days must be a positive integer", err))
			return
		}
		days = v
	}

	since := time.Now().Add(-time.Duration(days) * 24 * time.Hour)
	a, err := h.events.SearchAnalytics(r.Context(), since)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, a, http.StatusOK)
}
