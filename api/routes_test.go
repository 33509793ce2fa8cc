package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/huvtsp/alumni/api"
	dbfs "github.com/huvtsp/alumni/db"
	"github.com/huvtsp/alumni/internal/cache"
	"github.com/huvtsp/alumni/internal/config"
	dbpkg "github.com/huvtsp/alumni/internal/db"
	"github.com/huvtsp/alumni/internal/jobs"
	"github.com/huvtsp/alumni/internal/match"
	"github.com/huvtsp/alumni/internal/repository/sqlite"
	"github.com/huvtsp/alumni/internal/schema"
	"github.com/huvtsp/alumni/internal/search"
	"github.com/huvtsp/alumni/internal/snapshot"
)

const sitePassword = "letmein"

type testServer struct {
	router http.Handler
	repo   *sqlite.SQLiteRepo
	token  string
}

// newTestServer wires the full router over a seeded in-memory database and
// signs in through the password gate.
func newTestServer(t *testing.T, name string) *testServer {
	t.Helper()
	ctx := context.Background()

	d, err := dbpkg.New(ctx, "file:"+name+"?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { d.Close() })
	if err := dbpkg.Migrate(ctx, d, dbfs.Migrations, dbfs.SeedFiles); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	repo := sqlite.New(d, nil)

	agg, err := match.NewAggregator(match.WithPoolSize(2))
	if err != nil {
		t.Fatalf("aggregator: %v", err)
	}
	t.Cleanup(agg.Release)

	svc, err := search.NewService(snapshot.NewStore(repo, nil), agg,
		search.WithEvents(repo),
		search.WithCache(cache.NewMemory(cache.DefaultOptions()), time.Minute),
	)
	if err != nil {
		t.Fatalf("search service: %v", err)
	}
	schemas, err := schema.NewDefault()
	if err != nil {
		t.Fatalf("schemas: %v", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(sitePassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	cfg := &config.Config{JWTSecret: "route-secret", TokenDuration: time.Hour, SitePasswordHash: string(hash)}

	deps := api.NewDeps(repo, svc, schemas)
	deps.Jobs = repo
	ts := &testServer{router: api.SetupRoutes(cfg, "test", "now", deps), repo: repo}

	res := ts.do(t, http.MethodPost, "/v1/auth/validate-password", map[string]string{"password": sitePassword})
	if res.Code != http.StatusOK {
		t.Fatalf("validate-password: expected 200 got %d body=%s", res.Code, res.Body.String())
	}
	var pr struct {
		Token string `json:"token"`
	}
	decode(t, res, &pr)
	ts.token = pr.Token
	return ts
}

func (ts *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if ts.token != "" {
		req.Header.Set("Authorization", "Bearer "+ts.token)
	}
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), v); err != nil {
		t.Fatalf("decode %s: %v", w.Body.String(), err)
	}
}

func expectStatus(t *testing.T, w *httptest.ResponseRecorder, want int) {
	t.Helper()
	if w.Code != want {
		t.Fatalf("expected status %d got %d body=%s", want, w.Code, w.Body.String())
	}
}

type searchBody struct {
	Results []struct {
		Type  string          `json:"type"`
		Data  json.RawMessage `json:"data"`
		Score float64         `json:"relevance_score"`
	} `json:"results"`
	ProcessedQuery struct {
		Intent string `json:"intent"`
	} `json:"processed_query"`
	Suggestions []string `json:"suggestions"`
	Total       int      `json:"total"`
}

func firstName(t *testing.T, raw json.RawMessage) string {
	t.Helper()
	var m struct {
		FirstName string `json:"first_name"`
		Name      string `json:"name"`
	}
	if err := json.Unmarshal(raw, &m); err != nil {
		t.Fatalf("decode hit: %v", err)
	}
	if m.FirstName != "" {
		return m.FirstName
	}
	return m.Name
}

func TestRoutes_AuthGate(t *testing.T) {
	ts := newTestServer(t, "routes_auth")

	ts.token = ""
	expectStatus(t, ts.do(t, http.MethodGet, "/v1/members", nil), http.StatusUnauthorized)
	expectStatus(t, ts.do(t, http.MethodGet, "/health", nil), http.StatusOK)

	res := ts.do(t, http.MethodPost, "/v1/auth/validate-password", map[string]string{"password": "wrong"})
	expectStatus(t, res, http.StatusUnauthorized)
	if !strings.Contains(res.Body.String(), `"valid":false`) {
		t.Fatalf("unexpected body: %s", res.Body.String())
	}
}

func TestRoutes_Search(t *testing.T) {
	ts := newTestServer(t, "routes_search")

	res := ts.do(t, http.MethodGet, "/v1/search?q="+url.QueryEscape("Anyone in Boston rn?"), nil)
	expectStatus(t, res, http.StatusOK)
	var body searchBody
	decode(t, res, &body)
	if body.ProcessedQuery.Intent != "find_person" {
		t.Fatalf("unexpected intent: %q", body.ProcessedQuery.Intent)
	}
	if len(body.Results) == 0 || body.Results[0].Type != "member" || firstName(t, body.Results[0].Data) != "Sarah" {
		t.Fatalf("expected Sarah first, got %s", res.Body.String())
	}
	if body.Results[0].Score < 0.899 || body.Results[0].Score > 0.901 {
		t.Fatalf("expected score 0.9, got %v", body.Results[0].Score)
	}
	if body.Suggestions == nil {
		t.Fatalf("expected suggestions array")
	}

	// identical request is served from the cache
	res = ts.do(t, http.MethodGet, "/v1/search?q="+url.QueryEscape("Anyone in Boston rn?"), nil)
	expectStatus(t, res, http.StatusOK)
	if res.Header().Get("X-Cache") != "HIT" {
		t.Fatalf("expected cached response")
	}

	res = ts.do(t, http.MethodGet, "/v1/search", nil)
	expectStatus(t, res, http.StatusBadRequest)
	if !strings.Contains(res.Body.String(), `Query parameter \"q\" is required`) {
		t.Fatalf("unexpected error body: %s", res.Body.String())
	}
	expectStatus(t, ts.do(t, http.MethodGet, "/v1/search?q=x&intent=bogus", nil), http.StatusBadRequest)

	res = ts.do(t, http.MethodGet, "/v1/search/organizations?q="+url.QueryEscape("fintech nexus"), nil)
	expectStatus(t, res, http.StatusOK)
	var typed searchBody
	decode(t, res, &typed)
	if len(typed.Results) == 0 || firstName(t, typed.Results[0].Data) != "FinTech Nexus" {
		t.Fatalf("unexpected organization results: %s", res.Body.String())
	}

	res = ts.do(t, http.MethodGet, "/v1/search/projects?q=startup&projectType=NP", nil)
	expectStatus(t, res, http.StatusOK)
	decode(t, res, &typed)
	for _, r := range typed.Results {
		if strings.Contains(string(r.Data), `"type":"ST"`) {
			t.Fatalf("project type filter ignored: %s", res.Body.String())
		}
	}

	res = ts.do(t, http.MethodGet, "/v1/search/suggestions", nil)
	expectStatus(t, res, http.StatusOK)
	if strings.TrimSpace(res.Body.String()) != `{"suggestions":[]}` {
		t.Fatalf("unexpected suggestions body: %s", res.Body.String())
	}
}

func TestRoutes_MemberWritesRefreshSearch(t *testing.T) {
	ts := newTestServer(t, "routes_members")
	query := "/v1/search?q=" + url.QueryEscape("Anyone in Boston rn?")

	var before searchBody
	decode(t, ts.do(t, http.MethodGet, query, nil), &before)

	expectStatus(t, ts.do(t, http.MethodPost, "/v1/members", map[string]any{"first_name": "Priya"}), http.StatusBadRequest)

	res := ts.do(t, http.MethodPost, "/v1/members", map[string]any{
		"first_name": "Priya",
		"last_name":  "Patel",
		"email":      "priya@example.com",
		"location":   "Boston, MA",
		"skills":     "Go, Kubernetes",
	})
	expectStatus(t, res, http.StatusCreated)
	var created struct {
		ID   int64  `json:"id"`
		Slug string `json:"slug"`
	}
	decode(t, res, &created)
	if created.Slug != "priya-patel" {
		t.Fatalf("unexpected slug %q", created.Slug)
	}

	res = ts.do(t, http.MethodPost, "/v1/members", map[string]any{
		"first_name": "Other", "last_name": "Priya", "email": "priya@example.com",
	})
	expectStatus(t, res, http.StatusConflict)

	var after searchBody
	decode(t, ts.do(t, http.MethodGet, query, nil), &after)
	if after.Total != before.Total+1 {
		t.Fatalf("expected the new member to be searchable: before=%d after=%d", before.Total, after.Total)
	}

	job, err := ts.repo.FetchNext(context.Background())
	if err != nil || job == nil {
		t.Fatalf("expected a queued embedding job, got %v %v", job, err)
	}
	if job.Type != jobs.TypeMemberEmbed || !strings.Contains(string(job.Payload), `"member_id":`) {
		t.Fatalf("unexpected job: %+v", job)
	}

	res = ts.do(t, http.MethodPut, "/v1/members/priya-patel", map[string]any{
		"first_name": "Priya", "last_name": "Patel", "email": "priya@example.com", "region": "EU",
	})
	expectStatus(t, res, http.StatusOK)

	res = ts.do(t, http.MethodPost, "/v1/members/priya-patel/social-links", map[string]any{"link": "https://github.com/priya", "platform": "GitHub"})
	expectStatus(t, res, http.StatusCreated)
	res = ts.do(t, http.MethodGet, "/v1/members/priya-patel/social-links", nil)
	expectStatus(t, res, http.StatusOK)
	if !strings.Contains(res.Body.String(), "github.com/priya") {
		t.Fatalf("social link missing: %s", res.Body.String())
	}

	expectStatus(t, ts.do(t, http.MethodDelete, "/v1/members/priya-patel", nil), http.StatusNoContent)
	expectStatus(t, ts.do(t, http.MethodGet, "/v1/members/priya-patel", nil), http.StatusNotFound)
}

func TestRoutes_DirectoryListings(t *testing.T) {
	ts := newTestServer(t, "routes_listings")

	res := ts.do(t, http.MethodGet, "/v1/members?region=EU", nil)
	expectStatus(t, res, http.StatusOK)
	var list struct {
		Total int64             `json:"total"`
		Items []json.RawMessage `json:"items"`
	}
	decode(t, res, &list)
	if list.Total != 1 || len(list.Items) != 1 || firstName(t, list.Items[0]) != "Deniz" {
		t.Fatalf("unexpected member list: %s", res.Body.String())
	}

	res = ts.do(t, http.MethodGet, "/v1/members/by-region", nil)
	expectStatus(t, res, http.StatusOK)
	if !strings.Contains(res.Body.String(), `"name":"North America"`) {
		t.Fatalf("unexpected by-region: %s", res.Body.String())
	}

	res = ts.do(t, http.MethodGet, "/v1/members/deniz-kaya/experiences", nil)
	expectStatus(t, res, http.StatusOK)
	if !strings.Contains(res.Body.String(), "Rove Miles") {
		t.Fatalf("experience missing organization name: %s", res.Body.String())
	}

	res = ts.do(t, http.MethodGet, "/v1/organizations/rove-miles/members", nil)
	expectStatus(t, res, http.StatusOK)
	if !strings.Contains(res.Body.String(), "deniz-kaya") {
		t.Fatalf("unexpected affiliated members: %s", res.Body.String())
	}

	res = ts.do(t, http.MethodPost, "/v1/organizations", map[string]any{"name": "Orbit Labs", "type": "CO"})
	expectStatus(t, res, http.StatusCreated)
	expectStatus(t, ts.do(t, http.MethodPost, "/v1/organizations", map[string]any{"name": "Bad", "type": "XX"}), http.StatusBadRequest)

	res = ts.do(t, http.MethodPost, "/v1/experiences", map[string]any{"network_member": 1, "organization": 9999})
	expectStatus(t, res, http.StatusBadRequest)

	res = ts.do(t, http.MethodPost, "/v1/projects", map[string]any{"title": "Orbit Tracker", "type": "ST", "stage": "L", "founders": []int{1, 2}})
	expectStatus(t, res, http.StatusCreated)
	if !strings.Contains(res.Body.String(), `"slug":"orbit-tracker"`) || strings.Count(res.Body.String(), `"first_name"`) != 2 {
		t.Fatalf("unexpected project: %s", res.Body.String())
	}
	expectStatus(t, ts.do(t, http.MethodPost, "/v1/projects/orbit-tracker/links", map[string]any{"link": "https://orbit.example"}), http.StatusCreated)

	res = ts.do(t, http.MethodGet, "/v1/projects?stage=L", nil)
	expectStatus(t, res, http.StatusOK)
	if !strings.Contains(res.Body.String(), "Orbit Tracker") || strings.Contains(res.Body.String(), "Founder Dashboard") {
		t.Fatalf("unexpected project list: %s", res.Body.String())
	}

	res = ts.do(t, http.MethodPost, "/v1/resources", map[string]any{"title": "Cap table guide", "link": "https://example.com/cap", "platform": "Notion"})
	expectStatus(t, res, http.StatusCreated)
	res = ts.do(t, http.MethodGet, "/v1/resources?platform=Notion", nil)
	expectStatus(t, res, http.StatusOK)
	if !strings.Contains(res.Body.String(), "cap-table-guide") || strings.Contains(res.Body.String(), "pitch-deck-template") {
		t.Fatalf("unexpected resources: %s", res.Body.String())
	}

	for _, path := range []string{
		"/v1/members/by-session", "/v1/organizations/by-type", "/v1/experiences/current",
		"/v1/experiences/by-type", "/v1/projects/by-stage", "/v1/projects/by-type", "/v1/resources/by-platform",
	} {
		expectStatus(t, ts.do(t, http.MethodGet, path, nil), http.StatusOK)
	}

	res = ts.do(t, http.MethodGet, "/v1/stats/overview", nil)
	expectStatus(t, res, http.StatusOK)
	var ov struct {
		TotalMembers  int64 `json:"total_members"`
		TotalProjects int64 `json:"total_projects"`
	}
	decode(t, res, &ov)
	if ov.TotalMembers != 5 || ov.TotalProjects != 3 {
		t.Fatalf("unexpected overview: %s", res.Body.String())
	}

	res = ts.do(t, http.MethodGet, "/v1/stats/search?q=boston", nil)
	expectStatus(t, res, http.StatusOK)
	if !strings.Contains(res.Body.String(), "sarah-johnson") {
		t.Fatalf("global search missed Sarah: %s", res.Body.String())
	}
	expectStatus(t, ts.do(t, http.MethodGet, "/v1/stats/search", nil), http.StatusBadRequest)
}

func TestRoutes_SearchTracking(t *testing.T) {
	ts := newTestServer(t, "routes_tracking")

	expectStatus(t, ts.do(t, http.MethodGet, "/v1/search?q=designer", nil), http.StatusOK)

	res := ts.do(t, http.MethodPost, "/v1/search-tracking", map[string]any{
		"search_type": "project", "query": "fintech", "filters": map[string]string{"stage": "MVP"}, "results_count": 2,
	})
	expectStatus(t, res, http.StatusCreated)
	expectStatus(t, ts.do(t, http.MethodPost, "/v1/search-tracking", map[string]any{"query": "x"}), http.StatusBadRequest)

	res = ts.do(t, http.MethodGet, "/v1/search-tracking/analytics?days=7", nil)
	expectStatus(t, res, http.StatusOK)
	var a struct {
		TotalSearches int64 `json:"total_searches"`
		ByType        []struct {
			Value string `json:"value"`
		} `json:"by_type"`
	}
	decode(t, res, &a)
	if a.TotalSearches != 2 || len(a.ByType) != 2 {
		t.Fatalf("unexpected analytics: %s", res.Body.String())
	}

	expectStatus(t, ts.do(t, http.MethodGet, "/v1/search-tracking/analytics?days=abc", nil), http.StatusBadRequest)
}
