package match

import (
	"encoding/json"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/huvtsp/alumni/pkg/models"
)

func newAggregator(t *testing.T, opts ...Option) *Aggregator {
	t.Helper()
	a, err := NewAggregator(opts...)
	require.NoError(t, err)
	t.Cleanup(a.Release)
	return a
}

func designers(n int) []*models.NetworkMember {
	out := make([]*models.NetworkMember, n)
	for i := range out {
		skills := "Cooking"
		switch i % 3 {
		case 0:
			skills = "Graphic design and branding"
		case 1:
			skills = "Logo work"
		}
		out[i] = &models.NetworkMember{
			ID:        int64(i + 1),
			FirstName: fmt.Sprintf("First%d", i),
			LastName:  "Member",
			Region:    models.RegionNorthAmerica,
			Skills:    ptr(skills),
		}
	}
	return out
}

func assertDescending(t *testing.T, rs []ScoredResult) {
	t.Helper()
	for i := 1; i < len(rs); i++ {
		assert.GreaterOrEqual(t, rs[i-1].Score, rs[i].Score, "position %d", i)
	}
}

func TestNewAggregator(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		a := newAggregator(t)
		assert.Equal(t, DefaultResultCap, a.ResultCap())
	})

	t.Run("with nil logger falls back to default", func(t *testing.T) {
		a := newAggregator(t, WithLogger(nil))
		assert.NotNil(t, a.logger)
	})

	t.Run("invalid pool size", func(t *testing.T) {
		_, err := NewAggregator(WithPoolSize(0))
		assert.ErrorIs(t, err, ErrInvalidPoolSize)
	})
}

func TestSearchCapsAndCountsTotal(t *testing.T) {
	a := newAggregator(t)
	q := NewProcessor().Process("logo")
	members := designers(45)

	results, total := a.Search(q, Collections{Members: members}, Filters{})

	assert.Equal(t, 30, total)
	require.Len(t, results, DefaultResultCap)
	assertDescending(t, results)
	for _, r := range results {
		assert.Equal(t, EntityMember, r.Type)
	}
}

func TestSearchStableTies(t *testing.T) {
	a := newAggregator(t, WithResultCap(100))
	q := NewProcessor().Process("logo")
	members := []*models.NetworkMember{
		{ID: 1, FirstName: "A", Skills: ptr("logo")},
		{ID: 2, FirstName: "B", Skills: ptr("logo")},
		{ID: 3, FirstName: "C", Skills: ptr("logo branding")},
		{ID: 4, FirstName: "D", Skills: ptr("logo")},
	}

	results, _ := a.Search(q, Collections{Members: members}, Filters{})

	var ids []int64
	for _, r := range results {
		ids = append(ids, r.Data.(MemberHit).ID)
	}
	assert.Equal(t, []int64{3, 1, 2, 4}, ids)
}

func TestSearchParallelMatchesInline(t *testing.T) {
	inline := newAggregator(t, WithParallelThreshold(0), WithResultCap(1000))
	parallel := newAggregator(t, WithParallelThreshold(1), WithPoolSize(4), WithResultCap(1000))
	q := NewProcessor().Process("logo")
	members := designers(300)

	want, wantTotal := inline.Search(q, Collections{Members: members}, Filters{})
	got, gotTotal := parallel.Search(q, Collections{Members: members}, Filters{})

	assert.Equal(t, wantTotal, gotTotal)
	assert.Equal(t, want, got)
}

func TestReleaseDuringSearch(t *testing.T) {
	inline := newAggregator(t, WithParallelThreshold(0), WithResultCap(1000))
	parallel := newAggregator(t, WithParallelThreshold(1), WithPoolSize(2), WithResultCap(1000))
	q := NewProcessor().Process("logo")
	members := designers(200)
	want, _ := inline.Search(q, Collections{Members: members}, Filters{})

	var wg sync.WaitGroup
	results := make([][]ScoredResult, 8)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i], _ = parallel.Search(q, Collections{Members: members}, Filters{})
		}()
	}
	parallel.Release()
	wg.Wait()
	parallel.Release()

	for i, got := range results {
		assert.Equal(t, want, got, "search %d", i)
	}
	after, _ := parallel.Search(q, Collections{Members: members}, Filters{})
	assert.Equal(t, want, after)
}

func TestSearchGeneralRunsAllScorers(t *testing.T) {
	a := newAggregator(t)
	q := NewProcessor().Process("hello")
	require.Equal(t, IntentGeneral, q.Intent)

	c := Collections{
		Members:       []*models.NetworkMember{{ID: 1, FirstName: "Hello", LastName: "Kitty"}},
		Projects:      []*models.Project{{ID: 2, Title: "Hello World", Type: models.ProjectStartup}},
		Organizations: []*models.Organization{{ID: 3, Name: "Hello Labs"}, {ID: 4, Name: "Other"}},
	}

	results, total := a.Search(q, c, Filters{})

	assert.Equal(t, 3, total)
	var kinds []EntityType
	for _, r := range results {
		kinds = append(kinds, r.Type)
	}
	assert.Equal(t, []EntityType{EntityMember, EntityProject, EntityOrganization}, kinds)
}

func TestSearchDispatchByIntent(t *testing.T) {
	a := newAggregator(t)
	c := Collections{
		Members:       []*models.NetworkMember{{ID: 1, FirstName: "Ada", Skills: ptr("startup founder")}},
		Projects:      []*models.Project{{ID: 2, Title: "Rocket", Type: models.ProjectStartup}},
		Organizations: []*models.Organization{{ID: 3, Name: "Startup Hub"}},
	}

	q := NewProcessor().Process("startup")
	require.Equal(t, IntentFindProject, q.Intent)
	results, _ := a.Search(q, c, Filters{})
	require.Len(t, results, 1)
	assert.Equal(t, EntityProject, results[0].Type)

	q.Intent = IntentFindPerson
	results, _ = a.Search(q, c, Filters{})
	require.Len(t, results, 1)
	assert.Equal(t, EntityMember, results[0].Type)

	q.Intent = IntentFindOrganization
	results, _ = a.Search(q, c, Filters{})
	require.Len(t, results, 1)
	assert.Equal(t, EntityOrganization, results[0].Type)
}

func TestSearchEmpty(t *testing.T) {
	a := newAggregator(t)
	results, total := a.Search(NewProcessor().Process("zzz"), Collections{}, Filters{})

	assert.Zero(t, total)
	assert.NotNil(t, results)
	assert.Empty(t, results)
}

func TestMembersFilter(t *testing.T) {
	a := newAggregator(t)
	q := NewProcessor().Process("logo")
	members := []*models.NetworkMember{
		{ID: 1, Region: models.RegionNorthAmerica, Session: "S1", Pod: "Stripe", Skills: ptr("logo")},
		{ID: 2, Region: models.RegionEurope, Session: "S1", Pod: "Stripe", Skills: ptr("logo")},
		{ID: 3, Region: models.RegionNorthAmerica, Session: "S2", Pod: "Zoom", Skills: ptr("logo")},
		nil,
	}

	got := a.Members(q, members, MemberFilter{Region: "NA"})
	assert.Len(t, got, 2)

	got = a.Members(q, members, MemberFilter{Region: "NA", Pod: "Zoom"})
	require.Len(t, got, 1)
	assert.Equal(t, int64(3), got[0].Data.(MemberHit).ID)

	got = a.Members(q, members, MemberFilter{Session: "S1", Pod: "stripe"})
	assert.Empty(t, got)
}

func TestProjectsFilter(t *testing.T) {
	a := newAggregator(t)
	q := NewProcessor().Process("startup nonprofit")
	projects := []*models.Project{
		{ID: 1, Title: "A", Type: models.ProjectStartup, Stage: models.StageIdea},
		{ID: 2, Title: "B", Type: models.ProjectNonprofit, Stage: models.StageLaunched},
		{ID: 3, Title: "C", Type: models.ProjectStartup, Stage: models.StageLaunched},
	}

	assert.Len(t, a.Projects(q, projects, ProjectFilter{}), 3)
	assert.Len(t, a.Projects(q, projects, ProjectFilter{Type: "ST"}), 2)
	got := a.Projects(q, projects, ProjectFilter{Type: "ST", Stage: "L"})
	require.Len(t, got, 1)
	hit := got[0].Data.(ProjectHit)
	assert.Equal(t, int64(3), hit.ID)
	assert.NotNil(t, hit.Founders)
}

func TestPerTypeListsAreUncapped(t *testing.T) {
	a := newAggregator(t, WithResultCap(5))
	q := NewProcessor().Process("logo")

	assert.Len(t, a.Members(q, designers(30), MemberFilter{}), 20)
}

func TestScanIsolatesPanics(t *testing.T) {
	a := newAggregator(t)
	items := []int{1, 2, 3, 4}

	out := scan(a, EntityMember, items, func(i int) (ScoredResult, bool) {
		if i == 2 {
			panic("bad entity")
		}
		return ScoredResult{Score: float64(i)}, true
	})

	require.Len(t, out, 3)
	assert.Equal(t, []float64{1, 3, 4}, []float64{out[0].Score, out[1].Score, out[2].Score})
}

func TestScoredResultJSON(t *testing.T) {
	r := ScoredResult{
		Type:    EntityOrganization,
		Data:    OrganizationHit{ID: 7, Name: "Rove", Slug: "rove"},
		Score:   0.8,
		Reasons: []string{"Matches rove", "Text match"},
	}

	b, err := json.Marshal(r)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"type": "organization",
		"data": {"id": 7, "name": "Rove", "type": "", "description": null, "website": null, "slug": "rove"},
		"relevance_score": 0.8,
		"match_reasons": ["Matches rove", "Text match"],
		"match_reason": "Matches rove, Text match"
	}`, string(b))
}
