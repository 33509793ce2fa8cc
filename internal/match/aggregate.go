package match

import (
	"log/slog"
	"runtime"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/huvtsp/alumni/pkg/models"
)

const (
	// DefaultResultCap bounds the combined result list of Search.
	DefaultResultCap = 20
	// DefaultParallelThreshold is the collection size at which scans move to the pool.
	DefaultParallelThreshold = 256
)

// Collections is a read-consistent view of every entity that can be scored.
type Collections struct {
	Members       []*models.NetworkMember
	Projects      []*models.Project
	Organizations []*models.Organization
}

// MemberFilter narrows the member scan by exact field match. Empty fields
// are ignored.
type MemberFilter struct {
	Region  string `json:"region,omitempty"`
	Session string `json:"session,omitempty"`
	Pod     string `json:"pod,omitempty"`
}

func (f MemberFilter) keep(m *models.NetworkMember) bool {
	return (f.Region == "" || string(m.Region) == f.Region) &&
		(f.Session == "" || m.Session == f.Session) &&
		(f.Pod == "" || m.Pod == f.Pod)
}

// ProjectFilter narrows the project scan by type and stage code.
type ProjectFilter struct {
	Type  string `json:"type,omitempty"`
	Stage string `json:"stage,omitempty"`
}

func (f ProjectFilter) keep(p *models.Project) bool {
	return (f.Type == "" || string(p.Type) == f.Type) &&
		(f.Stage == "" || string(p.Stage) == f.Stage)
}

type Filters struct {
	Members  MemberFilter  `json:"members"`
	Projects ProjectFilter `json:"projects"`
}

// Aggregator runs scorers over whole collections and ranks the hits. Large
// collections are scored on an ants pool; small ones inline. Searches that
// overlap or follow Release score inline.
type Aggregator struct {
	pool      atomic.Pointer[ants.Pool]
	threshold int
	resultCap int
	logger    *slog.Logger
}

// Option configures an Aggregator.
type Option func(*Aggregator) error

// WithPoolSize sets the scoring pool size.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(a *Aggregator) error {
		if size < 1 {
			return ErrInvalidPoolSize
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		if old := a.pool.Swap(pool); old != nil {
			old.Release()
		}
		return nil
	}
}

// WithParallelThreshold sets the collection size at which scoring is spread
// over the pool. Zero or less always scores inline.
func WithParallelThreshold(n int) Option {
	return func(a *Aggregator) error {
		a.threshold = n
		return nil
	}
}

// WithResultCap sets the maximum length of the combined Search result.
func WithResultCap(n int) Option {
	return func(a *Aggregator) error {
		if n < 1 {
			n = DefaultResultCap
		}
		a.resultCap = n
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(a *Aggregator) error {
		if logger == nil {
			logger = slog.Default()
		}
		a.logger = logger
		return nil
	}
}

func NewAggregator(opts ...Option) (*Aggregator, error) {
	a := &Aggregator{
		threshold: DefaultParallelThreshold,
		resultCap: DefaultResultCap,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(a); err != nil {
			a.Release()
			return nil, err
		}
	}
	if a.pool.Load() == nil {
		size := runtime.NumCPU() / 2
		if size < 1 {
			size = 1
		}
		pool, err := ants.NewPool(size)
		if err != nil {
			return nil, err
		}
		a.pool.Store(pool)
	}
	return a, nil
}

// Release stops the scoring pool, waiting briefly for running tasks. It is
// safe to call while searches run and more than once.
func (a *Aggregator) Release() {
	pool := a.pool.Swap(nil)
	if pool == nil {
		return
	}
	if err := pool.ReleaseTimeout(5 * time.Second); err != nil {
		a.logger.Warn("scoring pool release timed out", "err", err)
	}
}

// ResultCap reports the combined result limit.
func (a *Aggregator) ResultCap() int { return a.resultCap }

// Search dispatches on q.Intent, merges the per-type hits, sorts them and
// returns at most ResultCap of them together with the uncapped total.
func (a *Aggregator) Search(q ProcessedQuery, c Collections, f Filters) ([]ScoredResult, int) {
	members, projects, orgs := q.Intent.Scans()

	var all []ScoredResult
	if members {
		all = append(all, a.Members(q, c.Members, f.Members)...)
	}
	if projects {
		all = append(all, a.Projects(q, c.Projects, f.Projects)...)
	}
	if orgs {
		all = append(all, a.Organizations(q, c.Organizations)...)
	}
	rank(all)

	total := len(all)
	if total > a.resultCap {
		all = all[:a.resultCap]
	}
	if all == nil {
		all = []ScoredResult{}
	}
	return all, total
}

// Members scores every member that passes f. The result is sorted but not capped.
func (a *Aggregator) Members(q ProcessedQuery, members []*models.NetworkMember, f MemberFilter) []ScoredResult {
	kept := make([]*models.NetworkMember, 0, len(members))
	for _, m := range members {
		if m != nil && f.keep(m) {
			kept = append(kept, m)
		}
	}
	out := scan(a, EntityMember, kept, func(m *models.NetworkMember) (ScoredResult, bool) {
		score, reasons := ScoreMember(m, q)
		return ScoredResult{Type: EntityMember, Data: memberHit(m), Score: score, Reasons: reasons}, score > 0
	})
	rank(out)
	return out
}

// Projects scores every project that passes f. The result is sorted but not capped.
func (a *Aggregator) Projects(q ProcessedQuery, projects []*models.Project, f ProjectFilter) []ScoredResult {
	kept := make([]*models.Project, 0, len(projects))
	for _, p := range projects {
		if p != nil && f.keep(p) {
			kept = append(kept, p)
		}
	}
	out := scan(a, EntityProject, kept, func(p *models.Project) (ScoredResult, bool) {
		score, reasons := ScoreProject(p, q)
		return ScoredResult{Type: EntityProject, Data: projectHit(p), Score: score, Reasons: reasons}, score > 0
	})
	rank(out)
	return out
}

// Organizations scores every organization. The result is sorted but not capped.
func (a *Aggregator) Organizations(q ProcessedQuery, orgs []*models.Organization) []ScoredResult {
	kept := make([]*models.Organization, 0, len(orgs))
	for _, o := range orgs {
		if o != nil {
			kept = append(kept, o)
		}
	}
	out := scan(a, EntityOrganization, kept, func(o *models.Organization) (ScoredResult, bool) {
		score, reasons := ScoreOrganization(o, q)
		return ScoredResult{Type: EntityOrganization, Data: organizationHit(o), Score: score, Reasons: reasons}, score > 0
	})
	rank(out)
	return out
}

// scan applies score to every item, keeping scan order. A panic while scoring
// one item drops that item and is logged; the rest of the batch continues.
func scan[T any](a *Aggregator, kind EntityType, items []T, score func(T) (ScoredResult, bool)) []ScoredResult {
	slots := make([]ScoredResult, len(items))
	hit := make([]bool, len(items))

	one := func(i int) {
		defer func() {
			if r := recover(); r != nil {
				a.logger.Warn("scoring failed, entity skipped", "type", kind, "index", i, "panic", r)
				hit[i] = false
			}
		}()
		slots[i], hit[i] = score(items[i])
	}

	pool := a.pool.Load()
	if pool == nil || a.threshold <= 0 || len(items) < a.threshold {
		for i := range items {
			one(i)
		}
	} else {
		var wg sync.WaitGroup
		for i := range items {
			wg.Add(1)
			if err := pool.Submit(func() {
				defer wg.Done()
				one(i)
			}); err != nil {
				wg.Done()
				a.logger.Warn("scoring pool rejected task, scoring inline", "err", err)
				one(i)
			}
		}
		wg.Wait()
	}

	out := make([]ScoredResult, 0, len(items))
	for i := range items {
		if hit[i] {
			out = append(out, slots[i])
		}
	}
	return out
}

// rank sorts by descending score; ties keep their current order.
func rank(rs []ScoredResult) {
	sort.SliceStable(rs, func(i, j int) bool {
		return rs[i].Score > rs[j].Score
	})
}
