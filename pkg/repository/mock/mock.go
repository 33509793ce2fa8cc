package mock

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/huvtsp/alumni/pkg/models"
	"github.com/huvtsp/alumni/pkg/repository"
)

// Test helpers and mocks
type Mocks struct {
	Directory *Directory
	Events    *SearchEvents
	Jobs      *JobQueue
}

func NewMocks() *Mocks {
	return &Mocks{
		Directory: &Directory{},
		Events:    &SearchEvents{},
		Jobs:      &JobQueue{},
	}
}

var _ repository.Directory = (*Directory)(nil)
var _ repository.SearchEventRepo = (*SearchEvents)(nil)
var _ repository.JobQueue = (*JobQueue)(nil)

// Directory serves fixed entity lists. Loads counts ListAll* calls per kind.
type Directory struct {
	mu            sync.Mutex
	Members       []*models.NetworkMember
	Organizations []*models.Organization
	Projects      []*models.Project
	Err           error
	Loads         int
}

func (d *Directory) ListAllMembers(ctx context.Context) ([]*models.NetworkMember, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Loads++
	if d.Err != nil {
		return nil, d.Err
	}
	return append([]*models.NetworkMember(nil), d.Members...), nil
}

func (d *Directory) ListAllOrganizations(ctx context.Context) ([]*models.Organization, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.Err != nil {
		return nil, d.Err
	}
	return append([]*models.Organization(nil), d.Organizations...), nil
}

func (d *Directory) ListAllProjects(ctx context.Context) ([]*models.Project, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.Err != nil {
		return nil, d.Err
	}
	return append([]*models.Project(nil), d.Projects...), nil
}

// SetMembers replaces the member list under the lock.
func (d *Directory) SetMembers(ms ...*models.NetworkMember) {
	d.mu.Lock()
	d.Members = ms
	d.mu.Unlock()
}

// LoadCount reports how many times members were loaded.
func (d *Directory) LoadCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.Loads
}

// SearchEvents records events in memory.
type SearchEvents struct {
	mu        sync.Mutex
	Stored    []models.SearchEvent
	CreateErr error
}

func (s *SearchEvents) CreateSearchEvent(ctx context.Context, e *models.SearchEvent) error {
	if s.CreateErr != nil {
		return s.CreateErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Stored = append(s.Stored, *e)
	return nil
}

func (s *SearchEvents) SearchAnalytics(ctx context.Context, since time.Time) (*models.SearchAnalytics, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a := &models.SearchAnalytics{Since: since.UnixMilli(), ByType: []models.GroupCount{}, TopQueries: []models.QueryCount{}}
	byType := map[string]int64{}
	var sum int
	for _, e := range s.Stored {
		if e.Created != 0 && e.Created < a.Since {
			continue
		}
		a.TotalSearches++
		sum += e.ResultsCount
		byType[e.SearchType]++
	}
	if a.TotalSearches > 0 {
		a.AverageResults = float64(sum) / float64(a.TotalSearches)
	}
	for k, v := range byType {
		a.ByType = append(a.ByType, models.GroupCount{Value: k, Count: v})
	}
	sort.Slice(a.ByType, func(i, j int) bool { return a.ByType[i].Value < a.ByType[j].Value })
	return a, nil
}

// Events returns a copy of the recorded events.
func (s *SearchEvents) Events() []models.SearchEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.SearchEvent(nil), s.Stored...)
}

// JobQueue is an in-memory FIFO honoring priority and next_try_at.
type JobQueue struct {
	mu     sync.Mutex
	nextID int64
	Jobs   []*models.BackgroundJob
	Dead   []*models.BackgroundJob
}

func (q *JobQueue) Enqueue(ctx context.Context, j *models.BackgroundJob) (int64, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.nextID++
	cp := *j
	cp.ID = q.nextID
	cp.Status = "queued"
	if cp.MaxAttempts == 0 {
		cp.MaxAttempts = 5
	}
	j.ID = cp.ID
	q.Jobs = append(q.Jobs, &cp)
	return cp.ID, nil
}

func (q *JobQueue) FetchNext(ctx context.Context) (*models.BackgroundJob, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	now := time.Now()
	var best *models.BackgroundJob
	for _, j := range q.Jobs {
		if j.Status != "queued" && j.Status != "retry" {
			continue
		}
		if j.NextTryAt != nil && j.NextTryAt.After(now) {
			continue
		}
		if best == nil || j.Priority < best.Priority {
			best = j
		}
	}
	if best == nil {
		return nil, nil
	}
	best.Status = "running"
	cp := *best
	return &cp, nil
}

func (q *JobQueue) UpdateJob(ctx context.Context, j *models.BackgroundJob) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	for i, cur := range q.Jobs {
		if cur.ID == j.ID {
			cp := *j
			q.Jobs[i] = &cp
			return nil
		}
	}
	return nil
}

func (q *JobQueue) MoveToDeadLetter(ctx context.Context, j *models.BackgroundJob) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	for i, cur := range q.Jobs {
		if cur.ID == j.ID {
			q.Jobs = append(q.Jobs[:i], q.Jobs[i+1:]...)
			break
		}
	}
	cp := *j
	q.Dead = append(q.Dead, &cp)
	return nil
}

// Job returns a copy of the job with id, or nil.
func (q *JobQueue) Job(id int64) *models.BackgroundJob {
	q.mu.Lock()
	defer q.mu.Unlock()
	for _, j := range q.Jobs {
		if j.ID == id {
			cp := *j
			return &cp
		}
	}
	return nil
}

// DeadCount reports the number of dead-lettered jobs.
func (q *JobQueue) DeadCount() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.Dead)
}
