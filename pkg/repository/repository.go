package repository

import (
	"context"
	"time"

	"github.com/huvtsp/alumni/pkg/models"
)

// Repository interfaces for domain entities. These are the public contracts
// consumers should depend on; concrete implementations live under internal/.
// Lookups that find nothing return nil, nil.

// MemberListFilter narrows ListMembers. Search matches first name, last name,
// email, skills and location case-insensitively. Ordering is one of
// first_name, last_name, region, session, optionally prefixed with "-".
type MemberListFilter struct {
	Region     string
	Session    string
	Pod        string
	Internship string
	Search     string
	Ordering   string
	Limit      int
	Offset     int
}

type OrganizationListFilter struct {
	Type     string
	Search   string
	Ordering string
	Limit    int
	Offset   int
}

type ProjectListFilter struct {
	Type     string
	Stage    string
	Search   string
	Ordering string
	Limit    int
	Offset   int
}

type MemberRepo interface {
	CreateMember(ctx context.Context, m *models.NetworkMember) (int64, error)
	GetMemberByID(ctx context.Context, id int64) (*models.NetworkMember, error)
	GetMemberBySlug(ctx context.Context, slug string) (*models.NetworkMember, error)
	UpdateMember(ctx context.Context, m *models.NetworkMember) error
	DeleteMember(ctx context.Context, id int64) error
	ListMembers(ctx context.Context, f MemberListFilter) ([]models.NetworkMember, error)
	CountMembers(ctx context.Context, f MemberListFilter) (int64, error)
	ListAllMembers(ctx context.Context) ([]*models.NetworkMember, error)
	CountMembersByRegion(ctx context.Context) ([]models.GroupCount, error)
	CountMembersBySession(ctx context.Context) ([]models.GroupCount, error)
}

type OrganizationRepo interface {
	CreateOrganization(ctx context.Context, o *models.Organization) (int64, error)
	GetOrganizationByID(ctx context.Context, id int64) (*models.Organization, error)
	GetOrganizationBySlug(ctx context.Context, slug string) (*models.Organization, error)
	DeleteOrganization(ctx context.Context, id int64) error
	ListOrganizations(ctx context.Context, f OrganizationListFilter) ([]models.Organization, error)
	ListAllOrganizations(ctx context.Context) ([]*models.Organization, error)
	CountOrganizationsByType(ctx context.Context) ([]models.GroupCount, error)
	ListAffiliatedMembers(ctx context.Context, organizationID int64) ([]models.NetworkMember, error)
}

type ExperienceRepo interface {
	CreateExperience(ctx context.Context, e *models.Experience) (int64, error)
	ListExperiencesByMember(ctx context.Context, memberID int64) ([]models.Experience, error)
	ListCurrentExperiences(ctx context.Context) ([]models.Experience, error)
	CountExperiencesByType(ctx context.Context) ([]models.GroupCount, error)
}

type ProjectRepo interface {
	CreateProject(ctx context.Context, p *models.Project, founderIDs []int64) (int64, error)
	GetProjectBySlug(ctx context.Context, slug string) (*models.Project, error)
	DeleteProject(ctx context.Context, id int64) error
	ListProjects(ctx context.Context, f ProjectListFilter) ([]models.Project, error)
	ListAllProjects(ctx context.Context) ([]*models.Project, error)
	CountProjectsByStage(ctx context.Context) ([]models.GroupCount, error)
	CountProjectsByType(ctx context.Context) ([]models.GroupCount, error)
}

type LinkRepo interface {
	CreateSocialLink(ctx context.Context, l *models.SocialLink) (int64, error)
	ListSocialLinks(ctx context.Context, memberID int64) ([]models.SocialLink, error)
	CreateProjectLink(ctx context.Context, l *models.ProjectLink) (int64, error)
	ListProjectLinks(ctx context.Context, projectID int64) ([]models.ProjectLink, error)
}

type ResourceRepo interface {
	CreateResource(ctx context.Context, r *models.Resource) (int64, error)
	ListResources(ctx context.Context, platform string) ([]models.Resource, error)
	CountResourcesByPlatform(ctx context.Context) ([]models.GroupCount, error)
}

type SearchEventRepo interface {
	CreateSearchEvent(ctx context.Context, e *models.SearchEvent) error
	SearchAnalytics(ctx context.Context, since time.Time) (*models.SearchAnalytics, error)
}

type EmbeddingRepo interface {
	UpsertMemberEmbedding(ctx context.Context, e *models.MemberEmbedding) error
	GetMemberEmbedding(ctx context.Context, memberID int64) (*models.MemberEmbedding, error)
}

type StatsRepo interface {
	Overview(ctx context.Context) (*models.Overview, error)
}

// JobQueue is the persistence side of the background worker pool.
type JobQueue interface {
	Enqueue(ctx context.Context, j *models.BackgroundJob) (int64, error)
	FetchNext(ctx context.Context) (*models.BackgroundJob, error)
	UpdateJob(ctx context.Context, j *models.BackgroundJob) error
	MoveToDeadLetter(ctx context.Context, j *models.BackgroundJob) error
}

// Directory is the full read model the search snapshot is built from.
type Directory interface {
	ListAllMembers(ctx context.Context) ([]*models.NetworkMember, error)
	ListAllOrganizations(ctx context.Context) ([]*models.Organization, error)
	ListAllProjects(ctx context.Context) ([]*models.Project, error)
}
