package api

import (
	"github.com/gorilla/mux"

	"github.com/huvtsp/alumni/internal/config"
	"github.com/huvtsp/alumni/internal/repository/sqlite"
	"github.com/huvtsp/alumni/internal/schema"
	"github.com/huvtsp/alumni/internal/search"
	"github.com/huvtsp/alumni/pkg/repository"
)

// Deps are the collaborators the HTTP handlers need. Jobs may be nil, in
// which case member writes do not queue embedding jobs.
type Deps struct {
	Members       repository.MemberRepo
	Organizations repository.OrganizationRepo
	Experiences   repository.ExperienceRepo
	Projects      repository.ProjectRepo
	Links         repository.LinkRepo
	Resources     repository.ResourceRepo
	Events        repository.SearchEventRepo
	Stats         repository.StatsRepo
	Jobs          repository.JobQueue
	Search        *search.Service
	Schemas       *schema.Loader
}

// NewDeps wires every repository to repo.
func NewDeps(repo *sqlite.SQLiteRepo, svc *search.Service, schemas *schema.Loader) Deps {
	return Deps{
		Members:       repo,
		Organizations: repo,
		Experiences:   repo,
		Projects:      repo,
		Links:         repo,
		Resources:     repo,
		Events:        repo,
		Stats:         repo,
		Search:        svc,
		Schemas:       schemas,
	}
}

func SetupRoutes(cfg *config.Config, version, buildTime string, d Deps) *mux.Router {
	r := mux.NewRouter()

	// Middleware chain
	r.Use(LoggingMiddleware)
	r.Use(CORSMiddleware)
	r.Use(RecoveryMiddleware)

	hooks := &writeHooks{jobs: d.Jobs}
	if d.Search != nil {
		hooks.search = d.Search
	}

	// Create handlers
	systemHandler := &SystemHandler{}
	authHandler := NewAuthHandler(cfg.SitePasswordHash, cfg.JWTSecret, cfg.TokenDuration, d.Schemas)
	members := NewMembersHandler(d.Members, d.Experiences, d.Links, d.Schemas, hooks)
	orgs := NewOrganizationsHandler(d.Organizations, d.Schemas, hooks)
	experiences := NewExperiencesHandler(d.Experiences, d.Schemas)
	projects := NewProjectsHandler(d.Projects, d.Links, d.Schemas, hooks)
	resources := NewResourcesHandler(d.Resources, d.Schemas)
	stats := NewStatsHandler(d.Stats, d.Members, d.Organizations, d.Projects)
	searchHandler := NewSearchHandler(d.Search, d.Events, d.Schemas)

	// Open endpoints
	r.HandleFunc("/version", systemHandler.VersionHandler(version, buildTime)).Methods("GET")
	r.HandleFunc("/health", systemHandler.HealthHandler).Methods("GET")
	r.HandleFunc("/v1/auth/validate-password", authHandler.ValidatePassword).Methods("POST")

	// API v1 Protected routes
	apiV1 := r.PathPrefix("/v1").Subrouter()
	apiV1.Use(JWTAuthMiddlewareWithSecret(cfg.JWTSecret))

	// Search endpoints
	apiV1.HandleFunc("/search", searchHandler.Search).Methods("GET")
	apiV1.HandleFunc("/search/members", searchHandler.Members).Methods("GET")
	apiV1.HandleFunc("/search/projects", searchHandler.Projects).Methods("GET")
	apiV1.HandleFunc("/search/organizations", searchHandler.Organizations).Methods("GET")
	apiV1.HandleFunc("/search/suggestions", searchHandler.Suggestions).Methods("GET")
	apiV1.HandleFunc("/search-tracking", searchHandler.Track).Methods("POST")
	apiV1.HandleFunc("/search-tracking/analytics", searchHandler.Analytics).Methods("GET")

	// Members endpoints; groupings before {slug}
	apiV1.HandleFunc("/members/by-region", members.ByRegion).Methods("GET")
	apiV1.HandleFunc("/members/by-session", members.BySession).Methods("GET")
	apiV1.HandleFunc("/members", members.ListMembers).Methods("GET")
	apiV1.HandleFunc("/members", members.CreateMember).Methods("POST")
	apiV1.HandleFunc("/members/{slug}", members.GetMember).Methods("GET")
	apiV1.HandleFunc("/members/{slug}", members.UpdateMember).Methods("PUT")
	apiV1.HandleFunc("/members/{slug}", members.DeleteMember).Methods("DELETE")
	apiV1.HandleFunc("/members/{slug}/experiences", members.ListExperiences).Methods("GET")
	apiV1.HandleFunc("/members/{slug}/social-links", members.ListSocialLinks).Methods("GET")
	apiV1.HandleFunc("/members/{slug}/social-links", members.CreateSocialLink).Methods("POST")

	// Organizations endpoints
	apiV1.HandleFunc("/organizations/by-type", orgs.ByType).Methods("GET")
	apiV1.HandleFunc("/organizations", orgs.ListOrganizations).Methods("GET")
	apiV1.HandleFunc("/organizations", orgs.CreateOrganization).Methods("POST")
	apiV1.HandleFunc("/organizations/{slug}", orgs.GetOrganization).Methods("GET")
	apiV1.HandleFunc("/organizations/{slug}", orgs.DeleteOrganization).Methods("DELETE")
	apiV1.HandleFunc("/organizations/{slug}/members", orgs.ListMembers).Methods("GET")

	// Experiences endpoints
	apiV1.HandleFunc("/experiences", experiences.CreateExperience).Methods("POST")
	apiV1.HandleFunc("/experiences/current", experiences.ListCurrent).Methods("GET")
	apiV1.HandleFunc("/experiences/by-type", experiences.ByType).Methods("GET")

	// Projects endpoints
	apiV1.HandleFunc("/projects/by-stage", projects.ByStage).Methods("GET")
	apiV1.HandleFunc("/projects/by-type", projects.ByType).Methods("GET")
	apiV1.HandleFunc("/projects", projects.ListProjects).Methods("GET")
	apiV1.HandleFunc("/projects", projects.CreateProject).Methods("POST")
	apiV1.HandleFunc("/projects/{slug}", projects.GetProject).Methods("GET")
	apiV1.HandleFunc("/projects/{slug}", projects.DeleteProject).Methods("DELETE")
	apiV1.HandleFunc("/projects/{slug}/links", projects.ListLinks).Methods("GET")
	apiV1.HandleFunc("/projects/{slug}/links", projects.CreateLink).Methods("POST")

	// Resources endpoints
	apiV1.HandleFunc("/resources/by-platform", resources.ByPlatform).Methods("GET")
	apiV1.HandleFunc("/resources", resources.ListResources).Methods("GET")
	apiV1.HandleFunc("/resources", resources.CreateResource).Methods("POST")

	// Stats endpoints
	apiV1.HandleFunc("/stats/overview", stats.Overview).Methods("GET")
	apiV1.HandleFunc("/stats/search", stats.GlobalSearch).Methods("GET")

	return r
}
