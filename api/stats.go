package api

import (
	"net/http"
	"strings"

	"github.com/huvtsp/alumni/internal/search"
	"github.com/huvtsp/alumni/pkg/models"
	"github.com/huvtsp/alumni/pkg/repository"
)

const globalSearchLimit = 10

type StatsHandler struct {
	stats   repository.StatsRepo
	members repository.MemberRepo
	orgs    repository.OrganizationRepo
	proj    repository.ProjectRepo
}

func NewStatsHandler(sr repository.StatsRepo, mr repository.MemberRepo, or repository.OrganizationRepo, pr repository.ProjectRepo) *StatsHandler {
	return &StatsHandler{stats: sr, members: mr, orgs: or, proj: pr}
}

func (h *StatsHandler) Overview(w http.ResponseWriter, r *http.Request) {
	o, err := h.stats.Overview(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, o, http.StatusOK)
}

type globalSearchResponse struct {
	Query         string                 `json:"query"`
	Members       []models.NetworkMember `json:"members"`
	Organizations []models.Organization  `json:"organizations"`
	Projects      []models.Project       `json:"projects"`
}

// GlobalSearch is a plain keyword lookup across the directory tables,
// without scoring. At most ten rows of each kind are returned.
func (h *StatsHandler) GlobalSearch(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		writeError(w, r, search.ErrQueryRequired)
		return
	}
	ctx := r.Context()

	members, err := h.members.ListMembers(ctx, repository.MemberListFilter{Search: q, Limit: globalSearchLimit})
	if err != nil {
		writeError(w, r, err)
		return
	}
	orgs, err := h.orgs.ListOrganizations(ctx, repository.OrganizationListFilter{Search: q, Limit: globalSearchLimit})
	if err != nil {
		writeError(w, r, err)
		return
	}
	projects, err := h.proj.ListProjects(ctx, repository.ProjectListFilter{Search: q, Limit: globalSearchLimit})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, globalSearchResponse{Query: q, Members: members, Organizations: orgs, Projects: projects}, http.StatusOK)
}
