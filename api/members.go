package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/huvtsp/alumni/internal/apperr"
	"github.com/huvtsp/alumni/internal/schema"
	"github.com/huvtsp/alumni/pkg/models"
	"github.com/huvtsp/alumni/pkg/repository"
)

type MembersHandler struct {
	members     repository.MemberRepo
	experiences repository.ExperienceRepo
	links       repository.LinkRepo
	schemas     *schema.Loader
	hooks       *writeHooks
}

func NewMembersHandler(mr repository.MemberRepo, er repository.ExperienceRepo, lr repository.LinkRepo, schemas *schema.Loader, hooks *writeHooks) *MembersHandler {
	return &MembersHandler{members: mr, experiences: er, links: lr, schemas: schemas, hooks: hooks}
}

type memberPayload struct {
	FirstName      string  `json:"first_name"`
	LastName       string  `json:"last_name"`
	Email          string  `json:"email"`
	Slug           string  `json:"slug"`
	Region         string  `json:"region"`
	Location       *string `json:"location"`
	Session        string  `json:"session"`
	Pod            string  `json:"pod"`
	Internship     string  `json:"internship"`
	Skills         *string `json:"skills"`
	AdditionalInfo *string `json:"additional_info"`
}

func (p memberPayload) apply(m *models.NetworkMember) {
	m.FirstName = p.FirstName
	m.LastName = p.LastName
	m.Email = p.Email
	if p.Slug != "" {
		m.Slug = p.Slug
	}
	if p.Region != "" {
		m.Region = models.Region(p.Region)
	}
	m.Location = p.Location
	m.Session = p.Session
	m.Pod = p.Pod
	m.Internship = p.Internship
	m.Skills = p.Skills
	m.AdditionalInfo = p.AdditionalInfo
}

// member resolves the {slug} path variable.
func (h *MembersHandler) member(r *http.Request) (*models.NetworkMember, error) {
	slug := mux.Vars(r)["slug"]
	m, err := h.members.GetMemberBySlug(r.Context(), slug)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, apperr.NotFound("member not found", nil)
	}
	return m, nil
}

func (h *MembersHandler) ListMembers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, offset := pagination(r)
	f := repository.MemberListFilter{
		Region:     q.Get("region"),
		Session:    q.Get("session"),
		Pod:        q.Get("pod"),
		Internship: q.Get("internship"),
		Search:     q.Get("search"),
		Ordering:   q.Get("ordering"),
		Limit:      limit,
		Offset:     offset,
	}

	items, err := h.members.ListMembers(r.Context(), f)
	if err != nil {
		writeError(w, r, err)
		return
	}
	total, err := h.members.CountMembers(r.Context(), f)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, listResponse{Total: total, Limit: limit, Offset: offset, Items: items}, http.StatusOK)
}

func (h *MembersHandler) CreateMember(w http.ResponseWriter, r *http.Request) {
	var p memberPayload
	if err := decodeValid(r, h.schemas, schema.Member, &p); err != nil {
		writeError(w, r, err)
		return
	}

	m := &models.NetworkMember{}
	p.apply(m)
	if _, err := h.members.CreateMember(r.Context(), m); err != nil {
		writeError(w, r, err)
		return
	}
	h.hooks.memberChanged(r.Context(), m.ID)
	writeJSON(w, m, http.StatusCreated)
}

func (h *MembersHandler) GetMember(w http.ResponseWriter, r *http.Request) {
	m, err := h.member(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, m, http.StatusOK)
}

func (h *MembersHandler) UpdateMember(w http.ResponseWriter, r *http.Request) {
	m, err := h.member(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var p memberPayload
	if err := decodeValid(r, h.schemas, schema.Member, &p); err != nil {
		writeError(w, r, err)
		return
	}

	p.apply(m)
	if err := h.members.UpdateMember(r.Context(), m); err != nil {
		writeError(w, r, err)
		return
	}
	h.hooks.memberChanged(r.Context(), m.ID)
	writeJSON(w, m, http.StatusOK)
}

func (h *MembersHandler) DeleteMember(w http.ResponseWriter, r *http.Request) {
	m, err := h.member(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.members.DeleteMember(r.Context(), m.ID); err != nil {
		writeError(w, r, err)
		return
	}
	h.hooks.changed(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

func (h *MembersHandler) ListExperiences(w http.ResponseWriter, r *http.Request) {
	m, err := h.member(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	items, err := h.experiences.ListExperiencesByMember(r.Context(), m.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, items, http.StatusOK)
}

func (h *MembersHandler) ListSocialLinks(w http.ResponseWriter, r *http.Request) {
	m, err := h.member(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	items, err := h.links.ListSocialLinks(r.Context(), m.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, items, http.StatusOK)
}

func (h *MembersHandler) CreateSocialLink(w http.ResponseWriter, r *http.Request) {
	m, err := h.member(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var l models.SocialLink
	if err := decodeValid(r, h.schemas, schema.Link, &l); err != nil {
		writeError(w, r, err)
		return
	}
	l.ID = 0
	l.MemberID = m.ID
	if _, err := h.links.CreateSocialLink(r.Context(), &l); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, l, http.StatusCreated)
}

func (h *MembersHandler) ByRegion(w http.ResponseWriter, r *http.Request) {
	groups, err := h.members.CountMembersByRegion(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	type regionCount struct {
		Region string `json:"region"`
		Name   string `json:"name"`
		Count  int64  `json:"count"`
	}
	out := make([]regionCount, 0, len(groups))
	for _, g := range groups {
		out = append(out, regionCount{Region: g.Value, Name: models.Region(g.Value).Display(), Count: g.Count})
	}
	writeJSON(w, out, http.StatusOK)
}

func (h *MembersHandler) BySession(w http.ResponseWriter, r *http.Request) {
	groups, err := h.members.CountMembersBySession(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, groups, http.StatusOK)
}
