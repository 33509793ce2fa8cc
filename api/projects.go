package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/huvtsp/alumni/internal/apperr"
	"github.com/huvtsp/alumni/internal/schema"
	"github.com/huvtsp/alumni/pkg/models"
	"github.com/huvtsp/alumni/pkg/repository"
)

type ProjectsHandler struct {
	projects repository.ProjectRepo
	links    repository.LinkRepo
	schemas  *schema.Loader
	hooks    *writeHooks
}

func NewProjectsHandler(pr repository.ProjectRepo, lr repository.LinkRepo, schemas *schema.Loader, hooks *writeHooks) *ProjectsHandler {
	return &ProjectsHandler{projects: pr, links: lr, schemas: schemas, hooks: hooks}
}

type projectPayload struct {
	Title                 string  `json:"title"`
	Slug                  string  `json:"slug"`
	Type                  string  `json:"type"`
	Stage                 string  `json:"stage"`
	WhatAreTheyLookingFor *string `json:"what_are_they_looking_for"`
	AdditionalInfo        *string `json:"additional_info"`
	Founders              []int64 `json:"founders"`
}

func (h *ProjectsHandler) project(r *http.Request) (*models.Project, error) {
	p, err := h.projects.GetProjectBySlug(r.Context(), mux.Vars(r)["slug"])
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, apperr.NotFound("project not found", nil)
	}
	return p, nil
}

func (h *ProjectsHandler) ListProjects(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, offset := pagination(r)
	items, err := h.projects.ListProjects(r.Context(), repository.ProjectListFilter{
		Type:     q.Get("type"),
		Stage:    q.Get("stage"),
		Search:   q.Get("search"),
		Ordering: q.Get("ordering"),
		Limit:    limit,
		Offset:   offset,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, listResponse{Total: int64(len(items)), Limit: limit, Offset: offset, Items: items}, http.StatusOK)
}

func (h *ProjectsHandler) CreateProject(w http.ResponseWriter, r *http.Request) {
	var in projectPayload
	if err := decodeValid(r, h.schemas, schema.Project, &in); err != nil {
		writeError(w, r, err)
		return
	}
	p := &models.Project{
		Title:                 in.Title,
		Slug:                  in.Slug,
		Type:                  models.ProjectType(in.Type),
		Stage:                 models.ProjectStage(in.Stage),
		WhatAreTheyLookingFor: in.WhatAreTheyLookingFor,
		AdditionalInfo:        in.AdditionalInfo,
	}
	if _, err := h.projects.CreateProject(r.Context(), p, in.Founders); err != nil {
		writeError(w, r, err)
		return
	}
	h.hooks.changed(r.Context())
	writeJSON(w, p, http.StatusCreated)
}

func (h *ProjectsHandler) GetProject(w http.ResponseWriter, r *http.Request) {
	p, err := h.project(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, p, http.StatusOK)
}

func (h *ProjectsHandler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	p, err := h.project(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.projects.DeleteProject(r.Context(), p.ID); err != nil {
		writeError(w, r, err)
		return
	}
	h.hooks.changed(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

func (h *ProjectsHandler) ListLinks(w http.ResponseWriter, r *http.Request) {
	p, err := h.project(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	items, err := h.links.ListProjectLinks(r.Context(), p.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, items, http.StatusOK)
}

func (h *ProjectsHandler) CreateLink(w http.ResponseWriter, r *http.Request) {
	p, err := h.project(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var l models.ProjectLink
	if err := decodeValid(r, h.schemas, schema.Link, &l); err != nil {
		writeError(w, r, err)
		return
	}
	l.ID = 0
	l.ProjectID = p.ID
	if _, err := h.links.CreateProjectLink(r.Context(), &l); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, l, http.StatusCreated)
}

func (h *ProjectsHandler) ByStage(w http.ResponseWriter, r *http.Request) {
	groups, err := h.projects.CountProjectsByStage(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, groups, http.StatusOK)
}

func (h *ProjectsHandler) ByType(w http.ResponseWriter, r *http.Request) {
	groups, err := h.projects.CountProjectsByType(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, groups, http.StatusOK)
}
