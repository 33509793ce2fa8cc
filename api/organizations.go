package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/huvtsp/alumni/internal/apperr"
	"github.com/huvtsp/alumni/internal/schema"
	"github.com/huvtsp/alumni/pkg/models"
	"github.com/huvtsp/alumni/pkg/repository"
)

type OrganizationsHandler struct {
	orgs    repository.OrganizationRepo
	schemas *schema.Loader
	hooks   *writeHooks
}

func NewOrganizationsHandler(or repository.OrganizationRepo, schemas *schema.Loader, hooks *writeHooks) *OrganizationsHandler {
	return &OrganizationsHandler{orgs: or, schemas: schemas, hooks: hooks}
}

func (h *OrganizationsHandler) organization(r *http.Request) (*models.Organization, error) {
	o, err := h.orgs.GetOrganizationBySlug(r.Context(), mux.Vars(r)["slug"])
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, apperr.NotFound("organization not found", nil)
	}
	return o, nil
}

func (h *OrganizationsHandler) ListOrganizations(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, offset := pagination(r)
	items, err := h.orgs.ListOrganizations(r.Context(), repository.OrganizationListFilter{
		Type:     q.Get("type"),
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

func (h *OrganizationsHandler) CreateOrganization(w http.ResponseWriter, r *http.Request) {
	var o models.Organization
	if err := decodeValid(r, h.schemas, schema.Organization, &o); err != nil {
		writeError(w, r, err)
		return
	}
	o.ID = 0
	if _, err := h.orgs.CreateOrganization(r.Context(), &o); err != nil {
		writeError(w, r, err)
		return
	}
	h.hooks.changed(r.Context())
	writeJSON(w, o, http.StatusCreated)
}

func (h *OrganizationsHandler) GetOrganization(w http.ResponseWriter, r *http.Request) {
	o, err := h.organization(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, o, http.StatusOK)
}

func (h *OrganizationsHandler) DeleteOrganization(w http.ResponseWriter, r *http.Request) {
	o, err := h.organization(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.orgs.DeleteOrganization(r.Context(), o.ID); err != nil {
		writeError(w, r, err)
		return
	}
	h.hooks.changed(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

// ListMembers returns the members with any experience at the organization.
func (h *OrganizationsHandler) ListMembers(w http.ResponseWriter, r *http.Request) {
	o, err := h.organization(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	items, err := h.orgs.ListAffiliatedMembers(r.Context(), o.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, items, http.StatusOK)
}

func (h *OrganizationsHandler) ByType(w http.ResponseWriter, r *http.Request) {
	groups, err := h.orgs.CountOrganizationsByType(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, groups, http.StatusOK)
}
