package api

import (
	"net/http"

	"github.com/huvtsp/alumni/internal/schema"
	"github.com/huvtsp/alumni/pkg/models"
	"github.com/huvtsp/alumni/pkg/repository"
)

type ResourcesHandler struct {
	resources repository.ResourceRepo
	schemas   *schema.Loader
}

func NewResourcesHandler(rr repository.ResourceRepo, schemas *schema.Loader) *ResourcesHandler {
	return &ResourcesHandler{resources: rr, schemas: schemas}
}

func (h *ResourcesHandler) ListResources(w http.ResponseWriter, r *http.Request) {
	items, err := h.resources.ListResources(r.Context(), r.URL.Query().Get("platform"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, items, http.StatusOK)
}

func (h *ResourcesHandler) CreateResource(w http.ResponseWriter, r *http.Request) {
	var res models.Resource
	if err := decodeValid(r, h.schemas, schema.Resource, &res); err != nil {
		writeError(w, r, err)
		return
	}
	res.ID = 0
	if _, err := h.resources.CreateResource(r.Context(), &res); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, res, http.StatusCreated)
}

func (h *ResourcesHandler) ByPlatform(w http.ResponseWriter, r *http.Request) {
	groups, err := h.resources.CountResourcesByPlatform(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, groups, http.StatusOK)
}
