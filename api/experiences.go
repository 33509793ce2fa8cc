package api

import (
	"net/http"

	"github.com/huvtsp/alumni/internal/schema"
	"github.com/huvtsp/alumni/pkg/models"
	"github.com/huvtsp/alumni/pkg/repository"
)

type ExperiencesHandler struct {
	experiences repository.ExperienceRepo
	schemas     *schema.Loader
}

func NewExperiencesHandler(er repository.ExperienceRepo, schemas *schema.Loader) *ExperiencesHandler {
	return &ExperiencesHandler{experiences: er, schemas: schemas}
}

func (h *ExperiencesHandler) CreateExperience(w http.ResponseWriter, r *http.Request) {
	var e models.Experience
	if err := decodeValid(r, h.schemas, schema.Experience, &e); err != nil {
		writeError(w, r, err)
		return
	}
	e.ID = 0
	if _, err := h.experiences.CreateExperience(r.Context(), &e); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, e, http.StatusCreated)
}

func (h *ExperiencesHandler) ListCurrent(w http.ResponseWriter, r *http.Request) {
	items, err := h.experiences.ListCurrentExperiences(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, items, http.StatusOK)
}

func (h *ExperiencesHandler) ByType(w http.ResponseWriter, r *http.Request) {
	groups, err := h.experiences.CountExperiencesByType(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, groups, http.StatusOK)
}
