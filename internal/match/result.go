package match

import (
	"encoding/json"
	"strings"

	"github.com/huvtsp/alumni/pkg/models"
)

// EntityType names the kind of entity a result describes.
type EntityType string

const (
	EntityMember       EntityType = "member"
	EntityProject      EntityType = "project"
	EntityOrganization EntityType = "organization"
)

// ScoredResult is one ranked hit. Data holds a MemberHit, ProjectHit or
// OrganizationHit depending on Type.
type ScoredResult struct {
	Type    EntityType `json:"type"`
	Data    any        `json:"data"`
	Score   float64    `json:"relevance_score"`
	Reasons []string   `json:"match_reasons"`
}

// MarshalJSON adds match_reason, the reasons joined for display.
func (r ScoredResult) MarshalJSON() ([]byte, error) {
	type plain ScoredResult
	reasons := r.Reasons
	if reasons == nil {
		reasons = []string{}
	}
	return json.Marshal(struct {
		plain
		Reasons     []string `json:"match_reasons"`
		MatchReason string   `json:"match_reason"`
	}{
		plain:       plain(r),
		Reasons:     reasons,
		MatchReason: strings.Join(r.Reasons, ", "),
	})
}

type MemberHit struct {
	ID             int64         `json:"id"`
	FirstName      string        `json:"first_name"`
	LastName       string        `json:"last_name"`
	Skills         *string       `json:"skills"`
	Location       *string       `json:"location"`
	Region         models.Region `json:"region"`
	Pod            string        `json:"pod"`
	Session        string        `json:"session"`
	Email          string        `json:"email"`
	AdditionalInfo *string       `json:"additional_info"`
	Slug           string        `json:"slug"`
}

type ProjectHit struct {
	ID                    int64               `json:"id"`
	Title                 string              `json:"title"`
	Type                  models.ProjectType  `json:"type"`
	Stage                 models.ProjectStage `json:"stage"`
	WhatAreTheyLookingFor *string             `json:"what_are_they_looking_for"`
	AdditionalInfo        *string             `json:"additional_info"`
	Slug                  string              `json:"slug"`
	Founders              []models.Founder    `json:"founders"`
}

type OrganizationHit struct {
	ID          int64                   `json:"id"`
	Name        string                  `json:"name"`
	Type        models.OrganizationType `json:"type"`
	Description *string                 `json:"description"`
	Website     *string                 `json:"website"`
	Slug        string                  `json:"slug"`
}

func memberHit(m *models.NetworkMember) MemberHit {
	return MemberHit{
		ID:             m.ID,
		FirstName:      m.FirstName,
		LastName:       m.LastName,
		Skills:         m.Skills,
		Location:       m.Location,
		Region:         m.Region,
		Pod:            m.Pod,
		Session:        m.Session,
		Email:          m.Email,
		AdditionalInfo: m.AdditionalInfo,
		Slug:           m.Slug,
	}
}

func projectHit(p *models.Project) ProjectHit {
	founders := p.Founders
	if founders == nil {
		founders = []models.Founder{}
	}
	return ProjectHit{
		ID:                    p.ID,
		Title:                 p.Title,
		Type:                  p.Type,
		Stage:                 p.Stage,
		WhatAreTheyLookingFor: p.WhatAreTheyLookingFor,
		AdditionalInfo:        p.AdditionalInfo,
		Slug:                  p.Slug,
		Founders:              founders,
	}
}

func organizationHit(o *models.Organization) OrganizationHit {
	return OrganizationHit{
		ID:          o.ID,
		Name:        o.Name,
		Type:        o.Type,
		Description: o.Description,
		Website:     o.Website,
		Slug:        o.Slug,
	}
}
