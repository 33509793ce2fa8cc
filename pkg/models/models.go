package models

import (
	"encoding/json"
	"strings"
	"time"
	"unicode"
)

// Domain models matching the database schema in db/migrations/0001_init.sql

type Region string

const (
	RegionAfrica       Region = "AF"
	RegionAsia         Region = "AS"
	RegionEurope       Region = "EU"
	RegionNorthAmerica Region = "NA"
	RegionSouthAmerica Region = "SA"
	RegionOceania      Region = "OC"
	RegionAntarctica   Region = "AN"
)

var regionNames = map[Region]string{
	RegionAfrica:       "Africa",
	RegionAsia:         "Asia",
	RegionEurope:       "Europe",
	RegionNorthAmerica: "North America",
	RegionSouthAmerica: "South America",
	RegionOceania:      "Oceania",
	RegionAntarctica:   "Antarctica",
}

func (r Region) Valid() bool {
	_, ok := regionNames[r]
	return ok
}

// Display returns the human readable continent name, or the raw code when unknown.
func (r Region) Display() string {
	if n, ok := regionNames[r]; ok {
		return n
	}
	return string(r)
}

type OrganizationType string

const (
	OrgTypeCompany     OrganizationType = "CO"
	OrgTypeEvent       OrganizationType = "EV"
	OrgTypeCommunity   OrganizationType = "CM"
	OrgTypeAccelerator OrganizationType = "AC"
	OrgTypeNonprofit   OrganizationType = "NP"
	OrgTypeUniversity  OrganizationType = "UN"
	OrgTypeOther       OrganizationType = "OT"
)

func (t OrganizationType) Valid() bool {
	switch t {
	case OrgTypeCompany, OrgTypeEvent, OrgTypeCommunity, OrgTypeAccelerator,
		OrgTypeNonprofit, OrgTypeUniversity, OrgTypeOther:
		return true
	}
	return false
}

type ExperienceType string

const (
	ExperienceEmployment   ExperienceType = "employment"
	ExperienceInternship   ExperienceType = "internship"
	ExperienceVolunteer    ExperienceType = "volunteer"
	ExperienceAcademic     ExperienceType = "academic"
	ExperienceFreelance    ExperienceType = "freelance"
	ExperienceBoardMember  ExperienceType = "board_member"
	ExperienceMentor       ExperienceType = "mentor"
	ExperienceAdvisor      ExperienceType = "advisor"
	ExperienceAttendee     ExperienceType = "attendee"
	ExperienceCohortMember ExperienceType = "cohort_member"
	ExperienceFounder      ExperienceType = "founder"
	ExperienceCompetition  ExperienceType = "competition"
	ExperienceOther        ExperienceType = "other"
)

func (t ExperienceType) Valid() bool {
	switch t {
	case ExperienceEmployment, ExperienceInternship, ExperienceVolunteer, ExperienceAcademic,
		ExperienceFreelance, ExperienceBoardMember, ExperienceMentor, ExperienceAdvisor,
		ExperienceAttendee, ExperienceCohortMember, ExperienceFounder, ExperienceCompetition,
		ExperienceOther:
		return true
	}
	return false
}

type ProjectType string

const (
	ProjectStartup   ProjectType = "ST"
	ProjectNonprofit ProjectType = "NP"
)

func (t ProjectType) Valid() bool {
	return t == ProjectStartup || t == ProjectNonprofit
}

type ProjectStage string

const (
	StageIdea        ProjectStage = "J"
	StageResearchMVP ProjectStage = "MVP"
	StageLaunched    ProjectStage = "L"
)

func (s ProjectStage) Valid() bool {
	return s == StageIdea || s == StageResearchMVP || s == StageLaunched
}

type NetworkMember struct {
	ID             int64   `json:"id" db:"id"`
	FirstName      string  `json:"first_name" db:"first_name"`
	LastName       string  `json:"last_name" db:"last_name"`
	Email          string  `json:"email" db:"email"`
	Slug           string  `json:"slug" db:"slug"`
	Region         Region  `json:"region" db:"region"`
	Location       *string `json:"location,omitempty" db:"location"`
	Session        string  `json:"session" db:"session"`
	Pod            string  `json:"pod" db:"pod"`
	Internship     string  `json:"internship" db:"internship"`
	Skills         *string `json:"skills,omitempty" db:"skills"`
	AdditionalInfo *string `json:"additional_info,omitempty" db:"additional_info"`
	Updated        int64   `json:"updated" db:"updated"`
}

type Organization struct {
	ID          int64            `json:"id" db:"id"`
	Name        string           `json:"name" db:"name"`
	Slug        string           `json:"slug" db:"slug"`
	Type        OrganizationType `json:"type,omitempty" db:"type"`
	Description *string          `json:"description,omitempty" db:"description"`
	Website     *string          `json:"website,omitempty" db:"website"`
}

// Experience links one member to one organization.
type Experience struct {
	ID               int64          `json:"id" db:"id"`
	MemberID         int64          `json:"network_member" db:"member_id"`
	OrganizationID   int64          `json:"organization" db:"organization_id"`
	OrganizationName string         `json:"organization_name,omitempty"`
	OrganizationType string         `json:"organization_type,omitempty"`
	Title            *string        `json:"title,omitempty" db:"title"`
	ExperienceType   ExperienceType `json:"experience_type" db:"experience_type"`
	StartDate        *string        `json:"start_date,omitempty" db:"start_date"`
	EndDate          *string        `json:"end_date,omitempty" db:"end_date"`
	IsCurrent        bool           `json:"is_current" db:"is_current"`
	Description      *string        `json:"description,omitempty" db:"description"`
	Created          int64          `json:"created" db:"created"`
}

type SocialLink struct {
	ID          int64   `json:"id" db:"id"`
	MemberID    int64   `json:"network_member" db:"member_id"`
	Title       *string `json:"title,omitempty" db:"title"`
	Link        string  `json:"link" db:"link"`
	Description string  `json:"description" db:"description"`
	Platform    *string `json:"platform,omitempty" db:"platform"`
}

// Founder is the slice of a member carried on a project.
type Founder struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Slug      string `json:"slug"`
}

type Project struct {
	ID                    int64        `json:"id" db:"id"`
	Title                 string       `json:"title" db:"title"`
	Slug                  string       `json:"slug" db:"slug"`
	Type                  ProjectType  `json:"type" db:"type"`
	Stage                 ProjectStage `json:"stage" db:"stage"`
	WhatAreTheyLookingFor *string      `json:"what_are_they_looking_for,omitempty" db:"what_are_they_looking_for"`
	AdditionalInfo        *string      `json:"additional_info,omitempty" db:"additional_info"`
	Founders              []Founder    `json:"founders"`
}

type ProjectLink struct {
	ID        int64   `json:"id" db:"id"`
	ProjectID int64   `json:"project" db:"project_id"`
	Title     *string `json:"title,omitempty" db:"title"`
	Link      string  `json:"link" db:"link"`
	Platform  *string `json:"platform,omitempty" db:"platform"`
}

type Resource struct {
	ID          int64   `json:"id" db:"id"`
	Title       *string `json:"title,omitempty" db:"title"`
	Slug        string  `json:"slug" db:"slug"`
	Link        string  `json:"link" db:"link"`
	Platform    *string `json:"platform,omitempty" db:"platform"`
	Description string  `json:"description" db:"description"`
}

// GroupCount is one bucket of a GROUP BY count.
type GroupCount struct {
	Value string `json:"value"`
	Count int64  `json:"count"`
}

type Overview struct {
	TotalMembers        int64        `json:"total_members"`
	TotalOrganizations  int64        `json:"total_organizations"`
	TotalProjects       int64        `json:"total_projects"`
	TotalExperiences    int64        `json:"total_experiences"`
	TotalResources      int64        `json:"total_resources"`
	MembersByRegion     []GroupCount `json:"members_by_region"`
	OrganizationsByType []GroupCount `json:"organizations_by_type"`
	ProjectsByStage     []GroupCount `json:"projects_by_stage"`
}

type SearchEvent struct {
	ID           string            `json:"id" db:"id"`
	SearchType   string            `json:"search_type" db:"search_type"`
	Query        string            `json:"query" db:"query"`
	Filters      map[string]string `json:"filters,omitempty" db:"filters"`
	ResultsCount int               `json:"results_count" db:"results_count"`
	Created      int64             `json:"created" db:"created"`
}

type QueryCount struct {
	Query string `json:"query"`
	Count int64  `json:"count"`
}

type SearchAnalytics struct {
	Since          int64        `json:"since"`
	TotalSearches  int64        `json:"total_searches"`
	AverageResults float64      `json:"average_results"`
	ByType         []GroupCount `json:"by_type"`
	TopQueries     []QueryCount `json:"top_queries"`
}

type MemberEmbedding struct {
	MemberID int64     `json:"member_id" db:"member_id"`
	Model    string    `json:"model" db:"model"`
	Vector   []float32 `json:"vector" db:"vector"`
	Updated  int64     `json:"updated" db:"updated"`
}

type BackgroundJob struct {
	ID          int64           `json:"id"`
	Type        string          `json:"type"`
	Payload     json.RawMessage `json:"payload"`
	Status      string          `json:"status"`
	Attempts    int             `json:"attempts"`
	MaxAttempts int             `json:"max_attempts"`
	Priority    int             `json:"priority"`
	ScheduledAt time.Time       `json:"scheduled_at"`
	NextTryAt   *time.Time      `json:"next_try_at,omitempty"`
	LastError   string          `json:"last_error,omitempty"`
	Created     time.Time       `json:"created"`
	Updated     time.Time       `json:"updated"`
}

// Slugify lower-cases s and joins its letter and digit runs with hyphens.
func Slugify(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if dash && b.Len() > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(r)
			dash = false
			continue
		}
		dash = true
	}
	return b.String()
}
