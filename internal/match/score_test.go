package match

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/huvtsp/alumni/pkg/models"
)

func ptr(s string) *string { return &s }

func TestScoreMemberDesigner(t *testing.T) {
	q := NewProcessor().Process("do you know any people who are really good with graphic design?")
	m := &models.NetworkMember{FirstName: "Alex", LastName: "Rivera", Skills: ptr("Graphic Design, Branding")}

	score, reasons := ScoreMember(m, q)

	assert.Greater(t, score, 0.0)
	assert.Contains(t, reasons, "Has design skills")
	assert.Contains(t, reasons, "Has graphic design skills")
	assert.Contains(t, reasons, "Expert in graphic design")
	// graphic design, design, branding, graphic at 0.3 each plus the design bonus.
	assert.InDelta(t, 4*0.3+0.4, score, 1e-9)
}

func TestScoreMemberLocation(t *testing.T) {
	q := NewProcessor().Process("Anyone in Boston rn?")
	m := &models.NetworkMember{FirstName: "Sarah", LastName: "Chen", Location: ptr("Boston, MA")}

	score, reasons := ScoreMember(m, q)

	assert.InDelta(t, 0.9, score, 1e-9)
	assert.Equal(t, []string{"Located in boston", "Located in Boston, MA"}, reasons)
}

func TestScoreMemberCompanyAndIntern(t *testing.T) {
	q := NewProcessor().Process("interning at rove")
	m := &models.NetworkMember{
		FirstName:      "Jo",
		LastName:       "Park",
		Pod:            "Zoom",
		AdditionalInfo: ptr("Summer intern at Rove Miles"),
	}

	score, reasons := ScoreMember(m, q)

	assert.Equal(t, []string{"Connected to rove", "Currently interning"}, reasons)
	assert.InDelta(t, 0.8, score, 1e-9)
}

func TestScoreMemberPodBonus(t *testing.T) {
	q := NewProcessor().Process("stripe pod")

	in, reasons := ScoreMember(&models.NetworkMember{FirstName: "A", LastName: "B", Pod: "Stripe"}, q)
	assert.InDelta(t, 0.6, in, 1e-9)
	assert.Equal(t, []string{"Member of Stripe pod"}, reasons)

	out, _ := ScoreMember(&models.NetworkMember{FirstName: "A", LastName: "B", Pod: "Zoom"}, q)
	assert.Zero(t, out)
}

func TestScoreMemberMobileAndMarketing(t *testing.T) {
	p := NewProcessor()
	dev := &models.NetworkMember{FirstName: "James", LastName: "Lee", Skills: ptr("iOS, React Native")}

	_, reasons := ScoreMember(dev, p.Process("Does anyone know of a software engineer familiar with mobile apps for a startup?"))
	assert.Contains(t, reasons, "Mobile development expert")
	assert.Contains(t, reasons, "Has react native skills")

	mk := &models.NetworkMember{FirstName: "Mia", LastName: "Ross", Skills: ptr("Social Media")}
	_, reasons = ScoreMember(mk, p.Process("marketing gig"))
	assert.Contains(t, reasons, "Marketing specialist")
}

func TestScoreMemberTextMatch(t *testing.T) {
	q := NewProcessor().Process("Nguyen")
	m := &models.NetworkMember{FirstName: "Linh", LastName: "Nguyen"}

	score, reasons := ScoreMember(m, q)

	assert.InDelta(t, 0.2, score, 1e-9)
	assert.Equal(t, []string{"Text match"}, reasons)
}

func TestScoreMemberNilFields(t *testing.T) {
	q := NewProcessor().Process("anyone good at logo design in boston interning at rove?")
	m := &models.NetworkMember{FirstName: "Nil", LastName: "Fields"}

	score, reasons := ScoreMember(m, q)

	assert.Zero(t, score)
	assert.Empty(t, reasons)
}

func TestScoreMemberNoMatchIsZero(t *testing.T) {
	q := NewProcessor().Process("who knows blockchain?")
	m := &models.NetworkMember{
		FirstName: "Sam", LastName: "Ito",
		Skills:   ptr("Cooking"),
		Location: ptr("Lisbon"),
		Pod:      "Canva",
	}

	score, reasons := ScoreMember(m, q)
	assert.Zero(t, score)
	assert.Empty(t, reasons)
}

func TestScoreProjectTypeBonusesExclusive(t *testing.T) {
	q := NewProcessor().Process("startup or nonprofit")
	st := &models.Project{Title: "Founder Dashboard", Type: models.ProjectStartup}
	np := &models.Project{Title: "Books for All", Type: models.ProjectNonprofit}

	stScore, stReasons := ScoreProject(st, q)
	npScore, npReasons := ScoreProject(np, q)

	assert.Equal(t, []string{"Startup project"}, stReasons)
	assert.Equal(t, []string{"Nonprofit project"}, npReasons)
	assert.InDelta(t, 0.3, stScore, 1e-9)
	assert.InDelta(t, 0.3, npScore, 1e-9)

	only, _ := ScoreProject(np, NewProcessor().Process("startup"))
	assert.Zero(t, only)
}

func TestScoreProjectSkillsAndText(t *testing.T) {
	q := NewProcessor().Process("I've been thinking about a startup idea and want to see if anyone here might be interested in joining!")
	p := &models.Project{
		Title:                 "Founder Dashboard",
		Type:                  models.ProjectStartup,
		WhatAreTheyLookingFor: ptr("A founder who can pitch"),
	}

	score, reasons := ScoreProject(p, q)

	assert.Contains(t, reasons, "Looking for founder skills")
	assert.Contains(t, reasons, "Looking for pitch skills")
	assert.Contains(t, reasons, "Startup project")
	assert.NotContains(t, reasons, "Text match")
	assert.Greater(t, score, 0.0)

	title, reasons := ScoreProject(p, NewProcessor().Process("founder dashboard"))
	assert.Contains(t, reasons, "Text match")
	assert.Greater(t, title, 0.2)
}

func TestScoreOrganization(t *testing.T) {
	org := &models.Organization{Name: "FinTech Nexus", Description: ptr("Fintech community")}

	score, reasons := ScoreOrganization(org, NewProcessor().Process("FinTech Nexus"))
	assert.InDelta(t, 0.2, score, 1e-9)
	assert.Equal(t, []string{"Text match"}, reasons)

	score, _ = ScoreOrganization(org, NewProcessor().Process("Is anyone in FinTech Nexus?"))
	assert.Zero(t, score)

	rove := &models.Organization{Name: "Rove Miles", Description: nil}
	score, reasons = ScoreOrganization(rove, NewProcessor().Process("rove miles"))
	assert.Equal(t, []string{"Matches rove", "Matches rove miles", "Text match"}, reasons)
	assert.InDelta(t, 1.8, score, 1e-9)
}
