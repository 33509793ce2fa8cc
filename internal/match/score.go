package match

import (
	"fmt"
	"strings"

	"github.com/huvtsp/alumni/pkg/models"
)

// Score weights. Scores are additive and unbounded; only their order matters.
const (
	weightMemberSkill    = 0.3
	weightMemberLocation = 0.4
	weightMemberCompany  = 0.5
	weightTextMatch      = 0.2

	bonusDesign    = 0.4
	bonusCity      = 0.5
	bonusMobile    = 0.4
	bonusMarketing = 0.4
	bonusIntern    = 0.3
	bonusPod       = 0.6

	weightProjectSkill = 0.3
	weightProjectType  = 0.3

	weightOrganizationCompany = 0.8
)

const reasonTextMatch = "Text match"

type tally struct {
	score   float64
	reasons []string
}

func (t *tally) add(w float64, reason string) {
	t.score += w
	t.reasons = append(t.reasons, reason)
}

func text(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// ScoreMember rates m against q. Nil text fields count as empty.
func ScoreMember(m *models.NetworkMember, q ProcessedQuery) (float64, []string) {
	var t tally

	skills := strings.ToLower(text(m.Skills))
	for _, s := range q.Skills {
		if strings.Contains(skills, strings.ToLower(s)) {
			t.add(weightMemberSkill, fmt.Sprintf("Has %s skills", s))
		}
	}

	location := strings.ToLower(text(m.Location))
	for _, l := range q.Locations {
		if strings.Contains(location, strings.ToLower(l)) {
			t.add(weightMemberLocation, fmt.Sprintf("Located in %s", l))
		}
	}

	pod := strings.ToLower(m.Pod)
	info := strings.ToLower(text(m.AdditionalInfo))
	for _, c := range q.Companies {
		lc := strings.ToLower(c)
		if strings.Contains(pod, lc) || strings.Contains(info, lc) {
			t.add(weightMemberCompany, fmt.Sprintf("Connected to %s", c))
		}
	}

	haystack := strings.ToLower(m.FirstName + " " + m.LastName + " " + text(m.Skills) + " " + text(m.AdditionalInfo))
	if strings.Contains(haystack, q.Processed) {
		t.add(weightTextMatch, reasonTextMatch)
	}

	memberPatterns(&t, m, q.Processed, skills, location, pod, info)
	return t.score, t.reasons
}

// memberPatterns layers the phrase specific bonuses. Each check is
// independent of the others and of the term scoring above.
func memberPatterns(t *tally, m *models.NetworkMember, query, skills, location, pod, info string) {
	if strings.Contains(query, "design") && containsAny(skills, designSkillHints) {
		t.add(bonusDesign, "Expert in graphic design")
	}
	if containsAny(query, bonusCities) && containsAny(location, bonusCities) {
		t.add(bonusCity, fmt.Sprintf("Located in %s", text(m.Location)))
	}
	if (strings.Contains(query, "software engineer") || strings.Contains(query, "mobile")) &&
		containsAny(skills, mobileSkillHints) {
		t.add(bonusMobile, "Mobile development expert")
	}
	if strings.Contains(query, "marketing") && containsAny(skills, marketingSkillHints) {
		t.add(bonusMarketing, "Marketing specialist")
	}
	if strings.Contains(query, "intern") && strings.Contains(info, "intern") {
		t.add(bonusIntern, "Currently interning")
	}
	if strings.Contains(query, "pod") {
		for _, name := range bonusPods {
			if strings.Contains(query, name) && strings.Contains(pod, name) {
				t.add(bonusPod, fmt.Sprintf("Member of %s pod", m.Pod))
			}
		}
	}
}

// ScoreProject rates p against q. Nil text fields count as empty.
func ScoreProject(p *models.Project, q ProcessedQuery) (float64, []string) {
	var t tally

	wanted := strings.ToLower(text(p.WhatAreTheyLookingFor) + " " + text(p.AdditionalInfo))
	for _, s := range q.Skills {
		if strings.Contains(wanted, strings.ToLower(s)) {
			t.add(weightProjectSkill, fmt.Sprintf("Looking for %s skills", s))
		}
	}

	switch {
	case p.Type == models.ProjectStartup && strings.Contains(q.Processed, "startup"):
		t.add(weightProjectType, "Startup project")
	case p.Type == models.ProjectNonprofit && strings.Contains(q.Processed, "nonprofit"):
		t.add(weightProjectType, "Nonprofit project")
	}

	haystack := strings.ToLower(p.Title + " " + text(p.WhatAreTheyLookingFor) + " " + text(p.AdditionalInfo))
	if strings.Contains(haystack, q.Processed) {
		t.add(weightTextMatch, reasonTextMatch)
	}
	return t.score, t.reasons
}

// ScoreOrganization rates o against q. Nil text fields count as empty.
func ScoreOrganization(o *models.Organization, q ProcessedQuery) (float64, []string) {
	var t tally

	name := strings.ToLower(o.Name)
	desc := strings.ToLower(text(o.Description))
	for _, c := range q.Companies {
		lc := strings.ToLower(c)
		if strings.Contains(name, lc) || strings.Contains(desc, lc) {
			t.add(weightOrganizationCompany, fmt.Sprintf("Matches %s", c))
		}
	}

	if strings.Contains(name+" "+desc, q.Processed) {
		t.add(weightTextMatch, reasonTextMatch)
	}
	return t.score, t.reasons
}
