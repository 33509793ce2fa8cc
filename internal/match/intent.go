package match

import (
	"encoding/json"
	"fmt"
)

// Intent is the coarse category of what a query is looking for.
type Intent int

const (
	IntentGeneral Intent = iota
	IntentFindPerson
	IntentFindProject
	IntentFindOrganization
	IntentLocationBased
	IntentPodBased
	IntentSkillBased
)

var intentNames = map[Intent]string{
	IntentGeneral:          "general",
	IntentFindPerson:       "find_person",
	IntentFindProject:      "find_project",
	IntentFindOrganization: "find_organization",
	IntentLocationBased:    "location_based",
	IntentPodBased:         "pod_based",
	IntentSkillBased:       "skill_based",
}

// Intents lists every intent in declaration order.
func Intents() []Intent {
	return []Intent{
		IntentGeneral, IntentFindPerson, IntentFindProject, IntentFindOrganization,
		IntentLocationBased, IntentPodBased, IntentSkillBased,
	}
}

func (i Intent) String() string {
	if n, ok := intentNames[i]; ok {
		return n
	}
	return fmt.Sprintf("intent(%d)", int(i))
}

// ParseIntent maps a wire name such as "find_person" back to an Intent.
func ParseIntent(s string) (Intent, error) {
	for i, n := range intentNames {
		if n == s {
			return i, nil
		}
	}
	return IntentGeneral, fmt.Errorf("%w: %q", ErrUnknownIntent, s)
}

func (i Intent) MarshalJSON() ([]byte, error) {
	return json.Marshal(i.String())
}

func (i *Intent) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	v, err := ParseIntent(s)
	if err != nil {
		return err
	}
	*i = v
	return nil
}

// Scans reports which entity kinds are scored for the intent. General runs
// all three scorers; pod based queries are answered with members.
func (i Intent) Scans() (members, projects, organizations bool) {
	switch i {
	case IntentFindPerson, IntentSkillBased, IntentLocationBased, IntentPodBased:
		return true, false, false
	case IntentFindProject:
		return false, true, false
	case IntentFindOrganization:
		return false, false, true
	default:
		return true, true, true
	}
}
