package match

import "strings"

// ProcessedQuery is the structured reading of one raw query. It is built once
// per search call and never persisted.
type ProcessedQuery struct {
	Original  string   `json:"original"`
	Processed string   `json:"processed"`
	Intent    Intent   `json:"intent"`
	Skills    []string `json:"skills"`
	Locations []string `json:"locations"`
	Companies []string `json:"companies"`
	Projects  []string `json:"projects"`
	Pods      []string `json:"pods"`
}

// Merge returns a copy of q with extra terms appended. Extra values are
// lower-cased, skills are de-duplicated again and the intent is left as is.
func (q ProcessedQuery) Merge(skills, locations, companies []string) ProcessedQuery {
	out := q
	out.Skills = dedup(append(clone(q.Skills), lower(skills)...))
	out.Locations = append(clone(q.Locations), lower(locations)...)
	out.Companies = append(clone(q.Companies), lower(companies)...)
	out.Projects = clone(q.Projects)
	out.Pods = clone(q.Pods)
	return out
}

// ProcessorOption configures a Processor.
type ProcessorOption func(*Processor)

// WithLegacyCatchAll adds the empty string to the project trigger phrases.
// Every query that is not person seeking then classifies as find_project,
// which is how the first version of the directory behaved.
func WithLegacyCatchAll() ProcessorOption {
	return func(p *Processor) {
		p.projectPhrases = append(clone(p.projectPhrases), "")
	}
}

// Processor turns raw text into a ProcessedQuery. It is safe for concurrent use.
type Processor struct {
	projectPhrases []string
}

func NewProcessor(opts ...ProcessorOption) *Processor {
	p := &Processor{projectPhrases: projectPhrases}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Process extracts lexicon terms from query and classifies its intent.
func (p *Processor) Process(query string) ProcessedQuery {
	processed := strings.ToLower(query)

	var skills []string
	for _, cat := range skillCategories {
		if containsAny(processed, cat.keywords) {
			skills = append(skills, cat.keywords...)
		}
	}

	q := ProcessedQuery{
		Original:  query,
		Processed: processed,
		Skills:    dedup(skills),
		Locations: collect(processed, locationNames),
		Companies: collect(processed, companyAliases),
		Projects:  collect(processed, projectKeywords),
		Pods:      collect(processed, podKeywords),
	}
	q.Intent = p.classify(q)
	return q
}

// classify walks the priority list; the first rule that fires wins.
func (p *Processor) classify(q ProcessedQuery) Intent {
	s := q.Processed
	switch {
	case containsAny(s, personPhrases):
		return IntentFindPerson
	case containsAny(s, p.projectPhrases) || len(q.Projects) > 0:
		return IntentFindProject
	case containsAny(s, organizationPhrases) || len(q.Companies) > 0:
		return IntentFindOrganization
	case len(q.Locations) > 0 || containsAny(s, locationPhrases):
		return IntentLocationBased
	case containsAny(s, podPhrases):
		return IntentPodBased
	case len(q.Skills) > 0:
		return IntentSkillBased
	}
	return IntentGeneral
}

// collect returns every table entry found in s, in table order. Repeated
// table entries are returned repeatedly.
func collect(s string, table []string) []string {
	out := []string{}
	for _, term := range table {
		if strings.Contains(s, term) {
			out = append(out, term)
		}
	}
	return out
}

// dedup keeps the first occurrence of each value.
func dedup(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, v := range in {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

func lower(in []string) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		v = strings.ToLower(strings.TrimSpace(v))
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}

func clone(in []string) []string {
	out := make([]string, len(in))
	copy(out, in)
	return out
}
