package match

import "strings"

// The tables below are read-only after package initialization. Order is
// significant: extraction walks them front to back, which fixes the order of
// the extracted lists and therefore of match reasons.

// skillCategory groups synonymous keywords. A hit on any one keyword pulls
// the whole list into the processed query.
type skillCategory struct {
	name     string
	keywords []string
}

var skillCategories = []skillCategory{
	{"design", []string{
		"graphic design", "design", "logo", "branding", "visual design", "ui/ux",
		"social media graphics", "marketing materials", "brand identity", "graphic",
	}},
	{"marketing", []string{
		"marketing", "social media", "content creation", "brand strategy",
		"growth marketing", "digital marketing", "customer acquisition", "cmo",
	}},
	{"development", []string{
		"software engineer", "developer", "mobile", "react native", "ios", "android",
		"full stack", "web dev", "web development", "react", "node.js", "python",
		"postgresql", "javascript", "database design",
	}},
	{"startup", []string{
		"startup", "founder", "mvp", "dashboard", "pitch", "business strategy",
		"product management", "user research", "growth hacking",
	}},
	{"fintech", []string{
		"fintech", "blockchain", "financial services", "venture capital",
		"financial modeling", "data analysis",
	}},
	{"education", []string{
		"teaching", "mentoring", "essay review", "education", "content creation",
	}},
	{"creative", []string{
		"video editing", "music", "presentations", "soft skills", "illustration",
	}},
	{"technical", []string{
		"engineering", "math", "cad", "data analysis", "market research",
	}},
	{"languages", []string{
		"foreign languages", "networking", "communication",
	}},
	{"transferable", []string{
		"critical", "thinking", "hustler", "hacker", "hipster",
	}},
}

// locationNames keeps its repeated entries; each repeat is extracted again
// and scored again.
var locationNames = []string{
	"boston", "toronto", "canada", "san francisco", "bay area", "new york",
	"new york city", "nyc", "seattle", "houston", "austin", "ghana", "africa",
	"south america", "north america", "asia", "australia", "oceania", "europe",
	"los angeles", "chicago", "denver", "california", "texas", "massachusetts",
	"united states", "usa", "türkiye", "turkiye", "turkey", "israel",
	"south korea", "korea", "singapore", "silicon valley", "hong kong", "dubai",
	"finland", "arizona", "tucson", "india", "mumbai", "lexington", "kentucky",
	"hollywood", "california", "dallas", "brooklyn", "los angeles", "calgary",
	"alberta", "colorado", "georgia", "portland", "united kingdom", "qatar",
	"philadelphia", "honduras", "florida", "washington", "poland", "nepal",
	"san jose", "colombia", "azerbaijan", "maryland", "ontario", "instanbul",
	"spain", "chicago", "illinois", "france", "nigeria", "united arab emirates",
	"uae", "germany", "bangladesh", "pakistan", "vancouver",
}

var companyAliases = []string{
	"amplify", "amplify institute", "internship", "rove", "rove miles",
	"nyx ventures", "touchpoint legal", "touchpoint", "touch point",
	"docubridge", "docu bridge", "edubeyond", "salespatriot", "sales patriot",
	"sale patriot", "scout", "scoutout", "scout out", "teachshare", "teach share",
	"exeter", "exeter22", "vanguard defense", "vanguard", "rayfield",
	"rayfield systems", "reachfaster ai", "reachfaster", "reach faster ai",
	"reach faster",
}

var projectKeywords = []string{
	"startup", "project", "nonprofit", "dashboard", "platform", "app", "website",
	"proposal",
}

var podKeywords = []string{
	"pod", "pod of", "in the pod", "reddit", "spacex", "canva", "zoom", "netflix",
	"stripe", "asana", "airbnb", "cloudflare", "openai", "snapchat", "doordash",
	"duolingo", "uber", "twilio", "nvidia", "zillow", "square", "okta",
	"databricks", "shopify", "robinhood",
}

// Intent trigger phrases.
var (
	personPhrases = []string{
		"who", "anyone", "people", "person", "someone", "know anyone",
		"find someone", "looking for someone", "need someone", "partner",
		"co-founder", "cofounder", "co founder", "someone else", "cracked", "mate",
	}
	projectPhrases = []string{
		"startup", "project", "nonprofit", "looking to join", "best startups",
		"best nonprofits", "interested in joining", "company",
	}
	organizationPhrases = []string{
		"company", "organization", "pod", "intern at", "working at",
	}
	// "in [location]" is a template that was never expanded; it only matches
	// the literal text.
	locationPhrases = []string{
		"in [location]", "based in", "located in", "anyone in",
	}
	podPhrases = []string{
		"in", "anyone in [pod]", "in pod", "pod of",
	}
)

// Secondary pattern tables used by the member scorer.
var (
	designSkillHints    = []string{"design", "graphic", "logo", "branding"}
	bonusCities         = []string{"boston", "toronto", "san francisco", "new york"}
	mobileSkillHints    = []string{"mobile", "ios", "android", "react native"}
	marketingSkillHints = []string{"marketing", "social media", "content creation"}
	bonusPods           = []string{"stripe", "zoom", "google", "microsoft"}
)

type suggestionTopic struct {
	triggers    []string
	suggestions []string
}

var suggestionTopics = []suggestionTopic{
	{
		triggers: []string{"design"},
		suggestions: []string{
			"do you know any people who are really good with graphic design?",
			"looking for designers for logo and social media work",
			"need someone with UI/UX design skills",
		},
	},
	{
		triggers: []string{"startup"},
		suggestions: []string{
			"I've been thinking about a startup idea and want to see if anyone here might be interested in joining!",
			"looking for startup founders to collaborate with",
			"need developers for my startup project",
		},
	},
	{
		triggers: []string{"location", "boston", "toronto", "new york"},
		suggestions: []string{
			"Anyone in Boston rn?",
			"looking for people in Toronto for coffee meetings",
			"need local collaborators in New York",
		},
	},
	{
		triggers: []string{"developer", "engineer"},
		suggestions: []string{
			"Does anyone know of a software engineer familiar with mobile apps for a startup?",
			"looking for full stack developers",
			"need React developers for a project",
		},
	},
	{
		triggers: []string{"marketing"},
		suggestions: []string{
			"Who would likely be interested in a marketing gig for a startup?",
			"looking for CMO for our startup",
			"need content creators and social media experts",
		},
	},
}

const maxSuggestions = 5

// containsAny reports whether any needle is a substring of s. Both sides are
// expected to be lower case already.
func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}
