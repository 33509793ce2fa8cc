package match

import "strings"

// Suggest returns up to five canned example queries for topics mentioned in
// query, in topic order. It never returns nil.
func Suggest(query string) []string {
	out := []string{}
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return out
	}
	for _, topic := range suggestionTopics {
		if containsAny(q, topic.triggers) {
			out = append(out, topic.suggestions...)
		}
	}
	if len(out) > maxSuggestions {
		out = out[:maxSuggestions]
	}
	return out
}
