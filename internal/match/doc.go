// Package match implements the rule-based search engine behind the alumni
// directory.
//
// A free-text query flows through three stages:
//   - Processor lower-cases the query, extracts lexicon terms (skills,
//     locations, companies, project and pod keywords) and classifies an Intent.
//   - Score* functions rate one member, project or organization against the
//     ProcessedQuery, returning an additive score and ordered match reasons.
//   - Aggregator scans whole collections, keeps positive scores, sorts them
//     stably by score and caps the combined list.
//
// Suggest returns canned example queries for partial input.
//
// Matching is substring based with no tokenization, so short lexicon terms
// can hit inside longer words ("usa" in "usability", "in" in "marketing").
// The package holds no mutable state beyond an Aggregator's worker pool.
//
// Known departures from the first version of the directory:
//   - "touch point" and "docubridge" are separate company aliases, as are
//     "reach faster ai" and "reach faster". The first version had them fused
//     into "touch pointdocubridge" and "reach faster aireach faster" by missing
//     list separators, so neither half ever matched.
//   - The catch-all project phrase that made every non-person query a project
//     search is off unless WithLegacyCatchAll is given.
package match
