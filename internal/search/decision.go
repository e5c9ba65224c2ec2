// Package search decides when a user query needs live web results and
// fetches them from the Tavily API.
package search

import (
	"regexp"
	"strings"

	"Aria_AI/internal/models"
)

// noSearchPatterns recognize queries the model can answer from its own
// knowledge or from uploaded documents. They are checked before the
// search patterns and win on overlap.
var noSearchPatterns = compileAll([]string{
	`\b(explain|teach me|how does .* work|what is the concept)\b`,
	`\b(write|create|generate|make|code|implement)\b`,
	`\b(translate|summarize|rewrite)\b`,
	`\b(my|our|we|i)\b.*(document|pdf|file|upload)`,
})

// searchPatterns recognize queries about current or factual external
// state: dates, prices, weather, news, scores, upcoming events.
var searchPatterns = compileAll([]string{
	`\b(today|yesterday|this week|this month|this year|202[0-9]|current|latest|recent|now|right now)\b`,
	`\b(what is|what's|what are) .* (price|stock|weather|news|score)\b`,
	`\b(weather|forecast|temperature)\b.*\b(in|at|for)\b`,
	`\b(news|headlines|latest)\b`,
	`\b(stock|share|market|trading)\b.*\b(price|value)\b`,
	`\b(score|result|match|game)\b.*\b(of|between|vs)\b`,
	`\b(when is|when's|when will|when does|what date|exact date)\b`,
	`\b(next|upcoming|scheduled|event|fight|match|game)\b`,
	`\b(ufc|nfl|nba|mlb|premier league|champions league)\b`,
	`\b(who is|who's) the (current|present)\b`,
	`\b(how much|how many|what is) .* (cost|worth|value)\b`,
	`\b(release date|coming out)\b`,
	`\b(search|look up|find|google|check)\b`,
	`\b(tell me about|information about|info on)\b`,
	`\b(what happened|what's happening)\b`,
})

func compileAll(patterns []string) []*regexp.Regexp {
	compiled := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		compiled[i] = regexp.MustCompile(p)
	}
	return compiled
}

// Decide reports whether the query should trigger a web search. Forced
// modes short-circuit the heuristics.
func Decide(query string, mode models.ToolMode) bool {
	switch mode {
	case models.ToolModeSearch:
		return true
	case models.ToolModeNone:
		return false
	}

	q := strings.ToLower(query)
	for _, re := range noSearchPatterns {
		if re.MatchString(q) {
			return false
		}
	}
	for _, re := range searchPatterns {
		if re.MatchString(q) {
			return true
		}
	}
	return false
}
