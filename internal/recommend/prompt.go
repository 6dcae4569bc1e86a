// internal/recommend/prompt.go
package recommend

import (
	"fmt"
	"strings"

	"movienight-backend/internal/models"
)

const systemPrompt = "You are a movie recommendation assistant. Given user preferences and a list of candidate movies, recommend the best match and explain why it suits the group."

// BuildPreferenceSummary renders every answer as one line, in submission
// order. The output is deterministic for a given answer sequence.
func BuildPreferenceSummary(answers []models.PersonAnswer) string {
	lines := make([]string, 0, len(answers))
	for _, a := range answers {
		lines = append(lines, fmt.Sprintf(
			"Person %d: Favorite movie \"%s\", prefers %s films, mood: %s, island movie: \"%s\"",
			a.Person, a.FavoriteMovie, a.NewOrClassic, a.Mood, a.IslandPerson,
		))
	}
	return strings.Join(lines, "\n")
}

// BuildQueryText prepends the group-size and duration header to the
// preference summary; the result is the single embedding input.
func BuildQueryText(numberOfPeople, duration int, summary string) string {
	return fmt.Sprintf("Group of %d people with %d minutes to watch. Preferences:\n%s",
		numberOfPeople, duration, summary)
}

// BuildCandidateList renders the search results, one line per movie,
// preserving search-result order.
func BuildCandidateList(matches []models.MovieMatch) string {
	lines := make([]string, 0, len(matches))
	for _, m := range matches {
		lines = append(lines, fmt.Sprintf("- %s (%d, %s, %s): %s",
			m.Title, m.Year, m.Rating, m.Duration, m.Description))
	}
	return strings.Join(lines, "\n")
}

// BuildUserPrompt assembles the completion request's user turn.
func BuildUserPrompt(summary string, duration int, movieList string) string {
	return fmt.Sprintf(
		"User preferences:\n%s\n\nTime available: %d minutes\n\nCandidate movies:\n%s\n\nRecommend the best movie for this group and explain why in 2-3 sentences.",
		summary, duration, movieList)
}
