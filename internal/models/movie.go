package models

// MovieRecord is one catalog entry. The embedding is computed at seed time
// from "<title>: <description>" and never updated afterwards.
type MovieRecord struct {
	Title       string    `json:"title"`
	Year        int       `json:"year"`
	Rating      string    `json:"rating"`
	Duration    string    `json:"duration"`
	Score       float64   `json:"score"`
	Description string    `json:"description"`
	Embedding   []float64 `json:"embedding,omitempty"`
}

// MovieMatch is a catalog entry returned by the similarity search with its
// similarity to the query vector attached.
type MovieMatch struct {
	Title       string  `json:"title"`
	Year        int     `json:"year"`
	Rating      string  `json:"rating"`
	Duration    string  `json:"duration"`
	Score       float64 `json:"score"`
	Description string  `json:"description"`
	Similarity  float64 `json:"similarity"`
}

// RecommendationPick holds the top match's display fields. All fields are
// pointers so an empty search result renders as nulls instead of failing.
type RecommendationPick struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	Rating      *string  `json:"rating"`
	Year        *int     `json:"year"`
	Duration    *string  `json:"duration"`
	Score       *float64 `json:"score"`
}

// RecommendationResponse is the recommendation endpoint's success payload.
type RecommendationResponse struct {
	Recommendations []RecommendationPick `json:"recommendations"`
	Explanation     string               `json:"explanation"`
	AllMatches      []MovieMatch         `json:"allMatches"`
}

// PickFromMatch builds a RecommendationPick from the top-ranked match.
func PickFromMatch(m *MovieMatch) RecommendationPick {
	if m == nil {
		return RecommendationPick{}
	}
	return RecommendationPick{
		Title:       &m.Title,
		Description: &m.Description,
		Rating:      &m.Rating,
		Year:        &m.Year,
		Duration:    &m.Duration,
		Score:       &m.Score,
	}
}
