// internal/recommend/handler_test.go
package recommend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"movienight-backend/internal/common/logger"
	"movienight-backend/internal/models"
)

type fakeAI struct {
	embedInputs    []string
	embedErr       error
	embedding      []float64
	completeCalls  int
	completeSystem string
	completeUser   string
	completeErr    error
	explanation    string
}

func (f *fakeAI) Embed(_ context.Context, input string) ([]float64, error) {
	f.embedInputs = append(f.embedInputs, input)
	if f.embedErr != nil {
		return nil, f.embedErr
	}
	return f.embedding, nil
}

func (f *fakeAI) Complete(_ context.Context, system, user string) (string, error) {
	f.completeCalls++
	f.completeSystem = system
	f.completeUser = user
	if f.completeErr != nil {
		return "", f.completeErr
	}
	return f.explanation, nil
}

type stubStore struct {
	searchCalls  int
	gotEmbedding []float64
	gotThreshold float64
	gotLimit     int
	matches      []models.MovieMatch
	searchErr    error
}

func (s *stubStore) Insert(context.Context, models.MovieRecord) error { return nil }

func (s *stubStore) Search(_ context.Context, embedding []float64, threshold float64, limit int) ([]models.MovieMatch, error) {
	s.searchCalls++
	s.gotEmbedding = embedding
	s.gotThreshold = threshold
	s.gotLimit = limit
	return s.matches, s.searchErr
}

func testConfig() *Config {
	return &Config{
		MatchThreshold: 0.5,
		MatchCount:     10,
		Timeout:        5 * time.Second,
	}
}

func newTestHandler(t *testing.T, store *stubStore, ai *fakeAI, cache *ResponseCache) *Handler {
	t.Helper()
	return NewHandler(testConfig(), store, ai, cache, nil, logger.NewTestLogger(t))
}

func validRequestBody() []byte {
	return []byte(`{
		"numberOfPeople": 2,
		"duration": 120,
		"allAnswers": [
			{"person": 1, "favoriteMovie": "Inception", "newOrClassic": "new", "mood": "serious", "islandPerson": "The Matrix"},
			{"person": 2, "favoriteMovie": "Casablanca", "newOrClassic": "classic", "mood": "inspiring", "islandPerson": "Up"}
		]
	}`)
}

func postRecommendation(handler *Handler, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/recommendations", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestHandler_Success(t *testing.T) {
	store := &stubStore{matches: []models.MovieMatch{
		{Title: "Inception", Year: 2010, Rating: "PG-13", Duration: "148 min", Score: 8.8, Description: "Dreams within dreams.", Similarity: 0.91},
		{Title: "The Matrix", Year: 1999, Rating: "R", Duration: "136 min", Score: 8.7, Description: "A hacker learns the truth.", Similarity: 0.84},
	}}
	ai := &fakeAI{embedding: []float64{0.1, 0.2}, explanation: "Inception fits the group's serious mood."}
	handler := newTestHandler(t, store, ai, nil)

	rec := postRecommendation(handler, validRequestBody())

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp models.RecommendationResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	require.Len(t, resp.Recommendations, 1)
	require.NotNil(t, resp.Recommendations[0].Title)
	assert.Equal(t, "Inception", *resp.Recommendations[0].Title)
	assert.Equal(t, "Inception fits the group's serious mood.", resp.Explanation)
	assert.Len(t, resp.AllMatches, 2)

	// Search ran with the embedding and the configured threshold and limit.
	assert.Equal(t, []float64{0.1, 0.2}, store.gotEmbedding)
	assert.Equal(t, 0.5, store.gotThreshold)
	assert.Equal(t, 10, store.gotLimit)

	// The embedding input carries the group header and both preference lines.
	require.Len(t, ai.embedInputs, 1)
	assert.Contains(t, ai.embedInputs[0], "Group of 2 people with 120 minutes to watch. Preferences:")
	assert.Contains(t, ai.embedInputs[0], "Person 1: Favorite movie \"Inception\"")
	assert.Contains(t, ai.embedInputs[0], "Person 2: Favorite movie \"Casablanca\"")

	// The completion saw every candidate.
	assert.Contains(t, ai.completeUser, "- Inception (2010, PG-13, 148 min): Dreams within dreams.")
	assert.Contains(t, ai.completeUser, "- The Matrix (1999, R, 136 min): A hacker learns the truth.")
	assert.Equal(t, systemPrompt, ai.completeSystem)
}

func TestHandler_EmptySearchStillReturns200(t *testing.T) {
	store := &stubStore{matches: nil}
	ai := &fakeAI{embedding: []float64{0.1}, explanation: "Nothing in the catalog fits, try a shorter film."}
	handler := newTestHandler(t, store, ai, nil)

	rec := postRecommendation(handler, validRequestBody())

	require.Equal(t, http.StatusOK, rec.Code)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &raw))
	assert.Equal(t, "[]", string(raw["allMatches"]))

	var resp models.RecommendationResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Recommendations, 1)
	assert.Nil(t, resp.Recommendations[0].Title)
	assert.Nil(t, resp.Recommendations[0].Year)
	assert.NotEmpty(t, resp.Explanation)

	// The completion still ran, with an empty candidate list.
	assert.Equal(t, 1, ai.completeCalls)
}

func TestHandler_MethodNotAllowed(t *testing.T) {
	store := &stubStore{}
	ai := &fakeAI{}
	handler := newTestHandler(t, store, ai, nil)

	for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete, http.MethodPatch} {
		req := httptest.NewRequest(method, "/api/recommendations", nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code, method)
		assert.JSONEq(t, `{"error":"Method not allowed"}`, rec.Body.String(), method)
	}

	// No upstream call was made for any rejected method.
	assert.Empty(t, ai.embedInputs)
	assert.Zero(t, ai.completeCalls)
	assert.Zero(t, store.searchCalls)
}

func TestHandler_InvalidBody(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", "{not json"},
		{"missing allAnswers", `{"numberOfPeople": 2, "duration": 120}`},
		{"answer missing mood", `{"numberOfPeople": 1, "duration": 90, "allAnswers": [{"person": 1, "favoriteMovie": "Up", "newOrClassic": "new", "islandPerson": "Up"}]}`},
		{"bad mood value", `{"numberOfPeople": 1, "duration": 90, "allAnswers": [{"person": 1, "favoriteMovie": "Up", "newOrClassic": "new", "mood": "bored", "islandPerson": "Up"}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &stubStore{}
			ai := &fakeAI{}
			handler := newTestHandler(t, store, ai, nil)

			rec := postRecommendation(handler, []byte(tt.body))

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Empty(t, ai.embedInputs)
			assert.Zero(t, store.searchCalls)
		})
	}
}

func TestHandler_NumericStringFieldsAccepted(t *testing.T) {
	body := []byte(`{
		"numberOfPeople": "1",
		"duration": "90",
		"allAnswers": [
			{"person": 1, "favoriteMovie": "Up", "newOrClassic": "new", "mood": "fun", "islandPerson": "Up"}
		]
	}`)
	ai := &fakeAI{embedding: []float64{0.1}, explanation: "Up it is."}
	handler := newTestHandler(t, &stubStore{}, ai, nil)

	rec := postRecommendation(handler, body)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, ai.embedInputs, 1)
	assert.Contains(t, ai.embedInputs[0], "Group of 1 people with 90 minutes to watch.")
}

func TestHandler_CountMismatchIsProcessed(t *testing.T) {
	body := []byte(`{
		"numberOfPeople": 5,
		"duration": 120,
		"allAnswers": [
			{"person": 1, "favoriteMovie": "Up", "newOrClassic": "new", "mood": "fun", "islandPerson": "Up"}
		]
	}`)
	ai := &fakeAI{embedding: []float64{0.1}, explanation: "Up."}
	handler := newTestHandler(t, &stubStore{}, ai, nil)

	rec := postRecommendation(handler, body)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestHandler_EmbedFailure(t *testing.T) {
	store := &stubStore{}
	ai := &fakeAI{embedErr: errors.New("upstream 503")}
	handler := newTestHandler(t, store, ai, nil)

	rec := postRecommendation(handler, validRequestBody())

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Zero(t, store.searchCalls)
	assert.Zero(t, ai.completeCalls)

	var resp errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Error)
	assert.NotContains(t, resp.Error, "upstream 503")
}

func TestHandler_SearchFailureStopsPipeline(t *testing.T) {
	store := &stubStore{searchErr: errors.New("connection refused")}
	ai := &fakeAI{embedding: []float64{0.1}}
	handler := newTestHandler(t, store, ai, nil)

	rec := postRecommendation(handler, validRequestBody())

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, 1, store.searchCalls)
	// The completion stage never runs after a search failure.
	assert.Zero(t, ai.completeCalls)
}

func TestHandler_CompletionFailure(t *testing.T) {
	store := &stubStore{matches: []models.MovieMatch{{Title: "Up"}}}
	ai := &fakeAI{embedding: []float64{0.1}, completeErr: errors.New("model overloaded")}
	handler := newTestHandler(t, store, ai, nil)

	rec := postRecommendation(handler, validRequestBody())

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, 1, ai.completeCalls)
}

func TestHandler_CacheShortCircuitsPipeline(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()
	cache := NewResponseCache(client, time.Minute, logger.NewTestLogger(t))

	store := &stubStore{matches: []models.MovieMatch{{Title: "Up", Similarity: 0.9}}}
	ai := &fakeAI{embedding: []float64{0.1}, explanation: "Up suits everyone."}
	handler := newTestHandler(t, store, ai, cache)

	first := postRecommendation(handler, validRequestBody())
	require.Equal(t, http.StatusOK, first.Code)

	second := postRecommendation(handler, validRequestBody())
	require.Equal(t, http.StatusOK, second.Code)
	assert.JSONEq(t, first.Body.String(), second.Body.String())

	// The second request never reached the AI or the store.
	assert.Len(t, ai.embedInputs, 1)
	assert.Equal(t, 1, ai.completeCalls)
	assert.Equal(t, 1, store.searchCalls)
}
