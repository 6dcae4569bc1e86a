// internal/recommend/handler.go
package recommend

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"movienight-backend/internal/catalog"
	commonerrors "movienight-backend/internal/common/errors"
	"movienight-backend/internal/common/logger"
	"movienight-backend/internal/common/metrics"
	"movienight-backend/internal/common/observability"
	"movienight-backend/internal/common/openai"
	"movienight-backend/internal/models"
)

// Handler turns a RecommendationRequest into a RecommendationResponse by
// running the embed -> search -> justify pipeline. Each invocation is
// stateless apart from the injected store, AI client, and cache.
type Handler struct {
	config *Config
	store  catalog.Store
	ai     openai.Client
	cache  *ResponseCache
	obs    *observability.Observability
	logger logger.Logger
}

func NewHandler(config *Config, store catalog.Store, ai openai.Client, cache *ResponseCache, obs *observability.Observability, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		store:  store,
		ai:     ai,
		cache:  cache,
		obs:    obs,
		logger: log.With(map[string]interface{}{"handler": "recommendations"}),
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "Method not allowed"})
		return
	}

	requestID := uuid.New().String()
	log := h.logger.With(map[string]interface{}{"requestId": requestID})

	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "could not read request body"})
		return
	}

	if err := ValidateRequestBody(body); err != nil {
		log.Warn("request rejected", map[string]interface{}{"error": err.Error()})
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	var req models.RecommendationRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	// Advisory only: a mismatched count is processed as-is.
	if req.NumberOfPeople.Int() != len(req.AllAnswers) {
		log.Warn("numberOfPeople does not match answer count", map[string]interface{}{
			"numberOfPeople": req.NumberOfPeople.Int(),
			"answers":        len(req.AllAnswers),
		})
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.config.Timeout)
	defer cancel()

	start := time.Now()
	resp, err := h.recommend(ctx, &req, log)
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}

	metrics.RecommendationRequests.WithLabelValues(outcome).Inc()
	metrics.RecommendationDuration.WithLabelValues(outcome).Observe(time.Since(start).Seconds())
	if h.obs != nil {
		h.obs.RecordRequest(ctx, outcome)
		h.obs.RecordDuration(ctx, time.Since(start), outcome)
	}

	if err != nil {
		log.Error("recommendation pipeline failed", map[string]interface{}{
			"error":    err.Error(),
			"duration": time.Since(start).String(),
		})
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: errorMessage(err)})
		return
	}

	log.Info("recommendation served", map[string]interface{}{
		"matches":  len(resp.AllMatches),
		"duration": time.Since(start).String(),
	})
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) recommend(ctx context.Context, req *models.RecommendationRequest, log logger.Logger) (*models.RecommendationResponse, error) {
	summary := BuildPreferenceSummary(req.AllAnswers)
	queryText := BuildQueryText(req.NumberOfPeople.Int(), req.Duration.Int(), summary)
	cacheKey := CacheKey(queryText)

	if cached, ok := h.cache.Get(ctx, cacheKey); ok {
		log.Info("served from cache", map[string]interface{}{"key": cacheKey})
		return cached, nil
	}

	queryEmbedding, err := h.ai.Embed(ctx, queryText)
	if err != nil {
		metrics.PipelineStageFailures.WithLabelValues("embed").Inc()
		return nil, commonerrors.NewEmbeddingFailedError(err)
	}

	matches, err := h.store.Search(ctx, queryEmbedding, h.config.MatchThreshold, h.config.MatchCount)
	if err != nil {
		metrics.PipelineStageFailures.WithLabelValues("search").Inc()
		return nil, commonerrors.NewVectorSearchFailedError(err)
	}
	if matches == nil {
		matches = []models.MovieMatch{}
	}

	movieList := BuildCandidateList(matches)
	explanation, err := h.ai.Complete(ctx, systemPrompt, BuildUserPrompt(summary, req.Duration.Int(), movieList))
	if err != nil {
		metrics.PipelineStageFailures.WithLabelValues("complete").Inc()
		return nil, commonerrors.NewCompletionFailedError(err)
	}

	var top *models.MovieMatch
	if len(matches) > 0 {
		top = &matches[0]
	}

	resp := &models.RecommendationResponse{
		Recommendations: []models.RecommendationPick{models.PickFromMatch(top)},
		Explanation:     explanation,
		AllMatches:      matches,
	}

	h.cache.Put(ctx, cacheKey, resp)

	return resp, nil
}

// errorMessage exposes the standard error's message to the caller; the
// underlying cause stays in the server-side logs.
func errorMessage(err error) string {
	if stdErr, ok := err.(*commonerrors.StandardError); ok {
		return stdErr.Message
	}
	return "internal error"
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
