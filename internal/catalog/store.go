// internal/catalog/store.go
package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"sort"

	"github.com/lib/pq"

	"movienight-backend/internal/common/logger"
	"movienight-backend/internal/models"
)

// Store is the movie catalog persistence and similarity search surface.
type Store interface {
	// Insert persists one catalog record with its embedding.
	Insert(ctx context.Context, record models.MovieRecord) error

	// Search returns the catalog entries most similar to the query vector,
	// descending by similarity, excluding anything below threshold and
	// capped at limit. Tie order is stable for a given catalog state.
	Search(ctx context.Context, queryEmbedding []float64, threshold float64, limit int) ([]models.MovieMatch, error)
}

// PostgresStore implements Store on a movies table whose embedding column
// is a double precision array. Similarity is ranked in-process: the catalog
// is small enough that a dense scan beats maintaining an index.
type PostgresStore struct {
	db     *sql.DB
	logger logger.Logger
}

func NewPostgresStore(db *sql.DB, log logger.Logger) *PostgresStore {
	return &PostgresStore{
		db:     db,
		logger: log.With(map[string]interface{}{"component": "movie-store"}),
	}
}

const insertMovieQuery = `
	INSERT INTO movies (title, year, rating, duration, score, description, embedding)
	VALUES ($1, $2, $3, $4, $5, $6, $7)`

func (s *PostgresStore) Insert(ctx context.Context, record models.MovieRecord) error {
	_, err := s.db.ExecContext(ctx, insertMovieQuery,
		record.Title,
		record.Year,
		record.Rating,
		record.Duration,
		record.Score,
		record.Description,
		pq.Array(record.Embedding),
	)
	if err != nil {
		return fmt.Errorf("insert movie %q: %w", record.Title, err)
	}
	return nil
}

const selectMoviesQuery = `
	SELECT title, year, rating, duration, score, description, embedding
	FROM movies
	ORDER BY id`

func (s *PostgresStore) Search(ctx context.Context, queryEmbedding []float64, threshold float64, limit int) ([]models.MovieMatch, error) {
	rows, err := s.db.QueryContext(ctx, selectMoviesQuery)
	if err != nil {
		return nil, fmt.Errorf("query movies: %w", err)
	}
	defer rows.Close()

	var matches []models.MovieMatch
	for rows.Next() {
		var record models.MovieRecord
		var embedding pq.Float64Array
		if err := rows.Scan(
			&record.Title,
			&record.Year,
			&record.Rating,
			&record.Duration,
			&record.Score,
			&record.Description,
			&embedding,
		); err != nil {
			return nil, fmt.Errorf("scan movie row: %w", err)
		}

		similarity := cosineSimilarity(queryEmbedding, []float64(embedding))
		if similarity < threshold {
			continue
		}

		matches = append(matches, models.MovieMatch{
			Title:       record.Title,
			Year:        record.Year,
			Rating:      record.Rating,
			Duration:    record.Duration,
			Score:       record.Score,
			Description: record.Description,
			Similarity:  similarity,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate movie rows: %w", err)
	}

	// Stable sort keeps ties in table order across identical catalogs.
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Similarity > matches[j].Similarity
	})

	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}

	s.logger.Debug("similarity search completed", map[string]interface{}{
		"matches":   len(matches),
		"threshold": threshold,
	})

	return matches, nil
}

func cosineSimilarity(a, b []float64) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
