// internal/catalog/seeder.go
package catalog

import (
	"context"
	"fmt"
	"os"

	"movienight-backend/internal/common/logger"
	"movienight-backend/internal/common/metrics"
)

// Embedder is the slice of the OpenAI client the seeder needs.
type Embedder interface {
	Embed(ctx context.Context, input string) ([]float64, error)
}

// ResultStatus classifies the outcome for one catalog record.
type ResultStatus string

const (
	StatusInserted ResultStatus = "inserted"
	StatusSkipped  ResultStatus = "skipped"
	StatusFailed   ResultStatus = "failed"
)

// RecordResult is the per-record outcome of a seeding run.
type RecordResult struct {
	Title  string
	Status ResultStatus
	Reason string
}

// Report summarizes one seeding run.
type Report struct {
	Inserted int
	Skipped  int
	Failed   int
	Results  []RecordResult
}

func (r *Report) add(res RecordResult) {
	switch res.Status {
	case StatusInserted:
		r.Inserted++
	case StatusSkipped:
		r.Skipped++
	case StatusFailed:
		r.Failed++
	}
	r.Results = append(r.Results, res)
	metrics.SeederRecords.WithLabelValues(string(res.Status)).Inc()
}

// Seeder loads a flat-file catalog into the store, one embed-and-insert
// round trip per record. A failure on one record never aborts the run.
type Seeder struct {
	store    Store
	embedder Embedder
	logger   logger.Logger
}

func NewSeeder(store Store, embedder Embedder, log logger.Logger) *Seeder {
	return &Seeder{
		store:    store,
		embedder: embedder,
		logger:   log.With(map[string]interface{}{"component": "catalog-seeder"}),
	}
}

// Run parses the catalog file and seeds every parseable record. It returns
// an error only when the file itself cannot be read; everything after that
// is isolated per record and reported in the Report.
func (s *Seeder) Run(ctx context.Context, path string) (*Report, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file %s: %w", path, err)
	}

	parsed := Parse(string(content))
	s.logger.Info("catalog parsed", map[string]interface{}{
		"records": len(parsed.Records),
		"skipped": len(parsed.Skipped),
	})

	report := &Report{}

	for _, header := range parsed.Skipped {
		s.logger.Warn("could not parse catalog block", map[string]interface{}{
			"header": header,
		})
		report.add(RecordResult{
			Title:  header,
			Status: StatusSkipped,
			Reason: "unparseable header line",
		})
	}

	for _, record := range parsed.Records {
		embeddingText := fmt.Sprintf("%s: %s", record.Title, record.Description)

		embedding, err := s.embedder.Embed(ctx, embeddingText)
		if err != nil {
			s.logger.Error("embedding failed", map[string]interface{}{
				"title": record.Title,
				"error": err.Error(),
			})
			report.add(RecordResult{Title: record.Title, Status: StatusFailed, Reason: err.Error()})
			continue
		}
		record.Embedding = embedding

		if err := s.store.Insert(ctx, record); err != nil {
			s.logger.Error("insert failed", map[string]interface{}{
				"title": record.Title,
				"error": err.Error(),
			})
			report.add(RecordResult{Title: record.Title, Status: StatusFailed, Reason: err.Error()})
			continue
		}

		s.logger.Info("inserted", map[string]interface{}{"title": record.Title})
		report.add(RecordResult{Title: record.Title, Status: StatusInserted})
	}

	s.logger.Info("seeding complete", map[string]interface{}{
		"inserted": report.Inserted,
		"skipped":  report.Skipped,
		"failed":   report.Failed,
	})

	return report, nil
}
