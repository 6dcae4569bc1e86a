// internal/catalog/parser.go
package catalog

import (
	"regexp"
	"strconv"
	"strings"

	"movienight-backend/internal/models"
)

// headerPattern matches catalog header lines of the form
// "Title: YYYY | Rating | Duration | Score rating".
var headerPattern = regexp.MustCompile(`^(.+?):\s*(\d{4})\s*\|\s*(\S+)\s*\|\s*(.+?)\s*\|\s*([\d.]+)\s*rating`)

// ParseResult holds the records parsed from a catalog file and the header
// lines of blocks that could not be parsed.
type ParseResult struct {
	Records []models.MovieRecord
	Skipped []string
}

// Parse reads a flat-file catalog: records separated by a blank line, first
// line per record matching headerPattern, remaining lines joined with single
// spaces forming the description. Malformed blocks are dropped, not fatal.
func Parse(content string) ParseResult {
	content = strings.ReplaceAll(content, "\r\n", "\n")

	var result ParseResult
	for _, block := range strings.Split(content, "\n\n") {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}

		lines := strings.Split(block, "\n")
		header := lines[0]

		m := headerPattern.FindStringSubmatch(header)
		if m == nil {
			result.Skipped = append(result.Skipped, header)
			continue
		}

		year, _ := strconv.Atoi(m[2])
		score, _ := strconv.ParseFloat(m[5], 64)

		result.Records = append(result.Records, models.MovieRecord{
			Title:       strings.TrimSpace(m[1]),
			Year:        year,
			Rating:      m[3],
			Duration:    strings.TrimSpace(m[4]),
			Score:       score,
			Description: strings.TrimSpace(strings.Join(lines[1:], " ")),
		})
	}

	return result
}
