// internal/recommend/schema.go
package recommend

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// requestSchema validates the recommendation request body before any
// upstream call is made. numberOfPeople and duration accept numbers or
// numeric strings, matching what the questionnaire client sends.
var requestSchema = map[string]interface{}{
	"type":     "object",
	"required": []string{"numberOfPeople", "duration", "allAnswers"},
	"properties": map[string]interface{}{
		"numberOfPeople": map[string]interface{}{
			"type": []string{"integer", "string"},
		},
		"duration": map[string]interface{}{
			"type": []string{"integer", "string"},
		},
		"allAnswers": map[string]interface{}{
			"type":     "array",
			"minItems": 1,
			"items": map[string]interface{}{
				"type":     "object",
				"required": []string{"person", "favoriteMovie", "newOrClassic", "mood", "islandPerson"},
				"properties": map[string]interface{}{
					"person":        map[string]interface{}{"type": "integer", "minimum": 1},
					"favoriteMovie": map[string]interface{}{"type": "string", "minLength": 1},
					"newOrClassic": map[string]interface{}{
						"type": "string",
						"enum": []string{"new", "classic"},
					},
					"mood": map[string]interface{}{
						"type": "string",
						"enum": []string{"fun", "serious", "inspiring", "scary"},
					},
					"islandPerson": map[string]interface{}{"type": "string", "minLength": 1},
				},
			},
		},
	},
}

// ValidateRequestBody checks the raw request body against requestSchema.
func ValidateRequestBody(body []byte) error {
	schemaLoader := gojsonschema.NewGoLoader(requestSchema)
	documentLoader := gojsonschema.NewBytesLoader(body)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("request validation: %w", err)
	}

	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			msgs = append(msgs, desc.String())
		}
		return fmt.Errorf("invalid request: %s", strings.Join(msgs, "; "))
	}

	return nil
}
