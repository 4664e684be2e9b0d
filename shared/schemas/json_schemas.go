package schemas

import (
	"github.com/sashabaranov/go-openai/jsonschema"
)

// ContinuationSchemaName is the schema name sent with response_format.json_schema.
const ContinuationSchemaName = "story_continuation"

// ContinuationSchema returns the structured-output schema of a continuation reply:
// a story segment and the suggested player actions, both required.
func ContinuationSchema() *jsonschema.Definition {
	return &jsonschema.Definition{
		Type:        jsonschema.Object,
		Description: "Continuation of an interactive story.",
		Properties: map[string]jsonschema.Definition{
			"story": {
				Type:        jsonschema.String,
				Description: "What happens next, 3-4 sentences.",
			},
			"choices": {
				Type:        jsonschema.Array,
				Description: "Exactly three short actions the player can take next.",
				Items:       &jsonschema.Definition{Type: jsonschema.String},
			},
		},
		Required:             []string{"story", "choices"},
	}
}
