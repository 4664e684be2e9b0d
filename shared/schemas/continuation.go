package schemas

import (
	"encoding/json"
	"strings"

	"github.com/Buchara777/AI-Adventure/shared/models"
	"github.com/Buchara777/AI-Adventure/shared/utils"
)

// fallbackChoices pad a reply that suggested fewer actions than models.ChoiceCount.
var fallbackChoices = []string{"Look around", "Move cautiously forward", "Listen for sounds"}

const lastResortChoice = "Pause cautiously"

// NormalizeContinuation turns a raw model reply into a ContinuationResult with
// a non-blank story and exactly models.ChoiceCount choices.
// It fails with a parse error when no JSON object can be decoded and with a
// schema error when the object has no usable story.
func NormalizeContinuation(raw string) (*models.ContinuationResult, error) {
	candidate, ok := utils.ExtractJSONObject(raw)
	if !ok {
		return nil, models.NewParseError("no JSON detected", raw, nil)
	}

	var payload map[string]interface{}
	if err := json.Unmarshal([]byte(candidate), &payload); err != nil {
		return nil, models.NewParseError("parse error", raw, err)
	}

	story, _ := payload["story"].(string)
	story = strings.TrimSpace(story)
	if story == "" {
		return nil, models.NewSchemaError("missing story", raw)
	}

	var choices []string
	if rawChoices, ok := payload["choices"].([]interface{}); ok {
		choices = utils.CastToStringSlice(rawChoices)
	}
	for i := range choices {
		choices[i] = strings.TrimSpace(choices[i])
	}

	return &models.ContinuationResult{
		Story:   story,
		Choices: fitChoices(choices),
	}, nil
}

// fitChoices truncates or pads choices to models.ChoiceCount, preserving order.
func fitChoices(choices []string) []string {
	out := make([]string, 0, models.ChoiceCount)
	for i := 0; i < models.ChoiceCount; i++ {
		switch {
		case i < len(choices):
			out = append(out, choices[i])
		case i < len(fallbackChoices):
			out = append(out, fallbackChoices[i])
		default:
			out = append(out, lastResortChoice)
		}
	}
	return out
}
