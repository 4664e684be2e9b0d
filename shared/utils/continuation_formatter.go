package utils

import (
	"fmt"
	"strings"

	"github.com/Buchara777/AI-Adventure/shared/models"
)

const emptyHistoryPlaceholder = "This is the beginning of the adventure."

// FormatInputForContinuation formats the play history and the player's action
// into the user prompt of a continuation call. Text is interpolated verbatim.
func FormatInputForContinuation(history []models.Turn, action string) string {
	var sb strings.Builder

	sb.WriteString("---\n")
	sb.WriteString("Story so far:\n")
	if len(history) == 0 {
		sb.WriteString(emptyHistoryPlaceholder)
	} else {
		for i, turn := range history {
			if i > 0 {
				sb.WriteString("\n\n")
			}
			sb.WriteString(fmt.Sprintf("Previous action: %s\nResult: %s", turn.Action, turn.Story))
		}
	}
	sb.WriteString("\n---\n")
	sb.WriteString(fmt.Sprintf("Current player action: %s\n", action))
	sb.WriteString("---\n")
	sb.WriteString("Continue the story. Describe what happens next and suggest three possible actions for the player.")

	return sb.String()
}
