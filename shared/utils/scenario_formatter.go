package utils

import (
	"fmt"
	"strings"
)

// FormatInputForScenario builds the prompt asking for a starting condition.
// A blank hint asks for a random dark-fantasy opening.
func FormatInputForScenario(hint string) string {
	hint = strings.TrimSpace(hint)
	if hint == "" {
		return "Come up with a random, interesting and short starting condition (1-2 sentences) for a dark fantasy text adventure game. The answer must be without any prefixes or explanations."
	}
	return fmt.Sprintf("Generate a starting condition for a text adventure game based on this: \"%s\". The answer must be one or two sentences, without any prefixes or explanations.", hint)
}
