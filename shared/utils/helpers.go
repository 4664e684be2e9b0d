package utils

import (
	"strings"
	"unicode/utf8"
)

// CastToStringSlice преобразует срез interface{} в срез string.
// Элементы, которые не являются строками, игнорируются.
func CastToStringSlice(slice []interface{}) []string {
	stringSlice := make([]string, 0, len(slice))
	for _, v := range slice {
		if s, ok := v.(string); ok {
			stringSlice = append(stringSlice, s)
		}
	}
	return stringSlice
}

// ExtractJSONObject returns the JSON object candidate inside a model reply.
// A reply that already starts with '{' and ends with '}' is returned trimmed.
// Otherwise the widest span from the first '{' to the last '}' is returned.
// The second result is false when no such span exists.
func ExtractJSONObject(rawText string) (string, bool) {
	trimmed := strings.TrimSpace(rawText)
	if strings.HasPrefix(trimmed, "{") && strings.HasSuffix(trimmed, "}") {
		return trimmed, true
	}

	firstBrace := strings.Index(trimmed, "{")
	lastBrace := strings.LastIndex(trimmed, "}")
	if firstBrace == -1 || lastBrace <= firstBrace {
		return "", false
	}
	return trimmed[firstBrace : lastBrace+1], true
}

// StringShort обрезает строку до указанной максимальной длины в рунах,
// добавляя многоточие, если строка была обрезана.
func StringShort(s string, maxLen int) string {
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return "..."
	}
	runes := []rune(s)
	return string(runes[:maxLen-3]) + "..."
}
