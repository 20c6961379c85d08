package services

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// extractJSON tries to extract JSON from text that might contain markdown or other formatting
func extractJSON(text string) string {
	// Remove markdown code blocks
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")

	// Find JSON object or array boundaries
	startObj := strings.Index(text, "{")
	startArr := strings.Index(text, "[")
	endObj := strings.LastIndex(text, "}")
	endArr := strings.LastIndex(text, "]")

	// Determine if we have an object or array
	if startObj != -1 && endObj != -1 && endObj > startObj {
		// We have a JSON object
		return text[startObj : endObj+1]
	} else if startArr != -1 && endArr != -1 && endArr > startArr {
		// We have a JSON array
		return text[startArr : endArr+1]
	}

	return text
}

func parseJSONResponse(response string, target interface{}) error {
	jsonStr := extractJSON(response)

	if err := json.Unmarshal([]byte(jsonStr), target); err != nil {
		return fmt.Errorf("failed to unmarshal JSON: %w", err)
	}

	return nil
}

var quotedStringPattern = regexp.MustCompile(`"((?:[^"\\]|\\.)+)"`)

// extractQuotedStrings is the last-resort fallback when a response that
// should be a JSON array does not parse: pull every quoted string out
// of the bracket-delimited region instead.
func extractQuotedStrings(text string) []string {
	start := strings.Index(text, "[")
	end := strings.LastIndex(text, "]")
	if start != -1 && end != -1 && end > start {
		text = text[start : end+1]
	}

	matches := quotedStringPattern.FindAllStringSubmatch(text, -1)
	var result []string
	for _, m := range matches {
		s := strings.TrimSpace(m[1])
		s = strings.ReplaceAll(s, `\"`, `"`)
		if s != "" {
			result = append(result, s)
		}
	}
	return result
}
