package services

import (
	"regexp"
	"sort"
	"strings"
)

// maxSpecializations caps how many technical rounds a session gets.
const maxSpecializations = 3

type specializationRule struct {
	Name     string
	Keywords []string
}

// specializationRules maps resume keywords to a technical round topic.
// Matching is word-bounded so "java" does not fire on "javascript".
var specializationRules = []specializationRule{
	{"python", []string{"python", "django", "flask", "fastapi", "pandas", "numpy"}},
	{"javascript", []string{"javascript", "typescript", "react", "angular", "vue", "nodejs", "node"}},
	{"java", []string{"java", "spring", "springboot", "hibernate"}},
	{"golang", []string{"golang", "go"}},
	{"databases", []string{"sql", "mysql", "postgresql", "postgres", "mongodb", "redis", "oracle"}},
	{"cloud", []string{"aws", "azure", "gcp", "kubernetes", "docker", "terraform"}},
	{"machine learning", []string{"tensorflow", "pytorch", "scikit", "keras", "nlp", "opencv"}},
	{"mobile", []string{"android", "kotlin", "swift", "flutter", "ios"}},
}

var keywordPatterns = buildKeywordPatterns()

func buildKeywordPatterns() map[string]*regexp.Regexp {
	patterns := make(map[string]*regexp.Regexp)
	for _, rule := range specializationRules {
		for _, kw := range rule.Keywords {
			patterns[kw] = regexp.MustCompile(`\b` + regexp.QuoteMeta(kw) + `\b`)
		}
	}
	return patterns
}

// DetectSpecializations scans the resume text for known skill keywords
// and returns the matched specializations in order of first appearance,
// deduplicated and truncated to maxSpecializations.
func DetectSpecializations(resumeText string) []string {
	text := strings.ToLower(resumeText)

	type match struct {
		name  string
		index int
	}
	var matches []match

	for _, rule := range specializationRules {
		earliest := -1
		for _, kw := range rule.Keywords {
			loc := keywordPatterns[kw].FindStringIndex(text)
			if loc == nil {
				continue
			}
			if earliest == -1 || loc[0] < earliest {
				earliest = loc[0]
			}
		}
		if earliest >= 0 {
			matches = append(matches, match{name: rule.Name, index: earliest})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].index < matches[j].index
	})

	var result []string
	for _, m := range matches {
		result = append(result, m.name)
		if len(result) == maxSpecializations {
			break
		}
	}
	return result
}
