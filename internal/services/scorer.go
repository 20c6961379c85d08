package services

import (
	"context"
	"log"
	"strings"

	"talentgrid/mock-interview/internal/models"
)

// scoringFlags are substrings in the model's own analysis that force a
// question's score to 0 regardless of the score the model assigned.
var scoringFlags = []string{
	"no answer provided",
	"nonsensical",
	"off-topic",
	"irrelevant",
	"incorrect",
	"incomplete",
}

const degradedSummary = "Scoring could not be completed for this round; all answers were recorded with a zero score."

const noSummaryText = "No summary provided."

// AnswerScorer scores one whole round with a single completion request.
// It never fails: an unusable response degrades to an all-zero result
// so the round is never left unscored.
type AnswerScorer interface {
	Score(ctx context.Context, roundName, specialization string, pairs []QAPair, conversation []ChatMessage) models.RoundResult
}

type answerScorer struct {
	llm           GeminiService
	promptBuilder *PromptBuilder
}

func NewAnswerScorer(llm GeminiService) AnswerScorer {
	return &answerScorer{
		llm:           llm,
		promptBuilder: NewPromptBuilder(),
	}
}

// scoringResponse is the JSON shape the model is asked to return.
type scoringResponse struct {
	OverallScore    int                     `json:"overall_score"`
	RoundSummary    string                  `json:"round_summary"`
	QuestionDetails []models.QuestionDetail `json:"question_details"`
}

// Score implements AnswerScorer.
func (s *answerScorer) Score(ctx context.Context, roundName, specialization string, pairs []QAPair, conversation []ChatMessage) models.RoundResult {
	prompt := s.promptBuilder.BuildScoringPrompt(roundName, specialization, pairs)

	messages := append(append([]ChatMessage{}, conversation...), ChatMessage{Role: RoleUser, Content: prompt})

	response, err := s.llm.GenerateChat(ctx, messages, 0.3)
	if err != nil {
		log.Printf("⚠️  Scoring call failed for round %s: %v\n", roundName, err)
		return degradedResult(pairs)
	}

	var parsed scoringResponse
	if err := parseJSONResponse(response, &parsed); err != nil {
		log.Printf("⚠️  Failed to parse scoring response for round %s: %v\n", roundName, err)
		return degradedResult(pairs)
	}

	return postProcess(roundName, pairs, parsed)
}

// postProcess matches the model's question details back to the ordered
// input, forces zero scores on detectably bad answers, and recomputes
// the overall score locally. The model's own overall_score is never
// trusted verbatim.
func postProcess(roundName string, pairs []QAPair, parsed scoringResponse) models.RoundResult {
	byQuestion := make(map[string]models.QuestionDetail, len(parsed.QuestionDetails))
	for _, detail := range parsed.QuestionDetails {
		key := normalizeQuestion(detail.Question)
		if _, exists := byQuestion[key]; !exists {
			byQuestion[key] = detail
		}
	}

	details := make([]models.QuestionDetail, 0, len(pairs))
	total := 0
	for _, pair := range pairs {
		detail, found := byQuestion[normalizeQuestion(pair.Question)]
		if !found {
			log.Printf("⚠️  Scoring response for round %s is missing question %q, scoring it 0\n", roundName, pair.Question)
			detail = models.QuestionDetail{
				Question: pair.Question,
				Answer:   pair.Answer,
				Score:    0,
				Analysis: "No assessment was returned for this question.",
			}
		}

		detail.Question = pair.Question
		detail.Answer = pair.Answer
		detail.Score = clampScore(detail.Score)

		if shouldForceZero(pair.Answer, detail.Analysis) {
			detail.Score = 0
		}

		total += detail.Score
		details = append(details, detail)
	}

	overall := 0
	if len(details) > 0 {
		overall = total / len(details)
	}

	summary := strings.TrimSpace(parsed.RoundSummary)
	if summary == "" {
		summary = noSummaryText
	}

	return models.RoundResult{
		OverallScore: overall,
		Summary:      summary,
		Questions:    details,
	}
}

func degradedResult(pairs []QAPair) models.RoundResult {
	details := make([]models.QuestionDetail, 0, len(pairs))
	for _, pair := range pairs {
		details = append(details, models.QuestionDetail{
			Question: pair.Question,
			Answer:   pair.Answer,
			Score:    0,
			Analysis: "Scoring unavailable.",
		})
	}
	return models.RoundResult{
		OverallScore: 0,
		Summary:      degradedSummary,
		Questions:    details,
	}
}

func shouldForceZero(answer, analysis string) bool {
	if strings.TrimSpace(answer) == "" || answer == noAnswerText {
		return true
	}
	lowered := strings.ToLower(analysis)
	for _, flag := range scoringFlags {
		if strings.Contains(lowered, flag) {
			return true
		}
	}
	return false
}

// normalizeQuestion lowercases and collapses whitespace so details can
// be matched back to the input by exact text.
func normalizeQuestion(q string) string {
	return strings.Join(strings.Fields(strings.ToLower(q)), " ")
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
