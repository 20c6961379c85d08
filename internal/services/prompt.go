package services

import (
	"fmt"
	"strings"

	"talentgrid/mock-interview/internal/models"
)

type PromptBuilder struct{}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

// QAPair is one question together with the answer the candidate gave.
type QAPair struct {
	Question string
	Answer   string
}

// BuildQuestionGenerationPrompt creates the prompt for generating one
// round's question list. The response must be a JSON array of exactly
// count strings; anything else is handled by the caller's fallbacks.
func (pb *PromptBuilder) BuildQuestionGenerationPrompt(round models.Round, count int, position, experience, ragContext string) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("You are an expert interviewer preparing a mock interview for a %s position.\n\n", position))

	if experience != "" {
		sb.WriteString("CANDIDATE BACKGROUND (from resume):\n")
		sb.WriteString(experience)
		sb.WriteString("\n\n")
	}

	if ragContext != "" {
		sb.WriteString("RELEVANT CONTEXT:\n")
		sb.WriteString(ragContext)
		sb.WriteString("\n\n")
	}

	switch round.Kind {
	case models.RoundCommunication:
		sb.WriteString(fmt.Sprintf("Generate exactly %d communication and behavioral interview questions. Focus on teamwork, conflict resolution, and the candidate's ability to explain past work clearly.\n", count))
	case models.RoundPsychometric:
		sb.WriteString(fmt.Sprintf("Generate exactly %d psychometric interview questions probing personality, motivation, decision making under pressure, and work preferences.\n", count))
	case models.RoundTechnical:
		sb.WriteString(fmt.Sprintf("Generate exactly %d technical interview questions about %s, calibrated to the candidate's experience level shown in the background above.\n", count, round.Specialization))
	case models.RoundCoding:
		switch round.Name {
		case models.StagePredictOutput:
			sb.WriteString(fmt.Sprintf("Generate exactly %d short code snippets (any mainstream language the candidate knows) and ask the candidate to predict the program output. Include the full snippet in the question text.\n", count))
		case models.StageFixError:
			sb.WriteString(fmt.Sprintf("Generate exactly %d short buggy code snippets and ask the candidate to identify and fix the error. Include the full snippet in the question text.\n", count))
		case models.StageWriteProgram:
			sb.WriteString(fmt.Sprintf("Generate exactly %d small programming problems the candidate should solve by writing a short program. State the problem precisely, with input and output expectations.\n", count))
		}
	}

	sb.WriteString("\nReturn ONLY a JSON array of exactly ")
	sb.WriteString(fmt.Sprintf("%d", count))
	sb.WriteString(" strings, one question per element. No markdown, no numbering, no commentary.\n")
	sb.WriteString(`Example: ["First question?", "Second question?"]`)

	return sb.String()
}

// BuildScoringPrompt creates the single per-round scoring request. The
// model's verdict is advisory: scores are recomputed and corrected
// locally before anything is stored.
func (pb *PromptBuilder) BuildScoringPrompt(roundName, specialization string, pairs []QAPair) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("You are an expert interview assessor scoring the %q round of a mock interview", roundName))
	if specialization != "" {
		sb.WriteString(fmt.Sprintf(" (topic: %s)", specialization))
	}
	sb.WriteString(".\n\nQUESTIONS AND ANSWERS:\n")

	for i, qa := range pairs {
		sb.WriteString(fmt.Sprintf("%d. Question: %s\n", i+1, qa.Question))
		sb.WriteString(fmt.Sprintf("   Answer: %s\n\n", qa.Answer))
	}

	sb.WriteString(`Score every question from 0 to 100. Give 0 for empty, nonsensical, off-topic or irrelevant answers and say so explicitly in the analysis.

Return ONLY the following JSON, no markdown:
{
  "overall_score": <0-100 integer>,
  "round_summary": "<2-4 sentence qualitative summary of the round>",
  "question_details": [
    {"question": "<question text exactly as given>", "answer": "<answer text>", "score": <0-100>, "analysis": "<1-2 sentence analysis>"}
  ]
}
Include one question_details entry per question, in the same order as above.`)

	return sb.String()
}

// BuildLanguageProficiencyPrompt creates the final request assessing
// spoken-language proficiency over the whole transcript. It is sent as
// the last turn of the replayed conversation.
func (pb *PromptBuilder) BuildLanguageProficiencyPrompt() string {
	return `The interview is now over. Based on every answer the candidate gave above, assess their language proficiency: grammar, vocabulary, clarity and coherence.

Return ONLY the following JSON, no markdown:
{
  "language_score": <0-100 integer>,
  "narrative": "<3-5 sentence assessment of the candidate's language proficiency>"
}`
}

// BuildRetrievalQuery creates the query text used to fetch round
// context from the vector store.
func (pb *PromptBuilder) BuildRetrievalQuery(round models.Round, position string) string {
	switch round.Kind {
	case models.RoundTechnical:
		return fmt.Sprintf("%s experience and projects relevant to a %s role", round.Specialization, position)
	case models.RoundCoding:
		return fmt.Sprintf("programming languages, coding projects and tools used by a %s candidate", position)
	default:
		return fmt.Sprintf("work history, communication and team experience of a %s candidate", position)
	}
}

// FormatRAGContext formats retrieved chunks for prompt injection.
func FormatRAGContext(results []SearchResult) string {
	if len(results) == 0 {
		return ""
	}

	var sb strings.Builder
	for i, r := range results {
		sb.WriteString(fmt.Sprintf("--- Context %d (relevance: %.2f) ---\n", i+1, r.Score))
		sb.WriteString(r.Text)
		sb.WriteString("\n\n")
	}
	return sb.String()
}
