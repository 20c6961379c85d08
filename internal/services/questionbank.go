package services

import (
	"context"
	"fmt"
	"log"

	"talentgrid/mock-interview/internal/models"
)

// GenerationContext is the structured input for one round's question
// generation request.
type GenerationContext struct {
	CandidateID string
	Position    string
	Experience  string
}

// QuestionGenerator issues one text-completion request per round and
// turns the response into that round's question list. Generation never
// fails a session: any malformed or missing response degrades to zero
// questions, which causes the round to be skipped.
type QuestionGenerator interface {
	Generate(ctx context.Context, round models.Round, count int, gctx GenerationContext) []models.Question
}

type questionGenerator struct {
	llm           GeminiService
	qdrantService QdrantService
	promptBuilder *PromptBuilder
}

// NewQuestionGenerator creates a generator. qdrantService may be nil,
// in which case generation runs without retrieved resume context.
func NewQuestionGenerator(llm GeminiService, qdrantService QdrantService) QuestionGenerator {
	return &questionGenerator{
		llm:           llm,
		qdrantService: qdrantService,
		promptBuilder: NewPromptBuilder(),
	}
}

// Generate implements QuestionGenerator.
func (g *questionGenerator) Generate(ctx context.Context, round models.Round, count int, gctx GenerationContext) []models.Question {
	if count <= 0 {
		return nil
	}

	ragContext := g.retrieveContext(ctx, round, gctx)

	prompt := g.promptBuilder.BuildQuestionGenerationPrompt(round, count, gctx.Position, gctx.Experience, ragContext)

	response, err := g.llm.GenerateText(ctx, prompt, 0.7)
	if err != nil {
		log.Printf("⚠️  Question generation failed for round %s: %v\n", round.Name, err)
		return nil
	}

	raw := parseQuestionList(response)
	if len(raw) == 0 {
		log.Printf("⚠️  No usable questions in response for round %s, round will be skipped\n", round.Name)
		return nil
	}
	if len(raw) > count {
		raw = raw[:count]
	}

	questions := make([]models.Question, 0, len(raw))
	for i, text := range raw {
		questions = append(questions, models.Question{
			Text:   text,
			Spoken: renderSpokenPrompt(round, i+1, text),
		})
	}
	return questions
}

// retrieveContext fetches resume chunks relevant to the round from the
// vector store. Failures degrade to an empty context.
func (g *questionGenerator) retrieveContext(ctx context.Context, round models.Round, gctx GenerationContext) string {
	if g.qdrantService == nil {
		return ""
	}

	query := g.promptBuilder.BuildRetrievalQuery(round, gctx.Position)
	embedding, err := g.llm.GenerateEmbedding(ctx, query)
	if err != nil {
		log.Printf("⚠️  Failed to embed retrieval query for round %s: %v\n", round.Name, err)
		return ""
	}

	results, err := g.qdrantService.SearchSimilar(ctx, embedding, "resume", gctx.CandidateID, 3)
	if err != nil {
		log.Printf("⚠️  Failed to retrieve context for round %s: %v\n", round.Name, err)
		return ""
	}

	return FormatRAGContext(results)
}

// parseQuestionList extracts the question strings from a response that
// should be a JSON array, falling back to quoted-string extraction when
// the array does not parse.
func parseQuestionList(response string) []string {
	var questions []string
	if err := parseJSONResponse(response, &questions); err == nil {
		return trimNonEmpty(questions)
	}

	return trimNonEmpty(extractQuotedStrings(response))
}

func trimNonEmpty(in []string) []string {
	var out []string
	for _, s := range in {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

func renderSpokenPrompt(round models.Round, number int, text string) string {
	switch round.Name {
	case models.StagePredictOutput:
		return fmt.Sprintf("Look at the following code and predict its output. Question %d: %s", number, text)
	case models.StageFixError:
		return fmt.Sprintf("The following code contains an error. Find and fix it. Question %d: %s", number, text)
	case models.StageWriteProgram:
		return fmt.Sprintf("Write a program for the following task. Question %d: %s", number, text)
	default:
		return fmt.Sprintf("Question %d: %s", number, text)
	}
}
