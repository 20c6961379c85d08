package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

// fakeGemini is a scripted GeminiService for tests. Responses are
// returned in order; when the script runs out the last entry repeats.
type fakeGemini struct {
	chatResponses []string
	chatErr       error
	textResponses []string
	textErr       error
	embedErr      error

	chatCalls []([]ChatMessage)
	textCalls []string
}

func (f *fakeGemini) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	if f.embedErr != nil {
		return nil, f.embedErr
	}
	return []float32{0.1, 0.2, 0.3}, nil
}

func (f *fakeGemini) GenerateText(ctx context.Context, prompt string, temperature float32) (string, error) {
	f.textCalls = append(f.textCalls, prompt)
	if f.textErr != nil {
		return "", f.textErr
	}
	if len(f.textResponses) == 0 {
		return "", errors.New("no scripted response")
	}
	response := f.textResponses[0]
	if len(f.textResponses) > 1 {
		f.textResponses = f.textResponses[1:]
	}
	return response, nil
}

func (f *fakeGemini) GenerateChat(ctx context.Context, messages []ChatMessage, temperature float32) (string, error) {
	f.chatCalls = append(f.chatCalls, messages)
	if f.chatErr != nil {
		return "", f.chatErr
	}
	if len(f.chatResponses) == 0 {
		return "", errors.New("no scripted response")
	}
	response := f.chatResponses[0]
	if len(f.chatResponses) > 1 {
		f.chatResponses = f.chatResponses[1:]
	}
	return response, nil
}

func scoringJSON(details string) string {
	return fmt.Sprintf(`{"overall_score": 99, "round_summary": "Solid round.", "question_details": [%s]}`, details)
}

func TestScoreRecomputesOverallLocally(t *testing.T) {
	llm := &fakeGemini{chatResponses: []string{scoringJSON(`
		{"question": "Q1", "answer": "A1", "score": 80, "analysis": "Good depth."},
		{"question": "Q2", "answer": "A2", "score": 61, "analysis": "Adequate."}`)}}
	scorer := NewAnswerScorer(llm)

	pairs := []QAPair{{Question: "Q1", Answer: "A1"}, {Question: "Q2", Answer: "A2"}}
	result := scorer.Score(context.Background(), "communication", "", pairs, nil)

	// The model claimed 99; the local truncated mean of 80 and 61 is 70.
	if result.OverallScore != 70 {
		t.Errorf("expected recomputed overall 70, got %d", result.OverallScore)
	}
	if result.Summary != "Solid round." {
		t.Errorf("unexpected summary %q", result.Summary)
	}
	if len(result.Questions) != 2 {
		t.Fatalf("expected 2 question details, got %d", len(result.Questions))
	}
}

func TestScoreForcesZeroOnEmptyAnswer(t *testing.T) {
	llm := &fakeGemini{chatResponses: []string{scoringJSON(
		`{"question": "Q1", "answer": "", "score": 55, "analysis": "Generous guess."}`)}}
	scorer := NewAnswerScorer(llm)

	result := scorer.Score(context.Background(), "communication", "", []QAPair{{Question: "Q1", Answer: "   "}}, nil)

	if result.Questions[0].Score != 0 {
		t.Errorf("blank answer must score 0, got %d", result.Questions[0].Score)
	}
	if result.OverallScore != 0 {
		t.Errorf("overall must reflect the forced zero, got %d", result.OverallScore)
	}
}

func TestScoreForcesZeroOnTimerFilledAnswer(t *testing.T) {
	// A question never reached before the round timer expired carries
	// the fill text as its answer. The model may still grade it
	// generously with a benign analysis; the stored score must be 0.
	llm := &fakeGemini{chatResponses: []string{scoringJSON(fmt.Sprintf(
		`{"question": "Q1", "answer": %q, "score": 80, "analysis": "The candidate shows strong potential."}`, noAnswerText))}}
	scorer := NewAnswerScorer(llm)

	result := scorer.Score(context.Background(), "communication", "", []QAPair{{Question: "Q1", Answer: noAnswerText}}, nil)

	if result.Questions[0].Score != 0 {
		t.Errorf("timer-filled %q answer must score exactly 0, got %d", noAnswerText, result.Questions[0].Score)
	}
	if result.OverallScore != 0 {
		t.Errorf("overall must reflect the forced zero, got %d", result.OverallScore)
	}
}

func TestScoreForcesZeroOnFlaggedAnalysis(t *testing.T) {
	for _, flag := range []string{"no answer provided", "nonsensical", "off-topic", "irrelevant", "incorrect", "incomplete"} {
		llm := &fakeGemini{chatResponses: []string{scoringJSON(fmt.Sprintf(
			`{"question": "Q1", "answer": "something", "score": 70, "analysis": "The response was %s overall."}`, flag))}}
		scorer := NewAnswerScorer(llm)

		result := scorer.Score(context.Background(), "python", "python", []QAPair{{Question: "Q1", Answer: "something"}}, nil)
		if result.Questions[0].Score != 0 {
			t.Errorf("flag %q must force score to 0, got %d", flag, result.Questions[0].Score)
		}
	}
}

func TestScoreMissingQuestionScoredZero(t *testing.T) {
	llm := &fakeGemini{chatResponses: []string{scoringJSON(
		`{"question": "Q1", "answer": "A1", "score": 90, "analysis": "Strong."}`)}}
	scorer := NewAnswerScorer(llm)

	pairs := []QAPair{{Question: "Q1", Answer: "A1"}, {Question: "Q2", Answer: "A2"}}
	result := scorer.Score(context.Background(), "communication", "", pairs, nil)

	if len(result.Questions) != 2 {
		t.Fatalf("every input pair must have a detail, got %d", len(result.Questions))
	}
	if result.Questions[1].Score != 0 {
		t.Errorf("unmatched question must score 0, got %d", result.Questions[1].Score)
	}
	if result.OverallScore != 45 {
		t.Errorf("expected (90+0)/2 = 45, got %d", result.OverallScore)
	}
}

func TestScoreMatchesQuestionsByNormalizedText(t *testing.T) {
	llm := &fakeGemini{chatResponses: []string{scoringJSON(
		`{"question": "  WHAT is   a goroutine? ", "answer": "A1", "score": 64, "analysis": "Fine."}`)}}
	scorer := NewAnswerScorer(llm)

	result := scorer.Score(context.Background(), "golang", "golang",
		[]QAPair{{Question: "What is a goroutine?", Answer: "A1"}}, nil)

	if result.Questions[0].Score != 64 {
		t.Errorf("whitespace and case differences must still match, got score %d", result.Questions[0].Score)
	}
	if result.Questions[0].Question != "What is a goroutine?" {
		t.Errorf("detail must carry the original question text, got %q", result.Questions[0].Question)
	}
}

func TestScoreClampsOutOfRangeScores(t *testing.T) {
	llm := &fakeGemini{chatResponses: []string{scoringJSON(`
		{"question": "Q1", "answer": "A1", "score": 250, "analysis": "Over the top."},
		{"question": "Q2", "answer": "A2", "score": -30, "analysis": "Below the floor."}`)}}
	scorer := NewAnswerScorer(llm)

	pairs := []QAPair{{Question: "Q1", Answer: "A1"}, {Question: "Q2", Answer: "A2"}}
	result := scorer.Score(context.Background(), "communication", "", pairs, nil)

	if result.Questions[0].Score != 100 {
		t.Errorf("score must clamp to 100, got %d", result.Questions[0].Score)
	}
	if result.Questions[1].Score != 0 {
		t.Errorf("score must clamp to 0, got %d", result.Questions[1].Score)
	}
}

func TestScoreEmptySummaryGetsNeutralFallback(t *testing.T) {
	// A healthy response with a blank summary is not a degraded round;
	// it must not carry the degraded-scoring text.
	llm := &fakeGemini{chatResponses: []string{
		`{"overall_score": 75, "round_summary": "  ", "question_details": [{"question": "Q1", "answer": "A1", "score": 75, "analysis": "Good."}]}`,
	}}
	scorer := NewAnswerScorer(llm)

	result := scorer.Score(context.Background(), "communication", "", []QAPair{{Question: "Q1", Answer: "A1"}}, nil)

	if result.Summary != noSummaryText {
		t.Errorf("expected %q, got %q", noSummaryText, result.Summary)
	}
	if result.Summary == degradedSummary {
		t.Error("a successful round must not carry the degraded summary")
	}
	if result.Questions[0].Score != 75 {
		t.Errorf("scores must be untouched by the summary fallback, got %d", result.Questions[0].Score)
	}
}

func TestScoreDegradesOnCallFailure(t *testing.T) {
	llm := &fakeGemini{chatErr: errors.New("quota exceeded")}
	scorer := NewAnswerScorer(llm)

	pairs := []QAPair{{Question: "Q1", Answer: "A1"}}
	result := scorer.Score(context.Background(), "communication", "", pairs, nil)

	if result.OverallScore != 0 {
		t.Errorf("degraded result must score 0, got %d", result.OverallScore)
	}
	if result.Summary != degradedSummary {
		t.Errorf("degraded result must carry the degraded summary, got %q", result.Summary)
	}
	if len(result.Questions) != 1 || result.Questions[0].Score != 0 {
		t.Errorf("degraded result must still cover every pair: %+v", result.Questions)
	}
}

func TestScoreDegradesOnUnparsableResponse(t *testing.T) {
	llm := &fakeGemini{chatResponses: []string{"I'd rather not grade this."}}
	scorer := NewAnswerScorer(llm)

	result := scorer.Score(context.Background(), "communication", "", []QAPair{{Question: "Q1", Answer: "A1"}}, nil)

	if result.OverallScore != 0 || result.Summary != degradedSummary {
		t.Errorf("unparsable response must degrade, got %+v", result)
	}
}

func TestScoreSendsConversationBeforePrompt(t *testing.T) {
	llm := &fakeGemini{chatResponses: []string{scoringJSON(
		`{"question": "Q1", "answer": "A1", "score": 50, "analysis": "Fine."}`)}}
	scorer := NewAnswerScorer(llm)

	conversation := []ChatMessage{
		{Role: RoleModel, Content: "Question 1: Q0"},
		{Role: RoleUser, Content: "A0"},
	}
	scorer.Score(context.Background(), "communication", "", []QAPair{{Question: "Q1", Answer: "A1"}}, conversation)

	if len(llm.chatCalls) != 1 {
		t.Fatalf("expected exactly one chat call, got %d", len(llm.chatCalls))
	}
	sent := llm.chatCalls[0]
	if len(sent) != 3 {
		t.Fatalf("expected conversation plus scoring prompt, got %d messages", len(sent))
	}
	if sent[0].Content != "Question 1: Q0" || sent[1].Content != "A0" {
		t.Error("conversation history must precede the scoring prompt")
	}
	if sent[2].Role != RoleUser {
		t.Errorf("scoring prompt must be a user turn, got %q", sent[2].Role)
	}
}
