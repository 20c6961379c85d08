package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"talentgrid/mock-interview/internal/models"
)

func TestGenerateParsesJSONArray(t *testing.T) {
	llm := &fakeGemini{textResponses: []string{`["What is polymorphism?", "Explain REST."]`}}
	generator := NewQuestionGenerator(llm, nil)

	round := models.Round{Name: "communication", Kind: models.RoundCommunication}
	questions := generator.Generate(context.Background(), round, 2, GenerationContext{Position: "Backend Engineer"})

	if len(questions) != 2 {
		t.Fatalf("expected 2 questions, got %d", len(questions))
	}
	if questions[0].Text != "What is polymorphism?" {
		t.Errorf("unexpected first question %q", questions[0].Text)
	}
	if questions[0].Spoken != "Question 1: What is polymorphism?" {
		t.Errorf("unexpected spoken prompt %q", questions[0].Spoken)
	}
	if questions[1].Spoken != "Question 2: Explain REST." {
		t.Errorf("unexpected spoken prompt %q", questions[1].Spoken)
	}
}

func TestGenerateParsesFencedResponse(t *testing.T) {
	llm := &fakeGemini{textResponses: []string{"Here you go:\n```json\n[\"Q one\"]\n```"}}
	generator := NewQuestionGenerator(llm, nil)

	round := models.Round{Name: "python", Kind: models.RoundTechnical, Specialization: "python"}
	questions := generator.Generate(context.Background(), round, 1, GenerationContext{})

	if len(questions) != 1 || questions[0].Text != "Q one" {
		t.Fatalf("expected [Q one], got %+v", questions)
	}
}

func TestGenerateFallsBackToQuotedStrings(t *testing.T) {
	// Trailing comma makes this invalid JSON; the quoted-string fallback
	// must still recover the questions.
	llm := &fakeGemini{textResponses: []string{`[
		"First question",
		"Second question",
	]`}}
	generator := NewQuestionGenerator(llm, nil)

	round := models.Round{Name: "communication", Kind: models.RoundCommunication}
	questions := generator.Generate(context.Background(), round, 2, GenerationContext{})

	if len(questions) != 2 {
		t.Fatalf("expected 2 questions via fallback, got %d", len(questions))
	}
	if questions[1].Text != "Second question" {
		t.Errorf("unexpected question %q", questions[1].Text)
	}
}

func TestGenerateTruncatesToRequestedCount(t *testing.T) {
	llm := &fakeGemini{textResponses: []string{`["a", "b", "c", "d", "e"]`}}
	generator := NewQuestionGenerator(llm, nil)

	round := models.Round{Name: "communication", Kind: models.RoundCommunication}
	questions := generator.Generate(context.Background(), round, 3, GenerationContext{})

	if len(questions) != 3 {
		t.Errorf("expected truncation to 3, got %d", len(questions))
	}
}

func TestGenerateZeroCountSkipsCall(t *testing.T) {
	llm := &fakeGemini{textResponses: []string{`["should not be used"]`}}
	generator := NewQuestionGenerator(llm, nil)

	round := models.Round{Name: "psychometric", Kind: models.RoundPsychometric}
	if questions := generator.Generate(context.Background(), round, 0, GenerationContext{}); questions != nil {
		t.Errorf("count 0 must yield nil, got %v", questions)
	}
	if len(llm.textCalls) != 0 {
		t.Errorf("count 0 must not call the model, got %d calls", len(llm.textCalls))
	}
}

func TestGenerateDegradesToNilOnFailure(t *testing.T) {
	llm := &fakeGemini{textErr: errors.New("model unavailable")}
	generator := NewQuestionGenerator(llm, nil)

	round := models.Round{Name: "communication", Kind: models.RoundCommunication}
	if questions := generator.Generate(context.Background(), round, 5, GenerationContext{}); questions != nil {
		t.Errorf("failed call must yield nil, got %v", questions)
	}
}

func TestGenerateDegradesToNilOnGarbage(t *testing.T) {
	llm := &fakeGemini{textResponses: []string{"I am unable to produce questions right now."}}
	generator := NewQuestionGenerator(llm, nil)

	round := models.Round{Name: "communication", Kind: models.RoundCommunication}
	if questions := generator.Generate(context.Background(), round, 5, GenerationContext{}); questions != nil {
		t.Errorf("garbage response must yield nil, got %v", questions)
	}
}

func TestGenerateCodingStageSpokenPrompts(t *testing.T) {
	cases := []struct {
		stage  string
		prefix string
	}{
		{models.StagePredictOutput, "Look at the following code and predict its output."},
		{models.StageFixError, "The following code contains an error. Find and fix it."},
		{models.StageWriteProgram, "Write a program for the following task."},
	}

	for _, tc := range cases {
		llm := &fakeGemini{textResponses: []string{`["print(1+1)"]`}}
		generator := NewQuestionGenerator(llm, nil)

		round := models.Round{Name: tc.stage, Kind: models.RoundCoding}
		questions := generator.Generate(context.Background(), round, 1, GenerationContext{})

		if len(questions) != 1 {
			t.Fatalf("stage %s: expected 1 question, got %d", tc.stage, len(questions))
		}
		if !strings.HasPrefix(questions[0].Spoken, tc.prefix) {
			t.Errorf("stage %s: spoken prompt %q missing framing %q", tc.stage, questions[0].Spoken, tc.prefix)
		}
	}
}
