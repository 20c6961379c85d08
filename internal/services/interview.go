package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"gorm.io/datatypes"

	"talentgrid/mock-interview/internal/config"
	"talentgrid/mock-interview/internal/models"
	"talentgrid/mock-interview/internal/repositories"
)

const noAnswerText = "No answer provided."

// StepResult is the outcome of one engine action: exactly one of the
// fields is set.
type StepResult struct {
	Question    *models.QuestionResponse
	Completion  *models.CompletionResponse
	Termination *models.TerminationResponse
}

// InterviewEngine owns round and question sequencing for one session.
// It is a disposable, request-scoped projection of the session row: it
// is rebuilt from (row, cursor) on every request and never held across
// requests. All mutations go back to the row before the request ends.
type InterviewEngine struct {
	session       *models.InterviewSession
	cfg           config.InterviewConfig
	interviewRepo repositories.InterviewRepository
	proctor       ProctorService
	generator     QuestionGenerator
	scorer        AnswerScorer
	llm           GeminiService
	promptBuilder *PromptBuilder

	bank       models.QuestionBank
	transcript []models.TranscriptEntry
	results    map[string]models.RoundResult
	sequence   []models.Round
	timer      *RoundTimer
}

// NewInterviewEngine reconstructs the engine from a persisted session.
// Rebuilding the same row twice always yields the same engine state.
func NewInterviewEngine(
	session *models.InterviewSession,
	cfg config.InterviewConfig,
	interviewRepo repositories.InterviewRepository,
	proctor ProctorService,
	generator QuestionGenerator,
	scorer AnswerScorer,
	llm GeminiService,
) (*InterviewEngine, error) {
	e := &InterviewEngine{
		session:       session,
		cfg:           cfg,
		interviewRepo: interviewRepo,
		proctor:       proctor,
		generator:     generator,
		scorer:        scorer,
		llm:           llm,
		promptBuilder: NewPromptBuilder(),
		results:       make(map[string]models.RoundResult),
	}

	if len(session.QuestionBank) > 0 {
		if err := json.Unmarshal(session.QuestionBank, &e.bank); err != nil {
			return nil, fmt.Errorf("failed to decode question bank: %w", err)
		}
	}
	if len(session.Transcript) > 0 {
		if err := json.Unmarshal(session.Transcript, &e.transcript); err != nil {
			return nil, fmt.Errorf("failed to decode transcript: %w", err)
		}
	}
	if len(session.RoundResults) > 0 {
		if err := json.Unmarshal(session.RoundResults, &e.results); err != nil {
			return nil, fmt.Errorf("failed to decode round results: %w", err)
		}
	}

	e.sequence = roundSequence(e.bank)

	if session.RoundStartedAt != nil {
		e.timer = ResumeRoundTimer(*session.RoundStartedAt, time.Duration(session.RoundDurationSecs)*time.Second)
	}

	return e, nil
}

// roundSequence computes the fixed total order of playable rounds from
// the question bank. Rounds with zero questions are skipped.
func roundSequence(bank models.QuestionBank) []models.Round {
	var sequence []models.Round
	for _, round := range bank.Rounds {
		if len(round.Questions) > 0 {
			sequence = append(sequence, round)
		}
	}
	return sequence
}

// Begin runs the SCHEDULED → IN_PROGRESS transition: pre-generate all
// questions for every round up front, initialize the cursor, persist
// the filled bank, and return the first question.
func (e *InterviewEngine) Begin(ctx context.Context) (*StepResult, error) {
	if e.session.Status != models.StatusScheduled {
		return nil, fmt.Errorf("interview %s cannot start from status %s", e.session.ID, e.session.Status)
	}

	specializations := DetectSpecializations(e.session.ExperienceSummary)
	gctx := GenerationContext{
		CandidateID: e.session.CandidateID.String(),
		Position:    e.session.Position,
		Experience:  e.session.ExperienceSummary,
	}

	plan := buildRoundPlan(e.cfg, specializations)
	for i := range plan {
		count := questionCount(e.cfg, plan[i].Kind)
		plan[i].Questions = e.generator.Generate(ctx, plan[i], count, gctx)
		log.Printf("📋 Round %s: %d questions generated\n", plan[i].Name, len(plan[i].Questions))
	}

	e.bank = models.QuestionBank{Rounds: plan}
	e.sequence = roundSequence(e.bank)

	if len(e.sequence) == 0 {
		reason := "question bank is empty, no round could be generated"
		if err := e.interviewRepo.Terminate(e.session.ID, models.StatusTerminatedError, reason); err != nil {
			return nil, err
		}
		e.session.Status = models.StatusTerminatedError
		return &StepResult{Termination: &models.TerminationResponse{
			Status: string(models.StatusTerminatedError),
			Reason: reason,
		}}, nil
	}

	bankDoc, err := marshalDoc(e.bank)
	if err != nil {
		return nil, err
	}
	specsDoc, err := marshalDoc(specializations)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	first := e.sequence[0]
	e.timer = NewRoundTimer(time.Duration(first.DurationSecs) * time.Second)
	e.timer.Start()

	status := models.StatusInProgress
	zero := 0
	durationSecs := first.DurationSecs
	startedAt := e.timer.StartedAt()

	if err := e.interviewRepo.Update(e.session.ID, &repositories.SessionUpdateData{
		Status:            &status,
		QuestionBank:      bankDoc,
		Specializations:   specsDoc,
		CurrentRound:      &zero,
		CurrentQuestion:   &zero,
		RoundStartedAt:    &startedAt,
		RoundDurationSecs: &durationSecs,
		StartedAt:         &now,
	}); err != nil {
		return nil, err
	}

	e.session.Status = models.StatusInProgress
	e.session.CurrentRound = 0
	e.session.CurrentQuestion = 0
	e.session.RoundStartedAt = &startedAt
	e.session.RoundDurationSecs = durationSecs

	return &StepResult{Question: e.currentQuestionResponse()}, nil
}

// SubmitAnswer executes exactly one answer-submission action: poll the
// proctor signal, record the answer, then advance. A round transition
// fires when the question index reaches the round's question count or
// when the round timer has expired, whichever comes first; an expired
// timer preempts, recording any unanswered questions as "No answer
// provided." before scoring.
func (e *InterviewEngine) SubmitAnswer(ctx context.Context, answer string) (*StepResult, error) {
	if e.session.Status != models.StatusInProgress {
		return nil, fmt.Errorf("interview %s is not in progress (status %s)", e.session.ID, e.session.Status)
	}
	if e.session.CurrentRound >= len(e.sequence) {
		return nil, fmt.Errorf("interview %s cursor is past the end of the round sequence", e.session.ID)
	}

	if status, reason := e.proctor.Status(e.session.ID); models.IsMalpracticeStatus(status) {
		if reason == "" {
			reason = status
		}
		if err := e.interviewRepo.Terminate(e.session.ID, models.StatusTerminatedMalpractice, reason); err != nil {
			return nil, err
		}
		e.session.Status = models.StatusTerminatedMalpractice
		log.Printf("🚫 Interview %s terminated for malpractice: %s\n", e.session.ID, reason)
		return &StepResult{Termination: &models.TerminationResponse{
			Status: string(models.StatusTerminatedMalpractice),
			Reason: reason,
		}}, nil
	}

	round := e.sequence[e.session.CurrentRound]

	if e.session.CurrentQuestion < len(round.Questions) {
		question := round.Questions[e.session.CurrentQuestion]
		e.transcript = append(e.transcript, models.TranscriptEntry{
			Question: question.Text,
			Spoken:   question.Spoken,
			Answer:   answer,
		})
		e.session.CurrentQuestion++
	}

	if e.timer != nil && e.timer.IsExpired() {
		// Timer expiry preempts the index: force the round closed and
		// record the questions never asked.
		for e.session.CurrentQuestion < len(round.Questions) {
			question := round.Questions[e.session.CurrentQuestion]
			e.transcript = append(e.transcript, models.TranscriptEntry{
				Question: question.Text,
				Spoken:   question.Spoken,
				Answer:   noAnswerText,
			})
			e.session.CurrentQuestion++
		}
	}

	if e.session.CurrentQuestion < len(round.Questions) {
		if err := e.persistProgress(); err != nil {
			return nil, err
		}
		return &StepResult{Question: e.currentQuestionResponse()}, nil
	}

	e.scoreRound(ctx, round)
	e.session.CurrentRound++
	e.session.CurrentQuestion = 0

	if e.session.CurrentRound >= len(e.sequence) {
		return e.complete(ctx)
	}

	next := e.sequence[e.session.CurrentRound]
	e.timer = NewRoundTimer(time.Duration(next.DurationSecs) * time.Second)
	e.timer.Start()
	startedAt := e.timer.StartedAt()
	e.session.RoundStartedAt = &startedAt
	e.session.RoundDurationSecs = next.DurationSecs

	if err := e.persistProgress(); err != nil {
		return nil, err
	}
	return &StepResult{Question: e.currentQuestionResponse()}, nil
}

// scoreRound scores the just-finished round from its transcript slice
// and stores the result under the round's name. Scoring never fails;
// the scorer degrades internally.
func (e *InterviewEngine) scoreRound(ctx context.Context, round models.Round) {
	start := len(e.transcript) - len(round.Questions)
	if start < 0 {
		start = 0
	}

	pairs := make([]QAPair, 0, len(round.Questions))
	for _, entry := range e.transcript[start:] {
		pairs = append(pairs, QAPair{Question: entry.Question, Answer: entry.Answer})
	}

	conversation := conversationFor(e.transcript[:start])
	result := e.scorer.Score(ctx, round.Name, round.Specialization, pairs, conversation)
	e.results[round.Name] = result

	log.Printf("✅ Round %s scored: %d\n", round.Name, result.OverallScore)
}

// complete runs the IN_PROGRESS → COMPLETED transition: language
// proficiency over the full transcript, then the readiness average over
// only the components that were actually produced.
func (e *InterviewEngine) complete(ctx context.Context) (*StepResult, error) {
	langScore, langNarrative, langProduced := e.assessLanguage(ctx)

	readiness := computeReadiness(e.sequence, e.results, langScore, langProduced)

	transcriptDoc, err := marshalDoc(e.transcript)
	if err != nil {
		return nil, err
	}
	resultsDoc, err := marshalDoc(e.results)
	if err != nil {
		return nil, err
	}

	data := &repositories.CompletionData{
		Transcript:     transcriptDoc,
		RoundResults:   resultsDoc,
		ReadinessScore: readiness,
	}
	if langProduced {
		data.LanguageScore = &langScore
		data.LanguageNarrative = &langNarrative
	}

	if err := e.interviewRepo.Complete(e.session.ID, data); err != nil {
		return nil, err
	}
	e.session.Status = models.StatusCompleted

	log.Printf("🏁 Interview %s completed with readiness score %d\n", e.session.ID, readiness)

	return &StepResult{Completion: &models.CompletionResponse{
		Status:               string(models.StatusCompleted),
		GlobalReadinessScore: readiness,
		ReportURL:            fmt.Sprintf("/api/v1/interviews/%s/report", e.session.ID),
	}}, nil
}

// assessLanguage runs one completion over the replayed transcript. A
// failed call means the language component simply is not produced; it
// is excluded from the readiness average rather than counted as zero.
func (e *InterviewEngine) assessLanguage(ctx context.Context) (int, string, bool) {
	if len(e.transcript) == 0 {
		return 0, "", false
	}

	messages := append(conversationFor(e.transcript), ChatMessage{
		Role:    RoleUser,
		Content: e.promptBuilder.BuildLanguageProficiencyPrompt(),
	})

	response, err := e.llm.GenerateChat(ctx, messages, 0.3)
	if err != nil {
		log.Printf("⚠️  Language proficiency call failed for interview %s: %v\n", e.session.ID, err)
		return 0, "", false
	}

	var parsed struct {
		LanguageScore int    `json:"language_score"`
		Narrative     string `json:"narrative"`
	}
	if err := parseJSONResponse(response, &parsed); err != nil {
		log.Printf("⚠️  Failed to parse language proficiency response for interview %s: %v\n", e.session.ID, err)
		return 0, "", false
	}

	return clampScore(parsed.LanguageScore), parsed.Narrative, true
}

// computeReadiness averages only the components actually produced:
// communication, psychometric, the mean of the technical rounds, the
// mean of the coding stages, and the language score. Skipped rounds
// contribute nothing, not zero.
func computeReadiness(sequence []models.Round, results map[string]models.RoundResult, langScore int, langProduced bool) int {
	var components []int

	var technical, coding []int
	for _, round := range sequence {
		result, ok := results[round.Name]
		if !ok {
			continue
		}
		switch round.Kind {
		case models.RoundCommunication, models.RoundPsychometric:
			components = append(components, result.OverallScore)
		case models.RoundTechnical:
			technical = append(technical, result.OverallScore)
		case models.RoundCoding:
			coding = append(coding, result.OverallScore)
		}
	}

	if len(technical) > 0 {
		components = append(components, intMean(technical))
	}
	if len(coding) > 0 {
		components = append(components, intMean(coding))
	}
	if langProduced {
		components = append(components, langScore)
	}

	if len(components) == 0 {
		return 0
	}
	return intMean(components)
}

func intMean(values []int) int {
	total := 0
	for _, v := range values {
		total += v
	}
	return total / len(values)
}

// conversationFor replays transcript entries as alternating model/user
// turns so the LLM sees consistent context across stateless requests.
func conversationFor(entries []models.TranscriptEntry) []ChatMessage {
	messages := make([]ChatMessage, 0, len(entries)*2)
	for _, entry := range entries {
		spoken := entry.Spoken
		if spoken == "" {
			spoken = entry.Question
		}
		messages = append(messages,
			ChatMessage{Role: RoleModel, Content: spoken},
			ChatMessage{Role: RoleUser, Content: entry.Answer},
		)
	}
	return messages
}

// persistProgress writes the transcript, round results and cursor in a
// single UPDATE so the row can never describe a state the cursor is not
// part of.
func (e *InterviewEngine) persistProgress() error {
	transcriptDoc, err := marshalDoc(e.transcript)
	if err != nil {
		return err
	}
	resultsDoc, err := marshalDoc(e.results)
	if err != nil {
		return err
	}

	data := &repositories.SessionUpdateData{
		Transcript:      transcriptDoc,
		RoundResults:    resultsDoc,
		CurrentRound:    &e.session.CurrentRound,
		CurrentQuestion: &e.session.CurrentQuestion,
	}
	if e.session.RoundStartedAt != nil {
		data.RoundStartedAt = e.session.RoundStartedAt
		data.RoundDurationSecs = &e.session.RoundDurationSecs
	}

	return e.interviewRepo.Update(e.session.ID, data)
}

func (e *InterviewEngine) currentQuestionResponse() *models.QuestionResponse {
	round := e.sequence[e.session.CurrentRound]
	question := round.Questions[e.session.CurrentQuestion]

	remaining := 0
	if e.timer != nil {
		remaining = int(e.timer.Remaining().Seconds())
	}

	return &models.QuestionResponse{
		InterviewID:    e.session.ID.String(),
		CurrentRound:   round.Name,
		QuestionNumber: e.session.CurrentQuestion + 1,
		QuestionText:   question.Text,
		SpokenText:     question.Spoken,
		RemainingTime:  remaining,
	}
}

// Bank exposes the decoded question bank for reporting.
func (e *InterviewEngine) Bank() models.QuestionBank {
	return e.bank
}

// Transcript exposes the decoded transcript for reporting.
func (e *InterviewEngine) Transcript() []models.TranscriptEntry {
	return e.transcript
}

// Results exposes the decoded round results for reporting.
func (e *InterviewEngine) Results() map[string]models.RoundResult {
	return e.results
}

// buildRoundPlan lays out the fixed round order for a session:
// communication, psychometric, one technical round per detected
// specialization (at most three, in detection order), then the coding
// stages in their fixed order.
func buildRoundPlan(cfg config.InterviewConfig, specializations []string) []models.Round {
	rounds := []models.Round{
		{
			Name:         models.RoundNameCommunication,
			Kind:         models.RoundCommunication,
			DurationSecs: int(cfg.CommunicationDuration.Seconds()),
		},
		{
			Name:         models.RoundNamePsychometric,
			Kind:         models.RoundPsychometric,
			DurationSecs: int(cfg.PsychometricDuration.Seconds()),
		},
	}

	for _, spec := range specializations {
		rounds = append(rounds, models.Round{
			Name:           spec,
			Kind:           models.RoundTechnical,
			Specialization: spec,
			DurationSecs:   int(cfg.TechnicalDuration.Seconds()),
		})
	}

	for _, stage := range models.CodingStages {
		rounds = append(rounds, models.Round{
			Name:         stage,
			Kind:         models.RoundCoding,
			DurationSecs: int(cfg.CodingDuration.Seconds()),
		})
	}

	return rounds
}

func questionCount(cfg config.InterviewConfig, kind models.RoundKind) int {
	switch kind {
	case models.RoundCommunication:
		return cfg.CommunicationQuestions
	case models.RoundPsychometric:
		return cfg.PsychometricQuestions
	case models.RoundTechnical:
		return cfg.TechnicalQuestions
	case models.RoundCoding:
		return cfg.CodingQuestions
	}
	return 0
}

func marshalDoc(v interface{}) (datatypes.JSON, error) {
	doc, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode session document: %w", err)
	}
	return datatypes.JSON(doc), nil
}
