package models

type CreateCandidateResponse struct {
	ID           string `json:"id"`
	FullName     string `json:"full_name"`
	Position     string `json:"position"`
	ResumeStatus string `json:"resume_status"`
}

type StartInterviewRequest struct {
	CandidateID string `json:"candidate_id" validate:"required,uuid"`
}

type SubmitAnswerRequest struct {
	AnswerText string `json:"answer_text"`
}

type ProctorUpdateRequest struct {
	Status string `json:"status" validate:"required"`
	Reason string `json:"reason"`
}

// QuestionResponse is returned from start and from every answer
// submission that has a next question to ask.
type QuestionResponse struct {
	InterviewID    string `json:"interview_id"`
	CurrentRound   string `json:"current_round"`
	QuestionNumber int    `json:"question_number"`
	QuestionText   string `json:"question_text"`
	SpokenText     string `json:"spoken_text"`
	RemainingTime  int    `json:"remaining_time"`
}

// CompletionResponse is returned once the round sequence is exhausted.
type CompletionResponse struct {
	Status               string `json:"status"`
	GlobalReadinessScore int    `json:"global_readiness_score"`
	ReportURL            string `json:"report_url"`
}

type TerminationResponse struct {
	Status string `json:"status"`
	Reason string `json:"reason,omitempty"`
}

// ReportResponse is the full persisted session with the JSON documents
// decoded into their typed shapes.
type ReportResponse struct {
	ID                   string                 `json:"id"`
	CandidateID          string                 `json:"candidate_id"`
	Position             string                 `json:"position"`
	Status               string                 `json:"status"`
	Specializations      []string               `json:"specializations"`
	QuestionBank         *QuestionBank          `json:"question_bank,omitempty"`
	Transcript           []TranscriptEntry      `json:"transcript"`
	RoundResults         map[string]RoundResult `json:"round_results"`
	GlobalReadinessScore *int                   `json:"global_readiness_score,omitempty"`
	LanguageScore        *int                   `json:"language_score,omitempty"`
	LanguageNarrative    *string                `json:"language_narrative,omitempty"`
	MalpracticeFlag      bool                   `json:"malpractice_flag"`
	MalpracticeReason    *string                `json:"malpractice_reason,omitempty"`
	TerminationReason    *string                `json:"termination_reason,omitempty"`
	StartedAt            *string                `json:"started_at,omitempty"`
	EndedAt              *string                `json:"ended_at,omitempty"`
}
