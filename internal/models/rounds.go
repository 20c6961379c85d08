package models

// RoundKind classifies a round so the engine knows how to frame
// questions and how its score feeds into the readiness average.
type RoundKind string

const (
	RoundCommunication RoundKind = "communication"
	RoundPsychometric  RoundKind = "psychometric"
	RoundTechnical     RoundKind = "technical"
	RoundCoding        RoundKind = "coding"
)

const (
	RoundNameCommunication = "communication"
	RoundNamePsychometric  = "psychometric"

	StagePredictOutput = "predict_output"
	StageFixError      = "fix_error"
	StageWriteProgram  = "write_program"
)

// CodingStages is the fixed order of the coding rounds, independent of
// whatever specializations were detected.
var CodingStages = []string{StagePredictOutput, StageFixError, StageWriteProgram}

type Question struct {
	Text   string `json:"text"`
	Spoken string `json:"spoken"`
}

// Round is one entry of the question bank: a named phase with its own
// question list and timer duration.
type Round struct {
	Name           string     `json:"name"`
	Kind           RoundKind  `json:"kind"`
	Specialization string     `json:"specialization,omitempty"`
	DurationSecs   int        `json:"duration_secs"`
	Questions      []Question `json:"questions"`
}

// QuestionBank holds every generated round in interview order. It is
// written once at session start and read-only afterwards.
type QuestionBank struct {
	Rounds []Round `json:"rounds"`
}

// TranscriptEntry records one question actually asked and the answer
// given. The transcript is append-only.
type TranscriptEntry struct {
	Question string `json:"question_text"`
	Spoken   string `json:"spoken_prompt_text"`
	Answer   string `json:"answer_text"`
}

type QuestionDetail struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Score    int    `json:"score"`
	Analysis string `json:"analysis"`
}

// RoundResult is written exactly once per round, when that round
// completes. OverallScore is always recomputed locally from the
// per-question scores.
type RoundResult struct {
	OverallScore int              `json:"overall_score"`
	Summary      string           `json:"round_summary"`
	Questions    []QuestionDetail `json:"question_details"`
}
