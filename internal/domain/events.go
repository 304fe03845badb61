package domain

import "time"

// EventType names a room-scoped push message.
type EventType string

const (
	EventRoomState          EventType = "room-state"
	EventTeamJoined         EventType = "team-joined"
	EventTeamRemoved        EventType = "team-removed"
	EventTeamsReady         EventType = "teams-ready"
	EventQuizAssigned       EventType = "quiz-assigned"
	EventQuestionIntro      EventType = "question-intro"
	EventQuestionStarted    EventType = "question-started"
	EventTeamAnswered       EventType = "team-answered"
	EventTimerStarted       EventType = "timer-started"
	EventTimerStopped       EventType = "timer-stopped"
	EventEvaluationStarted  EventType = "evaluation-started"
	EventAnswersEvaluated   EventType = "answers-evaluated"
	EventEvaluationRevealed EventType = "evaluation-revealed"
	EventTeamResult         EventType = "team-result"
	EventScoreUpdated       EventType = "score-updated"
	EventLanguageChanged    EventType = "language-changed"
	EventScreenChanged      EventType = "screen-changed"
)

// Event is a named push message fanned out to every subscriber of a room.
type Event struct {
	Type    EventType `json:"type"`
	Room    string    `json:"room"`
	Payload any       `json:"payload"`
	At      time.Time `json:"at"`
}

// QuestionIntroPayload announces the next question before its content is shown.
type QuestionIntroPayload struct {
	QuestionID string   `json:"questionId"`
	Mechanic   Mechanic `json:"mechanic"`
	Progress   Progress `json:"progress"`
}

// QuestionStartedPayload carries the team-safe question.
type QuestionStartedPayload struct {
	Question TeamQuestion `json:"question"`
	Progress Progress     `json:"progress"`
}

// TeamAnsweredPayload signals a submission without its content.
type TeamAnsweredPayload struct {
	TeamID   string `json:"teamId"`
	Answered int    `json:"answered"`
	Total    int    `json:"total"`
}

// TeamsReadyPayload reports how many teams are ready.
type TeamsReadyPayload struct {
	Ready int  `json:"ready"`
	Total int  `json:"total"`
	All   bool `json:"all"`
}

// TimerPayload carries the absolute deadline in epoch milliseconds.
type TimerPayload struct {
	QuestionID string `json:"questionId"`
	EndsAt     *int64 `json:"endsAt"`
}

// EvaluationPayload is the evaluated answer set plus the canonical solution.
type EvaluationPayload struct {
	QuestionID string                 `json:"questionId"`
	Answers    map[string]AnswerEntry `json:"answers"`
	Solution   string                 `json:"solution"`
}

// TeamResultPayload is one team's result for the current question.
type TeamResultPayload struct {
	TeamID     string `json:"teamId"`
	QuestionID string `json:"questionId"`
	IsCorrect  bool   `json:"isCorrect"`
	Awarded    int    `json:"awarded"`
	Score      int    `json:"score"`
}

// ScoreboardPayload is the ordered scoreboard.
type ScoreboardPayload struct {
	Entries []ScoreEntry `json:"entries"`
}

// ScreenPayload reports a screen change.
type ScreenPayload struct {
	Screen string `json:"screen"`
}
