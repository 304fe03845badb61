package domain

import "time"

// Mechanic is the scoring strategy tag of a question.
type Mechanic string

const (
	MechanicEstimate       Mechanic = "estimate"
	MechanicMultipleChoice Mechanic = "multiple_choice"
	MechanicTrueFalse      Mechanic = "true_false"
	MechanicOrder          Mechanic = "order"
	MechanicFreeText       Mechanic = "free_text"
	MechanicImage          Mechanic = "image"
)

// QuestionPhase is the answer lifecycle of the current question.
type QuestionPhase string

const (
	PhaseIdle      QuestionPhase = "idle"
	PhaseAnswering QuestionPhase = "answering"
	PhaseEvaluated QuestionPhase = "evaluated"
	PhaseRevealed  QuestionPhase = "revealed"
)

// Team represents a team registered in a room and its accumulated score.
type Team struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Score    int       `json:"score"`
	IsReady  bool      `json:"isReady"`
	JoinedAt time.Time `json:"joinedAt"`
}

// AnswerEntry is a team's submission for the current question. Evaluation
// fields stay nil until the question has been evaluated.
type AnswerEntry struct {
	TeamID        string    `json:"teamId"`
	Value         any       `json:"value"`
	SubmittedAt   time.Time `json:"submittedAt"`
	IsCorrect     *bool     `json:"isCorrect,omitempty"`
	Deviation     *float64  `json:"deviation,omitempty"`
	BestDeviation *float64  `json:"bestDeviation,omitempty"`
	Awarded       int       `json:"awarded,omitempty"`
}

// Correct reports the evaluated correctness, false when not evaluated.
func (a AnswerEntry) Correct() bool {
	return a.IsCorrect != nil && *a.IsCorrect
}

// Question is read-only quiz content. Only the fields of its mechanic are set.
type Question struct {
	ID       string   `json:"id"`
	Mechanic Mechanic `json:"mechanic"`
	Text     Text     `json:"text"`
	Points   int      `json:"points,omitempty"` // defaults to 1 if zero
	// TimeLimit is the suggested countdown in seconds.
	TimeLimit int `json:"timeLimit,omitempty"`

	Target *float64 `json:"target,omitempty"`
	Unit   string   `json:"unit,omitempty"`

	Options      []Text `json:"options,omitempty"`
	CorrectIndex int    `json:"correctIndex,omitempty"`

	Correct bool `json:"correct,omitempty"`

	Items        []Text   `json:"items,omitempty"`
	CorrectOrder []string `json:"correctOrder,omitempty"`

	Answer          string   `json:"answer,omitempty"`
	AnswerEN        string   `json:"answerEn,omitempty"`
	AcceptedAnswers []string `json:"acceptedAnswers,omitempty"`
	ImageURL        string   `json:"imageUrl,omitempty"`
}

// PointValue returns the points awarded for a correct answer.
func (q Question) PointValue() int {
	if q.Points <= 0 {
		return 1
	}
	return q.Points
}

// Quiz is an ordered collection of questions.
type Quiz struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Questions []Question `json:"questions"`
}

// Question looks up a question of the quiz by id.
func (q Quiz) Question(id string) (Question, bool) {
	for _, question := range q.Questions {
		if question.ID == id {
			return question, true
		}
	}
	return Question{}, false
}

// QuestionIDs returns the quiz's question ids in authoring order.
func (q Quiz) QuestionIDs() []string {
	ids := make([]string, 0, len(q.Questions))
	for _, question := range q.Questions {
		ids = append(ids, question.ID)
	}
	return ids
}

// Progress is the "question N of M" view derived from asked and ordered ids.
type Progress struct {
	Index int `json:"index"`
	Total int `json:"total"`
}

// ScoreEntry is a scoreboard row.
type ScoreEntry struct {
	TeamID string `json:"teamId"`
	Name   string `json:"name"`
	Score  int    `json:"score"`
}

// RoomSnapshot is a copy of a room's state that is safe to share.
type RoomSnapshot struct {
	Code              string                 `json:"code"`
	QuizID            string                 `json:"quizId,omitempty"`
	Teams             []Team                 `json:"teams"`
	CurrentQuestionID string                 `json:"currentQuestionId,omitempty"`
	Answers           map[string]AnswerEntry `json:"answers"`
	QuestionOrder     []string               `json:"questionOrder"`
	Remaining         []string               `json:"remainingQuestionIds"`
	Asked             []string               `json:"askedQuestionIds"`
	Progress          Progress               `json:"progress"`
	TimerEndsAt       *int64                 `json:"timerEndsAt"`
	Screen            string                 `json:"screen"`
	QuestionPhase     QuestionPhase          `json:"questionPhase"`
	Language          Language               `json:"language"`
	LastActivityAt    time.Time              `json:"lastActivityAt"`
}

// Team returns the team with the given id from the snapshot.
func (s RoomSnapshot) Team(id string) (Team, bool) {
	for _, team := range s.Teams {
		if team.ID == id {
			return team, true
		}
	}
	return Team{}, false
}
