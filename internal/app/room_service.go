package app

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"quiz-room-service/internal/domain"
	"quiz-room-service/internal/gamestate"
	"quiz-room-service/internal/mechanics"
)

// RoomRepository abstracts the registry of live rooms (in-memory, Redis-marked, etc).
type RoomRepository interface {
	GetOrCreate(code string, now time.Time) *Room
	Get(code string) (*Room, bool)
	Delete(code string)
	Codes() []string
}

// QuizRepository loads quiz content (from cache/backing store).
type QuizRepository interface {
	GetQuiz(ctx context.Context, quizID string) (domain.Quiz, error)
}

// ScoreboardMirror publishes room scores to an external store. Failures are
// logged and never fail the game operation.
type ScoreboardMirror interface {
	PublishScores(ctx context.Context, roomCode string, entries []domain.ScoreEntry) error
	Clear(ctx context.Context, roomCode string) error
}

const (
	DefaultRevealDelay = 3 * time.Second
	DefaultTimer       = 30 * time.Second
	maxCodeLength      = 16
)

// RoomService is the room session orchestrator. It owns no state of its
// own beyond its collaborators; every room is serialized by its own lock.
type RoomService struct {
	rooms        RoomRepository
	quizzes      QuizRepository
	clock        Clock
	revealDelay  time.Duration
	defaultTimer time.Duration
	scoreboard   ScoreboardMirror
	log          zerolog.Logger
}

// Option customizes a RoomService.
type Option func(*RoomService)

func WithClock(clock Clock) Option {
	return func(s *RoomService) { s.clock = clock }
}

// WithRevealDelay sets how long the question intro is shown before the
// question content goes out. Zero reveals synchronously.
func WithRevealDelay(d time.Duration) Option {
	return func(s *RoomService) { s.revealDelay = d }
}

func WithDefaultTimer(d time.Duration) Option {
	return func(s *RoomService) { s.defaultTimer = d }
}

func WithScoreboard(mirror ScoreboardMirror) Option {
	return func(s *RoomService) { s.scoreboard = mirror }
}

func WithLogger(log zerolog.Logger) Option {
	return func(s *RoomService) { s.log = log }
}

func NewRoomService(rooms RoomRepository, quizzes QuizRepository, opts ...Option) *RoomService {
	s := &RoomService{
		rooms:        rooms,
		quizzes:      quizzes,
		clock:        SystemClock(),
		revealDelay:  DefaultRevealDelay,
		defaultTimer: DefaultTimer,
		log:          zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NormalizeCode canonicalizes a human-typed room code.
func NormalizeCode(raw string) (string, error) {
	code := strings.ToUpper(strings.TrimSpace(raw))
	if code == "" || len(code) > maxCodeLength {
		return "", fmt.Errorf("%w: room code must be 1-%d characters", domain.ErrInvalidInput, maxCodeLength)
	}
	for _, r := range code {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '-' {
			return "", fmt.Errorf("%w: room code %q contains %q", domain.ErrInvalidInput, raw, r)
		}
	}
	return code, nil
}

func (s *RoomService) room(code string) (*Room, error) {
	code, err := NormalizeCode(code)
	if err != nil {
		return nil, err
	}
	room, ok := s.rooms.Get(code)
	if !ok {
		return nil, domain.ErrRoomNotFound
	}
	return room, nil
}

func (s *RoomService) ensure(code string) (*Room, error) {
	code, err := NormalizeCode(code)
	if err != nil {
		return nil, err
	}
	return s.rooms.GetOrCreate(code, s.clock.Now()), nil
}

// mutate runs fn under the room lock. A nil error marks the room active and
// returns a fresh snapshot; a rejection leaves the room untouched.
func (s *RoomService) mutate(room *Room, fn func(now time.Time) error) (domain.RoomSnapshot, error) {
	room.mu.Lock()
	defer room.mu.Unlock()
	if room.closed {
		return domain.RoomSnapshot{}, domain.ErrRoomNotFound
	}
	now := s.clock.Now()
	if err := fn(now); err != nil {
		return domain.RoomSnapshot{}, err
	}
	room.lastActivityAt = now
	return room.snapshotLocked(), nil
}

// EnsureRoom creates the room if needed and returns its state.
func (s *RoomService) EnsureRoom(_ context.Context, code string) (domain.RoomSnapshot, error) {
	room, err := s.ensure(code)
	if err != nil {
		return domain.RoomSnapshot{}, err
	}
	return s.mutate(room, func(time.Time) error { return nil })
}

// Snapshot returns the current state without marking the room active.
func (s *RoomService) Snapshot(_ context.Context, code string) (domain.RoomSnapshot, error) {
	room, err := s.room(code)
	if err != nil {
		return domain.RoomSnapshot{}, err
	}
	room.mu.Lock()
	defer room.mu.Unlock()
	if room.closed {
		return domain.RoomSnapshot{}, domain.ErrRoomNotFound
	}
	return room.snapshotLocked(), nil
}

// Join registers a team or refreshes an existing one. A team without an id
// that reuses a known name rejoins as that team.
func (s *RoomService) Join(_ context.Context, code, teamID, name string) (domain.Team, error) {
	name = strings.TrimSpace(name)
	teamID = strings.TrimSpace(teamID)
	if name == "" && teamID == "" {
		return domain.Team{}, fmt.Errorf("%w: team name required", domain.ErrInvalidInput)
	}
	room, err := s.ensure(code)
	if err != nil {
		return domain.Team{}, err
	}

	var joined domain.Team
	_, err = s.mutate(room, func(now time.Time) error {
		team, ok := room.teams[teamID]
		switch {
		case ok:
			if name != "" {
				team.Name = name
			}
		case teamID == "" && room.teamByNameLocked(name) != nil:
			team = room.teamByNameLocked(name)
		case name == "":
			return domain.ErrTeamNotFound
		default:
			if teamID == "" {
				teamID = uuid.NewString()
			}
			team = &domain.Team{ID: teamID, Name: name, JoinedAt: now}
			room.teams[teamID] = team
		}
		joined = *team
		room.emitLocked(now, domain.EventTeamJoined, joined)
		return nil
	})
	return joined, err
}

// CheckTeam reports whether teamID belongs to the room without touching it.
func (s *RoomService) CheckTeam(_ context.Context, code, teamID string) error {
	room, err := s.room(code)
	if err != nil {
		return err
	}
	room.mu.Lock()
	defer room.mu.Unlock()
	if room.closed {
		return domain.ErrRoomNotFound
	}
	if _, ok := room.teams[teamID]; !ok {
		return domain.ErrTeamNotFound
	}
	return nil
}

// RemoveTeam drops a team together with its answer for the current question.
func (s *RoomService) RemoveTeam(_ context.Context, code, teamID string) (domain.RoomSnapshot, error) {
	room, err := s.room(code)
	if err != nil {
		return domain.RoomSnapshot{}, err
	}
	return s.mutate(room, func(now time.Time) error {
		if _, ok := room.teams[teamID]; !ok {
			return domain.ErrTeamNotFound
		}
		delete(room.teams, teamID)
		delete(room.answers, teamID)
		room.emitLocked(now, domain.EventTeamRemoved, map[string]string{"teamId": teamID})
		s.completeIfAllAnsweredLocked(room, now)
		return nil
	})
}

// SetReady flags a team as ready and reports the room-wide count.
func (s *RoomService) SetReady(_ context.Context, code, teamID string, ready bool) (domain.TeamsReadyPayload, error) {
	room, err := s.room(code)
	if err != nil {
		return domain.TeamsReadyPayload{}, err
	}
	var payload domain.TeamsReadyPayload
	_, err = s.mutate(room, func(now time.Time) error {
		team, ok := room.teams[teamID]
		if !ok {
			return domain.ErrTeamNotFound
		}
		team.IsReady = ready
		payload = room.readyCountLocked()
		room.emitLocked(now, domain.EventTeamsReady, payload)
		return nil
	})
	return payload, err
}

// AssignQuiz binds a quiz's questions to the room. Shuffled orders are
// seeded by the moment of assignment.
func (s *RoomService) AssignQuiz(ctx context.Context, code, quizID string, shuffle bool) (domain.RoomSnapshot, error) {
	if _, err := NormalizeCode(code); err != nil {
		return domain.RoomSnapshot{}, err
	}
	// an unknown quiz must not register the room
	quiz, err := s.quizzes.GetQuiz(ctx, quizID)
	if err != nil {
		return domain.RoomSnapshot{}, err
	}
	room, err := s.ensure(code)
	if err != nil {
		return domain.RoomSnapshot{}, err
	}

	return s.mutate(room, func(now time.Time) error {
		order := quiz.QuestionIDs()
		if shuffle {
			rnd := rand.New(rand.NewSource(now.UnixNano()))
			rnd.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })
		}

		room.stopTimerLocked()
		room.stopIntroLocked()
		room.quizID = quiz.ID
		room.questionOrder = order
		room.remaining = append([]string{}, order...)
		room.asked = nil
		room.current = nil
		room.answers = make(map[string]*domain.AnswerEntry)
		room.phase = domain.PhaseIdle
		for _, team := range room.teams {
			team.IsReady = false
		}
		room.screen = gamestate.Apply(room.screen, gamestate.Action{Type: gamestate.StartSession})

		room.emitLocked(now, domain.EventQuizAssigned, map[string]any{
			"quizId":   quiz.ID,
			"title":    quiz.Title,
			"progress": room.progressLocked(),
		})
		return nil
	})
}

// NextQuestion draws the next question in FIFO order.
func (s *RoomService) NextQuestion(ctx context.Context, code string) (domain.RoomSnapshot, error) {
	room, quiz, err := s.assignedQuiz(ctx, code)
	if err != nil {
		return domain.RoomSnapshot{}, err
	}
	return s.mutate(room, func(now time.Time) error {
		if room.quizID != quiz.ID {
			return fmt.Errorf("%w: quiz was reassigned", domain.ErrIllegalState)
		}
		if len(room.remaining) == 0 {
			return domain.ErrNoQuestionsRemaining
		}
		question, ok := quiz.Question(room.remaining[0])
		if !ok {
			return domain.ErrQuestionNotFound
		}
		room.remaining = append([]string{}, room.remaining[1:]...)
		s.beginQuestionLocked(room, question, now)
		return nil
	})
}

// StartQuestion opens a specific question of the assigned quiz, out of order.
func (s *RoomService) StartQuestion(ctx context.Context, code, questionID string) (domain.RoomSnapshot, error) {
	room, quiz, err := s.assignedQuiz(ctx, code)
	if err != nil {
		return domain.RoomSnapshot{}, err
	}
	question, ok := quiz.Question(questionID)
	if !ok {
		return domain.RoomSnapshot{}, domain.ErrQuestionNotFound
	}
	return s.mutate(room, func(now time.Time) error {
		if room.quizID != quiz.ID {
			return fmt.Errorf("%w: quiz was reassigned", domain.ErrIllegalState)
		}
		room.removeRemainingLocked(question.ID)
		s.beginQuestionLocked(room, question, now)
		return nil
	})
}

func (s *RoomService) assignedQuiz(ctx context.Context, code string) (*Room, domain.Quiz, error) {
	room, err := s.room(code)
	if err != nil {
		return nil, domain.Quiz{}, err
	}
	room.mu.Lock()
	quizID := room.quizID
	room.mu.Unlock()
	if quizID == "" {
		return nil, domain.Quiz{}, domain.ErrNoQuizAssigned
	}
	quiz, err := s.quizzes.GetQuiz(ctx, quizID)
	if err != nil {
		return nil, domain.Quiz{}, err
	}
	return room, quiz, nil
}

// beginQuestionLocked resets the round for question and shows its intro.
// The content itself is pushed once the reveal delay has elapsed.
func (s *RoomService) beginQuestionLocked(room *Room, question domain.Question, now time.Time) {
	room.stopTimerLocked()
	room.stopIntroLocked()
	room.markAskedLocked(question.ID)
	room.current = &question
	room.answers = make(map[string]*domain.AnswerEntry)
	room.phase = domain.PhaseAnswering
	for _, team := range room.teams {
		team.IsReady = false
	}
	room.screen = gamestate.Apply(room.screen, gamestate.ForceTo(gamestate.QuestionIntro))

	room.emitLocked(now, domain.EventQuestionIntro, domain.QuestionIntroPayload{
		QuestionID: question.ID,
		Mechanic:   question.Mechanic,
		Progress:   room.progressLocked(),
	})

	if s.revealDelay <= 0 {
		s.activateLocked(room, now)
		return
	}
	seq := room.introSeq
	code := room.code
	room.introTimer = s.clock.AfterFunc(s.revealDelay, func() {
		s.activateQuestion(code, seq)
	})
}

// activateQuestion is the deferred half of the staged reveal. The room may
// have been reaped or moved on to another question in the meantime.
func (s *RoomService) activateQuestion(code string, seq uint64) {
	room, ok := s.rooms.Get(code)
	if !ok {
		return
	}
	room.mu.Lock()
	defer room.mu.Unlock()
	if room.closed || room.introSeq != seq || room.current == nil || room.phase != domain.PhaseAnswering ||
		room.screen != gamestate.QuestionIntro {
		return
	}
	now := s.clock.Now()
	room.introTimer = nil
	s.activateLocked(room, now)
	room.lastActivityAt = now
}

func (s *RoomService) activateLocked(room *Room, now time.Time) {
	room.stopIntroLocked()
	room.screen = gamestate.Apply(room.screen, gamestate.ForceTo(gamestate.QuestionActive))
	room.emitLocked(now, domain.EventQuestionStarted, domain.QuestionStartedPayload{
		Question: room.current.ForTeams(room.language),
		Progress: room.progressLocked(),
	})
}

// SubmitAnswer records a team's answer for the open question. Once every
// team has answered while a timer runs, the question is evaluated early.
func (s *RoomService) SubmitAnswer(_ context.Context, code, teamID string, value any) (domain.AnswerEntry, error) {
	if value == nil {
		return domain.AnswerEntry{}, fmt.Errorf("%w: answer value required", domain.ErrInvalidInput)
	}
	room, err := s.room(code)
	if err != nil {
		return domain.AnswerEntry{}, err
	}

	var entry domain.AnswerEntry
	_, err = s.mutate(room, func(now time.Time) error {
		if room.current == nil || room.phase != domain.PhaseAnswering || !gamestate.IsQuestionOpen(room.screen) {
			return domain.ErrNoOpenQuestion
		}
		if _, ok := room.teams[teamID]; !ok {
			return domain.ErrTeamNotFound
		}

		existing, ok := room.answers[teamID]
		if !ok {
			existing = &domain.AnswerEntry{TeamID: teamID}
			room.answers[teamID] = existing
		}
		existing.Value = value
		existing.SubmittedAt = now
		entry = *existing

		room.emitLocked(now, domain.EventTeamAnswered, domain.TeamAnsweredPayload{
			TeamID:   teamID,
			Answered: len(room.answers),
			Total:    len(room.teams),
		})
		s.completeIfAllAnsweredLocked(room, now)
		return nil
	})
	return entry, err
}

func (s *RoomService) completeIfAllAnsweredLocked(room *Room, now time.Time) {
	if room.phase != domain.PhaseAnswering || !room.timerRunningLocked() || !room.allAnsweredLocked() {
		return
	}
	s.evaluateLocked(room, now)
}

// Evaluate scores the open question's answers. Calling it again for the
// same question is a successful no-op.
func (s *RoomService) Evaluate(_ context.Context, code string) (domain.RoomSnapshot, error) {
	room, err := s.room(code)
	if err != nil {
		return domain.RoomSnapshot{}, err
	}
	return s.mutate(room, func(now time.Time) error {
		if room.current == nil {
			return domain.ErrNoOpenQuestion
		}
		s.evaluateLocked(room, now)
		return nil
	})
}

// evaluateLocked runs at most once per question: only while answering.
func (s *RoomService) evaluateLocked(room *Room, now time.Time) bool {
	if room.current == nil || room.phase != domain.PhaseAnswering {
		return false
	}
	question := *room.current
	room.emitLocked(now, domain.EventEvaluationStarted, map[string]string{"questionId": question.ID})

	values := make(map[string]any, len(room.answers))
	for teamID, entry := range room.answers {
		values[teamID] = entry.Value
	}
	for teamID, result := range mechanics.Evaluate(question, values) {
		entry := room.answers[teamID]
		correct := result.Correct
		entry.IsCorrect = &correct
		entry.Deviation = result.Deviation
		entry.BestDeviation = result.BestDeviation
	}
	room.phase = domain.PhaseEvaluated

	if room.stopTimerLocked() {
		room.emitLocked(now, domain.EventTimerStopped, domain.TimerPayload{QuestionID: question.ID})
	}
	room.stopIntroLocked()
	lock := gamestate.Action{Type: gamestate.HostLock}
	if gamestate.CanApply(room.screen, lock) {
		room.screen = gamestate.Apply(room.screen, lock)
	} else if room.screen == gamestate.QuestionIntro {
		room.screen = gamestate.Apply(room.screen, gamestate.ForceTo(gamestate.QuestionLocked))
	}

	room.emitLocked(now, domain.EventAnswersEvaluated, domain.EvaluationPayload{
		QuestionID: question.ID,
		Answers:    room.answersLocked(),
		Solution:   question.SolutionText(room.language),
	})
	return true
}

// Reveal awards points for the current question exactly once and shows the
// solution. Revealing an already revealed question changes nothing.
func (s *RoomService) Reveal(ctx context.Context, code string) (domain.RoomSnapshot, error) {
	room, err := s.room(code)
	if err != nil {
		return domain.RoomSnapshot{}, err
	}
	var scored bool
	snap, err := s.mutate(room, func(now time.Time) error {
		var err error
		scored, err = s.revealLocked(room, now)
		return err
	})
	if err == nil && scored {
		s.publishScores(ctx, snap)
	}
	return snap, err
}

func (s *RoomService) revealLocked(room *Room, now time.Time) (bool, error) {
	if room.current == nil {
		return false, domain.ErrNoOpenQuestion
	}
	switch room.phase {
	case domain.PhaseRevealed:
		return false, nil
	case domain.PhaseAnswering:
		if len(room.answers) == 0 {
			return false, domain.ErrNoAnswers
		}
		s.evaluateLocked(room, now)
	}

	question := *room.current
	points := question.PointValue()
	for teamID, entry := range room.answers {
		team, ok := room.teams[teamID]
		if !ok || !entry.Correct() {
			continue
		}
		team.Score += points
		entry.Awarded = points
	}
	room.phase = domain.PhaseRevealed

	reveal := gamestate.Action{Type: gamestate.HostReveal}
	if gamestate.CanApply(room.screen, reveal) {
		room.screen = gamestate.Apply(room.screen, reveal)
	} else {
		room.screen = gamestate.Apply(room.screen, gamestate.ForceTo(gamestate.QuestionReveal))
	}

	room.emitLocked(now, domain.EventEvaluationRevealed, domain.EvaluationPayload{
		QuestionID: question.ID,
		Answers:    room.answersLocked(),
		Solution:   question.SolutionText(room.language),
	})
	teamIDs := make([]string, 0, len(room.answers))
	for teamID := range room.answers {
		teamIDs = append(teamIDs, teamID)
	}
	sort.Strings(teamIDs)
	for _, teamID := range teamIDs {
		s.emitTeamResultLocked(room, now, teamID)
	}
	room.emitLocked(now, domain.EventScoreUpdated, domain.ScoreboardPayload{Entries: room.scoreboardLocked()})
	return true, nil
}

func (s *RoomService) emitTeamResultLocked(room *Room, now time.Time, teamID string) {
	team, ok := room.teams[teamID]
	entry, answered := room.answers[teamID]
	if !ok || !answered {
		return
	}
	room.emitLocked(now, domain.EventTeamResult, domain.TeamResultPayload{
		TeamID:     teamID,
		QuestionID: room.current.ID,
		IsCorrect:  entry.Correct(),
		Awarded:    entry.Awarded,
		Score:      team.Score,
	})
}

// OverrideAnswer lets the moderator flip one team's correctness. After the
// reveal the team's score moves by the question's point value relative to
// the previous verdict, so repeating an override never double-counts.
func (s *RoomService) OverrideAnswer(ctx context.Context, code, teamID string, correct bool) (domain.RoomSnapshot, error) {
	room, err := s.room(code)
	if err != nil {
		return domain.RoomSnapshot{}, err
	}
	var scored bool
	snap, err := s.mutate(room, func(now time.Time) error {
		if room.current == nil {
			return domain.ErrNoOpenQuestion
		}
		team, ok := room.teams[teamID]
		if !ok {
			return domain.ErrTeamNotFound
		}
		if room.phase != domain.PhaseEvaluated && room.phase != domain.PhaseRevealed {
			return domain.ErrNotEvaluated
		}

		entry, ok := room.answers[teamID]
		if !ok {
			entry = &domain.AnswerEntry{TeamID: teamID, SubmittedAt: now}
			room.answers[teamID] = entry
		}
		previous := entry.Correct()
		if entry.IsCorrect != nil && previous == correct {
			return nil
		}
		entry.IsCorrect = &correct

		if room.phase == domain.PhaseRevealed && previous != correct {
			points := room.current.PointValue()
			if correct {
				team.Score += points
				entry.Awarded = points
			} else {
				team.Score -= points
				entry.Awarded = 0
			}
			scored = true
		}

		s.emitTeamResultLocked(room, now, teamID)
		if scored {
			room.emitLocked(now, domain.EventScoreUpdated, domain.ScoreboardPayload{Entries: room.scoreboardLocked()})
		}
		return nil
	})
	if err == nil && scored {
		s.publishScores(ctx, snap)
	}
	return snap, err
}

// AdjustScore applies a manual moderator correction to a team's score.
func (s *RoomService) AdjustScore(ctx context.Context, code, teamID string, delta int) (domain.RoomSnapshot, error) {
	room, err := s.room(code)
	if err != nil {
		return domain.RoomSnapshot{}, err
	}
	snap, err := s.mutate(room, func(now time.Time) error {
		team, ok := room.teams[teamID]
		if !ok {
			return domain.ErrTeamNotFound
		}
		team.Score += delta
		room.emitLocked(now, domain.EventScoreUpdated, domain.ScoreboardPayload{Entries: room.scoreboardLocked()})
		return nil
	})
	if err == nil && delta != 0 {
		s.publishScores(ctx, snap)
	}
	return snap, err
}

// SetLanguage switches the display language of the room.
func (s *RoomService) SetLanguage(_ context.Context, code string, lang domain.Language) (domain.RoomSnapshot, error) {
	room, err := s.room(code)
	if err != nil {
		return domain.RoomSnapshot{}, err
	}
	return s.mutate(room, func(now time.Time) error {
		room.language = lang
		room.emitLocked(now, domain.EventLanguageChanged, map[string]domain.Language{"language": lang})
		return nil
	})
}

// ApplyAction drives the screen through the round state machine on behalf
// of the moderator. HOST_REVEAL on an open question scores it like Reveal.
func (s *RoomService) ApplyAction(ctx context.Context, code string, action gamestate.Action) (domain.RoomSnapshot, error) {
	room, err := s.room(code)
	if err != nil {
		return domain.RoomSnapshot{}, err
	}
	var scored bool
	snap, err := s.mutate(room, func(now time.Time) error {
		if !gamestate.CanApply(room.screen, action) {
			return domain.ErrIllegalTransition
		}
		if action.Type == gamestate.HostReveal && room.current != nil && room.phase != domain.PhaseRevealed {
			var err error
			scored, err = s.revealLocked(room, now)
			return err
		}

		next := gamestate.Apply(room.screen, action)
		switch {
		case next == gamestate.QuestionActive && room.current != nil && room.phase == domain.PhaseAnswering:
			s.activateLocked(room, now)
		case next == gamestate.QuestionIntro:
			room.screen = next
		default:
			// leaving the intro cancels its pending reveal
			room.stopIntroLocked()
			room.screen = next
		}
		room.emitLocked(now, domain.EventScreenChanged, domain.ScreenPayload{Screen: string(room.screen)})
		return nil
	})
	if err == nil && scored {
		s.publishScores(ctx, snap)
	}
	return snap, err
}

// Subscribe returns a channel that receives every event of the room. The
// caller must invoke the returned cancel function to avoid leaks.
func (s *RoomService) Subscribe(_ context.Context, code string) (<-chan domain.Event, func(), error) {
	room, err := s.room(code)
	if err != nil {
		return nil, nil, err
	}
	ch, cancel, ok := room.subscribe()
	if !ok {
		return nil, nil, domain.ErrRoomNotFound
	}
	return ch, cancel, nil
}

func (s *RoomService) publishScores(ctx context.Context, snap domain.RoomSnapshot) {
	if s.scoreboard == nil {
		return
	}
	entries := make([]domain.ScoreEntry, 0, len(snap.Teams))
	for _, team := range snap.Teams {
		entries = append(entries, domain.ScoreEntry{TeamID: team.ID, Name: team.Name, Score: team.Score})
	}
	if err := s.scoreboard.PublishScores(ctx, snap.Code, entries); err != nil {
		s.log.Warn().Err(err).Str("room", snap.Code).Msg("scoreboard mirror update failed")
	}
}
