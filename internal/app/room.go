package app

import (
	"sort"
	"strings"
	"sync"
	"time"

	"quiz-room-service/internal/domain"
	"quiz-room-service/internal/gamestate"
)

// Room is the in-memory state of one live session. All fields are guarded
// by mu; the phase checks performed under it are what keep evaluation and
// scoring at most once per question.
type Room struct {
	code      string
	createdAt time.Time

	mu             sync.Mutex
	closed         bool
	teams          map[string]*domain.Team
	quizID         string
	current        *domain.Question
	answers        map[string]*domain.AnswerEntry
	questionOrder  []string
	remaining      []string
	asked          []string
	timerEndsAt    time.Time
	timer          Timer
	introTimer     Timer
	introSeq       uint64
	screen         gamestate.State
	phase          domain.QuestionPhase
	language       domain.Language
	lastActivityAt time.Time
	subscribers    map[chan domain.Event]struct{}
}

// NewRoom builds a room in its initial state.
func NewRoom(code string, now time.Time) *Room {
	return &Room{
		code:           code,
		createdAt:      now,
		teams:          make(map[string]*domain.Team),
		answers:        make(map[string]*domain.AnswerEntry),
		screen:         gamestate.Initial,
		phase:          domain.PhaseIdle,
		language:       domain.LanguageDE,
		lastActivityAt: now,
		subscribers:    make(map[chan domain.Event]struct{}),
	}
}

// Code returns the room's join code.
func (r *Room) Code() string {
	return r.code
}

// LastActivity returns when the room was last mutated.
func (r *Room) LastActivity() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastActivityAt
}

// closeLocked stops the room's timers and ends every subscription. A closed
// room rejects further operations.
func (r *Room) closeLocked() {
	r.closed = true
	r.stopTimerLocked()
	r.stopIntroLocked()
	for ch := range r.subscribers {
		delete(r.subscribers, ch)
		close(ch)
	}
}

// CloseIfIdle closes the room when it saw no activity since cutoff. The
// check and the close happen under one lock so a concurrent mutation
// either lands first and keeps the room or fails as not found.
func (r *Room) CloseIfIdle(cutoff time.Time) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed || !r.lastActivityAt.Before(cutoff) {
		return false
	}
	r.closeLocked()
	return true
}

// IsEmpty reports whether no team has joined.
func (r *Room) IsEmpty() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.teams) == 0
}

func (r *Room) timerRunningLocked() bool {
	return !r.timerEndsAt.IsZero()
}

func (r *Room) stopTimerLocked() bool {
	running := r.timerRunningLocked()
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
	r.timerEndsAt = time.Time{}
	return running
}

// stopIntroLocked cancels a pending staged reveal and invalidates callbacks
// that already fired but have not acquired the lock yet.
func (r *Room) stopIntroLocked() {
	if r.introTimer != nil {
		r.introTimer.Stop()
		r.introTimer = nil
	}
	r.introSeq++
}

func (r *Room) markAskedLocked(id string) {
	for _, asked := range r.asked {
		if asked == id {
			return
		}
	}
	r.asked = append(r.asked, id)
}

func (r *Room) removeRemainingLocked(id string) {
	kept := r.remaining[:0:0]
	for _, remaining := range r.remaining {
		if remaining != id {
			kept = append(kept, remaining)
		}
	}
	r.remaining = kept
}

func (r *Room) progressLocked() domain.Progress {
	p := domain.Progress{Total: len(r.questionOrder)}
	if r.current == nil {
		p.Index = len(r.asked)
		return p
	}
	for i, id := range r.asked {
		if id == r.current.ID {
			p.Index = i + 1
			break
		}
	}
	return p
}

func (r *Room) allAnsweredLocked() bool {
	if len(r.teams) == 0 {
		return false
	}
	for id := range r.teams {
		if _, ok := r.answers[id]; !ok {
			return false
		}
	}
	return true
}

func (r *Room) teamByNameLocked(name string) *domain.Team {
	for _, team := range r.teams {
		if strings.EqualFold(team.Name, name) {
			return team
		}
	}
	return nil
}

func (r *Room) readyCountLocked() domain.TeamsReadyPayload {
	p := domain.TeamsReadyPayload{Total: len(r.teams)}
	for _, team := range r.teams {
		if team.IsReady {
			p.Ready++
		}
	}
	p.All = p.Total > 0 && p.Ready == p.Total
	return p
}

func (r *Room) subscribe() (<-chan domain.Event, func(), bool) {
	ch := make(chan domain.Event, 64)

	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil, nil, false
	}
	r.subscribers[ch] = struct{}{}
	ch <- domain.Event{Type: domain.EventRoomState, Room: r.code, Payload: r.snapshotLocked(), At: r.lastActivityAt}
	r.mu.Unlock()

	cancel := func() {
		r.mu.Lock()
		if _, ok := r.subscribers[ch]; ok {
			delete(r.subscribers, ch)
			close(ch)
		}
		r.mu.Unlock()
	}
	return ch, cancel, true
}

// emitLocked fans an event out to every subscriber. Slow subscribers lose
// their oldest pending event instead of blocking the room.
func (r *Room) emitLocked(now time.Time, typ domain.EventType, payload any) {
	ev := domain.Event{Type: typ, Room: r.code, Payload: payload, At: now}
	for ch := range r.subscribers {
		select {
		case ch <- ev:
		default:
			select {
			case <-ch:
			default:
			}
			ch <- ev
		}
	}
}

func (r *Room) scoreboardLocked() []domain.ScoreEntry {
	teams := r.sortedTeamsLocked()
	entries := make([]domain.ScoreEntry, 0, len(teams))
	for _, team := range teams {
		entries = append(entries, domain.ScoreEntry{TeamID: team.ID, Name: team.Name, Score: team.Score})
	}
	return entries
}

// sortedTeamsLocked orders teams by score, then by who joined first, then name.
func (r *Room) sortedTeamsLocked() []domain.Team {
	teams := make([]domain.Team, 0, len(r.teams))
	for _, team := range r.teams {
		teams = append(teams, *team)
	}
	sort.Slice(teams, func(i, j int) bool {
		if teams[i].Score != teams[j].Score {
			return teams[i].Score > teams[j].Score
		}
		if !teams[i].JoinedAt.Equal(teams[j].JoinedAt) {
			return teams[i].JoinedAt.Before(teams[j].JoinedAt)
		}
		return teams[i].Name < teams[j].Name
	})
	return teams
}

func (r *Room) answersLocked() map[string]domain.AnswerEntry {
	out := make(map[string]domain.AnswerEntry, len(r.answers))
	for id, entry := range r.answers {
		out[id] = *entry
	}
	return out
}

func (r *Room) snapshotLocked() domain.RoomSnapshot {
	snap := domain.RoomSnapshot{
		Code:           r.code,
		QuizID:         r.quizID,
		Teams:          r.sortedTeamsLocked(),
		Answers:        r.answersLocked(),
		QuestionOrder:  append([]string{}, r.questionOrder...),
		Remaining:      append([]string{}, r.remaining...),
		Asked:          append([]string{}, r.asked...),
		Progress:       r.progressLocked(),
		Screen:         string(r.screen),
		QuestionPhase:  r.phase,
		Language:       r.language,
		LastActivityAt: r.lastActivityAt,
	}
	if r.current != nil {
		snap.CurrentQuestionID = r.current.ID
	}
	snap.TimerEndsAt = r.timerEndsAtLocked()
	return snap
}

func (r *Room) timerEndsAtLocked() *int64 {
	if r.timerEndsAt.IsZero() {
		return nil
	}
	ms := r.timerEndsAt.UnixMilli()
	return &ms
}
