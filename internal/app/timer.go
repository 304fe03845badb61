package app

import (
	"context"
	"time"

	"quiz-room-service/internal/domain"
)

// StartTimer opens a countdown for the current question. A non-positive d
// falls back to the question's time limit, then to the service default.
// Expiry is enforced server side; clients only render the deadline.
func (s *RoomService) StartTimer(_ context.Context, code string, d time.Duration) (domain.RoomSnapshot, error) {
	room, err := s.room(code)
	if err != nil {
		return domain.RoomSnapshot{}, err
	}
	return s.mutate(room, func(now time.Time) error {
		if room.current == nil || room.phase != domain.PhaseAnswering {
			return domain.ErrNoOpenQuestion
		}
		if d <= 0 {
			d = time.Duration(room.current.TimeLimit) * time.Second
		}
		if d <= 0 {
			d = s.defaultTimer
		}

		room.stopTimerLocked()
		endsAt := now.Add(d)
		questionID := room.current.ID
		code := room.code
		room.timerEndsAt = endsAt
		room.timer = s.clock.AfterFunc(d, func() {
			s.expireTimer(code, questionID, endsAt)
		})

		room.emitLocked(now, domain.EventTimerStarted, domain.TimerPayload{
			QuestionID: questionID,
			EndsAt:     room.timerEndsAtLocked(),
		})
		return nil
	})
}

// StopTimer ends the countdown and evaluates the question, the same way
// expiry does. Stopping an evaluated question is a no-op.
func (s *RoomService) StopTimer(_ context.Context, code string) (domain.RoomSnapshot, error) {
	room, err := s.room(code)
	if err != nil {
		return domain.RoomSnapshot{}, err
	}
	return s.mutate(room, func(now time.Time) error {
		if room.current == nil {
			return domain.ErrNoOpenQuestion
		}
		if room.stopTimerLocked() {
			room.emitLocked(now, domain.EventTimerStopped, domain.TimerPayload{QuestionID: room.current.ID})
		}
		s.evaluateLocked(room, now)
		return nil
	})
}

// expireTimer fires when a deadline passes. It only acts if the room still
// runs the very deadline that scheduled it.
func (s *RoomService) expireTimer(code, questionID string, endsAt time.Time) {
	room, ok := s.rooms.Get(code)
	if !ok {
		return
	}
	room.mu.Lock()
	defer room.mu.Unlock()
	if room.closed || room.current == nil || room.current.ID != questionID || !room.timerEndsAt.Equal(endsAt) {
		return
	}

	now := s.clock.Now()
	room.timer = nil
	room.stopTimerLocked()
	room.emitLocked(now, domain.EventTimerStopped, domain.TimerPayload{QuestionID: questionID})
	s.evaluateLocked(room, now)
	room.lastActivityAt = now
}
