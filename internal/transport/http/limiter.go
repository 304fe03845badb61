package http

import (
	"sync"

	"golang.org/x/time/rate"
)

// AnswerLimiter throttles answer submissions per team and room.
type AnswerLimiter struct {
	limit rate.Limit
	burst int

	mu    sync.Mutex
	rooms map[string]map[string]*rate.Limiter
}

// NewAnswerLimiter returns a limiter allowing limit submissions per second
// with the given burst. A non-positive limit disables throttling.
func NewAnswerLimiter(limit rate.Limit, burst int) *AnswerLimiter {
	if burst <= 0 {
		burst = 5
	}
	return &AnswerLimiter{
		limit: limit,
		burst: burst,
		rooms: make(map[string]map[string]*rate.Limiter),
	}
}

// Allow reports whether the team may submit now.
func (l *AnswerLimiter) Allow(room, team string) bool {
	if l == nil || l.limit <= 0 {
		return true
	}
	l.mu.Lock()
	teams, ok := l.rooms[room]
	if !ok {
		teams = make(map[string]*rate.Limiter)
		l.rooms[room] = teams
	}
	lim, ok := teams[team]
	if !ok {
		lim = rate.NewLimiter(l.limit, l.burst)
		teams[team] = lim
	}
	l.mu.Unlock()
	return lim.Allow()
}

// Forget drops the buckets of a room.
func (l *AnswerLimiter) Forget(room string) {
	l.mu.Lock()
	delete(l.rooms, room)
	l.mu.Unlock()
}

// ForgetTeam drops the bucket of a team that left the room.
func (l *AnswerLimiter) ForgetTeam(room, team string) {
	l.mu.Lock()
	if teams, ok := l.rooms[room]; ok {
		delete(teams, team)
		if len(teams) == 0 {
			delete(l.rooms, room)
		}
	}
	l.mu.Unlock()
}
