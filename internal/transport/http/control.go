package http

import (
	"fmt"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"

	"quiz-room-service/internal/app"
	"quiz-room-service/internal/domain"
	"quiz-room-service/internal/gamestate"
)

type joinRequest struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type readyRequest struct {
	Ready *bool `json:"ready"`
}

type answerRequest struct {
	Value any `json:"value"`
}

type overrideRequest struct {
	Correct *bool `json:"correct"`
}

type scoreRequest struct {
	Delta int `json:"delta"`
}

type assignRequest struct {
	QuizID  string `json:"quizId"`
	Shuffle bool   `json:"shuffle"`
}

type timerRequest struct {
	Seconds int `json:"seconds"`
}

type languageRequest struct {
	Language string `json:"language"`
}

type actionRequest struct {
	Type string `json:"type"`
	Next string `json:"next"`
}

// snapshotHandler adapts an operation returning a room snapshot.
func snapshotHandler(fn func(r *http.Request, ps httprouter.Params) (domain.RoomSnapshot, error)) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		snap, err := fn(r, ps)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, snap)
	}
}

func (s *Server) ensureRoom(r *http.Request, ps httprouter.Params) (domain.RoomSnapshot, error) {
	return s.service.EnsureRoom(r.Context(), ps.ByName("code"))
}

func (s *Server) snapshot(r *http.Request, ps httprouter.Params) (domain.RoomSnapshot, error) {
	return s.service.Snapshot(r.Context(), ps.ByName("code"))
}

func (s *Server) join(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var req joinRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	team, err := s.service.Join(r.Context(), ps.ByName("code"), req.ID, req.Name)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, team)
}

func (s *Server) removeTeam(r *http.Request, ps httprouter.Params) (domain.RoomSnapshot, error) {
	snap, err := s.service.RemoveTeam(r.Context(), ps.ByName("code"), ps.ByName("team"))
	if err == nil {
		s.limiter.ForgetTeam(snap.Code, ps.ByName("team"))
	}
	return snap, err
}

func (s *Server) setReady(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var req readyRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	ready := true
	if req.Ready != nil {
		ready = *req.Ready
	}
	payload, err := s.service.SetReady(r.Context(), ps.ByName("code"), ps.ByName("team"), ready)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, payload)
}

func (s *Server) submitAnswer(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	code, err := app.NormalizeCode(ps.ByName("code"))
	if err != nil {
		writeError(w, err)
		return
	}
	team := ps.ByName("team")
	// buckets only exist for known teams so they are dropped with the room
	if err := s.service.CheckTeam(r.Context(), code, team); err != nil {
		writeError(w, err)
		return
	}
	if !s.limiter.Allow(code, team) {
		writeError(w, errRateLimited)
		return
	}
	var req answerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	entry, err := s.service.SubmitAnswer(r.Context(), code, team, req.Value)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

func (s *Server) overrideAnswer(r *http.Request, ps httprouter.Params) (domain.RoomSnapshot, error) {
	var req overrideRequest
	if err := decodeJSON(r, &req); err != nil {
		return domain.RoomSnapshot{}, err
	}
	if req.Correct == nil {
		return domain.RoomSnapshot{}, fmt.Errorf("%w: correct is required", domain.ErrInvalidInput)
	}
	return s.service.OverrideAnswer(r.Context(), ps.ByName("code"), ps.ByName("team"), *req.Correct)
}

func (s *Server) adjustScore(r *http.Request, ps httprouter.Params) (domain.RoomSnapshot, error) {
	var req scoreRequest
	if err := decodeJSON(r, &req); err != nil {
		return domain.RoomSnapshot{}, err
	}
	return s.service.AdjustScore(r.Context(), ps.ByName("code"), ps.ByName("team"), req.Delta)
}

func (s *Server) assignQuiz(r *http.Request, ps httprouter.Params) (domain.RoomSnapshot, error) {
	var req assignRequest
	if err := decodeJSON(r, &req); err != nil {
		return domain.RoomSnapshot{}, err
	}
	if req.QuizID == "" {
		return domain.RoomSnapshot{}, fmt.Errorf("%w: quizId is required", domain.ErrInvalidInput)
	}
	return s.service.AssignQuiz(r.Context(), ps.ByName("code"), req.QuizID, req.Shuffle)
}

func (s *Server) nextQuestion(r *http.Request, ps httprouter.Params) (domain.RoomSnapshot, error) {
	return s.service.NextQuestion(r.Context(), ps.ByName("code"))
}

func (s *Server) startQuestion(r *http.Request, ps httprouter.Params) (domain.RoomSnapshot, error) {
	return s.service.StartQuestion(r.Context(), ps.ByName("code"), ps.ByName("question"))
}

func (s *Server) startTimer(r *http.Request, ps httprouter.Params) (domain.RoomSnapshot, error) {
	var req timerRequest
	if err := decodeJSON(r, &req); err != nil {
		return domain.RoomSnapshot{}, err
	}
	if req.Seconds < 0 {
		return domain.RoomSnapshot{}, fmt.Errorf("%w: seconds must not be negative", domain.ErrInvalidInput)
	}
	return s.service.StartTimer(r.Context(), ps.ByName("code"), time.Duration(req.Seconds)*time.Second)
}

func (s *Server) stopTimer(r *http.Request, ps httprouter.Params) (domain.RoomSnapshot, error) {
	return s.service.StopTimer(r.Context(), ps.ByName("code"))
}

func (s *Server) evaluate(r *http.Request, ps httprouter.Params) (domain.RoomSnapshot, error) {
	return s.service.Evaluate(r.Context(), ps.ByName("code"))
}

func (s *Server) reveal(r *http.Request, ps httprouter.Params) (domain.RoomSnapshot, error) {
	return s.service.Reveal(r.Context(), ps.ByName("code"))
}

func (s *Server) setLanguage(r *http.Request, ps httprouter.Params) (domain.RoomSnapshot, error) {
	var req languageRequest
	if err := decodeJSON(r, &req); err != nil {
		return domain.RoomSnapshot{}, err
	}
	lang, err := domain.ParseLanguage(req.Language)
	if err != nil {
		return domain.RoomSnapshot{}, err
	}
	return s.service.SetLanguage(r.Context(), ps.ByName("code"), lang)
}

func (s *Server) applyAction(r *http.Request, ps httprouter.Params) (domain.RoomSnapshot, error) {
	var req actionRequest
	if err := decodeJSON(r, &req); err != nil {
		return domain.RoomSnapshot{}, err
	}
	action, err := gamestate.ParseAction(req.Type, req.Next)
	if err != nil {
		return domain.RoomSnapshot{}, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	return s.service.ApplyAction(r.Context(), ps.ByName("code"), action)
}
