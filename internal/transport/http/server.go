package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/pprof"
	"strings"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"quiz-room-service/internal/app"
	"quiz-room-service/internal/domain"
)

const maxBodyBytes = 64 << 10

var errRateLimited = errors.New("too many submissions, slow down")

// Options configures the HTTP surface.
type Options struct {
	Version string
	// PublicURL is the externally visible base URL used in QR join codes.
	// When empty it is derived from the request.
	PublicURL   string
	Pprof       bool
	AnswerRate  rate.Limit
	AnswerBurst int
	Logger      zerolog.Logger
}

// Server exposes the room orchestrator over HTTP and websockets.
type Server struct {
	service *app.RoomService
	limiter *AnswerLimiter
	ws      *WSHandler
	opts    Options
	log     zerolog.Logger
}

func NewServer(service *app.RoomService, opts Options) *Server {
	if opts.Version == "" {
		opts.Version = "dev"
	}
	limiter := NewAnswerLimiter(opts.AnswerRate, opts.AnswerBurst)
	return &Server{
		service: service,
		limiter: limiter,
		ws:      NewWSHandler(service, limiter, opts.Logger),
		opts:    opts,
		log:     opts.Logger,
	}
}

// Limiter returns the per-team answer limiter so room eviction can drop
// its buckets.
func (s *Server) Limiter() *AnswerLimiter {
	return s.limiter
}

// Handler builds the routed, logged handler.
func (s *Server) Handler() http.Handler {
	mux := httprouter.New()
	mux.PanicHandler = func(w http.ResponseWriter, r *http.Request, v any) {
		s.log.Error().Interface("panic", v).Str("path", r.URL.Path).Msg("handler panic")
		writeJSON(w, http.StatusInternalServerError, errorPayload{Message: "internal error"})
	}

	mux.GET("/healthz", s.health)
	mux.GET("/version", s.version)

	mux.POST("/rooms/:code", snapshotHandler(s.ensureRoom))
	mux.GET("/rooms/:code", snapshotHandler(s.snapshot))
	mux.GET("/rooms/:code/ws", s.ws.ServeWS)
	mux.GET("/rooms/:code/qr", s.qr)

	mux.POST("/rooms/:code/teams", s.join)
	mux.DELETE("/rooms/:code/teams/:team", snapshotHandler(s.removeTeam))
	mux.POST("/rooms/:code/teams/:team/ready", s.setReady)
	mux.POST("/rooms/:code/teams/:team/answer", s.submitAnswer)
	mux.POST("/rooms/:code/teams/:team/override", snapshotHandler(s.overrideAnswer))
	mux.POST("/rooms/:code/teams/:team/score", snapshotHandler(s.adjustScore))

	mux.POST("/rooms/:code/quiz", snapshotHandler(s.assignQuiz))
	mux.POST("/rooms/:code/next", snapshotHandler(s.nextQuestion))
	mux.POST("/rooms/:code/questions/:question/start", snapshotHandler(s.startQuestion))
	mux.POST("/rooms/:code/timer", snapshotHandler(s.startTimer))
	mux.DELETE("/rooms/:code/timer", snapshotHandler(s.stopTimer))
	mux.POST("/rooms/:code/evaluate", snapshotHandler(s.evaluate))
	mux.POST("/rooms/:code/reveal", snapshotHandler(s.reveal))
	mux.PUT("/rooms/:code/language", snapshotHandler(s.setLanguage))
	mux.POST("/rooms/:code/actions", snapshotHandler(s.applyAction))

	if s.opts.Pprof {
		registerProfileHandlers(mux)
	}
	return logRequests(s.log, mux)
}

func registerProfileHandlers(mux *httprouter.Router) {
	mux.Handler("GET", "/debug/pprof/allocs", pprof.Handler("allocs"))
	mux.Handler("GET", "/debug/pprof/block", pprof.Handler("block"))
	mux.Handler("GET", "/debug/pprof/goroutine", pprof.Handler("goroutine"))
	mux.Handler("GET", "/debug/pprof/heap", pprof.Handler("heap"))
	mux.Handler("GET", "/debug/pprof/mutex", pprof.Handler("mutex"))
	mux.HandlerFunc("GET", "/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandlerFunc("GET", "/debug/pprof/profile", pprof.Profile)
	mux.HandlerFunc("GET", "/debug/pprof/symbol", pprof.Symbol)
	mux.HandlerFunc("GET", "/debug/pprof/trace", pprof.Trace)
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, "ok")
}

func (s *Server) version(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, "quiz-room-service v"+s.opts.Version+"\n")
}

type errorPayload struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// statusFor maps the error taxonomy onto HTTP status codes.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrInvalidReference):
		return http.StatusNotFound, "invalid_reference"
	case errors.Is(err, domain.ErrIllegalState):
		return http.StatusConflict, "illegal_state"
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, "invalid_input"
	case errors.Is(err, errRateLimited):
		return http.StatusTooManyRequests, "rate_limited"
	default:
		return http.StatusInternalServerError, "internal"
	}
}

func writeError(w http.ResponseWriter, err error) {
	status, code := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = "internal error"
	}
	writeJSON(w, status, errorPayload{Message: msg, Code: code})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// decodeJSON reads an optional JSON body into v. An empty body leaves v untouched.
func decodeJSON(r *http.Request, v any) error {
	if r.Body == nil {
		return nil
	}
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.UseNumber()
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	return nil
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func logRequests(log zerolog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		if strings.HasSuffix(r.URL.Path, "/ws") {
			// the upgrader needs the raw writer to hijack the connection
			next.ServeHTTP(w, r)
			log.Debug().Str("method", r.Method).Str("path", r.URL.Path).Dur("duration", time.Since(start)).Msg("websocket closed")
			return
		}
		next.ServeHTTP(rec, r)
		log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}
