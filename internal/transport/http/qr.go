package http

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/julienschmidt/httprouter"
	"github.com/skip2/go-qrcode"

	"quiz-room-service/internal/app"
)

const (
	defaultQRSize = 320
	maxQRSize     = 1024
)

// qr renders a PNG QR code of the team join URL of a room.
func (s *Server) qr(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	code, err := app.NormalizeCode(ps.ByName("code"))
	if err != nil {
		writeError(w, err)
		return
	}
	if _, err := s.service.Snapshot(r.Context(), code); err != nil {
		writeError(w, err)
		return
	}

	size := defaultQRSize
	if raw := r.URL.Query().Get("size"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= maxQRSize {
			size = n
		}
	}

	png, err := qrcode.Encode(s.joinURL(r, code), qrcode.Medium, size)
	if err != nil {
		http.Error(w, "qr generation failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(png)
}

// joinURL is the address printed into the QR code. Without a configured
// public URL it is derived from the request, respecting X-Forwarded-Proto.
func (s *Server) joinURL(r *http.Request, code string) string {
	base := strings.TrimSuffix(s.opts.PublicURL, "/")
	if base == "" {
		scheme := "http"
		if r.TLS != nil {
			scheme = "https"
		}
		if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
			scheme = proto
		}
		base = scheme + "://" + r.Host
	}
	return base + "/join/" + url.PathEscape(code)
}
