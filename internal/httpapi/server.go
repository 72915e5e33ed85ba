package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"rigd/internal/auth"
	"rigd/internal/hoststats"
	"rigd/internal/log"
	"rigd/internal/photos"
	"rigd/internal/stream"
	"rigd/pkg/types"
)

// maxBodyBytes controls the maximum allowed request body size for JSON
// endpoints.
var maxBodyBytes int64 = 1 << 20

// SetMaxBodyBytes allows configuring the maximum request body size.
func SetMaxBodyBytes(n int64) {
	if n <= 0 {
		maxBodyBytes = 1 << 20
		return
	}
	maxBodyBytes = n
}

// Deps bundles the collaborators the HTTP layer needs.
type Deps struct {
	Hub  *stream.Hub
	Auth *auth.Store
	// Photos is the still store; Capturer is nil when no camera tool was
	// detected.
	Photos   *photos.Store
	Capturer *photos.Capturer
	// StaticDir serves the operator UI when non-empty.
	StaticDir string
	StartedAt time.Time
	// CORS is opt-in; when Origins is empty nothing is mounted.
	CORSOrigins []string
}

type server struct {
	deps Deps
	log  zerolog.Logger
}

// NewMux builds the daemon's HTTP handler.
func NewMux(deps Deps) http.Handler {
	s := &server{deps: deps, log: log.WithComponent("http")}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	r.Use(MetricsMiddleware)
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			next.ServeHTTP(w, r)
		})
	})
	if len(deps.CORSOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   deps.CORSOrigins,
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodDelete},
			AllowedHeaders:   []string{"Content-Type"},
			AllowCredentials: true,
		}))
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	r.Post("/api/login", s.handleLogin)
	r.Post("/api/logout", s.handleLogout)

	// Everything below requires a live session.
	r.Group(func(r chi.Router) {
		r.Use(deps.Auth.Middleware)
		r.Get("/api/status", s.handleStatus)
		r.Get("/api/stats", s.handleStats)
		r.Get("/api/frame", s.handleFrame)
		r.Post("/api/camera/snapshot", s.handleSnapshot)
		r.Get("/api/photos", s.handlePhotoList)
		r.Get("/api/photos/{name}", s.handlePhotoGet)
		r.Delete("/api/photos/{name}", s.handlePhotoDelete)
		r.Get("/ws", s.handleWS)
	})

	if deps.StaticDir != "" {
		r.Handle("/*", http.FileServer(http.Dir(deps.StaticDir)))
	}
	return r
}

func (s *server) handleLogin(w http.ResponseWriter, r *http.Request) {
	ct := r.Header.Get("Content-Type")
	if ct == "" || !strings.HasPrefix(strings.ToLower(ct), "application/json") {
		writeJSONError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	var req types.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	token, err := s.deps.Auth.Login(req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrDisabled) {
			writeJSONError(w, http.StatusConflict, "authentication is disabled")
			return
		}
		s.log.Warn().Str("remote", r.RemoteAddr).Msg("failed login attempt")
		writeJSONError(w, http.StatusUnauthorized, "invalid password")
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
	w.WriteHeader(http.StatusNoContent)
}

func (s *server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(auth.CookieName); err == nil {
		s.deps.Auth.Logout(c.Value)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
	w.WriteHeader(http.StatusNoContent)
}

func (s *server) handleStatus(w http.ResponseWriter, r *http.Request) {
	now := time.Now()
	resp := types.StatusResponse{
		Sources:        s.deps.Hub.Status(),
		UptimeSeconds:  int64(now.Sub(s.deps.StartedAt).Seconds()),
		ServerTimeUnix: now.Unix(),
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *server) handleStats(w http.ResponseWriter, r *http.Request) {
	st, err := hoststats.Collect()
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "host stats unavailable: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// handleFrame is the pull-style counterpart to the websocket camera stream:
// it returns the most recent frame the controller has seen.
func (s *server) handleFrame(w http.ResponseWriter, r *http.Request) {
	ctl, ok := s.deps.Hub.Controller(stream.SourceCamera)
	if !ok {
		writeJSONError(w, http.StatusServiceUnavailable, "camera unavailable")
		return
	}
	frame, ok := ctl.CurrentFrame()
	if !ok {
		writeJSONError(w, http.StatusNotFound, "no frame captured yet")
		return
	}
	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(frame)
}

func (s *server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	if s.deps.Capturer == nil {
		writeJSONError(w, http.StatusServiceUnavailable, "camera unavailable")
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	// An empty body requests the default still parameters.
	var req types.SnapshotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	path, err := s.deps.Capturer.Capture(r.Context(), req.Width, req.Height, req.Quality)
	if err != nil {
		writeJSONError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, types.SnapshotResponse{Path: path})
}

func (s *server) handlePhotoList(w http.ResponseWriter, r *http.Request) {
	list, err := s.deps.Photos.List()
	if err != nil {
		writeJSONError(w, statusForError(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, types.PhotosResponse{Photos: list})
}

func (s *server) handlePhotoGet(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	p, err := s.deps.Photos.Path(name)
	if err != nil {
		writeJSONError(w, statusForError(err), err.Error())
		return
	}
	http.ServeFile(w, r, p)
}

func (s *server) handlePhotoDelete(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if err := s.deps.Photos.Delete(name); err != nil {
		writeJSONError(w, statusForError(err), err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
