// Package backend is an in-memory stand-in for the concert collection
// backend, for local development and tests.
//
// It serves the endpoints the catalog client uses:
//
//	GET    /collections/user/{id}?page=&size=
//	GET    /users/{id}
//	GET    /songs/my-songs
//	POST   /songs
//	GET    /concerts/{id}
//	PUT    /concerts/{id}
//	POST   /files/upload
//	GET    /files/{key}/{name}
//	DELETE /files?fileUrl=
//
// Requests acting as a user name them with the X-User-Id header. There is
// no authentication.
package backend

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/setlist/pkg/catalog"
	serrors "github.com/matzehuels/setlist/pkg/errors"
	"github.com/matzehuels/setlist/pkg/session"
)

// maxPageSize caps the page size a client may request.
const maxPageSize = 100

// Server serves a Store over HTTP.
type Server struct {
	store  *Store
	logger *log.Logger
	router chi.Router
}

// NewServer returns the HTTP handler for store.
func NewServer(store *Store, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	s := &Server{store: store, logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/collections/user/{id}", s.handleCollection)
	r.Get("/users/{id}", s.handleUser)
	r.Route("/songs", func(r chi.Router) {
		r.Get("/my-songs", s.handleMySongs)
		r.Post("/", s.handleCreateSong)
	})
	r.Route("/concerts/{id}", func(r chi.Router) {
		r.Get("/", s.handleConcert)
		r.Put("/", s.handleUpdateConcert)
	})
	r.Route("/files", func(r chi.Router) {
		r.Post("/upload", s.handleUpload)
		r.Get("/{key}/{name}", s.handleDownload)
		r.Delete("/", s.handleDeleteFile)
	})

	s.router = r
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"took", time.Since(start).Round(time.Microsecond),
			"id", middleware.GetReqID(r.Context()))
	})
}

func (s *Server) handleCollection(w http.ResponseWriter, r *http.Request) {
	uid, ok := pathID(w, r, "user")
	if !ok {
		return
	}
	page, err := queryInt(r, "page", catalog.DefaultPage)
	if err != nil || page < 0 {
		writeError(w, http.StatusBadRequest, "invalid page")
		return
	}
	size, err := queryInt(r, "size", catalog.DefaultPageSize)
	if err != nil || size <= 0 || size > maxPageSize {
		writeError(w, http.StatusBadRequest, "invalid size")
		return
	}
	writeJSON(w, http.StatusOK, s.store.Collection(uid, page, size))
}

func (s *Server) handleUser(w http.ResponseWriter, r *http.Request) {
	uid, ok := pathID(w, r, "user")
	if !ok {
		return
	}
	u, found := s.store.User(uid)
	if !found {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (s *Server) handleMySongs(w http.ResponseWriter, r *http.Request) {
	uid, ok := currentUser(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, s.store.SongsByArtist(uid))
}

func (s *Server) handleCreateSong(w http.ResponseWriter, r *http.Request) {
	uid, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req struct {
		Title    string `json:"title"`
		URL      string `json:"url"`
		ArtistID int64  `json:"artistId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	if strings.TrimSpace(req.Title) == "" || req.URL == "" {
		writeError(w, http.StatusBadRequest, "title and url are required")
		return
	}
	if req.ArtistID != uid {
		writeError(w, http.StatusForbidden, "cannot register songs for another artist")
		return
	}
	writeJSON(w, http.StatusCreated, s.store.CreateSong(req.Title, req.URL, req.ArtistID))
}

func (s *Server) handleConcert(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "concert")
	if !ok {
		return
	}
	c, found := s.store.Concert(id)
	if !found {
		writeError(w, http.StatusNotFound, "concert not found")
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (s *Server) handleUpdateConcert(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "concert")
	if !ok {
		return
	}
	uid, ok := currentUser(w, r)
	if !ok {
		return
	}
	artist, found := s.store.ConcertArtist(id)
	if !found {
		writeError(w, http.StatusNotFound, "concert not found")
		return
	}
	if artist != uid {
		writeError(w, http.StatusForbidden, "not your concert")
		return
	}
	var u catalog.ConcertUpdate
	if err := json.NewDecoder(r.Body).Decode(&u); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	if err := s.store.UpdateConcert(id, u); err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			writeError(w, http.StatusNotFound, "concert not found")
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, serrors.MaxUploadSize+1<<20)
	f, hdr, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing file")
		return
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		writeError(w, http.StatusBadRequest, "read file")
		return
	}
	if err := serrors.ValidateUploadFile(hdr.Filename, int64(len(data))); err != nil {
		writeError(w, http.StatusBadRequest, serrors.UserMessage(err))
		return
	}
	key := s.store.PutFile(hdr.Filename, data)
	writeJSON(w, http.StatusOK, fileURL(r, key, hdr.Filename))
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	name, data, ok := s.store.File(chi.URLParam(r, "key"))
	if !ok || name != chi.URLParam(r, "name") {
		writeError(w, http.StatusNotFound, "file not found")
		return
	}
	w.Header().Set("Content-Type", http.DetectContentType(data))
	_, _ = w.Write(data)
}

func (s *Server) handleDeleteFile(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("fileUrl")
	key, ok := fileKey(raw)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid fileUrl")
		return
	}
	if !s.store.DeleteFile(key) {
		writeError(w, http.StatusNotFound, "file not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// fileURL is the public URL of an uploaded file.
func fileURL(r *http.Request, key, name string) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	u := url.URL{Scheme: scheme, Host: r.Host, Path: "/files/" + key + "/" + name}
	return u.String()
}

// fileKey extracts the store key from a URL produced by fileURL.
func fileKey(raw string) (string, bool) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", false
	}
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(parts) != 3 || parts[0] != "files" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

func pathID(w http.ResponseWriter, r *http.Request, kind string) (int64, bool) {
	raw := chi.URLParam(r, "id")
	if err := serrors.ValidateID(kind, raw); err != nil {
		writeError(w, http.StatusBadRequest, serrors.UserMessage(err))
		return 0, false
	}
	id, _ := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	return id, true
}

func currentUser(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := r.Header.Get(session.UserIDHeader)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusUnauthorized, "sign in required")
		return 0, false
	}
	return id, true
}

func queryInt(r *http.Request, key string, def int) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
